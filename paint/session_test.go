package paint

import (
	"testing"
	"time"

	"gonum.org/v1/gonum/spatial/r3"
)

func newTestSession(h *fakeHost, prefabs ...PrefabEntry) *Session {
	placement := DefaultPlacement()
	placement.MinScale, placement.MaxScale = 1, 1
	tag := "Ground"
	return NewSession(h.host(), Options{
		Prefabs:    prefabs,
		Placement:  &placement,
		Throttle:   Throttle{MinInterval: 500 * time.Millisecond},
		SurfaceTag: &tag,
	})
}

// stroke runs a down at t=0 then one move per entry of times, all on the same tag.
func stroke(s *Session, h *fakeHost, tag string, times ...float64) {
	h.at(0)
	h.aim(r3.Vec{}, tag)
	s.PointerDown(Pointer{})
	for i, at := range times {
		h.at(at)
		h.aim(r3.Vec{X: float64(i + 1)}, tag)
		s.PointerMove(Pointer{})
	}
}

func TestSessionEndToEnd(t *testing.T) {
	h := newFakeHost()
	h.metrics["A"] = MeshMetrics{Triangles: 12, Vertices: 8}
	s := newTestSession(h, PrefabEntry{ID: "A", Weight: 1})

	h.at(0)
	h.aim(r3.Vec{}, "Ground")
	s.PointerDown(Pointer{})

	first, prefab, tr, ok := s.Pending()
	if !ok || prefab != "A" {
		t.Fatalf("expected pending A after pointer down, got (%v, %q, %v)", first, prefab, ok)
	}
	if tr.Position != (r3.Vec{}) {
		t.Errorf("pending spawned at %v, want origin", tr.Position)
	}
	if s.State() != StateDragging {
		t.Errorf("state = %v, want dragging", s.State())
	}

	h.at(0.6)
	h.aim(r3.Vec{X: 1}, "Ground")
	s.PointerMove(Pointer{})

	hist := s.History()
	if len(hist) != 1 || hist[0] != first {
		t.Fatalf("history = %v, want [%v]", hist, first)
	}
	if got := h.live[first].Position; !vecNear(got, r3.Vec{X: 1}, 1e-12) {
		t.Errorf("committed instance at %v, want (1,0,0)", got)
	}
	second, _, tr, ok := s.Pending()
	if !ok || second == first {
		t.Fatalf("expected a fresh pending instance, got %v", second)
	}
	if !vecNear(tr.Position, r3.Vec{X: 1}, 1e-12) {
		t.Errorf("new pending at %v, want (1,0,0)", tr.Position)
	}

	s.PointerUp(Pointer{})
	if _, alive := h.live[second]; alive {
		t.Error("pending instance should be destroyed on pointer up")
	}
	if _, alive := h.live[first]; !alive {
		t.Error("committed instance should survive pointer up")
	}
	if len(s.History()) != 1 {
		t.Errorf("history changed on pointer up: %v", s.History())
	}
	if got := s.Stats(); got.Objects != 1 || got.Triangles != 12 || got.Vertices != 8 {
		t.Errorf("stats = %+v, want 1 object, 12 triangles, 8 vertices", got)
	}
	if s.State() != StateIdle {
		t.Errorf("state = %v, want idle", s.State())
	}
}

func TestSessionThrottle(t *testing.T) {
	h := newFakeHost()
	s := newTestSession(h, PrefabEntry{ID: "A", Weight: 1})

	stroke(s, h, "Ground", 0.3, 0.6, 0.9)

	if n := len(s.History()); n != 1 {
		t.Fatalf("history length = %d, want 1 (only the 0.6 move commits)", n)
	}
	if got := s.Stats().Objects; got != 1 {
		t.Errorf("objects = %d, want 1", got)
	}

	h.at(1.1)
	h.aim(r3.Vec{X: 9}, "Ground")
	s.PointerMove(Pointer{})
	if n := len(s.History()); n != 2 {
		t.Errorf("history length = %d after 0.5s since last commit, want 2", n)
	}
}

func TestSessionFilterSuppressesCommitButFollows(t *testing.T) {
	h := newFakeHost()
	s := newTestSession(h, PrefabEntry{ID: "A", Weight: 1})

	stroke(s, h, "Water", 1, 2, 3)

	if n := len(s.History()); n != 0 {
		t.Fatalf("history length = %d on a Water surface, want 0", n)
	}
	_, _, tr, ok := s.Pending()
	if !ok {
		t.Fatal("expected pending instance to keep following")
	}
	if !vecNear(tr.Position, r3.Vec{X: 3}, 1e-12) {
		t.Errorf("pending at %v, want (3,0,0)", tr.Position)
	}
}

func TestSessionRaycastMissIgnored(t *testing.T) {
	h := newFakeHost()
	s := newTestSession(h, PrefabEntry{ID: "A", Weight: 1})

	stroke(s, h, "Ground")
	_, _, before, _ := s.Pending()

	h.at(5)
	h.miss()
	s.PointerMove(Pointer{})

	_, _, after, _ := s.Pending()
	if after.Position != before.Position || len(s.History()) != 0 {
		t.Error("a raycast miss should neither move nor commit")
	}
	if s.State() != StateDragging {
		t.Errorf("state = %v, want dragging", s.State())
	}
}

func TestSessionStartOffSurface(t *testing.T) {
	h := newFakeHost()
	s := newTestSession(h, PrefabEntry{ID: "A", Weight: 1})

	h.miss()
	s.PointerDown(Pointer{})
	if _, _, _, ok := s.Pending(); ok {
		t.Fatal("no pending instance expected when the stroke starts off-surface")
	}

	h.at(1)
	h.aim(r3.Vec{Z: 2}, "Ground")
	s.PointerMove(Pointer{})
	_, _, tr, ok := s.Pending()
	if !ok || !vecNear(tr.Position, r3.Vec{Z: 2}, 1e-12) {
		t.Fatalf("expected pending spawned at first hit, got %v (%v)", tr.Position, ok)
	}
	if n := len(s.History()); n != 0 {
		t.Errorf("spawning the first pending instance should not commit, history = %d", n)
	}

	// The throttle counts from the spawn, not from the pointer down.
	h.at(1.001)
	h.aim(r3.Vec{Z: 3}, "Ground")
	s.PointerMove(Pointer{})
	if n := len(s.History()); n != 0 {
		t.Errorf("move 1ms after the first spawn committed, history = %v", s.History())
	}

	h.at(1.5)
	h.aim(r3.Vec{Z: 4}, "Ground")
	s.PointerMove(Pointer{})
	if n := len(s.History()); n != 1 {
		t.Errorf("move one interval after the first spawn: history = %d, want 1", n)
	}
}

func TestSessionUndo(t *testing.T) {
	h := newFakeHost()
	s := newTestSession(h, PrefabEntry{ID: "A", Weight: 1})
	s.SetThrottle(Throttle{})

	stroke(s, h, "Ground", 1, 2, 3, 4, 5)
	s.PointerUp(Pointer{})

	hist := s.History()
	if len(hist) != 5 {
		t.Fatalf("history length = %d, want 5", len(hist))
	}
	for m := 1; m <= 3; m++ {
		want := hist[len(hist)-m]
		s.UndoLast()
		if got := h.destroyed[len(h.destroyed)-1]; got != want {
			t.Errorf("undo %d destroyed %v, want %v", m, got, want)
		}
		if n := len(s.History()); n != 5-m {
			t.Errorf("after %d undos history = %d, want %d", m, n, 5-m)
		}
	}

	s.UndoLast()
	s.UndoLast()
	s.UndoLast() // empty: no-op
	if n := len(s.History()); n != 0 {
		t.Errorf("history = %d, want 0", n)
	}
}

func TestSessionClearAllIdempotent(t *testing.T) {
	h := newFakeHost()
	h.metrics["A"] = MeshMetrics{Triangles: 1, Vertices: 3}
	s := newTestSession(h, PrefabEntry{ID: "A", Weight: 1})
	s.SetThrottle(Throttle{})

	stroke(s, h, "Ground", 1, 2, 3)
	s.PointerUp(Pointer{})

	s.ClearAll()
	if len(s.History()) != 0 || s.Stats() != (SessionStats{}) {
		t.Fatalf("after clear: history %v, stats %+v", s.History(), s.Stats())
	}
	if len(h.live) != 0 {
		t.Errorf("%d instances still alive after clear", len(h.live))
	}
	destroyed := len(h.destroyed)

	s.ClearAll()
	if len(s.History()) != 0 || s.Stats() != (SessionStats{}) || len(h.destroyed) != destroyed {
		t.Error("second clear should leave the same state")
	}
}

func TestSessionStatsAccuracy(t *testing.T) {
	h := newFakeHost()
	h.metrics["A"] = MeshMetrics{Triangles: 120, Vertices: 64}
	s := newTestSession(h, PrefabEntry{ID: "A", Weight: 1})
	s.SetThrottle(Throttle{})

	stroke(s, h, "Ground", 1, 2, 3)

	want := SessionStats{Objects: 3, Triangles: 360, Vertices: 192}
	if got := s.Stats(); got != want {
		t.Errorf("stats = %+v, want %+v", got, want)
	}
	if calls := h.measureCalls["A"]; calls != 1 {
		t.Errorf("mesh measured %d times, want 1", calls)
	}
}

func TestSessionMetricsFailureCountsZero(t *testing.T) {
	h := newFakeHost()
	s := newTestSession(h, PrefabEntry{ID: "empty", Weight: 1})
	s.SetThrottle(Throttle{})

	stroke(s, h, "Ground", 1, 2)

	if got := s.Stats(); got != (SessionStats{Objects: 2}) {
		t.Errorf("stats = %+v, want 2 objects and no geometry", got)
	}
}

func TestSessionZeroWeightsNoInstances(t *testing.T) {
	h := newFakeHost()
	s := newTestSession(h, PrefabEntry{ID: "A"}, PrefabEntry{ID: "B"})
	s.SetThrottle(Throttle{})

	stroke(s, h, "Ground", 1, 2, 3)
	s.PointerUp(Pointer{})

	if len(h.live) != 0 || h.nextID != 0 {
		t.Errorf("zero weights created %d instances", h.nextID)
	}
	if len(s.History()) != 0 {
		t.Error("history should stay empty")
	}
}

func TestSessionInstantiateFailure(t *testing.T) {
	h := newFakeHost()
	h.failOn["A"] = true
	s := newTestSession(h, PrefabEntry{ID: "A", Weight: 1})
	s.SetThrottle(Throttle{})

	stroke(s, h, "Ground", 1, 2)
	if _, _, _, ok := s.Pending(); ok {
		t.Error("failed instantiation should leave no pending instance")
	}
	if len(s.History()) != 0 {
		t.Error("failed instantiation should not commit")
	}
}

func TestSessionUnusableHandleDestroyed(t *testing.T) {
	h := newFakeHost()
	s := newTestSession(h, PrefabEntry{ID: "A", Weight: 1})
	s.SetThrottle(Throttle{})

	h.at(0)
	h.aim(r3.Vec{}, "Ground")
	s.PointerDown(Pointer{})
	first, _, _, _ := s.Pending()

	// The next spawn comes back with the handle just committed.
	h.reuse = first
	h.at(0.1)
	h.aim(r3.Vec{X: 1}, "Ground")
	s.PointerMove(Pointer{})

	if hist := s.History(); len(hist) != 1 || hist[0] != first {
		t.Fatalf("history = %v, want [%v]", hist, first)
	}
	if _, _, _, ok := s.Pending(); ok {
		t.Error("a reused handle must not become the pending instance")
	}
	if len(h.destroyed) != 1 || h.destroyed[0] != first {
		t.Errorf("destroyed = %v, want [%v]", h.destroyed, first)
	}
}

func TestSessionDeactivateDiscardsPending(t *testing.T) {
	h := newFakeHost()
	s := newTestSession(h, PrefabEntry{ID: "A", Weight: 1})

	stroke(s, h, "Ground")
	pendingHandle, _, _, _ := s.Pending()

	s.SetActive(false)
	if _, alive := h.live[pendingHandle]; alive {
		t.Error("deactivation should destroy the pending instance")
	}
	if s.State() != StateIdle {
		t.Errorf("state = %v, want idle", s.State())
	}

	h.aim(r3.Vec{}, "Ground")
	s.PointerDown(Pointer{})
	if s.State() != StateIdle || h.nextID != 1 {
		t.Error("inactive session should ignore pointer events")
	}

	s.SetActive(true)
	s.PointerDown(Pointer{})
	if s.State() != StateDragging {
		t.Error("reactivated session should accept strokes")
	}
}

func TestSessionAltSuppressesMove(t *testing.T) {
	h := newFakeHost()
	s := newTestSession(h, PrefabEntry{ID: "A", Weight: 1})
	s.SetThrottle(Throttle{})

	stroke(s, h, "Ground")
	h.at(1)
	h.aim(r3.Vec{X: 4}, "Ground")
	s.PointerMove(Pointer{Alt: true})

	_, _, tr, _ := s.Pending()
	if tr.Position != (r3.Vec{}) || len(s.History()) != 0 {
		t.Error("moves with the navigation modifier held should be ignored")
	}
}

func TestSessionSecondDownDiscardsPending(t *testing.T) {
	h := newFakeHost()
	s := newTestSession(h, PrefabEntry{ID: "A", Weight: 1})

	stroke(s, h, "Ground")
	first, _, _, _ := s.Pending()
	s.PointerDown(Pointer{})

	if _, alive := h.live[first]; alive {
		t.Error("restarting a stroke should destroy the old pending instance")
	}
	if len(s.History()) != 0 {
		t.Error("restarting a stroke should not commit")
	}
}

func TestSessionParent(t *testing.T) {
	h := newFakeHost()
	s := newTestSession(h, PrefabEntry{ID: "A", Weight: 1})
	s.SetParent(77)

	stroke(s, h, "Ground")
	id, _, _, _ := s.Pending()
	if h.parents[id] != 77 {
		t.Errorf("parent = %v, want 77", h.parents[id])
	}
}

func TestSetPrefabsInvalidatesNewMetrics(t *testing.T) {
	h := newFakeHost()
	h.metrics["A"] = MeshMetrics{Triangles: 2, Vertices: 2}
	s := newTestSession(h, PrefabEntry{ID: "A", Weight: 1})
	s.SetThrottle(Throttle{})

	stroke(s, h, "Ground", 1)
	s.PointerUp(Pointer{})

	// A leaves the list, its mesh changes, then it comes back.
	s.SetPrefabs([]PrefabEntry{{ID: "B", Weight: 1}})
	h.metrics["A"] = MeshMetrics{Triangles: 10, Vertices: 10}
	s.SetPrefabs([]PrefabEntry{{ID: "A", Weight: 1}})

	stroke(s, h, "Ground", 1)
	if got := s.Stats(); got.Triangles != 12 {
		t.Errorf("triangles = %d, want 12 after re-measuring A", got.Triangles)
	}
	if h.measureCalls["A"] != 2 {
		t.Errorf("A measured %d times, want 2", h.measureCalls["A"])
	}
}

func TestSessionRecordsEvents(t *testing.T) {
	h := newFakeHost()
	var events []Event
	placement := DefaultPlacement()
	s := NewSession(h.host(), Options{
		Prefabs:   []PrefabEntry{{ID: "A", Weight: 1}},
		Placement: &placement,
		Recorder:  RecorderFunc(func(ev Event) { events = append(events, ev) }),
	})

	stroke(s, h, DefaultSurfaceTag, 1)
	s.PointerUp(Pointer{})
	s.UndoLast()
	s.ClearAll()

	want := []EventType{EventStrokeStart, EventCommit, EventStrokeEnd, EventUndo, EventClear}
	if len(events) != len(want) {
		t.Fatalf("got %d events, want %d", len(events), len(want))
	}
	for i, typ := range want {
		if events[i].Type != typ {
			t.Errorf("event %d = %v, want %v", i, events[i].Type, typ)
		}
	}
	if events[1].Stats.Objects != 1 {
		t.Errorf("commit event stats = %+v, want 1 object", events[1].Stats)
	}
	if events[2].Handle == 0 || events[2].Handle == events[1].Handle {
		t.Errorf("stroke end handle = %d, want the discarded pending instance", events[2].Handle)
	}
}
