package paint

import (
	"errors"
	"math"
	"time"

	"gonum.org/v1/gonum/spatial/r3"
)

// fakeHost is a scripted scene: the next raycast result is set directly.
type fakeHost struct {
	hit    Hit
	hitOK  bool
	nextID Handle
	reuse  Handle // when set, Instantiate hands this handle out again

	live      map[Handle]Transform
	prefabOf  map[Handle]PrefabID
	parents   map[Handle]Handle
	destroyed []Handle
	failOn    map[PrefabID]bool

	metrics      map[PrefabID]MeshMetrics
	measureCalls map[PrefabID]int

	clock ManualClock
	rng   fixedRand
}

func newFakeHost() *fakeHost {
	return &fakeHost{
		live:         make(map[Handle]Transform),
		prefabOf:     make(map[Handle]PrefabID),
		parents:      make(map[Handle]Handle),
		failOn:       make(map[PrefabID]bool),
		metrics:      make(map[PrefabID]MeshMetrics),
		measureCalls: make(map[PrefabID]int),
		rng:          fixedRand{v: 0.5},
	}
}

func (h *fakeHost) host() Host {
	return Host{Raycaster: h, Instancer: h, Measurer: h, Clock: &h.clock, Random: &h.rng}
}

func (h *fakeHost) aim(point r3.Vec, tag string) {
	h.hit = Hit{Point: point, Normal: r3.Vec{Y: 1}, Tag: tag}
	h.hitOK = true
}

func (h *fakeHost) miss() { h.hitOK = false }

func (h *fakeHost) at(seconds float64) {
	h.clock.Set(time.Duration(math.Round(seconds * float64(time.Second))))
}

func (h *fakeHost) Raycast(Pointer) (Hit, bool) { return h.hit, h.hitOK }

func (h *fakeHost) Instantiate(prefab PrefabID, t Transform) (Handle, error) {
	if h.failOn[prefab] {
		return 0, errors.New("no such prefab")
	}
	id := h.reuse
	if id == 0 {
		h.nextID++
		id = h.nextID
	}
	h.live[id] = t
	h.prefabOf[id] = prefab
	return id, nil
}

func (h *fakeHost) Move(id Handle, t Transform) {
	if _, ok := h.live[id]; ok {
		h.live[id] = t
	}
}

func (h *fakeHost) Destroy(id Handle) {
	if _, ok := h.live[id]; !ok {
		return
	}
	delete(h.live, id)
	h.destroyed = append(h.destroyed, id)
}

func (h *fakeHost) Reparent(id, parent Handle) { h.parents[id] = parent }

func (h *fakeHost) MeasureMesh(prefab PrefabID) (MeshMetrics, error) {
	h.measureCalls[prefab]++
	m, ok := h.metrics[prefab]
	if !ok {
		return MeshMetrics{}, errors.New("no renderable geometry")
	}
	return m, nil
}

// fixedRand maps every draw to the same fraction of the requested interval.
type fixedRand struct {
	v float64
}

func (r *fixedRand) Range(min, max float64) float64 {
	return min + r.v*(max-min)
}

// seqRand returns fractions from a fixed sequence, cycling.
type seqRand struct {
	vals []float64
	i    int
}

func (r *seqRand) Range(min, max float64) float64 {
	v := r.vals[r.i%len(r.vals)]
	r.i++
	return min + v*(max-min)
}

func vecNear(a, b r3.Vec, eps float64) bool {
	return r3.Norm(r3.Sub(a, b)) <= eps
}
