package telemetry

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gocarina/gocsv"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/meshpaint/config"
	"github.com/pthm-cable/meshpaint/paint"
)

func sec(s float64) time.Duration {
	return time.Duration(math.Round(s * float64(time.Second)))
}

// playStroke feeds a stroke with commits at the given times.
func playStroke(c *Collector, start float64, commits []float64, end float64, discarded paint.Handle) {
	c.Record(paint.Event{Type: paint.EventStrokeStart, At: sec(start), Hit: true})
	for i, at := range commits {
		c.Record(paint.Event{
			Type:     paint.EventCommit,
			At:       sec(at),
			Handle:   paint.Handle(100 + i),
			Prefab:   "rock",
			Position: r3.Vec{X: float64(i)},
			Stats:    paint.SessionStats{Objects: i + 1, Triangles: 12 * (i + 1), Vertices: 8 * (i + 1)},
		})
	}
	n := len(commits)
	c.Record(paint.Event{
		Type:   paint.EventStrokeEnd,
		At:     sec(end),
		Handle: discarded,
		Stats:  paint.SessionStats{Objects: n, Triangles: 12 * n, Vertices: 8 * n},
	})
}

func TestCollectorStrokeSummary(t *testing.T) {
	c := NewCollector(nil)
	playStroke(c, 0, []float64{0.6, 1.2, 1.8}, 2.0, 7)

	strokes := c.Strokes()
	if len(strokes) != 1 {
		t.Fatalf("got %d strokes, want 1", len(strokes))
	}
	s := strokes[0]
	if s.Stroke != 1 || s.Commits != 3 || !s.Discarded || !s.OnSurface {
		t.Errorf("stroke = %+v", s)
	}
	if math.Abs(s.IntervalMean-0.6) > 1e-9 || math.Abs(s.IntervalP50-0.6) > 1e-9 {
		t.Errorf("intervals mean=%v p50=%v, want 0.6", s.IntervalMean, s.IntervalP50)
	}
	if s.EndSec != 2.0 || s.Objects != 3 || s.Triangles != 36 {
		t.Errorf("end=%v objects=%d triangles=%d", s.EndSec, s.Objects, s.Triangles)
	}

	placements := c.Placements()
	if len(placements) != 3 || placements[2].Stroke != 1 || placements[2].Objects != 3 {
		t.Errorf("placements = %+v", placements)
	}
}

func TestCollectorCounters(t *testing.T) {
	c := NewCollector(nil)
	playStroke(c, 0, []float64{0.5}, 0.7, 3)
	playStroke(c, 1, nil, 1.1, 0)
	c.Record(paint.Event{Type: paint.EventUndo, Handle: 100})
	c.Record(paint.Event{Type: paint.EventClear, Count: 4})
	c.Record(paint.Event{Type: paint.EventClear})

	want := Counters{Strokes: 2, Commits: 1, Discards: 1, Undos: 1, Clears: 2, Destroyed: 4}
	if got := c.Counters(); got != want {
		t.Errorf("Counters() = %+v, want %+v", got, want)
	}
	if s := c.Strokes(); s[1].Stroke != 2 || s[1].Discarded {
		t.Errorf("second stroke = %+v", s[1])
	}
}

func TestCollectorWithSession(t *testing.T) {
	c := NewCollector(nil)
	var _ paint.Recorder = c

	s := paint.NewSession(paint.Host{}, paint.Options{Recorder: c})
	s.PointerDown(paint.Pointer{})
	s.PointerUp(paint.Pointer{})

	if got := c.Counters(); got.Strokes != 1 || got.Discards != 0 {
		t.Errorf("counters = %+v", got)
	}
	if st := c.Strokes(); len(st) != 1 || st[0].OnSurface {
		t.Errorf("strokes = %+v, want one off-surface stroke", st)
	}
}

func TestOutputManagerDisabled(t *testing.T) {
	om, err := NewOutputManager("")
	if err != nil || om != nil {
		t.Fatalf("NewOutputManager(\"\") = %v, %v; want nil, nil", om, err)
	}
	// Nil manager methods are no-ops
	if err := om.WritePlacements([]PlacementRecord{{}}); err != nil {
		t.Error(err)
	}
	if err := NewCollector(nil).Flush(om); err != nil {
		t.Error(err)
	}
	if err := om.Close(); err != nil {
		t.Error(err)
	}
}

func TestFlushWritesHeaderOnce(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "run")
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatal(err)
	}

	c := NewCollector(nil)
	playStroke(c, 0, []float64{0.5, 1.0}, 1.2, 9)
	if err := c.Flush(om); err != nil {
		t.Fatal(err)
	}
	playStroke(c, 2, []float64{2.5}, 2.6, 0)
	if err := c.Flush(om); err != nil {
		t.Fatal(err)
	}
	// Nothing new: no duplicate rows
	if err := c.Flush(om); err != nil {
		t.Fatal(err)
	}

	cfg, err := config.Load("")
	if err != nil {
		t.Fatal(err)
	}
	if err := om.WriteConfig(cfg); err != nil {
		t.Fatal(err)
	}
	if err := om.Close(); err != nil {
		t.Fatal(err)
	}

	var placements []PlacementRecord
	data, err := os.ReadFile(filepath.Join(dir, "placements.csv"))
	if err != nil {
		t.Fatal(err)
	}
	if n := strings.Count(string(data), "stroke,time"); n != 1 {
		t.Errorf("placements.csv has %d headers, want 1", n)
	}
	if err := gocsv.UnmarshalBytes(data, &placements); err != nil {
		t.Fatal(err)
	}
	if len(placements) != 3 {
		t.Fatalf("read %d placements, want 3", len(placements))
	}
	if placements[2].Stroke != 2 || placements[2].Prefab != "rock" {
		t.Errorf("last placement = %+v", placements[2])
	}

	var strokes []StrokeRecord
	f, err := os.Open(filepath.Join(dir, "strokes.csv"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := gocsv.UnmarshalFile(f, &strokes); err != nil {
		t.Fatal(err)
	}
	if len(strokes) != 2 || !strokes[0].Discarded || strokes[1].Commits != 1 {
		t.Errorf("strokes = %+v", strokes)
	}

	if _, err := os.Stat(filepath.Join(dir, "config.yaml")); err != nil {
		t.Errorf("config.yaml not written: %v", err)
	}
}
