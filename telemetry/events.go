// Package telemetry records paint sessions: per-placement and per-stroke CSV
// logs plus frame timing for the editor.
package telemetry

import "github.com/pthm-cable/meshpaint/paint"

// PlacementRecord is one committed instance.
type PlacementRecord struct {
	Stroke  int     `csv:"stroke"`
	TimeSec float64 `csv:"time"`
	Handle  uint64  `csv:"handle"`
	Prefab  string  `csv:"prefab"`
	X       float64 `csv:"x"`
	Y       float64 `csv:"y"`
	Z       float64 `csv:"z"`

	// Running totals after the commit
	Objects   int `csv:"objects"`
	Triangles int `csv:"triangles"`
	Vertices  int `csv:"vertices"`
}

// StrokeRecord summarizes one pointer-down to pointer-up stroke.
type StrokeRecord struct {
	Stroke    int     `csv:"stroke"`
	StartSec  float64 `csv:"start"`
	EndSec    float64 `csv:"end"`
	OnSurface bool    `csv:"on_surface"` // initial raycast hit
	Commits   int     `csv:"commits"`
	Discarded bool    `csv:"discarded"` // a pending instance was destroyed on release

	// Seconds between consecutive commits
	IntervalMean float64 `csv:"interval_mean"`
	IntervalP10  float64 `csv:"interval_p10"`
	IntervalP50  float64 `csv:"interval_p50"`
	IntervalP90  float64 `csv:"interval_p90"`

	Objects   int `csv:"objects"`
	Triangles int `csv:"triangles"`
	Vertices  int `csv:"vertices"`
}

// Counters are session-wide event counts.
type Counters struct {
	Strokes   int
	Commits   int
	Discards  int
	Undos     int
	Clears    int
	Destroyed int // instances removed by clears
}

func placementFromEvent(stroke int, ev paint.Event) PlacementRecord {
	return PlacementRecord{
		Stroke:    stroke,
		TimeSec:   ev.At.Seconds(),
		Handle:    uint64(ev.Handle),
		Prefab:    string(ev.Prefab),
		X:         ev.Position.X,
		Y:         ev.Position.Y,
		Z:         ev.Position.Z,
		Objects:   ev.Stats.Objects,
		Triangles: ev.Stats.Triangles,
		Vertices:  ev.Stats.Vertices,
	}
}
