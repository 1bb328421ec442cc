package telemetry

import (
	"log/slog"
	"time"

	"github.com/pthm-cable/meshpaint/paint"
)

// Collector accumulates paint session events into placement and stroke
// records. It implements paint.Recorder.
type Collector struct {
	logger *slog.Logger

	counters   Counters
	placements []PlacementRecord
	strokes    []StrokeRecord

	// Records already handed to an OutputManager
	placementsFlushed int
	strokesFlushed    int

	stroke  int // number of the current or last stroke
	current *strokeState
}

type strokeState struct {
	record     StrokeRecord
	lastCommit time.Duration
	intervals  []float64
}

// NewCollector creates an empty collector.
func NewCollector(logger *slog.Logger) *Collector {
	if logger == nil {
		logger = slog.Default()
	}
	return &Collector{logger: logger}
}

// Record implements paint.Recorder.
func (c *Collector) Record(ev paint.Event) {
	switch ev.Type {
	case paint.EventStrokeStart:
		c.counters.Strokes++
		c.stroke++
		c.current = &strokeState{
			record:     StrokeRecord{Stroke: c.stroke, StartSec: ev.At.Seconds(), OnSurface: ev.Hit},
			lastCommit: ev.At,
		}

	case paint.EventCommit:
		c.counters.Commits++
		c.placements = append(c.placements, placementFromEvent(c.stroke, ev))
		if c.current != nil {
			c.current.record.Commits++
			c.current.intervals = append(c.current.intervals, (ev.At - c.current.lastCommit).Seconds())
			c.current.lastCommit = ev.At
		}

	case paint.EventStrokeEnd:
		if ev.Handle != 0 {
			c.counters.Discards++
		}
		if c.current == nil {
			return
		}
		rec := c.current.record
		rec.EndSec = ev.At.Seconds()
		rec.Discarded = ev.Handle != 0
		rec.IntervalMean, rec.IntervalP10, rec.IntervalP50, rec.IntervalP90 = ComputeIntervalStats(c.current.intervals)
		rec.Objects = ev.Stats.Objects
		rec.Triangles = ev.Stats.Triangles
		rec.Vertices = ev.Stats.Vertices
		c.strokes = append(c.strokes, rec)
		c.current = nil
		c.logger.Debug("stroke", "summary", rec)

	case paint.EventUndo:
		c.counters.Undos++

	case paint.EventClear:
		c.counters.Clears++
		c.counters.Destroyed += ev.Count
	}
}

// Counters returns the session-wide event counts.
func (c *Collector) Counters() Counters {
	return c.counters
}

// Placements returns every committed placement recorded so far.
func (c *Collector) Placements() []PlacementRecord {
	out := make([]PlacementRecord, len(c.placements))
	copy(out, c.placements)
	return out
}

// Strokes returns every finished stroke recorded so far.
func (c *Collector) Strokes() []StrokeRecord {
	out := make([]StrokeRecord, len(c.strokes))
	copy(out, c.strokes)
	return out
}

// Flush writes records not yet written to om. A nil om is a no-op.
func (c *Collector) Flush(om *OutputManager) error {
	if om == nil {
		return nil
	}
	if err := om.WritePlacements(c.placements[c.placementsFlushed:]); err != nil {
		return err
	}
	c.placementsFlushed = len(c.placements)
	if err := om.WriteStrokes(c.strokes[c.strokesFlushed:]); err != nil {
		return err
	}
	c.strokesFlushed = len(c.strokes)
	return nil
}
