package telemetry

import (
	"log/slog"
	"slices"

	"gonum.org/v1/gonum/stat"
)

// Percentile computes the p-th percentile of a sorted slice using gonum's
// linear interpolation. p is clamped to [0, 1]; an empty slice yields 0.
func Percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	return stat.Quantile(min(max(p, 0), 1), stat.LinInterp, sorted, nil)
}

// ComputeIntervalStats returns the mean and p10/p50/p90 of a set of intervals.
func ComputeIntervalStats(values []float64) (mean, p10, p50, p90 float64) {
	if len(values) == 0 {
		return 0, 0, 0, 0
	}

	sorted := slices.Clone(values)
	slices.Sort(sorted)

	mean = stat.Mean(sorted, nil)
	p10 = Percentile(sorted, 0.10)
	p50 = Percentile(sorted, 0.50)
	p90 = Percentile(sorted, 0.90)

	return mean, p10, p50, p90
}

// LogValue implements slog.LogValuer for structured logging.
func (s StrokeRecord) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("stroke", s.Stroke),
		slog.Float64("start", s.StartSec),
		slog.Float64("end", s.EndSec),
		slog.Bool("on_surface", s.OnSurface),
		slog.Int("commits", s.Commits),
		slog.Bool("discarded", s.Discarded),
		slog.Float64("interval_p50", s.IntervalP50),
		slog.Int("objects", s.Objects),
		slog.Int("triangles", s.Triangles),
		slog.Int("vertices", s.Vertices),
	)
}

// LogValue implements slog.LogValuer for structured logging.
func (c Counters) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("strokes", c.Strokes),
		slog.Int("commits", c.Commits),
		slog.Int("discards", c.Discards),
		slog.Int("undos", c.Undos),
		slog.Int("clears", c.Clears),
		slog.Int("destroyed", c.Destroyed),
	)
}
