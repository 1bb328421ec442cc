package paint

import (
	"log/slog"
	"sync"

	"golang.org/x/sync/singleflight"
)

// MeshMetrics are the geometry counts of one prefab.
type MeshMetrics struct {
	Triangles int
	Vertices  int
}

// SessionStats are the running totals of committed placements.
type SessionStats struct {
	Objects   int
	Triangles int
	Vertices  int
}

// MetricsCache memoizes mesh metrics per prefab. Each key is measured at most
// once until invalidated, even when looked up from several goroutines.
type MetricsCache struct {
	measurer MeshMeasurer
	logger   *slog.Logger

	mu      sync.RWMutex
	metrics map[PrefabID]MeshMetrics
	group   singleflight.Group
}

// NewMetricsCache returns an empty cache backed by measurer.
func NewMetricsCache(measurer MeshMeasurer, logger *slog.Logger) *MetricsCache {
	if logger == nil {
		logger = slog.Default()
	}
	return &MetricsCache{
		measurer: measurer,
		logger:   logger,
		metrics:  make(map[PrefabID]MeshMetrics),
	}
}

// Lookup returns the metrics for id, measuring on first use.
// A failed measurement counts as zero geometry and is cached as such.
func (c *MetricsCache) Lookup(id PrefabID) MeshMetrics {
	c.mu.RLock()
	m, ok := c.metrics[id]
	c.mu.RUnlock()
	if ok {
		return m
	}

	v, _, _ := c.group.Do(string(id), func() (any, error) {
		c.mu.RLock()
		m, ok := c.metrics[id]
		c.mu.RUnlock()
		if ok {
			return m, nil
		}
		if c.measurer != nil {
			var err error
			m, err = c.measurer.MeasureMesh(id)
			if err != nil {
				c.logger.Warn("mesh metrics unavailable", "prefab", id, "error", err)
				m = MeshMetrics{}
			}
		}
		c.mu.Lock()
		c.metrics[id] = m
		c.mu.Unlock()
		return m, nil
	})
	return v.(MeshMetrics)
}

// Cached reports the memoized metrics for id without measuring.
func (c *MetricsCache) Cached(id PrefabID) (MeshMetrics, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	m, ok := c.metrics[id]
	return m, ok
}

// Invalidate drops the memoized metrics for id.
func (c *MetricsCache) Invalidate(id PrefabID) {
	c.mu.Lock()
	delete(c.metrics, id)
	c.mu.Unlock()
}

// StatsTracker accumulates SessionStats from committed placements.
type StatsTracker struct {
	cache *MetricsCache
	stats SessionStats
}

// NewStatsTracker returns a zeroed tracker using cache for metrics.
func NewStatsTracker(cache *MetricsCache) *StatsTracker {
	return &StatsTracker{cache: cache}
}

// RecordPlacement adds one instance of prefab to the totals.
func (t *StatsTracker) RecordPlacement(prefab PrefabID) {
	m := t.cache.Lookup(prefab)
	t.stats.Objects++
	t.stats.Triangles += m.Triangles
	t.stats.Vertices += m.Vertices
}

// Stats returns the current totals.
func (t *StatsTracker) Stats() SessionStats { return t.stats }

// Reset zeroes the totals. Cached metrics are kept.
func (t *StatsTracker) Reset() { t.stats = SessionStats{} }
