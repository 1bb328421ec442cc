package paint

import "time"

// Throttle gates commits on the time elapsed since the last placement.
type Throttle struct {
	MinInterval time.Duration
}

// Allow reports whether a placement at now is permitted after one at last.
// The caller records last only when a placement actually happens.
func (t Throttle) Allow(now, last time.Duration) bool {
	return now-last >= t.MinInterval
}
