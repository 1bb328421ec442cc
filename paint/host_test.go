package paint

import (
	"math/rand"
	"testing"
)

// constSource always yields the same 63-bit value.
type constSource int64

func (c constSource) Int63() int64 { return int64(c) }
func (constSource) Seed(int64)     {}

func TestRandRangeClosed(t *testing.T) {
	tests := []struct {
		name     string
		src      int64
		min, max float64
		want     float64
	}{
		{"lower end", 0, 2, 5, 2},
		{"upper end", closedSteps, 2, 5, 5},
		{"midpoint", closedSteps / 2, 0, 1, 0.5},
		{"reversed bounds", closedSteps, 5, 2, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &Rand{rng: rand.New(constSource(tt.src))}
			if got := r.Range(tt.min, tt.max); got != tt.want {
				t.Errorf("Range(%v, %v) = %v, want %v", tt.min, tt.max, got, tt.want)
			}
		})
	}
}

func TestRandRangeBounds(t *testing.T) {
	r := NewRand(1)
	for i := 0; i < 10000; i++ {
		if v := r.Range(-1, 3); v < -1 || v > 3 {
			t.Fatalf("draw %d = %v outside [-1, 3]", i, v)
		}
	}
}
