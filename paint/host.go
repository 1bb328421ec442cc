// Package paint implements the paint-stroke controller: it turns pointer events
// into weighted, throttled object placements on a host-owned scene.
package paint

import (
	"math/rand"
	"time"

	"gonum.org/v1/gonum/spatial/r3"
)

// PrefabID identifies a placeable prefab. The empty ID marks an unassigned slot.
type PrefabID string

// Handle identifies a host-side instance. The zero Handle means "no instance".
type Handle uint64

// Pointer is a pointer event in screen space.
type Pointer struct {
	X, Y float64
	Alt  bool // navigation modifier held; painting is suppressed on move
}

// Hit is the result of a successful raycast.
type Hit struct {
	Point  r3.Vec
	Normal r3.Vec
	Tag    string
}

// Transform is the world placement of an instance.
type Transform struct {
	Position r3.Vec
	Rotation r3.Rotation
	Scale    float64 // uniform on all three axes
}

// Raycaster resolves a screen pointer to a surface hit.
type Raycaster interface {
	Raycast(p Pointer) (Hit, bool)
}

// Instancer creates, destroys and parents host instances.
type Instancer interface {
	Instantiate(prefab PrefabID, t Transform) (Handle, error)
	Move(h Handle, t Transform)
	Destroy(h Handle)
	Reparent(h, parent Handle)
}

// MeshMeasurer reports triangle and vertex counts for a prefab, summed over all
// of its renderable sub-meshes.
type MeshMeasurer interface {
	MeasureMesh(prefab PrefabID) (MeshMetrics, error)
}

// Clock returns a monotonic timestamp.
type Clock interface {
	Now() time.Duration
}

// Random draws uniform values from the closed interval [min, max].
type Random interface {
	Range(min, max float64) float64
}

// Host bundles the collaborators a Session drives.
type Host struct {
	Raycaster Raycaster
	Instancer Instancer
	Measurer  MeshMeasurer
	Clock     Clock
	Random    Random
}

// SystemClock measures time since it was created.
type SystemClock struct {
	start time.Time
}

// NewSystemClock returns a clock starting at zero now.
func NewSystemClock() *SystemClock {
	return &SystemClock{start: time.Now()}
}

// Now returns the elapsed time since the clock was created.
func (c *SystemClock) Now() time.Duration {
	return time.Since(c.start)
}

// ManualClock is a clock advanced explicitly, used for replays and tests.
type ManualClock struct {
	t time.Duration
}

// Now returns the current manual time.
func (c *ManualClock) Now() time.Duration { return c.t }

// Set moves the clock to t.
func (c *ManualClock) Set(t time.Duration) { c.t = t }

// Advance moves the clock forward by d.
func (c *ManualClock) Advance(d time.Duration) { c.t += d }

// Rand is a Random backed by math/rand.
type Rand struct {
	rng *rand.Rand
}

// NewRand returns a seeded random source.
func NewRand(seed int64) *Rand {
	return &Rand{rng: rand.New(rand.NewSource(seed))}
}

// closedSteps is the resolution of Range: a 53-bit grid including both ends.
const closedSteps = 1 << 53

// Range returns a uniform value in [min, max], both ends included.
// Reversed bounds are swapped.
func (r *Rand) Range(min, max float64) float64 {
	if max < min {
		min, max = max, min
	}
	f := float64(r.rng.Int63n(closedSteps+1)) / closedSteps
	return min + f*(max-min)
}
