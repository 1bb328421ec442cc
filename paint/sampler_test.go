package paint

import (
	"math"
	"testing"
	"time"

	"gonum.org/v1/gonum/spatial/r3"
)

func TestThrottleSequence(t *testing.T) {
	th := Throttle{MinInterval: 500 * time.Millisecond}
	last := time.Duration(0)
	var committed []time.Duration

	// The stroke placement at 0.0 sets last; later checks gate on it.
	committed = append(committed, 0)
	for _, ms := range []int{300, 600, 900} {
		now := time.Duration(ms) * time.Millisecond
		if th.Allow(now, last) {
			committed = append(committed, now)
			last = now
		}
	}

	want := []time.Duration{0, 600 * time.Millisecond}
	if len(committed) != len(want) {
		t.Fatalf("committed at %v, want %v", committed, want)
	}
	for i := range want {
		if committed[i] != want[i] {
			t.Errorf("commit %d at %v, want %v", i, committed[i], want[i])
		}
	}
}

func TestThrottleZeroIntervalAlwaysAllows(t *testing.T) {
	th := Throttle{}
	if !th.Allow(time.Second, time.Second) {
		t.Error("zero interval should allow immediately")
	}
}

func TestSurfaceFilter(t *testing.T) {
	f := SurfaceFilter{RequiredTag: "Ground"}
	if f.Accepts("Water") {
		t.Error("Water should not match Ground")
	}
	if f.Accepts("ground") {
		t.Error("tag match should be case sensitive")
	}
	if !f.Accepts("Ground") {
		t.Error("Ground should match Ground")
	}
}

func TestSpawnAlignedToNormal(t *testing.T) {
	s := NewSampler(&fixedRand{v: 0.25})
	cfg := DefaultPlacement()
	cfg.MinScale, cfg.MaxScale = 1, 3

	normals := []r3.Vec{
		{Y: 1},
		{X: 1},
		{Y: -1},
		r3.Unit(r3.Vec{X: 1, Y: 1, Z: -1}),
	}
	for _, n := range normals {
		point := r3.Vec{X: 2, Y: 3, Z: 4}
		tr := s.Spawn(point, n, cfg)
		if tr.Position != point {
			t.Errorf("position = %v, want raw hit point %v", tr.Position, point)
		}
		if up := Up(tr.Rotation); !vecNear(up, n, 1e-9) {
			t.Errorf("normal %v: up axis = %v", n, up)
		}
		if math.Abs(tr.Scale-1.5) > 1e-12 {
			t.Errorf("scale = %v, want 1.5", tr.Scale)
		}
	}
}

func TestSpawnAlignedAppliesYaw(t *testing.T) {
	// Yaw range collapsed to 90 degrees about +Y on a flat surface.
	s := NewSampler(&fixedRand{v: 0})
	cfg := DefaultPlacement()
	cfg.MinRotY, cfg.MaxRotY = 90, 90

	tr := s.Spawn(r3.Vec{}, r3.Vec{Y: 1}, cfg)
	got := tr.Rotation.Rotate(r3.Vec{X: 1})
	if !vecNear(got, r3.Vec{Z: -1}, 1e-9) {
		t.Errorf("+X after 90 degree yaw = %v, want -Z", got)
	}
}

func TestSpawnUnalignedOrder(t *testing.T) {
	s := NewSampler(&fixedRand{v: 0})
	cfg := PlacementConfig{
		MinScale: 1, MaxScale: 1,
		MinRotX: 90, MaxRotX: 90,
		MinRotY: 90, MaxRotY: 90,
		MinRotZ: 0, MaxRotZ: 0,
	}

	tr := s.Spawn(r3.Vec{}, r3.Vec{X: 1}, cfg)
	// X first takes +Y to +Z, then Y takes +Z to +X.
	if got := Up(tr.Rotation); !vecNear(got, r3.Vec{X: 1}, 1e-9) {
		t.Errorf("up = %v, want +X", got)
	}
}

func TestSpawnUnalignedZeroRangesIsIdentity(t *testing.T) {
	s := NewSampler(&fixedRand{v: 0.7})
	cfg := PlacementConfig{MinScale: 2, MaxScale: 2}
	tr := s.Spawn(r3.Vec{X: 1}, r3.Vec{X: 1}, cfg)
	if got := Up(tr.Rotation); !vecNear(got, r3.Vec{Y: 1}, 1e-12) {
		t.Errorf("up = %v, want +Y", got)
	}
	if tr.Scale != 2 {
		t.Errorf("scale = %v, want 2", tr.Scale)
	}
}

func TestFollowMovesByHitDelta(t *testing.T) {
	s := NewSampler(&fixedRand{v: 0.5})
	cfg := DefaultPlacement()
	start := Transform{Position: r3.Vec{X: 0.5, Z: 0.5}, Rotation: Identity(), Scale: 0.7}

	got := s.Follow(start, r3.Vec{}, Hit{Point: r3.Vec{X: 1, Y: 2}, Normal: r3.Vec{X: 1}}, cfg)
	if want := (r3.Vec{X: 1.5, Y: 2, Z: 0.5}); !vecNear(got.Position, want, 1e-12) {
		t.Errorf("position = %v, want %v", got.Position, want)
	}
	if up := Up(got.Rotation); !vecNear(up, r3.Vec{X: 1}, 1e-9) {
		t.Errorf("up after realignment = %v, want +X", up)
	}
	if got.Scale != start.Scale {
		t.Errorf("scale changed from %v to %v", start.Scale, got.Scale)
	}

	cfg.AlignToNormal = false
	got = s.Follow(start, r3.Vec{}, Hit{Point: r3.Vec{X: 1}, Normal: r3.Vec{X: 1}}, cfg)
	if up := Up(got.Rotation); !vecNear(up, r3.Vec{Y: 1}, 1e-12) {
		t.Errorf("unaligned follow rotated up to %v", up)
	}
}

func TestFromToOpposite(t *testing.T) {
	r := FromTo(r3.Vec{Y: 1}, r3.Vec{Y: -1})
	if got := r.Rotate(r3.Vec{Y: 1}); !vecNear(got, r3.Vec{Y: -1}, 1e-9) {
		t.Errorf("FromTo(+Y, -Y) maps +Y to %v", got)
	}
}

func TestAxisAngle(t *testing.T) {
	r := r3.NewRotation(math.Pi/3, r3.Vec{Z: 2})
	axis, angle := AxisAngle(r)
	if !vecNear(axis, r3.Vec{Z: 1}, 1e-9) || math.Abs(angle-math.Pi/3) > 1e-9 {
		t.Errorf("AxisAngle = (%v, %v), want (+Z, pi/3)", axis, angle)
	}
	if _, angle := AxisAngle(Identity()); angle != 0 {
		t.Errorf("identity angle = %v, want 0", angle)
	}
}

func TestBrushSpawnPoint(t *testing.T) {
	hit := Hit{Point: r3.Vec{X: 5, Y: 1, Z: 5}, Normal: r3.Vec{Y: 1}}
	rng := &seqRand{vals: []float64{0.1, 0.9, 0.4, 0.6, 1, 0}}

	tests := []struct {
		name  string
		brush Brush
	}{
		{"none", Brush{Kind: BrushNone, Radius: 3}},
		{"mesh falls back to point", Brush{Kind: BrushMesh, Radius: 3}},
		{"circle", Brush{Kind: BrushCircle, Radius: 2}},
		{"square", Brush{Kind: BrushSquare, Radius: 2}},
		{"circle zero radius", Brush{Kind: BrushCircle}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for i := 0; i < 6; i++ {
				p := tt.brush.SpawnPoint(hit, rng)
				d := r3.Sub(p, hit.Point)
				if math.Abs(d.Y) > 1e-12 {
					t.Fatalf("spawn point left the tangent plane: %v", p)
				}
				switch tt.brush.Kind {
				case BrushCircle:
					if r3.Norm(d) > tt.brush.Radius+1e-12 {
						t.Fatalf("circle spawn %v outside radius %v", p, tt.brush.Radius)
					}
				case BrushSquare:
					if math.Abs(d.X) > tt.brush.Radius+1e-12 || math.Abs(d.Z) > tt.brush.Radius+1e-12 {
						t.Fatalf("square spawn %v outside half-size %v", p, tt.brush.Radius)
					}
				default:
					if p != hit.Point {
						t.Fatalf("spawn = %v, want hit point", p)
					}
				}
			}
		})
	}
}

func TestParseBrushKind(t *testing.T) {
	for _, k := range []BrushKind{BrushNone, BrushCircle, BrushSquare, BrushMesh} {
		got, err := ParseBrushKind(k.String())
		if err != nil || got != k {
			t.Errorf("ParseBrushKind(%q) = (%v, %v)", k.String(), got, err)
		}
	}
	if _, err := ParseBrushKind("spray"); err == nil {
		t.Error("expected error for unknown brush")
	}
}

func TestPlacementOrdered(t *testing.T) {
	cfg := DefaultPlacement()
	cfg.MinScale, cfg.MaxScale = 2, 1
	cfg.MinRotY, cfg.MaxRotY = 30, -30

	got := cfg.Ordered()
	if got.MaxScale != 2 {
		t.Errorf("MaxScale = %v, want 2", got.MaxScale)
	}
	if got.MaxRotY != 30 {
		t.Errorf("MaxRotY = %v, want 30", got.MaxRotY)
	}
	if got.MinRotX != -180 || got.MaxRotX != 180 {
		t.Errorf("rot x changed: [%v, %v]", got.MinRotX, got.MaxRotX)
	}
	if cfg.MaxScale != 1 {
		t.Error("Ordered modified its receiver")
	}
}
