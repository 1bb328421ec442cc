package paint

import "gonum.org/v1/gonum/spatial/r3"

// PlacementConfig controls the randomized transform of new instances.
// Rotation bounds are in degrees.
type PlacementConfig struct {
	MinScale, MaxScale float64
	MinRotX, MaxRotX   float64
	MinRotY, MaxRotY   float64
	MinRotZ, MaxRotZ   float64
	AlignToNormal      bool
}

// DefaultPlacement mirrors the tool's stock settings.
func DefaultPlacement() PlacementConfig {
	return PlacementConfig{
		MinScale: 0.01, MaxScale: 1,
		MinRotX: -180, MaxRotX: 180,
		MinRotY: -180, MaxRotY: 180,
		MinRotZ: -180, MaxRotZ: 180,
		AlignToNormal: true,
	}
}

// Ordered returns cfg with every maximum raised to its minimum where the two
// have crossed. Editors call it after the user drags a bound past the other.
func (cfg PlacementConfig) Ordered() PlacementConfig {
	pairs := []struct{ min, max *float64 }{
		{&cfg.MinScale, &cfg.MaxScale},
		{&cfg.MinRotX, &cfg.MaxRotX},
		{&cfg.MinRotY, &cfg.MaxRotY},
		{&cfg.MinRotZ, &cfg.MaxRotZ},
	}
	for _, p := range pairs {
		if *p.max < *p.min {
			*p.max = *p.min
		}
	}
	return cfg
}

// Sampler computes instance transforms from surface hits.
type Sampler struct {
	rng Random
}

// NewSampler returns a sampler drawing from rng.
func NewSampler(rng Random) *Sampler {
	return &Sampler{rng: rng}
}

// Spawn returns the transform for a new instance at point on a surface with
// the given normal.
//
// Aligned: the up axis is turned onto the normal by the shortest arc, then a
// random yaw is applied about that aligned up axis. Unaligned: independent
// random rotations about X, then Y, then Z.
func (s *Sampler) Spawn(point, normal r3.Vec, cfg PlacementConfig) Transform {
	var rot r3.Rotation
	if cfg.AlignToNormal {
		yaw := r3.NewRotation(degToRad(s.rng.Range(cfg.MinRotY, cfg.MaxRotY)), axisY)
		rot = Compose(FromTo(axisY, normal), yaw)
	} else {
		rx := r3.NewRotation(degToRad(s.rng.Range(cfg.MinRotX, cfg.MaxRotX)), axisX)
		ry := r3.NewRotation(degToRad(s.rng.Range(cfg.MinRotY, cfg.MaxRotY)), axisY)
		rz := r3.NewRotation(degToRad(s.rng.Range(cfg.MinRotZ, cfg.MaxRotZ)), axisZ)
		rot = Compose(rz, Compose(ry, rx))
	}
	return Transform{
		Position: point,
		Rotation: rot,
		Scale:    s.rng.Range(cfg.MinScale, cfg.MaxScale),
	}
}

// Follow moves a pending instance by the delta between two successive hits and,
// when aligning, turns its current up axis onto the new normal.
// Scale is left untouched.
func (s *Sampler) Follow(t Transform, lastHit r3.Vec, hit Hit, cfg PlacementConfig) Transform {
	t.Position = r3.Add(t.Position, r3.Sub(hit.Point, lastHit))
	if cfg.AlignToNormal {
		t.Rotation = Compose(FromTo(Up(t.Rotation), hit.Normal), t.Rotation)
	}
	return t
}
