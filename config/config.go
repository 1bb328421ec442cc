// Package config provides configuration loading for the mesh painter.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"time"

	"gonum.org/v1/gonum/spatial/r3"
	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/meshpaint/paint"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

// Config holds all painter configuration parameters.
type Config struct {
	Window    WindowConfig    `yaml:"window"`
	Brush     BrushConfig     `yaml:"brush"`
	Placement PlacementConfig `yaml:"placement"`
	Throttle  ThrottleConfig  `yaml:"throttle"`
	Surface   SurfaceConfig   `yaml:"surface"`
	Parent    string          `yaml:"parent"` // scene group new instances are parented under ("" = none)
	Prefabs   []PrefabConfig  `yaml:"prefabs"`
	Scene     SceneConfig     `yaml:"scene"`
	Camera    CameraConfig    `yaml:"camera"`
	Output    OutputConfig    `yaml:"output"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// WindowConfig holds display settings.
type WindowConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// BrushConfig selects the brush footprint.
type BrushConfig struct {
	Type            string  `yaml:"type"`             // none, circle, square, mesh
	Radius          float64 `yaml:"radius"`           // footprint radius for circle/square
	RaycastDistance float64 `yaml:"raycast_distance"` // max ray length (0 = unlimited)
}

// PlacementConfig holds the randomized transform ranges. Angles in degrees.
type PlacementConfig struct {
	MinScale      float64 `yaml:"min_scale"`
	MaxScale      float64 `yaml:"max_scale"`
	MinRotX       float64 `yaml:"min_rot_x"`
	MaxRotX       float64 `yaml:"max_rot_x"`
	MinRotY       float64 `yaml:"min_rot_y"`
	MaxRotY       float64 `yaml:"max_rot_y"`
	MinRotZ       float64 `yaml:"min_rot_z"`
	MaxRotZ       float64 `yaml:"max_rot_z"`
	AlignToNormal bool    `yaml:"align_to_normal"`
}

// ThrottleConfig holds the commit rate limit.
type ThrottleConfig struct {
	MinInterval float64 `yaml:"min_interval"` // seconds between commits
}

// SurfaceConfig holds the surface filter.
type SurfaceConfig struct {
	Tag string `yaml:"tag"`
}

// PrefabConfig defines one paintable prefab and its weight.
type PrefabConfig struct {
	ID     string       `yaml:"id"`
	Weight float64      `yaml:"weight"` // 0..1
	Shape  string       `yaml:"shape"`  // cube, sphere, cylinder (editor drawing only)
	Color  [3]uint8     `yaml:"color"`
	Meshes []MeshConfig `yaml:"meshes"`
}

// MeshConfig describes one renderable sub-mesh of a prefab.
type MeshConfig struct {
	Kind      string `yaml:"kind"` // static or skinned
	Triangles int    `yaml:"triangles"`
	Vertices  int    `yaml:"vertices"`
}

// SceneConfig lists the paintable surfaces and parent groups.
type SceneConfig struct {
	Surfaces []SurfaceDef `yaml:"surfaces"`
	Groups   []string     `yaml:"groups"`
}

// SurfaceDef describes a static collider.
type SurfaceDef struct {
	Name   string     `yaml:"name"`
	Tag    string     `yaml:"tag"`
	Kind   string     `yaml:"kind"`   // plane or box
	Center [3]float64 `yaml:"center"`
	Size   [3]float64 `yaml:"size"`   // full extents; plane uses x and z
	Normal [3]float64 `yaml:"normal"` // plane only (default +Y)
}

// CameraConfig holds the initial orbit camera.
type CameraConfig struct {
	Target   [3]float64 `yaml:"target"`
	Distance float64    `yaml:"distance"`
	Yaw      float64    `yaml:"yaw"`   // degrees
	Pitch    float64    `yaml:"pitch"` // degrees
	Fovy     float64    `yaml:"fovy"`  // degrees
}

// OutputConfig holds telemetry output settings.
type OutputConfig struct {
	Dir string `yaml:"dir"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	BrushKind   paint.BrushKind
	MinInterval time.Duration
	PrefabIndex map[string]int // id -> index into Prefabs
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Lists in the user file replace the defaults wholesale.
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.ComputeDerived()
	return cfg, nil
}

// Validate checks ranges and enumerations.
func (c *Config) Validate() error {
	if _, err := paint.ParseBrushKind(c.Brush.Type); err != nil {
		return fmt.Errorf("%w: brush.type: %v", ErrInvalid, err)
	}
	if c.Brush.Radius < 0 {
		return fmt.Errorf("%w: brush.radius must be >= 0", ErrInvalid)
	}
	p := c.Placement
	ranges := []struct {
		name     string
		min, max float64
	}{
		{"scale", p.MinScale, p.MaxScale},
		{"rot_x", p.MinRotX, p.MaxRotX},
		{"rot_y", p.MinRotY, p.MaxRotY},
		{"rot_z", p.MinRotZ, p.MaxRotZ},
	}
	for _, r := range ranges {
		if r.min > r.max {
			return fmt.Errorf("%w: placement.min_%s %v > max_%s %v", ErrInvalid, r.name, r.min, r.name, r.max)
		}
	}
	if c.Throttle.MinInterval < 0 {
		return fmt.Errorf("%w: throttle.min_interval must be >= 0", ErrInvalid)
	}
	seen := make(map[string]bool, len(c.Prefabs))
	for i, pf := range c.Prefabs {
		if pf.Weight < 0 || pf.Weight > 1 {
			return fmt.Errorf("%w: prefabs[%d].weight %v outside [0,1]", ErrInvalid, i, pf.Weight)
		}
		if pf.ID != "" && seen[pf.ID] {
			return fmt.Errorf("%w: prefabs[%d]: duplicate id %q", ErrInvalid, i, pf.ID)
		}
		seen[pf.ID] = true
		for j, m := range pf.Meshes {
			if m.Kind != "static" && m.Kind != "skinned" {
				return fmt.Errorf("%w: prefabs[%d].meshes[%d].kind %q", ErrInvalid, i, j, m.Kind)
			}
		}
	}
	for i, s := range c.Scene.Surfaces {
		if s.Kind != "plane" && s.Kind != "box" {
			return fmt.Errorf("%w: scene.surfaces[%d].kind %q", ErrInvalid, i, s.Kind)
		}
	}
	return nil
}

// ComputeDerived recalculates values derived from the loaded fields. Call it
// again after editing a config in place.
func (c *Config) ComputeDerived() {
	c.Derived.BrushKind, _ = paint.ParseBrushKind(c.Brush.Type)
	c.Derived.MinInterval = time.Duration(c.Throttle.MinInterval * float64(time.Second))
	c.Derived.PrefabIndex = make(map[string]int, len(c.Prefabs))
	for i, p := range c.Prefabs {
		c.Derived.PrefabIndex[p.ID] = i
	}
}

// PrefabEntries returns the candidate list for a paint session.
func (c *Config) PrefabEntries() []paint.PrefabEntry {
	out := make([]paint.PrefabEntry, len(c.Prefabs))
	for i, p := range c.Prefabs {
		out[i] = paint.PrefabEntry{ID: paint.PrefabID(p.ID), Weight: p.Weight}
	}
	return out
}

// PaintPlacement converts the placement section.
func (c *Config) PaintPlacement() paint.PlacementConfig {
	p := c.Placement
	return paint.PlacementConfig{
		MinScale: p.MinScale, MaxScale: p.MaxScale,
		MinRotX: p.MinRotX, MaxRotX: p.MaxRotX,
		MinRotY: p.MinRotY, MaxRotY: p.MaxRotY,
		MinRotZ: p.MinRotZ, MaxRotZ: p.MaxRotZ,
		AlignToNormal: p.AlignToNormal,
	}
}

// SessionOptions builds paint session options from the config. Parent is
// resolved by the caller since it names a scene object.
func (c *Config) SessionOptions() paint.Options {
	placement := c.PaintPlacement()
	tag := c.Surface.Tag
	return paint.Options{
		Prefabs:    c.PrefabEntries(),
		Placement:  &placement,
		Throttle:   paint.Throttle{MinInterval: c.Derived.MinInterval},
		SurfaceTag: &tag,
		Brush:      paint.Brush{Kind: c.Derived.BrushKind, Radius: c.Brush.Radius},
	}
}

// Vec converts a YAML triple to a vector.
func Vec(v [3]float64) r3.Vec {
	return r3.Vec{X: v[0], Y: v[1], Z: v[2]}
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
