package main

import (
	"slices"

	"github.com/pthm-cable/meshpaint/config"
)

// ParamSpec defines a single tunable parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Path    string  // Config path for logging
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Default value
}

// ParamVector holds the set of tunable painting parameters: the throttle
// interval, the brush radius and one weight per prefab.
type ParamVector struct {
	Specs []ParamSpec
}

// Fixed parameters preceding the per-prefab weights.
const (
	paramInterval = iota
	paramRadius
	numFixedParams
)

// NewParamVector creates the parameter set for cfg. Defaults are taken from
// cfg and clamped into bounds.
func NewParamVector(cfg *config.Config) *ParamVector {
	specs := []ParamSpec{
		{Name: "min_interval", Path: "throttle.min_interval", Min: 0.02, Max: 2.0},
		{Name: "brush_radius", Path: "brush.radius", Min: 0.0, Max: 3.0},
	}
	for _, p := range cfg.Prefabs {
		specs = append(specs, ParamSpec{Name: "weight_" + p.ID, Path: "prefabs." + p.ID + ".weight", Min: 0, Max: 1})
	}
	pv := &ParamVector{Specs: specs}
	defaults := pv.Clamp(pv.ExtractFromConfig(cfg))
	for i := range pv.Specs {
		pv.Specs[i].Default = defaults[i]
	}
	return pv
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the default parameter values as a slice.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return v
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp ensures all values are within bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		clamped[i] = min(max(v[i], spec.Min), spec.Max)
	}
	return clamped
}

// ApplyToConfig writes parameter values into cfg and recomputes its derived
// values. Order must match Specs.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	clamped := pv.Clamp(values)

	cfg.Throttle.MinInterval = clamped[paramInterval]
	cfg.Brush.Radius = clamped[paramRadius]
	for i := range cfg.Prefabs {
		cfg.Prefabs[i].Weight = clamped[numFixedParams+i]
	}
	cfg.ComputeDerived()
}

// ExtractFromConfig extracts current parameter values from cfg.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	v := []float64{cfg.Throttle.MinInterval, cfg.Brush.Radius}
	for _, p := range cfg.Prefabs {
		v = append(v, p.Weight)
	}
	return v
}

// copyConfig returns a copy of base that ApplyToConfig may edit without
// touching base.
func copyConfig(base *config.Config) *config.Config {
	cfg := *base
	cfg.Prefabs = slices.Clone(base.Prefabs)
	return &cfg
}
