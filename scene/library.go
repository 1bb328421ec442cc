// Package scene is the ECS-backed host the paint session drives: it owns the
// paintable surfaces, the painted instances and the prefab geometry table.
package scene

import (
	"errors"
	"fmt"

	"github.com/pthm-cable/meshpaint/config"
	"github.com/pthm-cable/meshpaint/paint"
)

var (
	// ErrUnknownPrefab is returned when instantiating a prefab the library lacks.
	ErrUnknownPrefab = errors.New("unknown prefab")
	// ErrNoGeometry is returned when measuring a prefab with no renderable meshes.
	ErrNoGeometry = errors.New("prefab has no geometry")
	// ErrUnknownInstance is returned when looking up a handle the world does not hold.
	ErrUnknownInstance = errors.New("unknown instance")
)

// MeshKind distinguishes static and skinned sub-meshes.
type MeshKind uint8

const (
	MeshStatic MeshKind = iota
	MeshSkinned
)

func (k MeshKind) String() string {
	if k == MeshSkinned {
		return "skinned"
	}
	return "static"
}

// MeshDef is one renderable sub-mesh of a prefab.
type MeshDef struct {
	Kind      MeshKind
	Triangles int
	Vertices  int
}

// PrefabDef describes how a prefab looks and how heavy its geometry is.
type PrefabDef struct {
	ID     paint.PrefabID
	Shape  string // cube, sphere, cylinder
	Color  [3]uint8
	Meshes []MeshDef
}

// Library maps prefab ids to their definitions.
type Library struct {
	defs map[paint.PrefabID]PrefabDef
}

// NewLibrary creates a library from definitions. Later duplicates win.
func NewLibrary(defs ...PrefabDef) *Library {
	l := &Library{defs: make(map[paint.PrefabID]PrefabDef, len(defs))}
	for _, d := range defs {
		l.defs[d.ID] = d
	}
	return l
}

// LibraryFromConfig builds the library from the prefabs section.
func LibraryFromConfig(cfg *config.Config) *Library {
	defs := make([]PrefabDef, 0, len(cfg.Prefabs))
	for _, p := range cfg.Prefabs {
		if p.ID == "" {
			continue
		}
		d := PrefabDef{ID: paint.PrefabID(p.ID), Shape: p.Shape, Color: p.Color}
		for _, m := range p.Meshes {
			kind := MeshStatic
			if m.Kind == "skinned" {
				kind = MeshSkinned
			}
			d.Meshes = append(d.Meshes, MeshDef{Kind: kind, Triangles: m.Triangles, Vertices: m.Vertices})
		}
		defs = append(defs, d)
	}
	return NewLibrary(defs...)
}

// Get returns the definition for id.
func (l *Library) Get(id paint.PrefabID) (PrefabDef, bool) {
	d, ok := l.defs[id]
	return d, ok
}

// Measure sums triangle and vertex counts over every static and skinned
// sub-mesh of the prefab.
func (l *Library) Measure(id paint.PrefabID) (paint.MeshMetrics, error) {
	d, ok := l.defs[id]
	if !ok {
		return paint.MeshMetrics{}, fmt.Errorf("measuring %q: %w", id, ErrUnknownPrefab)
	}
	if len(d.Meshes) == 0 {
		return paint.MeshMetrics{}, fmt.Errorf("measuring %q: %w", id, ErrNoGeometry)
	}
	var m paint.MeshMetrics
	for _, mesh := range d.Meshes {
		m.Triangles += mesh.Triangles
		m.Vertices += mesh.Vertices
	}
	return m, nil
}
