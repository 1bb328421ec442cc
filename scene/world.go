package scene

import (
	"fmt"
	"log/slog"
	"math"
	"slices"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/meshpaint/camera"
	"github.com/pthm-cable/meshpaint/components"
	"github.com/pthm-cable/meshpaint/config"
	"github.com/pthm-cable/meshpaint/paint"
)

// InstanceView is a snapshot of one painted instance.
type InstanceView struct {
	Handle    paint.Handle
	Prefab    paint.PrefabID
	Transform paint.Transform
	Parent    paint.Handle
}

// World stores surfaces, groups and painted instances in an ark ECS world and
// implements the paint host capabilities on top of it.
type World struct {
	world   *ecs.World
	library *Library
	logger  *slog.Logger

	// Instance components
	instanceMapper *ecs.Map3[components.Transform, components.Instance, components.Parent]
	instanceFilter *ecs.Filter3[components.Transform, components.Instance, components.Parent]
	transformMap   *ecs.Map1[components.Transform]
	parentMap      *ecs.Map1[components.Parent]

	surfaceMapper *ecs.Map1[components.Surface]
	surfaceFilter *ecs.Filter1[components.Surface]
	groupMapper   *ecs.Map1[components.Group]

	// Handle lookup. Handles are never reused.
	instances  map[paint.Handle]ecs.Entity
	groups     map[paint.Handle]ecs.Entity
	groupNames map[string]paint.Handle
	nextHandle paint.Handle
}

// NewWorld creates an empty world backed by the given prefab library.
func NewWorld(library *Library, logger *slog.Logger) *World {
	if logger == nil {
		logger = slog.Default()
	}
	world := ecs.NewWorld()
	return &World{
		world:          world,
		library:        library,
		logger:         logger,
		instanceMapper: ecs.NewMap3[components.Transform, components.Instance, components.Parent](world),
		instanceFilter: ecs.NewFilter3[components.Transform, components.Instance, components.Parent](world),
		transformMap:   ecs.NewMap1[components.Transform](world),
		parentMap:      ecs.NewMap1[components.Parent](world),
		surfaceMapper:  ecs.NewMap1[components.Surface](world),
		surfaceFilter:  ecs.NewFilter1[components.Surface](world),
		groupMapper:    ecs.NewMap1[components.Group](world),
		instances:      make(map[paint.Handle]ecs.Entity),
		groups:         make(map[paint.Handle]ecs.Entity),
		groupNames:     make(map[string]paint.Handle),
		nextHandle:     1,
	}
}

// Build creates a world populated with the configured prefabs, surfaces and groups.
func Build(cfg *config.Config, logger *slog.Logger) *World {
	w := NewWorld(LibraryFromConfig(cfg), logger)
	for _, def := range cfg.Scene.Surfaces {
		w.AddSurface(SurfaceFromConfig(def))
	}
	for _, name := range cfg.Scene.Groups {
		w.AddGroup(name)
	}
	return w
}

// Library returns the prefab library.
func (w *World) Library() *Library {
	return w.library
}

// AddSurface registers a paintable collider. Plane normals are normalized.
func (w *World) AddSurface(s components.Surface) {
	if s.Kind == components.ShapePlane {
		if r3.Norm(s.Normal) < rayEps {
			s.Normal = r3.Vec{Y: 1}
		}
		s.Normal = r3.Unit(s.Normal)
	}
	w.surfaceMapper.NewEntity(&s)
}

// Surfaces returns a copy of every registered surface.
func (w *World) Surfaces() []components.Surface {
	var out []components.Surface
	query := w.surfaceFilter.Query()
	for query.Next() {
		out = append(out, *query.Get())
	}
	return out
}

// AddGroup creates a named parent object and returns its handle. Adding an
// existing name returns the existing handle.
func (w *World) AddGroup(name string) paint.Handle {
	if h, ok := w.groupNames[name]; ok {
		return h
	}
	h := w.allocHandle()
	g := components.Group{Handle: uint64(h), Name: name}
	w.groups[h] = w.groupMapper.NewEntity(&g)
	w.groupNames[name] = h
	return h
}

// Group looks up a group handle by name.
func (w *World) Group(name string) (paint.Handle, bool) {
	h, ok := w.groupNames[name]
	return h, ok
}

// Raycast returns the nearest surface hit along ray. maxDistance <= 0 means unlimited.
func (w *World) Raycast(ray camera.Ray, maxDistance float64) (paint.Hit, bool) {
	limit := math.Inf(1)
	if maxDistance > 0 {
		limit = maxDistance
	}

	best := limit
	var hit paint.Hit
	found := false

	query := w.surfaceFilter.Query()
	for query.Next() {
		s := query.Get()
		t, n, ok := intersect(s, ray)
		if !ok || t > best {
			continue
		}
		best = t
		hit = paint.Hit{Point: ray.At(t), Normal: n, Tag: s.Tag}
		found = true
	}
	return hit, found
}

// Instantiate creates an instance of prefab at t.
func (w *World) Instantiate(prefab paint.PrefabID, t paint.Transform) (paint.Handle, error) {
	if _, ok := w.library.Get(prefab); !ok {
		return 0, fmt.Errorf("instantiating %q: %w", prefab, ErrUnknownPrefab)
	}
	h := w.allocHandle()
	tr := components.Transform{Position: t.Position, Rotation: t.Rotation, Scale: t.Scale}
	inst := components.Instance{Handle: uint64(h), Prefab: string(prefab)}
	parent := components.Parent{}
	w.instances[h] = w.instanceMapper.NewEntity(&tr, &inst, &parent)
	return h, nil
}

// Move updates the transform of an instance. Unknown handles are ignored.
func (w *World) Move(h paint.Handle, t paint.Transform) {
	e, ok := w.instances[h]
	if !ok {
		return
	}
	tr := w.transformMap.Get(e)
	tr.Position = t.Position
	tr.Rotation = t.Rotation
	tr.Scale = t.Scale
}

// Destroy removes an instance or a group. Children of a destroyed group move
// to the scene root. Unknown handles are a no-op.
func (w *World) Destroy(h paint.Handle) {
	if e, ok := w.instances[h]; ok {
		w.world.RemoveEntity(e)
		delete(w.instances, h)
		w.detachChildren(h)
		return
	}
	if e, ok := w.groups[h]; ok {
		name := w.groupMapper.Get(e).Name
		w.world.RemoveEntity(e)
		delete(w.groups, h)
		delete(w.groupNames, name)
		w.detachChildren(h)
	}
}

// detachChildren moves every instance parented to h back to the root.
func (w *World) detachChildren(h paint.Handle) {
	query := w.instanceFilter.Query()
	for query.Next() {
		_, _, parent := query.Get()
		if parent.Handle == uint64(h) {
			parent.Handle = 0
		}
	}
}

// Reparent sets the parent of an instance. parent 0 detaches it; a parent that
// is neither a live group nor a live instance is rejected with a warning.
func (w *World) Reparent(h, parent paint.Handle) {
	e, ok := w.instances[h]
	if !ok {
		w.logger.Warn("reparent unknown instance", "handle", h)
		return
	}
	if parent == h {
		w.logger.Warn("instance cannot parent itself", "handle", h)
		return
	}
	if parent != 0 {
		_, isGroup := w.groups[parent]
		_, isInstance := w.instances[parent]
		if !isGroup && !isInstance {
			w.logger.Warn("reparent to unknown parent", "handle", h, "parent", parent)
			return
		}
	}
	w.parentMap.Get(e).Handle = uint64(parent)
}

// MeasureMesh reports the prefab's summed geometry counts.
func (w *World) MeasureMesh(prefab paint.PrefabID) (paint.MeshMetrics, error) {
	return w.library.Measure(prefab)
}

// Instance returns a snapshot of one instance.
func (w *World) Instance(h paint.Handle) (InstanceView, error) {
	e, ok := w.instances[h]
	if !ok {
		return InstanceView{}, fmt.Errorf("handle %d: %w", h, ErrUnknownInstance)
	}
	tr, inst, parent := w.instanceMapper.Get(e)
	return view(tr, inst, parent), nil
}

// Instances returns a snapshot of every instance ordered by handle.
func (w *World) Instances() []InstanceView {
	out := make([]InstanceView, 0, len(w.instances))
	query := w.instanceFilter.Query()
	for query.Next() {
		out = append(out, view(query.Get()))
	}
	slices.SortFunc(out, func(a, b InstanceView) int {
		switch {
		case a.Handle < b.Handle:
			return -1
		case a.Handle > b.Handle:
			return 1
		}
		return 0
	})
	return out
}

// Count returns the number of live instances.
func (w *World) Count() int {
	return len(w.instances)
}

func (w *World) allocHandle() paint.Handle {
	h := w.nextHandle
	w.nextHandle++
	return h
}

func view(tr *components.Transform, inst *components.Instance, parent *components.Parent) InstanceView {
	return InstanceView{
		Handle:    paint.Handle(inst.Handle),
		Prefab:    paint.PrefabID(inst.Prefab),
		Transform: paint.Transform{Position: tr.Position, Rotation: tr.Rotation, Scale: tr.Scale},
		Parent:    paint.Handle(parent.Handle),
	}
}

// PointerCaster turns screen pointers into picking rays against the world.
type PointerCaster struct {
	Camera      *camera.Camera
	World       *World
	MaxDistance float64 // 0 = unlimited
}

// Raycast implements paint.Raycaster.
func (c *PointerCaster) Raycast(p paint.Pointer) (paint.Hit, bool) {
	return c.World.Raycast(c.Camera.ScreenRay(p.X, p.Y), c.MaxDistance)
}

// Pick returns the instance whose origin projects closest to screen point
// (sx, sy), within radius pixels.
func (w *World) Pick(cam *camera.Camera, sx, sy, radius float64) (paint.Handle, bool) {
	best := radius * radius
	var picked paint.Handle
	found := false
	for _, v := range w.Instances() {
		px, py, ok := cam.WorldToScreen(v.Transform.Position)
		if !ok {
			continue
		}
		d := (px-sx)*(px-sx) + (py-sy)*(py-sy)
		if d <= best {
			best = d
			picked = v.Handle
			found = true
		}
	}
	return picked, found
}
