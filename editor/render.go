package editor

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/meshpaint/components"
	"github.com/pthm-cable/meshpaint/paint"
	"github.com/pthm-cable/meshpaint/scene"
)

// Scene colors
var (
	colorBackground   = rl.Color{R: 24, G: 26, B: 30, A: 255}
	colorSurface      = rl.Color{R: 70, G: 74, B: 80, A: 255}
	colorSurfaceOther = rl.Color{R: 50, G: 80, B: 120, A: 255}
	colorSurfaceEdge  = rl.Color{R: 110, G: 115, B: 125, A: 255}
	colorPending      = rl.Color{R: 255, G: 255, B: 255, A: 200}
	colorBrush        = rl.Color{R: 255, G: 200, B: 80, A: 255}
	colorBrushBlocked = rl.Color{R: 200, G: 80, B: 80, A: 255}
	colorDefaultMesh  = rl.Color{R: 200, G: 200, B: 200, A: 255}
)

// rlCamera converts the orbit camera into a raylib camera.
func (e *Editor) rlCamera() rl.Camera3D {
	return rl.Camera3D{
		Position:   vec3(e.camera.Position()),
		Target:     vec3(e.camera.Target),
		Up:         rl.Vector3{X: 0, Y: 1, Z: 0},
		Fovy:       float32(e.camera.Fovy),
		Projection: rl.CameraPerspective,
	}
}

// drawScene renders surfaces, instances and the brush footprint. Must be
// called inside a 3D mode block.
func (e *Editor) drawScene() {
	filter := paint.SurfaceFilter{RequiredTag: e.session.SurfaceTag()}
	for _, s := range e.world.Surfaces() {
		drawSurface(s, filter)
	}

	pending, _, _, hasPending := e.session.Pending()
	lib := e.world.Library()
	for _, v := range e.world.Instances() {
		def, _ := lib.Get(v.Prefab)
		if hasPending && v.Handle == pending {
			drawInstance(v.Transform, def.Shape, fade(prefabColor(def)), true)
			continue
		}
		drawInstance(v.Transform, def.Shape, prefabColor(def), false)
	}

	if !altDown() {
		e.drawBrush()
	}
}

// drawSurface renders one collider. Surfaces the filter rejects use a
// different tint.
func drawSurface(s components.Surface, filter paint.SurfaceFilter) {
	color := colorSurface
	if !filter.Accepts(s.Tag) {
		color = colorSurfaceOther
	}

	if s.Kind == components.ShapeBox {
		size := r3.Scale(2, s.HalfSize)
		rl.DrawCubeV(vec3(s.Center), vec3(size), color)
		rl.DrawCubeWiresV(vec3(s.Center), vec3(size), colorSurfaceEdge)
		return
	}

	c := scene.PlaneCorners(s)
	// Both windings so the plane is visible from either side
	rl.DrawTriangle3D(vec3(c[0]), vec3(c[2]), vec3(c[1]), color)
	rl.DrawTriangle3D(vec3(c[0]), vec3(c[3]), vec3(c[2]), color)
	rl.DrawTriangle3D(vec3(c[0]), vec3(c[1]), vec3(c[2]), color)
	rl.DrawTriangle3D(vec3(c[0]), vec3(c[2]), vec3(c[3]), color)
	for i := range c {
		rl.DrawLine3D(vec3(c[i]), vec3(c[(i+1)%4]), colorSurfaceEdge)
	}
}

// drawInstance renders a prefab shape with its base at the instance origin.
func drawInstance(t paint.Transform, shape string, color rl.Color, pending bool) {
	axis, angle := paint.AxisAngle(t.Rotation)
	s := float32(t.Scale)

	rl.PushMatrix()
	rl.Translatef(float32(t.Position.X), float32(t.Position.Y), float32(t.Position.Z))
	rl.Rotatef(float32(angle*180/math.Pi), float32(axis.X), float32(axis.Y), float32(axis.Z))
	rl.Scalef(s, s, s)

	origin := rl.Vector3{}
	center := rl.Vector3{Y: 0.5}
	edge := darken(color)
	if pending {
		edge = colorPending
	}
	switch shape {
	case "sphere":
		rl.DrawSphere(center, 0.5, color)
		if pending {
			rl.DrawSphereWires(center, 0.5, 8, 8, edge)
		}
	case "cylinder":
		rl.DrawCylinder(origin, 0.3, 0.3, 1, 12, color)
		rl.DrawCylinderWires(origin, 0.3, 0.3, 1, 12, edge)
	default:
		rl.DrawCube(center, 1, 1, 1, color)
		rl.DrawCubeWires(center, 1, 1, 1, edge)
	}

	rl.PopMatrix()
}

// drawBrush outlines the brush footprint under the cursor.
func (e *Editor) drawBrush() {
	if !e.session.Active() || e.overUI(rl.GetMousePosition()) {
		return
	}
	ptr := e.pointer()
	hit, ok := e.world.Raycast(e.camera.ScreenRay(ptr.X, ptr.Y), 0)
	if !ok {
		return
	}

	color := colorBrush
	if !(paint.SurfaceFilter{RequiredTag: e.session.SurfaceTag()}).Accepts(hit.Tag) {
		color = colorBrushBlocked
	}

	brush := e.session.Brush()
	radius := float32(brush.Radius)
	if brush.Kind == paint.BrushNone || brush.Kind == paint.BrushMesh || radius <= 0 {
		radius = 0.15
	}

	// Footprint drawn in the local XZ plane turned onto the hit normal
	axis, angle := paint.AxisAngle(paint.FromTo(r3.Vec{Y: 1}, hit.Normal))
	p := r3.Add(hit.Point, r3.Scale(0.01, hit.Normal))

	rl.PushMatrix()
	rl.Translatef(float32(p.X), float32(p.Y), float32(p.Z))
	rl.Rotatef(float32(angle*180/math.Pi), float32(axis.X), float32(axis.Y), float32(axis.Z))
	if brush.Kind == paint.BrushSquare {
		corners := [4]rl.Vector3{
			{X: -radius, Z: -radius},
			{X: radius, Z: -radius},
			{X: radius, Z: radius},
			{X: -radius, Z: radius},
		}
		for i := range corners {
			rl.DrawLine3D(corners[i], corners[(i+1)%4], color)
		}
	} else {
		rl.DrawCircle3D(rl.Vector3{}, radius, rl.Vector3{X: 1}, 90, color)
	}
	rl.DrawLine3D(rl.Vector3{}, rl.Vector3{Y: 0.5}, color)
	rl.PopMatrix()
}

// prefabColor returns the configured color of a prefab.
func prefabColor(def scene.PrefabDef) rl.Color {
	if def.Color == [3]uint8{} {
		return colorDefaultMesh
	}
	return rl.Color{R: def.Color[0], G: def.Color[1], B: def.Color[2], A: 255}
}

func fade(c rl.Color) rl.Color {
	c.A = 150
	return c
}

func darken(c rl.Color) rl.Color {
	return rl.Color{R: c.R / 2, G: c.G / 2, B: c.B / 2, A: c.A}
}

func vec3(v r3.Vec) rl.Vector3 {
	return rl.Vector3{X: float32(v.X), Y: float32(v.Y), Z: float32(v.Z)}
}
