package scene

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/meshpaint/camera"
	"github.com/pthm-cable/meshpaint/components"
	"github.com/pthm-cable/meshpaint/config"
)

const rayEps = 1e-9

// SurfaceFromConfig converts a scene surface definition into a component.
// Size is the full extent; a zero plane normal defaults to +Y.
func SurfaceFromConfig(def config.SurfaceDef) components.Surface {
	s := components.Surface{
		Name:     def.Name,
		Tag:      def.Tag,
		Center:   config.Vec(def.Center),
		HalfSize: r3.Scale(0.5, config.Vec(def.Size)),
	}
	if def.Kind == "box" {
		s.Kind = components.ShapeBox
	} else {
		s.Kind = components.ShapePlane
		s.Normal = config.Vec(def.Normal)
	}
	return s
}

// intersect returns the distance along ray and the surface normal facing the
// ray origin, or ok=false on a miss.
func intersect(s *components.Surface, ray camera.Ray) (t float64, normal r3.Vec, ok bool) {
	if s.Kind == components.ShapeBox {
		return intersectBox(s.Center, s.HalfSize, ray)
	}
	return intersectPlane(s.Center, s.Normal, s.HalfSize.X, s.HalfSize.Z, ray)
}

// PlaneCorners returns the four corners of a plane surface in winding order.
func PlaneCorners(s components.Surface) [4]r3.Vec {
	u, v := planeFrame(s.Normal)
	u = r3.Scale(s.HalfSize.X, u)
	v = r3.Scale(s.HalfSize.Z, v)
	return [4]r3.Vec{
		r3.Sub(r3.Sub(s.Center, u), v),
		r3.Sub(r3.Add(s.Center, u), v),
		r3.Add(r3.Add(s.Center, u), v),
		r3.Add(r3.Sub(s.Center, u), v),
	}
}

// planeFrame returns tangent axes for a plane normal. For +Y they are +X and +Z.
func planeFrame(n r3.Vec) (u, v r3.Vec) {
	ref := r3.Vec{Z: 1}
	if math.Abs(r3.Dot(n, ref)) > 1-rayEps {
		ref = r3.Vec{X: 1}
	}
	u = r3.Unit(r3.Cross(n, ref))
	v = r3.Cross(u, n)
	return u, v
}

// intersectPlane hits a finite rectangle centered on c. The plane is
// two-sided; the returned normal faces the ray.
func intersectPlane(c, n r3.Vec, halfU, halfV float64, ray camera.Ray) (float64, r3.Vec, bool) {
	denom := r3.Dot(ray.Dir, n)
	if math.Abs(denom) < rayEps {
		return 0, r3.Vec{}, false
	}
	t := r3.Dot(r3.Sub(c, ray.Origin), n) / denom
	if t < 0 {
		return 0, r3.Vec{}, false
	}
	local := r3.Sub(ray.At(t), c)
	u, v := planeFrame(n)
	if math.Abs(r3.Dot(local, u)) > halfU || math.Abs(r3.Dot(local, v)) > halfV {
		return 0, r3.Vec{}, false
	}
	if denom > 0 {
		n = r3.Scale(-1, n)
	}
	return t, n, true
}

// intersectBox runs the slab test against an axis-aligned box. Rays starting
// inside the box miss, as colliders are not hit from within.
func intersectBox(c, half r3.Vec, ray camera.Ray) (float64, r3.Vec, bool) {
	origin := [3]float64{ray.Origin.X, ray.Origin.Y, ray.Origin.Z}
	dir := [3]float64{ray.Dir.X, ray.Dir.Y, ray.Dir.Z}
	lo := [3]float64{c.X - half.X, c.Y - half.Y, c.Z - half.Z}
	hi := [3]float64{c.X + half.X, c.Y + half.Y, c.Z + half.Z}

	tNear, tFar := math.Inf(-1), math.Inf(1)
	axis, sign := -1, 0.0
	for i := 0; i < 3; i++ {
		if math.Abs(dir[i]) < rayEps {
			if origin[i] < lo[i] || origin[i] > hi[i] {
				return 0, r3.Vec{}, false
			}
			continue
		}
		t1 := (lo[i] - origin[i]) / dir[i]
		t2 := (hi[i] - origin[i]) / dir[i]
		s := -1.0 // entering through the low face
		if t1 > t2 {
			t1, t2 = t2, t1
			s = 1
		}
		if t1 > tNear {
			tNear, axis, sign = t1, i, s
		}
		if t2 < tFar {
			tFar = t2
		}
		if tNear > tFar {
			return 0, r3.Vec{}, false
		}
	}
	if axis < 0 || tNear < 0 {
		return 0, r3.Vec{}, false
	}
	var n r3.Vec
	switch axis {
	case 0:
		n.X = sign
	case 1:
		n.Y = sign
	case 2:
		n.Z = sign
	}
	return tNear, n, true
}
