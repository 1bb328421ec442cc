package components

import "gonum.org/v1/gonum/spatial/r3"

// ShapeKind is the collider shape of a paintable surface.
type ShapeKind uint8

const (
	ShapePlane ShapeKind = iota // finite rectangle on a plane
	ShapeBox                    // axis-aligned box
)

func (k ShapeKind) String() string {
	if k == ShapeBox {
		return "box"
	}
	return "plane"
}

// Surface is a static collider that receives raycasts.
// For planes, HalfSize.X and HalfSize.Z bound the rectangle in the plane's
// tangent frame and HalfSize.Y is ignored.
type Surface struct {
	Name     string    `inspect:"label"`
	Tag      string    `inspect:"label"`
	Kind     ShapeKind `inspect:"label"`
	Center   r3.Vec    `inspect:"vec,fmt:%.1f"`
	HalfSize r3.Vec    `inspect:"vec,fmt:%.1f"`
	Normal   r3.Vec    `inspect:"skip"` // plane only, unit length
}
