package paint

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"
)

// BrushKind selects how a spawn point is derived from a hit.
type BrushKind uint8

const (
	BrushNone   BrushKind = iota // spawn exactly at the hit point
	BrushCircle                  // scatter inside a disc on the surface
	BrushSquare                  // scatter inside a square on the surface
	BrushMesh                    // reserved; spawns at the hit point
)

var brushNames = [...]string{"none", "circle", "square", "mesh"}

func (k BrushKind) String() string {
	if int(k) < len(brushNames) {
		return brushNames[k]
	}
	return fmt.Sprintf("BrushKind(%d)", k)
}

// ParseBrushKind parses a brush name case-insensitively.
func ParseBrushKind(s string) (BrushKind, error) {
	for i, name := range brushNames {
		if strings.EqualFold(s, name) {
			return BrushKind(i), nil
		}
	}
	return BrushNone, fmt.Errorf("unknown brush kind %q", s)
}

// Brush is a brush kind with its footprint radius.
type Brush struct {
	Kind   BrushKind
	Radius float64
}

// SpawnPoint returns where a new instance should appear for hit.
func (b Brush) SpawnPoint(hit Hit, rng Random) r3.Vec {
	switch b.Kind {
	case BrushCircle:
		if b.Radius <= 0 {
			return hit.Point
		}
		u, v := tangentBasis(hit.Normal)
		angle := rng.Range(0, 2*math.Pi)
		dist := b.Radius * math.Sqrt(rng.Range(0, 1))
		off := r3.Add(r3.Scale(dist*math.Cos(angle), u), r3.Scale(dist*math.Sin(angle), v))
		return r3.Add(hit.Point, off)
	case BrushSquare:
		if b.Radius <= 0 {
			return hit.Point
		}
		u, v := tangentBasis(hit.Normal)
		off := r3.Add(r3.Scale(rng.Range(-b.Radius, b.Radius), u), r3.Scale(rng.Range(-b.Radius, b.Radius), v))
		return r3.Add(hit.Point, off)
	case BrushNone, BrushMesh:
		return hit.Point
	default:
		return hit.Point
	}
}

// tangentBasis returns two unit vectors spanning the plane orthogonal to n.
func tangentBasis(n r3.Vec) (r3.Vec, r3.Vec) {
	if r3.Norm(n) == 0 {
		return axisX, axisZ
	}
	n = r3.Unit(n)
	ref := axisX
	if math.Abs(n.X) > 0.9 {
		ref = axisZ
	}
	u := r3.Unit(r3.Cross(ref, n))
	return u, r3.Cross(n, u)
}
