package paint

import (
	"math"

	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

var (
	axisX = r3.Vec{X: 1}
	axisY = r3.Vec{Y: 1}
	axisZ = r3.Vec{Z: 1}
)

// parallelEps is the cosine distance below which two unit vectors are treated
// as parallel.
const parallelEps = 1e-9

// Identity is the rotation that leaves vectors unchanged.
func Identity() r3.Rotation {
	return r3.Rotation{Real: 1}
}

// Compose returns the rotation that applies inner first, then outer.
func Compose(outer, inner r3.Rotation) r3.Rotation {
	return r3.Rotation(quat.Mul(quat.Number(outer), quat.Number(inner)))
}

// Up returns the local +Y axis of r in world space.
func Up(r r3.Rotation) r3.Vec {
	return r.Rotate(axisY)
}

// AxisAngle returns the rotation axis and angle (radians) of r.
// The identity rotation returns +Y and zero.
func AxisAngle(r r3.Rotation) (r3.Vec, float64) {
	q := quat.Number(r)
	if n := quat.Abs(q); n > 0 {
		q = quat.Scale(1/n, q)
	}
	if q.Real < 0 {
		q = quat.Scale(-1, q)
	}
	s := math.Sqrt(q.Imag*q.Imag + q.Jmag*q.Jmag + q.Kmag*q.Kmag)
	if s < parallelEps {
		return axisY, 0
	}
	return r3.Vec{X: q.Imag / s, Y: q.Jmag / s, Z: q.Kmag / s}, 2 * math.Atan2(s, q.Real)
}

// FromTo returns the shortest-arc rotation taking direction from onto
// direction to. Zero-length inputs yield the identity.
func FromTo(from, to r3.Vec) r3.Rotation {
	if r3.Norm(from) == 0 || r3.Norm(to) == 0 {
		return Identity()
	}
	from, to = r3.Unit(from), r3.Unit(to)
	d := r3.Dot(from, to)
	if d >= 1-parallelEps {
		return Identity()
	}
	if d <= -1+parallelEps {
		// Opposite directions: half turn about any axis perpendicular to from.
		axis := r3.Cross(axisX, from)
		if r3.Norm(axis) < parallelEps {
			axis = r3.Cross(axisZ, from)
		}
		return r3.NewRotation(math.Pi, axis)
	}
	return r3.NewRotation(math.Acos(math.Max(-1, math.Min(1, d))), r3.Cross(from, to))
}

func degToRad(d float64) float64 {
	return d * math.Pi / 180
}
