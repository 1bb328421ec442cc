// Package camera provides a 3D orbit camera and screen-to-world picking rays.
package camera

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Ray is a half-line starting at Origin along the unit vector Dir.
type Ray struct {
	Origin r3.Vec
	Dir    r3.Vec
}

// At returns the point at distance t along the ray.
func (r Ray) At(t float64) r3.Vec {
	return r3.Add(r.Origin, r3.Scale(t, r.Dir))
}

var worldUp = r3.Vec{Y: 1}

// Camera orbits a target point. Angles are in degrees.
type Camera struct {
	// Target is the point the camera looks at
	Target r3.Vec

	// Orbit parameters
	Distance float64
	Yaw      float64 // around +Y, 0 looks down -Z
	Pitch    float64 // elevation above the target's horizontal plane

	// Vertical field of view
	Fovy float64

	// Viewport dimensions (screen size)
	ViewportW, ViewportH float64

	// Distance constraints
	MinDistance, MaxDistance float64

	home pose
}

// pose is the orbit state restored by Reset.
type pose struct {
	target               r3.Vec
	distance, yaw, pitch float64
}

// maxPitch keeps the view direction away from the poles where the basis flips.
const maxPitch = 89.0

// New creates a camera looking at target from the given orbit pose.
func New(viewportW, viewportH float64, target r3.Vec, distance, yaw, pitch, fovy float64) *Camera {
	c := &Camera{
		Target:      target,
		Distance:    distance,
		Yaw:         yaw,
		Pitch:       clamp(pitch, -maxPitch, maxPitch),
		Fovy:        fovy,
		ViewportW:   viewportW,
		ViewportH:   viewportH,
		MinDistance: 1,
		MaxDistance: 500,
	}
	c.Distance = clamp(c.Distance, c.MinDistance, c.MaxDistance)
	c.home = pose{target: c.Target, distance: c.Distance, yaw: c.Yaw, pitch: c.Pitch}
	return c
}

// Position returns the camera eye position in world coordinates.
func (c *Camera) Position() r3.Vec {
	yaw := c.Yaw * math.Pi / 180
	pitch := c.Pitch * math.Pi / 180
	off := r3.Vec{
		X: math.Cos(pitch) * math.Sin(yaw),
		Y: math.Sin(pitch),
		Z: math.Cos(pitch) * math.Cos(yaw),
	}
	return r3.Add(c.Target, r3.Scale(c.Distance, off))
}

// Basis returns the forward, right and up unit vectors of the view.
func (c *Camera) Basis() (forward, right, up r3.Vec) {
	forward = r3.Unit(r3.Sub(c.Target, c.Position()))
	right = r3.Unit(r3.Cross(forward, worldUp))
	up = r3.Cross(right, forward)
	return forward, right, up
}

// ScreenRay returns the picking ray through screen pixel (sx, sy).
func (c *Camera) ScreenRay(sx, sy float64) Ray {
	forward, right, up := c.Basis()
	tanHalf := math.Tan(c.Fovy * math.Pi / 360)
	aspect := c.ViewportW / c.ViewportH

	ndcX := 2*sx/c.ViewportW - 1
	ndcY := 1 - 2*sy/c.ViewportH

	dir := r3.Add(forward, r3.Add(
		r3.Scale(ndcX*tanHalf*aspect, right),
		r3.Scale(ndcY*tanHalf, up),
	))
	return Ray{Origin: c.Position(), Dir: r3.Unit(dir)}
}

// WorldToScreen projects a world point to screen coordinates.
// ok is false for points behind the camera.
func (c *Camera) WorldToScreen(p r3.Vec) (sx, sy float64, ok bool) {
	forward, right, up := c.Basis()
	d := r3.Sub(p, c.Position())
	z := r3.Dot(d, forward)
	if z <= 0 {
		return 0, 0, false
	}
	tanHalf := math.Tan(c.Fovy * math.Pi / 360)
	aspect := c.ViewportW / c.ViewportH
	x := r3.Dot(d, right) / (z * tanHalf * aspect)
	y := r3.Dot(d, up) / (z * tanHalf)
	return (x + 1) / 2 * c.ViewportW, (1 - y) / 2 * c.ViewportH, true
}

// Orbit rotates the camera around the target by the given angles in degrees.
func (c *Camera) Orbit(dYaw, dPitch float64) {
	c.Yaw = math.Mod(c.Yaw+dYaw, 360)
	c.Pitch = clamp(c.Pitch+dPitch, -maxPitch, maxPitch)
}

// Pan moves the target by the given delta in screen pixels.
func (c *Camera) Pan(dx, dy float64) {
	_, right, up := c.Basis()
	// World units per pixel at the target distance
	scale := 2 * c.Distance * math.Tan(c.Fovy*math.Pi/360) / c.ViewportH
	c.Target = r3.Add(c.Target, r3.Add(r3.Scale(-dx*scale, right), r3.Scale(dy*scale, up)))
}

// ZoomBy divides the orbit distance by factor, clamped to min/max.
func (c *Camera) ZoomBy(factor float64) {
	if factor <= 0 {
		return
	}
	c.Distance = clamp(c.Distance/factor, c.MinDistance, c.MaxDistance)
}

// Resize updates viewport dimensions.
func (c *Camera) Resize(viewportW, viewportH float64) {
	c.ViewportW = viewportW
	c.ViewportH = viewportH
}

// Reset returns the camera to its initial pose.
func (c *Camera) Reset() {
	c.Target = c.home.target
	c.Distance = c.home.distance
	c.Yaw = c.home.yaw
	c.Pitch = c.home.pitch
}

// clamp restricts a value to a range.
func clamp(x, min, max float64) float64 {
	if x < min {
		return min
	}
	if x > max {
		return max
	}
	return x
}
