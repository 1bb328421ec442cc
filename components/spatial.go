// Package components defines ECS components for the painted scene.
package components

import "gonum.org/v1/gonum/spatial/r3"

// Transform is an entity's world placement.
type Transform struct {
	Position r3.Vec      `inspect:"vec,fmt:%.2f"`
	Rotation r3.Rotation `inspect:"skip"`
	Scale    float64     `inspect:"label,fmt:%.2f"`
}
