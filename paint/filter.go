package paint

// SurfaceFilter accepts hits on surfaces carrying the required tag.
type SurfaceFilter struct {
	RequiredTag string
}

// Accepts reports whether tag matches exactly.
func (f SurfaceFilter) Accepts(tag string) bool {
	return tag == f.RequiredTag
}
