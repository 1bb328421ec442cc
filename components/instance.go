package components

// Instance marks a painted prefab instance. Handle is the identity handed to
// the paint session.
type Instance struct {
	Handle uint64 `inspect:"label"`
	Prefab string `inspect:"label"`
}

// Parent links an instance or group to its parent handle (0 = scene root).
type Parent struct {
	Handle uint64 `inspect:"label"`
}

// Group is a named empty object that painted instances can be parented under.
type Group struct {
	Handle uint64 `inspect:"label"`
	Name   string `inspect:"label"`
}
