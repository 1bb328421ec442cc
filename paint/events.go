package paint

import (
	"time"

	"gonum.org/v1/gonum/spatial/r3"
)

// EventType identifies session events.
type EventType uint8

const (
	EventStrokeStart EventType = iota
	EventCommit
	EventStrokeEnd
	EventUndo
	EventClear
)

func (t EventType) String() string {
	switch t {
	case EventStrokeStart:
		return "stroke_start"
	case EventCommit:
		return "commit"
	case EventStrokeEnd:
		return "stroke_end"
	case EventUndo:
		return "undo"
	case EventClear:
		return "clear"
	}
	return "unknown"
}

// Event describes a state change of a Session.
type Event struct {
	Type EventType
	At   time.Duration

	// Optional fields depending on event type
	Handle   Handle       // commit, undo; stroke end: discarded pending instance
	Prefab   PrefabID     // commit
	Position r3.Vec       // commit
	Count    int          // clear: instances destroyed
	Hit      bool         // stroke start: initial raycast hit a surface
	Stats    SessionStats // totals after the event
}

// Recorder receives session events.
type Recorder interface {
	Record(ev Event)
}

// RecorderFunc adapts a function to a Recorder.
type RecorderFunc func(ev Event)

// Record calls f(ev).
func (f RecorderFunc) Record(ev Event) { f(ev) }
