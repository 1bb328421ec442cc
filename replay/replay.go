// Package replay drives a paint session from a recorded CSV script, without a
// window. Scripts are used by headless runs and end-to-end tests.
package replay

import (
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/meshpaint/paint"
)

// Action is a scripted input.
type Action string

const (
	ActionDown       Action = "down"
	ActionMove       Action = "move"
	ActionUp         Action = "up"
	ActionUndo       Action = "undo"
	ActionClear      Action = "clear"
	ActionResetStats Action = "reset_stats"
	ActionActivate   Action = "activate"
	ActionDeactivate Action = "deactivate"
)

// Step is one scripted input at a point in time.
type Step struct {
	TimeSec float64 `csv:"time"`
	Action  Action  `csv:"action"`
	X       float64 `csv:"x"`
	Y       float64 `csv:"y"`
	Alt     bool    `csv:"alt"`
}

// At returns the step time as a duration.
func (s Step) At() time.Duration {
	return time.Duration(math.Round(s.TimeSec * float64(time.Second)))
}

// Script is an ordered list of steps.
type Script []Step

// LoadScript parses a CSV script with a time,action,x,y,alt header. Steps are
// ordered by time; steps sharing a time keep their file order.
func LoadScript(r io.Reader) (Script, error) {
	var steps []Step
	if err := gocsv.Unmarshal(r, &steps); err != nil {
		return nil, fmt.Errorf("parsing script: %w", err)
	}
	for i := range steps {
		steps[i].Action = Action(strings.ToLower(strings.TrimSpace(string(steps[i].Action))))
		if err := steps[i].validate(); err != nil {
			return nil, fmt.Errorf("script row %d: %w", i+1, err)
		}
	}
	sort.SliceStable(steps, func(i, j int) bool { return steps[i].TimeSec < steps[j].TimeSec })
	return steps, nil
}

// LoadScriptFile reads a script from path.
func LoadScriptFile(path string) (Script, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening script: %w", err)
	}
	defer f.Close()
	return LoadScript(f)
}

func (s Step) validate() error {
	if s.TimeSec < 0 {
		return fmt.Errorf("negative time %v", s.TimeSec)
	}
	switch s.Action {
	case ActionDown, ActionMove, ActionUp, ActionUndo, ActionClear,
		ActionResetStats, ActionActivate, ActionDeactivate:
		return nil
	}
	return fmt.Errorf("unknown action %q", s.Action)
}

// Run feeds every step to session, setting clock to each step's time first.
// The clock must be the one the session's host reads.
func Run(script Script, session *paint.Session, clock *paint.ManualClock) {
	for _, step := range script {
		if t := step.At(); t > clock.Now() {
			clock.Set(t)
		}
		Apply(session, step)
	}
}

// Apply delivers one step to session.
func Apply(session *paint.Session, step Step) {
	p := paint.Pointer{X: step.X, Y: step.Y, Alt: step.Alt}
	switch step.Action {
	case ActionDown:
		session.PointerDown(p)
	case ActionMove:
		session.PointerMove(p)
	case ActionUp:
		session.PointerUp(p)
	case ActionUndo:
		session.UndoLast()
	case ActionClear:
		session.ClearAll()
	case ActionResetStats:
		session.ResetStats()
	case ActionActivate:
		session.SetActive(true)
	case ActionDeactivate:
		session.SetActive(false)
	}
}

// Stroke builds a script for a straight drag from (x0, y0) to (x1, y1) with
// n move events spaced dt apart, starting at start.
func Stroke(start time.Duration, x0, y0, x1, y1 float64, n int, dt time.Duration) Script {
	s := Script{{TimeSec: start.Seconds(), Action: ActionDown, X: x0, Y: y0}}
	for i := 1; i <= n; i++ {
		f := float64(i) / float64(n)
		at := start + time.Duration(i)*dt
		s = append(s, Step{TimeSec: at.Seconds(), Action: ActionMove, X: x0 + (x1-x0)*f, Y: y0 + (y1-y0)*f})
	}
	end := start + time.Duration(n)*dt
	return append(s, Step{TimeSec: end.Seconds(), Action: ActionUp, X: x1, Y: y1})
}

// WriteScript writes a script in the format LoadScript reads.
func WriteScript(w io.Writer, script Script) error {
	steps := []Step(script)
	if err := gocsv.Marshal(&steps, w); err != nil {
		return fmt.Errorf("writing script: %w", err)
	}
	return nil
}

// Recorder captures live input as a script, timestamped by clock.
type Recorder struct {
	clock  paint.Clock
	script Script
}

// NewRecorder creates a recorder reading time from clock.
func NewRecorder(clock paint.Clock) *Recorder {
	return &Recorder{clock: clock}
}

// Add records action at the current time.
func (r *Recorder) Add(action Action, p paint.Pointer) {
	r.script = append(r.script, Step{
		TimeSec: r.clock.Now().Seconds(),
		Action:  action,
		X:       p.X,
		Y:       p.Y,
		Alt:     p.Alt,
	})
}

// Script returns the recorded steps.
func (r *Recorder) Script() Script {
	out := make(Script, len(r.script))
	copy(out, r.script)
	return out
}
