// Package editor is the interactive raylib front-end of the mesh painter.
package editor

import (
	"fmt"
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/meshpaint/camera"
	"github.com/pthm-cable/meshpaint/inspector"
	"github.com/pthm-cable/meshpaint/paint"
	"github.com/pthm-cable/meshpaint/replay"
	"github.com/pthm-cable/meshpaint/scene"
	"github.com/pthm-cable/meshpaint/telemetry"
)

// perfWindow is the number of frames averaged per perf sample.
const perfWindow = 60

// Options holds the collaborators an Editor drives.
type Options struct {
	World     *scene.World
	Camera    *camera.Camera
	Session   *paint.Session
	Metrics   *paint.MetricsCache
	Collector *telemetry.Collector
	Output    *telemetry.OutputManager // nil disables CSV output
	Recorder  *replay.Recorder         // nil disables input recording

	SnapshotDir string
	Seed        int64
	Logger      *slog.Logger
}

// Editor holds the interactive painter state.
type Editor struct {
	world     *scene.World
	camera    *camera.Camera
	session   *paint.Session
	metrics   *paint.MetricsCache
	collector *telemetry.Collector
	output    *telemetry.OutputManager
	recorder  *replay.Recorder
	logger    *slog.Logger

	inspector *inspector.Inspector
	panel     *Panel
	perf      *telemetry.PerfCollector

	snapshotDir string
	seed        int64

	// Pointer state
	painting  bool
	lastMouse rl.Vector2

	// Status line shown in the HUD until statusUntil (seconds since init)
	status      string
	statusUntil float64

	frame int64

	screenWidth, screenHeight float32
}

// New creates an editor for an already open window.
func New(opts Options) *Editor {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	w := float32(rl.GetScreenWidth())
	h := float32(rl.GetScreenHeight())
	opts.Camera.Resize(float64(w), float64(h))

	e := &Editor{
		world:        opts.World,
		camera:       opts.Camera,
		session:      opts.Session,
		metrics:      opts.Metrics,
		collector:    opts.Collector,
		output:       opts.Output,
		recorder:     opts.Recorder,
		logger:       logger,
		inspector:    inspector.NewInspector(int32(w), int32(h)),
		perf:         telemetry.NewPerfCollector(perfWindow),
		snapshotDir:  opts.SnapshotDir,
		seed:         opts.Seed,
		screenWidth:  w,
		screenHeight: h,
	}
	e.panel = NewPanel(e.world.Surfaces())
	applyStyle()
	return e
}

// Update processes one frame of input.
func (e *Editor) Update() {
	e.perf.StartFrame()

	e.perf.StartPhase(telemetry.PhaseInput)
	e.handleInput()

	e.perf.StartPhase(telemetry.PhasePaint)
	e.handlePointer()
}

// Draw renders the scene, panels and HUD, then closes the frame.
func (e *Editor) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(colorBackground)

	e.perf.StartPhase(telemetry.PhaseRender)
	rl.BeginMode3D(e.rlCamera())
	e.drawScene()
	e.inspector.DrawSelectionHighlight(e.world)
	rl.EndMode3D()

	e.perf.StartPhase(telemetry.PhaseUI)
	e.panel.Draw(e)
	e.drawHUD()
	pending, _, _, _ := e.session.Pending()
	e.inspector.Draw(e.world, e.metrics, pending)

	rl.EndDrawing()
	e.perf.EndFrame()

	e.frame++
	if e.frame%perfWindow == 0 {
		e.flushPerf()
	}
}

// Close ends any stroke in progress and flushes collected records.
func (e *Editor) Close() {
	if e.painting {
		e.painting = false
		p := e.pointer()
		e.session.PointerUp(p)
		e.record(replay.ActionUp, p)
	}
	if err := e.collector.Flush(e.output); err != nil {
		e.logger.Error("flush telemetry", "error", err)
	}
}

// flushPerf logs frame statistics and appends them to perf.csv.
func (e *Editor) flushPerf() {
	stats := e.perf.Stats()
	e.logger.Debug("perf", "frame", e.frame, "stats", stats)
	if err := e.output.WritePerf(stats, e.frame); err != nil {
		e.logger.Error("write perf", "error", err)
	}
	if err := e.collector.Flush(e.output); err != nil {
		e.logger.Error("flush telemetry", "error", err)
	}
}

// undo removes the newest committed instance.
func (e *Editor) undo() {
	e.session.UndoLast()
	e.record(replay.ActionUndo, e.pointer())
}

// resetStats zeroes the session counters.
func (e *Editor) resetStats() {
	e.session.ResetStats()
	e.record(replay.ActionResetStats, e.pointer())
}

// clearAll destroys every instance painted in this session.
func (e *Editor) clearAll() {
	e.session.ClearAll()
	e.record(replay.ActionClear, e.pointer())
}

// setActive toggles the tool.
func (e *Editor) setActive(active bool) {
	if active == e.session.Active() {
		return
	}
	if !active {
		e.painting = false
	}
	e.session.SetActive(active)
	action := replay.ActionDeactivate
	if active {
		action = replay.ActionActivate
	}
	e.record(action, e.pointer())
}

// saveSnapshot writes the current scene to the snapshot directory.
func (e *Editor) saveSnapshot() {
	var skip []paint.Handle
	if h, _, _, ok := e.session.Pending(); ok {
		skip = append(skip, h)
	}
	snap := telemetry.NewSnapshot(e.seed, e.session.Stats(), e.world.Instances(), skip...)
	path, err := telemetry.SaveSnapshot(snap, e.snapshotDir)
	if err != nil {
		e.logger.Error("save snapshot", "error", err)
		e.setStatus("snapshot failed")
		return
	}
	e.logger.Info("snapshot saved", "path", path, "instances", len(snap.Instances))
	e.setStatus(fmt.Sprintf("saved %s", path))
}

func (e *Editor) record(action replay.Action, p paint.Pointer) {
	if e.recorder != nil {
		e.recorder.Add(action, p)
	}
}

func (e *Editor) setStatus(msg string) {
	e.status = msg
	e.statusUntil = rl.GetTime() + 3
}
