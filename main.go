package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/meshpaint/camera"
	"github.com/pthm-cable/meshpaint/config"
	"github.com/pthm-cable/meshpaint/editor"
	"github.com/pthm-cable/meshpaint/paint"
	"github.com/pthm-cable/meshpaint/replay"
	"github.com/pthm-cable/meshpaint/scene"
	"github.com/pthm-cable/meshpaint/telemetry"
)

// options holds the parsed command line.
type options struct {
	configPath  string
	headless    bool
	scriptPath  string
	recordPath  string
	outputDir   string
	snapshotDir string
	restorePath string
	seed        int64
}

func main() {
	var opts options

	// CLI flags
	flag.StringVar(&opts.configPath, "config", "", "Path to config.yaml (empty = use defaults)")
	flag.BoolVar(&opts.headless, "headless", false, "Replay -script without a window")
	flag.StringVar(&opts.scriptPath, "script", "", "Input script CSV to replay in headless mode")
	flag.StringVar(&opts.recordPath, "record", "", "Write live input to this script CSV on exit")
	flag.StringVar(&opts.outputDir, "output-dir", "", "Output directory for CSV logs and config snapshot (overrides config)")
	flag.StringVar(&opts.snapshotDir, "snapshot-dir", "", "Directory for scene snapshots (empty = output dir)")
	flag.StringVar(&opts.restorePath, "snapshot", "", "Snapshot file to restore before painting")
	flag.Int64Var(&opts.seed, "seed", 0, "RNG seed (0 = time-based)")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if opts.seed == 0 {
		opts.seed = time.Now().UnixNano()
	}
	if opts.outputDir == "" {
		opts.outputDir = cfg.Output.Dir
	}
	if opts.snapshotDir == "" {
		opts.snapshotDir = opts.outputDir
	}

	if err := run(cfg, opts, logger); err != nil {
		slog.Error("mesh painter failed", "error", err)
		os.Exit(1)
	}
}

// run builds the scene and paint session, then drives it from a script or
// from the interactive editor.
func run(cfg *config.Config, opts options, logger *slog.Logger) error {
	world := scene.Build(cfg, logger)

	if opts.restorePath != "" {
		snap, err := telemetry.LoadSnapshot(opts.restorePath)
		if err != nil {
			return err
		}
		handles, err := snap.Restore(world)
		if err != nil {
			return err
		}
		logger.Info("snapshot restored", "path", opts.restorePath, "instances", len(handles))
	}

	var parent paint.Handle
	if cfg.Parent != "" {
		h, ok := world.Group(cfg.Parent)
		if !ok {
			h = world.AddGroup(cfg.Parent)
		}
		parent = h
	}

	om, err := telemetry.NewOutputManager(opts.outputDir)
	if err != nil {
		return err
	}
	defer om.Close()
	if err := om.WriteConfig(cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	cam := camera.New(
		float64(cfg.Window.Width), float64(cfg.Window.Height),
		config.Vec(cfg.Camera.Target),
		cfg.Camera.Distance, cfg.Camera.Yaw, cfg.Camera.Pitch, cfg.Camera.Fovy,
	)
	metrics := paint.NewMetricsCache(world, logger)
	collector := telemetry.NewCollector(logger)

	var clock paint.Clock
	manual := &paint.ManualClock{}
	if opts.headless {
		clock = manual
	} else {
		clock = paint.NewSystemClock()
	}

	host := paint.Host{
		Raycaster: &scene.PointerCaster{Camera: cam, World: world, MaxDistance: cfg.Brush.RaycastDistance},
		Instancer: world,
		Measurer:  world,
		Clock:     clock,
		Random:    paint.NewRand(opts.seed),
	}
	sessionOpts := cfg.SessionOptions()
	sessionOpts.Logger = logger
	sessionOpts.Recorder = collector
	sessionOpts.Metrics = metrics
	sessionOpts.Parent = parent
	session := paint.NewSession(host, sessionOpts)

	logger.Info("starting mesh painter",
		"seed", opts.seed,
		"headless", opts.headless,
		"prefabs", len(cfg.Prefabs),
		"surfaces", len(world.Surfaces()),
		"output_dir", opts.outputDir,
	)

	if opts.headless {
		if opts.scriptPath == "" {
			return fmt.Errorf("headless mode needs -script")
		}
		script, err := replay.LoadScriptFile(opts.scriptPath)
		if err != nil {
			return err
		}
		replay.Run(script, session, manual)
	} else {
		var recorder *replay.Recorder
		if opts.recordPath != "" {
			recorder = replay.NewRecorder(clock)
		}
		runWindow(cfg, editor.Options{
			World:       world,
			Camera:      cam,
			Session:     session,
			Metrics:     metrics,
			Collector:   collector,
			Output:      om,
			Recorder:    recorder,
			SnapshotDir: snapshotDirOrDefault(opts.snapshotDir),
			Seed:        opts.seed,
			Logger:      logger,
		})
		if recorder != nil {
			if err := writeScript(opts.recordPath, recorder.Script()); err != nil {
				return err
			}
			logger.Info("input recorded", "path", opts.recordPath, "steps", len(recorder.Script()))
		}
	}
	session.Close()

	if err := collector.Flush(om); err != nil {
		return fmt.Errorf("flushing telemetry: %w", err)
	}
	if opts.snapshotDir != "" {
		snap := telemetry.NewSnapshot(opts.seed, session.Stats(), world.Instances())
		path, err := telemetry.SaveSnapshot(snap, opts.snapshotDir)
		if err != nil {
			return err
		}
		logger.Info("snapshot saved", "path", path)
	}

	logger.Info("session finished",
		"counters", collector.Counters(),
		"objects", session.Stats().Objects,
		"triangles", session.Stats().Triangles,
		"vertices", session.Stats().Vertices,
		"scene_instances", world.Count(),
	)
	return nil
}

// runWindow opens the editor window and blocks until it is closed.
func runWindow(cfg *config.Config, opts editor.Options) {
	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagMsaa4xHint)
	rl.InitWindow(int32(cfg.Window.Width), int32(cfg.Window.Height), "Mesh Painter")
	defer rl.CloseWindow()

	rl.SetTargetFPS(int32(cfg.Window.TargetFPS))
	// Escape deselects in the inspector instead of closing the window
	rl.SetExitKey(0)

	ed := editor.New(opts)
	defer ed.Close()

	for !rl.WindowShouldClose() {
		ed.Update()
		ed.Draw()
	}
}

// snapshotDirOrDefault returns the interactive snapshot directory.
func snapshotDirOrDefault(dir string) string {
	if dir == "" {
		return "snapshots"
	}
	return dir
}

// writeScript saves a recorded input script.
func writeScript(path string, script replay.Script) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating script directory: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating script: %w", err)
	}
	defer f.Close()
	return replay.WriteScript(f, script)
}
