package main

import (
	"log/slog"
	"math"
	"sync"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/meshpaint/camera"
	"github.com/pthm-cable/meshpaint/config"
	"github.com/pthm-cable/meshpaint/paint"
	"github.com/pthm-cable/meshpaint/replay"
	"github.com/pthm-cable/meshpaint/scene"
	"github.com/pthm-cable/meshpaint/telemetry"
)

// FitnessEvaluator replays a script headlessly and scores how close the
// painted geometry comes to a triangle budget.
type FitnessEvaluator struct {
	params     *ParamVector
	script     replay.Script
	seeds      []int64
	baseConfig *config.Config
	budget     float64 // target triangles per run

	// Best run tracking
	mu           sync.Mutex
	bestFitness  float64
	bestSnapshot *telemetry.Snapshot
	lastResult   evalSummary
}

// evalSummary aggregates the runs of one evaluation.
type evalSummary struct {
	MeanTriangles float64
	StdTriangles  float64
	MeanObjects   float64
	MeanDiscards  float64
}

// runResult holds the outcome of a single scripted run.
type runResult struct {
	stats    paint.SessionStats
	counters telemetry.Counters
	snapshot *telemetry.Snapshot
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, script replay.Script, seeds []int64, baseCfg *config.Config, budget float64) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:      params,
		script:      script,
		seeds:       seeds,
		baseConfig:  baseCfg,
		budget:      budget,
		bestFitness: math.Inf(1),
	}
}

// BestSnapshot returns the painted scene of the best evaluation.
func (fe *FitnessEvaluator) BestSnapshot() *telemetry.Snapshot {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.bestSnapshot
}

// LastResult returns the summary of the most recent evaluation.
func (fe *FitnessEvaluator) LastResult() evalSummary {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastResult
}

// Evaluate computes fitness for raw parameter values (lower = better).
// Fitness is the squared relative error of the mean painted triangle count
// against the budget, plus a small penalty for seed-to-seed spread.
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	cfg := copyConfig(fe.baseConfig)
	fe.params.ApplyToConfig(cfg, x)

	// Run all seeds in parallel
	results := make([]runResult, len(fe.seeds))
	var wg sync.WaitGroup
	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			results[idx] = runScript(cfg, fe.script, s)
		}(i, seed)
	}
	wg.Wait()

	tris := make([]float64, len(results))
	objects := make([]float64, len(results))
	discards := make([]float64, len(results))
	for i, r := range results {
		tris[i] = float64(r.stats.Triangles)
		objects[i] = float64(r.stats.Objects)
		discards[i] = float64(r.counters.Discards)
	}
	mean, std := stat.MeanStdDev(tris, nil)
	if len(tris) < 2 {
		std = 0
	}
	summary := evalSummary{
		MeanTriangles: mean,
		StdTriangles:  std,
		MeanObjects:   stat.Mean(objects, nil),
		MeanDiscards:  stat.Mean(discards, nil),
	}
	fitness := fe.computeFitness(summary)

	// Keep the run closest to the budget as the representative scene
	best := 0
	for i := range results {
		if math.Abs(tris[i]-fe.budget) < math.Abs(tris[best]-fe.budget) {
			best = i
		}
	}

	fe.mu.Lock()
	if fitness < fe.bestFitness {
		fe.bestFitness = fitness
		fe.bestSnapshot = results[best].snapshot
	}
	fe.lastResult = summary
	fe.mu.Unlock()

	return fitness
}

// Spread penalty weight relative to the budget error.
const spreadWeight = 0.1

// computeFitness scores a summary (lower = better).
func (fe *FitnessEvaluator) computeFitness(s evalSummary) float64 {
	if fe.budget <= 0 {
		return s.MeanTriangles
	}
	rel := (s.MeanTriangles - fe.budget) / fe.budget
	spread := s.StdTriangles / fe.budget
	return rel*rel + spreadWeight*spread*spread
}

// runScript builds a fresh scene and session for cfg and replays script.
func runScript(cfg *config.Config, script replay.Script, seed int64) runResult {
	logger := slog.New(slog.DiscardHandler)
	world := scene.Build(cfg, logger)

	var parent paint.Handle
	if cfg.Parent != "" {
		parent = world.AddGroup(cfg.Parent)
	}

	cam := camera.New(
		float64(cfg.Window.Width), float64(cfg.Window.Height),
		config.Vec(cfg.Camera.Target),
		cfg.Camera.Distance, cfg.Camera.Yaw, cfg.Camera.Pitch, cfg.Camera.Fovy,
	)
	clock := &paint.ManualClock{}
	collector := telemetry.NewCollector(logger)

	opts := cfg.SessionOptions()
	opts.Logger = logger
	opts.Recorder = collector
	opts.Parent = parent
	session := paint.NewSession(paint.Host{
		Raycaster: &scene.PointerCaster{Camera: cam, World: world, MaxDistance: cfg.Brush.RaycastDistance},
		Instancer: world,
		Measurer:  world,
		Clock:     clock,
		Random:    paint.NewRand(seed),
	}, opts)

	replay.Run(script, session, clock)
	session.Close()

	return runResult{
		stats:    session.Stats(),
		counters: collector.Counters(),
		snapshot: telemetry.NewSnapshot(seed, session.Stats(), world.Instances()),
	}
}
