// Package game runs the guard perception sandbox: a world of guards, one
// wandering target and static occluders, stepped at a fixed rate either
// headless or in a raylib window.
package game

import (
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/sentry/audio"
	"github.com/pthm-cable/sentry/camera"
	"github.com/pthm-cable/sentry/components"
	"github.com/pthm-cable/sentry/config"
	"github.com/pthm-cable/sentry/systems"
	"github.com/pthm-cable/sentry/telemetry"
	"github.com/pthm-cable/sentry/ui"
)

// guardTurnRate bounds how fast guards turn, degrees per second.
const guardTurnRate = 120.0

// Options configures a game instance.
type Options struct {
	Seed           int64
	OutputDir      string
	Headless       bool
	StepsPerUpdate int
	LogStats       bool

	// Config overrides the global config when set.
	Config *config.Config
}

// guardRuntime holds the per-guard collaborators that live outside the ECS.
type guardRuntime struct {
	entity ecs.Entity
	id     uint32
	name   string
	probe  *systems.Probe
	cuer   *audio.Cuer

	lastCue     audio.Category
	lastCueTick int32
}

// Game holds the complete sandbox state.
type Game struct {
	world *ecs.World
	rng   *rand.Rand
	cfg   *config.Config

	guardMapper    *ecs.Map4[components.Guard, components.Position, components.Facing, components.Sweep]
	targetMapper   *ecs.Map4[components.Position, components.Facing, components.Wanderer, components.Layer]
	occluderMapper *ecs.Map2[components.Box, components.Layer]
	occluderFilter *ecs.Filter2[components.Box, components.Layer]
	posMap         *ecs.Map1[components.Position]
	facingMap      *ecs.Map1[components.Facing]

	// Scene
	grid      *systems.SpatialGrid
	occluders *systems.OccluderIndex
	target    ecs.Entity

	// Systems
	index      *systems.IndexSystem
	wander     *systems.WanderSystem
	behavior   *systems.BehaviorSystem
	perception *systems.PerceptionSystem
	observer   systems.Observer
	parallel   *parallelState

	guards []*guardRuntime
	byID   map[uint32]*guardRuntime

	// Telemetry
	collector     *telemetry.Collector
	perfCollector *telemetry.PerfCollector
	outputManager *telemetry.OutputManager
	pending       []telemetry.Event
	logStats      bool
	lastPerf      telemetry.PerfStats

	// Rendering
	camera     *camera.Camera
	hud        *ui.HUD
	perfPanel  *ui.PerfPanel
	guardPanel *ui.GuardPanel
	showCones  bool
	showLabels bool
	showPerf   bool

	// State
	tick           int32
	paused         bool
	headless       bool
	stepsPerUpdate int
	err            error
}

// NewGameWithOptions builds the sandbox from the global config.
func NewGameWithOptions(opts Options) (*Game, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Cfg()
	}
	world := ecs.NewWorld()

	steps := opts.StepsPerUpdate
	if steps < 1 {
		steps = 1
	}

	g := &Game{
		world: world,
		rng:   rand.New(rand.NewSource(opts.Seed)),
		cfg:   cfg,

		guardMapper:    ecs.NewMap4[components.Guard, components.Position, components.Facing, components.Sweep](world),
		targetMapper:   ecs.NewMap4[components.Position, components.Facing, components.Wanderer, components.Layer](world),
		occluderMapper: ecs.NewMap2[components.Box, components.Layer](world),
		occluderFilter: ecs.NewFilter2[components.Box, components.Layer](world),
		posMap:         ecs.NewMap1[components.Position](world),
		facingMap:      ecs.NewMap1[components.Facing](world),

		grid:      systems.NewSpatialGrid(cfg.World.Width, cfg.World.Depth, cfg.Physics.GridCellSize),
		occluders: systems.NewOccluderIndex(),

		byID:           make(map[uint32]*guardRuntime),
		collector:      telemetry.NewCollector(cfg.Telemetry.StatsWindow, cfg.Physics.DT),
		perfCollector:  telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow),
		logStats:       opts.LogStats,
		showCones:      true,
		showLabels:     true,
		headless:       opts.Headless,
		stepsPerUpdate: steps,
	}

	g.index = systems.NewIndexSystem(world, g.grid)
	g.behavior = systems.NewBehaviorSystem(world, guardTurnRate)
	g.perception = systems.NewPerceptionSystem(world)

	if err := g.buildOccluders(); err != nil {
		return nil, err
	}
	solid, err := cfg.Mask(cfg.Layers...)
	if err != nil {
		return nil, err
	}
	g.wander = systems.NewWanderSystem(world, opts.Seed, cfg.Target.WanderScale,
		cfg.World.Width, cfg.World.Depth, g.occluders, maskOf(solid))
	g.buildTarget()
	if err := g.buildGuards(); err != nil {
		return nil, err
	}

	g.parallel = newParallelState()
	g.observer = g.parallel
	g.index.Update()

	om, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("output: %w", err)
	}
	g.outputManager = om
	if err := om.WriteConfig(cfg); err != nil {
		slog.Error("failed to write config snapshot", "error", err)
	}

	if !opts.Headless {
		g.camera = camera.New(float32(cfg.Screen.Width), float32(cfg.Screen.Height-hudHeight),
			float32(cfg.World.Width), float32(cfg.World.Depth), cfg.Derived.PixelsPerM)
		g.hud = ui.NewHUD()
		g.perfPanel = ui.NewPerfPanel(10, 10)
		g.guardPanel = ui.NewGuardPanel()
	}

	slog.Info("sandbox ready",
		"run_id", om.RunID(),
		"guards", len(g.guards),
		"occluders", g.occluders.Len(),
		"seed", opts.Seed,
	)
	return g, nil
}

// Update handles input and advances the simulation in graphical mode.
func (g *Game) Update() error {
	g.handleInput()
	if g.paused {
		return g.err
	}
	return g.UpdateHeadless()
}

// UpdateHeadless advances the simulation by StepsPerUpdate ticks.
func (g *Game) UpdateHeadless() error {
	if g.err != nil {
		return g.err
	}
	for i := 0; i < g.stepsPerUpdate; i++ {
		if err := g.simulationStep(); err != nil {
			g.err = err
			return err
		}
	}
	return nil
}

// Tick returns the number of completed simulation ticks.
func (g *Game) Tick() int32 {
	return g.tick
}

// SimTime returns elapsed simulation seconds.
func (g *Game) SimTime() float64 {
	return float64(g.tick) * g.cfg.Physics.DT
}

// Err returns the error that stopped the simulation, if any.
func (g *Game) Err() error {
	return g.err
}

// Paused reports whether graphical stepping is paused.
func (g *Game) Paused() bool {
	return g.paused
}

// Pause stops graphical stepping until the user resumes.
func (g *Game) Pause() {
	g.paused = true
}
