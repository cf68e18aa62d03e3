// Package game owns the frame loop: it moves the viewpoint actor, runs the
// visibility pass, steps the viewpoint explorer and the benchmark, and serves
// console commands.
package game

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/goodshot/camera"
	"github.com/pthm-cable/goodshot/clock"
	"github.com/pthm-cable/goodshot/components"
	"github.com/pthm-cable/goodshot/config"
	"github.com/pthm-cable/goodshot/explorer"
	"github.com/pthm-cable/goodshot/level"
	"github.com/pthm-cable/goodshot/renderer"
	"github.com/pthm-cable/goodshot/telemetry"
	"github.com/pthm-cable/goodshot/ui"
)

// ErrShutdown is returned by Update once something asked the process to end.
var ErrShutdown = errors.New("game: shutdown requested")

// Options configures a Game.
type Options struct {
	Headless  bool
	Level     *level.Level // nil = no level active
	Clock     *clock.Clock // nil = hardware counter with the default factor
	OutputDir string       // CSV output, empty = disabled

	// LogStatsEvery logs the frame statistics every N frames; 0 disables.
	LogStatsEvery int

	// Optional overrides, mainly for tests.
	Console io.Writer              // command output; nil = Logf
	Shots   explorer.Screenshotter // nil = renderer.Shooter
	Now     func() time.Time
}

// Game holds the complete run state.
type Game struct {
	cfg *config.Config
	lvl *level.Level

	world       *ecs.World
	actorMapper *ecs.Map4[components.Position, components.Facing, components.Stance, components.Player]
	actorFilter *ecs.Filter4[components.Position, components.Facing, components.Stance, components.Player]
	posMap      *ecs.Map1[components.Position]
	facingMap   *ecs.Map1[components.Facing]
	stanceMap   *ecs.Map1[components.Stance]
	playerMap   *ecs.Map1[components.Player]
	actor       ecs.Entity

	commands *CommandQueue
	explorer *explorer.Explorer

	stats   *telemetry.FrameStats
	reports *telemetry.ReportCache
	shown   map[telemetry.ReportKind]bool
	bench   *telemetry.Bench
	fps     *telemetry.FPSWindow
	output  *telemetry.OutputManager

	vis     *renderer.Visibility
	mapView *renderer.MapView
	list    *renderer.DrawList
	hud     *ui.HUD
	camera  *camera.Camera

	console       io.Writer
	now           func() time.Time
	headless      bool
	showFPS       bool
	follow        bool // map camera tracks the actor
	logStatsEvery int

	frame      int
	complexity int // scene complexity of the last rendered frame
	shutdown   bool
}

// NewGame creates a game from the global configuration.
func NewGame(opts Options) (*Game, error) {
	cfg := config.Cfg()

	clk := opts.Clock
	if clk == nil {
		clk = clock.New(clock.Hardware(), clock.DefaultFactor)
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	console := opts.Console
	if console == nil {
		console = consoleWriter{}
	}

	world := ecs.NewWorld()
	g := &Game{
		cfg:           cfg,
		lvl:           opts.Level,
		world:         world,
		actorMapper:   ecs.NewMap4[components.Position, components.Facing, components.Stance, components.Player](world),
		actorFilter:   ecs.NewFilter4[components.Position, components.Facing, components.Stance, components.Player](world),
		posMap:        ecs.NewMap1[components.Position](world),
		facingMap:     ecs.NewMap1[components.Facing](world),
		stanceMap:     ecs.NewMap1[components.Stance](world),
		playerMap:     ecs.NewMap1[components.Player](world),
		commands:      NewCommandQueue(),
		shown:         make(map[telemetry.ReportKind]bool),
		console:       console,
		now:           now,
		headless:      opts.Headless,
		logStatsEvery: opts.LogStatsEvery,
	}

	g.stats = telemetry.NewFrameStats(clk)
	g.reports = telemetry.NewReportCache(g.stats, cfg.Derived.TimesRefresh)
	g.fps = telemetry.NewFPSWindow(cfg.Telemetry.FPSWindow)

	output, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("creating output manager: %w", err)
	}
	g.output = output
	if err := g.output.WriteConfig(cfg); err != nil {
		slog.Error("failed to write config snapshot", "error", err)
	}

	g.bench = telemetry.NewBench(g.stats, telemetry.BenchOptions{
		LogPath:   cfg.Bench.LogPath,
		Stabilize: cfg.Derived.BenchStabilize,
	}, console, g.output)

	g.vis = renderer.NewVisibility(g.stats, renderer.Options{
		HalfFOV:      cfg.Derived.HalfFOV,
		ViewDistance: cfg.Renderer.ViewDistance,
		LightRange:   cfg.Renderer.LightRange,
	})
	g.list = g.vis.DrawList()

	shots := opts.Shots
	if shots == nil {
		shots = renderer.NewShooter(opts.Headless, cfg.Screen.Width, cfg.Screen.Height, g.scene)
	}
	var samples explorer.SampleSink
	if g.output != nil {
		samples = sweepRecorder{output: g.output}
	}
	g.explorer = explorer.New(explorer.Options{
		SettleFrames:   cfg.Explorer.SettleFrames,
		QuitAfterShot:  cfg.Explorer.QuitAfterShot,
		ScreenshotFile: cfg.Explorer.ScreenshotFile,
		Samples:        samples,
	}, g.commands, shots, slog.Default())

	g.spawnActor()

	if !opts.Headless {
		g.mapView = renderer.NewMapView(g.stats)
		g.hud = ui.NewHUD()
		g.camera = camera.New(float32(cfg.Screen.Width), float32(cfg.Screen.Height))
		g.resetCamera()
	}

	return g, nil
}

// Update runs one frame. It returns ErrShutdown once the run should end.
func (g *Game) Update() error {
	if g.shutdown {
		return ErrShutdown
	}
	if !g.headless {
		g.handleInput()
	}
	g.step()
	if g.shutdown {
		return ErrShutdown
	}
	return nil
}

// step is one frame: queued commands take effect, the visibility pass renders
// the frame, then the explorer and the benchmark look at the result.
func (g *Game) step() {
	g.commands.Apply(g.teleportActor)
	g.updateActors()

	g.stats.SetTiming(g.benching())
	g.stats.BeginFrame()
	g.list = g.vis.Render(g.lvl, g.eye())
	g.stats.Stop(telemetry.PhaseAll)
	g.complexity = g.stats.Complexity()

	out := g.explorer.AdvanceOneFrame(explorer.Frame{
		Map:        g.explorerMap(),
		View:       g.view(),
		Complexity: g.complexity,
	})
	if out.Captured {
		fmt.Fprint(g.console, out.Report)
	}
	if out.Shutdown {
		g.shutdown = true
	}

	g.checkBench()
	g.fps.RecordFrame()

	g.frame++
	if g.logStatsEvery > 0 && g.frame%g.logStatsEvery == 0 {
		g.logFrameStats()
	}
}

// benching reports whether anything reads the phase timers this frame.
func (g *Game) benching() bool {
	return g.shown[telemetry.ReportTimes] || g.bench.Pending()
}

func (g *Game) checkBench() {
	if !g.bench.Pending() {
		return
	}
	res := g.bench.Check(g.now(), g.benchSample())
	if res.DisableFPS {
		g.showFPS = false
	}
}

func (g *Game) benchSample() telemetry.BenchSample {
	pos, facing, stance, player := g.actorMapper.Get(g.actor)
	s := telemetry.BenchSample{
		X:     pos.X,
		Y:     pos.Y,
		Z:     stance.EyeZ(player.FloorZ),
		Angle: facing.Angle.Degrees(),
		Pitch: facing.Pitch,
		FPS:   int(g.fps.Stats().AvgFPS + 0.5),
	}
	if g.lvl != nil {
		s.MapName, s.LevelTitle = g.lvl.Name, g.lvl.Title
	}
	return s
}

// explorerMap returns the active level, or a nil interface without one.
func (g *Game) explorerMap() explorer.Map {
	if g.lvl == nil {
		return nil
	}
	return g.lvl
}

// scene feeds headless screenshots.
func (g *Game) scene() renderer.Scene {
	return renderer.Scene{Level: g.lvl, List: g.list, Eye: g.eye()}
}

// Shutdown reports whether the run should end.
func (g *Game) Shutdown() bool { return g.shutdown }

// Frame returns the number of frames run.
func (g *Game) Frame() int { return g.frame }

// Complexity returns the scene complexity of the last frame.
func (g *Game) Complexity() int { return g.complexity }

// Explorer returns the viewpoint explorer.
func (g *Game) Explorer() *explorer.Explorer { return g.explorer }

// Stats returns the frame statistics.
func (g *Game) Stats() *telemetry.FrameStats { return g.stats }

// Unload releases all resources.
func (g *Game) Unload() {
	if err := g.output.Close(); err != nil {
		slog.Error("failed to close output", "error", err)
	}
}
