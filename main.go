package main

import (
	"errors"
	"flag"
	"log/slog"
	"os"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/goodshot/clock"
	"github.com/pthm-cable/goodshot/config"
	"github.com/pthm-cable/goodshot/game"
	"github.com/pthm-cable/goodshot/level"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	levelPath := flag.String("level", "", "Level file to load (empty = config, then the built-in demo)")
	headless := flag.Bool("headless", false, "Run without a window")
	execCmds := flag.String("exec", "", "Console commands to run at startup, separated by ';'")
	maxFrames := flag.Int("max-frames", 0, "Stop after N frames (0 = unlimited)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	logStats := flag.Int("log-stats", 0, "Log frame statistics every N frames (0 = off)")
	debug := flag.Bool("debug", false, "Enable debug logging")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	logLevel := slog.LevelInfo
	if *debug {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	lvl, err := loadLevel(*levelPath, cfg.Level.Path)
	if err != nil {
		slog.Error("failed to load level", "error", err)
		os.Exit(1)
	}

	clk := calibratedClock(cfg)

	opts := game.Options{
		Headless:      *headless,
		Level:         lvl,
		Clock:         clk,
		OutputDir:     *outputDir,
		LogStatsEvery: *logStats,
	}

	if !*headless {
		rl.SetConfigFlags(rl.FlagWindowResizable)
		rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), "goodshot")
		defer rl.CloseWindow()
		rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))
	}

	g, err := game.NewGame(opts)
	if err != nil {
		slog.Error("failed to start", "error", err)
		os.Exit(1)
	}
	defer g.Unload()

	if err := g.ExecAll(*execCmds); err != nil {
		slog.Error("startup command failed", "error", err)
		os.Exit(2)
	}

	slog.Info("starting",
		"level", lvl.Name,
		"headless", *headless,
		"max_frames", *maxFrames,
		"seconds_per_cycle", clk.Factor().SecondsPerCycle,
	)

	for {
		if !*headless && rl.WindowShouldClose() {
			return
		}
		if err := g.Update(); err != nil {
			if errors.Is(err, game.ErrShutdown) {
				slog.Info("shutdown requested", "frame", g.Frame())
				return
			}
			slog.Error("frame failed", "error", err)
			os.Exit(1)
		}
		if !*headless {
			g.Draw()
		}

		if *maxFrames > 0 && g.Frame() >= *maxFrames {
			slog.Info("max frames reached", "frame", g.Frame())
			return
		}
	}
}

// loadLevel reads the level named on the command line, else the configured
// one, else builds the demo level.
func loadLevel(flagPath, cfgPath string) (*level.Level, error) {
	path := flagPath
	if path == "" {
		path = cfgPath
	}
	if path == "" {
		return level.Demo(), nil
	}
	return level.Load(path)
}

// calibratedClock measures the cycle counter against the monotonic clock.
// Calibration failures fall back to the default factor.
func calibratedClock(cfg *config.Config) *clock.Clock {
	src := clock.Hardware()
	if !cfg.Calibration.Enabled {
		return clock.New(src, clock.DefaultFactor)
	}

	cal := clock.NewCalibrator()
	cal.Cycles = src
	cal.MinDuration = cfg.Derived.CalibrationMin
	cal.Timeout = cfg.Derived.CalibrationLimit
	cal.Logger = slog.Default()
	if !cfg.Calibration.ElevatePriority {
		cal.Priority = clock.NoBoost()
	}

	factor, err := cal.Calibrate()
	if err != nil {
		slog.Warn("cycle counter calibration failed, using default factor", "error", err)
	}
	return clock.New(src, factor)
}
