// Package main refines the viewpoint found by the goodshot sweep with a
// Nelder-Mead search over position and angle, scoring each candidate by its
// scene complexity.
//
// Usage: go run ./cmd/refine -output runs/refine
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/goodshot/clock"
	"github.com/pthm-cable/goodshot/config"
	"github.com/pthm-cable/goodshot/explorer"
	"github.com/pthm-cable/goodshot/game"
	"github.com/pthm-cable/goodshot/level"
	"github.com/pthm-cable/goodshot/renderer"
)

// formatDuration formats a duration as MM:SS, or HH:MM:SS when longer.
func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second

	if h > 0 {
		return fmt.Sprintf("%dh%02dm%02ds", h, m, s)
	}
	return fmt.Sprintf("%dm%02ds", m, s)
}

// noShots discards the sweep's own screenshot; the refined one replaces it.
type noShots struct{}

func (noShots) Screenshot(string) error { return nil }

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Base config YAML file (empty = use defaults)")
	levelPath := flag.String("level", "", "Level file (empty = config, then the built-in demo)")
	maxEvals := flag.Int("max-evals", 300, "Maximum number of evaluations")
	step := flag.Float64("step", 32, "Initial simplex size, in map units and degrees")
	maxFrames := flag.Int("max-frames", 100000, "Frame cap for the initial sweep")
	outputDir := flag.String("output", "", "Output directory for results")
	flag.Parse()

	if *outputDir == "" {
		log.Fatal("--output is required")
	}
	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		log.Fatalf("failed to create output directory: %v", err)
	}

	if err := config.Init(*configPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	cfg := config.Cfg()

	path := *levelPath
	if path == "" {
		path = cfg.Level.Path
	}
	lvl := level.Demo()
	if path != "" {
		var err error
		if lvl, err = level.Load(path); err != nil {
			log.Fatalf("failed to load level: %v", err)
		}
	}

	clk := clock.New(clock.Hardware(), clock.DefaultFactor)

	start, err := sweep(lvl, clk, *maxFrames)
	if err != nil {
		log.Printf("sweep failed, starting from the level start: %v", err)
	}

	ref := NewRefiner(lvl, renderer.Options{
		HalfFOV:      cfg.Derived.HalfFOV,
		ViewDistance: cfg.Renderer.ViewDistance,
		LightRange:   cfg.Renderer.LightRange,
	}, clk)

	startTime := time.Now()
	ref.OnEval = func(rec EvalRecord, best Candidate) {
		if rec.Eval%25 != 0 {
			return
		}
		elapsed := time.Since(startTime)
		fmt.Printf("Eval %d/%d: complexity=%d (best=%d) | elapsed: %s\n",
			rec.Eval, *maxEvals, rec.Complexity, best.Complexity, formatDuration(elapsed))
	}

	fmt.Printf("Refining from (%.0f,%.0f) angle %.1f, sweep complexity %d, max_evals=%d\n",
		start.X, start.Y, start.Angle, start.Complexity, *maxEvals)

	best, err := ref.Refine(start, *maxEvals, *step)
	if err != nil {
		log.Printf("optimization ended: %v", err)
	}

	fmt.Printf("\nRefinement complete after %d evaluations in %s\n",
		len(ref.Records()), formatDuration(time.Since(startTime)))
	fmt.Printf("Best: (%.3f,%.3f) angle %.3f, complexity %d (sweep %d)\n",
		best.X, best.Y, best.Angle, best.Complexity, start.Complexity)

	logPath := filepath.Join(*outputDir, "refine_log.csv")
	if err := writeLog(logPath, ref.Records()); err != nil {
		log.Printf("failed to write evaluation log: %v", err)
	}

	bestPath := filepath.Join(*outputDir, "best_viewpoint.json")
	data, err := json.MarshalIndent(best, "", "  ")
	if err != nil {
		log.Printf("failed to marshal best viewpoint: %v", err)
	} else if err := os.WriteFile(bestPath, data, 0644); err != nil {
		log.Printf("failed to write best viewpoint: %v", err)
	} else {
		fmt.Printf("Best viewpoint saved to: %s\n", bestPath)
	}

	shotPath := filepath.Join(*outputDir, cfg.Explorer.ScreenshotFile)
	shooter := renderer.NewShooter(true, cfg.Screen.Width, cfg.Screen.Height, func() renderer.Scene {
		return ref.Scene(best)
	})
	if err := shooter.Screenshot(shotPath); err != nil {
		log.Printf("failed to write screenshot: %v", err)
	} else {
		fmt.Printf("Screenshot saved to: %s\n", shotPath)
	}
}

// sweep runs the goodshot sweep headless and returns its viewpoint. Without
// one it returns the level start facing north.
func sweep(lvl *level.Level, clk *clock.Clock, maxFrames int) (Candidate, error) {
	start := Candidate{X: lvl.Start.X, Y: lvl.Start.Y, Angle: 90}

	g, err := game.NewGame(game.Options{
		Headless: true,
		Level:    lvl,
		Clock:    clk,
		Console:  io.Discard,
		Shots:    noShots{},
	})
	if err != nil {
		return start, fmt.Errorf("creating game: %w", err)
	}
	defer g.Unload()

	if err := g.Exec("goodshot"); err != nil {
		return start, err
	}
	for g.Frame() < maxFrames && g.Explorer().Mode() != explorer.ModeIdle {
		if err := g.Update(); err != nil {
			if errors.Is(err, game.ErrShutdown) {
				break
			}
			return start, err
		}
	}

	res, ok := g.Explorer().LastResult()
	if !ok {
		return start, errors.New("sweep found no viewpoint")
	}
	return Candidate{
		X:          float64(res.X),
		Y:          float64(res.Y),
		Angle:      res.Angle.Degrees(),
		Complexity: res.Complexity,
	}, nil
}

func writeLog(path string, records []EvalRecord) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()
	if err := gocsv.MarshalFile(&records, f); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
