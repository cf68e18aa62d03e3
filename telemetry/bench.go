package telemetry

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"
)

// DefaultBenchStabilize is how long a benchmark waits for the frame rate
// counter to settle before sampling.
const DefaultBenchStabilize = 5 * time.Second

// BenchSample is the viewpoint and frame rate captured with a benchmark.
type BenchSample struct {
	MapName    string
	LevelTitle string
	X, Y, Z    float64
	Angle      float64 // degrees
	Pitch      float64 // degrees
	FPS        int
}

// BenchOptions configures a Bench.
type BenchOptions struct {
	LogPath   string        // append-only text log, e.g. benchmarks.txt
	Stabilize time.Duration // zero means sample on the first check
}

// BenchResult reports what a Check did.
type BenchResult struct {
	Written    bool // a block was composed and the run is finished
	DisableFPS bool // the run turned the FPS display on and it should go off again
}

// Bench runs one-shot benchmarks: after a request it waits for the frame rate
// to stabilise, then appends one formatted block to the text log.
type Bench struct {
	stats   *FrameStats
	opts    BenchOptions
	console io.Writer
	output  *OutputManager

	pending     bool
	waitStart   time.Time
	switchedFPS bool
}

// NewBench creates a benchmark runner. console receives user-facing messages;
// output may be nil.
func NewBench(stats *FrameStats, opts BenchOptions, console io.Writer, output *OutputManager) *Bench {
	if opts.LogPath == "" {
		opts.LogPath = "benchmarks.txt"
	}
	if console == nil {
		console = io.Discard
	}
	return &Bench{stats: stats, opts: opts, console: console, output: output}
}

// Request arms a benchmark run. fpsShown reports whether the FPS display is
// already on; the return value asks the caller to turn it on.
func (b *Bench) Request(now time.Time, fpsShown bool) (enableFPS bool) {
	b.pending = true
	b.waitStart = now
	b.switchedFPS = !fpsShown
	return b.switchedFPS
}

// Pending reports whether a benchmark run is waiting to be written.
func (b *Bench) Pending() bool { return b.pending }

// Check writes the benchmark block once the stabilisation delay has passed.
func (b *Bench) Check(now time.Time, sample BenchSample) BenchResult {
	if !b.pending {
		return BenchResult{}
	}
	if now.Before(b.waitStart.Add(b.opts.Stabilize)) {
		return BenchResult{}
	}

	block := b.Compose(sample)
	if err := appendFile(b.opts.LogPath, block); err != nil {
		fmt.Fprintf(b.console, "Unable to save benchmark info to %s: %v\n", b.opts.LogPath, err)
		slog.Error("failed to append benchmark log", "path", b.opts.LogPath, "error", err)
	} else {
		fmt.Fprintln(b.console, "Benchmark info saved")
	}

	if err := b.output.WriteBench(b.record(now, sample)); err != nil {
		slog.Error("failed to write bench", "error", err)
	}

	result := BenchResult{Written: true, DisableFPS: b.switchedFPS}
	b.pending = false
	b.switchedFPS = false
	return result
}

// Compose formats the benchmark block for a sample.
func (b *Bench) Compose(sample BenchSample) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Map %s: \"%s\",\nx = %1.4f, y = %1.4f, z = %1.4f, angle = %1.4f, pitch = %1.4f\n",
		sample.MapName, sample.LevelTitle, sample.X, sample.Y, sample.Z, sample.Angle, sample.Pitch)
	sb.WriteString(b.stats.FormatReport(ReportPrimitives))
	sb.WriteString(b.stats.FormatReport(ReportTimes))
	sb.WriteString(b.stats.FormatReport(ReportLights))
	fmt.Fprintf(&sb, "Scene complexity: %d\n", b.stats.Complexity())
	fmt.Fprintf(&sb, "%d fps\n\n", sample.FPS)
	return sb.String()
}

func (b *Bench) record(now time.Time, sample BenchSample) BenchRecord {
	s := b.stats
	return BenchRecord{
		Time:           now.UTC().Format(time.RFC3339),
		Map:            sample.MapName,
		X:              sample.X,
		Y:              sample.Y,
		Z:              sample.Z,
		Angle:          sample.Angle,
		Pitch:          sample.Pitch,
		Complexity:     s.Complexity(),
		Walls:          s.Count(CounterRenderedLines),
		Flats:          s.Count(CounterRenderedFlats),
		Sprites:        s.Count(CounterRenderedSprites),
		AllMS:          s.Milliseconds(PhaseAll) + s.Milliseconds(PhaseFinish),
		RenderWallMS:   s.Milliseconds(PhaseRenderWall),
		RenderFlatMS:   s.Milliseconds(PhaseRenderFlat),
		RenderSpriteMS: s.Milliseconds(PhaseRenderSprite),
		BSPMS:          s.Milliseconds(PhaseBSP),
		FPS:            sample.FPS,
	}
}

func appendFile(path, text string) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("opening benchmark log: %w", err)
	}
	if _, err := f.WriteString(text); err != nil {
		f.Close()
		return fmt.Errorf("writing benchmark log: %w", err)
	}
	return f.Close()
}
