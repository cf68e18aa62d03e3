// Package telemetry collects per-frame renderer statistics and turns them into
// reports, benchmark logs and CSV output.
package telemetry

import (
	"log/slog"

	"github.com/pthm-cable/goodshot/clock"
)

// Phase identifies a timed stage of the render frame.
type Phase int

// Render phases.
const (
	PhaseRenderWall Phase = iota
	PhaseSetupWall
	PhaseClipWall
	PhaseSplitWall
	PhaseRenderFlat
	PhaseSetupFlat
	PhaseRenderSprite
	PhaseSetupSprite
	PhaseAll
	PhaseFinish
	PhasePortalAll
	PhaseBSP
	PhaseProcessAll
	PhaseRenderAll
	PhaseDirty
	PhaseDrawCalls

	numPhases
)

var phaseNames = [numPhases]string{
	PhaseRenderWall:   "render_wall",
	PhaseSetupWall:    "setup_wall",
	PhaseClipWall:     "clip_wall",
	PhaseSplitWall:    "split_wall",
	PhaseRenderFlat:   "render_flat",
	PhaseSetupFlat:    "setup_flat",
	PhaseRenderSprite: "render_sprite",
	PhaseSetupSprite:  "setup_sprite",
	PhaseAll:          "all",
	PhaseFinish:       "finish",
	PhasePortalAll:    "portal_all",
	PhaseBSP:          "bsp",
	PhaseProcessAll:   "process_all",
	PhaseRenderAll:    "render_all",
	PhaseDirty:        "dirty",
	PhaseDrawCalls:    "draw_calls",
}

func (p Phase) String() string {
	if p < 0 || p >= numPhases {
		return "unknown"
	}
	return phaseNames[p]
}

// Counter identifies a per-frame integer statistic.
type Counter int

// Render counters.
const (
	CounterVertices Counter = iota
	CounterFlatVertices
	CounterFlatPrimitives
	CounterRenderedLines
	CounterRenderedFlats
	CounterRenderedSprites
	CounterVertexSplits
	CounterTextureSplits
	CounterRenderedDecals
	CounterRenderedPortals
	CounterDLightWallsProcessed
	CounterDLightWallsRendered
	CounterDLightFlatsProcessed
	CounterDLightFlatsRendered

	numCounters
)

var counterNames = [numCounters]string{
	CounterVertices:             "vertices",
	CounterFlatVertices:         "flat_vertices",
	CounterFlatPrimitives:       "flat_primitives",
	CounterRenderedLines:        "rendered_lines",
	CounterRenderedFlats:        "rendered_flats",
	CounterRenderedSprites:      "rendered_sprites",
	CounterVertexSplits:         "vertex_splits",
	CounterTextureSplits:        "texture_splits",
	CounterRenderedDecals:       "rendered_decals",
	CounterRenderedPortals:      "rendered_portals",
	CounterDLightWallsProcessed: "dlight_walls_processed",
	CounterDLightWallsRendered:  "dlight_walls_rendered",
	CounterDLightFlatsProcessed: "dlight_flats_processed",
	CounterDLightFlatsRendered:  "dlight_flats_rendered",
}

func (c Counter) String() string {
	if c < 0 || c >= numCounters {
		return "unknown"
	}
	return counterNames[c]
}

// PhaseByName looks up a phase by its snake_case name.
func PhaseByName(name string) (Phase, bool) {
	for p, n := range phaseNames {
		if n == name {
			return Phase(p), true
		}
	}
	return 0, false
}

// CounterByName looks up a counter by its snake_case name.
func CounterByName(name string) (Counter, bool) {
	for c, n := range counterNames {
		if n == name {
			return Counter(c), true
		}
	}
	return 0, false
}

// FrameStats is the registry of render timers and counters. It is constructed
// once and handed to the renderer and the explorer; the owner resets it at the
// start of every measurement window.
//
// Counters always run. Timers only run while timing is enabled, which the
// owner ties to whether anything is reading them.
type FrameStats struct {
	clock    *clock.Clock
	timers   [numPhases]*clock.Timer
	counters [numCounters]int
	timing   bool
}

// NewFrameStats creates a zeroed registry whose timers run on clk, with
// timing enabled.
func NewFrameStats(clk *clock.Clock) *FrameStats {
	s := &FrameStats{clock: clk, timing: true}
	for i := range s.timers {
		s.timers[i] = clk.NewTimer()
	}
	return s
}

// Clock returns the clock the timers run on.
func (s *FrameStats) Clock() *clock.Clock { return s.clock }

// Timer returns the timer for a phase.
func (s *FrameStats) Timer(p Phase) *clock.Timer { return s.timers[p] }

// SetTiming enables or disables the phase timers. Disabling does not clear
// accumulated time.
func (s *FrameStats) SetTiming(on bool) { s.timing = on }

// Timing reports whether the phase timers run.
func (s *FrameStats) Timing() bool { return s.timing }

// Start starts the timer for a phase.
func (s *FrameStats) Start(p Phase) {
	if s.timing {
		s.timers[p].Start()
	}
}

// Stop stops the timer for a phase.
func (s *FrameStats) Stop(p Phase) {
	if s.timing {
		s.timers[p].Stop()
	}
}

// Milliseconds returns the accumulated time of a phase.
func (s *FrameStats) Milliseconds(p Phase) float64 { return s.timers[p].Milliseconds() }

// Add adds n to a counter.
func (s *FrameStats) Add(c Counter, n int) { s.counters[c] += n }

// Inc increments a counter.
func (s *FrameStats) Inc(c Counter) { s.counters[c]++ }

// Count returns the value of a counter.
func (s *FrameStats) Count(c Counter) int { return s.counters[c] }

// ResetAll zeroes every counter and every timer.
func (s *FrameStats) ResetAll() {
	for _, t := range s.timers {
		t.Stop()
		t.Reset()
	}
	s.counters = [numCounters]int{}
}

// BeginFrame resets the registry and starts the whole-frame timer.
func (s *FrameStats) BeginFrame() {
	s.ResetAll()
	s.Start(PhaseAll)
}

// Complexity is the scene complexity of the frame: rendered walls, flats and
// sprites.
func (s *FrameStats) Complexity() int {
	return s.counters[CounterRenderedLines] +
		s.counters[CounterRenderedFlats] +
		s.counters[CounterRenderedSprites]
}

// LogValue implements slog.LogValuer for structured logging.
func (s *FrameStats) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, int(numCounters)+int(numPhases)+1)
	attrs = append(attrs, slog.Int("complexity", s.Complexity()))
	for c := Counter(0); c < numCounters; c++ {
		attrs = append(attrs, slog.Int(c.String(), s.counters[c]))
	}
	for p := Phase(0); p < numPhases; p++ {
		attrs = append(attrs, slog.Float64(p.String()+"_ms", s.timers[p].Milliseconds()))
	}
	return slog.GroupValue(attrs...)
}
