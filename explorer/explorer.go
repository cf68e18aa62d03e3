// Package explorer searches a level for the viewpoint with the highest scene
// complexity. It visits one sub-region per rendered frame, then settles the
// camera on the best viewpoint found and takes a screenshot.
//
// The explorer never loops internally: the owner calls AdvanceOneFrame once
// per rendered frame, and a teleport issued in frame N is scored in frame N+1.
package explorer

import (
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/pthm-cable/goodshot/camera"
	"github.com/pthm-cable/goodshot/level"
)

// DefaultSettleFrames is how long the camera rests on the best viewpoint
// before the screenshot, long enough for the view height to recover from the
// teleport.
const DefaultSettleFrames = 45

var (
	// ErrNoLevel is returned by Start when no level is active.
	ErrNoLevel = errors.New("explorer: no level active")

	// ErrBusy is returned by Start while a sweep is in progress.
	ErrBusy = errors.New("explorer: sweep already in progress")
)

// Mode is the explorer state.
type Mode int

// Explorer modes.
const (
	ModeIdle Mode = iota
	ModeSweeping
	ModeSettling
	ModeCapturing
)

func (m Mode) String() string {
	switch m {
	case ModeIdle:
		return "idle"
	case ModeSweeping:
		return "sweeping"
	case ModeSettling:
		return "settling"
	case ModeCapturing:
		return "capturing"
	}
	return "unknown"
}

// Map is the spatial partition being swept. Implementations must be
// comparable (typically pointers): a Frame carrying a different Map than the
// one the sweep started on cancels the sweep.
type Map interface {
	RegionCount() int
	SubRegionCount(r int) int
	SubRegionSegments(r, s int) []level.Segment
	Heights(r int, x, y float64) (floor, ceiling float64)
}

// Surroundings describes where the viewpoint is standing.
type Surroundings struct {
	Z          float64
	FloorZ     float64
	Region     int
	LightLevel int
}

// Viewpoint is the controlled actor the camera is attached to.
type Viewpoint interface {
	Position() (x, y float64)
	Angle() camera.Angle
	SetAngle(camera.Angle)
	Surroundings() Surroundings
}

// Commands is the command channel teleports are queued on. Teleports take
// effect on the next simulated frame.
type Commands interface {
	Teleport(x, y int)
}

// Screenshotter writes a screenshot of the current frame.
type Screenshotter interface {
	Screenshot(filename string) error
}

// Sample is one scored sub-region.
type Sample struct {
	Step       int
	Region     int
	SubRegion  int
	X, Y       int
	Angle      camera.Angle
	Complexity int
	Degenerate bool
	Best       bool
}

// SampleSink receives every scored sample of a sweep.
type SampleSink interface {
	RecordSample(Sample)
}

// Options configures an Explorer.
type Options struct {
	SettleFrames   int
	QuitAfterShot  bool
	ScreenshotFile string
	Samples        SampleSink // optional
}

// State is the complete progress of the explorer. All progress lives here so
// that nothing is carried between frames in hidden variables.
type State struct {
	Mode           Mode
	RegionIndex    int
	SubRegionIndex int
	BestComplexity int
	BestX, BestY   int
	BestAngle      camera.Angle
	HaveBest       bool
	SettleFrames   int
	Scored         int // scoring steps taken in the current sweep

	// The sub-region teleported to last frame, scored this frame.
	pending       bool
	pendingRegion int
	pendingSub    int
}

// Frame is what the explorer reads from one rendered frame.
type Frame struct {
	Map        Map // nil when no level is active
	View       Viewpoint
	Complexity int
}

// Outcome reports what a frame step did.
type Outcome struct {
	Captured bool
	Shutdown bool   // the owner should end the process
	Report   string // capture log line, set when Captured
}

// Result is the viewpoint chosen by the last completed sweep.
type Result struct {
	Complexity int
	X, Y       int
	Angle      camera.Angle
}

// Explorer is the best-viewpoint search state machine.
type Explorer struct {
	opts   Options
	cmds   Commands
	shots  Screenshotter
	logger *slog.Logger

	state    State
	m        Map
	last     Result
	haveLast bool
}

// New creates an idle explorer.
func New(opts Options, cmds Commands, shots Screenshotter, logger *slog.Logger) *Explorer {
	if opts.SettleFrames <= 0 {
		opts.SettleFrames = DefaultSettleFrames
	}
	if opts.ScreenshotFile == "" {
		opts.ScreenshotFile = "shot.png"
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Explorer{opts: opts, cmds: cmds, shots: shots, logger: logger}
}

// Mode returns the current mode.
func (e *Explorer) Mode() Mode { return e.state.Mode }

// State returns a copy of the current state.
func (e *Explorer) State() State { return e.state }

// LastResult returns the viewpoint chosen by the most recent sweep that found
// one.
func (e *Explorer) LastResult() (Result, bool) { return e.last, e.haveLast }

// Start begins a sweep of m.
func (e *Explorer) Start(m Map) error {
	if m == nil {
		return ErrNoLevel
	}
	if e.state.Mode != ModeIdle {
		return ErrBusy
	}
	e.state = State{Mode: ModeSweeping}
	e.m = m
	e.logger.Info("sweep started", "regions", m.RegionCount())
	return nil
}

// Stop cancels any sweep, settle or pending capture. It reports whether
// anything was running.
func (e *Explorer) Stop() bool {
	if e.state.Mode == ModeIdle {
		return false
	}
	e.logger.Info("sweep cancelled", "mode", e.state.Mode)
	e.reset()
	return true
}

// AdvanceOneFrame takes exactly one step for the frame just rendered.
func (e *Explorer) AdvanceOneFrame(f Frame) Outcome {
	if e.state.Mode == ModeIdle {
		return Outcome{}
	}
	if f.Map == nil || f.Map != e.m {
		e.logger.Warn("level changed, abandoning sweep", "mode", e.state.Mode)
		e.reset()
		return Outcome{}
	}

	switch e.state.Mode {
	case ModeSweeping:
		e.sweep(f)
	case ModeSettling:
		e.settle()
	case ModeCapturing:
		return e.capture(f)
	}
	return Outcome{}
}

func (e *Explorer) reset() {
	e.state = State{}
	e.m = nil
}

func (e *Explorer) sweep(f Frame) {
	s := &e.state

	if s.pending {
		e.score(f)
		s.pending = false
	}

	if !e.seek(f.Map) {
		e.finish(f)
		return
	}

	r, sub := s.RegionIndex, s.SubRegionIndex
	if tx, ty, ok := level.Centroid(f.Map.SubRegionSegments(r, sub)); ok {
		x, y := f.View.Position()
		e.cmds.Teleport(int(tx), int(ty))
		if fx, fy, ok := facingTarget(f.Map, r, sub); ok {
			f.View.SetAngle(camera.PointToAngle(math.Floor(x), math.Floor(y), fx, fy))
		}
		s.pending = true
		s.pendingRegion, s.pendingSub = r, sub
	} else {
		e.logger.Debug("sub-region has no boundary, not visiting", "region", r, "subregion", sub)
	}

	s.SubRegionIndex++
	if s.SubRegionIndex >= f.Map.SubRegionCount(r) {
		s.RegionIndex++
		s.SubRegionIndex = 0
	}
}

// seek moves the cursor past regions without sub-regions and reports whether
// any sub-region is left to visit.
func (e *Explorer) seek(m Map) bool {
	s := &e.state
	for s.RegionIndex < m.RegionCount() && m.SubRegionCount(s.RegionIndex) == 0 {
		s.RegionIndex++
		s.SubRegionIndex = 0
	}
	return s.RegionIndex < m.RegionCount()
}

// score reads the complexity of the viewpoint teleported to last frame.
func (e *Explorer) score(f Frame) {
	s := &e.state
	x, y := f.View.Position()
	ix, iy := int(math.Floor(x)), int(math.Floor(y))

	s.Scored++
	floor, ceiling := f.Map.Heights(s.pendingRegion, float64(ix), float64(iy))
	degenerate := floor == ceiling

	best := false
	if f.Complexity > s.BestComplexity && !degenerate {
		s.BestComplexity = f.Complexity
		s.BestX, s.BestY = ix, iy
		s.BestAngle = f.View.Angle()
		s.HaveBest = true
		best = true
	}

	if e.opts.Samples != nil {
		e.opts.Samples.RecordSample(Sample{
			Step:       s.Scored,
			Region:     s.pendingRegion,
			SubRegion:  s.pendingSub,
			X:          ix,
			Y:          iy,
			Angle:      f.View.Angle(),
			Complexity: f.Complexity,
			Degenerate: degenerate,
			Best:       best,
		})
	}
}

func (e *Explorer) finish(f Frame) {
	s := &e.state
	s.RegionIndex, s.SubRegionIndex = 0, 0

	if !s.HaveBest {
		e.logger.Info("sweep found no viewpoint", "scored", s.Scored)
		e.reset()
		return
	}

	e.cmds.Teleport(s.BestX, s.BestY)
	f.View.SetAngle(s.BestAngle)
	e.last = Result{Complexity: s.BestComplexity, X: s.BestX, Y: s.BestY, Angle: s.BestAngle}
	e.haveLast = true

	e.logger.Info("sweep complete",
		"scored", s.Scored,
		"complexity", s.BestComplexity,
		"x", s.BestX,
		"y", s.BestY,
		"angle", s.BestAngle.Degrees(),
	)

	s.SettleFrames = 0
	s.Mode = ModeSettling
}

func (e *Explorer) settle() {
	s := &e.state
	s.SettleFrames++
	if s.SettleFrames >= e.opts.SettleFrames {
		s.Mode = ModeCapturing
	}
}

func (e *Explorer) capture(f Frame) Outcome {
	if e.shots != nil {
		if err := e.shots.Screenshot(e.opts.ScreenshotFile); err != nil {
			e.logger.Error("failed to take screenshot", "file", e.opts.ScreenshotFile, "error", err)
		}
	}

	x, y := f.View.Position()
	env := f.View.Surroundings()
	angle := f.View.Angle().Degrees()
	report := PositionReport(f.View)

	e.logger.Info("viewpoint captured",
		"file", e.opts.ScreenshotFile,
		"x", x,
		"y", y,
		"z", env.Z,
		"angle", angle,
		"region", env.Region,
		"light", env.LightLevel,
		"quit", e.opts.QuitAfterShot,
	)

	e.reset()
	return Outcome{Captured: true, Shutdown: e.opts.QuitAfterShot, Report: report}
}

// PositionReport describes where v stands, in the format of the console
// position command.
func PositionReport(v Viewpoint) string {
	x, y := v.Position()
	env := v.Surroundings()
	return fmt.Sprintf("Current player position: (%1.3f,%1.3f,%1.3f), angle: %1.3f, floorheight: %1.3f, region:%d, lightlevel: %d\n",
		x, y, env.Z, v.Angle().Degrees(), env.FloorZ, env.Region, env.LightLevel)
}

// facingTarget is the point the camera is turned towards when moving to sub,
// meant to approximate the middle of region r. It walks every sub-region of r
// but accumulates the boundary of sub each time, so the result is the centroid
// of sub itself.
// TODO: accumulate sub-region j instead once the intended framing is confirmed;
// TestFacingTargetUsesCurrentSubRegion pins the current behaviour.
func facingTarget(m Map, r, sub int) (x, y float64, ok bool) {
	segs := m.SubRegionSegments(r, sub)
	n := 0
	for j := 0; j < m.SubRegionCount(r); j++ {
		for _, seg := range segs {
			x += seg.V1.X + seg.V2.X
			y += seg.V1.Y + seg.V2.Y
			n += 2
		}
	}
	if n == 0 {
		return 0, 0, false
	}
	return x / float64(n), y / float64(n), true
}
