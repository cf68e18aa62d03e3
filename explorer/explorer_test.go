package explorer

import (
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/pthm-cable/goodshot/camera"
	"github.com/pthm-cable/goodshot/level"
)

// fakeMap is a level made of rectangles. heights holds floor and ceiling per
// region; missing entries default to 0 and 128.
type fakeMap struct {
	regions [][][]level.Segment
	heights map[int][2]float64
}

func (m *fakeMap) RegionCount() int                           { return len(m.regions) }
func (m *fakeMap) SubRegionCount(r int) int                   { return len(m.regions[r]) }
func (m *fakeMap) SubRegionSegments(r, s int) []level.Segment { return m.regions[r][s] }

func (m *fakeMap) Heights(r int, x, y float64) (float64, float64) {
	if h, ok := m.heights[r]; ok {
		return h[0], h[1]
	}
	return 0, 128
}

func rect(x0, y0, x1, y1 float64) []level.Segment {
	return level.Polygon(
		level.Vertex{X: x0, Y: y0},
		level.Vertex{X: x1, Y: y0},
		level.Vertex{X: x1, Y: y1},
		level.Vertex{X: x0, Y: y1},
	).Segments
}

type fakeView struct {
	x, y  float64
	angle camera.Angle
	env   Surroundings
}

func (v *fakeView) Position() (float64, float64) { return v.x, v.y }
func (v *fakeView) Angle() camera.Angle          { return v.angle }
func (v *fakeView) SetAngle(a camera.Angle)      { v.angle = a }
func (v *fakeView) Surroundings() Surroundings   { return v.env }

type teleport struct{ x, y int }

type fakeCommands struct {
	queue []teleport
	all   []teleport
}

func (c *fakeCommands) Teleport(x, y int) {
	c.queue = append(c.queue, teleport{x, y})
	c.all = append(c.all, teleport{x, y})
}

type fakeShots struct {
	files []string
	err   error
}

func (s *fakeShots) Screenshot(file string) error {
	s.files = append(s.files, file)
	return s.err
}

type sampleLog struct{ samples []Sample }

func (l *sampleLog) RecordSample(s Sample) { l.samples = append(l.samples, s) }

// harness plays the part of the game loop: teleports queued during a frame
// are applied before the next frame is rendered and scored.
type harness struct {
	e          *Explorer
	m          *fakeMap
	view       *fakeView
	cmds       *fakeCommands
	shots      *fakeShots
	samples    *sampleLog
	complexity func(x, y float64) int
}

func newHarness(t *testing.T, m *fakeMap, opts Options, complexity func(x, y float64) int) *harness {
	t.Helper()
	h := &harness{
		m:          m,
		view:       &fakeView{x: -10, y: -10},
		cmds:       &fakeCommands{},
		shots:      &fakeShots{},
		samples:    &sampleLog{},
		complexity: complexity,
	}
	opts.Samples = h.samples
	h.e = New(opts, h.cmds, h.shots, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err := h.e.Start(m); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	return h
}

func (h *harness) frame() Outcome {
	for _, tp := range h.cmds.queue {
		h.view.x, h.view.y = float64(tp.x), float64(tp.y)
	}
	h.cmds.queue = nil
	return h.e.AdvanceOneFrame(Frame{Map: h.m, View: h.view, Complexity: h.complexity(h.view.x, h.view.y)})
}

// sweepFrames runs frames until the explorer leaves Sweeping.
func (h *harness) sweepFrames(t *testing.T) int {
	t.Helper()
	for n := 1; n <= 10000; n++ {
		h.frame()
		if h.e.Mode() != ModeSweeping {
			return n
		}
	}
	t.Fatal("sweep did not finish")
	return 0
}

func scoreTable(scores map[[2]int]int) func(x, y float64) int {
	return func(x, y float64) int {
		return scores[[2]int{int(x), int(y)}]
	}
}

func TestTwoSubRegionScenario(t *testing.T) {
	m := &fakeMap{regions: [][][]level.Segment{{
		rect(0, 0, 100, 100),   // A, centroid (50, 50)
		rect(100, 0, 200, 100), // B, centroid (150, 50)
	}}}
	h := newHarness(t, m, Options{}, scoreTable(map[[2]int]int{
		{50, 50}:  10,
		{150, 50}: 25,
	}))

	h.sweepFrames(t)

	st := h.e.State()
	if st.Mode != ModeSettling {
		t.Fatalf("mode = %s, want settling", st.Mode)
	}
	if st.BestComplexity != 25 {
		t.Errorf("BestComplexity = %d, want 25", st.BestComplexity)
	}
	if st.BestX != 150 || st.BestY != 50 {
		t.Errorf("best position = (%d, %d), want (150, 50)", st.BestX, st.BestY)
	}
	last := h.cmds.all[len(h.cmds.all)-1]
	if last != (teleport{150, 50}) {
		t.Errorf("final teleport = %+v, want B's sampling position (150, 50)", last)
	}
	if h.view.angle != st.BestAngle {
		t.Errorf("view angle = %#x, want best angle %#x", uint32(h.view.angle), uint32(st.BestAngle))
	}
	if st.RegionIndex != 0 || st.SubRegionIndex != 0 {
		t.Errorf("cursor = (%d, %d), want reset to (0, 0)", st.RegionIndex, st.SubRegionIndex)
	}

	res, ok := h.e.LastResult()
	if !ok || res.Complexity != 25 || res.X != 150 || res.Y != 50 {
		t.Errorf("LastResult() = %+v, %v", res, ok)
	}
}

func TestScoringStepsMatchSubRegionTotal(t *testing.T) {
	tests := []struct {
		name   string
		layout []int
	}{
		{"single", []int{1}},
		{"two regions", []int{2, 3}},
		{"empty region in the middle", []int{3, 0, 2}},
		{"leading empty region", []int{0, 1, 1, 1}},
		{"many", []int{4, 4, 4, 4, 4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &fakeMap{}
			total := 0
			for r, n := range tt.layout {
				var subs [][]level.Segment
				for s := 0; s < n; s++ {
					x := float64(s * 100)
					y := float64(r * 100)
					subs = append(subs, rect(x, y, x+100, y+100))
				}
				m.regions = append(m.regions, subs)
				total += n
			}
			h := newHarness(t, m, Options{}, func(x, y float64) int { return int(x+y) + 1 })

			frames := h.sweepFrames(t)

			if got := h.e.State().Scored; got != total {
				t.Errorf("scoring steps = %d, want %d", got, total)
			}
			if frames != total+1 {
				t.Errorf("sweep took %d frames, want %d", frames, total+1)
			}
			if len(h.samples.samples) != total {
				t.Errorf("recorded %d samples, want %d", len(h.samples.samples), total)
			}
			// One teleport per sub-region plus the final one.
			if len(h.cmds.all) != total+1 {
				t.Errorf("issued %d teleports, want %d", len(h.cmds.all), total+1)
			}
		})
	}
}

func TestTieKeepsFirstViewpoint(t *testing.T) {
	m := &fakeMap{regions: [][][]level.Segment{
		{rect(0, 0, 100, 100)},
		{rect(200, 0, 300, 100), rect(300, 0, 400, 100)},
	}}
	h := newHarness(t, m, Options{}, scoreTable(map[[2]int]int{
		{50, 50}:  20,
		{250, 50}: 20,
		{350, 50}: 19,
	}))

	h.sweepFrames(t)

	st := h.e.State()
	if st.BestX != 50 || st.BestY != 50 || st.BestComplexity != 20 {
		t.Errorf("best = %d at (%d, %d), want 20 at (50, 50)", st.BestComplexity, st.BestX, st.BestY)
	}
	// The angle recorded with the first sample must survive the later tie.
	first := h.samples.samples[0]
	if st.BestAngle != first.Angle {
		t.Errorf("BestAngle = %#x, want first sample's %#x", uint32(st.BestAngle), uint32(first.Angle))
	}
	if h.samples.samples[1].Best {
		t.Error("equal later score marked as best")
	}
}

func TestDegenerateRegionNeverBest(t *testing.T) {
	m := &fakeMap{
		regions: [][][]level.Segment{
			{rect(0, 0, 100, 100)},   // closed door
			{rect(200, 0, 300, 100)}, // ordinary room
		},
		heights: map[int][2]float64{0: {64, 64}},
	}
	h := newHarness(t, m, Options{}, scoreTable(map[[2]int]int{
		{50, 50}:  1000,
		{250, 50}: 5,
	}))

	h.sweepFrames(t)

	st := h.e.State()
	if st.BestComplexity != 5 || st.BestX != 250 {
		t.Errorf("best = %d at x=%d, want 5 at x=250", st.BestComplexity, st.BestX)
	}
	if st.Scored != 2 {
		t.Errorf("degenerate region must still be visited: scored %d, want 2", st.Scored)
	}
	if s := h.samples.samples[0]; !s.Degenerate || s.Best {
		t.Errorf("degenerate sample = %+v", s)
	}
}

func TestSettleThenCapture(t *testing.T) {
	m := &fakeMap{regions: [][][]level.Segment{{rect(0, 0, 64, 64)}}}
	h := newHarness(t, m, Options{QuitAfterShot: true}, func(x, y float64) int { return 3 })
	h.view.env = Surroundings{Z: 41, FloorZ: 0, Region: 3, LightLevel: 160}

	h.sweepFrames(t)
	if h.e.Mode() != ModeSettling {
		t.Fatalf("mode = %s, want settling", h.e.Mode())
	}

	for i := 1; i <= DefaultSettleFrames; i++ {
		out := h.frame()
		if out.Captured {
			t.Fatalf("captured during settle frame %d", i)
		}
		st := h.e.State()
		if st.SettleFrames != i {
			t.Fatalf("settle counter = %d after %d frames", st.SettleFrames, i)
		}
		wantMode := ModeSettling
		if i == DefaultSettleFrames {
			wantMode = ModeCapturing
		}
		if st.Mode != wantMode {
			t.Fatalf("frame %d: mode = %s, want %s", i, st.Mode, wantMode)
		}
	}
	if len(h.shots.files) != 0 {
		t.Fatal("screenshot taken before capture")
	}

	out := h.frame()
	if !out.Captured || !out.Shutdown {
		t.Errorf("Outcome = %+v, want captured with shutdown", out)
	}
	if len(h.shots.files) != 1 || h.shots.files[0] != "shot.png" {
		t.Errorf("screenshots = %v, want [shot.png]", h.shots.files)
	}
	if !strings.Contains(out.Report, "(32.000,32.000,41.000)") ||
		!strings.Contains(out.Report, "region:3, lightlevel: 160") {
		t.Errorf("unexpected report %q", out.Report)
	}
	if h.e.Mode() != ModeIdle {
		t.Errorf("mode after capture = %s, want idle", h.e.Mode())
	}
	if st := h.e.State(); st != (State{}) {
		t.Errorf("state after capture = %+v, want zero", st)
	}
}

func TestCaptureWithoutQuitReturnsToIdle(t *testing.T) {
	m := &fakeMap{regions: [][][]level.Segment{{rect(0, 0, 64, 64)}}}
	h := newHarness(t, m, Options{SettleFrames: 2, ScreenshotFile: "best.png"}, func(x, y float64) int { return 1 })
	h.shots.err = errors.New("disk full")

	h.sweepFrames(t)
	h.frame()
	h.frame()
	out := h.frame()

	if !out.Captured || out.Shutdown {
		t.Errorf("Outcome = %+v, want captured without shutdown", out)
	}
	if h.shots.files[0] != "best.png" {
		t.Errorf("screenshot file = %q", h.shots.files[0])
	}
	if h.e.Mode() != ModeIdle {
		t.Errorf("mode = %s, want idle", h.e.Mode())
	}
	// A second sweep can start.
	if err := h.e.Start(m); err != nil {
		t.Errorf("restart error = %v", err)
	}
}

func TestEmptyLevel(t *testing.T) {
	h := newHarness(t, &fakeMap{}, Options{}, func(x, y float64) int { return 99 })

	out := h.frame()

	if out != (Outcome{}) {
		t.Errorf("Outcome = %+v, want zero", out)
	}
	if h.e.Mode() != ModeIdle {
		t.Errorf("mode = %s, want idle", h.e.Mode())
	}
	if len(h.cmds.all) != 0 {
		t.Errorf("teleports = %v, want none", h.cmds.all)
	}
	if _, ok := h.e.LastResult(); ok {
		t.Error("empty level produced a result")
	}
}

func TestNoScoringViewpointReturnsToIdle(t *testing.T) {
	m := &fakeMap{regions: [][][]level.Segment{{rect(0, 0, 10, 10), rect(10, 0, 20, 10)}}}
	h := newHarness(t, m, Options{}, func(x, y float64) int { return 0 })

	h.sweepFrames(t)

	if h.e.Mode() != ModeIdle {
		t.Errorf("mode = %s, want idle", h.e.Mode())
	}
	if len(h.cmds.all) != 2 {
		t.Errorf("teleports = %v, want only the two sweep teleports", h.cmds.all)
	}
}

func TestSubRegionWithoutBoundary(t *testing.T) {
	m := &fakeMap{regions: [][][]level.Segment{{nil, rect(0, 0, 10, 10), {}}}}
	h := newHarness(t, m, Options{}, func(x, y float64) int { return 7 })

	h.sweepFrames(t)

	st := h.e.State()
	if st.Scored != 1 {
		t.Errorf("scored %d sub-regions, want 1", st.Scored)
	}
	if st.BestX != 5 || st.BestY != 5 {
		t.Errorf("best = (%d, %d), want (5, 5)", st.BestX, st.BestY)
	}
}

func TestLevelChangeAbandonsSweep(t *testing.T) {
	tests := []struct {
		name string
		next Map
	}{
		{"no level", nil},
		{"other level", &fakeMap{regions: [][][]level.Segment{{rect(0, 0, 1, 1)}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &fakeMap{regions: [][][]level.Segment{{rect(0, 0, 10, 10), rect(10, 0, 20, 10)}}}
			h := newHarness(t, m, Options{}, func(x, y float64) int { return 1 })
			h.frame()

			sent := len(h.cmds.all)
			out := h.e.AdvanceOneFrame(Frame{Map: tt.next, View: h.view, Complexity: 50})

			if out != (Outcome{}) {
				t.Errorf("Outcome = %+v", out)
			}
			if h.e.Mode() != ModeIdle {
				t.Errorf("mode = %s, want idle", h.e.Mode())
			}
			if len(h.cmds.all) != sent {
				t.Error("teleport issued after the level changed")
			}
		})
	}
}

func TestStartErrors(t *testing.T) {
	e := New(Options{}, &fakeCommands{}, &fakeShots{}, nil)

	if err := e.Start(nil); !errors.Is(err, ErrNoLevel) {
		t.Errorf("Start(nil) = %v, want ErrNoLevel", err)
	}

	m := &fakeMap{regions: [][][]level.Segment{{rect(0, 0, 1, 1)}}}
	if err := e.Start(m); err != nil {
		t.Fatalf("Start() = %v", err)
	}
	if err := e.Start(m); !errors.Is(err, ErrBusy) {
		t.Errorf("second Start() = %v, want ErrBusy", err)
	}
}

func TestStop(t *testing.T) {
	e := New(Options{}, &fakeCommands{}, &fakeShots{}, nil)
	if e.Stop() {
		t.Error("Stop on idle explorer reported work")
	}

	m := &fakeMap{regions: [][][]level.Segment{{rect(0, 0, 1, 1)}}}
	if err := e.Start(m); err != nil {
		t.Fatal(err)
	}
	if !e.Stop() {
		t.Error("Stop during sweep reported nothing running")
	}
	if e.Mode() != ModeIdle {
		t.Errorf("mode = %s, want idle", e.Mode())
	}
}

func TestIdleFrameDoesNothing(t *testing.T) {
	cmds := &fakeCommands{}
	e := New(Options{}, cmds, &fakeShots{}, nil)
	view := &fakeView{}

	out := e.AdvanceOneFrame(Frame{Map: &fakeMap{}, View: view, Complexity: 10})
	if out != (Outcome{}) || len(cmds.all) != 0 {
		t.Errorf("idle frame produced %+v and teleports %v", out, cmds.all)
	}
}

// The facing target walks every sub-region of the region but sums the current
// sub-region's boundary each time, so the camera faces the centroid of the
// sub-region it is moving to rather than the middle of the whole region.
func TestFacingTargetUsesCurrentSubRegion(t *testing.T) {
	m := &fakeMap{regions: [][][]level.Segment{{
		rect(0, 0, 100, 100),   // centroid (50, 50)
		rect(100, 0, 300, 100), // centroid (200, 50); region centroid is (125, 50)
	}}}

	fx, fy, ok := facingTarget(m, 0, 0)
	if !ok || fx != 50 || fy != 50 {
		t.Errorf("facingTarget = (%v, %v, %v), want (50, 50, true)", fx, fy, ok)
	}

	h := newHarness(t, m, Options{}, func(x, y float64) int { return 1 })
	h.view.x, h.view.y = 50, -50
	h.frame()

	if d := camera.Diff(h.view.angle, camera.ANG90); d > 1e-6 || d < -1e-6 {
		t.Errorf("angle = %v°, want 90° towards the sub-region centroid", h.view.angle.Degrees())
	}
}

func TestModeString(t *testing.T) {
	for m, want := range map[Mode]string{
		ModeIdle: "idle", ModeSweeping: "sweeping", ModeSettling: "settling", ModeCapturing: "capturing", Mode(9): "unknown",
	} {
		if got := m.String(); got != want {
			t.Errorf("Mode(%d).String() = %q, want %q", int(m), got, want)
		}
	}
}
