package main

import (
	"fmt"

	"gonum.org/v1/gonum/optimize"

	"github.com/pthm-cable/goodshot/camera"
	"github.com/pthm-cable/goodshot/clock"
	"github.com/pthm-cable/goodshot/components"
	"github.com/pthm-cable/goodshot/level"
	"github.com/pthm-cable/goodshot/renderer"
	"github.com/pthm-cable/goodshot/telemetry"
)

// Candidate is a viewpoint and the complexity rendered from it.
type Candidate struct {
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Angle      float64 `json:"angle"` // degrees
	Complexity int     `json:"complexity"`
}

// EvalRecord is one objective evaluation in refine_log.csv.
type EvalRecord struct {
	Eval       int     `csv:"eval"`
	X          float64 `csv:"x"`
	Y          float64 `csv:"y"`
	Angle      float64 `csv:"angle"`
	Complexity int     `csv:"complexity"`
	Valid      bool    `csv:"valid"`
}

// Refiner scores continuous viewpoints with its own visibility pass.
type Refiner struct {
	lvl   *level.Level
	stats *telemetry.FrameStats
	vis   *renderer.Visibility

	best    Candidate
	records []EvalRecord

	// OnEval is called after every evaluation.
	OnEval func(rec EvalRecord, best Candidate)
}

// NewRefiner creates a refiner for lvl.
func NewRefiner(lvl *level.Level, opts renderer.Options, clk *clock.Clock) *Refiner {
	stats := telemetry.NewFrameStats(clk)
	stats.SetTiming(false)
	return &Refiner{
		lvl:   lvl,
		stats: stats,
		vis:   renderer.NewVisibility(stats, opts),
	}
}

// Score renders the view from (x, y) facing deg degrees. ok is false where
// nobody can stand: outside every region or where floor and ceiling meet.
func (r *Refiner) Score(x, y, deg float64) (complexity int, ok bool) {
	reg, ok := r.lvl.RegionAt(x, y)
	if !ok {
		return 0, false
	}
	floor, ceiling := r.lvl.Heights(reg, x, y)
	if ceiling <= floor {
		return 0, false
	}

	r.stats.BeginFrame()
	r.vis.Render(r.lvl, renderer.View{
		X:     x,
		Y:     y,
		Z:     floor + components.DefaultViewHeight,
		Angle: camera.FromDegrees(deg),
	})
	r.stats.Stop(telemetry.PhaseAll)
	return r.stats.Complexity(), true
}

// Objective is minimised by the optimizer: the negated complexity, zero
// where no viewpoint can stand.
func (r *Refiner) Objective(x []float64) float64 {
	c, ok := r.Score(x[0], x[1], x[2])
	rec := EvalRecord{
		Eval:       len(r.records) + 1,
		X:          x[0],
		Y:          x[1],
		Angle:      normalizeDegrees(x[2]),
		Complexity: c,
		Valid:      ok,
	}
	r.records = append(r.records, rec)

	if ok && c > r.best.Complexity {
		r.best = Candidate{X: rec.X, Y: rec.Y, Angle: rec.Angle, Complexity: c}
	}
	if r.OnEval != nil {
		r.OnEval(rec, r.best)
	}
	return -float64(c)
}

// Best returns the best viewpoint evaluated so far.
func (r *Refiner) Best() Candidate { return r.best }

// Records returns every evaluation so far.
func (r *Refiner) Records() []EvalRecord { return r.records }

// Scene renders c and returns it for a screenshot.
func (r *Refiner) Scene(c Candidate) renderer.Scene {
	r.Score(c.X, c.Y, c.Angle)
	reg, _ := r.lvl.RegionAt(c.X, c.Y)
	floor, _ := r.lvl.Heights(reg, c.X, c.Y)
	return renderer.Scene{
		Level: r.lvl,
		List:  r.vis.DrawList(),
		Eye: renderer.View{
			X:     c.X,
			Y:     c.Y,
			Z:     floor + components.DefaultViewHeight,
			Angle: camera.FromDegrees(c.Angle),
		},
	}
}

// Refine runs Nelder-Mead from start over position and angle, and returns the
// best viewpoint seen, which is never worse than start.
func (r *Refiner) Refine(start Candidate, maxEvals int, step float64) (Candidate, error) {
	initX := []float64{start.X, start.Y, start.Angle}
	r.Objective(initX)

	problem := optimize.Problem{Func: r.Objective}
	settings := &optimize.Settings{FuncEvaluations: maxEvals}
	method := &optimize.NelderMead{SimplexSize: step}

	if _, err := optimize.Minimize(problem, initX, settings, method); err != nil {
		return r.best, fmt.Errorf("minimizing: %w", err)
	}
	return r.best, nil
}

func normalizeDegrees(d float64) float64 {
	return camera.FromDegrees(d).Degrees()
}
