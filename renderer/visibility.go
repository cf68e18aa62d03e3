// Package renderer runs the per-frame visibility pass that produces the
// primitive counts the viewpoint search scores, and draws the map view.
package renderer

import (
	"math"

	"github.com/pthm-cable/goodshot/camera"
	"github.com/pthm-cable/goodshot/level"
	"github.com/pthm-cable/goodshot/telemetry"
)

// Wall textures repeat every textureSpan map units; each repeat past the
// first is a texture split.
const textureSpan = 128.0

// View is the eye the frame is rendered from.
type View struct {
	X, Y, Z float64
	Angle   camera.Angle
}

// Options configures the visibility pass.
type Options struct {
	HalfFOV      float64 // radians
	ViewDistance float64 // map units
	LightRange   float64 // lights further than this from the eye are skipped
}

// DrawList is what survived the visibility pass, in draw order.
type DrawList struct {
	Walls   []level.Segment
	Flats   []Flat
	Sprites []level.Thing
	Lights  []level.Light
}

// Flat is a visible sub-region floor or ceiling.
type Flat struct {
	Region, SubRegion int
	Ceiling           bool
}

func (d *DrawList) reset() {
	d.Walls = d.Walls[:0]
	d.Flats = d.Flats[:0]
	d.Sprites = d.Sprites[:0]
	d.Lights = d.Lights[:0]
}

// Visibility walks the level from the eye, culls everything outside the view
// cone and counts what remains into the frame statistics.
type Visibility struct {
	opts  Options
	stats *telemetry.FrameStats
	list  DrawList
}

// NewVisibility creates a visibility pass writing into stats.
func NewVisibility(stats *telemetry.FrameStats, opts Options) *Visibility {
	if opts.HalfFOV <= 0 {
		opts.HalfFOV = math.Pi / 4
	}
	if opts.ViewDistance <= 0 {
		opts.ViewDistance = 2048
	}
	return &Visibility{opts: opts, stats: stats}
}

// Options returns the pass configuration.
func (v *Visibility) Options() Options { return v.opts }

// DrawList returns the result of the last Render. It is reused by the next
// call.
func (v *Visibility) DrawList() *DrawList { return &v.list }

// Render runs one frame of the pass. Nothing is visible when the eye stands
// outside every region or inside a closed one.
func (v *Visibility) Render(lvl *level.Level, eye View) *DrawList {
	s := v.stats
	v.list.reset()

	s.Start(telemetry.PhaseRenderAll)
	defer s.Stop(telemetry.PhaseRenderAll)

	if lvl == nil {
		return &v.list
	}
	if r, ok := lvl.RegionAt(eye.X, eye.Y); !ok || closed(lvl, r, eye.X, eye.Y) {
		return &v.list
	}

	s.Start(telemetry.PhaseProcessAll)
	s.Start(telemetry.PhaseBSP)
	for r := range lvl.Regions {
		reg := &lvl.Regions[r]
		for si, sub := range reg.SubRegions {
			if v.walls(sub.Segments, eye) {
				v.flats(lvl, r, si, sub)
			}
		}
	}
	v.sprites(lvl.Things, eye)
	s.Stop(telemetry.PhaseBSP)

	v.lights(lvl, eye)
	s.Stop(telemetry.PhaseProcessAll)

	return &v.list
}

// walls clips the boundary of one sub-region and reports whether any of it is
// in view.
func (v *Visibility) walls(segs []level.Segment, eye View) bool {
	s := v.stats
	seen := false
	for _, seg := range segs {
		s.Start(telemetry.PhaseClipWall)
		in1 := v.inView(seg.V1.X, seg.V1.Y, eye)
		in2 := v.inView(seg.V2.X, seg.V2.Y, eye)
		mid := v.inView((seg.V1.X+seg.V2.X)/2, (seg.V1.Y+seg.V2.Y)/2, eye)
		if !in1 && !in2 && !mid {
			s.Stop(telemetry.PhaseClipWall)
			continue
		}

		s.Start(telemetry.PhaseSetupWall)
		s.Add(telemetry.CounterVertices, 4)

		s.Start(telemetry.PhaseSplitWall)
		if !in1 || !in2 {
			s.Inc(telemetry.CounterVertexSplits)
			s.Add(telemetry.CounterVertices, 2)
		}
		length := math.Hypot(seg.V2.X-seg.V1.X, seg.V2.Y-seg.V1.Y)
		if n := int(math.Ceil(length/textureSpan)) - 1; n > 0 {
			s.Add(telemetry.CounterTextureSplits, n)
		}
		s.Stop(telemetry.PhaseSplitWall)

		s.Stop(telemetry.PhaseSetupWall)
		s.Stop(telemetry.PhaseClipWall)

		s.Inc(telemetry.CounterRenderedLines)
		v.list.Walls = append(v.list.Walls, seg)
		seen = true
	}
	return seen
}

// flats adds the floor and ceiling of a sub-region with a visible boundary.
func (v *Visibility) flats(lvl *level.Level, r, si int, sub level.SubRegion) {
	s := v.stats
	s.Start(telemetry.PhaseSetupFlat)
	defer s.Stop(telemetry.PhaseSetupFlat)

	cx, cy, ok := sub.Centroid()
	if !ok || closed(lvl, r, cx, cy) {
		return
	}
	for _, ceiling := range []bool{false, true} {
		s.Inc(telemetry.CounterRenderedFlats)
		s.Inc(telemetry.CounterFlatPrimitives)
		s.Add(telemetry.CounterFlatVertices, len(sub.Segments))
		v.list.Flats = append(v.list.Flats, Flat{Region: r, SubRegion: si, Ceiling: ceiling})
	}
}

func (v *Visibility) sprites(things []level.Thing, eye View) {
	s := v.stats
	s.Start(telemetry.PhaseSetupSprite)
	defer s.Stop(telemetry.PhaseSetupSprite)

	for _, th := range things {
		if v.inView(th.X, th.Y, eye) {
			s.Inc(telemetry.CounterRenderedSprites)
			s.Add(telemetry.CounterVertices, 4)
			v.list.Sprites = append(v.list.Sprites, th)
		}
	}
}

// lights tests every visible wall and flat against each light near the eye.
func (v *Visibility) lights(lvl *level.Level, eye View) {
	s := v.stats
	for _, l := range lvl.Lights {
		if v.opts.LightRange > 0 && math.Hypot(l.X-eye.X, l.Y-eye.Y) > v.opts.LightRange+l.Radius {
			continue
		}
		lit := false
		for _, w := range v.list.Walls {
			s.Inc(telemetry.CounterDLightWallsProcessed)
			if segmentDistance(l.X, l.Y, w) <= l.Radius {
				s.Inc(telemetry.CounterDLightWallsRendered)
				lit = true
			}
		}
		for _, f := range v.list.Flats {
			s.Inc(telemetry.CounterDLightFlatsProcessed)
			cx, cy, _ := level.Centroid(lvl.SubRegionSegments(f.Region, f.SubRegion))
			if math.Hypot(cx-l.X, cy-l.Y) <= l.Radius {
				s.Inc(telemetry.CounterDLightFlatsRendered)
				lit = true
			}
		}
		if lit {
			v.list.Lights = append(v.list.Lights, l)
		}
	}
}

func (v *Visibility) inView(x, y float64, eye View) bool {
	dx, dy := x-eye.X, y-eye.Y
	if math.Hypot(dx, dy) > v.opts.ViewDistance {
		return false
	}
	if dx == 0 && dy == 0 {
		return true
	}
	d := camera.Diff(camera.PointToAngle(eye.X, eye.Y, x, y), eye.Angle)
	return math.Abs(d) <= v.opts.HalfFOV
}

// closed reports whether floor and ceiling of region r meet at (x, y).
func closed(lvl *level.Level, r int, x, y float64) bool {
	floor, ceiling := lvl.Heights(r, x, y)
	return ceiling <= floor
}

func segmentDistance(px, py float64, seg level.Segment) float64 {
	ax, ay := seg.V1.X, seg.V1.Y
	bx, by := seg.V2.X, seg.V2.Y
	dx, dy := bx-ax, by-ay
	l2 := dx*dx + dy*dy
	if l2 == 0 {
		return math.Hypot(px-ax, py-ay)
	}
	t := ((px-ax)*dx + (py-ay)*dy) / l2
	t = math.Max(0, math.Min(1, t))
	return math.Hypot(px-(ax+t*dx), py-(ay+t*dy))
}
