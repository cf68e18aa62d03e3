package renderer

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/goodshot/camera"
	"github.com/pthm-cable/goodshot/level"
	"github.com/pthm-cable/goodshot/telemetry"
)

// Map view colors.
var (
	ColorBackground = rl.Color{R: 12, G: 14, B: 18, A: 255}
	ColorWallHidden = rl.Color{R: 60, G: 66, B: 76, A: 255}
	ColorWall       = rl.Color{R: 230, G: 230, B: 210, A: 255}
	ColorFloor      = rl.Color{R: 40, G: 70, B: 110, A: 90}
	ColorSprite     = rl.Color{R: 220, G: 120, B: 60, A: 255}
	ColorLight      = rl.Color{R: 255, G: 230, B: 120, A: 120}
	ColorEye        = rl.Color{R: 90, G: 220, B: 120, A: 255}
)

// MapView draws the level top-down with the last draw list highlighted. It
// must be used between rl.BeginDrawing and rl.EndDrawing.
type MapView struct {
	stats *telemetry.FrameStats
}

// NewMapView creates a map view timing its draw calls into stats.
func NewMapView(stats *telemetry.FrameStats) *MapView {
	return &MapView{stats: stats}
}

// Draw renders the level, the visible set and the eye.
func (m *MapView) Draw(lvl *level.Level, list *DrawList, eye View, cam *camera.Camera) {
	s := m.stats
	s.Start(telemetry.PhaseDrawCalls)
	defer s.Stop(telemetry.PhaseDrawCalls)

	rl.ClearBackground(ColorBackground)
	if lvl == nil {
		return
	}

	s.Start(telemetry.PhaseRenderFlat)
	for _, f := range list.Flats {
		if f.Ceiling {
			continue
		}
		m.drawFlat(lvl.SubRegionSegments(f.Region, f.SubRegion), cam)
	}
	s.Stop(telemetry.PhaseRenderFlat)

	for _, r := range lvl.Regions {
		for _, sub := range r.SubRegions {
			for _, seg := range sub.Segments {
				drawSegment(seg, cam, 1, ColorWallHidden)
			}
		}
	}

	s.Start(telemetry.PhaseRenderWall)
	for _, seg := range list.Walls {
		drawSegment(seg, cam, 2, ColorWall)
	}
	s.Stop(telemetry.PhaseRenderWall)

	s.Start(telemetry.PhaseRenderSprite)
	for _, th := range list.Sprites {
		x, y := cam.WorldToScreen(float32(th.X), float32(th.Y))
		rl.DrawCircleV(rl.Vector2{X: x, Y: y}, 3, ColorSprite)
	}
	s.Stop(telemetry.PhaseRenderSprite)

	for _, l := range list.Lights {
		x, y := cam.WorldToScreen(float32(l.X), float32(l.Y))
		rl.DrawCircleLines(int32(x), int32(y), float32(l.Radius)*cam.Zoom, ColorLight)
	}

	drawEye(eye, cam)
}

// drawFlat fills a convex sub-region.
func (m *MapView) drawFlat(segs []level.Segment, cam *camera.Camera) {
	if len(segs) < 3 {
		return
	}
	points := make([]rl.Vector2, 0, len(segs))
	// Screen Y is flipped, so walking the boundary backwards keeps the fan
	// counter-clockwise on screen.
	for i := len(segs) - 1; i >= 0; i-- {
		x, y := cam.WorldToScreen(float32(segs[i].V1.X), float32(segs[i].V1.Y))
		points = append(points, rl.Vector2{X: x, Y: y})
	}
	rl.DrawTriangleFan(points, ColorFloor)
}

func drawSegment(seg level.Segment, cam *camera.Camera, thick float32, color rl.Color) {
	x1, y1 := cam.WorldToScreen(float32(seg.V1.X), float32(seg.V1.Y))
	x2, y2 := cam.WorldToScreen(float32(seg.V2.X), float32(seg.V2.Y))
	rl.DrawLineEx(rl.Vector2{X: x1, Y: y1}, rl.Vector2{X: x2, Y: y2}, thick, color)
}

// drawEye draws the viewpoint as a triangle pointing along its angle.
func drawEye(eye View, cam *camera.Camera) {
	x, y := cam.WorldToScreen(float32(eye.X), float32(eye.Y))
	// Screen Y is flipped relative to the map.
	heading := -eye.Angle.Radians()
	const radius = 8.0

	point := func(a, r float64) rl.Vector2 {
		return rl.Vector2{X: x + float32(math.Cos(a)*r), Y: y + float32(math.Sin(a)*r)}
	}
	v1 := point(heading, radius*1.5)
	v2 := point(heading+math.Pi*0.8, radius)
	v3 := point(heading-math.Pi*0.8, radius)

	rl.DrawTriangle(v1, v3, v2, ColorEye)
	rl.DrawTriangleLines(v1, v2, v3, rl.White)
}
