package renderer

import (
	"errors"
	"fmt"
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/goodshot/camera"
	"github.com/pthm-cable/goodshot/level"
)

// ErrExport is returned when raylib cannot write the image file.
var ErrExport = errors.New("renderer: image export failed")

// Scene is the state a screenshot is taken of.
type Scene struct {
	Level *level.Level
	List  *DrawList
	Eye   View
}

// Shooter writes screenshots. With a window it captures the framebuffer;
// headless it rasterises the map view into an image instead.
type Shooter struct {
	headless      bool
	width, height int
	scene         func() Scene
}

// NewShooter creates a screenshot writer. scene is only consulted headless.
func NewShooter(headless bool, width, height int, scene func() Scene) *Shooter {
	return &Shooter{headless: headless, width: width, height: height, scene: scene}
}

// Screenshot writes the current frame to file.
func (s *Shooter) Screenshot(file string) error {
	if !s.headless {
		rl.TakeScreenshot(file)
		return nil
	}
	return s.export(file)
}

func (s *Shooter) export(file string) error {
	sc := s.scene()

	img := rl.GenImageColor(s.width, s.height, ColorBackground)
	defer rl.UnloadImage(img)

	if sc.Level != nil {
		cam := camera.New(float32(s.width), float32(s.height))
		minX, minY, maxX, maxY := sc.Level.Bounds()
		cam.FitBounds(float32(minX), float32(minY), float32(maxX), float32(maxY), 16)

		for _, r := range sc.Level.Regions {
			for _, sub := range r.SubRegions {
				for _, seg := range sub.Segments {
					imageSegment(img, cam, seg, ColorWallHidden)
				}
			}
		}
		if sc.List != nil {
			for _, seg := range sc.List.Walls {
				imageSegment(img, cam, seg, ColorWall)
			}
			for _, th := range sc.List.Sprites {
				x, y := cam.WorldToScreen(float32(th.X), float32(th.Y))
				rl.ImageDrawCircle(img, int32(x), int32(y), 2, ColorSprite)
			}
		}
		x, y := cam.WorldToScreen(float32(sc.Eye.X), float32(sc.Eye.Y))
		rl.ImageDrawCircle(img, int32(x), int32(y), 4, ColorEye)
	}

	if !rl.ExportImage(*img, file) {
		return fmt.Errorf("writing %s: %w", file, ErrExport)
	}
	return nil
}

func imageSegment(img *rl.Image, cam *camera.Camera, seg level.Segment, c color.RGBA) {
	x1, y1 := cam.WorldToScreen(float32(seg.V1.X), float32(seg.V1.Y))
	x2, y2 := cam.WorldToScreen(float32(seg.V2.X), float32(seg.V2.Y))
	rl.ImageDrawLine(img, int32(x1), int32(y1), int32(x2), int32(y2), c)
}
