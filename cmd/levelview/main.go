// Level viewer - interactive visibility preview with sliders.
//
// Click the map to place the eye; the panel shows the scene complexity of the
// view and lets the field of view and view distance be tuned live.
//
// Usage: go run ./cmd/levelview [-level file.yaml]
package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"strings"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/goodshot/camera"
	"github.com/pthm-cable/goodshot/clock"
	"github.com/pthm-cable/goodshot/components"
	"github.com/pthm-cable/goodshot/config"
	"github.com/pthm-cable/goodshot/level"
	"github.com/pthm-cable/goodshot/renderer"
	"github.com/pthm-cable/goodshot/telemetry"
)

const (
	windowWidth  = 1000
	windowHeight = 720
	panelWidth   = 320
	mapWidth     = windowWidth - panelWidth
)

// viewParams holds the slider values.
type viewParams struct {
	FOV          float32 // degrees
	ViewDistance float32
	Angle        float32 // degrees
}

func defaultParams(cfg *config.Config) viewParams {
	return viewParams{
		FOV:          float32(cfg.Renderer.FOVDegrees),
		ViewDistance: float32(cfg.Renderer.ViewDistance),
		Angle:        90,
	}
}

func (p viewParams) options(lightRange float64) renderer.Options {
	return renderer.Options{
		HalfFOV:      float64(p.FOV) * math.Pi / 360,
		ViewDistance: float64(p.ViewDistance),
		LightRange:   lightRange,
	}
}

func main() {
	configPath := flag.String("config", "", "Config YAML file (empty = use defaults)")
	levelPath := flag.String("level", "", "Level file (empty = config, then the built-in demo)")
	flag.Parse()

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

	rl.InitWindow(windowWidth, windowHeight, "Level Viewer")
	defer rl.CloseWindow()
	rl.SetTargetFPS(30)

	stats := telemetry.NewFrameStats(clock.New(clock.Hardware(), clock.DefaultFactor))
	mapView := renderer.NewMapView(stats)

	cam := camera.New(mapWidth, windowHeight)
	minX, minY, maxX, maxY := lvl.Bounds()
	cam.FitBounds(float32(minX), float32(minY), float32(maxX), float32(maxY), 24)

	params := defaultParams(cfg)
	vis := renderer.NewVisibility(stats, params.options(cfg.Renderer.LightRange))
	eyeX, eyeY := lvl.Start.X, lvl.Start.Y

	// GUI state
	needsRender := true
	complexity := 0
	var lines, flats, sprites int

	for !rl.WindowShouldClose() {
		mouse := rl.GetMousePosition()
		if rl.IsMouseButtonPressed(rl.MouseLeftButton) && mouse.X < mapWidth {
			wx, wy := cam.ScreenToWorld(mouse.X, mouse.Y)
			eyeX, eyeY = float64(wx), float64(wy)
			needsRender = true
		}

		eye := eyeView(lvl, eyeX, eyeY, params.Angle)
		if needsRender {
			complexity = render(vis, stats, lvl, eye)
			lines = stats.Count(telemetry.CounterRenderedLines)
			flats = stats.Count(telemetry.CounterRenderedFlats)
			sprites = stats.Count(telemetry.CounterRenderedSprites)
			needsRender = false
		}

		rl.BeginDrawing()
		mapView.Draw(lvl, vis.DrawList(), eye, cam)

		// Control panel
		panelX := float32(mapWidth + 10)
		panelY := float32(10)
		rl.DrawRectangle(mapWidth, 0, panelWidth, windowHeight, rl.RayWhite)

		rl.DrawText("View Parameters", int32(panelX), int32(panelY), 20, rl.DarkGray)
		panelY += 35

		sliders := []struct {
			label    string
			min, max float32
			value    *float32
			format   string
		}{
			{"Angle (degrees)", 0, 359, &params.Angle, "%.0f"},
			{"Field of view (degrees)", 30, 170, &params.FOV, "%.0f"},
			{"View distance (map units)", 64, 4096, &params.ViewDistance, "%.0f"},
		}
		for _, s := range sliders {
			rl.DrawText(s.label, int32(panelX), int32(panelY), 14, rl.Gray)
			panelY += 18
			v := gui.SliderBar(
				rl.Rectangle{X: panelX, Y: panelY, Width: panelWidth - 90, Height: 20},
				fmt.Sprintf("%.0f", s.min), fmt.Sprintf("%.0f", s.max),
				*s.value, s.min, s.max,
			)
			rl.DrawText(fmt.Sprintf(s.format, *s.value), int32(panelX+panelWidth-75), int32(panelY+2), 16, rl.DarkGray)
			if v != *s.value {
				*s.value = v
				vis = renderer.NewVisibility(stats, params.options(cfg.Renderer.LightRange))
				needsRender = true
			}
			panelY += 35
		}

		rl.DrawLine(int32(panelX), int32(panelY), int32(panelX)+panelWidth-20, int32(panelY), rl.LightGray)
		panelY += 15

		region, inside := lvl.RegionAt(eyeX, eyeY)
		regionText := "outside"
		if inside {
			regionText = fmt.Sprintf("%d", region)
		}
		for _, line := range []string{
			fmt.Sprintf("Eye: (%.0f, %.0f, %.0f)", eye.X, eye.Y, eye.Z),
			fmt.Sprintf("Region: %s", regionText),
			fmt.Sprintf("Scene complexity: %d", complexity),
			fmt.Sprintf("  walls %d  flats %d  sprites %d", lines, flats, sprites),
		} {
			rl.DrawText(line, int32(panelX), int32(panelY), 16, rl.DarkGray)
			panelY += 20
		}
		panelY += 15

		// Buttons
		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 140, Height: 30}, "Best angle") {
			best, _ := scanAngles(vis, stats, lvl, eye, 5)
			params.Angle = float32(best.Degrees())
			needsRender = true
		}
		if gui.Button(rl.Rectangle{X: panelX + 150, Y: panelY, Width: 140, Height: 30}, "Reset") {
			params = defaultParams(cfg)
			vis = renderer.NewVisibility(stats, params.options(cfg.Renderer.LightRange))
			eyeX, eyeY = lvl.Start.X, lvl.Start.Y
			needsRender = true
		}
		panelY += 55

		// Output YAML
		rl.DrawText("YAML Config:", int32(panelX), int32(panelY), 16, rl.DarkGray)
		panelY += 25
		yaml := rendererYAML(params, cfg.Renderer.LightRange)
		for _, line := range strings.Split(yaml, "\n") {
			rl.DrawText(line, int32(panelX), int32(panelY), 14, rl.Gray)
			panelY += 16
		}

		rl.DrawText("Press C to copy YAML to clipboard", int32(panelX), int32(windowHeight-30), 12, rl.Gray)
		if rl.IsKeyPressed(rl.KeyC) {
			rl.SetClipboardText(yaml)
		}

		rl.EndDrawing()
	}
}

// eyeView places the eye at standing height over the floor at (x, y).
func eyeView(lvl *level.Level, x, y float64, angleDeg float32) renderer.View {
	eye := renderer.View{X: x, Y: y, Angle: camera.FromDegrees(float64(angleDeg))}
	if r, ok := lvl.RegionAt(x, y); ok {
		floor, _ := lvl.Heights(r, x, y)
		eye.Z = floor + components.DefaultViewHeight
	}
	return eye
}

func rendererYAML(p viewParams, lightRange float64) string {
	return fmt.Sprintf("renderer:\n  fov_degrees: %.0f\n  view_distance: %.0f\n  light_range: %.0f",
		p.FOV, p.ViewDistance, lightRange)
}
