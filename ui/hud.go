package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// HUDData holds everything the HUD shows for one frame.
type HUDData struct {
	Title        string
	FPS          int
	LowFPS       float64
	ShowFPS      bool
	Complexity   int
	X, Y, Z      float64
	Angle        float64 // degrees
	Region       int
	LightLevel   int
	Mode         string  // explorer mode
	Progress     float32 // sweep or settle progress in [0, 1]
	Best         int     // best complexity so far, 0 when none
	BenchPending bool
	Reports      []string // active stat reports
	ScreenWidth  int32
	ScreenHeight int32
}

// Actions are the HUD buttons pressed this frame.
type Actions struct {
	Sweep     bool
	StopSweep bool
	Bench     bool
}

// HUD renders the heads-up display and its buttons.
type HUD struct {
	renderer *Renderer
	width    int32
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{renderer: NewRenderer(), width: 260}
}

// Draw renders the HUD and returns the buttons pressed.
func (h *HUD) Draw(data HUDData) Actions {
	r := h.renderer
	pad := r.Theme.Padding
	x, y := pad, pad

	rl.DrawText(data.Title, x, y, 20, rl.White)
	y += 26

	panelH := r.Theme.LineHeight*8 + pad*2 + 28
	r.DrawPanel(x, y, h.width, panelH)
	cx, cy := x+pad, y+pad

	cy = r.DrawLabelValue(cx, cy, "Position", fmt.Sprintf("%.0f, %.0f, %.0f", data.X, data.Y, data.Z))
	cy = r.DrawLabelValue(cx, cy, "Angle", fmt.Sprintf("%.1f", data.Angle))
	cy = r.DrawLabelValue(cx, cy, "Region", fmt.Sprintf("%d (light %d)", data.Region, data.LightLevel))
	cy = r.DrawLabelValue(cx, cy, "Complexity", fmt.Sprintf("%d", data.Complexity))
	cy = r.DrawLabelValue(cx, cy, "Explorer", data.Mode)
	if data.Best > 0 {
		cy = r.DrawLabelValue(cx, cy, "Best", fmt.Sprintf("%d", data.Best))
	}
	if data.Mode != "idle" {
		cy = r.DrawBar(cx, cy, "Progress", data.Progress, h.width-2*pad)
	}

	var act Actions
	bw := float32(h.width-3*pad) / 2
	by := float32(y + panelH - pad - 24)
	if data.Mode == "idle" {
		act.Sweep = gui.Button(rl.Rectangle{X: float32(cx), Y: by, Width: bw, Height: 24}, "Find best view")
	} else {
		act.StopSweep = gui.Button(rl.Rectangle{X: float32(cx), Y: by, Width: bw, Height: 24}, "Stop")
	}
	benchLabel := "Benchmark"
	if data.BenchPending {
		benchLabel = "Benchmarking..."
	}
	act.Bench = gui.Button(rl.Rectangle{X: float32(cx) + bw + float32(pad), Y: by, Width: bw, Height: 24}, benchLabel)

	y += panelH + pad
	if data.ShowFPS {
		color := rl.Green
		if data.FPS < 30 {
			color = r.Theme.WarnColor
		}
		rl.DrawText(fmt.Sprintf("%d fps (1%% low %.0f)", data.FPS, data.LowFPS), x, y, 16, color)
		y += 20
	}

	if len(data.Reports) > 0 {
		y = r.DrawSectionHeader(x, y, "Render stats")
	}
	for _, rep := range data.Reports {
		y = r.DrawLines(x, y, rep)
	}

	return act
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-25, 14, rl.Gray)
}
