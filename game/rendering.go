package game

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/goodshot/explorer"
	"github.com/pthm-cable/goodshot/telemetry"
	"github.com/pthm-cable/goodshot/ui"
)

const controlsLegend = "[G] find best view  [X] stop  [B] bench  [F] fps  [1-3] stats  [P] position  [WASD] move  [arrows/wheel] camera  [T] follow  [Home] fit"

// Draw renders the map view and the HUD.
func (g *Game) Draw() {
	rl.BeginDrawing()

	g.mapView.Draw(g.lvl, g.list, g.eye(), g.camera)

	act := g.hud.Draw(g.hudData())
	if act.Sweep {
		g.Exec("goodshot")
	}
	if act.StopSweep {
		g.Exec("goodshot stop")
	}
	if act.Bench {
		g.Exec("bench")
	}
	g.hud.DrawControls(int32(rl.GetScreenHeight()), controlsLegend)

	g.stats.Start(telemetry.PhaseFinish)
	rl.EndDrawing()
	g.stats.Stop(telemetry.PhaseFinish)
}

func (g *Game) hudData() ui.HUDData {
	view := g.view()
	x, y := view.Position()
	env := view.Surroundings()
	st := g.explorer.State()
	fps := g.fps.Stats()

	title := "goodshot"
	if g.lvl != nil {
		title = fmt.Sprintf("%s: %s", g.lvl.Name, g.lvl.Title)
	}

	return ui.HUDData{
		Title:        title,
		FPS:          int(fps.AvgFPS + 0.5),
		LowFPS:       fps.LowFPS,
		ShowFPS:      g.showFPS,
		Complexity:   g.complexity,
		X:            x,
		Y:            y,
		Z:            env.Z,
		Angle:        view.Angle().Degrees(),
		Region:       env.Region,
		LightLevel:   env.LightLevel,
		Mode:         st.Mode.String(),
		Progress:     g.progress(st),
		Best:         st.BestComplexity,
		BenchPending: g.bench.Pending(),
		Reports:      g.ShownReports(),
		ScreenWidth:  int32(rl.GetScreenWidth()),
		ScreenHeight: int32(rl.GetScreenHeight()),
	}
}

// progress is how far the current sweep or settle has got.
func (g *Game) progress(st explorer.State) float32 {
	switch st.Mode {
	case explorer.ModeSweeping:
		if g.lvl == nil {
			return 0
		}
		total := 0
		for r := range g.lvl.Regions {
			total += g.lvl.SubRegionCount(r)
		}
		if total == 0 {
			return 1
		}
		return float32(st.Scored) / float32(total)
	case explorer.ModeSettling:
		return float32(st.SettleFrames) / float32(g.settleFrames())
	case explorer.ModeCapturing:
		return 1
	}
	return 0
}

func (g *Game) settleFrames() int {
	if n := g.cfg.Explorer.SettleFrames; n > 0 {
		return n
	}
	return explorer.DefaultSettleFrames
}
