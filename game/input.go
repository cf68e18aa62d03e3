package game

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/goodshot/camera"
	"github.com/pthm-cable/goodshot/explorer"
)

// Manual movement speeds, per frame.
const (
	walkSpeed = 8.0
	turnSpeed = camera.Angle(0x01000000) // about 1.4 degrees
)

// handleInput processes keyboard and mouse input.
func (g *Game) handleInput() {
	g.handleResize()

	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}

	// Console shortcuts
	if rl.IsKeyPressed(rl.KeyG) {
		g.Exec("goodshot")
	}
	if rl.IsKeyPressed(rl.KeyX) {
		g.Exec("goodshot stop")
	}
	if rl.IsKeyPressed(rl.KeyB) {
		g.Exec("bench")
	}
	if rl.IsKeyPressed(rl.KeyF) {
		g.Exec("fps")
	}
	if rl.IsKeyPressed(rl.KeyP) {
		g.Exec("currentpos")
	}
	if rl.IsKeyPressed(rl.KeyOne) {
		g.Exec("stat rendertimes")
	}
	if rl.IsKeyPressed(rl.KeyTwo) {
		g.Exec("stat renderstats")
	}
	if rl.IsKeyPressed(rl.KeyThree) {
		g.Exec("stat lightstats")
	}

	g.handleMovement()
	g.handleCameraInput()
}

// handleResize checks for window resize and propagates new dimensions.
func (g *Game) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	w := float32(rl.GetScreenWidth())
	h := float32(rl.GetScreenHeight())
	if w == g.camera.ViewportW && h == g.camera.ViewportH {
		return
	}
	g.camera.Resize(w, h)
}

// handleMovement walks and turns the actor with WASD. Movement is ignored
// while a sweep drives the actor.
func (g *Game) handleMovement() {
	if g.explorer.Mode() != explorer.ModeIdle {
		return
	}
	facing := g.facingMap.Get(g.actor)
	if rl.IsKeyDown(rl.KeyA) {
		facing.Angle += turnSpeed
	}
	if rl.IsKeyDown(rl.KeyD) {
		facing.Angle -= turnSpeed
	}

	step := 0.0
	if rl.IsKeyDown(rl.KeyW) {
		step += walkSpeed
	}
	if rl.IsKeyDown(rl.KeyS) {
		step -= walkSpeed
	}
	if step != 0 {
		pos := g.posMap.Get(g.actor)
		dx, dy := angleVector(facing.Angle)
		pos.X += dx * step
		pos.Y += dy * step
	}
}

// handleCameraInput processes camera pan/zoom controls.
func (g *Game) handleCameraInput() {
	const panSpeed = 8.0 // screen pixels

	if rl.IsKeyDown(rl.KeyRight) {
		g.camera.Pan(panSpeed, 0)
	}
	if rl.IsKeyDown(rl.KeyLeft) {
		g.camera.Pan(-panSpeed, 0)
	}
	if rl.IsKeyDown(rl.KeyDown) {
		g.camera.Pan(0, panSpeed)
	}
	if rl.IsKeyDown(rl.KeyUp) {
		g.camera.Pan(0, -panSpeed)
	}

	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		g.camera.ZoomBy(1 + wheel*0.1)
	}
	if rl.IsKeyPressed(rl.KeyEqual) || rl.IsKeyPressed(rl.KeyKpAdd) {
		g.camera.ZoomBy(1.25)
	}
	if rl.IsKeyPressed(rl.KeyMinus) || rl.IsKeyPressed(rl.KeyKpSubtract) {
		g.camera.ZoomBy(0.8)
	}

	if rl.IsKeyPressed(rl.KeyHome) {
		g.follow = false
		g.resetCamera()
	}
	if rl.IsKeyPressed(rl.KeyT) {
		g.follow = !g.follow
	}
	g.trackCamera()
}

// trackCamera keeps the actor centred while follow mode is on.
func (g *Game) trackCamera() {
	if !g.follow || g.camera == nil {
		return
	}
	pos := g.posMap.Get(g.actor)
	g.camera.Follow(float32(pos.X), float32(pos.Y))
}

// resetCamera fits the whole level into the window.
func (g *Game) resetCamera() {
	if g.camera == nil || g.lvl == nil {
		return
	}
	minX, minY, maxX, maxY := g.lvl.Bounds()
	g.camera.FitBounds(float32(minX), float32(minY), float32(maxX), float32(maxY), 40)
}

// angleVector returns the unit vector pointing along a.
func angleVector(a camera.Angle) (dx, dy float64) {
	r := a.Radians()
	return math.Cos(r), math.Sin(r)
}
