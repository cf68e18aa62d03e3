package main

import (
	"github.com/pthm-cable/goodshot/camera"
	"github.com/pthm-cable/goodshot/level"
	"github.com/pthm-cable/goodshot/renderer"
	"github.com/pthm-cable/goodshot/telemetry"
)

// render runs one visibility frame and returns its complexity.
func render(vis *renderer.Visibility, stats *telemetry.FrameStats, lvl *level.Level, eye renderer.View) int {
	stats.BeginFrame()
	vis.Render(lvl, eye)
	stats.Stop(telemetry.PhaseAll)
	return stats.Complexity()
}

// scanAngles turns the eye through a full circle in steps of stepDeg degrees
// and returns the first angle with the highest complexity.
func scanAngles(vis *renderer.Visibility, stats *telemetry.FrameStats, lvl *level.Level, eye renderer.View, stepDeg float64) (camera.Angle, int) {
	if stepDeg <= 0 {
		stepDeg = 5
	}
	best, bestC := eye.Angle, -1
	for d := 0.0; d < 360; d += stepDeg {
		eye.Angle = camera.FromDegrees(d)
		if c := render(vis, stats, lvl, eye); c > bestC {
			best, bestC = eye.Angle, c
		}
	}
	return best, bestC
}
