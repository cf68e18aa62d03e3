package main

import (
	"testing"

	"github.com/pthm-cable/goodshot/camera"
	"github.com/pthm-cable/goodshot/clock"
	"github.com/pthm-cable/goodshot/level"
	"github.com/pthm-cable/goodshot/renderer"
	"github.com/pthm-cable/goodshot/telemetry"
)

type stepSource struct{ n uint64 }

func (s *stepSource) Cycles() uint64 {
	s.n += 100
	return s.n
}

func TestScanAnglesFindsMaximum(t *testing.T) {
	stats := telemetry.NewFrameStats(clock.New(&stepSource{}, clock.DefaultFactor))
	vis := renderer.NewVisibility(stats, renderer.Options{})
	lvl := level.Demo()
	eye := eyeView(lvl, lvl.Start.X, lvl.Start.Y, 90)

	best, c := scanAngles(vis, stats, lvl, eye, 45)

	for d := 0.0; d < 360; d += 45 {
		eye.Angle = camera.FromDegrees(d)
		if got := render(vis, stats, lvl, eye); got > c {
			t.Errorf("angle %v scores %d, above scan result %d", d, got, c)
		}
	}
	eye.Angle = best
	if got := render(vis, stats, lvl, eye); got != c {
		t.Errorf("rendering best angle = %d, want %d", got, c)
	}
}

func TestEyeViewStandsOnFloor(t *testing.T) {
	lvl := level.Demo()
	tests := []struct {
		name  string
		x, y  float64
		wantZ float64
	}{
		{"start room", 64, 128, 41},
		{"raised room", 300, 100, 8 + 41},
		{"outside", -50, -50, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := eyeView(lvl, tt.x, tt.y, 0).Z; got != tt.wantZ {
				t.Errorf("Z = %v, want %v", got, tt.wantZ)
			}
		})
	}
}

func TestRendererYAML(t *testing.T) {
	got := rendererYAML(viewParams{FOV: 90, ViewDistance: 2048}, 512)
	want := "renderer:\n  fov_degrees: 90\n  view_distance: 2048\n  light_range: 512"
	if got != want {
		t.Errorf("rendererYAML = %q, want %q", got, want)
	}
}
