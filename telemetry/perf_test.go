package telemetry

import (
	"math"
	"testing"
	"time"
)

func TestFPSWindow_Empty(t *testing.T) {
	w := NewFPSWindow(10)

	stats := w.Stats()
	if stats.Frames != 0 || stats.AvgFPS != 0 {
		t.Errorf("expected zero stats for empty window, got %+v", stats)
	}
}

func TestFPSWindow_FirstFrameIsBaseline(t *testing.T) {
	w := NewFPSWindow(10)
	base := time.Unix(100, 0)
	w.now = func() time.Time { return base }

	w.RecordFrame()

	if got := w.Stats().Frames; got != 0 {
		t.Errorf("expected baseline frame not to count, got %d frames", got)
	}

	w.now = func() time.Time { return base.Add(20 * time.Millisecond) }
	w.RecordFrame()

	stats := w.Stats()
	if stats.Frames != 1 {
		t.Fatalf("expected 1 frame, got %d", stats.Frames)
	}
	if math.Abs(stats.LastFPS-50) > 1e-9 {
		t.Errorf("LastFPS = %v, want 50", stats.LastFPS)
	}
}

func TestFPSWindow_Average(t *testing.T) {
	w := NewFPSWindow(4)
	for _, d := range []time.Duration{10, 20, 10, 20} {
		w.RecordDuration(d * time.Millisecond)
	}

	stats := w.Stats()
	if math.Abs(stats.AvgFPS-1/0.015) > 1e-6 {
		t.Errorf("AvgFPS = %v, want %v", stats.AvgFPS, 1/0.015)
	}
	if math.Abs(stats.LastFPS-50) > 1e-9 {
		t.Errorf("LastFPS = %v, want 50", stats.LastFPS)
	}
	if math.Abs(stats.LowFPS-50) > 1e-9 {
		t.Errorf("LowFPS = %v, want 50", stats.LowFPS)
	}
}

func TestFPSWindow_RollingWindow(t *testing.T) {
	w := NewFPSWindow(3)

	for i := 0; i < 5; i++ {
		w.RecordDuration(100 * time.Millisecond)
	}
	for i := 0; i < 3; i++ {
		w.RecordDuration(10 * time.Millisecond)
	}

	stats := w.Stats()
	if stats.Frames != 3 {
		t.Errorf("Frames = %d, want 3", stats.Frames)
	}
	if math.Abs(stats.AvgFPS-100) > 1e-6 {
		t.Errorf("AvgFPS = %v, want 100 once slow frames rolled out", stats.AvgFPS)
	}
}

func TestFPSWindow_IgnoresNonPositive(t *testing.T) {
	w := NewFPSWindow(3)
	w.RecordDuration(0)
	w.RecordDuration(-time.Second)

	if w.Stats().Frames != 0 {
		t.Error("non-positive durations should be ignored")
	}
}
