package telemetry

import (
	"log/slog"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"
)

// FPSWindow tracks frame durations over a rolling window.
type FPSWindow struct {
	windowSize  int
	samples     []float64 // frame durations in seconds
	writeIndex  int
	sampleCount int
	lastFrame   time.Time
	now         func() time.Time
}

// NewFPSWindow creates a frame rate tracker.
// windowSize: number of frames to average over (e.g., 60 for 1 second at 60fps).
func NewFPSWindow(windowSize int) *FPSWindow {
	if windowSize < 1 {
		windowSize = 60
	}
	return &FPSWindow{
		windowSize: windowSize,
		samples:    make([]float64, windowSize),
		now:        time.Now,
	}
}

// RecordFrame marks the end of a frame. The first call only establishes the
// baseline.
func (w *FPSWindow) RecordFrame() {
	now := w.now()
	if !w.lastFrame.IsZero() {
		w.RecordDuration(now.Sub(w.lastFrame))
	}
	w.lastFrame = now
}

// RecordDuration adds one frame of the given duration.
func (w *FPSWindow) RecordDuration(d time.Duration) {
	if d <= 0 {
		return
	}
	w.samples[w.writeIndex] = d.Seconds()
	w.writeIndex = (w.writeIndex + 1) % w.windowSize
	if w.sampleCount < w.windowSize {
		w.sampleCount++
	}
}

// FPSStats holds frame rate statistics over the current window.
type FPSStats struct {
	Frames        int
	AvgFrameTime  time.Duration
	LastFrameTime time.Duration
	AvgFPS        float64
	LastFPS       float64
	LowFPS        float64 // 1% low: frame rate of the 99th percentile frame time
}

// Stats computes statistics over the window.
func (w *FPSWindow) Stats() FPSStats {
	if w.sampleCount == 0 {
		return FPSStats{}
	}

	window := make([]float64, w.sampleCount)
	copy(window, w.samples[:w.sampleCount])

	last := w.samples[(w.writeIndex-1+w.windowSize)%w.windowSize]
	mean := stat.Mean(window, nil)

	sort.Float64s(window)
	slow := stat.Quantile(0.99, stat.Empirical, window, nil)

	return FPSStats{
		Frames:        w.sampleCount,
		AvgFrameTime:  time.Duration(mean * float64(time.Second)),
		LastFrameTime: time.Duration(last * float64(time.Second)),
		AvgFPS:        1 / mean,
		LastFPS:       1 / last,
		LowFPS:        1 / slow,
	}
}

// LogValue implements slog.LogValuer for structured logging.
func (s FPSStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("frames", s.Frames),
		slog.Float64("avg_fps", s.AvgFPS),
		slog.Float64("last_fps", s.LastFPS),
		slog.Float64("low_fps", s.LowFPS),
		slog.Int64("avg_frame_us", s.AvgFrameTime.Microseconds()),
	)
}
