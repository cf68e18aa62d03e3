package game

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/pthm-cable/goodshot/explorer"
	"github.com/pthm-cable/goodshot/telemetry"
)

// logWriter is the destination for console output.
var logWriter io.Writer

// SetLogWriter sets the console output destination.
func SetLogWriter(w io.Writer) {
	logWriter = w
}

// Logf writes a formatted console line.
func Logf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if logWriter != nil {
		fmt.Fprintln(logWriter, msg)
	} else {
		fmt.Println(msg)
	}
}

// consoleWriter forwards command output to the log writer.
type consoleWriter struct{}

func (consoleWriter) Write(p []byte) (int, error) {
	if logWriter != nil {
		return logWriter.Write(p)
	}
	return os.Stdout.Write(p)
}

// logFrameStats logs the last frame's statistics.
func (g *Game) logFrameStats() {
	fps := g.fps.Stats()
	Logf("=== Frame %d | complexity %d | FPS %.0f (1%% low %.0f) ===", g.frame, g.complexity, fps.AvgFPS, fps.LowFPS)
	Logf("%s", g.stats.FormatReport(telemetry.ReportPrimitives))
	if g.stats.Timing() {
		Logf("%s", g.stats.FormatReport(telemetry.ReportTimes))
	}
	Logf("%s", g.stats.FormatReport(telemetry.ReportLights))

	slog.Debug("frame stats", "frame", g.frame, "stats", g.stats, "fps", fps)
}

// sweepRecorder writes every scored sweep sample to the CSV output.
type sweepRecorder struct {
	output *telemetry.OutputManager
}

func (r sweepRecorder) RecordSample(s explorer.Sample) {
	err := r.output.WriteSweep(telemetry.SweepRecord{
		Step:       s.Step,
		Region:     s.Region,
		SubRegion:  s.SubRegion,
		X:          s.X,
		Y:          s.Y,
		Angle:      s.Angle.Degrees(),
		Complexity: s.Complexity,
		Degenerate: s.Degenerate,
		Best:       s.Best,
	})
	if err != nil {
		slog.Error("failed to write sweep sample", "error", err)
	}
}
