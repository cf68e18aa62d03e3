package telemetry

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestBenchWaitsForStabilize(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "benchmarks.txt")
	var console bytes.Buffer

	s := newTestStats()
	b := NewBench(s, BenchOptions{LogPath: logPath, Stabilize: 5 * time.Second}, &console, nil)

	start := time.Unix(0, 0)
	if enable := b.Request(start, false); !enable {
		t.Error("expected bench to turn the FPS display on")
	}
	if !b.Pending() {
		t.Fatal("expected pending bench")
	}

	if res := b.Check(start.Add(4*time.Second), BenchSample{}); res.Written {
		t.Fatal("bench written before stabilising")
	}
	if _, err := os.Stat(logPath); !os.IsNotExist(err) {
		t.Fatal("log file should not exist yet")
	}

	res := b.Check(start.Add(5*time.Second), BenchSample{MapName: "MAP01", FPS: 60})
	if !res.Written || !res.DisableFPS {
		t.Errorf("Check() = %+v, want written and FPS disabled", res)
	}
	if b.Pending() {
		t.Error("bench still pending after write")
	}
	if !strings.Contains(console.String(), "Benchmark info saved") {
		t.Errorf("console = %q", console.String())
	}
}

func TestBenchAppends(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "benchmarks.txt")

	s := newTestStats()
	s.Add(CounterRenderedLines, 11)
	s.Add(CounterRenderedFlats, 2)
	b := NewBench(s, BenchOptions{LogPath: logPath}, nil, nil)

	sample := BenchSample{
		MapName: "MAP07", LevelTitle: "Dead Simple",
		X: 1.5, Y: -2, Z: 41, Angle: 90, Pitch: 0, FPS: 144,
	}
	for i := 0; i < 2; i++ {
		b.Request(time.Unix(0, 0), true)
		if res := b.Check(time.Unix(0, 0), sample); !res.Written || res.DisableFPS {
			t.Fatalf("run %d: Check() = %+v", i, res)
		}
	}

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("reading log: %v", err)
	}
	text := string(data)
	if n := strings.Count(text, "Map MAP07: \"Dead Simple\",\n"); n != 2 {
		t.Errorf("found %d blocks, want 2:\n%s", n, text)
	}
	for _, want := range []string{
		"x = 1.5000, y = -2.0000, z = 41.0000, angle = 90.0000, pitch = 0.0000\n",
		"Walls: 11 (",
		"W: Render=",
		"DLight - Walls:",
		"Scene complexity: 13\n",
		"144 fps\n\n",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("log missing %q", want)
		}
	}
}

func TestBenchWriteFailureDoesNotAbort(t *testing.T) {
	dir := t.TempDir()
	var console bytes.Buffer

	s := newTestStats()
	// A directory cannot be opened for appending.
	b := NewBench(s, BenchOptions{LogPath: dir}, &console, nil)

	b.Request(time.Unix(0, 0), true)
	res := b.Check(time.Unix(0, 0), BenchSample{})
	if !res.Written {
		t.Error("a failed write should still finish the run")
	}
	if got := strings.Count(console.String(), "Unable to save benchmark info"); got != 1 {
		t.Errorf("failure reported %d times, want 1: %q", got, console.String())
	}
}

func TestBenchCheckWithoutRequest(t *testing.T) {
	b := NewBench(newTestStats(), BenchOptions{LogPath: filepath.Join(t.TempDir(), "b.txt")}, nil, nil)
	if res := b.Check(time.Now(), BenchSample{}); res.Written {
		t.Error("Check without Request should do nothing")
	}
}
