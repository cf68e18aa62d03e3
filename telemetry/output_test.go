package telemetry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestOutputManagerDisabled(t *testing.T) {
	om, err := NewOutputManager("")
	if err != nil || om != nil {
		t.Fatalf("NewOutputManager(\"\") = %v, %v; want nil, nil", om, err)
	}
	// Methods are nil-safe.
	if err := om.WriteSweep(SweepRecord{}); err != nil {
		t.Errorf("WriteSweep on nil manager: %v", err)
	}
	if err := om.Close(); err != nil {
		t.Errorf("Close on nil manager: %v", err)
	}
}

func TestOutputManagerWritesHeaderOnce(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatalf("NewOutputManager: %v", err)
	}

	for i := 0; i < 3; i++ {
		if err := om.WriteSweep(SweepRecord{Step: i, Region: 1, SubRegion: i, Complexity: 10 * i}); err != nil {
			t.Fatalf("WriteSweep: %v", err)
		}
	}
	if err := om.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "sweep.csv"))
	if err != nil {
		t.Fatalf("reading sweep.csv: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 4 {
		t.Fatalf("got %d lines, want header + 3 rows:\n%s", len(lines), data)
	}
	if !strings.HasPrefix(lines[0], "step,region,subregion") {
		t.Errorf("unexpected header %q", lines[0])
	}
}

func TestBenchWritesCSVRecord(t *testing.T) {
	dir := t.TempDir()
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatalf("NewOutputManager: %v", err)
	}
	defer om.Close()

	s := newTestStats()
	s.Add(CounterRenderedSprites, 4)
	b := NewBench(s, BenchOptions{LogPath: filepath.Join(dir, "benchmarks.txt")}, nil, om)
	b.Request(time.Unix(0, 0), true)
	b.Check(time.Unix(0, 0), BenchSample{MapName: "E1M1", FPS: 35})

	data, err := os.ReadFile(filepath.Join(dir, "benchmarks.csv"))
	if err != nil {
		t.Fatalf("reading benchmarks.csv: %v", err)
	}
	if !strings.Contains(string(data), "E1M1") {
		t.Errorf("benchmarks.csv missing record:\n%s", data)
	}
}
