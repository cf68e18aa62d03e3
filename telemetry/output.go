package telemetry

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"
	"github.com/pthm-cable/goodshot/config"
)

// BenchRecord is one benchmark run in benchmarks.csv.
type BenchRecord struct {
	Time           string  `csv:"time"`
	Map            string  `csv:"map"`
	X              float64 `csv:"x"`
	Y              float64 `csv:"y"`
	Z              float64 `csv:"z"`
	Angle          float64 `csv:"angle"`
	Pitch          float64 `csv:"pitch"`
	Complexity     int     `csv:"complexity"`
	Walls          int     `csv:"walls"`
	Flats          int     `csv:"flats"`
	Sprites        int     `csv:"sprites"`
	AllMS          float64 `csv:"all_ms"`
	RenderWallMS   float64 `csv:"render_wall_ms"`
	RenderFlatMS   float64 `csv:"render_flat_ms"`
	RenderSpriteMS float64 `csv:"render_sprite_ms"`
	BSPMS          float64 `csv:"bsp_ms"`
	FPS            int     `csv:"fps"`
}

// SweepRecord is one scored sub-region of a viewpoint sweep in sweep.csv.
type SweepRecord struct {
	Step       int     `csv:"step"`
	Region     int     `csv:"region"`
	SubRegion  int     `csv:"subregion"`
	X          int     `csv:"x"`
	Y          int     `csv:"y"`
	Angle      float64 `csv:"angle"`
	Complexity int     `csv:"complexity"`
	Degenerate bool    `csv:"degenerate"`
	Best       bool    `csv:"best"`
}

// OutputManager handles structured run output with CSV logging.
type OutputManager struct {
	dir       string
	benchFile *os.File
	sweepFile *os.File

	benchHeaderWritten bool
	sweepHeaderWritten bool
}

// NewOutputManager creates a new output manager and initializes the output directory.
// Returns nil if dir is empty (output disabled).
func NewOutputManager(dir string) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	om := &OutputManager{dir: dir}

	f, err := os.Create(filepath.Join(dir, "benchmarks.csv"))
	if err != nil {
		return nil, fmt.Errorf("creating benchmarks.csv: %w", err)
	}
	om.benchFile = f

	f, err = os.Create(filepath.Join(dir, "sweep.csv"))
	if err != nil {
		om.benchFile.Close()
		return nil, fmt.Errorf("creating sweep.csv: %w", err)
	}
	om.sweepFile = f

	return om, nil
}

// WriteConfig saves the current configuration as YAML.
func (om *OutputManager) WriteConfig(cfg *config.Config) error {
	if om == nil {
		return nil
	}
	return cfg.WriteYAML(filepath.Join(om.dir, "config.yaml"))
}

// WriteBench writes a benchmark record to benchmarks.csv.
func (om *OutputManager) WriteBench(r BenchRecord) error {
	if om == nil {
		return nil
	}
	if err := writeRecords(om.benchFile, []BenchRecord{r}, &om.benchHeaderWritten); err != nil {
		return fmt.Errorf("writing bench: %w", err)
	}
	return nil
}

// WriteSweep writes a sweep sample to sweep.csv.
func (om *OutputManager) WriteSweep(r SweepRecord) error {
	if om == nil {
		return nil
	}
	if err := writeRecords(om.sweepFile, []SweepRecord{r}, &om.sweepHeaderWritten); err != nil {
		return fmt.Errorf("writing sweep sample: %w", err)
	}
	return nil
}

// writeRecords marshals records, including the header only on first use.
func writeRecords(f *os.File, records any, headerWritten *bool) error {
	if !*headerWritten {
		if err := gocsv.Marshal(records, f); err != nil {
			return err
		}
		*headerWritten = true
		return nil
	}
	return gocsv.MarshalWithoutHeaders(records, f)
}

// Dir returns the output directory path.
func (om *OutputManager) Dir() string {
	if om == nil {
		return ""
	}
	return om.dir
}

// Close flushes and closes all output files.
func (om *OutputManager) Close() error {
	if om == nil {
		return nil
	}

	var firstErr error
	for _, f := range []*os.File{om.benchFile, om.sweepFile} {
		if f == nil {
			continue
		}
		if err := f.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
