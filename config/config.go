// Package config provides configuration loading and access.
package config

import (
	_ "embed"
	"fmt"
	"math"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all configuration parameters.
type Config struct {
	Screen      ScreenConfig      `yaml:"screen"`
	Level       LevelConfig       `yaml:"level"`
	Explorer    ExplorerConfig    `yaml:"explorer"`
	Renderer    RendererConfig    `yaml:"renderer"`
	Calibration CalibrationConfig `yaml:"calibration"`
	Telemetry   TelemetryConfig   `yaml:"telemetry"`
	Bench       BenchConfig       `yaml:"bench"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// LevelConfig selects the level to load.
type LevelConfig struct {
	Path string `yaml:"path"` // empty = built-in demo level
}

// ExplorerConfig holds best-viewpoint sweep parameters.
type ExplorerConfig struct {
	SettleFrames   int    `yaml:"settle_frames"`   // frames to wait after the final teleport (0 = default)
	QuitAfterShot  bool   `yaml:"quit_after_shot"` // request shutdown once the screenshot is taken
	ScreenshotFile string `yaml:"screenshot_file"`
}

// RendererConfig holds visibility pass parameters.
type RendererConfig struct {
	FOVDegrees   float64 `yaml:"fov_degrees"`
	ViewDistance float64 `yaml:"view_distance"` // map units
	LightRange   float64 `yaml:"light_range"`   // dynamic light influence, map units
}

// CalibrationConfig holds cycle counter calibration parameters.
type CalibrationConfig struct {
	Enabled         bool `yaml:"enabled"`
	MinDurationMS   int  `yaml:"min_duration_ms"`
	TimeoutMS       int  `yaml:"timeout_ms"`
	ElevatePriority bool `yaml:"elevate_priority"`
}

// TelemetryConfig holds statistics display parameters.
type TelemetryConfig struct {
	TimesRefreshMS int `yaml:"times_refresh_ms"` // rendertimes regeneration interval
	FPSWindow      int `yaml:"fps_window"`       // frames averaged for FPS
}

// BenchConfig holds benchmark command parameters.
type BenchConfig struct {
	LogPath     string `yaml:"log_path"`
	StabilizeMS int    `yaml:"stabilize_ms"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	HalfFOV          float64 // radians
	CalibrationMin   time.Duration
	CalibrationLimit time.Duration
	TimesRefresh     time.Duration
	BenchStabilize   time.Duration
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg.computeDerived()

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Explorer.SettleFrames < 0 {
		return fmt.Errorf("explorer.settle_frames must not be negative, got %d", c.Explorer.SettleFrames)
	}
	if c.Renderer.FOVDegrees <= 0 || c.Renderer.FOVDegrees >= 360 {
		return fmt.Errorf("renderer.fov_degrees must be in (0, 360), got %v", c.Renderer.FOVDegrees)
	}
	if c.Renderer.ViewDistance <= 0 {
		return fmt.Errorf("renderer.view_distance must be positive, got %v", c.Renderer.ViewDistance)
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.HalfFOV = c.Renderer.FOVDegrees * math.Pi / 360
	c.Derived.CalibrationMin = time.Duration(c.Calibration.MinDurationMS) * time.Millisecond
	c.Derived.CalibrationLimit = time.Duration(c.Calibration.TimeoutMS) * time.Millisecond
	c.Derived.TimesRefresh = time.Duration(c.Telemetry.TimesRefreshMS) * time.Millisecond
	c.Derived.BenchStabilize = time.Duration(c.Bench.StabilizeMS) * time.Millisecond

	if c.Explorer.ScreenshotFile == "" {
		c.Explorer.ScreenshotFile = "shot.png"
	}
	if c.Bench.LogPath == "" {
		c.Bench.LogPath = "benchmarks.txt"
	}
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
