package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/srf-tools/microphonics/internal/platform"
)

// Acquisition defaults
const (
	DefaultInterpreter = "python"
	DefaultScript      = "res_data_acq.py"
	DefaultBuffers     = 1
	DefaultDecimation  = 1
	DefaultChannel     = "DF"

	MaxBuffers    = 1000
	MaxDecimation = 255
)

// Analysis defaults
const (
	DefaultHistogramBins      = 100
	DefaultSpectrogramSegment = 1024
	DefaultSpectrogramOverlap = 512
	DefaultPeaks              = 5
)

// Config is the YAML configuration shared by the CLI and the desktop viewer.
type Config struct {
	Acquisition AcquisitionConfig `yaml:"acquisition"`
	Analysis    AnalysisConfig    `yaml:"analysis"`
	Logging     LoggingConfig     `yaml:"logging"`
}

// AcquisitionConfig describes how the acquisition script is run.
type AcquisitionConfig struct {
	Interpreter string `yaml:"interpreter"`
	Script      string `yaml:"script"`
	DataDir     string `yaml:"data_dir"`
	Buffers     int    `yaml:"buffers"`
	Decimation  int    `yaml:"decimation"`
	Channel     string `yaml:"channel"`
}

// AnalysisConfig tunes the numeric views.
type AnalysisConfig struct {
	HistogramBins      int `yaml:"histogram_bins"`
	SpectrogramSegment int `yaml:"spectrogram_segment"`
	SpectrogramOverlap int `yaml:"spectrogram_overlap"`
	Peaks              int `yaml:"peaks"`
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	Verbose bool `yaml:"verbose"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Acquisition: AcquisitionConfig{
			Interpreter: DefaultInterpreter,
			Script:      DefaultScript,
			DataDir:     platform.DefaultDataDir(),
			Buffers:     DefaultBuffers,
			Decimation:  DefaultDecimation,
			Channel:     DefaultChannel,
		},
		Analysis: AnalysisConfig{
			HistogramBins:      DefaultHistogramBins,
			SpectrogramSegment: DefaultSpectrogramSegment,
			SpectrogramOverlap: DefaultSpectrogramOverlap,
			Peaks:              DefaultPeaks,
		},
	}
}

// DefaultPath returns the per-user config file location.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "microphonics.yaml"
	}
	return filepath.Join(dir, "microphonics", "config.yaml")
}

// Load reads the YAML file at path on top of Default. A missing file is not
// an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg to path as YAML, creating the directory if needed.
func Save(path string, cfg *Config) error {
	if err := platform.CreateDirectoryIfNotExists(filepath.Dir(path)); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// Validate checks ranges that would make an acquisition or analysis fail.
func (c *Config) Validate() error {
	a := c.Acquisition
	if a.Script == "" {
		return errors.New("acquisition.script is required")
	}
	if a.DataDir == "" {
		return errors.New("acquisition.data_dir is required")
	}
	if a.Buffers < 1 || a.Buffers > MaxBuffers {
		return fmt.Errorf("acquisition.buffers must be in 1-%d, got %d", MaxBuffers, a.Buffers)
	}
	if a.Decimation < 1 || a.Decimation > MaxDecimation {
		return fmt.Errorf("acquisition.decimation must be in 1-%d, got %d", MaxDecimation, a.Decimation)
	}

	an := c.Analysis
	if an.HistogramBins < 1 {
		return fmt.Errorf("analysis.histogram_bins must be positive, got %d", an.HistogramBins)
	}
	if an.SpectrogramSegment < 2 {
		return fmt.Errorf("analysis.spectrogram_segment must be at least 2, got %d", an.SpectrogramSegment)
	}
	if an.SpectrogramOverlap < 0 || an.SpectrogramOverlap >= an.SpectrogramSegment {
		return fmt.Errorf("analysis.spectrogram_overlap must be in [0, %d), got %d", an.SpectrogramSegment, an.SpectrogramOverlap)
	}
	return nil
}
