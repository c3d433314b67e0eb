package config

import (
	"fyne.io/fyne/v2"

	"github.com/srf-tools/microphonics/internal/platform"
)

// Settings keys for Fyne preferences
const (
	KeyDataDir       = "data_directory"
	KeyBuffers       = "acquisition_buffers"
	KeyDecimation    = "acquisition_decimation"
	KeyHistogramBins = "histogram_bins"
	KeyLastDataFile  = "last_data_file"
	KeyAutoLoad      = "auto_load_on_complete"
	KeyLanguage      = "language"
)

// DefaultAutoLoad opens a finished acquisition in the viewer.
const DefaultAutoLoad = true

// DefaultLanguage is used until the operator picks another one.
const DefaultLanguage = "en"

// Settings manages desktop viewer preferences
type Settings struct {
	app fyne.App
}

// NewSettings creates a new settings manager
func NewSettings(app fyne.App) *Settings {
	return &Settings{app: app}
}

// GetDataDirectory returns the configured data directory
func (s *Settings) GetDataDirectory() string {
	dir := s.app.Preferences().String(KeyDataDir)
	if dir == "" {
		defaultDir := platform.DefaultDataDir()
		s.SetDataDirectory(defaultDir)
		return defaultDir
	}
	return dir
}

// SetDataDirectory sets the data directory
func (s *Settings) SetDataDirectory(dir string) {
	s.app.Preferences().SetString(KeyDataDir, dir)
}

// GetBuffers returns the number of buffers to acquire
func (s *Settings) GetBuffers() int {
	value := s.app.Preferences().Int(KeyBuffers)
	if value <= 0 {
		s.SetBuffers(DefaultBuffers)
		return DefaultBuffers
	}
	return value
}

// SetBuffers sets the number of buffers to acquire
func (s *Settings) SetBuffers(count int) {
	s.app.Preferences().SetInt(KeyBuffers, clamp(count, 1, MaxBuffers))
}

// GetDecimation returns the chassis decimation setting
func (s *Settings) GetDecimation() int {
	value := s.app.Preferences().Int(KeyDecimation)
	if value <= 0 {
		s.SetDecimation(DefaultDecimation)
		return DefaultDecimation
	}
	return value
}

// SetDecimation sets the chassis decimation setting
func (s *Settings) SetDecimation(decimation int) {
	s.app.Preferences().SetInt(KeyDecimation, clamp(decimation, 1, MaxDecimation))
}

// GetHistogramBins returns the histogram bin count
func (s *Settings) GetHistogramBins() int {
	value := s.app.Preferences().Int(KeyHistogramBins)
	if value <= 0 {
		s.SetHistogramBins(DefaultHistogramBins)
		return DefaultHistogramBins
	}
	return value
}

// SetHistogramBins sets the histogram bin count
func (s *Settings) SetHistogramBins(bins int) {
	s.app.Preferences().SetInt(KeyHistogramBins, clamp(bins, 1, 10000))
}

// GetLastDataFile returns the most recently opened data file, if any
func (s *Settings) GetLastDataFile() string {
	return s.app.Preferences().String(KeyLastDataFile)
}

// SetLastDataFile remembers the most recently opened data file
func (s *Settings) SetLastDataFile(path string) {
	s.app.Preferences().SetString(KeyLastDataFile, path)
}

// GetAutoLoadOnComplete returns whether finished acquisitions are opened automatically
func (s *Settings) GetAutoLoadOnComplete() bool {
	return s.app.Preferences().BoolWithFallback(KeyAutoLoad, DefaultAutoLoad)
}

// SetAutoLoadOnComplete sets whether finished acquisitions are opened automatically
func (s *Settings) SetAutoLoadOnComplete(autoLoad bool) {
	s.app.Preferences().SetBool(KeyAutoLoad, autoLoad)
}

// GetLanguage returns the interface language code
func (s *Settings) GetLanguage() string {
	return s.app.Preferences().StringWithFallback(KeyLanguage, DefaultLanguage)
}

// SetLanguage sets the interface language code
func (s *Settings) SetLanguage(lang string) {
	if _, ok := s.GetLanguageOptions()[lang]; !ok {
		lang = DefaultLanguage
	}
	s.app.Preferences().SetString(KeyLanguage, lang)
}

// GetLanguageOptions returns the supported language codes with display names
func (s *Settings) GetLanguageOptions() map[string]string {
	return map[string]string{
		"en": "English",
		"ru": "Русский",
	}
}

// Apply copies the YAML configuration into unset preferences so the viewer
// starts from the same defaults as the CLI.
func (s *Settings) Apply(cfg *Config) {
	prefs := s.app.Preferences()
	if prefs.String(KeyDataDir) == "" {
		s.SetDataDirectory(cfg.Acquisition.DataDir)
	}
	if prefs.Int(KeyBuffers) <= 0 {
		s.SetBuffers(cfg.Acquisition.Buffers)
	}
	if prefs.Int(KeyDecimation) <= 0 {
		s.SetDecimation(cfg.Acquisition.Decimation)
	}
	if prefs.Int(KeyHistogramBins) <= 0 {
		s.SetHistogramBins(cfg.Analysis.HistogramBins)
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
