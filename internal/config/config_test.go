package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoad_MissingFileGivesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "none.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Acquisition.Script != DefaultScript {
		t.Errorf("Expected script %s, got %s", DefaultScript, cfg.Acquisition.Script)
	}
	if cfg.Analysis.HistogramBins != DefaultHistogramBins {
		t.Errorf("Expected %d bins, got %d", DefaultHistogramBins, cfg.Analysis.HistogramBins)
	}
}

func TestLoad_OverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `acquisition:
  script: /usr/local/lcls/tools/res_data_acq.py
  data_dir: /data/microphonics
  decimation: 2
analysis:
  histogram_bins: 40
logging:
  verbose: true
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Acquisition.Script != "/usr/local/lcls/tools/res_data_acq.py" {
		t.Errorf("unexpected script %s", cfg.Acquisition.Script)
	}
	if cfg.Acquisition.Decimation != 2 || cfg.Acquisition.Buffers != DefaultBuffers {
		t.Errorf("unexpected acquisition config %+v", cfg.Acquisition)
	}
	if cfg.Acquisition.Interpreter != DefaultInterpreter {
		t.Errorf("Expected default interpreter to survive, got %s", cfg.Acquisition.Interpreter)
	}
	if cfg.Analysis.HistogramBins != 40 || !cfg.Logging.Verbose {
		t.Errorf("unexpected analysis/logging config %+v %+v", cfg.Analysis, cfg.Logging)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		errPart string
	}{
		{"bad yaml", "acquisition: [", "parse"},
		{"negative buffers", "acquisition:\n  buffers: -1\n", "buffers"},
		{"decimation too large", "acquisition:\n  decimation: 999\n", "decimation"},
		{"overlap too large", "analysis:\n  spectrogram_segment: 64\n  spectrogram_overlap: 64\n", "overlap"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
				t.Fatal(err)
			}
			_, err := Load(path)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.errPart) {
				t.Errorf("expected error containing %q, got %v", tt.errPart, err)
			}
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := Default()
	cfg.Acquisition.DataDir = "/data/x"

	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Acquisition.DataDir != "/data/x" {
		t.Errorf("Expected data dir /data/x, got %s", loaded.Acquisition.DataDir)
	}
}
