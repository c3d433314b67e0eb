package platform

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestCreateDirectoryIfNotExists(t *testing.T) {
	tempDir := t.TempDir()
	testDir := filepath.Join(tempDir, "test_dir", "nested")

	if _, err := os.Stat(testDir); !os.IsNotExist(err) {
		t.Fatalf("Test directory already exists: %s", testDir)
	}

	if err := CreateDirectoryIfNotExists(testDir); err != nil {
		t.Fatalf("Failed to create directory: %v", err)
	}

	if _, err := os.Stat(testDir); os.IsNotExist(err) {
		t.Fatalf("Directory was not created: %s", testDir)
	}

	// Second call should not fail
	if err := CreateDirectoryIfNotExists(testDir); err != nil {
		t.Fatalf("Failed to handle existing directory: %v", err)
	}
}

func TestDefaultDataDir(t *testing.T) {
	t.Setenv(DataDirEnv, "/data/microphonics")
	if got := DefaultDataDir(); got != "/data/microphonics" {
		t.Errorf("Expected env override, got %s", got)
	}

	t.Setenv(DataDirEnv, "")
	if got := DefaultDataDir(); filepath.Base(got) != DataDirName {
		t.Errorf("Expected directory to end with %q, got: %s", DataDirName, got)
	}
}

func writeFile(t *testing.T, dir, name string, mod time.Time) {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("1.0\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Chtimes(path, mod, mod); err != nil {
		t.Fatal(err)
	}
}

func TestListDataFiles(t *testing.T) {
	dir := t.TempDir()
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	writeFile(t, dir, "res_CM02_cav1234_c1_20240501_120000", base)
	writeFile(t, dir, "res_CM03_cav5678_c1_20240501_130000", base.Add(time.Hour))
	writeFile(t, dir, "notes.txt", base.Add(2*time.Hour))
	if err := os.Mkdir(filepath.Join(dir, "res_subdir"), 0o755); err != nil {
		t.Fatal(err)
	}

	files, err := ListDataFiles(dir)
	if err != nil {
		t.Fatalf("ListDataFiles: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("Expected 2 data files, got %d: %v", len(files), files)
	}
	if !strings.Contains(files[0].Name, "CM03") {
		t.Errorf("Expected newest file first, got %s", files[0].Name)
	}

	latest, err := LatestDataFile(dir)
	if err != nil {
		t.Fatalf("LatestDataFile: %v", err)
	}
	if latest.Path != files[0].Path {
		t.Errorf("Expected latest %s, got %s", files[0].Path, latest.Path)
	}
}

func TestLatestDataFile_Empty(t *testing.T) {
	if _, err := LatestDataFile(t.TempDir()); err == nil {
		t.Error("Expected error for empty directory")
	}
	if _, err := ListDataFiles(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("Expected error for missing directory")
	}
}

func TestOpenFileInManager_NonExistentFile(t *testing.T) {
	nonExistentFile := filepath.Join(t.TempDir(), "nonexistent.txt")

	err := OpenFileInManager(nonExistentFile)
	if err == nil {
		t.Fatal("Expected error for non-existent file, got nil")
	}
	if !strings.Contains(err.Error(), "file does not exist:") {
		t.Errorf("Error message should contain 'file does not exist:', got: %v", err)
	}
}
