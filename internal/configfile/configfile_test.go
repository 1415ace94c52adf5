package configfile

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTempConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "boiler.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write temp config: %v", err)
	}
	return path
}

func TestLoadValid(t *testing.T) {
	path := writeTempConfig(t, `
pumps: [10, 10, 10, 10]
capacity: 1000
min_normal: 400
max_normal: 600
min_limit: 100
max_limit: 900
max_steam_rate: 10
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.NumPumps() != 4 {
		t.Errorf("NumPumps: got %d, want 4", cfg.NumPumps())
	}
	if cfg.Capacity() != 1000 {
		t.Errorf("Capacity: got %v, want 1000", cfg.Capacity())
	}
	if cfg.Period() != 5 {
		t.Errorf("Period default: got %v, want 5", cfg.Period())
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoadInvalidBands(t *testing.T) {
	path := writeTempConfig(t, `
pumps: [10]
capacity: 1000
min_normal: 600
max_normal: 400
min_limit: 100
max_limit: 900
max_steam_rate: 10
`)
	if _, err := Load(path); err == nil {
		t.Error("expected error for inverted normal band")
	}
}

func TestLoadNoPumps(t *testing.T) {
	path := writeTempConfig(t, `
pumps: []
capacity: 1000
min_normal: 400
max_normal: 600
min_limit: 100
max_limit: 900
max_steam_rate: 10
`)
	if _, err := Load(path); err == nil {
		t.Error("expected error for zero pumps")
	}
}
