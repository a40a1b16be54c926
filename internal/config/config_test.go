// SPDX-License-Identifier: MPL-2.0

package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.OutputRoot != "." {
		t.Errorf("expected default output root to be the working directory, got %q", cfg.OutputRoot)
	}
	if len(cfg.SearchPaths) != 0 {
		t.Errorf("expected default search paths to be empty, got %v", cfg.SearchPaths)
	}
	if !cfg.Backup.Enabled {
		t.Error("expected backups to be enabled by default")
	}
	if cfg.Backup.Dir != "" {
		t.Errorf("expected default backup dir to be empty, got %q", cfg.Backup.Dir)
	}
	if !cfg.Gitignore {
		t.Error("expected gitignore maintenance to be enabled by default")
	}
	if cfg.UI.ColorScheme != "auto" {
		t.Errorf("expected default color scheme to be auto, got %s", cfg.UI.ColorScheme)
	}
	if cfg.UI.Verbose {
		t.Error("expected default verbose to be false")
	}
}

func TestConfigDir(t *testing.T) {
	t.Cleanup(Reset)

	SetConfigDirOverride("/tmp/custom-config")
	dir, err := ConfigDir()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dir != "/tmp/custom-config" {
		t.Errorf("dir = %q", dir)
	}

	Reset()
	if runtime.GOOS == "linux" {
		t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
		dir, err := ConfigDir()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := filepath.Join("/tmp/xdg", AppName)
		if dir != want {
			t.Errorf("dir = %q, want %q", dir, want)
		}
	}
}

func TestLoadDefaultsOnly(t *testing.T) {
	t.Cleanup(Reset)
	// Point at an empty directory so no config file is found.
	SetConfigDirOverride(t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.OutputRoot != "." || !cfg.Backup.Enabled {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestLoadFromFile(t *testing.T) {
	t.Cleanup(Reset)
	dir := t.TempDir()
	content := `
output_root: "/workspace/project"
search_paths: ["/bundles/shared"]
backup: enabled: false
ui: verbose: true
`
	path := filepath.Join(dir, ConfigFileName+"."+ConfigFileExt)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	SetConfigDirOverride(dir)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.OutputRoot != "/workspace/project" {
		t.Errorf("output root = %q", cfg.OutputRoot)
	}
	if len(cfg.SearchPaths) != 1 || cfg.SearchPaths[0] != "/bundles/shared" {
		t.Errorf("search paths = %v", cfg.SearchPaths)
	}
	if cfg.Backup.Enabled {
		t.Error("backup.enabled should be false from file")
	}
	if !cfg.UI.Verbose {
		t.Error("ui.verbose should be true from file")
	}
	// Untouched keys keep their defaults.
	if !cfg.Gitignore {
		t.Error("gitignore should keep its default")
	}
}

func TestLoadExplicitFileOverride(t *testing.T) {
	t.Cleanup(Reset)
	path := filepath.Join(t.TempDir(), "custom.cue")
	if err := os.WriteFile(path, []byte(`output_root: "/elsewhere"`), 0o644); err != nil {
		t.Fatal(err)
	}
	SetConfigFilePathOverride(path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.OutputRoot != "/elsewhere" {
		t.Errorf("output root = %q", cfg.OutputRoot)
	}
}

func TestLoadExplicitFileMissing(t *testing.T) {
	t.Cleanup(Reset)
	SetConfigFilePathOverride(filepath.Join(t.TempDir(), "nope.cue"))

	if _, err := Load(); err == nil {
		t.Fatal("expected error for missing explicit config file")
	}
}

func TestLoadSchemaViolation(t *testing.T) {
	t.Cleanup(Reset)
	dir := t.TempDir()
	path := filepath.Join(dir, ConfigFileName+"."+ConfigFileExt)
	if err := os.WriteFile(path, []byte(`ui: color_scheme: "neon"`), 0o644); err != nil {
		t.Fatal(err)
	}
	SetConfigDirOverride(dir)

	_, err := Load()
	if err == nil {
		t.Fatal("expected schema violation error")
	}
	if !strings.Contains(err.Error(), "color_scheme") {
		t.Errorf("error should name the offending field: %v", err)
	}
}

func TestLoadEnvironmentOverride(t *testing.T) {
	t.Cleanup(Reset)
	SetConfigDirOverride(t.TempDir())
	t.Setenv("STACKPACK_OUTPUT_ROOT", "/from-env")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.OutputRoot != "/from-env" {
		t.Errorf("output root = %q, want env override", cfg.OutputRoot)
	}
}
