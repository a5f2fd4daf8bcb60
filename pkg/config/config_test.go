package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/vanderheijden86/knowtree/pkg/layout"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, ConfigFileName)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Provider.APIKeyEnv != "OPENAI_API_KEY" {
		t.Errorf("APIKeyEnv = %q", cfg.Provider.APIKeyEnv)
	}
	if cfg.Zoom.Min != layout.MinZoom || cfg.Zoom.Max != layout.MaxZoom {
		t.Errorf("zoom defaults = %+v", cfg.Zoom)
	}
	if cfg.Cache.Enabled {
		t.Error("cache should be off by default")
	}
}

func TestLoadLayersOverDefaults(t *testing.T) {
	path := writeConfig(t, t.TempDir(), `
provider:
  model: gpt-4o
cache:
  enabled: true
  path: /tmp/kt.db
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Provider.Model != "gpt-4o" {
		t.Errorf("Model = %q", cfg.Provider.Model)
	}
	if !cfg.Cache.Enabled || cfg.Cache.Path != "/tmp/kt.db" {
		t.Errorf("Cache = %+v", cfg.Cache)
	}
	// Unset fields keep their defaults.
	if cfg.Provider.APIKeyEnv != "OPENAI_API_KEY" {
		t.Errorf("APIKeyEnv lost its default: %q", cfg.Provider.APIKeyEnv)
	}
}

func TestLoadRejectsBadZoom(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "zoom:\n  min: 2\n  max: 0.5\n")
	if _, err := Load(path); err == nil {
		t.Error("inverted zoom clamp accepted")
	}

	path = writeConfig(t, t.TempDir(), "zoom:\n  min: 0\n  max: 4\n")
	if _, err := Load(path); err == nil {
		t.Error("zero zoom minimum accepted")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yml")); err == nil {
		t.Error("missing file should error")
	}
}

func TestDiscoverExplicitPath(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "theme: light\n")
	cfg, found, err := Discover(path)
	if err != nil {
		t.Fatal(err)
	}
	if found != path {
		t.Errorf("found = %q, want %q", found, path)
	}
	if cfg.Theme != "light" {
		t.Errorf("Theme = %q", cfg.Theme)
	}
}

func TestDiscoverWalksUp(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, ConfigDirName), 0o755); err != nil {
		t.Fatal(err)
	}
	writeConfig(t, filepath.Join(root, ConfigDirName), "theme: dracula\n")

	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}
	t.Chdir(nested)

	cfg, found, err := Discover("")
	if err != nil {
		t.Fatal(err)
	}
	if found == "" {
		t.Fatal("project config not discovered from nested dir")
	}
	if cfg.Theme != "dracula" {
		t.Errorf("Theme = %q", cfg.Theme)
	}
}

func TestDiscoverFallsBackToDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, found, err := Discover("")
	if err != nil {
		t.Fatal(err)
	}
	if found != "" {
		t.Errorf("found = %q, want none", found)
	}
	if cfg.Provider.APIKeyEnv != "OPENAI_API_KEY" {
		t.Error("defaults not returned")
	}
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home dir")
	}
	if got := ExpandHome("~/x.db"); got != filepath.Join(home, "x.db") {
		t.Errorf("ExpandHome = %q", got)
	}
	if got := ExpandHome("/abs/x.db"); got != "/abs/x.db" {
		t.Errorf("absolute path changed: %q", got)
	}
}
