// Package config loads knowtree configuration from YAML and locates
// the config file by walking up from the working directory.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vanderheijden86/knowtree/pkg/layout"
)

// ConfigDirName is the per-project directory knowtree looks for.
const ConfigDirName = ".knowtree"

// ConfigFileName is the config file inside ConfigDirName or the XDG dir.
const ConfigFileName = "config.yml"

// Config is the full user configuration.
type Config struct {
	Provider ProviderConfig `yaml:"provider,omitempty"`
	Cache    CacheConfig    `yaml:"cache,omitempty"`
	Theme    string         `yaml:"theme,omitempty"`
	Zoom     ZoomConfig     `yaml:"zoom,omitempty"`
}

// ProviderConfig selects and parameterizes the content provider.
type ProviderConfig struct {
	Model     string `yaml:"model,omitempty"`
	BaseURL   string `yaml:"base_url,omitempty"`
	APIKeyEnv string `yaml:"api_key_env,omitempty"` // env var holding the key
}

// CacheConfig controls the sqlite response cache. Off by default.
type CacheConfig struct {
	Enabled bool   `yaml:"enabled,omitempty"`
	Path    string `yaml:"path,omitempty"`
}

// ZoomConfig narrows the zoom clamp.
type ZoomConfig struct {
	Min float64 `yaml:"min,omitempty"`
	Max float64 `yaml:"max,omitempty"`
}

// Default returns the configuration used when no file is found.
func Default() Config {
	return Config{
		Provider: ProviderConfig{APIKeyEnv: "OPENAI_API_KEY"},
		Cache:    CacheConfig{Path: filepath.Join(ConfigDirName, "responses.db")},
		Zoom:     ZoomConfig{Min: layout.MinZoom, Max: layout.MaxZoom},
	}
}

// Load reads and validates the config at path, layered over defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if cfg.Zoom.Min <= 0 || cfg.Zoom.Max < cfg.Zoom.Min {
		return cfg, fmt.Errorf("config %s: invalid zoom clamp [%v, %v]", path, cfg.Zoom.Min, cfg.Zoom.Max)
	}
	return cfg, nil
}

// Discover finds the effective config file. Order: explicit path,
// .knowtree/config.yml walking up from cwd, then the XDG config dir.
// Returns defaults with found=false when nothing exists.
func Discover(explicit string) (Config, string, error) {
	if explicit != "" {
		cfg, err := Load(explicit)
		return cfg, explicit, err
	}

	if dir, ok := findProjectRoot(); ok {
		path := filepath.Join(dir, ConfigDirName, ConfigFileName)
		if _, err := os.Stat(path); err == nil {
			cfg, err := Load(path)
			return cfg, path, err
		}
	}

	if xdg := xdgConfigPath(); xdg != "" {
		if _, err := os.Stat(xdg); err == nil {
			cfg, err := Load(xdg)
			return cfg, xdg, err
		}
	}

	return Default(), "", nil
}

// findProjectRoot walks up from the working directory looking for a
// .knowtree/ directory, stopping at the home directory.
func findProjectRoot() (string, bool) {
	dir, err := os.Getwd()
	if err != nil {
		return "", false
	}
	home, _ := os.UserHomeDir()

	for {
		candidate := filepath.Join(dir, ConfigDirName)
		if info, err := os.Stat(candidate); err == nil && info.IsDir() {
			return dir, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		if home != "" && dir == home {
			break
		}
		dir = parent
	}
	return "", false
}

func xdgConfigPath() string {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "knowtree", ConfigFileName)
}

// ExpandHome resolves a leading ~ in user-supplied paths.
func ExpandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
