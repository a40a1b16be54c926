// SPDX-License-Identifier: MPL-2.0

// Package config loads application configuration for the composer: the
// default output root, backup policy, extra bundle search paths, and UI
// preferences. Configuration lives in a CUE file validated against an
// embedded schema, merged over defaults through Viper, with environment
// overrides under the STACKPACK_ prefix.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/viper"

	"stackpack/pkg/cueutil"
)

const (
	// AppName is the application name, used for directory conventions.
	AppName = "stackpack"
	// ConfigFileName is the config file name without extension.
	ConfigFileName = "config"
	// ConfigFileExt is the config file extension.
	ConfigFileExt = "cue"
)

//go:embed config_schema.cue
var configSchema string

type (
	// Config is the effective application configuration.
	Config struct {
		// OutputRoot is the default composition target when --output is not
		// given.
		OutputRoot string `mapstructure:"output_root"`
		// SearchPaths are extra directories scanned for bundles, after the
		// built-in search order.
		SearchPaths []string `mapstructure:"search_paths"`
		// Backup controls pre-write snapshots.
		Backup BackupConfig `mapstructure:"backup"`
		// Gitignore maintains the output root's .gitignore entries.
		Gitignore bool `mapstructure:"gitignore"`
		// UI holds presentation preferences.
		UI UIConfig `mapstructure:"ui"`
	}

	// BackupConfig controls the pre-write snapshot policy.
	BackupConfig struct {
		Enabled bool   `mapstructure:"enabled"`
		Dir     string `mapstructure:"dir"`
	}

	// UIConfig holds presentation preferences.
	UIConfig struct {
		ColorScheme string `mapstructure:"color_scheme"`
		Verbose     bool   `mapstructure:"verbose"`
	}
)

// DefaultConfig returns the built-in defaults: compose into the working
// directory, snapshots on, gitignore maintenance on.
func DefaultConfig() *Config {
	return &Config{
		OutputRoot: ".",
		Backup:     BackupConfig{Enabled: true},
		Gitignore:  true,
		UI:         UIConfig{ColorScheme: "auto"},
	}
}

var (
	configDirOverride  string
	configFileOverride string
)

// Reset clears test overrides.
func Reset() {
	configDirOverride = ""
	configFileOverride = ""
}

// SetConfigDirOverride points config loading at a custom directory. Intended
// for tests, which cannot rely on os.UserHomeDir honoring HOME everywhere.
func SetConfigDirOverride(dir string) {
	configDirOverride = dir
}

// SetConfigFilePathOverride points config loading at one specific file,
// as with a --config flag.
func SetConfigFilePathOverride(path string) {
	configFileOverride = path
}

// ConfigDir returns the configuration directory using platform conventions:
// %APPDATA% on Windows, ~/Library/Application Support on macOS, and
// $XDG_CONFIG_HOME (default ~/.config) elsewhere.
func ConfigDir() (string, error) {
	if configDirOverride != "" {
		return configDirOverride, nil
	}

	var configDir string
	switch runtime.GOOS {
	case "windows":
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("config: resolve home directory: %w", err)
		}
		configDir = filepath.Join(home, "Library", "Application Support")
	default:
		configDir = os.Getenv("XDG_CONFIG_HOME")
		if configDir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("config: resolve home directory: %w", err)
			}
			configDir = filepath.Join(home, ".config")
		}
	}
	return filepath.Join(configDir, AppName), nil
}

// Load builds the effective configuration: defaults, then the config file
// when one exists, then STACKPACK_-prefixed environment variables.
func Load() (*Config, error) {
	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("output_root", defaults.OutputRoot)
	v.SetDefault("search_paths", defaults.SearchPaths)
	v.SetDefault("backup.enabled", defaults.Backup.Enabled)
	v.SetDefault("backup.dir", defaults.Backup.Dir)
	v.SetDefault("gitignore", defaults.Gitignore)
	v.SetDefault("ui.color_scheme", defaults.UI.ColorScheme)
	v.SetDefault("ui.verbose", defaults.UI.Verbose)

	v.SetEnvPrefix(strings.ToUpper(AppName))
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	path, err := resolveConfigPath()
	if err != nil {
		return nil, err
	}
	if path != "" {
		if err := loadCUEIntoViper(v, path); err != nil {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}
	return &cfg, nil
}

// resolveConfigPath finds the config file: the explicit override when set
// (missing file is then an error), otherwise the config directory, otherwise
// the working directory. No file at all is fine.
func resolveConfigPath() (string, error) {
	if configFileOverride != "" {
		if !fileExists(configFileOverride) {
			return "", fmt.Errorf("config: file not found: %s", configFileOverride)
		}
		return configFileOverride, nil
	}

	cfgDir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	candidate := filepath.Join(cfgDir, ConfigFileName+"."+ConfigFileExt)
	if fileExists(candidate) {
		return candidate, nil
	}
	local := ConfigFileName + "." + ConfigFileExt
	if fileExists(local) {
		return local, nil
	}
	return "", nil
}

// loadCUEIntoViper validates the CUE config file against the #Config schema
// and merges the decoded map into Viper. Decoding to a map rather than the
// Config struct keeps Viper in charge of precedence between file values,
// defaults, and environment variables.
func loadCUEIntoViper(v *viper.Viper, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: read %s: %w", path, err)
	}

	configMap, err := cueutil.Decode[map[string]any](configSchema, data, "#Config", path)
	if err != nil {
		return err
	}
	if err := v.MergeConfigMap(*configMap); err != nil {
		return fmt.Errorf("config: merge %s: %w", path, err)
	}
	return nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
