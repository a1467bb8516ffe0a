package config

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Default bounds applied when neither flags nor config files say otherwise.
const (
	DefaultConcurrency  = 4
	DefaultCloneTimeout = 5 * time.Minute
)

// FileConfig is the on-disk YAML configuration shape for secretsweep.
type FileConfig struct {
	Concurrency  *int    `yaml:"concurrency"`
	CloneTimeout *string `yaml:"clone_timeout"`
	Include      *string `yaml:"include"`
	Exclude      *string `yaml:"exclude"`
	NoColor      *bool   `yaml:"no_color"`
	NoCache      *bool   `yaml:"no_cache"`
	WorkDir      *string `yaml:"work_dir"`

	// Per-detector tool configuration
	Trufflehog *ToolConfig `yaml:"trufflehog"`
	Gitleaks   *ToolConfig `yaml:"gitleaks"`
}

// ToolConfig holds configuration for one external detector binary.
type ToolConfig struct {
	// BinaryPath is an explicit path to the detector binary.
	// If empty, the binary is searched in $PATH.
	BinaryPath *string `yaml:"binary"`

	// Timeout bounds a single invocation, e.g. "10m". Zero means the
	// built-in per-tool default.
	Timeout *string `yaml:"timeout"`

	// MinVersion, when set, is enforced during preflight (semver, tolerant).
	MinVersion *string `yaml:"min_version"`

	// ConfigPath is an optional tool-native config file (gitleaks .toml).
	ConfigPath *string `yaml:"config"`
}

// LoadFile reads a YAML config file from the provided path.
func LoadFile(path string) (FileConfig, error) {
	var cfg FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// LoadLocal searches for a config file in the current working directory.
// It supports .secretsweep.yml/.yaml and secretsweep.yml/.yaml.
func LoadLocal(dir string) (FileConfig, error) {
	var cfg FileConfig
	for _, name := range []string{".secretsweep.yml", ".secretsweep.yaml", "secretsweep.yml", "secretsweep.yaml"} {
		p := filepath.Join(dir, name)
		if _, err := os.Stat(p); err == nil {
			return LoadFile(p)
		}
	}
	return cfg, errors.New("no local config")
}

// LoadGlobal loads the global config file from XDG base directory or ~/.config.
func LoadGlobal() (FileConfig, error) {
	var cfg FileConfig
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, _ := os.UserHomeDir()
		if home != "" {
			base = filepath.Join(home, ".config")
		}
	}
	if base == "" {
		return cfg, errors.New("no config dir")
	}
	p := filepath.Join(base, "secretsweep", "config.yml")
	if _, err := os.Stat(p); err == nil {
		return LoadFile(p)
	}
	return cfg, errors.New("no global config")
}

// GetTrufflehog returns the trufflehog tool config, never nil-dereferencing.
func (fc FileConfig) GetTrufflehog() ToolConfig {
	if fc.Trufflehog == nil {
		return ToolConfig{}
	}
	return *fc.Trufflehog
}

// GetGitleaks returns the gitleaks tool config, never nil-dereferencing.
func (fc FileConfig) GetGitleaks() ToolConfig {
	if fc.Gitleaks == nil {
		return ToolConfig{}
	}
	return *fc.Gitleaks
}

// GetBinaryPath returns the custom binary path or empty string.
func (tc ToolConfig) GetBinaryPath() string {
	if tc.BinaryPath == nil {
		return ""
	}
	return *tc.BinaryPath
}

// GetConfigPath returns the tool-native config file path or empty string.
func (tc ToolConfig) GetConfigPath() string {
	if tc.ConfigPath == nil {
		return ""
	}
	return *tc.ConfigPath
}

// GetMinVersion returns the pinned minimum version or empty string.
func (tc ToolConfig) GetMinVersion() string {
	if tc.MinVersion == nil {
		return ""
	}
	return *tc.MinVersion
}

// GetTimeout parses the configured timeout, falling back to def on absence or
// parse failure.
func (tc ToolConfig) GetTimeout(def time.Duration) time.Duration {
	if tc.Timeout == nil {
		return def
	}
	d, err := time.ParseDuration(*tc.Timeout)
	if err != nil || d <= 0 {
		return def
	}
	return d
}
