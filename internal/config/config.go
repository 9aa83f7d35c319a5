// Package config holds codemailx configuration: the backend endpoint, the
// bearer token, UI preferences and logging controls. Config lives in
// <state-dir>/config.yaml with environment variable overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// ConfigFileName is the config file name inside the state directory.
const ConfigFileName = "config.yaml"

// DefaultStateDirName is the per-user state directory under $HOME.
const DefaultStateDirName = ".codemailx"

// Config holds all codemailx configuration.
type Config struct {
	// API configures the backend gateway.
	API APIConfig `yaml:"api"`

	// UI preferences.
	UI UIConfig `yaml:"ui"`

	// Logging controls the category file logger.
	Logging LoggingConfig `yaml:"logging"`
}

// APIConfig configures the backend REST gateway.
type APIConfig struct {
	BaseURL string `yaml:"base_url"`
	Token   string `yaml:"token"`
	Timeout string `yaml:"timeout"`
}

// UIConfig configures the terminal UI.
type UIConfig struct {
	DarkMode bool `yaml:"dark_mode"`
	// NoticeTTL controls how long transient notices stay on screen.
	NoticeTTL string `yaml:"notice_ttl"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	DebugMode  bool            `yaml:"debug_mode"`
	Level      string          `yaml:"level"` // debug, info, warn, error
	Categories map[string]bool `yaml:"categories,omitempty"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL: "http://localhost:5000/api",
			Timeout: "30s",
		},
		UI: UIConfig{
			DarkMode:  true,
			NoticeTTL: "4s",
		},
		Logging: LoggingConfig{
			DebugMode: false,
			Level:     "info",
		},
	}
}

// DefaultStateDir returns the per-user state directory, creating nothing.
func DefaultStateDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return DefaultStateDirName
	}
	return filepath.Join(home, DefaultStateDirName)
}

// Load loads configuration from <stateDir>/config.yaml, falling back to
// defaults when the file does not exist, then applies env overrides.
func Load(stateDir string) (*Config, error) {
	cfg := DefaultConfig()

	path := filepath.Join(stateDir, ConfigFileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()

	return cfg, nil
}

// Save saves configuration to <stateDir>/config.yaml.
func (c *Config) Save(stateDir string) error {
	if err := os.MkdirAll(stateDir, 0755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	path := filepath.Join(stateDir, ConfigFileName)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if url := os.Getenv("CODEMAILX_BASE_URL"); url != "" {
		c.API.BaseURL = url
	}
	if token := os.Getenv("CODEMAILX_TOKEN"); token != "" {
		c.API.Token = token
	}
	if timeout := os.Getenv("CODEMAILX_TIMEOUT"); timeout != "" {
		c.API.Timeout = timeout
	}
	if mode := os.Getenv("CODEMAILX_DARK_MODE"); mode != "" {
		c.UI.DarkMode = mode == "1" || mode == "true"
	}
	if debug := os.Getenv("CODEMAILX_DEBUG"); debug != "" {
		c.Logging.DebugMode = debug == "1" || debug == "true"
	}
}

// RequestTimeout returns the gateway timeout as a duration.
func (c *Config) RequestTimeout() time.Duration {
	d, err := time.ParseDuration(c.API.Timeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// NoticeTTL returns the transient notice lifetime as a duration.
func (c *Config) NoticeTTL() time.Duration {
	d, err := time.ParseDuration(c.UI.NoticeTTL)
	if err != nil {
		return 4 * time.Second
	}
	return d
}
