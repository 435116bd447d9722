// Package config loads loom configuration from ~/.loom/config.yaml with
// environment overrides. Missing files fall back to defaults; a broken file
// is an error the CLI reports rather than papering over.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds all loom configuration.
type Config struct {
	LLM     LLMConfig     `yaml:"llm"`
	UI      UIConfig      `yaml:"ui"`
	History HistoryConfig `yaml:"history"`
	Logging LoggingConfig `yaml:"logging"`
}

// LLMConfig configures the agent backend.
type LLMConfig struct {
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"`
	Timeout string `yaml:"timeout"`
}

// UIConfig configures the chat interface.
type UIConfig struct {
	Theme         string `yaml:"theme"`          // glamour style: dark, light, notty
	MouseEnabled  bool   `yaml:"mouse_enabled"`
	SurfaceWidth  int    `yaml:"surface_width"`  // max columns for rendered surfaces
	ShowTimestamp bool   `yaml:"show_timestamp"`
}

// HistoryConfig configures transcript persistence.
type HistoryConfig struct {
	Enabled      bool   `yaml:"enabled"`
	DatabasePath string `yaml:"database_path"`
}

// LoggingConfig configures the categorized debug logger.
type LoggingConfig struct {
	DebugMode  bool            `yaml:"debug_mode"`
	Level      string          `yaml:"level"` // debug, info, warn, error
	Categories map[string]bool `yaml:"categories"`
}

// Dir returns the loom state directory (~/.loom), creating nothing.
func Dir() string {
	if dir := os.Getenv("LOOM_HOME"); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".loom"
	}
	return filepath.Join(home, ".loom")
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	return filepath.Join(Dir(), "config.yaml")
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() *Config {
	return &Config{
		LLM: LLMConfig{
			Model:   "gemini-2.0-flash",
			Timeout: "120s",
		},
		UI: UIConfig{
			Theme:        "dark",
			MouseEnabled: true,
			SurfaceWidth: 72,
		},
		History: HistoryConfig{
			Enabled:      true,
			DatabasePath: filepath.Join(Dir(), "history.db"),
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads the config at path, layering file values over defaults and
// environment overrides over both. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// Defaults only.
	case err != nil:
		return nil, fmt.Errorf("read config %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	applyEnvOverrides(cfg)
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		cfg.LLM.APIKey = key
	}
	if key := os.Getenv("LOOM_API_KEY"); key != "" {
		cfg.LLM.APIKey = key
	}
	if model := os.Getenv("LOOM_MODEL"); model != "" {
		cfg.LLM.Model = model
	}
	if path := os.Getenv("LOOM_DB"); path != "" {
		cfg.History.DatabasePath = path
	}
	if os.Getenv("LOOM_DEBUG") == "1" {
		cfg.Logging.DebugMode = true
		cfg.Logging.Level = "debug"
	}
}

// Save writes cfg to path, creating the directory if needed.
func Save(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config %s: %w", path, err)
	}
	return nil
}
