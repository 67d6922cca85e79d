package widget

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the widget client's file configuration.
type Config struct {
	// ServerURL is the board server's tool endpoint.
	ServerURL string `yaml:"serverUrl"`
	// LogFile receives client logs; the terminal belongs to the TUI.
	LogFile string `yaml:"logFile"`
	// MaxHostChecks bounds the host readiness wait.
	MaxHostChecks int `yaml:"maxHostChecks"`
	// CheckDelayMs is the fixed delay between readiness checks.
	CheckDelayMs int `yaml:"checkDelayMs"`
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() Config {
	return Config{
		ServerURL:     "http://127.0.0.1:3333/mcp",
		MaxHostChecks: DefaultMaxHostChecks,
		CheckDelayMs:  int(DefaultHostCheckDelay.Milliseconds()),
	}
}

// LoadConfig reads a yaml config file, filling unset fields with defaults.
// A missing file is not an error; a malformed one is.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}

	if cfg.ServerURL == "" {
		cfg.ServerURL = DefaultConfig().ServerURL
	}
	if cfg.MaxHostChecks <= 0 {
		cfg.MaxHostChecks = DefaultMaxHostChecks
	}
	if cfg.CheckDelayMs <= 0 {
		cfg.CheckDelayMs = int(DefaultHostCheckDelay.Milliseconds())
	}
	return cfg, nil
}
