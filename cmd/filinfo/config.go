package main

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	formatText = "text"
	formatJSON = "json"
)

// Config holds defaults that command-line flags override.
type Config struct {
	Format    string `yaml:"format"`
	Precision int    `yaml:"precision"`
	LogLevel  string `yaml:"log_level"`
	DB        bool   `yaml:"db"`
}

func defaultConfig() Config {
	return Config{
		Format:    formatText,
		Precision: 6,
		LogLevel:  "warn",
	}
}

// loadConfig reads a YAML config file on top of the defaults. An empty path
// returns the defaults.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

var errBadFormat = errors.New("format must be text or json")

func (c Config) validate() error {
	if c.Format != formatText && c.Format != formatJSON {
		return fmt.Errorf("%w: %q", errBadFormat, c.Format)
	}
	if c.Precision < 0 || c.Precision > 17 {
		return fmt.Errorf("precision must be in [0,17]: %d", c.Precision)
	}
	return nil
}
