package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds settings for the schedcheck CLI.
type Config struct {
	DBPath       string    `yaml:"db_path"`       // SQLite database path (":memory:" for testing)
	LogLevel     string    `yaml:"log_level"`     // debug, info, warn, error
	LogFormat    string    `yaml:"log_format"`    // text, json
	SamplingRate float64   `yaml:"sampling_rate"` // load scan step as a fraction of the hyper-period
	Speeds       []float64 `yaml:"speeds"`        // default platform core speeds
}

// Default returns sensible defaults.
func Default() Config {
	return Config{
		DBPath:       "schedcheck.db",
		LogLevel:     "info",
		LogFormat:    "text",
		SamplingRate: 1e-5,
		Speeds:       []float64{1.0, 1.0},
	}
}

// Load reads a YAML config file over the defaults. An empty path returns
// the defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}
