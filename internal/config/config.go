// Package config loads KScope profiling configuration from YAML.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config controls how kernels are profiled.
type Config struct {
	// Backend selects the compute backend: "cpu" or "webgpu".
	Backend string `yaml:"backend"`

	// LogLevel is the logrus level for diagnostic logging.
	LogLevel string `yaml:"log_level"`

	// CheckNumerics enables NaN/Inf validation of kernel outputs.
	CheckNumerics bool `yaml:"check_numerics"`

	// Output is the file path for profile lines; empty means stderr.
	Output string `yaml:"output"`
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		Backend:       "cpu",
		LogLevel:      "info",
		CheckNumerics: true,
		Output:        "",
	}
}

// Load reads a YAML config file, filling unset fields with defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks the configuration for unsupported values.
func (c Config) Validate() error {
	switch c.Backend {
	case "cpu", "webgpu":
	default:
		return fmt.Errorf("unknown backend %q (want cpu or webgpu)", c.Backend)
	}
	return nil
}
