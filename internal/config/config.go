// Package config loads polyops settings from YAML with environment
// overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// Config is the root configuration.
type Config struct {
	LogLevel    string       `yaml:"log_level"`
	EvalTimeout string       `yaml:"eval_timeout"`
	Server      ServerConfig `yaml:"server"`
	Output      OutputConfig `yaml:"output"`
}

// ServerConfig configures the HTTP evaluation service.
type ServerConfig struct {
	Addr        string `yaml:"addr"`
	MaxBodySize int64  `yaml:"max_body_size"`
}

// OutputConfig configures mesh export.
type OutputConfig struct {
	Dir   string  `yaml:"dir"`
	Scale float64 `yaml:"scale"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		LogLevel:    "info",
		EvalTimeout: "5s",
		Server: ServerConfig{
			Addr:        ":8080",
			MaxBodySize: 1 << 20,
		},
		Output: OutputConfig{
			Dir:   ".",
			Scale: 1,
		},
	}
}

// Load loads configuration from a YAML file. An empty path or a missing
// file yields the defaults. Environment overrides are applied last.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
		case err != nil:
			return nil, fmt.Errorf("failed to read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		}
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration to a YAML file.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("POLYOPS_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("POLYOPS_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("POLYOPS_EVAL_TIMEOUT"); v != "" {
		c.EvalTimeout = v
	}
}

// Validate checks that every field is usable.
func (c *Config) Validate() error {
	if _, err := c.Level(); err != nil {
		return err
	}
	d, err := time.ParseDuration(c.EvalTimeout)
	if err != nil {
		return fmt.Errorf("invalid eval_timeout %q: %w", c.EvalTimeout, err)
	}
	if d <= 0 {
		return fmt.Errorf("eval_timeout must be positive, got %s", d)
	}
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr must not be empty")
	}
	if c.Server.MaxBodySize <= 0 {
		return fmt.Errorf("server.max_body_size must be positive, got %d", c.Server.MaxBodySize)
	}
	if c.Output.Scale <= 0 {
		return fmt.Errorf("output.scale must be positive, got %v", c.Output.Scale)
	}
	return nil
}

// Level parses LogLevel.
func (c *Config) Level() (zapcore.Level, error) {
	lvl, err := zapcore.ParseLevel(c.LogLevel)
	if err != nil {
		return lvl, fmt.Errorf("invalid log_level %q: %w", c.LogLevel, err)
	}
	return lvl, nil
}

// GetEvalTimeout returns the evaluation timeout, falling back to 5s when
// the configured value does not parse.
func (c *Config) GetEvalTimeout() time.Duration {
	d, err := time.ParseDuration(c.EvalTimeout)
	if err != nil || d <= 0 {
		return 5 * time.Second
	}
	return d
}
