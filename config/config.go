// Package config loads the toolkit's YAML configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/wippyai/intcode/errors"
	"github.com/wippyai/intcode/vm"
)

// DefaultPath is the configuration file read when none is given.
const DefaultPath = "intcode.yaml"

// Config is the toolkit configuration.
type Config struct {
	Inputs   string  `yaml:"inputs"`   // directory holding <year>/dayDD.txt
	Database string  `yaml:"database"` // answer history, "" disables it
	Logging  Logging `yaml:"logging"`
	VM       VM      `yaml:"vm"`
	Parallel int     `yaml:"parallel"` // concurrent puzzle parts
}

// VM configures every machine the toolkit creates.
type VM struct {
	MemoryLimit int `yaml:"memory_limit"`
}

// Options returns the machine options for c.
func (c VM) Options() []vm.Option {
	return []vm.Option{vm.WithMemoryLimit(c.MemoryLimit)}
}

// Logging configures the zap logger.
type Logging struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // console, json
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Inputs:   "inputs",
		Database: "answers.db",
		Parallel: 4,
		VM: VM{
			MemoryLimit: vm.DefaultMemoryLimit,
		},
		Logging: Logging{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load reads path over the defaults. A missing file yields the defaults.
// Environment overrides are applied last.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return nil, errors.Wrap(errors.PhaseConfig, errors.KindInvalidInput, err, "read "+path)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errors.Wrap(errors.PhaseConfig, errors.KindParsing, err, "parse "+path)
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnvOverrides() error {
	if v := os.Getenv("INTCODE_INPUTS"); v != "" {
		c.Inputs = v
	}
	if v, ok := os.LookupEnv("INTCODE_DB"); ok {
		c.Database = v
	}
	if v := os.Getenv("INTCODE_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("INTCODE_PARALLEL"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return errors.Wrap(errors.PhaseConfig, errors.KindInvalidInput, err, "INTCODE_PARALLEL")
		}
		c.Parallel = n
	}
	return nil
}

// Validate checks ranges and enumerations.
func (c *Config) Validate() error {
	if c.Parallel < 1 {
		return errors.InvalidInput(errors.PhaseConfig, fmt.Sprintf("parallel must be at least 1, got %d", c.Parallel))
	}
	if c.VM.MemoryLimit < 1 {
		return errors.InvalidInput(errors.PhaseConfig, fmt.Sprintf("vm.memory_limit must be at least 1, got %d", c.VM.MemoryLimit))
	}
	if c.Inputs == "" {
		return errors.InvalidInput(errors.PhaseConfig, "inputs directory is empty")
	}
	return c.Logging.Validate()
}

// Save writes c to path as YAML.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(errors.PhaseConfig, errors.KindInvalidInput, err, "create config directory")
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return errors.Wrap(errors.PhaseConfig, errors.KindInvalidInput, err, "marshal config")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(errors.PhaseConfig, errors.KindInvalidInput, err, "write "+path)
	}
	return nil
}

// Validate checks the level and format names.
func (l Logging) Validate() error {
	if _, err := zapcore.ParseLevel(l.Level); err != nil {
		return errors.InvalidInput(errors.PhaseConfig, fmt.Sprintf("unknown log level %q", l.Level))
	}
	switch l.Format {
	case "console", "json":
		return nil
	default:
		return errors.InvalidInput(errors.PhaseConfig, fmt.Sprintf("unknown log format %q", l.Format))
	}
}

// Build creates a logger writing to stderr.
func (l Logging) Build() (*zap.Logger, error) {
	if err := l.Validate(); err != nil {
		return nil, err
	}
	level, _ := zap.ParseAtomicLevel(l.Level)

	cfg := zap.NewProductionConfig()
	cfg.Level = level
	cfg.Encoding = l.Format
	cfg.DisableStacktrace = true
	if l.Format == "console" {
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}
	return cfg.Build()
}
