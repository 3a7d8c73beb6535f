package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/wippyai/intcode/errors"
	"github.com/wippyai/intcode/vm"
)

func clearEnv(t *testing.T) {
	for _, k := range []string{"INTCODE_INPUTS", "INTCODE_DB", "INTCODE_LOG_LEVEL", "INTCODE_PARALLEL"} {
		if v, ok := os.LookupEnv(k); ok {
			os.Unsetenv(k)
			t.Cleanup(func() { os.Setenv(k, v) })
		}
	}
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_File(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "intcode.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
inputs: puzzle-inputs
parallel: 2
vm:
  memory_limit: 4096
logging:
  level: debug
  format: json
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "puzzle-inputs", cfg.Inputs)
	assert.Equal(t, "answers.db", cfg.Database, "unset keys keep defaults")
	assert.Equal(t, 2, cfg.Parallel)
	assert.Equal(t, 4096, cfg.VM.MemoryLimit)
	assert.Equal(t, Logging{Level: "debug", Format: "json"}, cfg.Logging)
}

func TestLoad_BadYAML(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("parallel: [1, 2"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.KindParsing))
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("INTCODE_INPUTS", "/data/aoc")
	t.Setenv("INTCODE_DB", "")
	t.Setenv("INTCODE_LOG_LEVEL", "warn")
	t.Setenv("INTCODE_PARALLEL", "8")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "/data/aoc", cfg.Inputs)
	assert.Equal(t, "", cfg.Database)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, 8, cfg.Parallel)
}

func TestLoad_BadParallelEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("INTCODE_PARALLEL", "many")
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.True(t, errors.IsKind(err, errors.KindInvalidInput))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"parallel", func(c *Config) { c.Parallel = 0 }},
		{"memory limit", func(c *Config) { c.VM.MemoryLimit = 0 }},
		{"inputs", func(c *Config) { c.Inputs = "" }},
		{"level", func(c *Config) { c.Logging.Level = "loud" }},
		{"format", func(c *Config) { c.Logging.Format = "xml" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.True(t, errors.IsKind(err, errors.KindInvalidInput))
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "sub", "intcode.yaml")
	cfg := Default()
	cfg.Parallel = 3
	cfg.Logging.Format = "json"
	require.NoError(t, cfg.Save(path))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestLogging_Build(t *testing.T) {
	for _, format := range []string{"console", "json"} {
		l, err := Logging{Level: "debug", Format: format}.Build()
		require.NoError(t, err)
		assert.True(t, l.Core().Enabled(zapcore.DebugLevel), "debug should be enabled")
	}

	_, err := Logging{Level: "info", Format: "xml"}.Build()
	assert.Error(t, err)
}

func TestVM_Options(t *testing.T) {
	m := vm.New([]int64{99}, VM{MemoryLimit: 16}.Options()...)
	assert.Equal(t, 16, m.Memory().Limit())
}
