package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Emeline-1/asrel-sim/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, 1, cfg.Threads)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoad_YAMLFileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sim.yaml")
	require.NoError(t, os.WriteFile(path, []byte("threads: 4\nlog_level: debug\n"), 0o644))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.Threads)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sim.yaml")
	require.NoError(t, os.WriteFile(path, []byte("threads: 4\n"), 0o644))

	t.Setenv("SIM_THREADS", "8")
	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.Threads)
}

func TestValidate_RejectsNonPositiveThreads(t *testing.T) {
	cfg := &config.Config{Threads: 0, LogLevel: "info"}
	assert.Error(t, cfg.Validate())
}

func TestValidate_RejectsUnknownLogLevel(t *testing.T) {
	cfg := &config.Config{Threads: 1, LogLevel: "verbose"}
	assert.Error(t, cfg.Validate())
}
