package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{EnvEvaluator, EnvSubcommand, EnvTimeout, EnvCacheDir, EnvLogLevel, EnvLogDir, EnvMetricsAddr} {
		t.Setenv(k, "")
	}
}

// TestLoad_Defaults tests the values used with an empty environment
func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "./target/release/pipeline", cfg.Evaluator.Path)
	assert.Equal(t, "replay-realtime", cfg.Evaluator.Subcommand)
	assert.Equal(t, 120*time.Second, cfg.Evaluator.Timeout)
	assert.Equal(t, "cache_2025", cfg.Evaluator.CacheDir)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "logs", cfg.LogDir)
	assert.Empty(t, cfg.Monitoring.Addr)
}

// TestLoad_Overrides tests environment overrides and duration forms
func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvEvaluator, "/opt/pipeline")
	t.Setenv(EnvTimeout, "90")
	t.Setenv(EnvMetricsAddr, ":9102")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "/opt/pipeline", cfg.Evaluator.Path)
	assert.Equal(t, 90*time.Second, cfg.Evaluator.Timeout)
	assert.Equal(t, ":9102", cfg.Monitoring.Addr)

	t.Setenv(EnvTimeout, "3m")
	cfg, err = Load()
	require.NoError(t, err)
	assert.Equal(t, 3*time.Minute, cfg.Evaluator.Timeout)
}

// TestLoad_InvalidTimeout tests rejected timeouts
func TestLoad_InvalidTimeout(t *testing.T) {
	clearEnv(t)

	t.Setenv(EnvTimeout, "soon")
	_, err := Load()
	assert.Error(t, err)

	t.Setenv(EnvTimeout, "-5")
	_, err = Load()
	assert.Error(t, err)
}

// TestLoadEnvFile tests .env loading through godotenv
func TestLoadEnvFile(t *testing.T) {
	clearEnv(t)
	os.Unsetenv(EnvCacheDir)
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("SWEEP_CACHE_DIR=cache_2024\n"), 0644))

	loaded, err := LoadEnvFile(path)
	require.NoError(t, err)
	assert.True(t, loaded)
	t.Cleanup(func() { os.Unsetenv(EnvCacheDir) })

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "cache_2024", cfg.Evaluator.CacheDir)

	loaded, err = LoadEnvFile(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.False(t, loaded)
}
