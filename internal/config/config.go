package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Environment variable names
const (
	EnvEvaluator   = "SWEEP_EVALUATOR"
	EnvSubcommand  = "SWEEP_SUBCOMMAND"
	EnvTimeout     = "SWEEP_TIMEOUT"
	EnvCacheDir    = "SWEEP_CACHE_DIR"
	EnvLogLevel    = "SWEEP_LOG_LEVEL"
	EnvLogDir      = "SWEEP_LOG_DIR"
	EnvMetricsAddr = "SWEEP_METRICS_ADDR"
)

type Config struct {
	LogLevel string
	LogDir   string

	Evaluator struct {
		Path       string
		Subcommand string
		Timeout    time.Duration
		CacheDir   string
	}

	Monitoring struct {
		// Empty disables the metrics server
		Addr string
	}
}

// LoadEnvFile loads variables from path into the process environment.
// A missing file is not an error; variables already set are kept.
func LoadEnvFile(path string) (bool, error) {
	if path == "" {
		path = ".env"
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return false, nil
	}
	if err := godotenv.Load(path); err != nil {
		return false, fmt.Errorf("failed to load environment file %s: %w", path, err)
	}
	return true, nil
}

// Load reads the sweep configuration from the environment
func Load() (*Config, error) {
	timeout, err := getEnvDuration(EnvTimeout, 120*time.Second)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		LogLevel: getEnv(EnvLogLevel, "info"),
		LogDir:   getEnv(EnvLogDir, "logs"),
	}
	cfg.Evaluator.Path = getEnv(EnvEvaluator, "./target/release/pipeline")
	cfg.Evaluator.Subcommand = getEnv(EnvSubcommand, "replay-realtime")
	cfg.Evaluator.Timeout = timeout
	cfg.Evaluator.CacheDir = getEnv(EnvCacheDir, "cache_2025")
	cfg.Monitoring.Addr = getEnv(EnvMetricsAddr, "")

	return cfg, cfg.Validate()
}

// Validate checks value ranges
func (c *Config) Validate() error {
	if c.Evaluator.Timeout <= 0 {
		return fmt.Errorf("%s must be positive, got %s", EnvTimeout, c.Evaluator.Timeout)
	}
	if strings.TrimSpace(c.Evaluator.Path) == "" {
		return fmt.Errorf("%s must not be empty", EnvEvaluator)
	}
	return nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

// getEnvDuration accepts Go durations ("90s", "2m") or bare seconds ("120")
func getEnvDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" {
		return defaultVal, nil
	}
	if secs, err := strconv.Atoi(val); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, val, err)
	}
	return d, nil
}
