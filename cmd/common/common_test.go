package common

import (
	"bytes"
	"flag"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestFlagValidator tests accumulated validation errors
func TestFlagValidator(t *testing.T) {
	file := filepath.Join(t.TempDir(), "results.csv")
	require.NoError(t, os.WriteFile(file, []byte("a\n"), 0644))

	v := NewFlagValidator().
		ValidateInt("top", 20, 1, 1000).
		ValidateFloat("robust-min-pf", 1.5, 0, 100).
		ValidateChoice("mode", "quick", []string{"full", "quick", "targeted"}).
		ValidateFile("input", file, true)
	assert.False(t, v.HasErrors())
	assert.NoError(t, v.GetError())

	v.ValidateInt("resume", -1, 0, 1000).
		ValidateChoice("mode", "fast", []string{"full", "quick"}).
		ValidateFile("input", "", true).
		ValidateFile("grid", filepath.Join(t.TempDir(), "missing.json"), false)
	assert.Len(t, v.GetErrors(), 4)
	assert.Contains(t, v.GetError().Error(), "mode must be one of [full, quick], got: fast")

	var buf bytes.Buffer
	v.PrintErrors(&buf)
	assert.Contains(t, buf.String(), "input is required")
}

// TestCommonFlags tests flag registration on a private flag set
func TestCommonFlags(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	cf := RegisterCommonFlags(fs)
	require.NoError(t, fs.Parse([]string{"-verbose", "-no-emojis", "-env", "custom.env"}))

	assert.Equal(t, "custom.env", *cf.EnvFile)

	var buf bytes.Buffer
	logger := SetupLogger(&buf, cf)
	assert.Equal(t, LogLevelDebug, logger.Level)

	logger.Debug("row %d", 3)
	logger.Warn("careful")
	assert.Equal(t, "[DEBUG] row 3\n[WARN]  careful\n", buf.String())
}

// TestCheckHelpAndVersion tests the early-exit flags
func TestCheckHelpAndVersion(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	cf := RegisterCommonFlags(fs)
	formatter := NewUsageFormatter("sweep-analyzer", "Analyze sweep results").
		AddExample("sweep-analyzer results.csv", "Default analysis")

	var buf bytes.Buffer
	assert.False(t, CheckHelpAndVersion(&buf, fs, cf, formatter))

	require.NoError(t, fs.Parse([]string{"-help"}))
	assert.True(t, CheckHelpAndVersion(&buf, fs, cf, formatter))
	assert.Contains(t, buf.String(), "EXAMPLES:")
	assert.Contains(t, buf.String(), "-no-colors")

	buf.Reset()
	*cf.Version = true
	assert.True(t, CheckHelpAndVersion(&buf, fs, cf, formatter))
	assert.Contains(t, buf.String(), "sweep-analyzer v"+ProjectVersion)
}

// TestLogger_Silent tests that silent mode only lets errors through
func TestLogger_Silent(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&buf)
	l.SetSilentMode(true)

	l.Info("hidden")
	l.Success("hidden")
	l.Header("hidden")
	l.Error("shown")
	assert.Equal(t, "❌ shown\n", buf.String())
	assert.Equal(t, io.Discard, l.Writer())
}

// TestFormatDuration tests human readable durations
func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "45.0s", FormatDuration(45*time.Second))
	assert.Equal(t, "2.5m", FormatDuration(150*time.Second))
	assert.Equal(t, "1.5h", FormatDuration(90*time.Minute))
	assert.Equal(t, "2.0d", FormatDuration(48*time.Hour))
}
