package common

import (
	"fmt"
	"io"
	"strings"
	"time"
)

// LogLevel represents different logging levels
type LogLevel int

const (
	LogLevelError LogLevel = iota
	LogLevelWarn
	LogLevelInfo
	LogLevelDebug
)

// Logger prints operator-facing console messages
type Logger struct {
	Level      LogLevel
	ShowEmojis bool
	ShowColors bool
	SilentMode bool

	out io.Writer
}

// NewLogger creates a new logger with default settings
func NewLogger(w io.Writer) *Logger {
	return &Logger{
		Level:      LogLevelInfo,
		ShowEmojis: true,
		ShowColors: true,
		SilentMode: false,
		out:        w,
	}
}

// Writer returns the logger's output, or io.Discard in silent mode
func (l *Logger) Writer() io.Writer {
	if l.SilentMode {
		return io.Discard
	}
	return l.out
}

// SetSilentMode enables or disables silent mode
func (l *Logger) SetSilentMode(silent bool) {
	l.SilentMode = silent
}

func (l *Logger) tag(emoji, plain string) string {
	if l.ShowEmojis {
		return emoji
	}
	return plain
}

// Header prints a formatted header
func (l *Logger) Header(title string) {
	if l.SilentMode {
		return
	}

	fmt.Fprintf(l.out, "\n%s %s\n", l.tag("🎯", "***"), strings.ToUpper(title))
	fmt.Fprintf(l.out, "%s\n", strings.Repeat("=", len(title)+5))
}

// Info prints an info message
func (l *Logger) Info(format string, args ...interface{}) {
	if l.SilentMode || l.Level < LogLevelInfo {
		return
	}
	fmt.Fprintf(l.out, "%s  %s\n", l.tag("ℹ️", "[INFO]"), fmt.Sprintf(format, args...))
}

// Error prints an error message
func (l *Logger) Error(format string, args ...interface{}) {
	fmt.Fprintf(l.out, "%s %s\n", l.tag("❌", "[ERROR]"), fmt.Sprintf(format, args...))
}

// Success prints a success message
func (l *Logger) Success(format string, args ...interface{}) {
	if l.SilentMode {
		return
	}
	fmt.Fprintf(l.out, "%s %s\n", l.tag("✅", "[SUCCESS]"), fmt.Sprintf(format, args...))
}

// Warn prints a warning message
func (l *Logger) Warn(format string, args ...interface{}) {
	if l.Level < LogLevelWarn {
		return
	}
	fmt.Fprintf(l.out, "%s  %s\n", l.tag("⚠️", "[WARN]"), fmt.Sprintf(format, args...))
}

// Debug prints a debug message
func (l *Logger) Debug(format string, args ...interface{}) {
	if l.Level < LogLevelDebug {
		return
	}
	fmt.Fprintf(l.out, "%s %s\n", l.tag("🔍", "[DEBUG]"), fmt.Sprintf(format, args...))
}

// FormatDuration formats a duration in a human-readable way
func FormatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	if d < time.Hour {
		return fmt.Sprintf("%.1fm", d.Minutes())
	}
	if d < 24*time.Hour {
		return fmt.Sprintf("%.1fh", d.Hours())
	}
	return fmt.Sprintf("%.1fd", d.Hours()/24)
}
