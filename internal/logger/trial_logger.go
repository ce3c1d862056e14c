package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/ducminhle1904/lvn-sweep/pkg/types"
)

// TrialLogger records one structured event per sweep trial to a file
type TrialLogger struct {
	file   *os.File
	logger zerolog.Logger
	path   string
	mu     sync.Mutex
}

// SessionInfo describes the sweep a log session belongs to
type SessionInfo struct {
	RunID      string
	Output     string
	Mode       string
	Total      int
	Resume     int
	Executable string
	Timeout    time.Duration
}

// TrialEvent is the log record of one attempted trial
type TrialEvent struct {
	Index      int
	Total      int
	Status     string
	Duration   time.Duration
	ParamNames []string
	Params     types.ParameterSet
	Metrics    *types.MetricsRecord
	Err        error
}

// DefaultLogPath returns logs/sweep_<date>.log under dir
func DefaultLogPath(dir string) string {
	if dir == "" {
		dir = "logs"
	}
	return filepath.Join(dir, fmt.Sprintf("sweep_%s.log", time.Now().Format("2006-01-02")))
}

// NewTrialLogger opens path for appending, creating parent directories
func NewTrialLogger(path, runID string) (*TrialLogger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	l := newTrialLogger(file, runID)
	l.file = file
	l.path = path
	return l, nil
}

// NewTrialLoggerWriter creates a trial logger on an arbitrary writer
func NewTrialLoggerWriter(w io.Writer, runID string) *TrialLogger {
	return newTrialLogger(w, runID)
}

func newTrialLogger(w io.Writer, runID string) *TrialLogger {
	zl := zerolog.New(w).With().Timestamp().Str("run_id", runID).Logger()
	return &TrialLogger{logger: zl}
}

// SessionStart writes the session header event
func (l *TrialLogger) SessionStart(info SessionInfo) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.logger.Info().
		Str("event", "session_start").
		Str("output", info.Output).
		Str("mode", info.Mode).
		Int("total", info.Total).
		Int("resume", info.Resume).
		Str("executable", info.Executable).
		Dur("timeout", info.Timeout).
		Msg("sweep session started")
}

// Trial writes one trial event
func (l *TrialLogger) Trial(ev TrialEvent) {
	l.mu.Lock()
	defer l.mu.Unlock()

	var e *zerolog.Event
	if ev.Err != nil {
		e = l.logger.Warn().Err(ev.Err)
	} else {
		e = l.logger.Info()
	}

	params := zerolog.Dict()
	for _, name := range ev.ParamNames {
		if v, ok := ev.Params[name]; ok {
			params = params.Str(name, v.String())
		}
	}

	e = e.Str("event", "trial").
		Int("index", ev.Index).
		Int("total", ev.Total).
		Str("status", ev.Status).
		Int64("duration_ms", ev.Duration.Milliseconds()).
		Dict("params", params)

	if ev.Metrics != nil {
		e = e.Int("total_trades", ev.Metrics.TotalTrades).
			Float64("profit_factor", ev.Metrics.ProfitFactor).
			Float64("sharpe_ratio", ev.Metrics.SharpeRatio).
			Float64("total_pnl", ev.Metrics.TotalPnL)
	}
	e.Msg("trial finished")
}

// SessionEnd writes the closing summary event
func (l *TrialLogger) SessionEnd(attempted, succeeded int, elapsed time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.logger.Info().
		Str("event", "session_end").
		Int("attempted", attempted).
		Int("succeeded", succeeded).
		Dur("elapsed", elapsed).
		Msg("sweep session ended")
}

// Path returns the log file path, empty for writer-backed loggers
func (l *TrialLogger) Path() string {
	return l.path
}

// Close closes the log file
func (l *TrialLogger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file != nil {
		err := l.file.Close()
		l.file = nil
		return err
	}
	return nil
}
