package orchestrator

import (
	"context"
	"time"

	"github.com/ducminhle1904/lvn-sweep/internal/backtest"
	"github.com/ducminhle1904/lvn-sweep/pkg/types"
)

// Evaluator runs one trial of the external backtester
type Evaluator interface {
	// Run executes the evaluator for params and classifies the outcome
	Run(ctx context.Context, params types.ParameterSet) backtest.Outcome

	// CommandLine returns the arguments Run would pass, or an error when
	// params cannot be rendered
	CommandLine(params types.ParameterSet) ([]string, error)
}

// ProcessEvaluator is an Evaluator backed by an external executable; its
// identity is recorded in the trial log header
type ProcessEvaluator interface {
	Evaluator
	Executable() string
	Timeout() time.Duration
}

// RowWriter persists result rows as they are produced
type RowWriter interface {
	Append(row types.ResultRow) error
	Rows() int
	Close() error
}

// SweepSummary counts what happened during one Run
type SweepSummary struct {
	RunID        string
	Total        int
	Skipped      int
	Attempted    int
	Succeeded    int
	Timeouts     int
	LaunchErrors int
	// ParseWarnings counts successful trials with unparsable metric values
	ParseWarnings int
	RowsWritten   int
	NextIndex     int
	Interrupted   bool
	Elapsed       time.Duration
}

// Failed returns the number of attempted trials that produced no row
func (s *SweepSummary) Failed() int {
	return s.Attempted - s.Succeeded
}
