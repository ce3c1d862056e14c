package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/ducminhle1904/lvn-sweep/internal/backtest"
	sweeperrors "github.com/ducminhle1904/lvn-sweep/internal/errors"
	"github.com/ducminhle1904/lvn-sweep/internal/logger"
	"github.com/ducminhle1904/lvn-sweep/internal/monitoring"
	"github.com/ducminhle1904/lvn-sweep/pkg/optimization"
	"github.com/ducminhle1904/lvn-sweep/pkg/reporting"
	"github.com/ducminhle1904/lvn-sweep/pkg/types"
)

// progressParams are shown on each progress line
var progressParams = []struct{ name, label string }{
	{"min_delta", "delta"},
	{"max_lvn_ratio", "lvn"},
	{"min_impulse_score", "score"},
	{"take_profit", "tp"},
	{"trailing_stop", "trail"},
}

// SweepConfig wires a sweep together. Evaluator, Grid and Output are
// required; everything else has a default or is optional.
type SweepConfig struct {
	RunID     string
	Output    string
	Mode      string
	Grid      optimization.GridConfig
	Resume    int
	Evaluator Evaluator
	Extractor *backtest.Extractor

	// Store overrides the CSV store opened from Output
	Store RowWriter
	// DisableCheckpoint skips writing <Output>.checkpoint.json
	DisableCheckpoint bool

	TrialLog *logger.TrialLogger
	Health   *monitoring.HealthChecker
	Console  io.Writer
}

// SweepDriver runs every combination of a grid through an evaluator and
// appends one row per successful trial
type SweepDriver struct {
	cfg         SweepConfig
	combos      []types.ParameterSet
	paramNames  []string
	fingerprint string
	stats       *sweeperrors.ErrorStats
	out         io.Writer
}

// NewSweepDriver expands the grid and validates the first combination
// against the evaluator, so a bad grid fails before any trial runs
func NewSweepDriver(cfg SweepConfig) (*SweepDriver, error) {
	if cfg.Evaluator == nil {
		return nil, sweeperrors.NewConfigurationError("driver", "init", "no evaluator configured")
	}
	if cfg.Output == "" && cfg.Store == nil {
		return nil, sweeperrors.NewConfigurationError("driver", "init", "no output path configured")
	}
	if cfg.Resume < 0 {
		return nil, sweeperrors.NewInputError("driver", "init", fmt.Sprintf("resume offset must be >= 0, got %d", cfg.Resume))
	}
	if cfg.RunID == "" {
		cfg.RunID = uuid.NewString()
	}
	if cfg.Extractor == nil {
		cfg.Extractor = backtest.NewExtractor(nil)
	}

	d := &SweepDriver{
		cfg:         cfg,
		combos:      cfg.Grid.Combinations(),
		paramNames:  cfg.Grid.Ranges.Names(),
		fingerprint: optimization.Fingerprint(cfg.Grid.Ranges, cfg.Grid.Baseline),
		stats:       sweeperrors.NewErrorStats(20),
		out:         cfg.Console,
	}
	if d.out == nil {
		d.out = os.Stdout
	}

	if len(d.combos) > 0 {
		if _, err := cfg.Evaluator.CommandLine(d.combos[0]); err != nil {
			return nil, sweeperrors.NewConfigurationError("driver", "validate", err.Error())
		}
	}
	return d, nil
}

// Total returns the number of combinations in the grid
func (d *SweepDriver) Total() int {
	return len(d.combos)
}

// Combinations returns the expanded grid in execution order
func (d *SweepDriver) Combinations() []types.ParameterSet {
	return d.combos
}

// ParamNames returns the swept parameter names in column order
func (d *SweepDriver) ParamNames() []string {
	return d.paramNames
}

// Fingerprint identifies the grid in checkpoints
func (d *SweepDriver) Fingerprint() string {
	return d.fingerprint
}

// RunID returns the identifier used in logs and checkpoints
func (d *SweepDriver) RunID() string {
	return d.cfg.RunID
}

// ErrorStats returns the trial-level errors recorded so far
func (d *SweepDriver) ErrorStats() *sweeperrors.ErrorStats {
	return d.stats
}

// Run executes trials from the resume offset onward. Trial-level failures
// are logged and counted; a store failure ends the sweep with an error.
// When ctx is canceled Run stops between trials and returns the partial
// summary together with the context error.
func (d *SweepDriver) Run(ctx context.Context) (*SweepSummary, error) {
	total := len(d.combos)
	resume := d.cfg.Resume
	summary := &SweepSummary{RunID: d.cfg.RunID, Total: total, Skipped: min(resume, total), NextIndex: min(resume, total)}

	store, err := d.openStore(resume)
	if err != nil {
		return summary, err
	}
	defer store.Close()

	if d.cfg.TrialLog != nil {
		info := logger.SessionInfo{
			RunID:  d.cfg.RunID,
			Output: d.cfg.Output,
			Mode:   d.cfg.Mode,
			Total:  total,
			Resume: resume,
		}
		if pe, ok := d.cfg.Evaluator.(ProcessEvaluator); ok {
			info.Executable = pe.Executable()
			info.Timeout = pe.Timeout()
		}
		d.cfg.TrialLog.SessionStart(info)
	}

	progress := backtest.NewProgressTracker(total, resume)
	monitoring.UpdateProgress(summary.NextIndex, total)

	for i := resume; i < total; i++ {
		if ctx.Err() != nil {
			summary.Interrupted = true
			break
		}
		params := d.combos[i]
		d.printProgress(i, total, params, progress)

		outcome := d.cfg.Evaluator.Run(ctx, params)
		if outcome.Status == backtest.OutcomeCanceled {
			summary.Interrupted = true
			break
		}
		summary.Attempted++

		ev := logger.TrialEvent{
			Index:      i,
			Total:      total,
			Status:     outcome.Status.String(),
			Duration:   outcome.Duration,
			ParamNames: d.paramNames,
			Params:     params,
			Err:        outcome.Err,
		}

		switch outcome.Status {
		case backtest.OutcomeSuccess:
			report := d.cfg.Extractor.Parse(outcome.Output)
			metrics := report.Metrics
			backtest.ApplyDerived(&metrics)
			if len(report.Invalid) > 0 {
				summary.ParseWarnings++
				d.recordError(sweeperrors.NewParseError("extractor", "parse",
					fmt.Errorf("unparsable values for %v", report.Invalid)))
			}

			row := types.ResultRow{Index: i, Params: params, Metrics: metrics}
			if err := store.Append(row); err != nil {
				summary.Elapsed = progress.Elapsed()
				return summary, sweeperrors.NewStoreError("driver", "append", err)
			}
			summary.Succeeded++
			summary.RowsWritten++
			monitoring.RecordRow()
			ev.Metrics = &metrics
			fmt.Fprintf(d.out, "  Trades=%d PF=%.2f Sharpe=%.2f P&L=$%.0f\n",
				metrics.TotalTrades, metrics.ProfitFactor, metrics.SharpeRatio, metrics.TotalPnL)
		case backtest.OutcomeTimeout:
			summary.Timeouts++
			d.recordError(outcome.Err)
			fmt.Fprintln(d.out, "  ⚠️ TIMEOUT")
		default:
			summary.LaunchErrors++
			d.recordError(outcome.Err)
			fmt.Fprintf(d.out, "  ❌ ERROR: %v\n", outcome.Err)
		}

		monitoring.RecordTrial(outcome.Status.String(), outcome.Duration)
		if d.cfg.TrialLog != nil {
			d.cfg.TrialLog.Trial(ev)
		}

		progress.Increment()
		summary.NextIndex = i + 1
		monitoring.UpdateProgress(summary.NextIndex, total)
		if d.cfg.Health != nil {
			d.cfg.Health.TrialFinished(summary.NextIndex, outcome.Status.String())
		}
		if err := d.saveCheckpoint(summary, store.Rows()); err != nil {
			fmt.Fprintf(d.out, "  ⚠️ checkpoint not saved: %v\n", err)
		}
	}

	summary.Elapsed = progress.Elapsed()
	if d.cfg.Health != nil && !summary.Interrupted {
		d.cfg.Health.Finish()
	}
	if d.cfg.TrialLog != nil {
		d.cfg.TrialLog.SessionEnd(summary.Attempted, summary.Succeeded, summary.Elapsed)
	}

	if err := store.Close(); err != nil {
		return summary, sweeperrors.NewStoreError("driver", "close", err)
	}
	if summary.Interrupted {
		return summary, ctx.Err()
	}
	return summary, nil
}

func (d *SweepDriver) openStore(resume int) (RowWriter, error) {
	if d.cfg.Store != nil {
		return d.cfg.Store, nil
	}

	var (
		store *reporting.ResultStore
		err   error
	)
	if resume == 0 {
		store, err = reporting.CreateResultStore(d.cfg.Output, d.paramNames)
	} else {
		store, err = reporting.OpenResultStore(d.cfg.Output, d.paramNames)
	}
	if err != nil {
		return nil, sweeperrors.NewStoreError("driver", "open", err)
	}
	return store, nil
}

func (d *SweepDriver) saveCheckpoint(summary *SweepSummary, rows int) error {
	if d.cfg.DisableCheckpoint || d.cfg.Output == "" {
		return nil
	}
	return reporting.SaveCheckpoint(reporting.CheckpointPath(d.cfg.Output), &reporting.Checkpoint{
		RunID:       d.cfg.RunID,
		Output:      d.cfg.Output,
		Mode:        d.cfg.Mode,
		Fingerprint: d.fingerprint,
		NextIndex:   summary.NextIndex,
		Total:       summary.Total,
		RowsWritten: rows,
	})
}

func (d *SweepDriver) recordError(err error) {
	if err == nil {
		return
	}
	var se *sweeperrors.SweepError
	if !errors.As(err, &se) {
		cat := sweeperrors.CategoryOf(err)
		if cat == "" {
			cat = sweeperrors.ErrorCategoryLaunch
		}
		se = sweeperrors.WrapError(err, cat, "driver", "trial")
	}
	d.stats.RecordError(se)
	monitoring.RecordError(string(se.Category))
}

func (d *SweepDriver) printProgress(i, total int, params types.ParameterSet, progress *backtest.ProgressTracker) {
	fmt.Fprintf(d.out, "[%d/%d]", i+1, total)
	for _, p := range progressParams {
		v, ok := params[p.name]
		if !ok {
			continue
		}
		fmt.Fprintf(d.out, " %s=%s", p.label, v)
	}
	fmt.Fprintf(d.out, " ETA: %s\n", progress.ETAString(i))
}

// EstimateDuration projects a sweep's wall time from a per-trial estimate
func EstimateDuration(trials int, perTrial time.Duration) time.Duration {
	if trials <= 0 {
		return 0
	}
	return time.Duration(trials) * perTrial
}
