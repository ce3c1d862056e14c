package orchestrator

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ducminhle1904/lvn-sweep/internal/backtest"
	sweeperrors "github.com/ducminhle1904/lvn-sweep/internal/errors"
	"github.com/ducminhle1904/lvn-sweep/internal/logger"
	"github.com/ducminhle1904/lvn-sweep/pkg/optimization"
	"github.com/ducminhle1904/lvn-sweep/pkg/reporting"
	"github.com/ducminhle1904/lvn-sweep/pkg/types"
)

// fakeEvaluator renders evaluator output from the parameters it is given
type fakeEvaluator struct {
	calls   []types.ParameterSet
	fail    map[int]backtest.OutcomeStatus // keyed by min_delta
	cancel  context.CancelFunc
	cancelN int
	badArgs bool
}

func (f *fakeEvaluator) CommandLine(params types.ParameterSet) ([]string, error) {
	if f.badArgs {
		return nil, fmt.Errorf("missing required parameters: [cache_dir]")
	}
	return []string{"--min-delta", params["min_delta"].String()}, nil
}

func (f *fakeEvaluator) Run(ctx context.Context, params types.ParameterSet) backtest.Outcome {
	f.calls = append(f.calls, params)
	if f.cancel != nil && len(f.calls) == f.cancelN {
		f.cancel()
		return backtest.Outcome{Status: backtest.OutcomeCanceled, Err: context.Canceled}
	}

	delta := int(params["min_delta"].Int)
	if status, ok := f.fail[delta]; ok {
		var err error
		if status == backtest.OutcomeTimeout {
			err = sweeperrors.NewTimeoutError("runner", "run", errors.New("evaluator exceeded 120s"))
		} else {
			err = sweeperrors.NewLaunchError("runner", "start", errors.New("exec: not found"))
		}
		return backtest.Outcome{Status: status, Err: err, Duration: time.Millisecond}
	}

	tp := int(params["take_profit"].Int)
	out := fmt.Sprintf("Total Trades: %d\nWins: %d\nLosses: %d\nBreakevens: 0\n"+
		"Profit Factor: 1.50\nSharpe Ratio: 0.80\nAvg Win: %d.00\nAvg Loss: -10.00\n"+
		"Total P&L: +%d.00\nMax Drawdown: $1,200.00\n", delta, delta/2, delta/2, tp, delta*tp)
	return backtest.Outcome{Status: backtest.OutcomeSuccess, Output: out, Duration: time.Millisecond}
}

func testGrid() optimization.GridConfig {
	return optimization.GridConfig{
		Mode: optimization.ModeQuick,
		Ranges: optimization.ParamRanges{
			{Name: "min_delta", Values: []types.Value{types.Int(10), types.Int(20), types.Int(30)}},
			{Name: "take_profit", Values: []types.Value{types.Int(25), types.Int(30)}},
		},
		Baseline: types.ParameterSet{"cache_dir": types.Text("cache")},
	}
}

func newTestDriver(t *testing.T, output string, resume int, eval Evaluator) *SweepDriver {
	t.Helper()
	d, err := NewSweepDriver(SweepConfig{
		Output:    output,
		Mode:      "quick",
		Grid:      testGrid(),
		Resume:    resume,
		Evaluator: eval,
		Console:   &bytes.Buffer{},
	})
	require.NoError(t, err)
	return d
}

func fileLines(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return strings.Split(strings.TrimRight(string(data), "\n"), "\n")
}

// TestSweepDriver_FullRun tests one row per trial in grid order
func TestSweepDriver_FullRun(t *testing.T) {
	output := filepath.Join(t.TempDir(), "sweep.csv")
	eval := &fakeEvaluator{}
	d := newTestDriver(t, output, 0, eval)

	summary, err := d.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 6, summary.Total)
	assert.Equal(t, 6, summary.Attempted)
	assert.Equal(t, 6, summary.Succeeded)
	assert.Equal(t, 6, summary.RowsWritten)
	assert.Equal(t, 6, summary.NextIndex)
	assert.False(t, summary.Interrupted)
	assert.NotEmpty(t, summary.RunID)
	assert.Len(t, eval.calls, 6)

	lines := fileLines(t, output)
	require.Len(t, lines, 7)
	assert.Equal(t, strings.Join(types.Header([]string{"min_delta", "take_profit"}), ","), lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "10,25,10,5,5,0,50.0,1.5,0.8,25.0,-10.0,250.0,1200.0,2.5,"))
	assert.True(t, strings.HasPrefix(lines[6], "30,30,"))

	cp, err := reporting.LoadCheckpoint(reporting.CheckpointPath(output))
	require.NoError(t, err)
	require.NotNil(t, cp)
	assert.Equal(t, 6, cp.NextIndex)
	assert.Equal(t, 6, cp.RowsWritten)
	assert.True(t, cp.Complete())
	assert.Equal(t, d.Fingerprint(), cp.Fingerprint)
}

// TestSweepDriver_ResumeMatchesFullRun tests that resuming at R writes the
// full run's rows minus the first R
func TestSweepDriver_ResumeMatchesFullRun(t *testing.T) {
	dir := t.TempDir()
	full := filepath.Join(dir, "full.csv")
	_, err := newTestDriver(t, full, 0, &fakeEvaluator{}).Run(context.Background())
	require.NoError(t, err)

	for _, r := range []int{1, 4, 6} {
		t.Run(fmt.Sprintf("resume_%d", r), func(t *testing.T) {
			partial := filepath.Join(t.TempDir(), "partial.csv")
			eval := &fakeEvaluator{}
			summary, err := newTestDriver(t, partial, r, eval).Run(context.Background())
			require.NoError(t, err)

			assert.Equal(t, r, summary.Skipped)
			assert.Len(t, eval.calls, 6-r)

			want := fileLines(t, full)
			got := fileLines(t, partial)
			assert.Equal(t, want[0], got[0])
			assert.Equal(t, want[1+r:], got[1:])
		})
	}
}

// TestSweepDriver_ResumeAppends tests that a resumed run appends to an
// interrupted file without repeating the header
func TestSweepDriver_ResumeAppends(t *testing.T) {
	output := filepath.Join(t.TempDir(), "sweep.csv")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	first := &fakeEvaluator{cancel: cancel, cancelN: 3}
	summary, err := newTestDriver(t, output, 0, first).Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.True(t, summary.Interrupted)
	assert.Equal(t, 2, summary.NextIndex)

	plan, err := ResolveResume(output, 0, true, newTestDriver(t, output, 0, &fakeEvaluator{}).Fingerprint())
	require.NoError(t, err)
	assert.Equal(t, 2, plan.Offset)

	// newTestDriver above only expands the grid; the file is untouched until Run
	summary, err = newTestDriver(t, output, plan.Offset, &fakeEvaluator{}).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, summary.Attempted)

	lines := fileLines(t, output)
	require.Len(t, lines, 7)
	assert.Equal(t, 1, strings.Count(strings.Join(lines, "\n"), "min_delta,"))
}

// TestSweepDriver_ResumeAutoWithoutCheckpoint tests that a lost checkpoint
// does not truncate rows already in the results file
func TestSweepDriver_ResumeAutoWithoutCheckpoint(t *testing.T) {
	output := filepath.Join(t.TempDir(), "sweep.csv")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	first := &fakeEvaluator{cancel: cancel, cancelN: 5}
	_, err := newTestDriver(t, output, 0, first).Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
	before := fileLines(t, output)
	require.Len(t, before, 5)

	require.NoError(t, os.Remove(reporting.CheckpointPath(output)))

	plan, err := ResolveResume(output, 0, true, newTestDriver(t, output, 0, &fakeEvaluator{}).Fingerprint())
	require.NoError(t, err)
	assert.Equal(t, 4, plan.Offset)

	second := &fakeEvaluator{}
	summary, err := newTestDriver(t, output, plan.Offset, second).Run(context.Background())
	require.NoError(t, err)
	assert.Len(t, second.calls, 2)
	assert.Equal(t, 6, summary.NextIndex)

	after := fileLines(t, output)
	require.Len(t, after, 7)
	assert.Equal(t, before, after[:5])

	full := filepath.Join(t.TempDir(), "full.csv")
	_, err = newTestDriver(t, full, 0, &fakeEvaluator{}).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, fileLines(t, full), after)
}

// TestSweepDriver_TrialErrorsSkipped tests that failed trials write no row
func TestSweepDriver_TrialErrorsSkipped(t *testing.T) {
	output := filepath.Join(t.TempDir(), "sweep.csv")
	eval := &fakeEvaluator{fail: map[int]backtest.OutcomeStatus{
		20: backtest.OutcomeTimeout,
		30: backtest.OutcomeLaunchError,
	}}
	var console bytes.Buffer
	var trialLog bytes.Buffer
	d, err := NewSweepDriver(SweepConfig{
		Output:    output,
		Grid:      testGrid(),
		Evaluator: eval,
		Console:   &console,
		TrialLog:  logger.NewTrialLoggerWriter(&trialLog, "run-x"),
	})
	require.NoError(t, err)

	summary, err := d.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 6, summary.Attempted)
	assert.Equal(t, 2, summary.Succeeded)
	assert.Equal(t, 2, summary.Timeouts)
	assert.Equal(t, 2, summary.LaunchErrors)
	assert.Equal(t, 4, summary.Failed())
	assert.Len(t, fileLines(t, output), 3)

	assert.Equal(t, 2, d.ErrorStats().Count(sweeperrors.ErrorCategoryTimeout))
	assert.Equal(t, 2, d.ErrorStats().Count(sweeperrors.ErrorCategoryLaunch))

	out := console.String()
	assert.Contains(t, out, "[1/6] delta=10 tp=25 ETA: calculating...")
	assert.Contains(t, out, "TIMEOUT")
	assert.Contains(t, out, "ERROR")

	// One session start, six trials, one session end
	assert.Equal(t, 8, strings.Count(trialLog.String(), "\n"))
	assert.Contains(t, trialLog.String(), `"status":"timeout"`)

	cp, err := reporting.LoadCheckpoint(reporting.CheckpointPath(output))
	require.NoError(t, err)
	assert.Equal(t, 6, cp.NextIndex)
	assert.Equal(t, 2, cp.RowsWritten)
}

// TestSweepDriver_ValidatesBeforeRunning tests that a grid the evaluator
// cannot render is rejected before any trial
func TestSweepDriver_ValidatesBeforeRunning(t *testing.T) {
	output := filepath.Join(t.TempDir(), "sweep.csv")
	eval := &fakeEvaluator{badArgs: true}
	_, err := NewSweepDriver(SweepConfig{Output: output, Grid: testGrid(), Evaluator: eval})
	require.Error(t, err)
	assert.Equal(t, sweeperrors.ErrorCategoryConfiguration, sweeperrors.CategoryOf(err))
	assert.Empty(t, eval.calls)
	assert.NoFileExists(t, output)
}

// TestNewSweepDriver_InvalidConfig tests rejected driver settings
func TestNewSweepDriver_InvalidConfig(t *testing.T) {
	_, err := NewSweepDriver(SweepConfig{Output: "x.csv", Grid: testGrid()})
	assert.Error(t, err)

	_, err = NewSweepDriver(SweepConfig{Grid: testGrid(), Evaluator: &fakeEvaluator{}})
	assert.Error(t, err)

	_, err = NewSweepDriver(SweepConfig{Output: "x.csv", Grid: testGrid(), Evaluator: &fakeEvaluator{}, Resume: -1})
	assert.Equal(t, sweeperrors.ErrorCategoryInput, sweeperrors.CategoryOf(err))
}

// TestSweepDriver_EmptyGrid tests that an empty grid writes only the header
func TestSweepDriver_EmptyGrid(t *testing.T) {
	output := filepath.Join(t.TempDir(), "sweep.csv")
	eval := &fakeEvaluator{}
	d, err := NewSweepDriver(SweepConfig{
		Output:    output,
		Grid:      optimization.GridConfig{Ranges: optimization.ParamRanges{{Name: "min_delta"}}},
		Evaluator: eval,
		Console:   &bytes.Buffer{},
	})
	require.NoError(t, err)

	summary, err := d.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, summary.Total)
	assert.Empty(t, eval.calls)
	assert.Len(t, fileLines(t, output), 1)
}

type failingStore struct{ closed bool }

func (s *failingStore) Append(types.ResultRow) error { return errors.New("disk full") }
func (s *failingStore) Rows() int                    { return 0 }
func (s *failingStore) Close() error                 { s.closed = true; return nil }

// TestSweepDriver_StoreFailure tests that a write failure stops the sweep
func TestSweepDriver_StoreFailure(t *testing.T) {
	store := &failingStore{}
	eval := &fakeEvaluator{}
	d, err := NewSweepDriver(SweepConfig{
		Grid:              testGrid(),
		Evaluator:         eval,
		Store:             store,
		DisableCheckpoint: true,
		Console:           &bytes.Buffer{},
	})
	require.NoError(t, err)

	summary, err := d.Run(context.Background())
	require.Error(t, err)
	assert.Equal(t, sweeperrors.ErrorCategoryStore, sweeperrors.CategoryOf(err))
	assert.Equal(t, 1, summary.Attempted)
	assert.Len(t, eval.calls, 1)
	assert.True(t, store.closed)
}

// TestSweepDriver_CanceledBeforeStart tests that a canceled context runs nothing
func TestSweepDriver_CanceledBeforeStart(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	eval := &fakeEvaluator{}
	summary, err := newTestDriver(t, filepath.Join(t.TempDir(), "s.csv"), 0, eval).Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.True(t, summary.Interrupted)
	assert.Empty(t, eval.calls)
}

// TestEstimateDuration tests the banner estimate
func TestEstimateDuration(t *testing.T) {
	assert.Equal(t, 8*time.Minute, EstimateDuration(60, 8*time.Second))
	assert.Equal(t, time.Duration(0), EstimateDuration(0, 8*time.Second))
}
