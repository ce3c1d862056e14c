package backtest

import (
	"context"
	stderrors "errors"
	"fmt"
	"os/exec"
	"time"

	"github.com/kballard/go-shellquote"

	sweeperrors "github.com/ducminhle1904/lvn-sweep/internal/errors"
	"github.com/ducminhle1904/lvn-sweep/pkg/types"
)

const (
	DefaultExecutable = "./target/release/pipeline"
	DefaultSubcommand = "replay-realtime"
	DefaultTimeout    = 120 * time.Second
)

// FlagSpec maps a parameter name to the evaluator flag carrying it
type FlagSpec struct {
	Param string
	Flag  string
}

// DefaultFlagTable returns the evaluator's argument surface in the order
// the flags are passed
func DefaultFlagTable() []FlagSpec {
	return []FlagSpec{
		{"cache_dir", "--cache-dir"},
		{"contracts", "--contracts"},
		{"take_profit", "--take-profit"},
		{"trailing_stop", "--trailing-stop"},
		{"stop_buffer", "--stop-buffer"},
		{"start_hour", "--start-hour"},
		{"start_minute", "--start-minute"},
		{"end_hour", "--end-hour"},
		{"end_minute", "--end-minute"},
		{"min_delta", "--min-delta"},
		{"max_lvn_ratio", "--max-lvn-ratio"},
		{"level_tolerance", "--level-tolerance"},
		{"starting_balance", "--starting-balance"},
		{"breakout_threshold", "--breakout-threshold"},
		{"min_impulse_size", "--min-impulse-size"},
		{"max_impulse_bars", "--max-impulse-bars"},
		{"max_hunting_bars", "--max-hunting-bars"},
		{"min_impulse_score", "--min-impulse-score"},
		{"max_retrace_ratio", "--max-retrace-ratio"},
		{"max_win_cap", "--max-win-cap"},
		{"outlier_threshold", "--outlier-threshold"},
	}
}

// OutcomeStatus classifies how an evaluator invocation ended
type OutcomeStatus int

const (
	// OutcomeSuccess means the process ran to completion, whatever its exit code
	OutcomeSuccess OutcomeStatus = iota
	OutcomeTimeout
	OutcomeLaunchError
	// OutcomeCanceled means the sweep itself was interrupted
	OutcomeCanceled
)

func (s OutcomeStatus) String() string {
	switch s {
	case OutcomeSuccess:
		return "success"
	case OutcomeTimeout:
		return "timeout"
	case OutcomeLaunchError:
		return "launch_error"
	case OutcomeCanceled:
		return "canceled"
	default:
		return "unknown"
	}
}

// Outcome is the result of one evaluator invocation
type Outcome struct {
	Status   OutcomeStatus
	Output   string
	ExitCode int
	Err      error
	Duration time.Duration
}

// OK reports whether the output can be handed to the extractor
func (o Outcome) OK() bool {
	return o.Status == OutcomeSuccess
}

// RunnerConfig holds the process runner settings
type RunnerConfig struct {
	Executable string
	Subcommand string
	Timeout    time.Duration
	Flags      []FlagSpec
	Builder    CommandBuilder
}

// ProcessRunner invokes the external evaluator once per parameter set
type ProcessRunner struct {
	executable string
	leading    []string
	timeout    time.Duration
	flags      []FlagSpec
	builder    CommandBuilder
}

// NewProcessRunner creates a runner, filling unset fields with defaults
func NewProcessRunner(cfg RunnerConfig) *ProcessRunner {
	if cfg.Executable == "" {
		cfg.Executable = DefaultExecutable
	}
	if cfg.Subcommand == "" {
		cfg.Subcommand = DefaultSubcommand
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if len(cfg.Flags) == 0 {
		cfg.Flags = DefaultFlagTable()
	}
	if cfg.Builder == nil {
		cfg.Builder = NewRealCommandBuilder()
	}

	return &ProcessRunner{
		executable: cfg.Executable,
		leading:    []string{cfg.Subcommand},
		timeout:    cfg.Timeout,
		flags:      cfg.Flags,
		builder:    cfg.Builder,
	}
}

// Executable returns the evaluator path
func (r *ProcessRunner) Executable() string {
	return r.executable
}

// Timeout returns the per-trial limit
func (r *ProcessRunner) Timeout() time.Duration {
	return r.timeout
}

// CommandLine returns the arguments passed after the executable. Every
// parameter in the flag table must be present.
func (r *ProcessRunner) CommandLine(params types.ParameterSet) ([]string, error) {
	args := make([]string, 0, len(r.leading)+2*len(r.flags))
	args = append(args, r.leading...)

	var missing []string
	for _, f := range r.flags {
		v, ok := params[f.Param]
		if !ok {
			missing = append(missing, f.Param)
			continue
		}
		args = append(args, f.Flag, v.String())
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required parameters: %v", missing)
	}
	return args, nil
}

// CommandString renders the full invocation for params as a shell-quoted
// line that can be pasted into a terminal to replay one trial
func (r *ProcessRunner) CommandString(params types.ParameterSet) (string, error) {
	args, err := r.CommandLine(params)
	if err != nil {
		return "", err
	}
	return shellquote.Join(append([]string{r.executable}, args...)...), nil
}

// Run executes the evaluator for params and classifies the result. A
// non-zero exit status is still a success: the output is what matters.
func (r *ProcessRunner) Run(ctx context.Context, params types.ParameterSet) Outcome {
	start := time.Now()

	args, err := r.CommandLine(params)
	if err != nil {
		return Outcome{
			Status: OutcomeLaunchError,
			Err:    sweeperrors.NewLaunchError("runner", "build command", err),
		}
	}

	runCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	out, err := r.builder.BuildCommand(runCtx, r.executable, args...).Run()
	outcome := Outcome{Output: string(out), Duration: time.Since(start)}

	switch {
	case ctx.Err() != nil:
		// Parent canceled: the sweep is stopping, not this trial failing
		outcome.Status = OutcomeCanceled
		outcome.Err = ctx.Err()
	case stderrors.Is(runCtx.Err(), context.DeadlineExceeded):
		outcome.Status = OutcomeTimeout
		outcome.Err = sweeperrors.NewTimeoutError("runner", "run", fmt.Errorf("evaluator exceeded %s", r.timeout)).
			WithContext("timeout", r.timeout.String())
	case err == nil:
		outcome.Status = OutcomeSuccess
	default:
		var exitErr *exec.ExitError
		if stderrors.As(err, &exitErr) {
			outcome.Status = OutcomeSuccess
			outcome.ExitCode = exitErr.ExitCode()
		} else {
			outcome.Status = OutcomeLaunchError
			outcome.Err = sweeperrors.NewLaunchError("runner", "start", err).
				WithContext("executable", r.executable)
		}
	}

	return outcome
}
