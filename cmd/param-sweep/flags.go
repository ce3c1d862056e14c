package main

import (
	"flag"
	"math"
	"time"

	"github.com/ducminhle1904/lvn-sweep/cmd/common"
)

// SweepFlags holds all command-line flags for the sweep
type SweepFlags struct {
	// Grid
	Mode  *string
	Quick *bool
	Grid  *string

	// Output and resume
	Output     *string
	Resume     *int
	ResumeAuto *bool
	Summary    *bool

	// Evaluator, overriding SWEEP_* environment values
	Evaluator  *string
	Subcommand *string
	Timeout    *time.Duration
	CacheDir   *string

	// Observability
	MetricsAddr *string
	LogFile     *string

	Common *common.CommonFlags
}

// NewSweepFlags registers the sweep flags on fs
func NewSweepFlags(fs *flag.FlagSet) *SweepFlags {
	return &SweepFlags{
		Mode:  fs.String("mode", "full", "Built-in grid: full, quick or targeted"),
		Quick: fs.Bool("quick", false, "Shorthand for -mode quick"),
		Grid:  fs.String("grid", "", "JSON grid file, replaces the built-in grid"),

		Output:     fs.String("output", "", "Results CSV (default sweep_results.csv, sweep_targeted.csv for targeted)"),
		Resume:     fs.Int("resume", 0, "Resume from combination N (0-based), appending to the output"),
		ResumeAuto: fs.Bool("resume-auto", false, "Resume from the checkpoint next to the output"),
		Summary:    fs.Bool("summary", false, "Print the profitable-config summary at the end (always on for targeted)"),

		Evaluator:  fs.String("evaluator", "", "Evaluator executable (default $SWEEP_EVALUATOR or ./target/release/pipeline)"),
		Subcommand: fs.String("subcommand", "", "Evaluator subcommand (default $SWEEP_SUBCOMMAND or replay-realtime)"),
		Timeout:    fs.Duration("timeout", 0, "Per-trial timeout (default $SWEEP_TIMEOUT or 120s)"),
		CacheDir:   fs.String("cache-dir", "", "Tick cache passed to the evaluator (default $SWEEP_CACHE_DIR or cache_2025)"),

		MetricsAddr: fs.String("metrics-addr", "", "Serve /metrics and /health on this address, e.g. :9090"),
		LogFile:     fs.String("log-file", "", "Trial log file (default logs/sweep_<date>.log, \"none\" disables)"),

		Common: common.RegisterCommonFlags(fs),
	}
}

// ResolvedMode returns the grid mode after applying -quick
func (f *SweepFlags) ResolvedMode() string {
	if *f.Quick {
		return "quick"
	}
	return *f.Mode
}

// ValidateSweepFlags checks flag values and combinations
func ValidateSweepFlags(f *SweepFlags) error {
	v := common.NewFlagValidator().
		ValidateInt("resume", *f.Resume, 0, math.MaxInt32).
		ValidateChoice("mode", *f.Mode, []string{"full", "quick", "targeted"}).
		ValidateFile("grid", *f.Grid, false)

	if *f.Quick && *f.Mode != "full" && *f.Mode != "quick" {
		v.AddError("-quick conflicts with -mode " + *f.Mode)
	}
	if *f.ResumeAuto && *f.Resume > 0 {
		v.AddError("-resume and -resume-auto are mutually exclusive")
	}
	if *f.Timeout < 0 {
		v.AddError("timeout must not be negative")
	}

	if v.HasErrors() {
		v.PrintErrors(flag.CommandLine.Output())
		return v.GetError()
	}
	return nil
}
