package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/ducminhle1904/lvn-sweep/cmd/common"
	"github.com/ducminhle1904/lvn-sweep/internal/backtest"
	"github.com/ducminhle1904/lvn-sweep/internal/config"
	"github.com/ducminhle1904/lvn-sweep/internal/logger"
	"github.com/ducminhle1904/lvn-sweep/internal/monitoring"
	"github.com/ducminhle1904/lvn-sweep/pkg/optimization"
	"github.com/ducminhle1904/lvn-sweep/pkg/orchestrator"
	"github.com/ducminhle1904/lvn-sweep/pkg/reporting"
)

const (
	AppName = "param-sweep"

	// Per-trial estimate used for the banner
	EstimatedTrialTime = 8 * time.Second

	// Quick summary selection
	SummaryMinTrades = 10
	SummaryLimit     = 10
)

func main() {
	flags := NewSweepFlags(flag.CommandLine)
	flag.Parse()

	if common.CheckHelpAndVersion(os.Stdout, flag.CommandLine, flags.Common, usage()) {
		return
	}
	if err := ValidateSweepFlags(flags); err != nil {
		log.Fatalf("❌ Flag validation error: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if _, err := run(ctx, flags, os.Stdout); err != nil {
		log.Fatalf("❌ %v", err)
	}
}

func usage() *common.UsageFormatter {
	return common.NewUsageFormatter(AppName, "Exhaustive parameter sweep for the LVN strategy").
		AddExample("param-sweep -quick", "Quick grid into sweep_results.csv").
		AddExample("param-sweep -mode targeted", "Targeted grid with end-of-run summary").
		AddExample("param-sweep -output full.csv -resume-auto", "Continue an interrupted sweep").
		AddExample("param-sweep -grid grid.json -metrics-addr :9090", "Custom grid with Prometheus metrics")
}

// run executes one sweep. An interrupted sweep is not an error: the
// summary reports where it stopped.
func run(ctx context.Context, flags *SweepFlags, stdout io.Writer) (*orchestrator.SweepSummary, error) {
	console := common.SetupLogger(stdout, flags.Common)

	if loaded, err := config.LoadEnvFile(*flags.Common.EnvFile); err != nil {
		return nil, err
	} else if loaded {
		console.Debug("Environment loaded from %s", *flags.Common.EnvFile)
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("configuration error: %w", err)
	}
	applyOverrides(cfg, flags)

	diag := logger.New(logger.Config{Level: cfg.LogLevel, Pretty: true})
	diag.Debug().
		Str("version", common.GetFullVersion()).
		Str("evaluator", cfg.Evaluator.Path).
		Str("subcommand", cfg.Evaluator.Subcommand).
		Dur("timeout", cfg.Evaluator.Timeout).
		Str("cache_dir", cfg.Evaluator.CacheDir).
		Msg("configuration loaded")

	mode := flags.ResolvedMode()
	grid, err := loadGrid(mode, *flags.Grid, cfg.Evaluator.CacheDir)
	if err != nil {
		return nil, err
	}

	output := *flags.Output
	if output == "" {
		output = reporting.DefaultOutputPath(mode)
	}

	plan, err := orchestrator.ResolveResume(output, *flags.Resume, *flags.ResumeAuto,
		optimization.Fingerprint(grid.Ranges, grid.Baseline))
	if err != nil {
		return nil, err
	}
	for _, w := range plan.Warnings {
		console.Warn("%s", w)
	}

	runID := uuid.NewString()

	trialLog, err := openTrialLog(*flags.LogFile, cfg.LogDir, runID)
	if err != nil {
		return nil, err
	}
	if trialLog != nil {
		defer trialLog.Close()
		console.Debug("Trial log: %s", trialLog.Path())
	}

	runner := backtest.NewProcessRunner(backtest.RunnerConfig{
		Executable: cfg.Evaluator.Path,
		Subcommand: cfg.Evaluator.Subcommand,
		Timeout:    cfg.Evaluator.Timeout,
	})

	total := grid.Size()
	health := monitoring.NewHealthChecker(runID, total, 3*runner.Timeout())
	if cfg.Monitoring.Addr != "" {
		srv := monitoring.NewServer(cfg.Monitoring.Addr, health)
		errc := make(chan error, 1)
		srv.Start(errc)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			srv.Shutdown(shutdownCtx)
		}()
		go func() {
			if err := <-errc; err != nil {
				console.Warn("Metrics server stopped: %v", err)
			}
		}()
		console.Info("Metrics on http://%s/metrics", cfg.Monitoring.Addr)
	}

	driver, err := orchestrator.NewSweepDriver(orchestrator.SweepConfig{
		RunID:     runID,
		Output:    output,
		Mode:      mode,
		Grid:      grid,
		Resume:    plan.Offset,
		Evaluator: runner,
		TrialLog:  trialLog,
		Health:    health,
		Console:   console.Writer(),
	})
	if err != nil {
		return nil, err
	}

	if combos := driver.Combinations(); plan.Offset < len(combos) {
		if line, err := runner.CommandString(combos[plan.Offset]); err == nil {
			diag.Debug().Str("command", line).Msg("first trial")
		}
	}

	reporter := reporting.NewConsoleReporter(console.Writer(), !*flags.Common.NoColors)
	reporter.PrintSweepBanner(reporting.SweepBanner{
		Mode:     mode,
		Total:    total,
		Resume:   plan.Offset,
		Output:   output,
		Ranges:   describeRanges(grid.Ranges),
		Estimate: orchestrator.EstimateDuration(total-plan.Offset, EstimatedTrialTime),
	})

	summary, err := driver.Run(ctx)
	if errors.Is(err, context.Canceled) {
		console.Warn("Interrupted after %d trials. Resume with -resume %d or -resume-auto", summary.Attempted, summary.NextIndex)
		return summary, nil
	}
	if err != nil {
		return summary, err
	}

	reporter.PrintCompletion(output, summary.Elapsed)
	printRunStats(console, summary)

	if *flags.Summary || mode == string(optimization.ModeTargeted) {
		if err := printQuickSummary(reporter, output); err != nil {
			console.Warn("Could not summarize %s: %v", output, err)
		}
	}
	return summary, nil
}

func applyOverrides(cfg *config.Config, flags *SweepFlags) {
	if *flags.Evaluator != "" {
		cfg.Evaluator.Path = *flags.Evaluator
	}
	if *flags.Subcommand != "" {
		cfg.Evaluator.Subcommand = *flags.Subcommand
	}
	if *flags.Timeout > 0 {
		cfg.Evaluator.Timeout = *flags.Timeout
	}
	if *flags.CacheDir != "" {
		cfg.Evaluator.CacheDir = *flags.CacheDir
	}
	if *flags.MetricsAddr != "" {
		cfg.Monitoring.Addr = *flags.MetricsAddr
	}
	if *flags.Common.Verbose {
		cfg.LogLevel = "debug"
	}
}

func loadGrid(mode, gridFile, cacheDir string) (optimization.GridConfig, error) {
	grid := optimization.GridConfig{
		Mode:     optimization.Mode(mode),
		Baseline: optimization.DefaultBaseline(cacheDir),
	}

	var err error
	if gridFile != "" {
		grid.Ranges, err = optimization.LoadRangesJSON(gridFile)
	} else {
		grid.Ranges, err = optimization.RangesForMode(grid.Mode)
	}
	if err != nil {
		return grid, fmt.Errorf("grid error: %w", err)
	}
	return grid, nil
}

func openTrialLog(path, logDir, runID string) (*logger.TrialLogger, error) {
	if strings.EqualFold(path, "none") {
		return nil, nil
	}
	if path == "" {
		path = logger.DefaultLogPath(logDir)
	}
	return logger.NewTrialLogger(path, runID)
}
