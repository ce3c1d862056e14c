package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/ducminhle1904/lvn-sweep/cmd/common"
	"github.com/ducminhle1904/lvn-sweep/internal/config"
	sweeperrors "github.com/ducminhle1904/lvn-sweep/internal/errors"
	"github.com/ducminhle1904/lvn-sweep/pkg/analysis"
	"github.com/ducminhle1904/lvn-sweep/pkg/data"
	"github.com/ducminhle1904/lvn-sweep/pkg/reporting"
)

const AppName = "sweep-analyzer"

func main() {
	flags := NewAnalyzerFlags(flag.CommandLine)
	flag.Parse()

	if common.CheckHelpAndVersion(os.Stdout, flag.CommandLine, flags.Common, usage()) {
		return
	}
	if flag.NArg() != 1 {
		usage().PrintUsage(os.Stderr, flag.CommandLine)
		os.Exit(2)
	}
	input := flag.Arg(0)

	if err := ValidateAnalyzerFlags(flags, input); err != nil {
		log.Fatalf("❌ Flag validation error: %v", err)
	}

	if err := run(flags, input, os.Stdout); err != nil {
		log.Fatalf("❌ %v", err)
	}
}

func usage() *common.UsageFormatter {
	u := common.NewUsageFormatter(AppName, "Analyze parameter sweep results").
		AddExample("sweep-analyzer sweep_results.csv", "Default analysis").
		AddExample("sweep-analyzer -sort-by sharpe_ratio -top 10 sweep_results.csv", "Top 10 by Sharpe").
		AddExample("sweep-analyzer -xlsx report.xlsx -json best.json sweep_results.csv", "Analysis with exports")
	u.Arguments = "<results.csv>"
	return u
}

func run(flags *AnalyzerFlags, input string, stdout io.Writer) error {
	console := common.SetupLogger(stdout, flags.Common)

	if _, err := config.LoadEnvFile(*flags.Common.EnvFile); err != nil {
		return err
	}

	fmt.Fprintf(console.Writer(), "Loading results from %s...\n", input)
	rs, err := data.LoadResults(input)
	if err != nil {
		return sweeperrors.NewInputError("analyzer", "load", err.Error())
	}
	if !analysis.IsKnownKey(rs, *flags.SortBy) {
		console.Warn("Unknown sort key %q, every row sorts as 0", *flags.SortBy)
	}

	opts := reporting.DefaultAnalysisOptions()
	opts.MinTrades = *flags.MinTrades
	opts.SortBy = *flags.SortBy
	opts.Top = *flags.Top
	opts.Robust = flags.RobustCriteria()

	report := reporting.BuildReport(input, rs, opts)
	reporter := reporting.NewReporterWithWriter(console.Writer(), !*flags.Common.NoColors)
	reporter.PrintReport(report)

	return writeExports(console, reporter, report, flags)
}
