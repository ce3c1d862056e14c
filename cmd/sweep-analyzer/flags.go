package main

import (
	"flag"
	"math"

	"github.com/ducminhle1904/lvn-sweep/cmd/common"
	"github.com/ducminhle1904/lvn-sweep/pkg/analysis"
)

// AnalyzerFlags holds all command-line flags for the analyzer
type AnalyzerFlags struct {
	// Analysis
	MinTrades *int
	SortBy    *string
	Top       *int

	// Robust selection thresholds
	RobustMinTrades *int
	RobustMinPF     *float64
	RobustMinSharpe *float64
	RobustLimit     *int

	// Exports
	XLSX   *string
	JSON   *string
	SQLite *string

	Common *common.CommonFlags
}

// NewAnalyzerFlags registers the analyzer flags on fs
func NewAnalyzerFlags(fs *flag.FlagSet) *AnalyzerFlags {
	defaults := analysis.DefaultRobustCriteria()
	return &AnalyzerFlags{
		MinTrades: fs.Int("min-trades", 10, "Minimum trades to consider"),
		SortBy:    fs.String("sort-by", "total_pnl", "Sort metric (total_pnl, profit_factor, sharpe_ratio, etc.)"),
		Top:       fs.Int("top", 20, "Show top N results"),

		RobustMinTrades: fs.Int("robust-min-trades", 0, "Robust tier minimum trades (default: -min-trades)"),
		RobustMinPF:     fs.Float64("robust-min-pf", defaults.MinPF, "Robust tier profit factor must exceed this"),
		RobustMinSharpe: fs.Float64("robust-min-sharpe", defaults.MinSharpe, "Robust tier Sharpe ratio must exceed this"),
		RobustLimit:     fs.Int("robust-limit", defaults.Limit, "Robust configurations to show"),

		XLSX:   fs.String("xlsx", "", "Write results, parameter impact and robust sheets to this workbook"),
		JSON:   fs.String("json", "", "Write the best robust configuration to this JSON file"),
		SQLite: fs.String("sqlite", "", "Export results to this SQLite database"),

		Common: common.RegisterCommonFlags(fs),
	}
}

// RobustCriteria builds the robust thresholds from the flags
func (f *AnalyzerFlags) RobustCriteria() analysis.RobustCriteria {
	c := analysis.DefaultRobustCriteria()
	c.MinTrades = *f.MinTrades
	if *f.RobustMinTrades > 0 {
		c.MinTrades = *f.RobustMinTrades
	}
	c.MinPF = *f.RobustMinPF
	c.MinSharpe = *f.RobustMinSharpe
	c.Limit = *f.RobustLimit
	return c
}

// ValidateAnalyzerFlags checks flag values
func ValidateAnalyzerFlags(f *AnalyzerFlags, input string) error {
	v := common.NewFlagValidator().
		ValidateInt("min-trades", *f.MinTrades, 0, math.MaxInt32).
		ValidateInt("top", *f.Top, 1, math.MaxInt32).
		ValidateInt("robust-min-trades", *f.RobustMinTrades, 0, math.MaxInt32).
		ValidateInt("robust-limit", *f.RobustLimit, 1, math.MaxInt32).
		ValidateFloat("robust-min-pf", *f.RobustMinPF, 0, math.MaxFloat64).
		ValidateFile("input", input, true)

	if *f.SortBy == "" {
		v.AddError("sort-by must not be empty")
	}

	if v.HasErrors() {
		v.PrintErrors(flag.CommandLine.Output())
		return v.GetError()
	}
	return nil
}
