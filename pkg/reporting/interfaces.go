package reporting

import (
	"github.com/ducminhle1904/lvn-sweep/pkg/analysis"
	"github.com/ducminhle1904/lvn-sweep/pkg/types"
)

// Package reporting provides output generation for sweep results

// AnalysisOptions controls what an analysis report contains
type AnalysisOptions struct {
	MinTrades    int
	SortBy       string
	Top          int
	ImpactParams []string
	Robust       analysis.RobustCriteria
}

// DefaultAnalysisOptions returns the analyzer defaults
func DefaultAnalysisOptions() AnalysisOptions {
	return AnalysisOptions{
		MinTrades:    10,
		SortBy:       types.MetricTotalPnL,
		Top:          20,
		ImpactParams: analysis.ImpactParams,
		Robust:       analysis.DefaultRobustCriteria(),
	}
}

// AnalysisReport is everything the analyzer prints or exports
type AnalysisReport struct {
	Source   string
	Options  AnalysisOptions
	Results  *types.ResultSet
	Summary  analysis.Summary
	Filtered int
	Top      []types.ResultRow
	Impact   []analysis.ParameterImpact
	Robust   analysis.RobustSelection
}

// ConsoleReporter defines interface for console output
type ConsoleReporter interface {
	PrintReport(report *AnalysisReport)
	PrintQuickSummary(rs *types.ResultSet, minTrades, limit int)
}

// FileReporter defines interface for file output
type FileReporter interface {
	WriteResultsXLSX(rs *types.ResultSet, report *AnalysisReport, path string) error
	WriteBestConfigJSON(report *AnalysisReport, path string) error
	WriteResultsSQLite(rs *types.ResultSet, report *AnalysisReport, path string) error
}

// Reporter combines all reporting interfaces
type Reporter interface {
	ConsoleReporter
	FileReporter
}

// ExcelStyles holds Excel formatting styles
type ExcelStyles struct {
	HeaderStyle  int
	BaseStyle    int
	NumberStyle  int
	PercentStyle int
	GainStyle    int
	LossStyle    int
	TitleStyle   int
}
