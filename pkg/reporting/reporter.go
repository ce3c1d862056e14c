package reporting

import (
	"io"

	"github.com/ducminhle1904/lvn-sweep/pkg/analysis"
	"github.com/ducminhle1904/lvn-sweep/pkg/types"
)

// BuildReport runs every analysis over rs. Summary, impact and robust
// sections see all rows; the top table sees rows with at least
// MinTrades trades, ranked descending by SortBy.
func BuildReport(source string, rs *types.ResultSet, opts AnalysisOptions) *AnalysisReport {
	if rs == nil {
		rs = &types.ResultSet{}
	}
	if opts.SortBy == "" {
		opts.SortBy = types.MetricTotalPnL
	}
	if opts.ImpactParams == nil {
		opts.ImpactParams = analysis.ImpactParams
	}

	filtered := analysis.Filter(rs, opts.MinTrades, 0)
	ranked := analysis.Rank(filtered, opts.SortBy, true)

	return &AnalysisReport{
		Source:   source,
		Options:  opts,
		Results:  rs,
		Summary:  analysis.Summarize(rs),
		Filtered: filtered.Len(),
		Top:      analysis.Top(ranked, opts.Top),
		Impact:   analysis.AnalyzeImpact(rs, opts.ImpactParams, opts.MinTrades),
		Robust:   analysis.FindRobust(rs, opts.Robust),
	}
}

// DefaultReporter implements the complete Reporter interface
type DefaultReporter struct {
	console *DefaultConsoleReporter
	excel   *DefaultExcelReporter
}

// NewReporterWithWriter creates a reporter printing to w
func NewReporterWithWriter(w io.Writer, colors bool) *DefaultReporter {
	return &DefaultReporter{
		console: NewConsoleReporter(w, colors),
		excel:   NewDefaultExcelReporter(),
	}
}

// Console output methods
func (r *DefaultReporter) PrintReport(report *AnalysisReport) {
	r.console.PrintReport(report)
}

func (r *DefaultReporter) PrintQuickSummary(rs *types.ResultSet, minTrades, limit int) {
	r.console.PrintQuickSummary(rs, minTrades, limit)
}

// File output methods
func (r *DefaultReporter) WriteResultsXLSX(rs *types.ResultSet, report *AnalysisReport, path string) error {
	return r.excel.WriteResultsXLSX(rs, report, path)
}

func (r *DefaultReporter) WriteBestConfigJSON(report *AnalysisReport, path string) error {
	return WriteBestConfigJSON(report, path)
}

func (r *DefaultReporter) WriteResultsSQLite(rs *types.ResultSet, report *AnalysisReport, path string) error {
	return WriteResultsSQLite(rs, report, path)
}
