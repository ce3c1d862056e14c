package main

import (
	"fmt"
	"strings"

	"github.com/ducminhle1904/lvn-sweep/cmd/common"
	"github.com/ducminhle1904/lvn-sweep/pkg/data"
	"github.com/ducminhle1904/lvn-sweep/pkg/optimization"
	"github.com/ducminhle1904/lvn-sweep/pkg/orchestrator"
	"github.com/ducminhle1904/lvn-sweep/pkg/reporting"
)

// describeRanges renders each range as "name: v1, v2, ..."
func describeRanges(ranges optimization.ParamRanges) []string {
	out := make([]string, 0, len(ranges))
	for _, r := range ranges {
		vals := make([]string, len(r.Values))
		for i, v := range r.Values {
			vals[i] = v.String()
		}
		out = append(out, fmt.Sprintf("%s: %s", r.Name, strings.Join(vals, ", ")))
	}
	return out
}

func printRunStats(console *common.Logger, s *orchestrator.SweepSummary) {
	console.Success("Attempted %d of %d trials (%d skipped by resume)", s.Attempted, s.Total, s.Skipped)
	console.Info("Rows written: %d", s.RowsWritten)
	if s.Timeouts > 0 || s.LaunchErrors > 0 {
		console.Warn("Timeouts: %d, launch errors: %d", s.Timeouts, s.LaunchErrors)
	}
	if s.ParseWarnings > 0 {
		console.Warn("Trials with unparsable metrics: %d", s.ParseWarnings)
	}
}

// printQuickSummary reloads the whole results file, so rows from earlier
// resumed sessions are included
func printQuickSummary(reporter *reporting.DefaultConsoleReporter, output string) error {
	rs, err := data.LoadResults(output)
	if err != nil {
		return err
	}
	reporter.PrintQuickSummary(rs, SummaryMinTrades, SummaryLimit)
	return nil
}
