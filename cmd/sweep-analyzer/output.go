package main

import (
	"errors"

	"github.com/ducminhle1904/lvn-sweep/cmd/common"
	sweeperrors "github.com/ducminhle1904/lvn-sweep/internal/errors"
	"github.com/ducminhle1904/lvn-sweep/pkg/reporting"
)

// writeExports writes every requested export file
func writeExports(console *common.Logger, reporter reporting.FileReporter, report *reporting.AnalysisReport, flags *AnalyzerFlags) error {
	if path := *flags.XLSX; path != "" {
		if err := reporter.WriteResultsXLSX(report.Results, report, path); err != nil {
			return sweeperrors.NewStoreError("analyzer", "write xlsx", err)
		}
		console.Success("Workbook written to %s", path)
	}

	if path := *flags.JSON; path != "" {
		err := reporter.WriteBestConfigJSON(report, path)
		switch {
		case errors.Is(err, reporting.ErrNoQualifyingResults):
			console.Warn("No robust configuration to write to %s", path)
		case err != nil:
			return sweeperrors.NewStoreError("analyzer", "write json", err)
		default:
			console.Success("Best configuration written to %s", path)
		}
	}

	if path := *flags.SQLite; path != "" {
		if err := reporter.WriteResultsSQLite(report.Results, report, path); err != nil {
			return sweeperrors.NewStoreError("analyzer", "write sqlite", err)
		}
		console.Success("SQLite export written to %s", path)
	}
	return nil
}
