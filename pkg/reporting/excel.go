package reporting

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/ducminhle1904/lvn-sweep/pkg/types"
)

const (
	sheetResults = "Results"
	sheetImpact  = "Parameter Impact"
	sheetRobust  = "Robust"
)

// DefaultExcelReporter implements Excel output functionality
type DefaultExcelReporter struct{}

// NewDefaultExcelReporter creates a new Excel reporter
func NewDefaultExcelReporter() *DefaultExcelReporter {
	return &DefaultExcelReporter{}
}

// WriteResultsXLSX writes every row to a Results sheet. With a report it
// also writes Parameter Impact and Robust sheets.
func (r *DefaultExcelReporter) WriteResultsXLSX(rs *types.ResultSet, report *AnalysisReport, path string) error {
	if rs == nil {
		return fmt.Errorf("no results to export")
	}
	if err := ensureParentDir(path); err != nil {
		return err
	}

	fx := excelize.NewFile()
	defer fx.Close()

	styles, err := r.createExcelStyles(fx)
	if err != nil {
		return fmt.Errorf("failed to create styles: %w", err)
	}

	if err := fx.SetSheetName("Sheet1", sheetResults); err != nil {
		return err
	}
	if err := r.writeRowsSheet(fx, sheetResults, rs.ParamNames, rs.Rows, styles); err != nil {
		return err
	}

	if report != nil {
		if _, err := fx.NewSheet(sheetImpact); err != nil {
			return err
		}
		if err := r.writeImpactSheet(fx, report, styles); err != nil {
			return err
		}
		if _, err := fx.NewSheet(sheetRobust); err != nil {
			return err
		}
		if err := r.writeRowsSheet(fx, sheetRobust, rs.ParamNames, report.Robust.Rows, styles); err != nil {
			return err
		}
	}

	return fx.SaveAs(path)
}

func (r *DefaultExcelReporter) createExcelStyles(fx *excelize.File) (ExcelStyles, error) {
	var styles ExcelStyles
	var err error

	border := []excelize.Border{
		{Type: "left", Color: "E0E0E0", Style: 1},
		{Type: "right", Color: "E0E0E0", Style: 1},
		{Type: "bottom", Color: "E0E0E0", Style: 1},
	}

	// Header style - Dark slate background with white text
	styles.HeaderStyle, err = fx.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11, Color: "FFFFFF", Family: "Calibri"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"2F4F4F"}, Pattern: 1},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})
	if err != nil {
		return styles, err
	}

	styles.BaseStyle, err = fx.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "left"},
		Border:    border,
	})
	if err != nil {
		return styles, err
	}

	styles.NumberStyle, err = fx.NewStyle(&excelize.Style{
		NumFmt:    2, // 0.00
		Alignment: &excelize.Alignment{Horizontal: "right"},
		Border:    border,
	})
	if err != nil {
		return styles, err
	}

	styles.PercentStyle, err = fx.NewStyle(&excelize.Style{
		CustomNumFmt: strPtr(`0.0"%"`),
		Alignment:    &excelize.Alignment{Horizontal: "right"},
		Border:       border,
	})
	if err != nil {
		return styles, err
	}

	styles.GainStyle, err = fx.NewStyle(&excelize.Style{
		NumFmt:    7,
		Font:      &excelize.Font{Color: "006100"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"C6EFCE"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "right"},
		Border:    border,
	})
	if err != nil {
		return styles, err
	}

	styles.LossStyle, err = fx.NewStyle(&excelize.Style{
		NumFmt:    7,
		Font:      &excelize.Font{Color: "9C0006"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"FFC7CE"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "right"},
		Border:    border,
	})
	if err != nil {
		return styles, err
	}

	styles.TitleStyle, err = fx.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 12, Color: "2F4F4F"},
	})
	return styles, err
}

// writeRowsSheet writes parameter and metric columns with a frozen header
func (r *DefaultExcelReporter) writeRowsSheet(fx *excelize.File, sheet string, paramNames []string, rows []types.ResultRow, styles ExcelStyles) error {
	header := types.Header(paramNames)
	if err := r.writeHeader(fx, sheet, header, styles); err != nil {
		return err
	}

	for i, row := range rows {
		excelRow := i + 2
		values := make([]interface{}, 0, len(header))
		for _, name := range paramNames {
			values = append(values, cellValue(row.Params[name]))
		}
		for _, name := range types.MetricNames {
			values = append(values, cellValue(row.Metrics.Value(name)))
		}
		cell, _ := excelize.CoordinatesToCellName(1, excelRow)
		if err := fx.SetSheetRow(sheet, cell, &values); err != nil {
			return err
		}

		for col, name := range header {
			cell, _ := excelize.CoordinatesToCellName(col+1, excelRow)
			fx.SetCellStyle(sheet, cell, cell, r.metricStyle(name, row, styles))
		}
	}

	return fx.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

func (r *DefaultExcelReporter) writeImpactSheet(fx *excelize.File, report *AnalysisReport, styles ExcelStyles) error {
	header := []string{"Parameter", "Value", "Count", "Avg PF", "Avg P&L", "Std P&L", "Avg Sharpe", "Avg Trades"}
	if err := r.writeHeader(fx, sheetImpact, header, styles); err != nil {
		return err
	}

	excelRow := 2
	for _, pi := range report.Impact {
		for _, g := range pi.Groups {
			values := []interface{}{pi.Param, cellValue(g.Value), g.Count, g.AvgPF, g.AvgPnL, g.StdPnL, g.AvgSharpe, g.AvgTrades}
			cell, _ := excelize.CoordinatesToCellName(1, excelRow)
			if err := fx.SetSheetRow(sheetImpact, cell, &values); err != nil {
				return err
			}
			first, _ := excelize.CoordinatesToCellName(4, excelRow)
			last, _ := excelize.CoordinatesToCellName(len(header), excelRow)
			fx.SetCellStyle(sheetImpact, first, last, styles.NumberStyle)
			pnl, _ := excelize.CoordinatesToCellName(5, excelRow)
			fx.SetCellStyle(sheetImpact, pnl, pnl, pnlStyle(g.AvgPnL, styles))
			excelRow++
		}
	}
	return nil
}

func (r *DefaultExcelReporter) writeHeader(fx *excelize.File, sheet string, header []string, styles ExcelStyles) error {
	for i, h := range header {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := fx.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
		col, _ := excelize.ColumnNumberToName(i + 1)
		fx.SetColWidth(sheet, col, col, float64(max(12, len(h)+2)))
	}
	last, _ := excelize.CoordinatesToCellName(len(header), 1)
	return fx.SetCellStyle(sheet, "A1", last, styles.HeaderStyle)
}

func (r *DefaultExcelReporter) metricStyle(name string, row types.ResultRow, styles ExcelStyles) int {
	switch {
	case name == types.MetricTotalPnL:
		return pnlStyle(row.Metrics.TotalPnL, styles)
	case name == types.MetricWinRate:
		return styles.PercentStyle
	case types.IsMetric(name) && !types.IntMetrics[name]:
		return styles.NumberStyle
	default:
		return styles.BaseStyle
	}
}

func pnlStyle(v float64, styles ExcelStyles) int {
	if v < 0 {
		return styles.LossStyle
	}
	return styles.GainStyle
}

// cellValue converts a Value to the native type excelize stores
func cellValue(v types.Value) interface{} {
	switch v.Kind {
	case types.KindInt:
		return v.Int
	case types.KindFloat:
		return v.Float
	default:
		return v.Text
	}
}

func strPtr(s string) *string { return &s }

// WriteResultsXLSX is the package-level convenience wrapper
func WriteResultsXLSX(rs *types.ResultSet, report *AnalysisReport, path string) error {
	return NewDefaultExcelReporter().WriteResultsXLSX(rs, report, path)
}
