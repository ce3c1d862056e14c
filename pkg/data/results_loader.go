package data

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/ducminhle1904/lvn-sweep/pkg/types"
)

// floatColumns are always read as floats, whatever their text looks like
var floatColumns = map[string]bool{
	types.MetricProfitFactor: true,
	types.MetricSharpeRatio:  true,
	types.MetricAvgWin:       true,
	types.MetricAvgLoss:      true,
	types.MetricTotalPnL:     true,
	types.MetricMaxDrawdown:  true,
	types.MetricRRRatio:      true,
	types.MetricExpectancy:   true,
	types.MetricWinRate:      true,
}

// LoadResults reads a sweep results file into a typed result set
func LoadResults(path string) (*types.ResultSet, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open results file: %w", err)
	}
	defer file.Close()

	return ReadResults(file)
}

// ReadResults parses results CSV from r. Rows with the wrong number of
// fields or an unparsable metric are logged and skipped.
func ReadResults(r io.Reader) (*types.ResultSet, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return &types.ResultSet{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error reading results header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	rs := &types.ResultSet{}
	for _, name := range header {
		if !types.IsMetric(name) {
			rs.ParamNames = append(rs.ParamNames, name)
		}
	}

	lineNum := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		lineNum++
		if err != nil {
			log.Printf("⚠️ Unreadable row at line %d, skipping: %v", lineNum, err)
			continue
		}

		if len(record) != len(header) {
			log.Printf("⚠️ Row at line %d has %d fields (expected %d), skipping", lineNum, len(record), len(header))
			continue
		}

		row, err := parseRow(header, record)
		if err != nil {
			log.Printf("⚠️ Invalid row at line %d, skipping: %v", lineNum, err)
			continue
		}
		row.Index = len(rs.Rows)
		rs.Rows = append(rs.Rows, row)
	}

	return rs, nil
}

func parseRow(header, record []string) (types.ResultRow, error) {
	row := types.ResultRow{Params: make(types.ParameterSet, len(header))}

	for i, name := range header {
		raw := strings.TrimSpace(record[i])

		if types.IsMetric(name) {
			v, err := coerceMetric(name, raw)
			if err != nil {
				return types.ResultRow{}, fmt.Errorf("%s=%q: %w", name, raw, err)
			}
			row.Metrics.SetFloat(name, v)
			continue
		}
		row.Params[name] = CoerceValue(name, raw)
	}
	return row, nil
}

func coerceMetric(name, raw string) (float64, error) {
	if raw == "" {
		return 0, nil
	}
	if floatColumns[name] || strings.Contains(raw, ".") {
		return strconv.ParseFloat(raw, 64)
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, err
	}
	return float64(v), nil
}

// CoerceValue types a raw field: known float columns and text containing
// a decimal point become floats, other numbers ints, and anything else
// stays text. Empty fields are zero.
func CoerceValue(name, raw string) types.Value {
	isFloat := floatColumns[name] || strings.Contains(raw, ".")
	if raw == "" {
		if isFloat {
			return types.Float(0)
		}
		return types.Int(0)
	}
	if isFloat {
		if f, err := strconv.ParseFloat(raw, 64); err == nil {
			return types.Float(f)
		}
		return types.Text(raw)
	}
	if i, err := strconv.Atoi(raw); err == nil {
		return types.Int(i)
	}
	return types.Text(raw)
}
