package backtest

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/ducminhle1904/lvn-sweep/pkg/types"
)

// ExtractionRule pulls one metric out of evaluator output from the first
// capture group of Pattern
type ExtractionRule struct {
	Metric  string
	Pattern *regexp.Regexp
	Kind    types.ValueKind
}

// DefaultRules returns a fresh copy of the evaluator's output contract
func DefaultRules() []ExtractionRule {
	return []ExtractionRule{
		{types.MetricTotalTrades, regexp.MustCompile(`Total Trades:\s+(\d+)`), types.KindInt},
		{types.MetricWins, regexp.MustCompile(`Wins:\s+(\d+)`), types.KindInt},
		{types.MetricLosses, regexp.MustCompile(`Losses:\s+(\d+)`), types.KindInt},
		{types.MetricBreakevens, regexp.MustCompile(`Breakevens:\s+(\d+)`), types.KindInt},
		{types.MetricProfitFactor, regexp.MustCompile(`Profit Factor:\s+([\d.]+)`), types.KindFloat},
		{types.MetricSharpeRatio, regexp.MustCompile(`Sharpe Ratio:\s+([-\d.]+)`), types.KindFloat},
		{types.MetricAvgWin, regexp.MustCompile(`Avg Win:\s+([\d.]+)`), types.KindFloat},
		{types.MetricAvgLoss, regexp.MustCompile(`Avg Loss:\s+([-\d.]+)`), types.KindFloat},
		{types.MetricTotalPnL, regexp.MustCompile(`Total P&L:\s+([+-]?[\d.]+)`), types.KindFloat},
		{types.MetricMaxDrawdown, regexp.MustCompile(`Max Drawdown:\s+\$([\d,.]+)`), types.KindFloat},
	}
}

// ExtractionReport is a MetricsRecord plus what could not be read
type ExtractionReport struct {
	Metrics types.MetricsRecord
	// Missing lists metrics with no matching line
	Missing []string
	// Invalid lists metrics whose captured text did not parse
	Invalid []string
}

// Extractor converts evaluator output into metrics
type Extractor struct {
	rules []ExtractionRule
}

// NewExtractor creates an extractor; nil rules selects DefaultRules
func NewExtractor(rules []ExtractionRule) *Extractor {
	if rules == nil {
		rules = DefaultRules()
	}
	return &Extractor{rules: rules}
}

// Extract returns the metrics found in output. Anything absent or
// unparsable stays zero.
func (e *Extractor) Extract(output string) types.MetricsRecord {
	return e.Parse(output).Metrics
}

// Parse extracts metrics and reports what was missing or malformed
func (e *Extractor) Parse(output string) ExtractionReport {
	var report ExtractionReport

	for _, rule := range e.rules {
		m := rule.Pattern.FindStringSubmatch(output)
		if len(m) < 2 {
			report.Missing = append(report.Missing, rule.Metric)
			continue
		}
		raw := strings.ReplaceAll(m[1], ",", "")

		switch rule.Kind {
		case types.KindInt:
			v, err := strconv.Atoi(raw)
			if err != nil {
				report.Invalid = append(report.Invalid, rule.Metric)
				continue
			}
			report.Metrics.SetInt(rule.Metric, v)
		default:
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				report.Invalid = append(report.Invalid, rule.Metric)
				continue
			}
			report.Metrics.SetFloat(rule.Metric, v)
		}
	}

	if report.Metrics.TotalTrades > 0 {
		report.Metrics.WinRate = float64(report.Metrics.Wins) / float64(report.Metrics.TotalTrades) * 100
	}

	return report
}
