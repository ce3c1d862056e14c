package backtest

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ducminhle1904/lvn-sweep/pkg/types"
)

const sampleOutput = "Total Trades:   12\nWins:           7\nLosses:         5\nProfit Factor:  1.80\nSharpe Ratio:   1.20\nAvg Win:        25.0\nAvg Loss:       -10.0\nTotal P&L:      +115.0\nMax Drawdown:   $230.00\n"

// TestExtract_SampleOutput tests extraction of a complete evaluator report
func TestExtract_SampleOutput(t *testing.T) {
	m := NewExtractor(nil).Extract(sampleOutput)
	ApplyDerived(&m)

	assert.Equal(t, 12, m.TotalTrades)
	assert.Equal(t, 7, m.Wins)
	assert.Equal(t, 5, m.Losses)
	assert.Equal(t, 0, m.Breakevens)
	assert.InDelta(t, 58.333, m.WinRate, 0.001)
	assert.Equal(t, 1.8, m.ProfitFactor)
	assert.Equal(t, 1.2, m.SharpeRatio)
	assert.Equal(t, 25.0, m.AvgWin)
	assert.Equal(t, -10.0, m.AvgLoss)
	assert.Equal(t, 115.0, m.TotalPnL)
	assert.Equal(t, 230.0, m.MaxDrawdown)
	assert.Equal(t, 2.5, m.RRRatio)
	// 7/12 × 25 − 5/12 × 10
	assert.InDelta(t, 10.41667, m.Expectancy, 1e-4)
}

// TestExtract_EmptyOutput tests that output without metric lines yields a zero record
func TestExtract_EmptyOutput(t *testing.T) {
	report := NewExtractor(nil).Parse("No trades taken\nerror: nothing to do\n")
	assert.Equal(t, types.MetricsRecord{}, report.Metrics)
	assert.Len(t, report.Missing, len(DefaultRules()))
	assert.Empty(t, report.Invalid)

	m := report.Metrics
	ApplyDerived(&m)
	assert.Equal(t, 0.0, m.WinRate)
	assert.Equal(t, 0.0, m.RRRatio)
	assert.Equal(t, 0.0, m.Expectancy)
}

// TestExtract_ThousandsSeparator tests stripping of commas before parsing
func TestExtract_ThousandsSeparator(t *testing.T) {
	m := NewExtractor(nil).Extract("Max Drawdown:   $1,234.50\n")
	assert.Equal(t, 1234.5, m.MaxDrawdown)
}

// TestExtract_FirstMatchWins tests that only the first occurrence is used
func TestExtract_FirstMatchWins(t *testing.T) {
	m := NewExtractor(nil).Extract("Total Trades: 3\n...\nTotal Trades: 9\n")
	assert.Equal(t, 3, m.TotalTrades)
}

// TestExtract_InvalidNumber tests that malformed captures stay zero
func TestExtract_InvalidNumber(t *testing.T) {
	report := NewExtractor(nil).Parse("Profit Factor:  1.2.3\nSharpe Ratio:   -\nTotal Trades: 4\n")
	assert.Equal(t, 0.0, report.Metrics.ProfitFactor)
	assert.Equal(t, 0.0, report.Metrics.SharpeRatio)
	assert.Equal(t, 4, report.Metrics.TotalTrades)
	assert.ElementsMatch(t, []string{types.MetricProfitFactor, types.MetricSharpeRatio}, report.Invalid)
}

// TestExtract_CustomRules tests a swapped rule table
func TestExtract_CustomRules(t *testing.T) {
	rules := []ExtractionRule{
		{types.MetricTotalTrades, regexp.MustCompile(`trades=(\d+)`), types.KindInt},
		{types.MetricWins, regexp.MustCompile(`wins=(\d+)`), types.KindInt},
	}
	m := NewExtractor(rules).Extract("trades=10 wins=4")
	assert.Equal(t, 10, m.TotalTrades)
	assert.Equal(t, 4, m.Wins)
	assert.Equal(t, 40.0, m.WinRate)
}

// TestDefaultRules_FreshCopy tests that callers cannot alter the shared table
func TestDefaultRules_FreshCopy(t *testing.T) {
	a := DefaultRules()
	a[0].Metric = "changed"
	assert.Equal(t, types.MetricTotalTrades, DefaultRules()[0].Metric)
}
