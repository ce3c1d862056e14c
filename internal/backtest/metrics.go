package backtest

import (
	"math"

	"github.com/ducminhle1904/lvn-sweep/pkg/types"
)

// ApplyDerived fills the reward/risk ratio and expectancy from the
// extracted figures. Both are zero when their denominator is zero.
func ApplyDerived(m *types.MetricsRecord) {
	m.RRRatio = CalculateRRRatio(m.AvgWin, m.AvgLoss)
	m.Expectancy = CalculateExpectancy(m.Wins, m.Losses, m.TotalTrades, m.AvgWin, m.AvgLoss)
}

// CalculateRRRatio returns |avgWin / avgLoss|
func CalculateRRRatio(avgWin, avgLoss float64) float64 {
	if avgLoss == 0 {
		return 0
	}
	return math.Abs(avgWin / avgLoss)
}

// CalculateExpectancy returns the expected P&L per trade:
// win share × avg win − loss share × |avg loss|
func CalculateExpectancy(wins, losses, total int, avgWin, avgLoss float64) float64 {
	if total <= 0 {
		return 0
	}
	n := float64(total)
	return float64(wins)/n*avgWin - float64(losses)/n*math.Abs(avgLoss)
}
