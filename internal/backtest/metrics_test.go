package backtest

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ducminhle1904/lvn-sweep/pkg/types"
)

// TestCalculateRRRatio tests reward/risk with the zero loss guard
func TestCalculateRRRatio(t *testing.T) {
	assert.Equal(t, 2.5, CalculateRRRatio(25, -10))
	assert.Equal(t, 2.5, CalculateRRRatio(25, 10))
	assert.Equal(t, 0.0, CalculateRRRatio(25, 0))
}

// TestCalculateExpectancy tests expectancy with the zero trades guard
func TestCalculateExpectancy(t *testing.T) {
	assert.InDelta(t, 10.41667, CalculateExpectancy(7, 5, 12, 25, -10), 1e-4)
	assert.Equal(t, 0.0, CalculateExpectancy(0, 0, 0, 25, -10))
	// Breakevens dilute both shares
	assert.InDelta(t, 7.5, CalculateExpectancy(2, 1, 4, 20, -10), 1e-9)
}

// TestApplyDerived tests that only derived fields change
func TestApplyDerived(t *testing.T) {
	m := types.MetricsRecord{TotalTrades: 4, Wins: 4, AvgWin: 12, TotalPnL: 48}
	ApplyDerived(&m)

	assert.Equal(t, 0.0, m.RRRatio)
	assert.Equal(t, 12.0, m.Expectancy)
	assert.Equal(t, 48.0, m.TotalPnL)
}
