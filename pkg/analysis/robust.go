package analysis

import (
	"github.com/ducminhle1904/lvn-sweep/pkg/types"
)

// RobustCriteria holds the thresholds for robust configurations. Strict
// thresholds are exclusive except MinTrades; the relaxed tier is used only
// when the strict tier selects nothing.
type RobustCriteria struct {
	MinTrades int
	MinPF     float64
	MinSharpe float64

	RelaxedMinTrades int
	RelaxedMinPF     float64
	RelaxedMinPnL    float64

	Limit int
}

// DefaultRobustCriteria returns PF > 1.5, Sharpe > 1.0, trades >= 20, with
// a fallback of PF > 1.2, P&L > 0, trades >= 10, showing at most 10
func DefaultRobustCriteria() RobustCriteria {
	return RobustCriteria{
		MinTrades:        20,
		MinPF:            1.5,
		MinSharpe:        1.0,
		RelaxedMinTrades: 10,
		RelaxedMinPF:     1.2,
		RelaxedMinPnL:    0,
		Limit:            10,
	}
}

// RobustSelection is the outcome of FindRobust
type RobustSelection struct {
	Rows []types.ResultRow
	// Relaxed is set when the fallback tier produced Rows
	Relaxed bool
	// Matched counts qualifying rows before the limit was applied
	Matched  int
	Criteria RobustCriteria
}

// Strict reports whether a row passes the strict tier
func (c RobustCriteria) Strict(r types.ResultRow) bool {
	return r.Metrics.TotalTrades >= c.MinTrades &&
		r.Metrics.ProfitFactor > c.MinPF &&
		r.Metrics.SharpeRatio > c.MinSharpe
}

// Loose reports whether a row passes the relaxed tier
func (c RobustCriteria) Loose(r types.ResultRow) bool {
	return r.Metrics.TotalTrades >= c.RelaxedMinTrades &&
		r.Metrics.ProfitFactor > c.RelaxedMinPF &&
		r.Metrics.TotalPnL > c.RelaxedMinPnL
}

// FindRobust selects robust configurations ranked by Sharpe ratio. When
// no row passes the strict tier the relaxed tier is tried instead.
func FindRobust(rs *types.ResultSet, c RobustCriteria) RobustSelection {
	sel := RobustSelection{Criteria: c}

	picked := Select(rs, c.Strict)
	if picked.Len() == 0 {
		picked = Select(rs, c.Loose)
		sel.Relaxed = picked.Len() > 0
	}

	sel.Matched = picked.Len()
	ranked := Rank(picked, types.MetricSharpeRatio, true)
	limit := c.Limit
	if limit <= 0 {
		limit = ranked.Len()
	}
	sel.Rows = Top(ranked, limit)
	return sel
}
