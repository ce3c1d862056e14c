// Package analysis ranks, filters and summarizes reloaded sweep results.
// No function modifies the result set it is given.
package analysis

import (
	"sort"

	"github.com/ducminhle1904/lvn-sweep/pkg/types"
)

// Filter keeps rows with at least minTrades trades and a profit factor of
// at least minPF
func Filter(rs *types.ResultSet, minTrades int, minPF float64) *types.ResultSet {
	return Select(rs, func(r types.ResultRow) bool {
		return r.Metrics.TotalTrades >= minTrades && r.Metrics.ProfitFactor >= minPF
	})
}

// Select keeps the rows matching keep, preserving order
func Select(rs *types.ResultSet, keep func(types.ResultRow) bool) *types.ResultSet {
	if rs == nil {
		return &types.ResultSet{}
	}
	rows := make([]types.ResultRow, 0, len(rs.Rows))
	for _, r := range rs.Rows {
		if keep(r) {
			rows = append(rows, r)
		}
	}
	return rs.WithRows(rows)
}

// Rank sorts by a metric or numeric parameter column. The sort is stable;
// rows without the key sort as 0.
func Rank(rs *types.ResultSet, key string, descending bool) *types.ResultSet {
	if rs == nil {
		return &types.ResultSet{}
	}
	rows := make([]types.ResultRow, len(rs.Rows))
	copy(rows, rs.Rows)

	sort.SliceStable(rows, func(i, j int) bool {
		a, _ := rows[i].Lookup(key)
		b, _ := rows[j].Lookup(key)
		if descending {
			return a > b
		}
		return a < b
	})
	return rs.WithRows(rows)
}

// Top returns at most n rows from the front of the set
func Top(rs *types.ResultSet, n int) []types.ResultRow {
	if rs == nil || n <= 0 {
		return nil
	}
	if n > len(rs.Rows) {
		n = len(rs.Rows)
	}
	return rs.Rows[:n]
}

// IsKnownKey reports whether key names a metric or a parameter column
func IsKnownKey(rs *types.ResultSet, key string) bool {
	if types.IsMetric(key) {
		return true
	}
	if rs == nil {
		return false
	}
	for _, p := range rs.ParamNames {
		if p == key {
			return true
		}
	}
	return false
}
