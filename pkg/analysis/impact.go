package analysis

import (
	"sort"
	"strconv"

	"gonum.org/v1/gonum/stat"

	"github.com/ducminhle1904/lvn-sweep/pkg/types"
)

// ImpactParams are the swept parameters reported in the impact section
var ImpactParams = []string{
	"min_delta",
	"max_lvn_ratio",
	"min_impulse_score",
	"take_profit",
	"trailing_stop",
	"stop_buffer",
	"breakout_threshold",
	"max_hunting_bars",
}

// GroupStats aggregates the rows sharing one parameter value
type GroupStats struct {
	Value     types.Value
	Count     int
	AvgPF     float64
	AvgPnL    float64
	StdPnL    float64
	AvgSharpe float64
	AvgTrades float64
}

// ParameterImpact is the grouping of one parameter
type ParameterImpact struct {
	Param  string
	Groups []GroupStats
}

// GroupByParameter groups rows with at least minTrades trades by the value
// of param. Numerically equal values form one group, labelled by the first
// value seen. Groups are ordered by value; rows lacking param are ignored.
func GroupByParameter(rs *types.ResultSet, param string, minTrades int) []GroupStats {
	if rs == nil {
		return nil
	}

	type bucket struct {
		value                   types.Value
		pf, pnl, sharpe, trades []float64
	}
	buckets := make(map[string]*bucket)

	for _, r := range rs.Rows {
		if r.Metrics.TotalTrades < minTrades {
			continue
		}
		v, ok := r.Params[param]
		if !ok {
			continue
		}
		key := groupKey(v)
		b := buckets[key]
		if b == nil {
			b = &bucket{value: v}
			buckets[key] = b
		}
		b.pf = append(b.pf, r.Metrics.ProfitFactor)
		b.pnl = append(b.pnl, r.Metrics.TotalPnL)
		b.sharpe = append(b.sharpe, r.Metrics.SharpeRatio)
		b.trades = append(b.trades, float64(r.Metrics.TotalTrades))
	}

	groups := make([]GroupStats, 0, len(buckets))
	for _, b := range buckets {
		g := GroupStats{
			Value:     b.value,
			Count:     len(b.pnl),
			AvgPF:     stat.Mean(b.pf, nil),
			AvgPnL:    stat.Mean(b.pnl, nil),
			AvgSharpe: stat.Mean(b.sharpe, nil),
			AvgTrades: stat.Mean(b.trades, nil),
		}
		if len(b.pnl) > 1 {
			g.StdPnL = stat.StdDev(b.pnl, nil)
		}
		groups = append(groups, g)
	}

	sort.Slice(groups, func(i, j int) bool {
		return groups[i].Value.Less(groups[j].Value)
	})
	return groups
}

// groupKey merges numerically equal values, so 20 and 20.0 share a group
func groupKey(v types.Value) string {
	if v.IsNumeric() {
		return "n:" + strconv.FormatFloat(v.Float64(), 'g', -1, 64)
	}
	return "t:" + v.Text
}

// AnalyzeImpact groups by every impact parameter present in the set
func AnalyzeImpact(rs *types.ResultSet, params []string, minTrades int) []ParameterImpact {
	if rs == nil {
		return nil
	}
	present := make(map[string]bool, len(rs.ParamNames))
	for _, p := range rs.ParamNames {
		present[p] = true
	}

	var impacts []ParameterImpact
	for _, p := range params {
		if !present[p] {
			continue
		}
		impacts = append(impacts, ParameterImpact{Param: p, Groups: GroupByParameter(rs, p, minTrades)})
	}
	return impacts
}
