package analysis

import (
	"github.com/ducminhle1904/lvn-sweep/pkg/types"
)

// BestMinTrades is the trade count required for the best-by-PF and
// best-by-Sharpe picks
const BestMinTrades = 10

// Summary holds the overall statistics of a result set. Nil Best fields
// mean no row qualified.
type Summary struct {
	Total         int
	Profitable    int
	ProfitablePct float64
	WithTrades    int
	WithTradesPct float64

	BestByPnL    *types.ResultRow
	BestByPF     *types.ResultRow
	BestBySharpe *types.ResultRow
}

// Summarize computes overall statistics. Best picks come from profitable
// rows; the PF and Sharpe picks also require BestMinTrades trades. Ties
// keep the earliest row.
func Summarize(rs *types.ResultSet) Summary {
	s := Summary{Total: rs.Len()}
	if s.Total == 0 {
		return s
	}

	var profitable []types.ResultRow
	for _, r := range rs.Rows {
		if r.Metrics.TotalPnL > 0 {
			profitable = append(profitable, r)
		}
		if r.Metrics.TotalTrades > 0 {
			s.WithTrades++
		}
	}
	s.Profitable = len(profitable)
	s.ProfitablePct = float64(s.Profitable) / float64(s.Total) * 100
	s.WithTradesPct = float64(s.WithTrades) / float64(s.Total) * 100

	s.BestByPnL = best(profitable, 0, types.MetricTotalPnL)
	s.BestByPF = best(profitable, BestMinTrades, types.MetricProfitFactor)
	s.BestBySharpe = best(profitable, BestMinTrades, types.MetricSharpeRatio)
	return s
}

func best(rows []types.ResultRow, minTrades int, key string) *types.ResultRow {
	var top *types.ResultRow
	var topVal float64
	for i := range rows {
		if rows[i].Metrics.TotalTrades < minTrades {
			continue
		}
		v, _ := rows[i].Lookup(key)
		if top == nil || v > topVal {
			r := rows[i]
			top = &r
			topVal = v
		}
	}
	return top
}

// TopProfitable returns profitable rows with at least minTrades trades,
// best Sharpe first, capped at limit, plus the uncapped count
func TopProfitable(rs *types.ResultSet, minTrades, limit int) ([]types.ResultRow, int) {
	picked := Select(rs, func(r types.ResultRow) bool {
		return r.Metrics.TotalPnL > 0 && r.Metrics.TotalTrades >= minTrades
	})
	return Top(Rank(picked, types.MetricSharpeRatio, true), limit), picked.Len()
}
