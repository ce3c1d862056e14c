package types

// Metric column names, in results file order
const (
	MetricTotalTrades  = "total_trades"
	MetricWins         = "wins"
	MetricLosses       = "losses"
	MetricBreakevens   = "breakevens"
	MetricWinRate      = "win_rate"
	MetricProfitFactor = "profit_factor"
	MetricSharpeRatio  = "sharpe_ratio"
	MetricAvgWin       = "avg_win"
	MetricAvgLoss      = "avg_loss"
	MetricTotalPnL     = "total_pnl"
	MetricMaxDrawdown  = "max_drawdown"
	MetricRRRatio      = "rr_ratio"
	MetricExpectancy   = "expectancy"
)

// MetricNames is the fixed column order of the metric part of a result row
var MetricNames = []string{
	MetricTotalTrades,
	MetricWins,
	MetricLosses,
	MetricBreakevens,
	MetricWinRate,
	MetricProfitFactor,
	MetricSharpeRatio,
	MetricAvgWin,
	MetricAvgLoss,
	MetricTotalPnL,
	MetricMaxDrawdown,
	MetricRRRatio,
	MetricExpectancy,
}

// IntMetrics lists the count metrics stored as integers
var IntMetrics = map[string]bool{
	MetricTotalTrades: true,
	MetricWins:        true,
	MetricLosses:      true,
	MetricBreakevens:  true,
}

// IsMetric reports whether name is one of the metric columns
func IsMetric(name string) bool {
	for _, m := range MetricNames {
		if m == name {
			return true
		}
	}
	return false
}

// MetricsRecord holds the performance figures of one trial. A zero record
// is the valid result of a trial whose output carried no metric lines.
type MetricsRecord struct {
	TotalTrades int
	Wins        int
	Losses      int
	Breakevens  int

	WinRate      float64
	ProfitFactor float64
	SharpeRatio  float64
	AvgWin       float64
	AvgLoss      float64
	TotalPnL     float64
	MaxDrawdown  float64

	// Derived, never emitted by the evaluator
	RRRatio    float64
	Expectancy float64
}

// Get returns the metric by column name
func (m MetricsRecord) Get(name string) (float64, bool) {
	switch name {
	case MetricTotalTrades:
		return float64(m.TotalTrades), true
	case MetricWins:
		return float64(m.Wins), true
	case MetricLosses:
		return float64(m.Losses), true
	case MetricBreakevens:
		return float64(m.Breakevens), true
	case MetricWinRate:
		return m.WinRate, true
	case MetricProfitFactor:
		return m.ProfitFactor, true
	case MetricSharpeRatio:
		return m.SharpeRatio, true
	case MetricAvgWin:
		return m.AvgWin, true
	case MetricAvgLoss:
		return m.AvgLoss, true
	case MetricTotalPnL:
		return m.TotalPnL, true
	case MetricMaxDrawdown:
		return m.MaxDrawdown, true
	case MetricRRRatio:
		return m.RRRatio, true
	case MetricExpectancy:
		return m.Expectancy, true
	}
	return 0, false
}

// SetInt assigns a count metric; unknown names are ignored
func (m *MetricsRecord) SetInt(name string, v int) {
	switch name {
	case MetricTotalTrades:
		m.TotalTrades = v
	case MetricWins:
		m.Wins = v
	case MetricLosses:
		m.Losses = v
	case MetricBreakevens:
		m.Breakevens = v
	}
}

// SetFloat assigns a float metric; count metrics are truncated
func (m *MetricsRecord) SetFloat(name string, v float64) {
	if IntMetrics[name] {
		m.SetInt(name, int(v))
		return
	}
	switch name {
	case MetricWinRate:
		m.WinRate = v
	case MetricProfitFactor:
		m.ProfitFactor = v
	case MetricSharpeRatio:
		m.SharpeRatio = v
	case MetricAvgWin:
		m.AvgWin = v
	case MetricAvgLoss:
		m.AvgLoss = v
	case MetricTotalPnL:
		m.TotalPnL = v
	case MetricMaxDrawdown:
		m.MaxDrawdown = v
	case MetricRRRatio:
		m.RRRatio = v
	case MetricExpectancy:
		m.Expectancy = v
	}
}

// Value returns the metric as a typed Value for output
func (m MetricsRecord) Value(name string) Value {
	f, _ := m.Get(name)
	if IntMetrics[name] {
		return Int(int(f))
	}
	return Float(f)
}

// ResultRow is one persisted trial: swept parameters plus metrics
type ResultRow struct {
	Index   int
	Params  ParameterSet
	Metrics MetricsRecord
}

// Lookup returns a metric or a numeric parameter by column name
func (r ResultRow) Lookup(name string) (float64, bool) {
	if v, ok := r.Metrics.Get(name); ok {
		return v, true
	}
	if v, ok := r.Params[name]; ok {
		return v.Float64(), true
	}
	return 0, false
}

// ResultSet is the ordered collection of rows reloaded from a results file
type ResultSet struct {
	ParamNames []string
	Rows       []ResultRow
}

// Len returns the number of rows
func (rs *ResultSet) Len() int {
	if rs == nil {
		return 0
	}
	return len(rs.Rows)
}

// WithRows returns a set sharing the parameter columns but holding rows
func (rs *ResultSet) WithRows(rows []ResultRow) *ResultSet {
	names := make([]string, len(rs.ParamNames))
	copy(names, rs.ParamNames)
	return &ResultSet{ParamNames: names, Rows: rows}
}

// Header returns the results file header: parameter columns then metrics
func Header(paramNames []string) []string {
	h := make([]string, 0, len(paramNames)+len(MetricNames))
	h = append(h, paramNames...)
	h = append(h, MetricNames...)
	return h
}
