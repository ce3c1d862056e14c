package types

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestFormatFloat tests that floats always keep a decimal point
func TestFormatFloat(t *testing.T) {
	tests := []struct {
		name     string
		value    float64
		expected string
	}{
		{"whole", 2, "2.0"},
		{"zero", 0, "0.0"},
		{"negative whole", -15, "-15.0"},
		{"fraction", 0.25, "0.25"},
		{"shortest form", 0.1 + 0.2, "0.30000000000000004"},
		{"large", 50000, "50000.0"},
		{"nan", math.NaN(), "NaN"},
		{"positive inf", math.Inf(1), "+Inf"},
		{"negative inf", math.Inf(-1), "-Inf"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatFloat(tt.value))
		})
	}
}

// TestValueString tests command line rendering per kind
func TestValueString(t *testing.T) {
	assert.Equal(t, "25", Int(25).String())
	assert.Equal(t, "2.0", Float(2).String())
	assert.Equal(t, "0.2", Float(0.2).String())
	assert.Equal(t, "cache_2025", Text("cache_2025").String())
	assert.Equal(t, "0", Value{}.String())
}

// TestValueFloat64 tests numeric conversion including text fallback
func TestValueFloat64(t *testing.T) {
	assert.Equal(t, 25.0, Int(25).Float64())
	assert.Equal(t, 0.25, Float(0.25).Float64())
	assert.Equal(t, 1.5, Text(" 1.5 ").Float64())
	assert.Equal(t, 0.0, Text("auto").Float64())

	assert.True(t, Int(1).IsNumeric())
	assert.True(t, Float(1).IsNumeric())
	assert.False(t, Text("1").IsNumeric())
}

// TestValueEqual tests that equality includes the kind
func TestValueEqual(t *testing.T) {
	assert.True(t, Int(20).Equal(Int(20)))
	assert.True(t, Float(0.2).Equal(Float(0.2)))
	assert.True(t, Text("a").Equal(Text("a")))
	assert.False(t, Int(20).Equal(Float(20)))
	assert.False(t, Int(20).Equal(Int(21)))
}

// TestValueLess tests numeric ordering across kinds and the text fallback
func TestValueLess(t *testing.T) {
	assert.True(t, Int(2).Less(Float(2.5)))
	assert.False(t, Float(3).Less(Int(2)))
	assert.False(t, Int(2).Less(Float(2)))
	assert.True(t, Int(9).Less(Int(10)), "numeric, not lexical")

	assert.True(t, Int(1).Less(Text("a")))
	assert.True(t, Text("a").Less(Text("b")))
	assert.False(t, Text("b").Less(Text("a")))
}

// TestParameterSetMerge tests that the receiver wins over the base
func TestParameterSetMerge(t *testing.T) {
	base := ParameterSet{"take_profit": Int(99), "contracts": Int(1)}
	swept := ParameterSet{"take_profit": Int(25), "min_delta": Int(10)}

	merged := swept.Merge(base)
	assert.Equal(t, ParameterSet{
		"take_profit": Int(25),
		"contracts":   Int(1),
		"min_delta":   Int(10),
	}, merged)

	// Inputs are untouched
	assert.Equal(t, Int(99), base["take_profit"])
	assert.Len(t, swept, 2)

	merged["contracts"] = Int(3)
	assert.Equal(t, Int(1), base["contracts"])
}

// TestParameterSetHelpers tests Clone, Keys, Get and Describe
func TestParameterSetHelpers(t *testing.T) {
	p := ParameterSet{"b": Float(0.5), "a": Int(1), "c": Text("x")}

	clone := p.Clone()
	clone["a"] = Int(2)
	assert.Equal(t, Int(1), p["a"])

	assert.Equal(t, []string{"a", "b", "c"}, p.Keys())

	v, ok := p.Get("b")
	require.True(t, ok)
	assert.Equal(t, Float(0.5), v)
	_, ok = p.Get("missing")
	assert.False(t, ok)

	assert.Equal(t, "c=x a=1 b=0.5", p.Describe([]string{"c", "missing", "a", "b"}))
}

// TestMetricsRecord tests access by column name
func TestMetricsRecord(t *testing.T) {
	var m MetricsRecord
	m.SetInt(MetricTotalTrades, 12)
	m.SetFloat(MetricWins, 7.9)
	m.SetFloat(MetricTotalPnL, 1500)
	m.SetInt("unknown", 3)

	assert.Equal(t, 12, m.TotalTrades)
	assert.Equal(t, 7, m.Wins, "count metrics are truncated")

	v, ok := m.Get(MetricTotalPnL)
	require.True(t, ok)
	assert.Equal(t, 1500.0, v)
	_, ok = m.Get("unknown")
	assert.False(t, ok)

	assert.Equal(t, Int(12), m.Value(MetricTotalTrades))
	assert.Equal(t, "1500.0", m.Value(MetricTotalPnL).String())
}

// TestResultRowLookup tests metric then parameter lookup
func TestResultRowLookup(t *testing.T) {
	row := ResultRow{
		Params:  ParameterSet{"min_delta": Int(25)},
		Metrics: MetricsRecord{SharpeRatio: 1.25},
	}

	v, ok := row.Lookup(MetricSharpeRatio)
	require.True(t, ok)
	assert.Equal(t, 1.25, v)

	v, ok = row.Lookup("min_delta")
	require.True(t, ok)
	assert.Equal(t, 25.0, v)

	_, ok = row.Lookup("missing")
	assert.False(t, ok)
}

// TestHeader tests parameter columns followed by metrics
func TestHeader(t *testing.T) {
	h := Header([]string{"min_delta", "take_profit"})
	require.Len(t, h, 2+len(MetricNames))
	assert.Equal(t, "min_delta", h[0])
	assert.Equal(t, "take_profit", h[1])
	assert.Equal(t, MetricTotalTrades, h[2])
	assert.Equal(t, MetricExpectancy, h[len(h)-1])

	assert.True(t, IsMetric(MetricRRRatio))
	assert.False(t, IsMetric("min_delta"))
	assert.Equal(t, 0, (*ResultSet)(nil).Len())
}
