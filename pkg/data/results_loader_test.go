package data

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ducminhle1904/lvn-sweep/pkg/reporting"
	"github.com/ducminhle1904/lvn-sweep/pkg/types"
)

// TestRoundTrip tests that stored rows reload with the same values
func TestRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.csv")
	names := []string{"min_delta", "max_lvn_ratio", "min_impulse_size", "breakout_threshold"}

	rows := []types.ResultRow{
		{
			Params: types.ParameterSet{
				"min_delta":          types.Int(25),
				"max_lvn_ratio":      types.Float(0.25),
				"min_impulse_size":   types.Float(20),
				"breakout_threshold": types.Float(2),
			},
			Metrics: types.MetricsRecord{
				TotalTrades: 12, Wins: 7, Losses: 5,
				WinRate: 58.333333333333336, ProfitFactor: 1.8, SharpeRatio: -0.35,
				AvgWin: 25, AvgLoss: -10, TotalPnL: 115, MaxDrawdown: 230,
				RRRatio: 2.5, Expectancy: 10.416666666666668,
			},
		},
		{
			Params: types.ParameterSet{
				"min_delta":          types.Int(40),
				"max_lvn_ratio":      types.Float(0.3),
				"min_impulse_size":   types.Float(25),
				"breakout_threshold": types.Float(3),
			},
		},
	}

	store, err := reporting.CreateResultStore(path, names)
	require.NoError(t, err)
	for _, r := range rows {
		require.NoError(t, store.Append(r))
	}
	require.NoError(t, store.Close())

	rs, err := LoadResults(path)
	require.NoError(t, err)
	assert.Equal(t, names, rs.ParamNames)
	require.Len(t, rs.Rows, 2)

	for i := range rows {
		rows[i].Index = i
	}
	if diff := cmp.Diff(rows, rs.Rows); diff != "" {
		t.Errorf("reloaded rows differ (-want +got):\n%s", diff)
	}
}

// TestReadResults_Coercion tests typing of parameter columns
func TestReadResults_Coercion(t *testing.T) {
	input := "min_delta,max_lvn_ratio,cache_dir,stop_buffer,total_trades,profit_factor\n" +
		"15,0.20,cache_2025,,14,2\n"

	rs, err := ReadResults(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, rs.Rows, 1)

	p := rs.Rows[0].Params
	assert.Equal(t, types.Int(15), p["min_delta"])
	assert.Equal(t, types.Float(0.2), p["max_lvn_ratio"])
	assert.Equal(t, types.Text("cache_2025"), p["cache_dir"])
	assert.Equal(t, types.Int(0), p["stop_buffer"])

	m := rs.Rows[0].Metrics
	assert.Equal(t, 14, m.TotalTrades)
	assert.Equal(t, 2.0, m.ProfitFactor)
}

// TestReadResults_SkipsBadRows tests that malformed rows are dropped
func TestReadResults_SkipsBadRows(t *testing.T) {
	input := "min_delta,total_trades,total_pnl\n" +
		"10,5,12.5\n" +
		"20,n/a,3.0\n" +
		"30,7\n" +
		"40,9,-4.0\n"

	rs, err := ReadResults(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, rs.Rows, 2)
	assert.Equal(t, types.Int(10), rs.Rows[0].Params["min_delta"])
	assert.Equal(t, types.Int(40), rs.Rows[1].Params["min_delta"])
	assert.Equal(t, 1, rs.Rows[1].Index)
}

// TestLoadResults_EmptyAndMissing tests the header-only and missing file cases
func TestLoadResults_EmptyAndMissing(t *testing.T) {
	dir := t.TempDir()

	headerOnly := filepath.Join(dir, "header.csv")
	require.NoError(t, os.WriteFile(headerOnly, []byte(strings.Join(types.Header([]string{"min_delta"}), ",")+"\n"), 0644))
	rs, err := LoadResults(headerOnly)
	require.NoError(t, err)
	assert.Equal(t, 0, rs.Len())
	assert.Equal(t, []string{"min_delta"}, rs.ParamNames)

	empty := filepath.Join(dir, "empty.csv")
	require.NoError(t, os.WriteFile(empty, nil, 0644))
	rs, err = LoadResults(empty)
	require.NoError(t, err)
	assert.Equal(t, 0, rs.Len())

	_, err = LoadResults(filepath.Join(dir, "missing.csv"))
	assert.Error(t, err)
}

// TestCoerceValue tests individual field typing
func TestCoerceValue(t *testing.T) {
	assert.Equal(t, types.Float(1.5), CoerceValue("x", "1.5"))
	assert.Equal(t, types.Float(3), CoerceValue(types.MetricTotalPnL, "3"))
	assert.Equal(t, types.Float(0), CoerceValue(types.MetricTotalPnL, ""))
	assert.Equal(t, types.Int(-7), CoerceValue("x", "-7"))
	assert.Equal(t, types.Text("1.2.3"), CoerceValue("x", "1.2.3"))
	assert.Equal(t, types.Text("abc"), CoerceValue("x", "abc"))
}
