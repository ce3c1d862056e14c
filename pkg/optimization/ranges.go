package optimization

import (
	"fmt"
	"strings"

	"github.com/ducminhle1904/lvn-sweep/pkg/types"
)

// DefaultCacheDir is the evaluator's tick cache used when none is configured
const DefaultCacheDir = "cache_2025"

func ints(vs ...int) []types.Value {
	out := make([]types.Value, len(vs))
	for i, v := range vs {
		out[i] = types.Int(v)
	}
	return out
}

func floats(vs ...float64) []types.Value {
	out := make([]types.Value, len(vs))
	for i, v := range vs {
		out[i] = types.Float(v)
	}
	return out
}

// FullRanges returns the exhaustive grid
func FullRanges() ParamRanges {
	return ParamRanges{
		// Signal
		{Name: "min_delta", Values: ints(10, 15, 20, 25, 30, 40, 50)},
		{Name: "max_lvn_ratio", Values: floats(0.15, 0.20, 0.25, 0.30)},
		// Impulse
		{Name: "min_impulse_size", Values: floats(15.0, 20.0, 25.0, 30.0)},
		{Name: "min_impulse_score", Values: ints(3, 4)},
		// Trade management
		{Name: "take_profit", Values: ints(20, 25, 30, 35)},
		{Name: "trailing_stop", Values: ints(6, 8, 10)},
		{Name: "stop_buffer", Values: ints(2, 3)},
		// State machine
		{Name: "breakout_threshold", Values: floats(2.0, 3.0)},
		{Name: "max_hunting_bars", Values: ints(600, 900, 1200)},
	}
}

// QuickRanges returns a reduced grid for smoke runs
func QuickRanges() ParamRanges {
	return ParamRanges{
		{Name: "min_delta", Values: ints(15, 25, 40)},
		{Name: "max_lvn_ratio", Values: floats(0.20, 0.30)},
		{Name: "min_impulse_size", Values: floats(20.0)},
		{Name: "min_impulse_score", Values: ints(3, 4)},
		{Name: "take_profit", Values: ints(25, 30)},
		{Name: "trailing_stop", Values: ints(6, 8)},
		{Name: "stop_buffer", Values: ints(2)},
		{Name: "breakout_threshold", Values: floats(2.0)},
		{Name: "max_hunting_bars", Values: ints(600)},
	}
}

// TargetedRanges narrows the grid around the region the quick sweep found
// strongest: impulse score 4, trailing stop near 6, delta around 25.
func TargetedRanges() ParamRanges {
	return ParamRanges{
		{Name: "min_delta", Values: ints(15, 20, 25, 30, 35, 40)},
		{Name: "max_lvn_ratio", Values: floats(0.25)},
		{Name: "min_impulse_size", Values: floats(20.0)},
		{Name: "min_impulse_score", Values: ints(4)},
		{Name: "take_profit", Values: ints(25, 30, 35)},
		{Name: "trailing_stop", Values: ints(5, 6, 7, 8)},
		{Name: "stop_buffer", Values: ints(2, 3)},
		{Name: "breakout_threshold", Values: floats(2.0)},
		{Name: "max_hunting_bars", Values: ints(600, 900)},
	}
}

// DefaultBaseline returns the parameters held fixed across every trial
func DefaultBaseline(cacheDir string) types.ParameterSet {
	if strings.TrimSpace(cacheDir) == "" {
		cacheDir = DefaultCacheDir
	}
	return types.ParameterSet{
		"cache_dir":         types.Text(cacheDir),
		"contracts":         types.Int(1),
		"start_hour":        types.Int(9),
		"start_minute":      types.Int(30),
		"end_hour":          types.Int(16),
		"end_minute":        types.Int(0),
		"level_tolerance":   types.Float(2.0),
		"starting_balance":  types.Int(50000),
		"max_impulse_bars":  types.Int(300),
		"max_retrace_ratio": types.Float(0.7),
		"max_win_cap":       types.Int(0),
		"outlier_threshold": types.Int(0),
	}
}

// RangesForMode returns the built-in grid for a mode name
func RangesForMode(mode Mode) (ParamRanges, error) {
	switch Mode(strings.ToLower(string(mode))) {
	case ModeFull, "":
		return FullRanges(), nil
	case ModeQuick:
		return QuickRanges(), nil
	case ModeTargeted:
		return TargetedRanges(), nil
	default:
		return nil, fmt.Errorf("unknown sweep mode %q (use full, quick or targeted)", mode)
	}
}
