package optimization

import (
	"github.com/ducminhle1904/lvn-sweep/pkg/types"
)

// Package optimization provides the parameter grid for exhaustive sweeps

// ParamRange is the ordered list of candidate values for one parameter
type ParamRange struct {
	Name   string        `json:"name"`
	Values []types.Value `json:"-"`
}

// ParamRanges is an ordered grid definition. Declaration order decides the
// column order of the results file and the iteration order of the product:
// the last range varies fastest.
type ParamRanges []ParamRange

// Names returns the swept parameter names in declaration order
func (r ParamRanges) Names() []string {
	names := make([]string, len(r))
	for i, pr := range r {
		names[i] = pr.Name
	}
	return names
}

// Lookup returns the range for a parameter name
func (r ParamRanges) Lookup(name string) (ParamRange, bool) {
	for _, pr := range r {
		if pr.Name == name {
			return pr, true
		}
	}
	return ParamRange{}, false
}

// Mode selects one of the built-in grids
type Mode string

const (
	ModeFull     Mode = "full"
	ModeQuick    Mode = "quick"
	ModeTargeted Mode = "targeted"
)

// GridConfig bundles everything the generator needs for one sweep
type GridConfig struct {
	Mode     Mode
	Ranges   ParamRanges
	Baseline types.ParameterSet
}

// Combinations expands the configured grid
func (c GridConfig) Combinations() []types.ParameterSet {
	return GenerateCombinations(c.Ranges, c.Baseline)
}

// Size returns the number of combinations without expanding them
func (c GridConfig) Size() int {
	return Count(c.Ranges)
}
