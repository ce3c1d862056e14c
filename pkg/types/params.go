package types

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// ValueKind identifies the scalar type carried by a Value
type ValueKind int

const (
	KindInt ValueKind = iota
	KindFloat
	KindText
)

func (k ValueKind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindText:
		return "text"
	default:
		return "unknown"
	}
}

// Value is a single parameter value for one trial
type Value struct {
	Kind  ValueKind
	Int   int64
	Float float64
	Text  string
}

// Int creates an integer value
func Int(v int) Value {
	return Value{Kind: KindInt, Int: int64(v)}
}

// Float creates a floating point value
func Float(v float64) Value {
	return Value{Kind: KindFloat, Float: v}
}

// Text creates a text value
func Text(v string) Value {
	return Value{Kind: KindText, Text: v}
}

// Float64 returns the numeric value; text values that do not parse are 0
func (v Value) Float64() float64 {
	switch v.Kind {
	case KindInt:
		return float64(v.Int)
	case KindFloat:
		return v.Float
	default:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.Text), 64)
		if err != nil {
			return 0
		}
		return f
	}
}

// IsNumeric reports whether the value is an int or a float
func (v Value) IsNumeric() bool {
	return v.Kind == KindInt || v.Kind == KindFloat
}

// String formats the value the way it is passed on the command line and
// written to the results file. Floats always keep a decimal point so that
// a reload types them as floats again.
func (v Value) String() string {
	switch v.Kind {
	case KindInt:
		return strconv.FormatInt(v.Int, 10)
	case KindFloat:
		return FormatFloat(v.Float)
	default:
		return v.Text
	}
}

// Equal compares kind and payload
func (v Value) Equal(o Value) bool {
	if v.Kind != o.Kind {
		return false
	}
	switch v.Kind {
	case KindInt:
		return v.Int == o.Int
	case KindFloat:
		return v.Float == o.Float
	default:
		return v.Text == o.Text
	}
}

// Less orders values numerically, falling back to text comparison when
// either side is non-numeric
func (v Value) Less(o Value) bool {
	if v.IsNumeric() && o.IsNumeric() {
		return v.Float64() < o.Float64()
	}
	return v.String() < o.String()
}

// FormatFloat renders a float in shortest round-trip form with at least
// one fractional digit (2 -> "2.0", 0.25 -> "0.25")
func FormatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.ContainsAny(s, ".NI") {
		s += ".0"
	}
	return s
}

// ParameterSet maps parameter names to the values used for one trial.
// Sets handed out by the generator are not modified afterwards; Merge and
// Clone return new sets.
type ParameterSet map[string]Value

// Get returns the value for name and whether it was present
func (p ParameterSet) Get(name string) (Value, bool) {
	v, ok := p[name]
	return v, ok
}

// Clone returns a copy of the set
func (p ParameterSet) Clone() ParameterSet {
	out := make(ParameterSet, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// Merge returns a new set holding base overlaid with p; keys in p win
func (p ParameterSet) Merge(base ParameterSet) ParameterSet {
	out := make(ParameterSet, len(p)+len(base))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range p {
		out[k] = v
	}
	return out
}

// Keys returns the parameter names in sorted order
func (p ParameterSet) Keys() []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Describe renders the named parameters as "name=value" pairs, skipping
// names that are not present
func (p ParameterSet) Describe(names []string) string {
	parts := make([]string, 0, len(names))
	for _, n := range names {
		if v, ok := p[n]; ok {
			parts = append(parts, fmt.Sprintf("%s=%s", n, v))
		}
	}
	return strings.Join(parts, " ")
}
