package optimization

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/ducminhle1904/lvn-sweep/pkg/types"
)

// Count returns the size of the Cartesian product of the ranges. With no
// ranges the product is a single empty combination, the baseline alone.
func Count(ranges ParamRanges) int {
	n := 1
	for _, r := range ranges {
		n *= len(r.Values)
	}
	return n
}

// GenerateCombinations expands ranges into every combination, iterating
// the last range fastest, and merges each one over baseline. Swept values
// replace baseline values that share a name.
func GenerateCombinations(ranges ParamRanges, baseline types.ParameterSet) []types.ParameterSet {
	total := Count(ranges)
	if total == 0 {
		return nil
	}

	combos := make([]types.ParameterSet, 0, total)
	idx := make([]int, len(ranges))

	for {
		swept := make(types.ParameterSet, len(ranges))
		for i, r := range ranges {
			swept[r.Name] = r.Values[idx[i]]
		}
		combos = append(combos, swept.Merge(baseline))

		// Odometer increment, rightmost position first
		pos := len(ranges) - 1
		for pos >= 0 {
			idx[pos]++
			if idx[pos] < len(ranges[pos].Values) {
				break
			}
			idx[pos] = 0
			pos--
		}
		if pos < 0 {
			return combos
		}
	}
}

// Fingerprint identifies a grid by its names and values, so a resumed
// sweep can tell whether it is walking the same grid as before
func Fingerprint(ranges ParamRanges, baseline types.ParameterSet) string {
	var b strings.Builder
	for _, r := range ranges {
		b.WriteString(r.Name)
		b.WriteByte('=')
		for i, v := range r.Values {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(v.String())
		}
		b.WriteByte(';')
	}
	b.WriteByte('|')
	for _, k := range baseline.Keys() {
		fmt.Fprintf(&b, "%s=%s;", k, baseline[k])
	}
	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:8])
}

// rangeFile is the on-disk form of one range in a grid file
type rangeFile struct {
	Name   string            `json:"name"`
	Values []json.RawMessage `json:"values"`
}

// LoadRangesJSON reads an ordered grid definition:
//
//	[{"name": "min_delta", "values": [10, 20]}, {"name": "max_lvn_ratio", "values": [0.2, 0.3]}]
//
// Numbers written with a decimal point or exponent become floats, other
// numbers ints, and strings stay text.
func LoadRangesJSON(path string) (ParamRanges, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read grid file: %w", err)
	}
	return ParseRangesJSON(data)
}

// ParseRangesJSON decodes a grid definition from JSON bytes
func ParseRangesJSON(data []byte) (ParamRanges, error) {
	var raw []rangeFile
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse grid: %w", err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("grid defines no parameters")
	}

	seen := make(map[string]bool, len(raw))
	ranges := make(ParamRanges, 0, len(raw))
	for _, rf := range raw {
		name := strings.TrimSpace(rf.Name)
		if name == "" {
			return nil, fmt.Errorf("grid entry without a name")
		}
		if seen[name] {
			return nil, fmt.Errorf("parameter %q listed twice", name)
		}
		seen[name] = true
		if len(rf.Values) == 0 {
			return nil, fmt.Errorf("parameter %q has no values", name)
		}

		values := make([]types.Value, 0, len(rf.Values))
		for _, rv := range rf.Values {
			v, err := decodeValue(rv)
			if err != nil {
				return nil, fmt.Errorf("parameter %q: %w", name, err)
			}
			values = append(values, v)
		}
		ranges = append(ranges, ParamRange{Name: name, Values: values})
	}
	return ranges, nil
}

func decodeValue(raw json.RawMessage) (types.Value, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) > 0 && raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return types.Value{}, err
		}
		return types.Text(s), nil
	}

	var num json.Number
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&num); err != nil {
		return types.Value{}, fmt.Errorf("invalid value %s", string(raw))
	}
	if strings.ContainsAny(num.String(), ".eE") {
		f, err := num.Float64()
		if err != nil {
			return types.Value{}, err
		}
		return types.Float(f), nil
	}
	i, err := num.Int64()
	if err != nil {
		return types.Value{}, err
	}
	return types.Int(int(i)), nil
}
