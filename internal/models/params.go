package models

import (
	"math"
	"sort"
)

// Params is a flat calculator parameter set. Values are float64, bool or
// string (enumerations); ints are accepted on read for convenience.
type Params map[string]any

// Number returns a numeric parameter, or def when missing or not numeric
func (p Params) Number(key string, def float64) float64 {
	switch v := p[key].(type) {
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return def
		}
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	}
	return def
}

// Int returns a numeric parameter truncated to an int
func (p Params) Int(key string, def int) int {
	v := p.Number(key, math.NaN())
	if math.IsNaN(v) {
		return def
	}
	return int(math.Max(math.MinInt32, math.Min(math.MaxInt32, v)))
}

// Flag returns a boolean parameter, or def when missing or not a bool
func (p Params) Flag(key string, def bool) bool {
	if v, ok := p[key].(bool); ok {
		return v
	}
	return def
}

// Enum returns a string parameter, or def when missing or empty
func (p Params) Enum(key string, def string) string {
	if v, ok := p[key].(string); ok && v != "" {
		return v
	}
	return def
}

// Keys returns the parameter names in sorted order
func (p Params) Keys() []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Clone returns a shallow copy
func (p Params) Clone() Params {
	out := make(Params, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// Merge returns a copy of p with every entry of overrides applied on top
func (p Params) Merge(overrides Params) Params {
	out := p.Clone()
	for k, v := range overrides {
		out[k] = v
	}
	return out
}
