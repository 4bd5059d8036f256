// Package sharestate converts calculator parameters to and from the query
// string used by share links and saved scenarios.
package sharestate

import (
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"

	"finplan/internal/models"
)

// ToolKey is the query key carrying the calculator id
const ToolKey = "tool"

// Encode serializes a calculator's parameters. The tool id comes first and
// parameters follow in key order, so equal parameter sets encode identically.
func Encode(id models.CalculatorID, params models.Params) string {
	var b strings.Builder
	b.WriteString(ToolKey)
	b.WriteByte('=')
	b.WriteString(url.QueryEscape(string(id)))

	for _, k := range params.Keys() {
		if k == ToolKey {
			continue
		}
		b.WriteByte('&')
		b.WriteString(url.QueryEscape(k))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(formatValue(params[k])))
	}
	return b.String()
}

func formatValue(v any) string {
	switch x := v.(type) {
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case bool:
		return strconv.FormatBool(x)
	case string:
		return x
	default:
		return fmt.Sprint(x)
	}
}

// Decode restores the expected parameters from a share query. The query may
// be bare, start with "?" or be a full URL. A different tool id, malformed
// input, empty values and unknown keys all yield nothing for the affected
// keys; Decode never fails.
func Decode(query string, id models.CalculatorID, expectedKeys []string) models.Params {
	out := models.Params{}

	values, ok := parseQuery(query)
	if !ok || values.Get(ToolKey) != string(id) {
		return out
	}

	for _, k := range expectedKeys {
		raw := values.Get(k)
		if raw == "" {
			continue
		}
		out[k] = parseValue(raw)
	}
	return out
}

func parseQuery(query string) (url.Values, bool) {
	query = strings.TrimSpace(query)
	if i := strings.IndexByte(query, '?'); i >= 0 {
		query = query[i+1:]
	}
	if i := strings.IndexByte(query, '#'); i >= 0 {
		query = query[:i]
	}

	values, err := url.ParseQuery(query)
	if err != nil && len(values) == 0 {
		return nil, false
	}
	// ParseQuery keeps the well-formed pairs alongside the first error
	return values, true
}

func parseValue(raw string) any {
	if f, err := strconv.ParseFloat(raw, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
		return f
	}
	switch raw {
	case "true":
		return true
	case "false":
		return false
	}
	return raw
}
