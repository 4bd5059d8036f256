package models

import (
	"math"
	"testing"
)

func TestParamsInt(t *testing.T) {
	p := Params{
		"years":    12.9,
		"count":    7,
		"huge":     1e300,
		"tiny":     -1e300,
		"inf":      math.Inf(1),
		"label":    "ten",
		"negative": -3.5,
	}

	tests := []struct {
		key  string
		want int
	}{
		{"years", 12},
		{"count", 7},
		{"huge", math.MaxInt32},
		{"tiny", math.MinInt32},
		{"inf", -1},
		{"label", -1},
		{"missing", -1},
		{"negative", -3},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			if got := p.Int(tt.key, -1); got != tt.want {
				t.Errorf("Int(%q) = %d, want %d", tt.key, got, tt.want)
			}
		})
	}
}

func TestCalculationResultFinite(t *testing.T) {
	tests := []struct {
		name   string
		result CalculationResult
		want   bool
	}{
		{"empty", CalculationResult{}, true},
		{"finite", CalculationResult{
			Figures: []Figure{{Key: "a", Value: 1}},
			Series:  []YearlyDataPoint{{Year: 0, Value: 2, Balance: -3}},
		}, true},
		{"infinite figure", CalculationResult{Figures: []Figure{{Key: "a", Value: math.Inf(1)}}}, false},
		{"NaN interest", CalculationResult{Series: []YearlyDataPoint{{Interest: math.NaN()}}}, false},
		{"negative infinite withdrawal", CalculationResult{Series: []YearlyDataPoint{{Withdrawal: math.Inf(-1)}}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.result.Finite(); got != tt.want {
				t.Errorf("Finite() = %v, want %v", got, tt.want)
			}
		})
	}
}
