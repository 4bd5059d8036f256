package metrics

import (
	"errors"
	"math"
	"testing"

	"finplan/internal/models"
)

func TestPercentChange(t *testing.T) {
	s := New()
	tests := []struct {
		current, previous, want float64
	}{
		{110, 100, 10},
		{90, 100, -10},
		{0, 0, 0},
		{50, 0, 100},
		{-50, -100, 50},
	}
	for _, tt := range tests {
		if got := s.PercentChange(tt.current, tt.previous); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("PercentChange(%v, %v) = %v, want %v", tt.current, tt.previous, got, tt.want)
		}
	}
}

func TestSummarize(t *testing.T) {
	s := New()
	result := &models.CalculationResult{
		Tool: models.CalcSIP,
		Series: []models.YearlyDataPoint{
			{Year: 1, Invested: 1000, Value: 1100},
			{Year: 2, Invested: 2000, Value: 2200},
			{Year: 3, Invested: 3000, Value: 4400},
		},
	}

	summary := s.Summarize(result)
	if summary == nil {
		t.Fatal("Summarize returned nil")
	}
	if summary.TotalInvested != 3000 || summary.FinalValue != 4400 || summary.AbsoluteGain != 1400 {
		t.Errorf("summary = %+v", summary)
	}
	if math.Abs(summary.WealthMultiple-4400.0/3000.0) > 1e-9 {
		t.Errorf("WealthMultiple = %v", summary.WealthMultiple)
	}
	if summary.Years != 3 {
		t.Errorf("Years = %d, want 3", summary.Years)
	}
	if len(summary.YearOverYear) != 2 || summary.YearOverYear[0] != 100 || summary.YearOverYear[1] != 100 {
		t.Errorf("YearOverYear = %v, want [100 100]", summary.YearOverYear)
	}
}

func TestSummarize_NoInvestedSeries(t *testing.T) {
	s := New()
	tests := []*models.CalculationResult{
		nil,
		{Tool: models.CalcRiskProfile},
		{Tool: models.CalcEMI, Series: []models.YearlyDataPoint{{Year: 1, Balance: 100, Principal: 10}}},
	}
	for _, r := range tests {
		if got := s.Summarize(r); got != nil {
			t.Errorf("Summarize(%v) = %+v, want nil", r, got)
		}
	}
}

func TestCompare(t *testing.T) {
	s := New()
	current := &models.CalculationResult{
		Tool: models.CalcEMI,
		Figures: []models.Figure{
			{Key: "installment", Value: 50000},
			{Key: "interest_saved", Value: 200000},
		},
	}
	baseline := &models.CalculationResult{
		Tool:    models.CalcEMI,
		Figures: []models.Figure{{Key: "installment", Value: 40000}},
	}

	cmp, err := s.Compare(current, baseline)
	if err != nil {
		t.Fatalf("Compare: %v", err)
	}
	if len(cmp.Changes) != 1 {
		t.Fatalf("got %d changes, want 1 (only shared figures)", len(cmp.Changes))
	}
	c := cmp.Changes[0]
	if c.Difference != 10000 || c.PercentChange != 25 {
		t.Errorf("change = %+v", c)
	}

	baseline.Tool = models.CalcSIP
	if _, err := s.Compare(current, baseline); !errors.Is(err, ErrToolMismatch) {
		t.Errorf("err = %v, want ErrToolMismatch", err)
	}
}
