package metrics

import (
	"errors"
	"math"

	"finplan/internal/models"
)

// ErrToolMismatch is returned when comparing results of different calculators
var ErrToolMismatch = errors.New("results come from different calculators")

// Service derives summary metrics from calculation results
type Service struct{}

// New creates a new metrics service
func New() *Service {
	return &Service{}
}

// Summarize condenses a result's invested-vs-value series. Results that
// track no invested amount (loans, withdrawals, tax, quiz) return nil.
func (s *Service) Summarize(result *models.CalculationResult) *models.GrowthSummary {
	if result == nil || len(result.Series) == 0 {
		return nil
	}

	invested := false
	for _, p := range result.Series {
		if p.Invested > 0 {
			invested = true
			break
		}
	}
	if !invested {
		return nil
	}

	last := result.Series[len(result.Series)-1]
	summary := &models.GrowthSummary{
		TotalInvested: last.Invested,
		FinalValue:    last.Value,
		AbsoluteGain:  last.Value - last.Invested,
		Years:         last.Year,
		YearOverYear:  make([]float64, 0, len(result.Series)),
	}
	if last.Invested > 0 {
		summary.GainPercent = summary.AbsoluteGain / last.Invested * 100
		summary.WealthMultiple = last.Value / last.Invested
	}

	for i := 1; i < len(result.Series); i++ {
		summary.YearOverYear = append(summary.YearOverYear, s.PercentChange(result.Series[i].Value, result.Series[i-1].Value))
	}

	return summary
}

// Compare computes the change of every headline figure from baseline to current
func (s *Service) Compare(current, baseline *models.CalculationResult) (*models.ResultComparison, error) {
	if current.Tool != baseline.Tool {
		return nil, ErrToolMismatch
	}

	comparison := &models.ResultComparison{Tool: current.Tool}
	for _, f := range current.Figures {
		base, ok := baseline.Figure(f.Key)
		if !ok {
			continue
		}
		comparison.Changes = append(comparison.Changes, models.FigureChange{
			Key:           f.Key,
			Label:         f.Label,
			Current:       f.Value,
			Baseline:      base,
			Difference:    f.Value - base,
			PercentChange: s.PercentChange(f.Value, base),
		})
	}
	return comparison, nil
}

// PercentChange calculates the percentage change between two values
func (s *Service) PercentChange(current, previous float64) float64 {
	if previous == 0 {
		if current == 0 {
			return 0
		}
		return 100
	}
	return ((current - previous) / math.Abs(previous)) * 100
}
