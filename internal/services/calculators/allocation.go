package calculators

import (
	"finplan/internal/models"
)

// Risk attitudes accepted by the allocation calculator
const (
	AttitudeConservative = "conservative"
	AttitudeModerate     = "moderate"
	AttitudeAggressive   = "aggressive"
)

var allocationDefaults = models.Params{
	"age":      30.0,
	"horizon":  10.0,
	"attitude": AttitudeModerate,
}

// AllocationInput describes an investor for the age-based rule of thumb
type AllocationInput struct {
	Age      int
	Horizon  int // Years until the money is needed
	Attitude string
}

// AllocationInputFromParams reads an allocation input with defaults applied
func AllocationInputFromParams(p models.Params, _ bool) AllocationInput {
	p = allocationDefaults.Merge(p)
	return AllocationInput{
		Age:      p.Int("age", 0),
		Horizon:  p.Int("horizon", 0),
		Attitude: p.Enum("attitude", AttitudeModerate),
	}
}

// AllocationResult is an equity/debt split
type AllocationResult struct {
	Equity float64
	Debt   float64
	Label  string
}

// CalculateAllocation starts from 110 minus age in equity, shifts it by
// attitude and caps it for short horizons
func CalculateAllocation(in AllocationInput) AllocationResult {
	equity := max(110-float64(in.Age), 0)

	switch in.Attitude {
	case AttitudeConservative:
		equity -= 20
	case AttitudeAggressive:
		equity += 10
	}

	switch {
	case in.Horizon < 3:
		equity = min(equity, 20)
	case in.Horizon < 5:
		equity = min(equity, 40)
	}

	equity = clamp(equity, 0, 100)
	return AllocationResult{
		Equity: equity,
		Debt:   100 - equity,
		Label:  allocationLabel(equity),
	}
}

func allocationLabel(equity float64) string {
	switch {
	case equity > 75:
		return "Aggressive Growth"
	case equity > 50:
		return "Balanced Growth"
	case equity > 30:
		return "Moderate Stability"
	default:
		return "Conservative Income"
	}
}

// Result adapts the allocation to the generic result
func (r AllocationResult) Result() *models.CalculationResult {
	return &models.CalculationResult{
		Tool:  models.CalcAssetAllocation,
		Label: r.Label,
		Figures: []models.Figure{
			figure("equity", "Equity", r.Equity, models.UnitPercent),
			figure("debt", "Debt", r.Debt, models.UnitPercent),
		},
		Series: []models.YearlyDataPoint{},
	}
}
