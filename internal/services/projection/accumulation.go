// Package projection runs the month-by-month simulations behind the
// calculators and solves for contributions that reach a target corpus.
package projection

import (
	"math"

	"finplan/internal/models"
	"finplan/internal/services/finmath"
)

// MaxAccumulationMonths bounds contribution plus growth-only phases (100 years)
const MaxAccumulationMonths = 1200

// AccumulationPlan describes a growing monthly contribution
type AccumulationPlan struct {
	Monthly     float64 // Starting monthly contribution
	AnnualRate  float64 // Expected return, % p.a.
	Years       int     // Years of contributions
	StepUp      float64 // Annual contribution increase, %; 0 disables
	GrowthYears int     // Extra years of compounding with no contributions
}

// Accumulation is the outcome of an accumulation run
type Accumulation struct {
	Points                  []models.YearlyDataPoint
	Invested                float64
	CorpusAtContributionEnd float64
	FinalValue              float64
	LastContribution        float64 // Monthly amount in the final contributing year
	Capped                  bool
}

// ExtraGrowth is what the growth-only phase added on top of the contribution phase
func (a Accumulation) ExtraGrowth() float64 {
	return a.FinalValue - a.CorpusAtContributionEnd
}

// Accumulate simulates contributions made at the start of each month and
// compounded monthly. Step-up is applied at each year boundary while
// contributions last.
func Accumulate(plan AccumulationPlan) Accumulation {
	contributionMonths := max(plan.Years, 0) * finmath.MonthsPerYear
	totalMonths := contributionMonths + max(plan.GrowthYears, 0)*finmath.MonthsPerYear

	result := Accumulation{}
	if totalMonths > MaxAccumulationMonths {
		totalMonths = MaxAccumulationMonths
		contributionMonths = min(contributionMonths, MaxAccumulationMonths)
		result.Capped = true
	}

	monthlyRate := finmath.MonthlyRate(plan.AnnualRate)
	current := plan.Monthly
	balance := 0.0
	result.Points = make([]models.YearlyDataPoint, 0, totalMonths/finmath.MonthsPerYear)

	for m := 1; m <= totalMonths; m++ {
		contributing := m <= contributionMonths
		contribution := 0.0
		if contributing {
			contribution = current
			result.LastContribution = current
		}

		balance += contribution
		balance *= 1 + monthlyRate
		result.Invested += contribution

		if m == contributionMonths {
			result.CorpusAtContributionEnd = balance
		}

		if m%finmath.MonthsPerYear == 0 {
			phase := models.PhaseContribution
			if !contributing {
				phase = models.PhaseGrowth
			}
			result.Points = append(result.Points, models.YearlyDataPoint{
				Year:     m / finmath.MonthsPerYear,
				Invested: math.Round(result.Invested),
				Value:    math.Round(balance),
				Phase:    phase,
			})
			if contributing && plan.StepUp != 0 {
				current *= 1 + plan.StepUp/100
			}
		}
	}

	result.FinalValue = balance
	return result
}
