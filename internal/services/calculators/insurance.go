package calculators

import (
	"math"

	"finplan/internal/models"
	"finplan/internal/services/finmath"
)

// Human life value assumptions
const (
	InsuranceRetirementAge  = 60
	InsuranceIncomeReplaced = 0.70 // Share of income the family loses, after personal expenses
	InsuranceRealRate       = 0.04 // Real discount rate
)

var insuranceDefaults = models.Params{
	"income":        1500000.0,
	"age":           30.0,
	"liabilities":   2500000.0,
	"existingCover": 5000000.0,
	"savings":       1000000.0,
}

// InsuranceInput describes a household's life cover position
type InsuranceInput struct {
	Income        float64 // Annual income
	Age           int
	Liabilities   float64
	ExistingCover float64
	Savings       float64
}

// InsuranceInputFromParams reads an insurance input with defaults applied
func InsuranceInputFromParams(p models.Params, _ bool) InsuranceInput {
	p = insuranceDefaults.Merge(p)
	return InsuranceInput{
		Income:        p.Number("income", 0),
		Age:           p.Int("age", 0),
		Liabilities:   p.Number("liabilities", 0),
		ExistingCover: p.Number("existingCover", 0),
		Savings:       p.Number("savings", 0),
	}
}

// InsuranceResult is the human life value and the cover still missing
type InsuranceResult struct {
	YearsToRetire  int
	HumanLifeValue float64 // PV of replaced income
	RequiredCover  float64
	Gap            float64
	Points         []models.YearlyDataPoint
	Capped         bool // Earning years exceeded MaxSeriesYears
}

// CalculateInsurance values the income the family would lose until
// retirement, adds liabilities and nets off savings. Neither required cover
// nor the gap go below zero.
func CalculateInsurance(in InsuranceInput) InsuranceResult {
	years, capped := seriesYears(InsuranceRetirementAge - in.Age)
	replaced := in.Income * InsuranceIncomeReplaced

	result := InsuranceResult{
		YearsToRetire:  years,
		Capped:         capped,
		HumanLifeValue: finmath.RealAnnuityPresentValue(replaced, InsuranceRealRate, float64(years)),
	}
	result.RequiredCover = requiredCover(result.HumanLifeValue, in)
	result.Gap = math.Max(0, result.RequiredCover-in.ExistingCover)

	// Cover need shrinks as fewer earning years remain
	result.Points = make([]models.YearlyDataPoint, 0, years+1)
	for y := 0; y <= years; y++ {
		hlv := finmath.RealAnnuityPresentValue(replaced, InsuranceRealRate, float64(years-y))
		result.Points = append(result.Points, models.YearlyDataPoint{
			Year:    y,
			Value:   math.Round(requiredCover(hlv, in)),
			Balance: math.Round(math.Max(0, requiredCover(hlv, in)-in.ExistingCover)),
		})
	}
	return result
}

func requiredCover(hlv float64, in InsuranceInput) float64 {
	return math.Max(0, hlv+in.Liabilities-in.Savings)
}

// Result adapts the insurance outcome to the generic result
func (r InsuranceResult) Result() *models.CalculationResult {
	label := "Adequately covered"
	if r.Gap > 0 {
		label = "Under-insured"
	}
	return &models.CalculationResult{
		Tool:  models.CalcInsurance,
		Label: label,
		Figures: []models.Figure{
			figure("gap", "Additional cover needed", r.Gap, models.UnitCurrency),
			figure("required_cover", "Total cover required", r.RequiredCover, models.UnitCurrency),
			figure("human_life_value", "Human life value", r.HumanLifeValue, models.UnitCurrency),
			figure("years_to_retire", "Earning years left", float64(r.YearsToRetire), models.UnitYears),
		},
		Series: r.Points,
		Capped: r.Capped,
	}
}
