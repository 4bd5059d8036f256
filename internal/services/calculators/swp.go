package calculators

import (
	"finplan/internal/models"
	"finplan/internal/services/projection"
)

var swpDefaults = models.Params{
	"corpus":     5000000.0,
	"withdrawal": 30000.0,
	"rate":       8.0,
	"stepUp":     0.0,
}

var retirementDistDefaults = models.Params{
	"corpus":    10000000.0,
	"expenses":  50000.0,
	"rate":      8.0,
	"inflation": 6.0,
}

// SWPInput describes a systematic withdrawal plan
type SWPInput struct {
	Corpus     float64
	Withdrawal float64 // Starting monthly withdrawal
	AnnualRate float64
	StepUp     float64 // Annual withdrawal increase, %
}

// SWPInputFromParams reads a SWP input; step-up only applies in advanced mode
func SWPInputFromParams(p models.Params, advanced bool) SWPInput {
	p = swpDefaults.Merge(p)
	return SWPInput{
		Corpus:     p.Number("corpus", 0),
		Withdrawal: p.Number("withdrawal", 0),
		AnnualRate: p.Number("rate", 0),
		StepUp:     advancedNumber(p, "stepUp", advanced),
	}
}

// RetirementDistInputFromParams reads a retirement distribution plan. Expenses
// grow with inflation every year, so inflation is the withdrawal step-up.
func RetirementDistInputFromParams(p models.Params, _ bool) SWPInput {
	p = retirementDistDefaults.Merge(p)
	return SWPInput{
		Corpus:     p.Number("corpus", 0),
		Withdrawal: p.Number("expenses", 0),
		AnnualRate: p.Number("rate", 0),
		StepUp:     p.Number("inflation", 0),
	}
}

// SWPResult is the outcome of a withdrawal run
type SWPResult struct {
	projection.Withdrawal
	tool models.CalculatorID
}

// CalculateSWP runs a monthly withdrawal plan until the corpus is exhausted
// or the 40-year horizon is reached
func CalculateSWP(in SWPInput) SWPResult {
	return SWPResult{
		Withdrawal: projection.Withdraw(projection.WithdrawalPlan{
			Corpus:     in.Corpus,
			Monthly:    in.Withdrawal,
			AnnualRate: in.AnnualRate,
			StepUp:     in.StepUp,
		}),
		tool: models.CalcSWP,
	}
}

// CalculateRetirementDist runs retirement expenses against a corpus
func CalculateRetirementDist(in SWPInput) SWPResult {
	r := CalculateSWP(in)
	r.tool = models.CalcRetirementDist
	return r
}

// Label summarizes whether the plan outlives the horizon
func (r SWPResult) Label() string {
	if r.Depleted {
		return "Depletes"
	}
	return "Sustainable"
}

// Result adapts the withdrawal outcome to the generic result
func (r SWPResult) Result() *models.CalculationResult {
	tool := r.tool
	if tool == "" {
		tool = models.CalcSWP
	}
	return &models.CalculationResult{
		Tool:  tool,
		Label: r.Label(),
		Figures: []models.Figure{
			figure("years_sustained", "Years sustained", float64(r.YearsSustained), models.UnitYears),
			figure("months_sustained", "Months sustained", float64(r.MonthsSustained), models.UnitMonths),
			figure("total_withdrawn", "Total withdrawn", r.TotalWithdrawn, models.UnitCurrency),
			figure("final_balance", "Remaining balance", r.FinalBalance, models.UnitCurrency),
		},
		Series: r.Points,
		Capped: r.Capped,
	}
}
