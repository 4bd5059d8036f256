package calculators

import (
	"math"

	"finplan/internal/models"
	"finplan/internal/services/projection"
)

var emiDefaults = models.Params{
	"loan":   5000000.0,
	"rate":   8.5,
	"tenure": 20.0,
	"stepUp": 0.0,
}

// EMIInput describes a loan repaid by equated monthly installments
type EMIInput struct {
	Loan        float64
	AnnualRate  float64
	TenureYears int
	StepUp      float64 // Advanced: yearly installment increase used as prepayment, %
}

// EMIInputFromParams reads an EMI input with defaults applied
func EMIInputFromParams(p models.Params, advanced bool) EMIInput {
	p = emiDefaults.Merge(p)
	return EMIInput{
		Loan:        p.Number("loan", 0),
		AnnualRate:  p.Number("rate", 0),
		TenureYears: p.Int("tenure", 0),
		StepUp:      advancedNumber(p, "stepUp", advanced),
	}
}

// EMIResult compares the stepped-up schedule against the plain one
type EMIResult struct {
	projection.Amortization
	BaselineInterest float64 // Interest without step-up
	InterestSaved    float64
	MonthsSaved      int
}

// CalculateEMI amortizes the loan. With a step-up the installment grows every
// year, which closes the loan early and saves interest.
func CalculateEMI(in EMIInput) EMIResult {
	plan := projection.LoanPlan{
		Principal:   in.Loan,
		AnnualRate:  in.AnnualRate,
		TenureYears: in.TenureYears,
	}
	baseline := projection.Amortize(plan)

	result := EMIResult{Amortization: baseline, BaselineInterest: baseline.TotalInterest}
	if in.StepUp != 0 {
		plan.StepUp = in.StepUp
		result.Amortization = projection.Amortize(plan)
		result.InterestSaved = math.Max(0, baseline.TotalInterest-result.TotalInterest)
		result.MonthsSaved = max(baseline.Months-result.Months, 0)
	}
	return result
}

// Result adapts the EMI outcome to the generic result
func (r EMIResult) Result() *models.CalculationResult {
	return &models.CalculationResult{
		Tool: models.CalcEMI,
		Figures: []models.Figure{
			figure("installment", "Monthly EMI", r.Installment, models.UnitCurrency),
			figure("total_interest", "Total interest", r.TotalInterest, models.UnitCurrency),
			figure("total_paid", "Total payment", r.TotalPaid, models.UnitCurrency),
			figure("payoff_months", "Months to repay", float64(r.Months), models.UnitMonths),
			figure("interest_saved", "Interest saved", r.InterestSaved, models.UnitCurrency),
			figure("months_saved", "Months saved", float64(r.MonthsSaved), models.UnitMonths),
		},
		Series: r.Points,
		Capped: r.Capped,
	}
}
