package projection

import (
	"math"

	"finplan/internal/models"
	"finplan/internal/services/finmath"
)

const (
	// MaxAmortizationMonths bounds a loan run (40 years)
	MaxAmortizationMonths = 480

	// PayoffEpsilon is the residual balance treated as fully repaid
	PayoffEpsilon = 10.0
)

// LoanPlan describes a loan repaid by a monthly installment
type LoanPlan struct {
	Principal   float64
	AnnualRate  float64 // % p.a.
	TenureYears int     // Nominal tenure used to size the installment
	Installment float64 // 0 derives the EMI from principal, rate and tenure
	StepUp      float64 // Annual installment increase (prepayment), %; 0 disables
	MaxMonths   int     // 0 uses MaxAmortizationMonths
}

// Amortization is the outcome of a loan run
type Amortization struct {
	Points        []models.YearlyDataPoint
	Installment   float64 // Starting installment
	TotalInterest float64
	TotalPaid     float64
	Months        int // Months until the balance was repaid
	FinalBalance  float64
	Capped        bool // Balance never reached PayoffEpsilon
}

// Amortize simulates a declining-balance loan. Each month interest accrues on
// the outstanding balance and the rest of the installment repays principal. A
// stepped-up installment is an accelerated repayment, so the loan can close
// before its nominal tenure.
func Amortize(plan LoanPlan) Amortization {
	maxMonths := plan.MaxMonths
	if maxMonths <= 0 {
		maxMonths = MaxAmortizationMonths
	}

	installment := plan.Installment
	if installment <= 0 {
		installment = finmath.EquatedInstallment(plan.Principal, plan.AnnualRate, plan.TenureYears*finmath.MonthsPerYear)
	}

	result := Amortization{
		Installment: installment,
		Points:      make([]models.YearlyDataPoint, 0, maxMonths/finmath.MonthsPerYear),
	}

	monthlyRate := finmath.MonthlyRate(plan.AnnualRate)
	balance := plan.Principal
	current := installment

	for m := 1; m <= maxMonths; m++ {
		if balance <= PayoffEpsilon {
			break
		}

		interest := balance * monthlyRate
		principal := current - interest
		payment := current
		if balance < principal {
			principal = balance
			payment = principal + interest
		}

		balance -= principal
		result.TotalInterest += interest
		result.TotalPaid += payment
		result.Months = m

		if m%finmath.MonthsPerYear == 0 {
			result.Points = append(result.Points, result.point(m/finmath.MonthsPerYear, plan.Principal, balance))
			if plan.StepUp != 0 {
				current *= 1 + plan.StepUp/100
			}
		}
	}

	if result.Months%finmath.MonthsPerYear != 0 {
		result.Points = append(result.Points, result.point(result.Months/finmath.MonthsPerYear+1, plan.Principal, balance))
	}

	result.FinalBalance = math.Max(0, balance)
	result.Capped = balance > PayoffEpsilon
	return result
}

func (a *Amortization) point(year int, principal, balance float64) models.YearlyDataPoint {
	return models.YearlyDataPoint{
		Year:      year,
		Balance:   math.Max(0, math.Round(balance)),
		Principal: math.Round(principal - balance),
		Interest:  math.Round(a.TotalInterest),
	}
}
