package projection

import (
	"math"

	"finplan/internal/models"
	"finplan/internal/services/finmath"
)

// MaxWithdrawalMonths bounds a withdrawal run (40 years)
const MaxWithdrawalMonths = 480

// WithdrawalPlan describes a monthly withdrawal from an invested corpus
type WithdrawalPlan struct {
	Corpus     float64
	Monthly    float64 // Starting monthly withdrawal
	AnnualRate float64 // Return earned by the remaining balance, % p.a.
	StepUp     float64 // Annual withdrawal increase, %; 0 disables
	MaxMonths  int     // 0 uses MaxWithdrawalMonths
}

// Withdrawal is the outcome of a withdrawal run
type Withdrawal struct {
	Points          []models.YearlyDataPoint
	YearsSustained  int // Full years of withdrawals paid in full
	MonthsSustained int // Months paid in full
	TotalWithdrawn  float64
	FinalBalance    float64
	Depleted        bool
	Capped          bool // Reached MaxMonths with money left
}

// Withdraw simulates a corpus that earns its monthly return and then pays the
// month's withdrawal. The run stops the first month the balance is exhausted;
// that month pays only what is left.
func Withdraw(plan WithdrawalPlan) Withdrawal {
	maxMonths := plan.MaxMonths
	if maxMonths <= 0 {
		maxMonths = MaxWithdrawalMonths
	}

	result := Withdrawal{Points: make([]models.YearlyDataPoint, 0, maxMonths/finmath.MonthsPerYear)}
	balance := plan.Corpus
	if balance <= 0 {
		result.Depleted = true
		return result
	}

	monthlyRate := finmath.MonthlyRate(plan.AnnualRate)
	current := plan.Monthly

	for m := 1; m <= maxMonths; m++ {
		balance *= 1 + monthlyRate

		paid := math.Min(current, balance)
		balance -= paid
		result.TotalWithdrawn += paid

		fullPayment := paid >= current
		if fullPayment {
			result.MonthsSustained = m
		}

		if m%finmath.MonthsPerYear == 0 && fullPayment {
			result.YearsSustained++
			result.Points = append(result.Points, models.YearlyDataPoint{
				Year:       m / finmath.MonthsPerYear,
				Balance:    math.Max(0, math.Round(balance)),
				Withdrawal: math.Round(current),
			})
		}

		if balance <= 0 {
			result.Depleted = true
			if m%finmath.MonthsPerYear != 0 || !fullPayment {
				result.Points = append(result.Points, models.YearlyDataPoint{
					Year:       result.YearsSustained + 1,
					Balance:    0,
					Withdrawal: math.Round(current),
					Phase:      models.PhaseDepleted,
				})
			}
			break
		}

		if m%finmath.MonthsPerYear == 0 && plan.StepUp != 0 {
			current *= 1 + plan.StepUp/100
		}
	}

	result.FinalBalance = math.Max(0, balance)
	result.Capped = !result.Depleted
	return result
}
