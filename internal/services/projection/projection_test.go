package projection

import (
	"math"
	"testing"

	"finplan/internal/models"
	"finplan/internal/services/finmath"
)

func TestAccumulate_SIPFixture(t *testing.T) {
	result := Accumulate(AccumulationPlan{Monthly: 10000, AnnualRate: 12, Years: 10})

	if result.Invested != 1200000 {
		t.Errorf("Invested = %v, want 1200000", result.Invested)
	}

	// Contribute then compound: annuity-due future value
	r := 0.01
	expected := 10000 * (math.Pow(1+r, 120) - 1) / r * (1 + r)
	if math.Abs(result.FinalValue-expected) > 1e-6*expected {
		t.Errorf("FinalValue = %.2f, want %.2f", result.FinalValue, expected)
	}
	if math.Abs(result.FinalValue-2323391) > 1 {
		t.Errorf("FinalValue = %.2f, want ~2,323,391", result.FinalValue)
	}

	if len(result.Points) != 10 {
		t.Fatalf("got %d points, want 10", len(result.Points))
	}
	for i, p := range result.Points {
		if p.Year != i+1 {
			t.Errorf("point %d has year %d", i, p.Year)
		}
		if p.Phase != models.PhaseContribution {
			t.Errorf("point %d phase = %q", i, p.Phase)
		}
	}
	if result.Capped {
		t.Error("10-year plan should not hit the cap")
	}
}

func TestAccumulate_Monotonic(t *testing.T) {
	for _, stepUp := range []float64{0, 5, 10, -3} {
		prev := -1.0
		for monthly := 500.0; monthly <= 50000; monthly += 500 {
			v := Accumulate(AccumulationPlan{Monthly: monthly, AnnualRate: 10, Years: 15, StepUp: stepUp}).FinalValue
			if v <= prev {
				t.Fatalf("stepUp %v: corpus not increasing at monthly %v (%v <= %v)", stepUp, monthly, v, prev)
			}
			prev = v
		}
	}
}

func TestAccumulate_StepUp(t *testing.T) {
	result := Accumulate(AccumulationPlan{Monthly: 1000, AnnualRate: 0, Years: 2, StepUp: 10})

	if math.Abs(result.Invested-25200) > 1e-9 {
		t.Errorf("Invested = %v, want 25200", result.Invested)
	}
	if math.Abs(result.FinalValue-25200) > 1e-9 {
		t.Errorf("FinalValue = %v, want 25200 at zero return", result.FinalValue)
	}
	if math.Abs(result.LastContribution-1100) > 1e-9 {
		t.Errorf("LastContribution = %v, want 1100", result.LastContribution)
	}
}

func TestAccumulate_GrowthPhase(t *testing.T) {
	result := Accumulate(AccumulationPlan{Monthly: 5000, AnnualRate: 12, Years: 5, GrowthYears: 3})

	if len(result.Points) != 8 {
		t.Fatalf("got %d points, want 8", len(result.Points))
	}
	for i, p := range result.Points {
		want := models.PhaseContribution
		if i >= 5 {
			want = models.PhaseGrowth
		}
		if p.Phase != want {
			t.Errorf("year %d phase = %q, want %q", p.Year, p.Phase, want)
		}
	}

	if result.Invested != 300000 {
		t.Errorf("Invested = %v, want 300000", result.Invested)
	}
	if result.Points[7].Invested != 300000 {
		t.Errorf("growth phase must not add contributions, got invested %v", result.Points[7].Invested)
	}

	expected := result.CorpusAtContributionEnd * math.Pow(1.01, 36)
	if math.Abs(result.FinalValue-expected) > 1e-6*expected {
		t.Errorf("FinalValue = %v, want %v", result.FinalValue, expected)
	}
	if result.ExtraGrowth() <= 0 {
		t.Error("extra growth should be positive")
	}
}

func TestAccumulate_Cap(t *testing.T) {
	result := Accumulate(AccumulationPlan{Monthly: 100, AnnualRate: 5, Years: 90, GrowthYears: 30})

	if !result.Capped {
		t.Error("expected cap to be reported")
	}
	if len(result.Points) != MaxAccumulationMonths/12 {
		t.Errorf("got %d points, want %d", len(result.Points), MaxAccumulationMonths/12)
	}
}

func TestWithdraw_Depletes(t *testing.T) {
	// 50,000 > 5,000,000 * 0.08/12
	result := Withdraw(WithdrawalPlan{Corpus: 5000000, Monthly: 50000, AnnualRate: 8})

	if !result.Depleted || result.Capped {
		t.Fatalf("expected depletion, got depleted=%v capped=%v", result.Depleted, result.Capped)
	}
	if result.YearsSustained <= 0 || result.YearsSustained >= MaxWithdrawalMonths/12 {
		t.Errorf("YearsSustained = %d, want finite and below cap", result.YearsSustained)
	}
	if result.FinalBalance != 0 {
		t.Errorf("FinalBalance = %v, want 0", result.FinalBalance)
	}

	last := result.Points[len(result.Points)-1]
	if last.Balance != 0 {
		t.Errorf("last point balance = %v, want 0", last.Balance)
	}
	for i := 1; i < len(result.Points); i++ {
		if result.Points[i].Year != result.Points[i-1].Year+1 {
			t.Errorf("gap in years between %d and %d", result.Points[i-1].Year, result.Points[i].Year)
		}
	}
}

func TestWithdraw_SustainsWhenWithdrawalWithinReturn(t *testing.T) {
	corpus := 5000000.0
	monthlyReturn := corpus * finmath.MonthlyRate(12)

	for _, w := range []float64{monthlyReturn * 0.8, monthlyReturn} {
		result := Withdraw(WithdrawalPlan{Corpus: corpus, Monthly: w, AnnualRate: 12})

		if !result.Capped || result.Depleted {
			t.Errorf("withdrawal %v: expected to sustain until the cap", w)
		}
		if result.YearsSustained != MaxWithdrawalMonths/12 {
			t.Errorf("withdrawal %v: YearsSustained = %d", w, result.YearsSustained)
		}
		if result.FinalBalance < corpus*(1-1e-9) {
			t.Errorf("withdrawal %v: balance decreased to %v", w, result.FinalBalance)
		}
	}
}

func TestWithdraw_InsufficientCorpus(t *testing.T) {
	result := Withdraw(WithdrawalPlan{Corpus: 10000, Monthly: 30000, AnnualRate: 8})

	if result.YearsSustained != 0 || result.MonthsSustained != 0 {
		t.Errorf("got %d years / %d months, want 0", result.YearsSustained, result.MonthsSustained)
	}
	if !result.Depleted {
		t.Error("expected depletion")
	}
	expected := 10000 * (1 + finmath.MonthlyRate(8))
	if math.Abs(result.TotalWithdrawn-expected) > 1e-9 {
		t.Errorf("TotalWithdrawn = %v, want %v", result.TotalWithdrawn, expected)
	}
	if len(result.Points) != 1 || result.Points[0].Phase != models.PhaseDepleted {
		t.Errorf("expected a single depleted point, got %+v", result.Points)
	}
}

func TestWithdraw_EmptyCorpus(t *testing.T) {
	result := Withdraw(WithdrawalPlan{Corpus: 0, Monthly: 1000, AnnualRate: 8})
	if !result.Depleted || len(result.Points) != 0 {
		t.Errorf("expected immediate depletion with no points, got %+v", result)
	}
}

func TestWithdraw_StepUpShortensSustainability(t *testing.T) {
	flat := Withdraw(WithdrawalPlan{Corpus: 5000000, Monthly: 30000, AnnualRate: 8})
	stepped := Withdraw(WithdrawalPlan{Corpus: 5000000, Monthly: 30000, AnnualRate: 8, StepUp: 6})

	if stepped.YearsSustained >= flat.YearsSustained {
		t.Errorf("step-up sustained %d years, flat %d", stepped.YearsSustained, flat.YearsSustained)
	}
}

func TestAmortize_HomeLoanFixture(t *testing.T) {
	result := Amortize(LoanPlan{Principal: 5000000, AnnualRate: 8.5, TenureYears: 20})

	if math.Abs(result.Installment-43391) > 1 {
		t.Errorf("Installment = %.2f, want ~43391", result.Installment)
	}
	if result.Months != 240 {
		t.Errorf("Months = %d, want 240", result.Months)
	}
	if len(result.Points) != 20 {
		t.Fatalf("got %d points, want 20", len(result.Points))
	}

	last := result.Points[19]
	if last.Balance != 0 || last.Principal != 5000000 {
		t.Errorf("last point = %+v, want fully repaid", last)
	}
	if math.Abs(result.TotalPaid-result.Installment*240) > 1 {
		t.Errorf("TotalPaid = %.2f, want %.2f", result.TotalPaid, result.Installment*240)
	}
	if math.Abs(result.TotalInterest-(result.TotalPaid-5000000)) > 1 {
		t.Errorf("TotalInterest = %.2f inconsistent with TotalPaid", result.TotalInterest)
	}
	if result.Capped {
		t.Error("standard loan should not be capped")
	}
}

func TestAmortize_StepUpNeverLengthensPayoff(t *testing.T) {
	prev := math.MaxInt
	for _, stepUp := range []float64{0, 1, 2, 5, 10, 15, 20} {
		result := Amortize(LoanPlan{Principal: 5000000, AnnualRate: 8.5, TenureYears: 20, StepUp: stepUp})
		if result.Months > prev {
			t.Errorf("stepUp %v: payoff %d months exceeds %d", stepUp, result.Months, prev)
		}
		prev = result.Months
	}
	if prev >= 240 {
		t.Errorf("20%% step-up should close the loan early, got %d months", prev)
	}
}

func TestAmortize_PartialFinalYear(t *testing.T) {
	result := Amortize(LoanPlan{Principal: 5000000, AnnualRate: 8.5, TenureYears: 20, StepUp: 10})

	if result.Months%12 == 0 {
		t.Skipf("payoff landed on a year boundary (%d months)", result.Months)
	}
	last := result.Points[len(result.Points)-1]
	if last.Year != result.Months/12+1 {
		t.Errorf("terminal point year = %d, want %d", last.Year, result.Months/12+1)
	}
	if last.Balance != 0 {
		t.Errorf("terminal balance = %v, want 0", last.Balance)
	}
}

func TestAmortize_ZeroRate(t *testing.T) {
	result := Amortize(LoanPlan{Principal: 120000, AnnualRate: 0, TenureYears: 1})

	if result.Installment != 10000 {
		t.Errorf("Installment = %v, want 10000", result.Installment)
	}
	if result.Months != 12 || result.TotalInterest != 0 {
		t.Errorf("got %d months, %v interest", result.Months, result.TotalInterest)
	}
}

func TestAmortize_InstallmentBelowInterestIsCapped(t *testing.T) {
	result := Amortize(LoanPlan{Principal: 1000000, AnnualRate: 12, Installment: 5000})

	if !result.Capped {
		t.Error("expected cap when installment does not cover interest")
	}
	if result.Months != MaxAmortizationMonths {
		t.Errorf("Months = %d, want %d", result.Months, MaxAmortizationMonths)
	}
}

func TestSolveStartingContribution(t *testing.T) {
	corpusFor := func(monthly, rate, stepUp float64, years int) float64 {
		return Accumulate(AccumulationPlan{Monthly: monthly, AnnualRate: rate, Years: years, StepUp: stepUp}).FinalValue
	}

	tests := []struct {
		name string
		goal ContributionGoal
	}{
		{"step-up 10%", ContributionGoal{Target: 10000000, Years: 20, AnnualRate: 12, StepUp: 10}},
		{"flat", ContributionGoal{Target: 5000000, Years: 15, AnnualRate: 10}},
		{"negative step-up", ContributionGoal{Target: 5000000, Years: 15, AnnualRate: 10, StepUp: -5}},
		{"below floor", ContributionGoal{Target: 10000, Years: 10, AnnualRate: 8}},
		{"zero return", ContributionGoal{Target: 1200000, Years: 10, AnnualRate: 0, StepUp: 5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sol := SolveStartingContribution(tt.goal)
			g := tt.goal
			half := DefaultSolverTolerance / 2

			if corpusFor(sol.Monthly+half, g.AnnualRate, g.StepUp, g.Years) < g.Target {
				t.Errorf("monthly %.2f + %.0f still undershoots target", sol.Monthly, half)
			}
			if lo := math.Max(0, sol.Monthly-half); lo > 0 && corpusFor(lo, g.AnnualRate, g.StepUp, g.Years) > g.Target {
				t.Errorf("monthly %.2f - %.0f already overshoots target", sol.Monthly, half)
			}
		})
	}
}

func TestSolveStartingContribution_FlatMatchesClosedForm(t *testing.T) {
	sol := SolveStartingContribution(ContributionGoal{Target: 5000000, Years: 15, AnnualRate: 10})
	exact := finmath.AnnuityDueContribution(5000000, finmath.MonthlyRate(10), 180)

	if math.Abs(sol.Monthly-exact) > DefaultSolverTolerance/2 {
		t.Errorf("Monthly = %.2f, closed form %.2f", sol.Monthly, exact)
	}
}

func TestSolveStartingContribution_Tolerance(t *testing.T) {
	goal := ContributionGoal{Target: 10000000, Years: 20, AnnualRate: 12, StepUp: 10}
	coarse := SolveStartingContribution(goal)

	goal.Tolerance = 1
	fine := SolveStartingContribution(goal)

	if fine.Iterations <= coarse.Iterations {
		t.Errorf("tighter tolerance used %d iterations, default %d", fine.Iterations, coarse.Iterations)
	}
}

func TestSolveStartingContribution_NoTarget(t *testing.T) {
	if sol := SolveStartingContribution(ContributionGoal{Target: 0, Years: 10, AnnualRate: 8}); sol.Monthly != 0 {
		t.Errorf("Monthly = %v, want 0", sol.Monthly)
	}
	if sol := SolveStartingContribution(ContributionGoal{Target: 100000, Years: 0, AnnualRate: 8}); sol.Monthly != 0 {
		t.Errorf("Monthly = %v, want 0", sol.Monthly)
	}
}
