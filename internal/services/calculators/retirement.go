package calculators

import (
	"finplan/internal/models"
	"finplan/internal/services/finmath"
	"finplan/internal/services/projection"
)

var retirementDefaults = models.Params{
	"age":            30.0,
	"retireAge":      60.0,
	"expenses":       50000.0,
	"inflation":      6.0,
	"preRate":        12.0,
	"postRate":       8.0,
	"lifeExpectancy": 85.0,
	"stepUp":         0.0,
}

// RetirementInput describes a retirement accumulation goal
type RetirementInput struct {
	Age            int
	RetireAge      int
	Expenses       float64 // Monthly expenses in today's money
	Inflation      float64 // % p.a.
	PreRate        float64 // Return before retirement, % p.a.
	PostRate       float64 // Return after retirement, % p.a.
	LifeExpectancy int
	StepUp         float64 // Advanced: annual contribution increase, %
}

// RetirementInputFromParams reads a retirement input with defaults applied
func RetirementInputFromParams(p models.Params, advanced bool) RetirementInput {
	p = retirementDefaults.Merge(p)
	return RetirementInput{
		Age:            p.Int("age", 0),
		RetireAge:      p.Int("retireAge", 0),
		Expenses:       p.Number("expenses", 0),
		Inflation:      p.Number("inflation", 0),
		PreRate:        p.Number("preRate", 0),
		PostRate:       p.Number("postRate", 0),
		LifeExpectancy: p.Int("lifeExpectancy", 0),
		StepUp:         advancedNumber(p, "stepUp", advanced),
	}
}

// RetirementResult is the corpus needed at retirement and the contribution
// that builds it
type RetirementResult struct {
	YearsToRetire     int
	RetirementYears   int
	FutureMonthly     float64 // Monthly expense at retirement, inflated
	RealRate          float64 // Post-retirement real return, decimal
	RequiredCorpus    float64
	MonthlyInvestment float64 // Starting monthly contribution
	LumpSumNeeded     float64 // Corpus due today when already at retirement age
	SolverIterations  int
	ProjectedCorpus   float64
	Points            []models.YearlyDataPoint
	Capped            bool
}

// CalculateRetirement sizes the corpus that funds inflation-adjusted
// expenses for the retirement years, then the monthly contribution that
// accumulates it. A stepped-up contribution is found with the solver.
func CalculateRetirement(in RetirementInput) RetirementResult {
	result := RetirementResult{
		YearsToRetire:   max(in.RetireAge-in.Age, 0),
		RetirementYears: max(in.LifeExpectancy-in.RetireAge, 0),
	}

	result.FutureMonthly = finmath.FutureValue(in.Expenses, in.Inflation, float64(result.YearsToRetire))
	result.RealRate = finmath.RealRate(in.PostRate, in.Inflation)
	result.RequiredCorpus = finmath.RealAnnuityPresentValue(
		result.FutureMonthly*finmath.MonthsPerYear,
		result.RealRate,
		float64(result.RetirementYears),
	)

	months := result.YearsToRetire * finmath.MonthsPerYear
	switch {
	case months == 0:
		result.LumpSumNeeded = result.RequiredCorpus
		result.ProjectedCorpus = result.RequiredCorpus
		result.Points = []models.YearlyDataPoint{}
		return result
	case in.StepUp == 0:
		result.MonthlyInvestment = finmath.AnnuityDueContribution(result.RequiredCorpus, finmath.MonthlyRate(in.PreRate), months)
	default:
		sol := projection.SolveStartingContribution(projection.ContributionGoal{
			Target:     result.RequiredCorpus,
			Years:      result.YearsToRetire,
			AnnualRate: in.PreRate,
			StepUp:     in.StepUp,
			Tolerance:  SolverTolerance(),
		})
		result.MonthlyInvestment = sol.Monthly
		result.SolverIterations = sol.Iterations
	}

	acc := projection.Accumulate(projection.AccumulationPlan{
		Monthly:    result.MonthlyInvestment,
		AnnualRate: in.PreRate,
		Years:      result.YearsToRetire,
		StepUp:     in.StepUp,
	})
	result.ProjectedCorpus = acc.FinalValue
	result.Points = acc.Points
	result.Capped = acc.Capped
	return result
}

// Result adapts the retirement outcome to the generic result
func (r RetirementResult) Result() *models.CalculationResult {
	contribution := figure("monthly_investment", "Monthly investment needed", r.MonthlyInvestment, models.UnitCurrency)
	if r.YearsToRetire == 0 {
		contribution = figure("lump_sum_needed", "Lump sum needed today", r.LumpSumNeeded, models.UnitCurrency)
	}
	return &models.CalculationResult{
		Tool: models.CalcRetirementAccum,
		Figures: []models.Figure{
			figure("future_monthly_expense", "Monthly expense at retirement", r.FutureMonthly, models.UnitCurrency),
			figure("required_corpus", "Corpus required", r.RequiredCorpus, models.UnitCurrency),
			contribution,
			figure("projected_corpus", "Projected corpus", r.ProjectedCorpus, models.UnitCurrency),
			figure("years_to_retire", "Years to retirement", float64(r.YearsToRetire), models.UnitYears),
			figure("retirement_years", "Years in retirement", float64(r.RetirementYears), models.UnitYears),
			figure("real_rate", "Real return after retirement", r.RealRate*100, models.UnitPercent),
		},
		Series: r.Points,
		Capped: r.Capped,
	}
}
