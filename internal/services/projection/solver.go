package projection

import (
	"finplan/internal/services/finmath"
)

const (
	// DefaultSolverTolerance is the width of the contribution interval, in
	// currency units, at which the search stops. A tighter tolerance costs
	// more iterations, each of which is one accumulation run.
	DefaultSolverTolerance = 100.0

	// solverFloor is the smallest starting contribution considered
	solverFloor = 1000.0

	// maxBoundExpansions limits doubling of the upper bound
	maxBoundExpansions = 64
)

// ContributionGoal asks for the starting contribution that reaches Target
type ContributionGoal struct {
	Target     float64
	Years      int
	AnnualRate float64 // % p.a.
	StepUp     float64 // Annual contribution increase, %
	Tolerance  float64 // 0 uses DefaultSolverTolerance
}

// Solution is the result of a contribution search
type Solution struct {
	Monthly    float64 // Starting monthly contribution
	Corpus     float64 // Terminal corpus produced by Monthly
	Iterations int
}

// SolveStartingContribution finds the starting monthly contribution whose
// stepped-up accumulation reaches the goal's target corpus. Terminal corpus is
// strictly increasing in the starting contribution, so bisection converges;
// the interval halves every iteration, so it terminates.
func SolveStartingContribution(goal ContributionGoal) Solution {
	months := goal.Years * finmath.MonthsPerYear
	if goal.Target <= 0 || months <= 0 {
		return Solution{}
	}

	tolerance := goal.Tolerance
	if tolerance <= 0 {
		tolerance = DefaultSolverTolerance
	}

	corpus := func(monthly float64) float64 {
		return Accumulate(AccumulationPlan{
			Monthly:    monthly,
			AnnualRate: goal.AnnualRate,
			Years:      goal.Years,
			StepUp:     goal.StepUp,
		}).FinalValue
	}

	flat := finmath.AnnuityDueContribution(goal.Target, finmath.MonthlyRate(goal.AnnualRate), months)
	low, high := solverFloor, 2*flat
	if high <= low || corpus(low) >= goal.Target {
		low = 0
	}

	// A shrinking contribution (negative step-up) can need more than 2x flat
	for i := 0; i < maxBoundExpansions && corpus(high) < goal.Target; i++ {
		low = high
		high *= 2
	}

	iterations := 0
	for high-low >= tolerance {
		mid := (low + high) / 2
		if corpus(mid) < goal.Target {
			low = mid
		} else {
			high = mid
		}
		iterations++
	}

	monthly := (low + high) / 2
	return Solution{
		Monthly:    monthly,
		Corpus:     corpus(monthly),
		Iterations: iterations,
	}
}
