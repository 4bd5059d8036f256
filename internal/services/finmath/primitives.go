// Package finmath holds the closed-form compounding and annuity formulas the
// calculators are built from. All rates are annual percentages unless a
// parameter says otherwise.
package finmath

import "math"

// MonthsPerYear is the compounding frequency used throughout
const MonthsPerYear = 12

// FutureValue calculates the value of a present amount after compounding
// FV = PV * (1 + r)^n
func FutureValue(presentValue, annualRatePercent, years float64) float64 {
	return presentValue * math.Pow(1+annualRatePercent/100, years)
}

// PresentValue calculates the amount that grows into futureValue
// PV = FV / (1 + r)^n
func PresentValue(futureValue, annualRatePercent, years float64) float64 {
	return futureValue / math.Pow(1+annualRatePercent/100, years)
}

// MonthlyRate converts an annual percentage into the per-month decimal rate
func MonthlyRate(annualRatePercent float64) float64 {
	return annualRatePercent / MonthsPerYear / 100
}

// EquatedInstallment calculates the level payment that amortizes principal
// EMI = P * r * (1+r)^n / ((1+r)^n - 1), r = monthly rate, n = months
func EquatedInstallment(principal, annualRatePercent float64, totalPeriods int) float64 {
	if totalPeriods <= 0 {
		return principal
	}
	r := MonthlyRate(annualRatePercent)
	n := float64(totalPeriods)
	if r == 0 {
		return principal / n
	}
	growth := math.Pow(1+r, n)
	return principal * r * growth / (growth - 1)
}

// AnnuityPresentValue calculates the loan a level payment can service
// PV = PMT * ((1+r)^n - 1) / (r * (1+r)^n)
func AnnuityPresentValue(payment, periodRate float64, periods int) float64 {
	if periods <= 0 {
		return 0
	}
	n := float64(periods)
	if periodRate == 0 {
		return payment * n
	}
	growth := math.Pow(1+periodRate, n)
	return payment * (growth - 1) / (periodRate * growth)
}

// AnnuityDueContribution calculates the level contribution that reaches target
// when each contribution is added before the period's growth is applied.
// PMT = FV * r / (((1+r)^n - 1) * (1+r))
func AnnuityDueContribution(target, periodRate float64, periods int) float64 {
	if periods <= 0 {
		return target
	}
	n := float64(periods)
	if periodRate == 0 {
		return target / n
	}
	return target * periodRate / ((math.Pow(1+periodRate, n) - 1) * (1 + periodRate))
}

// RealRate returns the inflation-adjusted rate as a decimal
// real = (1 + nominal) / (1 + inflation) - 1
func RealRate(nominalPercent, inflationPercent float64) float64 {
	return (1+nominalPercent/100)/(1+inflationPercent/100) - 1
}

// RealAnnuityPresentValue calculates the PV of a yearly payment held constant in
// real terms, discounted at the real rate. Near-zero real rates degrade to
// simple multiplication.
func RealAnnuityPresentValue(annualPayment, realRate float64, years float64) float64 {
	if years <= 0 {
		return 0
	}
	if math.Abs(realRate) < RealRateEpsilon {
		return annualPayment * years
	}
	return annualPayment * (1 - math.Pow(1+realRate, -years)) / realRate
}

// RealRateEpsilon is the |real rate| below which annuity formulas are unstable
const RealRateEpsilon = 0.001
