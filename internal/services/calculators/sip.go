package calculators

import (
	"finplan/internal/models"
	"finplan/internal/services/projection"
)

var sipDefaults = models.Params{
	"monthly":     10000.0,
	"rate":        12.0,
	"years":       10.0,
	"stepUp":      0.0,
	"extendYears": 0.0,
}

// SIPInput describes a systematic investment plan
type SIPInput struct {
	Monthly     float64
	AnnualRate  float64
	Years       int
	StepUp      float64 // Advanced: annual contribution increase, %
	ExtendYears int     // Advanced: growth-only years after contributions stop
}

// SIPInputFromParams reads a SIP input, falling back to the calculator defaults
func SIPInputFromParams(p models.Params, advanced bool) SIPInput {
	p = sipDefaults.Merge(p)
	return SIPInput{
		Monthly:     p.Number("monthly", 0),
		AnnualRate:  p.Number("rate", 0),
		Years:       p.Int("years", 0),
		StepUp:      advancedNumber(p, "stepUp", advanced),
		ExtendYears: int(advancedNumber(p, "extendYears", advanced)),
	}
}

// SIPResult is the outcome of a SIP projection
type SIPResult struct {
	projection.Accumulation
	Gain float64
}

// CalculateSIP projects a monthly investment with optional step-up and a
// growth-only extension
func CalculateSIP(in SIPInput) SIPResult {
	acc := projection.Accumulate(projection.AccumulationPlan{
		Monthly:     in.Monthly,
		AnnualRate:  in.AnnualRate,
		Years:       in.Years,
		StepUp:      in.StepUp,
		GrowthYears: in.ExtendYears,
	})
	return SIPResult{
		Accumulation: acc,
		Gain:         acc.FinalValue - acc.Invested,
	}
}

// Result adapts the SIP outcome to the generic result
func (r SIPResult) Result() *models.CalculationResult {
	figures := []models.Figure{
		figure("final_value", "Final corpus", r.FinalValue, models.UnitCurrency),
		figure("invested", "Total invested", r.Invested, models.UnitCurrency),
		figure("gain", "Wealth gained", r.Gain, models.UnitCurrency),
		figure("corpus_at_contribution_end", "Corpus when contributions stop", r.CorpusAtContributionEnd, models.UnitCurrency),
		figure("extra_growth", "Growth after contributions stop", r.ExtraGrowth(), models.UnitCurrency),
		figure("last_contribution", "Final monthly contribution", r.LastContribution, models.UnitCurrency),
	}
	return &models.CalculationResult{
		Tool:    models.CalcSIP,
		Figures: figures,
		Series:  r.Points,
		Capped:  r.Capped,
	}
}
