package calculators

import (
	"math"

	"finplan/internal/models"
	"finplan/internal/services/finmath"
)

// Lumpsum modes
const (
	LumpsumForward = "forward" // Amount grows to a future value
	LumpsumReverse = "reverse" // Investment needed today for a target
)

var lumpsumDefaults = models.Params{
	"amount": 100000.0,
	"rate":   12.0,
	"years":  5.0,
	"mode":   LumpsumForward,
	"target": 1000000.0,
}

// LumpsumInput describes a one-time investment
type LumpsumInput struct {
	Amount     float64
	AnnualRate float64
	Years      int
	Mode       string
	Target     float64
}

// LumpsumInputFromParams reads a lumpsum input. Unknown modes fall back to forward.
func LumpsumInputFromParams(p models.Params, _ bool) LumpsumInput {
	p = lumpsumDefaults.Merge(p)
	mode := p.Enum("mode", LumpsumForward)
	if mode != LumpsumReverse {
		mode = LumpsumForward
	}
	return LumpsumInput{
		Amount:     p.Number("amount", 0),
		AnnualRate: p.Number("rate", 0),
		Years:      p.Int("years", 0),
		Mode:       mode,
		Target:     p.Number("target", 0),
	}
}

// LumpsumResult is the outcome of a lumpsum calculation
type LumpsumResult struct {
	Mode       string
	Principal  float64 // Amount invested today
	FinalValue float64
	Points     []models.YearlyDataPoint
	Capped     bool // Horizon exceeded MaxSeriesYears
}

// CalculateLumpsum grows a one-time investment, or in reverse mode solves for
// the investment that grows to the target
func CalculateLumpsum(in LumpsumInput) LumpsumResult {
	years, capped := seriesYears(in.Years)
	result := LumpsumResult{Mode: in.Mode, Capped: capped}

	if in.Mode == LumpsumReverse {
		result.Principal = finmath.PresentValue(in.Target, in.AnnualRate, float64(years))
		result.FinalValue = in.Target
	} else {
		result.Principal = in.Amount
		result.FinalValue = finmath.FutureValue(in.Amount, in.AnnualRate, float64(years))
	}

	// Series starts at year 0, the day of investment
	result.Points = make([]models.YearlyDataPoint, 0, years+1)
	for y := 0; y <= years; y++ {
		result.Points = append(result.Points, models.YearlyDataPoint{
			Year:     y,
			Invested: math.Round(result.Principal),
			Value:    math.Round(finmath.FutureValue(result.Principal, in.AnnualRate, float64(y))),
		})
	}
	return result
}

// Result adapts the lumpsum outcome to the generic result
func (r LumpsumResult) Result() *models.CalculationResult {
	var figures []models.Figure
	if r.Mode == LumpsumReverse {
		figures = append(figures,
			figure("required_investment", "Investment needed today", r.Principal, models.UnitCurrency),
			figure("target", "Target amount", r.FinalValue, models.UnitCurrency),
		)
	} else {
		figures = append(figures,
			figure("future_value", "Future value", r.FinalValue, models.UnitCurrency),
			figure("invested", "Invested amount", r.Principal, models.UnitCurrency),
		)
	}
	figures = append(figures, figure("gain", "Wealth gained", r.FinalValue-r.Principal, models.UnitCurrency))

	return &models.CalculationResult{
		Tool:    models.CalcLumpsum,
		Label:   r.Mode,
		Figures: figures,
		Series:  r.Points,
		Capped:  r.Capped,
	}
}
