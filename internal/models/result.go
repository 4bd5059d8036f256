package models

import "math"

// Series phases used to separate simulator output
const (
	PhaseContribution = "contribution"
	PhaseGrowth       = "growth"
	PhaseDepleted     = "depleted"
)

// YearlyDataPoint is one yearly snapshot of a simulation. Which amounts are
// meaningful depends on the calculator that produced it.
type YearlyDataPoint struct {
	Year       int     `json:"year"`
	Invested   float64 `json:"invested"`
	Value      float64 `json:"value"`
	Balance    float64 `json:"balance"`
	Withdrawal float64 `json:"withdrawal"`
	Principal  float64 `json:"principal"`
	Interest   float64 `json:"interest"`
	Phase      string  `json:"phase,omitempty"`
}

// Figure is a headline number of a calculation
type Figure struct {
	Key   string  `json:"key"`
	Label string  `json:"label"`
	Value float64 `json:"value"`
	Unit  Unit    `json:"unit"`
}

// CalculationResult is the generic output of any calculator
type CalculationResult struct {
	Tool    CalculatorID      `json:"tool"`
	Label   string            `json:"label,omitempty"` // Band or verdict, when the tool has one
	Figures []Figure          `json:"figures"`
	Series  []YearlyDataPoint `json:"series"`
	Capped  bool              `json:"capped"` // Simulation hit its month cap without converging
}

// Figure returns the value of the headline figure with the given key
func (r *CalculationResult) Figure(key string) (float64, bool) {
	for _, f := range r.Figures {
		if f.Key == key {
			return f.Value, true
		}
	}
	return 0, false
}

// Finite reports whether every figure and series amount is a finite number.
// Extreme inputs, such as a -100% rate in reverse mode, can drive a
// calculation to infinity.
func (r *CalculationResult) Finite() bool {
	for _, f := range r.Figures {
		if !finite(f.Value) {
			return false
		}
	}
	for _, p := range r.Series {
		for _, v := range []float64{p.Invested, p.Value, p.Balance, p.Withdrawal, p.Principal, p.Interest} {
			if !finite(v) {
				return false
			}
		}
	}
	return true
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// GrowthSummary condenses an invested-vs-value series
type GrowthSummary struct {
	TotalInvested  float64   `json:"total_invested"`
	FinalValue     float64   `json:"final_value"`
	AbsoluteGain   float64   `json:"absolute_gain"`
	GainPercent    float64   `json:"gain_percent"`
	WealthMultiple float64   `json:"wealth_multiple"`
	Years          int       `json:"years"`
	YearOverYear   []float64 `json:"year_over_year"` // % change in value per year
}

// FigureChange compares one headline figure across two results
type FigureChange struct {
	Key           string  `json:"key"`
	Label         string  `json:"label"`
	Current       float64 `json:"current"`
	Baseline      float64 `json:"baseline"`
	Difference    float64 `json:"difference"`
	PercentChange float64 `json:"percent_change"`
}

// ResultComparison compares two results of the same calculator
type ResultComparison struct {
	Tool    CalculatorID   `json:"tool"`
	Changes []FigureChange `json:"changes"`
}
