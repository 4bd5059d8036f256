// Package calculators implements the client-facing financial calculators on
// top of the projection engine. Every calculator is a pure function of its
// input; the registry maps tool ids to defaults and adapters producing the
// generic models.CalculationResult.
package calculators

import (
	"math"
	"sync/atomic"

	"finplan/internal/models"
	"finplan/internal/services/projection"
)

// MaxSeriesYears bounds the yearly series of calculators that step a
// horizon directly instead of through a projection
const MaxSeriesYears = 100

// solverTolerance is shared by calculators that run the contribution solver
var solverTolerance atomic.Value

func init() {
	solverTolerance.Store(projection.DefaultSolverTolerance)
}

// SetSolverTolerance changes the contribution solver tolerance. Values <= 0
// restore the default.
func SetSolverTolerance(tolerance float64) {
	if tolerance <= 0 {
		tolerance = projection.DefaultSolverTolerance
	}
	solverTolerance.Store(tolerance)
}

// SolverTolerance returns the tolerance currently used by the solver
func SolverTolerance() float64 {
	return solverTolerance.Load().(float64)
}

// advancedNumber reads a parameter that only applies in advanced mode
func advancedNumber(p models.Params, key string, advanced bool) float64 {
	if !advanced {
		return 0
	}
	return p.Number(key, 0)
}

func figure(key, label string, value float64, unit models.Unit) models.Figure {
	return models.Figure{Key: key, Label: label, Value: value, Unit: unit}
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, v))
}

// seriesYears bounds a horizon to [0, MaxSeriesYears] and reports whether it
// was cut short
func seriesYears(years int) (int, bool) {
	if years > MaxSeriesYears {
		return MaxSeriesYears, true
	}
	return max(years, 0), false
}
