package calculators

import (
	"github.com/shopspring/decimal"

	"finplan/internal/models"
)

// DefaultStandardDeduction is the salaried deduction under the new regime
const DefaultStandardDeduction = 75000.0

var taxDefaults = models.Params{
	"ctc":               1200000.0,
	"standardDeduction": DefaultStandardDeduction,
}

// TaxSlab taxes income between Lower and Upper (exclusive) at Rate percent.
// A zero Upper means unbounded.
type TaxSlab struct {
	Lower decimal.Decimal
	Upper decimal.Decimal
	Rate  decimal.Decimal
}

func slab(lower, upper int64, rate int64) TaxSlab {
	return TaxSlab{
		Lower: decimal.NewFromInt(lower),
		Upper: decimal.NewFromInt(upper),
		Rate:  decimal.NewFromInt(rate),
	}
}

var (
	// NewRegimeSlabs is the progressive slab table
	NewRegimeSlabs = []TaxSlab{
		slab(0, 300000, 0),
		slab(300000, 700000, 5),
		slab(700000, 1000000, 10),
		slab(1000000, 1200000, 15),
		slab(1200000, 1500000, 20),
		slab(1500000, 0, 30),
	}

	// RebateLimit is the taxable income up to which tax is fully rebated
	RebateLimit = decimal.NewFromInt(700000)

	// CessRate is the health and education cess on computed tax, %
	CessRate = decimal.NewFromInt(4)

	hundred = decimal.NewFromInt(100)
	twelve  = decimal.NewFromInt(12)
)

// TaxInput is an annual salary and the deduction claimed against it
type TaxInput struct {
	CTC               float64
	StandardDeduction float64
}

// TaxInputFromParams reads a tax input with defaults applied
func TaxInputFromParams(p models.Params, _ bool) TaxInput {
	p = taxDefaults.Merge(p)
	return TaxInput{
		CTC:               p.Number("ctc", 0),
		StandardDeduction: p.Number("standardDeduction", DefaultStandardDeduction),
	}
}

// SlabTax is the tax due within one slab
type SlabTax struct {
	Slab   TaxSlab
	Income decimal.Decimal // Portion of taxable income in this slab
	Tax    decimal.Decimal
}

// TaxResult is an itemized tax computation
type TaxResult struct {
	CTC             decimal.Decimal
	Taxable         decimal.Decimal
	Breakdown       []SlabTax
	SlabTax         decimal.Decimal
	Rebated         bool
	Cess            decimal.Decimal
	TotalTax        decimal.Decimal
	MonthlyTakeHome decimal.Decimal
}

// CalculateTax applies the slab table to income net of the standard
// deduction. Taxable income at or below the rebate limit pays nothing.
func CalculateTax(in TaxInput) TaxResult {
	ctc := decimal.NewFromFloat(in.CTC)
	taxable := decimal.Max(decimal.Zero, ctc.Sub(decimal.NewFromFloat(in.StandardDeduction)))

	result := TaxResult{
		CTC:     ctc,
		Taxable: taxable,
		SlabTax: decimal.Zero,
	}

	if taxable.LessThanOrEqual(RebateLimit) {
		result.Rebated = true
	} else {
		for _, s := range NewRegimeSlabs {
			if taxable.LessThanOrEqual(s.Lower) {
				break
			}
			top := taxable
			if !s.Upper.IsZero() {
				top = decimal.Min(taxable, s.Upper)
			}
			income := top.Sub(s.Lower)
			tax := income.Mul(s.Rate).Div(hundred)
			result.Breakdown = append(result.Breakdown, SlabTax{Slab: s, Income: income, Tax: tax})
			result.SlabTax = result.SlabTax.Add(tax)
		}
	}

	result.Cess = result.SlabTax.Mul(CessRate).Div(hundred)
	result.TotalTax = result.SlabTax.Add(result.Cess)
	result.MonthlyTakeHome = ctc.Sub(result.TotalTax).Div(twelve)
	return result
}

// Result adapts the tax computation to the generic result
func (r TaxResult) Result() *models.CalculationResult {
	label := "Taxable"
	if r.Rebated {
		label = "Fully rebated"
	}

	effective := decimal.Zero
	if r.CTC.IsPositive() {
		effective = r.TotalTax.Div(r.CTC).Mul(hundred)
	}

	// Series carries one row per slab: Value is income in the slab, Interest the tax on it
	series := make([]models.YearlyDataPoint, 0, len(r.Breakdown))
	for i, b := range r.Breakdown {
		series = append(series, models.YearlyDataPoint{
			Year:     i,
			Value:    b.Income.InexactFloat64(),
			Interest: b.Tax.InexactFloat64(),
		})
	}

	return &models.CalculationResult{
		Tool:  models.CalcTax,
		Label: label,
		Figures: []models.Figure{
			figure("taxable", "Taxable income", r.Taxable.InexactFloat64(), models.UnitCurrency),
			figure("slab_tax", "Tax on slabs", r.SlabTax.InexactFloat64(), models.UnitCurrency),
			figure("cess", "Cess", r.Cess.InexactFloat64(), models.UnitCurrency),
			figure("total_tax", "Total tax", r.TotalTax.InexactFloat64(), models.UnitCurrency),
			figure("monthly_take_home", "Monthly take-home", r.MonthlyTakeHome.InexactFloat64(), models.UnitCurrency),
			figure("effective_rate", "Effective tax rate", effective.InexactFloat64(), models.UnitPercent),
		},
		Series: series,
	}
}
