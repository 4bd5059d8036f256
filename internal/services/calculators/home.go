package calculators

import (
	"finplan/internal/models"
	"finplan/internal/services/finmath"
	"finplan/internal/services/projection"
)

// maxDownPaymentPercent keeps property = loan/(1-dp) finite
const maxDownPaymentPercent = 99.0

var homeDefaults = models.Params{
	"income":       100000.0,
	"rate":         8.5,
	"tenure":       20.0,
	"downPayment":  20.0,
	"emiRatio":     40.0,
	"stampDuty":    5.0,
	"registration": 1.0,
	"gst":          0.0,
	"fixedCosts":   100000.0,
}

// HomeInput describes a home purchase sized by monthly income
type HomeInput struct {
	Income      float64 // Monthly income
	AnnualRate  float64
	TenureYears int
	DownPayment float64 // % of property value
	EMIRatio    float64 // % of income available for the EMI

	// Acquisition costs, advanced mode only
	StampDuty    float64 // % of property value
	Registration float64 // % of property value
	GST          float64 // % of property value
	FixedCosts   float64
}

// HomeInputFromParams reads a home affordability input. Acquisition costs are
// zero unless advanced is set.
func HomeInputFromParams(p models.Params, advanced bool) HomeInput {
	p = homeDefaults.Merge(p)
	return HomeInput{
		Income:       p.Number("income", 0),
		AnnualRate:   p.Number("rate", 0),
		TenureYears:  p.Int("tenure", 0),
		DownPayment:  p.Number("downPayment", 0),
		EMIRatio:     p.Number("emiRatio", 0),
		StampDuty:    advancedNumber(p, "stampDuty", advanced),
		Registration: advancedNumber(p, "registration", advanced),
		GST:          advancedNumber(p, "gst", advanced),
		FixedCosts:   advancedNumber(p, "fixedCosts", advanced),
	}
}

// HomeResult is what the buyer can afford and the cash needed upfront
type HomeResult struct {
	MaxEMI            float64
	MaxLoan           float64
	PropertyValue     float64
	DownPaymentAmount float64
	AcquisitionCost   float64 // Stamp duty, registration, GST and fixed costs
	UpfrontCash       float64 // Down payment plus acquisition cost
	TotalCost         float64
	Schedule          projection.Amortization
}

// CalculateHomeAffordability derives the largest loan the EMI budget
// services, grosses it up by the down payment and adds acquisition costs
func CalculateHomeAffordability(in HomeInput) HomeResult {
	months := max(in.TenureYears, 0) * finmath.MonthsPerYear
	downPayment := clamp(in.DownPayment, 0, maxDownPaymentPercent)

	result := HomeResult{MaxEMI: in.Income * in.EMIRatio / 100}
	result.MaxLoan = finmath.AnnuityPresentValue(result.MaxEMI, finmath.MonthlyRate(in.AnnualRate), months)
	result.PropertyValue = result.MaxLoan / (1 - downPayment/100)
	result.DownPaymentAmount = result.PropertyValue - result.MaxLoan

	// GST is a flat share of the property value, whatever the construction status
	result.AcquisitionCost = result.PropertyValue*(in.StampDuty+in.Registration+in.GST)/100 + in.FixedCosts
	result.UpfrontCash = result.DownPaymentAmount + result.AcquisitionCost
	result.TotalCost = result.PropertyValue + result.AcquisitionCost

	result.Schedule = projection.Amortize(projection.LoanPlan{
		Principal:   result.MaxLoan,
		AnnualRate:  in.AnnualRate,
		TenureYears: in.TenureYears,
		Installment: result.MaxEMI,
	})
	return result
}

// Result adapts the affordability outcome to the generic result
func (r HomeResult) Result() *models.CalculationResult {
	return &models.CalculationResult{
		Tool: models.CalcHomeAfford,
		Figures: []models.Figure{
			figure("max_emi", "Affordable EMI", r.MaxEMI, models.UnitCurrency),
			figure("max_loan", "Maximum loan", r.MaxLoan, models.UnitCurrency),
			figure("property_value", "Property value", r.PropertyValue, models.UnitCurrency),
			figure("down_payment", "Down payment", r.DownPaymentAmount, models.UnitCurrency),
			figure("acquisition_cost", "Acquisition costs", r.AcquisitionCost, models.UnitCurrency),
			figure("upfront_cash", "Cash needed upfront", r.UpfrontCash, models.UnitCurrency),
			figure("total_cost", "Total cost of ownership", r.TotalCost, models.UnitCurrency),
		},
		Series: r.Schedule.Points,
		Capped: r.Schedule.Capped,
	}
}
