package calculators

import (
	"finplan/internal/models"
)

// resulter is implemented by every calculator outcome
type resulter interface {
	Result() *models.CalculationResult
}

// Tool is one registered calculator
type Tool struct {
	ID               models.CalculatorID `json:"id"`
	Label            string              `json:"label"`
	Category         models.ToolCategory `json:"category"`
	SupportsAdvanced bool                `json:"supports_advanced"`
	Defaults         models.Params       `json:"defaults"`

	run func(p models.Params, advanced bool) resulter
}

// Calculate runs the tool with params layered over its defaults
func (t Tool) Calculate(params models.Params, advanced bool) *models.CalculationResult {
	merged := t.Defaults.Merge(params)
	return t.run(merged, advanced && t.SupportsAdvanced).Result()
}

// Keys returns the parameter names the tool understands, sorted
func (t Tool) Keys() []string {
	return t.Defaults.Keys()
}

func riskDefaults() models.Params {
	p := models.Params{}
	for _, q := range RiskQuestions {
		p[q.Key] = float64(models.Unanswered)
	}
	return p
}

var tools = []Tool{
	{
		ID: models.CalcRiskProfile, Label: "Risk Profiler", Category: models.CategoryPlanning,
		Defaults: riskDefaults(),
		run: func(p models.Params, adv bool) resulter {
			return CalculateRiskProfile(RiskQuizFromParams(p, adv))
		},
	},
	{
		ID: models.CalcAssetAllocation, Label: "Asset Allocation", Category: models.CategoryPlanning,
		Defaults: allocationDefaults,
		run: func(p models.Params, adv bool) resulter {
			return CalculateAllocation(AllocationInputFromParams(p, adv))
		},
	},
	{
		ID: models.CalcSIP, Label: "SIP Calculator", Category: models.CategoryInvestment,
		SupportsAdvanced: true,
		Defaults:         sipDefaults,
		run: func(p models.Params, adv bool) resulter {
			return CalculateSIP(SIPInputFromParams(p, adv))
		},
	},
	{
		ID: models.CalcLumpsum, Label: "Lumpsum Growth", Category: models.CategoryInvestment,
		Defaults: lumpsumDefaults,
		run: func(p models.Params, adv bool) resulter {
			return CalculateLumpsum(LumpsumInputFromParams(p, adv))
		},
	},
	{
		ID: models.CalcRetirementAccum, Label: "Retirement Planner", Category: models.CategoryPlanning,
		SupportsAdvanced: true,
		Defaults:         retirementDefaults,
		run: func(p models.Params, adv bool) resulter {
			return CalculateRetirement(RetirementInputFromParams(p, adv))
		},
	},
	{
		ID: models.CalcSWP, Label: "SWP Calculator", Category: models.CategoryWithdrawal,
		SupportsAdvanced: true,
		Defaults:         swpDefaults,
		run: func(p models.Params, adv bool) resulter {
			return CalculateSWP(SWPInputFromParams(p, adv))
		},
	},
	{
		ID: models.CalcRetirementDist, Label: "Retirement Income", Category: models.CategoryWithdrawal,
		Defaults: retirementDistDefaults,
		run: func(p models.Params, adv bool) resulter {
			return CalculateRetirementDist(RetirementDistInputFromParams(p, adv))
		},
	},
	{
		ID: models.CalcEMI, Label: "EMI Calculator", Category: models.CategoryLoans,
		SupportsAdvanced: true,
		Defaults:         emiDefaults,
		run: func(p models.Params, adv bool) resulter {
			return CalculateEMI(EMIInputFromParams(p, adv))
		},
	},
	{
		ID: models.CalcHomeAfford, Label: "Home Affordability", Category: models.CategoryLoans,
		SupportsAdvanced: true,
		Defaults:         homeDefaults,
		run: func(p models.Params, adv bool) resulter {
			return CalculateHomeAffordability(HomeInputFromParams(p, adv))
		},
	},
	{
		ID: models.CalcInsurance, Label: "Life Insurance (HLV)", Category: models.CategoryPlanning,
		Defaults: insuranceDefaults,
		run: func(p models.Params, adv bool) resulter {
			return CalculateInsurance(InsuranceInputFromParams(p, adv))
		},
	},
	{
		ID: models.CalcTax, Label: "Income Tax", Category: models.CategoryTax,
		Defaults: taxDefaults,
		run: func(p models.Params, adv bool) resulter {
			return CalculateTax(TaxInputFromParams(p, adv))
		},
	},
}

// Tools returns every registered calculator in display order
func Tools() []Tool {
	out := make([]Tool, len(tools))
	for i, t := range tools {
		out[i] = t
		out[i].Defaults = t.Defaults.Clone()
	}
	return out
}

// Lookup finds a calculator by id
func Lookup(id models.CalculatorID) (Tool, bool) {
	for _, t := range tools {
		if t.ID == id {
			t.Defaults = t.Defaults.Clone()
			return t, true
		}
	}
	return Tool{}, false
}
