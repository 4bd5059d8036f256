package models

// CalculatorID identifies one calculator tool
type CalculatorID string

const (
	CalcRiskProfile     CalculatorID = "risk-profile"
	CalcAssetAllocation CalculatorID = "asset-allocation"
	CalcSIP             CalculatorID = "sip"
	CalcLumpsum         CalculatorID = "lumpsum"
	CalcRetirementAccum CalculatorID = "retirement-accum"
	CalcSWP             CalculatorID = "swp"
	CalcRetirementDist  CalculatorID = "retirement-dist"
	CalcEMI             CalculatorID = "emi"
	CalcHomeAfford      CalculatorID = "home-afford"
	CalcInsurance       CalculatorID = "insurance"
	CalcTax             CalculatorID = "tax"
)

// ToolCategory groups calculators for navigation
type ToolCategory string

const (
	CategoryPlanning   ToolCategory = "Planning"
	CategoryInvestment ToolCategory = "Investment"
	CategoryWithdrawal ToolCategory = "Withdrawal"
	CategoryLoans      ToolCategory = "Loans"
	CategoryTax        ToolCategory = "Tax"
)

// Unit describes how a headline figure should be read
type Unit string

const (
	UnitCurrency Unit = "currency"
	UnitPercent  Unit = "percent"
	UnitYears    Unit = "years"
	UnitMonths   Unit = "months"
	UnitScore    Unit = "score"
)
