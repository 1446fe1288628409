package domain

import "github.com/shopspring/decimal"

type FinancingInput struct {
	Principal         float64
	AnnualRatePercent float64
	TermMonths        int
}

// TermOption is one row of the alternative terms table.
type TermOption struct {
	TermMonths     int
	MonthlyPayment decimal.Decimal
	TotalPayment   decimal.Decimal
	TotalInterest  decimal.Decimal
	Selected       bool
}

type FinancingResult struct {
	Principal         decimal.Decimal
	AnnualRatePercent float64
	TermMonths        int
	MonthlyPayment    decimal.Decimal
	TotalPayment      decimal.Decimal
	TotalInterest     decimal.Decimal
	Alternatives      []TermOption
}
