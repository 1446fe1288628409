package service

const (
	MaxLoanAmount   = 1_000_000_000.0
	MaxInterestRate = 1000.0 // % per year
	MaxTermMonths   = 600
	MinTermMonths   = 1

	DefaultCatalogBaseURL = "https://parallelum.com.br/fipe/api/v1"
)

// StandardTerms are listed next to the requested term on the financing page.
var StandardTerms = []int{12, 24, 36, 48, 60}
