package service

import (
	"math"
	"sort"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"fipe-web/domain"
)

// MonthlyPayment returns the fixed monthly installment of a loan under
// standard amortization. A zero rate is repaid in equal straight-line parts.
func MonthlyPayment(principal, annualRatePercent float64, termMonths int) (float64, error) {
	if err := validateLoan(principal, annualRatePercent, termMonths); err != nil {
		return 0, err
	}

	if annualRatePercent == 0 {
		return principal / float64(termMonths), nil
	}

	monthlyRate := (annualRatePercent / 100) / 12
	n := float64(termMonths)
	straightLine := principal / n

	// 1 - (1+r)^-n, kept accurate when 1+r rounds to 1.
	denominator := -math.Expm1(-n * math.Log1p(monthlyRate))
	if !(denominator > 0) || math.IsInf(denominator, 0) {
		return straightLine, nil
	}

	payment := principal * monthlyRate / denominator
	if math.IsNaN(payment) || math.IsInf(payment, 0) {
		return 0, domain.InvalidArgument("parcela não calculável para taxa %v", annualRatePercent)
	}

	// Any positive rate costs at least the straight-line installment.
	return math.Max(payment, straightLine), nil
}

func validateLoan(principal, annualRatePercent float64, termMonths int) error {
	if math.IsNaN(principal) || math.IsInf(principal, 0) || principal <= 0 {
		return domain.InvalidArgument("valor financiado inválido: %v", principal)
	}
	if principal > MaxLoanAmount {
		return domain.InvalidArgument("valor excede o máximo permitido de %.2f", MaxLoanAmount)
	}
	if math.IsNaN(annualRatePercent) || math.IsInf(annualRatePercent, 0) || annualRatePercent < 0 {
		return domain.InvalidArgument("taxa de juros inválida: %v", annualRatePercent)
	}
	if annualRatePercent > MaxInterestRate {
		return domain.InvalidArgument("taxa de juros excede o máximo permitido de %.2f%%", MaxInterestRate)
	}
	if termMonths < MinTermMonths {
		return domain.InvalidArgument("prazo inválido: %d", termMonths)
	}
	if termMonths > MaxTermMonths {
		return domain.InvalidArgument("prazo excede o máximo permitido de %d meses", MaxTermMonths)
	}
	return nil
}

type FinancingService struct {
	log *zap.Logger
}

func NewFinancingService(log *zap.Logger) *FinancingService {
	return &FinancingService{log: log}
}

// Calculate computes the installment for the requested term and for each
// of the standard terms.
func (s *FinancingService) Calculate(
	input domain.FinancingInput,
) (domain.FinancingResult, error) {

	option, err := termOption(input.Principal, input.AnnualRatePercent, input.TermMonths)
	if err != nil {
		return domain.FinancingResult{}, err
	}

	terms := []int{input.TermMonths}
	for _, t := range StandardTerms {
		if t != input.TermMonths {
			terms = append(terms, t)
		}
	}
	sort.Ints(terms)

	alternatives := make([]domain.TermOption, 0, len(terms))
	for _, term := range terms {
		if term == input.TermMonths {
			option.Selected = true
			alternatives = append(alternatives, option)
			continue
		}
		alt, err := termOption(input.Principal, input.AnnualRatePercent, term)
		if err != nil {
			s.log.Warn("skipping alternative term", zap.Int("term_months", term), zap.Error(err))
			continue
		}
		alternatives = append(alternatives, alt)
	}

	s.log.Debug("financing calculated",
		zap.Float64("principal", input.Principal),
		zap.Float64("annual_rate_percent", input.AnnualRatePercent),
		zap.Int("term_months", input.TermMonths),
		zap.String("monthly_payment", option.MonthlyPayment.StringFixed(2)),
	)

	return domain.FinancingResult{
		Principal:         decimal.NewFromFloat(input.Principal).Round(2),
		AnnualRatePercent: input.AnnualRatePercent,
		TermMonths:        input.TermMonths,
		MonthlyPayment:    option.MonthlyPayment,
		TotalPayment:      option.TotalPayment,
		TotalInterest:     option.TotalInterest,
		Alternatives:      alternatives,
	}, nil
}

func termOption(principal, annualRatePercent float64, termMonths int) (domain.TermOption, error) {
	payment, err := MonthlyPayment(principal, annualRatePercent, termMonths)
	if err != nil {
		return domain.TermOption{}, err
	}

	monthly := decimal.NewFromFloat(payment).Round(2)
	total := decimal.NewFromFloat(payment * float64(termMonths)).Round(2)
	interest := total.Sub(decimal.NewFromFloat(principal)).Round(2)

	return domain.TermOption{
		TermMonths:     termMonths,
		MonthlyPayment: monthly,
		TotalPayment:   total,
		TotalInterest:  interest,
	}, nil
}
