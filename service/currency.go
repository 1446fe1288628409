package service

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"fipe-web/domain"
)

const brlSymbol = "R$"

// ParseBRL parses a Brazilian-locale amount such as "R$ 12.345,67".
// The "R$" prefix is optional.
func ParseBRL(s string) (decimal.Decimal, error) {
	raw := s
	s = strings.TrimSpace(s)

	negative := false
	if strings.HasPrefix(s, "-") {
		negative = true
		s = strings.TrimSpace(s[1:])
	}
	s = strings.TrimSpace(strings.TrimPrefix(s, brlSymbol))
	if strings.HasPrefix(s, "-") && !negative {
		negative = true
		s = strings.TrimSpace(s[1:])
	}

	s = strings.ReplaceAll(s, ".", "")
	s = strings.Replace(s, ",", ".", 1)

	if s == "" || strings.ContainsAny(s, "+-eE ") {
		return decimal.Zero, domain.ParseError("valor monetário inválido: "+strconv.Quote(raw), nil)
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, domain.ParseError("valor monetário inválido: "+strconv.Quote(raw), err)
	}
	if negative {
		d = d.Neg()
	}
	return d, nil
}

// FormatBRL renders d as "R$ 12.345,67".
func FormatBRL(d decimal.Decimal) string {
	d = d.Round(2)

	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Abs()
	}

	fixed := d.StringFixed(2)
	intPart, frac, _ := strings.Cut(fixed, ".")

	var b strings.Builder
	b.WriteString(sign)
	b.WriteString(brlSymbol)
	b.WriteByte(' ')
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	b.WriteByte(',')
	b.WriteString(frac)
	return b.String()
}
