// internal/core/domain/money.go
package domain

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var brlPattern = regexp.MustCompile(`^(0|[1-9]\d{0,2}(\.\d{3})*),\d{2}$`)

// ParseBRL parses a pt-BR formatted amount such as "1.234,56".
// A leading "R$" and surrounding spaces are accepted.
func ParseBRL(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimSpace(strings.TrimPrefix(s, "R$"))
	if !brlPattern.MatchString(s) {
		return decimal.Zero, NewInvalidInput("amount", "expected format 1.234,56")
	}
	s = strings.ReplaceAll(s, ".", "")
	s = strings.Replace(s, ",", ".", 1)
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, NewInvalidInput("amount", err.Error())
	}
	return d, nil
}

// FormatBRL renders d with two decimals, "." thousands and "," decimal separator
func FormatBRL(d decimal.Decimal) string {
	neg := d.IsNegative()
	s := d.Abs().StringFixed(2)
	intPart, frac, _ := strings.Cut(s, ".")

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
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
