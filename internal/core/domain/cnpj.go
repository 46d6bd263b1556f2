// internal/core/domain/cnpj.go
package domain

import "strings"

const cnpjLength = 14

var cnpjWeights = [...]int{6, 5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}

// NormalizeCNPJ strips every non-digit rune from s
func NormalizeCNPJ(s string) string {
	var b strings.Builder
	b.Grow(cnpjLength)
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ValidCNPJ validates a Brazilian company registry number, formatted or not
func ValidCNPJ(s string) bool {
	digits := NormalizeCNPJ(s)
	if len(digits) != cnpjLength {
		return false
	}

	allEqual := true
	for i := 1; i < cnpjLength; i++ {
		if digits[i] != digits[0] {
			allEqual = false
			break
		}
	}
	if allEqual {
		return false
	}

	d := make([]int, cnpjLength)
	for i := range digits {
		d[i] = int(digits[i] - '0')
	}

	first := cnpjCheckDigit(d[:12], cnpjWeights[1:])
	if d[12] != first {
		return false
	}
	second := cnpjCheckDigit(d[:13], cnpjWeights[:])
	return d[13] == second
}

func cnpjCheckDigit(digits []int, weights []int) int {
	sum := 0
	for i, w := range weights {
		sum += digits[i] * w
	}
	rem := sum % 11
	if rem < 2 {
		return 0
	}
	return 11 - rem
}

// FormatCNPJ renders 14 digits as 00.000.000/0000-00
func FormatCNPJ(digits string) string {
	if len(digits) != cnpjLength {
		return digits
	}
	return digits[0:2] + "." + digits[2:5] + "." + digits[5:8] + "/" + digits[8:12] + "-" + digits[12:14]
}
