// internal/core/domain/barcode.go
package domain

// BarCodeLength is the number of digits in an EAN-13 code
const BarCodeLength = 13

// ValidEAN13 reports whether code is a 13 digit EAN-13 with a correct check digit.
// Digits at even positions weigh 1 and digits at odd positions weigh 3.
func ValidEAN13(code string) bool {
	if len(code) != BarCodeLength {
		return false
	}

	sum := 0
	for i := 0; i < BarCodeLength-1; i++ {
		c := code[i]
		if c < '0' || c > '9' {
			return false
		}
		d := int(c - '0')
		if i%2 == 1 {
			d *= 3
		}
		sum += d
	}

	last := code[BarCodeLength-1]
	if last < '0' || last > '9' {
		return false
	}

	check := (10 - sum%10) % 10
	return check == int(last-'0')
}

// EAN13CheckDigit computes the check digit for the first 12 digits of a code.
// It returns -1 when prefix is not 12 ASCII digits.
func EAN13CheckDigit(prefix string) int {
	if len(prefix) != BarCodeLength-1 {
		return -1
	}
	sum := 0
	for i := 0; i < len(prefix); i++ {
		c := prefix[i]
		if c < '0' || c > '9' {
			return -1
		}
		d := int(c - '0')
		if i%2 == 1 {
			d *= 3
		}
		sum += d
	}
	return (10 - sum%10) % 10
}
