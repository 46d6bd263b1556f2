package domain_test

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ammerola/pos-inventory/internal/core/domain"
)

func TestValidEAN13(t *testing.T) {
	tests := []struct {
		name string
		code string
		want bool
	}{
		{name: "real_ean13", code: "4006381333931", want: true},
		{name: "another_real_ean13", code: "7891000315507", want: true},
		{name: "check_digit_zero", code: "7891000315590", want: true},
		{name: "flipped_last_digit", code: "4006381333932", want: false},
		{name: "twelve_digits", code: "400638133393", want: false},
		{name: "fourteen_digits", code: "40063813339310", want: false},
		{name: "non_numeric", code: "40063813339a1", want: false},
		{name: "non_numeric_check_digit", code: "400638133393x", want: false},
		{name: "empty", code: "", want: false},
		{name: "unicode_digits", code: "４００６３８１３３３９３１", want: false},
		{name: "swapped_weights_variant", code: "4006381333937", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, domain.ValidEAN13(tt.code))
		})
	}
}

func TestValidEAN13_AnyWrongCheckDigitFails(t *testing.T) {
	prefix := "400638133393"
	valid := domain.EAN13CheckDigit(prefix)
	assert.Equal(t, 1, valid)

	for d := 0; d <= 9; d++ {
		code := prefix + strconv.Itoa(d)
		assert.Equal(t, d == valid, domain.ValidEAN13(code), code)
	}
}

func TestEAN13CheckDigit(t *testing.T) {
	assert.Equal(t, 7, domain.EAN13CheckDigit("789100031550"))
	assert.Equal(t, -1, domain.EAN13CheckDigit("12345"))
	assert.Equal(t, -1, domain.EAN13CheckDigit("78910003155a"))
}
