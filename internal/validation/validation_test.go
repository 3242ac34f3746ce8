package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAmount(t *testing.T) {
	tests := []struct {
		name   string
		amount int64
		ok     bool
	}{
		{"below minimum", 14999, false},
		{"at minimum", 15000, true},
		{"typical", 20000, true},
		{"at maximum", 50000000, true},
		{"above maximum", 50000001, false},
		{"zero", 0, false},
		{"negative", -100, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Amount(tt.amount)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestCurrency(t *testing.T) {
	assert.NoError(t, Currency("PKR"))
	for _, code := range []string{"USD", "EUR", "GBP", "pkr", ""} {
		assert.ErrorIs(t, Currency(code), ErrUnsupportedCurrency, "code %q", code)
	}
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "PKR 150.00", FormatAmount(15000))
	assert.Equal(t, "PKR 0.01", FormatAmount(1))
	assert.Equal(t, "PKR 500000.00", FormatAmount(50000000))
}
