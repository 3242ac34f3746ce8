// Package validation holds the amount and currency gates that run before the
// payment engine is invoked. Bounds follow the PKR processing limits.
package validation

import (
	"errors"
	"fmt"
)

const (
	// MinAmount is 150 PKR in paisa (roughly the processor's USD 0.50 floor).
	MinAmount = 15000
	// MaxAmount is 500,000 PKR in paisa.
	MaxAmount = 50000000
)

var ErrUnsupportedCurrency = errors.New("only PKR currency is supported for Pakistan payments")

// Amount checks the processing bounds. The engine trusts this gate has run
// and does not re-validate.
func Amount(amount int64) error {
	if amount < MinAmount {
		return fmt.Errorf("minimum amount is %d paisa (%s)", MinAmount, FormatAmount(MinAmount))
	}
	if amount > MaxAmount {
		return fmt.Errorf("maximum amount is %d paisa (%s)", MaxAmount, FormatAmount(MaxAmount))
	}
	return nil
}

func Currency(code string) error {
	if code != "PKR" {
		return ErrUnsupportedCurrency
	}
	return nil
}

func MinimumAmount() int64 {
	return MinAmount
}

func FormatAmount(amount int64) string {
	return fmt.Sprintf("PKR %.2f", float64(amount)/100)
}
