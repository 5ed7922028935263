package money

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Exponent is the smallest representable fraction of the ledger currency:
// amounts carry at most two decimal places.
const Exponent = -2

// ErrInvalidAmount indicates an amount that is not a positive value with at
// most two fractional digits.
var ErrInvalidAmount = errors.New("invalid amount")

// Validate checks that d is usable as a statement amount. Amounts must be
// strictly positive and must not carry sub-cent precision: 0.001 is rejected
// rather than silently rounded.
func Validate(d decimal.Decimal) error {
	if !d.IsPositive() {
		return fmt.Errorf("%w: must be positive, got %s", ErrInvalidAmount, d)
	}
	if d.Exponent() < Exponent && !d.Equal(d.Truncate(-Exponent)) {
		return fmt.Errorf("%w: more than two decimal places in %s", ErrInvalidAmount, d)
	}
	return nil
}

// Format renders an amount with exactly two decimal places, the canonical
// wire representation.
func Format(d decimal.Decimal) string {
	return d.StringFixed(-Exponent)
}

// Parse converts the canonical string form back into a decimal and validates
// it as a statement amount.
func Parse(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %s", ErrInvalidAmount, s)
	}
	if err := Validate(d); err != nil {
		return decimal.Zero, err
	}
	return d, nil
}

// MustParse is a test helper that panics on malformed input.
func MustParse(s string) decimal.Decimal {
	d, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return d
}
