package money

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrNotPositive      = errors.New("amount must be greater than zero")
	ErrNotRepresentable = errors.New("amount is not representable in minor units")
)

var hundred = decimal.NewFromInt(100)

// ToMinorUnits converts a major-unit amount (e.g. dollars) to an integer
// minor-unit amount (cents) using round-half-away-from-zero, so 19.995
// becomes 2000 rather than drifting a sub-cent. The input must be a finite
// positive number and the result must fit a positive int64.
func ToMinorUnits(amount float64) (int64, error) {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return 0, ErrNotRepresentable
	}
	if amount <= 0 {
		return 0, ErrNotPositive
	}

	minor := decimal.NewFromFloat(amount).Mul(hundred).Round(0)
	if !minor.BigInt().IsInt64() {
		return 0, ErrNotRepresentable
	}

	value := minor.IntPart()
	if value <= 0 {
		return 0, ErrNotPositive
	}
	return value, nil
}

// ToMajorUnits is the inverse for display purposes. Minor-unit amounts come
// from the gateway already divided once; callers must not divide again.
func ToMajorUnits(minor int64) float64 {
	return decimal.NewFromInt(minor).Div(hundred).InexactFloat64()
}

var currencySymbols = map[string]string{
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
	"NGN": "₦",
	"ZMW": "K",
}

// Format renders a minor-unit amount as a display string, e.g. "$50.00".
// Unknown currencies fall back to "CODE 50.00".
func Format(minor int64, currency string) string {
	currency = strings.ToUpper(strings.TrimSpace(currency))
	value := decimal.NewFromInt(minor).Div(hundred).StringFixed(2)
	if symbol, ok := currencySymbols[currency]; ok {
		return symbol + value
	}
	if currency == "" {
		return value
	}
	return fmt.Sprintf("%s %s", currency, value)
}
