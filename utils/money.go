package utils

import (
	"github.com/shopspring/decimal"
)

// zeroDecimalCurrencies have no minor unit; the processor expects their
// amounts unscaled.
var zeroDecimalCurrencies = map[string]bool{
	"JPY": true,
	"KRW": true,
	"VND": true,
}

var hundred = decimal.NewFromInt(100)

// MinorUnits converts a decimal amount to the integer minor-unit value the
// processor API expects (cents for most currencies, whole units for
// zero-decimal ones).
func MinorUnits(amount decimal.Decimal, currency string) int64 {
	if zeroDecimalCurrencies[currency] {
		return amount.Round(0).IntPart()
	}
	return amount.Mul(hundred).Round(0).IntPart()
}

// FromMinorUnits is the inverse of MinorUnits.
func FromMinorUnits(minor int64, currency string) decimal.Decimal {
	d := decimal.NewFromInt(minor)
	if zeroDecimalCurrencies[currency] {
		return d
	}
	return d.Div(hundred)
}

func Round(value decimal.Decimal) decimal.Decimal {
	return value.Round(2)
}
