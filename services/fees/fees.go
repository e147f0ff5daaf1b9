package fees

import (
	"errors"
	"sort"

	"github.com/shopspring/decimal"
)

// Currencies is the fixed allow-list. Submissions in any other currency are
// rejected before a remote call is made.
var Currencies = map[string]string{
	"USD": "United States Dollar",
	"EUR": "Euro",
	"GBP": "British Pound Sterling",
	"JPY": "Japanese Yen",
	"CAD": "Canadian Dollar",
	"AUD": "Australian Dollar",
	"CHF": "Swiss Franc",
	"CNY": "Chinese Yuan",
	"HKD": "Hong Kong Dollar",
	"SGD": "Singapore Dollar",
}

// Processing fees are a fixed percentage plus a flat component: 2.9% + 0.30
// for USD, 3.9% + 0.30 for everything else. The real schedule varies by
// card country and method; this mirrors the provider's published baseline.
var (
	domesticRate      = decimal.RequireFromString("0.029")
	internationalRate = decimal.RequireFromString("0.039")
	flatFee           = decimal.RequireFromString("0.30")
)

var clearanceTimes = map[string]string{
	"USD": "2-3 business days",
	"EUR": "2-3 business days",
	"GBP": "2-3 business days",
	"JPY": "3-5 business days",
	"CAD": "2-3 business days",
	"AUD": "2-3 business days",
	"CHF": "3-5 business days",
	"CNY": "3-5 business days",
	"HKD": "3-5 business days",
	"SGD": "3-5 business days",
}

const defaultClearanceTime = "5-7 business days"

var ErrInvalidAmount = errors.New("amount must be greater than zero")

func Supported(currency string) bool {
	_, ok := Currencies[currency]
	return ok
}

// SupportedCurrencies returns the allow-list codes in stable order.
func SupportedCurrencies() []string {
	codes := make([]string, 0, len(Currencies))
	for code := range Currencies {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// Estimate returns the processing fee for an amount, rounded to two
// decimals. The only failure mode is a non-positive amount.
func Estimate(amount decimal.Decimal, currency string) (decimal.Decimal, error) {
	if amount.Sign() <= 0 {
		return decimal.Zero, ErrInvalidAmount
	}
	rate := internationalRate
	if currency == "USD" {
		rate = domesticRate
	}
	return amount.Mul(rate).Add(flatFee).Round(2), nil
}

// ClearanceTime returns the canned settlement estimate for a currency,
// falling back to a catch-all for anything unlisted.
func ClearanceTime(currency string) string {
	if t, ok := clearanceTimes[currency]; ok {
		return t
	}
	return defaultClearanceTime
}
