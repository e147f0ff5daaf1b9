package fees

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestEstimateUSD(t *testing.T) {
	fee, err := Estimate(decimal.RequireFromString("10.00"), "USD")
	if err != nil {
		t.Fatalf("Estimate returned error: %v", err)
	}
	if !fee.Equal(decimal.RequireFromString("0.59")) {
		t.Errorf("expected fee 0.59, got %s", fee)
	}

	total := decimal.RequireFromString("10.00").Add(fee)
	if !total.Equal(decimal.RequireFromString("10.59")) {
		t.Errorf("expected total 10.59, got %s", total)
	}
}

func TestEstimateInternational(t *testing.T) {
	fee, err := Estimate(decimal.RequireFromString("100.00"), "EUR")
	if err != nil {
		t.Fatalf("Estimate returned error: %v", err)
	}
	if !fee.Equal(decimal.RequireFromString("4.20")) {
		t.Errorf("expected fee 4.20, got %s", fee)
	}
}

func TestEstimateRates(t *testing.T) {
	tests := []struct {
		amount   string
		currency string
		want     string
	}{
		{"10.00", "USD", "0.59"},
		{"100.00", "USD", "3.20"},
		{"100.00", "EUR", "4.20"},
		{"100.00", "GBP", "4.20"},
		{"50.00", "JPY", "2.25"},
		{"0.01", "USD", "0.30"},
	}

	for _, tt := range tests {
		fee, err := Estimate(decimal.RequireFromString(tt.amount), tt.currency)
		if err != nil {
			t.Errorf("Estimate(%s, %s) returned error: %v", tt.amount, tt.currency, err)
			continue
		}
		if !fee.Equal(decimal.RequireFromString(tt.want)) {
			t.Errorf("Estimate(%s, %s) = %s, want %s", tt.amount, tt.currency, fee, tt.want)
		}
	}
}

func TestEstimateRejectsNonPositiveAmounts(t *testing.T) {
	for _, amount := range []string{"0", "-1", "-0.01"} {
		if _, err := Estimate(decimal.RequireFromString(amount), "USD"); err != ErrInvalidAmount {
			t.Errorf("Estimate(%s) error = %v, want ErrInvalidAmount", amount, err)
		}
	}
}

func TestClearanceTime(t *testing.T) {
	tests := []struct {
		currency string
		want     string
	}{
		{"USD", "2-3 business days"},
		{"EUR", "2-3 business days"},
		{"GBP", "2-3 business days"},
		{"CAD", "2-3 business days"},
		{"AUD", "2-3 business days"},
		{"JPY", "3-5 business days"},
		{"CHF", "3-5 business days"},
		{"CNY", "3-5 business days"},
		{"HKD", "3-5 business days"},
		{"SGD", "3-5 business days"},
		{"NOK", "5-7 business days"},
		{"XXX", "5-7 business days"},
		{"", "5-7 business days"},
	}

	for _, tt := range tests {
		if got := ClearanceTime(tt.currency); got != tt.want {
			t.Errorf("ClearanceTime(%q) = %q, want %q", tt.currency, got, tt.want)
		}
	}
}

func TestSupported(t *testing.T) {
	for code := range Currencies {
		if !Supported(code) {
			t.Errorf("Supported(%q) = false, want true", code)
		}
	}
	if Supported("NOK") {
		t.Error("Supported(NOK) = true, want false")
	}
}

func TestSupportedCurrenciesOrdered(t *testing.T) {
	codes := SupportedCurrencies()
	if len(codes) != len(Currencies) {
		t.Fatalf("expected %d codes, got %d", len(Currencies), len(codes))
	}
	for i := 1; i < len(codes); i++ {
		if codes[i-1] >= codes[i] {
			t.Errorf("codes not sorted: %s before %s", codes[i-1], codes[i])
		}
	}
}
