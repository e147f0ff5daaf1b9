package utils

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestMinorUnits(t *testing.T) {
	tests := []struct {
		amount   string
		currency string
		want     int64
	}{
		{"10.59", "USD", 1059},
		{"0.30", "EUR", 30},
		{"100", "GBP", 10000},
		{"1500", "JPY", 1500},
		{"1500.4", "JPY", 1500},
		{"0.005", "USD", 1},
	}

	for _, tt := range tests {
		if got := MinorUnits(decimal.RequireFromString(tt.amount), tt.currency); got != tt.want {
			t.Errorf("MinorUnits(%s, %s) = %d, want %d", tt.amount, tt.currency, got, tt.want)
		}
	}
}

func TestFromMinorUnits(t *testing.T) {
	if got := FromMinorUnits(1059, "USD"); !got.Equal(decimal.RequireFromString("10.59")) {
		t.Errorf("FromMinorUnits(1059, USD) = %s, want 10.59", got)
	}
	if got := FromMinorUnits(1500, "JPY"); !got.Equal(decimal.NewFromInt(1500)) {
		t.Errorf("FromMinorUnits(1500, JPY) = %s, want 1500", got)
	}
}

func TestMinorUnitsRoundTrip(t *testing.T) {
	for _, amount := range []string{"0.01", "10.59", "99999.99"} {
		d := decimal.RequireFromString(amount)
		if got := FromMinorUnits(MinorUnits(d, "USD"), "USD"); !got.Equal(d) {
			t.Errorf("round trip of %s gave %s", amount, got)
		}
	}
}

func TestRound(t *testing.T) {
	if got := Round(decimal.RequireFromString("4.199")); !got.Equal(decimal.RequireFromString("4.20")) {
		t.Errorf("Round(4.199) = %s, want 4.20", got)
	}
}
