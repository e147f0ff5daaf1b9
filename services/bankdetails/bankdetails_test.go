package bankdetails

import (
	"testing"

	"borderpay-payment-api/services/fees"
)

func TestEverySupportedCurrencyHasARecord(t *testing.T) {
	for code := range fees.Currencies {
		record, ok := Lookup(code)
		if !ok {
			t.Errorf("no bank details record for %s", code)
			continue
		}
		if record.Currency != code {
			t.Errorf("record for %s carries currency %q", code, record.Currency)
		}
		if len(record.RequiredFields) == 0 {
			t.Errorf("record for %s has no required fields", code)
		}
		if len(record.ReceivingAccount) == 0 {
			t.Errorf("record for %s has no receiving account", code)
		}
	}
}

func TestLookupUnknownCurrency(t *testing.T) {
	if _, ok := Lookup("NOK"); ok {
		t.Error("Lookup(NOK) = true, want false")
	}
}

func TestRequiredFieldsAreLabeled(t *testing.T) {
	for code := range fees.Currencies {
		record, _ := Lookup(code)
		for _, field := range record.RequiredFields {
			if field.Name == "" || field.Label == "" {
				t.Errorf("%s: field %+v missing name or label", code, field)
			}
		}
	}
}

func TestCurrenciesMatchesRecords(t *testing.T) {
	codes := Currencies()
	if len(codes) != len(fees.Currencies) {
		t.Fatalf("Currencies() returned %d codes, want %d", len(codes), len(fees.Currencies))
	}
	for _, code := range codes {
		if _, ok := Lookup(code); !ok {
			t.Errorf("Currencies() lists %s but Lookup fails", code)
		}
	}
}
