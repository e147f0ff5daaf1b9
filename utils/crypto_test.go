package utils

import (
	"strings"
	"testing"
)

func TestNewInvoiceNumberFormat(t *testing.T) {
	const charset = "0123456789ABCDEFGHJKLMNPQRSTUVWXYZ"

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		invoice := NewInvoiceNumber()
		if !strings.HasPrefix(invoice, "INV-") {
			t.Fatalf("invoice %q missing INV- prefix", invoice)
		}
		suffix := strings.TrimPrefix(invoice, "INV-")
		if len(suffix) != 8 {
			t.Fatalf("invoice %q suffix length = %d, want 8", invoice, len(suffix))
		}
		for _, r := range suffix {
			if !strings.ContainsRune(charset, r) {
				t.Fatalf("invoice %q contains %q outside the charset", invoice, r)
			}
		}
		seen[invoice] = true
	}

	// 34^8 possibilities; 100 draws colliding would mean a broken generator.
	if len(seen) < 100 {
		t.Errorf("got %d distinct invoices out of 100", len(seen))
	}
}

func TestGenerateRandomStringLength(t *testing.T) {
	for _, n := range []int{0, 1, 16, 64} {
		if got := len(GenerateRandomString(n)); got != n {
			t.Errorf("GenerateRandomString(%d) length = %d", n, got)
		}
	}
}
