package transfer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/shopspring/decimal"

	"borderpay-payment-api/models"
	"borderpay-payment-api/services/transfer/transferapi"
)

// writeJSON sets the content type explicitly; resty only decodes bodies it
// recognizes as JSON.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func validTransferRequest() *models.TransferRequest {
	return &models.TransferRequest{
		SourceCurrency: "USD",
		TargetCurrency: "EUR",
		Amount:         decimal.RequireFromString("100.00"),
		Reference:      "INV-ABC12345",
		Recipient: models.RecipientDetails{
			HolderName: "Grace Hopper",
			Fields: map[string]string{
				"IBAN": "DE89370400440532013000",
			},
		},
	}
}

func TestInitiateTransferChain(t *testing.T) {
	var quoteBody, accountBody, transferBody map[string]interface{}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/quotes":
			json.NewDecoder(r.Body).Decode(&quoteBody)
			writeJSON(w, http.StatusOK, transferapi.Quote{
				ID:             "q_1",
				SourceCurrency: "USD",
				TargetCurrency: "EUR",
				Rate:           decimal.RequireFromString("0.92"),
			})
		case "/accounts":
			json.NewDecoder(r.Body).Decode(&accountBody)
			writeJSON(w, http.StatusOK, transferapi.RecipientAccount{ID: 42, Currency: "EUR"})
		case "/transfers":
			json.NewDecoder(r.Body).Decode(&transferBody)
			writeJSON(w, http.StatusOK, transferapi.Transfer{
				ID:            7001,
				TargetAccount: 42,
				QuoteID:       "q_1",
				Status:        transferapi.TransferStatusIncoming,
			})
		default:
			t.Errorf("unexpected request to %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	svc := NewServiceWithClient(transferapi.NewClientWithEndpoint("tk_test", "profile_1", server.URL))

	result, err := svc.InitiateTransfer(context.Background(), validTransferRequest())
	if err != nil {
		t.Fatalf("InitiateTransfer returned error: %v", err)
	}

	if result.TransferID != 7001 || result.QuoteID != "q_1" || result.AccountID != 42 {
		t.Errorf("unexpected result: %+v", result)
	}
	if result.Status != transferapi.TransferStatusIncoming {
		t.Errorf("Status = %q", result.Status)
	}
	if result.Reference != "INV-ABC12345" {
		t.Errorf("Reference = %q", result.Reference)
	}

	if quoteBody["rateType"] != "FIXED" {
		t.Errorf("quote rateType = %v, want FIXED", quoteBody["rateType"])
	}
	if accountBody["type"] != "iban" {
		t.Errorf("account type = %v, want iban for EUR", accountBody["type"])
	}
	if transferBody["quoteUuid"] != "q_1" {
		t.Errorf("transfer quoteUuid = %v", transferBody["quoteUuid"])
	}
	if transferBody["customerTransactionId"] == "" || transferBody["customerTransactionId"] == nil {
		t.Error("transfer is missing customerTransactionId")
	}
	details, _ := transferBody["details"].(map[string]interface{})
	if details["reference"] != "INV-ABC12345" {
		t.Errorf("transfer details.reference = %v", details["reference"])
	}
}

func TestInitiateTransferAbortsOnAccountFailure(t *testing.T) {
	var transferCalls int64

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/quotes":
			writeJSON(w, http.StatusOK, transferapi.Quote{ID: "q_1"})
		case "/accounts":
			writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"message": "IBAN is invalid"})
		case "/transfers":
			atomic.AddInt64(&transferCalls, 1)
		}
	}))
	defer server.Close()

	svc := NewServiceWithClient(transferapi.NewClientWithEndpoint("tk_test", "profile_1", server.URL))

	_, err := svc.InitiateTransfer(context.Background(), validTransferRequest())
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !strings.Contains(err.Error(), "recipient account creation failed") {
		t.Errorf("error %q does not name the failed step", err)
	}
	if !strings.Contains(err.Error(), "IBAN is invalid") {
		t.Errorf("error %q does not carry the provider message", err)
	}

	if n := atomic.LoadInt64(&transferCalls); n != 0 {
		t.Errorf("/transfers was called %d times after an aborted chain, want 0", n)
	}
}

func TestInitiateTransferValidatesBeforeRemoteCall(t *testing.T) {
	var calls int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	svc := NewServiceWithClient(transferapi.NewClientWithEndpoint("tk_test", "profile_1", server.URL))

	tests := []struct {
		name    string
		mutate  func(*models.TransferRequest)
		wantErr error
	}{
		{"zero amount", func(r *models.TransferRequest) { r.Amount = decimal.Zero }, ErrInvalidAmount},
		{"unsupported source", func(r *models.TransferRequest) { r.SourceCurrency = "NOK" }, ErrUnsupportedCurrency},
		{"unsupported target", func(r *models.TransferRequest) { r.TargetCurrency = "XXX" }, ErrUnsupportedCurrency},
		{"missing holder", func(r *models.TransferRequest) { r.Recipient.HolderName = "" }, ErrMissingRecipient},
		{"missing fields", func(r *models.TransferRequest) { r.Recipient.Fields = nil }, ErrMissingRecipient},
	}

	for _, tt := range tests {
		req := validTransferRequest()
		tt.mutate(req)

		if _, err := svc.InitiateTransfer(context.Background(), req); err != tt.wantErr {
			t.Errorf("%s: error = %v, want %v", tt.name, err, tt.wantErr)
		}
	}

	if n := atomic.LoadInt64(&calls); n != 0 {
		t.Errorf("provider received %d requests for invalid submissions, want 0", n)
	}
}

func TestInitiateTransferDefaultsReferenceToQuoteID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/quotes":
			writeJSON(w, http.StatusOK, transferapi.Quote{ID: "q_77"})
		case "/accounts":
			writeJSON(w, http.StatusOK, transferapi.RecipientAccount{ID: 1})
		case "/transfers":
			writeJSON(w, http.StatusOK, transferapi.Transfer{ID: 5, Status: transferapi.TransferStatusProcessing})
		}
	}))
	defer server.Close()

	req := validTransferRequest()
	req.Reference = ""

	svc := NewServiceWithClient(transferapi.NewClientWithEndpoint("tk_test", "profile_1", server.URL))

	result, err := svc.InitiateTransfer(context.Background(), req)
	if err != nil {
		t.Fatalf("InitiateTransfer returned error: %v", err)
	}
	if result.Reference != "q_77" {
		t.Errorf("Reference = %q, want quote id q_77", result.Reference)
	}
}
