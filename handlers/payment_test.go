package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"

	"borderpay-payment-api/queue"
	"borderpay-payment-api/services/payment"
	"borderpay-payment-api/services/payment/processorapi"
)

// newPaymentBackend stands in for the processor: tokenization then intent
// creation.
func newPaymentBackend(t *testing.T, intentStatus string) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/payment_methods":
			json.NewEncoder(w).Encode(processorapi.PaymentMethod{ID: "pm_1"})
		case "/payment_intents":
			json.NewEncoder(w).Encode(processorapi.Intent{ID: "pi_1", Status: intentStatus})
		case "/balance":
			json.NewEncoder(w).Encode(processorapi.Balance{
				Available: []processorapi.BalanceAmount{{Amount: 100000, Currency: "usd"}},
			})
		default:
			t.Errorf("unexpected request to %s", r.URL.Path)
		}
	}))
}

const validPaymentBody = `{
	"amount": "10.00",
	"currency": "USD",
	"method": "card",
	"card": {
		"number": "4242424242424242",
		"exp_month": "12",
		"exp_year": "2032",
		"cvc": "123",
		"holder_name": "Ada Lovelace"
	}
}`

func TestSubmitPaymentRemembersReference(t *testing.T) {
	backend := newPaymentBackend(t, processorapi.IntentStatusSucceeded)
	defer backend.Close()

	jobs := &stubQueue{}
	handler := NewPaymentHandler(
		payment.NewServiceWithClient(processorapi.NewClientWithEndpoint("sk_test", backend.URL)),
		jobs,
		newTestStore(),
	)

	req := httptest.NewRequest(http.MethodPost, "/api/payments", strings.NewReader(validPaymentBody))
	rec := httptest.NewRecorder()
	handler.SubmitPayment(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if len(rec.Result().Cookies()) == 0 {
		t.Error("expected a session cookie carrying the invoice reference")
	}
	if len(jobs.jobs) != 0 {
		t.Errorf("plain submission enqueued %d jobs, want 0", len(jobs.jobs))
	}
}

func TestSubmitPaymentValidationFailureIs400(t *testing.T) {
	backend := newPaymentBackend(t, processorapi.IntentStatusSucceeded)
	defer backend.Close()

	handler := NewPaymentHandler(
		payment.NewServiceWithClient(processorapi.NewClientWithEndpoint("sk_test", backend.URL)),
		&stubQueue{},
		newTestStore(),
	)

	body := strings.Replace(validPaymentBody, `"10.00"`, `"0"`, 1)
	req := httptest.NewRequest(http.MethodPost, "/api/payments", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.SubmitPayment(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestSubmitPaymentBadBodyIs400(t *testing.T) {
	handler := NewPaymentHandler(nil, &stubQueue{}, newTestStore())

	req := httptest.NewRequest(http.MethodPost, "/api/payments", strings.NewReader("{broken"))
	rec := httptest.NewRecorder()
	handler.SubmitPayment(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestPreauthorizeSchedulesRelease(t *testing.T) {
	backend := newPaymentBackend(t, processorapi.IntentStatusRequiresCapture)
	defer backend.Close()

	jobs := &stubQueue{}
	handler := NewPaymentHandler(
		payment.NewServiceWithClient(processorapi.NewClientWithEndpoint("sk_test", backend.URL)),
		jobs,
		newTestStore(),
	)

	req := httptest.NewRequest(http.MethodPost, "/api/payments/preauthorize", strings.NewReader(validPaymentBody))
	rec := httptest.NewRecorder()
	handler.PreauthorizePayment(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	if len(jobs.jobs) != 1 {
		t.Fatalf("enqueued %d jobs, want 1", len(jobs.jobs))
	}
	job := jobs.jobs[0]
	if job.jobType != queue.JobTypeCancelIntent {
		t.Errorf("job type = %q", job.jobType)
	}
	if job.data["intent_id"] != "pi_1" {
		t.Errorf("intent_id = %v", job.data["intent_id"])
	}
	if job.delay != 24*time.Hour {
		t.Errorf("delay = %v, want 24h", job.delay)
	}
}

func TestGetBalance(t *testing.T) {
	backend := newPaymentBackend(t, processorapi.IntentStatusSucceeded)
	defer backend.Close()

	handler := NewPaymentHandler(
		payment.NewServiceWithClient(processorapi.NewClientWithEndpoint("sk_test", backend.URL)),
		&stubQueue{},
		newTestStore(),
	)

	req := httptest.NewRequest(http.MethodGet, "/api/balance", nil)
	rec := httptest.NewRecorder()
	handler.GetBalance(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Data struct {
			Available map[string]string `json:"available"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Data.Available["USD"] != "1000" {
		t.Errorf("USD balance = %q, want 1000", resp.Data.Available["USD"])
	}
}

func TestCancelPaymentSurfacesNotFound(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"error": map[string]string{"message": "No such payment_intent: pi_missing"},
		})
	}))
	defer backend.Close()

	handler := NewPaymentHandler(
		payment.NewServiceWithClient(processorapi.NewClientWithEndpoint("sk_test", backend.URL)),
		&stubQueue{},
		newTestStore(),
	)

	req := httptest.NewRequest(http.MethodPost, "/api/payments/pi_missing/cancel", nil)
	req = mux.SetURLVars(req, map[string]string{"id": "pi_missing"})
	rec := httptest.NewRecorder()
	handler.CancelPayment(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}
