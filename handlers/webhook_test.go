package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"borderpay-payment-api/queue"
	"borderpay-payment-api/services/payment/processorapi"
)

const testWebhookSecret = "whsec_test"

type enqueuedJob struct {
	jobType queue.JobType
	data    map[string]interface{}
	delay   time.Duration
}

// stubQueue records enqueued jobs in memory.
type stubQueue struct {
	jobs []enqueuedJob
	err  error
}

func (s *stubQueue) Enqueue(ctx context.Context, jobType queue.JobType, data map[string]interface{}) error {
	if s.err != nil {
		return s.err
	}
	s.jobs = append(s.jobs, enqueuedJob{jobType: jobType, data: data})
	return nil
}

func (s *stubQueue) EnqueueDelayed(ctx context.Context, jobType queue.JobType, data map[string]interface{}, delay time.Duration) error {
	if s.err != nil {
		return s.err
	}
	s.jobs = append(s.jobs, enqueuedJob{jobType: jobType, data: data, delay: delay})
	return nil
}

func postWebhook(handler *WebhookHandler, payload, signature string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/processor/webhook", strings.NewReader(payload))
	if signature != "" {
		req.Header.Set(processorapi.SignatureHeader, signature)
	}

	rec := httptest.NewRecorder()
	handler.HandleProcessorEvent(rec, req)
	return rec
}

func TestWebhookValidSignatureEnqueuesJob(t *testing.T) {
	jobs := &stubQueue{}
	handler := NewWebhookHandler(jobs, testWebhookSecret)

	payload := `{"id":"evt_1","type":"payment_intent.payment_failed","data":{"object":{"id":"pi_123"}}}`
	signature := processorapi.ComputeSignature([]byte(payload), testWebhookSecret, time.Now())

	rec := postWebhook(handler, payload, signature)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body %s", rec.Code, rec.Body.String())
	}

	if len(jobs.jobs) != 1 {
		t.Fatalf("enqueued %d jobs, want 1", len(jobs.jobs))
	}
	job := jobs.jobs[0]
	if job.jobType != queue.JobTypeProcessWebhookEvent {
		t.Errorf("job type = %q", job.jobType)
	}
	if job.data["intent_id"] != "pi_123" {
		t.Errorf("intent_id = %v", job.data["intent_id"])
	}
	if job.data["event_type"] != "payment_intent.payment_failed" {
		t.Errorf("event_type = %v", job.data["event_type"])
	}
}

func TestWebhookInvalidSignatureRejected(t *testing.T) {
	jobs := &stubQueue{}
	handler := NewWebhookHandler(jobs, testWebhookSecret)

	payload := `{"id":"evt_1","type":"payment_intent.succeeded","data":{"object":{"id":"pi_123"}}}`
	signature := processorapi.ComputeSignature([]byte(payload), "whsec_wrong", time.Now())

	rec := postWebhook(handler, payload, signature)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if len(jobs.jobs) != 0 {
		t.Errorf("enqueued %d jobs for a rejected delivery, want 0", len(jobs.jobs))
	}
}

func TestWebhookMissingSignatureRejected(t *testing.T) {
	jobs := &stubQueue{}
	handler := NewWebhookHandler(jobs, testWebhookSecret)

	rec := postWebhook(handler, `{"id":"evt_1","type":"x","data":{"object":{"id":"pi_1"}}}`, "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if len(jobs.jobs) != 0 {
		t.Errorf("enqueued %d jobs, want 0", len(jobs.jobs))
	}
}

func TestWebhookMissingObjectIDRejected(t *testing.T) {
	jobs := &stubQueue{}
	handler := NewWebhookHandler(jobs, testWebhookSecret)

	payload := `{"id":"evt_1","type":"payment_intent.succeeded","data":{"object":{}}}`
	signature := processorapi.ComputeSignature([]byte(payload), testWebhookSecret, time.Now())

	rec := postWebhook(handler, payload, signature)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestWebhookAcknowledgedWhenQueueDown(t *testing.T) {
	jobs := &stubQueue{err: context.DeadlineExceeded}
	handler := NewWebhookHandler(jobs, testWebhookSecret)

	payload := `{"id":"evt_1","type":"payment_intent.succeeded","data":{"object":{"id":"pi_1"}}}`
	signature := processorapi.ComputeSignature([]byte(payload), testWebhookSecret, time.Now())

	rec := postWebhook(handler, payload, signature)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 even when enqueueing fails", rec.Code)
	}
}
