package handlers

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"time"

	"borderpay-payment-api/models"
	"borderpay-payment-api/queue"
	"borderpay-payment-api/services/payment/processorapi"
	"borderpay-payment-api/utils"
)

// maxWebhookBody bounds how much of a delivery is read before parsing.
const maxWebhookBody = 64 * 1024

type WebhookHandler struct {
	jobs   JobQueue
	secret string
}

func NewWebhookHandler(jobs JobQueue, webhookSecret string) *WebhookHandler {
	return &WebhookHandler{
		jobs:   jobs,
		secret: webhookSecret,
	}
}

// HandleProcessorEvent receives signed processor notifications. The
// delivery is verified and acknowledged immediately; the reaction runs in
// the background via the job queue.
func (h *WebhookHandler) HandleProcessorEvent(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		log.Printf("Error reading webhook payload: %v", err)
		utils.SendErrorResponse(w, http.StatusBadRequest, "Unable to read request body")
		return
	}

	event, err := processorapi.ConstructEvent(payload, r.Header.Get(processorapi.SignatureHeader), h.secret)
	if err != nil {
		log.Printf("Webhook rejected: %v", err)
		utils.SendErrorResponse(w, http.StatusBadRequest, "Webhook verification failed")
		return
	}

	var object struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(event.Data.Object, &object); err != nil || object.ID == "" {
		log.Printf("Webhook event %s has no usable object id", event.ID)
		utils.SendErrorResponse(w, http.StatusBadRequest, "Event payload missing object id")
		return
	}

	log.Printf("Received webhook event %s (%s) for %s", event.ID, event.Type, object.ID)

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	err = h.jobs.Enqueue(ctx, queue.JobTypeProcessWebhookEvent, map[string]interface{}{
		"event_id":   event.ID,
		"event_type": event.Type,
		"intent_id":  object.ID,
	})
	if err != nil {
		// The delivery is acknowledged regardless; the provider will not
		// redeliver a 200.
		log.Printf("Warning: failed to enqueue webhook event %s: %v", event.ID, err)
	}

	utils.SendSuccessResponse(w, models.APIResponse{
		Status:  "success",
		Message: "Event received",
	})
}
