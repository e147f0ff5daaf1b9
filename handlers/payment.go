package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/sessions"

	"borderpay-payment-api/models"
	"borderpay-payment-api/queue"
	"borderpay-payment-api/services/payment"
	"borderpay-payment-api/services/payment/processorapi"
	"borderpay-payment-api/services/track"
	"borderpay-payment-api/utils"
)

// preauthCancelDelay is how long an uncaptured pre-authorization is kept
// before the background worker releases the hold.
const preauthCancelDelay = 24 * time.Hour

type PaymentHandler struct {
	svc   *payment.Service
	jobs  JobQueue
	store *sessions.CookieStore
}

func NewPaymentHandler(ps *payment.Service, jobs JobQueue, store *sessions.CookieStore) *PaymentHandler {
	return &PaymentHandler{
		svc:   ps,
		jobs:  jobs,
		store: store,
	}
}

// SubmitPayment validates the submission and creates a confirmed intent.
// The returned invoice number is the caller's only handle for later
// tracking; nothing is stored locally.
func (h *PaymentHandler) SubmitPayment(w http.ResponseWriter, r *http.Request) {
	var req models.PaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.SendErrorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.svc.CreatePayment(r.Context(), &req)
	if err != nil {
		h.sendPaymentError(w, err)
		return
	}

	rememberReference(h.store, w, r, result.InvoiceNumber)

	utils.SendSuccessResponse(w, models.APIResponse{
		Status:  "success",
		Message: "Payment submitted",
		Data:    result,
	})
}

// PreauthorizePayment places an uncaptured hold and schedules its release
// in case it is never captured.
func (h *PaymentHandler) PreauthorizePayment(w http.ResponseWriter, r *http.Request) {
	var req models.PaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.SendErrorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.svc.Preauthorize(r.Context(), &req)
	if err != nil {
		h.sendPaymentError(w, err)
		return
	}

	rememberReference(h.store, w, r, result.InvoiceNumber)

	err = h.jobs.EnqueueDelayed(r.Context(), queue.JobTypeCancelIntent, map[string]interface{}{
		"intent_id": result.IntentID,
	}, preauthCancelDelay)
	if err != nil {
		log.Printf("Warning: failed to schedule pre-auth release for intent %s: %v", result.IntentID, err)
	}

	utils.SendSuccessResponse(w, models.APIResponse{
		Status:  "success",
		Message: "Payment pre-authorized",
		Data:    result,
	})
}

func (h *PaymentHandler) CancelPayment(w http.ResponseWriter, r *http.Request) {
	intentID := mux.Vars(r)["id"]

	intent, err := h.svc.Cancel(r.Context(), intentID)
	if err != nil {
		h.sendPaymentError(w, err)
		return
	}

	utils.SendSuccessResponse(w, models.APIResponse{
		Status:  "success",
		Message: "Payment canceled",
		Data: map[string]interface{}{
			"intent_id":      intent.ID,
			"payment_status": intent.Status,
			"status_label":   track.IntentStatusLabel(intent.Status),
		},
	})
}

func (h *PaymentHandler) GetPayment(w http.ResponseWriter, r *http.Request) {
	intentID := mux.Vars(r)["id"]

	intent, err := h.svc.Retrieve(r.Context(), intentID)
	if err != nil {
		h.sendPaymentError(w, err)
		return
	}

	utils.SendSuccessResponse(w, models.APIResponse{
		Status:  "success",
		Message: "Payment retrieved",
		Data: map[string]interface{}{
			"intent_id":      intent.ID,
			"payment_status": intent.Status,
			"status_label":   track.IntentStatusLabel(intent.Status),
			"amount":         intent.Amount,
			"currency":       intent.Currency,
			"invoice_number": intent.Metadata[processorapi.MetadataInvoiceKey],
		},
	})
}

// GetBalance reports the processor account's available funds per currency.
// Converted out of minor units; a payout cannot exceed these amounts.
func (h *PaymentHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	available, err := h.svc.AvailableBalance(r.Context())
	if err != nil {
		h.sendPaymentError(w, err)
		return
	}

	utils.SendSuccessResponse(w, models.APIResponse{
		Status:  "success",
		Message: "Account balance",
		Data: map[string]interface{}{
			"available": available,
		},
	})
}

// sendPaymentError distinguishes local validation failures from remote
// provider failures. Provider messages are surfaced verbatim; the
// operation is abandoned either way.
func (h *PaymentHandler) sendPaymentError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, payment.ErrInvalidAmount),
		errors.Is(err, payment.ErrUnsupportedCurrency),
		errors.Is(err, payment.ErrInvalidCard),
		errors.Is(err, payment.ErrInvalidBank),
		errors.Is(err, payment.ErrInvalidMethod):
		utils.SendErrorResponse(w, http.StatusBadRequest, err.Error())
	default:
		if processorapi.IsNotFound(err) {
			utils.SendErrorResponse(w, http.StatusNotFound, err.Error())
			return
		}
		log.Printf("Payment operation failed: %v", err)
		utils.SendErrorResponse(w, http.StatusBadGateway, err.Error())
	}
}
