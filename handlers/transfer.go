package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"borderpay-payment-api/models"
	"borderpay-payment-api/queue"
	"borderpay-payment-api/services/track"
	"borderpay-payment-api/services/transfer"
	"borderpay-payment-api/services/transfer/transferapi"
	"borderpay-payment-api/utils"
)

type TransferHandler struct {
	svc  *transfer.Service
	jobs JobQueue
}

func NewTransferHandler(ts *transfer.Service, jobs JobQueue) *TransferHandler {
	return &TransferHandler{
		svc:  ts,
		jobs: jobs,
	}
}

// InitiateTransfer runs the quote, account and transfer steps in sequence
// and schedules a one-shot status refresh for the result.
func (h *TransferHandler) InitiateTransfer(w http.ResponseWriter, r *http.Request) {
	var req models.TransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.SendErrorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.svc.InitiateTransfer(r.Context(), &req)
	if err != nil {
		h.sendTransferError(w, err)
		return
	}

	err = h.jobs.EnqueueDelayed(r.Context(), queue.JobTypeRefreshTransferStatus, map[string]interface{}{
		"transfer_id": result.TransferID,
	}, 30*time.Second)
	if err != nil {
		log.Printf("Warning: failed to schedule status refresh for transfer %d: %v", result.TransferID, err)
	}

	utils.SendSuccessResponse(w, models.APIResponse{
		Status:  "success",
		Message: "Transfer created",
		Data:    result,
	})
}

func (h *TransferHandler) GetTransfer(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		utils.SendErrorResponse(w, http.StatusBadRequest, "Transfer id must be numeric")
		return
	}

	t, err := h.svc.GetTransfer(r.Context(), id)
	if err != nil {
		h.sendTransferError(w, err)
		return
	}

	utils.SendSuccessResponse(w, models.APIResponse{
		Status:  "success",
		Message: "Transfer retrieved",
		Data: map[string]interface{}{
			"transfer_id":     t.ID,
			"transfer_status": t.Status,
			"status_label":    track.TransferStatusLabel(t.Status),
			"reference":       t.Reference,
		},
	})
}

func (h *TransferHandler) GetDeliveryEstimate(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		utils.SendErrorResponse(w, http.StatusBadRequest, "Transfer id must be numeric")
		return
	}

	estimate, err := h.svc.GetDeliveryEstimate(r.Context(), id)
	if err != nil {
		h.sendTransferError(w, err)
		return
	}

	utils.SendSuccessResponse(w, models.APIResponse{
		Status:  "success",
		Message: "Delivery estimate",
		Data:    estimate,
	})
}

// GetDepositDetails proxies the provider's receiving-account details for
// funding a transfer in a currency.
func (h *TransferHandler) GetDepositDetails(w http.ResponseWriter, r *http.Request) {
	currency := strings.ToUpper(mux.Vars(r)["currency"])

	details, err := h.svc.GetDepositDetails(r.Context(), currency)
	if err != nil {
		h.sendTransferError(w, err)
		return
	}

	utils.SendSuccessResponse(w, models.APIResponse{
		Status:  "success",
		Message: "Deposit details for " + currency,
		Data:    details,
	})
}

func (h *TransferHandler) sendTransferError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, transfer.ErrInvalidAmount),
		errors.Is(err, transfer.ErrUnsupportedCurrency),
		errors.Is(err, transfer.ErrMissingRecipient):
		utils.SendErrorResponse(w, http.StatusBadRequest, err.Error())
	default:
		if transferapi.IsNotFound(err) {
			utils.SendErrorResponse(w, http.StatusNotFound, err.Error())
			return
		}
		log.Printf("Transfer operation failed: %v", err)
		utils.SendErrorResponse(w, http.StatusBadGateway, err.Error())
	}
}
