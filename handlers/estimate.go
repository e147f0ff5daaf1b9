package handlers

import (
	"encoding/json"
	"net/http"

	"borderpay-payment-api/models"
	"borderpay-payment-api/services/fees"
	"borderpay-payment-api/utils"
)

type EstimateHandler struct {
	defaultCurrency string
}

func NewEstimateHandler(defaultCurrency string) *EstimateHandler {
	return &EstimateHandler{defaultCurrency: defaultCurrency}
}

// EstimateFees quotes the fee, total and clearance time for an amount.
// Pure local computation; no provider is contacted.
func (h *EstimateHandler) EstimateFees(w http.ResponseWriter, r *http.Request) {
	var req models.EstimateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.SendErrorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Currency == "" {
		req.Currency = h.defaultCurrency
	}
	if !fees.Supported(req.Currency) {
		utils.SendErrorResponse(w, http.StatusBadRequest, "currency is not in the supported set")
		return
	}

	fee, err := fees.Estimate(req.Amount, req.Currency)
	if err != nil {
		utils.SendErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	utils.SendSuccessResponse(w, models.APIResponse{
		Status:  "success",
		Message: "Estimate computed",
		Data: models.EstimateResult{
			Amount:        req.Amount,
			Currency:      req.Currency,
			EstimatedFee:  fee,
			Total:         req.Amount.Add(fee).Round(2),
			ClearanceTime: fees.ClearanceTime(req.Currency),
		},
	})
}

// ListCurrencies returns the supported currency allow-list.
func (h *EstimateHandler) ListCurrencies(w http.ResponseWriter, r *http.Request) {
	utils.SendSuccessResponse(w, models.APIResponse{
		Status:  "success",
		Message: "Supported currencies",
		Data: map[string]interface{}{
			"currencies": fees.Currencies,
			"ordered":    fees.SupportedCurrencies(),
			"default":    h.defaultCurrency,
		},
	})
}
