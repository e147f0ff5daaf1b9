package handlers

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"borderpay-payment-api/models"
	"borderpay-payment-api/services/bankdetails"
	"borderpay-payment-api/utils"
)

type BankDetailsHandler struct{}

func NewBankDetailsHandler() *BankDetailsHandler {
	return &BankDetailsHandler{}
}

// GetBankDetails serves the static per-currency record: required recipient
// fields plus the service's receiving account.
func (h *BankDetailsHandler) GetBankDetails(w http.ResponseWriter, r *http.Request) {
	currency := strings.ToUpper(mux.Vars(r)["currency"])

	record, ok := bankdetails.Lookup(currency)
	if !ok {
		utils.SendErrorResponse(w, http.StatusNotFound, "No bank details on file for currency "+currency)
		return
	}

	utils.SendSuccessResponse(w, models.APIResponse{
		Status:  "success",
		Message: "Bank details for " + currency,
		Data:    record,
	})
}
