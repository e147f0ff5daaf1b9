package models

import (
	"github.com/shopspring/decimal"
)

type APIResponse struct {
	Status  string      `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// PaymentResult is what the caller sees after a submission: the provider's
// intent plus the locally computed estimate.
type PaymentResult struct {
	InvoiceNumber string          `json:"invoice_number"`
	IntentID      string          `json:"intent_id"`
	Status        string          `json:"payment_status"`
	ClientSecret  string          `json:"client_secret,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency"`
	EstimatedFee  decimal.Decimal `json:"estimated_fee"`
	Total         decimal.Decimal `json:"total"`
	ClearanceTime string          `json:"clearance_time"`
	Message       string          `json:"message,omitempty"`
}

type EstimateResult struct {
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency"`
	EstimatedFee  decimal.Decimal `json:"estimated_fee"`
	Total         decimal.Decimal `json:"total"`
	ClearanceTime string          `json:"clearance_time"`
}

type TransferResult struct {
	TransferID int64           `json:"transfer_id"`
	QuoteID    string          `json:"quote_id"`
	AccountID  int64           `json:"account_id"`
	Status     string          `json:"transfer_status"`
	Rate       decimal.Decimal `json:"rate"`
	Reference  string          `json:"reference,omitempty"`
}

// TrackingResult is always returned with HTTP 200; an identifier unknown to
// both providers yields Found=false, not an error.
type TrackingResult struct {
	Reference string `json:"reference"`
	Found     bool   `json:"found"`
	Source    string `json:"source,omitempty"`
	Status    string `json:"tracking_status,omitempty"`
	Detail    string `json:"detail,omitempty"`
}

const (
	TrackingSourceProcessor = "processor"
	TrackingSourceTransfer  = "transfer_provider"
)
