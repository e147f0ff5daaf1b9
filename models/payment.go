package models

import (
	"github.com/shopspring/decimal"

	"borderpay-payment-api/types"
)

const (
	MethodCard         = "card"
	MethodBankTransfer = "bank_transfer"
)

// PaymentRequest is a single user submission. It is validated locally and
// forwarded to the processor; nothing about it is persisted.
type PaymentRequest struct {
	Amount        decimal.Decimal    `json:"amount"`
	Currency      string             `json:"currency"`
	Method        string             `json:"method"`
	Card          *CardDetails       `json:"card,omitempty"`
	Bank          *BankDetails       `json:"bank,omitempty"`
	CustomerEmail string             `json:"customer_email,omitempty"`
	Billing       *types.BillingInfo `json:"billing,omitempty"`
}

type CardDetails struct {
	Number     string `json:"number"`
	ExpMonth   string `json:"exp_month"`
	ExpYear    string `json:"exp_year"`
	CVC        string `json:"cvc"`
	HolderName string `json:"holder_name,omitempty"`
}

type BankDetails struct {
	HolderName    string `json:"holder_name"`
	AccountNumber string `json:"account_number"`
	RoutingNumber string `json:"routing_number"`
	Country       string `json:"country,omitempty"`
}

type EstimateRequest struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
}
