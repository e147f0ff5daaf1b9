package models

import (
	"github.com/shopspring/decimal"
)

// TransferRequest describes a cross-border payout. The quote, recipient
// account and transfer are created on the provider in sequence; a failure
// at any step abandons whatever was already created remotely.
type TransferRequest struct {
	SourceCurrency string           `json:"source_currency"`
	TargetCurrency string           `json:"target_currency"`
	Amount         decimal.Decimal  `json:"amount"`
	Reference      string           `json:"reference,omitempty"`
	Recipient      RecipientDetails `json:"recipient"`
}

// RecipientDetails carries the per-currency account fields the provider
// requires (iban for EUR, sort code for GBP and so on). The field names
// for each currency are published by the bank-details endpoint.
type RecipientDetails struct {
	HolderName string            `json:"holder_name"`
	Fields     map[string]string `json:"fields"`
}
