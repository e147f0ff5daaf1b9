package transferapi

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Quote locks an exchange rate for a source/target currency pair.
type Quote struct {
	ID             string          `json:"id"`
	SourceCurrency string          `json:"sourceCurrency"`
	TargetCurrency string          `json:"targetCurrency"`
	SourceAmount   decimal.Decimal `json:"sourceAmount"`
	TargetAmount   decimal.Decimal `json:"targetAmount"`
	Rate           decimal.Decimal `json:"rate"`
	Fee            decimal.Decimal `json:"fee"`
	ExpiresAt      string          `json:"expirationTime,omitempty"`
}

// RecipientAccount is a provider-side recipient record.
type RecipientAccount struct {
	ID                int64  `json:"id"`
	Currency          string `json:"currency"`
	AccountHolderName string `json:"accountHolderName"`
	Type              string `json:"type"`
}

// Transfer is the provider's record of a cross-border payout.
type Transfer struct {
	ID             int64           `json:"id"`
	TargetAccount  int64           `json:"targetAccount"`
	QuoteID        string          `json:"quoteUuid"`
	Status         string          `json:"status"`
	Reference      string          `json:"reference,omitempty"`
	SourceCurrency string          `json:"sourceCurrency,omitempty"`
	TargetCurrency string          `json:"targetCurrency,omitempty"`
	SourceAmount   decimal.Decimal `json:"sourceValue"`
	Created        string          `json:"created,omitempty"`
}

// Transfer status vocabulary as reported by the provider.
const (
	TransferStatusIncoming   = "incoming_payment_waiting"
	TransferStatusProcessing = "processing"
	TransferStatusConverted  = "funds_converted"
	TransferStatusSent       = "outgoing_payment_sent"
	TransferStatusBounced    = "bounced_back"
	TransferStatusRefunded   = "funds_refunded"
	TransferStatusCancelled  = "cancelled"
)

// DeliveryEstimate is the provider's prediction of when funds land.
type DeliveryEstimate struct {
	EstimatedDeliveryDate string `json:"estimatedDeliveryDate"`
}

// DepositDetails are the provider's receiving-account details for funding
// a transfer in a given currency.
type DepositDetails struct {
	Currency      string            `json:"currency"`
	AccountHolder string            `json:"accountHolder"`
	BankName      string            `json:"bankName"`
	Details       map[string]string `json:"details"`
}

type apiError struct {
	Message string `json:"message"`
	Errors  []struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"errors"`
}

func (e *apiError) text() string {
	if e == nil {
		return ""
	}
	if e.Message != "" {
		return e.Message
	}
	if len(e.Errors) > 0 {
		return e.Errors[0].Message
	}
	return ""
}

// Error is a remote transfer-provider failure, surfaced with the provider's
// own message.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("transfer provider: %s", e.Message)
	}
	return fmt.Sprintf("transfer provider: request failed with status %d", e.StatusCode)
}

func IsNotFound(err error) bool {
	var te *Error
	return errors.As(err, &te) && te.StatusCode == 404
}
