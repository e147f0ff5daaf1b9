package processorapi

import (
	"errors"
	"fmt"
)

// Intent is the processor-side record of an attempted charge. Amounts are
// carried in minor units, the way the API reports them.
type Intent struct {
	ID                 string            `json:"id"`
	Amount             int64             `json:"amount"`
	Currency           string            `json:"currency"`
	Status             string            `json:"status"`
	ClientSecret       string            `json:"client_secret,omitempty"`
	PaymentMethod      string            `json:"payment_method,omitempty"`
	Metadata           map[string]string `json:"metadata,omitempty"`
	CancellationReason string            `json:"cancellation_reason,omitempty"`
	Created            int64             `json:"created"`
}

// Intent lifecycle statuses as reported by the processor.
const (
	IntentStatusRequiresPaymentMethod = "requires_payment_method"
	IntentStatusRequiresConfirmation  = "requires_confirmation"
	IntentStatusRequiresAction        = "requires_action"
	IntentStatusProcessing            = "processing"
	IntentStatusRequiresCapture       = "requires_capture"
	IntentStatusSucceeded             = "succeeded"
	IntentStatusCanceled              = "canceled"
)

type PaymentMethod struct {
	ID   string `json:"id"`
	Type string `json:"type"`
}

// Balance is the account's funds as the processor reports them, one entry
// per currency in minor units.
type Balance struct {
	Available []BalanceAmount `json:"available"`
	Pending   []BalanceAmount `json:"pending"`
}

type BalanceAmount struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

// BankToken is a tokenized bank account, usable as a payment method.
type BankToken struct {
	ID string `json:"id"`
}

type intentSearchResult struct {
	Data    []Intent `json:"data"`
	HasMore bool     `json:"has_more"`
}

type apiErrorBody struct {
	Error struct {
		Type    string `json:"type"`
		Code    string `json:"code"`
		Message string `json:"message"`
		Param   string `json:"param"`
	} `json:"error"`
}

// Error is a remote-provider failure. The message is the provider's own and
// is surfaced to the caller verbatim; nothing is retried.
type Error struct {
	StatusCode int
	Type       string
	Code       string
	Message    string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("processor: %s", e.Message)
	}
	return fmt.Sprintf("processor: request failed with status %d", e.StatusCode)
}

// IsNotFound reports whether err is the provider telling us the resource
// does not exist (as opposed to a transport or authentication failure).
func IsNotFound(err error) bool {
	var pe *Error
	return errors.As(err, &pe) && pe.StatusCode == 404
}
