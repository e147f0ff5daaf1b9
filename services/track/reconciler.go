package track

import (
	"context"
	"fmt"
	"log"
	"strconv"

	"borderpay-payment-api/models"
	"borderpay-payment-api/services/payment/processorapi"
	"borderpay-payment-api/services/transfer/transferapi"
)

// Human-readable labels for the two providers' status vocabularies. Codes
// outside the tables pass through unchanged.
var intentStatusLabels = map[string]string{
	processorapi.IntentStatusRequiresPaymentMethod: "Requires a payment method",
	processorapi.IntentStatusRequiresConfirmation:  "Requires confirmation",
	processorapi.IntentStatusRequiresAction:        "Requires customer action",
	processorapi.IntentStatusProcessing:            "Processing",
	processorapi.IntentStatusRequiresCapture:       "Authorized, awaiting capture",
	processorapi.IntentStatusSucceeded:             "Succeeded",
	processorapi.IntentStatusCanceled:              "Canceled",
}

var transferStatusLabels = map[string]string{
	transferapi.TransferStatusIncoming:   "Waiting for incoming payment",
	transferapi.TransferStatusProcessing: "Processing",
	transferapi.TransferStatusConverted:  "Funds converted",
	transferapi.TransferStatusSent:       "Sent",
	transferapi.TransferStatusBounced:    "Bounced back",
	transferapi.TransferStatusRefunded:   "Refunded",
	transferapi.TransferStatusCancelled:  "Cancelled",
}

// Reconciler resolves a free-text reference against both providers: first
// as an invoice number in the processor's records, then as a transfer id.
// There is no local store, so a reference is only trackable while a
// provider still holds a matching record.
type Reconciler struct {
	processor *processorapi.Client
	transfers *transferapi.Client
}

func NewReconciler(processor *processorapi.Client, transfers *transferapi.Client) *Reconciler {
	return &Reconciler{
		processor: processor,
		transfers: transfers,
	}
}

// Track looks the reference up. An identifier unknown to both providers
// yields Found=false, never an error; errors are reserved for provider
// failures (auth, network).
func (r *Reconciler) Track(ctx context.Context, reference string) (*models.TrackingResult, error) {
	intents, err := r.processor.SearchIntentsByInvoice(ctx, reference)
	if err != nil && !processorapi.IsNotFound(err) {
		return nil, err
	}
	if len(intents) > 0 {
		intent := intents[0]
		log.Printf("Reference %s matched intent %s (status %s)", reference, intent.ID, intent.Status)
		return &models.TrackingResult{
			Reference: reference,
			Found:     true,
			Source:    models.TrackingSourceProcessor,
			Status:    IntentStatusLabel(intent.Status),
			Detail:    fmt.Sprintf("Payment %s", intent.ID),
		}, nil
	}

	if transferID, parseErr := strconv.ParseInt(reference, 10, 64); parseErr == nil {
		transfer, err := r.transfers.GetTransfer(ctx, transferID)
		if err == nil {
			log.Printf("Reference %s matched transfer %d (status %s)", reference, transfer.ID, transfer.Status)
			return &models.TrackingResult{
				Reference: reference,
				Found:     true,
				Source:    models.TrackingSourceTransfer,
				Status:    TransferStatusLabel(transfer.Status),
				Detail:    fmt.Sprintf("Transfer %d", transfer.ID),
			}, nil
		}
		if !transferapi.IsNotFound(err) {
			return nil, err
		}
	}

	return &models.TrackingResult{
		Reference: reference,
		Found:     false,
		Detail:    "No payment or transfer found for this reference. Records may have expired on the provider side.",
	}, nil
}

func IntentStatusLabel(status string) string {
	if label, ok := intentStatusLabels[status]; ok {
		return label
	}
	return status
}

func TransferStatusLabel(status string) string {
	if label, ok := transferStatusLabels[status]; ok {
		return label
	}
	return status
}
