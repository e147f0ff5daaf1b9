package transfer

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"

	"borderpay-payment-api/config"
	"borderpay-payment-api/models"
	"borderpay-payment-api/services/fees"
	"borderpay-payment-api/services/transfer/transferapi"
)

var (
	ErrInvalidAmount       = errors.New("amount must be greater than zero")
	ErrUnsupportedCurrency = errors.New("currency is not in the supported set")
	ErrMissingRecipient    = errors.New("recipient holder name and account fields are required")
)

// Service runs the provider's three-step chain: quote, recipient account,
// transfer. Each step is a single unretried call; a failure aborts the
// chain and whatever was already created on the provider side is left
// behind.
type Service struct {
	client *transferapi.Client
}

func NewService(cfg config.TransferConfig) *Service {
	return &Service{
		client: transferapi.NewClient(cfg.APIKey, cfg.ProfileID, cfg.Environment),
	}
}

// NewServiceWithClient wires an already constructed client. Used by tests.
func NewServiceWithClient(client *transferapi.Client) *Service {
	return &Service{client: client}
}

func (s *Service) InitiateTransfer(ctx context.Context, req *models.TransferRequest) (*models.TransferResult, error) {
	if err := s.Validate(req); err != nil {
		return nil, err
	}

	quote, err := s.client.CreateQuote(ctx, req.SourceCurrency, req.TargetCurrency, req.Amount)
	if err != nil {
		return nil, fmt.Errorf("transfer quote failed: %w", err)
	}

	account, err := s.client.CreateRecipientAccount(ctx, req.TargetCurrency, req.Recipient.HolderName, req.Recipient.Fields)
	if err != nil {
		return nil, fmt.Errorf("recipient account creation failed: %w", err)
	}

	reference := req.Reference
	if reference == "" {
		reference = quote.ID
	}

	transfer, err := s.client.CreateTransfer(ctx, account.ID, quote.ID, uuid.NewString(), reference)
	if err != nil {
		return nil, fmt.Errorf("transfer creation failed: %w", err)
	}

	log.Printf("Transfer chain complete: quote %s, account %d, transfer %d (%s)",
		quote.ID, account.ID, transfer.ID, transfer.Status)

	return &models.TransferResult{
		TransferID: transfer.ID,
		QuoteID:    quote.ID,
		AccountID:  account.ID,
		Status:     transfer.Status,
		Rate:       quote.Rate,
		Reference:  reference,
	}, nil
}

func (s *Service) GetTransfer(ctx context.Context, id int64) (*transferapi.Transfer, error) {
	return s.client.GetTransfer(ctx, id)
}

func (s *Service) GetDeliveryEstimate(ctx context.Context, id int64) (*transferapi.DeliveryEstimate, error) {
	return s.client.GetDeliveryEstimate(ctx, id)
}

func (s *Service) GetDepositDetails(ctx context.Context, currency string) (*transferapi.DepositDetails, error) {
	return s.client.GetDepositDetails(ctx, currency)
}

// Client exposes the underlying provider client for the reconciler and
// workers.
func (s *Service) Client() *transferapi.Client {
	return s.client
}

func (s *Service) Validate(req *models.TransferRequest) error {
	if req.Amount.Sign() <= 0 {
		return ErrInvalidAmount
	}
	if !fees.Supported(req.SourceCurrency) || !fees.Supported(req.TargetCurrency) {
		return ErrUnsupportedCurrency
	}
	if req.Recipient.HolderName == "" || len(req.Recipient.Fields) == 0 {
		return ErrMissingRecipient
	}
	return nil
}
