package payment

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"borderpay-payment-api/config"
	"borderpay-payment-api/models"
	"borderpay-payment-api/services/fees"
	"borderpay-payment-api/services/payment/processorapi"
	"borderpay-payment-api/utils"
)

var (
	ErrInvalidAmount       = errors.New("amount must be greater than zero")
	ErrUnsupportedCurrency = errors.New("currency is not in the supported set")
	ErrInvalidCard         = errors.New("invalid card data: please check card number, expiration date and CVC")
	ErrInvalidBank         = errors.New("invalid bank details: account holder, account number and routing number are required")
	ErrInvalidMethod       = errors.New("payment method must be card or bank_transfer")
)

// Service wraps the processor client with the local validation that must
// happen before any remote call.
type Service struct {
	client *processorapi.Client
}

func NewService(cfg config.ProcessorConfig) *Service {
	return &Service{
		client: processorapi.NewClient(cfg.APIKey, cfg.Environment),
	}
}

// NewServiceWithClient wires an already constructed client. Used by tests.
func NewServiceWithClient(client *processorapi.Client) *Service {
	return &Service{client: client}
}

// CreatePayment validates the submission, estimates the fee, tokenizes the
// instrument and creates a confirmed intent carrying the invoice reference
// as metadata.
func (s *Service) CreatePayment(ctx context.Context, req *models.PaymentRequest) (*models.PaymentResult, error) {
	if err := s.Validate(req); err != nil {
		return nil, err
	}

	fee, err := fees.Estimate(req.Amount, req.Currency)
	if err != nil {
		return nil, err
	}

	invoice := utils.NewInvoiceNumber()

	methodID, methodTypes, err := s.tokenize(ctx, req)
	if err != nil {
		return nil, err
	}

	intent, err := s.client.CreateIntent(ctx, processorapi.IntentParams{
		Amount:        utils.MinorUnits(req.Amount, req.Currency),
		Currency:      req.Currency,
		PaymentMethod: methodID,
		MethodTypes:   methodTypes,
		Confirm:       true,
		ReceiptEmail:  req.CustomerEmail,
		Metadata: map[string]string{
			processorapi.MetadataInvoiceKey: invoice,
		},
	})
	if err != nil {
		log.Printf("Error creating payment intent for invoice %s: %v", invoice, err)
		return nil, err
	}

	log.Printf("Created intent %s (status %s) for invoice %s", intent.ID, intent.Status, invoice)

	result := s.result(invoice, intent, req.Amount, req.Currency, fee)
	result.Message = s.balanceMessage(ctx, req.Amount, req.Currency)
	return result, nil
}

// Preauthorize creates a confirmed but uncaptured intent. The hold is
// released later by cancellation if never captured.
func (s *Service) Preauthorize(ctx context.Context, req *models.PaymentRequest) (*models.PaymentResult, error) {
	if err := s.Validate(req); err != nil {
		return nil, err
	}

	fee, err := fees.Estimate(req.Amount, req.Currency)
	if err != nil {
		return nil, err
	}

	invoice := utils.NewInvoiceNumber()

	methodID, methodTypes, err := s.tokenize(ctx, req)
	if err != nil {
		return nil, err
	}

	intent, err := s.client.CreateIntent(ctx, processorapi.IntentParams{
		Amount:        utils.MinorUnits(req.Amount, req.Currency),
		Currency:      req.Currency,
		PaymentMethod: methodID,
		MethodTypes:   methodTypes,
		Confirm:       true,
		CaptureMethod: "manual",
		ReceiptEmail:  req.CustomerEmail,
		Metadata: map[string]string{
			processorapi.MetadataInvoiceKey: invoice,
		},
	})
	if err != nil {
		log.Printf("Error pre-authorizing payment for invoice %s: %v", invoice, err)
		return nil, err
	}

	log.Printf("Pre-authorized intent %s (status %s) for invoice %s", intent.ID, intent.Status, invoice)

	result := s.result(invoice, intent, req.Amount, req.Currency, fee)
	result.Message = s.balanceMessage(ctx, req.Amount, req.Currency)
	return result, nil
}

func (s *Service) Cancel(ctx context.Context, intentID string) (*processorapi.Intent, error) {
	log.Printf("Canceling intent %s", intentID)
	return s.client.CancelIntent(ctx, intentID)
}

func (s *Service) Retrieve(ctx context.Context, intentID string) (*processorapi.Intent, error) {
	return s.client.RetrieveIntent(ctx, intentID)
}

// AvailableBalance fetches the account's available funds per currency,
// converted from the processor's minor units.
func (s *Service) AvailableBalance(ctx context.Context) (map[string]decimal.Decimal, error) {
	balance, err := s.client.RetrieveBalance(ctx)
	if err != nil {
		return nil, err
	}

	available := make(map[string]decimal.Decimal, len(balance.Available))
	for _, entry := range balance.Available {
		currency := strings.ToUpper(entry.Currency)
		available[currency] = utils.FromMinorUnits(entry.Amount, currency)
	}
	return available, nil
}

// balanceMessage compares the submitted amount against the available
// balance for its currency. The check is advisory; a failed balance lookup
// never blocks the payment.
func (s *Service) balanceMessage(ctx context.Context, amount decimal.Decimal, currency string) string {
	available, err := s.AvailableBalance(ctx)
	if err != nil {
		log.Printf("Error retrieving account balance: %v", err)
		return ""
	}

	max := available[currency]
	if amount.GreaterThan(max) {
		return fmt.Sprintf("The amount exceeds the available balance of %s %s", max, currency)
	}
	return ""
}

// Client exposes the underlying processor client for components that need
// direct access (reconciliation, workers).
func (s *Service) Client() *processorapi.Client {
	return s.client
}

// Validate runs every local check. It must pass before the service issues
// any remote call.
func (s *Service) Validate(req *models.PaymentRequest) error {
	if req.Amount.Sign() <= 0 {
		return ErrInvalidAmount
	}
	if !fees.Supported(req.Currency) {
		return ErrUnsupportedCurrency
	}
	switch req.Method {
	case models.MethodCard:
		if req.Card == nil || !s.ValidateCard(req.Card) {
			return ErrInvalidCard
		}
	case models.MethodBankTransfer:
		if req.Bank == nil || !validBankDetails(req.Bank) {
			return ErrInvalidBank
		}
	default:
		return ErrInvalidMethod
	}
	return nil
}

func (s *Service) ValidateCard(card *models.CardDetails) bool {
	if len(card.Number) < 13 || len(card.Number) > 19 {
		log.Printf("Invalid card number length: %d", len(card.Number))
		return false
	}
	if len(card.CVC) < 3 || len(card.CVC) > 4 {
		log.Printf("Invalid CVC length: %d", len(card.CVC))
		return false
	}
	if !validateExpiry(card.ExpMonth, card.ExpYear) {
		log.Printf("Invalid expiry date: %s/%s", card.ExpMonth, card.ExpYear)
		return false
	}
	if !validateLuhn(card.Number) {
		log.Printf("Failed Luhn check for card number")
		return false
	}
	return true
}

func (s *Service) tokenize(ctx context.Context, req *models.PaymentRequest) (string, []string, error) {
	switch req.Method {
	case models.MethodCard:
		pm, err := s.client.CreateCardPaymentMethod(ctx, req.Card, req.Billing)
		if err != nil {
			return "", nil, err
		}
		return pm.ID, []string{"card"}, nil
	case models.MethodBankTransfer:
		country, methodType := bankRouting(req.Currency)
		if req.Bank.Country != "" {
			country = req.Bank.Country
		}
		token, err := s.client.CreateBankToken(ctx, country, req.Currency, req.Bank)
		if err != nil {
			return "", nil, err
		}
		return token.ID, []string{methodType}, nil
	}
	return "", nil, ErrInvalidMethod
}

// bankRouting picks the debit scheme for a bank payment: ACH for USD
// accounts, SEPA for everything else.
func bankRouting(currency string) (country, methodType string) {
	if currency == "USD" {
		return "US", "ach_debit"
	}
	return "EU", "sepa_debit"
}

func (s *Service) result(invoice string, intent *processorapi.Intent, amount decimal.Decimal, currency string, fee decimal.Decimal) *models.PaymentResult {
	return &models.PaymentResult{
		InvoiceNumber: invoice,
		IntentID:      intent.ID,
		Status:        intent.Status,
		ClientSecret:  intent.ClientSecret,
		Amount:        amount,
		Currency:      currency,
		EstimatedFee:  fee,
		Total:         amount.Add(fee).Round(2),
		ClearanceTime: fees.ClearanceTime(currency),
	}
}

func validBankDetails(bank *models.BankDetails) bool {
	return bank.HolderName != "" && bank.AccountNumber != "" && bank.RoutingNumber != ""
}

func validateLuhn(cardNumber string) bool {
	sum := 0
	isEven := len(cardNumber)%2 == 0

	for i, r := range cardNumber {
		digit := int(r - '0')
		if digit < 0 || digit > 9 {
			return false
		}
		if isEven == (i%2 == 0) {
			digit *= 2
			if digit > 9 {
				digit -= 9
			}
		}
		sum += digit
	}
	return sum%10 == 0
}

func validateExpiry(month, year string) bool {
	m, err := strconv.Atoi(month)
	if err != nil || m < 1 || m > 12 {
		return false
	}
	y, err := strconv.Atoi(year)
	if err != nil {
		return false
	}
	if y < 100 {
		y += 2000
	}

	// Card is valid through the last moment of its expiry month.
	endOfMonth := time.Date(y, time.Month(m)+1, 0, 23, 59, 59, 0, time.UTC)
	return endOfMonth.After(time.Now())
}
