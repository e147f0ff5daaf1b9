package transferapi

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"
)

const (
	SandboxEndpoint    = "https://api.sandbox.swiftremit.io/v1"
	ProductionEndpoint = "https://api.swiftremit.io/v1"
	RequestTimeout     = 30 * time.Second
)

// Client talks to the money-transfer provider: plain bearer-token JSON
// calls, one per operation, never retried.
type Client struct {
	http      *resty.Client
	profileID string
}

func NewClient(apiKey, profileID, environment string) *Client {
	endpoint := SandboxEndpoint
	if environment == "production" {
		endpoint = ProductionEndpoint
	}
	return NewClientWithEndpoint(apiKey, profileID, endpoint)
}

// NewClientWithEndpoint points the client at a non-standard base URL. Used
// for testing against local stand-ins.
func NewClientWithEndpoint(apiKey, profileID, endpoint string) *Client {
	httpClient := resty.New().
		SetBaseURL(endpoint).
		SetAuthToken(apiKey).
		SetTimeout(RequestTimeout).
		SetHeader("Content-Type", "application/json")

	return &Client{
		http:      httpClient,
		profileID: profileID,
	}
}

// CreateQuote locks a rate for converting amount from source to target
// currency.
func (c *Client) CreateQuote(ctx context.Context, source, target string, amount decimal.Decimal) (*Quote, error) {
	body := map[string]interface{}{
		"profile":        c.profileID,
		"sourceCurrency": source,
		"targetCurrency": target,
		"sourceAmount":   amount,
		"rateType":       "FIXED",
	}

	var quote Quote
	var errResp apiError

	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(&quote).
		SetError(&errResp).
		Post("/quotes")
	if err != nil {
		return nil, fmt.Errorf("could not reach transfer provider: %w", err)
	}
	if resp.IsError() {
		return nil, &Error{StatusCode: resp.StatusCode(), Message: errResp.text()}
	}

	log.Printf("Created quote %s: %s -> %s at rate %s", quote.ID, source, target, quote.Rate)
	return &quote, nil
}

// CreateRecipientAccount registers the payout destination.
func (c *Client) CreateRecipientAccount(ctx context.Context, currency, holderName string, fields map[string]string) (*RecipientAccount, error) {
	body := map[string]interface{}{
		"profile":           c.profileID,
		"currency":          currency,
		"accountHolderName": holderName,
		"type":              accountTypeFor(currency),
		"details":           fields,
	}

	var account RecipientAccount
	var errResp apiError

	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(&account).
		SetError(&errResp).
		Post("/accounts")
	if err != nil {
		return nil, fmt.Errorf("could not reach transfer provider: %w", err)
	}
	if resp.IsError() {
		return nil, &Error{StatusCode: resp.StatusCode(), Message: errResp.text()}
	}

	return &account, nil
}

// CreateTransfer creates the payout against an existing quote and account.
func (c *Client) CreateTransfer(ctx context.Context, accountID int64, quoteID, customerTransactionID, reference string) (*Transfer, error) {
	body := map[string]interface{}{
		"targetAccount":         accountID,
		"quoteUuid":             quoteID,
		"customerTransactionId": customerTransactionID,
		"details": map[string]string{
			"reference": reference,
		},
	}

	var transfer Transfer
	var errResp apiError

	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(&transfer).
		SetError(&errResp).
		Post("/transfers")
	if err != nil {
		return nil, fmt.Errorf("could not reach transfer provider: %w", err)
	}
	if resp.IsError() {
		return nil, &Error{StatusCode: resp.StatusCode(), Message: errResp.text()}
	}

	log.Printf("Created transfer %d (status %s) for account %d", transfer.ID, transfer.Status, accountID)
	return &transfer, nil
}

func (c *Client) GetTransfer(ctx context.Context, id int64) (*Transfer, error) {
	var transfer Transfer
	var errResp apiError

	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&transfer).
		SetError(&errResp).
		Get(fmt.Sprintf("/transfers/%d", id))
	if err != nil {
		return nil, fmt.Errorf("could not reach transfer provider: %w", err)
	}
	if resp.IsError() {
		return nil, &Error{StatusCode: resp.StatusCode(), Message: errResp.text()}
	}

	return &transfer, nil
}

func (c *Client) GetDeliveryEstimate(ctx context.Context, id int64) (*DeliveryEstimate, error) {
	var estimate DeliveryEstimate
	var errResp apiError

	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&estimate).
		SetError(&errResp).
		Get(fmt.Sprintf("/delivery-estimates/%d", id))
	if err != nil {
		return nil, fmt.Errorf("could not reach transfer provider: %w", err)
	}
	if resp.IsError() {
		return nil, &Error{StatusCode: resp.StatusCode(), Message: errResp.text()}
	}

	return &estimate, nil
}

// GetDepositDetails fetches the provider's receiving-account details for
// funding transfers in a currency.
func (c *Client) GetDepositDetails(ctx context.Context, currency string) (*DepositDetails, error) {
	var details DepositDetails
	var errResp apiError

	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("profile", c.profileID).
		SetResult(&details).
		SetError(&errResp).
		Get("/deposit-details/" + currency)
	if err != nil {
		return nil, fmt.Errorf("could not reach transfer provider: %w", err)
	}
	if resp.IsError() {
		return nil, &Error{StatusCode: resp.StatusCode(), Message: errResp.text()}
	}

	return &details, nil
}

// accountTypeFor maps a target currency to the provider's recipient
// account type.
func accountTypeFor(currency string) string {
	switch currency {
	case "USD":
		return "aba"
	case "EUR":
		return "iban"
	case "GBP":
		return "sort_code"
	default:
		return "swift_code"
	}
}
