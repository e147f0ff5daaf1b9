package processorapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"borderpay-payment-api/models"
	"borderpay-payment-api/types"
)

const (
	SandboxEndpoint    = "https://api.sandbox.procharge.io/v1"
	ProductionEndpoint = "https://api.procharge.io/v1"
	RequestTimeout     = 30 * time.Second

	// MetadataInvoiceKey is the metadata field carrying the locally
	// generated invoice reference.
	MetadataInvoiceKey = "invoice"
)

// Client is a thin wrapper over the processor's form-encoded REST API.
// Validation and idempotency are the provider's job; on any remote error
// the provider's message is returned and the operation is abandoned.
type Client struct {
	apiKey   string
	endpoint string
	client   *http.Client
}

func NewClient(apiKey, environment string) *Client {
	endpoint := SandboxEndpoint
	if environment == "production" {
		endpoint = ProductionEndpoint
	}
	return newClientWithEndpoint(apiKey, endpoint)
}

// NewClientWithEndpoint points the client at a non-standard base URL. Used
// for testing against local stand-ins.
func NewClientWithEndpoint(apiKey, endpoint string) *Client {
	return newClientWithEndpoint(apiKey, endpoint)
}

func newClientWithEndpoint(apiKey, endpoint string) *Client {
	transport := &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 20,
		MaxConnsPerHost:     100,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	}
	return &Client{
		apiKey:   apiKey,
		endpoint: strings.TrimRight(endpoint, "/"),
		client: &http.Client{
			Timeout:   RequestTimeout,
			Transport: transport,
		},
	}
}

// IntentParams are the inputs to intent creation. Amount is in minor units.
type IntentParams struct {
	Amount        int64
	Currency      string
	PaymentMethod string
	MethodTypes   []string
	Confirm       bool
	CaptureMethod string
	ReceiptEmail  string
	Description   string
	Metadata      map[string]string
}

func (c *Client) CreateIntent(ctx context.Context, params IntentParams) (*Intent, error) {
	form := url.Values{}
	form.Set("amount", strconv.FormatInt(params.Amount, 10))
	form.Set("currency", strings.ToLower(params.Currency))
	for _, t := range params.MethodTypes {
		form.Add("payment_method_types[]", t)
	}
	if params.PaymentMethod != "" {
		form.Set("payment_method", params.PaymentMethod)
	}
	if params.Confirm {
		form.Set("confirm", "true")
	}
	if params.CaptureMethod != "" {
		form.Set("capture_method", params.CaptureMethod)
	}
	if params.ReceiptEmail != "" {
		form.Set("receipt_email", params.ReceiptEmail)
	}
	if params.Description != "" {
		form.Set("description", params.Description)
	}
	for k, v := range params.Metadata {
		form.Set(fmt.Sprintf("metadata[%s]", k), v)
	}

	var intent Intent
	if err := c.do(ctx, http.MethodPost, "/payment_intents", form, &intent); err != nil {
		return nil, err
	}
	return &intent, nil
}

func (c *Client) RetrieveIntent(ctx context.Context, id string) (*Intent, error) {
	var intent Intent
	if err := c.do(ctx, http.MethodGet, "/payment_intents/"+url.PathEscape(id), nil, &intent); err != nil {
		return nil, err
	}
	return &intent, nil
}

func (c *Client) CancelIntent(ctx context.Context, id string) (*Intent, error) {
	var intent Intent
	if err := c.do(ctx, http.MethodPost, "/payment_intents/"+url.PathEscape(id)+"/cancel", url.Values{}, &intent); err != nil {
		return nil, err
	}
	return &intent, nil
}

// SearchIntentsByInvoice lists intents whose metadata carries the given
// invoice reference. The lookup only works while the provider still holds
// matching records; there is no local index.
func (c *Client) SearchIntentsByInvoice(ctx context.Context, invoice string) ([]Intent, error) {
	query := fmt.Sprintf("metadata['%s']:'%s'", MetadataInvoiceKey, invoice)
	path := "/payment_intents/search?limit=20&query=" + url.QueryEscape(query)

	var result intentSearchResult
	if err := c.do(ctx, http.MethodGet, path, nil, &result); err != nil {
		return nil, err
	}
	return result.Data, nil
}

// RetrieveBalance fetches the account's available and pending funds.
func (c *Client) RetrieveBalance(ctx context.Context) (*Balance, error) {
	var balance Balance
	if err := c.do(ctx, http.MethodGet, "/balance", nil, &balance); err != nil {
		return nil, err
	}
	return &balance, nil
}

// CreateCardPaymentMethod tokenizes raw card details.
func (c *Client) CreateCardPaymentMethod(ctx context.Context, card *models.CardDetails, billing *types.BillingInfo) (*PaymentMethod, error) {
	form := url.Values{}
	form.Set("type", "card")
	form.Set("card[number]", card.Number)
	form.Set("card[exp_month]", card.ExpMonth)
	form.Set("card[exp_year]", card.ExpYear)
	form.Set("card[cvc]", card.CVC)
	if name := billing.FullName(); name != "" {
		form.Set("billing_details[name]", name)
	} else if card.HolderName != "" {
		form.Set("billing_details[name]", card.HolderName)
	}
	if billing != nil && billing.Country != "" {
		form.Set("billing_details[address][country]", billing.Country)
	}

	var pm PaymentMethod
	if err := c.do(ctx, http.MethodPost, "/payment_methods", form, &pm); err != nil {
		return nil, err
	}
	return &pm, nil
}

// CreateBankToken tokenizes a bank account for direct-debit payment.
func (c *Client) CreateBankToken(ctx context.Context, country, currency string, bank *models.BankDetails) (*BankToken, error) {
	form := url.Values{}
	form.Set("bank_account[country]", country)
	form.Set("bank_account[currency]", strings.ToLower(currency))
	form.Set("bank_account[account_holder_name]", bank.HolderName)
	form.Set("bank_account[account_holder_type]", "individual")
	form.Set("bank_account[account_number]", bank.AccountNumber)
	form.Set("bank_account[routing_number]", bank.RoutingNumber)

	var token BankToken
	if err := c.do(ctx, http.MethodPost, "/tokens", form, &token); err != nil {
		return nil, err
	}
	return &token, nil
}

func (c *Client) do(ctx context.Context, method, path string, form url.Values, out interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, RequestTimeout)
	defer cancel()

	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint+path, body)
	if err != nil {
		return fmt.Errorf("error creating request: %v", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("error making request: %v", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("error reading response body: %v", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var errBody apiErrorBody
		if err := json.Unmarshal(respBody, &errBody); err == nil && errBody.Error.Message != "" {
			return &Error{
				StatusCode: resp.StatusCode,
				Type:       errBody.Error.Type,
				Code:       errBody.Error.Code,
				Message:    errBody.Error.Message,
			}
		}
		return &Error{StatusCode: resp.StatusCode}
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("error decoding response: %v, response body: %s", err, string(respBody))
		}
	}
	return nil
}
