// Package payment is a thin client for the Crypto Pay API
// (https://pay.crypt.bot) used to sell the premium upgrade.
package payment

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const DefaultBaseURL = "https://pay.crypt.bot/api"

// Invoice statuses returned by getInvoices.
const (
	StatusActive  = "active"
	StatusPaid    = "paid"
	StatusExpired = "expired"
)

// Invoice is the subset of the Crypto Pay invoice the bot needs.
type Invoice struct {
	InvoiceID int64  `json:"invoice_id"`
	Status    string `json:"status"`
	PayURL    string `json:"bot_invoice_url"`
}

// Client talks to the Crypto Pay API with a fixed token.
type Client struct {
	token   string
	baseURL string
	http    *http.Client
}

// NewClient returns a client for the production endpoint. An empty token
// is allowed; calls will then fail with ErrNotConfigured so the bot can
// tell users payments are off.
func NewClient(token string) *Client {
	return &Client{
		token:   token,
		baseURL: DefaultBaseURL,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

// NewClientWithBaseURL is for tests against a local stub server.
func NewClientWithBaseURL(token, baseURL string) *Client {
	c := NewClient(token)
	c.baseURL = strings.TrimRight(baseURL, "/")
	return c
}

var ErrNotConfigured = fmt.Errorf("payment: CRYPTO_PAY_TOKEN is not set")

// Configured reports whether the client has an API token.
func (c *Client) Configured() bool {
	return c.token != ""
}

type apiResponse struct {
	OK     bool            `json:"ok"`
	Result json.RawMessage `json:"result"`
}

// CreateInvoice creates a fiat invoice for the given RUB amount and
// returns the invoice id and payment URL.
func (c *Client) CreateInvoice(amount, description string) (*Invoice, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}
	body := map[string]string{
		"currency_type": "fiat",
		"amount":        amount,
		"fiat":          "RUB",
		"description":   description,
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequest(http.MethodPost, c.baseURL+"/createInvoice", strings.NewReader(string(payload)))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Crypto-Pay-API-Token", c.token)

	var invoice Invoice
	if err := c.do(req, &invoice); err != nil {
		return nil, fmt.Errorf("create invoice: %w", err)
	}
	if invoice.PayURL == "" || invoice.InvoiceID == 0 {
		return nil, fmt.Errorf("create invoice: incomplete response")
	}
	return &invoice, nil
}

// GetInvoiceStatus returns the status of a previously created invoice.
func (c *Client) GetInvoiceStatus(invoiceID int64) (string, error) {
	if !c.Configured() {
		return "", ErrNotConfigured
	}
	q := url.Values{}
	q.Set("invoice_ids", fmt.Sprintf("%d", invoiceID))
	req, err := http.NewRequest(http.MethodGet, c.baseURL+"/getInvoices?"+q.Encode(), nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Crypto-Pay-API-Token", c.token)

	var result struct {
		Items []Invoice `json:"items"`
	}
	if err := c.do(req, &result); err != nil {
		return "", fmt.Errorf("get invoice %d: %w", invoiceID, err)
	}
	if len(result.Items) == 0 {
		return "", fmt.Errorf("invoice %d not found", invoiceID)
	}
	return result.Items[0].Status, nil
}

func (c *Client) do(req *http.Request, out interface{}) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %s", resp.Status)
	}
	var wrapper apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&wrapper); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if !wrapper.OK {
		return fmt.Errorf("api returned ok=false")
	}
	return json.Unmarshal(wrapper.Result, out)
}
