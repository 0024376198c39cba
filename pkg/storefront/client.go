package storefront

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/greencart/checkout-client/pkg/auth"
	pkgerrors "github.com/greencart/checkout-client/pkg/errors"
)

const (
	defaultBaseURL             = "http://localhost:5000"
	errorBodyReadLimit   int64 = 1024
)

var errBaseURLRequired = errors.New("storefront base url is required")

// Client wraps the storefront REST backend used by the checkout flow. It
// performs no automatic retries and enforces no timeout of its own; the
// caller's context governs cancellation.
type Client struct {
	httpClient *http.Client
	baseURL    string
	credential auth.Credential
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithBaseURL overrides the configured backend base URL.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		trimmed := strings.TrimSpace(baseURL)
		if trimmed != "" {
			c.baseURL = trimmed
		}
	}
}

// NewClient builds the storefront client with an explicit credential.
func NewClient(credential auth.Credential, opts ...Option) (*Client, error) {
	client := &Client{
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{},
		credential: credential,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}

	if client.httpClient == nil {
		client.httpClient = &http.Client{}
	}
	if client.baseURL == "" {
		return nil, errBaseURLRequired
	}

	return client, nil
}

// CreateOrderRequest is the body for the order-creation endpoint. Amount is
// in minor units per the server contract.
type CreateOrderRequest struct {
	AmountMinor int64  `json:"amount"`
	Currency    string `json:"currency"`
}

// CreateOrder requests a server-side payment order ahead of presenting the
// hosted checkout.
func (c *Client) CreateOrder(ctx context.Context, req CreateOrderRequest) (*PaymentOrder, error) {
	if req.AmountMinor <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "amount must be positive")
	}
	if req.Currency == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "currency is required")
	}

	var resp struct {
		Success  bool   `json:"success"`
		Amount   int64  `json:"amount"`
		Currency string `json:"currency"`
		OrderID  string `json:"order_id"`
	}
	if err := c.postJSON(ctx, "api/create-order", req, &resp); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInitiation, err, "create order")
	}
	if !resp.Success {
		return nil, pkgerrors.New(pkgerrors.CodeInitiation, "server rejected order creation")
	}

	return &PaymentOrder{
		OrderID:     resp.OrderID,
		AmountMinor: resp.Amount,
		Currency:    resp.Currency,
	}, nil
}

// VerifyPayment submits the signature payload for server-side verification.
// A transport failure and a server-reported failure are both verification
// failures; the result is only trusted when the server says so.
func (c *Client) VerifyPayment(ctx context.Context, result VerificationResult) error {
	if result.OrderID == "" || result.PaymentID == "" || result.Signature == "" {
		return pkgerrors.New(pkgerrors.CodeVerification, "incomplete verification payload")
	}

	var resp struct {
		Success bool `json:"success"`
	}
	if err := c.postJSON(ctx, "api/verify-payment", result, &resp); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeVerification, err, "verify payment")
	}
	if !resp.Success {
		return pkgerrors.New(pkgerrors.CodeVerification, "signature rejected")
	}
	return nil
}

// GetPayment fetches the server-of-record payment state.
func (c *Client) GetPayment(ctx context.Context, paymentID string) (*PaymentRecord, error) {
	if strings.TrimSpace(paymentID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payment id is required")
	}

	var resp struct {
		Success bool `json:"success"`
		PaymentRecord
	}
	if err := c.getJSON(ctx, "api/payment/"+url.PathEscape(paymentID), &resp); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeFetch, err, "fetch payment")
	}
	if !resp.Success {
		return nil, pkgerrors.New(pkgerrors.CodeFetch, "payment lookup unsuccessful")
	}

	record := resp.PaymentRecord
	if record.ID == "" {
		record.ID = paymentID
	}
	return &record, nil
}

// GetOrder fetches the order linked to a payment.
func (c *Client) GetOrder(ctx context.Context, orderID string) (*OrderRecord, error) {
	if strings.TrimSpace(orderID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}

	var resp struct {
		Success bool        `json:"success"`
		Order   OrderRecord `json:"order"`
	}
	if err := c.getJSON(ctx, "api/orders/"+url.PathEscape(orderID), &resp); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeFetch, err, "fetch order")
	}
	if !resp.Success {
		return nil, pkgerrors.New(pkgerrors.CodeFetch, "order lookup unsuccessful")
	}
	return &resp.Order, nil
}

// GetCustomerByUser fetches the customer profile behind an order's user
// reference.
func (c *Client) GetCustomerByUser(ctx context.Context, userID string) (*CustomerRecord, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}

	var resp struct {
		Success  bool           `json:"success"`
		Customer CustomerRecord `json:"customer"`
	}
	if err := c.getJSON(ctx, "api/customers/user/"+url.PathEscape(userID), &resp); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeFetch, err, "fetch customer")
	}
	if !resp.Success {
		return nil, pkgerrors.New(pkgerrors.CodeFetch, "customer lookup unsuccessful")
	}
	return &resp.Customer, nil
}

// GetAddress fetches a delivery address by reference.
func (c *Client) GetAddress(ctx context.Context, addressID string) (*AddressRecord, error) {
	if strings.TrimSpace(addressID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "address id is required")
	}

	var resp struct {
		Success bool          `json:"success"`
		Address AddressRecord `json:"address"`
	}
	if err := c.getJSON(ctx, "api/addresses/"+url.PathEscape(addressID), &resp); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeFetch, err, "fetch address")
	}
	if !resp.Success {
		return nil, pkgerrors.New(pkgerrors.CodeFetch, "address lookup unsuccessful")
	}
	return &resp.Address, nil
}

func (c *Client) postJSON(ctx context.Context, path string, body, dest any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.buildURL(path), bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, dest)
}

func (c *Client) getJSON(ctx context.Context, path string, dest any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.buildURL(path), nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	return c.do(req, dest)
}

func (c *Client) do(req *http.Request, dest any) error {
	c.credential.Authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyReadLimit))
		return fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) buildURL(path string) string {
	trimmed := strings.TrimRight(c.baseURL, "/")
	path = strings.TrimLeft(path, "/")
	return fmt.Sprintf("%s/%s", trimmed, path)
}
