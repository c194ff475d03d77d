package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultBaseURL = "https://api.razorpay.com"

// Provider is the slice of the payment gateway the checkout flow uses:
// create an order before payment, fetch it back after the callback.
type Provider interface {
	CreateOrder(ctx context.Context, amountPaise int64, currency, receipt string, notes map[string]string) (*ProviderOrder, error)
	FetchOrder(ctx context.Context, orderID string) (*ProviderOrder, error)
}

// ProviderOrder mirrors the fields of the Razorpay order resource we read.
// Notes carries the pending-checkout metadata until the order is persisted.
type ProviderOrder struct {
	ID       string            `json:"id"`
	Amount   int64             `json:"amount"` // paise
	Currency string            `json:"currency"`
	Receipt  string            `json:"receipt"`
	Status   string            `json:"status"`
	Notes    map[string]string `json:"notes"`
}

// StatusError is a non-2xx response from the provider API. Callers use
// the status to tell a rejected request (4xx, permanent) from a gateway
// failure worth retrying.
type StatusError struct {
	Method string
	Path   string
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("razorpay %s %s: status %d: %s", e.Method, e.Path, e.Status, e.Body)
}

type Client struct {
	BaseURL   string
	KeyID     string
	KeySecret string
	HTTP      *http.Client
}

func NewClient(keyID, keySecret string) *Client {
	return &Client{
		BaseURL:   defaultBaseURL,
		KeyID:     keyID,
		KeySecret: keySecret,
		HTTP:      &http.Client{Timeout: 10 * time.Second},
	}
}

type createOrderReq struct {
	Amount   int64             `json:"amount"`
	Currency string            `json:"currency"`
	Receipt  string            `json:"receipt"`
	Notes    map[string]string `json:"notes,omitempty"`
}

func (c *Client) CreateOrder(ctx context.Context, amountPaise int64, currency, receipt string, notes map[string]string) (*ProviderOrder, error) {
	body, err := json.Marshal(createOrderReq{
		Amount:   amountPaise,
		Currency: currency,
		Receipt:  receipt,
		Notes:    notes,
	})
	if err != nil {
		return nil, err
	}
	var out ProviderOrder
	if err := c.do(ctx, http.MethodPost, "/v1/orders", bytes.NewReader(body), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) FetchOrder(ctx context.Context, orderID string) (*ProviderOrder, error) {
	var out ProviderOrder
	if err := c.do(ctx, http.MethodGet, "/v1/orders/"+orderID, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return err
	}
	req.SetBasicAuth(c.KeyID, c.KeySecret)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &StatusError{Method: method, Path: path, Status: resp.StatusCode, Body: string(data)}
	}
	return json.Unmarshal(data, out)
}
