package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sisrafilss/local-guide-server/config"
)

// InitiateRequest carries what the hosted-payment-page initiation needs. The
// transaction ID is the merchant-side correlation key and must round-trip
// unchanged through the gateway.
type InitiateRequest struct {
	TransactionID string
	Amount        decimal.Decimal
	CustomerName  string
	CustomerEmail string
	CustomerPhone string
	CustomerAddr  string
}

// InitiateResponse is the subset of the gateway's initiation reply the caller
// consumes. Raw holds the body verbatim for auditing.
type InitiateResponse struct {
	Status         string          `json:"status"`
	FailedReason   string          `json:"failedreason"`
	GatewayPageURL string          `json:"GatewayPageURL"`
	Raw            json.RawMessage `json:"-"`
}

// Client talks to the SSLCommerz sandbox/live HTTP API. One instance is
// created at startup and shared; the embedded http.Client bounds every call.
type Client struct {
	cfg        config.SSLConfig
	httpClient *http.Client
}

func NewClient(cfg config.SSLConfig) *Client {
	return &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Initiate issues the form-encoded payment-initiation POST and returns the
// parsed response. No retry: payment initiation is user-interactive and the
// user retries by reloading.
func (c *Client) Initiate(ctx context.Context, req InitiateRequest) (*InitiateResponse, error) {
	form := url.Values{}
	form.Set("store_id", c.cfg.StoreID)
	form.Set("store_passwd", c.cfg.StorePassword)
	form.Set("total_amount", req.Amount.StringFixed(2))
	form.Set("currency", "BDT")
	form.Set("tran_id", req.TransactionID)

	form.Set("success_url", c.cfg.SuccessBackendURL+"?transactionId="+url.QueryEscape(req.TransactionID))
	form.Set("fail_url", c.cfg.FailBackendURL+"?transactionId="+url.QueryEscape(req.TransactionID))
	form.Set("cancel_url", c.cfg.CancelBackendURL+"?transactionId="+url.QueryEscape(req.TransactionID))

	form.Set("shipping_method", "NO")
	form.Set("product_name", "Tour")
	form.Set("product_category", "Service")
	form.Set("product_profile", "general")

	form.Set("cus_name", req.CustomerName)
	form.Set("cus_email", req.CustomerEmail)
	form.Set("cus_add1", req.CustomerAddr)
	form.Set("cus_city", "Dhaka")
	form.Set("cus_state", "Dhaka")
	form.Set("cus_postcode", "1000")
	form.Set("cus_country", "Bangladesh")
	form.Set("cus_phone", req.CustomerPhone)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.PaymentAPI, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("build initiation request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("payment initiation request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read initiation response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("payment initiation returned %d: %s", resp.StatusCode, string(body))
	}

	var parsed InitiateResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("decode initiation response: %w", err)
	}
	parsed.Raw = body

	if parsed.GatewayPageURL == "" {
		reason := parsed.FailedReason
		if reason == "" {
			reason = "gateway returned no payment URL"
		}
		return nil, fmt.Errorf("payment initiation rejected: %s", reason)
	}

	return &parsed, nil
}

// Validate queries the gateway for the authoritative state of a transaction
// using the gateway-assigned validation id. Idempotent; callers may retry.
func (c *Client) Validate(ctx context.Context, valID string) (json.RawMessage, error) {
	query := url.Values{}
	query.Set("val_id", valID)
	query.Set("store_id", c.cfg.StoreID)
	query.Set("store_passwd", c.cfg.StorePassword)
	query.Set("format", "json")

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.ValidationAPI+"?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build validation request: %w", err)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("payment validation request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read validation response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("payment validation returned %d: %s", resp.StatusCode, string(body))
	}

	return body, nil
}
