package stripe

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
)

const defaultBaseURL = "https://api.stripe.com/v1"

// Config holds Stripe API configuration
type Config struct {
	SecretKey string
	BaseURL   string
	Timeout   time.Duration
}

// Client calls the Stripe API
type Client struct {
	httpClient *http.Client
	config     Config
}

// NewClient creates a new Stripe API client
func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}

	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		config:     cfg,
	}
}

// CheckoutParams describes a one-off payment checkout session
type CheckoutParams struct {
	ProductName string
	AmountCents int64
	Currency    string
	Quantity    int
	SuccessURL  string
	CancelURL   string
	ClientRef   string
	Metadata    map[string]string
}

// CheckoutSessionResponse is the subset of the session object the API
// returns that callers need
type CheckoutSessionResponse struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// CreateCheckoutSession creates a hosted checkout session and returns its
// redirect URL
func (c *Client) CreateCheckoutSession(ctx context.Context, params CheckoutParams) (*CheckoutSessionResponse, error) {
	if strings.TrimSpace(c.config.SecretKey) == "" {
		return nil, fmt.Errorf("stripe config error: secret key is empty")
	}
	if params.AmountCents <= 0 {
		return nil, fmt.Errorf("validation error: amount must be > 0")
	}
	if strings.TrimSpace(params.ProductName) == "" {
		return nil, fmt.Errorf("validation error: product name must be non-empty")
	}

	currency := params.Currency
	if currency == "" {
		currency = "usd"
	}
	quantity := params.Quantity
	if quantity <= 0 {
		quantity = 1
	}

	// Stripe takes form-encoded bodies with bracketed nested keys
	form := url.Values{}
	form.Set("mode", "payment")
	form.Set("payment_method_types[0]", "card")
	form.Set("line_items[0][price_data][currency]", currency)
	form.Set("line_items[0][price_data][product_data][name]", params.ProductName)
	form.Set("line_items[0][price_data][unit_amount]", strconv.FormatInt(params.AmountCents, 10))
	form.Set("line_items[0][quantity]", strconv.Itoa(quantity))
	form.Set("success_url", params.SuccessURL)
	form.Set("cancel_url", params.CancelURL)
	if params.ClientRef != "" {
		form.Set("client_reference_id", params.ClientRef)
	}
	for key, value := range params.Metadata {
		form.Set("metadata["+key+"]", value)
	}

	endpoint := strings.TrimRight(c.config.BaseURL, "/") + "/checkout/sessions"

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("stripe api call failed: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	httpReq.Header.Set("Authorization", "Bearer "+c.config.SecretKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("stripe api call failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("stripe api call failed: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("stripe api returned non-2xx status: %d, body: %s", resp.StatusCode, string(body))
	}

	var out CheckoutSessionResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("failed to parse stripe response: %w", err)
	}

	if out.URL == "" {
		return nil, fmt.Errorf("stripe session has no redirect url")
	}

	return &out, nil
}
