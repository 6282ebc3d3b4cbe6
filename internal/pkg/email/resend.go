package email

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultBaseURL = "https://api.resend.com"

// Config holds Resend API configuration
type Config struct {
	APIKey  string
	From    string
	BaseURL string
	Timeout time.Duration
}

// ResendClient sends emails via the Resend API
type ResendClient struct {
	config     Config
	httpClient *http.Client
}

// NewResendClient creates a new Resend email client
func NewResendClient(cfg Config) *ResendClient {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}

	return &ResendClient{
		config:     cfg,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Message represents an email to send
type Message struct {
	To      string
	Subject string
	HTML    string
}

type resendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

// Configured reports whether the client has an API key
func (c *ResendClient) Configured() bool {
	return strings.TrimSpace(c.config.APIKey) != ""
}

// Send sends an email via Resend
func (c *ResendClient) Send(ctx context.Context, msg *Message) error {
	if !c.Configured() {
		return fmt.Errorf("resend config error: api key is empty")
	}

	jsonData, err := json.Marshal(resendRequest{
		From:    c.config.From,
		To:      []string{msg.To},
		Subject: msg.Subject,
		HTML:    msg.HTML,
	})
	if err != nil {
		return fmt.Errorf("failed to encode resend request: %w", err)
	}

	endpoint := strings.TrimRight(c.config.BaseURL, "/") + "/emails"

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("resend api call failed: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.config.APIKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("resend api call failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("resend api returned non-2xx status: %d, body: %s", resp.StatusCode, string(body))
	}

	return nil
}
