package apify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultBaseURL = "https://api.apify.com/v2"

// Config holds Apify API configuration
type Config struct {
	Token   string
	ActorID string
	BaseURL string
	Timeout time.Duration
}

// Client runs Apify actors synchronously
type Client struct {
	httpClient *http.Client
	config     Config
}

// NewClient creates a new Apify API client
func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 120 * time.Second
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}

	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		config:     cfg,
	}
}

// Listing is one scraped marketplace item
type Listing struct {
	Title string   `json:"title"`
	Price string   `json:"price"`
	Tags  []string `json:"tags"`
}

type runInput struct {
	Search   string   `json:"search"`
	MaxItems int      `json:"maxItems"`
	Proxy    runProxy `json:"proxy"`
}

type runProxy struct {
	UseApifyProxy bool `json:"useApifyProxy"`
}

// Configured reports whether the client has credentials to run actors
func (c *Client) Configured() bool {
	return strings.TrimSpace(c.config.Token) != ""
}

// SearchListings runs the scraper actor for a search term and returns the
// dataset items the run produced
func (c *Client) SearchListings(ctx context.Context, keyword string, maxItems int) ([]Listing, error) {
	if !c.Configured() {
		return nil, fmt.Errorf("apify config error: token is empty")
	}
	if strings.TrimSpace(c.config.ActorID) == "" {
		return nil, fmt.Errorf("apify config error: actor id is empty")
	}
	if maxItems <= 0 {
		maxItems = 20
	}

	jsonData, err := json.Marshal(runInput{
		Search:   keyword,
		MaxItems: maxItems,
		Proxy:    runProxy{UseApifyProxy: true},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode apify input: %w", err)
	}

	// run-sync-get-dataset-items runs the actor and returns its dataset in
	// a single call
	endpoint := fmt.Sprintf("%s/acts/%s/run-sync-get-dataset-items?token=%s",
		strings.TrimRight(c.config.BaseURL, "/"),
		url.PathEscape(c.config.ActorID),
		url.QueryEscape(c.config.Token),
	)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("apify api call failed: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("apify api call failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("apify api call failed: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("apify api returned non-2xx status: %d, body: %s", resp.StatusCode, string(body))
	}

	var items []Listing
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, fmt.Errorf("failed to parse apify dataset: %w", err)
	}

	return items, nil
}
