// Package provider talks to the upstream financial-data provider. One fetcher
// per resource, each owning its response-shape parsing and returning a
// strongly typed partial structure. Unknown shapes are rejected and logged,
// never passed through as untyped maps.
package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/avestoai/avesto-go/normalize"
)

// Config configures the provider client.
type Config struct {
	// BaseURL is the provider API URL (e.g. "https://mcp.fi.money").
	BaseURL string

	// APIKey is the bearer token for authentication.
	APIKey string

	// Timeout is the per-request HTTP timeout.
	Timeout time.Duration

	// MaxRetries is the number of attempts per request (default 3).
	MaxRetries int
}

// Client is an authenticated HTTP client for the provider API.
type Client struct {
	baseURL    string
	apiKey     string
	maxRetries int
	httpClient *http.Client
	log        zerolog.Logger
}

// NewClient creates a provider client.
func NewClient(cfg Config, log zerolog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	retries := cfg.MaxRetries
	if retries <= 0 {
		retries = 3
	}

	return &Client{
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		maxRetries: retries,
		httpClient: &http.Client{Timeout: timeout},
		log:        log.With().Str("component", "provider").Logger(),
	}
}

// endpointForResource maps resource names to provider endpoints.
func endpointForResource(resource, userID string) string {
	endpoints := map[string]string{
		"net_worth":           "/api/v1/users/%s/net-worth",
		"credit_report":       "/api/v1/users/%s/credit-report",
		"retirement":          "/api/v1/users/%s/retirement",
		"fund_transactions":   "/api/v1/users/%s/fund-transactions",
		"bank_transactions":   "/api/v1/users/%s/bank-transactions",
		"equity_transactions": "/api/v1/users/%s/equity-transactions",
	}
	if pattern, ok := endpoints[resource]; ok {
		return fmt.Sprintf(pattern, userID)
	}
	return fmt.Sprintf("/api/v1/users/%s/resources/%s", userID, resource)
}

// get performs an authenticated GET with bounded retries. Network errors and
// 5xx responses are retried with exponential backoff; 4xx responses are not.
func (c *Client) get(ctx context.Context, endpoint string) ([]byte, error) {
	url := c.baseURL + endpoint
	backoff := 500 * time.Millisecond

	var lastErr error
	for attempt := 1; attempt <= c.maxRetries; attempt++ {
		if attempt > 1 {
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
			backoff *= 2
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("request failed: %w", err)
			c.log.Warn().Err(err).Str("endpoint", endpoint).Int("attempt", attempt).Msg("provider request failed")
			continue
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = fmt.Errorf("failed to read response: %w", err)
			continue
		}

		if resp.StatusCode >= 500 {
			lastErr = fmt.Errorf("provider error: HTTP %d", resp.StatusCode)
			c.log.Warn().Int("status", resp.StatusCode).Str("endpoint", endpoint).Int("attempt", attempt).Msg("provider returned server error")
			continue
		}
		if resp.StatusCode >= 400 {
			return nil, fmt.Errorf("provider rejected request: HTTP %d: %s", resp.StatusCode, truncate(string(body), 200))
		}

		return body, nil
	}

	return nil, lastErr
}

// Money is the provider's {units, nanos} currency encoding. Units arrives as
// a JSON string or number depending on the upstream serializer; both decode.
type Money struct {
	CurrencyCode string      `json:"currencyCode,omitempty"`
	Units        json.Number `json:"units,omitempty"`
	Nanos        int64       `json:"nanos,omitempty"`
}

// Amount reconstructs the decimal value. A missing or malformed units field
// fails closed to 0.0 rather than contributing a partial amount.
func (m Money) Amount() float64 {
	units, err := m.Units.Int64()
	if err != nil {
		return 0
	}
	return normalize.DecodeAmount(units, m.Nanos)
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
