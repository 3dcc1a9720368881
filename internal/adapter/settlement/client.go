package settlement

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"asset-marketplace/config"
	"asset-marketplace/internal/core/domain"

	"github.com/rs/zerolog"
)

// HTTPClient interface for testability.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client implements ports.CurrencyTransfer against the external settlement
// service's HTTP API.
type Client struct {
	baseURL    string
	httpClient HTTPClient
	log        zerolog.Logger
}

// NewClient creates a settlement client from configuration.
func NewClient(cfg config.SettlementConfig, log zerolog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    cfg.BaseURL,
		httpClient: &http.Client{Timeout: timeout},
		log:        log.With().Str("component", "settlement_client").Logger(),
	}
}

// NewClientWithHTTP creates a settlement client with a custom HTTP client.
func NewClientWithHTTP(baseURL string, httpClient HTTPClient, log zerolog.Logger) *Client {
	return &Client{baseURL: baseURL, httpClient: httpClient, log: log}
}

type payRequest struct {
	To     string `json:"to"`
	Amount uint64 `json:"amount"`
}

// Pay transfers amount to the recipient. A non-2xx response is a failed
// payout and must abort the enclosing withdrawal.
func (c *Client) Pay(ctx context.Context, to domain.Address, amount uint64) error {
	body, err := json.Marshal(payRequest{To: to.String(), Amount: amount})
	if err != nil {
		return fmt.Errorf("marshal pay request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/transfers", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build pay request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("pay %s: %w", to, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.log.Warn().
			Str("to", to.String()).
			Uint64("amount", amount).
			Int("status", resp.StatusCode).
			Msg("Settlement rejected payout")
		return fmt.Errorf("pay %s: settlement returned %d", to, resp.StatusCode)
	}
	return nil
}
