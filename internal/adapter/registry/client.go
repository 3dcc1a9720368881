package registry

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"asset-marketplace/config"
	"asset-marketplace/internal/core/domain"

	"github.com/rs/zerolog"
)

// HTTPClient interface for testability.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client implements ports.AssetRegistry against the external registry's
// HTTP API. The registry holds ground-truth ownership and approval; answers
// are never cached here.
type Client struct {
	baseURL    string
	httpClient HTTPClient
	log        zerolog.Logger
}

// NewClient creates a registry client from configuration.
func NewClient(cfg config.RegistryConfig, log zerolog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    cfg.BaseURL,
		httpClient: &http.Client{Timeout: timeout},
		log:        log.With().Str("component", "registry_client").Logger(),
	}
}

// NewClientWithHTTP creates a registry client with a custom HTTP client.
func NewClientWithHTTP(baseURL string, httpClient HTTPClient, log zerolog.Logger) *Client {
	return &Client{baseURL: baseURL, httpClient: httpClient, log: log}
}

type ownerResponse struct {
	Owner string `json:"owner"`
}

type approvalResponse struct {
	Approved bool `json:"approved"`
}

type transferRequest struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// OwnerOf returns the current owner of the asset.
func (c *Client) OwnerOf(ctx context.Context, key domain.AssetKey) (domain.Address, error) {
	endpoint := fmt.Sprintf("%s/registries/%s/tokens/%s/owner",
		c.baseURL, url.PathEscape(key.Registry.String()), url.PathEscape(key.TokenID))

	var resp ownerResponse
	if err := c.getJSON(ctx, endpoint, &resp); err != nil {
		return "", fmt.Errorf("owner of %s: %w", key, err)
	}
	return domain.NormalizeAddress(resp.Owner), nil
}

// IsApprovedForTransfer reports whether operator may transfer the asset on
// the owner's behalf.
func (c *Client) IsApprovedForTransfer(ctx context.Context, key domain.AssetKey, operator domain.Address) (bool, error) {
	endpoint := fmt.Sprintf("%s/registries/%s/tokens/%s/approval?operator=%s",
		c.baseURL, url.PathEscape(key.Registry.String()), url.PathEscape(key.TokenID),
		url.QueryEscape(operator.String()))

	var resp approvalResponse
	if err := c.getJSON(ctx, endpoint, &resp); err != nil {
		return false, fmt.Errorf("approval of %s: %w", key, err)
	}
	return resp.Approved, nil
}

// TransferFrom moves the asset from seller to buyer.
func (c *Client) TransferFrom(ctx context.Context, from, to domain.Address, key domain.AssetKey) error {
	endpoint := fmt.Sprintf("%s/registries/%s/tokens/%s/transfer",
		c.baseURL, url.PathEscape(key.Registry.String()), url.PathEscape(key.TokenID))

	body, err := json.Marshal(transferRequest{From: from.String(), To: to.String()})
	if err != nil {
		return fmt.Errorf("marshal transfer request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build transfer request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("transfer %s: %w", key, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.log.Warn().
			Str("asset", key.String()).
			Int("status", resp.StatusCode).
			Msg("Registry rejected transfer")
		return fmt.Errorf("transfer %s: registry returned %d", key, resp.StatusCode)
	}
	return nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("registry returned %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
