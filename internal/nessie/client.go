// Package nessie is a typed client for the sandbox banking API: accounts
// by customer, purchases and deposits by account, merchants by id.
// Authentication is an API-key query parameter on every request.
package nessie

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// APIError is a non-2xx response from the remote API.
type APIError struct {
	Status int
	Path   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("nessie: %s returned status %d", e.Path, e.Status)
}

var ErrDecode = errors.New("nessie: decode response")

type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
	Logger  *slog.Logger
}

type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	logger  *slog.Logger
}

func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("nessie: missing base URL")
	}
	if cfg.APIKey == "" {
		return nil, errors.New("nessie: missing API key")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
	}, nil
}

// FetchAccounts returns all accounts of a customer.
func (c *Client) FetchAccounts(ctx context.Context, customerID string) ([]Account, error) {
	return getJSON[[]Account](ctx, c, fmt.Sprintf("/customers/%s/accounts", url.PathEscape(customerID)))
}

// FetchAccount looks an account up by its id. The sandbox honors direct-id
// lookups for accounts that the customer listing omits.
func (c *Client) FetchAccount(ctx context.Context, accountID string) (Account, error) {
	return getJSON[Account](ctx, c, fmt.Sprintf("/accounts/%s", url.PathEscape(accountID)))
}

// FetchPurchases returns the purchases charged to an account.
func (c *Client) FetchPurchases(ctx context.Context, accountID string) ([]Purchase, error) {
	return getJSON[[]Purchase](ctx, c, fmt.Sprintf("/accounts/%s/purchases", url.PathEscape(accountID)))
}

// FetchDeposits returns the deposits credited to an account.
func (c *Client) FetchDeposits(ctx context.Context, accountID string) ([]Deposit, error) {
	return getJSON[[]Deposit](ctx, c, fmt.Sprintf("/accounts/%s/deposits", url.PathEscape(accountID)))
}

// FetchMerchant resolves a merchant by id.
func (c *Client) FetchMerchant(ctx context.Context, merchantID string) (Merchant, error) {
	return getJSON[Merchant](ctx, c, fmt.Sprintf("/merchants/%s", url.PathEscape(merchantID)))
}

// CreateAccount creates a sandbox account for a customer.
func (c *Client) CreateAccount(ctx context.Context, customerID string, req CreateAccountRequest) (Account, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return Account{}, fmt.Errorf("nessie: encode request: %w", err)
	}
	path := fmt.Sprintf("/customers/%s/accounts", url.PathEscape(customerID))
	var created struct {
		ObjectCreated Account `json:"objectCreated"`
	}
	if err := c.do(ctx, http.MethodPost, path, bytes.NewReader(body), &created); err != nil {
		return Account{}, err
	}
	return created.ObjectCreated, nil
}

func getJSON[T any](ctx context.Context, c *Client, path string) (T, error) {
	var out T
	err := c.do(ctx, http.MethodGet, path, nil, &out)
	return out, err
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, out any) error {
	u := fmt.Sprintf("%s%s?key=%s", c.baseURL, path, url.QueryEscape(c.apiKey))

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return fmt.Errorf("nessie: build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("nessie: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	c.logger.DebugContext(ctx, "API request",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds())

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		io.Copy(io.Discard, resp.Body)
		return &APIError{Status: resp.StatusCode, Path: path}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrDecode, path, err)
	}
	return nil
}
