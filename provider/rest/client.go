// Package rest implements provider.Client over the entitlement
// provider's HTTP API.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/xraph/entitle"
	"github.com/xraph/entitle/license"
	"github.com/xraph/entitle/provider"
)

// Compile-time interface check.
var _ provider.Client = (*Client)(nil)

const defaultTimeout = 15 * time.Second

// Client talks to the entitlement provider's REST API using bearer
// authentication and JSON payloads.
type Client struct {
	name    string
	baseURL string
	apiKey  string
	httpc   *http.Client
	logger  *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpc = hc }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// WithName overrides the provider name reported to hooks and audit.
func WithName(name string) Option {
	return func(c *Client) { c.name = name }
}

// New creates a Client against the given base URL.
func New(baseURL, apiKey string, opts ...Option) *Client {
	c := &Client{
		name:    "rest",
		baseURL: baseURL,
		apiKey:  apiKey,
		httpc:   &http.Client{Timeout: defaultTimeout},
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Name implements provider.Client.
func (c *Client) Name() string { return c.name }

// ──────────────────────────────────────────────────
// Product operations
// ──────────────────────────────────────────────────

// CreateProduct implements provider.Client.
func (c *Client) CreateProduct(ctx context.Context, p *provider.Product) (*provider.Product, error) {
	var out provider.Product
	if err := c.do(ctx, http.MethodPost, "/v1/products", p, &out, asProductError); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetProduct implements provider.Client.
func (c *Client) GetProduct(ctx context.Context, productID string) (*provider.Product, error) {
	var out provider.Product
	path := "/v1/products/" + url.PathEscape(productID)
	if err := c.do(ctx, http.MethodGet, path, nil, &out, asProductError); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListProducts implements provider.Client.
func (c *Client) ListProducts(ctx context.Context) ([]*provider.Product, error) {
	var out []*provider.Product
	if err := c.do(ctx, http.MethodGet, "/v1/products", nil, &out, asProductError); err != nil {
		return nil, err
	}
	return out, nil
}

// ──────────────────────────────────────────────────
// License operations
// ──────────────────────────────────────────────────

type licenseRequest struct {
	Key string `json:"key"`
}

// ActivateLicense implements provider.Client.
func (c *Client) ActivateLicense(ctx context.Context, key string) (*license.License, error) {
	var out license.License
	if err := c.do(ctx, http.MethodPost, "/v1/licenses/activate", licenseRequest{Key: key}, &out, asLicenseError); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeactivateLicense implements provider.Client.
func (c *Client) DeactivateLicense(ctx context.Context, key string) (*license.License, error) {
	var out license.License
	if err := c.do(ctx, http.MethodPost, "/v1/licenses/deactivate", licenseRequest{Key: key}, &out, asLicenseError); err != nil {
		return nil, err
	}
	return &out, nil
}

// ValidateLicense implements provider.Client.
func (c *Client) ValidateLicense(ctx context.Context, key string) (*license.Validation, error) {
	var out license.Validation
	if err := c.do(ctx, http.MethodPost, "/v1/licenses/validate", licenseRequest{Key: key}, &out, asLicenseError); err != nil {
		return nil, err
	}
	return &out, nil
}

// CancelSubscription implements provider.Client.
func (c *Client) CancelSubscription(ctx context.Context, providerSubscriptionID string, immediately bool) error {
	path := "/v1/subscriptions/" + url.PathEscape(providerSubscriptionID) + "/cancel"
	body := struct {
		Immediately bool `json:"immediately"`
	}{Immediately: immediately}
	return c.do(ctx, http.MethodPost, path, body, nil, asLicenseError)
}

// ──────────────────────────────────────────────────
// Transport
// ──────────────────────────────────────────────────

// errorEnvelope is the provider's error body shape.
type errorEnvelope struct {
	Error struct {
		Code    string         `json:"code"`
		Message string         `json:"message"`
		Details map[string]any `json:"details"`
	} `json:"error"`
}

func asLicenseError(status int, env errorEnvelope) error {
	e := entitle.NewLicenseError(env.Error.Code, env.Error.Message, status)
	e.Details = env.Error.Details
	return e
}

func asProductError(status int, env errorEnvelope) error {
	e := entitle.NewProductError(env.Error.Code, env.Error.Message, status)
	e.Details = env.Error.Details
	return e
}

// do issues one request and decodes the response into out. Non-2xx
// responses become domain errors via toErr; transport failures keep
// their defaults so callers see a generic error.
func (c *Client) do(ctx context.Context, method, path string, body, out any, toErr func(int, errorEnvelope) error) error {
	var rd io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("rest: encode request: %w", err)
		}
		rd = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		return fmt.Errorf("rest: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		c.logger.Warn("provider request failed",
			"method", method,
			"path", path,
			"error", err,
		)
		return fmt.Errorf("%w: %s %s: %v", entitle.ErrProviderUnavailable, method, path, err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var env errorEnvelope
		// A malformed error body still maps to a domain error; the
		// envelope just stays empty and defaults apply.
		_ = json.NewDecoder(resp.Body).Decode(&env)
		if env.Error.Message == "" {
			env.Error.Message = fmt.Sprintf("provider returned %s", resp.Status)
		}
		return toErr(resp.StatusCode, env)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("rest: decode response: %w", err)
	}
	return nil
}
