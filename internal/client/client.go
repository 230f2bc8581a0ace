package client

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"datapulse.api/internal/core/domain"
	"datapulse.api/internal/core/logger"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Client issues requests against a single DataPulse API base address.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
	tracing    bool
}

type Option func(*Client)

// WithHTTPClient replaces the default http.Client. No timeout is set by
// default; bound calls with the context instead.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// WithTracing instruments outgoing requests with OpenTelemetry spans.
func WithTracing() Option {
	return func(c *Client) {
		c.tracing = true
	}
}

// New returns a client for baseURL. Endpoints are appended to it verbatim.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base URL: %w", err)
	}
	if !u.IsAbs() || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidBaseURL, baseURL)
	}

	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = logger.Get()
	}
	if c.tracing {
		hc := *c.httpClient
		base := hc.Transport
		if base == nil {
			base = http.DefaultTransport
		}
		hc.Transport = otelhttp.NewTransport(base)
		c.httpClient = &hc
	}
	return c, nil
}

// BaseURL returns the configured base address without a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) newRequest(ctx context.Context, endpoint, accept string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build request for %s: %w", endpoint, err)
	}
	req.Header.Set("Accept", accept)
	return req, nil
}

// Fetch performs one GET against endpoint and decodes the JSON body into T.
// Non-2xx responses return *APIError. When T implements domain.Validator the
// decoded value is validated before it is returned.
func Fetch[T any](ctx context.Context, c *Client, endpoint string) (T, error) {
	var out T

	req, err := c.newRequest(ctx, endpoint, "application/json")
	if err != nil {
		return out, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return out, fmt.Errorf("fetch %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	c.logger.DebugContext(ctx, "api response", "endpoint", endpoint, "status", resp.StatusCode)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return out, &APIError{StatusCode: resp.StatusCode, Endpoint: endpoint}
	}

	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return out, fmt.Errorf("%w from %s: %v", ErrDecode, endpoint, err)
	}
	if err := validate(&out); err != nil {
		return out, fmt.Errorf("%w from %s: %w", ErrInvalidPayload, endpoint, err)
	}
	return out, nil
}

// DecodeEvent decodes a stream payload as JSON and validates it like Fetch.
func DecodeEvent[T any](data string) (T, error) {
	var out T
	if err := json.Unmarshal([]byte(data), &out); err != nil {
		return out, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if err := validate(&out); err != nil {
		return out, fmt.Errorf("%w: %w", ErrInvalidPayload, err)
	}
	return out, nil
}

func validate(v any) error {
	if val, ok := v.(domain.Validator); ok {
		return val.Validate()
	}
	return nil
}
