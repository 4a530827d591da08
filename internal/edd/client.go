// Package edd is a client for the Easy Digital Downloads REST API.
// It handles query-parameter authentication, response envelope
// unwrapping, and bounded retry with exponential backoff.
package edd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultRetries is the total number of attempts made per logical
// request when no override is given.
const DefaultRetries = 3

// Known relative endpoints on the EDD API.
const (
	endpointProducts     = "products/"
	endpointSales        = "sales/"
	endpointCustomers    = "customers/"
	endpointStats        = "stats/"
	endpointDiscounts    = "discounts/"
	endpointDownloadLogs = "file-download-logs/"
)

// StatusError is returned when the API responds with a non-2xx status.
type StatusError struct {
	Code   int
	Status string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("edd: unexpected status %s", e.Status)
}

// APIError is returned when the API responds 2xx but the body carries
// an application-level error field. EDD signals failures such as bad
// credentials this way, with HTTP 200.
type APIError struct {
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("edd: api error: %s", e.Message)
}

// Client performs authenticated GET requests against an EDD store.
// It is safe for concurrent use; all fields are read-only after
// construction.
type Client struct {
	baseURL   *url.URL
	publicKey string
	token     string
	http      *http.Client
	retries   int
	sleep     func(time.Duration)
	logger    *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithRetries sets the total attempt budget per request.
func WithRetries(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.retries = n
		}
	}
}

// WithSleep replaces the delay function used between retry attempts.
// Tests inject a recorder here to verify backoff without elapsed time.
func WithSleep(fn func(time.Duration)) Option {
	return func(c *Client) { c.sleep = fn }
}

// WithLogger sets the structured logger for request/retry logging.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// NewClient creates a Client for the store at baseURL. The base URL is
// normalized to end with a path separator so relative endpoints resolve
// under it rather than replacing its last segment.
func NewClient(baseURL, publicKey, token string, opts ...Option) (*Client, error) {
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("edd: parse base url: %w", err)
	}

	c := &Client{
		baseURL:   u,
		publicKey: publicKey,
		token:     token,
		http:      &http.Client{Timeout: 30 * time.Second},
		retries:   DefaultRetries,
		sleep:     time.Sleep,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// buildURL resolves endpoint against the base URL and encodes the query
// string. Authenticated endpoints carry the key and token as plain query
// parameters; the products endpoint is public and carries neither.
// Parameters with empty values are omitted entirely.
func (c *Client) buildURL(endpoint string, public bool, params url.Values) (string, error) {
	ref, err := url.Parse(endpoint)
	if err != nil {
		return "", fmt.Errorf("edd: parse endpoint %q: %w", endpoint, err)
	}
	u := c.baseURL.ResolveReference(ref)

	q := u.Query()
	if !public {
		q.Set("key", c.publicKey)
		q.Set("token", c.token)
	}
	for key, values := range params {
		for _, v := range values {
			if v == "" {
				continue
			}
			q.Add(key, v)
		}
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// backoff returns the delay before the next attempt: 2^(attempt-1)
// seconds, so a 3-attempt budget waits 1s then 2s. Unjittered.
func backoff(attempt int) time.Duration {
	return time.Duration(1<<(attempt-1)) * time.Second
}

// do performs the GET with the configured retry budget and returns the
// raw response body. Transport failures, non-2xx statuses, and
// application-level errors in a 2xx body are all retried identically;
// the last observed error is returned once the budget is exhausted.
func (c *Client) do(ctx context.Context, rawURL string) ([]byte, error) {
	reqID := uuid.Must(uuid.NewV7()).String()

	var lastErr error
	for attempt := 1; attempt <= c.retries; attempt++ {
		start := time.Now()
		body, err := c.fetch(ctx, rawURL)
		if err == nil {
			c.logger.Debug("request succeeded",
				"request_id", reqID,
				"attempt", attempt,
				"duration_ms", float64(time.Since(start).Microseconds())/1000.0,
			)
			return body, nil
		}

		lastErr = err
		c.logger.Warn("request attempt failed",
			"request_id", reqID,
			"attempt", attempt,
			"retries", c.retries,
			"error", err,
		)
		if attempt < c.retries {
			c.sleep(backoff(attempt))
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("edd: request failed after %d attempts", c.retries)
	}
	return nil, lastErr
}

// fetch performs a single GET attempt and classifies the outcome.
func (c *Client) fetch(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("edd: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("edd: request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("edd: read response body: %w", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, &StatusError{Code: resp.StatusCode, Status: resp.Status}
	}

	// EDD can report failures in a 200 body instead of the status line.
	var probe struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &probe); err == nil && probe.Error != "" {
		return nil, &APIError{Message: probe.Error}
	}

	return body, nil
}

// request performs a GET against endpoint and decodes the body into the
// envelope type T. No schema validation happens at this layer.
func request[T any](ctx context.Context, c *Client, endpoint string, public bool, params url.Values) (T, error) {
	var out T

	rawURL, err := c.buildURL(endpoint, public, params)
	if err != nil {
		return out, err
	}
	body, err := c.do(ctx, rawURL)
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return out, fmt.Errorf("edd: decode %s response: %w", endpoint, err)
	}
	return out, nil
}

// requestRaw is request without the typed decode, for the stats
// endpoints whose shape must be inspected before unwrapping.
func (c *Client) requestRaw(ctx context.Context, endpoint string, params url.Values) ([]byte, error) {
	rawURL, err := c.buildURL(endpoint, false, params)
	if err != nil {
		return nil, err
	}
	return c.do(ctx, rawURL)
}
