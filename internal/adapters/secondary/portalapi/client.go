// Package portalapi implements the PortalClient and Directory ports against
// the signing portal's HTTP JSON API.
package portalapi

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
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/signbay/provision/internal/core/ports"
)

// Client talks to the signing portal over HTTP. A client authenticates with
// an already-issued session token; login and session refresh are outside
// this adapter.
type Client struct {
	baseURL      *url.URL
	teamID       string
	sessionToken string
	httpClient   *http.Client
	logger       *slog.Logger
	maxRetries   int
	retryNotify  func(attempt int)
}

// New creates a Client from the portal configuration.
func New(config *ports.Configuration, opts ...ClientOption) (*Client, error) {
	if config == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid portal configuration: %w", err)
	}

	base, err := url.Parse(config.Portal.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid portal URL: %w", err)
	}

	c := &Client{
		baseURL:      base,
		teamID:       config.Portal.TeamID,
		sessionToken: config.Portal.SessionToken,
		httpClient:   &http.Client{Timeout: config.Timeout()},
		logger:       slog.Default(),
		maxRetries:   config.Retries(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithLogger sets the client's logger. Pair it with the logging package's
// redactor handler so session material never reaches log output.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

// WithRetryNotify registers a callback invoked with the attempt number each
// time a portal call fails transiently and is about to be retried. Callers
// typically bind it to a metrics reporter.
func WithRetryNotify(notify func(attempt int)) ClientOption {
	return func(c *Client) {
		c.retryNotify = notify
	}
}

// WithRetry implements the port's retry contract: op runs under an
// exponential backoff policy, retrying only transient failures (HTTP 429
// and 5xx, plus transport errors). Anything else is permanent and returns
// immediately, so non-idempotent calls are never replayed on a definitive
// portal answer.
func (c *Client) WithRetry(ctx context.Context, op func(ctx context.Context) error) error {
	policy := backoff.WithContext(backoff.WithMaxRetries(newExponentialBackOff(), uint64(c.maxRetries)), ctx)

	attempt := 0
	err := backoff.RetryNotify(func() error {
		attempt++
		err := op(ctx)
		if err == nil {
			return nil
		}
		if !retryable(err) {
			return backoff.Permanent(err)
		}
		return err
	}, policy, func(err error, next time.Duration) {
		c.logger.Warn("portal call failed, retrying",
			"attempt", attempt,
			"next_retry_in", next.String(),
			"error", err.Error(),
		)
		if c.retryNotify != nil {
			c.retryNotify(attempt)
		}
	})
	if err != nil {
		return fmt.Errorf("portal call failed after %d attempt(s): %w", attempt, err)
	}
	return nil
}

func newExponentialBackOff() *backoff.ExponentialBackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 500 * time.Millisecond
	b.MaxInterval = 15 * time.Second
	b.MaxElapsedTime = 2 * time.Minute
	return b
}

// statusError carries the HTTP status of a failed portal call so the retry
// policy can classify it.
type statusError struct {
	status int
	body   string
}

func (e *statusError) Error() string {
	if e.body != "" {
		return fmt.Sprintf("portal returned status %d: %s", e.status, e.body)
	}
	return fmt.Sprintf("portal returned status %d", e.status)
}

func retryable(err error) bool {
	var se *statusError
	if errors.As(err, &se) {
		return se.status == http.StatusTooManyRequests || se.status >= 500
	}
	// Transport-level failures (connection reset, timeout) are transient.
	return true
}

// do issues a single request and decodes the JSON response into out when
// out is non-nil. Callers own retry via WithRetry.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	endpoint := c.baseURL.JoinPath(path)
	if query == nil {
		query = url.Values{}
	}
	query.Set("teamId", c.teamID)
	endpoint.RawQuery = query.Encode()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint.String(), reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.sessionToken)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &statusError{status: resp.StatusCode, body: string(bytes.TrimSpace(snippet))}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// download issues a single GET and returns the raw response body.
func (c *Client) download(ctx context.Context, path string) ([]byte, error) {
	endpoint := c.baseURL.JoinPath(path)
	query := url.Values{}
	query.Set("teamId", c.teamID)
	endpoint.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.sessionToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &statusError{status: resp.StatusCode, body: string(bytes.TrimSpace(snippet))}
	}

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read payload: %w", err)
	}
	return payload, nil
}
