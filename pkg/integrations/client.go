package integrations

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/matzehuels/deplint/pkg/httputil"
)

// Client provides shared HTTP functionality for registry API clients.
// It handles retries and common request headers.
type Client struct {
	transport httputil.Transport
	headers   map[string]string
	attempts  int
}

// NewClient creates a Client that sends requests through t. Headers are
// applied to all requests; attempts bounds tries per request (minimum 1).
func NewClient(t httputil.Transport, headers map[string]string, attempts int) *Client {
	return &Client{transport: t, headers: headers, attempts: max(attempts, 1)}
}

// Get performs a GET request and JSON-decodes a 200 response into v.
// Transient failures are retried immediately up to the client's attempt
// count; the error of the final attempt is returned.
func (c *Client) Get(ctx context.Context, url string, v any) error {
	return httputil.Retry(ctx, c.attempts, func() error {
		return c.get(ctx, url, v)
	})
}

func (c *Client) get(ctx context.Context, url string, v any) error {
	resp, err := c.transport.Do(ctx, httputil.Request{URL: url, Method: http.MethodGet, Headers: c.headers})
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			if ctx.Err() != nil {
				return ctx.Err()
			}
		}
		return &httputil.RetryableError{Err: fmt.Errorf("%w: GET %s: %v", ErrNetwork, url, err)}
	}
	if err := checkStatus(url, resp.Status); err != nil {
		return err
	}
	if err := json.Unmarshal(resp.Body, v); err != nil {
		return fmt.Errorf("decode %s: %w", url, err)
	}
	return nil
}

func checkStatus(url string, code int) error {
	switch {
	case code == http.StatusOK:
		return nil
	case code == http.StatusNotFound:
		return &StatusError{URL: url, Status: code, Err: ErrNotFound}
	case code == http.StatusTooManyRequests || code >= 500:
		return &httputil.RetryableError{Err: &StatusError{URL: url, Status: code, Err: ErrNetwork}}
	default:
		return &StatusError{URL: url, Status: code, Err: ErrNetwork}
	}
}
