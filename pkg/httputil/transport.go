package httputil

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/matzehuels/deplint/pkg/buildinfo"
	"github.com/matzehuels/deplint/pkg/observability"
)

// maxBodySize caps registry responses. Packuments of very popular packages
// run to tens of megabytes.
const maxBodySize = 256 << 20

// Request describes one outgoing request.
type Request struct {
	URL     string
	Method  string
	Headers map[string]string
}

// Response is the status and fully read body of a completed request.
type Response struct {
	Status int
	Body   []byte
}

// Transport performs a single request. Implementations return an error only
// when no response was received; non-2xx statuses are reported in Response.
type Transport interface {
	Do(ctx context.Context, req Request) (*Response, error)
}

// TransportFunc adapts a function to [Transport].
type TransportFunc func(ctx context.Context, req Request) (*Response, error)

// Do calls f(ctx, req).
func (f TransportFunc) Do(ctx context.Context, req Request) (*Response, error) {
	return f(ctx, req)
}

// HTTPTransport is a [Transport] backed by net/http.
type HTTPTransport struct {
	client  *http.Client
	headers map[string]string
}

// NewHTTPTransport creates a transport with the given request timeout and
// default headers. Request headers override defaults for the same key.
func NewHTTPTransport(timeout time.Duration, headers map[string]string) *HTTPTransport {
	return &HTTPTransport{
		client:  &http.Client{Timeout: timeout},
		headers: headers,
	}
}

// Do implements [Transport].
func (t *HTTPTransport) Do(ctx context.Context, r Request) (*Response, error) {
	method := r.Method
	if method == "" {
		method = http.MethodGet
	}
	req, err := http.NewRequestWithContext(ctx, method, r.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", "deplint/"+buildinfo.Version)
	for k, v := range t.headers {
		req.Header.Set(k, v)
	}
	for k, v := range r.Headers {
		req.Header.Set(k, v)
	}

	host, path := splitURL(r.URL)
	hooks := observability.HTTP()
	hooks.OnRequest(ctx, method, host, path)
	start := time.Now()

	resp, err := t.client.Do(req)
	if err != nil {
		hooks.OnError(ctx, method, host, path, err)
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		hooks.OnError(ctx, method, host, path, err)
		return nil, fmt.Errorf("read body: %w", err)
	}
	hooks.OnResponse(ctx, method, host, path, resp.StatusCode, time.Since(start))
	return &Response{Status: resp.StatusCode, Body: body}, nil
}

func splitURL(raw string) (host, path string) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", raw
	}
	return u.Host, u.EscapedPath()
}
