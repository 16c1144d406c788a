// Package httputil provides the HTTP plumbing used by registry clients.
//
// # Overview
//
//   - [Transport]: the request/response contract registry clients consume
//   - [HTTPTransport]: the net/http implementation of [Transport]
//   - [Retry]: bounded retry of transient failures
//
// # Transport
//
// A [Transport] performs one request and returns the status and body. It
// does not interpret the status: a 404 is a successful round trip. Tests
// substitute an in-memory [Transport] to serve canned registry documents.
//
//	t := httputil.NewHTTPTransport(30*time.Second, nil)
//	resp, err := t.Do(ctx, httputil.Request{URL: u, Method: http.MethodGet})
//
// # Retry
//
// [Retry] calls fn a fixed number of times and stops at the first success or
// at the first error not wrapped in [RetryableError]. There is no delay
// between attempts:
//
//	err := httputil.Retry(ctx, 3, func() error {
//	    resp, err := t.Do(ctx, req)
//	    ...
//	})
package httputil
