// Package integrations holds registry API clients.
//
// [Client] is the shared layer: it sends requests through an
// [httputil.Transport], retries transient failures and decodes JSON. The
// [npm] subpackage implements the npm registry wire contract on top of it.
//
// Status handling is uniform:
//
//   - 200: success, the body is decoded
//   - 404: [ErrNotFound], not retried
//   - 429 and 5xx: [ErrNetwork] wrapped in [httputil.RetryableError]
//   - anything else: [ErrNetwork], not retried
//
// Transport failures (no response at all) are retried as well.
package integrations
