package httputil

import (
	"context"
	"errors"
)

// DefaultRetries is how often a transient registry failure is retried
// before it is surfaced. A request runs at most DefaultRetries+1 times.
const DefaultRetries = 3

// RetryableError wraps an error to indicate it should trigger a retry.
// Wrap transient failures (network errors, 5xx and 429 responses) with this
// type so that [Retry] knows to attempt the operation again.
type RetryableError struct{ Err error }

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// Retry executes fn up to attempts times, immediately one after another.
// It only retries errors wrapped with [RetryableError]; other errors are
// returned immediately. Returns the last error if all attempts fail, or
// ctx.Err() if the context is cancelled between attempts.
func Retry(ctx context.Context, attempts int, fn func() error) error {
	attempts = max(attempts, 1)
	var lastErr error

	for range attempts {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := fn(); err == nil {
			return nil
		} else if lastErr = err; !IsRetryable(err) {
			return err
		}
	}
	return lastErr
}

// IsRetryable reports whether err is marked as transient.
func IsRetryable(err error) bool {
	return errors.As(err, new(*RetryableError))
}
