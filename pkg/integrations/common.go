package integrations

import (
	"errors"
	"fmt"
	"time"
)

// DefaultTimeout bounds a single registry request.
const DefaultTimeout = 30 * time.Second

var (
	// ErrNotFound is returned when a package or resource doesn't exist in the registry.
	ErrNotFound = errors.New("resource not found")

	// ErrNetwork is returned for HTTP failures (timeouts, connection errors, non-200 responses).
	ErrNetwork = errors.New("network error")
)

// StatusError carries the HTTP status of a failed request.
type StatusError struct {
	URL    string
	Status int
	Err    error
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%v: GET %s: status %d", e.Err, e.URL, e.Status)
}

func (e *StatusError) Unwrap() error { return e.Err }
