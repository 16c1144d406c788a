package httputil

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRetry(t *testing.T) {
	transient := &RetryableError{Err: errors.New("503")}
	permanent := errors.New("404")

	tests := []struct {
		name      string
		attempts  int
		failures  []error
		wantCalls int
		wantErr   error
	}{
		{"first try", 3, nil, 1, nil},
		{"recovers", 3, []error{transient, transient}, 3, nil},
		{"exhausted", 3, []error{transient, transient, transient}, 3, transient},
		{"permanent stops", 3, []error{permanent}, 1, permanent},
		{"zero attempts runs once", 0, []error{transient}, 1, transient},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := Retry(context.Background(), tt.attempts, func() error {
				defer func() { calls++ }()
				if calls < len(tt.failures) {
					return tt.failures[calls]
				}
				return nil
			})
			assert.Equal(t, tt.wantCalls, calls)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestRetryCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	err := Retry(ctx, 5, func() error {
		calls++
		cancel()
		return &RetryableError{Err: errors.New("timeout")}
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(&RetryableError{Err: errors.New("x")}))
	assert.True(t, IsRetryable(errors.Join(errors.New("ctx"), &RetryableError{Err: errors.New("x")})))
	assert.False(t, IsRetryable(errors.New("x")))
}
