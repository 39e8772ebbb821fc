package retry

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/googleapi"
)

func fastPolicy(attempts int) Policy {
	return Policy{
		MaxAttempts:    attempts,
		InitialBackoff: time.Millisecond,
		MaxBackoff:     time.Millisecond,
	}
}

func TestDoRetriesTransientErrors(t *testing.T) {
	attempts := 0
	err := Do(context.Background(), fastPolicy(4), func() error {
		attempts++
		if attempts < 3 {
			return Transient(errors.New("flaky"))
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
}

func TestDoFailsFastOnPermanentErrors(t *testing.T) {
	sentinel := errors.New("bad request")
	attempts := 0
	err := Do(context.Background(), fastPolicy(4), func() error {
		attempts++
		return fmt.Errorf("call failed: %w", sentinel)
	})

	assert.ErrorIs(t, err, sentinel)
	assert.Equal(t, 1, attempts)
}

func TestDoExhaustsAttempts(t *testing.T) {
	attempts := 0
	err := Do(context.Background(), fastPolicy(3), func() error {
		attempts++
		return Transient(errors.New("still down"))
	})

	require.Error(t, err)
	assert.Equal(t, 3, attempts)
}

func TestDoZeroAttemptsRunsOnce(t *testing.T) {
	attempts := 0
	err := Do(context.Background(), Policy{}, func() error {
		attempts++
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 1, attempts)
}

func TestIsTransient(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "plain error", err: errors.New("nope"), want: false},
		{name: "marked transient", err: Transient(errors.New("flaky")), want: true},
		{name: "wrapped transient", err: fmt.Errorf("outer: %w", Transient(errors.New("flaky"))), want: true},
		{name: "context canceled", err: context.Canceled, want: false},
		{name: "deadline exceeded", err: context.DeadlineExceeded, want: false},
		{name: "dns error", err: &net.DNSError{Err: "no such host", Name: "example.com"}, want: true},
		{name: "op error", err: &net.OpError{Op: "dial", Err: syscall.ECONNREFUSED}, want: true},
		{
			name: "url error wrapping op error",
			err:  &url.Error{Op: "Get", URL: "https://example.com", Err: &net.OpError{Op: "dial", Err: syscall.ECONNRESET}},
			want: true,
		},
		{name: "wrapped econnrefused", err: fmt.Errorf("dial: %w", syscall.ECONNREFUSED), want: true},
		{name: "googleapi 503", err: &googleapi.Error{Code: 503}, want: true},
		{name: "googleapi 429", err: &googleapi.Error{Code: 429}, want: true},
		{name: "googleapi 403", err: &googleapi.Error{Code: 403}, want: false},
		{name: "googleapi 404", err: &googleapi.Error{Code: 404}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsTransient(tt.err))
		})
	}
}
