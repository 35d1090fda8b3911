package resilience

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errUpstream = errors.New("upstream failed")

func failingCall() error { return errUpstream }
func okCall() error      { return nil }

func TestBreakerStaysClosedOnSuccess(t *testing.T) {
	cb := NewCircuitBreaker(BreakerConfig{FailureThreshold: 3})

	for i := 0; i < 10; i++ {
		require.NoError(t, cb.Call(okCall))
	}
	assert.Equal(t, StateClosed, cb.State())
}

func TestBreakerOpensAfterThreshold(t *testing.T) {
	cb := NewCircuitBreaker(BreakerConfig{FailureThreshold: 3, RecoveryTimeout: time.Minute})

	for i := 0; i < 3; i++ {
		assert.ErrorIs(t, cb.Call(failingCall), errUpstream)
	}
	require.Equal(t, StateOpen, cb.State())

	// further calls are rejected without invoking the function
	called := false
	err := cb.Call(func() error { called = true; return nil })
	var open *ErrCircuitOpen
	require.ErrorAs(t, err, &open)
	assert.False(t, called)
	assert.False(t, open.RetryAt.IsZero())
}

func TestBreakerSuccessResetsFailureCount(t *testing.T) {
	cb := NewCircuitBreaker(BreakerConfig{FailureThreshold: 3})

	require.Error(t, cb.Call(failingCall))
	require.Error(t, cb.Call(failingCall))
	require.NoError(t, cb.Call(okCall))
	require.Error(t, cb.Call(failingCall))
	require.Error(t, cb.Call(failingCall))

	assert.Equal(t, StateClosed, cb.State())
}

func TestBreakerRecoversThroughHalfOpen(t *testing.T) {
	cb := NewCircuitBreaker(BreakerConfig{
		FailureThreshold: 2,
		RecoveryTimeout:  20 * time.Millisecond,
		SuccessThreshold: 2,
	})

	require.Error(t, cb.Call(failingCall))
	require.Error(t, cb.Call(failingCall))
	require.Equal(t, StateOpen, cb.State())

	time.Sleep(30 * time.Millisecond)

	// first probe moves the breaker to half-open
	require.NoError(t, cb.Call(okCall))
	assert.Equal(t, StateHalfOpen, cb.State())

	require.NoError(t, cb.Call(okCall))
	assert.Equal(t, StateClosed, cb.State())
}

func TestBreakerReopensOnProbeFailure(t *testing.T) {
	cb := NewCircuitBreaker(BreakerConfig{
		FailureThreshold: 2,
		RecoveryTimeout:  20 * time.Millisecond,
		SuccessThreshold: 3,
	})

	require.Error(t, cb.Call(failingCall))
	require.Error(t, cb.Call(failingCall))
	time.Sleep(30 * time.Millisecond)

	require.Error(t, cb.Call(failingCall))
	assert.Equal(t, StateOpen, cb.State())
}

func TestBreakerReset(t *testing.T) {
	cb := NewCircuitBreaker(BreakerConfig{FailureThreshold: 1, RecoveryTimeout: time.Minute})

	require.Error(t, cb.Call(failingCall))
	require.Equal(t, StateOpen, cb.State())

	cb.Reset()
	assert.Equal(t, StateClosed, cb.State())
	assert.NoError(t, cb.Call(okCall))
}

func TestBreakerStats(t *testing.T) {
	cb := NewCircuitBreaker(BreakerConfig{FailureThreshold: 5})
	require.Error(t, cb.Call(failingCall))

	stats := cb.Stats()
	assert.Equal(t, "closed", stats["state"])
	assert.Equal(t, 1, stats["failures"])
}
