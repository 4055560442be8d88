package http

import (
	"context"
	"net/http"
	"testing"
	"time"

	"Saber/backend/go/internal/config"
	"Saber/backend/go/pkg/circuitbreaker"
	"Saber/backend/go/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewServer_WithAddress(t *testing.T) {
	srv := NewServer(http.NotFoundHandler(), logger.Discard(), WithAddress(":9999"))
	assert.Equal(t, ":9999", srv.Addr())

	srv = NewServer(http.NotFoundHandler(), logger.Discard())
	assert.Equal(t, ":8080", srv.Addr())
}

func TestRunStopsOnCancel(t *testing.T) {
	srv := NewServer(http.NotFoundHandler(), logger.Discard(),
		WithAddress("127.0.0.1:0"), WithShutdownTimeout(time.Second))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestRunReportsListenError(t *testing.T) {
	srv := NewServer(http.NotFoundHandler(), logger.Discard(), WithAddress("bad-address"))
	err := srv.Run(context.Background())
	assert.Error(t, err)
}

func TestNewRateLimiter(t *testing.T) {
	assert.Nil(t, NewRateLimiter(config.RateLimiterConfig{Enabled: false}))

	l := NewRateLimiter(config.RateLimiterConfig{Enabled: true, Rate: 0, Capacity: 1})
	require.NotNil(t, l)
	assert.True(t, l.AllowKey("a"))
	assert.False(t, l.AllowKey("a"))
}

func TestNewCircuitBreaker(t *testing.T) {
	cb, err := NewCircuitBreaker(config.CircuitBreakerConfig{Enabled: false}, logger.Discard())
	require.NoError(t, err)
	assert.Nil(t, cb)

	_, err = NewCircuitBreaker(config.CircuitBreakerConfig{Enabled: true, Timeout: "nope"}, logger.Discard())
	assert.Error(t, err)

	cb, err = NewCircuitBreaker(config.CircuitBreakerConfig{
		Enabled: true, FailureThreshold: 1, SuccessThreshold: 1, Timeout: "1m",
	}, logger.Discard())
	require.NoError(t, err)
	assert.Equal(t, circuitbreaker.Closed, cb.State())
}
