package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"Saber/backend/go/internal/config"
	"Saber/backend/go/pkg/circuitbreaker"
	"Saber/backend/go/pkg/logger"
	"Saber/backend/go/pkg/ratelimiter"
)

const defaultShutdownTimeout = 10 * time.Second

// Server wraps http.Server with a context-driven lifecycle.
type Server struct {
	httpServer      *http.Server
	shutdownTimeout time.Duration
	log             *logger.Logger
}

// ServerOption defines a function for configuring a Server.
type ServerOption func(*Server)

// WithAddress sets the address for the server to listen on.
func WithAddress(addr string) ServerOption {
	return func(s *Server) {
		s.httpServer.Addr = addr
	}
}

// WithShutdownTimeout bounds how long Run waits for in-flight requests.
func WithShutdownTimeout(d time.Duration) ServerOption {
	return func(s *Server) {
		s.shutdownTimeout = d
	}
}

// NewServer creates a server for handler, normally a gin engine.
func NewServer(handler http.Handler, log *logger.Logger, opts ...ServerOption) *Server {
	srv := &Server{
		httpServer:      &http.Server{Handler: handler, ReadHeaderTimeout: 10 * time.Second},
		shutdownTimeout: defaultShutdownTimeout,
		log:             log,
	}
	for _, opt := range opts {
		opt(srv)
	}
	if srv.httpServer.Addr == "" {
		srv.httpServer.Addr = ":8080"
	}
	return srv
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Info(fmt.Sprintf("HTTP 服务启动于 %s", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}
	s.log.Info("HTTP 服务已关闭")
	return nil
}

// NewRateLimiter builds the per-key limiter for the API, nil when disabled.
func NewRateLimiter(cfg config.RateLimiterConfig) ratelimiter.KeyedLimiter {
	if !cfg.Enabled {
		return nil
	}
	return ratelimiter.NewKeyedTokenBucket(cfg.Rate, cfg.Capacity)
}

// NewCircuitBreaker builds the breaker guarding the language model, nil when disabled.
// State transitions are logged at Warn.
func NewCircuitBreaker(cfg config.CircuitBreakerConfig, log *logger.Logger) (circuitbreaker.CircuitBreaker, error) {
	if !cfg.Enabled {
		return nil, nil
	}
	timeout, err := time.ParseDuration(cfg.Timeout)
	if err != nil {
		return nil, fmt.Errorf("invalid circuit breaker timeout duration: %w", err)
	}
	return circuitbreaker.New(cfg.FailureThreshold, cfg.SuccessThreshold, timeout,
		circuitbreaker.WithStateChange(func(from, to circuitbreaker.State) {
			log.WithPayload(map[string]interface{}{"from": from.String(), "to": to.String()}).Warn("熔断器状态变化")
		})), nil
}
