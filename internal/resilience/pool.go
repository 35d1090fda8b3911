package resilience

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

// ClientPool is a shared HTTP client with a tuned transport and a
// circuit breaker in front of it. Connection reuse is delegated to
// net/http's own pooling; the breaker keeps a misbehaving upstream
// from eating the request budget.
type ClientPool struct {
	client  *http.Client
	breaker *CircuitBreaker
}

// PoolConfig tunes the transport behind a ClientPool.
type PoolConfig struct {
	MaxIdleConns    int
	MaxConnsPerHost int
	IdleTimeout     time.Duration
	RequestTimeout  time.Duration
}

// DefaultPoolConfig returns transport settings suitable for a single
// external API.
func DefaultPoolConfig() PoolConfig {
	return PoolConfig{
		MaxIdleConns:    10,
		MaxConnsPerHost: 20,
		IdleTimeout:     30 * time.Second,
		RequestTimeout:  30 * time.Second,
	}
}

// NewClientPool creates a pooled client guarded by the given breaker.
func NewClientPool(config PoolConfig, breaker *CircuitBreaker) *ClientPool {
	transport := &http.Transport{
		MaxIdleConns:          config.MaxIdleConns,
		MaxConnsPerHost:       config.MaxConnsPerHost,
		MaxIdleConnsPerHost:   config.MaxIdleConns,
		IdleConnTimeout:       config.IdleTimeout,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: config.RequestTimeout,
		ExpectContinueTimeout: 1 * time.Second,
	}

	return &ClientPool{
		client: &http.Client{
			Transport: transport,
			Timeout:   config.RequestTimeout,
		},
		breaker: breaker,
	}
}

// Do executes a request through the breaker and shared client.
func (p *ClientPool) Do(ctx context.Context, method, url string, header http.Header) (*http.Response, error) {
	var resp *http.Response

	err := p.breaker.Call(func() error {
		req, err := http.NewRequestWithContext(ctx, method, url, nil)
		if err != nil {
			return err
		}
		for key, values := range header {
			for _, v := range values {
				req.Header.Add(key, v)
			}
		}

		start := time.Now()
		resp, err = p.client.Do(req)
		if err != nil {
			slog.Warn("upstream request failed", "url", url, "error", err,
				"duration_ms", time.Since(start).Milliseconds())
			return err
		}

		slog.Debug("upstream request completed", "url", url,
			"status", resp.StatusCode, "duration_ms", time.Since(start).Milliseconds())
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// Stats reports pool and breaker state for the monitoring endpoints.
func (p *ClientPool) Stats() map[string]interface{} {
	return map[string]interface{}{
		"circuit_breaker": p.breaker.Stats(),
	}
}

// Close releases idle connections.
func (p *ClientPool) Close() {
	if transport, ok := p.client.Transport.(*http.Transport); ok {
		transport.CloseIdleConnections()
	}
}
