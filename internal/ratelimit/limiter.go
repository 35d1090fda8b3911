package ratelimit

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/gitfolio/portfolio-analyzer/internal/monitoring"
)

// Config tunes the per-client limiter.
type Config struct {
	RequestsPerMinute int
	Burst             int
}

// DefaultConfig allows 30 requests per minute with a burst of 10,
// enough for interactive use without letting one client drain the
// GitHub quota.
func DefaultConfig() Config {
	return Config{
		RequestsPerMinute: 30,
		Burst:             10,
	}
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Limiter applies a token bucket per client IP. State is in-process;
// each instance enforces its own quota.
type Limiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	limit    rate.Limit
	burst    int
}

// New creates a limiter and starts a goroutine that evicts idle
// visitors.
func New(config Config) *Limiter {
	l := &Limiter{
		visitors: make(map[string]*visitor),
		limit:    rate.Limit(float64(config.RequestsPerMinute) / 60.0),
		burst:    config.Burst,
	}
	go l.evictIdle()
	return l
}

func (l *Limiter) evictIdle() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		l.mu.Lock()
		for ip, v := range l.visitors {
			if time.Since(v.lastSeen) > 3*time.Minute {
				delete(l.visitors, ip)
			}
		}
		l.mu.Unlock()
	}
}

// Allow reports whether a request from ip may proceed.
func (l *Limiter) Allow(ip string) bool {
	l.mu.Lock()
	v, ok := l.visitors[ip]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.visitors[ip] = v
	}
	v.lastSeen = time.Now()
	l.mu.Unlock()

	return v.limiter.Allow()
}

// Stats reports limiter state for the monitoring endpoints.
func (l *Limiter) Stats() map[string]interface{} {
	l.mu.Lock()
	defer l.mu.Unlock()

	return map[string]interface{}{
		"active_visitors":     len(l.visitors),
		"requests_per_minute": float64(l.limit) * 60.0,
		"burst":               l.burst,
	}
}

// Middleware rejects over-quota clients with 429.
func (l *Limiter) Middleware(metrics *monitoring.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !l.Allow(c.ClientIP()) {
			metrics.IncrementRateLimitBlock()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":    "rate limit exceeded, try again later",
				"category": "rate_limit",
			})
			return
		}
		c.Next()
	}
}
