package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gitfolio/portfolio-analyzer/internal/monitoring"
)

func TestAllowWithinBurst(t *testing.T) {
	l := New(Config{RequestsPerMinute: 60, Burst: 5})

	for i := 0; i < 5; i++ {
		assert.True(t, l.Allow("10.0.0.1"), "request %d should pass", i)
	}
	assert.False(t, l.Allow("10.0.0.1"), "burst exhausted")
}

func TestAllowIsPerIP(t *testing.T) {
	l := New(Config{RequestsPerMinute: 60, Burst: 1})

	require.True(t, l.Allow("10.0.0.1"))
	require.False(t, l.Allow("10.0.0.1"))

	// a different client has its own bucket
	assert.True(t, l.Allow("10.0.0.2"))
}

func TestStats(t *testing.T) {
	l := New(Config{RequestsPerMinute: 30, Burst: 10})
	l.Allow("10.0.0.1")
	l.Allow("10.0.0.2")

	stats := l.Stats()
	assert.Equal(t, 2, stats["active_visitors"])
	assert.InDelta(t, 30.0, stats["requests_per_minute"].(float64), 0.001)
	assert.Equal(t, 10, stats["burst"])
}

func TestMiddlewareRejectsOverQuota(t *testing.T) {
	gin.SetMode(gin.TestMode)

	l := New(Config{RequestsPerMinute: 60, Burst: 2})
	metrics := monitoring.NewMetrics()

	r := gin.New()
	r.Use(l.Middleware(metrics))
	r.GET("/analyze/:username", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	statuses := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/analyze/alice", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		r.ServeHTTP(w, req)
		statuses = append(statuses, w.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, statuses)
	assert.Equal(t, int64(1), metrics.RateLimitBlocks)
}
