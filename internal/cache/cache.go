package cache

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gitfolio/portfolio-analyzer/internal/monitoring"
)

// entry is a cached response body with its expiry.
type entry struct {
	data      []byte
	expiresAt time.Time
}

func (e *entry) expired() bool {
	return time.Now().After(e.expiresAt)
}

// Cache is a thread-safe in-memory response cache with TTL expiry.
// Analysis results are pure functions of upstream data, so a short TTL
// only delays how fast score changes show up.
type Cache struct {
	mu    sync.RWMutex
	items map[string]*entry
	ttl   time.Duration
}

// New creates a cache whose entries live for ttl. A background janitor
// sweeps expired entries every five minutes.
func New(ttl time.Duration) *Cache {
	c := &Cache{
		items: make(map[string]*entry),
		ttl:   ttl,
	}
	go c.janitor()
	return c
}

func (c *Cache) janitor() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		c.mu.Lock()
		for key, e := range c.items {
			if e.expired() {
				delete(c.items, key)
			}
		}
		c.mu.Unlock()
	}
}

// Get returns the cached data for key, if present and fresh.
func (c *Cache) Get(key string) ([]byte, bool) {
	c.mu.RLock()
	e, ok := c.items[key]
	c.mu.RUnlock()

	if !ok {
		return nil, false
	}
	if e.expired() {
		c.mu.Lock()
		delete(c.items, key)
		c.mu.Unlock()
		return nil, false
	}
	return e.data, true
}

// Set stores data under key for the cache's TTL.
func (c *Cache) Set(key string, data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = &entry{
		data:      data,
		expiresAt: time.Now().Add(c.ttl),
	}
}

// Delete removes key from the cache.
func (c *Cache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
}

// Clear removes every entry.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[string]*entry)
}

// Size returns the number of stored entries, fresh or not.
func (c *Cache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Stats reports cache contents for the monitoring endpoints.
func (c *Cache) Stats() map[string]interface{} {
	c.mu.RLock()
	defer c.mu.RUnlock()

	expired := 0
	for _, e := range c.items {
		if e.expired() {
			expired++
		}
	}

	return map[string]interface{}{
		"total_items":   len(c.items),
		"expired_items": expired,
		"active_items":  len(c.items) - expired,
		"ttl_seconds":   c.ttl.Seconds(),
	}
}

// cacheable routes, by gin route pattern.
var cachedRoutes = map[string]bool{
	"/analyze":           true,
	"/analyze/:username": true,
}

// key hashes the request identity. The body participates so distinct
// analyze payloads never collide.
func key(method, path string, body []byte) string {
	h := sha256.New()
	h.Write([]byte(method))
	h.Write([]byte{':'})
	h.Write([]byte(path))
	h.Write([]byte{':'})
	h.Write(body)
	return hex.EncodeToString(h.Sum(nil))
}

// Middleware serves analyze responses from cache and captures misses.
// Only successful responses are stored, so transient upstream failures
// never get pinned for a whole TTL.
func (c *Cache) Middleware(metrics *monitoring.Metrics) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if !cachedRoutes[ctx.FullPath()] {
			ctx.Next()
			return
		}

		var body []byte
		if ctx.Request.Body != nil {
			var err error
			body, err = io.ReadAll(ctx.Request.Body)
			if err != nil {
				ctx.Next()
				return
			}
			ctx.Request.Body = io.NopCloser(bytes.NewBuffer(body))
		}

		cacheKey := key(ctx.Request.Method, ctx.Request.URL.Path, body)

		if data, found := c.Get(cacheKey); found {
			slog.Debug("cache hit", "key", cacheKey[:8])
			metrics.IncrementCacheHit()
			ctx.Data(http.StatusOK, "application/json", data)
			ctx.Abort()
			return
		}

		slog.Debug("cache miss", "key", cacheKey[:8])
		metrics.IncrementCacheMiss()

		wrapper := &captureWriter{ResponseWriter: ctx.Writer, body: &bytes.Buffer{}}
		ctx.Writer = wrapper
		ctx.Next()

		if ctx.Writer.Status() == http.StatusOK {
			c.Set(cacheKey, wrapper.body.Bytes())
		}
	}
}

// captureWriter tees the response body so it can be cached.
type captureWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w *captureWriter) Write(data []byte) (int, error) {
	w.body.Write(data)
	return w.ResponseWriter.Write(data)
}

func (w *captureWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}
