package monitoring

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// Metrics holds application counters. Counter fields are updated
// atomically; the sampled and keyed fields take their own locks.
type Metrics struct {
	RequestCount        int64
	ErrorCount          int64
	CacheHits           int64
	CacheMisses         int64
	GitHubAPICalls      int64
	AnalysesCompleted   int64
	RateLimitBlocks     int64
	AverageResponseTime int64 // nanoseconds
	StartTime           time.Time

	// Last 1000 response times, for percentiles.
	responseTimes   []time.Duration
	responseTimesMu sync.RWMutex

	statusCounts map[int]int64
	statusMu     sync.RWMutex
}

// NewMetrics creates a metrics instance with the clock started.
func NewMetrics() *Metrics {
	return &Metrics{
		StartTime:     time.Now(),
		responseTimes: make([]time.Duration, 0, 1000),
		statusCounts:  make(map[int]int64),
	}
}

// IncrementRequest counts an incoming request.
func (m *Metrics) IncrementRequest() {
	atomic.AddInt64(&m.RequestCount, 1)
}

// IncrementError counts a request that ended in an error status.
func (m *Metrics) IncrementError() {
	atomic.AddInt64(&m.ErrorCount, 1)
}

// IncrementCacheHit counts a response served from cache.
func (m *Metrics) IncrementCacheHit() {
	atomic.AddInt64(&m.CacheHits, 1)
}

// IncrementCacheMiss counts a cacheable request that missed.
func (m *Metrics) IncrementCacheMiss() {
	atomic.AddInt64(&m.CacheMisses, 1)
}

// IncrementGitHubCalls counts an upstream API call.
func (m *Metrics) IncrementGitHubCalls() {
	atomic.AddInt64(&m.GitHubAPICalls, 1)
}

// IncrementAnalyses counts a completed analysis.
func (m *Metrics) IncrementAnalyses() {
	atomic.AddInt64(&m.AnalysesCompleted, 1)
}

// IncrementRateLimitBlock counts a request rejected by the limiter.
func (m *Metrics) IncrementRateLimitBlock() {
	atomic.AddInt64(&m.RateLimitBlocks, 1)
}

// RecordResponseTime folds a request duration into the running average
// and the percentile window.
func (m *Metrics) RecordResponseTime(duration time.Duration) {
	current := atomic.LoadInt64(&m.AverageResponseTime)
	atomic.StoreInt64(&m.AverageResponseTime, (current+duration.Nanoseconds())/2)

	m.responseTimesMu.Lock()
	m.responseTimes = append(m.responseTimes, duration)
	if len(m.responseTimes) > 1000 {
		m.responseTimes = m.responseTimes[1:]
	}
	m.responseTimesMu.Unlock()
}

// RecordRequestByStatus tallies a response status code.
func (m *Metrics) RecordRequestByStatus(statusCode int) {
	m.statusMu.Lock()
	defer m.statusMu.Unlock()
	m.statusCounts[statusCode]++
}

// PercentileResponseTime returns the given percentile over the sample
// window.
func (m *Metrics) PercentileResponseTime(percentile float64) time.Duration {
	m.responseTimesMu.RLock()
	defer m.responseTimesMu.RUnlock()

	if len(m.responseTimes) == 0 {
		return 0
	}

	times := make([]time.Duration, len(m.responseTimes))
	copy(times, m.responseTimes)
	sort.Slice(times, func(i, j int) bool { return times[i] < times[j] })

	index := int(float64(len(times)-1) * percentile / 100.0)
	if index >= len(times) {
		index = len(times) - 1
	}
	return times[index]
}

// StatusCodeDistribution returns a copy of the per-status counts.
func (m *Metrics) StatusCodeDistribution() map[int]int64 {
	m.statusMu.RLock()
	defer m.statusMu.RUnlock()

	distribution := make(map[int]int64, len(m.statusCounts))
	for code, count := range m.statusCounts {
		distribution[code] = count
	}
	return distribution
}

// GetStats returns a snapshot of every counter for the /metrics
// endpoint.
func (m *Metrics) GetStats() map[string]interface{} {
	requests := atomic.LoadInt64(&m.RequestCount)
	errors := atomic.LoadInt64(&m.ErrorCount)
	cacheHits := atomic.LoadInt64(&m.CacheHits)
	cacheMisses := atomic.LoadInt64(&m.CacheMisses)

	errorRate := float64(0)
	if requests > 0 {
		errorRate = float64(errors) / float64(requests) * 100
	}

	cacheHitRate := float64(0)
	if total := cacheHits + cacheMisses; total > 0 {
		cacheHitRate = float64(cacheHits) / float64(total) * 100
	}

	return map[string]interface{}{
		"uptime_seconds":         time.Since(m.StartTime).Seconds(),
		"total_requests":         requests,
		"error_count":            errors,
		"error_rate_percent":     errorRate,
		"cache_hits":             cacheHits,
		"cache_misses":           cacheMisses,
		"cache_hit_rate_percent": cacheHitRate,
		"github_api_calls":       atomic.LoadInt64(&m.GitHubAPICalls),
		"analyses_completed":     atomic.LoadInt64(&m.AnalysesCompleted),
		"rate_limit_blocks":      atomic.LoadInt64(&m.RateLimitBlocks),
		"avg_response_time_ms":   float64(atomic.LoadInt64(&m.AverageResponseTime)) / 1e6,
		"p50_response_time_ms":   float64(m.PercentileResponseTime(50)) / 1e6,
		"p95_response_time_ms":   float64(m.PercentileResponseTime(95)) / 1e6,
		"p99_response_time_ms":   float64(m.PercentileResponseTime(99)) / 1e6,
		"status_distribution":    m.StatusCodeDistribution(),
		"start_time":             m.StartTime.Format(time.RFC3339),
	}
}

// Reset clears all counters. Used by tests.
func (m *Metrics) Reset() {
	atomic.StoreInt64(&m.RequestCount, 0)
	atomic.StoreInt64(&m.ErrorCount, 0)
	atomic.StoreInt64(&m.CacheHits, 0)
	atomic.StoreInt64(&m.CacheMisses, 0)
	atomic.StoreInt64(&m.GitHubAPICalls, 0)
	atomic.StoreInt64(&m.AnalysesCompleted, 0)
	atomic.StoreInt64(&m.RateLimitBlocks, 0)
	atomic.StoreInt64(&m.AverageResponseTime, 0)

	m.responseTimesMu.Lock()
	m.responseTimes = m.responseTimes[:0]
	m.responseTimesMu.Unlock()

	m.statusMu.Lock()
	m.statusCounts = make(map[int]int64)
	m.statusMu.Unlock()

	m.StartTime = time.Now()
}
