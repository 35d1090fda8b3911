package monitoring

import (
	"log/slog"
	"os"
	"time"
)

// Logger wraps slog with helpers for the request and analysis paths.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a JSON logger writing to stdout.
func NewLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				return slog.Attr{
					Key:   "timestamp",
					Value: slog.StringValue(a.Value.Time().Format(time.RFC3339)),
				}
			}
			return a
		},
	})
	return &Logger{Logger: slog.New(handler)}
}

// RequestLogger logs a completed HTTP request.
func (l *Logger) RequestLogger(method, path, ip, requestID string, statusCode int, duration time.Duration) {
	l.Info("http request",
		"method", method,
		"path", path,
		"ip", ip,
		"request_id", requestID,
		"status_code", statusCode,
		"duration_ms", duration.Milliseconds(),
	)
}

// AnalysisLogger logs a completed portfolio analysis.
func (l *Logger) AnalysisLogger(username string, score int, tier string, duration time.Duration) {
	l.Info("analysis completed",
		"username", username,
		"overall_score", score,
		"tier", tier,
		"duration_ms", duration.Milliseconds(),
	)
}

// FetchLogger logs an upstream fetch round trip.
func (l *Logger) FetchLogger(username string, repos, events int, duration time.Duration) {
	l.Info("github data fetched",
		"username", username,
		"repo_count", repos,
		"event_count", events,
		"duration_ms", duration.Milliseconds(),
	)
}

// APIErrorLogger logs a request that ended in an error.
func (l *Logger) APIErrorLogger(err error, method, path, ip string, statusCode int) {
	l.Error("api error",
		"error", err.Error(),
		"method", method,
		"path", path,
		"ip", ip,
		"status_code", statusCode,
	)
}
