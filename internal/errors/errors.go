package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	errbuilder "github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/gin-gonic/gin"
)

// Category classifies an error for handling and logging.
type Category string

const (
	CategoryValidation Category = "validation"
	CategoryNotFound   Category = "not_found"
	CategoryRateLimit  Category = "rate_limit"
	CategoryNetwork    Category = "network"
	CategoryTimeout    Category = "timeout"
	CategoryInternal   Category = "internal"
)

// AppError wraps an errbuilder error with the category and HTTP status
// the handlers need.
type AppError struct {
	*errbuilder.ErrBuilder
	Category   Category  `json:"category"`
	HTTPStatus int       `json:"http_status"`
	Timestamp  time.Time `json:"timestamp"`
}

// Error implements the error interface.
func (e *AppError) Error() string {
	code := "UNKNOWN_ERROR"
	switch e.ErrBuilder.ErrCode() {
	case errbuilder.CodeInvalidArgument:
		code = "VALIDATION_ERROR"
	case errbuilder.CodeNotFound:
		code = "NOT_FOUND"
	case errbuilder.CodeResourceExhausted:
		code = "RATE_LIMIT_EXCEEDED"
	case errbuilder.CodeUnavailable:
		code = "NETWORK_ERROR"
	case errbuilder.CodeDeadlineExceeded:
		code = "TIMEOUT_ERROR"
	case errbuilder.CodeInternal:
		code = "INTERNAL_ERROR"
	}
	return fmt.Sprintf("[%s] %s", code, e.ErrBuilder.Msg)
}

// Unwrap returns the underlying cause.
func (e *AppError) Unwrap() error {
	return e.ErrBuilder.Unwrap()
}

func newAppError(builder *errbuilder.ErrBuilder, category Category, status int) *AppError {
	return &AppError{
		ErrBuilder: builder,
		Category:   category,
		HTTPStatus: status,
		Timestamp:  time.Now(),
	}
}

// NewValidationError reports unusable caller input. It always fires
// before any fetch.
func NewValidationError(message string, details ...string) *AppError {
	builder := errbuilder.New().
		WithCode(errbuilder.CodeInvalidArgument).
		WithMsg(message)

	if len(details) > 0 {
		errMap := errbuilder.ErrorMap{}
		errMap.Set("input", stderrors.New(details[0]))
		builder = builder.WithDetails(errbuilder.NewErrDetails(errMap))
	}

	return newAppError(builder, CategoryValidation, http.StatusBadRequest)
}

// NewNotFoundError reports a missing upstream resource, typically an
// unknown username.
func NewNotFoundError(resource string) *AppError {
	builder := errbuilder.New().
		WithCode(errbuilder.CodeNotFound).
		WithMsg(fmt.Sprintf("%s not found", resource))

	return newAppError(builder, CategoryNotFound, http.StatusNotFound)
}

// NewRateLimitError reports an exhausted quota, ours or upstream's.
func NewRateLimitError(message string) *AppError {
	builder := errbuilder.New().
		WithCode(errbuilder.CodeResourceExhausted).
		WithMsg(message)

	return newAppError(builder, CategoryRateLimit, http.StatusTooManyRequests)
}

// NewNetworkError reports a failed or malformed upstream exchange.
func NewNetworkError(message string, cause error) *AppError {
	builder := errbuilder.New().
		WithCode(errbuilder.CodeUnavailable).
		WithMsg(message)

	if cause != nil {
		builder = builder.WithCause(cause)
	}

	return newAppError(builder, CategoryNetwork, http.StatusBadGateway)
}

// NewTimeoutError reports an exceeded deadline.
func NewTimeoutError(message string, cause error) *AppError {
	builder := errbuilder.New().
		WithCode(errbuilder.CodeDeadlineExceeded).
		WithMsg(message)

	if cause != nil {
		builder = builder.WithCause(cause)
	}

	return newAppError(builder, CategoryTimeout, http.StatusGatewayTimeout)
}

// NewInternalError reports an unexpected failure.
func NewInternalError(message string, cause error) *AppError {
	builder := errbuilder.New().
		WithCode(errbuilder.CodeInternal).
		WithMsg(message)

	if cause != nil {
		builder = builder.WithCause(cause)
	}

	return newAppError(builder, CategoryInternal, http.StatusInternalServerError)
}

// ToAppError converts any error to an AppError, classifying common
// transport failures on the way.
func ToAppError(err error) *AppError {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr
	}

	if stderrors.Is(err, context.DeadlineExceeded) {
		return NewTimeoutError("request deadline exceeded", err)
	}
	if stderrors.Is(err, context.Canceled) {
		return NewTimeoutError("request cancelled", err)
	}

	msg := err.Error()
	switch {
	case strings.Contains(msg, "connection refused"),
		strings.Contains(msg, "no such host"),
		strings.Contains(msg, "network is unreachable"):
		return NewNetworkError("network connection failed", err)
	case strings.Contains(msg, "timeout"),
		strings.Contains(msg, "deadline exceeded"):
		return NewTimeoutError("request timeout", err)
	}

	return NewInternalError("an unexpected error occurred", err)
}

// IsNotFound reports whether err is a not-found AppError.
func IsNotFound(err error) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr) && appErr.Category == CategoryNotFound
}

// IsRateLimited reports whether err is a rate-limit AppError.
func IsRateLimited(err error) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr) && appErr.Category == CategoryRateLimit
}

// IsRetryable reports whether a request that produced err could be
// safely reissued. Validation and not-found failures are final.
func IsRetryable(err error) bool {
	switch ToAppError(err).Category {
	case CategoryNetwork, CategoryTimeout, CategoryRateLimit:
		return true
	default:
		return false
	}
}

// ErrorHandler is gin middleware that turns accumulated handler errors
// into structured JSON responses.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		appErr := ToAppError(c.Errors.Last().Err)
		LogError(c, appErr)
		c.JSON(appErr.HTTPStatus, gin.H{
			"error":    appErr.Error(),
			"category": appErr.Category,
		})
	}
}

// RecoveryHandler converts panics into internal-error responses.
func RecoveryHandler() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		appErr := NewInternalError(
			fmt.Sprintf("panic recovered: %v", recovered),
			fmt.Errorf("%v", recovered),
		)
		LogError(c, appErr)
		c.AbortWithStatusJSON(appErr.HTTPStatus, gin.H{
			"error":    appErr.Error(),
			"category": appErr.Category,
		})
	})
}

// LogError logs an AppError with request context, at a level matching
// its category.
func LogError(c *gin.Context, err *AppError) {
	entry := slog.With(
		"category", err.Category,
		"http_status", err.HTTPStatus,
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
		"ip", c.ClientIP(),
		"request_id", c.GetString("request_id"),
	)

	switch err.Category {
	case CategoryValidation, CategoryNotFound, CategoryRateLimit:
		entry.Warn(err.ErrBuilder.Msg)
	case CategoryNetwork, CategoryTimeout:
		if cause := err.Unwrap(); cause != nil {
			entry.Info(err.ErrBuilder.Msg, "cause", cause)
		} else {
			entry.Info(err.ErrBuilder.Msg)
		}
	default:
		if cause := err.Unwrap(); cause != nil {
			entry.Error(err.ErrBuilder.Msg, "cause", cause)
		} else {
			entry.Error(err.ErrBuilder.Msg)
		}
	}
}
