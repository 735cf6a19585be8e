package errors

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/gin-gonic/gin"
)

// ErrorCategory defines the kind of evaluation error for proper handling
type ErrorCategory string

const (
	// CategorySchema marks a missing or mistyped column in an annotation
	// table. Raised before any per-clip processing begins.
	CategorySchema ErrorCategory = "schema"
	// CategoryValidation marks an out-of-range parameter such as a
	// threshold outside (0,1) or a non-positive chunk length.
	CategoryValidation ErrorCategory = "validation"
	// CategoryDegenerateMetric marks a zero confusion-count denominator.
	// Never surfaced to callers; the affected metrics resolve to 0 and a
	// warning is logged.
	CategoryDegenerateMetric ErrorCategory = "degenerate_metric"
	// CategoryPerClip marks a failure while computing one clip's
	// statistics. Caught at the clip boundary and counted; the run
	// continues.
	CategoryPerClip ErrorCategory = "per_clip"
	// CategoryAlignment marks diverging chunk counts between the ROC
	// target and confidence paths. Always surfaced, never resolved by
	// truncation or padding.
	CategoryAlignment ErrorCategory = "alignment_mismatch"
	// CategoryInternal is the fallback for unexpected failures.
	CategoryInternal ErrorCategory = "internal"
)

// AppError wraps errbuilder errors with the evaluation error category and
// the HTTP status used by the API surface.
type AppError struct {
	*errbuilder.ErrBuilder
	Category   ErrorCategory `json:"category"`
	HTTPStatus int           `json:"http_status"`
	Timestamp  time.Time     `json:"timestamp"`
	RequestID  string        `json:"request_id,omitempty"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Category, e.ErrBuilder.Msg)
}

// Unwrap returns the underlying cause
func (e *AppError) Unwrap() error {
	return e.ErrBuilder.Unwrap()
}

// NewAppError creates an AppError from errbuilder with category context
func NewAppError(builder *errbuilder.ErrBuilder, category ErrorCategory, httpStatus int) *AppError {
	return &AppError{
		ErrBuilder: builder,
		Category:   category,
		HTTPStatus: httpStatus,
		Timestamp:  time.Now(),
	}
}

// NewSchemaError creates a fail-fast error for a malformed annotation table
func NewSchemaError(message string, columns map[string]string) *AppError {
	builder := errbuilder.New().
		WithCode(errbuilder.CodeInvalidArgument).
		WithMsg(message)

	if len(columns) > 0 {
		errorMap := errbuilder.ErrorMap{}
		for column, problem := range columns {
			errorMap.Set(column, errors.New(problem))
		}
		builder = builder.WithDetails(errbuilder.NewErrDetails(errorMap))
	}

	return NewAppError(builder, CategorySchema, http.StatusBadRequest)
}

// NewValidationError creates an error for an out-of-range parameter
func NewValidationError(message string) *AppError {
	builder := errbuilder.New().
		WithCode(errbuilder.CodeInvalidArgument).
		WithMsg(message)

	return NewAppError(builder, CategoryValidation, http.StatusBadRequest)
}

// NewDegenerateMetricError records a zero denominator in a confusion-count
// ratio. Callers log it and substitute 0 for the affected metrics; it is
// never returned up the pipeline.
func NewDegenerateMetricError(clip, label, detail string) *AppError {
	errorMap := errbuilder.ErrorMap{}
	errorMap.Set("clip", errors.New(clip))
	errorMap.Set("detail", errors.New(detail))

	builder := errbuilder.New().
		WithCode(errbuilder.CodeFailedPrecondition).
		WithMsg(fmt.Sprintf("zero denominator computing metrics for label %q", label)).
		WithDetails(errbuilder.NewErrDetails(errorMap))

	return NewAppError(builder, CategoryDegenerateMetric, http.StatusOK)
}

// NewPerClipError wraps a failure while processing one clip
func NewPerClipError(clip string, cause error) *AppError {
	errorMap := errbuilder.ErrorMap{}
	errorMap.Set("clip", errors.New(clip))

	builder := errbuilder.New().
		WithCode(errbuilder.CodeInternal).
		WithMsg(fmt.Sprintf("failed computing statistics for clip %q", clip)).
		WithDetails(errbuilder.NewErrDetails(errorMap))

	if cause != nil {
		builder = builder.WithCause(cause)
	}

	return NewAppError(builder, CategoryPerClip, http.StatusInternalServerError)
}

// NewAlignmentMismatchError reports diverging chunk counts between the ROC
// target and confidence derivations
func NewAlignmentMismatchError(clip string, targetChunks, confidenceChunks int) *AppError {
	errorMap := errbuilder.ErrorMap{}
	errorMap.Set("clip", errors.New(clip))
	errorMap.Set("target_chunks", errors.New(fmt.Sprint(targetChunks)))
	errorMap.Set("confidence_chunks", errors.New(fmt.Sprint(confidenceChunks)))

	builder := errbuilder.New().
		WithCode(errbuilder.CodeFailedPrecondition).
		WithMsg(fmt.Sprintf("chunk count mismatch for clip %q: target=%d confidence=%d",
			clip, targetChunks, confidenceChunks)).
		WithDetails(errbuilder.NewErrDetails(errorMap))

	return NewAppError(builder, CategoryAlignment, http.StatusUnprocessableEntity)
}

// NewInternalError creates a fallback internal error
func NewInternalError(message string, cause error) *AppError {
	builder := errbuilder.New().
		WithCode(errbuilder.CodeInternal).
		WithMsg(message)

	if cause != nil {
		builder = builder.WithCause(cause)
	}

	return NewAppError(builder, CategoryInternal, http.StatusInternalServerError)
}

// CategoryOf extracts the error category, or CategoryInternal for plain
// errors
func CategoryOf(err error) ErrorCategory {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Category
	}
	return CategoryInternal
}

// IsSchemaError reports whether err is a schema error
func IsSchemaError(err error) bool {
	return CategoryOf(err) == CategorySchema
}

// IsAlignmentMismatch reports whether err is an alignment mismatch error
func IsAlignmentMismatch(err error) bool {
	return CategoryOf(err) == CategoryAlignment
}

// IsPerClipError reports whether err is a per-clip processing error
func IsPerClipError(err error) bool {
	return CategoryOf(err) == CategoryPerClip
}

// ToAppError converts any error to an AppError
func ToAppError(err error) *AppError {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	if ebErr, ok := err.(*errbuilder.ErrBuilder); ok {
		return NewAppError(ebErr, CategoryInternal, http.StatusInternalServerError)
	}

	return NewInternalError("An unexpected error occurred", err)
}

// ErrorHandler is a Gin middleware that provides centralized error handling
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 {
			err := c.Errors.Last().Err
			appErr := ToAppError(err)
			LogError(c, appErr)
			c.JSON(appErr.HTTPStatus, appErr)
		}
	}
}

// RecoveryHandler provides panic recovery with structured error responses
func RecoveryHandler() gin.HandlerFunc {
	return gin.RecoveryWithWriter(nil, func(c *gin.Context, err interface{}) {
		appErr := NewInternalError(
			fmt.Sprintf("Panic recovered: %v", err),
			fmt.Errorf("%v", err),
		)

		LogError(c, appErr)
		c.JSON(appErr.HTTPStatus, appErr)
	})
}

// LogError logs an error with appropriate level and request context
func LogError(c *gin.Context, err *AppError) {
	logEntry := slog.With(
		"error_category", err.Category,
		"error_code", err.ErrBuilder.ErrCode(),
		"http_status", err.HTTPStatus,
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
		"request_id", c.GetHeader("X-Request-ID"),
	)

	switch err.Category {
	case CategoryValidation, CategorySchema, CategoryDegenerateMetric:
		logEntry.Warn(err.ErrBuilder.Msg)
	default:
		if cause := err.ErrBuilder.Unwrap(); cause != nil {
			logEntry.Error(err.ErrBuilder.Msg, "cause", cause)
		} else {
			logEntry.Error(err.ErrBuilder.Msg)
		}
	}
}
