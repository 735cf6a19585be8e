package monitoring

import (
	"log/slog"
	"os"
	"time"
)

// Logger provides enhanced structured logging for the evaluation pipeline
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new enhanced logger
func NewLogger() *Logger {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:     slog.LevelInfo,
		AddSource: true,
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

	return &Logger{
		Logger: slog.New(handler),
	}
}

// RequestLogger logs HTTP request details
func (l *Logger) RequestLogger(method, path, ip, userAgent string, statusCode int, duration time.Duration) {
	l.Info("HTTP Request",
		"method", method,
		"path", path,
		"ip", ip,
		"user_agent", userAgent,
		"status_code", statusCode,
		"duration_ms", duration.Milliseconds(),
	)
}

// ProgressLogger logs batch progress at the configured cadence
func (l *Logger) ProgressLogger(processed int, elapsed time.Duration) {
	l.Info("Clips Processed",
		"processed", processed,
		"elapsed_seconds", float64(elapsed.Milliseconds())/1000.0,
	)
}

// EvaluationLogger logs a completed evaluation run
func (l *Logger) EvaluationLogger(mode string, processed, errored int, duration time.Duration) {
	l.Info("Evaluation Completed",
		"mode", mode,
		"clips_processed", processed,
		"clips_errored", errored,
		"duration_ms", duration.Milliseconds(),
	)
}

// ClipErrorLogger logs a per-clip failure that was isolated and skipped
func (l *Logger) ClipErrorLogger(clip string, err error) {
	l.Warn("Clip Skipped",
		"clip", clip,
		"error", err.Error(),
	)
}

// DegenerateMetricLogger warns about a zero denominator resolved to 0.
// Suppressible by raising the log level.
func (l *Logger) DegenerateMetricLogger(clip, label, detail string) {
	l.Warn("Degenerate Metric",
		"clip", clip,
		"manual_id", label,
		"detail", detail,
	)
}

// CacheLogger logs cache operations
func (l *Logger) CacheLogger(operation, key string, hit bool, itemCount int) {
	l.Debug("Cache Operation",
		"operation", operation,
		"key_hash", key[:8]+"...",
		"hit", hit,
		"cache_size", itemCount,
	)
}

// SystemLogger logs system-level events
func (l *Logger) SystemLogger(event, details string) {
	l.Info("System Event",
		"event", event,
		"details", details,
		"uptime", time.Since(startTime).String(),
	)
}

// SetLevel sets the logging level
func (l *Logger) SetLevel(level slog.Level) {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:     level,
		AddSource: true,
	})
	l.Logger = slog.New(handler)
}

var startTime = time.Now()
