package logger

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// Logger wraps slog.Logger with app-specific helpers.
type Logger struct {
	*slog.Logger
}

// New creates a new logger instance. Text handler in development, JSON
// in release mode.
func New() *Logger {
	level := getLogLevel(os.Getenv("LOG_LEVEL"))

	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: level == slog.LevelDebug,
	}

	var handler slog.Handler
	if gin.Mode() == gin.DebugMode {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	return &Logger{Logger: slog.New(handler)}
}

func getLogLevel(levelStr string) slog.Level {
	switch strings.ToLower(levelStr) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// WithRequestID adds request ID to logger context.
func (l *Logger) WithRequestID(requestID string) *Logger {
	return &Logger{Logger: l.Logger.With(slog.String("request_id", requestID))}
}

// WithUserID adds user ID to logger context.
func (l *Logger) WithUserID(userID string) *Logger {
	return &Logger{Logger: l.Logger.With(slog.String("user_id", userID))}
}

// WithError adds error to logger context.
func (l *Logger) WithError(err error) *Logger {
	return &Logger{Logger: l.Logger.With(slog.String("error", err.Error()))}
}

// LogHTTPRequest logs a completed HTTP request.
func (l *Logger) LogHTTPRequest(c *gin.Context, duration time.Duration) {
	l.Logger.InfoContext(c.Request.Context(),
		"HTTP Request",
		slog.String("method", c.Request.Method),
		slog.String("path", c.Request.URL.Path),
		slog.String("query", c.Request.URL.RawQuery),
		slog.Int("status", c.Writer.Status()),
		slog.Duration("duration", duration),
		slog.String("ip", c.ClientIP()),
		slog.Int("size", c.Writer.Size()),
	)
}

// LogBookingCommitted logs a successful booking commit.
func (l *Logger) LogBookingCommitted(ctx context.Context, bookingID, eventID, userID string, total float64) {
	l.Logger.InfoContext(ctx,
		"Booking Committed",
		slog.String("booking_id", bookingID),
		slog.String("event_id", eventID),
		slog.String("user_id", userID),
		slog.Float64("total_amount", total),
	)
}

// LogSeatConflict logs a commit rejected by the pre-write re-validation.
func (l *Logger) LogSeatConflict(ctx context.Context, eventID string, seats []string) {
	l.Logger.WarnContext(ctx,
		"Seat Availability Conflict",
		slog.String("event_id", eventID),
		slog.Any("seats", seats),
	)
}

// LogVerificationFailure logs a rejected membership claim.
func (l *Logger) LogVerificationFailure(ctx context.Context, eventID, reason string) {
	l.Logger.InfoContext(ctx,
		"Membership Verification Failed",
		slog.String("event_id", eventID),
		slog.String("reason", reason),
	)
}

// LogEventChanged logs an admin event mutation.
func (l *Logger) LogEventChanged(ctx context.Context, action, eventID, adminID string) {
	l.Logger.InfoContext(ctx,
		"Event Changed",
		slog.String("action", action),
		slog.String("event_id", eventID),
		slog.String("admin_id", adminID),
	)
}

// Global logger instance (can be replaced with dependency injection)
var defaultLogger = New()

// GetDefault returns the default logger instance.
func GetDefault() *Logger {
	return defaultLogger
}

// SetDefault sets the default logger instance.
func SetDefault(logger *Logger) {
	defaultLogger = logger
}
