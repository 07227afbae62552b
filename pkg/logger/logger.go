package logger

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// Logger wraps slog.Logger with additional functionality
type Logger struct {
	*slog.Logger
}

// New creates a new logger instance
func New() *Logger {
	// Get log level from environment
	level := getLogLevel(os.Getenv("LOG_LEVEL"))

	// Create handler options
	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: level == slog.LevelDebug,
	}

	// Create handler based on environment
	var handler slog.Handler
	if gin.Mode() == gin.DebugMode {
		// Use text handler for development (more readable)
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		// Use JSON handler for production (structured)
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	return &Logger{
		Logger: slog.New(handler),
	}
}

// getLogLevel converts string to slog.Level
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

// WithError adds error to logger context
func (l *Logger) WithError(err error) *Logger {
	return &Logger{
		Logger: l.Logger.With(slog.String("error", err.Error())),
	}
}

// WithFields adds multiple fields to logger context
func (l *Logger) WithFields(fields map[string]interface{}) *Logger {
	args := make([]interface{}, 0, len(fields)*2)
	for k, v := range fields {
		args = append(args, slog.Any(k, v))
	}
	return &Logger{
		Logger: l.Logger.With(args...),
	}
}

// HTTP logging methods

// LogHTTPRequest logs an HTTP request
func (l *Logger) LogHTTPRequest(c *gin.Context, duration time.Duration) {
	l.Logger.InfoContext(c.Request.Context(),
		"HTTP Request",
		slog.String("method", c.Request.Method),
		slog.String("path", c.Request.URL.Path),
		slog.String("query", c.Request.URL.RawQuery),
		slog.Int("status", c.Writer.Status()),
		slog.Duration("duration", duration),
		slog.String("ip", c.ClientIP()),
		slog.String("user_agent", c.Request.UserAgent()),
		slog.Int("size", c.Writer.Size()),
	)
}

// Business logic logging methods

// LogBookingConfirmed logs a booking materialized from a successful payment
func (l *Logger) LogBookingConfirmed(ctx context.Context, bookingID, showID, paymentRef string, ticketCount int) {
	l.Logger.InfoContext(ctx,
		"Booking Confirmed",
		slog.String("booking_id", bookingID),
		slog.String("show_id", showID),
		slog.String("payment_ref", paymentRef),
		slog.Int("ticket_count", ticketCount),
	)
}

// LogBookingRefunded logs a booking flipped to refunded with seats restored
func (l *Logger) LogBookingRefunded(ctx context.Context, bookingID, paymentRef string, seatsRestored int) {
	l.Logger.InfoContext(ctx,
		"Booking Refunded",
		slog.String("booking_id", bookingID),
		slog.String("payment_ref", paymentRef),
		slog.Int("seats_restored", seatsRestored),
	)
}

// LogDuplicateWebhook logs an idempotent replay of an already-processed event
func (l *Logger) LogDuplicateWebhook(ctx context.Context, kind, paymentRef string) {
	l.Logger.InfoContext(ctx,
		"Duplicate Webhook Ignored",
		slog.String("event_kind", kind),
		slog.String("payment_ref", paymentRef),
	)
}

// LogWebhookRejected logs a webhook that failed the authenticity check
func (l *Logger) LogWebhookRejected(ctx context.Context, reason, ip string) {
	l.Logger.WarnContext(ctx,
		"Webhook Rejected",
		slog.String("reason", reason),
		slog.String("ip", ip),
	)
}

// LogSeatReservationConflict logs a payment that succeeded without available
// seats. This needs operator attention: money was captured but no booking was
// created.
func (l *Logger) LogSeatReservationConflict(ctx context.Context, showID, paymentRef string, requested int) {
	l.Logger.ErrorContext(ctx,
		"Seat Reservation Failed For Captured Payment",
		slog.String("show_id", showID),
		slog.String("payment_ref", paymentRef),
		slog.Int("requested", requested),
		slog.Bool("operational_alert", true),
	)
}

// LogNotificationOutcome logs the per-channel confirmation delivery result
func (l *Logger) LogNotificationOutcome(ctx context.Context, bookingID string, email, sms bool) {
	l.Logger.InfoContext(ctx,
		"Confirmation Dispatched",
		slog.String("booking_id", bookingID),
		slog.Bool("email", email),
		slog.Bool("sms", sms),
	)
}

// Security logging methods

// LogAuthFailure logs failed admin authentication
func (l *Logger) LogAuthFailure(ctx context.Context, reason, ip string) {
	l.Logger.WarnContext(ctx,
		"Authentication Failure",
		slog.String("reason", reason),
		slog.String("ip", ip),
	)
}

// Global logger instance (can be replaced with dependency injection)
var defaultLogger = New()

// GetDefault returns the default logger instance
func GetDefault() *Logger {
	return defaultLogger
}

// SetDefault sets the default logger instance
func SetDefault(logger *Logger) {
	defaultLogger = logger
}
