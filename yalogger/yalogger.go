package yalogger

import (
	"io"

	"github.com/google/uuid"
)

// Config configures loggers built by [NewBaseLogger]. A nil *Config means
// an untimestamped logrus text logger at Debug level on os.Stderr.
type Config struct {
	BaseLoggerType BaseLoggerType
	Level          Level

	FullTimestamp    bool
	DisableTimestamp bool
	// TimestampFormat defaults to "2006-01-02 15:04:05".
	TimestampFormat string

	// JSON switches the text formatter to JSON lines.
	JSON   bool
	Output io.Writer
}

// BaseLogger is an interface for creating new Logger instances.
type BaseLogger interface {
	// NewLogger creates a new Logger instance from the base logger.
	NewLogger() Logger
}

// Logger defines a structured logging interface with support for various log levels,
// formatting, and context-aware logging using key-value fields.
//
// The With* methods never modify the receiver; they return a derived Logger, so a
// per-update logger can be handed to handlers without leaking fields back into the
// dispatcher's logger.
type Logger interface {
	// Info logs a message at the Info level.
	//
	// Example usage:
	//
	//   logger.Info("Dispatcher started")
	Info(msg string)

	// Infof logs a formatted message at the Info level.
	Infof(format string, args ...any)

	// Trace logs a message at the Trace level (very low-level debugging).
	Trace(msg string)

	// Tracef logs a formatted message at the Trace level.
	Tracef(format string, args ...any)

	// Error logs a message at the Error level.
	//
	// Example usage:
	//
	//   logger.Error("Redis connection failed")
	Error(msg string)

	// Errorf logs a formatted message at the Error level.
	Errorf(format string, args ...any)

	// Warn logs a message at the Warn level.
	Warn(msg string)

	// Warnf logs a formatted message at the Warn level.
	Warnf(format string, args ...any)

	// Debug logs a message at the Debug level.
	//
	// Example usage:
	//
	//   logger.Debug("Update classified")
	Debug(msg string)

	// Debugf logs a formatted message at the Debug level.
	Debugf(format string, args ...any)

	// Fatal logs a message at the Fatal level and terminates the application.
	Fatal(msg string)

	// Fatalf logs a formatted message at the Fatal level and terminates the application.
	Fatalf(format string, args ...any)

	// WithField returns a logger with a single field added to the context.
	//
	// Example usage:
	//
	//   logger.WithField("chat_id", 42).Info("state reset")
	WithField(key string, value any) Logger

	// WithFields returns a logger with multiple fields added to the context.
	WithFields(fields map[string]any) Logger

	// WithRequestUUID returns a logger with a UUID request ID in the context.
	//
	// Example usage:
	//
	//   logger.WithRequestUUID(uuid.New())
	WithRequestUUID(id uuid.UUID) Logger

	// WithRandomRequestID returns a logger with a randomly generated request ID.
	WithRandomRequestID() Logger

	// WithUserID returns a logger with a user ID in the context.
	WithUserID(userID int64) Logger

	// WithChatID returns a logger with a chat ID in the context.
	WithChatID(chatID int64) Logger

	// GetFields returns a copy of the current log context fields.
	GetFields() map[string]any

	// GetField returns the value of a field from the current log context, nil when absent.
	//
	// Example usage:
	//
	//   chatID, ok := logger.GetField("chat_id").(int64)
	GetField(key string) any
}
