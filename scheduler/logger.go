package scheduler

import (
	"fmt"

	"github.com/rs/zerolog"
)

// Logger receives diagnostic messages from the scheduler. The most
// important of these is the unattended-fire error policy: when a batch
// fired by the size, memory or timeout trigger fails, no caller is
// waiting on the result, so the failure is reported here and swallowed.
// The batch's jobs are not retried.
//
// The Logger is optional. If not set, NoOpLogger is used.
type Logger interface {
	// Debug logs a debug-level message. The message is formatted with
	// fmt.Sprintf if args are provided.
	Debug(format string, args ...interface{})

	// Info logs an info-level message.
	Info(format string, args ...interface{})

	// Warn logs a warning-level message.
	Warn(format string, args ...interface{})

	// Error logs an error-level message.
	Error(format string, args ...interface{})
}

// NoOpLogger discards all messages. It is the default logger.
type NoOpLogger struct{}

// Debug implements the Logger interface.
func (NoOpLogger) Debug(format string, args ...interface{}) {}

// Info implements the Logger interface.
func (NoOpLogger) Info(format string, args ...interface{}) {}

// Warn implements the Logger interface.
func (NoOpLogger) Warn(format string, args ...interface{}) {}

// Error implements the Logger interface.
func (NoOpLogger) Error(format string, args ...interface{}) {}

// ZerologLogger routes scheduler messages to a zerolog.Logger.
//
// Example:
//
//	zl := zerolog.New(os.Stderr).With().Timestamp().Logger()
//	s, err := scheduler.New[string](proc, nil)
//	s.WithLogger(scheduler.NewZerologLogger(zl))
type ZerologLogger struct {
	logger zerolog.Logger
}

// NewZerologLogger wraps a zerolog.Logger as a scheduler Logger.
func NewZerologLogger(logger zerolog.Logger) *ZerologLogger {
	return &ZerologLogger{logger: logger}
}

// Debug implements the Logger interface.
func (z *ZerologLogger) Debug(format string, args ...interface{}) {
	z.logger.Debug().Msg(fmt.Sprintf(format, args...))
}

// Info implements the Logger interface.
func (z *ZerologLogger) Info(format string, args ...interface{}) {
	z.logger.Info().Msg(fmt.Sprintf(format, args...))
}

// Warn implements the Logger interface.
func (z *ZerologLogger) Warn(format string, args ...interface{}) {
	z.logger.Warn().Msg(fmt.Sprintf(format, args...))
}

// Error implements the Logger interface.
func (z *ZerologLogger) Error(format string, args ...interface{}) {
	z.logger.Error().Msg(fmt.Sprintf(format, args...))
}
