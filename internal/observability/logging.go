// Package observability provides structured logging and metrics.
package observability

import (
	"log/slog"
	"os"
	"strings"
)

// Logger wraps slog.Logger to provide specialized logging methods.
type Logger struct {
	*slog.Logger
}

// GlobalLogger is the default logger instance for the application.
var GlobalLogger *Logger

func init() {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	GlobalLogger = &Logger{Logger: slog.New(handler)}
}

// ConfigureLevel rebuilds the global logger at the requested level.
// Unknown levels keep info.
func ConfigureLevel(level string) {
	var l slog.Level
	switch strings.ToLower(level) {
	case "debug":
		l = slog.LevelDebug
	case "warn":
		l = slog.LevelWarn
	case "error":
		l = slog.LevelError
	default:
		l = slog.LevelInfo
	}
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: l})
	GlobalLogger = &Logger{Logger: slog.New(handler)}
}

// StoreLogger provides structured logging for storage operations.
type StoreLogger struct {
	backend string
	logger  *Logger
}

// NewStoreLogger creates a StoreLogger for the given backend name.
func NewStoreLogger(backend string) *StoreLogger {
	return &StoreLogger{backend: backend, logger: GlobalLogger}
}

// Info logs an informational storage event.
func (l *StoreLogger) Info(msg string, args ...any) {
	args = append([]any{slog.String("backend", l.backend)}, args...)
	l.logger.Info(msg, args...)
}

// Warn logs a storage warning.
func (l *StoreLogger) Warn(msg string, args ...any) {
	args = append([]any{slog.String("backend", l.backend)}, args...)
	l.logger.Warn(msg, args...)
}

// Error logs a storage failure.
func (l *StoreLogger) Error(msg string, args ...any) {
	args = append([]any{slog.String("backend", l.backend)}, args...)
	l.logger.Error(msg, args...)
}
