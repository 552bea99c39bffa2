// Package logging decouples the rest of the application from logrus.
// Components receive a Logger through their constructors; tests pass a MockLogger.
package logging

import "sync"

// Logger is the structured logging surface used throughout upi-ledger.
type Logger interface {
	// Debug logs a debug-level message with optional fields
	Debug(msg string, fields ...Field)

	// Info logs an info-level message with optional fields
	Info(msg string, fields ...Field)

	// Warn logs a warning-level message with optional fields
	Warn(msg string, fields ...Field)

	// Error logs an error-level message with optional fields
	Error(msg string, fields ...Field)

	// WithError returns a child logger carrying err
	WithError(err error) Logger

	// WithField returns a child logger carrying one extra field
	WithField(key string, value interface{}) Logger

	// WithFields returns a child logger carrying extra fields
	WithFields(fields ...Field) Logger

	// Fatal logs and exits the process
	Fatal(msg string, fields ...Field)
}

// Field is a key-value pair attached to a log line.
type Field struct {
	Key   string
	Value interface{}
}

var (
	defaultMu     sync.RWMutex
	defaultLogger Logger
)

// GetLogger returns the process-wide logger, creating an info/text logger on first use.
func GetLogger() Logger {
	defaultMu.RLock()
	l := defaultLogger
	defaultMu.RUnlock()
	if l != nil {
		return l
	}

	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultLogger == nil {
		defaultLogger = NewLogrusAdapter("info", "text")
	}
	return defaultLogger
}

// SetLogger replaces the process-wide logger. Passing nil resets it.
func SetLogger(l Logger) {
	defaultMu.Lock()
	defaultLogger = l
	defaultMu.Unlock()
}
