// Package logger provides structured logging utilities for the dubbing
// engine, backed by charmbracelet/log.
package logger

import (
	"io"
	"os"
	"sync"

	charmlog "github.com/charmbracelet/log"
)

// Level represents the severity of a log message.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) charm() charmlog.Level {
	switch l {
	case LevelDebug:
		return charmlog.DebugLevel
	case LevelWarn:
		return charmlog.WarnLevel
	case LevelError:
		return charmlog.ErrorLevel
	default:
		return charmlog.InfoLevel
	}
}

// Logger wraps a charmbracelet/log logger behind the engine's
// Debug/Info/Warn/Error facade.
type Logger struct {
	mu  sync.Mutex
	out *charmlog.Logger
}

// New creates a new logger at the given level, writing to output.
func New(level Level, output io.Writer) *Logger {
	l := charmlog.NewWithOptions(output, charmlog.Options{
		Level:           level.charm(),
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
	})
	return &Logger{out: l}
}

var defaultLogger = New(LevelInfo, os.Stdout)

// SetLevel sets the minimum log level for the default logger.
func SetLevel(level Level) {
	defaultLogger.mu.Lock()
	defer defaultLogger.mu.Unlock()
	defaultLogger.out.SetLevel(level.charm())
}

// SetOutput sets the output writer for the default logger.
func SetOutput(w io.Writer) {
	defaultLogger.mu.Lock()
	defer defaultLogger.mu.Unlock()
	defaultLogger.out.SetOutput(w)
}

// Debug logs a debug message, with optional key/value pairs.
func (l *Logger) Debug(msg string, keyvals ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.out.Debug(msg, keyvals...)
}

// Info logs an informational message, with optional key/value pairs.
func (l *Logger) Info(msg string, keyvals ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.out.Info(msg, keyvals...)
}

// Warn logs a warning message, with optional key/value pairs.
func (l *Logger) Warn(msg string, keyvals ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.out.Warn(msg, keyvals...)
}

// Error logs an error message, with optional key/value pairs.
func (l *Logger) Error(msg string, keyvals ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.out.Error(msg, keyvals...)
}

// With returns a logger that always attaches the given key/value pairs,
// useful for tagging every line in a job's lifetime with its job ID.
func (l *Logger) With(keyvals ...interface{}) *Logger {
	l.mu.Lock()
	defer l.mu.Unlock()
	return &Logger{out: l.out.With(keyvals...)}
}

// Package-level functions that use the default logger.

func Debug(msg string, keyvals ...interface{}) { defaultLogger.Debug(msg, keyvals...) }
func Info(msg string, keyvals ...interface{})  { defaultLogger.Info(msg, keyvals...) }
func Warn(msg string, keyvals ...interface{})  { defaultLogger.Warn(msg, keyvals...) }
func Error(msg string, keyvals ...interface{}) { defaultLogger.Error(msg, keyvals...) }
