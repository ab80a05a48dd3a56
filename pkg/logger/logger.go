package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/killallgit/vaultchat/pkg/config"
	"github.com/rs/zerolog"
)

// Logger provides a unified logging interface on top of zerolog
type Logger struct {
	zl     zerolog.Logger
	file   *os.File
	mirror bool
}

var (
	mu            sync.RWMutex
	defaultLogger *Logger
)

// Init initializes the default logger from the global config
func Init() error {
	mu.RLock()
	ready := defaultLogger != nil
	mu.RUnlock()
	if ready {
		return nil
	}

	settings := config.Get()
	l, err := New(settings.Logging.Level, settings.Logging.LogFile, settings.Logging.Persist)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	mu.Lock()
	defaultLogger = l
	mu.Unlock()
	return nil
}

// New creates a Logger writing to logFile. Relative paths are resolved
// against the settings directory.
func New(level, logFile string, persist bool) (*Logger, error) {
	logPath := logFile
	if !filepath.IsAbs(logPath) {
		logPath = config.BuildSettingsPath(filepath.Base(logPath))
	}

	if err := os.MkdirAll(filepath.Dir(logPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	flags := os.O_CREATE | os.O_WRONLY | os.O_TRUNC
	if persist {
		flags = os.O_CREATE | os.O_WRONLY | os.O_APPEND
	}
	file, err := os.OpenFile(logPath, flags, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	l := NewWithWriter(level, file)
	l.file = file
	return l, nil
}

// NewWithWriter creates a Logger writing JSON lines to w
func NewWithWriter(level string, w io.Writer) *Logger {
	zl := zerolog.New(w).Level(parseLevel(level)).With().Timestamp().Logger()
	return &Logger{zl: zl}
}

// Close closes the log file
func (l *Logger) Close() error {
	if l.file != nil {
		return l.file.Close()
	}
	return nil
}

// parseLevel converts a string level to a zerolog level
func parseLevel(levelStr string) zerolog.Level {
	switch levelStr {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "fatal":
		return zerolog.FatalLevel
	default:
		return zerolog.InfoLevel
	}
}

func (l *Logger) log(level zerolog.Level, format string, args ...interface{}) {
	l.zl.WithLevel(level).Msgf(format, args...)

	if l.mirror && level >= zerolog.ErrorLevel {
		fmt.Fprintf(os.Stderr, "[%s] %s\n", level.String(), fmt.Sprintf(format, args...))
	}
}

// Debug logs a debug message
func (l *Logger) Debug(format string, args ...interface{}) {
	l.log(zerolog.DebugLevel, format, args...)
}

// Info logs an info message
func (l *Logger) Info(format string, args ...interface{}) {
	l.log(zerolog.InfoLevel, format, args...)
}

// Warn logs a warning message
func (l *Logger) Warn(format string, args ...interface{}) {
	l.log(zerolog.WarnLevel, format, args...)
}

// Error logs an error message
func (l *Logger) Error(format string, args ...interface{}) {
	l.log(zerolog.ErrorLevel, format, args...)
}

// Zerolog exposes the underlying logger for structured fields
func (l *Logger) Zerolog() *zerolog.Logger {
	return &l.zl
}

func current() *Logger {
	mu.RLock()
	defer mu.RUnlock()
	return defaultLogger
}

// Package-level convenience functions using the default logger

// Debug logs a debug message using the default logger
func Debug(format string, args ...interface{}) {
	if l := current(); l != nil {
		l.Debug(format, args...)
	}
}

// Info logs an info message using the default logger
func Info(format string, args ...interface{}) {
	if l := current(); l != nil {
		l.Info(format, args...)
	}
}

// Warn logs a warning message using the default logger
func Warn(format string, args ...interface{}) {
	if l := current(); l != nil {
		l.Warn(format, args...)
	}
}

// Error logs an error message using the default logger
func Error(format string, args ...interface{}) {
	if l := current(); l != nil {
		l.Error(format, args...)
	}
}

// With returns the default zerolog logger, or a disabled one before Init
func With() *zerolog.Logger {
	if l := current(); l != nil {
		return l.Zerolog()
	}
	nop := zerolog.Nop()
	return &nop
}

// SetOutput replaces the default logger with one writing to w (useful for testing)
func SetOutput(w io.Writer) {
	level := "debug"
	if l := current(); l != nil {
		level = l.zl.GetLevel().String()
	}
	mu.Lock()
	defaultLogger = NewWithWriter(level, w)
	mu.Unlock()
}

// MirrorErrors copies error messages to stderr when enabled. The TUI leaves it
// off since it owns the terminal.
func MirrorErrors(enabled bool) {
	mu.Lock()
	defer mu.Unlock()
	if defaultLogger != nil {
		defaultLogger.mirror = enabled
	}
}

// Close closes the default logger and the history file
func Close() error {
	mu.Lock()
	l := defaultLogger
	defaultLogger = nil
	mu.Unlock()

	var err error
	if l != nil {
		err = l.Close()
	}
	if herr := closeHistory(); herr != nil && err == nil {
		err = herr
	}
	return err
}
