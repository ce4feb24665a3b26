// Package logging wraps log/slog behind a package-level logger so every
// layer logs the same way. Output defaults to stderr: the TUI owns
// stdout, and gateway logs must never mix into piped responses.
// Credentials are never logged; callers log repo names and issue
// numbers, not tokens.
package logging

import (
	"io"
	"log/slog"
	"os"
	"sync"
)

var (
	defaultLogger *slog.Logger
	loggerMu      sync.Mutex
	initialized   bool
)

// LogLevel represents logging levels
type LogLevel string

const (
	// LogLevelDebug is for detailed debug information
	LogLevelDebug LogLevel = "debug"
	// LogLevelInfo is for general operational information
	LogLevelInfo LogLevel = "info"
	// LogLevelWarn is for warning conditions that should be addressed
	LogLevelWarn LogLevel = "warn"
	// LogLevelError is for error conditions that prevent normal operation
	LogLevelError LogLevel = "error"
)

// Config holds logging configuration
type Config struct {
	Level      LogLevel
	Output     io.Writer
	JSONFormat bool
}

// DefaultConfig returns the default logging configuration
func DefaultConfig() *Config {
	return &Config{
		Level:      LogLevelInfo,
		Output:     os.Stderr,
		JSONFormat: false,
	}
}

// Initialize sets up the logger with the given configuration
func Initialize(cfg *Config) {
	loggerMu.Lock()
	defer loggerMu.Unlock()
	initLocked(cfg)
}

func initLocked(cfg *Config) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if cfg.Output == nil {
		cfg.Output = os.Stderr
	}

	var level slog.Level
	switch cfg.Level {
	case LogLevelDebug:
		level = slog.LevelDebug
	case LogLevelWarn:
		level = slog.LevelWarn
	case LogLevelError:
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	var handler slog.Handler
	opts := &slog.HandlerOptions{Level: level}

	if cfg.JSONFormat {
		handler = slog.NewJSONHandler(cfg.Output, opts)
	} else {
		handler = slog.NewTextHandler(cfg.Output, opts)
	}

	defaultLogger = slog.New(handler)
	slog.SetDefault(defaultLogger)
	initialized = true
}

// GetLogger returns the default logger
func GetLogger() *slog.Logger {
	loggerMu.Lock()
	defer loggerMu.Unlock()

	if !initialized {
		initLocked(nil)
	}

	return defaultLogger
}

// Debug logs a message at debug level
func Debug(msg string, args ...any) {
	GetLogger().Debug(msg, args...)
}

// Info logs a message at info level
func Info(msg string, args ...any) {
	GetLogger().Info(msg, args...)
}

// Warn logs a message at warn level
func Warn(msg string, args ...any) {
	GetLogger().Warn(msg, args...)
}

// Error logs a message at error level
func Error(msg string, args ...any) {
	GetLogger().Error(msg, args...)
}
