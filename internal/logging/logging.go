// Package logging provides structured logging functionality.
package logging

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// LogConfig holds logging configuration.
type LogConfig struct {
	Level      string
	Console    bool
	File       bool
	FilePath   string
	MaxSize    int // megabytes
	MaxBackups int
	MaxAge     int // days
}

// DefaultLogConfig returns the default logging configuration.
func DefaultLogConfig() LogConfig {
	home, _ := os.UserHomeDir()
	return LogConfig{
		Level:      "info",
		Console:    true,
		File:       true,
		FilePath:   filepath.Join(home, ".config", "finguide", "logs", "finguide.log"),
		MaxSize:    50,
		MaxBackups: 5,
		MaxAge:     30,
	}
}

// NewLogger creates a new logger with default configuration.
func NewLogger() zerolog.Logger {
	return NewLoggerWithConfig(DefaultLogConfig())
}

// NewLoggerWithConfig creates a new logger with the specified configuration.
func NewLoggerWithConfig(cfg LogConfig) zerolog.Logger {
	var writers []io.Writer

	if cfg.Console {
		writers = append(writers, zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
		})
	}

	if cfg.File {
		logDir := filepath.Dir(cfg.FilePath)
		if err := os.MkdirAll(logDir, 0755); err == nil {
			writers = append(writers, &lumberjack.Logger{
				Filename:   cfg.FilePath,
				MaxSize:    cfg.MaxSize,
				MaxBackups: cfg.MaxBackups,
				MaxAge:     cfg.MaxAge,
				Compress:   true,
			})
		}
	}

	var writer io.Writer
	switch len(writers) {
	case 0:
		writer = os.Stdout
	case 1:
		writer = writers[0]
	default:
		writer = zerolog.MultiLevelWriter(writers...)
	}

	zerolog.SetGlobalLevel(parseLevel(cfg.Level))

	return zerolog.New(writer).
		With().
		Timestamp().
		Caller().
		Logger()
}

func parseLevel(level string) zerolog.Level {
	switch level {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// SetDebugLevel sets the global log level to debug.
func SetDebugLevel() {
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
}

// ContextKey is the type for context keys.
type ContextKey string

// LoggerKey is the context key for the logger.
const LoggerKey ContextKey = "logger"

// WithLogger adds a logger to the context.
func WithLogger(ctx context.Context, logger zerolog.Logger) context.Context {
	return context.WithValue(ctx, LoggerKey, logger)
}

// FromContext retrieves the logger from context.
func FromContext(ctx context.Context) zerolog.Logger {
	if logger, ok := ctx.Value(LoggerKey).(zerolog.Logger); ok {
		return logger
	}
	return zerolog.Nop()
}

// WithSymbol adds a symbol to the logger context.
func WithSymbol(logger zerolog.Logger, symbol string) zerolog.Logger {
	return logger.With().Str("symbol", symbol).Logger()
}

// WithEntry adds a diary entry ID to the logger context.
func WithEntry(logger zerolog.Logger, entryID string) zerolog.Logger {
	return logger.With().Str("entry_id", entryID).Logger()
}

// LogQuoteRefresh logs the outcome of a quote refresh cycle.
func LogQuoteRefresh(logger zerolog.Logger, symbols, fetched int, duration time.Duration, err error) {
	event := logger.Info().
		Str("event", "quote_refresh").
		Int("symbols", symbols).
		Int("fetched", fetched).
		Dur("duration", duration)
	if err != nil {
		logger.Warn().
			Str("event", "quote_refresh").
			Int("symbols", symbols).
			Err(err).
			Msg("Quote refresh failed")
		return
	}
	event.Msg("Quotes refreshed")
}

// LogFeedback logs a coaching feedback call.
func LogFeedback(logger zerolog.Logger, entryID string, chars int, err error) {
	event := logger.Info().
		Str("event", "feedback").
		Str("entry_id", entryID).
		Int("chars", chars)
	if err != nil {
		event = logger.Warn().
			Str("event", "feedback").
			Str("entry_id", entryID).
			Err(err)
	}
	event.Msg("Coaching feedback")
}

// LogReport logs a weekly report generation.
func LogReport(logger zerolog.Logger, weekStart string, entries int, duration time.Duration, err error) {
	event := logger.Info().
		Str("event", "weekly_report").
		Str("week_start", weekStart).
		Int("entries", entries).
		Dur("duration", duration)
	if err != nil {
		event = logger.Warn().
			Str("event", "weekly_report").
			Str("week_start", weekStart).
			Err(err)
	}
	event.Msg("Weekly report")
}
