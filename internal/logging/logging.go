// Package logging provides structured logging for featab commands and libraries.
//
// It wraps log/slog: commands call Init once at startup, libraries receive a
// *slog.Logger through their options and fall back to Discard.
//
//	logging.Init(slog.LevelInfo, false)
//	log := logging.Component("compact")
//	log.Info("segments packed", "segments", 4)
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Logger is the process-wide logger set by Init.
var Logger *slog.Logger

// Init initializes the global logger writing to stderr.
// If jsonFormat is true, logs are output as JSON; otherwise, human-readable text.
func Init(level slog.Level, jsonFormat bool) {
	InitWithWriter(os.Stderr, level, jsonFormat)
}

// InitWithWriter initializes the global logger with a custom destination.
func InitWithWriter(w io.Writer, level slog.Level, jsonFormat bool) {
	var handler slog.Handler

	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: level == slog.LevelDebug,
	}

	if jsonFormat {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	Logger = slog.New(handler)
	slog.SetDefault(Logger)
}

// Component returns a logger tagged with the component name.
func Component(name string) *slog.Logger {
	if Logger == nil {
		Init(slog.LevelInfo, false)
	}

	return Logger.With("component", name)
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.Level(1000)}))
}

// ParseLevel maps debug, info, warn and error (case-insensitive) to a level.
// Unknown names map to info.
func ParseLevel(name string) slog.Level {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
