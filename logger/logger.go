// ABOUTME: Structured logging configuration using log/slog.
// ABOUTME: Configures the default logger from environment and masks bearer tokens in attributes.

package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Init configures the default slog logger based on environment variables.
// LOG_LEVEL: debug, info, warn, error (default: info)
// LOG_FORMAT: text, json (default: text)
func Init() {
	slog.SetDefault(New(os.Stdout, os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FORMAT")))
}

// New builds a logger writing to w with the given level and format names.
func New(w io.Writer, level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: parseLevel(level),
	}

	var handler slog.Handler
	if strings.ToLower(format) == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	return slog.New(handler)
}

// IsJSON reports whether LOG_FORMAT selects machine-readable output.
func IsJSON() bool {
	return strings.ToLower(os.Getenv("LOG_FORMAT")) == "json"
}

// Token returns an attribute that identifies a token without revealing it:
// only its length and last four characters are kept.
func Token(key, token string) slog.Attr {
	if token == "" {
		return slog.String(key, "<none>")
	}
	tail := token
	if len(tail) > 4 {
		tail = tail[len(tail)-4:]
	}
	return slog.Group(key, slog.Int("len", len(token)), slog.String("tail", tail))
}

// parseLevel converts a string log level to slog.Level.
func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
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
