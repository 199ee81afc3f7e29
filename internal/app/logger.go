package app

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/heartmarshall/casedata-runtime/internal/config"
)

const appName = "casedata-runtime"

// NewLogger builds the process logger from cfg, writes to stderr and installs
// it as the slog default. Every record carries the application name and
// version so that the server, indexer and relay can share one log stream.
//
// Format "json" is for production; anything else gives text with source
// locations. Level is debug, info, warn or error (case-insensitive) and
// falls back to info.
func NewLogger(cfg config.LogConfig) *slog.Logger {
	logger := newLogger(os.Stderr, cfg)
	slog.SetDefault(logger)
	return logger
}

func newLogger(w io.Writer, cfg config.LogConfig) *slog.Logger {
	json := strings.EqualFold(cfg.Format, "json")
	opts := &slog.HandlerOptions{
		Level:     parseLevel(cfg.Level),
		AddSource: !json,
	}

	var handler slog.Handler
	if json {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	return slog.New(handler).With(
		slog.String("app", appName),
		slog.String("version", Version),
	)
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
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
