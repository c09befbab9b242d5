package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/yukikurage/planner-api/internal/config"
)

// New builds the process logger from cfg and installs it as the slog
// default. Format "json" emits JSON lines, anything else human-readable
// text with source locations.
func New(cfg config.LogConfig) *slog.Logger {
	logger := slog.New(NewHandler(os.Stderr, cfg))
	slog.SetDefault(logger)
	return logger
}

// NewHandler returns the slog handler New would install, writing to w.
func NewHandler(w io.Writer, cfg config.LogConfig) slog.Handler {
	opts := &slog.HandlerOptions{
		Level:     ParseLevel(cfg.Level),
		AddSource: !strings.EqualFold(cfg.Format, "json"),
	}
	if strings.EqualFold(cfg.Format, "json") {
		return slog.NewJSONHandler(w, opts)
	}
	return slog.NewTextHandler(w, opts)
}

// ParseLevel maps debug, warn and error (any case) to their slog level.
// Anything else is info.
func ParseLevel(s string) slog.Level {
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
