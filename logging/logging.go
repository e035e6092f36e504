package logging

import (
	"io"
	"log/slog"
	"strings"
)

// Config selects the level and output format of a logger.
type Config struct {
	Level  string
	Format string
}

// NewLogger creates a slog.Logger writing to w. Format "text" selects the
// text handler; anything else is JSON. Unknown or empty levels mean INFO.
func NewLogger(config Config, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{
		AddSource:   false,
		Level:       ParseLevel(config.Level),
		ReplaceAttr: nil,
	}

	if strings.EqualFold(config.Format, "text") {
		return slog.New(slog.NewTextHandler(w, opts))
	}

	return slog.New(slog.NewJSONHandler(w, opts))
}

// ParseLevel maps a level name to a slog.Level, defaulting to INFO.
func ParseLevel(level string) slog.Level {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
