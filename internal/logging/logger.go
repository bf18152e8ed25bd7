package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

// InitLogger installs the process-wide slog handler. JSON output is meant for
// production log collectors; otherwise logs are colourised for terminals.
func InitLogger(level string, json bool) {
	slog.SetDefault(slog.New(NewHandler(os.Stderr, level, json)))
}

func NewHandler(w io.Writer, level string, json bool) slog.Handler {
	lvl := ParseLevel(level)
	if json {
		return slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lvl})
	}
	return tint.NewHandler(w, &tint.Options{
		Level:      lvl,
		TimeFormat: time.Kitchen,
	})
}

// ParseLevel maps a config level name to a slog level. Unknown names mean info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
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
