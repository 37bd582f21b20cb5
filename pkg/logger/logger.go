package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

const serviceName = "legal-assistant"

// New constructs the service logger on stdout. LOG_LEVEL and LOG_FORMAT
// (json or text) tune it.
func New() *slog.Logger {
	return NewWithWriter(os.Stdout)
}

// NewWithWriter is New with a caller supplied sink; the CLI logs to stderr so
// stdout stays reserved for results.
func NewWithWriter(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(os.Getenv("LOG_LEVEL"))}
	var handler slog.Handler
	if strings.EqualFold(strings.TrimSpace(os.Getenv("LOG_FORMAT")), "text") {
		handler = slog.NewTextHandler(w, opts)
	} else {
		handler = slog.NewJSONHandler(w, opts)
	}
	return slog.New(handler).With("service", serviceName)
}

func parseLevel(level string) slog.Leveler {
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
