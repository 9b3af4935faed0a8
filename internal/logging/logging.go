package logging

import (
	"log/slog"
	"os"
	"strings"
)

// Options configures the process-wide logger.
type Options struct {
	Service string
	Env     string
	Level   string
}

// Setup installs a JSON slog handler as the default logger and returns it.
func Setup(opts Options) *slog.Logger {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLevel(opts.Level),
	})

	logger := slog.New(handler).With(
		"service", opts.Service,
		"env", opts.Env,
	)
	slog.SetDefault(logger)
	return logger
}

func parseLevel(level string) slog.Level {
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
