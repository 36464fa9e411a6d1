package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// New builds the process-wide logger. Output always goes to stdout; when path
// is non-empty the logger also appends to the file at path. A file that cannot
// be opened is not fatal: logging degrades to stdout-only with a warning.
// The returned close function releases the file handle, if any.
func New(lvl string, addSource bool, environment string, path string) (*slog.Logger, func() error) {

	level := parseLevel(lvl)

	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: addSource,
	}

	var out io.Writer = os.Stdout
	closeFn := func() error { return nil }

	var openErr error
	if path != "" {
		f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			openErr = err
		} else {
			out = io.MultiWriter(os.Stdout, f)
			closeFn = f.Close
		}
	}

	var handler slog.Handler

	if strings.ToLower(environment) == "prod" {
		handler = slog.NewJSONHandler(out, opts)
	} else {
		handler = slog.NewTextHandler(out, opts)
	}

	log := slog.New(handler).With(
		slog.String("environment", environment),
	)

	if openErr != nil {
		log.Warn("Failed to open log file, logging to stdout only",
			slog.String("file", path),
			slog.String("error", openErr.Error()))
	}

	return log, closeFn
}

func parseLevel(level string) slog.Level {

	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
