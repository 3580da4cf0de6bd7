package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Options selects where and how the agenda server logs.
type Options struct {
	Level  string // debug, info, warn or error
	Format string // json or text
	File   string // optional file appended to alongside stderr
}

// secretKeys are attribute keys whose values never reach the log output.
var secretKeys = map[string]bool{
	"codigo":      true,
	"access_code": true,
	"password":    true,
}

const redacted = "[REDACTED]"

// New builds the process logger from opts and installs it as the slog default.
// The returned cleanup closes the log file, if one was opened.
func New(opts Options) (*slog.Logger, func(), error) {
	out := io.Writer(os.Stderr)
	cleanup := func() {}

	if opts.File != "" {
		f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
		if err != nil {
			return nil, nil, err
		}
		out = io.MultiWriter(os.Stderr, f)
		cleanup = func() { _ = f.Close() }
	}

	logger := newLogger(out, opts)
	slog.SetDefault(logger)
	return logger, cleanup, nil
}

func newLogger(w io.Writer, opts Options) *slog.Logger {
	ho := &slog.HandlerOptions{
		Level:       parseLevel(opts.Level),
		ReplaceAttr: redact,
	}
	var h slog.Handler
	if strings.EqualFold(opts.Format, "text") {
		h = slog.NewTextHandler(w, ho)
	} else {
		h = slog.NewJSONHandler(w, ho)
	}
	return slog.New(h).With("service", "agenda")
}

func redact(_ []string, a slog.Attr) slog.Attr {
	if secretKeys[strings.ToLower(a.Key)] {
		return slog.String(a.Key, redacted)
	}
	return a
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
