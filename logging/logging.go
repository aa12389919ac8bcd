// Package logging builds the structured logger used across the node and
// carries it through context.Context.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/najoast/actorpath/config"
)

// key is an unexported type to prevent collisions with context keys from other packages.
type key struct{}

// WithLogger returns a new context with the provided logger embedded.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, key{}, logger)
}

// FromContext extracts the slog.Logger from a context. If no logger is
// found, it returns slog.Default().
func FromContext(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(key{}).(*slog.Logger); ok {
		return logger
	}
	return slog.Default()
}

// Level maps a configured level onto slog. Unknown levels map to info.
func Level(level config.LogLevel) slog.Level {
	switch level {
	case config.LogLevelDebug:
		return slog.LevelDebug
	case config.LogLevelWarn:
		return slog.LevelWarn
	case config.LogLevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewWithWriter creates a logger writing to w. It does not set the
// global logger.
func NewWithWriter(cfg config.LogConfig, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: Level(cfg.Level)}

	var handler slog.Handler
	if cfg.Format == config.LogFormatJSON {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}

// New creates a logger for the configured output: "stdout", "stderr"
// or a file path, which is opened for appending. Debug mode in the app
// section lowers the level to debug. The returned closer releases the
// file and is a no-op for the standard streams.
func New(c *config.Config) (*slog.Logger, io.Closer, error) {
	cfg := c.Log
	if c.IsDebugEnabled() {
		cfg.Level = config.LogLevelDebug
	}

	switch cfg.Output {
	case "", "stderr":
		return NewWithWriter(cfg, os.Stderr), nopCloser{}, nil
	case "stdout":
		return NewWithWriter(cfg, os.Stdout), nopCloser{}, nil
	}

	f, err := os.OpenFile(cfg.Output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log output: %w", err)
	}
	return NewWithWriter(cfg, f), f, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
