package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/najoast/actorpath/config"
)

func TestNewWithWriterFormats(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(config.LogConfig{Level: config.LogLevelInfo, Format: config.LogFormatJSON}, &buf)

	logger.Debug("hidden")
	logger.Info("allocated", "path", "akka://sys/user")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	require.Equal(t, "allocated", record["msg"])
	require.Equal(t, "akka://sys/user", record["path"])

	buf.Reset()
	logger = NewWithWriter(config.LogConfig{Level: config.LogLevelDebug, Format: config.LogFormatText}, &buf)
	logger.Debug("visible")
	require.Contains(t, buf.String(), "msg=visible")
}

func TestLevel(t *testing.T) {
	tests := []struct {
		in   config.LogLevel
		want slog.Level
	}{
		{config.LogLevelDebug, slog.LevelDebug},
		{config.LogLevelInfo, slog.LevelInfo},
		{config.LogLevelWarn, slog.LevelWarn},
		{config.LogLevelError, slog.LevelError},
		{"verbose", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := Level(tt.in); got != tt.want {
			t.Errorf("Level(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNewFileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "node.log")
	cfg := config.DefaultConfig()
	cfg.Log.Output = path
	logger, closer, err := New(cfg)
	require.NoError(t, err)

	logger.Debug("hidden")
	logger.Info("started")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.True(t, strings.Contains(string(data), "msg=started"), "log file: %s", data)
	require.NotContains(t, string(data), "msg=hidden")
}

func TestNewDebugMode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "node.log")
	cfg := config.DefaultConfig()
	cfg.Log.Output = path
	cfg.Log.Level = config.LogLevelError
	cfg.App.Debug = true

	logger, closer, err := New(cfg)
	require.NoError(t, err)
	logger.Debug("visible")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "msg=visible")
}

func TestNewBadOutput(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Log.Output = filepath.Join(t.TempDir(), "missing", "node.log")
	_, _, err := New(cfg)
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestContextRoundTrip(t *testing.T) {
	require.Same(t, slog.Default(), FromContext(context.Background()))

	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	ctx := WithLogger(context.Background(), logger)
	require.Same(t, logger, FromContext(ctx))
}
