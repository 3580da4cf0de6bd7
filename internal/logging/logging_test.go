package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLevel("debug"))
	assert.Equal(t, slog.LevelWarn, parseLevel("WARN"))
	assert.Equal(t, slog.LevelWarn, parseLevel("warning"))
	assert.Equal(t, slog.LevelError, parseLevel(" error "))
	assert.Equal(t, slog.LevelInfo, parseLevel("info"))
	assert.Equal(t, slog.LevelInfo, parseLevel("verbose"))
}

func TestNewLoggerWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, Options{Level: "warn"})

	logger.Info("dropped")
	logger.Warn("kept", "appointment_id", 7)

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "kept", rec["msg"])
	assert.Equal(t, "agenda", rec["service"])
	assert.EqualValues(t, 7, rec["appointment_id"])
}

func TestNewLoggerRedactsAccessCodes(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, Options{})

	logger.Info("login", "codigo", "acme-123", "user_id", 4)

	assert.NotContains(t, buf.String(), "acme-123")
	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, redacted, rec["codigo"])
	assert.EqualValues(t, 4, rec["user_id"])
}

func TestNewLoggerTextFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, Options{Format: "text"})

	logger.Info("started", "addr", ":8080")

	line := buf.String()
	assert.True(t, strings.Contains(line, "msg=started"), line)
	assert.Contains(t, line, "service=agenda")
}

func TestNewWithLogFile(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	path := filepath.Join(t.TempDir(), "agenda.log")
	logger, cleanup, err := New(Options{Level: "info", File: path})
	require.NoError(t, err)

	logger.Info("hello")
	cleanup()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"hello"`)
	assert.Same(t, logger, slog.Default())
}
