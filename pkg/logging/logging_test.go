package logging

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStructuredLogger(t *testing.T) {
	t.Run("creates JSON logger with proper configuration", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewStructuredLogger(&buf, slog.LevelInfo, "json")

		logger.Info("test message",
			slog.String("component", "board"),
			slog.Int("lines", 4))

		output := buf.String()
		assert.Contains(t, output, `"level":"INFO"`)
		assert.Contains(t, output, `"msg":"test message"`)
		assert.Contains(t, output, `"component":"board"`)
		assert.Contains(t, output, `"lines":4`)
	})

	t.Run("text format and level filtering", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewStructuredLogger(&buf, slog.LevelWarn, "text")

		logger.Info("info message")
		logger.Warn("warning message")

		output := buf.String()
		assert.NotContains(t, output, "info message")
		assert.Contains(t, output, "level=WARN")
		assert.Contains(t, output, `msg="warning message"`)
	})
}

func TestParseLevel(t *testing.T) {
	level, err := ParseLevel("debug")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)

	level, err = ParseLevel(" WARN ")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelWarn, level)

	_, err = ParseLevel("loud")
	assert.Error(t, err)
}

func TestLogHelpers(t *testing.T) {
	t.Run("LogError includes the error", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewStructuredLogger(&buf, slog.LevelInfo, "json")

		LogError(logger, "fetch failed", errors.New("timeout"), slog.String("stop", "Zürich, Brunaustrasse"))

		output := buf.String()
		assert.Contains(t, output, `"level":"ERROR"`)
		assert.Contains(t, output, `"error":"timeout"`)
		assert.Contains(t, output, `"stop":"Zürich, Brunaustrasse"`)
	})

	t.Run("LogOperation skips zero durations", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewStructuredLogger(&buf, slog.LevelInfo, "json")

		LogOperation(logger, "fetched", slog.Duration("duration", 0), slog.Int("lines", 2))
		assert.NotContains(t, buf.String(), "duration")

		buf.Reset()
		LogOperation(logger, "fetched", slog.Duration("duration", 150*time.Millisecond))
		assert.Contains(t, buf.String(), "duration")
	})

	t.Run("nil logger is ignored", func(t *testing.T) {
		assert.NotPanics(t, func() {
			LogError(nil, "x", errors.New("y"))
			LogOperation(nil, "x")
		})
	})
}

func TestContextLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewStructuredLogger(&buf, slog.LevelInfo, "json")

	ctx := WithLogger(context.Background(), logger)
	assert.Same(t, logger, FromContext(ctx))
	assert.Same(t, slog.Default(), FromContext(context.Background()))
}
