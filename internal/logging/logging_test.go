package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Formats(t *testing.T) {
	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		New(Config{Level: slog.LevelInfo, Format: FormatJSON, Output: &buf}).
			Info("scan complete", "files", 3)

		var parsed map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &parsed))
		assert.Equal(t, "scan complete", parsed["msg"])
		assert.Equal(t, "INFO", parsed["level"])
		assert.EqualValues(t, 3, parsed["files"])
	})

	t.Run("text", func(t *testing.T) {
		var buf bytes.Buffer
		New(Config{Level: slog.LevelInfo, Format: FormatText, Output: &buf}).
			Info("scan complete", "files", 3)

		assert.Contains(t, buf.String(), "INFO")
		assert.Contains(t, buf.String(), "scan complete files=3")
		assert.False(t, json.Valid(buf.Bytes()))
	})

	t.Run("unknown falls back to text", func(t *testing.T) {
		var buf bytes.Buffer
		New(Config{Level: slog.LevelInfo, Format: Format("xml"), Output: &buf}).Info("hello")

		assert.Contains(t, buf.String(), "hello")
		assert.False(t, json.Valid(buf.Bytes()))
	})

	t.Run("nil output", func(t *testing.T) {
		assert.NotNil(t, New(Config{}))
	})
}

func TestLevelFiltering(t *testing.T) {
	tests := []struct {
		name   string
		level  slog.Level
		logAt  slog.Level
		logged bool
	}{
		{"warn at warn", slog.LevelWarn, slog.LevelWarn, true},
		{"info at warn", slog.LevelWarn, slog.LevelInfo, false},
		{"debug at info", slog.LevelInfo, slog.LevelDebug, false},
		{"error at info", slog.LevelInfo, slog.LevelError, true},
		{"trace at debug", slog.LevelDebug, LevelTrace, false},
		{"trace at trace", LevelTrace, LevelTrace, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := New(Config{Level: tt.level, Output: &buf})

			logger.Log(context.Background(), tt.logAt, "message")

			assert.Equal(t, tt.logged, buf.Len() > 0, "output: %q", buf.String())
		})
	}
}

func TestHandler_TraceLabel(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: LevelTrace, Output: &buf})

	logger.Log(context.Background(), LevelTrace, "resolving schema")

	assert.Contains(t, buf.String(), "TRACE resolving schema")
}

func TestLevelFromVerbosity(t *testing.T) {
	tests := []struct {
		verbosity int
		want      slog.Level
	}{
		{-1, slog.LevelWarn},
		{0, slog.LevelWarn},
		{1, slog.LevelInfo},
		{2, slog.LevelDebug},
		{3, LevelTrace},
		{4, LevelTrace},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, LevelFromVerbosity(tt.verbosity), "verbosity %d", tt.verbosity)
	}
	assert.True(t, LevelTrace < slog.LevelDebug)
}

func TestContext(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: slog.LevelInfo, Output: &buf})

	ctx := NewContext(context.Background(), logger)
	assert.Same(t, logger, FromContext(ctx))

	assert.Same(t, slog.Default(), FromContext(context.Background()))
	//nolint:staticcheck // nil context is tolerated
	assert.Same(t, slog.Default(), FromContext(nil))
}

func TestMultiHandler(t *testing.T) {
	var text, js bytes.Buffer
	h := NewMultiHandler(
		NewHandler(&text, &slog.HandlerOptions{Level: slog.LevelWarn}),
		slog.NewJSONHandler(&js, &slog.HandlerOptions{Level: slog.LevelDebug}),
	)
	logger := slog.New(h).With("run", 1)

	logger.Debug("only json")
	logger.Warn("both")

	assert.NotContains(t, text.String(), "only json")
	assert.Contains(t, text.String(), "both run=1")
	assert.Contains(t, js.String(), "only json")
	assert.Contains(t, js.String(), `"run":1`)
	assert.True(t, h.Enabled(context.Background(), slog.LevelDebug))
}

func TestNewDiscard(t *testing.T) {
	logger := NewDiscard()
	assert.False(t, logger.Enabled(context.Background(), slog.LevelError+4))
	logger.Error("dropped")
}

func TestForTest(t *testing.T) {
	logger := ForTest(t)
	require.NotNil(t, logger)
	assert.True(t, logger.Enabled(context.Background(), LevelTrace))
	logger.Info("visible with -v", "test", t.Name())
}

func TestTestWriter_ReportsFullLength(t *testing.T) {
	tw := &testWriter{t: t}

	for _, in := range []string{"line\n", "no newline", ""} {
		n, err := tw.Write([]byte(in))
		require.NoError(t, err)
		assert.Equal(t, len(in), n)
	}
}
