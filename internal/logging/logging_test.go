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

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input   string
		want    slog.Level
		wantErr bool
	}{
		{"", slog.LevelInfo, false},
		{"info", slog.LevelInfo, false},
		{"DEBUG", slog.LevelDebug, false},
		{"warn", slog.LevelWarn, false},
		{"warning", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"trace", slog.LevelInfo, true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseLevel(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNew(t *testing.T) {
	t.Run("writes json at level", func(t *testing.T) {
		var buf bytes.Buffer
		logger, err := New(&buf, "info")
		require.NoError(t, err)

		logger.Debug("hidden")
		logger.Info("listening", "addr", "0.0.0.0:8545")

		var entry map[string]interface{}
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		assert.Equal(t, "INFO", entry["level"])
		assert.Equal(t, "listening", entry["msg"])
		assert.Equal(t, "0.0.0.0:8545", entry["addr"])
	})

	t.Run("rejects unknown level", func(t *testing.T) {
		_, err := New(&bytes.Buffer{}, "loud")
		assert.Error(t, err)
	})
}

func TestHTTPErrorLog(t *testing.T) {
	t.Run("silent at info", func(t *testing.T) {
		var buf bytes.Buffer
		logger, err := New(&buf, "info")
		require.NoError(t, err)

		HTTPErrorLog(logger).Print("http: TLS handshake error")
		assert.Empty(t, buf.String())
	})

	t.Run("visible at debug", func(t *testing.T) {
		var buf bytes.Buffer
		logger, err := New(&buf, "debug")
		require.NoError(t, err)

		HTTPErrorLog(logger).Print("http: TLS handshake error")
		assert.Contains(t, buf.String(), "TLS handshake error")
	})
}

func TestComponentLogger(t *testing.T) {
	var buf bytes.Buffer
	inner := slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	logger := slog.New(inner)

	ComponentLogger(logger, "metrics").Info("started")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "metrics", entry["component"])
}

func TestDiscard(t *testing.T) {
	logger := Discard()
	assert.False(t, logger.Enabled(context.Background(), slog.LevelError))
}
