package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	return entry
}

func TestNew_AddsContextValues(t *testing.T) {
	var buf bytes.Buffer
	l := New(&LogConfig{Level: "debug", Format: "json", Output: &buf, ServiceName: "pos-api"})

	ctx := WithRequestID(context.Background(), "req-1")
	ctx = WithUserID(ctx, 7)
	l.InfoContext(ctx, "cart updated", slog.Int64("order_id", 3))

	entry := decode(t, &buf)
	assert.Equal(t, "cart updated", entry["msg"])
	assert.Equal(t, "INFO", entry["severity"])
	assert.Equal(t, "req-1", entry["request_id"])
	assert.Equal(t, float64(7), entry["user_id"])
	assert.Equal(t, float64(3), entry["order_id"])
	assert.Equal(t, "pos-api", entry["service"])
}

func TestNew_RedactsSecrets(t *testing.T) {
	var buf bytes.Buffer
	l := New(&LogConfig{Level: "info", Format: "json", Output: &buf})

	l.With(slog.String("jwt_secret", "abc")).Info("login attempt password=hunter2",
		slog.String("password", "hunter2"),
		slog.String("header", "Authorization: Bearer xyz"))

	out := buf.String()
	assert.NotContains(t, out, "hunter2")
	assert.NotContains(t, out, "abc")
	assert.NotContains(t, out, "xyz")
	assert.Contains(t, out, redacted)
}

func TestNew_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(&LogConfig{Level: "warn", Format: "json", Output: &buf})

	l.Info("hidden")
	assert.Zero(t, buf.Len())

	l.Warn("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestPrettyTextHandler(t *testing.T) {
	var buf bytes.Buffer
	l := New(&LogConfig{Level: "debug", Format: "text", Output: &buf})

	l.With(slog.String("repository", "cart")).Debug("reserved", slog.Int("amount", 4))

	out := buf.String()
	assert.Contains(t, out, "reserved")
	assert.Contains(t, out, "repository")
	assert.Contains(t, out, "amount")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("nonsense"))
}

func TestUserID(t *testing.T) {
	_, ok := UserID(context.Background())
	assert.False(t, ok)

	id, ok := UserID(WithUserID(context.Background(), 42))
	assert.True(t, ok)
	assert.Equal(t, int64(42), id)
	assert.Equal(t, "", RequestID(context.Background()))
}
