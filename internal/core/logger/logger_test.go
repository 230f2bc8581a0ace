package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInfoContextAddsRequestID(t *testing.T) {
	var buf bytes.Buffer
	InitWriter(&buf, slog.LevelDebug, "json")
	t.Cleanup(func() { Init(slog.LevelInfo, "text") })

	var ctx context.Context
	h := middleware.RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx = r.Context()
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/news/feed", nil))

	InfoContext(ctx, "served", "endpoint", "news/feed")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "served", entry["msg"])
	assert.Equal(t, "news/feed", entry["endpoint"])
	assert.NotEmpty(t, entry["request_id"])
}

func TestLevelFilters(t *testing.T) {
	var buf bytes.Buffer
	InitWriter(&buf, slog.LevelWarn, "text")
	t.Cleanup(func() { Init(slog.LevelInfo, "text") })

	Info("hidden")
	Debug("hidden")
	assert.Empty(t, buf.String())

	Component("ratelimit").Warn("shown")
	assert.Contains(t, buf.String(), "component=ratelimit")
}
