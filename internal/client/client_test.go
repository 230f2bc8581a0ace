package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"datapulse.api/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func jsonServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		fmt.Fprint(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	c, err := New(baseURL)
	require.NoError(t, err)
	return c
}

func TestNew_RejectsRelativeBase(t *testing.T) {
	for _, base := range []string{"", "/api", "localhost:8081"} {
		_, err := New(base)
		assert.Error(t, err, "base %q", base)
	}

	c, err := New("http://localhost:8081/")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8081", c.BaseURL())
}

func TestFetch_Success(t *testing.T) {
	var gotPath, gotAccept string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAccept = r.Header.Get("Accept")
		fmt.Fprint(w, `{"total_scrapers": 5, "active_scrapers": 3, "uptime": 120, "scrapers": []}`)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	stats, err := Fetch[domain.DashboardStats](context.Background(), c, "/api/stats")
	require.NoError(t, err)

	assert.Equal(t, 5, stats.TotalScrapers)
	assert.Equal(t, 3, stats.ActiveScrapers)
	assert.Equal(t, int64(120), stats.Uptime)
	assert.Equal(t, "/api/stats", gotPath)
	assert.Equal(t, "application/json", gotAccept)
}

func TestFetch_UntypedBody(t *testing.T) {
	srv := jsonServer(t, http.StatusOK, `{"total_scrapers": 5, "extra": [1, 2]}`)
	c := newTestClient(t, srv.URL)

	got, err := Fetch[map[string]any](context.Background(), c, "/api/stats")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"total_scrapers": float64(5), "extra": []any{float64(1), float64(2)}}, got)
}

func TestFetch_NonSuccessStatus(t *testing.T) {
	tests := []struct {
		name   string
		status int
	}{
		{"not found", http.StatusNotFound},
		{"too many requests", http.StatusTooManyRequests},
		{"internal error", http.StatusInternalServerError},
		{"unavailable", http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := jsonServer(t, tt.status, `{"error": "ignored"}`)
			c := newTestClient(t, srv.URL)

			_, err := Fetch[domain.DashboardStats](context.Background(), c, "/api/stats")
			require.Error(t, err)

			var apiErr *APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tt.status, apiErr.StatusCode)
			assert.Equal(t, "/api/stats", apiErr.Endpoint)
			assert.Contains(t, err.Error(), fmt.Sprint(tt.status))
		})
	}
}

func TestFetch_MalformedBody(t *testing.T) {
	srv := jsonServer(t, http.StatusOK, `{"total_scrapers": `)
	c := newTestClient(t, srv.URL)

	_, err := Fetch[domain.DashboardStats](context.Background(), c, "/api/stats")
	assert.ErrorIs(t, err, ErrDecode)
}

func TestFetch_InvalidPayload(t *testing.T) {
	srv := jsonServer(t, http.StatusOK, `[{"id": "scraper-001", "status": "exploded", "success_rate": 99}]`)
	c := newTestClient(t, srv.URL)

	_, err := c.ScraperStatuses(context.Background())
	require.ErrorIs(t, err, ErrInvalidPayload)

	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "scraper.status", verr.Field)
}

func TestFetch_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	c := newTestClient(t, base)
	_, err := Fetch[domain.NewsFeed](context.Background(), c, "/api/news/feed")
	require.Error(t, err)

	var apiErr *APIError
	assert.False(t, errors.As(err, &apiErr))
}

func TestFetch_ContextCancelled(t *testing.T) {
	srv := jsonServer(t, http.StatusOK, `{}`)
	c := newTestClient(t, srv.URL)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Fetch[domain.NewsFeed](ctx, c, "/api/news/feed")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestTypedHelpers_EscapePathParams(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		fmt.Fprint(w, `{"city": "New York", "forecast": []}`)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	w, err := c.Weather(context.Background(), "new york")
	require.NoError(t, err)
	assert.Equal(t, "New York", w.City)
	assert.Equal(t, "/api/weather/new%20york", gotPath)
}
