package tracing

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitWithoutEndpoint(t *testing.T) {
	shutdown, err := Init("datapulse-api", "test", "")
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
	assert.NotNil(t, Get())
}

func TestTracedSkipsHealthAndMetrics(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"/api/weather/london", true},
		{"/api/scrapers/scraper-001/start", true},
		{"/health/live", false},
		{"/health/ready", false},
		{"/metrics", false},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, traced(httptest.NewRequest(http.MethodGet, tt.path, nil)))
		})
	}
}

func TestStartScraperRun(t *testing.T) {
	ctx, span := StartScraperRun(context.Background(), "scraper-003")
	defer span.End()
	assert.NotNil(t, ctx)
}
