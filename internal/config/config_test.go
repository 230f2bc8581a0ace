package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("PORT", "")
	os.Unsetenv("PORT")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8081", cfg.Port)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Equal(t, DefaultRateLimit(), cfg.RateLimit)
	assert.Equal(t, 500*time.Millisecond, cfg.ScraperStepInterval)
	assert.Empty(t, cfg.RedisURL)
	assert.False(t, cfg.TrustProxyHeaders)
}

func TestLoadFileThenEnv(t *testing.T) {
	content := `
port: "9090"
redis_url: redis://cache:6379/1
log_level: debug
log_format: json
rate_limit:
  global_daily: 500
  endpoint_minute: 60
scraper_step_interval: 10ms
trust_proxy_headers: true
`
	dir := t.TempDir()
	path := filepath.Join(dir, "datapulse.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	t.Setenv("CONFIG_FILE", path)
	t.Setenv("PORT", "7070")
	t.Setenv("RATE_LIMIT_ENDPOINT_DAILY", "200")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "7070", cfg.Port, "env overrides file")
	assert.Equal(t, "redis://cache:6379/1", cfg.RedisURL)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, RateLimitConfig{GlobalDaily: 500, EndpointDaily: 200, EndpointMinute: 60}, cfg.RateLimit)
	assert.Equal(t, 10*time.Millisecond, cfg.ScraperStepInterval)
	assert.True(t, cfg.TrustProxyHeaders)
}

func TestLoadFileNotFound(t *testing.T) {
	t.Setenv("CONFIG_FILE", "/nonexistent/datapulse.yaml")
	_, err := Load()
	assert.Error(t, err)
}

func TestGetEnvIntRejectsGarbage(t *testing.T) {
	t.Setenv("RATE_LIMIT_GLOBAL_DAILY", "lots")
	assert.Equal(t, 50, getEnvInt("RATE_LIMIT_GLOBAL_DAILY", 50))
}
