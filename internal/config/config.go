package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	// Server
	Port string `yaml:"port"`

	// Optional backends; empty disables them
	RedisURL    string `yaml:"redis_url"`
	DatabaseURL string `yaml:"database_url"`
	MQTTBroker  string `yaml:"mqtt_broker"`

	// Logging
	LogLevel  slog.Level `yaml:"-"`
	LogFormat string     `yaml:"log_format"` // "json" or "text"

	// Tracing
	OTLPEndpoint string `yaml:"otlp_endpoint"`
	ServiceName  string `yaml:"service_name"`

	// Features
	EnableMetrics bool `yaml:"enable_metrics"`
	EnableTracing bool `yaml:"enable_tracing"`

	RateLimit RateLimitConfig `yaml:"rate_limit"`

	// Key the rate limiter on X-Forwarded-For / X-Real-IP instead of the peer
	TrustProxyHeaders bool `yaml:"trust_proxy_headers"`

	// Delay between two progress steps of a scraper run
	ScraperStepInterval time.Duration `yaml:"scraper_step_interval"`
}

// RateLimitConfig bounds requests per client IP.
type RateLimitConfig struct {
	GlobalDaily    int `yaml:"global_daily"`
	EndpointDaily  int `yaml:"endpoint_daily"`
	EndpointMinute int `yaml:"endpoint_minute"`
}

func DefaultRateLimit() RateLimitConfig {
	return RateLimitConfig{
		GlobalDaily:    50,
		EndpointDaily:  20,
		EndpointMinute: 5,
	}
}

func defaults() *Config {
	return &Config{
		Port:                "8081",
		LogFormat:           "text",
		ServiceName:         "datapulse-api",
		EnableMetrics:       true,
		RateLimit:           DefaultRateLimit(),
		ScraperStepInterval: 500 * time.Millisecond,
	}
}

// Load reads CONFIG_FILE (YAML) when set, then applies environment overrides.
func Load() (*Config, error) {
	cfg := defaults()
	logLevelStr := "info"

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		fileCfg, level, err := loadFile(path, cfg)
		if err != nil {
			return nil, err
		}
		cfg = fileCfg
		if level != "" {
			logLevelStr = level
		}
	}

	cfg.Port = getEnv("PORT", cfg.Port)
	cfg.RedisURL = getEnv("REDIS_URL", cfg.RedisURL)
	cfg.DatabaseURL = getEnv("DB_URL", cfg.DatabaseURL)
	cfg.MQTTBroker = getEnv("MQTT_BROKER", cfg.MQTTBroker)
	cfg.LogFormat = getEnv("LOG_FORMAT", cfg.LogFormat)
	cfg.OTLPEndpoint = getEnv("OTLP_ENDPOINT", cfg.OTLPEndpoint)
	cfg.ServiceName = getEnv("SERVICE_NAME", cfg.ServiceName)
	cfg.EnableMetrics = getEnvBool("ENABLE_METRICS", cfg.EnableMetrics)
	cfg.EnableTracing = getEnvBool("ENABLE_TRACING", cfg.EnableTracing)
	cfg.TrustProxyHeaders = getEnvBool("TRUST_PROXY_HEADERS", cfg.TrustProxyHeaders)
	cfg.RateLimit.GlobalDaily = getEnvInt("RATE_LIMIT_GLOBAL_DAILY", cfg.RateLimit.GlobalDaily)
	cfg.RateLimit.EndpointDaily = getEnvInt("RATE_LIMIT_ENDPOINT_DAILY", cfg.RateLimit.EndpointDaily)
	cfg.RateLimit.EndpointMinute = getEnvInt("RATE_LIMIT_ENDPOINT_MINUTE", cfg.RateLimit.EndpointMinute)
	cfg.ScraperStepInterval = getEnvDuration("SCRAPER_STEP_INTERVAL", cfg.ScraperStepInterval)

	cfg.LogLevel = parseLevel(getEnv("LOG_LEVEL", logLevelStr))

	return cfg, nil
}

// fileConfig mirrors Config for YAML, keeping the level as text.
type fileConfig struct {
	Config   `yaml:",inline"`
	LogLevel string `yaml:"log_level"`
}

func loadFile(path string, base *Config) (*Config, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("read config: %w", err)
	}
	fc := fileConfig{Config: *base}
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, "", fmt.Errorf("parse config: %w", err)
	}
	return &fc.Config, fc.LogLevel, nil
}

func parseLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.ParseBool(value)
		if err != nil {
			return defaultValue
		}
		return parsed
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil || parsed <= 0 {
			return defaultValue
		}
		return parsed
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		parsed, err := time.ParseDuration(value)
		if err != nil || parsed < 0 {
			return defaultValue
		}
		return parsed
	}
	return defaultValue
}
