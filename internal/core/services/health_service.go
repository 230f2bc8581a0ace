package services

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type HealthStatus string

const (
	HealthStatusHealthy   HealthStatus = "healthy"
	HealthStatusUnhealthy HealthStatus = "unhealthy"
	HealthStatusDegraded  HealthStatus = "degraded"
	HealthStatusDisabled  HealthStatus = "disabled"
)

// ComponentHealth is the result of pinging one backing store.
type ComponentHealth struct {
	Status    HealthStatus `json:"status"`
	Message   string       `json:"message,omitempty"`
	Latency   string       `json:"latency,omitempty"`
	CheckedAt time.Time    `json:"checked_at"`
}

// HealthReport is served by /api/health/detailed.
type HealthReport struct {
	Status     HealthStatus               `json:"status"`
	Version    string                     `json:"version"`
	Uptime     string                     `json:"uptime"`
	CheckedAt  time.Time                  `json:"checked_at"`
	Components map[string]ComponentHealth `json:"components"`
}

const storePingTimeout = 5 * time.Second

type storeCheck struct {
	name string
	ping func(ctx context.Context) error // nil when the store is not configured
}

// HealthService pings the stores the API can run without: Postgres keeps the
// scraper run history and Redis backs the rate limiter and progress relay.
// Both fall back to memory, so a failing store degrades the report and an
// unconfigured one is reported as disabled.
type HealthService struct {
	checks  []storeCheck
	version string
	started time.Time
}

func NewHealthService(db *gorm.DB, redisClient *redis.Client, version string) *HealthService {
	if version == "" {
		version = "0.1.0"
	}

	runHistory := storeCheck{name: "postgres"}
	if db != nil {
		runHistory.ping = func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return fmt.Errorf("run history handle: %w", err)
			}
			return sqlDB.PingContext(ctx)
		}
	}

	limiterStore := storeCheck{name: "redis"}
	if redisClient != nil {
		limiterStore.ping = func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		}
	}

	return &HealthService{
		checks:  []storeCheck{runHistory, limiterStore},
		version: version,
		started: time.Now(),
	}
}

func (s *HealthService) CheckHealth(ctx context.Context) *HealthReport {
	report := &HealthReport{
		Status:     HealthStatusHealthy,
		Version:    s.version,
		Uptime:     time.Since(s.started).Round(time.Second).String(),
		CheckedAt:  time.Now(),
		Components: make(map[string]ComponentHealth, len(s.checks)),
	}
	for _, c := range s.checks {
		h := c.run(ctx)
		report.Components[c.name] = h
		if h.Status == HealthStatusUnhealthy {
			report.Status = HealthStatusDegraded
		}
	}
	return report
}

func (c storeCheck) run(ctx context.Context) ComponentHealth {
	if c.ping == nil {
		return ComponentHealth{Status: HealthStatusDisabled, CheckedAt: time.Now()}
	}

	ctx, cancel := context.WithTimeout(ctx, storePingTimeout)
	defer cancel()

	start := time.Now()
	err := c.ping(ctx)
	h := ComponentHealth{
		Status:    HealthStatusHealthy,
		Latency:   time.Since(start).String(),
		CheckedAt: time.Now(),
	}
	if err != nil {
		h.Status = HealthStatusUnhealthy
		h.Message = fmt.Sprintf("%s ping failed: %v", c.name, err)
	}
	return h
}

// Readiness is the plain-text answer of /health/ready. A degraded API keeps
// serving demo data, so only an unhealthy one reports 503.
func (s *HealthService) Readiness(ctx context.Context) (string, int) {
	switch s.CheckHealth(ctx).Status {
	case HealthStatusHealthy:
		return "ok", http.StatusOK
	case HealthStatusDegraded:
		return "degraded", http.StatusOK
	default:
		return "unhealthy", http.StatusServiceUnavailable
	}
}
