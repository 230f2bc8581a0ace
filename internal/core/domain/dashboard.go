package domain

import (
	"fmt"
	"time"
)

type ScraperState string

const (
	ScraperStateRunning ScraperState = "running"
	ScraperStateIdle    ScraperState = "idle"
	ScraperStateError   ScraperState = "error"
	ScraperStatePaused  ScraperState = "paused"
)

// Valid reports whether s is one of the known scraper states.
func (s ScraperState) Valid() bool {
	switch s {
	case ScraperStateRunning, ScraperStateIdle, ScraperStateError, ScraperStatePaused:
		return true
	}
	return false
}

type ScraperStatus struct {
	ID              string       `json:"id"`
	Name            string       `json:"name"`
	Status          ScraperState `json:"status"`
	LastRun         time.Time    `json:"last_run"`
	SuccessRate     float64      `json:"success_rate"` // Percent, 0-100
	DataPoints      int64        `json:"data_points"`
	Category        string       `json:"category"`
	Schedule        string       `json:"schedule,omitempty"`
	AvgDurationSecs int          `json:"avg_duration_secs,omitempty"`
}

func (s ScraperStatus) Validate() error {
	if s.ID == "" {
		return fieldError("scraper.id", "must not be empty")
	}
	if !s.Status.Valid() {
		return fieldError("scraper.status", fmt.Sprintf("unknown state %q", s.Status))
	}
	if s.SuccessRate < 0 || s.SuccessRate > 100 {
		return fieldError("scraper.success_rate", "must be within [0,100]")
	}
	return nil
}

// ScraperStatuses is the body of /api/scrapers/status.
type ScraperStatuses []ScraperStatus

func (list ScraperStatuses) Validate() error {
	for i, s := range list {
		if err := s.Validate(); err != nil {
			return fmt.Errorf("scrapers[%d]: %w", i, err)
		}
	}
	return nil
}

// DashboardStats is an aggregate snapshot of every scraper.
type DashboardStats struct {
	TotalScrapers     int             `json:"total_scrapers"`
	ActiveScrapers    int             `json:"active_scrapers"`
	DataPoints        int64           `json:"data_points"`
	Uptime            int64           `json:"uptime"` // Seconds since the server started
	UptimePercent     float64         `json:"uptime_percent"`
	RequestsToday     int64           `json:"requests_today"`
	AvgResponseTimeMS int             `json:"avg_response_time_ms"`
	LastUpdated       time.Time       `json:"last_updated"`
	Scrapers          ScraperStatuses `json:"scrapers"`
}

func (d DashboardStats) Validate() error {
	if d.TotalScrapers < 0 || d.ActiveScrapers < 0 {
		return fieldError("dashboard.total_scrapers", "counts must not be negative")
	}
	if d.Uptime < 0 {
		return fieldError("dashboard.uptime", "must not be negative")
	}
	return d.Scrapers.Validate()
}
