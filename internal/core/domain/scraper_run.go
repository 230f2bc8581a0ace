package domain

import "time"

type RunStatus string

const (
	RunStatusRunning  RunStatus = "running"
	RunStatusComplete RunStatus = "complete"
	RunStatusFailed   RunStatus = "failed"
)

// ScraperProgress is one step of a scraper run, pushed to stream subscribers.
type ScraperProgress struct {
	ScraperID       string    `json:"scraper_id"`
	RunID           string    `json:"run_id"`
	Step            int       `json:"step"`
	TotalSteps      int       `json:"total_steps"`
	Message         string    `json:"message"`
	ProgressPercent float64   `json:"progress_percent"`
	RecordsFound    int       `json:"records_found"`
	Status          RunStatus `json:"status"`
}

func (p ScraperProgress) Validate() error {
	if p.TotalSteps <= 0 || p.Step < 1 || p.Step > p.TotalSteps {
		return fieldError("progress.step", "must be within [1,total_steps]")
	}
	switch p.Status {
	case RunStatusRunning, RunStatusComplete, RunStatusFailed:
	default:
		return fieldError("progress.status", "unknown run status "+string(p.Status))
	}
	return nil
}

// Done reports whether p is the last step of its run.
func (p ScraperProgress) Done() bool {
	return p.Status != RunStatusRunning
}

type ScraperRun struct {
	ID           string     `json:"id" gorm:"primaryKey;type:uuid"`
	ScraperID    string     `json:"scraper_id" gorm:"index"`
	Status       RunStatus  `json:"status"`
	RecordsFound int        `json:"records_found"`
	StartedAt    time.Time  `json:"started_at" gorm:"index"`
	FinishedAt   *time.Time `json:"finished_at,omitempty"`
}

func (ScraperRun) TableName() string {
	return "scraper_runs"
}
