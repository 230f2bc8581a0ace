package ports

import (
	"context"

	"datapulse.api/internal/core/domain"
)

// RunRepository persists scraper run summaries.
type RunRepository interface {
	Create(ctx context.Context, run *domain.ScraperRun) error
	Update(ctx context.Context, run *domain.ScraperRun) error
	ListByScraper(ctx context.Context, scraperID string, limit int) ([]*domain.ScraperRun, error)
}

// ProgressPublisher receives every step of every scraper run.
type ProgressPublisher interface {
	PublishProgress(ctx context.Context, p domain.ScraperProgress) error
}

// ProgressSubscriber is the consuming side of a shared progress channel.
type ProgressSubscriber interface {
	SubscribeProgress(ctx context.Context) (<-chan domain.ScraperProgress, error)
}

// RateLimiter admits or rejects a request from ip to endpoint and records
// admitted requests.
type RateLimiter interface {
	Allow(ctx context.Context, ip, endpoint string) (bool, error)
}
