package services

import (
	"context"
	"sync"

	"datapulse.api/internal/core/domain"
)

const maxRunsPerScraper = 50

// MemoryRunStore keeps the most recent runs of each scraper in memory. It is
// used when no database is configured.
type MemoryRunStore struct {
	mu   sync.RWMutex
	runs map[string][]domain.ScraperRun
}

func NewMemoryRunStore() *MemoryRunStore {
	return &MemoryRunStore{runs: make(map[string][]domain.ScraperRun)}
}

func (m *MemoryRunStore) Create(_ context.Context, run *domain.ScraperRun) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	list := append(m.runs[run.ScraperID], *run)
	if len(list) > maxRunsPerScraper {
		list = list[len(list)-maxRunsPerScraper:]
	}
	m.runs[run.ScraperID] = list
	return nil
}

func (m *MemoryRunStore) Update(ctx context.Context, run *domain.ScraperRun) error {
	m.mu.Lock()
	list := m.runs[run.ScraperID]
	for i := len(list) - 1; i >= 0; i-- {
		if list[i].ID == run.ID {
			list[i] = *run
			m.mu.Unlock()
			return nil
		}
	}
	m.mu.Unlock()
	return m.Create(ctx, run)
}

func (m *MemoryRunStore) ListByScraper(_ context.Context, scraperID string, limit int) ([]*domain.ScraperRun, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	list := m.runs[scraperID]
	out := make([]*domain.ScraperRun, 0, min(limit, len(list)))
	for i := len(list) - 1; i >= 0 && len(out) < limit; i-- {
		run := list[i]
		out = append(out, &run)
	}
	return out, nil
}
