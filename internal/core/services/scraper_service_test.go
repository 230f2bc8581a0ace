package services

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"datapulse.api/internal/core/domain"
)

type capturePublisher struct {
	mu    sync.Mutex
	steps []domain.ScraperProgress
	err   error
}

func (c *capturePublisher) PublishProgress(_ context.Context, p domain.ScraperProgress) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.steps = append(c.steps, p)
	return c.err
}

func TestScraperRunSteps(t *testing.T) {
	store := NewMemoryRunStore()
	pub := &capturePublisher{}
	failing := &capturePublisher{err: errors.New("broker down")}
	svc := NewScraperService(store, time.Millisecond, pub, failing)

	var got []domain.ScraperProgress
	run, err := svc.Run(context.Background(), "scraper-003", func(p domain.ScraperProgress) error {
		got = append(got, p)
		return nil
	})
	require.NoError(t, err)
	require.Len(t, got, 11)

	assert.Equal(t, "Initializing News Aggregator...", got[0].Message)
	assert.Equal(t, "Fetching page 1/5...", got[3].Message)
	assert.Equal(t, "Validating data integrity...", got[9].Message)

	total := run.RecordsFound
	assert.GreaterOrEqual(t, total, 150)
	assert.Less(t, total, 400)
	assert.Equal(t, total/5, got[3].RecordsFound)
	assert.Equal(t, total*3/5, got[5].RecordsFound)
	assert.Equal(t, total, got[7].RecordsFound)

	for i, p := range got {
		require.NoError(t, p.Validate())
		assert.Equal(t, i+1, p.Step)
		assert.Equal(t, 11, p.TotalSteps)
		assert.Equal(t, run.ID, p.RunID)
		if i < 10 {
			assert.Equal(t, domain.RunStatusRunning, p.Status)
		}
	}
	assert.Equal(t, float64(9), got[0].ProgressPercent)
	assert.Equal(t, float64(100), got[10].ProgressPercent)
	assert.Equal(t, domain.RunStatusComplete, got[10].Status)
	assert.Equal(t, "Complete: "+strconv.Itoa(total)+" new records stored", got[10].Message)

	assert.Equal(t, got, pub.steps, "publishers see every step even when a sibling fails")
	assert.Len(t, failing.steps, 11)

	runs, err := svc.Runs(context.Background(), "scraper-003", 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, domain.RunStatusComplete, runs[0].Status)
	assert.NotNil(t, runs[0].FinishedAt)
}

func TestScraperRunUnknownScraper(t *testing.T) {
	svc := NewScraperService(nil, time.Millisecond)

	var first domain.ScraperProgress
	_, err := svc.Run(context.Background(), "scraper-404", func(p domain.ScraperProgress) error {
		if p.Step == 1 {
			first = p
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "Initializing Unknown Scraper...", first.Message)
}

func TestScraperRunAbortedByConsumer(t *testing.T) {
	store := NewMemoryRunStore()
	svc := NewScraperService(store, time.Millisecond)

	run, err := svc.Run(context.Background(), "scraper-001", func(p domain.ScraperProgress) error {
		if p.Step == 3 {
			return errors.New("broken pipe")
		}
		return nil
	})
	require.ErrorIs(t, err, ErrRunAborted)
	assert.Equal(t, domain.RunStatusFailed, run.Status)
	assert.Zero(t, run.RecordsFound)

	runs, _ := store.ListByScraper(context.Background(), "scraper-001", 5)
	require.Len(t, runs, 1)
	assert.Equal(t, domain.RunStatusFailed, runs[0].Status)
}

func TestScraperRunContextCancelled(t *testing.T) {
	svc := NewScraperService(nil, time.Hour)
	ctx, cancel := context.WithCancel(context.Background())

	steps := 0
	_, err := svc.Run(ctx, "scraper-002", func(domain.ScraperProgress) error {
		steps++
		cancel()
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, steps)
}

func TestMemoryRunStoreKeepsNewest(t *testing.T) {
	store := NewMemoryRunStore()
	ctx := context.Background()

	for i := 0; i < maxRunsPerScraper+5; i++ {
		require.NoError(t, store.Create(ctx, &domain.ScraperRun{ID: strconv.Itoa(i), ScraperID: "s"}))
	}

	runs, err := store.ListByScraper(ctx, "s", 100)
	require.NoError(t, err)
	require.Len(t, runs, maxRunsPerScraper)
	assert.Equal(t, strconv.Itoa(maxRunsPerScraper+4), runs[0].ID)
	assert.Equal(t, "5", runs[len(runs)-1].ID)

	runs, _ = store.ListByScraper(ctx, "s", 3)
	assert.Len(t, runs, 3)

	runs, _ = store.ListByScraper(ctx, "other", 3)
	assert.Empty(t, runs)
}
