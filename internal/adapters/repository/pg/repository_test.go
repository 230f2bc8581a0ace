package pg

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"datapulse.api/internal/core/domain"
)

// Needs a disposable Postgres database in TEST_DATABASE_URL.
func TestRepositoryRoundTrip(t *testing.T) {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	repo, err := NewRepository(dsn)
	require.NoError(t, err)
	ctx := context.Background()
	scraperID := "scraper-test-" + uuid.NewString()[:8]

	older := &domain.ScraperRun{ID: uuid.NewString(), ScraperID: scraperID, Status: domain.RunStatusRunning, StartedAt: time.Now().Add(-time.Minute).UTC()}
	newer := &domain.ScraperRun{ID: uuid.NewString(), ScraperID: scraperID, Status: domain.RunStatusRunning, StartedAt: time.Now().UTC()}
	require.NoError(t, repo.Create(ctx, older))
	require.NoError(t, repo.Create(ctx, newer))

	finished := time.Now().UTC()
	newer.Status = domain.RunStatusComplete
	newer.RecordsFound = 321
	newer.FinishedAt = &finished
	require.NoError(t, repo.Update(ctx, newer))

	runs, err := repo.ListByScraper(ctx, scraperID, 10)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, newer.ID, runs[0].ID)
	assert.Equal(t, domain.RunStatusComplete, runs[0].Status)
	assert.Equal(t, 321, runs[0].RecordsFound)
	assert.NotNil(t, runs[0].FinishedAt)

	runs, err = repo.ListByScraper(ctx, scraperID, 1)
	require.NoError(t, err)
	assert.Len(t, runs, 1)

	require.NoError(t, repo.DB().Where("scraper_id = ?", scraperID).Delete(&domain.ScraperRun{}).Error)
}
