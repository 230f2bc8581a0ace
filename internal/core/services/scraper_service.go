package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"datapulse.api/internal/core/domain"
	"datapulse.api/internal/core/logger"
	"datapulse.api/internal/core/ports"
	"datapulse.api/internal/core/tracing"
)

const (
	fetchPages       = 5
	defaultStepDelay = 500 * time.Millisecond
)

// ErrRunAborted reports that the consumer of a run stopped accepting steps.
var ErrRunAborted = errors.New("scraper run aborted by consumer")

// EmitFunc receives each progress step of a run. Returning an error aborts
// the run.
type EmitFunc func(domain.ScraperProgress) error

// ScraperService simulates scraper runs and fans their progress out.
type ScraperService struct {
	runs       ports.RunRepository
	publishers []ports.ProgressPublisher
	interval   time.Duration

	mu  sync.Mutex
	rng *rand.Rand
}

func NewScraperService(runs ports.RunRepository, interval time.Duration, publishers ...ports.ProgressPublisher) *ScraperService {
	if interval <= 0 {
		interval = defaultStepDelay
	}
	return &ScraperService{
		runs:       runs,
		publishers: publishers,
		interval:   interval,
		rng:        rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
}

type runStep struct {
	message string
	records int
}

func buildSteps(name string, total int) []runStep {
	steps := []runStep{
		{fmt.Sprintf("Initializing %s...", name), 0},
		{"Connecting to data source...", 0},
		{"Authenticating session...", 0},
	}
	for page := 1; page <= fetchPages; page++ {
		steps = append(steps, runStep{fmt.Sprintf("Fetching page %d/%d...", page, fetchPages), total * page / fetchPages})
	}
	return append(steps,
		runStep{fmt.Sprintf("Processing %d records...", total), total},
		runStep{"Validating data integrity...", total},
		runStep{fmt.Sprintf("Complete: %d new records stored", total), total},
	)
}

// Run plays one scraper run, handing every step to emit and then to the
// publishers, waiting the configured interval between steps. It returns the
// stored run summary.
func (s *ScraperService) Run(ctx context.Context, scraperID string, emit EmitFunc) (*domain.ScraperRun, error) {
	ctx, span := tracing.StartScraperRun(ctx, scraperID)
	defer span.End()

	log := logger.WithContext(ctx).With("component", "scraper", "scraper_id", scraperID)
	name, _ := ScraperName(scraperID)

	s.mu.Lock()
	total := 150 + s.rng.IntN(250)
	s.mu.Unlock()

	run := &domain.ScraperRun{
		ID:        uuid.NewString(),
		ScraperID: scraperID,
		Status:    domain.RunStatusRunning,
		StartedAt: time.Now().UTC(),
	}
	span.SetAttributes(attribute.String("run.id", run.ID))

	if s.runs != nil {
		if err := s.runs.Create(ctx, run); err != nil {
			log.Warn("Failed to record scraper run", "error", err)
		}
	}

	scraperRunsActive.Inc()
	defer scraperRunsActive.Dec()

	log.Info("Scraper run started", "run_id", run.ID, "records", total)

	steps := buildSteps(name, total)
	err := s.play(ctx, run, steps, emit)

	finished := time.Now().UTC()
	run.FinishedAt = &finished
	if err != nil {
		run.Status = domain.RunStatusFailed
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		log.Warn("Scraper run stopped", "run_id", run.ID, "error", err)
	} else {
		run.Status = domain.RunStatusComplete
		run.RecordsFound = total
		scraperRecordsFound.WithLabelValues(scraperID).Add(float64(total))
		log.Info("Scraper run complete", "run_id", run.ID, "records", total)
	}
	scraperRunsTotal.WithLabelValues(scraperID, string(run.Status)).Inc()
	scraperRunDuration.Observe(finished.Sub(run.StartedAt).Seconds())

	if s.runs != nil {
		// The request context may already be gone; the summary is still stored.
		if uerr := s.runs.Update(context.WithoutCancel(ctx), run); uerr != nil {
			log.Warn("Failed to update scraper run", "error", uerr)
		}
	}
	return run, err
}

func (s *ScraperService) play(ctx context.Context, run *domain.ScraperRun, steps []runStep, emit EmitFunc) error {
	for i, st := range steps {
		n := i + 1
		p := domain.ScraperProgress{
			ScraperID:       run.ScraperID,
			RunID:           run.ID,
			Step:            n,
			TotalSteps:      len(steps),
			Message:         st.message,
			ProgressPercent: math.Round(float64(n) / float64(len(steps)) * 100),
			RecordsFound:    st.records,
			Status:          domain.RunStatusRunning,
		}
		if n == len(steps) {
			p.Status = domain.RunStatusComplete
		}

		if emit != nil {
			if err := emit(p); err != nil {
				return fmt.Errorf("%w: %v", ErrRunAborted, err)
			}
		}
		s.publish(ctx, p)

		if n == len(steps) {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(s.interval):
		}
	}
	return nil
}

func (s *ScraperService) publish(ctx context.Context, p domain.ScraperProgress) {
	for _, pub := range s.publishers {
		if err := pub.PublishProgress(ctx, p); err != nil {
			logger.WarnContext(ctx, "Failed to publish scraper progress", "run_id", p.RunID, "error", err)
		}
	}
}

// Runs lists the most recent runs of a scraper, newest first.
func (s *ScraperService) Runs(ctx context.Context, scraperID string, limit int) ([]*domain.ScraperRun, error) {
	if limit <= 0 || limit > maxRunsPerScraper {
		limit = maxRunsPerScraper
	}
	if s.runs == nil {
		return []*domain.ScraperRun{}, nil
	}
	return s.runs.ListByScraper(ctx, scraperID, limit)
}
