// Package scrape orchestrates a scraping run end to end: record the run,
// normalize the stored config, execute the scrape, ingest the results and
// record the outcome.
package scrape

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/jonesrussell/gojobs/internal/events"
	"github.com/jonesrussell/gojobs/internal/logger"
	"github.com/jonesrussell/gojobs/internal/metrics"
	"github.com/jonesrussell/gojobs/internal/models"
	"github.com/jonesrussell/gojobs/internal/scraper"
)

// failTimeout bounds the terminal status write when the request context is
// already dead (panic, cancellation).
const failTimeout = 10 * time.Second

// ConfigStore is the slice of the config repository the orchestrator needs.
type ConfigStore interface {
	GetByID(ctx context.Context, id string) (*models.ScrapingConfig, error)
}

// RunStore records run lifecycle transitions.
type RunStore interface {
	Start(ctx context.Context, configID string) (*models.ScrapingRun, error)
	Complete(ctx context.Context, runID string, jobsFound, jobsSaved, durationSeconds int) error
	Fail(ctx context.Context, runID, errorMessage string) error
}

// JobStore ingests canonical job rows.
type JobStore interface {
	UpsertBatch(ctx context.Context, jobs []models.Job) (int, error)
}

// Executor calls the external scraping backend.
type Executor interface {
	Execute(ctx context.Context, payload *scraper.ScrapeRequest) (*scraper.ScrapeResult, error)
}

// Publisher emits run lifecycle events. May be a nil *events.Publisher.
type Publisher interface {
	PublishAsync(event events.RunEvent)
}

type Service struct {
	configs   ConfigStore
	runs      RunStore
	jobs      JobStore
	executor  Executor
	publisher Publisher
	metrics   *metrics.Metrics
	logger    logger.Logger
}

func NewService(
	configs ConfigStore,
	runs RunStore,
	jobs JobStore,
	executor Executor,
	publisher Publisher,
	m *metrics.Metrics,
	log logger.Logger,
) *Service {
	return &Service{
		configs:   configs,
		runs:      runs,
		jobs:      jobs,
		executor:  executor,
		publisher: publisher,
		metrics:   m,
		logger:    log,
	}
}

// Execute runs one scrape for the given config.
//
// The run row is inserted in running state before anything else happens and
// is guaranteed exactly one terminal transition: completed on success, failed
// on any error, including panics out of the executor or ingestor. Config
// validation failures abort before the backend is ever called.
func (s *Service) Execute(ctx context.Context, configID string) (result *models.RunResult, err error) {
	run, err := s.runs.Start(ctx, configID)
	if err != nil {
		return nil, fmt.Errorf("start scraping run: %w", err)
	}

	if s.metrics != nil {
		s.metrics.RunsStarted.Inc()
	}
	s.publisher.PublishAsync(events.RunEvent{
		Event:            events.EventRunStarted,
		RunID:            run.ID,
		ScrapingConfigID: configID,
	})

	defer func() {
		if r := recover(); r != nil {
			s.recordFailure(run, fmt.Sprintf("panic during scraping run: %v", r))
			err = fmt.Errorf("scraping run panicked: %v", r)
		}
	}()

	cfg, err := s.configs.GetByID(ctx, configID)
	if err != nil {
		s.recordFailure(run, "Scraping config not found")
		return nil, fmt.Errorf("load scraping config: %w", err)
	}

	if len(cfg.Sites) == 0 {
		s.logger.Warn("Config has no sites, defaulting to indeed",
			logger.String("config_id", configID),
		)
	}

	payload, err := scraper.Normalize(cfg)
	if err != nil {
		s.recordFailure(run, err.Error())
		return nil, fmt.Errorf("normalize scraping config: %w", err)
	}

	scrapeResult, err := s.executor.Execute(ctx, payload)
	if err != nil {
		s.recordFailure(run, resolveErrorMessage(err))
		return nil, fmt.Errorf("execute scrape: %w", err)
	}

	if s.metrics != nil {
		s.metrics.JobsFound.Add(float64(len(scrapeResult.Jobs)))
		s.metrics.ScrapeDuration.Observe(scrapeResult.ScrapingTimeSeconds)
	}

	jobs := scraper.MapJobs(configID, payload.SiteName, scrapeResult.Jobs)
	saved, err := s.jobs.UpsertBatch(ctx, jobs)
	if err != nil {
		s.recordFailure(run, fmt.Sprintf("Failed to save jobs: %v", err))
		return nil, fmt.Errorf("ingest jobs: %w", err)
	}

	duration := int(math.Round(scrapeResult.ScrapingTimeSeconds))
	if err := s.runs.Complete(ctx, run.ID, len(scrapeResult.Jobs), saved, duration); err != nil {
		return nil, fmt.Errorf("complete scraping run: %w", err)
	}

	if s.metrics != nil {
		s.metrics.RunsCompleted.Inc()
		s.metrics.JobsSaved.Add(float64(saved))
	}
	s.publisher.PublishAsync(events.RunEvent{
		Event:            events.EventRunCompleted,
		RunID:            run.ID,
		ScrapingConfigID: configID,
		JobsFound:        len(scrapeResult.Jobs),
		JobsSaved:        saved,
		DurationSeconds:  duration,
	})

	s.logger.Info("Scraping run completed",
		logger.String("run_id", run.ID),
		logger.String("config_id", configID),
		logger.Int("jobs_found", len(scrapeResult.Jobs)),
		logger.Int("jobs_saved", saved),
		logger.Int("duration_seconds", duration),
	)

	return &models.RunResult{
		RunID:           run.ID,
		JobsFound:       len(scrapeResult.Jobs),
		JobsSaved:       saved,
		DurationSeconds: duration,
		ScrapingSeconds: scrapeResult.ScrapingTimeSeconds,
	}, nil
}

// recordFailure marks the run failed and emits telemetry. A failure of the
// Fail call itself is logged and swallowed; the original error matters more.
func (s *Service) recordFailure(run *models.ScrapingRun, message string) {
	ctx, cancel := context.WithTimeout(context.Background(), failTimeout)
	defer cancel()

	if err := s.runs.Fail(ctx, run.ID, message); err != nil {
		s.logger.Error("Failed to mark scraping run as failed",
			logger.String("run_id", run.ID),
			logger.Error(err),
		)
	}

	if s.metrics != nil {
		s.metrics.RunsFailed.Inc()
	}
	s.publisher.PublishAsync(events.RunEvent{
		Event:            events.EventRunFailed,
		RunID:            run.ID,
		ScrapingConfigID: run.ScrapingConfigID,
		ErrorMessage:     message,
	})

	s.logger.Warn("Scraping run failed",
		logger.String("run_id", run.ID),
		logger.String("config_id", run.ScrapingConfigID),
		logger.String("error", message),
	)
}

// resolveErrorMessage prefers the backend's joined validation errors over the
// generic error text so the stored message is actionable.
func resolveErrorMessage(err error) string {
	var scrapeErr *scraper.ScrapeError
	if errors.As(err, &scrapeErr) {
		return scrapeErr.Message()
	}
	return err.Error()
}
