// Package scheduler drives the periodic scrape of active configs and the
// stale-run reconciliation sweep.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/jonesrussell/gojobs/internal/config"
	"github.com/jonesrussell/gojobs/internal/logger"
	"github.com/jonesrussell/gojobs/internal/models"
	"github.com/jonesrussell/gojobs/internal/repository"
)

const runTimeout = 10 * time.Minute

// ActiveConfigLister is the slice of the config repository the scheduler
// uses.
type ActiveConfigLister interface {
	ListActive(ctx context.Context) ([]*models.ScrapingConfig, error)
}

// StaleRunSweeper reconciles runs stuck in the running state.
type StaleRunSweeper interface {
	MarkStaleFailed(ctx context.Context, olderThan time.Duration) (int64, error)
}

// Orchestrator executes one scraping run for a config.
type Orchestrator interface {
	Execute(ctx context.Context, configID string) (*models.RunResult, error)
}

type Scheduler struct {
	cron         *cron.Cron
	configs      ActiveConfigLister
	runs         StaleRunSweeper
	orchestrator Orchestrator
	staleTimeout time.Duration
	logger       logger.Logger
}

func New(
	cfg *config.Config,
	configs ActiveConfigLister,
	runs StaleRunSweeper,
	orchestrator Orchestrator,
	log logger.Logger,
) (*Scheduler, error) {
	s := &Scheduler{
		cron:         cron.New(),
		configs:      configs,
		runs:         runs,
		orchestrator: orchestrator,
		staleTimeout: cfg.Scheduler.StaleRunTimeout,
		logger:       log,
	}

	interval := fmt.Sprintf("@every %dh", cfg.Scheduler.IntervalHours)
	if _, err := s.cron.AddFunc(interval, s.scrapeActiveConfigs); err != nil {
		return nil, fmt.Errorf("register scrape schedule %q: %w", interval, err)
	}
	if _, err := s.cron.AddFunc("@every 10m", s.sweepStaleRuns); err != nil {
		return nil, fmt.Errorf("register stale run sweep: %w", err)
	}

	return s, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("Scheduler started")
}

// Stop halts scheduling and waits for in-flight jobs.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("Scheduler stopped")
}

// scrapeActiveConfigs runs every active config in sequence. One config
// failing does not stop the rest; a run already in progress is skipped.
func (s *Scheduler) scrapeActiveConfigs() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Hour)
	defer cancel()

	configs, err := s.configs.ListActive(ctx)
	if err != nil {
		s.logger.Error("Failed to list active configs for scheduled scrape",
			logger.Error(err),
		)
		return
	}

	s.logger.Info("Scheduled scrape starting",
		logger.Int("active_configs", len(configs)),
	)

	for _, cfg := range configs {
		runCtx, runCancel := context.WithTimeout(ctx, runTimeout)
		result, err := s.orchestrator.Execute(runCtx, cfg.ID)
		runCancel()

		if err != nil {
			if errors.Is(err, repository.ErrRunInProgress) {
				s.logger.Info("Skipping config with run in progress",
					logger.String("config_id", cfg.ID),
				)
				continue
			}
			s.logger.Warn("Scheduled scrape failed for config",
				logger.String("config_id", cfg.ID),
				logger.Error(err),
			)
			continue
		}

		s.logger.Info("Scheduled scrape finished for config",
			logger.String("config_id", cfg.ID),
			logger.Int("jobs_found", result.JobsFound),
			logger.Int("jobs_saved", result.JobsSaved),
		)
	}
}

func (s *Scheduler) sweepStaleRuns() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if _, err := s.runs.MarkStaleFailed(ctx, s.staleTimeout); err != nil {
		s.logger.Error("Stale run sweep failed",
			logger.Error(err),
		)
	}
}
