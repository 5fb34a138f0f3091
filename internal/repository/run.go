package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jonesrussell/gojobs/internal/logger"
	"github.com/jonesrussell/gojobs/internal/models"
)

// ErrRunInProgress is returned by Start when the config already has a run in
// the running state. At most one concurrent run per config.
var ErrRunInProgress = errors.New("a scraping run is already in progress for this config")

// ErrRunNotRunning is returned by Complete and Fail when the run is not in
// the running state. Terminal statuses never transition again, so a second
// completion attempt surfaces here instead of overwriting history.
var ErrRunNotRunning = errors.New("scraping run is not in running state")

const runColumns = `
	id, scraping_config_id, status, jobs_found, jobs_saved, error_message,
	started_at, completed_at, duration_seconds, created_at, updated_at`

type RunRepository struct {
	db     *sql.DB
	logger logger.Logger
}

func NewRunRepository(db *sql.DB, log logger.Logger) *RunRepository {
	return &RunRepository{
		db:     db,
		logger: log,
	}
}

// Start inserts a running row for the config, guarded by a precondition that
// no other running row exists for the same config. The insert happens before
// the scrape executes so a crash mid-scrape still leaves an auditable row.
func (r *RunRepository) Start(ctx context.Context, configID string) (*models.ScrapingRun, error) {
	run := &models.ScrapingRun{
		ID:               uuid.New().String(),
		ScrapingConfigID: configID,
		Status:           models.RunStatusRunning,
		StartedAt:        time.Now(),
		CreatedAt:        time.Now(),
		UpdatedAt:        time.Now(),
	}

	query := `
		INSERT INTO scraping_runs (
			id, scraping_config_id, status, jobs_found, jobs_saved,
			started_at, created_at, updated_at
		)
		SELECT $1, $2, $3, 0, 0, $4, $5, $6
		WHERE NOT EXISTS (
			SELECT 1 FROM scraping_runs
			WHERE scraping_config_id = $2 AND status = $3
		)
	`

	result, err := r.db.ExecContext(ctx,
		query,
		run.ID,
		run.ScrapingConfigID,
		models.RunStatusRunning,
		run.StartedAt,
		run.CreatedAt,
		run.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert scraping run: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("rows affected: %w", err)
	}
	if rows == 0 {
		return nil, ErrRunInProgress
	}

	r.logger.Info("Scraping run started",
		logger.String("run_id", run.ID),
		logger.String("config_id", configID),
	)

	return run, nil
}

// Complete transitions a running run to completed with its counts. The
// status guard in the WHERE clause makes the call idempotent and safe to
// retry: a run already in a terminal state is never overwritten.
func (r *RunRepository) Complete(ctx context.Context, runID string, jobsFound, jobsSaved, durationSeconds int) error {
	query := `
		UPDATE scraping_runs SET
			status = $2, jobs_found = $3, jobs_saved = $4,
			duration_seconds = $5, completed_at = $6, updated_at = $6
		WHERE id = $1 AND status = $7
	`

	result, err := r.db.ExecContext(ctx,
		query,
		runID,
		models.RunStatusCompleted,
		jobsFound,
		jobsSaved,
		durationSeconds,
		time.Now(),
		models.RunStatusRunning,
	)
	if err != nil {
		return fmt.Errorf("complete scraping run: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("scraping run %s: %w", runID, ErrRunNotRunning)
	}

	return nil
}

// Fail transitions a running run to failed with the resolved error message.
// Guarded the same way as Complete.
func (r *RunRepository) Fail(ctx context.Context, runID, errorMessage string) error {
	query := `
		UPDATE scraping_runs SET
			status = $2, error_message = $3, completed_at = $4, updated_at = $4
		WHERE id = $1 AND status = $5
	`

	result, err := r.db.ExecContext(ctx,
		query,
		runID,
		models.RunStatusFailed,
		errorMessage,
		time.Now(),
		models.RunStatusRunning,
	)
	if err != nil {
		return fmt.Errorf("fail scraping run: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("scraping run %s: %w", runID, ErrRunNotRunning)
	}

	return nil
}

func (r *RunRepository) GetByID(ctx context.Context, id string) (*models.ScrapingRun, error) {
	query := `SELECT` + runColumns + `
		FROM scraping_runs
		WHERE id = $1
	`

	run, err := scanRun(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("scraping run %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("query scraping run: %w", err)
	}

	return run, nil
}

// ListByConfig returns the config's runs, newest first.
func (r *RunRepository) ListByConfig(ctx context.Context, configID string, limit int) ([]*models.ScrapingRun, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `SELECT` + runColumns + `
		FROM scraping_runs
		WHERE scraping_config_id = $1
		ORDER BY started_at DESC
		LIMIT $2
	`

	rows, err := r.db.QueryContext(ctx, query, configID, limit)
	if err != nil {
		return nil, fmt.Errorf("query scraping runs: %w", err)
	}
	defer rows.Close()

	var runs []*models.ScrapingRun
	for rows.Next() {
		run, scanErr := scanRun(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("scan scraping run: %w", scanErr)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate scraping runs: %w", err)
	}

	return runs, nil
}

// Latest returns the most recent run for a config, or ErrNotFound.
func (r *RunRepository) Latest(ctx context.Context, configID string) (*models.ScrapingRun, error) {
	query := `SELECT` + runColumns + `
		FROM scraping_runs
		WHERE scraping_config_id = $1
		ORDER BY started_at DESC
		LIMIT 1
	`

	run, err := scanRun(r.db.QueryRowContext(ctx, query, configID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("latest run for config %s: %w", configID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("query latest scraping run: %w", err)
	}

	return run, nil
}

// MarkStaleFailed is the reconciliation sweep: any run still running past the
// timeout is marked failed. A crash between ingestion and completion leaves a
// permanent running row otherwise.
func (r *RunRepository) MarkStaleFailed(ctx context.Context, olderThan time.Duration) (int64, error) {
	cutoff := time.Now().Add(-olderThan)

	query := `
		UPDATE scraping_runs SET
			status = $1, error_message = $2, completed_at = $3, updated_at = $3
		WHERE status = $4 AND started_at < $5
	`

	result, err := r.db.ExecContext(ctx,
		query,
		models.RunStatusFailed,
		"Run exceeded maximum duration and was marked failed by reconciliation",
		time.Now(),
		models.RunStatusRunning,
		cutoff,
	)
	if err != nil {
		return 0, fmt.Errorf("mark stale runs failed: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}

	if rows > 0 {
		r.logger.Warn("Marked stale scraping runs as failed",
			logger.Int64("count", rows),
			logger.Duration("older_than", olderThan),
		)
	}

	return rows, nil
}

func scanRun(row rowScanner) (*models.ScrapingRun, error) {
	var run models.ScrapingRun
	err := row.Scan(
		&run.ID,
		&run.ScrapingConfigID,
		&run.Status,
		&run.JobsFound,
		&run.JobsSaved,
		&run.ErrorMessage,
		&run.StartedAt,
		&run.CompletedAt,
		&run.DurationSeconds,
		&run.CreatedAt,
		&run.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &run, nil
}
