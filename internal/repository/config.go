// Package repository implements PostgreSQL persistence for scraping configs,
// scraping runs, jobs, ATS scores and generated resumes.
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

var ErrNotFound = errors.New("not found")

const configColumns = `
	id, name, search_term, location, sites, results_wanted, hours_old,
	is_remote, job_type, country_indeed, google_search_term, distance,
	easy_apply, linkedin_fetch_description, linkedin_company_ids,
	enforce_annual_salary, description_format, page_offset, log_level,
	is_active, created_at, updated_at`

type ConfigRepository struct {
	db     *sql.DB
	logger logger.Logger
}

func NewConfigRepository(db *sql.DB, log logger.Logger) *ConfigRepository {
	return &ConfigRepository{
		db:     db,
		logger: log,
	}
}

func (r *ConfigRepository) Create(ctx context.Context, cfg *models.ScrapingConfig) error {
	cfg.ID = uuid.New().String()
	cfg.CreatedAt = time.Now()
	cfg.UpdatedAt = time.Now()
	if cfg.DescriptionFormat == "" {
		cfg.DescriptionFormat = "markdown"
	}

	query := `
		INSERT INTO scraping_configs (
			id, name, search_term, location, sites, results_wanted, hours_old,
			is_remote, job_type, country_indeed, google_search_term, distance,
			easy_apply, linkedin_fetch_description, linkedin_company_ids,
			enforce_annual_salary, description_format, page_offset, log_level,
			is_active, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
		          $15, $16, $17, $18, $19, $20, $21, $22)
	`

	_, err := r.db.ExecContext(ctx,
		query,
		cfg.ID,
		cfg.Name,
		cfg.SearchTerm,
		cfg.Location,
		cfg.Sites,
		cfg.ResultsWanted,
		cfg.HoursOld,
		cfg.IsRemote,
		cfg.JobType,
		cfg.CountryIndeed,
		cfg.GoogleSearchTerm,
		cfg.Distance,
		cfg.EasyApply,
		cfg.LinkedinFetchDescription,
		cfg.LinkedinCompanyIDs,
		cfg.EnforceAnnualSalary,
		cfg.DescriptionFormat,
		cfg.PageOffset,
		cfg.LogLevel,
		cfg.IsActive,
		cfg.CreatedAt,
		cfg.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("insert scraping config: %w", err)
	}

	return nil
}

func (r *ConfigRepository) GetByID(ctx context.Context, id string) (*models.ScrapingConfig, error) {
	query := `SELECT` + configColumns + `
		FROM scraping_configs
		WHERE id = $1
	`

	cfg, err := scanConfig(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("scraping config %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("query scraping config: %w", err)
	}

	return cfg, nil
}

// List returns a page of configs ordered by creation time, newest first.
func (r *ConfigRepository) List(ctx context.Context, limit, offset int) ([]*models.ScrapingConfig, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `SELECT` + configColumns + `
		FROM scraping_configs
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("query scraping configs: %w", err)
	}
	defer rows.Close()

	return collectConfigs(rows)
}

// ListActive returns every config with is_active set, for the scheduler.
func (r *ConfigRepository) ListActive(ctx context.Context) ([]*models.ScrapingConfig, error) {
	query := `SELECT` + configColumns + `
		FROM scraping_configs
		WHERE is_active = true
		ORDER BY created_at ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query active scraping configs: %w", err)
	}
	defer rows.Close()

	return collectConfigs(rows)
}

func (r *ConfigRepository) Update(ctx context.Context, cfg *models.ScrapingConfig) error {
	cfg.UpdatedAt = time.Now()

	query := `
		UPDATE scraping_configs SET
			name = $2, search_term = $3, location = $4, sites = $5,
			results_wanted = $6, hours_old = $7, is_remote = $8, job_type = $9,
			country_indeed = $10, google_search_term = $11, distance = $12,
			easy_apply = $13, linkedin_fetch_description = $14,
			linkedin_company_ids = $15, enforce_annual_salary = $16,
			description_format = $17, page_offset = $18, log_level = $19,
			is_active = $20, updated_at = $21
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx,
		query,
		cfg.ID,
		cfg.Name,
		cfg.SearchTerm,
		cfg.Location,
		cfg.Sites,
		cfg.ResultsWanted,
		cfg.HoursOld,
		cfg.IsRemote,
		cfg.JobType,
		cfg.CountryIndeed,
		cfg.GoogleSearchTerm,
		cfg.Distance,
		cfg.EasyApply,
		cfg.LinkedinFetchDescription,
		cfg.LinkedinCompanyIDs,
		cfg.EnforceAnnualSalary,
		cfg.DescriptionFormat,
		cfg.PageOffset,
		cfg.LogLevel,
		cfg.IsActive,
		cfg.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update scraping config: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("scraping config %s: %w", cfg.ID, ErrNotFound)
	}

	return nil
}

func (r *ConfigRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM scraping_configs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete scraping config: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("scraping config %s: %w", id, ErrNotFound)
	}

	return nil
}

// SetActive toggles the soft lifecycle flag without touching history.
func (r *ConfigRepository) SetActive(ctx context.Context, id string, active bool) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE scraping_configs SET is_active = $2, updated_at = $3 WHERE id = $1`,
		id, active, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("set scraping config active: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("scraping config %s: %w", id, ErrNotFound)
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanConfig(row rowScanner) (*models.ScrapingConfig, error) {
	var cfg models.ScrapingConfig
	err := row.Scan(
		&cfg.ID,
		&cfg.Name,
		&cfg.SearchTerm,
		&cfg.Location,
		&cfg.Sites,
		&cfg.ResultsWanted,
		&cfg.HoursOld,
		&cfg.IsRemote,
		&cfg.JobType,
		&cfg.CountryIndeed,
		&cfg.GoogleSearchTerm,
		&cfg.Distance,
		&cfg.EasyApply,
		&cfg.LinkedinFetchDescription,
		&cfg.LinkedinCompanyIDs,
		&cfg.EnforceAnnualSalary,
		&cfg.DescriptionFormat,
		&cfg.PageOffset,
		&cfg.LogLevel,
		&cfg.IsActive,
		&cfg.CreatedAt,
		&cfg.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

func collectConfigs(rows *sql.Rows) ([]*models.ScrapingConfig, error) {
	var configs []*models.ScrapingConfig
	for rows.Next() {
		cfg, err := scanConfig(rows)
		if err != nil {
			return nil, fmt.Errorf("scan scraping config: %w", err)
		}
		configs = append(configs, cfg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate scraping configs: %w", err)
	}
	return configs, nil
}
