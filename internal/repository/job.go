package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jonesrussell/gojobs/internal/logger"
	"github.com/jonesrussell/gojobs/internal/models"
)

// upsertChunkSize bounds the parameter count of a single upsert statement.
const upsertChunkSize = 100

const jobInsertColumns = `
	id, scraping_config_id, job_id, title, company_name, company_url,
	job_url, job_url_direct, location, description, job_type,
	compensation_min, compensation_max, compensation_currency,
	compensation_interval, date_posted, emails, is_remote, listing_type,
	job_level, company_industry, company_addresses, company_num_employees,
	company_revenue, company_description, company_logo, banner_photo_url,
	job_function, skills, experience_range, company_rating,
	company_reviews_count, vacancy_count, work_from_home_type, site,
	salary_source, scraped_at, created_at, updated_at`

const jobParamCount = 39

type JobRepository struct {
	db     *sql.DB
	logger logger.Logger
}

func NewJobRepository(db *sql.DB, log logger.Logger) *JobRepository {
	return &JobRepository{
		db:     db,
		logger: log,
	}
}

// UpsertBatch writes jobs in chunks of up to 100 rows, upserting on the
// external job_id and returning the count of rows actually written. Rows
// without a job_id always insert as new. Duplicate job_ids within one chunk
// are collapsed before the statement (last occurrence wins), so the returned
// count reflects distinct stored rows, never the submitted length.
//
// A failing chunk aborts the remaining chunks; already-committed chunks stay
// committed.
func (r *JobRepository) UpsertBatch(ctx context.Context, jobs []models.Job) (int, error) {
	saved := 0
	for start := 0; start < len(jobs); start += upsertChunkSize {
		end := start + upsertChunkSize
		if end > len(jobs) {
			end = len(jobs)
		}

		chunk := dedupeByJobID(jobs[start:end])
		n, err := r.upsertChunk(ctx, chunk)
		if err != nil {
			return saved, fmt.Errorf("upsert chunk at offset %d: %w", start, err)
		}
		saved += n
	}

	return saved, nil
}

func (r *JobRepository) upsertChunk(ctx context.Context, chunk []models.Job) (int, error) {
	if len(chunk) == 0 {
		return 0, nil
	}

	var sb strings.Builder
	sb.WriteString(`INSERT INTO jobs (`)
	sb.WriteString(jobInsertColumns)
	sb.WriteString(`) VALUES `)

	args := make([]any, 0, len(chunk)*jobParamCount)
	now := time.Now()

	for i := range chunk {
		job := &chunk[i]
		if job.ID == "" {
			job.ID = uuid.New().String()
		}
		if job.ScrapedAt.IsZero() {
			job.ScrapedAt = now
		}
		job.CreatedAt = now
		job.UpdatedAt = now

		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(placeholderGroup(i*jobParamCount, jobParamCount))

		args = append(args,
			job.ID,
			job.ScrapingConfigID,
			job.JobID,
			job.Title,
			job.CompanyName,
			job.CompanyURL,
			job.JobURL,
			job.JobURLDirect,
			job.Location,
			job.Description,
			job.JobType,
			job.CompensationMin,
			job.CompensationMax,
			job.CompensationCurrency,
			job.CompensationInterval,
			job.DatePosted,
			job.Emails,
			job.IsRemote,
			job.ListingType,
			job.JobLevel,
			job.CompanyIndustry,
			job.CompanyAddresses,
			job.CompanyNumEmployees,
			job.CompanyRevenue,
			job.CompanyDescription,
			job.CompanyLogo,
			job.BannerPhotoURL,
			job.JobFunction,
			job.Skills,
			job.ExperienceRange,
			job.CompanyRating,
			job.CompanyReviewsCount,
			job.VacancyCount,
			job.WorkFromHomeType,
			job.Site,
			job.SalarySource,
			job.ScrapedAt,
			job.CreatedAt,
			job.UpdatedAt,
		)
	}

	sb.WriteString(`
		ON CONFLICT (job_id) WHERE job_id IS NOT NULL DO UPDATE SET
			scraping_config_id = EXCLUDED.scraping_config_id,
			title = EXCLUDED.title,
			company_name = EXCLUDED.company_name,
			company_url = EXCLUDED.company_url,
			job_url = EXCLUDED.job_url,
			job_url_direct = EXCLUDED.job_url_direct,
			location = EXCLUDED.location,
			description = EXCLUDED.description,
			job_type = EXCLUDED.job_type,
			compensation_min = EXCLUDED.compensation_min,
			compensation_max = EXCLUDED.compensation_max,
			compensation_currency = EXCLUDED.compensation_currency,
			compensation_interval = EXCLUDED.compensation_interval,
			date_posted = EXCLUDED.date_posted,
			emails = EXCLUDED.emails,
			is_remote = EXCLUDED.is_remote,
			listing_type = EXCLUDED.listing_type,
			job_level = EXCLUDED.job_level,
			company_industry = EXCLUDED.company_industry,
			company_addresses = EXCLUDED.company_addresses,
			company_num_employees = EXCLUDED.company_num_employees,
			company_revenue = EXCLUDED.company_revenue,
			company_description = EXCLUDED.company_description,
			company_logo = EXCLUDED.company_logo,
			banner_photo_url = EXCLUDED.banner_photo_url,
			job_function = EXCLUDED.job_function,
			skills = EXCLUDED.skills,
			experience_range = EXCLUDED.experience_range,
			company_rating = EXCLUDED.company_rating,
			company_reviews_count = EXCLUDED.company_reviews_count,
			vacancy_count = EXCLUDED.vacancy_count,
			work_from_home_type = EXCLUDED.work_from_home_type,
			site = EXCLUDED.site,
			salary_source = EXCLUDED.salary_source,
			scraped_at = EXCLUDED.scraped_at,
			updated_at = EXCLUDED.updated_at
	`)

	result, err := r.db.ExecContext(ctx, sb.String(), args...)
	if err != nil {
		return 0, fmt.Errorf("upsert jobs: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}

	return int(rows), nil
}

// dedupeByJobID collapses duplicate job_ids within one chunk, keeping the
// last occurrence. Postgres rejects a single INSERT ... ON CONFLICT that
// touches the same row twice. Rows without a job_id all pass through.
func dedupeByJobID(chunk []models.Job) []models.Job {
	seen := make(map[string]int, len(chunk))
	out := make([]models.Job, 0, len(chunk))
	for _, job := range chunk {
		if job.JobID == nil || *job.JobID == "" {
			out = append(out, job)
			continue
		}
		if idx, ok := seen[*job.JobID]; ok {
			out[idx] = job
			continue
		}
		seen[*job.JobID] = len(out)
		out = append(out, job)
	}
	return out
}

func placeholderGroup(offset, count int) string {
	var sb strings.Builder
	sb.WriteByte('(')
	for i := 0; i < count; i++ {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "$%d", offset+i+1)
	}
	sb.WriteByte(')')
	return sb.String()
}

const jobSelectColumns = `
	id, scraping_config_id, job_id, title, company_name, company_url,
	job_url, job_url_direct, location, description, job_type,
	compensation_min, compensation_max, compensation_currency,
	compensation_interval, date_posted, emails, is_remote, site,
	scraped_at, created_at, updated_at`

func (r *JobRepository) GetByID(ctx context.Context, id string) (*models.Job, error) {
	query := `SELECT` + jobSelectColumns + `
		FROM jobs
		WHERE id = $1
	`

	job, err := scanJob(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("job %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("query job: %w", err)
	}

	return job, nil
}

// List returns a filtered page of jobs for candidate discovery, newest first.
func (r *JobRepository) List(ctx context.Context, filter models.JobFilter) ([]*models.Job, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}

	var conditions []string
	var args []any

	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		n := len(args)
		conditions = append(conditions, fmt.Sprintf(
			"(title ILIKE $%d OR company_name ILIKE $%d OR description ILIKE $%d)", n, n, n))
	}
	if filter.Site != "" {
		args = append(args, filter.Site)
		conditions = append(conditions, fmt.Sprintf("site = $%d", len(args)))
	}
	if filter.Remote != nil {
		args = append(args, *filter.Remote)
		conditions = append(conditions, fmt.Sprintf("is_remote = $%d", len(args)))
	}

	query := `SELECT` + jobSelectColumns + ` FROM jobs`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	args = append(args, limit, filter.Offset)
	query += fmt.Sprintf(" ORDER BY scraped_at DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query jobs: %w", err)
	}
	defer rows.Close()

	var jobs []*models.Job
	for rows.Next() {
		job, scanErr := scanJob(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("scan job: %w", scanErr)
		}
		jobs = append(jobs, job)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate jobs: %w", err)
	}

	return jobs, nil
}

// ListByConfig returns a page of jobs produced by one config.
func (r *JobRepository) ListByConfig(ctx context.Context, configID string, limit, offset int) ([]*models.Job, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `SELECT` + jobSelectColumns + `
		FROM jobs
		WHERE scraping_config_id = $1
		ORDER BY scraped_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.QueryContext(ctx, query, configID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("query jobs for config: %w", err)
	}
	defer rows.Close()

	var jobs []*models.Job
	for rows.Next() {
		job, scanErr := scanJob(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("scan job: %w", scanErr)
		}
		jobs = append(jobs, job)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate jobs: %w", err)
	}

	return jobs, nil
}

// Stats aggregates per-config ingestion totals and the per-site breakdown.
func (r *JobRepository) Stats(ctx context.Context, configID string) (*models.JobStats, error) {
	stats := &models.JobStats{JobsBySite: make(map[string]int)}

	rows, err := r.db.QueryContext(ctx,
		`SELECT site, COUNT(*) FROM jobs WHERE scraping_config_id = $1 GROUP BY site`,
		configID,
	)
	if err != nil {
		return nil, fmt.Errorf("query job stats: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var site string
		var count int
		if scanErr := rows.Scan(&site, &count); scanErr != nil {
			return nil, fmt.Errorf("scan job stats: %w", scanErr)
		}
		stats.JobsBySite[site] = count
		stats.TotalJobs += count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate job stats: %w", err)
	}

	return stats, nil
}

func scanJob(row rowScanner) (*models.Job, error) {
	var job models.Job
	err := row.Scan(
		&job.ID,
		&job.ScrapingConfigID,
		&job.JobID,
		&job.Title,
		&job.CompanyName,
		&job.CompanyURL,
		&job.JobURL,
		&job.JobURLDirect,
		&job.Location,
		&job.Description,
		&job.JobType,
		&job.CompensationMin,
		&job.CompensationMax,
		&job.CompensationCurrency,
		&job.CompensationInterval,
		&job.DatePosted,
		&job.Emails,
		&job.IsRemote,
		&job.Site,
		&job.ScrapedAt,
		&job.CreatedAt,
		&job.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &job, nil
}
