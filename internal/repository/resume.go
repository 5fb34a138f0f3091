package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jonesrussell/gojobs/internal/logger"
	"github.com/jonesrussell/gojobs/internal/models"
)

type ResumeRepository struct {
	db     *sql.DB
	logger logger.Logger
}

func NewResumeRepository(db *sql.DB, log logger.Logger) *ResumeRepository {
	return &ResumeRepository{
		db:     db,
		logger: log,
	}
}

func (r *ResumeRepository) Create(ctx context.Context, resume *models.GeneratedResume) error {
	resume.ID = uuid.New().String()
	resume.CreatedAt = time.Now()

	metadataJSON, err := json.Marshal(resume.GenerationMetadata)
	if err != nil {
		return fmt.Errorf("marshal generation metadata: %w", err)
	}

	query := `
		INSERT INTO generated_resumes (
			id, candidate_id, job_id, ats_score, resume_title,
			resume_content, resume_format, generation_metadata, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err = r.db.ExecContext(ctx,
		query,
		resume.ID,
		resume.CandidateID,
		resume.JobID,
		resume.ATSScore,
		resume.ResumeTitle,
		resume.ResumeContent,
		resume.ResumeFormat,
		metadataJSON,
		resume.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert generated resume: %w", err)
	}

	return nil
}

func (r *ResumeRepository) GetByID(ctx context.Context, id string) (*models.GeneratedResume, error) {
	query := `
		SELECT id, candidate_id, job_id, ats_score, resume_title,
		       resume_content, resume_format, generation_metadata, created_at
		FROM generated_resumes
		WHERE id = $1
	`

	var resume models.GeneratedResume
	var metadataJSON []byte

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&resume.ID,
		&resume.CandidateID,
		&resume.JobID,
		&resume.ATSScore,
		&resume.ResumeTitle,
		&resume.ResumeContent,
		&resume.ResumeFormat,
		&metadataJSON,
		&resume.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("generated resume %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("query generated resume: %w", err)
	}

	if len(metadataJSON) > 0 {
		if unmarshalErr := json.Unmarshal(metadataJSON, &resume.GenerationMetadata); unmarshalErr != nil {
			return nil, fmt.Errorf("unmarshal generation metadata: %w", unmarshalErr)
		}
	}

	return &resume, nil
}

// ListByCandidate returns a candidate's generated resumes, newest first.
func (r *ResumeRepository) ListByCandidate(ctx context.Context, candidateID string, limit int) ([]*models.GeneratedResume, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `
		SELECT id, candidate_id, job_id, ats_score, resume_title,
		       resume_content, resume_format, generation_metadata, created_at
		FROM generated_resumes
		WHERE candidate_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.db.QueryContext(ctx, query, candidateID, limit)
	if err != nil {
		return nil, fmt.Errorf("query generated resumes: %w", err)
	}
	defer rows.Close()

	var resumes []*models.GeneratedResume
	for rows.Next() {
		var resume models.GeneratedResume
		var metadataJSON []byte
		if scanErr := rows.Scan(
			&resume.ID,
			&resume.CandidateID,
			&resume.JobID,
			&resume.ATSScore,
			&resume.ResumeTitle,
			&resume.ResumeContent,
			&resume.ResumeFormat,
			&metadataJSON,
			&resume.CreatedAt,
		); scanErr != nil {
			return nil, fmt.Errorf("scan generated resume: %w", scanErr)
		}
		if len(metadataJSON) > 0 {
			if unmarshalErr := json.Unmarshal(metadataJSON, &resume.GenerationMetadata); unmarshalErr != nil {
				return nil, fmt.Errorf("unmarshal generation metadata: %w", unmarshalErr)
			}
		}
		resumes = append(resumes, &resume)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate generated resumes: %w", err)
	}

	return resumes, nil
}
