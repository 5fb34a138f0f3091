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

type ScoreRepository struct {
	db     *sql.DB
	logger logger.Logger
}

func NewScoreRepository(db *sql.DB, log logger.Logger) *ScoreRepository {
	return &ScoreRepository{
		db:     db,
		logger: log,
	}
}

// Save caches a score for a (job, candidate) pair. The first write wins;
// later writes for the same pair are no-ops so cached scores stay stable.
func (r *ScoreRepository) Save(ctx context.Context, score *models.ATSScore) error {
	if score.ID == "" {
		score.ID = uuid.New().String()
	}
	score.CreatedAt = time.Now()

	query := `
		INSERT INTO ats_scores (
			id, job_id, candidate_id, overall_score, skills_match_score,
			experience_match_score, keyword_match_score, cultural_fit_score,
			detailed_analysis, recommendations, strengths, weaknesses, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (job_id, candidate_id) DO NOTHING
	`

	_, err := r.db.ExecContext(ctx,
		query,
		score.ID,
		score.JobID,
		score.CandidateID,
		score.OverallScore,
		score.SkillsMatchScore,
		score.ExperienceMatchScore,
		score.KeywordMatchScore,
		score.CulturalFitScore,
		score.DetailedAnalysis,
		score.Recommendations,
		score.Strengths,
		score.Weaknesses,
		score.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert ats score: %w", err)
	}

	return nil
}

// Get returns the cached score for a (job, candidate) pair, or ErrNotFound.
func (r *ScoreRepository) Get(ctx context.Context, jobID, candidateID string) (*models.ATSScore, error) {
	query := `
		SELECT id, job_id, candidate_id, overall_score, skills_match_score,
		       experience_match_score, keyword_match_score, cultural_fit_score,
		       detailed_analysis, recommendations, strengths, weaknesses, created_at
		FROM ats_scores
		WHERE job_id = $1 AND candidate_id = $2
	`

	var score models.ATSScore
	err := r.db.QueryRowContext(ctx, query, jobID, candidateID).Scan(
		&score.ID,
		&score.JobID,
		&score.CandidateID,
		&score.OverallScore,
		&score.SkillsMatchScore,
		&score.ExperienceMatchScore,
		&score.KeywordMatchScore,
		&score.CulturalFitScore,
		&score.DetailedAnalysis,
		&score.Recommendations,
		&score.Strengths,
		&score.Weaknesses,
		&score.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("ats score for job %s candidate %s: %w", jobID, candidateID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("query ats score: %w", err)
	}

	return &score, nil
}
