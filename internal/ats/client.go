// Package ats wraps the external resume-parsing and ATS-scoring service.
package ats

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/jonesrussell/gojobs/internal/config"
	"github.com/jonesrussell/gojobs/internal/logger"
)

// ScoreRequest asks the scoring service to rate one candidate against one
// job description.
type ScoreRequest struct {
	CandidateProfile map[string]any `json:"candidate_profile,omitempty"`
	UserID           string         `json:"user_id,omitempty"`
	JobDescription   string         `json:"job_description"`
	ResumeText       string         `json:"resume_text,omitempty"`
}

// BatchScoreRequest scores one candidate against many job descriptions in a
// single round trip.
type BatchScoreRequest struct {
	UserID          string   `json:"user_id"`
	JobDescriptions []string `json:"job_descriptions"`
}

// ScoreResult is the scoring service's assessment payload.
type ScoreResult struct {
	OverallScore         int      `json:"overall_score"`
	SkillsMatchScore     int      `json:"skills_match_score"`
	ExperienceMatchScore int      `json:"experience_match_score"`
	KeywordMatchScore    int      `json:"keyword_match_score"`
	CulturalFitScore     int      `json:"cultural_fit_score"`
	DetailedAnalysis     string   `json:"detailed_analysis,omitempty"`
	Recommendations      []string `json:"recommendations,omitempty"`
	Strengths            []string `json:"strengths,omitempty"`
	Weaknesses           []string `json:"weaknesses,omitempty"`
}

type scoreEnvelope struct {
	Success   bool          `json:"success"`
	ATSScore  *ScoreResult  `json:"ats_score,omitempty"`
	ATSScores []ScoreResult `json:"ats_scores,omitempty"`
	Err       string        `json:"error,omitempty"`
	ErrorType string        `json:"error_type,omitempty"`
}

// ServiceError is a failure reported by the scoring service itself, as
// opposed to a transport problem.
type ServiceError struct {
	Message   string
	ErrorType string
}

func (e *ServiceError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "ats scoring failed"
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     logger.Logger
}

func NewClient(cfg *config.Config, log logger.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(cfg.ATS.BaseURL, "/"),
		httpClient: &http.Client{Timeout: cfg.ATS.Timeout},
		logger:     log,
	}
}

// Score rates one candidate against one job description.
func (c *Client) Score(ctx context.Context, req ScoreRequest) (*ScoreResult, error) {
	envelope, err := c.post(ctx, "/api/ats-score", req)
	if err != nil {
		return nil, err
	}
	if envelope.ATSScore == nil {
		return nil, fmt.Errorf("ats response missing score")
	}
	return envelope.ATSScore, nil
}

// ScoreBatch rates one candidate against many job descriptions.
func (c *Client) ScoreBatch(ctx context.Context, req BatchScoreRequest) ([]ScoreResult, error) {
	envelope, err := c.post(ctx, "/api/ats-score/batch", req)
	if err != nil {
		return nil, err
	}
	return envelope.ATSScores, nil
}

func (c *Client) post(ctx context.Context, path string, payload any) (*scoreEnvelope, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal ats request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create ats request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call ats service: %w", err)
	}
	defer resp.Body.Close()

	var envelope scoreEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("decode ats response (status %d): %w", resp.StatusCode, err)
	}

	if !envelope.Success {
		c.logger.Warn("ATS service returned failure",
			logger.String("path", path),
			logger.String("error_type", envelope.ErrorType),
		)
		return nil, &ServiceError{Message: envelope.Err, ErrorType: envelope.ErrorType}
	}

	return &envelope, nil
}
