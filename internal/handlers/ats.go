package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/gojobs/internal/ats"
	"github.com/jonesrussell/gojobs/internal/auth"
	"github.com/jonesrussell/gojobs/internal/logger"
	"github.com/jonesrussell/gojobs/internal/models"
	"github.com/jonesrussell/gojobs/internal/repository"
)

// ATSHandler proxies scoring requests to the external ATS service and caches
// results per (job, candidate) pair.
type ATSHandler struct {
	client *ats.Client
	scores *repository.ScoreRepository
	logger logger.Logger
}

func NewATSHandler(client *ats.Client, scores *repository.ScoreRepository, log logger.Logger) *ATSHandler {
	return &ATSHandler{
		client: client,
		scores: scores,
		logger: log,
	}
}

type scoreRequest struct {
	JobID          string `json:"job_id" binding:"required"`
	JobDescription string `json:"job_description" binding:"required"`
	ResumeText     string `json:"resume_text,omitempty"`
}

// Score returns the cached score for the caller and job, computing and
// caching it on first request.
func (h *ATSHandler) Score(c *gin.Context) {
	var req scoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	candidateID := c.GetString(auth.ContextKeyUserID)

	if cached, err := h.scores.Get(c.Request.Context(), req.JobID, candidateID); err == nil {
		c.JSON(http.StatusOK, gin.H{"success": true, "ats_score": cached, "cached": true})
		return
	}

	result, err := h.client.Score(c.Request.Context(), ats.ScoreRequest{
		UserID:         candidateID,
		JobDescription: req.JobDescription,
		ResumeText:     req.ResumeText,
	})
	if err != nil {
		var svcErr *ats.ServiceError
		if errors.As(err, &svcErr) {
			c.JSON(http.StatusBadGateway, gin.H{
				"success":    false,
				"error":      svcErr.Message,
				"error_type": svcErr.ErrorType,
			})
			return
		}
		h.logger.Error("ATS scoring failed",
			logger.String("job_id", req.JobID),
			logger.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "ATS scoring failed"})
		return
	}

	score := &models.ATSScore{
		JobID:                req.JobID,
		CandidateID:          candidateID,
		OverallScore:         result.OverallScore,
		SkillsMatchScore:     result.SkillsMatchScore,
		ExperienceMatchScore: result.ExperienceMatchScore,
		KeywordMatchScore:    result.KeywordMatchScore,
		CulturalFitScore:     result.CulturalFitScore,
		DetailedAnalysis:     result.DetailedAnalysis,
		Recommendations:      result.Recommendations,
		Strengths:            result.Strengths,
		Weaknesses:           result.Weaknesses,
	}
	if err := h.scores.Save(c.Request.Context(), score); err != nil {
		h.logger.Warn("Failed to cache ats score",
			logger.String("job_id", req.JobID),
			logger.Error(err),
		)
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "ats_score": score})
}

type batchScoreRequest struct {
	JobDescriptions []string `json:"job_descriptions" binding:"required,min=1"`
}

// ScoreBatch scores the caller against many job descriptions in one call.
// Batch results are not cached; they lack stable job ids.
func (h *ATSHandler) ScoreBatch(c *gin.Context) {
	var req batchScoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	candidateID := c.GetString(auth.ContextKeyUserID)

	results, err := h.client.ScoreBatch(c.Request.Context(), ats.BatchScoreRequest{
		UserID:          candidateID,
		JobDescriptions: req.JobDescriptions,
	})
	if err != nil {
		var svcErr *ats.ServiceError
		if errors.As(err, &svcErr) {
			c.JSON(http.StatusBadGateway, gin.H{
				"success":    false,
				"error":      svcErr.Message,
				"error_type": svcErr.ErrorType,
			})
			return
		}
		h.logger.Error("Batch ATS scoring failed",
			logger.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Batch ATS scoring failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "ats_scores": results})
}
