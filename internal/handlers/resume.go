package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/gojobs/internal/auth"
	"github.com/jonesrussell/gojobs/internal/logger"
	"github.com/jonesrussell/gojobs/internal/repository"
	"github.com/jonesrussell/gojobs/internal/resume"
)

type ResumeHandler struct {
	generator *resume.Generator
	resumes   *repository.ResumeRepository
	logger    logger.Logger
}

func NewResumeHandler(generator *resume.Generator, resumes *repository.ResumeRepository, log logger.Logger) *ResumeHandler {
	return &ResumeHandler{
		generator: generator,
		resumes:   resumes,
		logger:    log,
	}
}

type generateResumeRequest struct {
	Profile        resume.CandidateProfile `json:"candidate_profile" binding:"required"`
	JobID          string                  `json:"job_id" binding:"required"`
	JobTitle       string                  `json:"job_title"`
	CompanyName    string                  `json:"company_name"`
	JobDescription string                  `json:"job_description" binding:"required"`
	ATSScore       int                     `json:"ats_score" binding:"required"`
	ResumeFormat   string                  `json:"resume_format"`
}

// Generate produces a tailored resume and persists the outcome. Requests with
// an ATS score below the gate are rejected with 400 before the LLM is called.
func (h *ResumeHandler) Generate(c *gin.Context) {
	var req generateResumeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	genReq := resume.Request{
		CandidateID:    c.GetString(auth.ContextKeyUserID),
		Profile:        req.Profile,
		JobTitle:       req.JobTitle,
		CompanyName:    req.CompanyName,
		JobID:          req.JobID,
		JobDescription: req.JobDescription,
		ATSScore:       req.ATSScore,
		ResumeFormat:   req.ResumeFormat,
	}

	result, err := h.generator.Generate(c.Request.Context(), genReq)
	if err != nil {
		if errors.Is(err, resume.ErrScoreTooLow) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "ATS score must be at least 95 to generate a resume",
			})
			return
		}
		h.logger.Error("Resume generation failed",
			logger.String("job_id", req.JobID),
			logger.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Resume generation failed"})
		return
	}

	record := result.ToModel(genReq)
	if err := h.resumes.Create(c.Request.Context(), record); err != nil {
		h.logger.Error("Failed to persist generated resume",
			logger.String("job_id", req.JobID),
			logger.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to persist generated resume"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":             true,
		"resume_id":           record.ID,
		"resume_title":        result.ResumeTitle,
		"resume_content":      result.ResumeContent,
		"generation_metadata": result.Metadata,
	})
}

// List returns the caller's generated resumes.
func (h *ResumeHandler) List(c *gin.Context) {
	candidateID := c.GetString(auth.ContextKeyUserID)

	resumes, err := h.resumes.ListByCandidate(c.Request.Context(), candidateID, 20)
	if err != nil {
		h.logger.Error("Failed to list generated resumes",
			logger.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list generated resumes"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"resumes": resumes,
		"count":   len(resumes),
	})
}
