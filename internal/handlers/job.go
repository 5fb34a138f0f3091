package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/gojobs/internal/logger"
	"github.com/jonesrussell/gojobs/internal/models"
	"github.com/jonesrussell/gojobs/internal/repository"
)

// JobHandler serves the candidate-facing discovery surface.
type JobHandler struct {
	repo   *repository.JobRepository
	logger logger.Logger
}

func NewJobHandler(repo *repository.JobRepository, log logger.Logger) *JobHandler {
	return &JobHandler{
		repo:   repo,
		logger: log,
	}
}

// List returns a filtered page of jobs.
func (h *JobHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	filter := models.JobFilter{
		Search: c.Query("search"),
		Site:   c.Query("site"),
		Limit:  limit,
		Offset: offset,
	}

	if remote := c.Query("remote"); remote != "" {
		b, err := strconv.ParseBool(remote)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "remote must be a boolean"})
			return
		}
		filter.Remote = &b
	}

	jobs, err := h.repo.List(c.Request.Context(), filter)
	if err != nil {
		h.logger.Error("Failed to list jobs",
			logger.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list jobs"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"jobs":  jobs,
		"count": len(jobs),
	})
}

func (h *JobHandler) GetByID(c *gin.Context) {
	id := c.Param("id")

	job, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Job not found"})
			return
		}
		h.logger.Error("Failed to load job",
			logger.String("job_id", id),
			logger.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load job"})
		return
	}

	c.JSON(http.StatusOK, job)
}
