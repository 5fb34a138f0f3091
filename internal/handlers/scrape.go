package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/gojobs/internal/logger"
	"github.com/jonesrussell/gojobs/internal/repository"
	"github.com/jonesrussell/gojobs/internal/scrape"
	"github.com/jonesrussell/gojobs/internal/scraper"
)

type ScrapeHandler struct {
	service *scrape.Service
	runs    *repository.RunRepository
	jobs    *repository.JobRepository
	logger  logger.Logger
}

func NewScrapeHandler(
	service *scrape.Service,
	runs *repository.RunRepository,
	jobs *repository.JobRepository,
	log logger.Logger,
) *ScrapeHandler {
	return &ScrapeHandler{
		service: service,
		runs:    runs,
		jobs:    jobs,
		logger:  log,
	}
}

// Execute triggers one scraping run for a config and waits for the outcome.
// The structured failure detail from the backend is passed through so the
// admin UI can render remediation without consulting logs.
func (h *ScrapeHandler) Execute(c *gin.Context) {
	configID := c.Param("id")

	result, err := h.service.Execute(c.Request.Context(), configID)
	if err != nil {
		h.renderExecuteError(c, configID, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":               true,
		"scraping_run_id":       result.RunID,
		"jobs_found":            result.JobsFound,
		"jobs_saved":            result.JobsSaved,
		"duration_seconds":      result.DurationSeconds,
		"scraping_time_seconds": result.ScrapingSeconds,
	})
}

func (h *ScrapeHandler) renderExecuteError(c *gin.Context, configID string, err error) {
	var scrapeErr *scraper.ScrapeError
	switch {
	case errors.Is(err, repository.ErrRunInProgress):
		c.JSON(http.StatusConflict, gin.H{"error": "A scraping run is already in progress for this config"})
	case errors.Is(err, repository.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Scraping config not found"})
	case errors.Is(err, scraper.ErrCountryRequired):
		c.JSON(http.StatusBadRequest, gin.H{"error": scraper.ErrCountryRequired.Error()})
	case errors.As(err, &scrapeErr):
		c.JSON(http.StatusBadGateway, gin.H{
			"error":               scrapeErr.Message(),
			"error_type":          scrapeErr.ErrorType,
			"validation_errors":   scrapeErr.ValidationErrors,
			"warnings":            scrapeErr.Warnings,
			"received_config":     scrapeErr.ReceivedConfig,
			"supported_sites":     scrapeErr.SupportedSites,
			"supported_countries": scrapeErr.SupportedCountries,
			"supported_job_types": scrapeErr.SupportedJobTypes,
		})
	default:
		h.logger.Error("Scraping execution failed",
			logger.String("config_id", configID),
			logger.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Scraping execution failed"})
	}
}

// ListRuns returns a config's run history, newest first.
func (h *ScrapeHandler) ListRuns(c *gin.Context) {
	configID := c.Param("id")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	runs, err := h.runs.ListByConfig(c.Request.Context(), configID, limit)
	if err != nil {
		h.logger.Error("Failed to list scraping runs",
			logger.String("config_id", configID),
			logger.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list scraping runs"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"runs":  runs,
		"count": len(runs),
	})
}

// GetRun returns one run by id.
func (h *ScrapeHandler) GetRun(c *gin.Context) {
	id := c.Param("runId")

	run, err := h.runs.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Scraping run not found"})
			return
		}
		h.logger.Error("Failed to load scraping run",
			logger.String("run_id", id),
			logger.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load scraping run"})
		return
	}

	c.JSON(http.StatusOK, run)
}

// ListJobs returns a page of jobs ingested for a config.
func (h *ScrapeHandler) ListJobs(c *gin.Context) {
	configID := c.Param("id")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	jobs, err := h.jobs.ListByConfig(c.Request.Context(), configID, limit, offset)
	if err != nil {
		h.logger.Error("Failed to list jobs for config",
			logger.String("config_id", configID),
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

// Stats aggregates ingestion totals and the latest run for a config.
func (h *ScrapeHandler) Stats(c *gin.Context) {
	configID := c.Param("id")

	stats, err := h.jobs.Stats(c.Request.Context(), configID)
	if err != nil {
		h.logger.Error("Failed to aggregate job stats",
			logger.String("config_id", configID),
			logger.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to aggregate job stats"})
		return
	}

	// Best effort: totals are still useful without the latest run, but only
	// a missing run is silent.
	latest, err := h.runs.Latest(c.Request.Context(), configID)
	switch {
	case err == nil:
		stats.LatestRun = latest
	case !errors.Is(err, repository.ErrNotFound):
		h.logger.Warn("Failed to load latest run for stats",
			logger.String("config_id", configID),
			logger.Error(err),
		)
	}

	c.JSON(http.StatusOK, stats)
}
