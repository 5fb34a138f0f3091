// Package handlers contains the gin HTTP handlers for the job board API.
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

type ConfigHandler struct {
	repo   *repository.ConfigRepository
	logger logger.Logger
}

func NewConfigHandler(repo *repository.ConfigRepository, log logger.Logger) *ConfigHandler {
	return &ConfigHandler{
		repo:   repo,
		logger: log,
	}
}

func (h *ConfigHandler) Create(c *gin.Context) {
	var cfg models.ScrapingConfig
	if err := c.ShouldBindJSON(&cfg); err != nil {
		h.logger.Debug("Invalid request body",
			logger.String("error", err.Error()),
		)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	if err := h.repo.Create(c.Request.Context(), &cfg); err != nil {
		h.logger.Error("Failed to create scraping config",
			logger.String("config_name", cfg.Name),
			logger.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create scraping config"})
		return
	}

	h.logger.Info("Scraping config created",
		logger.String("config_id", cfg.ID),
		logger.String("config_name", cfg.Name),
	)

	c.JSON(http.StatusCreated, cfg)
}

func (h *ConfigHandler) GetByID(c *gin.Context) {
	id := c.Param("id")

	cfg, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Scraping config not found"})
			return
		}
		h.logger.Error("Failed to load scraping config",
			logger.String("config_id", id),
			logger.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load scraping config"})
		return
	}

	c.JSON(http.StatusOK, cfg)
}

func (h *ConfigHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	configs, err := h.repo.List(c.Request.Context(), limit, offset)
	if err != nil {
		h.logger.Error("Failed to list scraping configs",
			logger.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list scraping configs"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"configs": configs,
		"count":   len(configs),
	})
}

func (h *ConfigHandler) Update(c *gin.Context) {
	id := c.Param("id")

	var cfg models.ScrapingConfig
	if err := c.ShouldBindJSON(&cfg); err != nil {
		h.logger.Debug("Invalid request body",
			logger.String("config_id", id),
			logger.String("error", err.Error()),
		)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	cfg.ID = id

	if err := h.repo.Update(c.Request.Context(), &cfg); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Scraping config not found"})
			return
		}
		h.logger.Error("Failed to update scraping config",
			logger.String("config_id", id),
			logger.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update scraping config"})
		return
	}

	h.logger.Info("Scraping config updated",
		logger.String("config_id", id),
		logger.String("config_name", cfg.Name),
	)

	updated, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusOK, cfg)
		return
	}

	c.JSON(http.StatusOK, updated)
}

func (h *ConfigHandler) Delete(c *gin.Context) {
	id := c.Param("id")

	if err := h.repo.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Scraping config not found"})
			return
		}
		h.logger.Error("Failed to delete scraping config",
			logger.String("config_id", id),
			logger.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete scraping config"})
		return
	}

	h.logger.Info("Scraping config deleted",
		logger.String("config_id", id),
	)

	c.JSON(http.StatusNoContent, nil)
}

// SetActive toggles the is_active flag without editing the whole config.
func (h *ConfigHandler) SetActive(c *gin.Context) {
	id := c.Param("id")

	var body struct {
		IsActive *bool `json:"is_active" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	if err := h.repo.SetActive(c.Request.Context(), id, *body.IsActive); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Scraping config not found"})
			return
		}
		h.logger.Error("Failed to toggle scraping config",
			logger.String("config_id", id),
			logger.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to toggle scraping config"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": id, "is_active": *body.IsActive})
}
