// Package api assembles the gin router: middleware, route groups and the
// metrics endpoint.
package api

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jonesrussell/gojobs/internal/auth"
	"github.com/jonesrussell/gojobs/internal/config"
	"github.com/jonesrussell/gojobs/internal/handlers"
	"github.com/jonesrussell/gojobs/internal/logger"
)

const corsMaxAgeHours = 12

// Handlers bundles everything the router mounts.
type Handlers struct {
	Config *handlers.ConfigHandler
	Scrape *handlers.ScrapeHandler
	Job    *handlers.JobHandler
	ATS    *handlers.ATSHandler
	Resume *handlers.ResumeHandler
	Health *handlers.HealthHandler
}

func NewRouter(
	cfg *config.Config,
	h Handlers,
	authMiddleware *auth.Middleware,
	registry *prometheus.Registry,
	log logger.Logger,
) *gin.Engine {
	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// CORS middleware - must be first
	router.Use(cors.New(cors.Config{
		AllowOrigins: cfg.Server.CORSOrigins,
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders: []string{
			"Origin", "Content-Type", "Content-Length", "Accept-Encoding",
			"X-CSRF-Token", "Authorization", "accept", "origin",
			"Cache-Control", "X-Requested-With",
		},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           corsMaxAgeHours * time.Hour,
	}))

	router.Use(ginLogger(log))
	router.Use(gin.Recovery())

	router.GET("/health", h.Health.Health)
	if registry != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))
	}

	v1 := router.Group("/api/v1")

	// Candidate discovery, authenticated but open to every role.
	jobs := v1.Group("/jobs", authMiddleware.Authenticate())
	jobs.GET("", h.Job.List)
	jobs.GET("/:id", h.Job.GetByID)

	// Candidate AI features.
	v1.POST("/ats-score", authMiddleware.Authenticate(), h.ATS.Score)
	v1.POST("/ats-score/batch", authMiddleware.Authenticate(), h.ATS.ScoreBatch)
	v1.POST("/generate-resume", authMiddleware.Authenticate(), h.Resume.Generate)
	v1.GET("/resumes", authMiddleware.Authenticate(), h.Resume.List)

	// Administrative scraping surface.
	configs := v1.Group("/configs", authMiddleware.Authenticate(), authMiddleware.RequireAdmin())
	configs.POST("", h.Config.Create)
	configs.GET("", h.Config.List)
	configs.GET("/:id", h.Config.GetByID)
	configs.PUT("/:id", h.Config.Update)
	configs.DELETE("/:id", h.Config.Delete)
	configs.PATCH("/:id/active", h.Config.SetActive)

	configs.POST("/:id/scrape", h.Scrape.Execute)
	configs.GET("/:id/runs", h.Scrape.ListRuns)
	configs.GET("/:id/jobs", h.Scrape.ListJobs)
	configs.GET("/:id/stats", h.Scrape.Stats)
	v1.GET("/runs/:runId", authMiddleware.Authenticate(), authMiddleware.RequireAdmin(), h.Scrape.GetRun)

	return router
}

func ginLogger(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		log.Info("HTTP request",
			logger.String("method", method),
			logger.String("path", path),
			logger.Int("status_code", c.Writer.Status()),
			logger.String("client_ip", c.ClientIP()),
			logger.Duration("duration", time.Since(start)),
		)
	}
}
