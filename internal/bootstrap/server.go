package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/jonesrussell/gojobs/internal/api"
	"github.com/jonesrussell/gojobs/internal/ats"
	"github.com/jonesrussell/gojobs/internal/auth"
	"github.com/jonesrussell/gojobs/internal/config"
	"github.com/jonesrussell/gojobs/internal/database"
	"github.com/jonesrussell/gojobs/internal/events"
	"github.com/jonesrussell/gojobs/internal/handlers"
	"github.com/jonesrussell/gojobs/internal/logger"
	"github.com/jonesrussell/gojobs/internal/metrics"
	"github.com/jonesrussell/gojobs/internal/repository"
	"github.com/jonesrussell/gojobs/internal/resume"
	"github.com/jonesrussell/gojobs/internal/scheduler"
	"github.com/jonesrussell/gojobs/internal/scrape"
	"github.com/jonesrussell/gojobs/internal/scraper"
)

const shutdownTimeout = 15 * time.Second

// Server wraps http.Server with graceful shutdown on SIGINT/SIGTERM.
type Server struct {
	httpServer *http.Server
	logger     logger.Logger
}

// SetupHTTPServer wires repositories, services, handlers and the router, and
// returns the server plus the scheduler (nil when disabled).
func SetupHTTPServer(
	cfg *config.Config,
	db *database.DB,
	publisher *events.Publisher,
	m *metrics.Metrics,
	registry *prometheus.Registry,
	log logger.Logger,
) (*Server, *scheduler.Scheduler, error) {
	configRepo := repository.NewConfigRepository(db.DB(), log)
	runRepo := repository.NewRunRepository(db.DB(), log)
	jobRepo := repository.NewJobRepository(db.DB(), log)
	scoreRepo := repository.NewScoreRepository(db.DB(), log)
	resumeRepo := repository.NewResumeRepository(db.DB(), log)

	scrapeClient := scraper.NewClient(cfg, log)
	scrapeService := scrape.NewService(configRepo, runRepo, jobRepo, scrapeClient, publisher, m, log)

	atsClient := ats.NewClient(cfg, log)
	generator := resume.NewGenerator(cfg, log)

	authMiddleware := auth.NewMiddleware(cfg.Auth.JWTSecret, log)

	router := api.NewRouter(cfg, api.Handlers{
		Config: handlers.NewConfigHandler(configRepo, log),
		Scrape: handlers.NewScrapeHandler(scrapeService, runRepo, jobRepo, log),
		Job:    handlers.NewJobHandler(jobRepo, log),
		ATS:    handlers.NewATSHandler(atsClient, scoreRepo, log),
		Resume: handlers.NewResumeHandler(generator, resumeRepo, log),
		Health: handlers.NewHealthHandler(db),
	}, authMiddleware, registry, log)

	server := &Server{
		httpServer: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
			Handler:      router,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
		},
		logger: log,
	}

	var sched *scheduler.Scheduler
	if cfg.Scheduler.Enabled {
		var err error
		sched, err = scheduler.New(cfg, configRepo, runRepo, scrapeService, log)
		if err != nil {
			return nil, nil, fmt.Errorf("create scheduler: %w", err)
		}
	}

	return server, sched, nil
}

// Run serves until a shutdown signal arrives, then drains connections.
func (s *Server) Run() error {
	errCh := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("listen: %w", err)
	case sig := <-quit:
		s.logger.Info("Shutdown signal received",
			logger.String("signal", sig.String()),
		)
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	return nil
}
