package scraper

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/jonesrussell/gojobs/internal/config"
	"github.com/jonesrussell/gojobs/internal/logger"
)

// ScrapeResult is the success envelope from the scraping backend.
type ScrapeResult struct {
	Jobs                TimedRawJobs `json:"jobs"`
	ScrapingTimeSeconds float64      `json:"scraping_time_seconds"`
}

// TimedRawJobs is a named alias kept for readability at call sites.
type TimedRawJobs = []RawJob

// ScrapeError is the structured failure envelope from the scraping backend.
// The catalogs (supported sites/countries/job types) let the admin UI render
// remediation detail without a second round trip, so the whole envelope is
// preserved end to end.
type ScrapeError struct {
	Err                string         `json:"error"`
	ErrorType          string         `json:"error_type,omitempty"`
	ValidationErrors   []string       `json:"validation_errors,omitempty"`
	Warnings           []string       `json:"warnings,omitempty"`
	ReceivedConfig     map[string]any `json:"received_config,omitempty"`
	SupportedSites     []string       `json:"supported_sites,omitempty"`
	SupportedCountries []string       `json:"supported_countries,omitempty"`
	SupportedJobTypes  []string       `json:"supported_job_types,omitempty"`
}

func (e *ScrapeError) Error() string {
	return e.Message()
}

// Message resolves the human-readable failure text recorded on the run:
// joined validation errors when present, else the generic error.
func (e *ScrapeError) Message() string {
	if len(e.ValidationErrors) > 0 {
		return "Validation failed: " + strings.Join(e.ValidationErrors, ", ")
	}
	if e.Err != "" {
		return e.Err
	}
	return "scraping failed"
}

// scrapeEnvelope is the raw wire shape; success selects between the two views.
type scrapeEnvelope struct {
	Success bool `json:"success"`
	ScrapeResult
	ScrapeError
}

// Client executes scrapes against the external backend over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     logger.Logger
}

func NewClient(cfg *config.Config, log logger.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(cfg.Scraper.BaseURL, "/"),
		httpClient: &http.Client{Timeout: cfg.Scraper.Timeout},
		logger:     log,
	}
}

// Execute POSTs the normalized payload to the backend. A structured failure
// envelope is returned as *ScrapeError; transport and decode problems are
// returned as plain wrapped errors.
func (c *Client) Execute(ctx context.Context, payload *ScrapeRequest) (*ScrapeResult, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal scrape request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/jobs/scrape", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create scrape request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call scraping backend: %w", err)
	}
	defer resp.Body.Close()

	var envelope scrapeEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("decode scrape response (status %d): %w", resp.StatusCode, err)
	}

	if !envelope.Success {
		scrapeErr := envelope.ScrapeError
		c.logger.Warn("Scraping backend returned failure",
			logger.String("site", payload.SiteName),
			logger.String("error_type", scrapeErr.ErrorType),
			logger.Strings("validation_errors", scrapeErr.ValidationErrors),
		)
		return nil, &scrapeErr
	}

	c.logger.Info("Scrape completed",
		logger.String("site", payload.SiteName),
		logger.Int("jobs_found", len(envelope.Jobs)),
		logger.Float64("scraping_time_seconds", envelope.ScrapingTimeSeconds),
		logger.Duration("round_trip", time.Since(start)),
	)

	result := envelope.ScrapeResult
	return &result, nil
}
