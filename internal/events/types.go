// Package events publishes scraping-run lifecycle events to Redis Streams so
// downstream consumers (dashboards, notifiers) can react without polling.
package events

import "time"

const (
	StreamRunEvents = "gojobs:run:events"

	EventRunStarted   = "run.started"
	EventRunCompleted = "run.completed"
	EventRunFailed    = "run.failed"
)

// RunEvent is the payload written to the run-events stream.
type RunEvent struct {
	Event            string    `json:"event"`
	RunID            string    `json:"run_id"`
	ScrapingConfigID string    `json:"scraping_config_id"`
	JobsFound        int       `json:"jobs_found,omitempty"`
	JobsSaved        int       `json:"jobs_saved,omitempty"`
	DurationSeconds  int       `json:"duration_seconds,omitempty"`
	ErrorMessage     string    `json:"error_message,omitempty"`
	Timestamp        time.Time `json:"timestamp"`
}
