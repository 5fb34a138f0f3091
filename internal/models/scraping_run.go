package models

import (
	"fmt"
	"time"
)

// RunStatus values mirror the scraping_runs.status column.
//
// Valid status graph:
//
//	running ──► completed
//	    │
//	    └─────► failed
//
// completed and failed are terminal states.
type RunStatus string

const (
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

// ParseRunStatus converts a raw string to a RunStatus, returning an error for
// unknown values.
func ParseRunStatus(s string) (RunStatus, error) {
	st := RunStatus(s)
	switch st {
	case RunStatusRunning, RunStatusCompleted, RunStatusFailed:
		return st, nil
	}
	return "", fmt.Errorf("unknown run status %q", s)
}

// IsTerminal reports whether the status has no outgoing transitions.
func (s RunStatus) IsTerminal() bool {
	return s == RunStatusCompleted || s == RunStatusFailed
}

// CanTransition reports whether moving from s to next is permitted by the
// state machine. Only running → completed and running → failed are valid.
func (s RunStatus) CanTransition(next RunStatus) bool {
	return s == RunStatusRunning && next.IsTerminal()
}

// ScrapingRun records one execution attempt of a ScrapingConfig: when it
// started, how it ended, and the found/saved counts for observability.
type ScrapingRun struct {
	ID               string    `json:"id" db:"id"`
	ScrapingConfigID string    `json:"scraping_config_id" db:"scraping_config_id"`
	Status           RunStatus `json:"status" db:"status"`
	JobsFound        int       `json:"jobs_found" db:"jobs_found"`
	JobsSaved        int       `json:"jobs_saved" db:"jobs_saved"`
	ErrorMessage     *string   `json:"error_message,omitempty" db:"error_message"`
	StartedAt        time.Time `json:"started_at" db:"started_at"`
	CompletedAt      *time.Time `json:"completed_at,omitempty" db:"completed_at"`
	DurationSeconds  *int      `json:"duration_seconds,omitempty" db:"duration_seconds"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time `json:"updated_at" db:"updated_at"`
}

// RunResult summarises a finished orchestration for the caller.
type RunResult struct {
	RunID           string  `json:"scraping_run_id"`
	JobsFound       int     `json:"jobs_found"`
	JobsSaved       int     `json:"jobs_saved"`
	DurationSeconds int     `json:"duration_seconds"`
	ScrapingSeconds float64 `json:"scraping_time_seconds"`
}
