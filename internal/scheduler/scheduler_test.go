package scheduler

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/gojobs/internal/config"
	"github.com/jonesrussell/gojobs/internal/logger"
	"github.com/jonesrussell/gojobs/internal/models"
	"github.com/jonesrussell/gojobs/internal/repository"
)

type mockLister struct {
	configs []*models.ScrapingConfig
	err     error
}

func (m *mockLister) ListActive(_ context.Context) ([]*models.ScrapingConfig, error) {
	return m.configs, m.err
}

type mockSweeper struct {
	calls   int
	timeout time.Duration
}

func (m *mockSweeper) MarkStaleFailed(_ context.Context, olderThan time.Duration) (int64, error) {
	m.calls++
	m.timeout = olderThan
	return 0, nil
}

type mockOrchestrator struct {
	executed []string
	errs     map[string]error
}

func (m *mockOrchestrator) Execute(_ context.Context, configID string) (*models.RunResult, error) {
	m.executed = append(m.executed, configID)
	if err, ok := m.errs[configID]; ok {
		return nil, err
	}
	return &models.RunResult{RunID: "run-" + configID}, nil
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Scheduler.IntervalHours = 6
	cfg.Scheduler.StaleRunTimeout = 30 * time.Minute
	return cfg
}

func newScheduler(t *testing.T, cfg *config.Config, lister ActiveConfigLister, sweeper StaleRunSweeper, orchestrator Orchestrator) *Scheduler {
	t.Helper()
	s, err := New(cfg, lister, sweeper, orchestrator, logger.NewNop())
	require.NoError(t, err)
	return s
}

func TestNew_RegistersBothSchedules(t *testing.T) {
	s := newScheduler(t, testConfig(), &mockLister{}, &mockSweeper{}, &mockOrchestrator{})

	// Periodic scrape plus the stale-run sweep.
	assert.Len(t, s.cron.Entries(), 2)
}

func TestNew_InvalidInterval(t *testing.T) {
	cfg := testConfig()
	// Overflows time.Duration, so the cron entry cannot be parsed.
	cfg.Scheduler.IntervalHours = 3_000_000_000

	_, err := New(cfg, &mockLister{}, &mockSweeper{}, &mockOrchestrator{}, logger.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "register scrape schedule")
}

func TestScrapeActiveConfigs_AllConfigsAttempted(t *testing.T) {
	lister := &mockLister{configs: []*models.ScrapingConfig{
		{ID: "cfg-1"}, {ID: "cfg-2"}, {ID: "cfg-3"},
	}}
	orchestrator := &mockOrchestrator{errs: map[string]error{
		"cfg-2": errors.New("backend down"),
	}}

	s := newScheduler(t, testConfig(), lister, &mockSweeper{}, orchestrator)
	s.scrapeActiveConfigs()

	// One config failing does not stop the rest.
	assert.Equal(t, []string{"cfg-1", "cfg-2", "cfg-3"}, orchestrator.executed)
}

func TestScrapeActiveConfigs_SkipsInProgress(t *testing.T) {
	lister := &mockLister{configs: []*models.ScrapingConfig{{ID: "cfg-1"}, {ID: "cfg-2"}}}
	orchestrator := &mockOrchestrator{errs: map[string]error{
		"cfg-1": fmt.Errorf("start scraping run: %w", repository.ErrRunInProgress),
	}}

	s := newScheduler(t, testConfig(), lister, &mockSweeper{}, orchestrator)
	s.scrapeActiveConfigs()

	assert.Equal(t, []string{"cfg-1", "cfg-2"}, orchestrator.executed)
}

func TestScrapeActiveConfigs_ListFailure(t *testing.T) {
	lister := &mockLister{err: errors.New("db down")}
	orchestrator := &mockOrchestrator{}

	s := newScheduler(t, testConfig(), lister, &mockSweeper{}, orchestrator)
	s.scrapeActiveConfigs()

	assert.Empty(t, orchestrator.executed)
}

func TestSweepStaleRuns(t *testing.T) {
	sweeper := &mockSweeper{}

	s := newScheduler(t, testConfig(), &mockLister{}, sweeper, &mockOrchestrator{})
	s.sweepStaleRuns()

	assert.Equal(t, 1, sweeper.calls)
	assert.Equal(t, 30*time.Minute, sweeper.timeout)
}
