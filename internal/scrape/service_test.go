package scrape

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/gojobs/internal/events"
	"github.com/jonesrussell/gojobs/internal/logger"
	"github.com/jonesrussell/gojobs/internal/models"
	"github.com/jonesrussell/gojobs/internal/scraper"
)

type mockConfigStore struct {
	getFunc func(ctx context.Context, id string) (*models.ScrapingConfig, error)
}

func (m *mockConfigStore) GetByID(ctx context.Context, id string) (*models.ScrapingConfig, error) {
	return m.getFunc(ctx, id)
}

type mockRunStore struct {
	startFunc    func(ctx context.Context, configID string) (*models.ScrapingRun, error)
	completeFunc func(ctx context.Context, runID string, jobsFound, jobsSaved, durationSeconds int) error
	failFunc     func(ctx context.Context, runID, errorMessage string) error

	completions int
	failures    int
}

func (m *mockRunStore) Start(ctx context.Context, configID string) (*models.ScrapingRun, error) {
	if m.startFunc != nil {
		return m.startFunc(ctx, configID)
	}
	return &models.ScrapingRun{
		ID:               "run-1",
		ScrapingConfigID: configID,
		Status:           models.RunStatusRunning,
	}, nil
}

func (m *mockRunStore) Complete(ctx context.Context, runID string, jobsFound, jobsSaved, durationSeconds int) error {
	m.completions++
	if m.completeFunc != nil {
		return m.completeFunc(ctx, runID, jobsFound, jobsSaved, durationSeconds)
	}
	return nil
}

func (m *mockRunStore) Fail(ctx context.Context, runID, errorMessage string) error {
	m.failures++
	if m.failFunc != nil {
		return m.failFunc(ctx, runID, errorMessage)
	}
	return nil
}

type mockJobStore struct {
	upsertFunc func(ctx context.Context, jobs []models.Job) (int, error)
	calls      int
}

func (m *mockJobStore) UpsertBatch(ctx context.Context, jobs []models.Job) (int, error) {
	m.calls++
	if m.upsertFunc != nil {
		return m.upsertFunc(ctx, jobs)
	}
	return len(jobs), nil
}

type mockExecutor struct {
	executeFunc func(ctx context.Context, payload *scraper.ScrapeRequest) (*scraper.ScrapeResult, error)
	calls       int
}

func (m *mockExecutor) Execute(ctx context.Context, payload *scraper.ScrapeRequest) (*scraper.ScrapeResult, error) {
	m.calls++
	if m.executeFunc != nil {
		return m.executeFunc(ctx, payload)
	}
	return &scraper.ScrapeResult{}, nil
}

type mockPublisher struct {
	events []events.RunEvent
}

func (m *mockPublisher) PublishAsync(event events.RunEvent) {
	m.events = append(m.events, event)
}

func validConfig() *models.ScrapingConfig {
	return &models.ScrapingConfig{
		ID:            "cfg-1",
		Name:          "Go jobs",
		SearchTerm:    "golang",
		Location:      "Toronto, ON",
		Sites:         models.StringArray{"linkedin"},
		ResultsWanted: 15,
	}
}

func newTestService(configs ConfigStore, runs RunStore, jobs JobStore, executor Executor, publisher Publisher) *Service {
	return NewService(configs, runs, jobs, executor, publisher, nil, logger.NewNop())
}

func TestServiceExecute_Success(t *testing.T) {
	configs := &mockConfigStore{
		getFunc: func(_ context.Context, id string) (*models.ScrapingConfig, error) {
			return validConfig(), nil
		},
	}
	runs := &mockRunStore{}
	jobs := &mockJobStore{}
	executor := &mockExecutor{
		executeFunc: func(_ context.Context, _ *scraper.ScrapeRequest) (*scraper.ScrapeResult, error) {
			id := "abc"
			return &scraper.ScrapeResult{
				Jobs: []scraper.RawJob{{
					ID:          &id,
					Title:       "X",
					CompanyName: "Acme",
					JobURL:      "https://example.com/abc",
					Skills:      models.StringList{"a", "b", "c"},
				}},
				ScrapingTimeSeconds: 2.4,
			}, nil
		},
	}
	publisher := &mockPublisher{}

	svc := newTestService(configs, runs, jobs, executor, publisher)
	result, err := svc.Execute(context.Background(), "cfg-1")
	require.NoError(t, err)

	assert.Equal(t, "run-1", result.RunID)
	assert.Equal(t, 1, result.JobsFound)
	assert.Equal(t, 1, result.JobsSaved)
	assert.Equal(t, 2, result.DurationSeconds)
	assert.Equal(t, 1, runs.completions)
	assert.Zero(t, runs.failures)

	require.Len(t, publisher.events, 2)
	assert.Equal(t, events.EventRunStarted, publisher.events[0].Event)
	assert.Equal(t, events.EventRunCompleted, publisher.events[1].Event)
}

func TestServiceExecute_ConfigNotFound(t *testing.T) {
	configs := &mockConfigStore{
		getFunc: func(_ context.Context, _ string) (*models.ScrapingConfig, error) {
			return nil, errors.New("not found")
		},
	}
	runs := &mockRunStore{}
	executor := &mockExecutor{}

	svc := newTestService(configs, runs, &mockJobStore{}, executor, &mockPublisher{})
	_, err := svc.Execute(context.Background(), "missing")
	require.Error(t, err)

	assert.Equal(t, 1, runs.failures)
	assert.Zero(t, runs.completions)
	assert.Zero(t, executor.calls)
}

func TestServiceExecute_ValidationFailsBeforeNetworkCall(t *testing.T) {
	configs := &mockConfigStore{
		getFunc: func(_ context.Context, _ string) (*models.ScrapingConfig, error) {
			cfg := validConfig()
			cfg.Sites = models.StringArray{"indeed"}
			cfg.CountryIndeed = nil
			return cfg, nil
		},
	}
	runs := &mockRunStore{}
	executor := &mockExecutor{}

	var failMessage string
	runs.failFunc = func(_ context.Context, _ string, msg string) error {
		failMessage = msg
		return nil
	}

	svc := newTestService(configs, runs, &mockJobStore{}, executor, &mockPublisher{})
	_, err := svc.Execute(context.Background(), "cfg-1")
	require.ErrorIs(t, err, scraper.ErrCountryRequired)

	assert.Zero(t, executor.calls)
	assert.Equal(t, 1, runs.failures)
	assert.Equal(t, "Country is required when using Indeed", failMessage)
}

func TestServiceExecute_BackendValidationFailure(t *testing.T) {
	configs := &mockConfigStore{
		getFunc: func(_ context.Context, _ string) (*models.ScrapingConfig, error) {
			return validConfig(), nil
		},
	}
	runs := &mockRunStore{}
	executor := &mockExecutor{
		executeFunc: func(_ context.Context, _ *scraper.ScrapeRequest) (*scraper.ScrapeResult, error) {
			return nil, &scraper.ScrapeError{
				Err:              "invalid configuration",
				ValidationErrors: []string{"results_wanted must be >0"},
			}
		},
	}

	var failMessage string
	runs.failFunc = func(_ context.Context, _ string, msg string) error {
		failMessage = msg
		return nil
	}

	svc := newTestService(configs, runs, &mockJobStore{}, executor, &mockPublisher{})
	_, err := svc.Execute(context.Background(), "cfg-1")
	require.Error(t, err)

	var scrapeErr *scraper.ScrapeError
	require.ErrorAs(t, err, &scrapeErr)
	assert.Equal(t, "Validation failed: results_wanted must be >0", failMessage)
	assert.Equal(t, 1, runs.failures)
	assert.Zero(t, runs.completions)
}

func TestServiceExecute_IngestFailure(t *testing.T) {
	configs := &mockConfigStore{
		getFunc: func(_ context.Context, _ string) (*models.ScrapingConfig, error) {
			return validConfig(), nil
		},
	}
	runs := &mockRunStore{}
	executor := &mockExecutor{
		executeFunc: func(_ context.Context, _ *scraper.ScrapeRequest) (*scraper.ScrapeResult, error) {
			return &scraper.ScrapeResult{
				Jobs:                []scraper.RawJob{{Title: "X", CompanyName: "Y", JobURL: "u"}},
				ScrapingTimeSeconds: 1.0,
			}, nil
		},
	}
	jobs := &mockJobStore{
		upsertFunc: func(_ context.Context, _ []models.Job) (int, error) {
			return 0, errors.New("connection reset")
		},
	}

	svc := newTestService(configs, runs, jobs, executor, &mockPublisher{})
	_, err := svc.Execute(context.Background(), "cfg-1")
	require.Error(t, err)

	assert.Equal(t, 1, runs.failures)
	assert.Zero(t, runs.completions)
}

func TestServiceExecute_PanicStillFailsRun(t *testing.T) {
	configs := &mockConfigStore{
		getFunc: func(_ context.Context, _ string) (*models.ScrapingConfig, error) {
			return validConfig(), nil
		},
	}
	runs := &mockRunStore{}
	executor := &mockExecutor{
		executeFunc: func(_ context.Context, _ *scraper.ScrapeRequest) (*scraper.ScrapeResult, error) {
			panic("unexpected nil dereference")
		},
	}

	svc := newTestService(configs, runs, &mockJobStore{}, executor, &mockPublisher{})
	_, err := svc.Execute(context.Background(), "cfg-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "panicked")

	assert.Equal(t, 1, runs.failures)
	assert.Zero(t, runs.completions)
}

func TestServiceExecute_StartFailureAbortsEverything(t *testing.T) {
	runs := &mockRunStore{
		startFunc: func(_ context.Context, _ string) (*models.ScrapingRun, error) {
			return nil, errors.New("insert failed")
		},
	}
	configs := &mockConfigStore{
		getFunc: func(_ context.Context, _ string) (*models.ScrapingConfig, error) {
			t.Fatal("config store should not be consulted when start fails")
			return nil, nil
		},
	}
	executor := &mockExecutor{}

	svc := newTestService(configs, runs, &mockJobStore{}, executor, &mockPublisher{})
	_, err := svc.Execute(context.Background(), "cfg-1")
	require.Error(t, err)

	assert.Zero(t, executor.calls)
	assert.Zero(t, runs.failures)
	assert.Zero(t, runs.completions)
}

func TestServiceExecute_ExactlyOneTerminalTransition(t *testing.T) {
	tests := []struct {
		name        string
		executeFunc func(ctx context.Context, payload *scraper.ScrapeRequest) (*scraper.ScrapeResult, error)
		wantFail    int
		wantDone    int
	}{
		{
			name: "success path",
			executeFunc: func(_ context.Context, _ *scraper.ScrapeRequest) (*scraper.ScrapeResult, error) {
				return &scraper.ScrapeResult{ScrapingTimeSeconds: 0.5}, nil
			},
			wantFail: 0,
			wantDone: 1,
		},
		{
			name: "executor error",
			executeFunc: func(_ context.Context, _ *scraper.ScrapeRequest) (*scraper.ScrapeResult, error) {
				return nil, errors.New("timeout")
			},
			wantFail: 1,
			wantDone: 0,
		},
		{
			name: "executor panic",
			executeFunc: func(_ context.Context, _ *scraper.ScrapeRequest) (*scraper.ScrapeResult, error) {
				panic("boom")
			},
			wantFail: 1,
			wantDone: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			configs := &mockConfigStore{
				getFunc: func(_ context.Context, _ string) (*models.ScrapingConfig, error) {
					return validConfig(), nil
				},
			}
			runs := &mockRunStore{}
			executor := &mockExecutor{executeFunc: tt.executeFunc}

			svc := newTestService(configs, runs, &mockJobStore{}, executor, &mockPublisher{})
			_, _ = svc.Execute(context.Background(), "cfg-1")

			assert.Equal(t, tt.wantFail, runs.failures)
			assert.Equal(t, tt.wantDone, runs.completions)
			assert.Equal(t, 1, runs.failures+runs.completions)
		})
	}
}

func TestServiceExecute_MapsSkillsFromScrapeResult(t *testing.T) {
	configs := &mockConfigStore{
		getFunc: func(_ context.Context, _ string) (*models.ScrapingConfig, error) {
			return validConfig(), nil
		},
	}
	runs := &mockRunStore{}
	executor := &mockExecutor{
		executeFunc: func(_ context.Context, _ *scraper.ScrapeRequest) (*scraper.ScrapeResult, error) {
			id := "abc"
			return &scraper.ScrapeResult{
				Jobs: []scraper.RawJob{{
					ID: &id, Title: "X", CompanyName: "Y", JobURL: "u",
					Skills: models.StringList{"a", "b", "c"},
				}},
				ScrapingTimeSeconds: 2.4,
			}, nil
		},
	}

	var ingested []models.Job
	jobs := &mockJobStore{
		upsertFunc: func(_ context.Context, batch []models.Job) (int, error) {
			ingested = batch
			return len(batch), nil
		},
	}

	svc := newTestService(configs, runs, jobs, executor, &mockPublisher{})
	result, err := svc.Execute(context.Background(), "cfg-1")
	require.NoError(t, err)

	require.Len(t, ingested, 1)
	assert.Equal(t, models.StringList{"a", "b", "c"}, ingested[0].Skills)
	assert.Equal(t, "cfg-1", ingested[0].ScrapingConfigID)
	assert.Equal(t, "linkedin", ingested[0].Site)
	assert.Equal(t, 2, result.DurationSeconds)
}
