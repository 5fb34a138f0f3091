package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublisher_NilSafe(t *testing.T) {
	var p *Publisher

	// Both entry points tolerate a nil publisher.
	assert.NoError(t, p.Publish(context.Background(), RunEvent{Event: EventRunStarted}))
	p.PublishAsync(RunEvent{Event: EventRunCompleted})
}

func TestPublisher_NilClient(t *testing.T) {
	p := NewPublisher(nil, nil)

	assert.NoError(t, p.Publish(context.Background(), RunEvent{Event: EventRunStarted}))
	p.PublishAsync(RunEvent{Event: EventRunFailed})
}

func TestRunEvent_JSONShape(t *testing.T) {
	event := RunEvent{
		Event:            EventRunCompleted,
		RunID:            "run-1",
		ScrapingConfigID: "cfg-1",
		JobsFound:        10,
		JobsSaved:        8,
		DurationSeconds:  3,
		Timestamp:        time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
	}

	data, err := json.Marshal(event)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "run.completed", decoded["event"])
	assert.EqualValues(t, 10, decoded["jobs_found"])
	assert.NotContains(t, decoded, "error_message")
}
