package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jonesrussell/gojobs/internal/logger"
)

const publishTimeout = 5 * time.Second

// Publisher writes run events to a Redis stream. A nil Publisher is valid
// and drops every event, so callers never need to branch on whether events
// are enabled.
type Publisher struct {
	client *redis.Client
	logger logger.Logger
}

func NewPublisher(client *redis.Client, log logger.Logger) *Publisher {
	return &Publisher{
		client: client,
		logger: log,
	}
}

// Publish appends one event to the run-events stream.
func (p *Publisher) Publish(ctx context.Context, event RunEvent) error {
	if p == nil || p.client == nil {
		return nil
	}

	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal run event: %w", err)
	}

	err = p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: StreamRunEvents,
		Values: map[string]any{
			"event":   event.Event,
			"payload": payload,
		},
	}).Err()
	if err != nil {
		return fmt.Errorf("publish run event: %w", err)
	}

	return nil
}

// PublishAsync fires the event from a goroutine with its own timeout.
// Event delivery is best effort; failures are logged, never propagated.
func (p *Publisher) PublishAsync(event RunEvent) {
	if p == nil || p.client == nil {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		defer cancel()

		if err := p.Publish(ctx, event); err != nil {
			p.logger.Warn("Failed to publish run event",
				logger.String("event", event.Event),
				logger.String("run_id", event.RunID),
				logger.Error(err),
			)
		}
	}()
}
