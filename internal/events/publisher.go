// Package events delivers drained domain events to external consumers.
// Aggregates queue events; after a successful persist the owning handler
// drains them and hands them here. Delivery is best-effort: a publish
// failure is the consumer pipeline's problem, never the command's.
package events

import (
	"context"

	"github.com/DevNation593/beauty-saas-backend-sub001/internal/domain"
	"github.com/DevNation593/beauty-saas-backend-sub001/internal/pkg/logger"
)

// Publisher accepts one aggregate's drained event batch.
type Publisher interface {
	Publish(ctx context.Context, tenantID, aggregateID string, evs []domain.Event) error
}

// LogPublisher writes events to the structured log. The default consumer in
// development and the fallback when no stream is configured.
type LogPublisher struct{}

func (LogPublisher) Publish(_ context.Context, tenantID, aggregateID string, evs []domain.Event) error {
	for _, ev := range evs {
		logger.Info("domain event",
			"event", ev.EventName(),
			"tenant_id", tenantID,
			"aggregate_id", aggregateID,
			"occurred_at", ev.OccurredAt().Format("2006-01-02T15:04:05Z07:00"),
		)
	}
	return nil
}

// Multi fans one batch out to several publishers, returning the first error
// after attempting all of them.
type Multi []Publisher

func (m Multi) Publish(ctx context.Context, tenantID, aggregateID string, evs []domain.Event) error {
	var firstErr error
	for _, p := range m {
		if err := p.Publish(ctx, tenantID, aggregateID, evs); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
