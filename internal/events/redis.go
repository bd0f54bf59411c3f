package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/DevNation593/beauty-saas-backend-sub001/internal/domain"
)

const (
	// DefaultStream is the stream all domain events land on when no
	// per-deployment override is configured.
	DefaultStream = "domain-events"

	// DefaultMaxLen caps the stream so an idle consumer cannot grow
	// Redis without bound. Approximate trimming (XADD MAXLEN ~).
	DefaultMaxLen = 100_000
)

// envelope is the wire form of one event on the stream.
type envelope struct {
	TenantID    string          `json:"tenant_id"`
	AggregateID string          `json:"aggregate_id"`
	Name        string          `json:"name"`
	OccurredAt  time.Time       `json:"occurred_at"`
	Payload     json.RawMessage `json:"payload"`
}

// RedisPublisher appends events to a capped Redis stream, one entry per
// event, envelope JSON under the "event" field.
type RedisPublisher struct {
	rdb    *redis.Client
	stream string
	maxLen int64
}

func NewRedisPublisher(rdb *redis.Client) *RedisPublisher {
	return &RedisPublisher{rdb: rdb, stream: DefaultStream, maxLen: DefaultMaxLen}
}

// WithStream overrides the target stream name.
func (p *RedisPublisher) WithStream(name string) *RedisPublisher {
	p.stream = name
	return p
}

func (p *RedisPublisher) Publish(ctx context.Context, tenantID, aggregateID string, evs []domain.Event) error {
	for _, ev := range evs {
		payload, err := json.Marshal(ev)
		if err != nil {
			return fmt.Errorf("marshal event %s: %w", ev.EventName(), err)
		}
		env := envelope{
			TenantID:    tenantID,
			AggregateID: aggregateID,
			Name:        ev.EventName(),
			OccurredAt:  ev.OccurredAt(),
			Payload:     payload,
		}
		body, err := json.Marshal(env)
		if err != nil {
			return fmt.Errorf("marshal envelope %s: %w", ev.EventName(), err)
		}
		err = p.rdb.XAdd(ctx, &redis.XAddArgs{
			Stream: p.stream,
			MaxLen: p.maxLen,
			Approx: true,
			Values: map[string]interface{}{"event": string(body)},
		}).Err()
		if err != nil {
			return fmt.Errorf("xadd %s: %w", p.stream, err)
		}
	}
	return nil
}
