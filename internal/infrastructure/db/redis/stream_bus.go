package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/ibpipeline/pipeline-api/internal/core/domain"
	"github.com/ibpipeline/pipeline-api/internal/core/ports"
)

const dealEventsStream = "deal-events"

// StreamBus delivers audit events to a Redis stream. Entries carry the
// deal ID as the partition key field; a single stream preserves append
// order, so events sharded by deal ID arrive per-deal ordered.
type StreamBus struct {
	client *redis.Client
	stream string
}

// NewStreamBus creates a StreamBus writing to the default deal-events
// stream.
func NewStreamBus(client *redis.Client) *StreamBus {
	return &StreamBus{client: client, stream: dealEventsStream}
}

// Send appends one event to the stream and returns the assigned entry ID.
// Each call is a single delivery attempt: at-most-once from the caller's
// point of view.
func (b *StreamBus) Send(ctx context.Context, key string, event *domain.DealEvent) (*ports.SendReceipt, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("stream bus: marshal event: %w", err)
	}

	entryID, err := b.client.XAdd(ctx, &redis.XAddArgs{
		Stream: b.stream,
		Values: map[string]interface{}{
			"key":        key,
			"event_type": string(event.EventType),
			"payload":    payload,
		},
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("stream bus: xadd: %w", err)
	}

	return &ports.SendReceipt{Stream: b.stream, EntryID: entryID}, nil
}
