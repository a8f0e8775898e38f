package ports

import (
	"context"

	"github.com/ibpipeline/pipeline-api/internal/core/domain"
)

// SendReceipt describes where the bus placed a delivered event.
type SendReceipt struct {
	Stream  string
	EntryID string
}

// EventBus is the external audit sink. Delivery is at-most-once: a failed
// send is reported through the error and never retried by the core.
// Implementations keyed on the deal ID may offer per-deal ordering; no
// cross-deal ordering is promised.
type EventBus interface {
	Send(ctx context.Context, key string, event *domain.DealEvent) (*SendReceipt, error)
}

// EventPublisher hands an audit event to the asynchronous delivery
// pipeline. Publish never blocks the caller on bus acknowledgment; the
// outcome of delivery is observable only in logs and metrics.
type EventPublisher interface {
	Publish(event domain.DealEvent)
}
