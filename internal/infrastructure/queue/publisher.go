package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/ibpipeline/pipeline-api/internal/api/metrics"
	"github.com/ibpipeline/pipeline-api/internal/core/domain"
	"github.com/ibpipeline/pipeline-api/internal/core/ports"
)

const (
	defaultWorkers     = 4
	channelBuffer      = 256
	defaultSendTimeout = 5 * time.Second
)

// Publisher delivers audit events to the bus from a fixed pool of workers.
// Events are sharded onto workers by deal ID, so a given deal's events
// leave in emission order and a bus with per-key ordering preserves it.
//
// Delivery is fire-and-forget: Publish hands the event to a bounded
// channel and returns. A full channel drops the event (logged and counted)
// rather than blocking the request path. Failed sends are logged and never
// retried.
type Publisher struct {
	workers     []chan domain.DealEvent
	bus         ports.EventBus
	sendTimeout time.Duration
	log         zerolog.Logger
}

// NewPublisher creates a Publisher with numWorkers sharded workers.
// Non-positive numWorkers or sendTimeout fall back to defaults.
func NewPublisher(numWorkers int, sendTimeout time.Duration, bus ports.EventBus, log zerolog.Logger) *Publisher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	if sendTimeout <= 0 {
		sendTimeout = defaultSendTimeout
	}
	p := &Publisher{
		workers:     make([]chan domain.DealEvent, numWorkers),
		bus:         bus,
		sendTimeout: sendTimeout,
		log:         log,
	}
	for i := range p.workers {
		p.workers[i] = make(chan domain.DealEvent, channelBuffer)
	}
	return p
}

// Start launches all worker goroutines. Workers stop when ctx is
// cancelled; events still queued at that point are abandoned.
func (p *Publisher) Start(ctx context.Context) {
	for i, ch := range p.workers {
		go p.runWorker(ctx, i, ch)
	}
}

// Publish enqueues an event for asynchronous delivery. It never blocks:
// when the target worker's buffer is full the event is dropped.
func (p *Publisher) Publish(event domain.DealEvent) {
	idx := p.shardIndex(event.DealID)
	select {
	case p.workers[idx] <- event:
		metrics.AuditQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(p.workers[idx])))
	default:
		metrics.AuditEventsDroppedTotal.WithLabelValues(string(event.EventType)).Inc()
		p.log.Warn().
			Str("event_type", string(event.EventType)).
			Str("deal_id", event.DealID).
			Int("worker_id", idx).
			Msg("audit queue full, event dropped")
	}
}

// shardIndex maps a deal ID deterministically to a worker index.
func (p *Publisher) shardIndex(dealID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(dealID))
	return int(h.Sum32()) % len(p.workers)
}

func (p *Publisher) runWorker(ctx context.Context, id int, ch <-chan domain.DealEvent) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-ch:
			if !ok {
				return
			}
			p.send(ctx, id, event)
			metrics.AuditQueueDepth.WithLabelValues(strconv.Itoa(id)).Set(float64(len(ch)))
		}
	}
}

// send makes a single bounded-timeout delivery attempt and logs the
// outcome. There is no retry and no dead-letter queue.
func (p *Publisher) send(ctx context.Context, workerID int, event domain.DealEvent) {
	sendCtx, cancel := context.WithTimeout(ctx, p.sendTimeout)
	defer cancel()

	start := time.Now()
	receipt, err := p.bus.Send(sendCtx, event.DealID, &event)
	metrics.AuditPublishDuration.WithLabelValues(string(event.EventType)).Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.AuditEventsPublishedTotal.WithLabelValues(string(event.EventType), "failure").Inc()
		p.log.Error().Err(err).
			Str("event_type", string(event.EventType)).
			Str("deal_id", event.DealID).
			Int("worker_id", workerID).
			Msg("failed to publish audit event")
		return
	}

	metrics.AuditEventsPublishedTotal.WithLabelValues(string(event.EventType), "success").Inc()
	p.log.Info().
		Str("event_type", string(event.EventType)).
		Str("deal_id", event.DealID).
		Str("stream", receipt.Stream).
		Str("entry_id", receipt.EntryID).
		Msg("audit event published")
}
