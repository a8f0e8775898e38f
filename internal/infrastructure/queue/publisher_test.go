package queue

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/ibpipeline/pipeline-api/internal/core/domain"
	"github.com/ibpipeline/pipeline-api/internal/core/ports"
)

// memoryBus records sends per key so tests can assert delivery and order.
type memoryBus struct {
	mu     sync.Mutex
	byKey  map[string][]domain.DealEvent
	total  int
	failed bool
}

var _ ports.EventBus = (*memoryBus)(nil)

func newMemoryBus() *memoryBus {
	return &memoryBus{byKey: make(map[string][]domain.DealEvent)}
}

func (b *memoryBus) Send(_ context.Context, key string, event *domain.DealEvent) (*ports.SendReceipt, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.failed {
		return nil, errors.New("bus unavailable")
	}
	b.byKey[key] = append(b.byKey[key], *event)
	b.total++
	return &ports.SendReceipt{Stream: "deal-events", EntryID: "0-1"}, nil
}

func (b *memoryBus) count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.total
}

func (b *memoryBus) events(key string) []domain.DealEvent {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]domain.DealEvent, len(b.byKey[key]))
	copy(out, b.byKey[key])
	return out
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func event(id string, dealID string, typ domain.DealEventType) domain.DealEvent {
	return domain.DealEvent{
		EventID:     id,
		EventType:   typ,
		DealID:      dealID,
		ActorUserID: "tester",
		Timestamp:   time.Now().UTC(),
	}
}

func TestPublisher_DeliversEvents(t *testing.T) {
	bus := newMemoryBus()
	p := NewPublisher(4, time.Second, bus, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	p.Start(ctx)

	p.Publish(event("e1", "deal-1", domain.EventDealCreated))
	p.Publish(event("e2", "deal-2", domain.EventStageUpdated))

	waitFor(t, func() bool { return bus.count() == 2 })

	if got := bus.events("deal-1"); len(got) != 1 || got[0].EventID != "e1" {
		t.Fatalf("deal-1 delivery wrong: %+v", got)
	}
	if got := bus.events("deal-2"); len(got) != 1 || got[0].EventID != "e2" {
		t.Fatalf("deal-2 delivery wrong: %+v", got)
	}
}

func TestPublisher_PreservesPerDealOrder(t *testing.T) {
	bus := newMemoryBus()
	p := NewPublisher(4, time.Second, bus, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	p.Start(ctx)

	const n = 50
	ids := make([]string, n)
	for i := 0; i < n; i++ {
		ids[i] = fmt.Sprintf("e%03d", i)
		p.Publish(event(ids[i], "deal-ordered", domain.EventNoteAdded))
	}
	waitFor(t, func() bool { return bus.count() == n })

	delivered := bus.events("deal-ordered")
	for i, ev := range delivered {
		if ev.EventID != ids[i] {
			t.Fatalf("order broken at %d: got %s want %s", i, ev.EventID, ids[i])
		}
	}
}

func TestPublisher_PublishNeverBlocksWhenBufferFull(t *testing.T) {
	bus := newMemoryBus()
	p := NewPublisher(1, time.Second, bus, zerolog.Nop())
	// Workers deliberately not started, so the buffer fills up.

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < channelBuffer+100; i++ {
			p.Publish(event("e", "deal-1", domain.EventDealUpdated))
		}
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Publish blocked on a full buffer")
	}
	if bus.count() != 0 {
		t.Fatalf("no deliveries expected without workers, got %d", bus.count())
	}
}

func TestPublisher_BusFailureDoesNotStopWorkers(t *testing.T) {
	bus := newMemoryBus()
	bus.failed = true
	p := NewPublisher(2, time.Second, bus, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	p.Start(ctx)

	p.Publish(event("e1", "deal-1", domain.EventDealCreated))
	time.Sleep(50 * time.Millisecond)

	bus.mu.Lock()
	bus.failed = false
	bus.mu.Unlock()

	p.Publish(event("e2", "deal-1", domain.EventDealUpdated))
	waitFor(t, func() bool { return bus.count() == 1 })

	if got := bus.events("deal-1"); len(got) != 1 || got[0].EventID != "e2" {
		t.Fatalf("expected only the post-recovery event, got %+v", got)
	}
}

func TestPublisher_StopsOnContextCancel(t *testing.T) {
	bus := newMemoryBus()
	p := NewPublisher(1, time.Second, bus, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	p.Start(ctx)

	p.Publish(event("e1", "deal-1", domain.EventDealCreated))
	waitFor(t, func() bool { return bus.count() == 1 })

	cancel()
	time.Sleep(20 * time.Millisecond)

	p.Publish(event("e2", "deal-1", domain.EventDealUpdated))
	time.Sleep(50 * time.Millisecond)
	if bus.count() != 1 {
		t.Fatalf("no deliveries expected after cancel, got %d", bus.count())
	}
}

func TestPublisher_ShardIndexIsStable(t *testing.T) {
	p := NewPublisher(4, time.Second, newMemoryBus(), zerolog.Nop())
	for _, id := range []string{"deal-1", "deal-2", "abc", ""} {
		first := p.shardIndex(id)
		for i := 0; i < 10; i++ {
			if got := p.shardIndex(id); got != first {
				t.Fatalf("shard for %q not stable: %d vs %d", id, got, first)
			}
		}
		if first < 0 || first >= 4 {
			t.Fatalf("shard for %q out of range: %d", id, first)
		}
	}
}
