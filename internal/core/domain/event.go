package domain

import "time"

// DealEventType identifies the mutation that produced an audit event.
type DealEventType string

const (
	EventDealCreated  DealEventType = "DEAL_CREATED"
	EventDealUpdated  DealEventType = "DEAL_UPDATED"
	EventDealDeleted  DealEventType = "DEAL_DELETED"
	EventStageUpdated DealEventType = "STAGE_UPDATED"
	EventNoteAdded    DealEventType = "NOTE_ADDED"
	EventValueUpdated DealEventType = "VALUE_UPDATED"
)

// DealEvent is the audit record emitted after each accepted mutation.
// Events are ephemeral: built once, handed to the bus, never persisted or
// retried by this service.
type DealEvent struct {
	EventID   string        `json:"event_id"`
	EventType DealEventType `json:"event_type"`
	DealID    string        `json:"deal_id"`
	DealTitle string        `json:"deal_title"`
	// ActorUserID is recorded only for creation and notes; other
	// mutations leave it empty.
	ActorUserID string    `json:"actor_user_id,omitempty"`
	Details     string    `json:"details"`
	Timestamp   time.Time `json:"timestamp"`
}
