package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Deck lifecycle event types.
const (
	// EventDeckBlocked is emitted when an administrator blocks a deck.
	EventDeckBlocked = "deck.blocked"

	// EventDeckUnblocked is emitted when an administrator unblocks a deck.
	EventDeckUnblocked = "deck.unblocked"
)

// DeckEvent represents a deck lifecycle change. It carries enough information
// for handlers (e.g. the mail notifier) to act without a dependency on the
// deck service.
type DeckEvent struct {
	// ID is a unique identifier for this event
	ID uuid.UUID `json:"id"`

	// Type indicates what happened to the deck (see the Event* constants)
	Type string `json:"type"`

	// Payload contains the event-specific data serialized as JSON
	Payload json.RawMessage `json:"payload"`

	// CreatedAt is the timestamp when the event was created
	CreatedAt time.Time `json:"created_at"`
}

// DeckModerationPayload is the payload for EventDeckBlocked and
// EventDeckUnblocked events.
type DeckModerationPayload struct {
	DeckID   uuid.UUID `json:"deck_id"`
	DeckName string    `json:"deck_name"`

	// Recipients lists the email addresses of the persons to notify:
	// the creator and all subscribers at the time of the change.
	Recipients []string `json:"recipients"`
}

// UnmarshalPayload decodes the event payload into the provided structure.
func (e *DeckEvent) UnmarshalPayload(v interface{}) error {
	return json.Unmarshal(e.Payload, v)
}

// NewDeckEvent creates a new DeckEvent with the specified type and payload.
func NewDeckEvent(eventType string, payload interface{}) (*DeckEvent, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	return &DeckEvent{
		ID:        uuid.New(),
		Type:      eventType,
		Payload:   payloadBytes,
		CreatedAt: time.Now(),
	}, nil
}

// EventHandler defines an interface for components that can handle events.
// Handlers are responsible for processing events and taking appropriate actions.
type EventHandler interface {
	// HandleEvent processes the given event within the provided context.
	// Returns an error if the event cannot be handled successfully.
	HandleEvent(ctx context.Context, event *DeckEvent) error
}

// EventEmitter defines an interface for components that can emit events.
// This allows services to publish events without direct knowledge of handlers.
type EventEmitter interface {
	// EmitEvent publishes the given event to all registered handlers.
	// Returns an error if the event cannot be emitted.
	EmitEvent(ctx context.Context, event *DeckEvent) error
}
