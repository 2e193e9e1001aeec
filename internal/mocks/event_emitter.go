package mocks

import (
	"context"
	"sync"

	"github.com/deckmate/deckmate-api/internal/events"
)

// MockEventEmitter records emitted events for later inspection.
type MockEventEmitter struct {
	mu      sync.Mutex
	emitted []*events.DeckEvent

	EmitErr error
}

var _ events.EventEmitter = (*MockEventEmitter)(nil)

// NewMockEventEmitter creates an empty MockEventEmitter.
func NewMockEventEmitter() *MockEventEmitter {
	return &MockEventEmitter{}
}

func (m *MockEventEmitter) EmitEvent(_ context.Context, event *events.DeckEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.EmitErr != nil {
		return m.EmitErr
	}
	m.emitted = append(m.emitted, event)
	return nil
}

// Emitted returns the events emitted so far.
func (m *MockEventEmitter) Emitted() []*events.DeckEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*events.DeckEvent(nil), m.emitted...)
}
