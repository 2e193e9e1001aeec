package mocks

import (
	"context"
	"database/sql"
	"sync"

	"github.com/google/uuid"

	"github.com/deckmate/deckmate-api/internal/domain"
	"github.com/deckmate/deckmate-api/internal/store"
)

type subscription struct {
	deckID   uuid.UUID
	personID uuid.UUID
}

// MockDeckStore is an in-memory DeckStore for tests. Decks are listed in
// insertion order.
type MockDeckStore struct {
	mu    sync.Mutex
	decks map[uuid.UUID]*domain.Deck
	order []uuid.UUID
	subs  map[subscription]bool
}

var _ store.DeckStore = (*MockDeckStore)(nil)

// NewMockDeckStore creates an empty MockDeckStore.
func NewMockDeckStore() *MockDeckStore {
	return &MockDeckStore{
		decks: make(map[uuid.UUID]*domain.Deck),
		subs:  make(map[subscription]bool),
	}
}

// Add seeds the store with a deck.
func (m *MockDeckStore) Add(deck *domain.Deck) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.decks[deck.ID]; !ok {
		m.order = append(m.order, deck.ID)
	}
	m.decks[deck.ID] = deck
}

func (m *MockDeckStore) Create(_ context.Context, deck *domain.Deck) error {
	m.Add(deck)
	return nil
}

func (m *MockDeckStore) GetByID(_ context.Context, id uuid.UUID) (*domain.Deck, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	deck, ok := m.decks[id]
	if !ok {
		return nil, store.ErrDeckNotFound
	}
	return deck, nil
}

func (m *MockDeckStore) Update(_ context.Context, deck *domain.Deck) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.decks[deck.ID]; !ok {
		return store.ErrDeckNotFound
	}
	m.decks[deck.ID] = deck
	return nil
}

func (m *MockDeckStore) list(keep func(*domain.Deck) bool) []*domain.Deck {
	decks := make([]*domain.Deck, 0, len(m.order))
	for _, id := range m.order {
		if deck := m.decks[id]; keep(deck) {
			decks = append(decks, deck)
		}
	}
	return decks
}

func (m *MockDeckStore) ListByCreator(
	_ context.Context,
	creatorID uuid.UUID,
) ([]*domain.Deck, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.list(func(d *domain.Deck) bool { return d.CreatorID == creatorID }), nil
}

func (m *MockDeckStore) ListSubscribed(
	_ context.Context,
	personID uuid.UUID,
) ([]*domain.Deck, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.list(func(d *domain.Deck) bool {
		return m.subs[subscription{d.ID, personID}]
	}), nil
}

func (m *MockDeckStore) ListPublished(_ context.Context) ([]*domain.Deck, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.list(func(d *domain.Deck) bool {
		return d.Status == domain.DeckStatusActive && d.Published
	}), nil
}

func (m *MockDeckStore) ListAll(_ context.Context) ([]*domain.Deck, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.list(func(*domain.Deck) bool { return true }), nil
}

func (m *MockDeckStore) IsSubscribed(
	_ context.Context,
	deckID, personID uuid.UUID,
) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.subs[subscription{deckID, personID}], nil
}

func (m *MockDeckStore) Subscribe(_ context.Context, deckID, personID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subs[subscription{deckID, personID}] = true
	return nil
}

func (m *MockDeckStore) Unsubscribe(_ context.Context, deckID, personID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := subscription{deckID, personID}
	if !m.subs[key] {
		return store.ErrNotFound
	}
	delete(m.subs, key)
	return nil
}

func (m *MockDeckStore) ListSubscriberIDs(
	_ context.Context,
	deckID uuid.UUID,
) ([]uuid.UUID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var ids []uuid.UUID
	if deck, ok := m.decks[deckID]; ok && !deck.IsDeleted() {
		ids = append(ids, deck.CreatorID)
	}
	for key := range m.subs {
		if key.deckID == deckID {
			ids = append(ids, key.personID)
		}
	}
	return ids, nil
}

func (m *MockDeckStore) WithTx(_ *sql.Tx) store.DeckStore { return m }
