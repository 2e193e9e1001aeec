package mocks

import (
	"context"
	"database/sql"
	"sync"

	"github.com/google/uuid"

	"github.com/deckmate/deckmate-api/internal/domain"
	"github.com/deckmate/deckmate-api/internal/store"
)

// MockCardStore is an in-memory CardStore for tests. ListByDeck preserves
// insertion order, matching the real store's ordering guarantee.
type MockCardStore struct {
	mu    sync.Mutex
	cards map[uuid.UUID]*domain.Card
	order []uuid.UUID
}

var _ store.CardStore = (*MockCardStore)(nil)

// NewMockCardStore creates an empty MockCardStore.
func NewMockCardStore() *MockCardStore {
	return &MockCardStore{cards: make(map[uuid.UUID]*domain.Card)}
}

// Add seeds the store with a card.
func (m *MockCardStore) Add(card *domain.Card) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.add(card)
}

func (m *MockCardStore) add(card *domain.Card) {
	if _, ok := m.cards[card.ID]; !ok {
		m.order = append(m.order, card.ID)
	}
	m.cards[card.ID] = card
}

func (m *MockCardStore) Create(_ context.Context, card *domain.Card) error {
	m.Add(card)
	return nil
}

func (m *MockCardStore) CreateMultiple(_ context.Context, cards []*domain.Card) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, card := range cards {
		m.add(card)
	}
	return nil
}

func (m *MockCardStore) GetByID(_ context.Context, id uuid.UUID) (*domain.Card, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	card, ok := m.cards[id]
	if !ok {
		return nil, store.ErrCardNotFound
	}
	return card, nil
}

func (m *MockCardStore) ListByDeck(
	_ context.Context,
	deckID uuid.UUID,
) ([]*domain.Card, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cards := make([]*domain.Card, 0, len(m.order))
	for _, id := range m.order {
		if card := m.cards[id]; card.DeckID == deckID {
			cards = append(cards, card)
		}
	}
	return cards, nil
}

func (m *MockCardStore) CountByDeck(ctx context.Context, deckID uuid.UUID) (int, error) {
	cards, err := m.ListByDeck(ctx, deckID)
	if err != nil {
		return 0, err
	}
	return len(cards), nil
}

func (m *MockCardStore) Update(_ context.Context, card *domain.Card) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.cards[card.ID]; !ok {
		return store.ErrCardNotFound
	}
	m.cards[card.ID] = card
	return nil
}

func (m *MockCardStore) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.cards[id]; !ok {
		return store.ErrCardNotFound
	}
	delete(m.cards, id)
	for i, existing := range m.order {
		if existing == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

func (m *MockCardStore) WithTx(_ *sql.Tx) store.CardStore { return m }
