package mocks

import (
	"context"
	"database/sql"
	"sync"

	"github.com/google/uuid"

	"github.com/deckmate/deckmate-api/internal/domain"
	"github.com/deckmate/deckmate-api/internal/store"
)

type progressKey struct {
	cardID   uuid.UUID
	personID uuid.UUID
}

// MockProgressStore is an in-memory LearningProgressStore for tests.
//
// UpsertErr, when set, is returned by the next Upsert call and then cleared,
// which lets tests simulate a single lost write race.
type MockProgressStore struct {
	mu      sync.Mutex
	records map[progressKey]*domain.LearningProgress

	UpsertErr error
}

var _ store.LearningProgressStore = (*MockProgressStore)(nil)

// NewMockProgressStore creates an empty MockProgressStore.
func NewMockProgressStore() *MockProgressStore {
	return &MockProgressStore{records: make(map[progressKey]*domain.LearningProgress)}
}

// Add seeds the store with a progress record.
func (m *MockProgressStore) Add(progress *domain.LearningProgress) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[progressKey{progress.CardID, progress.PersonID}] = progress
}

func (m *MockProgressStore) Get(
	_ context.Context,
	cardID, personID uuid.UUID,
) (*domain.LearningProgress, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	progress, ok := m.records[progressKey{cardID, personID}]
	if !ok {
		return nil, store.ErrProgressNotFound
	}
	return progress, nil
}

func (m *MockProgressStore) GetForUpdate(
	ctx context.Context,
	cardID, personID uuid.UUID,
) (*domain.LearningProgress, error) {
	return m.Get(ctx, cardID, personID)
}

func (m *MockProgressStore) Upsert(
	_ context.Context,
	progress *domain.LearningProgress,
) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.UpsertErr != nil {
		err := m.UpsertErr
		m.UpsertErr = nil
		return err
	}
	m.records[progressKey{progress.CardID, progress.PersonID}] = progress
	return nil
}

func (m *MockProgressStore) GetForCards(
	_ context.Context,
	personID uuid.UUID,
	cardIDs []uuid.UUID,
) (map[uuid.UUID]*domain.LearningProgress, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make(map[uuid.UUID]*domain.LearningProgress)
	for _, cardID := range cardIDs {
		if progress, ok := m.records[progressKey{cardID, personID}]; ok {
			result[cardID] = progress
		}
	}
	return result, nil
}

func (m *MockProgressStore) Delete(_ context.Context, cardID, personID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := progressKey{cardID, personID}
	if _, ok := m.records[key]; !ok {
		return store.ErrProgressNotFound
	}
	delete(m.records, key)
	return nil
}

func (m *MockProgressStore) WithTx(_ *sql.Tx) store.LearningProgressStore { return m }
