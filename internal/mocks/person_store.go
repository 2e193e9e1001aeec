package mocks

import (
	"context"
	"database/sql"
	"sync"

	"github.com/google/uuid"

	"github.com/deckmate/deckmate-api/internal/domain"
	"github.com/deckmate/deckmate-api/internal/store"
)

// MockPersonStore is an in-memory PersonStore for tests.
type MockPersonStore struct {
	mu      sync.Mutex
	persons map[uuid.UUID]*domain.Person
}

var _ store.PersonStore = (*MockPersonStore)(nil)

// NewMockPersonStore creates an empty MockPersonStore.
func NewMockPersonStore() *MockPersonStore {
	return &MockPersonStore{persons: make(map[uuid.UUID]*domain.Person)}
}

// Add seeds the store with a person, bypassing uniqueness checks.
func (m *MockPersonStore) Add(person *domain.Person) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.persons[person.ID] = person
}

func (m *MockPersonStore) Create(_ context.Context, person *domain.Person) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.persons {
		if existing.Username == person.Username {
			return store.ErrUsernameExists
		}
	}
	m.persons[person.ID] = person
	return nil
}

func (m *MockPersonStore) GetByID(_ context.Context, id uuid.UUID) (*domain.Person, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	person, ok := m.persons[id]
	if !ok {
		return nil, store.ErrPersonNotFound
	}
	return person, nil
}

func (m *MockPersonStore) GetByUsername(
	_ context.Context,
	username string,
) (*domain.Person, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, person := range m.persons {
		if person.Username == username {
			return person, nil
		}
	}
	return nil, store.ErrPersonNotFound
}

func (m *MockPersonStore) List(_ context.Context) ([]*domain.Person, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	persons := make([]*domain.Person, 0, len(m.persons))
	for _, person := range m.persons {
		persons = append(persons, person)
	}
	return persons, nil
}

func (m *MockPersonStore) Update(_ context.Context, person *domain.Person) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.persons[person.ID]; !ok {
		return store.ErrPersonNotFound
	}
	for id, existing := range m.persons {
		if id != person.ID && existing.Username == person.Username {
			return store.ErrUsernameExists
		}
	}
	m.persons[person.ID] = person
	return nil
}

func (m *MockPersonStore) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.persons[id]; !ok {
		return store.ErrPersonNotFound
	}
	delete(m.persons, id)
	return nil
}

func (m *MockPersonStore) WithTx(_ *sql.Tx) store.PersonStore { return m }
