package store

import (
	"context"
	"database/sql"

	"github.com/deckmate/deckmate-api/internal/domain"
	"github.com/google/uuid"
)

// CardStore defines the interface for card data persistence.
type CardStore interface {
	// Create saves a single card to the store.
	// Returns validation errors from the domain Card if data is invalid.
	Create(ctx context.Context, card *domain.Card) error

	// CreateMultiple saves multiple cards to the store. Run it within a
	// transaction (store.RunInTransaction + WithTx) so that either all cards
	// are created or none.
	CreateMultiple(ctx context.Context, cards []*domain.Card) error

	// GetByID retrieves a card by its unique ID.
	// Returns ErrCardNotFound if the card does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Card, error)

	// ListByDeck returns the deck's cards in insertion order. The order is
	// what the card selector uses for new (not yet learned) cards.
	ListByDeck(ctx context.Context, deckID uuid.UUID) ([]*domain.Card, error)

	// CountByDeck returns the number of cards in the deck. Used for catalog
	// metadata where the card contents themselves are not exposed.
	CountByDeck(ctx context.Context, deckID uuid.UUID) (int, error)

	// Update modifies an existing card's texts and flip flag.
	// Returns ErrCardNotFound if the card does not exist.
	Update(ctx context.Context, card *domain.Card) error

	// Delete removes a card from the store by its ID. Learning progress rows
	// for the card are removed by the database ON DELETE CASCADE constraint.
	// Returns ErrCardNotFound if the card does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns a new CardStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) CardStore
}
