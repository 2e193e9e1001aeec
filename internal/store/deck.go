package store

import (
	"context"
	"database/sql"

	"github.com/deckmate/deckmate-api/internal/domain"
	"github.com/google/uuid"
)

// DeckStore defines the interface for deck data persistence, including the
// deck/person subscription relation.
type DeckStore interface {
	// Create saves a new deck to the store.
	// Returns validation errors from the domain Deck if data is invalid.
	Create(ctx context.Context, deck *domain.Deck) error

	// GetByID retrieves a deck by its unique ID, whatever its lifecycle
	// state. Callers are expected to run the result through the visibility
	// predicate before exposing it.
	// Returns ErrDeckNotFound if the deck does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Deck, error)

	// Update persists the deck's current name, description, status and
	// published flag. The creator is immutable and never updated.
	// Returns ErrDeckNotFound if the deck does not exist.
	Update(ctx context.Context, deck *domain.Deck) error

	// ListByCreator returns all decks created by the given person,
	// regardless of lifecycle state.
	ListByCreator(ctx context.Context, creatorID uuid.UUID) ([]*domain.Deck, error)

	// ListSubscribed returns all decks the given person has subscribed to.
	// Decks the person created are not included unless also subscribed.
	ListSubscribed(ctx context.Context, personID uuid.UUID) ([]*domain.Deck, error)

	// ListPublished returns all published, active decks.
	ListPublished(ctx context.Context) ([]*domain.Deck, error)

	// ListAll returns every deck in the store. Admin-only read path.
	ListAll(ctx context.Context) ([]*domain.Deck, error)

	// IsSubscribed reports whether a subscription row exists for the pair.
	// The creator is not stored as a subscriber; RoleOf handles ownership.
	IsSubscribed(ctx context.Context, deckID, personID uuid.UUID) (bool, error)

	// Subscribe adds a subscription row for the pair. Subscribing twice is
	// a no-op.
	Subscribe(ctx context.Context, deckID, personID uuid.UUID) error

	// Unsubscribe removes the subscription row for the pair.
	// Returns ErrNotFound if no subscription exists.
	Unsubscribe(ctx context.Context, deckID, personID uuid.UUID) error

	// ListSubscriberIDs returns the IDs of everyone subscribed to the deck,
	// plus the creator unless the deck is deleted. Used by the notification
	// path when a deck is blocked or unblocked.
	ListSubscriberIDs(ctx context.Context, deckID uuid.UUID) ([]uuid.UUID, error)

	// WithTx returns a new DeckStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) DeckStore
}
