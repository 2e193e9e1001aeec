package store

import (
	"context"
	"database/sql"

	"github.com/deckmate/deckmate-api/internal/domain"
	"github.com/google/uuid"
)

// LearningProgressStore defines the interface for learning progress
// persistence. Records are keyed by the (card, person) pair; there is at
// most one record per pair.
type LearningProgressStore interface {
	// Get retrieves the progress for a (card, person) pair.
	// Returns ErrProgressNotFound if no record exists yet.
	// NOTE: This method does not lock the row; use GetForUpdate inside a
	// transaction when the record will be written back.
	Get(ctx context.Context, cardID, personID uuid.UUID) (*domain.LearningProgress, error)

	// GetForUpdate retrieves the progress with a row-level lock
	// (SELECT ... FOR UPDATE). Must be used within a transaction when the
	// caller plans to update the record, so that two concurrent grades are
	// serialized instead of silently clobbering each other.
	// Returns ErrProgressNotFound if no record exists yet.
	GetForUpdate(ctx context.Context, cardID, personID uuid.UUID) (*domain.LearningProgress, error)

	// Upsert atomically inserts or replaces the record for the pair
	// (INSERT ... ON CONFLICT DO UPDATE). A lost write race surfaces as
	// ErrConcurrentUpdate and is retried once by the learning service.
	Upsert(ctx context.Context, progress *domain.LearningProgress) error

	// GetForCards retrieves all existing progress records of one person for
	// a set of cards, keyed by card ID. Cards without a record are simply
	// absent from the map; the card selector treats those as new.
	GetForCards(
		ctx context.Context,
		personID uuid.UUID,
		cardIDs []uuid.UUID,
	) (map[uuid.UUID]*domain.LearningProgress, error)

	// Delete removes the record for the pair.
	// Returns ErrProgressNotFound if no record exists.
	Delete(ctx context.Context, cardID, personID uuid.UUID) error

	// WithTx returns a new LearningProgressStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) LearningProgressStore
}
