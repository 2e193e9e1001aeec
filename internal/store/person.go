package store

import (
	"context"
	"database/sql"

	"github.com/deckmate/deckmate-api/internal/domain"
	"github.com/google/uuid"
)

// PersonStore defines the interface for person data persistence.
type PersonStore interface {
	// Create saves a new person to the store.
	// Returns ErrUsernameExists if the username is already taken.
	// Returns validation errors from the domain Person if data is invalid.
	Create(ctx context.Context, person *domain.Person) error

	// GetByID retrieves a person by their unique ID.
	// Returns ErrPersonNotFound if the person does not exist.
	// The returned person carries the hashed password, never the plaintext one.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Person, error)

	// GetByUsername retrieves a person by their username.
	// Returns ErrPersonNotFound if the person does not exist.
	GetByUsername(ctx context.Context, username string) (*domain.Person, error)

	// List returns all persons. Admin-only read path.
	List(ctx context.Context) ([]*domain.Person, error)

	// Update modifies an existing person's details, including the permission
	// set. The caller must provide a complete person object with
	// HashedPassword already set.
	// Returns ErrPersonNotFound if the person does not exist.
	// Returns ErrUsernameExists if updating to a username that already exists.
	Update(ctx context.Context, person *domain.Person) error

	// Delete removes a person by their ID. Learning progress rows for the
	// person are removed by the database cascade.
	// Returns ErrPersonNotFound if the person does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns a new PersonStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) PersonStore
}
