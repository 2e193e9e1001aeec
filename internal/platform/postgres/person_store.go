package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/deckmate/deckmate-api/internal/domain"
	"github.com/deckmate/deckmate-api/internal/store"
	"github.com/google/uuid"
)

// PostgresPersonStore implements the store.PersonStore interface
// using a PostgreSQL database as the storage backend.
type PostgresPersonStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresPersonStore creates a new PostgreSQL implementation of the
// PersonStore interface. It accepts a database connection or transaction
// that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresPersonStore(db store.DBTX, logger *slog.Logger) *PostgresPersonStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresPersonStore{
		db:     db,
		logger: logger.With(slog.String("component", "person_store")),
	}
}

// Ensure PostgresPersonStore implements store.PersonStore interface
var _ store.PersonStore = (*PostgresPersonStore)(nil)

// encodePermissions flattens a permission set into the single text column
// used by the person table.
func encodePermissions(perms []domain.Permission) string {
	parts := make([]string, len(perms))
	for i, p := range perms {
		parts[i] = string(p)
	}
	return strings.Join(parts, ",")
}

// decodePermissions is the inverse of encodePermissions.
func decodePermissions(raw string) []domain.Permission {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	perms := make([]domain.Permission, len(parts))
	for i, p := range parts {
		perms[i] = domain.Permission(p)
	}
	return perms
}

// Create implements store.PersonStore.Create
func (s *PostgresPersonStore) Create(ctx context.Context, person *domain.Person) error {
	if err := person.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO persons (id, username, email, hashed_password, permissions, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := s.db.ExecContext(ctx, query,
		person.ID,
		person.Username,
		person.Email,
		person.HashedPassword,
		encodePermissions(person.Permissions),
		person.CreatedAt,
		person.UpdatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return fmt.Errorf("%w: %v", store.ErrUsernameExists, err)
		}
		return MapError(err)
	}

	return nil
}

const personColumns = `id, username, email, hashed_password, permissions, created_at, updated_at`

// scanPerson reads one person row from the given scanner.
func scanPerson(row interface{ Scan(dest ...any) error }) (*domain.Person, error) {
	var person domain.Person
	var rawPermissions string

	err := row.Scan(
		&person.ID,
		&person.Username,
		&person.Email,
		&person.HashedPassword,
		&rawPermissions,
		&person.CreatedAt,
		&person.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	person.Permissions = decodePermissions(rawPermissions)
	return &person, nil
}

// GetByID implements store.PersonStore.GetByID
func (s *PostgresPersonStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Person, error) {
	query := `SELECT ` + personColumns + ` FROM persons WHERE id = $1`

	person, err := scanPerson(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if IsNotFoundError(err) {
			return nil, fmt.Errorf("%w: %v", store.ErrPersonNotFound, err)
		}
		return nil, MapError(err)
	}

	return person, nil
}

// GetByUsername implements store.PersonStore.GetByUsername
func (s *PostgresPersonStore) GetByUsername(
	ctx context.Context,
	username string,
) (*domain.Person, error) {
	query := `SELECT ` + personColumns + ` FROM persons WHERE username = $1`

	person, err := scanPerson(s.db.QueryRowContext(ctx, query, username))
	if err != nil {
		if IsNotFoundError(err) {
			return nil, fmt.Errorf("%w: %v", store.ErrPersonNotFound, err)
		}
		return nil, MapError(err)
	}

	return person, nil
}

// List implements store.PersonStore.List
func (s *PostgresPersonStore) List(ctx context.Context) ([]*domain.Person, error) {
	query := `SELECT ` + personColumns + ` FROM persons ORDER BY created_at`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			s.logger.Warn("failed to close rows", slog.String("error", closeErr.Error()))
		}
	}()

	var persons []*domain.Person
	for rows.Next() {
		person, err := scanPerson(rows)
		if err != nil {
			return nil, MapError(err)
		}
		persons = append(persons, person)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return persons, nil
}

// Update implements store.PersonStore.Update
func (s *PostgresPersonStore) Update(ctx context.Context, person *domain.Person) error {
	if err := person.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		UPDATE persons
		SET username = $2, email = $3, hashed_password = $4, permissions = $5, updated_at = $6
		WHERE id = $1`

	result, err := s.db.ExecContext(ctx, query,
		person.ID,
		person.Username,
		person.Email,
		person.HashedPassword,
		encodePermissions(person.Permissions),
		person.UpdatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return fmt.Errorf("%w: %v", store.ErrUsernameExists, err)
		}
		return MapError(err)
	}

	if err := CheckRowsAffected(result, "person"); err != nil {
		return fmt.Errorf("%w: %v", store.ErrPersonNotFound, err)
	}

	return nil
}

// Delete implements store.PersonStore.Delete
// Learning progress rows and subscriptions of the person are removed by
// the database ON DELETE CASCADE constraints.
func (s *PostgresPersonStore) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM persons WHERE id = $1`, id)
	if err != nil {
		return MapError(err)
	}

	if err := CheckRowsAffected(result, "person"); err != nil {
		return fmt.Errorf("%w: %v", store.ErrPersonNotFound, err)
	}

	return nil
}

// WithTx implements store.PersonStore.WithTx
func (s *PostgresPersonStore) WithTx(tx *sql.Tx) store.PersonStore {
	return &PostgresPersonStore{
		db:     tx,
		logger: s.logger,
	}
}
