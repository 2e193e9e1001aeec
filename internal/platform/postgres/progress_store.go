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

// PostgresLearningProgressStore implements the store.LearningProgressStore
// interface using a PostgreSQL database as the storage backend. Records are
// keyed by the (card_id, person_id) composite primary key.
type PostgresLearningProgressStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresLearningProgressStore creates a new PostgreSQL implementation
// of the LearningProgressStore interface. It accepts a database connection
// or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresLearningProgressStore(
	db store.DBTX,
	logger *slog.Logger,
) *PostgresLearningProgressStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresLearningProgressStore{
		db:     db,
		logger: logger.With(slog.String("component", "learning_progress_store")),
	}
}

// Ensure PostgresLearningProgressStore implements store.LearningProgressStore interface
var _ store.LearningProgressStore = (*PostgresLearningProgressStore)(nil)

const progressColumns = `card_id, person_id, interval, ease_factor, repetitions, next_learn, created_at, updated_at`

// scanProgress reads one learning progress row from the given scanner.
func scanProgress(row interface{ Scan(dest ...any) error }) (*domain.LearningProgress, error) {
	var progress domain.LearningProgress

	err := row.Scan(
		&progress.CardID,
		&progress.PersonID,
		&progress.Interval,
		&progress.EaseFactor,
		&progress.Repetitions,
		&progress.NextLearn,
		&progress.CreatedAt,
		&progress.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &progress, nil
}

// Get implements store.LearningProgressStore.Get
func (s *PostgresLearningProgressStore) Get(
	ctx context.Context,
	cardID, personID uuid.UUID,
) (*domain.LearningProgress, error) {
	query := `SELECT ` + progressColumns + ` FROM learning_progress
		WHERE card_id = $1 AND person_id = $2`

	progress, err := scanProgress(s.db.QueryRowContext(ctx, query, cardID, personID))
	if err != nil {
		if IsNotFoundError(err) {
			return nil, fmt.Errorf("%w: %v", store.ErrProgressNotFound, err)
		}
		return nil, MapError(err)
	}

	return progress, nil
}

// GetForUpdate implements store.LearningProgressStore.GetForUpdate
// The row lock serializes concurrent grade submissions for the same pair.
func (s *PostgresLearningProgressStore) GetForUpdate(
	ctx context.Context,
	cardID, personID uuid.UUID,
) (*domain.LearningProgress, error) {
	query := `SELECT ` + progressColumns + ` FROM learning_progress
		WHERE card_id = $1 AND person_id = $2
		FOR UPDATE`

	progress, err := scanProgress(s.db.QueryRowContext(ctx, query, cardID, personID))
	if err != nil {
		if IsNotFoundError(err) {
			return nil, fmt.Errorf("%w: %v", store.ErrProgressNotFound, err)
		}
		return nil, MapError(err)
	}

	return progress, nil
}

// Upsert implements store.LearningProgressStore.Upsert
func (s *PostgresLearningProgressStore) Upsert(
	ctx context.Context,
	progress *domain.LearningProgress,
) error {
	if err := progress.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO learning_progress
			(card_id, person_id, interval, ease_factor, repetitions, next_learn, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (card_id, person_id) DO UPDATE
		SET interval = EXCLUDED.interval,
		    ease_factor = EXCLUDED.ease_factor,
		    repetitions = EXCLUDED.repetitions,
		    next_learn = EXCLUDED.next_learn,
		    updated_at = EXCLUDED.updated_at`

	_, err := s.db.ExecContext(ctx, query,
		progress.CardID,
		progress.PersonID,
		progress.Interval,
		progress.EaseFactor,
		progress.Repetitions,
		progress.NextLearn,
		progress.CreatedAt,
		progress.UpdatedAt,
	)
	if err != nil {
		return MapError(err)
	}

	return nil
}

// GetForCards implements store.LearningProgressStore.GetForCards
func (s *PostgresLearningProgressStore) GetForCards(
	ctx context.Context,
	personID uuid.UUID,
	cardIDs []uuid.UUID,
) (map[uuid.UUID]*domain.LearningProgress, error) {
	result := make(map[uuid.UUID]*domain.LearningProgress, len(cardIDs))
	if len(cardIDs) == 0 {
		return result, nil
	}

	// database/sql has no slice expansion, so build the placeholder list.
	placeholders := make([]string, len(cardIDs))
	args := make([]any, 0, len(cardIDs)+1)
	args = append(args, personID)
	for i, id := range cardIDs {
		placeholders[i] = fmt.Sprintf("$%d", i+2)
		args = append(args, id)
	}

	query := `SELECT ` + progressColumns + ` FROM learning_progress
		WHERE person_id = $1 AND card_id IN (` + strings.Join(placeholders, ", ") + `)`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			s.logger.Warn("failed to close rows", slog.String("error", closeErr.Error()))
		}
	}()

	for rows.Next() {
		progress, err := scanProgress(rows)
		if err != nil {
			return nil, MapError(err)
		}
		result[progress.CardID] = progress
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return result, nil
}

// Delete implements store.LearningProgressStore.Delete
func (s *PostgresLearningProgressStore) Delete(
	ctx context.Context,
	cardID, personID uuid.UUID,
) error {
	query := `DELETE FROM learning_progress WHERE card_id = $1 AND person_id = $2`

	result, err := s.db.ExecContext(ctx, query, cardID, personID)
	if err != nil {
		return MapError(err)
	}

	if err := CheckRowsAffected(result, "learning progress"); err != nil {
		return fmt.Errorf("%w: %v", store.ErrProgressNotFound, err)
	}

	return nil
}

// WithTx implements store.LearningProgressStore.WithTx
func (s *PostgresLearningProgressStore) WithTx(tx *sql.Tx) store.LearningProgressStore {
	return &PostgresLearningProgressStore{
		db:     tx,
		logger: s.logger,
	}
}
