package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/deckmate/deckmate-api/internal/domain"
	"github.com/deckmate/deckmate-api/internal/store"
	"github.com/google/uuid"
)

// PostgresCardStore implements the store.CardStore interface
// using a PostgreSQL database as the storage backend.
type PostgresCardStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresCardStore creates a new PostgreSQL implementation of the
// CardStore interface. It accepts a database connection or transaction
// that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresCardStore(db store.DBTX, logger *slog.Logger) *PostgresCardStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresCardStore{
		db:     db,
		logger: logger.With(slog.String("component", "card_store")),
	}
}

// Ensure PostgresCardStore implements store.CardStore interface
var _ store.CardStore = (*PostgresCardStore)(nil)

const cardColumns = `id, deck_id, front_text, back_text, flipped, created_at, updated_at`

const insertCardQuery = `
	INSERT INTO cards (id, deck_id, front_text, back_text, flipped, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7)`

// scanCard reads one card row from the given scanner.
func scanCard(row interface{ Scan(dest ...any) error }) (*domain.Card, error) {
	var card domain.Card

	err := row.Scan(
		&card.ID,
		&card.DeckID,
		&card.FrontText,
		&card.BackText,
		&card.Flipped,
		&card.CreatedAt,
		&card.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &card, nil
}

// Create implements store.CardStore.Create
func (s *PostgresCardStore) Create(ctx context.Context, card *domain.Card) error {
	if err := card.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	_, err := s.db.ExecContext(ctx, insertCardQuery,
		card.ID,
		card.DeckID,
		card.FrontText,
		card.BackText,
		card.Flipped,
		card.CreatedAt,
		card.UpdatedAt,
	)
	if err != nil {
		return MapError(err)
	}

	return nil
}

// CreateMultiple implements store.CardStore.CreateMultiple
// Run it within a transaction so that either all cards are created or none.
func (s *PostgresCardStore) CreateMultiple(ctx context.Context, cards []*domain.Card) error {
	for _, card := range cards {
		if err := card.Validate(); err != nil {
			return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
		}
	}

	for _, card := range cards {
		_, err := s.db.ExecContext(ctx, insertCardQuery,
			card.ID,
			card.DeckID,
			card.FrontText,
			card.BackText,
			card.Flipped,
			card.CreatedAt,
			card.UpdatedAt,
		)
		if err != nil {
			return MapError(err)
		}
	}

	return nil
}

// GetByID implements store.CardStore.GetByID
func (s *PostgresCardStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Card, error) {
	query := `SELECT ` + cardColumns + ` FROM cards WHERE id = $1`

	card, err := scanCard(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if IsNotFoundError(err) {
			return nil, fmt.Errorf("%w: %v", store.ErrCardNotFound, err)
		}
		return nil, MapError(err)
	}

	return card, nil
}

// ListByDeck implements store.CardStore.ListByDeck
// Cards come back in insertion order, which the card selector relies on for
// the ordering of new cards.
func (s *PostgresCardStore) ListByDeck(
	ctx context.Context,
	deckID uuid.UUID,
) ([]*domain.Card, error) {
	query := `SELECT ` + cardColumns + ` FROM cards WHERE deck_id = $1 ORDER BY created_at, id`

	rows, err := s.db.QueryContext(ctx, query, deckID)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			s.logger.Warn("failed to close rows", slog.String("error", closeErr.Error()))
		}
	}()

	var cards []*domain.Card
	for rows.Next() {
		card, err := scanCard(rows)
		if err != nil {
			return nil, MapError(err)
		}
		cards = append(cards, card)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return cards, nil
}

// CountByDeck implements store.CardStore.CountByDeck
func (s *PostgresCardStore) CountByDeck(ctx context.Context, deckID uuid.UUID) (int, error) {
	query := `SELECT COUNT(*) FROM cards WHERE deck_id = $1`

	var count int
	if err := s.db.QueryRowContext(ctx, query, deckID).Scan(&count); err != nil {
		return 0, MapError(err)
	}

	return count, nil
}

// Update implements store.CardStore.Update
// The owning deck is immutable and deliberately absent from the SET clause.
func (s *PostgresCardStore) Update(ctx context.Context, card *domain.Card) error {
	if err := card.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		UPDATE cards
		SET front_text = $2, back_text = $3, flipped = $4, updated_at = $5
		WHERE id = $1`

	result, err := s.db.ExecContext(ctx, query,
		card.ID,
		card.FrontText,
		card.BackText,
		card.Flipped,
		card.UpdatedAt,
	)
	if err != nil {
		return MapError(err)
	}

	if err := CheckRowsAffected(result, "card"); err != nil {
		return fmt.Errorf("%w: %v", store.ErrCardNotFound, err)
	}

	return nil
}

// Delete implements store.CardStore.Delete
// Learning progress rows for the card are removed by the database
// ON DELETE CASCADE constraint.
func (s *PostgresCardStore) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM cards WHERE id = $1`, id)
	if err != nil {
		return MapError(err)
	}

	if err := CheckRowsAffected(result, "card"); err != nil {
		return fmt.Errorf("%w: %v", store.ErrCardNotFound, err)
	}

	return nil
}

// WithTx implements store.CardStore.WithTx
func (s *PostgresCardStore) WithTx(tx *sql.Tx) store.CardStore {
	return &PostgresCardStore{
		db:     tx,
		logger: s.logger,
	}
}
