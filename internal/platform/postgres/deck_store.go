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

// PostgresDeckStore implements the store.DeckStore interface
// using a PostgreSQL database as the storage backend.
type PostgresDeckStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresDeckStore creates a new PostgreSQL implementation of the
// DeckStore interface. It accepts a database connection or transaction
// that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresDeckStore(db store.DBTX, logger *slog.Logger) *PostgresDeckStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresDeckStore{
		db:     db,
		logger: logger.With(slog.String("component", "deck_store")),
	}
}

// Ensure PostgresDeckStore implements store.DeckStore interface
var _ store.DeckStore = (*PostgresDeckStore)(nil)

const deckColumns = `id, name, description, creator_id, status, published, created_at, updated_at`

// scanDeck reads one deck row from the given scanner.
func scanDeck(row interface{ Scan(dest ...any) error }) (*domain.Deck, error) {
	var deck domain.Deck
	var status string

	err := row.Scan(
		&deck.ID,
		&deck.Name,
		&deck.Description,
		&deck.CreatorID,
		&status,
		&deck.Published,
		&deck.CreatedAt,
		&deck.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	deck.Status = domain.DeckStatus(status)
	return &deck, nil
}

// queryDecks runs a deck query and scans all resulting rows.
func (s *PostgresDeckStore) queryDecks(
	ctx context.Context,
	query string,
	args ...any,
) ([]*domain.Deck, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			s.logger.Warn("failed to close rows", slog.String("error", closeErr.Error()))
		}
	}()

	var decks []*domain.Deck
	for rows.Next() {
		deck, err := scanDeck(rows)
		if err != nil {
			return nil, MapError(err)
		}
		decks = append(decks, deck)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return decks, nil
}

// Create implements store.DeckStore.Create
func (s *PostgresDeckStore) Create(ctx context.Context, deck *domain.Deck) error {
	if err := deck.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO decks (id, name, description, creator_id, status, published, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := s.db.ExecContext(ctx, query,
		deck.ID,
		deck.Name,
		deck.Description,
		deck.CreatorID,
		string(deck.Status),
		deck.Published,
		deck.CreatedAt,
		deck.UpdatedAt,
	)
	if err != nil {
		return MapError(err)
	}

	return nil
}

// GetByID implements store.DeckStore.GetByID
func (s *PostgresDeckStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Deck, error) {
	query := `SELECT ` + deckColumns + ` FROM decks WHERE id = $1`

	deck, err := scanDeck(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if IsNotFoundError(err) {
			return nil, fmt.Errorf("%w: %v", store.ErrDeckNotFound, err)
		}
		return nil, MapError(err)
	}

	return deck, nil
}

// Update implements store.DeckStore.Update
// The creator is immutable and deliberately absent from the SET clause.
func (s *PostgresDeckStore) Update(ctx context.Context, deck *domain.Deck) error {
	if err := deck.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		UPDATE decks
		SET name = $2, description = $3, status = $4, published = $5, updated_at = $6
		WHERE id = $1`

	result, err := s.db.ExecContext(ctx, query,
		deck.ID,
		deck.Name,
		deck.Description,
		string(deck.Status),
		deck.Published,
		deck.UpdatedAt,
	)
	if err != nil {
		return MapError(err)
	}

	if err := CheckRowsAffected(result, "deck"); err != nil {
		return fmt.Errorf("%w: %v", store.ErrDeckNotFound, err)
	}

	return nil
}

// ListByCreator implements store.DeckStore.ListByCreator
func (s *PostgresDeckStore) ListByCreator(
	ctx context.Context,
	creatorID uuid.UUID,
) ([]*domain.Deck, error) {
	query := `SELECT ` + deckColumns + ` FROM decks WHERE creator_id = $1 ORDER BY created_at`
	return s.queryDecks(ctx, query, creatorID)
}

// ListSubscribed implements store.DeckStore.ListSubscribed
func (s *PostgresDeckStore) ListSubscribed(
	ctx context.Context,
	personID uuid.UUID,
) ([]*domain.Deck, error) {
	query := `
		SELECT ` + deckColumns + `
		FROM decks
		JOIN deck_subscriptions ON deck_subscriptions.deck_id = decks.id
		WHERE deck_subscriptions.person_id = $1
		ORDER BY decks.created_at`
	return s.queryDecks(ctx, query, personID)
}

// ListPublished implements store.DeckStore.ListPublished
func (s *PostgresDeckStore) ListPublished(ctx context.Context) ([]*domain.Deck, error) {
	query := `
		SELECT ` + deckColumns + `
		FROM decks
		WHERE published AND status = $1
		ORDER BY created_at`
	return s.queryDecks(ctx, query, string(domain.DeckStatusActive))
}

// ListAll implements store.DeckStore.ListAll
func (s *PostgresDeckStore) ListAll(ctx context.Context) ([]*domain.Deck, error) {
	query := `SELECT ` + deckColumns + ` FROM decks ORDER BY created_at`
	return s.queryDecks(ctx, query)
}

// IsSubscribed implements store.DeckStore.IsSubscribed
func (s *PostgresDeckStore) IsSubscribed(
	ctx context.Context,
	deckID, personID uuid.UUID,
) (bool, error) {
	query := `SELECT EXISTS(
		SELECT 1 FROM deck_subscriptions WHERE deck_id = $1 AND person_id = $2)`

	var subscribed bool
	if err := s.db.QueryRowContext(ctx, query, deckID, personID).Scan(&subscribed); err != nil {
		return false, MapError(err)
	}

	return subscribed, nil
}

// Subscribe implements store.DeckStore.Subscribe
func (s *PostgresDeckStore) Subscribe(ctx context.Context, deckID, personID uuid.UUID) error {
	query := `
		INSERT INTO deck_subscriptions (deck_id, person_id, created_at)
		VALUES ($1, $2, now())
		ON CONFLICT (deck_id, person_id) DO NOTHING`

	if _, err := s.db.ExecContext(ctx, query, deckID, personID); err != nil {
		return MapError(err)
	}

	return nil
}

// Unsubscribe implements store.DeckStore.Unsubscribe
func (s *PostgresDeckStore) Unsubscribe(ctx context.Context, deckID, personID uuid.UUID) error {
	query := `DELETE FROM deck_subscriptions WHERE deck_id = $1 AND person_id = $2`

	result, err := s.db.ExecContext(ctx, query, deckID, personID)
	if err != nil {
		return MapError(err)
	}

	return CheckRowsAffected(result, "subscription")
}

// ListSubscriberIDs implements store.DeckStore.ListSubscriberIDs
// The creator counts as an effective subscriber unless the deck is deleted.
func (s *PostgresDeckStore) ListSubscriberIDs(
	ctx context.Context,
	deckID uuid.UUID,
) ([]uuid.UUID, error) {
	deck, err := s.GetByID(ctx, deckID)
	if err != nil {
		return nil, err
	}

	query := `SELECT person_id FROM deck_subscriptions WHERE deck_id = $1 ORDER BY created_at`

	rows, err := s.db.QueryContext(ctx, query, deckID)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			s.logger.Warn("failed to close rows", slog.String("error", closeErr.Error()))
		}
	}()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, MapError(err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	if !deck.IsDeleted() {
		ids = append(ids, deck.CreatorID)
	}

	return ids, nil
}

// WithTx implements store.DeckStore.WithTx
func (s *PostgresDeckStore) WithTx(tx *sql.Tx) store.DeckStore {
	return &PostgresDeckStore{
		db:     tx,
		logger: s.logger,
	}
}
