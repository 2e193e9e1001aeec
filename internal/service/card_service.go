package service

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/deckmate/deckmate-api/internal/domain"
	"github.com/deckmate/deckmate-api/internal/store"
)

// CardService provides card management within decks. Writes require deck
// ownership; reads require learn permission (owner or subscriber).
type CardService interface {
	// CreateCard adds a single card to a deck the actor owns.
	CreateCard(
		ctx context.Context,
		actor *domain.Person,
		deckID uuid.UUID,
		frontText, backText string,
		flipped bool,
	) (*domain.Card, error)

	// CreateCards adds multiple cards to a deck the actor owns in one
	// transaction. Either all cards are created or none.
	CreateCards(
		ctx context.Context,
		actor *domain.Person,
		deckID uuid.UUID,
		inputs []CardInput,
	) ([]*domain.Card, error)

	// ListCards returns a deck's cards in insertion order. Requires learn
	// permission: a merely published deck exposes catalog metadata, not
	// card contents.
	ListCards(ctx context.Context, viewer *domain.Person, deckID uuid.UUID) ([]*domain.Card, error)

	// UpdateCard changes a card's texts and flip flag. An empty text leaves
	// that side unchanged. Deck owner only.
	UpdateCard(
		ctx context.Context,
		actor *domain.Person,
		cardID uuid.UUID,
		frontText, backText string,
		flipped bool,
	) (*domain.Card, error)

	// DeleteCard removes a card from a deck the actor owns. Learning
	// progress for the card is cascade-deleted.
	DeleteCard(ctx context.Context, actor *domain.Person, cardID uuid.UUID) error
}

// CardInput is the plain data needed to create one card.
type CardInput struct {
	FrontText string
	BackText  string
	Flipped   bool
}

// CardServiceImpl implements the CardService interface
type CardServiceImpl struct {
	cardStore store.CardStore
	deckStore store.DeckStore
	db        *sql.DB
	logger    *slog.Logger
}

// Ensure CardServiceImpl implements CardService interface
var _ CardService = (*CardServiceImpl)(nil)

// NewCardService creates a new CardService
func NewCardService(
	cardStore store.CardStore,
	deckStore store.DeckStore,
	db *sql.DB,
	logger *slog.Logger,
) *CardServiceImpl {
	return &CardServiceImpl{
		cardStore: cardStore,
		deckStore: deckStore,
		db:        db,
		logger:    logger.With("component", "card_service"),
	}
}

// requireOwnedDeck loads the deck and checks the actor owns it and the deck
// accepts writes (not deleted, not blocked).
func (s *CardServiceImpl) requireOwnedDeck(
	ctx context.Context,
	actor *domain.Person,
	deckID uuid.UUID,
) (*domain.Deck, error) {
	deck, err := s.deckStore.GetByID(ctx, deckID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve deck: %w", err)
	}
	if deck.IsDeleted() {
		return nil, fmt.Errorf("deck is deleted: %w", store.ErrDeckNotFound)
	}
	if deck.CreatorID != actor.ID {
		return nil, fmt.Errorf("%w: deck belongs to another person", ErrNotOwned)
	}
	if deck.IsBlocked() {
		return nil, fmt.Errorf("%w: deck is blocked", ErrPermissionDenied)
	}
	return deck, nil
}

// CreateCard adds a single card to a deck the actor owns.
func (s *CardServiceImpl) CreateCard(
	ctx context.Context,
	actor *domain.Person,
	deckID uuid.UUID,
	frontText, backText string,
	flipped bool,
) (*domain.Card, error) {
	if _, err := s.requireOwnedDeck(ctx, actor, deckID); err != nil {
		return nil, err
	}

	card, err := domain.NewCard(deckID, frontText, backText, flipped)
	if err != nil {
		return nil, fmt.Errorf("failed to create card: %w", err)
	}

	if err := s.cardStore.Create(ctx, card); err != nil {
		s.logger.Error("failed to save card",
			"error", err,
			"deck_id", deckID)
		return nil, fmt.Errorf("failed to save card: %w", err)
	}

	s.logger.Debug("card created",
		"card_id", card.ID,
		"deck_id", deckID)
	return card, nil
}

// CreateCards adds multiple cards to a deck the actor owns in one transaction.
func (s *CardServiceImpl) CreateCards(
	ctx context.Context,
	actor *domain.Person,
	deckID uuid.UUID,
	inputs []CardInput,
) ([]*domain.Card, error) {
	if _, err := s.requireOwnedDeck(ctx, actor, deckID); err != nil {
		return nil, err
	}

	cards := make([]*domain.Card, 0, len(inputs))
	for _, in := range inputs {
		card, err := domain.NewCard(deckID, in.FrontText, in.BackText, in.Flipped)
		if err != nil {
			return nil, fmt.Errorf("failed to create card: %w", err)
		}
		cards = append(cards, card)
	}

	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		return s.cardStore.WithTx(tx).CreateMultiple(ctx, cards)
	})
	if err != nil {
		s.logger.Error("failed to save cards",
			"error", err,
			"deck_id", deckID,
			"card_count", len(cards))
		return nil, fmt.Errorf("failed to save cards: %w", err)
	}

	s.logger.Debug("cards created",
		"deck_id", deckID,
		"card_count", len(cards))
	return cards, nil
}

// ListCards returns a deck's cards in insertion order.
func (s *CardServiceImpl) ListCards(
	ctx context.Context,
	viewer *domain.Person,
	deckID uuid.UUID,
) ([]*domain.Card, error) {
	deck, err := s.deckStore.GetByID(ctx, deckID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve deck: %w", err)
	}

	var role domain.Role
	if viewer != nil && deck.CreatorID == viewer.ID {
		role = domain.RoleOwner
	} else if viewer != nil {
		subscribed, err := s.deckStore.IsSubscribed(ctx, deckID, viewer.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve subscription: %w", err)
		}
		role = domain.RoleOf(deck, viewer, subscribed)
	} else {
		role = domain.RoleNone
	}

	if !domain.Visible(deck, viewer, role) {
		if deck.IsDeleted() {
			return nil, fmt.Errorf("deck is deleted: %w", store.ErrDeckNotFound)
		}
		return nil, fmt.Errorf("%w: deck is not visible", ErrPermissionDenied)
	}
	if !domain.CanLearn(role) && !viewer.IsAdmin() {
		return nil, fmt.Errorf("%w: subscribe to the deck to access its cards", ErrPermissionDenied)
	}

	cards, err := s.cardStore.ListByDeck(ctx, deckID)
	if err != nil {
		return nil, fmt.Errorf("failed to list cards: %w", err)
	}
	return cards, nil
}

// UpdateCard changes a card's texts and flip flag. Deck owner only.
func (s *CardServiceImpl) UpdateCard(
	ctx context.Context,
	actor *domain.Person,
	cardID uuid.UUID,
	frontText, backText string,
	flipped bool,
) (*domain.Card, error) {
	card, err := s.cardStore.GetByID(ctx, cardID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve card: %w", err)
	}
	if _, err := s.requireOwnedDeck(ctx, actor, card.DeckID); err != nil {
		return nil, err
	}

	if err := card.UpdateTexts(frontText, backText, flipped); err != nil {
		return nil, fmt.Errorf("invalid card update: %w", err)
	}

	if err := s.cardStore.Update(ctx, card); err != nil {
		s.logger.Error("failed to update card",
			"error", err,
			"card_id", cardID)
		return nil, fmt.Errorf("failed to update card: %w", err)
	}

	s.logger.Debug("card updated", "card_id", cardID)
	return card, nil
}

// DeleteCard removes a card from a deck the actor owns.
func (s *CardServiceImpl) DeleteCard(
	ctx context.Context,
	actor *domain.Person,
	cardID uuid.UUID,
) error {
	card, err := s.cardStore.GetByID(ctx, cardID)
	if err != nil {
		return fmt.Errorf("failed to retrieve card: %w", err)
	}
	if _, err := s.requireOwnedDeck(ctx, actor, card.DeckID); err != nil {
		return err
	}

	if err := s.cardStore.Delete(ctx, cardID); err != nil {
		s.logger.Error("failed to delete card",
			"error", err,
			"card_id", cardID)
		return fmt.Errorf("failed to delete card: %w", err)
	}

	s.logger.Debug("card deleted", "card_id", cardID, "deck_id", card.DeckID)
	return nil
}
