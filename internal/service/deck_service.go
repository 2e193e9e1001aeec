package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/deckmate/deckmate-api/internal/domain"
	"github.com/deckmate/deckmate-api/internal/events"
	"github.com/deckmate/deckmate-api/internal/store"
)

// DeckView pairs a deck with the viewer's resolved role and the deck's card
// count. It is what catalog read paths hand to the presentation layer.
type DeckView struct {
	Deck      *domain.Deck
	Role      domain.Role
	CardCount int
}

// DeckService provides deck lifecycle, subscription and catalog operations.
// Every read path funnels through the same visibility predicate
// (domain.Visible) so that the rules cannot diverge between queries.
type DeckService interface {
	// CreateDeck creates a new, unpublished deck owned by the creator.
	CreateDeck(ctx context.Context, creator *domain.Person, name, description string) (*domain.Deck, error)

	// GetDeck retrieves a deck the viewer is allowed to see. A nil viewer is
	// an anonymous request. Deleted decks surface as not found for everyone.
	GetDeck(ctx context.Context, viewer *domain.Person, deckID uuid.UUID) (*DeckView, error)

	// UpdateDeck changes a deck's name and description. Owner only.
	UpdateDeck(ctx context.Context, actor *domain.Person, deckID uuid.UUID, name, description string) (*domain.Deck, error)

	// PublishDeck makes the deck discoverable by everyone. Owner only;
	// fails while the deck is blocked.
	PublishDeck(ctx context.Context, actor *domain.Person, deckID uuid.UUID) (*domain.Deck, error)

	// UnpublishDeck withdraws the deck from the public catalog. Owner only.
	// Existing subscribers keep access.
	UnpublishDeck(ctx context.Context, actor *domain.Person, deckID uuid.UUID) (*domain.Deck, error)

	// BlockDeck hides the deck from everyone but admins and notifies the
	// creator and subscribers. Admin-only.
	BlockDeck(ctx context.Context, actor *domain.Person, deckID uuid.UUID) (*domain.Deck, error)

	// UnblockDeck restores the deck to its pre-block published state and
	// notifies the creator and subscribers. Admin-only.
	UnblockDeck(ctx context.Context, actor *domain.Person, deckID uuid.UUID) (*domain.Deck, error)

	// DeleteDeck soft-deletes the deck. Terminal: a deleted deck is never
	// restored and becomes invisible to everyone, admins included. Owner or
	// admin.
	DeleteDeck(ctx context.Context, actor *domain.Person, deckID uuid.UUID) error

	// Subscribe adds the person as a subscriber of a published deck.
	// Creators cannot subscribe to their own decks.
	Subscribe(ctx context.Context, person *domain.Person, deckID uuid.UUID) error

	// Unsubscribe removes the person's subscription.
	Unsubscribe(ctx context.Context, person *domain.Person, deckID uuid.UUID) error

	// OwnedDecks lists the decks the person created, minus deleted ones.
	OwnedDecks(ctx context.Context, person *domain.Person) ([]*DeckView, error)

	// SubscribedDecks lists the visible decks the person subscribed to.
	SubscribedDecks(ctx context.Context, person *domain.Person) ([]*DeckView, error)

	// AvailableDecks lists published decks the viewer could subscribe to:
	// active, published, and not already owned or subscribed. A nil viewer
	// sees the full public catalog.
	AvailableDecks(ctx context.Context, viewer *domain.Person) ([]*DeckView, error)

	// AllDecks lists every deck regardless of state. Admin-only.
	AllDecks(ctx context.Context, actor *domain.Person) ([]*DeckView, error)

	// PersonDecks lists the decks a given person created, including blocked
	// and deleted ones. Admin-only.
	PersonDecks(ctx context.Context, actor *domain.Person, personID uuid.UUID) ([]*DeckView, error)
}

// DeckServiceImpl implements the DeckService interface
type DeckServiceImpl struct {
	deckStore   store.DeckStore
	cardStore   store.CardStore
	personStore store.PersonStore
	emitter     events.EventEmitter
	db          *sql.DB
	logger      *slog.Logger
}

// Ensure DeckServiceImpl implements DeckService interface
var _ DeckService = (*DeckServiceImpl)(nil)

// NewDeckService creates a new DeckService
func NewDeckService(
	deckStore store.DeckStore,
	cardStore store.CardStore,
	personStore store.PersonStore,
	emitter events.EventEmitter,
	db *sql.DB,
	logger *slog.Logger,
) *DeckServiceImpl {
	return &DeckServiceImpl{
		deckStore:   deckStore,
		cardStore:   cardStore,
		personStore: personStore,
		emitter:     emitter,
		db:          db,
		logger:      logger.With("component", "deck_service"),
	}
}

// roleOf resolves the viewer's role for a deck, consulting the subscription
// relation only when needed.
func (s *DeckServiceImpl) roleOf(
	ctx context.Context,
	deck *domain.Deck,
	viewer *domain.Person,
) (domain.Role, error) {
	if viewer == nil {
		return domain.RoleNone, nil
	}
	if deck.CreatorID == viewer.ID {
		return domain.RoleOwner, nil
	}

	subscribed, err := s.deckStore.IsSubscribed(ctx, deck.ID, viewer.ID)
	if err != nil {
		return domain.RoleNone, fmt.Errorf("failed to resolve subscription: %w", err)
	}
	return domain.RoleOf(deck, viewer, subscribed), nil
}

// resolveVisible loads a deck and gates it through the visibility predicate.
// Invisible decks surface as ErrDeckNotFound when deleted (nobody may learn
// of their existence) and ErrPermissionDenied otherwise.
func (s *DeckServiceImpl) resolveVisible(
	ctx context.Context,
	viewer *domain.Person,
	deckID uuid.UUID,
) (*domain.Deck, domain.Role, error) {
	deck, err := s.deckStore.GetByID(ctx, deckID)
	if err != nil {
		return nil, domain.RoleNone, fmt.Errorf("failed to retrieve deck: %w", err)
	}

	role, err := s.roleOf(ctx, deck, viewer)
	if err != nil {
		return nil, domain.RoleNone, err
	}

	if !domain.Visible(deck, viewer, role) {
		if deck.IsDeleted() {
			return nil, role, fmt.Errorf("deck is deleted: %w", store.ErrDeckNotFound)
		}
		return nil, role, fmt.Errorf("%w: deck is not visible", ErrPermissionDenied)
	}

	return deck, role, nil
}

// view assembles the DeckView handed to the presentation layer.
func (s *DeckServiceImpl) view(
	ctx context.Context,
	deck *domain.Deck,
	role domain.Role,
) (*DeckView, error) {
	count, err := s.cardStore.CountByDeck(ctx, deck.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to count cards: %w", err)
	}
	return &DeckView{Deck: deck, Role: role, CardCount: count}, nil
}

// CreateDeck creates a new, unpublished deck owned by the creator.
func (s *DeckServiceImpl) CreateDeck(
	ctx context.Context,
	creator *domain.Person,
	name, description string,
) (*domain.Deck, error) {
	deck, err := domain.NewDeck(creator.ID, name, description)
	if err != nil {
		return nil, fmt.Errorf("failed to create deck: %w", err)
	}

	if err := s.deckStore.Create(ctx, deck); err != nil {
		s.logger.Error("failed to save deck",
			"error", err,
			"creator_id", creator.ID)
		return nil, fmt.Errorf("failed to save deck: %w", err)
	}

	s.logger.Info("deck created",
		"deck_id", deck.ID,
		"creator_id", creator.ID)
	return deck, nil
}

// GetDeck retrieves a deck the viewer is allowed to see.
func (s *DeckServiceImpl) GetDeck(
	ctx context.Context,
	viewer *domain.Person,
	deckID uuid.UUID,
) (*DeckView, error) {
	deck, role, err := s.resolveVisible(ctx, viewer, deckID)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, deck, role)
}

// mutateOwned loads a deck, checks the actor owns it, applies fn and saves.
func (s *DeckServiceImpl) mutateOwned(
	ctx context.Context,
	actor *domain.Person,
	deckID uuid.UUID,
	allowAdmin bool,
	fn func(deck *domain.Deck) error,
) (*domain.Deck, error) {
	var deck *domain.Deck
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txStore := s.deckStore.WithTx(tx)

		var err error
		deck, err = txStore.GetByID(ctx, deckID)
		if err != nil {
			return fmt.Errorf("failed to retrieve deck: %w", err)
		}
		if deck.IsDeleted() {
			return fmt.Errorf("deck is deleted: %w", store.ErrDeckNotFound)
		}

		if deck.CreatorID != actor.ID && !(allowAdmin && actor.IsAdmin()) {
			return fmt.Errorf("%w: deck belongs to another person", ErrNotOwned)
		}

		if err := fn(deck); err != nil {
			return err
		}
		return txStore.Update(ctx, deck)
	})
	if err != nil {
		return nil, err
	}
	return deck, nil
}

// UpdateDeck changes a deck's name and description. Owner only.
func (s *DeckServiceImpl) UpdateDeck(
	ctx context.Context,
	actor *domain.Person,
	deckID uuid.UUID,
	name, description string,
) (*domain.Deck, error) {
	return s.mutateOwned(ctx, actor, deckID, false, func(deck *domain.Deck) error {
		deck.Name = name
		deck.Description = description
		if err := deck.Validate(); err != nil {
			return fmt.Errorf("invalid deck update: %w", err)
		}
		return nil
	})
}

// PublishDeck makes the deck discoverable by everyone. Owner only.
func (s *DeckServiceImpl) PublishDeck(
	ctx context.Context,
	actor *domain.Person,
	deckID uuid.UUID,
) (*domain.Deck, error) {
	deck, err := s.mutateOwned(ctx, actor, deckID, false, func(deck *domain.Deck) error {
		return deck.Publish()
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("deck published", "deck_id", deckID, "actor_id", actor.ID)
	return deck, nil
}

// UnpublishDeck withdraws the deck from the public catalog. Owner only.
func (s *DeckServiceImpl) UnpublishDeck(
	ctx context.Context,
	actor *domain.Person,
	deckID uuid.UUID,
) (*domain.Deck, error) {
	deck, err := s.mutateOwned(ctx, actor, deckID, false, func(deck *domain.Deck) error {
		return deck.Unpublish()
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("deck unpublished", "deck_id", deckID, "actor_id", actor.ID)
	return deck, nil
}

// moderate applies an admin-only lifecycle change and notifies the creator
// and subscribers through the event emitter.
func (s *DeckServiceImpl) moderate(
	ctx context.Context,
	actor *domain.Person,
	deckID uuid.UUID,
	eventType string,
	fn func(deck *domain.Deck) error,
) (*domain.Deck, error) {
	if !actor.IsAdmin() {
		return nil, fmt.Errorf("%w: deck moderation requires admin", ErrPermissionDenied)
	}

	var deck *domain.Deck
	var recipientIDs []uuid.UUID
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txStore := s.deckStore.WithTx(tx)

		var err error
		deck, err = txStore.GetByID(ctx, deckID)
		if err != nil {
			return fmt.Errorf("failed to retrieve deck: %w", err)
		}
		if err := fn(deck); err != nil {
			return err
		}
		if err := txStore.Update(ctx, deck); err != nil {
			return err
		}

		recipientIDs, err = txStore.ListSubscriberIDs(ctx, deckID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.notifyModeration(ctx, deck, eventType, recipientIDs)

	s.logger.Info("deck moderated",
		"deck_id", deckID,
		"event_type", eventType,
		"admin_id", actor.ID)
	return deck, nil
}

// notifyModeration emits the moderation event. Notification is
// fire-and-forget: a failing emitter never fails the moderation itself.
func (s *DeckServiceImpl) notifyModeration(
	ctx context.Context,
	deck *domain.Deck,
	eventType string,
	recipientIDs []uuid.UUID,
) {
	recipients := make([]string, 0, len(recipientIDs))
	for _, id := range recipientIDs {
		person, err := s.personStore.GetByID(ctx, id)
		if err != nil {
			s.logger.Warn("failed to resolve notification recipient",
				"error", err,
				"person_id", id,
				"deck_id", deck.ID)
			continue
		}
		recipients = append(recipients, person.Email)
	}

	event, err := events.NewDeckEvent(eventType, events.DeckModerationPayload{
		DeckID:     deck.ID,
		DeckName:   deck.Name,
		Recipients: recipients,
	})
	if err != nil {
		s.logger.Error("failed to build deck moderation event",
			"error", err,
			"deck_id", deck.ID)
		return
	}

	if err := s.emitter.EmitEvent(ctx, event); err != nil {
		s.logger.Warn("deck moderation notification failed",
			"error", err,
			"deck_id", deck.ID,
			"event_type", eventType)
	}
}

// BlockDeck hides the deck from everyone but admins. Admin-only.
func (s *DeckServiceImpl) BlockDeck(
	ctx context.Context,
	actor *domain.Person,
	deckID uuid.UUID,
) (*domain.Deck, error) {
	return s.moderate(ctx, actor, deckID, events.EventDeckBlocked, func(deck *domain.Deck) error {
		return deck.Block()
	})
}

// UnblockDeck restores the deck to its pre-block published state. Admin-only.
func (s *DeckServiceImpl) UnblockDeck(
	ctx context.Context,
	actor *domain.Person,
	deckID uuid.UUID,
) (*domain.Deck, error) {
	return s.moderate(ctx, actor, deckID, events.EventDeckUnblocked, func(deck *domain.Deck) error {
		return deck.Unblock()
	})
}

// DeleteDeck soft-deletes the deck. Owner or admin.
func (s *DeckServiceImpl) DeleteDeck(
	ctx context.Context,
	actor *domain.Person,
	deckID uuid.UUID,
) error {
	_, err := s.mutateOwned(ctx, actor, deckID, true, func(deck *domain.Deck) error {
		deck.Delete()
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("deck deleted", "deck_id", deckID, "actor_id", actor.ID)
	return nil
}

// Subscribe adds the person as a subscriber of a published deck.
func (s *DeckServiceImpl) Subscribe(
	ctx context.Context,
	person *domain.Person,
	deckID uuid.UUID,
) error {
	deck, role, err := s.resolveVisible(ctx, person, deckID)
	if err != nil {
		return err
	}

	if role == domain.RoleOwner {
		return fmt.Errorf("%w: creators are already part of their own decks", ErrPermissionDenied)
	}
	if role == domain.RoleSubscriber {
		return nil // idempotent
	}
	if !domain.Discoverable(deck, role) {
		return fmt.Errorf("%w: deck is not open for subscription", ErrPermissionDenied)
	}

	if err := s.deckStore.Subscribe(ctx, deckID, person.ID); err != nil {
		s.logger.Error("failed to subscribe",
			"error", err,
			"deck_id", deckID,
			"person_id", person.ID)
		return fmt.Errorf("failed to subscribe: %w", err)
	}

	s.logger.Info("person subscribed to deck",
		"deck_id", deckID,
		"person_id", person.ID)
	return nil
}

// Unsubscribe removes the person's subscription.
func (s *DeckServiceImpl) Unsubscribe(
	ctx context.Context,
	person *domain.Person,
	deckID uuid.UUID,
) error {
	if err := s.deckStore.Unsubscribe(ctx, deckID, person.ID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("not subscribed: %w", err)
		}
		s.logger.Error("failed to unsubscribe",
			"error", err,
			"deck_id", deckID,
			"person_id", person.ID)
		return fmt.Errorf("failed to unsubscribe: %w", err)
	}

	s.logger.Info("person unsubscribed from deck",
		"deck_id", deckID,
		"person_id", person.ID)
	return nil
}

// collectViews filters decks through the visibility predicate and builds
// views for those that pass the keep filter.
func (s *DeckServiceImpl) collectViews(
	ctx context.Context,
	viewer *domain.Person,
	decks []*domain.Deck,
	keep func(deck *domain.Deck, role domain.Role) bool,
) ([]*DeckView, error) {
	views := make([]*DeckView, 0, len(decks))
	for _, deck := range decks {
		role, err := s.roleOf(ctx, deck, viewer)
		if err != nil {
			return nil, err
		}
		if !domain.Visible(deck, viewer, role) {
			continue
		}
		if keep != nil && !keep(deck, role) {
			continue
		}

		view, err := s.view(ctx, deck, role)
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}
	return views, nil
}

// OwnedDecks lists the decks the person created, minus deleted ones.
func (s *DeckServiceImpl) OwnedDecks(
	ctx context.Context,
	person *domain.Person,
) ([]*DeckView, error) {
	decks, err := s.deckStore.ListByCreator(ctx, person.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list owned decks: %w", err)
	}
	return s.collectViews(ctx, person, decks, func(_ *domain.Deck, role domain.Role) bool {
		return role == domain.RoleOwner
	})
}

// SubscribedDecks lists the visible decks the person subscribed to.
func (s *DeckServiceImpl) SubscribedDecks(
	ctx context.Context,
	person *domain.Person,
) ([]*DeckView, error) {
	decks, err := s.deckStore.ListSubscribed(ctx, person.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list subscribed decks: %w", err)
	}
	return s.collectViews(ctx, person, decks, func(_ *domain.Deck, role domain.Role) bool {
		return role == domain.RoleSubscriber
	})
}

// AvailableDecks lists published decks the viewer could subscribe to.
func (s *DeckServiceImpl) AvailableDecks(
	ctx context.Context,
	viewer *domain.Person,
) ([]*DeckView, error) {
	decks, err := s.deckStore.ListPublished(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list published decks: %w", err)
	}
	return s.collectViews(ctx, viewer, decks, func(deck *domain.Deck, role domain.Role) bool {
		return domain.Discoverable(deck, role)
	})
}

// AllDecks lists every deck regardless of state. Admin-only.
// This is the one read path that bypasses the visibility predicate: the
// administrative overview includes blocked and deleted decks.
func (s *DeckServiceImpl) AllDecks(
	ctx context.Context,
	actor *domain.Person,
) ([]*DeckView, error) {
	if !actor.IsAdmin() {
		return nil, fmt.Errorf("%w: listing all decks requires admin", ErrPermissionDenied)
	}

	decks, err := s.deckStore.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list all decks: %w", err)
	}
	return s.adminViews(ctx, actor, decks)
}

// PersonDecks lists the decks a given person created, including blocked and
// deleted ones. Part of the administrative overview, so it bypasses the
// visibility predicate like AllDecks does.
func (s *DeckServiceImpl) PersonDecks(
	ctx context.Context,
	actor *domain.Person,
	personID uuid.UUID,
) ([]*DeckView, error) {
	if !actor.IsAdmin() {
		return nil, fmt.Errorf("%w: listing another person's decks requires admin", ErrPermissionDenied)
	}

	if _, err := s.personStore.GetByID(ctx, personID); err != nil {
		if errors.Is(err, store.ErrPersonNotFound) {
			return nil, store.ErrPersonNotFound
		}
		return nil, fmt.Errorf("failed to resolve person: %w", err)
	}

	decks, err := s.deckStore.ListByCreator(ctx, personID)
	if err != nil {
		return nil, fmt.Errorf("failed to list person decks: %w", err)
	}
	return s.adminViews(ctx, actor, decks)
}

func (s *DeckServiceImpl) adminViews(
	ctx context.Context,
	actor *domain.Person,
	decks []*domain.Deck,
) ([]*DeckView, error) {
	views := make([]*DeckView, 0, len(decks))
	for _, deck := range decks {
		role, err := s.roleOf(ctx, deck, actor)
		if err != nil {
			return nil, err
		}
		view, err := s.view(ctx, deck, role)
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}
	return views, nil
}
