package learning

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/deckmate/deckmate-api/internal/domain"
	"github.com/deckmate/deckmate-api/internal/domain/srs"
	"github.com/deckmate/deckmate-api/internal/service"
	"github.com/deckmate/deckmate-api/internal/store"
)

// ServiceImpl implements the Service interface
type ServiceImpl struct {
	cardStore     store.CardStore
	deckStore     store.DeckStore
	progressStore store.LearningProgressStore
	scheduler     srs.Service
	db            *sql.DB
	logger        *slog.Logger
}

// Ensure ServiceImpl implements Service interface
var _ Service = (*ServiceImpl)(nil)

// NewService creates a new learning Service
func NewService(
	cardStore store.CardStore,
	deckStore store.DeckStore,
	progressStore store.LearningProgressStore,
	scheduler srs.Service,
	db *sql.DB,
	logger *slog.Logger,
) *ServiceImpl {
	return &ServiceImpl{
		cardStore:     cardStore,
		deckStore:     deckStore,
		progressStore: progressStore,
		scheduler:     scheduler,
		db:            db,
		logger:        logger.With("component", "learning_service"),
	}
}

// requireLearnable gates a deck for learning: the deck must be visible to
// the learner and the learner must hold a role on it. Visibility alone is
// not enough; an admin without a role may inspect a deck but not study it.
func (s *ServiceImpl) requireLearnable(
	ctx context.Context,
	learner *domain.Person,
	deckID uuid.UUID,
) (*domain.Deck, error) {
	deck, err := s.deckStore.GetByID(ctx, deckID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve deck: %w", err)
	}

	role := domain.RoleNone
	if learner != nil {
		if deck.CreatorID == learner.ID {
			role = domain.RoleOwner
		} else {
			subscribed, err := s.deckStore.IsSubscribed(ctx, deckID, learner.ID)
			if err != nil {
				return nil, fmt.Errorf("failed to resolve subscription: %w", err)
			}
			role = domain.RoleOf(deck, learner, subscribed)
		}
	}

	if !domain.Visible(deck, learner, role) {
		if deck.IsDeleted() {
			return nil, fmt.Errorf("deck is deleted: %w", store.ErrDeckNotFound)
		}
		return nil, fmt.Errorf("%w: deck is not visible", service.ErrPermissionDenied)
	}
	if !domain.CanLearn(role) {
		return nil, fmt.Errorf(
			"%w: subscribe to the deck to study its cards", service.ErrPermissionDenied)
	}

	return deck, nil
}

// CardsToLearn returns the ordered study queue for a deck.
func (s *ServiceImpl) CardsToLearn(
	ctx context.Context,
	learner *domain.Person,
	deckID uuid.UUID,
	now time.Time,
) ([]*domain.Card, error) {
	if _, err := s.requireLearnable(ctx, learner, deckID); err != nil {
		return nil, err
	}

	cards, err := s.cardStore.ListByDeck(ctx, deckID)
	if err != nil {
		return nil, fmt.Errorf("failed to list cards: %w", err)
	}
	if len(cards) == 0 {
		return nil, nil
	}

	cardIDs := make([]uuid.UUID, len(cards))
	for i, card := range cards {
		cardIDs[i] = card.ID
	}

	progress, err := s.progressStore.GetForCards(ctx, learner.ID, cardIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load learning progress: %w", err)
	}

	queue := SelectCards(cards, progress, now)

	s.logger.Debug("study queue assembled",
		"deck_id", deckID,
		"person_id", learner.ID,
		"card_count", len(cards),
		"queue_length", len(queue))
	return queue, nil
}

// SubmitGrade records a difficulty grade for a card.
func (s *ServiceImpl) SubmitGrade(
	ctx context.Context,
	learner *domain.Person,
	cardID uuid.UUID,
	grade srs.Grade,
	now time.Time,
) (*domain.LearningProgress, error) {
	card, err := s.cardStore.GetByID(ctx, cardID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve card: %w", err)
	}
	if _, err := s.requireLearnable(ctx, learner, card.DeckID); err != nil {
		return nil, err
	}

	result, err := s.applyGrade(ctx, learner.ID, cardID, grade, now)
	if errors.Is(err, store.ErrConcurrentUpdate) {
		// Lost a race with a concurrent grade on the same pair. One retry
		// with a fresh read; a second loss is surfaced to the caller.
		s.logger.Debug("concurrent grade detected, retrying",
			"card_id", cardID,
			"person_id", learner.ID)
		result, err = s.applyGrade(ctx, learner.ID, cardID, grade, now)
	}
	if err != nil {
		if !errors.Is(err, srs.ErrInvalidGrade) {
			s.logger.Error("failed to submit grade",
				"error", err,
				"card_id", cardID,
				"person_id", learner.ID)
		}
		return nil, err
	}

	s.logger.Debug("grade recorded",
		"card_id", cardID,
		"person_id", learner.ID,
		"grade", int(grade),
		"interval_days", result.Interval,
		"repetitions", result.Repetitions)
	return result, nil
}

// applyGrade runs one locked read-modify-write of the learner's progress.
func (s *ServiceImpl) applyGrade(
	ctx context.Context,
	personID, cardID uuid.UUID,
	grade srs.Grade,
	now time.Time,
) (*domain.LearningProgress, error) {
	var result *domain.LearningProgress
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txProgress := s.progressStore.WithTx(tx)

		previous, err := txProgress.GetForUpdate(ctx, cardID, personID)
		if err != nil && !errors.Is(err, store.ErrProgressNotFound) {
			return fmt.Errorf("failed to load learning progress: %w", err)
		}
		// A missing record means this is the first grade for the pair;
		// the scheduler starts from the default state.

		next, err := s.scheduler.Update(previous, cardID, personID, grade, now)
		if err != nil {
			return err
		}

		if err := txProgress.Upsert(ctx, next); err != nil {
			return fmt.Errorf("failed to save learning progress: %w", err)
		}

		result = next
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// GetProgress returns the learner's progress for a single card.
func (s *ServiceImpl) GetProgress(
	ctx context.Context,
	learner *domain.Person,
	cardID uuid.UUID,
) (*domain.LearningProgress, error) {
	card, err := s.cardStore.GetByID(ctx, cardID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve card: %w", err)
	}
	if _, err := s.requireLearnable(ctx, learner, card.DeckID); err != nil {
		return nil, err
	}

	progress, err := s.progressStore.Get(ctx, cardID, learner.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load learning progress: %w", err)
	}
	return progress, nil
}
