package learning

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/deckmate/deckmate-api/internal/domain"
	"github.com/deckmate/deckmate-api/internal/domain/srs"
)

// Service drives the study loop for one person at a time.
type Service interface {
	// CardsToLearn returns the ordered study queue for a deck: due cards by
	// ascending next-learn time, then never-studied cards in deck order.
	// Requires learn permission on the deck (owner or subscriber).
	CardsToLearn(
		ctx context.Context,
		learner *domain.Person,
		deckID uuid.UUID,
		now time.Time,
	) ([]*domain.Card, error)

	// SubmitGrade records a difficulty grade for a card and returns the
	// rescheduled learning progress. The read-modify-write runs under a
	// row-level lock; a lost race is retried once with a fresh read before
	// the conflict is surfaced.
	SubmitGrade(
		ctx context.Context,
		learner *domain.Person,
		cardID uuid.UUID,
		grade srs.Grade,
		now time.Time,
	) (*domain.LearningProgress, error)

	// GetProgress returns the learner's progress for a single card, or
	// store.ErrProgressNotFound if the card has never been graded.
	GetProgress(
		ctx context.Context,
		learner *domain.Person,
		cardID uuid.UUID,
	) (*domain.LearningProgress, error)
}
