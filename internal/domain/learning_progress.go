package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// DefaultEaseFactor is the ease factor assigned before the first review.
const DefaultEaseFactor = 2.5

// LearningProgress validation errors
var (
	// ErrEmptyProgressCardID is returned when a progress record's card ID is empty or nil.
	ErrEmptyProgressCardID = errors.New("learning progress card ID cannot be empty")

	// ErrEmptyProgressPersonID is returned when a progress record's person ID is empty or nil.
	ErrEmptyProgressPersonID = errors.New("learning progress person ID cannot be empty")

	// ErrInvalidInterval is returned when an interval is negative.
	ErrInvalidInterval = errors.New("interval must be greater than or equal to 0")

	// ErrInvalidEaseFactor is returned when an ease factor is not above 1.0.
	ErrInvalidEaseFactor = errors.New("ease factor must be greater than 1.0")

	// ErrInvalidRepetitions is returned when a repetition count is negative.
	ErrInvalidRepetitions = errors.New("repetitions must be greater than or equal to 0")
)

// LearningProgress tracks one person's spaced-repetition state for one card.
// It is keyed by the (card, person) pair; there is at most one record per
// pair, created lazily on the first grade and mutated by the scheduler on
// every subsequent one.
type LearningProgress struct {
	CardID      uuid.UUID `json:"card_id"`
	PersonID    uuid.UUID `json:"person_id"`
	Interval    int       `json:"interval"`    // Days until next review at last computation
	EaseFactor  float64   `json:"ease_factor"` // SM-2 ease factor, floored at 1.3
	Repetitions int       `json:"repetitions"` // Consecutive successful reviews
	NextLearn   time.Time `json:"next_learn"`  // When the card becomes due again
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewLearningProgress creates the starting state for a (card, person) pair.
// The card is due immediately.
func NewLearningProgress(cardID, personID uuid.UUID) (*LearningProgress, error) {
	now := time.Now().UTC()
	progress := &LearningProgress{
		CardID:      cardID,
		PersonID:    personID,
		Interval:    0,
		EaseFactor:  DefaultEaseFactor,
		Repetitions: 0,
		NextLearn:   now,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := progress.Validate(); err != nil {
		return nil, err
	}

	return progress, nil
}

// Validate checks if the LearningProgress has valid data.
// Returns an error if any field fails validation.
func (p *LearningProgress) Validate() error {
	if p.CardID == uuid.Nil {
		return ErrEmptyProgressCardID
	}

	if p.PersonID == uuid.Nil {
		return ErrEmptyProgressPersonID
	}

	if p.Interval < 0 {
		return ErrInvalidInterval
	}

	if p.EaseFactor <= 1.0 {
		return ErrInvalidEaseFactor
	}

	if p.Repetitions < 0 {
		return ErrInvalidRepetitions
	}

	return nil
}

// Due reports whether the card is due for review at the given time.
func (p *LearningProgress) Due(now time.Time) bool {
	return !p.NextLearn.After(now)
}
