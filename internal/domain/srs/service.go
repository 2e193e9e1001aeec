package srs

import (
	"errors"
	"fmt"
	"time"

	"github.com/deckmate/deckmate-api/internal/domain"
	"github.com/google/uuid"
)

// Common errors
var (
	// ErrInvalidGrade is returned when a grade falls outside the supported 0-5 scale.
	ErrInvalidGrade = errors.New("grade must be between 0 and 5")
)

// Service defines the interface for scheduler operations.
type Service interface {
	// Update computes the next LearningProgress from the previous one plus a
	// grade. A nil previous record is treated as the starting state
	// (repetitions 0, interval 0, ease factor 2.5) for the given pair.
	// The function is pure; the caller is responsible for persisting the result.
	Update(
		previous *domain.LearningProgress,
		cardID, personID uuid.UUID,
		grade Grade,
		now time.Time,
	) (*domain.LearningProgress, error)
}

// defaultService is the standard implementation of the Service interface.
type defaultService struct {
	params *Params
}

// NewDefaultService creates a new scheduler service with default parameters.
func NewDefaultService() Service {
	return &defaultService{params: NewDefaultParams()}
}

// NewServiceWithParams creates a new scheduler service with custom parameters.
func NewServiceWithParams(params *Params) Service {
	return &defaultService{params: params}
}

// Update implements the Service interface.
func (s *defaultService) Update(
	previous *domain.LearningProgress,
	cardID, personID uuid.UUID,
	grade Grade,
	now time.Time,
) (*domain.LearningProgress, error) {
	if grade < MinGrade || grade > MaxGrade {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidGrade, grade)
	}

	if previous == nil {
		fresh, err := domain.NewLearningProgress(cardID, personID)
		if err != nil {
			return nil, err
		}
		fresh.CreatedAt = now
		previous = fresh
	}

	return calculateNextProgress(previous, grade, now, s.params), nil
}
