// Package srs implements the SM-2 spaced-repetition scheduler that decides
// when a card becomes due again after a graded review.
package srs

import (
	"math"
	"time"

	"github.com/deckmate/deckmate-api/internal/domain"
)

// calculateNewEaseFactor applies the SM-2 ease-factor rule:
//
//	EF' = EF + (0.1 - (5-g) * (0.08 + (5-g) * 0.02))
//
// The result is floored at params.MinEaseFactor, so repeated failures can
// never drive the ease factor below the minimum. The ease factor updates on
// every grade, failing ones included.
func calculateNewEaseFactor(currentEF float64, grade Grade, params *Params) float64 {
	q := float64(grade)
	newEF := currentEF + (0.1 - (5-q)*(0.08+(5-q)*0.02))

	if newEF < params.MinEaseFactor {
		newEF = params.MinEaseFactor
	}

	return newEF
}

// calculateNewInterval determines the next interval in days.
//
// A failing grade resets to the short relearn interval regardless of prior
// streak. For successful grades the interval depends on the repetition count
// AFTER this review: repetition 1 and 2 use fixed intervals, later
// repetitions grow by the new ease factor. Growth is capped at
// params.MaxInterval.
func calculateNewInterval(
	currentInterval int,
	newRepetitions int,
	newEaseFactor float64,
	passed bool,
	params *Params,
) int {
	if !passed {
		return params.RelearnInterval
	}

	var interval int
	switch newRepetitions {
	case 1:
		interval = params.FirstInterval
	case 2:
		interval = params.SecondInterval
	default:
		interval = int(math.Round(float64(currentInterval) * newEaseFactor))
	}

	if interval > params.MaxInterval {
		interval = params.MaxInterval
	}

	return interval
}

// calculateNextProgress computes the full post-review state. It never
// mutates the previous record; the caller persists the returned one.
func calculateNextProgress(
	progress *domain.LearningProgress,
	grade Grade,
	now time.Time,
	params *Params,
) *domain.LearningProgress {
	next := &domain.LearningProgress{
		CardID:      progress.CardID,
		PersonID:    progress.PersonID,
		Interval:    progress.Interval,
		EaseFactor:  progress.EaseFactor,
		Repetitions: progress.Repetitions,
		NextLearn:   progress.NextLearn,
		CreatedAt:   progress.CreatedAt,
		UpdatedAt:   now,
	}

	passed := grade >= params.PassThreshold

	next.EaseFactor = calculateNewEaseFactor(progress.EaseFactor, grade, params)

	if passed {
		next.Repetitions = progress.Repetitions + 1
	} else {
		next.Repetitions = 0
	}

	next.Interval = calculateNewInterval(
		progress.Interval,
		next.Repetitions,
		next.EaseFactor,
		passed,
		params,
	)

	next.NextLearn = now.AddDate(0, 0, next.Interval)

	return next
}
