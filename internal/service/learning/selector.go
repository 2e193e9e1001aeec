package learning

import (
	"bytes"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/deckmate/deckmate-api/internal/domain"
)

// SelectCards partitions a deck's cards into due and new for one person and
// returns the study order: due cards first, earliest nextLearn first, then
// new cards in deck-insertion order. Reviews come before new material to
// prioritize retention over expansion.
//
// cards must be in deck-insertion order. progress maps card ID to the
// person's existing learning progress; cards absent from the map are new.
// Cards whose nextLearn lies in the future are excluded entirely.
//
// The function is pure: same inputs, same order, no side effects.
func SelectCards(
	cards []*domain.Card,
	progress map[uuid.UUID]*domain.LearningProgress,
	now time.Time,
) []*domain.Card {
	due := make([]*domain.Card, 0, len(cards))
	fresh := make([]*domain.Card, 0, len(cards))

	for _, card := range cards {
		p, ok := progress[card.ID]
		if !ok {
			fresh = append(fresh, card)
			continue
		}
		if p.Due(now) {
			due = append(due, card)
		}
	}

	// Earliest-due first; ties broken by card ID so the order is
	// deterministic across calls.
	sort.SliceStable(due, func(i, j int) bool {
		pi, pj := progress[due[i].ID], progress[due[j].ID]
		if !pi.NextLearn.Equal(pj.NextLearn) {
			return pi.NextLearn.Before(pj.NextLearn)
		}
		return bytes.Compare(due[i].ID[:], due[j].ID[:]) < 0
	})

	return append(due, fresh...)
}
