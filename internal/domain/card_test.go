package domain_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deckmate/deckmate-api/internal/domain"
)

func TestNewCard(t *testing.T) {
	t.Parallel()

	deckID := uuid.New()

	t.Run("creates a valid card", func(t *testing.T) {
		t.Parallel()

		card, err := domain.NewCard(deckID, "el perro", "the dog", false)
		require.NoError(t, err)

		assert.NotEqual(t, uuid.Nil, card.ID)
		assert.Equal(t, deckID, card.DeckID)
		assert.False(t, card.Flipped)
	})

	t.Run("rejects empty sides", func(t *testing.T) {
		t.Parallel()

		_, err := domain.NewCard(deckID, "  ", "back", false)
		assert.ErrorIs(t, err, domain.ErrEmptyCardFront)

		_, err = domain.NewCard(deckID, "front", "", true)
		assert.ErrorIs(t, err, domain.ErrEmptyCardBack)
	})

	t.Run("rejects missing deck", func(t *testing.T) {
		t.Parallel()

		_, err := domain.NewCard(uuid.Nil, "front", "back", false)
		assert.ErrorIs(t, err, domain.ErrEmptyCardDeckID)
	})
}

func TestCardUpdateTexts(t *testing.T) {
	t.Parallel()

	t.Run("updates both sides and flip flag", func(t *testing.T) {
		t.Parallel()

		card, err := domain.NewCard(uuid.New(), "front", "back", false)
		require.NoError(t, err)

		require.NoError(t, card.UpdateTexts("new front", "new back", true))
		assert.Equal(t, "new front", card.FrontText)
		assert.Equal(t, "new back", card.BackText)
		assert.True(t, card.Flipped)
	})

	t.Run("empty strings leave sides unchanged", func(t *testing.T) {
		t.Parallel()

		card, err := domain.NewCard(uuid.New(), "front", "back", false)
		require.NoError(t, err)

		require.NoError(t, card.UpdateTexts("", "new back", false))
		assert.Equal(t, "front", card.FrontText)
		assert.Equal(t, "new back", card.BackText)
	})

	t.Run("invalid update restores the original texts", func(t *testing.T) {
		t.Parallel()

		card, err := domain.NewCard(uuid.New(), "front", "back", true)
		require.NoError(t, err)

		err = card.UpdateTexts("   ", "new back", false)
		assert.ErrorIs(t, err, domain.ErrEmptyCardFront)
		assert.Equal(t, "front", card.FrontText)
		assert.Equal(t, "back", card.BackText)
		assert.True(t, card.Flipped)
	})
}
