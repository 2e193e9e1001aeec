package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deckmate/deckmate-api/internal/domain"
	"github.com/deckmate/deckmate-api/internal/mocks"
	"github.com/deckmate/deckmate-api/internal/service"
	"github.com/deckmate/deckmate-api/internal/store"
)

type cardFixture struct {
	service   service.CardService
	cardStore *mocks.MockCardStore
	deckStore *mocks.MockDeckStore

	owner      *domain.Person
	subscriber *domain.Person
	stranger   *domain.Person
	admin      *domain.Person
	deck       *domain.Deck
}

func newCardFixture(t *testing.T) *cardFixture {
	t.Helper()

	f := &cardFixture{
		cardStore:  mocks.NewMockCardStore(),
		deckStore:  mocks.NewMockDeckStore(),
		owner:      newTestPerson(t, "owner", false),
		subscriber: newTestPerson(t, "subscriber", false),
		stranger:   newTestPerson(t, "stranger", false),
		admin:      newTestPerson(t, "admin", true),
	}

	deck, err := domain.NewDeck(f.owner.ID, "Capitals", "")
	require.NoError(t, err)
	require.NoError(t, deck.Publish())
	f.deck = deck
	f.deckStore.Add(deck)
	require.NoError(t, f.deckStore.Subscribe(context.Background(), deck.ID, f.subscriber.ID))

	f.service = service.NewCardService(f.cardStore, f.deckStore, mocks.DB(), discardLogger())
	return f
}

func TestCreateCard(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("owner adds a card", func(t *testing.T) {
		t.Parallel()

		f := newCardFixture(t)
		card, err := f.service.CreateCard(ctx, f.owner, f.deck.ID, "Oslo", "Norway", false)
		require.NoError(t, err)

		assert.Equal(t, f.deck.ID, card.DeckID)
		stored, err := f.cardStore.GetByID(ctx, card.ID)
		require.NoError(t, err)
		assert.Equal(t, card, stored)
	})

	t.Run("subscriber may not add cards", func(t *testing.T) {
		t.Parallel()

		f := newCardFixture(t)
		_, err := f.service.CreateCard(ctx, f.subscriber, f.deck.ID, "Oslo", "Norway", false)
		assert.ErrorIs(t, err, service.ErrNotOwned)
	})

	t.Run("empty text is rejected", func(t *testing.T) {
		t.Parallel()

		f := newCardFixture(t)
		_, err := f.service.CreateCard(ctx, f.owner, f.deck.ID, "", "Norway", false)
		assert.ErrorIs(t, err, domain.ErrEmptyCardFront)
	})

	t.Run("blocked deck rejects writes", func(t *testing.T) {
		t.Parallel()

		f := newCardFixture(t)
		require.NoError(t, f.deck.Block())

		_, err := f.service.CreateCard(ctx, f.owner, f.deck.ID, "Oslo", "Norway", false)
		assert.ErrorIs(t, err, service.ErrPermissionDenied)
	})

	t.Run("deleted deck is not found", func(t *testing.T) {
		t.Parallel()

		f := newCardFixture(t)
		f.deck.Delete()

		_, err := f.service.CreateCard(ctx, f.owner, f.deck.ID, "Oslo", "Norway", false)
		assert.ErrorIs(t, err, store.ErrDeckNotFound)
	})
}

func TestCreateCards(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("creates all cards in order", func(t *testing.T) {
		t.Parallel()

		f := newCardFixture(t)
		inputs := []service.CardInput{
			{FrontText: "Oslo", BackText: "Norway"},
			{FrontText: "Lima", BackText: "Peru", Flipped: true},
		}

		cards, err := f.service.CreateCards(ctx, f.owner, f.deck.ID, inputs)
		require.NoError(t, err)
		require.Len(t, cards, 2)

		listed, err := f.cardStore.ListByDeck(ctx, f.deck.ID)
		require.NoError(t, err)
		require.Len(t, listed, 2)
		assert.Equal(t, "Oslo", listed[0].FrontText)
		assert.Equal(t, "Lima", listed[1].FrontText)
		assert.True(t, listed[1].Flipped)
	})

	t.Run("one invalid card rejects the whole batch", func(t *testing.T) {
		t.Parallel()

		f := newCardFixture(t)
		inputs := []service.CardInput{
			{FrontText: "Oslo", BackText: "Norway"},
			{FrontText: "", BackText: "Peru"},
		}

		_, err := f.service.CreateCards(ctx, f.owner, f.deck.ID, inputs)
		assert.ErrorIs(t, err, domain.ErrEmptyCardFront)

		listed, err := f.cardStore.ListByDeck(ctx, f.deck.ID)
		require.NoError(t, err)
		assert.Empty(t, listed, "no card from a failed batch may be persisted")
	})
}

func TestListCards(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	seed := func(t *testing.T, f *cardFixture) *domain.Card {
		t.Helper()
		card, err := domain.NewCard(f.deck.ID, "Oslo", "Norway", false)
		require.NoError(t, err)
		f.cardStore.Add(card)
		return card
	}

	t.Run("owner and subscriber see card contents", func(t *testing.T) {
		t.Parallel()

		f := newCardFixture(t)
		card := seed(t, f)

		for _, viewer := range []*domain.Person{f.owner, f.subscriber} {
			cards, err := f.service.ListCards(ctx, viewer, f.deck.ID)
			require.NoError(t, err)
			require.Len(t, cards, 1)
			assert.Equal(t, card.ID, cards[0].ID)
		}
	})

	t.Run("published deck without a role yields no contents", func(t *testing.T) {
		t.Parallel()

		f := newCardFixture(t)
		seed(t, f)

		_, err := f.service.ListCards(ctx, f.stranger, f.deck.ID)
		assert.ErrorIs(t, err, service.ErrPermissionDenied)

		_, err = f.service.ListCards(ctx, nil, f.deck.ID)
		assert.ErrorIs(t, err, service.ErrPermissionDenied)
	})

	t.Run("admin may inspect cards without a role", func(t *testing.T) {
		t.Parallel()

		f := newCardFixture(t)
		seed(t, f)

		cards, err := f.service.ListCards(ctx, f.admin, f.deck.ID)
		require.NoError(t, err)
		assert.Len(t, cards, 1)
	})
}

func TestUpdateCard(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("owner updates texts", func(t *testing.T) {
		t.Parallel()

		f := newCardFixture(t)
		card, err := f.service.CreateCard(ctx, f.owner, f.deck.ID, "Oslo", "Norway", false)
		require.NoError(t, err)

		updated, err := f.service.UpdateCard(ctx, f.owner, card.ID, "Bergen", "", true)
		require.NoError(t, err)
		assert.Equal(t, "Bergen", updated.FrontText)
		assert.Equal(t, "Norway", updated.BackText, "empty back text leaves the side unchanged")
		assert.True(t, updated.Flipped)
	})

	t.Run("non-owner may not update", func(t *testing.T) {
		t.Parallel()

		f := newCardFixture(t)
		card, err := f.service.CreateCard(ctx, f.owner, f.deck.ID, "Oslo", "Norway", false)
		require.NoError(t, err)

		_, err = f.service.UpdateCard(ctx, f.subscriber, card.ID, "Bergen", "", false)
		assert.ErrorIs(t, err, service.ErrNotOwned)
	})

	t.Run("unknown card is not found", func(t *testing.T) {
		t.Parallel()

		f := newCardFixture(t)
		_, err := f.service.UpdateCard(ctx, f.owner, uuid.New(), "Bergen", "", false)
		assert.ErrorIs(t, err, store.ErrCardNotFound)
	})
}

func TestDeleteCard(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("owner deletes a card", func(t *testing.T) {
		t.Parallel()

		f := newCardFixture(t)
		card, err := f.service.CreateCard(ctx, f.owner, f.deck.ID, "Oslo", "Norway", false)
		require.NoError(t, err)

		require.NoError(t, f.service.DeleteCard(ctx, f.owner, card.ID))

		_, err = f.cardStore.GetByID(ctx, card.ID)
		assert.ErrorIs(t, err, store.ErrCardNotFound)
	})

	t.Run("subscriber may not delete", func(t *testing.T) {
		t.Parallel()

		f := newCardFixture(t)
		card, err := f.service.CreateCard(ctx, f.owner, f.deck.ID, "Oslo", "Norway", false)
		require.NoError(t, err)

		err = f.service.DeleteCard(ctx, f.subscriber, card.ID)
		assert.ErrorIs(t, err, service.ErrNotOwned)
	})
}
