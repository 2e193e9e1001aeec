package domain_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deckmate/deckmate-api/internal/domain"
)

func makePerson(t *testing.T, admin bool) *domain.Person {
	t.Helper()
	permissions := domain.DefaultPermissions()
	if admin {
		permissions = append(permissions, domain.PermissionAdmin)
	}
	person, err := domain.NewPersonWithPermissions(
		uuid.NewString()[:8], "person@example.com", "a-long-password-1", permissions)
	require.NoError(t, err)
	return person
}

func TestRoleOf(t *testing.T) {
	t.Parallel()

	creator := makePerson(t, false)
	deck, err := domain.NewDeck(creator.ID, "Roles", "")
	require.NoError(t, err)

	other := makePerson(t, false)

	assert.Equal(t, domain.RoleNone, domain.RoleOf(deck, nil, false))
	assert.Equal(t, domain.RoleOwner, domain.RoleOf(deck, creator, false))
	assert.Equal(t, domain.RoleSubscriber, domain.RoleOf(deck, other, true))
	assert.Equal(t, domain.RoleNone, domain.RoleOf(deck, other, false))

	// Ownership wins even if a stray subscription row exists.
	assert.Equal(t, domain.RoleOwner, domain.RoleOf(deck, creator, true))
}

func TestVisible(t *testing.T) {
	t.Parallel()

	owner := makePerson(t, false)
	subscriber := makePerson(t, false)
	stranger := makePerson(t, false)
	admin := makePerson(t, true)

	newDeck := func(t *testing.T, status domain.DeckStatus, published bool) *domain.Deck {
		t.Helper()
		deck, err := domain.NewDeck(owner.ID, "Visibility", "")
		require.NoError(t, err)
		deck.Status = status
		deck.Published = published
		return deck
	}

	tests := []struct {
		name      string
		status    domain.DeckStatus
		published bool
		viewer    *domain.Person
		role      domain.Role
		want      bool
	}{
		{"active private visible to owner", domain.DeckStatusActive, false, owner, domain.RoleOwner, true},
		{"active private visible to subscriber", domain.DeckStatusActive, false, subscriber, domain.RoleSubscriber, true},
		{"active private hidden from stranger", domain.DeckStatusActive, false, stranger, domain.RoleNone, false},
		{"active private hidden from anonymous", domain.DeckStatusActive, false, nil, domain.RoleNone, false},
		{"active published visible to stranger", domain.DeckStatusActive, true, stranger, domain.RoleNone, true},
		{"active published visible to anonymous", domain.DeckStatusActive, true, nil, domain.RoleNone, true},
		{"blocked hidden from owner", domain.DeckStatusBlocked, true, owner, domain.RoleOwner, false},
		{"blocked hidden from subscriber", domain.DeckStatusBlocked, true, subscriber, domain.RoleSubscriber, false},
		{"blocked visible to admin", domain.DeckStatusBlocked, true, admin, domain.RoleNone, true},
		{"deleted hidden from owner", domain.DeckStatusDeleted, true, owner, domain.RoleOwner, false},
		{"deleted hidden from admin", domain.DeckStatusDeleted, true, admin, domain.RoleNone, false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			deck := newDeck(t, tt.status, tt.published)
			assert.Equal(t, tt.want, domain.Visible(deck, tt.viewer, tt.role))
		})
	}
}

func TestCanLearn(t *testing.T) {
	t.Parallel()

	assert.True(t, domain.CanLearn(domain.RoleOwner))
	assert.True(t, domain.CanLearn(domain.RoleSubscriber))
	assert.False(t, domain.CanLearn(domain.RoleNone))
}

func TestDiscoverable(t *testing.T) {
	t.Parallel()

	owner := makePerson(t, false)
	deck, err := domain.NewDeck(owner.ID, "Catalog", "")
	require.NoError(t, err)
	require.NoError(t, deck.Publish())

	assert.True(t, domain.Discoverable(deck, domain.RoleNone))
	assert.False(t, domain.Discoverable(deck, domain.RoleOwner))
	assert.False(t, domain.Discoverable(deck, domain.RoleSubscriber))

	require.NoError(t, deck.Unpublish())
	assert.False(t, domain.Discoverable(deck, domain.RoleNone))

	require.NoError(t, deck.Publish())
	require.NoError(t, deck.Block())
	assert.False(t, domain.Discoverable(deck, domain.RoleNone))
}
