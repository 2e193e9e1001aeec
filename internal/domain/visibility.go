package domain

// Role describes a person's relationship to a deck.
type Role string

const (
	// RoleOwner means the person created the deck.
	RoleOwner Role = "OWNER"

	// RoleSubscriber means the person subscribed to the deck.
	RoleSubscriber Role = "SUBSCRIBER"

	// RoleNone means the person has no relationship to the deck.
	RoleNone Role = "NONE"
)

// RoleOf computes the viewer's role for a deck. The subscribed argument is
// whether a subscription row exists for (deck, viewer); the caller resolves
// it from the store. A nil viewer is an anonymous request.
func RoleOf(deck *Deck, viewer *Person, subscribed bool) Role {
	if viewer == nil {
		return RoleNone
	}
	if deck.CreatorID == viewer.ID {
		return RoleOwner
	}
	if subscribed {
		return RoleSubscriber
	}
	return RoleNone
}

// Visible is the single visibility predicate every deck read path evaluates.
// Precedence, in order:
//
//  1. A deleted deck is visible to nobody, including its creator and admins.
//  2. An admin sees any non-deleted deck, blocked ones included.
//  3. A blocked deck is otherwise visible to nobody; creator and
//     subscribers lose visibility while the block lasts.
//  4. An active deck is visible to its owner, its subscribers, and - when
//     published - to anyone for discovery purposes.
//
// Visibility does not imply learn permission; see CanLearn.
func Visible(deck *Deck, viewer *Person, role Role) bool {
	if deck.IsDeleted() {
		return false
	}
	if viewer.IsAdmin() {
		return true
	}
	if deck.IsBlocked() {
		return false
	}
	return role != RoleNone || deck.Published
}

// CanLearn reports whether a role grants access to a deck's card contents.
// A published deck that the viewer has not subscribed to yields catalog
// metadata only, never learnable cards.
func CanLearn(role Role) bool {
	return role != RoleNone
}

// Discoverable reports whether a deck appears in the public catalog for the
// viewer: published, active, and not already owned or subscribed.
func Discoverable(deck *Deck, role Role) bool {
	return deck.Status == DeckStatusActive && deck.Published && role == RoleNone
}
