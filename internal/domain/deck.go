package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DeckStatus is the lifecycle state of a deck. The three states are mutually
// exclusive; precedence rules (deleted beats blocked beats active) are
// enforced by the lifecycle methods rather than re-derived from flag
// combinations at each call site.
type DeckStatus string

const (
	// DeckStatusActive is the normal state. Only active decks can be
	// published or unpublished.
	DeckStatusActive DeckStatus = "active"

	// DeckStatusBlocked is set by an administrator. A blocked deck is
	// hidden from its creator and subscribers until unblocked.
	DeckStatusBlocked DeckStatus = "blocked"

	// DeckStatusDeleted is terminal. A deleted deck is invisible to
	// everyone, including admins, and can never be restored.
	DeckStatusDeleted DeckStatus = "deleted"
)

// Deck-specific validation errors
var (
	// ErrEmptyDeckID is returned when a deck ID is empty or nil.
	ErrEmptyDeckID = errors.New("deck ID cannot be empty")

	// ErrEmptyDeckName is returned when a deck name is empty.
	ErrEmptyDeckName = errors.New("deck name cannot be empty")

	// ErrEmptyDeckCreator is returned when a deck's creator ID is empty or nil.
	ErrEmptyDeckCreator = errors.New("deck creator ID cannot be empty")

	// ErrInvalidDeckStatus is returned when a deck status is not one of the
	// known lifecycle states.
	ErrInvalidDeckStatus = errors.New("invalid deck status")
)

// Deck is a named collection of cards owned by its creator. The creator
// relationship is immutable after creation; cards are exclusively owned by
// the deck and are removed with it.
//
// Published is only meaningful while the deck is active, but it is retained
// across block/unblock so that unblocking restores the previous publicity.
type Deck struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	CreatorID   uuid.UUID  `json:"creator_id"`
	Status      DeckStatus `json:"status"`
	Published   bool       `json:"published"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// NewDeck creates a new unpublished, active Deck owned by the given creator.
// It generates a new UUID and sets the creation/update timestamps.
// Returns an error if validation fails.
func NewDeck(creatorID uuid.UUID, name, description string) (*Deck, error) {
	deck := &Deck{
		ID:          uuid.New(),
		Name:        name,
		Description: description,
		CreatorID:   creatorID,
		Status:      DeckStatusActive,
		Published:   false,
		CreatedAt:   time.Now().UTC(),
		UpdatedAt:   time.Now().UTC(),
	}

	if err := deck.Validate(); err != nil {
		return nil, err
	}

	return deck, nil
}

// Validate checks if the Deck has valid data.
// Returns an error if any field fails validation.
func (d *Deck) Validate() error {
	if d.ID == uuid.Nil {
		return ErrEmptyDeckID
	}

	if strings.TrimSpace(d.Name) == "" {
		return ErrEmptyDeckName
	}

	if d.CreatorID == uuid.Nil {
		return ErrEmptyDeckCreator
	}

	switch d.Status {
	case DeckStatusActive, DeckStatusBlocked, DeckStatusDeleted:
	default:
		return ErrInvalidDeckStatus
	}

	return nil
}

// IsDeleted reports whether the deck has been deleted.
func (d *Deck) IsDeleted() bool {
	return d.Status == DeckStatusDeleted
}

// IsBlocked reports whether the deck is currently blocked.
func (d *Deck) IsBlocked() bool {
	return d.Status == DeckStatusBlocked
}

// Publish marks an active deck as publicly discoverable.
// Returns ErrDeckDeleted or ErrDeckBlocked if the deck is not active.
func (d *Deck) Publish() error {
	if err := d.requireActive(); err != nil {
		return err
	}
	d.Published = true
	d.UpdatedAt = time.Now().UTC()
	return nil
}

// Unpublish removes an active deck from public discovery.
// Returns ErrDeckDeleted or ErrDeckBlocked if the deck is not active.
func (d *Deck) Unpublish() error {
	if err := d.requireActive(); err != nil {
		return err
	}
	d.Published = false
	d.UpdatedAt = time.Now().UTC()
	return nil
}

// Block moves the deck into the blocked state. Blocking is independent of
// publication; the Published flag is preserved for a later unblock.
// Returns ErrDeckDeleted if the deck has been deleted.
func (d *Deck) Block() error {
	if d.IsDeleted() {
		return ErrDeckDeleted
	}
	d.Status = DeckStatusBlocked
	d.UpdatedAt = time.Now().UTC()
	return nil
}

// Unblock returns a blocked deck to the active state.
// Returns ErrDeckDeleted if the deck has been deleted.
func (d *Deck) Unblock() error {
	if d.IsDeleted() {
		return ErrDeckDeleted
	}
	d.Status = DeckStatusActive
	d.UpdatedAt = time.Now().UTC()
	return nil
}

// Delete moves the deck into the terminal deleted state. There is no undo.
func (d *Deck) Delete() {
	d.Status = DeckStatusDeleted
	d.UpdatedAt = time.Now().UTC()
}

func (d *Deck) requireActive() error {
	switch d.Status {
	case DeckStatusDeleted:
		return ErrDeckDeleted
	case DeckStatusBlocked:
		return ErrDeckBlocked
	}
	return nil
}
