package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Card-specific validation errors
var (
	// ErrEmptyCardID is returned when a card ID is empty or nil.
	ErrEmptyCardID = errors.New("card ID cannot be empty")

	// ErrEmptyCardDeckID is returned when a card's deck ID is empty or nil.
	ErrEmptyCardDeckID = errors.New("card deck ID cannot be empty")

	// ErrEmptyCardFront is returned when a card's front text is empty.
	ErrEmptyCardFront = errors.New("card front text cannot be empty")

	// ErrEmptyCardBack is returned when a card's back text is empty.
	ErrEmptyCardBack = errors.New("card back text cannot be empty")
)

// Card is a single flashcard belonging to exactly one deck. A card cannot
// outlive its deck or be reassigned to another one. Flipped selects which
// side is shown first during learning.
type Card struct {
	ID        uuid.UUID `json:"id"`
	DeckID    uuid.UUID `json:"deck_id"`
	FrontText string    `json:"front_text"`
	BackText  string    `json:"back_text"`
	Flipped   bool      `json:"flipped"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewCard creates a new Card in the given deck. It generates a new UUID for
// the card ID and sets the creation/update timestamps.
// Returns an error if validation fails.
func NewCard(deckID uuid.UUID, frontText, backText string, flipped bool) (*Card, error) {
	card := &Card{
		ID:        uuid.New(),
		DeckID:    deckID,
		FrontText: frontText,
		BackText:  backText,
		Flipped:   flipped,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}

	if err := card.Validate(); err != nil {
		return nil, err
	}

	return card, nil
}

// Validate checks if the Card has valid data.
// Returns an error if any field fails validation.
func (c *Card) Validate() error {
	if c.ID == uuid.Nil {
		return ErrEmptyCardID
	}

	if c.DeckID == uuid.Nil {
		return ErrEmptyCardDeckID
	}

	if strings.TrimSpace(c.FrontText) == "" {
		return ErrEmptyCardFront
	}

	if strings.TrimSpace(c.BackText) == "" {
		return ErrEmptyCardBack
	}

	return nil
}

// UpdateTexts replaces the card's texts and flip flag. Empty strings leave
// the corresponding side unchanged (matching the partial-update semantics of
// the card edit endpoint). Returns an error if the result is invalid.
func (c *Card) UpdateTexts(frontText, backText string, flipped bool) error {
	origFront, origBack, origFlipped := c.FrontText, c.BackText, c.Flipped

	if frontText != "" {
		c.FrontText = frontText
	}
	if backText != "" {
		c.BackText = backText
	}
	c.Flipped = flipped

	if err := c.Validate(); err != nil {
		c.FrontText, c.BackText, c.Flipped = origFront, origBack, origFlipped
		return err
	}

	c.UpdatedAt = time.Now().UTC()
	return nil
}
