package api

import (
	"time"

	"github.com/google/uuid"

	"github.com/deckmate/deckmate-api/internal/domain"
	"github.com/deckmate/deckmate-api/internal/service"
)

// Common request/response structures

// RegisterRequest defines the payload for the registration endpoint.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=12,max=72"`
}

// LoginRequest defines the payload for the login endpoint.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required,min=1"`
}

// AuthResponse defines the successful response for authentication endpoints.
type AuthResponse struct {
	// PersonID is the unique identifier for the authenticated person
	PersonID uuid.UUID `json:"person_id"`

	// AccessToken is the JWT token used for API authorization
	AccessToken string `json:"access_token"`

	// RefreshToken is the JWT token used to obtain new access tokens
	RefreshToken string `json:"refresh_token,omitempty"`
}

// RefreshTokenRequest defines the payload for the token refresh endpoint.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// PersonResponse is the wire shape of a person. Credentials never leave the
// server.
type PersonResponse struct {
	ID          uuid.UUID           `json:"id"`
	Username    string              `json:"username"`
	Email       string              `json:"email"`
	Permissions []domain.Permission `json:"permissions"`
	CreatedAt   time.Time           `json:"created_at"`
}

// NewPersonResponse converts a domain person to its wire shape.
func NewPersonResponse(person *domain.Person) PersonResponse {
	return PersonResponse{
		ID:          person.ID,
		Username:    person.Username,
		Email:       person.Email,
		Permissions: person.Permissions,
		CreatedAt:   person.CreatedAt,
	}
}

// CreatePersonRequest defines the payload for the admin person-creation
// endpoint.
type CreatePersonRequest struct {
	Username    string   `json:"username"    validate:"required,min=3,max=50"`
	Email       string   `json:"email"       validate:"required,email"`
	Password    string   `json:"password"    validate:"required,min=12,max=72"`
	Permissions []string `json:"permissions" validate:"required,min=1,dive,oneof=USER ADMIN"`
}

// UpdatePermissionsRequest defines the payload for replacing a person's
// permission set.
type UpdatePermissionsRequest struct {
	Permissions []string `json:"permissions" validate:"required,min=1,dive,oneof=USER ADMIN"`
}

// DeckRequest defines the payload for creating or updating a deck.
type DeckRequest struct {
	Name        string `json:"name"        validate:"required,min=1,max=100"`
	Description string `json:"description" validate:"max=2000"`
}

// DeckResponse is the wire shape of a deck together with the viewer's role
// and the deck's card count.
type DeckResponse struct {
	ID          uuid.UUID   `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Status      string      `json:"status"`
	Published   bool        `json:"published"`
	CreatorID   uuid.UUID   `json:"creator_id"`
	Role        domain.Role `json:"role"`
	CardCount   int         `json:"card_count"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// NewDeckResponse converts a deck view to its wire shape.
func NewDeckResponse(view *service.DeckView) DeckResponse {
	return DeckResponse{
		ID:          view.Deck.ID,
		Name:        view.Deck.Name,
		Description: view.Deck.Description,
		Status:      string(view.Deck.Status),
		Published:   view.Deck.Published,
		CreatorID:   view.Deck.CreatorID,
		Role:        view.Role,
		CardCount:   view.CardCount,
		CreatedAt:   view.Deck.CreatedAt,
		UpdatedAt:   view.Deck.UpdatedAt,
	}
}

// NewDeckResponses converts a list of deck views.
func NewDeckResponses(views []*service.DeckView) []DeckResponse {
	out := make([]DeckResponse, len(views))
	for i, view := range views {
		out[i] = NewDeckResponse(view)
	}
	return out
}

// CardRequest defines the payload for creating a card.
type CardRequest struct {
	FrontText string `json:"front_text" validate:"required,min=1"`
	BackText  string `json:"back_text"  validate:"required,min=1"`
	Flipped   bool   `json:"flipped"`
}

// CardsRequest defines the payload for creating multiple cards at once.
type CardsRequest struct {
	Cards []CardRequest `json:"cards" validate:"required,min=1,dive"`
}

// UpdateCardRequest defines the payload for updating a card. An empty text
// leaves that side unchanged.
type UpdateCardRequest struct {
	FrontText string `json:"front_text"`
	BackText  string `json:"back_text"`
	Flipped   bool   `json:"flipped"`
}

// CardResponse is the wire shape of a card.
type CardResponse struct {
	ID        uuid.UUID `json:"id"`
	DeckID    uuid.UUID `json:"deck_id"`
	FrontText string    `json:"front_text"`
	BackText  string    `json:"back_text"`
	Flipped   bool      `json:"flipped"`
	CreatedAt time.Time `json:"created_at"`
}

// NewCardResponse converts a domain card to its wire shape.
func NewCardResponse(card *domain.Card) CardResponse {
	return CardResponse{
		ID:        card.ID,
		DeckID:    card.DeckID,
		FrontText: card.FrontText,
		BackText:  card.BackText,
		Flipped:   card.Flipped,
		CreatedAt: card.CreatedAt,
	}
}

// NewCardResponses converts a list of domain cards.
func NewCardResponses(cards []*domain.Card) []CardResponse {
	out := make([]CardResponse, len(cards))
	for i, card := range cards {
		out[i] = NewCardResponse(card)
	}
	return out
}

// GradeRequest defines the payload for submitting a difficulty grade.
// Grade is a pointer so that a missing field is distinguishable from a
// legitimate grade of zero.
type GradeRequest struct {
	Grade *int `json:"grade" validate:"required,min=0,max=5"`
}

// ProgressResponse is the wire shape of a learning progress record.
type ProgressResponse struct {
	CardID      uuid.UUID `json:"card_id"`
	PersonID    uuid.UUID `json:"person_id"`
	Interval    int       `json:"interval_days"`
	EaseFactor  float64   `json:"ease_factor"`
	Repetitions int       `json:"repetitions"`
	NextLearn   time.Time `json:"next_learn"`
}

// NewProgressResponse converts a learning progress record to its wire shape.
func NewProgressResponse(progress *domain.LearningProgress) ProgressResponse {
	return ProgressResponse{
		CardID:      progress.CardID,
		PersonID:    progress.PersonID,
		Interval:    progress.Interval,
		EaseFactor:  progress.EaseFactor,
		Repetitions: progress.Repetitions,
		NextLearn:   progress.NextLearn,
	}
}
