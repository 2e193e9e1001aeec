package api

import (
	"net/http"

	"github.com/deckmate/deckmate-api/internal/api/shared"
	"github.com/deckmate/deckmate-api/internal/service"
)

// CardHandler handles card management API requests.
type CardHandler struct {
	cardService service.CardService
}

// NewCardHandler creates a new CardHandler with the given dependencies.
func NewCardHandler(cardService service.CardService) *CardHandler {
	return &CardHandler{cardService: cardService}
}

// Create handles POST /decks/{deckID}/cards.
func (h *CardHandler) Create(w http.ResponseWriter, r *http.Request) {
	person, ok := requirePerson(w, r)
	if !ok {
		return
	}
	deckID, ok := pathUUID(w, r, "deckID")
	if !ok {
		return
	}

	var req CardRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	card, err := h.cardService.CreateCard(
		r.Context(), person, deckID, req.FrontText, req.BackText, req.Flipped)
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusCreated, NewCardResponse(card))
}

// CreateBatch handles POST /decks/{deckID}/cards/batch.
func (h *CardHandler) CreateBatch(w http.ResponseWriter, r *http.Request) {
	person, ok := requirePerson(w, r)
	if !ok {
		return
	}
	deckID, ok := pathUUID(w, r, "deckID")
	if !ok {
		return
	}

	var req CardsRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	inputs := make([]service.CardInput, len(req.Cards))
	for i, c := range req.Cards {
		inputs[i] = service.CardInput{
			FrontText: c.FrontText,
			BackText:  c.BackText,
			Flipped:   c.Flipped,
		}
	}

	cards, err := h.cardService.CreateCards(r.Context(), person, deckID, inputs)
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusCreated, NewCardResponses(cards))
}

// List handles GET /decks/{deckID}/cards.
func (h *CardHandler) List(w http.ResponseWriter, r *http.Request) {
	person, ok := requirePerson(w, r)
	if !ok {
		return
	}
	deckID, ok := pathUUID(w, r, "deckID")
	if !ok {
		return
	}

	cards, err := h.cardService.ListCards(r.Context(), person, deckID)
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, NewCardResponses(cards))
}

// Update handles PUT /cards/{cardID}.
func (h *CardHandler) Update(w http.ResponseWriter, r *http.Request) {
	person, ok := requirePerson(w, r)
	if !ok {
		return
	}
	cardID, ok := pathUUID(w, r, "cardID")
	if !ok {
		return
	}

	var req UpdateCardRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	card, err := h.cardService.UpdateCard(
		r.Context(), person, cardID, req.FrontText, req.BackText, req.Flipped)
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, NewCardResponse(card))
}

// Delete handles DELETE /cards/{cardID}.
func (h *CardHandler) Delete(w http.ResponseWriter, r *http.Request) {
	person, ok := requirePerson(w, r)
	if !ok {
		return
	}
	cardID, ok := pathUUID(w, r, "cardID")
	if !ok {
		return
	}

	if err := h.cardService.DeleteCard(r.Context(), person, cardID); err != nil {
		HandleServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
