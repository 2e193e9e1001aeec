package api

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/deckmate/deckmate-api/internal/api/shared"
	"github.com/deckmate/deckmate-api/internal/domain"
	"github.com/deckmate/deckmate-api/internal/service"
)

// DeckHandler handles deck lifecycle, subscription and catalog API requests.
type DeckHandler struct {
	deckService service.DeckService
}

// NewDeckHandler creates a new DeckHandler with the given dependencies.
func NewDeckHandler(deckService service.DeckService) *DeckHandler {
	return &DeckHandler{deckService: deckService}
}

// Create handles POST /decks.
func (h *DeckHandler) Create(w http.ResponseWriter, r *http.Request) {
	person, ok := requirePerson(w, r)
	if !ok {
		return
	}

	var req DeckRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	deck, err := h.deckService.CreateDeck(r.Context(), person, req.Name, req.Description)
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, NewDeckResponse(&service.DeckView{
		Deck: deck,
		Role: domain.RoleOwner,
	}))
}

// Get handles GET /decks/{deckID}. Anonymous viewers see published decks.
func (h *DeckHandler) Get(w http.ResponseWriter, r *http.Request) {
	deckID, ok := pathUUID(w, r, "deckID")
	if !ok {
		return
	}

	view, err := h.deckService.GetDeck(r.Context(), optionalPerson(r), deckID)
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, NewDeckResponse(view))
}

// Update handles PUT /decks/{deckID}.
func (h *DeckHandler) Update(w http.ResponseWriter, r *http.Request) {
	person, ok := requirePerson(w, r)
	if !ok {
		return
	}
	deckID, ok := pathUUID(w, r, "deckID")
	if !ok {
		return
	}

	var req DeckRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	deck, err := h.deckService.UpdateDeck(r.Context(), person, deckID, req.Name, req.Description)
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, NewDeckResponse(&service.DeckView{
		Deck: deck,
		Role: domain.RoleOwner,
	}))
}

// lifecycle is the shared shape of the publish/unpublish/block/unblock
// handlers: resolve the deck ID, apply the transition, return the deck.
func (h *DeckHandler) lifecycle(
	w http.ResponseWriter,
	r *http.Request,
	apply func(person *domain.Person, deckID uuid.UUID) (*domain.Deck, error),
) {
	person, ok := requirePerson(w, r)
	if !ok {
		return
	}
	deckID, ok := pathUUID(w, r, "deckID")
	if !ok {
		return
	}

	deck, err := apply(person, deckID)
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}

	role := domain.RoleNone
	if deck.CreatorID == person.ID {
		role = domain.RoleOwner
	}
	shared.RespondWithJSON(w, r, http.StatusOK, NewDeckResponse(&service.DeckView{
		Deck: deck,
		Role: role,
	}))
}

// Publish handles POST /decks/{deckID}/publish.
func (h *DeckHandler) Publish(w http.ResponseWriter, r *http.Request) {
	h.lifecycle(w, r, func(person *domain.Person, deckID uuid.UUID) (*domain.Deck, error) {
		return h.deckService.PublishDeck(r.Context(), person, deckID)
	})
}

// Unpublish handles POST /decks/{deckID}/unpublish.
func (h *DeckHandler) Unpublish(w http.ResponseWriter, r *http.Request) {
	h.lifecycle(w, r, func(person *domain.Person, deckID uuid.UUID) (*domain.Deck, error) {
		return h.deckService.UnpublishDeck(r.Context(), person, deckID)
	})
}

// Block handles POST /admin/decks/{deckID}/block.
func (h *DeckHandler) Block(w http.ResponseWriter, r *http.Request) {
	h.lifecycle(w, r, func(person *domain.Person, deckID uuid.UUID) (*domain.Deck, error) {
		return h.deckService.BlockDeck(r.Context(), person, deckID)
	})
}

// Unblock handles POST /admin/decks/{deckID}/unblock.
func (h *DeckHandler) Unblock(w http.ResponseWriter, r *http.Request) {
	h.lifecycle(w, r, func(person *domain.Person, deckID uuid.UUID) (*domain.Deck, error) {
		return h.deckService.UnblockDeck(r.Context(), person, deckID)
	})
}

// Delete handles DELETE /decks/{deckID}.
func (h *DeckHandler) Delete(w http.ResponseWriter, r *http.Request) {
	person, ok := requirePerson(w, r)
	if !ok {
		return
	}
	deckID, ok := pathUUID(w, r, "deckID")
	if !ok {
		return
	}

	if err := h.deckService.DeleteDeck(r.Context(), person, deckID); err != nil {
		HandleServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Subscribe handles POST /decks/{deckID}/subscribe.
func (h *DeckHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	person, ok := requirePerson(w, r)
	if !ok {
		return
	}
	deckID, ok := pathUUID(w, r, "deckID")
	if !ok {
		return
	}

	if err := h.deckService.Subscribe(r.Context(), person, deckID); err != nil {
		HandleServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Unsubscribe handles DELETE /decks/{deckID}/subscribe.
func (h *DeckHandler) Unsubscribe(w http.ResponseWriter, r *http.Request) {
	person, ok := requirePerson(w, r)
	if !ok {
		return
	}
	deckID, ok := pathUUID(w, r, "deckID")
	if !ok {
		return
	}

	if err := h.deckService.Unsubscribe(r.Context(), person, deckID); err != nil {
		HandleServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListOwned handles GET /decks/owned.
func (h *DeckHandler) ListOwned(w http.ResponseWriter, r *http.Request) {
	person, ok := requirePerson(w, r)
	if !ok {
		return
	}

	views, err := h.deckService.OwnedDecks(r.Context(), person)
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, NewDeckResponses(views))
}

// ListSubscribed handles GET /decks/subscribed.
func (h *DeckHandler) ListSubscribed(w http.ResponseWriter, r *http.Request) {
	person, ok := requirePerson(w, r)
	if !ok {
		return
	}

	views, err := h.deckService.SubscribedDecks(r.Context(), person)
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, NewDeckResponses(views))
}

// ListAvailable handles GET /decks/available. Works anonymously: the public
// catalog is browsable before registering.
func (h *DeckHandler) ListAvailable(w http.ResponseWriter, r *http.Request) {
	views, err := h.deckService.AvailableDecks(r.Context(), optionalPerson(r))
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, NewDeckResponses(views))
}

// ListAll handles GET /admin/decks.
func (h *DeckHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	person, ok := requirePerson(w, r)
	if !ok {
		return
	}

	views, err := h.deckService.AllDecks(r.Context(), person)
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, NewDeckResponses(views))
}

// ListByPerson handles GET /admin/persons/{personID}/decks.
func (h *DeckHandler) ListByPerson(w http.ResponseWriter, r *http.Request) {
	person, ok := requirePerson(w, r)
	if !ok {
		return
	}
	personID, ok := pathUUID(w, r, "personID")
	if !ok {
		return
	}

	views, err := h.deckService.PersonDecks(r.Context(), person, personID)
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, NewDeckResponses(views))
}
