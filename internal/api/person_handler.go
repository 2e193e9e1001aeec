package api

import (
	"net/http"

	"github.com/deckmate/deckmate-api/internal/api/shared"
	"github.com/deckmate/deckmate-api/internal/domain"
	"github.com/deckmate/deckmate-api/internal/service"
)

// PersonHandler handles person management API requests. Most routes are
// admin-only; Me is available to any authenticated person.
type PersonHandler struct {
	personService service.PersonService
}

// NewPersonHandler creates a new PersonHandler with the given dependencies.
func NewPersonHandler(personService service.PersonService) *PersonHandler {
	return &PersonHandler{personService: personService}
}

// Me handles GET /persons/me.
func (h *PersonHandler) Me(w http.ResponseWriter, r *http.Request) {
	person, ok := requirePerson(w, r)
	if !ok {
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, NewPersonResponse(person))
}

// List handles GET /admin/persons.
func (h *PersonHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := requirePerson(w, r)
	if !ok {
		return
	}

	persons, err := h.personService.ListPersons(r.Context(), actor)
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}

	out := make([]PersonResponse, len(persons))
	for i, p := range persons {
		out[i] = NewPersonResponse(p)
	}
	shared.RespondWithJSON(w, r, http.StatusOK, out)
}

// Get handles GET /admin/persons/{personID}.
func (h *PersonHandler) Get(w http.ResponseWriter, r *http.Request) {
	if _, ok := requirePerson(w, r); !ok {
		return
	}
	personID, ok := pathUUID(w, r, "personID")
	if !ok {
		return
	}

	person, err := h.personService.GetPerson(r.Context(), personID)
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, NewPersonResponse(person))
}

// Create handles POST /admin/persons.
func (h *PersonHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := requirePerson(w, r)
	if !ok {
		return
	}

	var req CreatePersonRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	person, err := h.personService.CreatePerson(
		r.Context(), actor, req.Username, req.Email, req.Password, toPermissions(req.Permissions))
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusCreated, NewPersonResponse(person))
}

// UpdatePermissions handles PUT /admin/persons/{personID}/permissions.
func (h *PersonHandler) UpdatePermissions(w http.ResponseWriter, r *http.Request) {
	actor, ok := requirePerson(w, r)
	if !ok {
		return
	}
	personID, ok := pathUUID(w, r, "personID")
	if !ok {
		return
	}

	var req UpdatePermissionsRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	person, err := h.personService.UpdatePermissions(
		r.Context(), actor, personID, toPermissions(req.Permissions))
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, NewPersonResponse(person))
}

// ListPermissions handles GET /admin/permissions. The permission set is
// fixed, so this is a static enumeration for admin tooling.
func (h *PersonHandler) ListPermissions(w http.ResponseWriter, r *http.Request) {
	if _, ok := requirePerson(w, r); !ok {
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, domain.KnownPermissions())
}

// Delete handles DELETE /admin/persons/{personID}.
func (h *PersonHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, ok := requirePerson(w, r)
	if !ok {
		return
	}
	personID, ok := pathUUID(w, r, "personID")
	if !ok {
		return
	}

	if err := h.personService.DeletePerson(r.Context(), actor, personID); err != nil {
		HandleServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
