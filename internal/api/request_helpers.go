package api

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/deckmate/deckmate-api/internal/api/middleware"
	"github.com/deckmate/deckmate-api/internal/api/shared"
	"github.com/deckmate/deckmate-api/internal/domain"
)

// requirePerson extracts the authenticated person from the request context.
// Writes a 401 response and returns false when no person is present, which
// only happens when a route is misconfigured without the auth middleware.
func requirePerson(w http.ResponseWriter, r *http.Request) (*domain.Person, bool) {
	person, ok := middleware.GetPerson(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return nil, false
	}
	return person, true
}

// optionalPerson returns the authenticated person or nil for anonymous
// requests.
func optionalPerson(r *http.Request) *domain.Person {
	person, ok := middleware.GetPerson(r)
	if !ok {
		return nil
	}
	return person
}

// pathUUID extracts and parses a UUID path parameter. Writes a 400 response
// and returns false when the parameter is missing or malformed.
func pathUUID(w http.ResponseWriter, r *http.Request, paramName string) (uuid.UUID, bool) {
	pathParam := chi.URLParam(r, paramName)
	if pathParam == "" {
		shared.RespondWithError(w, r, http.StatusBadRequest,
			fmt.Sprintf("Missing %s parameter", paramName))
		return uuid.Nil, false
	}

	id, err := uuid.Parse(pathParam)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest,
			fmt.Sprintf("Invalid %s format", paramName))
		return uuid.Nil, false
	}

	return id, true
}

// decodeAndValidate decodes the JSON body into v and validates it. Writes
// the error response and returns false on failure.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := shared.DecodeJSON(r, v); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return false
	}
	if err := shared.ValidateRequest(v); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return false
	}
	return true
}

// toPermissions converts wire permission strings to domain permissions.
// Values are validated upstream by the oneof tag.
func toPermissions(values []string) []domain.Permission {
	perms := make([]domain.Permission, len(values))
	for i, v := range values {
		perms[i] = domain.Permission(v)
	}
	return perms
}
