package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/deckmate/deckmate-api/internal/api/shared"
	"github.com/deckmate/deckmate-api/internal/domain"
	"github.com/deckmate/deckmate-api/internal/service"
	"github.com/deckmate/deckmate-api/internal/service/auth"
	"github.com/deckmate/deckmate-api/internal/store"
)

// AuthHandler handles authentication-related API requests.
type AuthHandler struct {
	personService service.PersonService
	jwtService    auth.JWTService
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
func NewAuthHandler(
	personService service.PersonService,
	jwtService auth.JWTService,
) *AuthHandler {
	return &AuthHandler{
		personService: personService,
		jwtService:    jwtService,
	}
}

// issueTokens generates the access/refresh token pair for a person.
func (h *AuthHandler) issueTokens(
	w http.ResponseWriter,
	r *http.Request,
	person *domain.Person,
	status int,
) {
	accessToken, err := h.jwtService.GenerateToken(r.Context(), person)
	if err != nil {
		slog.Error("failed to generate access token", "error", err, "person_id", person.ID)
		shared.RespondWithError(w, r, http.StatusInternalServerError,
			"Failed to generate authentication token")
		return
	}

	refreshToken, err := h.jwtService.GenerateRefreshToken(r.Context(), person)
	if err != nil {
		slog.Error("failed to generate refresh token", "error", err, "person_id", person.ID)
		shared.RespondWithError(w, r, http.StatusInternalServerError,
			"Failed to generate authentication token")
		return
	}

	shared.RespondWithJSON(w, r, status, AuthResponse{
		PersonID:     person.ID,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	})
}

// Register handles the /auth/register endpoint.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	person, err := h.personService.Register(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}

	h.issueTokens(w, r, person, http.StatusCreated)
}

// Login handles the /auth/login endpoint.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	person, err := h.personService.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}

	h.issueTokens(w, r, person, http.StatusOK)
}

// RefreshToken handles the /auth/refresh endpoint. It validates the refresh
// token and issues a fresh token pair with the person's current permissions.
func (h *AuthHandler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var req RefreshTokenRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	claims, err := h.jwtService.ValidateRefreshToken(r.Context(), req.RefreshToken)
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}

	// Re-resolve the person so revoked accounts and changed permissions
	// take effect at refresh time.
	person, err := h.personService.GetPerson(r.Context(), claims.PersonID)
	if err != nil {
		if errors.Is(err, store.ErrPersonNotFound) {
			// Token for a deleted account; do not reveal which
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid refresh token")
			return
		}
		HandleServiceError(w, r, err)
		return
	}

	h.issueTokens(w, r, person, http.StatusOK)
}
