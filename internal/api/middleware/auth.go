package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/deckmate/deckmate-api/internal/api/shared"
	"github.com/deckmate/deckmate-api/internal/domain"
	"github.com/deckmate/deckmate-api/internal/redact"
	"github.com/deckmate/deckmate-api/internal/service/auth"
	"github.com/deckmate/deckmate-api/internal/store"
)

// AuthMiddleware provides JWT authentication for routes. It resolves the
// full person record so downstream handlers work with an already-resolved
// *domain.Person rather than raw claims.
type AuthMiddleware struct {
	jwtService  auth.JWTService
	personStore store.PersonStore
}

// NewAuthMiddleware creates a new AuthMiddleware with the given dependencies.
func NewAuthMiddleware(jwtService auth.JWTService, personStore store.PersonStore) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService:  jwtService,
		personStore: personStore,
	}
}

// resolve validates the bearer token and loads the person it belongs to.
func (m *AuthMiddleware) resolve(r *http.Request) (*domain.Person, int, string) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return nil, http.StatusUnauthorized, "Authorization header required"
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return nil, http.StatusUnauthorized, "Invalid authorization format"
	}

	claims, err := m.jwtService.ValidateToken(r.Context(), parts[1])
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrExpiredToken):
			return nil, http.StatusUnauthorized, "Token expired"
		case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrWrongTokenType):
			return nil, http.StatusUnauthorized, "Invalid token"
		default:
			slog.Error("failed to validate token", "error", redact.Error(err))
			return nil, http.StatusInternalServerError, "Authentication error"
		}
	}

	person, err := m.personStore.GetByID(r.Context(), claims.PersonID)
	if err != nil {
		if errors.Is(err, store.ErrPersonNotFound) {
			// Token for a deleted account
			return nil, http.StatusUnauthorized, "Invalid token"
		}
		slog.Error("failed to load authenticated person", "error", redact.Error(err))
		return nil, http.StatusInternalServerError, "Authentication error"
	}

	return person, 0, ""
}

// Authenticate validates JWT tokens from the Authorization header and adds
// the resolved person to the request context for authorized requests.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		person, status, message := m.resolve(r)
		if person == nil {
			shared.RespondWithError(w, r, status, message)
			return
		}

		ctx := context.WithValue(r.Context(), shared.PersonContextKey, person)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// AuthenticateOptional resolves the person when a valid token is present and
// passes the request through anonymously otherwise. Used by public catalog
// routes where visibility still depends on who is asking.
func (m *AuthMiddleware) AuthenticateOptional(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == "" {
			next.ServeHTTP(w, r)
			return
		}

		person, status, message := m.resolve(r)
		if person == nil {
			// A presented but invalid token is rejected rather than
			// downgraded to anonymous.
			shared.RespondWithError(w, r, status, message)
			return
		}

		ctx := context.WithValue(r.Context(), shared.PersonContextKey, person)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAdmin rejects requests whose authenticated person lacks the admin
// permission. Must run after Authenticate.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		person, ok := GetPerson(r)
		if !ok || !person.IsAdmin() {
			shared.RespondWithError(w, r, http.StatusForbidden, "Admin permission required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetPerson extracts the authenticated person from the request context.
// Returns the person and a boolean indicating if one was found.
func GetPerson(r *http.Request) (*domain.Person, bool) {
	person, ok := r.Context().Value(shared.PersonContextKey).(*domain.Person)
	return person, ok && person != nil
}
