package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deckmate/deckmate-api/internal/api/middleware"
	"github.com/deckmate/deckmate-api/internal/api/shared"
	"github.com/deckmate/deckmate-api/internal/domain"
	"github.com/deckmate/deckmate-api/internal/mocks"
	"github.com/deckmate/deckmate-api/internal/service/auth"
)

func newAuthPerson(t *testing.T, admin bool) *domain.Person {
	t.Helper()
	permissions := domain.DefaultPermissions()
	if admin {
		permissions = append(permissions, domain.PermissionAdmin)
	}
	person, err := domain.NewPersonWithPermissions(
		"account", "account@example.com", "a-long-password-1", permissions)
	require.NoError(t, err)
	return person
}

// echoPerson records the person the middleware resolved into the context.
func echoPerson(captured **domain.Person) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if person, ok := middleware.GetPerson(r); ok {
			*captured = person
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthenticate(t *testing.T) {
	t.Parallel()

	person := newAuthPerson(t, false)
	personStore := mocks.NewMockPersonStore()
	personStore.Add(person)

	jwtService := &mocks.MockJWTService{
		ValidateTokenFn: func(_ context.Context, token string) (*auth.Claims, error) {
			switch token {
			case "valid-token":
				return &auth.Claims{PersonID: person.ID, Permissions: person.Permissions}, nil
			case "expired-token":
				return nil, auth.ErrExpiredToken
			default:
				return nil, auth.ErrInvalidToken
			}
		},
	}
	m := middleware.NewAuthMiddleware(jwtService, personStore)

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantPerson bool
	}{
		{"missing header", "", http.StatusUnauthorized, false},
		{"malformed header", "Token abc", http.StatusUnauthorized, false},
		{"expired token", "Bearer expired-token", http.StatusUnauthorized, false},
		{"invalid token", "Bearer garbage", http.StatusUnauthorized, false},
		{"valid token", "Bearer valid-token", http.StatusOK, true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var captured *domain.Person
			req := httptest.NewRequest(http.MethodGet, "/decks", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			m.Authenticate(echoPerson(&captured)).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantPerson {
				require.NotNil(t, captured)
				assert.Equal(t, person.ID, captured.ID)
			} else {
				assert.Nil(t, captured)
			}
		})
	}

	t.Run("token for a deleted account is rejected", func(t *testing.T) {
		t.Parallel()

		gone := newAuthPerson(t, false)
		emptyStore := mocks.NewMockPersonStore()
		jwt := &mocks.MockJWTService{
			ValidateTokenFn: func(_ context.Context, _ string) (*auth.Claims, error) {
				return &auth.Claims{PersonID: gone.ID}, nil
			},
		}

		var captured *domain.Person
		req := httptest.NewRequest(http.MethodGet, "/decks", nil)
		req.Header.Set("Authorization", "Bearer orphaned-token")
		rec := httptest.NewRecorder()

		middleware.NewAuthMiddleware(jwt, emptyStore).
			Authenticate(echoPerson(&captured)).
			ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Nil(t, captured)
	})
}

func TestAuthenticateOptional(t *testing.T) {
	t.Parallel()

	person := newAuthPerson(t, false)
	personStore := mocks.NewMockPersonStore()
	personStore.Add(person)

	jwtService := &mocks.MockJWTService{
		ValidateTokenFn: func(_ context.Context, token string) (*auth.Claims, error) {
			if token == "valid-token" {
				return &auth.Claims{PersonID: person.ID}, nil
			}
			return nil, auth.ErrInvalidToken
		},
	}
	m := middleware.NewAuthMiddleware(jwtService, personStore)

	t.Run("no header passes through anonymously", func(t *testing.T) {
		t.Parallel()

		var captured *domain.Person
		req := httptest.NewRequest(http.MethodGet, "/decks/available", nil)
		rec := httptest.NewRecorder()

		m.AuthenticateOptional(echoPerson(&captured)).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Nil(t, captured)
	})

	t.Run("valid token resolves the person", func(t *testing.T) {
		t.Parallel()

		var captured *domain.Person
		req := httptest.NewRequest(http.MethodGet, "/decks/available", nil)
		req.Header.Set("Authorization", "Bearer valid-token")
		rec := httptest.NewRecorder()

		m.AuthenticateOptional(echoPerson(&captured)).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, captured)
		assert.Equal(t, person.ID, captured.ID)
	})

	t.Run("presented but invalid token is rejected", func(t *testing.T) {
		t.Parallel()

		var captured *domain.Person
		req := httptest.NewRequest(http.MethodGet, "/decks/available", nil)
		req.Header.Set("Authorization", "Bearer garbage")
		rec := httptest.NewRecorder()

		m.AuthenticateOptional(echoPerson(&captured)).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Nil(t, captured)
	})
}

func TestRequireAdmin(t *testing.T) {
	t.Parallel()

	run := func(t *testing.T, person *domain.Person) *httptest.ResponseRecorder {
		t.Helper()

		next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
		})

		req := httptest.NewRequest(http.MethodGet, "/admin/decks", nil)
		if person != nil {
			ctx := context.WithValue(req.Context(), shared.PersonContextKey, person)
			req = req.WithContext(ctx)
		}
		rec := httptest.NewRecorder()
		middleware.RequireAdmin(next).ServeHTTP(rec, req)
		return rec
	}

	t.Run("admin passes", func(t *testing.T) {
		t.Parallel()
		rec := run(t, newAuthPerson(t, true))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("regular person is rejected", func(t *testing.T) {
		t.Parallel()
		rec := run(t, newAuthPerson(t, false))
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("anonymous request is rejected", func(t *testing.T) {
		t.Parallel()
		rec := run(t, nil)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}
