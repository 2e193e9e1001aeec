package api_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/deckmate/deckmate-api/internal/api"
	"github.com/deckmate/deckmate-api/internal/domain"
	"github.com/deckmate/deckmate-api/internal/domain/srs"
	"github.com/deckmate/deckmate-api/internal/service"
	"github.com/deckmate/deckmate-api/internal/service/auth"
	"github.com/deckmate/deckmate-api/internal/store"
)

func TestMapErrorToStatusCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"invalid token", auth.ErrInvalidToken, http.StatusUnauthorized},
		{"expired token", auth.ErrExpiredToken, http.StatusUnauthorized},
		{"invalid credentials", auth.ErrInvalidCredentials, http.StatusUnauthorized},
		{"permission denied", service.ErrPermissionDenied, http.StatusForbidden},
		{"not owned", service.ErrNotOwned, http.StatusForbidden},
		{"domain permission denied", domain.ErrPermissionDenied, http.StatusForbidden},
		{"person not found", store.ErrPersonNotFound, http.StatusNotFound},
		{"deck not found", store.ErrDeckNotFound, http.StatusNotFound},
		{"card not found", store.ErrCardNotFound, http.StatusNotFound},
		{"progress not found", store.ErrProgressNotFound, http.StatusNotFound},
		{"username taken", service.ErrUsernameTaken, http.StatusConflict},
		{"concurrent update", store.ErrConcurrentUpdate, http.StatusConflict},
		{"deck blocked", domain.ErrDeckBlocked, http.StatusConflict},
		{"deck deleted", domain.ErrDeckDeleted, http.StatusConflict},
		{"invalid grade", srs.ErrInvalidGrade, http.StatusBadRequest},
		{"invalid entity", store.ErrInvalidEntity, http.StatusBadRequest},
		{"backend down", store.ErrUnavailable, http.StatusServiceUnavailable},
		{"unknown error", errors.New("boom"), http.StatusInternalServerError},
		{
			"wrapped errors unwrap to their sentinel",
			fmt.Errorf("deck is deleted: %w", store.ErrDeckNotFound),
			http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, api.MapErrorToStatusCode(tt.err))
		})
	}
}

func TestGetSafeErrorMessage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil error", nil, "An unexpected error occurred"},
		{"invalid credentials", auth.ErrInvalidCredentials, "Invalid credentials"},
		{"deck not found", store.ErrDeckNotFound, "Deck not found"},
		{"username taken", service.ErrUsernameTaken, "Username already exists"},
		{"invalid grade", srs.ErrInvalidGrade, "Grade is outside the supported range"},
		{
			"internal details never leak",
			errors.New("pq: connection refused host=10.0.0.5"),
			"An unexpected error occurred",
		},
		{
			"wrapped store errors keep their safe message",
			fmt.Errorf("failed to retrieve card: %w", store.ErrCardNotFound),
			"Card not found",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, api.GetSafeErrorMessage(tt.err))
		})
	}
}

func TestSanitizeValidationError(t *testing.T) {
	t.Parallel()

	err := errors.New(
		"Key: 'LoginRequest.Username' Error:Field validation for 'Username' failed on the 'required' tag")
	assert.Equal(t, "Invalid Username: required field", api.SanitizeValidationError(err))

	assert.Equal(t, "Validation error", api.SanitizeValidationError(errors.New("boom")))
}
