package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/deckmate/deckmate-api/internal/api/shared"
	"github.com/deckmate/deckmate-api/internal/domain"
	"github.com/deckmate/deckmate-api/internal/domain/srs"
	"github.com/deckmate/deckmate-api/internal/service"
	"github.com/deckmate/deckmate-api/internal/service/auth"
	"github.com/deckmate/deckmate-api/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Authentication errors
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrWrongTokenType),
		errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, auth.ErrInvalidCredentials):
		return http.StatusUnauthorized

	// Authorization errors
	case errors.Is(err, service.ErrPermissionDenied),
		errors.Is(err, service.ErrNotOwned),
		errors.Is(err, domain.ErrPermissionDenied):
		return http.StatusForbidden

	// Not found errors. Deleted decks surface here on purpose: a deleted
	// deck does not exist as far as any caller is concerned.
	case errors.Is(err, store.ErrPersonNotFound),
		errors.Is(err, store.ErrDeckNotFound),
		errors.Is(err, store.ErrCardNotFound),
		errors.Is(err, store.ErrProgressNotFound),
		errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound

	// Conflict errors
	case errors.Is(err, store.ErrUsernameExists),
		errors.Is(err, service.ErrUsernameTaken),
		errors.Is(err, store.ErrDuplicate),
		errors.Is(err, store.ErrConcurrentUpdate),
		errors.Is(err, domain.ErrDeckBlocked),
		errors.Is(err, domain.ErrDeckDeleted):
		return http.StatusConflict

	// Bad request errors
	case errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, srs.ErrInvalidGrade),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidID):
		return http.StatusBadRequest

	// Persistence collaborator down
	case errors.Is(err, store.ErrUnavailable):
		return http.StatusServiceUnavailable

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrWrongTokenType),
		errors.Is(err, auth.ErrMissingToken):
		return "Invalid token"

	case errors.Is(err, auth.ErrInvalidCredentials):
		return "Invalid credentials"

	case errors.Is(err, service.ErrNotOwned):
		return "You do not own this resource"

	case errors.Is(err, service.ErrPermissionDenied),
		errors.Is(err, domain.ErrPermissionDenied):
		return "Permission denied"

	case errors.Is(err, store.ErrPersonNotFound):
		return "Person not found"

	case errors.Is(err, store.ErrDeckNotFound):
		return "Deck not found"

	case errors.Is(err, store.ErrCardNotFound):
		return "Card not found"

	case errors.Is(err, store.ErrProgressNotFound):
		return "Learning progress not found"

	case errors.Is(err, store.ErrNotFound):
		return "Resource not found"

	case errors.Is(err, store.ErrUsernameExists),
		errors.Is(err, service.ErrUsernameTaken):
		return "Username already exists"

	case errors.Is(err, store.ErrConcurrentUpdate):
		return "The resource was modified concurrently, please retry"

	case errors.Is(err, domain.ErrDeckBlocked):
		return "Deck is blocked"

	case errors.Is(err, domain.ErrDeckDeleted):
		return "Deck is deleted"

	case errors.Is(err, srs.ErrInvalidGrade):
		return "Grade is outside the supported range"

	case errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidID):
		return "Invalid request data"

	case errors.Is(err, store.ErrUnavailable):
		return "Service temporarily unavailable"

	default:
		return "An unexpected error occurred"
	}
}

// HandleServiceError writes the JSON error response for a service-layer
// failure, mapping the error to a status code and a safe message.
func HandleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
}

// SanitizeValidationError removes sensitive details from validation errors
// and returns a user-friendly message.
func SanitizeValidationError(err error) string {
	errMsg := err.Error()

	if strings.Contains(errMsg, "Field validation") {
		// Example format: "Key: 'LoginRequest.Username' Error:Field
		// validation for 'Username' failed on the 'required' tag"
		parts := strings.Split(errMsg, "Error:")
		if len(parts) >= 2 {
			fieldParts := strings.Split(parts[1], "'")
			if len(fieldParts) >= 3 {
				field := fieldParts[1]
				var tag string
				if len(fieldParts) >= 5 {
					tag = fieldParts[3]
				}

				if tag != "" {
					return fmt.Sprintf("Invalid %s: %s", field, getValidationTagMessage(tag))
				}
				return fmt.Sprintf("Invalid %s", field)
			}
		}
	}

	return "Validation error"
}

// getValidationTagMessage maps validation tags to user-friendly error messages
func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "email":
		return "invalid email format"
	case "min":
		return "too short"
	case "max":
		return "too long"
	case "oneof":
		return "invalid value"
	default:
		return "validation failed"
	}
}
