package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidID is returned when an ID is malformed or invalid.
	ErrInvalidID = errors.New("invalid ID")

	// ErrDeckDeleted is returned when an operation is attempted on a deck
	// that has already been deleted. Deletion is terminal.
	ErrDeckDeleted = errors.New("deck is deleted")

	// ErrDeckBlocked is returned when a lifecycle operation requires an
	// unblocked deck, e.g. publishing.
	ErrDeckBlocked = errors.New("deck is blocked")

	// ErrPermissionDenied is returned when an operation is not permitted
	// for the requesting person.
	ErrPermissionDenied = errors.New("permission denied")
)
