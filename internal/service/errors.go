package service

import "errors"

// Common service errors - sentinel errors used across service implementations.
// These errors represent common conditions that callers may want to check for
// with errors.Is(). The API layer maps them to HTTP status codes.
var (
	// ErrPermissionDenied indicates a visibility or role check failed: the
	// requesting person may not see or act on the resource. Also returned
	// when a non-admin calls an admin-only operation.
	// API layer should map this to HTTP 403 Forbidden.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrNotOwned indicates a resource is owned by a different person than
	// the one making the request.
	// API layer should map this to HTTP 403 Forbidden.
	ErrNotOwned = errors.New("resource is owned by another person")

	// ErrUsernameTaken indicates a registration or update collided with an
	// existing username.
	// API layer should map this to HTTP 409 Conflict.
	ErrUsernameTaken = errors.New("username is already taken")
)
