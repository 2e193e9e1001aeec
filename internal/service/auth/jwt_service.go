package auth

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/deckmate/deckmate-api/internal/domain"
)

// JWTService defines operations for managing JWT authentication tokens.
type JWTService interface {
	// GenerateToken creates a signed JWT access token for the given person.
	// The person's permissions are embedded in the claims so handlers can
	// gate admin-only operations without a database round trip.
	GenerateToken(ctx context.Context, person *domain.Person) (string, error)

	// ValidateToken validates the provided access token string and extracts the claims.
	// Returns ErrExpiredToken, ErrWrongTokenType or ErrInvalidToken on failure.
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)

	// GenerateRefreshToken creates a signed JWT refresh token for the given person.
	// Refresh tokens have a longer lifetime and are used to obtain new access tokens.
	GenerateRefreshToken(ctx context.Context, person *domain.Person) (string, error)

	// ValidateRefreshToken validates the provided refresh token string and extracts
	// the claims. Returns ErrExpiredToken, ErrWrongTokenType or ErrInvalidToken
	// on failure.
	ValidateRefreshToken(ctx context.Context, tokenString string) (*Claims, error)
}

// Claims represents the custom claims structure for the JWT tokens.
// It extends standard JWT registered claims with application-specific fields.
type Claims struct {
	// PersonID is the unique identifier of the person the token was issued for.
	PersonID uuid.UUID `json:"pid,omitempty"`

	// Permissions holds the person's permission set at issue time.
	Permissions []domain.Permission `json:"perms,omitempty"`

	// TokenType indicates the purpose of the token ("access" or "refresh").
	// Used to prevent token misuse across different contexts.
	TokenType string `json:"type,omitempty"`

	// Standard registered JWT claims
	Subject   string    `json:"sub,omitempty"`
	IssuedAt  time.Time `json:"iat,omitempty"`
	ExpiresAt time.Time `json:"exp,omitempty"`
	ID        string    `json:"jti,omitempty"`
}

// IsAdmin reports whether the claims carry the admin permission.
func (c *Claims) IsAdmin() bool {
	for _, p := range c.Permissions {
		if p == domain.PermissionAdmin {
			return true
		}
	}
	return false
}
