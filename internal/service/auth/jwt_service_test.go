package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deckmate/deckmate-api/internal/config"
	"github.com/deckmate/deckmate-api/internal/domain"
)

const testSecret = "test-signing-secret-with-32-chars!!"

func testAuthConfig() config.AuthConfig {
	return config.AuthConfig{
		JWTSecret:                   testSecret,
		TokenLifetimeMinutes:        15,
		RefreshTokenLifetimeMinutes: 60 * 24,
		BcryptCost:                  10,
	}
}

func testJWTPerson(t *testing.T, admin bool) *domain.Person {
	t.Helper()
	permissions := domain.DefaultPermissions()
	if admin {
		permissions = append(permissions, domain.PermissionAdmin)
	}
	person, err := domain.NewPersonWithPermissions(
		"tokenholder", "holder@example.com", "a-long-password-1", permissions)
	require.NoError(t, err)
	return person
}

func TestNewJWTService(t *testing.T) {
	t.Parallel()

	t.Run("rejects a short secret", func(t *testing.T) {
		t.Parallel()

		cfg := testAuthConfig()
		cfg.JWTSecret = "too-short"
		_, err := NewJWTService(cfg)
		assert.Error(t, err)
	})

	t.Run("accepts a 32 character secret", func(t *testing.T) {
		t.Parallel()

		service, err := NewJWTService(testAuthConfig())
		require.NoError(t, err)
		assert.NotNil(t, service)
	})
}

func TestAccessTokenRoundTrip(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	service, err := NewJWTService(testAuthConfig())
	require.NoError(t, err)

	person := testJWTPerson(t, true)
	token, err := service.GenerateToken(ctx, person)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := service.ValidateToken(ctx, token)
	require.NoError(t, err)

	assert.Equal(t, person.ID, claims.PersonID)
	assert.Equal(t, person.Permissions, claims.Permissions)
	assert.Equal(t, person.ID.String(), claims.Subject)
	assert.True(t, claims.IsAdmin())
	assert.NotEmpty(t, claims.ID)
}

func TestTokenTypeIsEnforced(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	service, err := NewJWTService(testAuthConfig())
	require.NoError(t, err)
	person := testJWTPerson(t, false)

	accessToken, err := service.GenerateToken(ctx, person)
	require.NoError(t, err)
	refreshToken, err := service.GenerateRefreshToken(ctx, person)
	require.NoError(t, err)

	_, err = service.ValidateToken(ctx, refreshToken)
	assert.ErrorIs(t, err, ErrWrongTokenType)

	_, err = service.ValidateRefreshToken(ctx, accessToken)
	assert.ErrorIs(t, err, ErrWrongTokenType)

	claims, err := service.ValidateRefreshToken(ctx, refreshToken)
	require.NoError(t, err)
	assert.False(t, claims.IsAdmin())
}

func TestExpiredToken(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	service, err := NewJWTService(testAuthConfig())
	require.NoError(t, err)
	impl := service.(*hmacJWTService)

	person := testJWTPerson(t, false)
	token, err := service.GenerateToken(ctx, person)
	require.NoError(t, err)

	// Past the 15 minute lifetime plus the 2 minute clock skew allowance.
	issued := time.Now()
	impl.timeFunc = func() time.Time { return issued.Add(20 * time.Minute) }

	_, err = service.ValidateToken(ctx, token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestTokenWithinClockSkew(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	service, err := NewJWTService(testAuthConfig())
	require.NoError(t, err)
	impl := service.(*hmacJWTService)

	person := testJWTPerson(t, false)
	token, err := service.GenerateToken(ctx, person)
	require.NoError(t, err)

	// One minute past expiry is still inside the 2 minute leeway.
	issued := time.Now()
	impl.timeFunc = func() time.Time { return issued.Add(16 * time.Minute) }

	_, err = service.ValidateToken(ctx, token)
	assert.NoError(t, err)
}

func TestInvalidTokens(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	service, err := NewJWTService(testAuthConfig())
	require.NoError(t, err)

	t.Run("garbage input", func(t *testing.T) {
		t.Parallel()

		_, err := service.ValidateToken(ctx, "not.a.token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("token signed with a different key", func(t *testing.T) {
		t.Parallel()

		otherCfg := testAuthConfig()
		otherCfg.JWTSecret = "another-signing-secret-of-32chars!"
		otherService, err := NewJWTService(otherCfg)
		require.NoError(t, err)

		token, err := otherService.GenerateToken(ctx, testJWTPerson(t, false))
		require.NoError(t, err)

		_, err = service.ValidateToken(ctx, token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}
