package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasherAndVerifier(t *testing.T) {
	t.Parallel()

	hasher := NewBcryptHasher(bcrypt.MinCost)
	verifier := NewBcryptVerifier()

	hashed, err := hasher.Hash("a-long-password-1")
	require.NoError(t, err)
	assert.NotEqual(t, "a-long-password-1", hashed)

	assert.NoError(t, verifier.Compare(hashed, "a-long-password-1"))
	assert.Error(t, verifier.Compare(hashed, "a-long-password-2"))
	assert.Error(t, verifier.Compare("not-a-bcrypt-hash", "a-long-password-1"))
}

func TestBcryptHasherSaltsHashes(t *testing.T) {
	t.Parallel()

	hasher := NewBcryptHasher(bcrypt.MinCost)

	first, err := hasher.Hash("a-long-password-1")
	require.NoError(t, err)
	second, err := hasher.Hash("a-long-password-1")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestNewBcryptHasherCostFallback(t *testing.T) {
	t.Parallel()

	assert.Equal(t, bcrypt.DefaultCost, NewBcryptHasher(-1).cost)
	assert.Equal(t, bcrypt.DefaultCost, NewBcryptHasher(99).cost)
	assert.Equal(t, bcrypt.MinCost, NewBcryptHasher(bcrypt.MinCost).cost)
}
