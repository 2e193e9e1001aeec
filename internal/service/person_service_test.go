package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/deckmate/deckmate-api/internal/domain"
	"github.com/deckmate/deckmate-api/internal/mocks"
	"github.com/deckmate/deckmate-api/internal/service"
	"github.com/deckmate/deckmate-api/internal/service/auth"
	"github.com/deckmate/deckmate-api/internal/store"
)

type personFixture struct {
	service     service.PersonService
	personStore *mocks.MockPersonStore
	admin       *domain.Person
	regular     *domain.Person
}

func newPersonFixture(t *testing.T) *personFixture {
	t.Helper()

	f := &personFixture{
		personStore: mocks.NewMockPersonStore(),
		admin:       newTestPerson(t, "admin", true),
		regular:     newTestPerson(t, "regular", false),
	}
	f.personStore.Add(f.admin)
	f.personStore.Add(f.regular)

	// MinCost keeps the bcrypt work factor test-friendly.
	f.service = service.NewPersonService(
		f.personStore,
		auth.NewBcryptHasher(bcrypt.MinCost),
		auth.NewBcryptVerifier(),
		mocks.DB(),
		discardLogger())
	return f
}

func TestRegister(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("creates a person with hashed password", func(t *testing.T) {
		t.Parallel()

		f := newPersonFixture(t)
		person, err := f.service.Register(ctx, "newcomer", "new@example.com", "a-long-password-1")
		require.NoError(t, err)

		assert.Equal(t, domain.DefaultPermissions(), person.Permissions)
		assert.Empty(t, person.Password, "plaintext must not survive registration")
		assert.NotEmpty(t, person.HashedPassword)
		assert.NoError(t,
			bcrypt.CompareHashAndPassword(
				[]byte(person.HashedPassword), []byte("a-long-password-1")))
	})

	t.Run("duplicate username is rejected", func(t *testing.T) {
		t.Parallel()

		f := newPersonFixture(t)
		_, err := f.service.Register(ctx, "regular", "other@example.com", "a-long-password-1")
		assert.ErrorIs(t, err, service.ErrUsernameTaken)
	})

	t.Run("weak password is rejected", func(t *testing.T) {
		t.Parallel()

		f := newPersonFixture(t)
		_, err := f.service.Register(ctx, "newcomer", "new@example.com", "short")
		assert.ErrorIs(t, err, domain.ErrPasswordTooShort)
	})
}

func TestAuthenticate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("valid credentials return the person", func(t *testing.T) {
		t.Parallel()

		f := newPersonFixture(t)
		registered, err := f.service.Register(
			ctx, "learner", "learner@example.com", "a-long-password-1")
		require.NoError(t, err)

		person, err := f.service.Authenticate(ctx, "learner", "a-long-password-1")
		require.NoError(t, err)
		assert.Equal(t, registered.ID, person.ID)
	})

	t.Run("wrong password and unknown username fail alike", func(t *testing.T) {
		t.Parallel()

		f := newPersonFixture(t)
		_, err := f.service.Register(ctx, "learner", "learner@example.com", "a-long-password-1")
		require.NoError(t, err)

		_, err = f.service.Authenticate(ctx, "learner", "wrong-password-99")
		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)

		_, err = f.service.Authenticate(ctx, "nobody", "a-long-password-1")
		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	})
}

func TestPersonAdminOperations(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("list requires admin", func(t *testing.T) {
		t.Parallel()

		f := newPersonFixture(t)

		_, err := f.service.ListPersons(ctx, f.regular)
		assert.ErrorIs(t, err, service.ErrPermissionDenied)

		persons, err := f.service.ListPersons(ctx, f.admin)
		require.NoError(t, err)
		assert.Len(t, persons, 2)
	})

	t.Run("create with explicit permissions requires admin", func(t *testing.T) {
		t.Parallel()

		f := newPersonFixture(t)
		permissions := []domain.Permission{domain.PermissionUser, domain.PermissionAdmin}

		_, err := f.service.CreatePerson(
			ctx, f.regular, "mod", "mod@example.com", "a-long-password-1", permissions)
		assert.ErrorIs(t, err, service.ErrPermissionDenied)

		created, err := f.service.CreatePerson(
			ctx, f.admin, "mod", "mod@example.com", "a-long-password-1", permissions)
		require.NoError(t, err)
		assert.True(t, created.IsAdmin())
	})

	t.Run("update permissions requires admin", func(t *testing.T) {
		t.Parallel()

		f := newPersonFixture(t)
		promoted := []domain.Permission{domain.PermissionUser, domain.PermissionAdmin}

		_, err := f.service.UpdatePermissions(ctx, f.regular, f.regular.ID, promoted)
		assert.ErrorIs(t, err, service.ErrPermissionDenied)

		person, err := f.service.UpdatePermissions(ctx, f.admin, f.regular.ID, promoted)
		require.NoError(t, err)
		assert.True(t, person.IsAdmin())
	})

	t.Run("update permissions for unknown person", func(t *testing.T) {
		t.Parallel()

		f := newPersonFixture(t)
		_, err := f.service.UpdatePermissions(
			ctx, f.admin, uuid.New(), domain.DefaultPermissions())
		assert.ErrorIs(t, err, store.ErrPersonNotFound)
	})
}

func TestDeletePerson(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("admin deletes anyone", func(t *testing.T) {
		t.Parallel()

		f := newPersonFixture(t)
		require.NoError(t, f.service.DeletePerson(ctx, f.admin, f.regular.ID))

		_, err := f.personStore.GetByID(ctx, f.regular.ID)
		assert.ErrorIs(t, err, store.ErrPersonNotFound)
	})

	t.Run("person deletes themselves", func(t *testing.T) {
		t.Parallel()

		f := newPersonFixture(t)
		require.NoError(t, f.service.DeletePerson(ctx, f.regular, f.regular.ID))
	})

	t.Run("person may not delete someone else", func(t *testing.T) {
		t.Parallel()

		f := newPersonFixture(t)
		err := f.service.DeletePerson(ctx, f.regular, f.admin.ID)
		assert.ErrorIs(t, err, service.ErrPermissionDenied)
	})
}
