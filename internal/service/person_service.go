package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/deckmate/deckmate-api/internal/domain"
	"github.com/deckmate/deckmate-api/internal/service/auth"
	"github.com/deckmate/deckmate-api/internal/store"
)

// PersonService provides person-related operations: self-service
// registration and authentication, plus the admin management surface.
type PersonService interface {
	// Register creates a new person with the default permission set.
	Register(ctx context.Context, username, email, password string) (*domain.Person, error)

	// Authenticate verifies the username/password pair and returns the
	// matching person. Returns auth.ErrInvalidCredentials when either the
	// person does not exist or the password does not match.
	Authenticate(ctx context.Context, username, password string) (*domain.Person, error)

	// GetPerson retrieves a person by their ID.
	GetPerson(ctx context.Context, personID uuid.UUID) (*domain.Person, error)

	// ListPersons returns all persons. Admin-only.
	ListPersons(ctx context.Context, actor *domain.Person) ([]*domain.Person, error)

	// CreatePerson creates a person with an explicit permission set. Admin-only.
	CreatePerson(
		ctx context.Context,
		actor *domain.Person,
		username, email, password string,
		permissions []domain.Permission,
	) (*domain.Person, error)

	// UpdatePermissions replaces a person's permission set. Admin-only.
	UpdatePermissions(
		ctx context.Context,
		actor *domain.Person,
		personID uuid.UUID,
		permissions []domain.Permission,
	) (*domain.Person, error)

	// DeletePerson removes a person. Admins may delete anyone; a person may
	// delete themselves. Learning progress rows cascade away with the person.
	DeletePerson(ctx context.Context, actor *domain.Person, personID uuid.UUID) error
}

// PersonServiceImpl implements the PersonService interface
type PersonServiceImpl struct {
	personStore store.PersonStore
	hasher      auth.PasswordHasher
	verifier    auth.PasswordVerifier
	db          *sql.DB
	logger      *slog.Logger
}

// Ensure PersonServiceImpl implements PersonService interface
var _ PersonService = (*PersonServiceImpl)(nil)

// NewPersonService creates a new PersonService
func NewPersonService(
	personStore store.PersonStore,
	hasher auth.PasswordHasher,
	verifier auth.PasswordVerifier,
	db *sql.DB,
	logger *slog.Logger,
) *PersonServiceImpl {
	return &PersonServiceImpl{
		personStore: personStore,
		hasher:      hasher,
		verifier:    verifier,
		db:          db,
		logger:      logger.With("component", "person_service"),
	}
}

// Register creates a new person with the default permission set.
func (s *PersonServiceImpl) Register(
	ctx context.Context,
	username, email, password string,
) (*domain.Person, error) {
	return s.createPerson(ctx, username, email, password, domain.DefaultPermissions())
}

// createPerson validates, hashes the password and saves within a transaction.
func (s *PersonServiceImpl) createPerson(
	ctx context.Context,
	username, email, password string,
	permissions []domain.Permission,
) (*domain.Person, error) {
	person, err := domain.NewPersonWithPermissions(username, email, password, permissions)
	if err != nil {
		s.logger.Debug("failed to create person object",
			"error", err,
			"username", username)
		return nil, fmt.Errorf("failed to create person: %w", err)
	}

	hashed, err := s.hasher.Hash(password)
	if err != nil {
		s.logger.Error("failed to hash password",
			"error", err,
			"username", username)
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	person.HashedPassword = hashed
	person.Password = ""

	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		return s.personStore.WithTx(tx).Create(ctx, person)
	})
	if err != nil {
		if errors.Is(err, store.ErrUsernameExists) {
			s.logger.Debug("attempted to create person with existing username",
				"username", username)
			return nil, fmt.Errorf("%w: %s", ErrUsernameTaken, username)
		}
		s.logger.Error("failed to save person to database",
			"error", err,
			"username", username)
		return nil, fmt.Errorf("failed to save person: %w", err)
	}

	s.logger.Info("person created",
		"person_id", person.ID,
		"username", person.Username)
	return person, nil
}

// Authenticate verifies the username/password pair.
func (s *PersonServiceImpl) Authenticate(
	ctx context.Context,
	username, password string,
) (*domain.Person, error) {
	person, err := s.personStore.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrPersonNotFound) {
			s.logger.Debug("authentication failed: unknown username",
				"username", username)
			return nil, auth.ErrInvalidCredentials
		}
		s.logger.Error("failed to retrieve person for authentication",
			"error", err,
			"username", username)
		return nil, fmt.Errorf("failed to retrieve person: %w", err)
	}

	if err := s.verifier.Compare(person.HashedPassword, password); err != nil {
		s.logger.Debug("authentication failed: password mismatch",
			"username", username)
		return nil, auth.ErrInvalidCredentials
	}

	s.logger.Debug("person authenticated",
		"person_id", person.ID,
		"username", username)
	return person, nil
}

// GetPerson retrieves a person by their ID.
func (s *PersonServiceImpl) GetPerson(
	ctx context.Context,
	personID uuid.UUID,
) (*domain.Person, error) {
	person, err := s.personStore.GetByID(ctx, personID)
	if err != nil {
		if !errors.Is(err, store.ErrPersonNotFound) {
			s.logger.Error("failed to retrieve person",
				"error", err,
				"person_id", personID)
		}
		return nil, fmt.Errorf("failed to retrieve person: %w", err)
	}
	return person, nil
}

// ListPersons returns all persons. Admin-only.
func (s *PersonServiceImpl) ListPersons(
	ctx context.Context,
	actor *domain.Person,
) ([]*domain.Person, error) {
	if !actor.IsAdmin() {
		return nil, fmt.Errorf("%w: listing persons requires admin", ErrPermissionDenied)
	}

	persons, err := s.personStore.List(ctx)
	if err != nil {
		s.logger.Error("failed to list persons", "error", err)
		return nil, fmt.Errorf("failed to list persons: %w", err)
	}
	return persons, nil
}

// CreatePerson creates a person with an explicit permission set. Admin-only.
func (s *PersonServiceImpl) CreatePerson(
	ctx context.Context,
	actor *domain.Person,
	username, email, password string,
	permissions []domain.Permission,
) (*domain.Person, error) {
	if !actor.IsAdmin() {
		return nil, fmt.Errorf("%w: creating persons requires admin", ErrPermissionDenied)
	}
	return s.createPerson(ctx, username, email, password, permissions)
}

// UpdatePermissions replaces a person's permission set. Admin-only.
func (s *PersonServiceImpl) UpdatePermissions(
	ctx context.Context,
	actor *domain.Person,
	personID uuid.UUID,
	permissions []domain.Permission,
) (*domain.Person, error) {
	if !actor.IsAdmin() {
		return nil, fmt.Errorf("%w: changing permissions requires admin", ErrPermissionDenied)
	}

	var person *domain.Person
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txStore := s.personStore.WithTx(tx)

		var err error
		person, err = txStore.GetByID(ctx, personID)
		if err != nil {
			return err
		}

		person.Permissions = permissions
		return txStore.Update(ctx, person)
	})
	if err != nil {
		if !errors.Is(err, store.ErrPersonNotFound) {
			s.logger.Error("failed to update permissions",
				"error", err,
				"person_id", personID)
		}
		return nil, fmt.Errorf("failed to update permissions: %w", err)
	}

	s.logger.Info("permissions updated",
		"person_id", personID,
		"admin_id", actor.ID)
	return person, nil
}

// DeletePerson removes a person. Admins may delete anyone; a person may
// delete themselves.
func (s *PersonServiceImpl) DeletePerson(
	ctx context.Context,
	actor *domain.Person,
	personID uuid.UUID,
) error {
	if !actor.IsAdmin() && actor.ID != personID {
		return fmt.Errorf("%w: cannot delete another person", ErrPermissionDenied)
	}

	if err := s.personStore.Delete(ctx, personID); err != nil {
		if !errors.Is(err, store.ErrPersonNotFound) {
			s.logger.Error("failed to delete person",
				"error", err,
				"person_id", personID)
		}
		return fmt.Errorf("failed to delete person: %w", err)
	}

	s.logger.Info("person deleted",
		"person_id", personID,
		"actor_id", actor.ID)
	return nil
}
