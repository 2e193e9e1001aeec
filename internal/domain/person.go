package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Permission is a role tag attached to a person. Permissions gate access
// to administrative operations; a regular account carries only PermissionUser.
type Permission string

const (
	PermissionUser  Permission = "USER"
	PermissionAdmin Permission = "ADMIN"
)

// DefaultPermissions returns the permission set assigned to self-registered accounts.
func DefaultPermissions() []Permission {
	return []Permission{PermissionUser}
}

// KnownPermissions returns every permission the system recognizes.
func KnownPermissions() []Permission {
	return []Permission{PermissionUser, PermissionAdmin}
}

// Person-specific validation errors
var (
	// ErrEmptyPersonID is returned when a person ID is empty or nil.
	ErrEmptyPersonID = errors.New("person ID cannot be empty")

	// ErrEmptyUsername is returned when a username is empty.
	ErrEmptyUsername = errors.New("username cannot be empty")

	// ErrEmptyEmail is returned when an email address is empty.
	ErrEmptyEmail = errors.New("email cannot be empty")

	// ErrInvalidEmail is returned when an email address is malformed.
	ErrInvalidEmail = errors.New("invalid email format")

	// ErrPasswordTooShort is returned when a plaintext password is shorter than 12 characters.
	ErrPasswordTooShort = errors.New("password must be at least 12 characters long")

	// ErrPasswordTooLong is returned when a plaintext password exceeds bcrypt's 72-byte limit.
	ErrPasswordTooLong = errors.New("password must be at most 72 characters long")

	// ErrEmptyPassword is returned when neither a plaintext nor a hashed password is present.
	ErrEmptyPassword = errors.New("password cannot be empty")
)

// Person represents a registered account. A person creates decks, subscribes
// to decks of others, and accumulates learning progress per card.
type Person struct {
	ID             uuid.UUID    `json:"id"`
	Username       string       `json:"username"`
	Email          string       `json:"email"`
	Password       string       `json:"-"` // Plaintext password, used transiently during registration/updates
	HashedPassword string       `json:"-"` // Never expose password hash in JSON
	Permissions    []Permission `json:"permissions"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
}

// NewPerson creates a new Person with the given username, email and plaintext
// password, and the default USER permission. It generates a new UUID and sets
// the creation/update timestamps. Returns an error if validation fails.
//
// NOTE: The caller is responsible for hashing the password before storing the person.
func NewPerson(username, email, password string) (*Person, error) {
	return NewPersonWithPermissions(username, email, password, DefaultPermissions())
}

// NewPersonWithPermissions creates a new Person with an explicit permission
// set. Used by the admin account-creation path.
func NewPersonWithPermissions(
	username, email, password string,
	permissions []Permission,
) (*Person, error) {
	person := &Person{
		ID:          uuid.New(),
		Username:    username,
		Email:       email,
		Password:    password, // Plaintext password - must be hashed before storage
		Permissions: permissions,
		CreatedAt:   time.Now().UTC(),
		UpdatedAt:   time.Now().UTC(),
	}

	if err := person.Validate(); err != nil {
		return nil, err
	}

	return person, nil
}

// Validate checks if the Person has valid data.
// Returns an error if any field fails validation.
func (p *Person) Validate() error {
	if p.ID == uuid.Nil {
		return ErrEmptyPersonID
	}

	if strings.TrimSpace(p.Username) == "" {
		return ErrEmptyUsername
	}

	if p.Email == "" {
		return ErrEmptyEmail
	}

	if !validateEmailFormat(p.Email) {
		return ErrInvalidEmail
	}

	if p.Password != "" {
		// When a plaintext password is provided, validate its length.
		if len(p.Password) < 12 {
			return ErrPasswordTooShort
		}
		if len(p.Password) > 72 {
			return ErrPasswordTooLong
		}
	} else if p.HashedPassword == "" {
		// Existing accounts loaded from the database carry only the hash.
		return ErrEmptyPassword
	}

	return nil
}

// HasPermission reports whether the person carries the given permission.
// A nil person (anonymous request) has no permissions.
func (p *Person) HasPermission(perm Permission) bool {
	if p == nil {
		return false
	}
	for _, have := range p.Permissions {
		if have == perm {
			return true
		}
	}
	return false
}

// IsAdmin reports whether the person carries the ADMIN permission.
// This is the explicit capability check used by admin-only operations.
func (p *Person) IsAdmin() bool {
	return p.HasPermission(PermissionAdmin)
}

// validateEmailFormat performs basic validation of email format.
// Returns true if the email appears to be in a valid format.
func validateEmailFormat(email string) bool {
	atIndex := strings.IndexByte(email, '@')
	if atIndex <= 0 || atIndex == len(email)-1 {
		return false
	}

	domainPart := email[atIndex+1:]
	if len(domainPart) < 3 {
		return false
	}

	dotIndex := strings.IndexByte(domainPart, '.')
	return dotIndex > 0 && dotIndex < len(domainPart)-1
}
