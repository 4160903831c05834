package identity

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/shopfacade/backend/internal/domain/shared"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// User represents a customer who can place orders.
// Profile fields are opaque to the order flow.
type User struct {
	shared.BaseEntity
	Name  string
	Email string
}

// NewUser creates a new user. An empty id gets a generated one.
func NewUser(id, name, email string) (*User, error) {
	name = strings.TrimSpace(name)
	if err := validateName(name); err != nil {
		return nil, err
	}
	email, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}

	return &User{
		BaseEntity: shared.NewBaseEntityWithID(strings.TrimSpace(id)),
		Name:       name,
		Email:      email,
	}, nil
}

// Update replaces the user's profile fields
func (u *User) Update(name, email string) error {
	name = strings.TrimSpace(name)
	if err := validateName(name); err != nil {
		return err
	}
	email, err := normalizeEmail(email)
	if err != nil {
		return err
	}

	u.Name = name
	u.Email = email
	u.Touch()
	return nil
}

func validateName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "User name cannot be empty")
	}
	if utf8.RuneCountInString(name) > 100 {
		return shared.NewDomainError("INVALID_NAME", "User name cannot exceed 100 characters")
	}
	return nil
}

// normalizeEmail lower-cases and validates an optional email address
func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return "", nil
	}
	if len(email) > 200 {
		return "", shared.NewDomainError("INVALID_EMAIL", "Email cannot exceed 200 characters")
	}
	if !emailRegex.MatchString(email) {
		return "", shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
	}
	return email, nil
}
