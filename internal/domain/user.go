package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Role is the closed set of access roles.
type Role string

// Known roles.
const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// ParseRole converts a stored role string into a Role.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAdmin, RoleUser:
		return Role(s), nil
	default:
		return "", ErrInvalidRole
	}
}

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

// String returns the role name.
func (r Role) String() string {
	return string(r)
}

// Common validation errors for User
var (
	ErrEmptyUserID   = errors.New("user ID cannot be empty")
	ErrEmptyUserName = errors.New("user name cannot be empty")
)

// User is a person who can sign in. Users are provisioned out of band;
// the application only reads them.
type User struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Role           Role      `json:"role"`
	HashedPassword string    `json:"-"` // Never expose password hash in JSON
	CreatedAt      time.Time `json:"created_at"`
}

// Validate checks if the User has valid data.
func (u *User) Validate() error {
	if u.ID == uuid.Nil {
		return ErrEmptyUserID
	}
	if u.Name == "" {
		return ErrEmptyUserName
	}
	if !u.Role.Valid() {
		return ErrInvalidRole
	}
	return nil
}

// Identity returns the request identity for u.
func (u *User) Identity() Identity {
	return Identity{UserID: u.ID, Role: u.Role, Name: u.Name}
}
