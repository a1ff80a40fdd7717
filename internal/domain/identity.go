package domain

import (
	"fmt"

	"github.com/google/uuid"
)

// Identity is the authenticated caller of a single request. It is derived from
// the session and passed explicitly into every protected operation.
type Identity struct {
	UserID uuid.UUID
	Role   Role
	Name   string
}

// Require checks that id is present and carries the given role.
// A nil identity yields ErrUnauthenticated and a role mismatch yields ErrForbidden.
func (id *Identity) Require(role Role) error {
	if id == nil || id.UserID == uuid.Nil {
		return ErrUnauthenticated
	}
	if id.Role != role {
		return fmt.Errorf("%w: %s required, have %s", ErrForbidden, role, id.Role)
	}
	return nil
}
