package auth

import (
	"context"
	"time"

	"github.com/phrazzld/taskdesk/internal/domain"
)

// SessionCookieName is the cookie carrying the session token for browser clients.
const SessionCookieName = "taskdesk_session"

// Session is a signed session token and its expiry.
type Session struct {
	Token     string
	ExpiresAt time.Time
}

// SessionService issues and validates session tokens. The token carries the
// caller's identity, so validating it needs no storage access.
type SessionService interface {
	// IssueSession signs a new session for user.
	IssueSession(ctx context.Context, user *domain.User) (Session, error)

	// ValidateSession verifies token and returns the identity it carries.
	// Returns ErrMissingToken, ErrInvalidToken or ErrExpiredToken on failure.
	ValidateSession(ctx context.Context, token string) (*domain.Identity, error)
}
