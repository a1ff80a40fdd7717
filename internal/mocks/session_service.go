package mocks

import (
	"context"
	"time"

	"github.com/phrazzld/taskdesk/internal/domain"
	"github.com/phrazzld/taskdesk/internal/service/auth"
)

// MockSessionService implements auth.SessionService for testing.
// By default it issues "token-<user id>" and resolves tokens found in Sessions.
type MockSessionService struct {
	IssueSessionFn    func(ctx context.Context, user *domain.User) (auth.Session, error)
	ValidateSessionFn func(ctx context.Context, token string) (*domain.Identity, error)

	Sessions map[string]*domain.Identity
}

// NewMockSessionService creates a MockSessionService with no known sessions.
func NewMockSessionService() *MockSessionService {
	return &MockSessionService{Sessions: make(map[string]*domain.Identity)}
}

// Add registers token as a valid session for identity.
func (m *MockSessionService) Add(token string, identity domain.Identity) {
	if m.Sessions == nil {
		m.Sessions = make(map[string]*domain.Identity)
	}
	m.Sessions[token] = &identity
}

// IssueSession implements auth.SessionService
func (m *MockSessionService) IssueSession(ctx context.Context, user *domain.User) (auth.Session, error) {
	if m.IssueSessionFn != nil {
		return m.IssueSessionFn(ctx, user)
	}
	token := "token-" + user.ID.String()
	m.Add(token, user.Identity())
	return auth.Session{Token: token, ExpiresAt: time.Now().Add(time.Hour)}, nil
}

// ValidateSession implements auth.SessionService
func (m *MockSessionService) ValidateSession(ctx context.Context, token string) (*domain.Identity, error) {
	if m.ValidateSessionFn != nil {
		return m.ValidateSessionFn(ctx, token)
	}
	if token == "" {
		return nil, auth.ErrMissingToken
	}
	if id, ok := m.Sessions[token]; ok {
		return id, nil
	}
	return nil, auth.ErrInvalidToken
}

var _ auth.SessionService = (*MockSessionService)(nil)
