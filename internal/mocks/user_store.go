package mocks

import (
	"context"
	"database/sql"
	"strings"

	"github.com/google/uuid"
	"github.com/phrazzld/taskdesk/internal/domain"
	"github.com/phrazzld/taskdesk/internal/store"
)

// MockUserStore implements store.UserStore for testing.
// Without function fields it behaves like an in-memory directory keyed by email.
type MockUserStore struct {
	CreateFn     func(ctx context.Context, user *domain.User) error
	GetAllFn     func(ctx context.Context) ([]domain.User, error)
	GetByIDFn    func(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmailFn func(ctx context.Context, email string) (*domain.User, error)

	Users map[string]*domain.User
	Calls int
}

// NewMockUserStore creates a MockUserStore seeded with users.
func NewMockUserStore(users ...*domain.User) *MockUserStore {
	m := &MockUserStore{Users: make(map[string]*domain.User)}
	for _, u := range users {
		m.Users[strings.ToLower(u.Email)] = u
	}
	return m
}

// Create implements the UserStore interface
func (m *MockUserStore) Create(ctx context.Context, user *domain.User) error {
	m.Calls++
	if m.CreateFn != nil {
		return m.CreateFn(ctx, user)
	}
	key := strings.ToLower(user.Email)
	if _, exists := m.Users[key]; exists {
		return store.ErrEmailExists
	}
	m.Users[key] = user
	return nil
}

// GetAll implements the UserStore interface
func (m *MockUserStore) GetAll(ctx context.Context) ([]domain.User, error) {
	m.Calls++
	if m.GetAllFn != nil {
		return m.GetAllFn(ctx)
	}
	users := make([]domain.User, 0, len(m.Users))
	for _, u := range m.Users {
		users = append(users, *u)
	}
	return users, nil
}

// GetByID implements the UserStore interface
func (m *MockUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	m.Calls++
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	for _, u := range m.Users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, store.ErrUserNotFound
}

// GetByEmail implements the UserStore interface
func (m *MockUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	m.Calls++
	if m.GetByEmailFn != nil {
		return m.GetByEmailFn(ctx, email)
	}
	if u, ok := m.Users[strings.ToLower(strings.TrimSpace(email))]; ok {
		return u, nil
	}
	return nil, store.ErrUserNotFound
}

// WithTx returns the same mock.
func (m *MockUserStore) WithTx(*sql.Tx) store.UserStore {
	return m
}

var _ store.UserStore = (*MockUserStore)(nil)
