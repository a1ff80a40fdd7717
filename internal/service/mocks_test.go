package service

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/taskdesk/internal/domain"
	"github.com/phrazzld/taskdesk/internal/platform/mailer"
	"github.com/phrazzld/taskdesk/internal/store"
	"github.com/stretchr/testify/mock"
)

// MockTaskStore mocks the store.TaskStore interface
type MockTaskStore struct {
	mock.Mock
}

func (m *MockTaskStore) Create(ctx context.Context, task *domain.Task) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

func (m *MockTaskStore) GetAll(ctx context.Context) ([]domain.TaskView, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TaskView), args.Error(1)
}

func (m *MockTaskStore) ListByAssignee(ctx context.Context, userID uuid.UUID) ([]domain.TaskView, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TaskView), args.Error(1)
}

func (m *MockTaskStore) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.TaskStatus) (bool, error) {
	args := m.Called(ctx, id, status)
	return args.Bool(0), args.Error(1)
}

// WithTx returns the same mock so expectations set on it apply inside transactions.
func (m *MockTaskStore) WithTx(*sql.Tx) store.TaskStore {
	return m
}

// MockUserStore mocks the store.UserStore interface
type MockUserStore struct {
	mock.Mock
}

func (m *MockUserStore) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserStore) GetAll(ctx context.Context) ([]domain.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.User), args.Error(1)
}

func (m *MockUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserStore) WithTx(*sql.Tx) store.UserStore {
	return m
}

// MockSender mocks mailer.Sender
type MockSender struct {
	mock.Mock
}

func (m *MockSender) SendTaskEmail(ctx context.Context, email mailer.TaskEmail) bool {
	args := m.Called(ctx, email)
	return args.Bool(0)
}

// fakeTransactor runs fn with a nil transaction. commitErr simulates a failed
// commit after fn succeeds; open reports whether fn is currently running.
type fakeTransactor struct {
	calls     int
	commitErr error
	open      bool
}

func (f *fakeTransactor) WithinTx(ctx context.Context, fn store.TxFn) error {
	f.calls++
	f.open = true
	err := fn(ctx, nil)
	f.open = false
	if err != nil {
		return err
	}
	return f.commitErr
}

// recordingMetrics captures counter calls.
type recordingMetrics struct {
	outcomes      []string
	notifications []bool
	statusWrites  []string
}

func (r *recordingMetrics) AssignmentOutcome(outcome string) {
	r.outcomes = append(r.outcomes, outcome)
}
func (r *recordingMetrics) Notification(sent bool) { r.notifications = append(r.notifications, sent) }
func (r *recordingMetrics) StatusWrite(result string) {
	r.statusWrites = append(r.statusWrites, result)
}

func adminIdentity() *domain.Identity {
	return &domain.Identity{UserID: uuid.New(), Role: domain.RoleAdmin, Name: "Admin"}
}

func userIdentity() *domain.Identity {
	return &domain.Identity{UserID: uuid.New(), Role: domain.RoleUser, Name: "Grace"}
}
