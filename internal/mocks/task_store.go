package mocks

import (
	"context"
	"database/sql"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/taskdesk/internal/domain"
	"github.com/phrazzld/taskdesk/internal/store"
)

// MockTaskStore implements store.TaskStore for testing.
// Without function fields it keeps tasks in memory and resolves assignee
// names through Users when set.
type MockTaskStore struct {
	CreateFn         func(ctx context.Context, task *domain.Task) error
	GetAllFn         func(ctx context.Context) ([]domain.TaskView, error)
	ListByAssigneeFn func(ctx context.Context, userID uuid.UUID) ([]domain.TaskView, error)
	UpdateStatusFn   func(ctx context.Context, id uuid.UUID, status domain.TaskStatus) (bool, error)

	Tasks map[uuid.UUID]*domain.Task
	Users *MockUserStore
	Now   func() time.Time
}

// NewMockTaskStore creates an empty MockTaskStore. users may be nil.
func NewMockTaskStore(users *MockUserStore) *MockTaskStore {
	return &MockTaskStore{
		Tasks: make(map[uuid.UUID]*domain.Task),
		Users: users,
		Now:   time.Now,
	}
}

// Create implements the TaskStore interface
func (m *MockTaskStore) Create(ctx context.Context, task *domain.Task) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, task)
	}
	if err := task.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}
	if m.Users != nil {
		if _, err := m.Users.GetByID(ctx, task.AssignedTo); err != nil {
			return fmt.Errorf("%w: user with ID %s not found", store.ErrInvalidEntity, task.AssignedTo)
		}
	}
	stored := *task
	m.Tasks[task.ID] = &stored
	return nil
}

// GetAll implements the TaskStore interface
func (m *MockTaskStore) GetAll(ctx context.Context) ([]domain.TaskView, error) {
	if m.GetAllFn != nil {
		return m.GetAllFn(ctx)
	}
	return m.views(ctx, func(*domain.Task) bool { return true }), nil
}

// ListByAssignee implements the TaskStore interface
func (m *MockTaskStore) ListByAssignee(ctx context.Context, userID uuid.UUID) ([]domain.TaskView, error) {
	if m.ListByAssigneeFn != nil {
		return m.ListByAssigneeFn(ctx, userID)
	}
	return m.views(ctx, func(t *domain.Task) bool { return t.AssignedTo == userID }), nil
}

// UpdateStatus implements the TaskStore interface
func (m *MockTaskStore) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.TaskStatus) (bool, error) {
	if m.UpdateStatusFn != nil {
		return m.UpdateStatusFn(ctx, id, status)
	}
	task, ok := m.Tasks[id]
	if !ok {
		return false, nil
	}
	task.Status = status
	task.StatusUpdatedAt = m.Now().UTC()
	return true, nil
}

// WithTx returns the same mock.
func (m *MockTaskStore) WithTx(*sql.Tx) store.TaskStore {
	return m
}

func (m *MockTaskStore) views(ctx context.Context, keep func(*domain.Task) bool) []domain.TaskView {
	views := make([]domain.TaskView, 0, len(m.Tasks))
	for _, t := range m.Tasks {
		if !keep(t) {
			continue
		}
		view := domain.TaskView{Task: *t}
		if m.Users != nil {
			if u, err := m.Users.GetByID(ctx, t.AssignedTo); err == nil {
				view.AssignedUser = u.Name
			}
		}
		views = append(views, view)
	}
	slices.SortFunc(views, func(a, b domain.TaskView) int {
		if c := a.Deadline.Compare(b.Deadline); c != 0 {
			return c
		}
		return a.CreatedAt.Compare(b.CreatedAt)
	})
	return views
}

// MockTransactor implements store.Transactor by calling fn with a nil
// transaction. Stores used with it must accept WithTx(nil).
type MockTransactor struct {
	// Err, when set, is returned instead of running fn.
	Err   error
	Calls int
}

// WithinTx implements store.Transactor
func (m *MockTransactor) WithinTx(ctx context.Context, fn store.TxFn) error {
	m.Calls++
	if m.Err != nil {
		return m.Err
	}
	return fn(ctx, nil)
}

var (
	_ store.TaskStore  = (*MockTaskStore)(nil)
	_ store.Transactor = (*MockTransactor)(nil)
)
