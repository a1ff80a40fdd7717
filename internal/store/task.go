package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/taskdesk/internal/domain"
)

// TaskStore defines the interface for task persistence.
type TaskStore interface {
	// Create inserts a new task.
	// Returns ErrInvalidEntity if the assignee does not exist or the task is invalid.
	Create(ctx context.Context, task *domain.Task) error

	// GetAll returns every task joined with its assignee's name, ordered by deadline.
	GetAll(ctx context.Context) ([]domain.TaskView, error)

	// ListByAssignee returns the tasks assigned to userID, ordered by deadline.
	ListByAssignee(ctx context.Context, userID uuid.UUID) ([]domain.TaskView, error)

	// UpdateStatus sets the status of one task and refreshes status_updated_at.
	// It reports false without error when no task has the given ID.
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.TaskStatus) (bool, error)

	// WithTx returns a new TaskStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) TaskStore
}
