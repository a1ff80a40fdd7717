package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/sqlscan"
	"github.com/google/uuid"
	"github.com/phrazzld/taskdesk/internal/domain"
	"github.com/phrazzld/taskdesk/internal/platform/logger"
	"github.com/phrazzld/taskdesk/internal/store"
)

type taskViewRow struct {
	ID              uuid.UUID `db:"id"`
	Title           string    `db:"title"`
	Description     string    `db:"description"`
	AssignedTo      uuid.UUID `db:"assigned_to"`
	Status          string    `db:"status"`
	Deadline        time.Time `db:"deadline"`
	StatusUpdatedAt time.Time `db:"status_updated_at"`
	CreatedAt       time.Time `db:"created_at"`
	AssignedUser    string    `db:"assigned_user"`
}

func (r taskViewRow) toDomain() domain.TaskView {
	return domain.TaskView{
		Task: domain.Task{
			ID:              r.ID,
			Title:           r.Title,
			Description:     r.Description,
			AssignedTo:      r.AssignedTo,
			Status:          domain.TaskStatus(r.Status),
			Deadline:        r.Deadline,
			StatusUpdatedAt: r.StatusUpdatedAt,
			CreatedAt:       r.CreatedAt,
		},
		AssignedUser: r.AssignedUser,
	}
}

// PostgresTaskStore implements the store.TaskStore interface using PostgreSQL.
type PostgresTaskStore struct {
	db     store.DBTX
	logger *slog.Logger
	now    func() time.Time
}

// NewPostgresTaskStore creates a new PostgresTaskStore.
// If logger is nil, a default logger will be used.
func NewPostgresTaskStore(db store.DBTX, logger *slog.Logger) *PostgresTaskStore {
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresTaskStore{
		db:     db,
		logger: logger.With(slog.String("component", "task_store")),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Ensure PostgresTaskStore implements store.TaskStore interface
var _ store.TaskStore = (*PostgresTaskStore)(nil)

// WithTx implements store.TaskStore.WithTx
func (s *PostgresTaskStore) WithTx(tx *sql.Tx) store.TaskStore {
	return &PostgresTaskStore{db: tx, logger: s.logger, now: s.now}
}

// Create implements store.TaskStore.Create
func (s *PostgresTaskStore) Create(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := task.Validate(); err != nil {
		log.Warn("task validation failed during create",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query, args, err := squirrel.Insert("tasks").
		Columns("id", "title", "description", "assigned_to", "status",
			"deadline", "status_updated_at", "created_at").
		Values(task.ID, task.Title, task.Description, task.AssignedTo, string(task.Status),
			task.Deadline, task.StatusUpdatedAt, task.CreatedAt).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("building insert query: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		if IsForeignKeyViolation(err) {
			log.Warn("task assigned to unknown user",
				slog.String("task_id", task.ID.String()),
				slog.String("assigned_to", task.AssignedTo.String()))
			return fmt.Errorf("%w: user with ID %s not found", store.ErrInvalidEntity, task.AssignedTo)
		}
		log.Error("failed to create task",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return store.NewStoreError("task", "create", "insert failed", MapError(err))
	}

	log.Info("task created",
		slog.String("task_id", task.ID.String()),
		slog.String("assigned_to", task.AssignedTo.String()))
	return nil
}

// GetAll implements store.TaskStore.GetAll
func (s *PostgresTaskStore) GetAll(ctx context.Context) ([]domain.TaskView, error) {
	return s.list(ctx, nil, "get_all")
}

// ListByAssignee implements store.TaskStore.ListByAssignee
func (s *PostgresTaskStore) ListByAssignee(ctx context.Context, userID uuid.UUID) ([]domain.TaskView, error) {
	return s.list(ctx, squirrel.Expr("t.assigned_to = ?", userID), "list_by_assignee")
}

// list runs the task/user join. The assignee name is resolved here so callers
// never look users up per task.
func (s *PostgresTaskStore) list(ctx context.Context, where squirrel.Sqlizer, op string) ([]domain.TaskView, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	qb := squirrel.Select(
		"t.id", "t.title", "t.description", "t.assigned_to", "t.status",
		"t.deadline", "t.status_updated_at", "t.created_at",
		"u.name AS assigned_user",
	).
		From("tasks t").
		Join("users u ON u.id = t.assigned_to").
		OrderBy("t.deadline ASC", "t.created_at ASC").
		PlaceholderFormat(squirrel.Dollar)
	if where != nil {
		qb = qb.Where(where)
	}

	query, args, err := qb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("building select query: %w", err)
	}

	var rows []taskViewRow
	if err := sqlscan.Select(ctx, s.db, &rows, query, args...); err != nil {
		log.Error("failed to list tasks",
			slog.String("operation", op),
			slog.String("error", err.Error()))
		return nil, store.NewStoreError("task", op, "query failed", err)
	}

	tasks := make([]domain.TaskView, 0, len(rows))
	for _, row := range rows {
		tasks = append(tasks, row.toDomain())
	}

	log.Debug("tasks listed", slog.String("operation", op), slog.Int("count", len(tasks)))
	return tasks, nil
}

// UpdateStatus implements store.TaskStore.UpdateStatus
func (s *PostgresTaskStore) UpdateStatus(
	ctx context.Context,
	id uuid.UUID,
	status domain.TaskStatus,
) (bool, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if _, err := domain.ParseTaskStatus(string(status)); err != nil {
		return false, fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query, args, err := squirrel.Update("tasks").
		Set("status", string(status)).
		Set("status_updated_at", s.now()).
		Where(squirrel.Expr("id = ?", id)).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("building update query: %w", err)
	}

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to update task status",
			slog.String("task_id", id.String()),
			slog.String("status", string(status)),
			slog.String("error", err.Error()))
		return false, store.NewStoreError("task", "update_status", "update failed", MapError(err))
	}

	updated, err := rowsAffected(result)
	if err != nil {
		log.Error("failed to get rows affected",
			slog.String("task_id", id.String()),
			slog.String("error", err.Error()))
		return false, err
	}

	if !updated {
		log.Warn("no task found with ID to update status", slog.String("task_id", id.String()))
		return false, nil
	}

	log.Debug("task status updated",
		slog.String("task_id", id.String()),
		slog.String("status", string(status)))
	return true, nil
}
