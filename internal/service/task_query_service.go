package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/phrazzld/taskdesk/internal/domain"
	"github.com/phrazzld/taskdesk/internal/platform/logger"
	"github.com/phrazzld/taskdesk/internal/store"
)

// QueryService serves the read-only listings behind the admin and user pages.
type QueryService interface {
	// ListTasks returns every task with its assignee name. Admin only.
	ListTasks(ctx context.Context, identity *domain.Identity) ([]domain.TaskView, error)

	// ListUsers returns every user. Admin only.
	ListUsers(ctx context.Context, identity *domain.Identity) ([]domain.User, error)

	// ListMyTasks returns the caller's own tasks. User only.
	ListMyTasks(ctx context.Context, identity *domain.Identity) ([]domain.TaskView, error)
}

type queryServiceImpl struct {
	tasks  store.TaskStore
	users  store.UserStore
	logger *slog.Logger
}

// NewQueryService creates a QueryService.
func NewQueryService(tasks store.TaskStore, users store.UserStore, logger *slog.Logger) (QueryService, error) {
	if tasks == nil {
		return nil, domain.NewValidationError("tasks", "cannot be nil", ErrNilDependency)
	}
	if users == nil {
		return nil, domain.NewValidationError("users", "cannot be nil", ErrNilDependency)
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &queryServiceImpl{
		tasks:  tasks,
		users:  users,
		logger: logger.With(slog.String("component", "query_service")),
	}, nil
}

func (s *queryServiceImpl) ListTasks(ctx context.Context, identity *domain.Identity) ([]domain.TaskView, error) {
	if err := identity.Require(domain.RoleAdmin); err != nil {
		return nil, err
	}

	tasks, err := s.tasks.GetAll(ctx)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list tasks", slog.String("error", err.Error()))
		return nil, NewServiceError("query", "list_tasks", "failed to list tasks", err)
	}
	return tasks, nil
}

func (s *queryServiceImpl) ListUsers(ctx context.Context, identity *domain.Identity) ([]domain.User, error) {
	if err := identity.Require(domain.RoleAdmin); err != nil {
		return nil, err
	}

	users, err := s.users.GetAll(ctx)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list users", slog.String("error", err.Error()))
		return nil, NewServiceError("query", "list_users", "failed to list users", err)
	}
	return users, nil
}

func (s *queryServiceImpl) ListMyTasks(ctx context.Context, identity *domain.Identity) ([]domain.TaskView, error) {
	if err := identity.Require(domain.RoleUser); err != nil {
		return nil, err
	}

	tasks, err := s.tasks.ListByAssignee(ctx, identity.UserID)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list own tasks",
			slog.String("user_id", identity.UserID.String()),
			slog.String("error", err.Error()))
		return nil, NewServiceError("query", "list_my_tasks", fmt.Sprintf("failed to list tasks for %s", identity.UserID), err)
	}
	return tasks, nil
}
