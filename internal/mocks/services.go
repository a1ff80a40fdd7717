package mocks

import (
	"context"

	"github.com/phrazzld/taskdesk/internal/domain"
	"github.com/phrazzld/taskdesk/internal/service"
)

// MockAssignmentService implements service.AssignmentService for testing.
type MockAssignmentService struct {
	AssignFn func(ctx context.Context, identity *domain.Identity, input service.AssignInput) (service.AssignmentResult, error)

	Calls     int
	LastInput service.AssignInput
}

// Assign implements service.AssignmentService
func (m *MockAssignmentService) Assign(
	ctx context.Context,
	identity *domain.Identity,
	input service.AssignInput,
) (service.AssignmentResult, error) {
	m.Calls++
	m.LastInput = input
	if m.AssignFn != nil {
		return m.AssignFn(ctx, identity, input)
	}
	if err := identity.Require(domain.RoleAdmin); err != nil {
		return service.AssignmentResult{}, err
	}
	return service.AssignmentResult{Outcome: service.OutcomeSuccess, Message: service.MessageSuccess}, nil
}

// MockStatusService implements service.StatusService for testing.
type MockStatusService struct {
	UpdateStatusesFn func(ctx context.Context, identity *domain.Identity, updates map[string]string) (service.StatusBatchResult, error)

	Calls       int
	LastUpdates map[string]string
}

// UpdateStatuses implements service.StatusService
func (m *MockStatusService) UpdateStatuses(
	ctx context.Context,
	identity *domain.Identity,
	updates map[string]string,
) (service.StatusBatchResult, error) {
	m.Calls++
	m.LastUpdates = updates
	if m.UpdateStatusesFn != nil {
		return m.UpdateStatusesFn(ctx, identity, updates)
	}
	if err := identity.Require(domain.RoleUser); err != nil {
		return service.StatusBatchResult{}, err
	}
	return service.StatusBatchResult{Items: []service.StatusItem{}}, nil
}

// MockQueryService implements service.QueryService for testing.
type MockQueryService struct {
	ListTasksFn   func(ctx context.Context, identity *domain.Identity) ([]domain.TaskView, error)
	ListUsersFn   func(ctx context.Context, identity *domain.Identity) ([]domain.User, error)
	ListMyTasksFn func(ctx context.Context, identity *domain.Identity) ([]domain.TaskView, error)

	Calls int
}

// ListTasks implements service.QueryService
func (m *MockQueryService) ListTasks(ctx context.Context, identity *domain.Identity) ([]domain.TaskView, error) {
	m.Calls++
	if m.ListTasksFn != nil {
		return m.ListTasksFn(ctx, identity)
	}
	return []domain.TaskView{}, nil
}

// ListUsers implements service.QueryService
func (m *MockQueryService) ListUsers(ctx context.Context, identity *domain.Identity) ([]domain.User, error) {
	m.Calls++
	if m.ListUsersFn != nil {
		return m.ListUsersFn(ctx, identity)
	}
	return []domain.User{}, nil
}

// ListMyTasks implements service.QueryService
func (m *MockQueryService) ListMyTasks(ctx context.Context, identity *domain.Identity) ([]domain.TaskView, error) {
	m.Calls++
	if m.ListMyTasksFn != nil {
		return m.ListMyTasksFn(ctx, identity)
	}
	return []domain.TaskView{}, nil
}

var (
	_ service.AssignmentService = (*MockAssignmentService)(nil)
	_ service.StatusService     = (*MockStatusService)(nil)
	_ service.QueryService      = (*MockQueryService)(nil)
)
