package service

import (
	"context"
	"errors"
	"testing"

	"github.com/phrazzld/taskdesk/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newQueryFixture(t *testing.T) (*MockTaskStore, *MockUserStore, QueryService) {
	t.Helper()
	tasks, users := new(MockTaskStore), new(MockUserStore)
	svc, err := NewQueryService(tasks, users, nil)
	require.NoError(t, err)
	return tasks, users, svc
}

func TestListTasks(t *testing.T) {
	tasks, _, svc := newQueryFixture(t)
	want := []domain.TaskView{{AssignedUser: "Grace"}}
	tasks.On("GetAll", mock.Anything).Return(want, nil)

	got, err := svc.ListTasks(context.Background(), adminIdentity())
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestListTasks_StoreError(t *testing.T) {
	tasks, _, svc := newQueryFixture(t)
	storeErr := errors.New("connection refused")
	tasks.On("GetAll", mock.Anything).Return(nil, storeErr)

	_, err := svc.ListTasks(context.Background(), adminIdentity())
	assert.ErrorIs(t, err, storeErr)
	var svcErr *ServiceError
	assert.ErrorAs(t, err, &svcErr)
}

func TestListUsers(t *testing.T) {
	_, users, svc := newQueryFixture(t)
	users.On("GetAll", mock.Anything).Return([]domain.User{{Name: "Ada"}}, nil)

	got, err := svc.ListUsers(context.Background(), adminIdentity())
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestListMyTasks(t *testing.T) {
	tasks, _, svc := newQueryFixture(t)
	me := userIdentity()
	tasks.On("ListByAssignee", mock.Anything, me.UserID).Return([]domain.TaskView{}, nil)

	got, err := svc.ListMyTasks(context.Background(), me)
	require.NoError(t, err)
	assert.Empty(t, got)
	tasks.AssertExpectations(t)
}

func TestListings_RoleGate(t *testing.T) {
	tasks, users, svc := newQueryFixture(t)
	ctx := context.Background()

	_, err := svc.ListTasks(ctx, userIdentity())
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = svc.ListUsers(ctx, nil)
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)

	_, err = svc.ListMyTasks(ctx, adminIdentity())
	assert.ErrorIs(t, err, domain.ErrForbidden)

	tasks.AssertNotCalled(t, "GetAll", mock.Anything)
	tasks.AssertNotCalled(t, "ListByAssignee", mock.Anything, mock.Anything)
	users.AssertNotCalled(t, "GetAll", mock.Anything)
}
