package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/taskdesk/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestUpdateStatuses_MixedBatch(t *testing.T) {
	tasks := new(MockTaskStore)
	metrics := &recordingMetrics{}
	svc, err := NewStatusService(tasks, metrics, nil)
	require.NoError(t, err)

	done := uuid.MustParse("00000000-0000-0000-0000-000000000001")
	skipped := uuid.MustParse("00000000-0000-0000-0000-000000000002")
	broken := uuid.MustParse("00000000-0000-0000-0000-000000000003")
	missing := uuid.MustParse("00000000-0000-0000-0000-000000000004")

	tasks.On("UpdateStatus", mock.Anything, done, domain.TaskStatusDone).Return(true, nil)
	tasks.On("UpdateStatus", mock.Anything, broken, domain.TaskStatusInProgress).Return(false, errors.New("timeout"))
	tasks.On("UpdateStatus", mock.Anything, missing, domain.TaskStatusDone).Return(false, nil)

	result, err := svc.UpdateStatuses(context.Background(), userIdentity(), map[string]string{
		done.String():    "done",
		skipped.String(): "",
		broken.String():  "in-progress",
		missing.String(): " done ",
		"not-a-uuid":     "done",
	})
	require.NoError(t, err)

	assert.Equal(t, 1, result.Updated)
	assert.Equal(t, 1, result.Skipped)
	assert.Equal(t, 2, result.Failed)
	assert.Equal(t, 1, result.NotFound)
	require.Len(t, result.Items, 5)

	byID := map[string]StatusItemResult{}
	for _, item := range result.Items {
		byID[item.TaskID] = item.Result
	}
	assert.Equal(t, StatusUpdated, byID[done.String()])
	assert.Equal(t, StatusSkipped, byID[skipped.String()])
	assert.Equal(t, StatusFailed, byID[broken.String()])
	assert.Equal(t, StatusNotFound, byID[missing.String()])
	assert.Equal(t, StatusFailed, byID["not-a-uuid"])

	tasks.AssertNotCalled(t, "UpdateStatus", mock.Anything, skipped, mock.Anything)
	tasks.AssertNumberOfCalls(t, "UpdateStatus", 3)
	assert.Len(t, metrics.statusWrites, 5)
}

func TestUpdateStatuses_EmptyBatch(t *testing.T) {
	tasks := new(MockTaskStore)
	svc, err := NewStatusService(tasks, nil, nil)
	require.NoError(t, err)

	result, err := svc.UpdateStatuses(context.Background(), userIdentity(), map[string]string{})
	require.NoError(t, err)
	assert.Empty(t, result.Items)
	assert.Zero(t, result.Updated)
}

func TestUpdateStatuses_ItemsAreOrderedByTaskID(t *testing.T) {
	tasks := new(MockTaskStore)
	svc, err := NewStatusService(tasks, nil, nil)
	require.NoError(t, err)

	result, err := svc.UpdateStatuses(context.Background(), userIdentity(), map[string]string{
		"c": "", "a": "", "b": "",
	})
	require.NoError(t, err)
	require.Len(t, result.Items, 3)
	assert.Equal(t, "a", result.Items[0].TaskID)
	assert.Equal(t, "c", result.Items[2].TaskID)
}

func TestUpdateStatuses_RequiresUserRole(t *testing.T) {
	tasks := new(MockTaskStore)
	svc, err := NewStatusService(tasks, nil, nil)
	require.NoError(t, err)

	_, err = svc.UpdateStatuses(context.Background(), adminIdentity(), map[string]string{uuid.NewString(): "done"})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = svc.UpdateStatuses(context.Background(), nil, map[string]string{uuid.NewString(): "done"})
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)

	tasks.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}
