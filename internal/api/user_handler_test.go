package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/taskdesk/internal/domain"
	"github.com/phrazzld/taskdesk/internal/mocks"
	"github.com/phrazzld/taskdesk/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListUsers(t *testing.T) {
	_, log := logger.NewTestLogger()
	user := domain.User{ID: uuid.New(), Name: "Uma", Email: "uma@example.com", Role: domain.RoleUser, HashedPassword: "$2a$hash"}
	queries := &mocks.MockQueryService{
		ListUsersFn: func(context.Context, *domain.Identity) ([]domain.User, error) {
			return []domain.User{user}, nil
		},
	}

	rec := httptest.NewRecorder()
	NewUserHandler(queries, log).ListUsers(rec, withIdentity(httptest.NewRequest(http.MethodGet, "/api/users", nil), adminIdentity()))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "uma@example.com")
	assert.NotContains(t, rec.Body.String(), "$2a$hash")

	var resp []UserResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, []UserResponse{{ID: user.ID, Name: "Uma", Role: "user"}}, resp)
}
