package api

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/phrazzld/taskdesk/internal/domain"
	"github.com/phrazzld/taskdesk/internal/service/auth"
	"github.com/phrazzld/taskdesk/internal/store"
	"github.com/stretchr/testify/assert"
)

func TestMapErrorToStatusCode(t *testing.T) {
	tests := []struct {
		err     error
		status  int
		message string
	}{
		{domain.ErrUnauthenticated, http.StatusUnauthorized, "Unauthorized"},
		{fmt.Errorf("%w: admin required", domain.ErrForbidden), http.StatusForbidden, "Unauthorized"},
		{auth.ErrExpiredToken, http.StatusUnauthorized, "Invalid session"},
		{auth.ErrInvalidCredentials, http.StatusUnauthorized, "Invalid credentials"},
		{store.ErrUserNotFound, http.StatusNotFound, "User not found"},
		{fmt.Errorf("lookup: %w", store.ErrNotFound), http.StatusNotFound, "Resource not found"},
		{store.ErrEmailExists, http.StatusConflict, "Email already exists"},
		{store.ErrInvalidEntity, http.StatusBadRequest, "Invalid request data"},
		{domain.ErrInvalidTaskStatus, http.StatusBadRequest, "Invalid request data"},
		{errors.New("pq: relation tasks does not exist"), http.StatusInternalServerError, "An unexpected error occurred"},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.status, MapErrorToStatusCode(tt.err))
			assert.Equal(t, tt.message, GetSafeErrorMessage(tt.err))
		})
	}

	assert.Equal(t, "An unexpected error occurred", GetSafeErrorMessage(nil))
}

func TestSanitizeValidationError(t *testing.T) {
	err := errors.New("Key: 'LoginRequest.Password' Error:Field validation for 'Password' failed on the 'required' tag")
	assert.Equal(t, "Invalid Password: required field", SanitizeValidationError(err))
	assert.Equal(t, "Validation error", SanitizeValidationError(errors.New("something else")))
}
