package store

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStoreError(t *testing.T) {
	cause := errors.New("connection reset")

	err := NewStoreError("task", "create", "insert failed", cause)
	assert.Equal(t, "create operation on task failed: insert failed: connection reset", err.Error())
	assert.ErrorIs(t, err, cause)

	bare := NewStoreError("user", "get_all", "scan failed", nil)
	assert.Equal(t, "get_all operation on user failed: scan failed", bare.Error())
	assert.Nil(t, bare.Unwrap())
}

func TestErrorMessages(t *testing.T) {
	assert.Equal(t, "entity not found: user", ErrUserNotFound.Error())
	assert.Equal(t, "entity already exists: email", ErrEmailExists.Error())
	assert.ErrorIs(t, ErrUserNotFound, ErrNotFound)
	assert.ErrorIs(t, ErrEmailExists, ErrDuplicate)
}
