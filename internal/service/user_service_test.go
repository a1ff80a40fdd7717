package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/phrazzld/taskdesk/internal/domain"
	"github.com/phrazzld/taskdesk/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func fakeHash(password string) (string, error) {
	return "hashed:" + password, nil
}

func TestCreateUser(t *testing.T) {
	users := new(MockUserStore)
	tx := &fakeTransactor{}
	svc, err := NewUserService(tx, users, fakeHash, nil)
	require.NoError(t, err)

	users.On("Create", mock.Anything, mock.MatchedBy(func(u *domain.User) bool {
		return u.Email == "ada@example.com" && u.HashedPassword == "hashed:long-password" && u.Role == domain.RoleAdmin
	})).Return(nil)

	user, err := svc.CreateUser(context.Background(), NewUserInput{
		Name: " Ada ", Email: "Ada@Example.com", Role: "admin", Password: "long-password",
	})
	require.NoError(t, err)
	assert.Equal(t, "Ada", user.Name)
	assert.Equal(t, 1, tx.calls)
	users.AssertExpectations(t)
}

func TestCreateUser_Validation(t *testing.T) {
	users := new(MockUserStore)
	svc, err := NewUserService(&fakeTransactor{}, users, fakeHash, nil)
	require.NoError(t, err)

	inputs := []NewUserInput{
		{Name: "", Email: "a@example.com", Role: "user", Password: "long-password"},
		{Name: "A", Email: "not-an-email", Role: "user", Password: "long-password"},
		{Name: "A", Email: "a@example.com", Role: "root", Password: "long-password"},
		{Name: "A", Email: "a@example.com", Role: "user", Password: "short"},
	}
	for i, in := range inputs {
		t.Run(fmt.Sprint(i), func(t *testing.T) {
			_, err := svc.CreateUser(context.Background(), in)
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}
	users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	users := new(MockUserStore)
	svc, err := NewUserService(&fakeTransactor{}, users, fakeHash, nil)
	require.NoError(t, err)

	users.On("Create", mock.Anything, mock.Anything).Return(store.ErrEmailExists)

	_, err = svc.CreateUser(context.Background(), NewUserInput{
		Name: "A", Email: "a@example.com", Role: "user", Password: "long-password",
	})
	assert.ErrorIs(t, err, store.ErrEmailExists)
}

func TestCreateUser_HashFailure(t *testing.T) {
	users := new(MockUserStore)
	failing := func(string) (string, error) { return "", errors.New("bcrypt unavailable") }
	svc, err := NewUserService(&fakeTransactor{}, users, failing, nil)
	require.NoError(t, err)

	_, err = svc.CreateUser(context.Background(), NewUserInput{
		Name: "A", Email: "a@example.com", Role: "user", Password: "long-password",
	})
	assert.Error(t, err)
	users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}
