package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/taskdesk/internal/api/shared"
	"github.com/phrazzld/taskdesk/internal/domain"
	"github.com/phrazzld/taskdesk/internal/mocks"
	"github.com/phrazzld/taskdesk/internal/platform/logger"
	"github.com/phrazzld/taskdesk/internal/service/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type authFixture struct {
	handler  *AuthHandler
	users    *mocks.MockUserStore
	sessions *mocks.MockSessionService
	verifier *mocks.MockPasswordVerifier
	counts   loginCounter
}

func newAuthFixture(users ...*domain.User) *authFixture {
	_, log := logger.NewTestLogger()
	f := &authFixture{
		users:    mocks.NewMockUserStore(users...),
		sessions: mocks.NewMockSessionService(),
		verifier: &mocks.MockPasswordVerifier{ShouldSucceed: true},
		counts:   loginCounter{},
	}
	f.handler = NewAuthHandler(f.users, f.sessions, f.verifier, f.counts, true, log)
	return f
}

func testUser(role domain.Role) *domain.User {
	return &domain.User{
		ID:             uuid.New(),
		Name:           "Lee",
		Email:          "lee@example.com",
		Role:           role,
		HashedPassword: "$2a$10$hash",
	}
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == auth.SessionCookieName {
			return c
		}
	}
	return nil
}

func TestLogin_JSON(t *testing.T) {
	user := testUser(domain.RoleUser)
	f := newAuthFixture(user)

	req := httptest.NewRequest(http.MethodPost, "/login",
		strings.NewReader(`{"email":"lee@example.com","password":"secret-pass"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	f.handler.Login(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp LoginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, user.ID, resp.UserID)
	assert.Equal(t, "user", resp.Role)
	assert.Equal(t, "token-"+user.ID.String(), resp.Token)
	assert.NotEmpty(t, resp.ExpiresAt)

	cookie := sessionCookie(t, rec)
	require.NotNil(t, cookie)
	assert.Equal(t, resp.Token, cookie.Value)
	assert.True(t, cookie.HttpOnly)
	assert.True(t, cookie.Secure)
	assert.Equal(t, 1, f.counts[LoginSuccess])
}

func TestLogin_FormRedirectsByRole(t *testing.T) {
	tests := []struct {
		role     domain.Role
		location string
	}{
		{domain.RoleAdmin, AdminPath},
		{domain.RoleUser, MyTasksPath},
	}

	for _, tt := range tests {
		t.Run(tt.role.String(), func(t *testing.T) {
			f := newAuthFixture(testUser(tt.role))

			req := httptest.NewRequest(http.MethodPost, "/login", formBody(url.Values{
				"email":    {" lee@example.com "},
				"password": {"secret-pass"},
			}))
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
			rec := httptest.NewRecorder()
			f.handler.Login(rec, req)

			assert.Equal(t, http.StatusSeeOther, rec.Code)
			assert.Equal(t, tt.location, rec.Header().Get("Location"))
			assert.NotNil(t, sessionCookie(t, rec))
		})
	}
}

func TestLogin_InvalidCredentials(t *testing.T) {
	t.Run("wrong password json", func(t *testing.T) {
		f := newAuthFixture(testUser(domain.RoleUser))
		f.verifier.ShouldSucceed = false

		req := httptest.NewRequest(http.MethodPost, "/login",
			strings.NewReader(`{"email":"lee@example.com","password":"nope"}`))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		f.handler.Login(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		var body shared.ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "Invalid credentials", body.Message)
		assert.Nil(t, sessionCookie(t, rec))
		assert.Equal(t, 1, f.counts[LoginInvalid])
	})

	t.Run("unknown user form", func(t *testing.T) {
		f := newAuthFixture()

		req := httptest.NewRequest(http.MethodPost, "/login", formBody(url.Values{
			"email":    {"ghost@example.com"},
			"password": {"whatever"},
		}))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		rec := httptest.NewRecorder()
		f.handler.Login(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
		assert.Contains(t, rec.Body.String(), "Invalid credentials")
		assert.Equal(t, 0, f.verifier.CompareCallCount)
	})
}

func TestLogin_ValidationError(t *testing.T) {
	f := newAuthFixture()

	req := httptest.NewRequest(http.MethodPost, "/login",
		strings.NewReader(`{"email":"not-an-email","password":"x"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	f.handler.Login(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var body shared.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Invalid Email: invalid email format", body.Message)
	assert.Equal(t, 0, f.users.Calls)
}

func TestLogin_StoreFailure(t *testing.T) {
	f := newAuthFixture()
	f.users.GetByEmailFn = func(context.Context, string) (*domain.User, error) {
		return nil, errors.New("dial tcp 10.0.0.5:5432: connection refused")
	}

	req := httptest.NewRequest(http.MethodPost, "/login",
		strings.NewReader(`{"email":"lee@example.com","password":"pw"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	f.handler.Login(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "10.0.0.5")
	assert.Equal(t, 1, f.counts[LoginError])
}

func TestLogin_MalformedJSON(t *testing.T) {
	f := newAuthFixture()

	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"email":`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	f.handler.Login(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLogout(t *testing.T) {
	f := newAuthFixture()

	rec := httptest.NewRecorder()
	f.handler.Logout(rec, httptest.NewRequest(http.MethodPost, "/logout", nil))

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
	cookie := sessionCookie(t, rec)
	require.NotNil(t, cookie)
	assert.Empty(t, cookie.Value)
	assert.Negative(t, cookie.MaxAge)
}

func TestLoginPage(t *testing.T) {
	f := newAuthFixture()

	rec := httptest.NewRecorder()
	f.handler.LoginPage(rec, httptest.NewRequest(http.MethodGet, "/login", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `action="/login"`)
}
