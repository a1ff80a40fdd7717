package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/phrazzld/taskdesk/internal/api/middleware"
	"github.com/phrazzld/taskdesk/internal/api/shared"
	"github.com/phrazzld/taskdesk/internal/domain"
	"github.com/phrazzld/taskdesk/internal/platform/logger"
	"github.com/phrazzld/taskdesk/internal/service/auth"
	"github.com/phrazzld/taskdesk/internal/store"
)

// Login results recorded by LoginRecorder.
const (
	LoginSuccess = "success"
	LoginInvalid = "invalid"
	LoginError   = "error"
)

const invalidCredentialsMessage = "Invalid credentials"

// LoginRecorder counts login attempts. *metrics.Recorder satisfies it.
type LoginRecorder interface {
	Login(result string)
}

type noopLoginRecorder struct{}

func (noopLoginRecorder) Login(string) {}

// AuthHandler handles login and logout.
type AuthHandler struct {
	userStore        store.UserStore
	sessions         auth.SessionService
	passwordVerifier auth.PasswordVerifier
	metrics          LoginRecorder
	cookieSecure     bool
	logger           *slog.Logger
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
// A nil recorder disables login metrics.
func NewAuthHandler(
	userStore store.UserStore,
	sessions auth.SessionService,
	passwordVerifier auth.PasswordVerifier,
	recorder LoginRecorder,
	cookieSecure bool,
	logger *slog.Logger,
) *AuthHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for AuthHandler")
	}
	if recorder == nil {
		recorder = noopLoginRecorder{}
	}
	return &AuthHandler{
		userStore:        userStore,
		sessions:         sessions,
		passwordVerifier: passwordVerifier,
		metrics:          recorder,
		cookieSecure:     cookieSecure,
		logger:           logger.With(slog.String("component", "auth_handler")),
	}
}

// LoginPage handles GET /login.
func (h *AuthHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	renderPage(w, r, http.StatusOK, "login.html", loginPageData{})
}

// Login handles POST /login. JSON clients get a LoginResponse; form clients
// are redirected to the page for their role.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	jsonClient := shared.IsJSONRequest(r)

	var req LoginRequest
	if jsonClient {
		if err := shared.DecodeJSON(w, r, &req); err != nil {
			shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid request format", err)
			return
		}
	} else {
		if err := shared.ParseForm(w, r); err != nil {
			h.loginFailed(w, r, http.StatusBadRequest, "Invalid request format")
			return
		}
		req.Email = r.PostFormValue("email")
		req.Password = r.PostFormValue("password")
	}
	req.Email = strings.TrimSpace(req.Email)

	if err := shared.ValidateRequest(req); err != nil {
		h.metrics.Login(LoginInvalid)
		h.loginFailed(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	user, err := h.userStore.GetByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			h.metrics.Login(LoginInvalid)
			h.loginFailed(w, r, http.StatusUnauthorized, invalidCredentialsMessage)
			return
		}
		h.metrics.Login(LoginError)
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Failed to authenticate user", err)
		return
	}

	if err := h.passwordVerifier.Compare(user.HashedPassword, req.Password); err != nil {
		h.metrics.Login(LoginInvalid)
		log.Debug("password mismatch", slog.String("user_id", user.ID.String()))
		h.loginFailed(w, r, http.StatusUnauthorized, invalidCredentialsMessage)
		return
	}

	session, err := h.sessions.IssueSession(r.Context(), user)
	if err != nil {
		h.metrics.Login(LoginError)
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Failed to start session", err)
		return
	}

	h.metrics.Login(LoginSuccess)
	http.SetCookie(w, h.sessionCookie(session))
	log.Info("user logged in",
		slog.String("user_id", user.ID.String()),
		slog.String("role", user.Role.String()))

	if jsonClient {
		shared.RespondWithJSON(w, r, http.StatusOK, LoginResponse{
			UserID:    user.ID,
			Name:      user.Name,
			Role:      user.Role.String(),
			Token:     session.Token,
			ExpiresAt: session.ExpiresAt.Format(time.RFC3339),
		})
		return
	}
	http.Redirect(w, r, HomePath(user.Role), http.StatusSeeOther)
}

// Logout handles POST /logout. It clears the session cookie and redirects to
// the login page.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, middleware.LoginPath, http.StatusSeeOther)
}

func (h *AuthHandler) sessionCookie(session auth.Session) *http.Cookie {
	return &http.Cookie{
		Name:     auth.SessionCookieName,
		Value:    session.Token,
		Path:     "/",
		Expires:  session.ExpiresAt,
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	}
}

// loginFailed answers JSON clients with an error body and form clients with
// the login page showing message.
func (h *AuthHandler) loginFailed(w http.ResponseWriter, r *http.Request, status int, message string) {
	if shared.WantsJSON(r) {
		shared.RespondWithErrorAndLog(w, r, status, message, nil, shared.WithElevatedLogLevel())
		return
	}
	renderPage(w, r, status, "login.html", loginPageData{Error: message})
}

// HomePath is the landing page for role.
func HomePath(role domain.Role) string {
	if role == domain.RoleAdmin {
		return AdminPath
	}
	return MyTasksPath
}
