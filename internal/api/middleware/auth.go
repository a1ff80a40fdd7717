package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/phrazzld/taskdesk/internal/api/shared"
	"github.com/phrazzld/taskdesk/internal/domain"
	"github.com/phrazzld/taskdesk/internal/platform/logger"
	"github.com/phrazzld/taskdesk/internal/service/auth"
)

// LoginPath is where page routes send callers without a suitable session.
const LoginPath = "/login"

// UnauthorizedMessage is the body message of every JSON authorization denial.
const UnauthorizedMessage = "Unauthorized"

// DenyMode selects how RequireRole answers a caller without the required role.
type DenyMode int

const (
	// DenyJSON answers 401 or 403 with a JSON error body.
	DenyJSON DenyMode = iota
	// DenyRedirect answers 303 See Other to LoginPath.
	DenyRedirect
)

// AuthMiddleware resolves session tokens into request identities.
type AuthMiddleware struct {
	sessions auth.SessionService
}

// NewAuthMiddleware creates a new AuthMiddleware with the given dependencies.
func NewAuthMiddleware(sessions auth.SessionService) *AuthMiddleware {
	return &AuthMiddleware{sessions: sessions}
}

// Authenticate attaches the caller's identity to the request context when a
// valid session token is present. It never rejects; RequireRole does.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := SessionToken(r)
		if token == "" {
			next.ServeHTTP(w, r)
			return
		}

		identity, err := m.sessions.ValidateSession(r.Context(), token)
		if err != nil {
			log := logger.FromContext(r.Context())
			if errors.Is(err, auth.ErrExpiredToken) || errors.Is(err, auth.ErrInvalidToken) {
				log.Debug("ignoring unusable session token", slog.String("reason", err.Error()))
			} else {
				log.Error("failed to validate session token", slog.String("error", err.Error()))
			}
			next.ServeHTTP(w, r)
			return
		}

		next.ServeHTTP(w, r.WithContext(shared.WithIdentity(r.Context(), identity)))
	})
}

// RequireRole only lets callers holding role reach the wrapped handler.
func RequireRole(role domain.Role, mode DenyMode) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity := shared.IdentityFromContext(r.Context())
			err := identity.Require(role)
			if err == nil {
				next.ServeHTTP(w, r)
				return
			}

			logger.FromContext(r.Context()).Debug("request denied by role gate",
				slog.String("required_role", role.String()),
				slog.String("path", r.URL.Path),
				slog.String("reason", err.Error()))

			if mode == DenyRedirect {
				http.Redirect(w, r, LoginPath, http.StatusSeeOther)
				return
			}

			status := http.StatusForbidden
			if errors.Is(err, domain.ErrUnauthenticated) {
				status = http.StatusUnauthorized
			}
			shared.RespondWithError(w, r, status, UnauthorizedMessage)
		})
	}
}

// SessionToken returns the bearer token of the request, falling back to the
// session cookie. It returns "" when neither is present.
func SessionToken(r *http.Request) string {
	if header := r.Header.Get("Authorization"); header != "" {
		scheme, token, ok := strings.Cut(header, " ")
		if ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}
		return ""
	}
	if cookie, err := r.Cookie(auth.SessionCookieName); err == nil {
		return cookie.Value
	}
	return ""
}
