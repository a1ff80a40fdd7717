package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/taskdesk/internal/api/shared"
	"github.com/phrazzld/taskdesk/internal/service"
)

// UserHandler serves the user directory to admins.
type UserHandler struct {
	queries service.QueryService
	logger  *slog.Logger
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(queries service.QueryService, logger *slog.Logger) *UserHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for UserHandler")
	}
	return &UserHandler{
		queries: queries,
		logger:  logger.With(slog.String("component", "user_handler")),
	}
}

// ListUsers handles GET /api/users.
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.queries.ListUsers(r.Context(), shared.IdentityFromContext(r.Context()))
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list users")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, usersToResponse(users))
}
