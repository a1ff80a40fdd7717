package main

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/taskdesk/internal/api"
	apiMiddleware "github.com/phrazzld/taskdesk/internal/api/middleware"
	"github.com/phrazzld/taskdesk/internal/api/shared"
	"github.com/phrazzld/taskdesk/internal/domain"
	"github.com/phrazzld/taskdesk/internal/platform/metrics"
	"github.com/phrazzld/taskdesk/internal/redact"
	"github.com/phrazzld/taskdesk/internal/service/auth"
)

// routerDeps is everything setupRouter mounts.
type routerDeps struct {
	logger     *slog.Logger
	sessions   auth.SessionService
	metrics    *metrics.Recorder
	loginRate  int64
	trustProxy bool
	health     func(ctx context.Context) error

	auth  *api.AuthHandler
	tasks *api.TaskHandler
	users *api.UserHandler
	pages *api.PageHandler
}

// setupRouter creates the router. Page routes redirect unauthorized callers to
// /login; /api routes answer with JSON errors.
func setupRouter(deps *routerDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	// RealIP rewrites RemoteAddr from client-supplied headers, which would let
	// callers pick their own login rate limit key.
	if deps.trustProxy {
		r.Use(middleware.RealIP)
	}
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.NewTraceMiddleware(deps.logger))
	r.Use(deps.metrics.Middleware)

	r.Get("/health", healthHandler(deps))
	r.Method(http.MethodGet, "/metrics", deps.metrics.Handler())

	authMiddleware := apiMiddleware.NewAuthMiddleware(deps.sessions)

	r.Group(func(r chi.Router) {
		r.Use(authMiddleware.Authenticate)

		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			identity := shared.IdentityFromContext(r.Context())
			if identity == nil {
				http.Redirect(w, r, apiMiddleware.LoginPath, http.StatusSeeOther)
				return
			}
			http.Redirect(w, r, api.HomePath(identity.Role), http.StatusSeeOther)
		})

		r.Get("/login", deps.auth.LoginPage)
		r.With(apiMiddleware.NewRateLimit(deps.loginRate)).Post("/login", deps.auth.Login)
		r.Post("/logout", deps.auth.Logout)

		r.Group(func(r chi.Router) {
			r.Use(apiMiddleware.RequireRole(domain.RoleAdmin, apiMiddleware.DenyRedirect))
			r.Get(api.AdminPath, deps.pages.AdminPage)
			r.Post("/admin/tasks", deps.tasks.AssignTaskForm)
		})

		r.Group(func(r chi.Router) {
			r.Use(apiMiddleware.RequireRole(domain.RoleUser, apiMiddleware.DenyRedirect))
			r.Get(api.MyTasksPath, deps.pages.MyTasksPage)
			r.Post("/tasks/status", deps.tasks.UpdateStatusesForm)
		})

		r.Route("/api", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(apiMiddleware.RequireRole(domain.RoleAdmin, apiMiddleware.DenyJSON))
				r.Post("/tasks", deps.tasks.AssignTask)
				r.Get("/tasks", deps.tasks.ListTasks)
				r.Get("/users", deps.users.ListUsers)
			})

			r.Group(func(r chi.Router) {
				r.Use(apiMiddleware.RequireRole(domain.RoleUser, apiMiddleware.DenyJSON))
				r.Get("/tasks/mine", deps.tasks.ListMyTasks)
				r.Post("/tasks/status", deps.tasks.UpdateStatuses)
			})
		})
	})

	return r
}

func healthHandler(deps *routerDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if deps.health != nil {
			if err := deps.health(r.Context()); err != nil {
				deps.logger.Error("health check failed", redact.Attr("error", err))
				http.Error(w, "database unavailable", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			deps.logger.Error("failed to write health check response", slog.String("error", err.Error()))
		}
	}
}
