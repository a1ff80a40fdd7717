package api

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/phrazzld/taskdesk/internal/api/middleware"
	"github.com/phrazzld/taskdesk/internal/api/shared"
	"github.com/phrazzld/taskdesk/internal/domain"
	"github.com/phrazzld/taskdesk/internal/platform/logger"
	"github.com/phrazzld/taskdesk/internal/redact"
	"github.com/phrazzld/taskdesk/internal/service"
)

var outcomeNotices = map[service.Outcome]string{
	service.OutcomeSuccess:          service.MessageSuccess,
	service.OutcomePartial:          service.MessagePartial,
	service.OutcomeMissingFields:    service.MessageMissingFields,
	service.OutcomeInvalidFields:    service.MessageInvalidFields,
	service.OutcomeAssignmentFailed: service.MessageAssignmentFailed,
}

// offeredStatuses are the choices of the status picker.
var offeredStatuses = []domain.TaskStatus{
	domain.TaskStatusPending,
	domain.TaskStatusInProgress,
	domain.TaskStatusDone,
}

// PageHandler renders the HTML pages behind the session cookie.
type PageHandler struct {
	queries service.QueryService
	logger  *slog.Logger
}

// NewPageHandler creates a new PageHandler
func NewPageHandler(queries service.QueryService, logger *slog.Logger) *PageHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for PageHandler")
	}
	return &PageHandler{
		queries: queries,
		logger:  logger.With(slog.String("component", "page_handler")),
	}
}

// AdminPage handles GET /admin: the assignment form and every task.
func (h *PageHandler) AdminPage(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	identity := shared.IdentityFromContext(r.Context())

	users, err := h.queries.ListUsers(r.Context(), identity)
	if err != nil {
		h.pageFailed(w, r, log, err)
		return
	}
	tasks, err := h.queries.ListTasks(r.Context(), identity)
	if err != nil {
		h.pageFailed(w, r, log, err)
		return
	}

	data := adminPageData{Name: identity.Name, Users: users, Tasks: tasks}
	if code := service.Outcome(r.URL.Query().Get("result")); code != "" {
		if notice, ok := outcomeNotices[code]; ok {
			data.Notice = notice
			data.IsError = !code.Saved()
		}
	}
	renderPage(w, r, http.StatusOK, "admin.html", data)
}

// MyTasksPage handles GET /tasks/mine: the caller's tasks with a status
// picker per task.
func (h *PageHandler) MyTasksPage(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	identity := shared.IdentityFromContext(r.Context())

	tasks, err := h.queries.ListMyTasks(r.Context(), identity)
	if err != nil {
		h.pageFailed(w, r, log, err)
		return
	}

	q := r.URL.Query()
	renderPage(w, r, http.StatusOK, "my_tasks.html", myTasksPageData{
		Name:     identity.Name,
		Tasks:    tasks,
		Statuses: offeredStatuses,
		Updated:  countParam(q.Get("updated")),
		Failed:   countParam(q.Get("failed")),
	})
}

func (h *PageHandler) pageFailed(w http.ResponseWriter, r *http.Request, log *slog.Logger, err error) {
	if status := MapErrorToStatusCode(err); status == http.StatusUnauthorized || status == http.StatusForbidden {
		http.Redirect(w, r, middleware.LoginPath, http.StatusSeeOther)
		return
	}
	log.Error("failed to load page data", slog.String("path", r.URL.Path), redact.Attr("error", err))
	http.Error(w, "An unexpected error occurred", http.StatusInternalServerError)
}

// countParam echoes a non-negative integer query value and drops anything else.
func countParam(v string) string {
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return ""
	}
	return strconv.Itoa(n)
}
