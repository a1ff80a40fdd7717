package api

import (
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/phrazzld/taskdesk/internal/api/middleware"
	"github.com/phrazzld/taskdesk/internal/api/shared"
	"github.com/phrazzld/taskdesk/internal/platform/logger"
	"github.com/phrazzld/taskdesk/internal/service"
)

// TaskHandler handles task assignment, status updates and task listings.
type TaskHandler struct {
	assignments service.AssignmentService
	statuses    service.StatusService
	queries     service.QueryService
	logger      *slog.Logger
}

// NewTaskHandler creates a new TaskHandler
func NewTaskHandler(
	assignments service.AssignmentService,
	statuses service.StatusService,
	queries service.QueryService,
	logger *slog.Logger,
) *TaskHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for TaskHandler")
	}
	return &TaskHandler{
		assignments: assignments,
		statuses:    statuses,
		queries:     queries,
		logger:      logger.With(slog.String("component", "task_handler")),
	}
}

// AssignTask handles POST /api/tasks.
func (h *TaskHandler) AssignTask(w http.ResponseWriter, r *http.Request) {
	var input service.AssignInput
	if err := shared.DecodeJSON(w, r, &input); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid request format", err)
		return
	}

	result, err := h.assignments.Assign(r.Context(), shared.IdentityFromContext(r.Context()), input)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, assignmentStatusCode(result.Outcome), assignResultToResponse(result))
}

// AssignTaskForm handles POST /admin/tasks from the admin panel and redirects
// back to it with the outcome code.
func (h *TaskHandler) AssignTaskForm(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	if err := shared.ParseForm(w, r); err != nil {
		log.Debug("unreadable assignment form", slog.String("error", err.Error()))
		redirectWithQuery(w, r, AdminPath, url.Values{"result": {string(service.OutcomeMissingFields)}})
		return
	}

	input := service.AssignInput{
		Title:       r.PostFormValue("title"),
		Description: r.PostFormValue("description"),
		AssignedTo:  r.PostFormValue("assigned_to"),
		Deadline:    r.PostFormValue("deadline"),
	}

	result, err := h.assignments.Assign(r.Context(), shared.IdentityFromContext(r.Context()), input)
	if err != nil {
		log.Debug("assignment rejected", slog.String("reason", err.Error()))
		http.Redirect(w, r, middleware.LoginPath, http.StatusSeeOther)
		return
	}

	redirectWithQuery(w, r, AdminPath, url.Values{"result": {string(result.Outcome)}})
}

// UpdateStatusesForm handles POST /tasks/status. The status[<task id>] fields
// are applied and the caller is redirected to their task list with counts.
func (h *TaskHandler) UpdateStatusesForm(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	if err := shared.ParseForm(w, r); err != nil {
		log.Debug("unreadable status form", slog.String("error", err.Error()))
		redirectWithQuery(w, r, MyTasksPath, url.Values{"updated": {"0"}, "failed": {"0"}})
		return
	}

	result, err := h.statuses.UpdateStatuses(r.Context(),
		shared.IdentityFromContext(r.Context()), shared.StatusFormValues(r))
	if err != nil {
		log.Debug("status update rejected", slog.String("reason", err.Error()))
		http.Redirect(w, r, middleware.LoginPath, http.StatusSeeOther)
		return
	}

	redirectWithQuery(w, r, MyTasksPath, url.Values{
		"updated": {strconv.Itoa(result.Updated)},
		"failed":  {strconv.Itoa(result.Failed + result.NotFound)},
	})
}

// UpdateStatuses handles POST /api/tasks/status with a JSON object of task ID
// to status.
func (h *TaskHandler) UpdateStatuses(w http.ResponseWriter, r *http.Request) {
	var updates map[string]string
	if err := shared.DecodeJSON(w, r, &updates); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid request format", err)
		return
	}

	result, err := h.statuses.UpdateStatuses(r.Context(), shared.IdentityFromContext(r.Context()), updates)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, result)
}

// ListTasks handles GET /api/tasks.
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.queries.ListTasks(r.Context(), shared.IdentityFromContext(r.Context()))
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list tasks")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, taskViewsToResponse(tasks))
}

// ListMyTasks handles GET /api/tasks/mine.
func (h *TaskHandler) ListMyTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.queries.ListMyTasks(r.Context(), shared.IdentityFromContext(r.Context()))
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list tasks")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, taskViewsToResponse(tasks))
}

func assignmentStatusCode(outcome service.Outcome) int {
	switch outcome {
	case service.OutcomeSuccess, service.OutcomePartial:
		return http.StatusOK
	case service.OutcomeMissingFields, service.OutcomeInvalidFields:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func redirectWithQuery(w http.ResponseWriter, r *http.Request, path string, query url.Values) {
	http.Redirect(w, r, path+"?"+query.Encode(), http.StatusSeeOther)
}
