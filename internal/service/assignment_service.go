package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/phrazzld/taskdesk/internal/domain"
	"github.com/phrazzld/taskdesk/internal/platform/logger"
	"github.com/phrazzld/taskdesk/internal/platform/mailer"
	"github.com/phrazzld/taskdesk/internal/redact"
	"github.com/phrazzld/taskdesk/internal/store"
)

// Outcome is the result class of an assignment.
type Outcome string

// Assignment outcomes.
const (
	OutcomeSuccess          Outcome = "success"
	OutcomePartial          Outcome = "partial"
	OutcomeMissingFields    Outcome = "missing_fields"
	OutcomeInvalidFields    Outcome = "invalid_fields"
	OutcomeAssignmentFailed Outcome = "assignment_failed"
)

// Outcome messages shown to the admin.
const (
	MessageSuccess          = "Task assigned and email sent"
	MessagePartial          = "Task assigned but email failed"
	MessageMissingFields    = "Missing required fields"
	MessageInvalidFields    = "Invalid task fields"
	MessageAssignmentFailed = "Task assignment failed"
)

// WireStatus collapses the outcome into the three-valued status used in responses.
func (o Outcome) WireStatus() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomePartial:
		return "partial"
	default:
		return "error"
	}
}

// Saved reports whether the task was persisted.
func (o Outcome) Saved() bool {
	return o == OutcomeSuccess || o == OutcomePartial
}

// AssignInput is the raw assignment form. Values are trimmed before validation.
type AssignInput struct {
	Title       string `json:"title" validate:"required,max=255"`
	Description string `json:"description" validate:"required"`
	AssignedTo  string `json:"assigned_to" validate:"required,uuid"`
	Deadline    string `json:"deadline" validate:"required,datetime=2006-01-02"`
}

func (in AssignInput) trimmed() AssignInput {
	return AssignInput{
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		AssignedTo:  strings.TrimSpace(in.AssignedTo),
		Deadline:    strings.TrimSpace(in.Deadline),
	}
}

// AssignmentResult describes a finished assignment. Task is set when the
// outcome is success or partial.
type AssignmentResult struct {
	Outcome Outcome
	Message string
	// Fields lists the offending inputs for missing_fields and invalid_fields.
	Fields []string
	Task   *domain.Task
}

// AssignmentService creates tasks and notifies their assignees.
type AssignmentService interface {
	// Assign validates input, stores the task and emails the assignee.
	// It returns an error only when identity is not an admin; every other
	// result, including failures, is reported in AssignmentResult.
	Assign(ctx context.Context, identity *domain.Identity, input AssignInput) (AssignmentResult, error)
}

type assignmentServiceImpl struct {
	tx        store.Transactor
	tasks     store.TaskStore
	users     store.UserStore
	sender    mailer.Sender
	metrics   Metrics
	validator *validator.Validate
	logger    *slog.Logger
}

// NewAssignmentService creates an AssignmentService.
// It returns an error if any of the required dependencies are nil.
func NewAssignmentService(
	tx store.Transactor,
	tasks store.TaskStore,
	users store.UserStore,
	sender mailer.Sender,
	metrics Metrics,
	logger *slog.Logger,
) (AssignmentService, error) {
	if tx == nil {
		return nil, domain.NewValidationError("tx", "cannot be nil", ErrNilDependency)
	}
	if tasks == nil {
		return nil, domain.NewValidationError("tasks", "cannot be nil", ErrNilDependency)
	}
	if users == nil {
		return nil, domain.NewValidationError("users", "cannot be nil", ErrNilDependency)
	}
	if sender == nil {
		return nil, domain.NewValidationError("sender", "cannot be nil", ErrNilDependency)
	}
	if metrics == nil {
		metrics = noopMetrics{}
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &assignmentServiceImpl{
		tx:        tx,
		tasks:     tasks,
		users:     users,
		sender:    sender,
		metrics:   metrics,
		validator: validator.New(),
		logger:    logger.With(slog.String("component", "assignment_service")),
	}, nil
}

// Assign implements AssignmentService.Assign
func (s *assignmentServiceImpl) Assign(
	ctx context.Context,
	identity *domain.Identity,
	input AssignInput,
) (AssignmentResult, error) {
	if err := identity.Require(domain.RoleAdmin); err != nil {
		return AssignmentResult{}, err
	}

	log := logger.FromContextOrDefault(ctx, s.logger).With(
		slog.String("admin_id", identity.UserID.String()))

	result := s.assign(ctx, log, input)
	s.metrics.AssignmentOutcome(string(result.Outcome))

	attrs := []any{slog.String("outcome", string(result.Outcome))}
	if result.Task != nil {
		attrs = append(attrs,
			slog.String("task_id", result.Task.ID.String()),
			slog.String("assigned_to", result.Task.AssignedTo.String()))
	}
	log.Info("task assignment finished", attrs...)

	return result, nil
}

func (s *assignmentServiceImpl) assign(ctx context.Context, log *slog.Logger, input AssignInput) AssignmentResult {
	input = input.trimmed()

	// validating
	if outcome, fields := s.validate(input); outcome != "" {
		log.Debug("assignment rejected", slog.String("outcome", string(outcome)), slog.Any("fields", fields))
		return newResult(outcome, nil, fields...)
	}

	assignee, err := uuid.Parse(input.AssignedTo)
	if err != nil {
		return newResult(OutcomeInvalidFields, nil, "assigned_to")
	}
	deadline, err := domain.ParseDeadline(input.Deadline)
	if err != nil {
		return newResult(OutcomeInvalidFields, nil, "deadline")
	}

	task, err := domain.NewTask(input.Title, input.Description, assignee, deadline)
	if err != nil {
		log.Warn("task construction failed", slog.String("error", err.Error()))
		return newResult(OutcomeInvalidFields, nil)
	}

	// persisting: only the task write is transactional.
	err = s.tx.WithinTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		return s.tasks.WithTx(tx).Create(ctx, task)
	})
	if err != nil {
		log.Error("failed to persist task", redact.Attr("error", err))
		return newResult(OutcomeAssignmentFailed, nil)
	}

	// notifying: the task is committed, so lookup faults only cost the email.
	user, err := s.users.GetByID(ctx, task.AssignedTo)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			log.Warn("assignee not found after task creation",
				slog.String("assigned_to", task.AssignedTo.String()))
		} else {
			log.Error("failed to look up assignee", redact.Attr("error", err))
		}
		s.metrics.Notification(false)
		return newResult(OutcomePartial, task)
	}
	if user == nil || strings.TrimSpace(user.Email) == "" {
		log.Warn("assignee has no email address",
			slog.String("assigned_to", task.AssignedTo.String()))
		s.metrics.Notification(false)
		return newResult(OutcomePartial, task)
	}

	sent := s.sender.SendTaskEmail(ctx, mailer.TaskEmail{
		To:            user.Email,
		RecipientName: user.Name,
		Title:         task.Title,
		Description:   task.Description,
		Deadline:      task.Deadline,
	})
	s.metrics.Notification(sent)
	if !sent {
		return newResult(OutcomePartial, task)
	}
	return newResult(OutcomeSuccess, task)
}

// validate classifies input problems. Any missing field wins over malformed ones.
func (s *assignmentServiceImpl) validate(input AssignInput) (Outcome, []string) {
	err := s.validator.Struct(input)
	if err == nil {
		return "", nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return OutcomeInvalidFields, nil
	}

	var missing, invalid []string
	for _, fe := range verrs {
		name := jsonFieldName(fe.Field())
		if fe.Tag() == "required" {
			missing = append(missing, name)
		} else {
			invalid = append(invalid, name)
		}
	}
	if len(missing) > 0 {
		return OutcomeMissingFields, missing
	}
	return OutcomeInvalidFields, invalid
}

func jsonFieldName(field string) string {
	switch field {
	case "AssignedTo":
		return "assigned_to"
	default:
		return strings.ToLower(field)
	}
}

func newResult(outcome Outcome, task *domain.Task, fields ...string) AssignmentResult {
	var msg string
	switch outcome {
	case OutcomeSuccess:
		msg = MessageSuccess
	case OutcomePartial:
		msg = MessagePartial
	case OutcomeMissingFields:
		msg = MessageMissingFields
	case OutcomeInvalidFields:
		msg = MessageInvalidFields
	default:
		msg = MessageAssignmentFailed
	}
	return AssignmentResult{Outcome: outcome, Message: msg, Fields: fields, Task: task}
}
