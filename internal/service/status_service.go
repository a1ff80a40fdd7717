package service

import (
	"context"
	"log/slog"
	"maps"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/phrazzld/taskdesk/internal/domain"
	"github.com/phrazzld/taskdesk/internal/platform/logger"
	"github.com/phrazzld/taskdesk/internal/redact"
	"github.com/phrazzld/taskdesk/internal/store"
)

// StatusItemResult is what happened to one entry of a status batch.
type StatusItemResult string

// Per-item results.
const (
	StatusUpdated  StatusItemResult = "updated"
	StatusSkipped  StatusItemResult = "skipped"
	StatusFailed   StatusItemResult = "failed"
	StatusNotFound StatusItemResult = "not_found"
)

// StatusItem is the result for one submitted task.
type StatusItem struct {
	TaskID string           `json:"task_id"`
	Status string           `json:"status,omitempty"`
	Result StatusItemResult `json:"result"`
}

// StatusBatchResult summarises a status batch.
type StatusBatchResult struct {
	Items    []StatusItem `json:"items"`
	Updated  int          `json:"updated"`
	Skipped  int          `json:"skipped"`
	Failed   int          `json:"failed"`
	NotFound int          `json:"not_found"`
}

func (r *StatusBatchResult) add(item StatusItem) {
	r.Items = append(r.Items, item)
	switch item.Result {
	case StatusUpdated:
		r.Updated++
	case StatusSkipped:
		r.Skipped++
	case StatusNotFound:
		r.NotFound++
	default:
		r.Failed++
	}
}

// StatusService applies status changes submitted by assignees.
type StatusService interface {
	// UpdateStatuses writes each non-empty status in updates, keyed by task ID.
	// Empty values are skipped and individual failures never stop the batch.
	// It returns an error only when identity is not a user.
	UpdateStatuses(ctx context.Context, identity *domain.Identity, updates map[string]string) (StatusBatchResult, error)
}

type statusServiceImpl struct {
	tasks   store.TaskStore
	metrics Metrics
	logger  *slog.Logger
}

// NewStatusService creates a StatusService.
func NewStatusService(tasks store.TaskStore, metrics Metrics, logger *slog.Logger) (StatusService, error) {
	if tasks == nil {
		return nil, domain.NewValidationError("tasks", "cannot be nil", ErrNilDependency)
	}
	if metrics == nil {
		metrics = noopMetrics{}
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &statusServiceImpl{
		tasks:   tasks,
		metrics: metrics,
		logger:  logger.With(slog.String("component", "status_service")),
	}, nil
}

// UpdateStatuses implements StatusService.UpdateStatuses
func (s *statusServiceImpl) UpdateStatuses(
	ctx context.Context,
	identity *domain.Identity,
	updates map[string]string,
) (StatusBatchResult, error) {
	if err := identity.Require(domain.RoleUser); err != nil {
		return StatusBatchResult{}, err
	}

	log := logger.FromContextOrDefault(ctx, s.logger).With(
		slog.String("user_id", identity.UserID.String()))

	result := StatusBatchResult{Items: make([]StatusItem, 0, len(updates))}
	for _, key := range slices.Sorted(maps.Keys(updates)) {
		item := s.updateOne(ctx, log, key, updates[key])
		s.metrics.StatusWrite(string(item.Result))
		result.add(item)
	}

	log.Info("status batch processed",
		slog.Int("submitted", len(updates)),
		slog.Int("updated", result.Updated),
		slog.Int("skipped", result.Skipped),
		slog.Int("failed", result.Failed),
		slog.Int("not_found", result.NotFound))

	return result, nil
}

func (s *statusServiceImpl) updateOne(ctx context.Context, log *slog.Logger, rawID, rawStatus string) StatusItem {
	item := StatusItem{TaskID: strings.TrimSpace(rawID)}

	if strings.TrimSpace(rawStatus) == "" {
		item.Result = StatusSkipped
		return item
	}

	status, err := domain.ParseTaskStatus(rawStatus)
	if err != nil {
		log.Warn("rejected status value", slog.String("task_id", item.TaskID))
		item.Result = StatusFailed
		return item
	}
	item.Status = string(status)

	id, err := uuid.Parse(item.TaskID)
	if err != nil {
		log.Warn("rejected task id", slog.String("task_id", item.TaskID))
		item.Result = StatusFailed
		return item
	}

	updated, err := s.tasks.UpdateStatus(ctx, id, status)
	switch {
	case err != nil:
		log.Error("failed to update task status",
			slog.String("task_id", item.TaskID),
			redact.Attr("error", err))
		item.Result = StatusFailed
	case !updated:
		item.Result = StatusNotFound
	default:
		item.Result = StatusUpdated
	}
	return item
}
