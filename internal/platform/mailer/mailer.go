package mailer

import (
	"context"
	"log/slog"
	"time"
)

// TaskEmail is the content of one assignment notification.
type TaskEmail struct {
	To            string
	RecipientName string
	Title         string
	Description   string
	Deadline      time.Time
}

// Sender delivers assignment notifications. SendTaskEmail makes exactly one
// delivery attempt and reports whether it succeeded.
type Sender interface {
	SendTaskEmail(ctx context.Context, email TaskEmail) bool
}

// DisabledSender is used when mail delivery is switched off. It reports every
// send as failed so callers surface the missing notification.
type DisabledSender struct {
	logger *slog.Logger
}

// NewDisabledSender creates a DisabledSender.
func NewDisabledSender(logger *slog.Logger) *DisabledSender {
	if logger == nil {
		logger = slog.Default()
	}
	return &DisabledSender{logger: logger.With(slog.String("component", "mailer"))}
}

// SendTaskEmail implements Sender.
func (s *DisabledSender) SendTaskEmail(ctx context.Context, email TaskEmail) bool {
	s.logger.InfoContext(ctx, "mail delivery disabled, notification not sent",
		slog.String("task_title", email.Title))
	return false
}

var _ Sender = (*DisabledSender)(nil)
