package mocks

import (
	"context"

	"github.com/phrazzld/taskdesk/internal/platform/mailer"
)

// MockSender implements mailer.Sender and records every email it is given.
type MockSender struct {
	SendTaskEmailFn func(ctx context.Context, email mailer.TaskEmail) bool

	// Result is returned when SendTaskEmailFn is nil.
	Result bool
	Sent   []mailer.TaskEmail
}

// SendTaskEmail implements mailer.Sender
func (m *MockSender) SendTaskEmail(ctx context.Context, email mailer.TaskEmail) bool {
	m.Sent = append(m.Sent, email)
	if m.SendTaskEmailFn != nil {
		return m.SendTaskEmailFn(ctx, email)
	}
	return m.Result
}

var _ mailer.Sender = (*MockSender)(nil)
