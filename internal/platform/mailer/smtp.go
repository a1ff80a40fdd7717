package mailer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"text/template"
	"time"

	gomail "github.com/wneessen/go-mail"

	"github.com/phrazzld/taskdesk/internal/config"
	"github.com/phrazzld/taskdesk/internal/domain"
	"github.com/phrazzld/taskdesk/internal/platform/logger"
	"github.com/phrazzld/taskdesk/internal/redact"
)

const (
	defaultRecipientName = "User"
	sendTimeout          = 15 * time.Second
)

// ErrEmptyRecipient is returned by BuildMessage when the email has no address.
var ErrEmptyRecipient = errors.New("recipient address is empty")

var bodyTemplate = template.Must(template.New("task_email").Parse(`Hello {{.RecipientName}},

You have been assigned a new task.

Title: {{.Title}}
Description: {{.Description}}
Deadline: {{.Deadline}}

Please sign in to update its status.
`))

type bodyData struct {
	RecipientName string
	Title         string
	Description   string
	Deadline      string
}

// deliverer is the part of *gomail.Client the sender uses.
type deliverer interface {
	DialAndSendWithContext(ctx context.Context, messages ...*gomail.Msg) error
}

// SMTPSender sends notifications through a single SMTP relay.
type SMTPSender struct {
	client deliverer
	from   string
	logger *slog.Logger
}

// NewSMTPSender builds an SMTP client from cfg. It fails on malformed settings;
// it does not contact the server.
func NewSMTPSender(cfg config.MailConfig, log *slog.Logger) (*SMTPSender, error) {
	if log == nil {
		log = slog.Default()
	}

	if _, err := mail.ParseAddress(cfg.From); err != nil {
		return nil, fmt.Errorf("invalid mail.from address: %w", err)
	}

	opts := []gomail.Option{
		gomail.WithPort(cfg.Port),
		gomail.WithTimeout(sendTimeout),
		gomail.WithTLSPolicy(tlsPolicy(cfg.TLSPolicy)),
	}
	if cfg.Username != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(cfg.Username),
			gomail.WithPassword(cfg.Password),
		)
	}

	client, err := gomail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create SMTP client: %w", err)
	}

	return newSMTPSender(client, cfg.From, log), nil
}

func newSMTPSender(client deliverer, from string, log *slog.Logger) *SMTPSender {
	return &SMTPSender{
		client: client,
		from:   from,
		logger: log.With(slog.String("component", "mailer")),
	}
}

func tlsPolicy(name string) gomail.TLSPolicy {
	switch name {
	case "opportunistic":
		return gomail.TLSOpportunistic
	case "none":
		return gomail.NoTLS
	default:
		return gomail.TLSMandatory
	}
}

// SendTaskEmail implements Sender. Errors are logged in redacted form and
// reported as false.
func (s *SMTPSender) SendTaskEmail(ctx context.Context, email TaskEmail) bool {
	log := logger.FromContextOrDefault(ctx, s.logger)

	msg, err := BuildMessage(s.from, email)
	if err != nil {
		log.Warn("failed to build task email", redact.Attr("error", err))
		return false
	}

	if err := s.client.DialAndSendWithContext(ctx, msg); err != nil {
		log.Error("failed to send task email",
			redact.Attr("error", err),
			slog.String("task_title", email.Title))
		return false
	}

	log.Info("task email sent", slog.String("task_title", email.Title))
	return true
}

// BuildMessage renders email into a message from the given sender address.
func BuildMessage(from string, email TaskEmail) (*gomail.Msg, error) {
	to := strings.TrimSpace(email.To)
	if to == "" {
		return nil, ErrEmptyRecipient
	}

	name := strings.TrimSpace(email.RecipientName)
	if name == "" {
		name = defaultRecipientName
	}

	msg := gomail.NewMsg()
	if err := msg.From(from); err != nil {
		return nil, fmt.Errorf("invalid sender address: %w", err)
	}
	if err := msg.AddToFormat(name, to); err != nil {
		return nil, fmt.Errorf("invalid recipient address: %w", err)
	}
	msg.Subject("New task assigned: " + email.Title)

	data := bodyData{
		RecipientName: name,
		Title:         email.Title,
		Description:   email.Description,
		Deadline:      email.Deadline.Format(domain.DeadlineLayout),
	}
	if err := msg.SetBodyTextTemplate(bodyTemplate, data); err != nil {
		return nil, fmt.Errorf("failed to render email body: %w", err)
	}

	return msg, nil
}

var _ Sender = (*SMTPSender)(nil)
