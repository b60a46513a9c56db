package export

import (
	"context"
	"fmt"
	"time"

	"github.com/wneessen/go-mail"
)

// AttachmentName is the file name the report carries in the email.
const AttachmentName = "Work Hours"

// Mailer delivers a written report. Subject and body are both the configured
// prefix followed by monthLabel.
type Mailer interface {
	SendReport(ctx context.Context, monthLabel, attachmentPath string) error
}

// SMTPConfig describes the outgoing mail server and the single recipient.
type SMTPConfig struct {
	Host          string
	Port          int
	Username      string
	Password      string
	From          string
	Recipient     string
	SubjectPrefix string
	Timeout       time.Duration
}

// SMTPMailer sends reports through an SMTP relay.
type SMTPMailer struct {
	cfg SMTPConfig
}

func NewSMTPMailer(cfg SMTPConfig) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

// Subject returns the subject (and body) for monthLabel.
func (m *SMTPMailer) Subject(monthLabel string) string {
	return m.cfg.SubjectPrefix + monthLabel
}

// BuildMessage assembles the report email without sending it.
func (m *SMTPMailer) BuildMessage(monthLabel, attachmentPath string) (*mail.Msg, error) {
	msg := mail.NewMsg()
	if err := msg.From(m.cfg.From); err != nil {
		return nil, fmt.Errorf("setting sender %q: %w", m.cfg.From, err)
	}
	if err := msg.To(m.cfg.Recipient); err != nil {
		return nil, fmt.Errorf("setting recipient %q: %w", m.cfg.Recipient, err)
	}
	text := m.Subject(monthLabel)
	msg.Subject(text)
	msg.SetBodyString(mail.TypeTextPlain, text)
	msg.AttachFile(attachmentPath, mail.WithFileName(AttachmentName))
	return msg, nil
}

func (m *SMTPMailer) SendReport(ctx context.Context, monthLabel, attachmentPath string) error {
	msg, err := m.BuildMessage(monthLabel, attachmentPath)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrTransport, err)
	}

	opts := []mail.Option{
		mail.WithPort(m.cfg.Port),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	}
	if m.cfg.Timeout > 0 {
		opts = append(opts, mail.WithTimeout(m.cfg.Timeout))
	}
	if m.cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(m.cfg.Username),
			mail.WithPassword(m.cfg.Password),
		)
	}

	client, err := mail.NewClient(m.cfg.Host, opts...)
	if err != nil {
		return fmt.Errorf("%w: creating smtp client: %w", ErrTransport, err)
	}
	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("%w: sending to %s: %w", ErrTransport, m.cfg.Recipient, err)
	}
	return nil
}
