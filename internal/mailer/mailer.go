// Package mailer wraps outbound SMTP for the birthday rule. The rest of
// the rule engine only ever records mock sends; this is the single spot
// where a real external delivery is attempted.
package mailer

import (
	"context"
	"fmt"

	"github.com/Abbaskay/watch-sense/pkg/config"

	"github.com/wneessen/go-mail"
)

// Mailer is the outbound mail contract the rule engine depends on. A
// send error is a soft failure: the caller records it as a status value
// and carries on.
type Mailer interface {
	// Configured reports whether outbound mail credentials are present.
	// When false, callers must not attempt Send.
	Configured() bool

	// Send delivers a plain-text message. The context bounds the whole
	// dial-and-send exchange.
	Send(ctx context.Context, recipient, subject, body string) error
}

// SMTPMailer sends mail through a single SMTP account.
type SMTPMailer struct {
	client *mail.Client
	sender string
}

// New builds an SMTPMailer from config. Returns an unconfigured mailer
// (nil client) when no username is set, matching the demo behavior of
// running without mail credentials.
func New(cfg *config.MailConfig) (*SMTPMailer, error) {
	if cfg.Username == "" {
		return &SMTPMailer{}, nil
	}

	client, err := mail.NewClient(cfg.Host,
		mail.WithPort(cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(cfg.Username),
		mail.WithPassword(cfg.Password),
		mail.WithTLSPolicy(mail.TLSMandatory),
		mail.WithTimeout(cfg.Timeout),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build smtp client: %w", err)
	}

	return &SMTPMailer{client: client, sender: cfg.Sender}, nil
}

// Configured reports whether the mailer holds usable SMTP credentials.
func (m *SMTPMailer) Configured() bool {
	return m != nil && m.client != nil
}

// Send delivers a plain-text message to a single recipient.
func (m *SMTPMailer) Send(ctx context.Context, recipient, subject, body string) error {
	if !m.Configured() {
		return fmt.Errorf("mailer is not configured")
	}

	msg := mail.NewMsg()
	if err := msg.From(m.sender); err != nil {
		return fmt.Errorf("invalid sender address: %w", err)
	}
	if err := msg.To(recipient); err != nil {
		return fmt.Errorf("invalid recipient address: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, body)

	return m.client.DialAndSendWithContext(ctx, msg)
}
