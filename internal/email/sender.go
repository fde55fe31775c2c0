// Package email delivers rendered HTML messages through the configured provider.
// Content is built by the caller; this package only knows about envelopes.
package email

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"photo_portal_backend/platform/config"
	"photo_portal_backend/platform/logger"
)

// Providers selectable through EMAIL_PROVIDER.
const (
	ProviderBrevo    = "brevo"
	ProviderSendGrid = "sendgrid"
	ProviderSES      = "ses"
	ProviderSMTP     = "smtp"
)

// ErrNoRecipient is returned when a message has no To address.
var ErrNoRecipient = errors.New("email: message has no recipient")

// Message is one outbound email. Subject and names must already be single-line.
type Message struct {
	To      string
	ToName  string
	ReplyTo string
	Subject string
	HTML    string
}

func (m Message) validate() error {
	if strings.TrimSpace(m.To) == "" {
		return ErrNoRecipient
	}
	return nil
}

// Sender delivers a message. Implementations must be safe for concurrent use.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// NoopSender drops messages. It is used when email is disabled.
type NoopSender struct {
	log *logger.Logger
}

func NewNoopSender(log *logger.Logger) NoopSender {
	if log == nil {
		log = logger.Discard()
	}
	return NoopSender{log: log}
}

func (s NoopSender) Send(ctx context.Context, msg Message) error {
	if s.log != nil {
		s.log.WithContext(ctx).Debug("email disabled, message dropped", "to", msg.To, "subject", msg.Subject)
	}
	return nil
}

// NewSender builds the sender selected by cfg.
func NewSender(ctx context.Context, cfg config.EmailConfig, log *logger.Logger) (Sender, error) {
	if !cfg.GetEmailEnabled() {
		return NewNoopSender(log), nil
	}

	from := Address{Name: cfg.GetEmailFromName(), Email: cfg.GetEmailFromAddress()}
	switch cfg.GetEmailProvider() {
	case ProviderBrevo:
		return NewBrevoSender(cfg.GetBrevoAPIKey(), from), nil
	case ProviderSendGrid:
		return NewSendGridSender(cfg.GetSendGridAPIKey(), from), nil
	case ProviderSES:
		return NewSESSenderFromRegion(ctx, cfg.GetSESRegion(), from)
	case ProviderSMTP:
		return NewSMTPSender(SMTPOptions{
			Host:     cfg.GetSMTPHost(),
			Port:     cfg.GetSMTPPort(),
			Username: cfg.GetSMTPUsername(),
			Password: cfg.GetSMTPPassword(),
		}, from), nil
	default:
		return nil, fmt.Errorf("email: unsupported provider %q", cfg.GetEmailProvider())
	}
}

// Address is a display name and mailbox.
type Address struct {
	Name  string
	Email string
}
