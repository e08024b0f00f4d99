// Package email delivers transactional mail through a configured provider.
//
// Supported providers are mailgun, sendgrid, smtp and log. The log provider
// only writes messages to the process logger and is meant for development.
// Every provider is wrapped in a circuit breaker.
package email

import (
	"context"
	"errors"
	"fmt"

	"github.com/ncobase/shopfront/config"
	"github.com/ncobase/shopfront/logging/logger"
)

// Message is one outbound email.
type Message struct {
	To      string
	Subject string
	Text    string
	HTML    string
}

// Sender delivers messages and returns the provider's message reference.
type Sender interface {
	Send(ctx context.Context, msg Message) (string, error)
}

// ErrNoRecipient is returned for messages without a recipient.
var ErrNoRecipient = errors.New("email: message has no recipient")

// NewSender builds the configured provider wrapped in a circuit breaker.
func NewSender(cfg *config.Email, l *logger.Logger) (Sender, error) {
	if cfg == nil {
		return nil, errors.New("email: missing configuration")
	}

	var (
		sender Sender
		err    error
	)
	switch cfg.Provider {
	case "mailgun":
		sender, err = NewMailgunSender(cfg.Mailgun, cfg.From)
	case "sendgrid":
		sender, err = NewSendGridSender(cfg.SendGrid, cfg.From)
	case "smtp":
		sender, err = NewSMTPSender(cfg.SMTP, cfg.From)
	case "log", "":
		sender = NewLogSender(l)
	default:
		return nil, fmt.Errorf("email: unknown provider %q", cfg.Provider)
	}
	if err != nil {
		return nil, err
	}

	return NewBreaker(sender, cfg.Breaker, l), nil
}

func checkMessage(msg Message) error {
	if msg.To == "" {
		return ErrNoRecipient
	}
	return nil
}
