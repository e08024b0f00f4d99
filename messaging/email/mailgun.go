package email

import (
	"context"
	"errors"
	"fmt"

	"github.com/mailgun/mailgun-go/v4"
	"github.com/ncobase/shopfront/config"
)

// MailgunSender implements Sender for Mailgun
type MailgunSender struct {
	mg      *mailgun.MailgunImpl
	from    string
	deliver func(ctx context.Context, m *mailgun.Message) (string, error)
}

// NewMailgunSender creates a Mailgun sender.
func NewMailgunSender(cfg *config.Mailgun, from string) (*MailgunSender, error) {
	if err := validateMailgunConfig(cfg, from); err != nil {
		return nil, err
	}

	mg := mailgun.NewMailgun(cfg.Domain, cfg.Key)
	if cfg.APIBase != "" {
		mg.SetAPIBase(cfg.APIBase)
	}

	s := &MailgunSender{mg: mg, from: from}
	s.deliver = func(ctx context.Context, m *mailgun.Message) (string, error) {
		_, id, err := mg.Send(ctx, m)
		return id, err
	}
	return s, nil
}

// Send implements Sender.
func (s *MailgunSender) Send(ctx context.Context, msg Message) (string, error) {
	if err := checkMessage(msg); err != nil {
		return "", err
	}

	m := s.mg.NewMessage(s.from, msg.Subject, msg.Text, msg.To)
	if msg.HTML != "" {
		m.SetHtml(msg.HTML)
	}

	id, err := s.deliver(ctx, m)
	if err != nil {
		return "", fmt.Errorf("mailgun: %w", err)
	}
	return id, nil
}

func validateMailgunConfig(cfg *config.Mailgun, from string) error {
	if cfg == nil || cfg.Key == "" || cfg.Domain == "" || from == "" {
		return errors.New("invalid Mailgun configuration")
	}
	return nil
}
