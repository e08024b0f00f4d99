package email

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/ncobase/shopfront/config"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// SendGridSender implements Sender for SendGrid
type SendGridSender struct {
	from string
	// deliver returns the status code and the message id header.
	deliver func(ctx context.Context, m *mail.SGMailV3) (int, string, error)
}

// NewSendGridSender creates a SendGrid sender.
func NewSendGridSender(cfg *config.SendGrid, from string) (*SendGridSender, error) {
	if err := validateSendGridConfig(cfg, from); err != nil {
		return nil, err
	}

	client := sendgrid.NewSendClient(cfg.Key)
	return &SendGridSender{
		from: from,
		deliver: func(ctx context.Context, m *mail.SGMailV3) (int, string, error) {
			response, err := client.SendWithContext(ctx, m)
			if err != nil {
				return 0, "", err
			}
			var id string
			if ids := response.Headers["X-Message-Id"]; len(ids) > 0 {
				id = ids[0]
			}
			return response.StatusCode, id, nil
		},
	}, nil
}

// Send implements Sender.
func (s *SendGridSender) Send(ctx context.Context, msg Message) (string, error) {
	if err := checkMessage(msg); err != nil {
		return "", err
	}

	message := mail.NewSingleEmail(
		mail.NewEmail("", s.from),
		msg.Subject,
		mail.NewEmail("", msg.To),
		msg.Text,
		msg.HTML,
	)

	status, id, err := s.deliver(ctx, message)
	if err != nil {
		return "", fmt.Errorf("sendgrid: %w", err)
	}
	if status != http.StatusAccepted {
		return "", fmt.Errorf("sendgrid: unexpected status code %d", status)
	}
	return id, nil
}

func validateSendGridConfig(cfg *config.SendGrid, from string) error {
	if cfg == nil || cfg.Key == "" || from == "" {
		return errors.New("invalid SendGrid configuration")
	}
	return nil
}
