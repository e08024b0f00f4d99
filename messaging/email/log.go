package email

import (
	"context"

	"github.com/google/uuid"
	"github.com/ncobase/shopfront/logging/logger"
)

// LogSender writes messages to the logger instead of delivering them.
type LogSender struct {
	logger *logger.Logger
}

// NewLogSender creates a development sender.
func NewLogSender(l *logger.Logger) *LogSender {
	if l == nil {
		l = logger.StdLogger()
	}
	return &LogSender{logger: l}
}

// Send implements Sender. The body is logged unmasked so codes can be read
// in development.
func (s *LogSender) Send(ctx context.Context, msg Message) (string, error) {
	if err := checkMessage(msg); err != nil {
		return "", err
	}
	id := uuid.NewString()
	s.logger.Info(ctx, "email not delivered, log provider in use",
		"message_id", id,
		"to", msg.To,
		"subject", msg.Subject,
		"body", msg.Text,
	)
	return id, nil
}
