package email

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"mime/quotedprintable"
	"net"
	"net/smtp"
	"net/textproto"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/ncobase/shopfront/config"
)

// SMTPSender implements Sender for a plain SMTP relay
type SMTPSender struct {
	addr     string
	from     string
	auth     smtp.Auth
	sendMail func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// NewSMTPSender creates an SMTP sender.
func NewSMTPSender(cfg *config.SMTP, from string) (*SMTPSender, error) {
	if err := validateSMTPConfig(cfg, from); err != nil {
		return nil, err
	}

	s := &SMTPSender{
		addr:     net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		from:     from,
		sendMail: smtp.SendMail,
	}
	if cfg.Username != "" {
		s.auth = smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	}
	return s, nil
}

// Send implements Sender. net/smtp has no context support, so the context is
// only checked before dialing.
func (s *SMTPSender) Send(ctx context.Context, msg Message) (string, error) {
	if err := checkMessage(msg); err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	id := fmt.Sprintf("<%s@shopfront>", uuid.NewString())
	body, err := buildMIME(s.from, id, msg, time.Now())
	if err != nil {
		return "", fmt.Errorf("smtp: %w", err)
	}

	if err := s.sendMail(s.addr, s.auth, s.from, []string{msg.To}, body); err != nil {
		return "", fmt.Errorf("smtp: %w", err)
	}
	return id, nil
}

// buildMIME renders a multipart/alternative message with text and html
// parts.
func buildMIME(from, id string, msg Message, now time.Time) ([]byte, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	fmt.Fprintf(&buf, "From: %s\r\n", from)
	fmt.Fprintf(&buf, "To: %s\r\n", msg.To)
	fmt.Fprintf(&buf, "Subject: %s\r\n", msg.Subject)
	fmt.Fprintf(&buf, "Message-ID: %s\r\n", id)
	fmt.Fprintf(&buf, "Date: %s\r\n", now.Format(time.RFC1123Z))
	buf.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&buf, "Content-Type: multipart/alternative; boundary=%s\r\n\r\n", mw.Boundary())

	parts := []struct{ contentType, body string }{
		{"text/plain; charset=utf-8", msg.Text},
		{"text/html; charset=utf-8", msg.HTML},
	}
	for _, p := range parts {
		if p.body == "" {
			continue
		}
		w, err := mw.CreatePart(textproto.MIMEHeader{
			"Content-Type":              {p.contentType},
			"Content-Transfer-Encoding": {"quoted-printable"},
		})
		if err != nil {
			return nil, err
		}
		qp := quotedprintable.NewWriter(w)
		if _, err := qp.Write([]byte(p.body)); err != nil {
			return nil, err
		}
		if err := qp.Close(); err != nil {
			return nil, err
		}
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func validateSMTPConfig(cfg *config.SMTP, from string) error {
	if cfg == nil || cfg.Host == "" || cfg.Port == 0 || from == "" {
		return errors.New("invalid SMTP configuration")
	}
	return nil
}
