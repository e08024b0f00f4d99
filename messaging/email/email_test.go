package email

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"net/mail"
	"net/smtp"
	"strings"
	"testing"
	"time"

	"github.com/ncobase/shopfront/config"
	"github.com/ncobase/shopfront/logging/logger"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingSender struct {
	calls int
}

func (f *failingSender) Send(context.Context, Message) (string, error) {
	f.calls++
	return "", errors.New("upstream unavailable")
}

func TestVerificationMessage(t *testing.T) {
	msg, err := VerificationMessage("Shop", "bob@example.com", "<b>Bob</b>", "042917", 10*time.Minute)
	require.NoError(t, err)

	assert.Equal(t, "bob@example.com", msg.To)
	assert.Equal(t, SubjectVerifyEmail, msg.Subject)
	assert.Contains(t, msg.Text, "042917")
	assert.Contains(t, msg.Text, "10 minutes")
	assert.Contains(t, msg.HTML, "042917")
	assert.Contains(t, msg.HTML, "&lt;b&gt;Bob&lt;/b&gt;")
	assert.NotContains(t, msg.HTML, "<b>Bob</b>")
}

func TestPasswordResetMessage(t *testing.T) {
	msg, err := PasswordResetMessage("Shop", "bob@example.com", "Bob", "123456", 10*time.Minute)
	require.NoError(t, err)
	assert.Equal(t, SubjectPasswordReset, msg.Subject)
	assert.Contains(t, msg.HTML, "Password Reset")
}

func TestSMTPSenderBuildsMultipart(t *testing.T) {
	s, err := NewSMTPSender(&config.SMTP{Host: "smtp.example.com", Port: 587}, "shop@example.com")
	require.NoError(t, err)

	var (
		gotAddr string
		gotTo   []string
		raw     []byte
	)
	s.sendMail = func(addr string, _ smtp.Auth, _ string, to []string, msg []byte) error {
		gotAddr, gotTo, raw = addr, to, msg
		return nil
	}

	id, err := s.Send(context.Background(), Message{
		To:      "bob@example.com",
		Subject: SubjectVerifyEmail,
		Text:    "code 123456",
		HTML:    "<p>code 123456</p>",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, id)
	assert.Equal(t, "smtp.example.com:587", gotAddr)
	assert.Equal(t, []string{"bob@example.com"}, gotTo)

	parsed, err := mail.ReadMessage(bytes.NewReader(raw))
	require.NoError(t, err)
	assert.Equal(t, SubjectVerifyEmail, parsed.Header.Get("Subject"))

	mediaType, params, err := mime.ParseMediaType(parsed.Header.Get("Content-Type"))
	require.NoError(t, err)
	assert.Equal(t, "multipart/alternative", mediaType)

	mr := multipart.NewReader(parsed.Body, params["boundary"])
	var bodies []string
	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		b, err := io.ReadAll(part)
		require.NoError(t, err)
		bodies = append(bodies, string(b))
	}
	assert.Equal(t, []string{"code 123456", "<p>code 123456</p>"}, bodies)
}

func TestSMTPSenderError(t *testing.T) {
	s, err := NewSMTPSender(&config.SMTP{Host: "smtp.example.com", Port: 25}, "shop@example.com")
	require.NoError(t, err)
	s.sendMail = func(string, smtp.Auth, string, []string, []byte) error {
		return errors.New("connection refused")
	}

	_, err = s.Send(context.Background(), Message{To: "bob@example.com", Text: "x"})
	assert.ErrorContains(t, err, "connection refused")
}

func TestSendGridSenderStatus(t *testing.T) {
	s, err := NewSendGridSender(&config.SendGrid{Key: "SG.key"}, "shop@example.com")
	require.NoError(t, err)

	var subject string
	s.deliver = func(_ context.Context, m *sgmail.SGMailV3) (int, string, error) {
		subject = m.Subject
		return 202, "sg-1", nil
	}
	id, err := s.Send(context.Background(), Message{To: "bob@example.com", Subject: "Hi", Text: "x", HTML: "<p>x</p>"})
	require.NoError(t, err)
	assert.Equal(t, "sg-1", id)
	assert.Equal(t, "Hi", subject)

	s.deliver = func(context.Context, *sgmail.SGMailV3) (int, string, error) {
		return 401, "", nil
	}
	_, err = s.Send(context.Background(), Message{To: "bob@example.com", Text: "x"})
	assert.ErrorContains(t, err, "401")
}

func TestMissingRecipient(t *testing.T) {
	_, err := NewLogSender(nil).Send(context.Background(), Message{Subject: "x"})
	assert.ErrorIs(t, err, ErrNoRecipient)
}

func TestLogSender(t *testing.T) {
	var buf bytes.Buffer
	l := logger.NewWriter(&buf, logrus.InfoLevel)

	id, err := NewLogSender(l).Send(context.Background(), Message{To: "bob@example.com", Subject: "Hi", Text: "code 123456"})
	require.NoError(t, err)
	assert.NotEmpty(t, id)
	assert.True(t, strings.Contains(buf.String(), "bob@example.com"))
}

func TestNewSender(t *testing.T) {
	l := logger.NewWriter(io.Discard, logrus.InfoLevel)

	s, err := NewSender(&config.Email{Provider: "log"}, l)
	require.NoError(t, err)
	assert.IsType(t, &Breaker{}, s)

	_, err = NewSender(&config.Email{Provider: "pigeon"}, l)
	assert.Error(t, err)

	_, err = NewSender(&config.Email{Provider: "mailgun", Mailgun: &config.Mailgun{}}, l)
	assert.Error(t, err)

	_, err = NewSender(&config.Email{
		Provider: "mailgun",
		From:     "shop@example.com",
		Mailgun:  &config.Mailgun{Domain: "mg.example.com", Key: "key"},
	}, l)
	assert.NoError(t, err)
}

func TestBreakerOpensAfterFailures(t *testing.T) {
	next := &failingSender{}
	b := NewBreaker(next, &config.Breaker{
		MaxRequests:  1,
		MinRequests:  3,
		Interval:     time.Minute,
		Timeout:      time.Minute,
		FailureRatio: 0.5,
	}, logger.NewWriter(io.Discard, logrus.InfoLevel))

	for i := 0; i < 3; i++ {
		_, err := b.Send(context.Background(), Message{To: "bob@example.com"})
		assert.Error(t, err)
	}
	assert.Equal(t, gobreaker.StateOpen, b.State())

	_, err := b.Send(context.Background(), Message{To: "bob@example.com"})
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Equal(t, 3, next.calls)
}
