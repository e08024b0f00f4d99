package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Email email config struct
type Email struct {
	Provider string
	From     string
	Mailgun  *Mailgun
	SendGrid *SendGrid
	SMTP     *SMTP
	Breaker  *Breaker
}

// Mailgun mailgun config struct
type Mailgun struct {
	Domain  string
	Key     string
	APIBase string
}

// SendGrid sendgrid config struct
type SendGrid struct {
	Key string
}

// SMTP smtp config struct
type SMTP struct {
	Host     string
	Port     int
	Username string
	Password string
}

// Breaker circuit breaker config struct
type Breaker struct {
	MaxRequests  uint32
	MinRequests  uint32
	Interval     time.Duration
	Timeout      time.Duration
	FailureRatio float64
}

// validate rejects the log provider in release mode, where codes must reach
// the user.
func (e *Email) validate(release bool) []error {
	switch e.Provider {
	case "", "log":
		if release {
			return []error{errors.New("email.provider must deliver mail in release mode, log is for development")}
		}
	case "mailgun", "sendgrid", "smtp":
	default:
		return []error{fmt.Errorf("email.provider %q is invalid", e.Provider)}
	}
	return nil
}

// getEmailConfig returns the email configuration
func getEmailConfig(v *viper.Viper) *Email {
	return &Email{
		Provider: v.GetString("email.provider"),
		From:     v.GetString("email.from"),
		Mailgun: &Mailgun{
			Domain:  v.GetString("email.mailgun.domain"),
			Key:     v.GetString("email.mailgun.key"),
			APIBase: v.GetString("email.mailgun.api_base"),
		},
		SendGrid: &SendGrid{
			Key: v.GetString("email.sendgrid.key"),
		},
		SMTP: &SMTP{
			Host:     v.GetString("email.smtp.host"),
			Port:     getIntOrDefault(v, "email.smtp.port", 587),
			Username: v.GetString("email.smtp.username"),
			Password: v.GetString("email.smtp.password"),
		},
		Breaker: &Breaker{
			MaxRequests:  getUint32OrDefault(v, "email.breaker.max_requests", 1),
			MinRequests:  getUint32OrDefault(v, "email.breaker.min_requests", 3),
			Interval:     getDurationOrDefault(v, "email.breaker.interval", time.Minute),
			Timeout:      getDurationOrDefault(v, "email.breaker.timeout", 30*time.Second),
			FailureRatio: getFloat64OrDefault(v, "email.breaker.failure_ratio", 0.6),
		},
	}
}
