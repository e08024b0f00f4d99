// Package vcode issues and checks the short numeric codes used for email
// verification and password reset.
package vcode

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/ncobase/shopfront/structs"
)

const digits = "0123456789"

var (
	ErrNoCode   = errors.New("no verification code issued")
	ErrExpired  = errors.New("verification code expired")
	ErrMismatch = errors.New("verification code does not match")
)

// Generator issues codes of a fixed length and lifetime.
type Generator struct {
	length int
	ttl    time.Duration
	now    func() time.Time
}

// Option configures a Generator.
type Option func(*Generator)

// WithClock replaces the time source.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) { g.now = now }
}

// NewGenerator creates a code generator.
func NewGenerator(length int, ttl time.Duration, opts ...Option) *Generator {
	g := &Generator{length: length, ttl: ttl, now: time.Now}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// New issues a fresh code expiring ttl from now.
func (g *Generator) New() (structs.VerificationCode, error) {
	value, err := gonanoid.Generate(digits, g.length)
	if err != nil {
		return structs.VerificationCode{}, fmt.Errorf("generate code: %w", err)
	}
	return structs.VerificationCode{Value: value, ExpiresAt: g.now().Add(g.ttl)}, nil
}

// Now returns the generator's current time.
func (g *Generator) Now() time.Time {
	return g.now()
}

// TTL returns the code lifetime.
func (g *Generator) TTL() time.Duration {
	return g.ttl
}

// Check validates a submitted code against the stored one. The checks run
// in order: a code must exist, must not be past its expiry, and must match.
func (g *Generator) Check(stored *string, expiresAt *time.Time, submitted string) error {
	if stored == nil || *stored == "" || expiresAt == nil {
		return ErrNoCode
	}
	if g.now().After(*expiresAt) {
		return ErrExpired
	}
	if subtle.ConstantTimeCompare([]byte(*stored), []byte(submitted)) != 1 {
		return ErrMismatch
	}
	return nil
}
