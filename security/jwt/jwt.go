package jwt

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenError represents JWT token related errors
type TokenError string

func (e TokenError) Error() string {
	return string(e)
}

const (
	ErrNeedTokenProvider = TokenError("cannot sign token without token provider")
	ErrInvalidToken      = TokenError("invalid token")
	ErrTokenExpired      = TokenError("token expired")
	ErrWrongTokenType    = TokenError("wrong token type")
)

// Failure reasons reported to clients.
const (
	ReasonExpired = "expired"
	ReasonInvalid = "invalid"
)

// TokenType is carried in the "type" claim.
type TokenType string

const (
	TypeUser    TokenType = "user"
	TypeRefresh TokenType = "refresh"
	TypeAdmin   TokenType = "admin"
)

// Claims are the claims of every shopfront token.
type Claims struct {
	Type TokenType `json:"type"`
	Role string    `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// TokenManager signs and verifies one type of token with one secret.
type TokenManager struct {
	key    []byte
	typ    TokenType
	ttl    time.Duration
	issuer string
	now    func() time.Time
}

// Option configures a TokenManager.
type Option func(*TokenManager)

// WithIssuer sets the iss claim.
func WithIssuer(issuer string) Option {
	return func(m *TokenManager) { m.issuer = issuer }
}

// WithClock replaces the time source used for signing and verification.
func WithClock(now func() time.Time) Option {
	return func(m *TokenManager) { m.now = now }
}

// NewTokenManager creates a new TokenManager instance
func NewTokenManager(key string, typ TokenType, ttl time.Duration, opts ...Option) *TokenManager {
	m := &TokenManager{
		key: []byte(key),
		typ: typ,
		ttl: ttl,
		now: time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Type returns the token type the manager mints.
func (m *TokenManager) Type() TokenType {
	return m.typ
}

// TTL returns the lifetime of minted tokens.
func (m *TokenManager) TTL() time.Duration {
	return m.ttl
}

// Generate mints a token for subject. Role is only set for admin tokens.
func (m *TokenManager) Generate(subject string, role ...string) (string, error) {
	if len(m.key) == 0 {
		return "", ErrNeedTokenProvider
	}

	now := m.now()
	claims := &Claims{
		Type: m.typ,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   subject,
			Issuer:    m.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}
	if len(role) > 0 {
		claims.Role = role[0]
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.key)
}

// Parse checks signature and expiry without looking at the token type.
func (m *TokenManager) Parse(tokenString string) (*Claims, error) {
	if len(m.key) == 0 {
		return nil, ErrNeedTokenProvider
	}

	claims := &Claims{}
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	token, err := parser.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return m.key, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}
	if !token.Valid || claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// Verify parses the token and requires the manager's token type.
func (m *TokenManager) Verify(tokenString string) (*Claims, error) {
	claims, err := m.Parse(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.Type != m.typ {
		return nil, ErrWrongTokenType
	}
	return claims, nil
}

// ReasonOf maps a verification error to the reason reported to clients.
func ReasonOf(err error) string {
	if errors.Is(err, ErrTokenExpired) {
		return ReasonExpired
	}
	return ReasonInvalid
}
