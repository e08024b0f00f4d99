package service

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/ncobase/shopfront/crypto"
	"github.com/ncobase/shopfront/ecode"
	"github.com/ncobase/shopfront/security/jwt"
)

var validate = validator.New()

type field struct {
	name  string
	value string
}

// requireFields fails with a validation error naming every empty field.
func requireFields(fields ...field) error {
	missing := make(map[string]string)
	var first string
	for _, f := range fields {
		if strings.TrimSpace(f.value) != "" {
			continue
		}
		if first == "" {
			first = f.name
		}
		missing[f.name] = ecode.FieldIsRequired(f.name)
	}
	if len(missing) == 0 {
		return nil
	}
	return ecode.Validation(ecode.FieldIsRequired(first)).WithFields(missing)
}

// normalizeEmail trims and lower-cases an address.
func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func checkEmail(addr string) error {
	if err := validate.Var(addr, "email"); err != nil {
		return ecode.Validation(ecode.FieldIsInvalid("email")).
			WithFields(map[string]string{"email": ecode.FieldIsInvalid("email")})
	}
	return nil
}

// hashError classifies a hashing failure.
func hashError(err error) error {
	if errors.Is(err, crypto.ErrPasswordTooLong) {
		return ecode.Validation(err.Error()).
			WithFields(map[string]string{"password": err.Error()})
	}
	return ecode.Dependency("failed to hash password", err)
}

// tokenError classifies a token verification failure.
func tokenError(err error) error {
	reason := jwt.ReasonOf(err)
	if reason == jwt.ReasonExpired {
		return ecode.Unauthorized(jwt.ErrTokenExpired.Error()).WithReason(reason)
	}
	return ecode.Unauthorized(jwt.ErrInvalidToken.Error()).WithReason(reason)
}
