package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Default auth settings.
const (
	DefaultAccessExpire  = time.Hour
	DefaultRefreshExpire = 7 * 24 * time.Hour
	DefaultAdminExpire   = 24 * time.Hour
	DefaultBcryptCost    = 10
	DefaultCodeLength    = 6
	DefaultCodeTTL       = 10 * time.Minute
	DefaultMaxAttempts   = 5

	minBcryptCost = 10
	maxBcryptCost = 31
)

// Auth auth config struct
type Auth struct {
	JWT             *JWT
	BcryptCost      int
	AllowQueryToken bool
	Verification    *Verification
}

// JWT jwt config struct
type JWT struct {
	AccessSecret  string
	RefreshSecret string
	// AdminSecret falls back to AccessSecret when empty.
	AdminSecret   string
	AccessExpire  time.Duration
	RefreshExpire time.Duration
	AdminExpire   time.Duration
	Issuer        string
}

// Verification verification code config struct
type Verification struct {
	CodeLength  int
	CodeTTL     time.Duration
	MaxAttempts int
}

// getAuth returns the auth config.
func getAuth(v *viper.Viper) *Auth {
	return &Auth{
		JWT:             getJWT(v),
		BcryptCost:      getIntOrDefault(v, "auth.bcrypt_cost", DefaultBcryptCost),
		AllowQueryToken: getBoolOrDefault(v, "auth.allow_query_token", false),
		Verification: &Verification{
			CodeLength:  getIntOrDefault(v, "auth.verification.code_length", DefaultCodeLength),
			CodeTTL:     getDurationOrDefault(v, "auth.verification.code_ttl", DefaultCodeTTL),
			MaxAttempts: getIntOrDefault(v, "auth.verification.max_attempts", DefaultMaxAttempts),
		},
	}
}

// getJWT returns the jwt config.
func getJWT(v *viper.Viper) *JWT {
	return &JWT{
		AccessSecret:  v.GetString("auth.jwt.access_secret"),
		RefreshSecret: v.GetString("auth.jwt.refresh_secret"),
		AdminSecret:   v.GetString("auth.jwt.admin_secret"),
		AccessExpire:  getDurationOrDefault(v, "auth.jwt.access_expire", DefaultAccessExpire),
		RefreshExpire: getDurationOrDefault(v, "auth.jwt.refresh_expire", DefaultRefreshExpire),
		AdminExpire:   getDurationOrDefault(v, "auth.jwt.admin_expire", DefaultAdminExpire),
		Issuer:        getStringOrDefault(v, "auth.jwt.issuer", "shopfront"),
	}
}

// AdminSigningSecret returns the secret admin tokens are signed with.
func (j *JWT) AdminSigningSecret() string {
	if j.AdminSecret != "" {
		return j.AdminSecret
	}
	return j.AccessSecret
}

func (a *Auth) validate() []error {
	var errs []error

	if a.JWT.AccessSecret == "" {
		errs = append(errs, errors.New("auth.jwt.access_secret is required"))
	}
	if a.JWT.RefreshSecret == "" {
		errs = append(errs, errors.New("auth.jwt.refresh_secret is required"))
	}
	if a.JWT.AccessSecret != "" && a.JWT.AccessSecret == a.JWT.RefreshSecret {
		errs = append(errs, errors.New("auth.jwt.access_secret and auth.jwt.refresh_secret must differ"))
	}
	if a.JWT.AccessExpire <= 0 {
		errs = append(errs, errors.New("auth.jwt.access_expire must be positive"))
	}
	if a.JWT.RefreshExpire <= a.JWT.AccessExpire {
		errs = append(errs, errors.New("auth.jwt.refresh_expire must exceed auth.jwt.access_expire"))
	}
	if a.BcryptCost < minBcryptCost || a.BcryptCost > maxBcryptCost {
		errs = append(errs, fmt.Errorf("auth.bcrypt_cost must be within [%d, %d]", minBcryptCost, maxBcryptCost))
	}
	if a.Verification.CodeLength < 4 {
		errs = append(errs, errors.New("auth.verification.code_length must be at least 4"))
	}
	if a.Verification.CodeTTL <= 0 {
		errs = append(errs, errors.New("auth.verification.code_ttl must be positive"))
	}

	return errs
}
