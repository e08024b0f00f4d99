// Package service implements the shopfront business operations.
package service

import (
	"context"
	"time"

	"github.com/ncobase/shopfront/config"
	"github.com/ncobase/shopfront/crypto"
	"github.com/ncobase/shopfront/data"
	"github.com/ncobase/shopfront/data/repository"
	"github.com/ncobase/shopfront/logging/logger"
	"github.com/ncobase/shopfront/messaging/email"
	"github.com/ncobase/shopfront/security/jwt"
	"github.com/ncobase/shopfront/security/throttle"
	"github.com/ncobase/shopfront/security/vcode"
)

// PasswordHasher hashes and verifies passwords.
type PasswordHasher interface {
	HashPassword(password string) (string, error)
	ComparePassword(hashedPassword, password string) bool
}

// Tokens groups the token managers of each token type.
type Tokens struct {
	Access  *jwt.TokenManager
	Refresh *jwt.TokenManager
	Admin   *jwt.TokenManager
}

// NewTokens creates the token managers from the jwt configuration.
func NewTokens(c *config.JWT, opts ...jwt.Option) *Tokens {
	opts = append([]jwt.Option{jwt.WithIssuer(c.Issuer)}, opts...)
	return &Tokens{
		Access:  jwt.NewTokenManager(c.AccessSecret, jwt.TypeUser, c.AccessExpire, opts...),
		Refresh: jwt.NewTokenManager(c.RefreshSecret, jwt.TypeRefresh, c.RefreshExpire, opts...),
		Admin:   jwt.NewTokenManager(c.AdminSigningSecret(), jwt.TypeAdmin, c.AdminExpire, opts...),
	}
}

// Deps are the collaborators shared by all services.
type Deps struct {
	AppName string
	Users   repository.UserRepository
	Admins  repository.AdminRepository
	MyList  repository.MyListRepository
	Hasher  PasswordHasher
	Codes   *vcode.Generator
	Tokens  *Tokens
	Sender  email.Sender
	Limiter throttle.Limiter
	Logger  *logger.Logger
}

// NewDeps wires the production collaborators from configuration.
func NewDeps(cfg *config.Config, d *data.Data, sender email.Sender, l *logger.Logger) *Deps {
	verification := cfg.Auth.Verification

	var limiter throttle.Limiter = throttle.Noop{}
	if rdb := d.Redis(); rdb != nil && verification.MaxAttempts > 0 {
		limiter = throttle.NewRedis(rdb, verification.MaxAttempts, verification.CodeTTL)
	}

	return &Deps{
		AppName: cfg.AppName,
		Users:   d.UserRepo,
		Admins:  d.AdminRepo,
		MyList:  d.MyListRepo,
		Hasher:  crypto.NewBcrypt(cfg.Auth.BcryptCost),
		Codes:   vcode.NewGenerator(verification.CodeLength, verification.CodeTTL),
		Tokens:  NewTokens(cfg.Auth.JWT),
		Sender:  sender,
		Limiter: limiter,
		Logger:  l,
	}
}

// Service aggregates all business logic services.
type Service struct {
	User   *UserService
	Admin  *AdminService
	MyList *MyListService
	Tokens *Tokens
}

// New creates a new service instance with all sub-services initialized.
func New(d *Deps) *Service {
	if d.Limiter == nil {
		d.Limiter = throttle.Noop{}
	}
	return &Service{
		User:   NewUserService(d),
		Admin:  NewAdminService(d),
		MyList: NewMyListService(d),
		Tokens: d.Tokens,
	}
}

func (d *Deps) now() time.Time {
	return d.Codes.Now()
}

// send delivers msg and logs the provider reference.
func (d *Deps) send(ctx context.Context, msg email.Message) error {
	ref, err := d.Sender.Send(ctx, msg)
	if err != nil {
		d.Logger.Error(ctx, "failed to send email", "subject", msg.Subject, "error", err)
		return err
	}
	d.Logger.Info(ctx, "email sent", "subject", msg.Subject, "reference", ref)
	return nil
}
