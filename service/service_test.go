package service

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/ncobase/shopfront/config"
	"github.com/ncobase/shopfront/crypto"
	"github.com/ncobase/shopfront/ecode"
	"github.com/ncobase/shopfront/logging/logger"
	"github.com/ncobase/shopfront/messaging/email"
	"github.com/ncobase/shopfront/security/jwt"
	"github.com/ncobase/shopfront/security/vcode"
	"github.com/ncobase/shopfront/service/servicetest"
	"github.com/ncobase/shopfront/structs"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	svc     *Service
	users   *servicetest.Users
	admins  *servicetest.Admins
	sender  *servicetest.Sender
	limiter *servicetest.Limiter
	clock   *servicetest.Clock
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	clock := servicetest.NewClock(time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC))
	f := &fixture{
		users:   servicetest.NewUsers(),
		admins:  servicetest.NewAdmins(),
		sender:  &servicetest.Sender{},
		limiter: servicetest.NewLimiter(3),
		clock:   clock,
	}
	f.svc = New(&Deps{
		AppName: "Shopfront",
		Users:   f.users,
		Admins:  f.admins,
		MyList:  servicetest.NewMyList(),
		Hasher:  crypto.NewBcrypt(crypto.MinCost),
		Codes:   vcode.NewGenerator(6, 10*time.Minute, vcode.WithClock(clock.Now)),
		Tokens: NewTokens(&config.JWT{
			AccessSecret:  "access-secret",
			RefreshSecret: "refresh-secret",
			AccessExpire:  time.Hour,
			RefreshExpire: 7 * 24 * time.Hour,
			AdminExpire:   24 * time.Hour,
			Issuer:        "shopfront",
		}, jwt.WithClock(clock.Now)),
		Sender:  f.sender,
		Limiter: f.limiter,
		Logger:  logger.NewWriter(io.Discard, logrus.PanicLevel),
	})
	return f
}

func (f *fixture) register(t *testing.T, addr, password string) *structs.RegisterResult {
	t.Helper()
	res, err := f.svc.User.Register(context.Background(), &structs.RegisterRequest{
		Name:     "Ada",
		Email:    addr,
		Phone:    "+15550100",
		Password: password,
	})
	require.NoError(t, err)
	return res
}

func (f *fixture) storedCode(t *testing.T, addr string) string {
	t.Helper()
	u, err := f.users.FindByEmail(context.Background(), addr)
	require.NoError(t, err)
	require.NotNil(t, u.VerificationCode)
	return *u.VerificationCode
}

func (f *fixture) verified(t *testing.T, addr, password string) string {
	t.Helper()
	res := f.register(t, addr, password)
	_, err := f.svc.User.VerifyEmail(context.Background(), &structs.VerifyCodeRequest{
		Email: addr,
		Code:  f.storedCode(t, addr),
	})
	require.NoError(t, err)
	return res.UserID
}

func requireKind(t *testing.T, err error, kind ecode.Kind) {
	t.Helper()
	require.Error(t, err)
	assert.Equalf(t, kind, ecode.KindOf(err), "got %v", err)
}

func wrongCode(code string) string {
	if code == "000000" {
		return "111111"
	}
	return "000000"
}

func TestRegister(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res := f.register(t, " Ada@Example.com ", "secret123")
	assert.Equal(t, "ada@example.com", res.Email)
	assert.Equal(t, "Ada", res.Name)

	msg, ok := f.sender.Last()
	require.True(t, ok)
	assert.Equal(t, email.SubjectVerifyEmail, msg.Subject)
	assert.Equal(t, "ada@example.com", msg.To)

	u, err := f.users.FindByEmail(ctx, "ada@example.com")
	require.NoError(t, err)
	assert.False(t, u.EmailVerified)
	assert.NotEqual(t, "secret123", u.PasswordHash)
	require.NotNil(t, u.VerificationCode)
	assert.Len(t, *u.VerificationCode, 6)
	assert.Contains(t, msg.Text, *u.VerificationCode)
	require.NotNil(t, u.VerificationCodeExpiry)
	assert.Equal(t, f.clock.Now().Add(10*time.Minute), *u.VerificationCodeExpiry)

	_, err = f.svc.User.Register(ctx, &structs.RegisterRequest{
		Name: "Other", Email: "ADA@example.com", Phone: "1", Password: "secret123",
	})
	requireKind(t, err, ecode.KindConflict)
}

func TestRegisterValidation(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.User.Register(context.Background(), &structs.RegisterRequest{Email: "ada@example.com"})
	requireKind(t, err, ecode.KindValidation)

	var e *ecode.Error
	require.True(t, errors.As(err, &e))
	assert.Contains(t, e.Fields, "name")
	assert.Contains(t, e.Fields, "phone")
	assert.Contains(t, e.Fields, "password")
	assert.NotContains(t, e.Fields, "email")
}

func TestRegisterRemovesUserWhenMailFails(t *testing.T) {
	f := newFixture(t)
	f.sender.Err = errors.New("smtp down")

	_, err := f.svc.User.Register(context.Background(), &structs.RegisterRequest{
		Name: "Ada", Email: "ada@example.com", Phone: "1", Password: "secret123",
	})
	requireKind(t, err, ecode.KindDependency)

	n, err := f.users.Count(context.Background(), false)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestVerifyEmail(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.register(t, "ada@example.com", "secret123")
	code := f.storedCode(t, "ada@example.com")

	_, err := f.svc.User.VerifyEmail(ctx, &structs.VerifyCodeRequest{Email: "ada@example.com", Code: wrongCode(code)})
	requireKind(t, err, ecode.KindInvalidCode)
	u, _ := f.users.FindByEmail(ctx, "ada@example.com")
	assert.False(t, u.EmailVerified)

	profile, err := f.svc.User.VerifyEmail(ctx, &structs.VerifyCodeRequest{Email: "ada@example.com", Code: code})
	require.NoError(t, err)
	assert.True(t, profile.EmailVerified)

	u, _ = f.users.FindByEmail(ctx, "ada@example.com")
	assert.Nil(t, u.VerificationCode)
	assert.Nil(t, u.VerificationCodeExpiry)

	_, err = f.svc.User.VerifyEmail(ctx, &structs.VerifyCodeRequest{Email: "ada@example.com", Code: code})
	requireKind(t, err, ecode.KindInvalidCode)

	_, err = f.svc.User.VerifyEmail(ctx, &structs.VerifyCodeRequest{Email: "nobody@example.com", Code: code})
	requireKind(t, err, ecode.KindNotFound)

	_, err = f.svc.User.VerifyEmail(ctx, &structs.VerifyCodeRequest{Email: "ada@example.com"})
	requireKind(t, err, ecode.KindValidation)
}

func TestVerifyEmailExpired(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.register(t, "ada@example.com", "secret123")
	code := f.storedCode(t, "ada@example.com")

	f.clock.Advance(10*time.Minute + time.Second)

	_, err := f.svc.User.VerifyEmail(ctx, &structs.VerifyCodeRequest{Email: "ada@example.com", Code: code})
	requireKind(t, err, ecode.KindExpired)

	u, _ := f.users.FindByEmail(ctx, "ada@example.com")
	assert.False(t, u.EmailVerified)
	assert.NotNil(t, u.VerificationCode)
}

func TestVerifyEmailThrottled(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.register(t, "ada@example.com", "secret123")
	code := f.storedCode(t, "ada@example.com")

	for i := 0; i < f.limiter.Max; i++ {
		_, err := f.svc.User.VerifyEmail(ctx, &structs.VerifyCodeRequest{Email: "ada@example.com", Code: wrongCode(code)})
		requireKind(t, err, ecode.KindInvalidCode)
	}

	_, err := f.svc.User.VerifyEmail(ctx, &structs.VerifyCodeRequest{Email: "ada@example.com", Code: code})
	requireKind(t, err, ecode.KindForbidden)
}

func TestCodeAttemptsSharedAcrossPurposes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.verified(t, "ada@example.com", "secret123")
	require.NoError(t, f.svc.User.ForgotPassword(ctx, &structs.ForgotPasswordRequest{Email: "ada@example.com"}))
	code := f.storedCode(t, "ada@example.com")

	for i := 0; i < f.limiter.Max-1; i++ {
		err := f.svc.User.VerifyResetCode(ctx, &structs.VerifyCodeRequest{Email: "ada@example.com", Code: wrongCode(code)})
		requireKind(t, err, ecode.KindInvalidCode)
	}
	_, err := f.svc.User.VerifyEmail(ctx, &structs.VerifyCodeRequest{Email: "ada@example.com", Code: wrongCode(code)})
	require.Error(t, err)

	err = f.svc.User.ResetPassword(ctx, &structs.ResetPasswordRequest{
		Email: "ada@example.com", Code: code, NewPassword: "newsecret1",
	})
	requireKind(t, err, ecode.KindForbidden)
}

func TestCodeAttemptsResetOnSuccess(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.register(t, "ada@example.com", "secret123")
	code := f.storedCode(t, "ada@example.com")

	for i := 0; i < f.limiter.Max-1; i++ {
		_, err := f.svc.User.VerifyEmail(ctx, &structs.VerifyCodeRequest{Email: "ada@example.com", Code: wrongCode(code)})
		requireKind(t, err, ecode.KindInvalidCode)
	}
	_, err := f.svc.User.VerifyEmail(ctx, &structs.VerifyCodeRequest{Email: "ada@example.com", Code: code})
	require.NoError(t, err)

	require.NoError(t, f.svc.User.ForgotPassword(ctx, &structs.ForgotPasswordRequest{Email: "ada@example.com"}))
	code = f.storedCode(t, "ada@example.com")
	for i := 0; i < f.limiter.Max-1; i++ {
		err := f.svc.User.VerifyResetCode(ctx, &structs.VerifyCodeRequest{Email: "ada@example.com", Code: wrongCode(code)})
		requireKind(t, err, ecode.KindInvalidCode)
	}
	require.NoError(t, f.svc.User.VerifyResetCode(ctx, &structs.VerifyCodeRequest{Email: "ada@example.com", Code: code}))
}

func TestLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.register(t, "new@example.com", "secret123")
	_, err := f.svc.User.Login(ctx, &structs.LoginRequest{Email: "new@example.com", Password: "secret123"})
	requireKind(t, err, ecode.KindForbidden)

	id := f.verified(t, "ada@example.com", "secret123")

	res, err := f.svc.User.Login(ctx, &structs.LoginRequest{Email: "ADA@example.com", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, id, res.User.ID)
	assert.NotEmpty(t, res.AccessToken)
	assert.NotEmpty(t, res.RefreshToken)

	claims, err := f.svc.Tokens.Access.Verify(res.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, id, claims.Subject)

	u, _ := f.users.FindByID(ctx, id)
	require.NotNil(t, u.RefreshToken)
	assert.Equal(t, res.RefreshToken, *u.RefreshToken)
	require.NotNil(t, u.LastLoginAt)
	assert.Equal(t, f.clock.Now(), *u.LastLoginAt)

	_, err = f.svc.User.Login(ctx, &structs.LoginRequest{Email: "ada@example.com", Password: "wrong-password"})
	requireKind(t, err, ecode.KindInvalidCredentials)

	_, err = f.svc.User.Login(ctx, &structs.LoginRequest{Email: "nobody@example.com", Password: "secret123"})
	requireKind(t, err, ecode.KindInvalidCredentials)

	_, err = f.svc.User.Login(ctx, &structs.LoginRequest{Email: "ada@example.com"})
	requireKind(t, err, ecode.KindValidation)
}

func TestRefresh(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.verified(t, "ada@example.com", "secret123")

	login, err := f.svc.User.Login(ctx, &structs.LoginRequest{Email: "ada@example.com", Password: "secret123"})
	require.NoError(t, err)

	res, err := f.svc.User.Refresh(ctx, login.RefreshToken)
	require.NoError(t, err)
	claims, err := f.svc.Tokens.Access.Verify(res.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, id, claims.Subject)

	_, err = f.svc.User.Refresh(ctx, "")
	requireKind(t, err, ecode.KindUnauthorized)

	_, err = f.svc.User.Refresh(ctx, "not.a.token")
	requireKind(t, err, ecode.KindUnauthorized)

	_, err = f.svc.User.Refresh(ctx, login.AccessToken)
	requireKind(t, err, ecode.KindUnauthorized)
	var e *ecode.Error
	require.True(t, errors.As(err, &e))
	assert.Equal(t, jwt.ReasonInvalid, e.Reason)

	f.clock.Advance(7*24*time.Hour + time.Minute)
	_, err = f.svc.User.Refresh(ctx, login.RefreshToken)
	requireKind(t, err, ecode.KindUnauthorized)
	require.True(t, errors.As(err, &e))
	assert.Equal(t, jwt.ReasonExpired, e.Reason)
}

func TestLoginRejectsInactiveAccount(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.verified(t, "ada@example.com", "secret123")

	for _, status := range []structs.UserStatus{structs.StatusSuspended, structs.StatusInactive} {
		f.users.SetStatus(id, status)
		_, err := f.svc.User.Login(ctx, &structs.LoginRequest{Email: "ada@example.com", Password: "secret123"})
		requireKind(t, err, ecode.KindForbidden)
	}

	f.users.SetStatus(id, structs.StatusActive)
	_, err := f.svc.User.Login(ctx, &structs.LoginRequest{Email: "ada@example.com", Password: "secret123"})
	require.NoError(t, err)
}

func TestRefreshKeepsEarlierSessions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.verified(t, "ada@example.com", "secret123")
	req := &structs.LoginRequest{Email: "ada@example.com", Password: "secret123"}

	first, err := f.svc.User.Login(ctx, req)
	require.NoError(t, err)
	f.clock.Advance(time.Minute)
	second, err := f.svc.User.Login(ctx, req)
	require.NoError(t, err)
	require.NotEqual(t, first.RefreshToken, second.RefreshToken)

	for _, token := range []string{first.RefreshToken, second.RefreshToken} {
		res, err := f.svc.User.Refresh(ctx, token)
		require.NoError(t, err)
		claims, err := f.svc.Tokens.Access.Verify(res.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, id, claims.Subject)
	}

	require.NoError(t, f.svc.User.Logout(ctx, id))
	for _, token := range []string{first.RefreshToken, second.RefreshToken} {
		_, err := f.svc.User.Refresh(ctx, token)
		requireKind(t, err, ecode.KindUnauthorized)
	}
}

func TestLogoutRevokesRefreshToken(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.verified(t, "ada@example.com", "secret123")

	login, err := f.svc.User.Login(ctx, &structs.LoginRequest{Email: "ada@example.com", Password: "secret123"})
	require.NoError(t, err)

	require.NoError(t, f.svc.User.Logout(ctx, id))
	require.NoError(t, f.svc.User.Logout(ctx, id))

	u, _ := f.users.FindByID(ctx, id)
	assert.Nil(t, u.AccessToken)
	assert.Nil(t, u.RefreshToken)

	_, err = f.svc.Tokens.Refresh.Verify(login.RefreshToken)
	require.NoError(t, err)

	_, err = f.svc.User.Refresh(ctx, login.RefreshToken)
	requireKind(t, err, ecode.KindUnauthorized)
}

func TestResetPassword(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.verified(t, "ada@example.com", "secret123")

	err := f.svc.User.ForgotPassword(ctx, &structs.ForgotPasswordRequest{Email: "nobody@example.com"})
	requireKind(t, err, ecode.KindNotFound)

	require.NoError(t, f.svc.User.ForgotPassword(ctx, &structs.ForgotPasswordRequest{Email: "ada@example.com"}))
	msg, _ := f.sender.Last()
	assert.Equal(t, email.SubjectPasswordReset, msg.Subject)
	code := f.storedCode(t, "ada@example.com")

	err = f.svc.User.ResetPassword(ctx, &structs.ResetPasswordRequest{
		Email: "ada@example.com", Code: wrongCode(code), NewPassword: "newsecret",
	})
	requireKind(t, err, ecode.KindInvalidCode)

	require.NoError(t, f.svc.User.ResetPassword(ctx, &structs.ResetPasswordRequest{
		Email: "ada@example.com", Code: code, NewPassword: "newsecret",
	}))

	_, err = f.svc.User.Login(ctx, &structs.LoginRequest{Email: "ada@example.com", Password: "secret123"})
	requireKind(t, err, ecode.KindInvalidCredentials)
	_, err = f.svc.User.Login(ctx, &structs.LoginRequest{Email: "ada@example.com", Password: "newsecret"})
	require.NoError(t, err)

	err = f.svc.User.ResetPassword(ctx, &structs.ResetPasswordRequest{
		Email: "ada@example.com", Code: code, NewPassword: "another",
	})
	requireKind(t, err, ecode.KindInvalidCode)
}

func TestForgotPasswordMailFailure(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.verified(t, "ada@example.com", "secret123")
	f.sender.Err = errors.New("provider down")

	err := f.svc.User.ForgotPassword(ctx, &structs.ForgotPasswordRequest{Email: "ada@example.com"})
	requireKind(t, err, ecode.KindDependency)
}

func TestSplitPasswordReset(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.verified(t, "ada@example.com", "secret123")

	err := f.svc.User.SetNewPassword(ctx, &structs.SetPasswordRequest{
		Email: "ada@example.com", NewPassword: "newsecret", ConfirmPassword: "newsecret",
	})
	requireKind(t, err, ecode.KindForbidden)

	require.NoError(t, f.svc.User.ForgotPassword(ctx, &structs.ForgotPasswordRequest{Email: "ada@example.com"}))
	code := f.storedCode(t, "ada@example.com")
	require.NoError(t, f.svc.User.VerifyResetCode(ctx, &structs.VerifyCodeRequest{Email: "ada@example.com", Code: code}))

	err = f.svc.User.SetNewPassword(ctx, &structs.SetPasswordRequest{
		Email: "ada@example.com", NewPassword: "newsecret", ConfirmPassword: "different",
	})
	requireKind(t, err, ecode.KindMismatch)

	err = f.svc.User.SetNewPassword(ctx, &structs.SetPasswordRequest{Email: "ada@example.com"})
	requireKind(t, err, ecode.KindValidation)

	require.NoError(t, f.svc.User.SetNewPassword(ctx, &structs.SetPasswordRequest{
		Email: "ada@example.com", NewPassword: "newsecret", ConfirmPassword: "newsecret",
	}))
	_, err = f.svc.User.Login(ctx, &structs.LoginRequest{Email: "ada@example.com", Password: "newsecret"})
	require.NoError(t, err)

	err = f.svc.User.SetNewPassword(ctx, &structs.SetPasswordRequest{
		Email: "ada@example.com", NewPassword: "third", ConfirmPassword: "third",
	})
	requireKind(t, err, ecode.KindForbidden)
}

func TestResetWindowLapses(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.verified(t, "ada@example.com", "secret123")

	require.NoError(t, f.svc.User.ForgotPassword(ctx, &structs.ForgotPasswordRequest{Email: "ada@example.com"}))
	code := f.storedCode(t, "ada@example.com")
	require.NoError(t, f.svc.User.VerifyResetCode(ctx, &structs.VerifyCodeRequest{Email: "ada@example.com", Code: code}))

	f.clock.Advance(11 * time.Minute)
	err := f.svc.User.SetNewPassword(ctx, &structs.SetPasswordRequest{
		Email: "ada@example.com", NewPassword: "newsecret", ConfirmPassword: "newsecret",
	})
	requireKind(t, err, ecode.KindForbidden)
}

func TestUpdateProfile(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.verified(t, "ada@example.com", "secret123")
	f.verified(t, "bob@example.com", "secret123")

	profile, err := f.svc.User.UpdateProfile(ctx, id, &structs.UpdateProfileRequest{Name: "Ada L."})
	require.NoError(t, err)
	assert.Equal(t, "Ada L.", profile.Name)
	assert.True(t, profile.EmailVerified)

	_, err = f.svc.User.UpdateProfile(ctx, id, &structs.UpdateProfileRequest{Email: "bob@example.com"})
	requireKind(t, err, ecode.KindConflict)

	sent := len(f.sender.Sent)
	profile, err = f.svc.User.UpdateProfile(ctx, id, &structs.UpdateProfileRequest{Email: "Ada.L@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "ada.l@example.com", profile.Email)
	assert.False(t, profile.EmailVerified)
	assert.Len(t, f.sender.Sent, sent+1)

	_, err = f.svc.User.Profile(ctx, "000000000000000000000000")
	requireKind(t, err, ecode.KindNotFound)
}

func TestChangePassword(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.verified(t, "ada@example.com", "secret123")

	err := f.svc.User.ChangePassword(ctx, id, &structs.ChangePasswordRequest{
		OldPassword: "secret123", NewPassword: "a-new-one", ConfirmPassword: "other",
	})
	requireKind(t, err, ecode.KindMismatch)

	err = f.svc.User.ChangePassword(ctx, id, &structs.ChangePasswordRequest{
		OldPassword: "wrong", NewPassword: "a-new-one", ConfirmPassword: "a-new-one",
	})
	requireKind(t, err, ecode.KindInvalidCredentials)

	require.NoError(t, f.svc.User.ChangePassword(ctx, id, &structs.ChangePasswordRequest{
		OldPassword: "secret123", NewPassword: "a-new-one", ConfirmPassword: "a-new-one",
	}))
	_, err = f.svc.User.Login(ctx, &structs.LoginRequest{Email: "ada@example.com", Password: "a-new-one"})
	require.NoError(t, err)
}
