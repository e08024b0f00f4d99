package service

import (
	"context"
	"errors"
	"time"

	"github.com/ncobase/shopfront/data/repository"
	"github.com/ncobase/shopfront/ecode"
	"github.com/ncobase/shopfront/messaging/email"
	"github.com/ncobase/shopfront/security/vcode"
	"github.com/ncobase/shopfront/structs"
)

// UserService handles user accounts, sessions and verification codes.
type UserService struct {
	*Deps
}

// NewUserService creates a new user service.
func NewUserService(d *Deps) *UserService {
	return &UserService{Deps: d}
}

// Register creates an unverified user and mails a verification code. If the
// mail cannot be delivered the user is removed again.
func (s *UserService) Register(ctx context.Context, req *structs.RegisterRequest) (*structs.RegisterResult, error) {
	if err := requireFields(
		field{"name", req.Name},
		field{"email", req.Email},
		field{"phone", req.Phone},
		field{"password", req.Password},
	); err != nil {
		return nil, err
	}
	addr := normalizeEmail(req.Email)
	if err := checkEmail(addr); err != nil {
		return nil, err
	}

	if _, err := s.Users.FindByEmail(ctx, addr); err == nil {
		return nil, ecode.Conflict(ecode.AlreadyExist("email"))
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, ecode.Dependency("failed to look up user", err)
	}

	code, err := s.Codes.New()
	if err != nil {
		return nil, ecode.Dependency("failed to generate verification code", err)
	}
	hash, err := s.Hasher.HashPassword(req.Password)
	if err != nil {
		return nil, hashError(err)
	}

	user, err := s.Users.Create(ctx, &structs.User{
		Name:                   req.Name,
		Email:                  addr,
		Phone:                  req.Phone,
		PasswordHash:           hash,
		Role:                   structs.RoleUser,
		Status:                 structs.StatusActive,
		VerificationCode:       &code.Value,
		VerificationCodeExpiry: &code.ExpiresAt,
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ecode.Conflict(ecode.AlreadyExist("email"))
		}
		return nil, ecode.Dependency("failed to create user", err)
	}

	if err := s.sendCode(ctx, email.VerificationMessage, user, code.Value); err != nil {
		if delErr := s.Users.Delete(ctx, user.ID.Hex()); delErr != nil {
			s.Logger.Error(ctx, "failed to remove user after mail failure", "user_id", user.ID.Hex(), "error", delErr)
		}
		return nil, ecode.Dependency("failed to send verification email", err)
	}

	s.Logger.Info(ctx, "user registered", "user_id", user.ID.Hex())
	return &structs.RegisterResult{
		UserID: user.ID.Hex(),
		Email:  user.Email,
		Name:   user.Name,
	}, nil
}

type codeMailFunc func(appName, to, name, code string, ttl time.Duration) (email.Message, error)

func (s *UserService) sendCode(ctx context.Context, build codeMailFunc, user *structs.User, code string) error {
	msg, err := build(s.AppName, user.Email, user.Name, code, s.Codes.TTL())
	if err != nil {
		return err
	}
	return s.send(ctx, msg)
}

// VerifyEmail consumes a verification code and marks the email verified.
func (s *UserService) VerifyEmail(ctx context.Context, req *structs.VerifyCodeRequest) (*structs.UserProfile, error) {
	if err := requireFields(field{"email", req.Email}, field{"code", req.Code}); err != nil {
		return nil, err
	}
	addr := normalizeEmail(req.Email)

	user, err := s.findByEmail(ctx, addr)
	if err != nil {
		return nil, err
	}
	if err := s.checkCode(ctx, user, req.Code); err != nil {
		return nil, err
	}

	verified, err := s.Users.MarkEmailVerified(ctx, user.ID.Hex(), req.Code)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ecode.InvalidCode()
		}
		return nil, ecode.Dependency("failed to verify email", err)
	}
	s.resetAttempts(ctx, addr)

	s.Logger.Info(ctx, "email verified", "user_id", verified.ID.Hex())
	return verified.Profile(), nil
}

// checkCode validates a submitted code against the user's stored code. Every
// submission counts against the email's budget until one succeeds.
func (s *UserService) checkCode(ctx context.Context, user *structs.User, submitted string) error {
	allowed, err := s.Limiter.Attempt(ctx, user.Email)
	if err != nil {
		return ecode.Dependency("failed to check attempts", err)
	}
	if !allowed {
		return ecode.Forbidden("too many attempts, request a new code later")
	}

	err = s.Codes.Check(user.VerificationCode, user.VerificationCodeExpiry, submitted)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, vcode.ErrExpired):
		return ecode.CodeExpired()
	default:
		return ecode.InvalidCode()
	}
}

func (s *UserService) resetAttempts(ctx context.Context, addr string) {
	if err := s.Limiter.Reset(ctx, addr); err != nil {
		s.Logger.Warn(ctx, "failed to reset code attempts", "error", err)
	}
}

// Login verifies credentials and starts a session.
func (s *UserService) Login(ctx context.Context, req *structs.LoginRequest) (*structs.LoginResult, error) {
	if err := requireFields(field{"email", req.Email}, field{"password", req.Password}); err != nil {
		return nil, err
	}

	user, err := s.Users.FindByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ecode.InvalidCredentials()
		}
		return nil, ecode.Dependency("failed to look up user", err)
	}
	if !user.EmailVerified {
		return nil, ecode.Forbidden("please verify your email before logging in")
	}
	if user.Status != structs.StatusActive {
		return nil, ecode.Forbidden(ecode.Text(ecode.UserDisabled))
	}
	if !s.Hasher.ComparePassword(user.PasswordHash, req.Password) {
		return nil, ecode.InvalidCredentials()
	}

	id := user.ID.Hex()
	accessToken, err := s.Tokens.Access.Generate(id)
	if err != nil {
		return nil, ecode.Dependency("failed to sign access token", err)
	}
	refreshToken, err := s.Tokens.Refresh.Generate(id)
	if err != nil {
		return nil, ecode.Dependency("failed to sign refresh token", err)
	}

	user, err = s.Users.SetSession(ctx, id, accessToken, refreshToken, s.now())
	if err != nil {
		return nil, ecode.Dependency("failed to store session", err)
	}

	s.Logger.Info(ctx, "user logged in", "user_id", id)
	return &structs.LoginResult{
		User:         user.Profile(),
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// Logout clears the persisted tokens of a user. Unknown users succeed.
func (s *UserService) Logout(ctx context.Context, userID string) error {
	err := s.Users.ClearSession(ctx, userID)
	if err != nil && !errors.Is(err, repository.ErrInvalidID) {
		return ecode.Dependency("failed to clear session", err)
	}
	s.Logger.Info(ctx, "user logged out", "user_id", userID)
	return nil
}

// Refresh mints a new access token from a valid refresh token. Tokens of
// every login stay usable until expiry; a logout revokes them all.
func (s *UserService) Refresh(ctx context.Context, refreshToken string) (*structs.RefreshResult, error) {
	if refreshToken == "" {
		return nil, ecode.Unauthorized("refresh token is required")
	}

	claims, err := s.Tokens.Refresh.Verify(refreshToken)
	if err != nil {
		return nil, tokenError(err)
	}

	accessToken, err := s.Tokens.Access.Generate(claims.Subject)
	if err != nil {
		return nil, ecode.Dependency("failed to sign access token", err)
	}

	err = s.Users.RotateAccessToken(ctx, claims.Subject, accessToken)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) || errors.Is(err, repository.ErrInvalidID) {
			return nil, ecode.Unauthorized("refresh token revoked").WithReason("invalid")
		}
		return nil, ecode.Dependency("failed to store access token", err)
	}

	return &structs.RefreshResult{AccessToken: accessToken}, nil
}

// ForgotPassword issues a reset code and mails it. A failed delivery leaves
// the code to lapse.
func (s *UserService) ForgotPassword(ctx context.Context, req *structs.ForgotPasswordRequest) error {
	if err := requireFields(field{"email", req.Email}); err != nil {
		return err
	}

	user, err := s.findByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		return err
	}

	code, err := s.Codes.New()
	if err != nil {
		return ecode.Dependency("failed to generate reset code", err)
	}
	if err := s.Users.SetVerificationCode(ctx, user.ID.Hex(), code); err != nil {
		return ecode.Dependency("failed to store reset code", err)
	}

	if err := s.sendCode(ctx, email.PasswordResetMessage, user, code.Value); err != nil {
		return ecode.Dependency("failed to send password reset email", err)
	}
	return nil
}

// ResetPassword checks a reset code and replaces the password in one step.
func (s *UserService) ResetPassword(ctx context.Context, req *structs.ResetPasswordRequest) error {
	if err := requireFields(
		field{"email", req.Email},
		field{"code", req.Code},
		field{"newPassword", req.NewPassword},
	); err != nil {
		return err
	}
	addr := normalizeEmail(req.Email)

	user, err := s.findByEmail(ctx, addr)
	if err != nil {
		return err
	}
	if err := s.checkCode(ctx, user, req.Code); err != nil {
		return err
	}

	hash, err := s.Hasher.HashPassword(req.NewPassword)
	if err != nil {
		return hashError(err)
	}
	if _, err := s.Users.ResetPasswordWithCode(ctx, user.ID.Hex(), req.Code, hash); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ecode.InvalidCode()
		}
		return ecode.Dependency("failed to reset password", err)
	}
	s.resetAttempts(ctx, addr)

	s.Logger.Info(ctx, "password reset", "user_id", user.ID.Hex())
	return nil
}

// VerifyResetCode checks a reset code and opens a window in which
// SetNewPassword is allowed.
func (s *UserService) VerifyResetCode(ctx context.Context, req *structs.VerifyCodeRequest) error {
	if err := requireFields(field{"email", req.Email}, field{"code", req.Code}); err != nil {
		return err
	}
	addr := normalizeEmail(req.Email)

	user, err := s.findByEmail(ctx, addr)
	if err != nil {
		return err
	}
	if err := s.checkCode(ctx, user, req.Code); err != nil {
		return err
	}

	until := s.now().Add(s.Codes.TTL())
	if _, err := s.Users.OpenResetWindow(ctx, user.ID.Hex(), req.Code, until); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ecode.InvalidCode()
		}
		return ecode.Dependency("failed to verify reset code", err)
	}
	s.resetAttempts(ctx, addr)
	return nil
}

// SetNewPassword replaces the password inside an open reset window.
func (s *UserService) SetNewPassword(ctx context.Context, req *structs.SetPasswordRequest) error {
	if err := requireFields(
		field{"email", req.Email},
		field{"newPassword", req.NewPassword},
		field{"confirmPassword", req.ConfirmPassword},
	); err != nil {
		return err
	}
	if req.NewPassword != req.ConfirmPassword {
		return ecode.Mismatch(ecode.Mismatched("passwords"))
	}

	user, err := s.findByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		return err
	}
	now := s.now()
	if user.ResetAllowedUntil == nil || now.After(*user.ResetAllowedUntil) {
		return ecode.Forbidden("verify the reset code first")
	}

	hash, err := s.Hasher.HashPassword(req.NewPassword)
	if err != nil {
		return hashError(err)
	}
	if _, err := s.Users.SetPasswordInResetWindow(ctx, user.ID.Hex(), hash, now); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ecode.Forbidden("verify the reset code first")
		}
		return ecode.Dependency("failed to set password", err)
	}

	s.Logger.Info(ctx, "password reset", "user_id", user.ID.Hex())
	return nil
}

// Profile returns the profile of a user.
func (s *UserService) Profile(ctx context.Context, userID string) (*structs.UserProfile, error) {
	user, err := s.findByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return user.Profile(), nil
}

// UpdateProfile changes name, phone or email. A new email must be verified
// again and a fresh code is mailed to it.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, req *structs.UpdateProfileRequest) (*structs.UserProfile, error) {
	user, err := s.findByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	upd := repository.ProfileUpdate{Name: req.Name, Phone: req.Phone}
	addr := normalizeEmail(req.Email)
	if addr != "" && addr != user.Email {
		if err := checkEmail(addr); err != nil {
			return nil, err
		}
		owner, err := s.Users.FindByEmail(ctx, addr)
		switch {
		case err == nil && owner.ID != user.ID:
			return nil, ecode.Conflict(ecode.AlreadyExist("email"))
		case err != nil && !errors.Is(err, repository.ErrNotFound):
			return nil, ecode.Dependency("failed to look up user", err)
		}

		code, err := s.Codes.New()
		if err != nil {
			return nil, ecode.Dependency("failed to generate verification code", err)
		}
		upd.Email = addr
		upd.Code = &code
	}

	updated, err := s.Users.UpdateProfile(ctx, userID, upd)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicate):
			return nil, ecode.Conflict(ecode.AlreadyExist("email"))
		case errors.Is(err, repository.ErrNotFound):
			return nil, ecode.NotFound(ecode.NotExist("user"))
		}
		return nil, ecode.Dependency("failed to update profile", err)
	}

	if upd.Code != nil {
		if err := s.sendCode(ctx, email.VerificationMessage, updated, upd.Code.Value); err != nil {
			return nil, ecode.Dependency("profile updated but the verification email could not be sent", err)
		}
	}
	return updated.Profile(), nil
}

// ChangePassword replaces the password after checking the current one.
func (s *UserService) ChangePassword(ctx context.Context, userID string, req *structs.ChangePasswordRequest) error {
	if err := requireFields(
		field{"oldPassword", req.OldPassword},
		field{"newPassword", req.NewPassword},
		field{"confirmPassword", req.ConfirmPassword},
	); err != nil {
		return err
	}
	if req.NewPassword != req.ConfirmPassword {
		return ecode.Mismatch(ecode.Mismatched("passwords"))
	}

	user, err := s.findByID(ctx, userID)
	if err != nil {
		return err
	}
	if !s.Hasher.ComparePassword(user.PasswordHash, req.OldPassword) {
		return ecode.InvalidCredentials()
	}

	hash, err := s.Hasher.HashPassword(req.NewPassword)
	if err != nil {
		return hashError(err)
	}
	if err := s.Users.SetPassword(ctx, userID, hash); err != nil {
		return ecode.Dependency("failed to change password", err)
	}

	s.Logger.Info(ctx, "password changed", "user_id", userID)
	return nil
}

func (s *UserService) findByEmail(ctx context.Context, addr string) (*structs.User, error) {
	user, err := s.Users.FindByEmail(ctx, addr)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ecode.NotFound(ecode.NotExist("user"))
		}
		return nil, ecode.Dependency("failed to look up user", err)
	}
	return user, nil
}

func (s *UserService) findByID(ctx context.Context, id string) (*structs.User, error) {
	user, err := s.Users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) || errors.Is(err, repository.ErrInvalidID) {
			return nil, ecode.NotFound(ecode.NotExist("user"))
		}
		return nil, ecode.Dependency("failed to look up user", err)
	}
	return user, nil
}
