package structs

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role is an identity role.
type Role string

const (
	RoleUser       Role = "user"
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "superadmin"
)

// UserStatus is the account status of a user.
type UserStatus string

const (
	StatusActive    UserStatus = "active"
	StatusInactive  UserStatus = "inactive"
	StatusSuspended UserStatus = "suspended"
)

// User is the persisted user record.
type User struct {
	ID                     primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name                   string             `bson:"name" json:"name"`
	Email                  string             `bson:"email" json:"email"`
	Phone                  string             `bson:"phone" json:"phone"`
	Avatar                 string             `bson:"avatar" json:"avatar"`
	PasswordHash           string             `bson:"password" json:"-"`
	Role                   Role               `bson:"role" json:"role"`
	Status                 UserStatus         `bson:"status" json:"status"`
	EmailVerified          bool               `bson:"verify_email" json:"verify_email"`
	VerificationCode       *string            `bson:"verify_code" json:"-"`
	VerificationCodeExpiry *time.Time         `bson:"verify_code_expiry" json:"-"`
	ResetAllowedUntil      *time.Time         `bson:"reset_allowed_until,omitempty" json:"-"`
	AccessToken            *string            `bson:"access_token" json:"-"`
	RefreshToken           *string            `bson:"refresh_token" json:"-"`
	LastLoginAt            *time.Time         `bson:"last_login_at,omitempty" json:"last_login_at,omitempty"`
	CreatedAt              time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt              time.Time          `bson:"updated_at" json:"updated_at"`
}

// Profile returns the client facing projection of the user.
func (u *User) Profile() *UserProfile {
	return &UserProfile{
		ID:            u.ID.Hex(),
		Name:          u.Name,
		Email:         u.Email,
		Phone:         u.Phone,
		Avatar:        u.Avatar,
		Role:          u.Role,
		Status:        u.Status,
		EmailVerified: u.EmailVerified,
		LastLoginAt:   u.LastLoginAt,
		CreatedAt:     u.CreatedAt,
	}
}

// UserProfile is the user as returned to clients.
type UserProfile struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	Email         string     `json:"email"`
	Phone         string     `json:"phone"`
	Avatar        string     `json:"avatar"`
	Role          Role       `json:"role"`
	Status        UserStatus `json:"status"`
	EmailVerified bool       `json:"verify_email"`
	LastLoginAt   *time.Time `json:"last_login_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

// RegisterRequest is the registration body.
type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Phone    string `json:"phone" binding:"required"`
	Password string `json:"password" binding:"required,min=6"`
}

// RegisterResult is returned by a successful registration.
type RegisterResult struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
}

// VerifyCodeRequest carries an email and a verification code.
type VerifyCodeRequest struct {
	Email string `json:"email" binding:"required,email"`
	Code  string `json:"code" binding:"required"`
}

// LoginRequest is the login body.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginResult is returned by a successful user login.
type LoginResult struct {
	User         *UserProfile `json:"user"`
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken"`
}

// RefreshRequest optionally carries the refresh token in the body.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// RefreshResult is returned by a successful token refresh.
type RefreshResult struct {
	AccessToken string `json:"accessToken"`
}

// ForgotPasswordRequest starts a password reset.
type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ResetPasswordRequest resets a password with a code in one step.
type ResetPasswordRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Code        string `json:"code" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required,min=6"`
}

// SetPasswordRequest sets a new password after the reset code was verified.
type SetPasswordRequest struct {
	Email           string `json:"email" binding:"required,email"`
	NewPassword     string `json:"newPassword" binding:"required,min=6"`
	ConfirmPassword string `json:"confirmPassword" binding:"required"`
}

// UpdateProfileRequest updates user profile fields. Empty fields are left
// unchanged.
type UpdateProfileRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email" binding:"omitempty,email"`
}

// ChangePasswordRequest changes the password of an authenticated user.
type ChangePasswordRequest struct {
	OldPassword     string `json:"oldPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=6"`
	ConfirmPassword string `json:"confirmPassword" binding:"required"`
}

// VerificationCode is an issued code and the instant it stops being valid.
type VerificationCode struct {
	Value     string
	ExpiresAt time.Time
}
