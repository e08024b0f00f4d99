package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ncobase/shopfront/ctxutil"
	"github.com/ncobase/shopfront/logging/logger"
	"github.com/ncobase/shopfront/net/cookie"
	"github.com/ncobase/shopfront/net/resp"
	"github.com/ncobase/shopfront/security/jwt"
	"github.com/ncobase/shopfront/service"
	"github.com/ncobase/shopfront/structs"
)

// UserHandler handles HTTP requests for user accounts.
type UserHandler struct {
	svc     *service.UserService
	cookies cookie.Options
	logger  *logger.Logger
}

// NewUserHandler creates a new user handler.
func NewUserHandler(svc *service.UserService, cookies cookie.Options, l *logger.Logger) *UserHandler {
	return &UserHandler{svc: svc, cookies: cookies, logger: l}
}

// Register handles account registration.
func (h *UserHandler) Register(c *gin.Context) {
	var req structs.RegisterRequest
	if !bind(c, h.logger, &req) {
		return
	}

	result, err := h.svc.Register(c.Request.Context(), &req)
	if err != nil {
		fail(c, h.logger, err)
		return
	}

	resp.WithStatusCode(c.Writer, http.StatusCreated,
		"registered, check your email for the verification code", result)
}

// VerifyEmail handles email verification.
func (h *UserHandler) VerifyEmail(c *gin.Context) {
	var req structs.VerifyCodeRequest
	if !bind(c, h.logger, &req) {
		return
	}

	profile, err := h.svc.VerifyEmail(c.Request.Context(), &req)
	if err != nil {
		fail(c, h.logger, err)
		return
	}

	resp.Success(c.Writer, "email verified", profile)
}

// Login handles user login and sets the token cookies.
func (h *UserHandler) Login(c *gin.Context) {
	var req structs.LoginRequest
	if !bind(c, h.logger, &req) {
		return
	}

	result, err := h.svc.Login(c.Request.Context(), &req)
	if err != nil {
		fail(c, h.logger, err)
		return
	}

	cookie.Set(c.Writer, result.AccessToken, result.RefreshToken, h.cookies)
	resp.Success(c.Writer, "login successful", result)
}

// Logout clears the session and the token cookies.
func (h *UserHandler) Logout(c *gin.Context) {
	if err := h.svc.Logout(c.Request.Context(), ctxutil.GetUserID(c.Request.Context())); err != nil {
		fail(c, h.logger, err)
		return
	}

	cookie.Clear(c.Writer, h.cookies)
	resp.Success(c.Writer, "logout successful")
}

// refreshToken looks for the refresh token in the cookie, then the
// Authorization header, then the JSON body.
func refreshToken(c *gin.Context) string {
	if token, err := cookie.Get(c.Request, cookie.RefreshTokenName); err == nil && token != "" {
		return token
	}
	if token, ok := jwt.BearerToken(c.GetHeader("Authorization")); ok {
		return token
	}
	var body structs.RefreshRequest
	if c.Request.ContentLength != 0 && c.ShouldBindJSON(&body) == nil {
		return body.RefreshToken
	}
	return ""
}

// Refresh mints a new access token.
func (h *UserHandler) Refresh(c *gin.Context) {
	result, err := h.svc.Refresh(c.Request.Context(), refreshToken(c))
	if err != nil {
		fail(c, h.logger, err)
		return
	}

	cookie.SetAccessToken(c.Writer, result.AccessToken, h.cookies)
	resp.Success(c.Writer, "access token refreshed", result)
}

// ForgotPassword mails a password reset code.
func (h *UserHandler) ForgotPassword(c *gin.Context) {
	var req structs.ForgotPasswordRequest
	if !bind(c, h.logger, &req) {
		return
	}

	if err := h.svc.ForgotPassword(c.Request.Context(), &req); err != nil {
		fail(c, h.logger, err)
		return
	}

	resp.Success(c.Writer, "check your email for the reset code")
}

// VerifyResetCode checks a reset code, the first step of the split reset.
func (h *UserHandler) VerifyResetCode(c *gin.Context) {
	var req structs.VerifyCodeRequest
	if !bind(c, h.logger, &req) {
		return
	}

	if err := h.svc.VerifyResetCode(c.Request.Context(), &req); err != nil {
		fail(c, h.logger, err)
		return
	}

	resp.Success(c.Writer, "code verified, you can now set a new password")
}

// SetNewPassword sets the password, the second step of the split reset.
func (h *UserHandler) SetNewPassword(c *gin.Context) {
	var req structs.SetPasswordRequest
	if !bind(c, h.logger, &req) {
		return
	}

	if err := h.svc.SetNewPassword(c.Request.Context(), &req); err != nil {
		fail(c, h.logger, err)
		return
	}

	resp.Success(c.Writer, "password updated")
}

// ResetPassword checks a code and sets the password in one request.
func (h *UserHandler) ResetPassword(c *gin.Context) {
	var req structs.ResetPasswordRequest
	if !bind(c, h.logger, &req) {
		return
	}

	if err := h.svc.ResetPassword(c.Request.Context(), &req); err != nil {
		fail(c, h.logger, err)
		return
	}

	resp.Success(c.Writer, "password updated")
}

// Details returns the profile of the resolved user.
func (h *UserHandler) Details(c *gin.Context) {
	profile, err := h.svc.Profile(c.Request.Context(), ctxutil.GetUserID(c.Request.Context()))
	if err != nil {
		fail(c, h.logger, err)
		return
	}

	resp.Success(c.Writer, "", profile)
}

// UpdateProfile changes the profile of the resolved user.
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req structs.UpdateProfileRequest
	if !bind(c, h.logger, &req) {
		return
	}

	profile, err := h.svc.UpdateProfile(c.Request.Context(), ctxutil.GetUserID(c.Request.Context()), &req)
	if err != nil {
		fail(c, h.logger, err)
		return
	}

	resp.Success(c.Writer, "profile updated", profile)
}

// ChangePassword changes the password of the resolved user.
func (h *UserHandler) ChangePassword(c *gin.Context) {
	var req structs.ChangePasswordRequest
	if !bind(c, h.logger, &req) {
		return
	}

	if err := h.svc.ChangePassword(c.Request.Context(), ctxutil.GetUserID(c.Request.Context()), &req); err != nil {
		fail(c, h.logger, err)
		return
	}

	resp.Success(c.Writer, "password changed")
}
