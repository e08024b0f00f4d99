package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/ncobase/shopfront/ctxutil"
	"github.com/ncobase/shopfront/logging/logger"
	"github.com/ncobase/shopfront/net/resp"
	"github.com/ncobase/shopfront/service"
	"github.com/ncobase/shopfront/structs"
)

// AdminHandler handles HTTP requests for admins.
type AdminHandler struct {
	svc    *service.AdminService
	logger *logger.Logger
}

// NewAdminHandler creates a new admin handler.
func NewAdminHandler(svc *service.AdminService, l *logger.Logger) *AdminHandler {
	return &AdminHandler{svc: svc, logger: l}
}

// Login handles admin login. The token is returned in the body only.
func (h *AdminHandler) Login(c *gin.Context) {
	var req structs.LoginRequest
	if !bind(c, h.logger, &req) {
		return
	}

	result, err := h.svc.Login(c.Request.Context(), &req)
	if err != nil {
		fail(c, h.logger, err)
		return
	}

	resp.Success(c.Writer, "login successful", result)
}

// Me returns the current profile of the resolved admin.
func (h *AdminHandler) Me(c *gin.Context) {
	admin := ctxutil.GetAdmin(c.Request.Context())
	profile, err := h.svc.Profile(c.Request.Context(), admin.ID)
	if err != nil {
		fail(c, h.logger, err)
		return
	}

	resp.Success(c.Writer, "", profile)
}

// UpdateProfile changes the profile of the resolved admin.
func (h *AdminHandler) UpdateProfile(c *gin.Context) {
	var req structs.UpdateAdminRequest
	if !bind(c, h.logger, &req) {
		return
	}

	admin := ctxutil.GetAdmin(c.Request.Context())
	profile, err := h.svc.UpdateProfile(c.Request.Context(), admin.ID, &req)
	if err != nil {
		fail(c, h.logger, err)
		return
	}

	resp.Success(c.Writer, "profile updated", profile)
}

// DashboardStats returns store counts.
func (h *AdminHandler) DashboardStats(c *gin.Context) {
	stats, err := h.svc.DashboardStats(c.Request.Context())
	if err != nil {
		fail(c, h.logger, err)
		return
	}

	resp.Success(c.Writer, "", stats)
}

// UserDetails returns the profile of any user.
func (h *AdminHandler) UserDetails(c *gin.Context) {
	profile, err := h.svc.User(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, h.logger, err)
		return
	}

	resp.Success(c.Writer, "", profile)
}
