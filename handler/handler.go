// Package handler provides the HTTP handlers and routes of shopfront.
package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/ncobase/shopfront/ecode"
	"github.com/ncobase/shopfront/logging/logger"
	"github.com/ncobase/shopfront/middleware"
	"github.com/ncobase/shopfront/net/cookie"
	"github.com/ncobase/shopfront/net/resp"
	"github.com/ncobase/shopfront/service"
	"github.com/ncobase/shopfront/structs"
	"github.com/ncobase/shopfront/validation/validator"
)

// HealthChecker reports the status of backing stores.
type HealthChecker interface {
	Health(ctx context.Context) map[string]string
}

// Options configures the handlers.
type Options struct {
	Cookie          cookie.Options
	AllowQueryToken bool
	Health          HealthChecker
}

// Handler aggregates all HTTP handlers.
type Handler struct {
	User   *UserHandler
	Admin  *AdminHandler
	MyList *MyListHandler
	Health *HealthHandler

	svc    *service.Service
	opts   Options
	logger *logger.Logger
}

// New creates a new handler instance with all sub-handlers initialized.
func New(svc *service.Service, opts Options, l *logger.Logger) *Handler {
	return &Handler{
		User:   NewUserHandler(svc.User, opts.Cookie, l),
		Admin:  NewAdminHandler(svc.Admin, l),
		MyList: NewMyListHandler(svc.MyList, l),
		Health: NewHealthHandler(opts.Health),
		svc:    svc,
		opts:   opts,
		logger: l,
	}
}

// NewEngine builds the gin engine with middleware and routes.
func NewEngine(h *Handler) *gin.Engine {
	r := gin.New()
	r.Use(middleware.Trace(), middleware.Logger(h.logger), middleware.Recovery(h.logger))
	r.NoRoute(func(c *gin.Context) {
		resp.Fail(c.Writer, resp.NotFound(ecode.Text(ecode.NothingFound)))
	})
	h.RegisterRoutes(r)
	return r
}

// RegisterRoutes registers all HTTP routes.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	userAuth := middleware.UserAuth(h.svc.Tokens.Access, h.opts.AllowQueryToken)
	adminAuth := middleware.AdminAuth(h.svc.Tokens.Admin, h.svc.Admin)

	r.GET("/health", h.Health.Check)

	api := r.Group("/api")
	{
		users := api.Group("/users")
		{
			users.POST("/register", h.User.Register)
			users.POST("/verify-email", h.User.VerifyEmail)
			users.POST("/login", h.User.Login)
			users.GET("/logout", userAuth, h.User.Logout)
			users.POST("/refresh-token", h.User.Refresh)
			users.POST("/forgot-password", h.User.ForgotPassword)
			users.POST("/forgot-password/verify", h.User.VerifyResetCode)
			users.POST("/reset-password", h.User.SetNewPassword)
			users.POST("/reset-password/confirm", h.User.ResetPassword)
			users.GET("/user-details", userAuth, h.User.Details)
			users.PUT("/profile", userAuth, h.User.UpdateProfile)
			users.PUT("/change-password", userAuth, h.User.ChangePassword)
		}

		admin := api.Group("/admin")
		{
			admin.POST("/login", h.Admin.Login)
			admin.GET("/me", adminAuth, h.Admin.Me)
			admin.PUT("/profile", adminAuth, h.Admin.UpdateProfile)
			admin.GET("/dashboard-stats", adminAuth,
				middleware.RequireRole(structs.RoleSuperAdmin, structs.RoleAdmin), h.Admin.DashboardStats)
			admin.GET("/users/:id", adminAuth,
				middleware.RequireRole(structs.RoleSuperAdmin), h.Admin.UserDetails)
		}

		mylist := api.Group("/mylist", userAuth)
		{
			mylist.POST("", h.MyList.Add)
			mylist.GET("", h.MyList.List)
			mylist.DELETE("/:id", h.MyList.Delete)
		}
	}
}

// bind decodes the JSON body into obj and writes a 400 on failure.
func bind(c *gin.Context, l *logger.Logger, obj any) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		l.Warn(c.Request.Context(), "invalid request", "path", c.FullPath(), "error", err)
		resp.Fail(c.Writer, resp.FromError(validator.BindError(obj, err)))
		return false
	}
	return true
}

// fail writes err as a failure envelope. Dependency failures are logged
// since their cause is not returned to the client.
func fail(c *gin.Context, l *logger.Logger, err error) {
	if ecode.KindOf(err) == ecode.KindDependency {
		l.Error(c.Request.Context(), "request failed", "path", c.FullPath(), "error", err)
	}
	resp.Fail(c.Writer, resp.FromError(err))
}
