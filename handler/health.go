package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/ncobase/shopfront/net/resp"
	"github.com/ncobase/shopfront/version"
)

// HealthHandler reports liveness and store status.
type HealthHandler struct {
	checker HealthChecker
}

// NewHealthHandler creates a health handler. A nil checker reports only
// the version.
func NewHealthHandler(checker HealthChecker) *HealthHandler {
	return &HealthHandler{checker: checker}
}

// Check handles GET /health.
func (h *HealthHandler) Check(c *gin.Context) {
	status := map[string]string{"version": version.Version}
	healthy := true
	if h.checker != nil {
		for name, s := range h.checker.Health(c.Request.Context()) {
			status[name] = s
			if s != "ok" {
				healthy = false
			}
		}
	}

	if !healthy {
		resp.Fail(c.Writer, resp.InternalServer("unhealthy", status))
		return
	}
	resp.Success(c.Writer, "ok", status)
}
