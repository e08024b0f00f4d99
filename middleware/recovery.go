package middleware

import (
	"fmt"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"github.com/ncobase/shopfront/logging/logger"
	"github.com/ncobase/shopfront/net/resp"
)

// Recovery turns a panic into a 500 envelope.
func Recovery(l *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				l.Error(c.Request.Context(), "panic recovered",
					"panic", fmt.Sprint(r),
					"path", c.Request.URL.Path,
					"stack", string(debug.Stack()),
				)
				if !c.Writer.Written() {
					resp.Fail(c.Writer, nil)
				}
				c.Abort()
			}
		}()
		c.Next()
	}
}
