package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ncobase/shopfront/ctxutil"
	"github.com/ncobase/shopfront/logging/logger"
)

// TraceHeader carries the trace id of a request.
const TraceHeader = "X-Trace-ID"

// Trace attaches a trace id to each request, reusing an incoming one.
func Trace() gin.HandlerFunc {
	return func(c *gin.Context) {
		traceID := c.GetHeader(TraceHeader)
		if traceID == "" {
			_, traceID = ctxutil.EnsureTraceID(c.Request.Context())
		}
		ctxutil.Bind(c, ctxutil.TraceIDKey, traceID)
		c.Header(TraceHeader, traceID)
		c.Next()
	}
}

// Logger logs one line per request.
func Logger(l *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		kv := []any{
			"method", c.Request.Method,
			"path", path,
			"status", c.Writer.Status(),
			"latency", time.Since(start).String(),
			"client_ip", c.ClientIP(),
		}
		if len(c.Errors) > 0 {
			kv = append(kv, "errors", c.Errors.String())
		}

		switch status := c.Writer.Status(); {
		case status >= 500:
			l.Error(c.Request.Context(), "request", kv...)
		case status >= 400:
			l.Warn(c.Request.Context(), "request", kv...)
		default:
			l.Info(c.Request.Context(), "request", kv...)
		}
	}
}
