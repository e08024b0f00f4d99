package ctxutil

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/ncobase/shopfront/structs"
)

type ctxKey string

const (
	userIDKey  = "user_id"
	adminKey   = "admin"
	TraceIDKey = "trace_id"
)

// GetValue retrieves a value from the context.
func GetValue(ctx context.Context, key string) any {
	if ctx == nil {
		return nil
	}
	return ctx.Value(ctxKey(key))
}

// SetValue sets a value to the context.
func SetValue(ctx context.Context, key string, val any) context.Context {
	return context.WithValue(ctx, ctxKey(key), val)
}

// Bind stores key/val on the gin context and on its request context.
func Bind(c *gin.Context, key string, val any) {
	c.Set(key, val)
	c.Request = c.Request.WithContext(context.WithValue(c.Request.Context(), ctxKey(key), val))
}

// BindUserID attaches the resolved user id to the request.
func BindUserID(c *gin.Context, uid string) {
	Bind(c, userIDKey, uid)
}

// GetUserID gets user id from context.Context.
func GetUserID(ctx context.Context) string {
	if uid, ok := GetValue(ctx, userIDKey).(string); ok {
		return uid
	}
	return ""
}

// BindAdmin attaches the resolved admin to the request.
func BindAdmin(c *gin.Context, admin *structs.AdminProfile) {
	Bind(c, adminKey, admin)
}

// GetAdmin gets the resolved admin from context.Context.
func GetAdmin(ctx context.Context) *structs.AdminProfile {
	if admin, ok := GetValue(ctx, adminKey).(*structs.AdminProfile); ok {
		return admin
	}
	return nil
}

// GetTraceID gets trace id from context.Context.
func GetTraceID(ctx context.Context) string {
	if traceID, ok := GetValue(ctx, TraceIDKey).(string); ok {
		return traceID
	}
	return ""
}

// SetTraceID sets trace id to context.Context.
func SetTraceID(ctx context.Context, traceID string) context.Context {
	return SetValue(ctx, TraceIDKey, traceID)
}

// EnsureTraceID ensures that a trace ID exists in the context.
func EnsureTraceID(ctx context.Context) (context.Context, string) {
	if traceID := GetTraceID(ctx); traceID != "" {
		return ctx, traceID
	}
	traceID := uuid.NewString()
	return SetTraceID(ctx, traceID), traceID
}
