// Package middleware provides the request gates and the request logging of
// the shopfront HTTP server.
package middleware

import (
	"context"
	"slices"

	"github.com/gin-gonic/gin"
	"github.com/ncobase/shopfront/ctxutil"
	"github.com/ncobase/shopfront/ecode"
	"github.com/ncobase/shopfront/net/cookie"
	"github.com/ncobase/shopfront/net/resp"
	"github.com/ncobase/shopfront/security/jwt"
	"github.com/ncobase/shopfront/structs"
)

// AdminFinder loads the admin named by a token subject.
type AdminFinder interface {
	Find(ctx context.Context, adminID string) (*structs.Admin, error)
}

func abort(c *gin.Context, err error) {
	resp.Fail(c.Writer, resp.FromError(err))
	c.Abort()
}

func tokenError(err error) *ecode.Error {
	if jwt.ReasonOf(err) == jwt.ReasonExpired {
		return ecode.Unauthorized(jwt.ErrTokenExpired.Error()).WithReason(jwt.ReasonExpired)
	}
	return ecode.Unauthorized(jwt.ErrInvalidToken.Error()).WithReason(jwt.ReasonInvalid)
}

// userToken looks for the access token in the cookie, then the
// Authorization header, then the token query parameter.
func userToken(c *gin.Context, allowQuery bool) string {
	if token, err := cookie.Get(c.Request, cookie.AccessTokenName); err == nil && token != "" {
		return token
	}
	if token, ok := jwt.BearerToken(c.GetHeader("Authorization")); ok {
		return token
	}
	if allowQuery {
		return c.Query("token")
	}
	return ""
}

// UserAuth requires a valid user access token and attaches its subject to
// the request. The store is not consulted.
func UserAuth(tokens *jwt.TokenManager, allowQuery bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := userToken(c, allowQuery)
		if token == "" {
			abort(c, ecode.Unauthorized(ecode.Text(ecode.NoLogin)))
			return
		}

		claims, err := tokens.Verify(token)
		if err != nil {
			abort(c, tokenError(err))
			return
		}

		ctxutil.BindUserID(c, claims.Subject)
		c.Next()
	}
}

// AdminAuth requires an admin token in the Authorization header, loads the
// admin and attaches its profile to the request.
func AdminAuth(tokens *jwt.TokenManager, admins AdminFinder) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := jwt.BearerToken(c.GetHeader("Authorization"))
		if !ok {
			abort(c, ecode.Unauthorized(ecode.Text(ecode.NoLogin)))
			return
		}

		claims, err := tokens.Parse(token)
		if err != nil {
			abort(c, tokenError(err))
			return
		}
		if claims.Type != jwt.TypeAdmin {
			abort(c, ecode.Forbidden("admin access required"))
			return
		}

		admin, err := admins.Find(c.Request.Context(), claims.Subject)
		if err != nil {
			abort(c, err)
			return
		}
		if !admin.IsActive {
			abort(c, ecode.Forbidden(ecode.Text(ecode.UserDisabled)))
			return
		}

		ctxutil.BindAdmin(c, admin.Profile())
		c.Next()
	}
}

// RequireRole allows only admins holding one of roles. Mount it after
// AdminAuth.
func RequireRole(roles ...structs.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		admin := ctxutil.GetAdmin(c.Request.Context())
		if admin == nil {
			abort(c, ecode.Unauthorized(ecode.Text(ecode.NoLogin)))
			return
		}
		if !slices.Contains(roles, admin.Role) {
			abort(c, ecode.Forbidden("insufficient permissions"))
			return
		}
		c.Next()
	}
}
