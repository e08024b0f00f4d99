// Package cookie sets and clears the accessToken and refreshToken cookies.
//
// Usage:
//
//	opts := cookie.NewOptions(cfg.Cookie, cfg.Auth.JWT.AccessExpire, cfg.Auth.JWT.RefreshExpire)
//	cookie.Set(c.Writer, result.AccessToken, result.RefreshToken, opts)
//	cookie.Clear(c.Writer, opts)
package cookie
