package cookie

import (
	"net/http"
	"strings"
	"time"

	"github.com/ncobase/shopfront/config"
)

// Cookie names
const (
	AccessTokenName  = "accessToken"
	RefreshTokenName = "refreshToken"
)

// Options controls the attributes of token cookies.
type Options struct {
	Domain        string
	Secure        bool
	SameSite      http.SameSite
	AccessMaxAge  int
	RefreshMaxAge int
}

// NewOptions builds cookie options from configuration and token lifetimes.
func NewOptions(c *config.Cookie, accessTTL, refreshTTL time.Duration) Options {
	opts := Options{
		Secure:        true,
		SameSite:      http.SameSiteNoneMode,
		AccessMaxAge:  int(accessTTL.Seconds()),
		RefreshMaxAge: int(refreshTTL.Seconds()),
	}
	if c != nil {
		opts.Domain = c.Domain
		opts.Secure = c.Secure
		opts.SameSite = parseSameSite(c.SameSite)
	}
	return opts
}

func parseSameSite(s string) http.SameSite {
	switch strings.ToLower(s) {
	case "lax":
		return http.SameSiteLaxMode
	case "strict":
		return http.SameSiteStrictMode
	default:
		return http.SameSiteNoneMode
	}
}

// formatDomain formats the domain
func formatDomain(domain string) string {
	if domain != "localhost" && !strings.HasPrefix(domain, ".") {
		return "." + domain
	}
	return domain
}

func (o Options) cookie(name, value string, maxAge int) *http.Cookie {
	c := &http.Cookie{
		Name:     name,
		Value:    value,
		MaxAge:   maxAge,
		Path:     "/",
		Secure:   o.Secure,
		HttpOnly: true,
		SameSite: o.SameSite,
	}
	if o.Domain != "" {
		c.Domain = formatDomain(o.Domain)
	}
	return c
}

// Set sets both token cookies. Empty tokens are skipped.
func Set(w http.ResponseWriter, accessToken, refreshToken string, opts Options) {
	if accessToken != "" {
		SetAccessToken(w, accessToken, opts)
	}
	if refreshToken != "" {
		SetRefreshToken(w, refreshToken, opts)
	}
}

// SetAccessToken sets access token cookie
func SetAccessToken(w http.ResponseWriter, accessToken string, opts Options) {
	http.SetCookie(w, opts.cookie(AccessTokenName, accessToken, opts.AccessMaxAge))
}

// SetRefreshToken sets refresh token cookie
func SetRefreshToken(w http.ResponseWriter, refreshToken string, opts Options) {
	http.SetCookie(w, opts.cookie(RefreshTokenName, refreshToken, opts.RefreshMaxAge))
}

// Clear clears token cookies
func Clear(w http.ResponseWriter, opts Options) {
	http.SetCookie(w, opts.cookie(AccessTokenName, "", -1))
	http.SetCookie(w, opts.cookie(RefreshTokenName, "", -1))
}

// Get gets cookie value by name
func Get(r *http.Request, key string) (string, error) {
	cookie, err := r.Cookie(key)
	if err != nil {
		return "", err
	}
	return cookie.Value, nil
}
