package cookie

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ncobase/shopfront/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cookiesByName(w *httptest.ResponseRecorder) map[string]*http.Cookie {
	out := map[string]*http.Cookie{}
	for _, c := range w.Result().Cookies() {
		out[c.Name] = c
	}
	return out
}

func TestSetTokens(t *testing.T) {
	opts := NewOptions(&config.Cookie{Secure: true, SameSite: "none"}, time.Hour, 7*24*time.Hour)
	w := httptest.NewRecorder()

	Set(w, "access", "refresh", opts)

	got := cookiesByName(w)
	require.Len(t, got, 2)

	access := got[AccessTokenName]
	assert.Equal(t, "access", access.Value)
	assert.True(t, access.HttpOnly)
	assert.True(t, access.Secure)
	assert.Equal(t, http.SameSiteNoneMode, access.SameSite)
	assert.Equal(t, "/", access.Path)
	assert.Equal(t, 3600, access.MaxAge)

	assert.Equal(t, 7*24*3600, got[RefreshTokenName].MaxAge)
}

func TestSetSkipsEmpty(t *testing.T) {
	w := httptest.NewRecorder()
	Set(w, "access", "", NewOptions(nil, time.Hour, 2*time.Hour))
	got := cookiesByName(w)
	assert.Contains(t, got, AccessTokenName)
	assert.NotContains(t, got, RefreshTokenName)
}

func TestClear(t *testing.T) {
	w := httptest.NewRecorder()
	Clear(w, NewOptions(&config.Cookie{Domain: "shop.example.com", Secure: true}, time.Hour, 2*time.Hour))

	got := cookiesByName(w)
	require.Len(t, got, 2)
	for _, c := range got {
		assert.Empty(t, c.Value)
		assert.Less(t, c.MaxAge, 0)
		assert.Equal(t, "shop.example.com", c.Domain)
	}
}

func TestFormatDomain(t *testing.T) {
	assert.Equal(t, "localhost", formatDomain("localhost"))
	assert.Equal(t, ".example.com", formatDomain("example.com"))
	assert.Equal(t, ".example.com", formatDomain(".example.com"))
}

func TestGet(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: RefreshTokenName, Value: "r1"})

	v, err := Get(r, RefreshTokenName)
	require.NoError(t, err)
	assert.Equal(t, "r1", v)

	_, err = Get(r, AccessTokenName)
	assert.Error(t, err)
}
