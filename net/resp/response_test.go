package resp

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ncobase/shopfront/ecode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestSuccess(t *testing.T) {
	w := httptest.NewRecorder()
	Success(w, "login successful", map[string]string{"accessToken": "t"})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json; charset=utf-8", w.Header().Get("Content-Type"))
	body := decode(t, w)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, false, body["error"])
	assert.Equal(t, "login successful", body["message"])
	assert.Equal(t, map[string]any{"accessToken": "t"}, body["data"])
	assert.NotContains(t, body, "errors")
}

func TestSuccessUnencodableData(t *testing.T) {
	w := httptest.NewRecorder()
	Success(w, "", make(chan int))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "application/json; charset=utf-8", w.Header().Get("Content-Type"))
	body := decode(t, w)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, true, body["error"])
	assert.Equal(t, "internal server error", body["message"])
}

func TestWithStatusCodeCreated(t *testing.T) {
	w := httptest.NewRecorder()
	WithStatusCode(w, http.StatusCreated, "", nil)

	assert.Equal(t, http.StatusCreated, w.Code)
	body := decode(t, w)
	assert.Equal(t, "ok", body["message"])
	assert.NotContains(t, body, "data")
}

func TestFailFromError(t *testing.T) {
	cases := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"validation", ecode.Validation("email required"), http.StatusBadRequest, "email required"},
		{"conflict", ecode.Conflict("email already exists"), http.StatusConflict, "email already exists"},
		{"credentials", ecode.InvalidCredentials(), http.StatusBadRequest, ecode.Text(ecode.LoginFailed)},
		{"forbidden", ecode.Forbidden("verify your email"), http.StatusForbidden, "verify your email"},
		{"expired", ecode.CodeExpired(), http.StatusBadRequest, ecode.Text(ecode.VerifyExpired)},
		{"dependency", ecode.Dependency("send email", errors.New("smtp down")), http.StatusInternalServerError, "send email"},
		{"unclassified", errors.New("driver exploded"), http.StatusInternalServerError, ecode.Text(ecode.ServerErr)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			Fail(w, FromError(tc.err))

			assert.Equal(t, tc.status, w.Code)
			body := decode(t, w)
			assert.Equal(t, false, body["success"])
			assert.Equal(t, true, body["error"])
			assert.Equal(t, tc.message, body["message"])
		})
	}
}

func TestFailCarriesReason(t *testing.T) {
	w := httptest.NewRecorder()
	Fail(w, FromError(ecode.Unauthorized("token expired").WithReason("expired")))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	body := decode(t, w)
	assert.Equal(t, map[string]any{"reason": "expired"}, body["errors"])
	assert.Equal(t, float64(ecode.NoLogin), body["code"])
}

func TestFailNil(t *testing.T) {
	w := httptest.NewRecorder()
	Fail(w, nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
