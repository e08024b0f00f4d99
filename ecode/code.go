package ecode

import "net/http"

// Business codes carried in failure envelopes.
const (
	OK            = 0
	NoLogin       = -101
	UserDisabled  = -102
	LoginFailed   = -103
	VerifyExpired = -104
	VerifyInvalid = -105
	RequestErr    = -200
	ParamMismatch = -201
	AccessDenied  = -403
	NothingFound  = -404
	AlreadyExists = -409
	ServerErr     = -500
)

var codeText = map[int]string{
	OK:            "ok",
	NoLogin:       "authentication required",
	UserDisabled:  "account disabled",
	LoginFailed:   "invalid email or password",
	VerifyExpired: "verification code expired",
	VerifyInvalid: "invalid verification code",
	RequestErr:    "invalid request",
	ParamMismatch: "parameters do not match",
	AccessDenied:  "access denied",
	NothingFound:  "not found",
	AlreadyExists: "already exists",
	ServerErr:     "internal server error",
}

var codeStatus = map[int]int{
	OK:            http.StatusOK,
	NoLogin:       http.StatusUnauthorized,
	UserDisabled:  http.StatusForbidden,
	LoginFailed:   http.StatusBadRequest,
	VerifyExpired: http.StatusBadRequest,
	VerifyInvalid: http.StatusBadRequest,
	RequestErr:    http.StatusBadRequest,
	ParamMismatch: http.StatusBadRequest,
	AccessDenied:  http.StatusForbidden,
	NothingFound:  http.StatusNotFound,
	AlreadyExists: http.StatusConflict,
	ServerErr:     http.StatusInternalServerError,
}

// Text returns the default message for a business code.
func Text(code int) string {
	if t, ok := codeText[code]; ok {
		return t
	}
	return codeText[ServerErr]
}

// ToHTTPStatus maps a business code to an HTTP status.
func ToHTTPStatus(code int) int {
	if s, ok := codeStatus[code]; ok {
		return s
	}
	return http.StatusInternalServerError
}
