package ecode

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindStatusTable(t *testing.T) {
	cases := []struct {
		kind   Kind
		status int
		code   int
	}{
		{KindValidation, http.StatusBadRequest, RequestErr},
		{KindConflict, http.StatusConflict, AlreadyExists},
		{KindNotFound, http.StatusNotFound, NothingFound},
		{KindInvalidCredentials, http.StatusBadRequest, LoginFailed},
		{KindForbidden, http.StatusForbidden, AccessDenied},
		{KindUnauthorized, http.StatusUnauthorized, NoLogin},
		{KindExpired, http.StatusBadRequest, VerifyExpired},
		{KindInvalidCode, http.StatusBadRequest, VerifyInvalid},
		{KindMismatch, http.StatusBadRequest, ParamMismatch},
		{KindDependency, http.StatusInternalServerError, ServerErr},
	}
	for _, tc := range cases {
		t.Run(tc.kind.String(), func(t *testing.T) {
			assert.Equal(t, tc.status, tc.kind.Status())
			assert.Equal(t, tc.code, tc.kind.Code())
		})
	}
}

func TestKindOf(t *testing.T) {
	err := fmt.Errorf("login: %w", InvalidCredentials())
	assert.Equal(t, KindInvalidCredentials, KindOf(err))
	assert.True(t, Is(err, KindInvalidCredentials))
	assert.False(t, Is(err, KindForbidden))

	assert.Equal(t, KindDependency, KindOf(errors.New("boom")))
}

func TestErrorMessage(t *testing.T) {
	cause := errors.New("connection refused")
	err := Dependency("find user", cause)
	assert.Equal(t, "find user: connection refused", err.Error())
	assert.ErrorIs(t, err, cause)

	assert.Equal(t, Text(VerifyExpired), CodeExpired().Error())
	assert.Equal(t, "expired", Unauthorized("token expired").WithReason("expired").Reason)
}

func TestMessageHelpers(t *testing.T) {
	assert.Equal(t, "email required", FieldIsRequired("email"))
	assert.Equal(t, "user does not exist", NotExist("user"))
	assert.Equal(t, "email already exists", AlreadyExist("email"))
	assert.Equal(t, "passwords do not match", Mismatched("passwords"))
}
