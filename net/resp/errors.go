package resp

import (
	"errors"
	"net/http"

	"github.com/ncobase/shopfront/ecode"
)

// FromError converts a service error into a failure response. Errors that
// are not *ecode.Error become a generic 500; their detail stays in the logs.
func FromError(err error) *Exception {
	var e *ecode.Error
	if !errors.As(err, &e) {
		return InternalServer(ecode.Text(ecode.ServerErr))
	}

	message := e.Message
	if message == "" {
		message = ecode.Text(e.Code())
	}

	var details any
	switch {
	case len(e.Fields) > 0:
		details = e.Fields
	case e.Reason != "":
		details = map[string]string{"reason": e.Reason}
	}

	return newResponse(e.Status(), e.Code(), message, details)
}

// NotFound indicates that the requested resource is not found.
func NotFound(message string, data ...any) *Exception {
	return newResponse(http.StatusNotFound, ecode.NothingFound, message, data...)
}

// InternalServer indicates a server error.
func InternalServer(message string, data ...any) *Exception {
	return newResponse(http.StatusInternalServerError, ecode.ServerErr, message, data...)
}
