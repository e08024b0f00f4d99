package ecode

import "errors"

// Kind classifies a failure for the HTTP boundary.
type Kind int

const (
	KindDependency Kind = iota
	KindValidation
	KindConflict
	KindNotFound
	KindInvalidCredentials
	KindForbidden
	KindUnauthorized
	KindExpired
	KindInvalidCode
	KindMismatch
)

var kindNames = map[Kind]string{
	KindDependency:         "dependency",
	KindValidation:         "validation",
	KindConflict:           "conflict",
	KindNotFound:           "not_found",
	KindInvalidCredentials: "invalid_credentials",
	KindForbidden:          "forbidden",
	KindUnauthorized:       "unauthorized",
	KindExpired:            "expired",
	KindInvalidCode:        "invalid_code",
	KindMismatch:           "mismatch",
}

var kindCodes = map[Kind]int{
	KindDependency:         ServerErr,
	KindValidation:         RequestErr,
	KindConflict:           AlreadyExists,
	KindNotFound:           NothingFound,
	KindInvalidCredentials: LoginFailed,
	KindForbidden:          AccessDenied,
	KindUnauthorized:       NoLogin,
	KindExpired:            VerifyExpired,
	KindInvalidCode:        VerifyInvalid,
	KindMismatch:           ParamMismatch,
}

func (k Kind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return "unknown"
}

// Code returns the business code of the kind.
func (k Kind) Code() int {
	if c, ok := kindCodes[k]; ok {
		return c
	}
	return ServerErr
}

// Status returns the HTTP status of the kind.
func (k Kind) Status() int {
	return ToHTTPStatus(k.Code())
}

// Error is a classified failure returned by services.
type Error struct {
	Kind    Kind
	Message string
	// Reason is a short machine readable detail, e.g. "expired" for tokens.
	Reason string
	// Fields holds per-field validation messages.
	Fields map[string]string
	Err    error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = Text(e.Kind.Code())
	}
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Code returns the business code.
func (e *Error) Code() int {
	return e.Kind.Code()
}

// Status returns the HTTP status.
func (e *Error) Status() int {
	return e.Kind.Status()
}

// WithReason sets the reason and returns the error.
func (e *Error) WithReason(reason string) *Error {
	e.Reason = reason
	return e
}

// WithFields sets the validation fields and returns the error.
func (e *Error) WithFields(fields map[string]string) *Error {
	e.Fields = fields
	return e
}

// New creates a classified error.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap creates a classified error around a cause.
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf returns the kind of err. Unclassified errors are dependency failures.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindDependency
}

// Is reports whether err is classified as kind.
func Is(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}

// Validation creates a validation error.
func Validation(message string) *Error { return New(KindValidation, message) }

// Conflict creates a conflict error.
func Conflict(message string) *Error { return New(KindConflict, message) }

// NotFound creates a not found error.
func NotFound(message string) *Error { return New(KindNotFound, message) }

// InvalidCredentials creates an invalid credentials error.
func InvalidCredentials() *Error { return New(KindInvalidCredentials, Text(LoginFailed)) }

// Forbidden creates a forbidden error.
func Forbidden(message string) *Error { return New(KindForbidden, message) }

// Unauthorized creates an unauthorized error.
func Unauthorized(message string) *Error { return New(KindUnauthorized, message) }

// CodeExpired creates a verification code expired error.
func CodeExpired() *Error { return New(KindExpired, Text(VerifyExpired)) }

// InvalidCode creates an invalid verification code error.
func InvalidCode() *Error { return New(KindInvalidCode, Text(VerifyInvalid)) }

// Mismatch creates a mismatch error.
func Mismatch(message string) *Error { return New(KindMismatch, message) }

// Dependency wraps a failure of a store, sender or other collaborator.
func Dependency(message string, err error) *Error { return Wrap(KindDependency, message, err) }
