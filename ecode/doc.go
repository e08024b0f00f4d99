// Package ecode defines the error taxonomy shared by services and the HTTP
// boundary.
//
// Services return *ecode.Error values tagged with a Kind. The boundary maps a
// Kind to a business code and an HTTP status through one fixed table:
//
//	Kind                 HTTP  code
//	KindValidation       400   RequestErr     (-200)
//	KindConflict         409   AlreadyExists  (-409)
//	KindNotFound         404   NothingFound   (-404)
//	KindInvalidCredentials 400 LoginFailed    (-103)
//	KindForbidden        403   AccessDenied   (-403)
//	KindUnauthorized     401   NoLogin        (-101)
//	KindExpired          400   VerifyExpired  (-104)
//	KindInvalidCode      400   VerifyInvalid  (-105)
//	KindMismatch         400   ParamMismatch  (-201)
//	KindDependency       500   ServerErr      (-500)
//
// Usage:
//
//	if user == nil {
//	    return nil, ecode.NotFound(ecode.NotExist("user"))
//	}
//
//	switch ecode.KindOf(err) {
//	case ecode.KindExpired:
//	    // ...
//	}
//
// Any error that is not an *ecode.Error is treated as KindDependency.
package ecode
