package resp

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/ncobase/shopfront/ecode"
	"github.com/ncobase/shopfront/logging/logger"
)

// Exception represents a response before it is written.
type Exception struct {
	Status  int    `json:"-"`                 // HTTP status
	Code    int    `json:"code,omitempty"`    // Business code
	Message string `json:"message,omitempty"` // Message
	Errors  any    `json:"errors,omitempty"`  // Error details
	Data    any    `json:"data,omitempty"`    // Response data
}

// Envelope is the wire shape of every response.
type Envelope struct {
	Success bool   `json:"success"`
	Error   bool   `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code,omitempty"`
	Data    any    `json:"data,omitempty"`
	Errors  any    `json:"errors,omitempty"`
}

// newResponse creates a new response.
func newResponse(status, code int, message string, data ...any) *Exception {
	var responseData any
	if len(data) > 0 {
		responseData = data[0]
	}

	if status < 200 || status >= 400 || code != 0 {
		return &Exception{
			Status:  status,
			Code:    code,
			Message: message,
			Errors:  responseData,
		}
	}

	return &Exception{
		Status:  status,
		Message: message,
		Data:    responseData,
	}
}

// Success handles success responses.
func Success(w http.ResponseWriter, message string, data ...any) {
	WithStatusCode(w, http.StatusOK, message, data...)
}

// WithStatusCode handles success responses with custom status code.
func WithStatusCode(w http.ResponseWriter, statusCode int, message string, data ...any) {
	r := newResponse(statusCode, 0, message, data...)
	if statusCode < 200 || statusCode >= 400 {
		Fail(w, r)
		return
	}

	if r.Message == "" {
		r.Message = "ok"
	}
	writeResponse(w, r.Status, &Envelope{
		Success: true,
		Message: r.Message,
		Data:    r.Data,
	})
}

// Fail handles failure responses.
func Fail(w http.ResponseWriter, r *Exception) {
	if r == nil {
		r = &Exception{
			Status:  http.StatusInternalServerError,
			Code:    ecode.ServerErr,
			Message: ecode.Text(ecode.ServerErr),
		}
	}
	statusCode, result := buildFailureResponse(r)
	writeResponse(w, statusCode, result)
}

// buildFailureResponse builds the failure response.
func buildFailureResponse(r *Exception) (int, *Envelope) {
	status := http.StatusBadRequest
	code := ecode.RequestErr

	if r.Code != 0 {
		code = r.Code
		status = ecode.ToHTTPStatus(code)
	}
	if r.Status != 0 {
		status = r.Status
	}
	message := ecode.Text(code)
	if r.Message != "" {
		message = r.Message
	}

	return status, &Envelope{
		Error:   true,
		Message: message,
		Code:    code,
		Errors:  r.Errors,
	}
}

// encodeFailure is written when a response body cannot be encoded.
var encodeFailure = []byte(`{"success":false,"error":true,"message":"internal server error","code":-500}` + "\n")

// writeResponse writes a JSON body with the given status. The body is
// encoded before the header is sent so an encoding failure can still
// become a 500.
func writeResponse(w http.ResponseWriter, code int, res any) {
	body, err := json.Marshal(res)
	if err != nil {
		logger.StdLogger().Error(context.Background(), "failed to encode response", "status", code, "error", err)
		code, body = http.StatusInternalServerError, encodeFailure
	} else {
		body = append(body, '\n')
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_, _ = w.Write(body)
}
