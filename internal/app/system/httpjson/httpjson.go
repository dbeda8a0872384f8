// Package httpjson is the response layer for the console API. Every
// handler reply is either a success payload or the error envelope
//
//	{"error": {"code": "...", "message": "...", "details": ...}}
//
// The presentation layer renders these verbatim; it performs no
// business-rule evaluation of its own.
package httpjson

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

// Error codes understood by the console. These mirror the failure
// taxonomy of the core packages one-to-one.
const (
	CodeValidation      = "validation"
	CodeGenderMismatch  = "gender_mismatch"
	CodeMentorAssigned  = "mentor_already_assigned"
	CodeConfirmRequired = "reassign_confirmation_required"
	CodeNotFound        = "not_found"
	CodeStore           = "store_unavailable"
	CodeUnauthorized    = "unauthorized"
	CodeForbidden       = "forbidden"
)

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type errorEnvelope struct {
	Error errorBody `json:"error"`
}

// Respond writes v as a JSON response with the given status.
func Respond(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

// Error writes the error envelope with the given status and code.
// details may be nil.
func Error(w http.ResponseWriter, status int, code, message string, details any) {
	Respond(w, status, errorEnvelope{Error: errorBody{Code: code, Message: message, Details: details}})
}

// BadRequest writes a validation error.
func BadRequest(w http.ResponseWriter, message string, details any) {
	Error(w, http.StatusBadRequest, CodeValidation, message, details)
}

// NotFound writes a not_found error.
func NotFound(w http.ResponseWriter, message string) {
	Error(w, http.StatusNotFound, CodeNotFound, message, nil)
}

// Unauthorized writes a 401 envelope.
func Unauthorized(w http.ResponseWriter) {
	Error(w, http.StatusUnauthorized, CodeUnauthorized, "Sign in required.", nil)
}

// Forbidden writes a 403 envelope.
func Forbidden(w http.ResponseWriter, message string) {
	Error(w, http.StatusForbidden, CodeForbidden, message, nil)
}

// ErrorLogger pairs server-error responses with structured logging so
// handlers never swallow a store failure silently.
type ErrorLogger struct {
	Log *zap.Logger
}

// NewErrorLogger constructs an ErrorLogger.
func NewErrorLogger(log *zap.Logger) *ErrorLogger {
	return &ErrorLogger{Log: log}
}

// ServerError logs err under logMsg and replies 503 store_unavailable.
// Store failures are retryable from the operator's point of view, so the
// message says so.
func (e *ErrorLogger) ServerError(w http.ResponseWriter, r *http.Request, logMsg string, err error) {
	e.Log.Error(logMsg,
		zap.Error(err),
		zap.String("path", r.URL.Path),
		zap.String("method", r.Method),
	)
	Error(w, http.StatusServiceUnavailable, CodeStore, "A storage error occurred. Please retry.", nil)
}
