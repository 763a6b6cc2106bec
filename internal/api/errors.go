package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/vietddude/payroll/internal/core/domain"
)

// Machine-readable error codes carried in the error envelope.
const (
	CodeInvalidRequest = "invalid_request"
	CodeUnauthorized   = "unauthorized"
	CodeForbidden      = "forbidden"
	CodeNotFound       = "not_found"
	CodeDuplicate      = "duplicate"
	CodeRateLimited    = "rate_limited"
	CodeInternal       = "internal_error"
)

type errorBody struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	RedirectTo string `json:"redirect_to,omitempty"`
}

type errorEnvelope struct {
	Error errorBody `json:"error"`
}

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// WriteError writes an error envelope.
func WriteError(w http.ResponseWriter, status int, code, message string) {
	WriteJSON(w, status, errorEnvelope{Error: errorBody{Code: code, Message: message}})
}

// WriteErrorRedirect writes an error envelope carrying the path an
// interactive caller should navigate to.
func WriteErrorRedirect(w http.ResponseWriter, status int, code, message, redirectTo string) {
	WriteJSON(w, status, errorEnvelope{Error: errorBody{Code: code, Message: message, RedirectTo: redirectTo}})
}

// HandleError maps a domain error to the appropriate HTTP status and writes it.
func HandleError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		WriteError(w, http.StatusNotFound, CodeNotFound, "resource not found")
	case errors.Is(err, domain.ErrDuplicate):
		WriteError(w, http.StatusConflict, CodeDuplicate, "resource already exists")
	case errors.Is(err, domain.ErrInvalid):
		WriteError(w, http.StatusBadRequest, CodeInvalidRequest, err.Error())
	default:
		WriteError(w, http.StatusInternalServerError, CodeInternal, "internal error")
	}
}
