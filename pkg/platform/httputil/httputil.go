// Package httputil writes JSON responses and maps engine errors to HTTP
// status codes.
package httputil

import (
	"encoding/json"
	"errors"
	"net/http"

	"primenum/pkg/platform/sentinel"
)

// ErrorResponse is the body of every error reply.
type ErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description,omitempty"`
}

// WriteJSON encodes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError translates err into a status code and error body. Internal
// errors carry no description.
func WriteError(w http.ResponseWriter, err error) {
	status, code := classify(err)
	body := ErrorResponse{Error: code}
	if status != http.StatusInternalServerError {
		body.ErrorDescription = err.Error()
	}
	WriteJSON(w, status, body)
}

// BadRequest writes a 400 with msg as the description.
func BadRequest(w http.ResponseWriter, msg string) {
	WriteJSON(w, http.StatusBadRequest, ErrorResponse{Error: "bad_request", ErrorDescription: msg})
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, sentinel.ErrInvalidInput):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, sentinel.ErrOverflow):
		return http.StatusUnprocessableEntity, "value_overflow"
	case errors.Is(err, sentinel.ErrResourceExhausted):
		return http.StatusServiceUnavailable, "resource_exhausted"
	case errors.Is(err, sentinel.ErrStorageExhausted):
		return http.StatusServiceUnavailable, "storage_exhausted"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}
