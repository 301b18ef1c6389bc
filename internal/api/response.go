package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rustyeddy/papertrade/account"
	"github.com/rustyeddy/papertrade/session"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

// RespondJSON sends a JSON response with the given status code
func RespondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// RespondError sends an error response with the given status code
func RespondError(w http.ResponseWriter, status int, message string, details any) {
	RespondJSON(w, status, ErrorResponse{
		Error:   message,
		Details: details,
	})
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, session.ErrNoAccount):
		return http.StatusNotFound
	case errors.Is(err, account.ErrInvalidAmount),
		errors.Is(err, account.ErrInvalidQuantity):
		return http.StatusBadRequest
	case errors.Is(err, account.ErrInsufficientFunds),
		errors.Is(err, account.ErrInsufficientShares):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

func respondDomainError(w http.ResponseWriter, err error) {
	RespondError(w, statusFor(err), err.Error(), nil)
}
