package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/marcus/hours/internal/serverdb"
)

// Error codes in {"error": {"code": ...}} bodies.
const (
	ErrCodeBadRequest      = "bad_request"
	ErrCodeValidation      = "validation_failed"
	ErrCodeInvalidSchedule = "invalid_schedule"
	ErrCodeNotFound        = "not_found"
	ErrCodeInternal        = "internal"
	ErrCodeUnauthorized    = "unauthorized"
	ErrCodeRateLimited     = "rate_limited"
)

// APIError is the error object in a failed response.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse is the body of every non-2xx response. RequestID echoes
// X-Request-ID for bug reports.
type ErrorResponse struct {
	Error     APIError `json:"error"`
	RequestID string   `json:"request_id,omitempty"`
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{
		Error:     APIError{Code: code, Message: message},
		RequestID: w.Header().Get(requestIDHeader),
	})
}

// writeStoreError maps a store failure for op ("get", "update", ...) to a
// response: a missing schedule is a 404, anything else is logged and a 500.
func writeStoreError(w http.ResponseWriter, r *http.Request, op string, err error) {
	if errors.Is(err, serverdb.ErrNotFound) {
		writeError(w, http.StatusNotFound, ErrCodeNotFound, "schedule not found")
		return
	}
	logFor(r.Context()).Error(op+" schedule", "err", err)
	writeError(w, http.StatusInternalServerError, ErrCodeInternal, "failed to "+op+" schedule")
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("write json response", "err", err)
	}
}
