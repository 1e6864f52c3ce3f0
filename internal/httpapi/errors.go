package httpapi

import (
	"errors"
	"net/http"

	"github.com/goccy/go-json"

	"llamapanama/internal/engine"
	"llamapanama/internal/session"
	"llamapanama/pkg/types"
)

// HTTPError allows services to provide an HTTP status code for an error.
type HTTPError interface {
	error
	StatusCode() int
}

// writeJSONError writes a consistent JSON error payload.
func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(types.ErrorResponse{Error: msg, Code: status})
}

// statusFor maps service and engine errors onto HTTP status codes.
func statusFor(err error) int {
	var he HTTPError
	switch {
	case errors.As(err, &he):
		return he.StatusCode()
	case session.IsModelNotFound(err):
		return http.StatusNotFound
	case session.IsTooBusy(err):
		return http.StatusTooManyRequests
	case session.IsDependencyUnavailable(err), engine.IsOutOfMemory(err):
		return http.StatusServiceUnavailable
	case engine.IsBufferTooSmall(err):
		return http.StatusRequestEntityTooLarge
	case engine.IsInvalidArgument(err):
		return http.StatusBadRequest
	case errors.Is(err, session.ErrClosed):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// writeServiceError maps err and writes it, counting 429s as backpressure.
func writeServiceError(w http.ResponseWriter, err error) int {
	status := statusFor(err)
	if status == http.StatusTooManyRequests {
		IncrementBackpressure("queue_timeout")
	}
	writeJSONError(w, status, err.Error())
	return status
}
