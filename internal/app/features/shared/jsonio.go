// internal/app/features/shared/jsonio.go
//
// Package shared holds the JSON plumbing every feature handler uses.
package shared

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/dalemusser/taskhub/internal/app/system/apperr"
	"github.com/dalemusser/taskhub/internal/app/system/limits"
	"go.uber.org/zap"
)

// ErrBadBody is returned by DecodeJSON for bodies that are not a JSON object
// of the expected shape.
var ErrBadBody = apperr.Invalid("body", "Request body must be a valid JSON object.")

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

// IDResponse is returned by create calls.
type IDResponse struct {
	ID string `json:"id"`
}

// StatusResponse is returned by calls with nothing else to report.
type StatusResponse struct {
	Status string `json:"status"`
}

// WriteJSON writes v with the given status code.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Status maps an error from the store layer to an HTTP status code.
func Status(err error) int {
	switch {
	case apperr.IsValidation(err):
		return http.StatusBadRequest
	case apperr.IsNotFound(err):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// WriteError writes err as {"error": "..."} with the status from Status.
// Internal errors are logged and their details are not sent to the client.
func WriteError(w http.ResponseWriter, log *zap.Logger, err error) {
	status := Status(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		if log != nil {
			log.Error("request failed", zap.Error(err))
		}
		msg = "internal error"
		var ioErr *apperr.IOError
		if errors.As(err, &ioErr) {
			msg = "storage error: could not " + ioErr.Op + " data"
		}
	}
	WriteJSON(w, status, ErrorResponse{Error: msg})
}

// DecodeJSON reads a JSON object from the request body into dst. Unknown
// fields are ignored. An empty body leaves dst untouched.
func DecodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, limits.MaxJSONBody))
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return ErrBadBody
	}
	return nil
}
