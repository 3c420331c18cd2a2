package web

// errors.go provides unified error response handling for the web layer.
//
// Every error is logged with full technical detail server-side (tagged
// with the chi request ID for correlation) and returned to the client as
// a user-friendly message with a support code, never the raw error.

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/bookbench/bookbench/internal/engine"
	"github.com/bookbench/bookbench/internal/logging"
)

// ErrorResponse is the JSON structure for API error responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
	Code    string `json:"code"`
}

// respondError logs the technical error and writes the mapped user
// message with an appropriate status code.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	statusCode := statusForError(err)
	userMsg := engine.MapError(err)

	logging.FromContext(r.Context()).Error("request error",
		"path", r.URL.Path,
		"method", r.Method,
		"status", statusCode,
		"error", err.Error(),
		"code", userMsg.Code,
	)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(ErrorResponse{
		Error:   userMsg.Message,
		Message: userMsg.Message,
		Action:  userMsg.Action,
		Code:    userMsg.Code,
	})
}

// statusForError maps engine errors to HTTP status codes.
func statusForError(err error) int {
	switch {
	case errors.Is(err, engine.ErrNoHeader),
		errors.Is(err, engine.ErrUnknownColumn),
		errors.Is(err, engine.ErrPageSizeNotAllowed),
		errors.Is(err, engine.ErrCountOutOfRange):
		return http.StatusBadRequest
	case errors.Is(err, engine.ErrIndexOutOfRange):
		return http.StatusNotFound
	default:
		var maxBytes *http.MaxBytesError
		if errors.As(err, &maxBytes) {
			return http.StatusRequestEntityTooLarge
		}
		return http.StatusInternalServerError
	}
}

// writeError writes a plain JSON error response for middleware-level
// failures that have no engine error to map.
func writeError(w http.ResponseWriter, r *http.Request, status int, message string) {
	logging.FromContext(r.Context()).Warn("request rejected",
		"path", r.URL.Path,
		"status", status,
		"reason", message,
	)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{
		Error:   message,
		Message: message,
		Code:    "REQ001",
	})
}

// writeJSON encodes v as JSON and writes it to w.
// Encoding errors are logged since headers are already sent.
func writeJSON(w http.ResponseWriter, r *http.Request, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.FromContext(r.Context()).Error("json encode error", "error", err)
	}
}
