// Package response writes the JSON envelope for handlers that sit outside the
// typed API, such as health checks and middleware rejections.
package response

import (
	"encoding/json"
	"log/slog"
	"net/http"

	domainerrors "github.com/quillpress/quillpress-server/internal/errors"
)

// ErrorBody is the error member of a failed envelope.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// Envelope provides a consistent JSON response structure.
type Envelope struct {
	Success bool       `json:"success"`
	Data    any        `json:"data,omitempty"`
	Error   *ErrorBody `json:"error,omitempty"`
}

func write(w http.ResponseWriter, status int, env Envelope, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(env); err != nil && logger != nil {
		logger.Error("Failed to encode JSON response", "error", err)
	}
}

// JSON writes data in a success envelope with the given status code.
func JSON(w http.ResponseWriter, status int, data any, logger *slog.Logger) {
	write(w, status, Envelope{Success: status < 400, Data: data}, logger)
}

// Success writes a successful JSON response (200 OK).
func Success(w http.ResponseWriter, data any, logger *slog.Logger) {
	JSON(w, http.StatusOK, data, logger)
}

// Error writes a failed envelope.
func Error(w http.ResponseWriter, status int, code domainerrors.Code, message string, logger *slog.Logger) {
	write(w, status, Envelope{Error: &ErrorBody{Code: string(code), Message: message}}, logger)
}

// NotFound writes a 404 Not Found response.
func NotFound(w http.ResponseWriter, message string, logger *slog.Logger) {
	Error(w, http.StatusNotFound, domainerrors.CodeNotFound, message, logger)
}

// TooManyRequests writes a 429 response.
func TooManyRequests(w http.ResponseWriter, message string, logger *slog.Logger) {
	Error(w, http.StatusTooManyRequests, domainerrors.CodeRateLimited, message, logger)
}

// ServiceUnavailable writes a 503 response with data still attached.
func ServiceUnavailable(w http.ResponseWriter, data any, logger *slog.Logger) {
	write(w, http.StatusServiceUnavailable, Envelope{
		Data:  data,
		Error: &ErrorBody{Code: string(domainerrors.CodeInternal), Message: "service unavailable"},
	}, logger)
}
