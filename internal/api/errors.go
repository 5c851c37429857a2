package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"

	domainerrors "github.com/quillpress/quillpress-server/internal/errors"
	"github.com/quillpress/quillpress-server/internal/store"
)

// APIError implements huma.StatusError with the envelope error shape.
type APIError struct { //nolint:revive // API prefix is intentional for clarity
	status  int
	Code    string `json:"code" doc:"Machine-readable error code"`
	Message string `json:"message" doc:"Human-readable error message"`
	Details any    `json:"details,omitempty" doc:"Additional error details"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return e.Message
}

// GetStatus implements huma.StatusError.
func (e *APIError) GetStatus() int {
	return e.status
}

// ContentType returns the content type for the error response.
func (e *APIError) ContentType(_ string) string {
	return "application/json"
}

// RegisterErrorHandler configures huma to turn domain errors, store errors
// and its own validation failures into APIErrors. Call it after creating
// the huma.API but before serving.
func RegisterErrorHandler() {
	huma.NewError = func(status int, message string, errs ...error) huma.StatusError {
		for _, err := range errs {
			var domainErr *domainerrors.Error
			if errors.As(err, &domainErr) {
				return &APIError{
					status:  domainErr.HTTPStatus(),
					Code:    string(domainErr.Code),
					Message: domainErr.Message,
					Details: domainErr.Details,
				}
			}

			var storeErr *store.Error
			if errors.As(err, &storeErr) {
				return fromStoreError(storeErr)
			}
		}

		// Schema and parse failures from huma itself.
		if status == http.StatusUnprocessableEntity || status == http.StatusBadRequest {
			return &APIError{
				status:  http.StatusBadRequest,
				Code:    string(domainerrors.CodeValidation),
				Message: message,
				Details: validationDetails(errs),
			}
		}

		return &APIError{
			status:  status,
			Code:    statusToCode(status),
			Message: message,
		}
	}
}

func fromStoreError(err *store.Error) *APIError {
	code := domainerrors.CodeInternal
	switch err.HTTPCode() {
	case http.StatusNotFound:
		code = domainerrors.CodeNotFound
	case http.StatusConflict, http.StatusUnprocessableEntity:
		code = domainerrors.CodeConstraintViolation
	}
	message := err.Message
	if code == domainerrors.CodeInternal {
		message = "internal server error"
	}
	return &APIError{status: code.HTTPStatus(), Code: string(code), Message: message}
}

// validationDetails flattens huma error details into field -> message.
func validationDetails(errs []error) map[string]string {
	if len(errs) == 0 {
		return nil
	}
	details := make(map[string]string, len(errs))
	for _, err := range errs {
		var detail *huma.ErrorDetail
		if !errors.As(err, &detail) {
			continue
		}
		field := detail.Location
		for _, prefix := range []string{"body.", "query.", "path.", "header."} {
			field = strings.TrimPrefix(field, prefix)
		}
		if field == "" {
			field = "body"
		}
		details[field] = detail.Message
	}
	if len(details) == 0 {
		return nil
	}
	return details
}

// statusToCode maps HTTP status codes to domain error codes.
func statusToCode(status int) string {
	switch {
	case status == http.StatusUnauthorized:
		return string(domainerrors.CodeUnauthorized)
	case status == http.StatusForbidden:
		return string(domainerrors.CodePermissionDenied)
	case status == http.StatusNotFound:
		return string(domainerrors.CodeNotFound)
	case status == http.StatusConflict:
		return string(domainerrors.CodeConstraintViolation)
	case status == http.StatusTooManyRequests:
		return string(domainerrors.CodeRateLimited)
	case status >= 400 && status < 500:
		return string(domainerrors.CodeValidation)
	default:
		return string(domainerrors.CodeInternal)
	}
}
