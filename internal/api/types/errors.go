package types

import (
	"errors"
	"net/http"

	appErr "github.com/userdesk/api/pkg/errors"
)

// APIError is the error body shape: {"error":{"code","message"}}.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError for serialization.
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// FromAppError converts any error into a client-facing APIError. Internal
// causes are not leaked; only the AppError message is exposed.
func FromAppError(err error) APIError {
	var ae *appErr.AppError
	if errors.As(err, &ae) {
		return APIError{Code: string(ae.Code), Message: ae.Message}
	}
	return APIError{Code: string(appErr.CodeInternal), Message: "internal error"}
}

// StatusForError maps error codes to HTTP statuses. Logical failures are
// 404/400; anything unclassified is a 500 so infrastructure faults never
// masquerade as client errors.
func StatusForError(err error) int {
	switch appErr.CodeOf(err) {
	case appErr.CodeNotFound:
		return http.StatusNotFound
	case appErr.CodeInvalid, appErr.CodeAlreadyExists, appErr.CodeUnauthorized:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
