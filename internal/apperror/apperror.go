// Package apperror normalises caught error values into the uniform JSON error body.
package apperror

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/benvon/lemonaid/internal/response"
)

// AppError is the error payload returned to clients.
type AppError struct {
	Message    string         `json:"message"`
	Code       string         `json:"code,omitempty"`
	StatusCode int            `json:"statusCode,omitempty"`
	Details    map[string]any `json:"details,omitempty"`
}

func (e *AppError) Error() string {
	if e.Code != "" {
		return e.Code + ": " + e.Message
	}
	return e.Message
}

// New creates an AppError. A status outside 100-999 defaults to 500.
func New(message string, statusCode int, code string, details map[string]any) *AppError {
	return &AppError{
		Message:    message,
		Code:       code,
		StatusCode: normalizeStatus(statusCode),
		Details:    details,
	}
}

// Normalize maps any caught value to an AppError carrying statusCode.
//
// An *AppError anywhere in an error chain keeps its code and details. Any other
// error contributes its message. Every other value is formatted with fmt.Sprint.
func Normalize(v any, statusCode int) *AppError {
	status := normalizeStatus(statusCode)

	switch val := v.(type) {
	case error:
		var appErr *AppError
		if errors.As(val, &appErr) && appErr != nil {
			return &AppError{
				Message:    appErr.Message,
				Code:       appErr.Code,
				StatusCode: status,
				Details:    appErr.Details,
			}
		}
		return &AppError{Message: errorMessage(val), StatusCode: status}
	case string:
		return &AppError{Message: val, StatusCode: status}
	default:
		return &AppError{Message: fmt.Sprint(v), StatusCode: status}
	}
}

// Write sends the normalised form of v as JSON with statusCode.
func Write(w http.ResponseWriter, v any, statusCode int) {
	appErr := Normalize(v, statusCode)
	response.JSON(w, appErr.StatusCode, appErr)
}

// normalizeStatus keeps statusCode within the range WriteHeader accepts.
func normalizeStatus(statusCode int) int {
	if statusCode < 100 || statusCode > 999 {
		return http.StatusInternalServerError
	}
	return statusCode
}

// errorMessage guards against typed-nil errors whose Error method panics.
func errorMessage(err error) (msg string) {
	defer func() {
		if recover() != nil {
			msg = fmt.Sprintf("%T", err)
		}
	}()
	return err.Error()
}
