package handlers

import (
	"net/http"

	"github.com/benvon/lemonaid/internal/response"
)

const maxErrorMessageLength = 200

// respondJSON sends data wrapped in the {data, message} envelope
func respondJSON(w http.ResponseWriter, status int, data any, message string) {
	response.JSON(w, status, response.Envelope{Data: data, Message: message})
}

// sanitizeErrorMessage keeps client-facing error messages short
func sanitizeErrorMessage(message string) string {
	if len(message) > maxErrorMessageLength {
		return message[:maxErrorMessageLength] + "..."
	}
	return message
}

// respondJSONError sends {"error": message} with a sanitized message
func respondJSONError(w http.ResponseWriter, status int, message string) {
	response.Error(w, status, sanitizeErrorMessage(message))
}
