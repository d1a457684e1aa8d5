// Package response writes the JSON bodies shared by middleware and handlers.
package response

import (
	"encoding/json"
	"log"
	"net/http"
)

// ErrorBody is the body of pipeline-level failures such as 401, 404 and 500.
type ErrorBody struct {
	Error string `json:"error"`
}

// Envelope wraps handler payloads.
type Envelope struct {
	Data    any    `json:"data"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
	Status  int    `json:"status,omitempty"`
}

// JSON sends a JSON response
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

// Error sends {"error": message} with status.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, ErrorBody{Error: message})
}
