// Package httputil holds shared helpers for JSON responses and the error
// envelope used by every HTTP endpoint.
package httputil

import (
	"encoding/json"
	"net/http"
)

type errorBody struct {
	Error       string `json:"error"`
	Description string `json:"error_description,omitempty"`
}

// WriteJSON writes v as a JSON response with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError writes the standard error envelope. Descriptions are omitted for
// server-side statuses so internal details never leak to callers.
func WriteError(w http.ResponseWriter, status int, code, description string) {
	body := errorBody{Error: code}
	if status < http.StatusInternalServerError {
		body.Description = description
	}
	WriteJSON(w, status, body)
}
