// ABOUTME: JSON response helpers for the HTTP API
// ABOUTME: Writes payloads and the standard {code, message, status} error envelope
package web

import (
	"encoding/json"
	"log"
	"net/http"
)

// ErrorResponse is the error body every API endpoint returns.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`
}

// Error codes
const (
	ErrInvalidBody   = "invalid_request_body"
	ErrMissingField  = "missing_field"
	ErrInvalidStatus = "invalid_status"
	ErrNotFound      = "not_found"
	ErrInternal      = "internal_error"
)

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Code: code, Message: message, Status: status})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[web] failed to write response: %v", err)
	}
}
