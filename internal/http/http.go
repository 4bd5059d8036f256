// Package http holds response helpers shared by the handler packages
package http

import (
	"bytes"
	"log"
	"net/http"

	json "github.com/goccy/go-json"
)

// apiError is the body of every error response
type apiError struct {
	Error string `json:"error"`
}

// WriteJSON encodes v as the response body. The body is encoded before the
// status is written, so a value that cannot be encoded becomes a 500.
func WriteJSON(w http.ResponseWriter, v any, statusCode int) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		log.Printf("Error: could not encode response: %v", err)
		buf.Reset()
		json.NewEncoder(&buf).Encode(apiError{Error: "could not encode response"})
		statusCode = http.StatusInternalServerError
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if _, err := w.Write(buf.Bytes()); err != nil {
		log.Printf("Warning: could not write response: %v", err)
	}
}

// ErrorResponse sends an error response
func ErrorResponse(w http.ResponseWriter, message string, statusCode int) {
	if statusCode >= http.StatusInternalServerError {
		log.Printf("Error: %s (status %d)", message, statusCode)
	}
	WriteJSON(w, apiError{Error: message}, statusCode)
}

// DecodeJSON reads a JSON request body into v, limited to maxBytes
func DecodeJSON(w http.ResponseWriter, r *http.Request, v any, maxBytes int64) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	return json.NewDecoder(r.Body).Decode(v)
}
