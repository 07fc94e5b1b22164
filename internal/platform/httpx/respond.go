// Package httpx provides HTTP response utilities for the JSON API.
package httpx

import (
	"encoding/json"
	"net/http"
)

// FieldError carries a single client-facing error message.
type FieldError struct {
	Msg string `json:"msg"`
}

type errorEnvelope struct {
	Errors []FieldError `json:"errors"`
}

type messageEnvelope struct {
	Msg string `json:"msg"`
}

// JSON sends a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// Errors sends a `{"errors":[{"msg":...},...]}` response listing every message.
func Errors(w http.ResponseWriter, status int, msgs ...string) {
	envelope := errorEnvelope{Errors: make([]FieldError, 0, len(msgs))}
	for _, msg := range msgs {
		envelope.Errors = append(envelope.Errors, FieldError{Msg: msg})
	}
	JSON(w, status, envelope)
}

// Message sends a single `{"msg":...}` response.
func Message(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, messageEnvelope{Msg: msg})
}

// DecodeJSON decodes a JSON request body into the target struct.
func DecodeJSON(r *http.Request, target any) error {
	return json.NewDecoder(r.Body).Decode(target)
}
