// Package helpers contains small request/response utilities shared by the
// controllers.
package helpers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
)

// maxBodyBytes caps request bodies; the relay only ever receives tiny
// JSON payloads.
const maxBodyBytes = 1 << 20

// ErrBodyInvalid means the request body could not be decoded as JSON.
var ErrBodyInvalid = errors.New("invalid json body")

// ReadJSON decodes the request body into v. Unknown fields are tolerated
// and an empty body decodes to the zero value, so optional-field requests
// stay simple.
func ReadJSON(r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(nil, r.Body, maxBodyBytes)
	defer r.Body.Close()

	if err := json.NewDecoder(r.Body).Decode(v); err != nil && err != io.EOF {
		return ErrBodyInvalid
	}
	return nil
}

// WriteJSON writes a standard JSON response.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
