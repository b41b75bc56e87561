// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
)

// MaxJSONBodyBytes bounds request bodies decoded by [ReadJSON].
const MaxJSONBodyBytes = 1 << 20

// ErrInvalidJSON is returned by [ReadJSON] for bodies that are not a single
// valid JSON value of the expected shape.
var ErrInvalidJSON = errors.New("invalid json body")

// WriteJSON serializes the given data to JSON and writes it to the HTTP response.
//
// It sets the "Content-Type" header to "application/json" and writes
// the provided HTTP status code before sending the response body.
//
// If marshaling fails, it responds with 500 Internal Server Error
// and returns a wrapped error.
//
// Example usage:
//
//	WriteJSON(w, map[string]string{"status": "ok"}, http.StatusOK)
func WriteJSON(w http.ResponseWriter, data any, statusCode int) (int, error) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		http.Error(w, "error writing data to JSON", http.StatusInternalServerError)
		return 0, fmt.Errorf("error writing data to JSON: %w", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	return w.Write(jsonData)
}

// ReadJSON decodes the request body into v. Unknown fields, trailing data
// and bodies above [MaxJSONBodyBytes] are rejected with [ErrInvalidJSON].
func ReadJSON(r *http.Request, v any) error {
	if r.Body == nil {
		return fmt.Errorf("%w: empty body", ErrInvalidJSON)
	}

	decoder := json.NewDecoder(io.LimitReader(r.Body, MaxJSONBodyBytes))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(v); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidJSON, err)
	}
	if decoder.More() {
		return fmt.Errorf("%w: unexpected trailing data", ErrInvalidJSON)
	}

	return nil
}

// ClientIP returns the host part of r.RemoteAddr. Forwarding headers are
// honoured only for trusted proxies, whose requests have RemoteAddr
// rewritten by the router before this is called.
func ClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
