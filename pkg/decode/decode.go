// Package decode reads typed JSON request bodies.
package decode

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// ErrTooLarge is returned when a body exceeds the MaxBytes limit.
var ErrTooLarge = errors.New("request body too large")

// JSON decodes r into T, rejecting trailing data.
func JSON[T any](r io.Reader) (T, error) {
	var result T

	dec := json.NewDecoder(r)

	if err := dec.Decode(&result); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return result, fmt.Errorf("%w: limit %d bytes", ErrTooLarge, maxErr.Limit)
		}
		return result, fmt.Errorf("decode body: %w", err)
	}

	if dec.More() {
		return result, fmt.Errorf("decode body: unexpected data after JSON object")
	}

	return result, nil
}

// Status maps a decode error to an HTTP status code.
func Status(err error) int {
	if errors.Is(err, ErrTooLarge) {
		return http.StatusRequestEntityTooLarge
	}
	return http.StatusBadRequest
}
