package vapi

import (
	"context"
	"errors"
	"net/http"
)

// MapHTTPStatus maps client errors to the status returned to API callers.
func MapHTTPStatus(err error) int {
	var se *StatusError
	if errors.As(err, &se) {
		if se.StatusCode == http.StatusNotFound {
			return http.StatusNotFound
		}
		return http.StatusBadGateway
	}
	if errors.Is(err, ErrMissingAPIKey) || errors.Is(err, ErrUnavailable) {
		return http.StatusServiceUnavailable
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return http.StatusGatewayTimeout
	}
	return http.StatusBadGateway
}
