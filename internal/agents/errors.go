package agents

import (
	"errors"
	"net/http"
)

// Domain errors for agent config operations.
var (
	ErrNotFound      = errors.New("agent config not found")
	ErrInvalidConfig = errors.New("invalid agent config")
	ErrNoUser        = errors.New("no user selected")
	ErrCorruptStore  = errors.New("stored agent configs are unreadable")
)

// MapHTTPStatus maps domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrInvalidConfig) {
		return http.StatusBadRequest
	}
	if errors.Is(err, ErrNoUser) {
		return http.StatusUnauthorized
	}
	return http.StatusInternalServerError
}
