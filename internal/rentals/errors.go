package rentals

import (
	"errors"
	"net/http"

	"github.com/Mark0025/peterental/internal/backend"
)

var ErrInvalid = errors.New("invalid rental")

func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrInvalid) {
		return http.StatusBadRequest
	}
	return backend.MapHTTPStatus(err)
}
