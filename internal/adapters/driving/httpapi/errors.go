package httpapi

import (
	"errors"
	"net/http"

	"github.com/custodia-labs/bistro-cli/internal/adapters/driven/rest"
	"github.com/custodia-labs/bistro-cli/internal/core/domain"
)

// statusFor maps a domain error onto an HTTP status and error code.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, rest.CodeNotFound
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, rest.CodeInvalidInput
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict, rest.CodeConflict
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, rest.CodeUnauthorized
	case errors.Is(err, domain.ErrRateLimited):
		return http.StatusTooManyRequests, rest.CodeRateLimited
	case errors.Is(err, domain.ErrBackendUnavailable):
		return http.StatusServiceUnavailable, rest.CodeInternal
	default:
		return http.StatusInternalServerError, rest.CodeInternal
	}
}
