package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/okian/finesse/internal/adapters/boundary"
	"github.com/okian/finesse/internal/domain/errs"
)

// Sentinel kinds for API errors.
var (
	ErrBadRequest = errors.New("bad request")
	ErrNotFound   = errors.New("not found")
)

// errorStatus maps an operation error to an HTTP status and error code.
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, errs.ErrValidation), errors.Is(err, errs.ErrUnknownVariant):
		return http.StatusBadRequest, "validation"
	case errors.Is(err, errs.ErrDuplicateApplication):
		return http.StatusConflict, "duplicate_application"
	case errors.Is(err, errs.ErrNullProfile):
		return http.StatusConflict, "no_profile"
	case errors.Is(err, boundary.ErrInvalidCredentials),
		errors.Is(err, boundary.ErrTokenInvalid),
		errors.Is(err, boundary.ErrTokenExpired):
		return http.StatusUnauthorized, "unauthorized"
	case errors.Is(err, boundary.ErrEmailTaken):
		return http.StatusConflict, "email_taken"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable, "cancelled"
	case errors.Is(err, errs.ErrBoundary):
		return http.StatusBadGateway, "boundary"
	default:
		return http.StatusInternalServerError, "internal"
	}
}
