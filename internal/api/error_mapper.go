package api

import (
	"errors"
	"net/http"

	"blood-orders/internal/query"
	"blood-orders/internal/store"
)

// ErrorCode represents unified API error codes
type ErrorCode string

const (
	ErrorCodeInvalidArgument ErrorCode = "INVALID_ARGUMENT"
	ErrorCodeOrderNotFound   ErrorCode = "ORDER_NOT_FOUND"
	ErrorCodeScopeViolation  ErrorCode = "SCOPE_VIOLATION"
	ErrorCodeInternalError   ErrorCode = "INTERNAL_ERROR"
)

// MapErrorToHTTP maps errors to HTTP status codes and error responses
func MapErrorToHTTP(err error) (int, ErrorResponse) {
	if err == nil {
		return http.StatusOK, ErrorResponse{}
	}

	if errors.Is(err, query.ErrValidation) {
		return http.StatusBadRequest, ErrorResponse{
			Code:    string(ErrorCodeInvalidArgument),
			Message: err.Error(),
		}
	}

	if errors.Is(err, store.ErrOrderNotFound) {
		return http.StatusNotFound, ErrorResponse{
			Code:    string(ErrorCodeOrderNotFound),
			Message: "order not found",
		}
	}

	if errors.Is(err, store.ErrInvalidArgument) {
		return http.StatusBadRequest, ErrorResponse{
			Code:    string(ErrorCodeInvalidArgument),
			Message: err.Error(),
		}
	}

	// A scope violation is an internal invariant breach, never a caller
	// error; surface it loudly.
	if errors.Is(err, query.ErrScopeViolation) {
		return http.StatusInternalServerError, ErrorResponse{
			Code:    string(ErrorCodeScopeViolation),
			Message: err.Error(),
		}
	}

	return http.StatusInternalServerError, ErrorResponse{
		Code:    string(ErrorCodeInternalError),
		Message: err.Error(),
	}
}
