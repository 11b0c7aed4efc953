package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors. Engine and store code wrap these with fmt.Errorf("...: %w").
var (
	ErrNotFound         = errors.New("resource not found")
	ErrInvalidInput     = errors.New("invalid input")
	ErrInternal         = errors.New("internal error")
	ErrCorruptData      = errors.New("corrupt data")
	ErrStorageFailure   = errors.New("storage failure")
	ErrInvalidOperation = errors.New("invalid operation")
	ErrSuperseded       = errors.New("superseded by a newer load")
)

// AppError represents a structured application error with HTTP status mapping.
type AppError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Status    int    `json:"-"`
	Retryable bool   `json:"retryable,omitempty"`
	Err       error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NotFound creates a 404 error.
func NotFound(resource, id string) *AppError {
	return &AppError{
		Code:    "NOT_FOUND",
		Message: fmt.Sprintf("%s with id %s not found", resource, id),
		Status:  http.StatusNotFound,
		Err:     ErrNotFound,
	}
}

// InvalidInput creates a 400 error.
func InvalidInput(message string) *AppError {
	return &AppError{
		Code:    "INVALID_INPUT",
		Message: message,
		Status:  http.StatusBadRequest,
		Err:     ErrInvalidInput,
	}
}

// StorageFailure creates a retryable 503 error wrapping the underlying store error.
func StorageFailure(op, key string, err error) *AppError {
	return &AppError{
		Code:      "STORAGE_FAILURE",
		Message:   fmt.Sprintf("could not %s %q, please retry", op, key),
		Status:    http.StatusServiceUnavailable,
		Retryable: true,
		Err:       fmt.Errorf("%w: %w", ErrStorageFailure, err),
	}
}

// Superseded creates a 409 error for a load whose result was discarded.
func Superseded(key string) *AppError {
	return &AppError{
		Code:    "SUPERSEDED",
		Message: fmt.Sprintf("load of %q was superseded by a newer load", key),
		Status:  http.StatusConflict,
		Err:     ErrSuperseded,
	}
}

// Internal creates a 500 error.
func Internal(err error) *AppError {
	return &AppError{
		Code:    "INTERNAL_ERROR",
		Message: "an internal error occurred",
		Status:  http.StatusInternalServerError,
		Err:     err,
	}
}

// IsRetryable reports whether the caller may retry the failed operation.
func IsRetryable(err error) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Retryable
	}
	return errors.Is(err, ErrStorageFailure)
}

// HTTPStatus returns the HTTP status code for the given error.
func HTTPStatus(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Status
	}

	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrInvalidOperation):
		return http.StatusBadRequest
	case errors.Is(err, ErrSuperseded):
		return http.StatusConflict
	case errors.Is(err, ErrStorageFailure):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
