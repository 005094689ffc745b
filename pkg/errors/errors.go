package mediapost_errors

import (
	"errors"
	"net/http"
)

// Common errors
var (
	ErrUnauthorized  = errors.New("unauthorized")
	ErrNotFound      = errors.New("not found")
	ErrInvalidInput  = errors.New("invalid input")
	ErrTooLarge      = errors.New("file too large")
	ErrRateLimited   = errors.New("rate limited")
	ErrAlreadyExists = errors.New("already exists")
)

// AppError is an operational error whose message is safe to show to the caller.
type AppError struct {
	Status  int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewValidationError(message string) *AppError {
	return &AppError{Status: http.StatusBadRequest, Message: message, Err: ErrInvalidInput}
}

func NewNotFoundError(message string) *AppError {
	return &AppError{Status: http.StatusNotFound, Message: message, Err: ErrNotFound}
}

func NewUnauthorizedError(message string) *AppError {
	return &AppError{Status: http.StatusUnauthorized, Message: message, Err: ErrUnauthorized}
}

func NewTooLargeError(message string) *AppError {
	return &AppError{Status: http.StatusRequestEntityTooLarge, Message: message, Err: ErrTooLarge}
}

func NewRateLimitedError(message string) *AppError {
	return &AppError{Status: http.StatusTooManyRequests, Message: message, Err: ErrRateLimited}
}

// IsOperational reports whether err carries a caller-facing message.
func IsOperational(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// HTTPStatus maps an error onto the response status code.
func HTTPStatus(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Status != 0 {
		return appErr.Status
	}
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, ErrTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, ErrRateLimited):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}
