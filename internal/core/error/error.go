package errx

import (
	"errors"
	"fmt"
	"net/http"
)

const (
	// SystemErrorMessage is a user-facing fallback when internal errors occur.
	SystemErrorMessage = "internal server error"
	// UnconfiguredMessage is returned when no upstream credentials are set.
	UnconfiguredMessage = "service not configured"
	// UpstreamErrorMessage hides the upstream failure details from clients.
	UpstreamErrorMessage = "there was a problem with the AI service"
	// RedisErrorMessage describes Redis related failures.
	RedisErrorMessage = "redis operation failed"
	// RedisNotFoundMessage describes a missing Redis key.
	RedisNotFoundMessage = "redis key not found"
)

// ErrUnconfigured marks calls attempted without any upstream credential.
var ErrUnconfigured = errors.New("no api credentials configured")

// AppError wraps an underlying error with an HTTP status and safe message.
type AppError struct {
	Err     error
	Status  int
	Message string
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

// Unwrap exposes the underlying error for errors.Is / errors.As support.
func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError with the provided information.
func New(err error, status int, message string) *AppError {
	return &AppError{
		Err:     err,
		Status:  status,
		Message: message,
	}
}

// Unconfigured reports that the chat service has no credentials (503).
func Unconfigured() *AppError {
	return New(ErrUnconfigured, http.StatusServiceUnavailable, UnconfiguredMessage)
}

// Upstream wraps a non-success reply from the generation API (502).
func Upstream(err error) *AppError {
	return New(err, http.StatusBadGateway, UpstreamErrorMessage)
}

// Internal wraps any unexpected failure (500).
func Internal(err error) *AppError {
	return New(err, http.StatusInternalServerError, SystemErrorMessage)
}

// BadRequest wraps client input problems; message is shown to the caller.
func BadRequest(message string) *AppError {
	return New(nil, http.StatusBadRequest, message)
}

// NotFound signals a missing resource.
func NotFound(message string) *AppError {
	return New(nil, http.StatusNotFound, message)
}

// Unsupported signals an upload with a disallowed media type.
func Unsupported(message string) *AppError {
	return New(nil, http.StatusUnsupportedMediaType, message)
}

// From classifies any error into an AppError, defaulting to Internal.
func From(err error) *AppError {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal(err)
}
