package utils

import (
	"errors"
	"fmt"
	"net/http"
)

// ApiError carries an HTTP-status-equivalent code alongside the message so
// storage and gateway failures propagate to the boundary unmodified.
type ApiError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *ApiError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ApiError) Unwrap() error { return e.Err }

func NewApiError(statusCode int, message string) *ApiError {
	return &ApiError{StatusCode: statusCode, Message: message}
}

func WrapApiError(statusCode int, message string, err error) *ApiError {
	return &ApiError{StatusCode: statusCode, Message: message, Err: err}
}

// StatusOf extracts the HTTP status from an error chain, defaulting to 500.
func StatusOf(err error) int {
	var apiErr *ApiError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return http.StatusInternalServerError
}

// MessageOf extracts the user-facing message from an error chain.
func MessageOf(err error) string {
	var apiErr *ApiError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return "Internal server error"
}
