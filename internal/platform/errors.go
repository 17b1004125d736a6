package platform

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorType categorizes API errors for better handling
type ErrorType string

const (
	ErrorTypeAuth       ErrorType = "authentication"
	ErrorTypePermission ErrorType = "permission"
	ErrorTypeNotFound   ErrorType = "not_found"
	ErrorTypeRateLimit  ErrorType = "rate_limit"
	ErrorTypeNetwork    ErrorType = "network"
	ErrorTypeValidation ErrorType = "validation"
	ErrorTypeUnknown    ErrorType = "unknown"
)

// APIError wraps platform API failures with the HTTP status and a
// platform-specific message.
type APIError struct {
	Platform   Kind
	Type       ErrorType
	Message    string
	StatusCode int
	Err        error
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s %s error (HTTP %d): %s", e.Platform, e.Type, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s %s error: %s", e.Platform, e.Type, e.Message)
}

// Unwrap returns the underlying error for errors.Is and errors.As support
func (e *APIError) Unwrap() error {
	return e.Err
}

// classify determines the error type from an HTTP status code
func classify(kind Kind, statusCode int, message string, err error) *APIError {
	apiErr := &APIError{
		Platform:   kind,
		Message:    message,
		StatusCode: statusCode,
		Err:        err,
	}

	switch {
	case statusCode == http.StatusUnauthorized:
		apiErr.Type = ErrorTypeAuth
	case statusCode == http.StatusForbidden:
		apiErr.Type = ErrorTypePermission
	case statusCode == http.StatusNotFound:
		apiErr.Type = ErrorTypeNotFound
	case statusCode == http.StatusTooManyRequests:
		apiErr.Type = ErrorTypeRateLimit
	case statusCode == http.StatusUnprocessableEntity:
		apiErr.Type = ErrorTypeValidation
	case statusCode >= 500:
		apiErr.Type = ErrorTypeNetwork
	default:
		apiErr.Type = ErrorTypeUnknown
	}

	return apiErr
}

// IsNotFound checks if error represents a remote 404. Adapters normalize 404s
// to absence values, so this mostly matters inside the adapters themselves.
func IsNotFound(err error) bool {
	if err == nil {
		return false
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Type == ErrorTypeNotFound
	}
	return false
}

// IsAuthError checks if error is authentication-related
func IsAuthError(err error) bool {
	if err == nil {
		return false
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Type == ErrorTypeAuth
	}
	return false
}
