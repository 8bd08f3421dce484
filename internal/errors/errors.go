package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorType represents different categories of errors
type ErrorType string

const (
	ErrorTypeImageLoad           ErrorType = "image_load"
	ErrorTypeImageWrite          ErrorType = "image_write"
	ErrorTypeDegenerateHistogram ErrorType = "degenerate_histogram"
	ErrorTypeValidation          ErrorType = "validation"
	ErrorTypeTimeout             ErrorType = "timeout"
	ErrorTypeInternal            ErrorType = "internal"
)

// AppError represents a structured application error
type AppError struct {
	Type       ErrorType `json:"type"`
	Message    string    `json:"message"`
	Details    string    `json:"details,omitempty"`
	StatusCode int       `json:"status_code"`
	Cause      error     `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithDetails returns the error with Details set
func (e *AppError) WithDetails(details string) *AppError {
	e.Details = details
	return e
}

func newAppError(t ErrorType, status int, message string, cause error) *AppError {
	return &AppError{
		Type:       t,
		Message:    message,
		StatusCode: status,
		Cause:      cause,
	}
}

// NewImageLoadError reports a missing, unreadable or undecodable input image
func NewImageLoadError(message string, cause error) *AppError {
	return newAppError(ErrorTypeImageLoad, http.StatusUnprocessableEntity, message, cause)
}

// NewImageWriteError reports that the enhanced image could not be encoded or stored
func NewImageWriteError(message string, cause error) *AppError {
	return newAppError(ErrorTypeImageWrite, http.StatusBadGateway, message, cause)
}

// NewDegenerateHistogramError reports an image whose histogram has no range to stretch
func NewDegenerateHistogramError(message string, cause error) *AppError {
	return newAppError(ErrorTypeDegenerateHistogram, http.StatusUnprocessableEntity, message, cause)
}

// NewValidationError creates a new validation error
func NewValidationError(message string, cause error) *AppError {
	return newAppError(ErrorTypeValidation, http.StatusBadRequest, message, cause)
}

// NewTimeoutError creates a new timeout error
func NewTimeoutError(message string, cause error) *AppError {
	return newAppError(ErrorTypeTimeout, http.StatusGatewayTimeout, message, cause)
}

// NewInternalError creates a new internal error
func NewInternalError(message string, cause error) *AppError {
	return newAppError(ErrorTypeInternal, http.StatusInternalServerError, message, cause)
}

// IsType checks if the error chain holds an AppError of a specific type
func IsType(err error, errorType ErrorType) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type == errorType
	}
	return false
}

// GetStatusCode extracts the HTTP status code from an error
func GetStatusCode(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.StatusCode
	}
	return http.StatusInternalServerError
}
