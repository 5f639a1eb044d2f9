package model

import (
	"errors"
	"fmt"
)

// ErrorResponse represents a standardised JSON error response.
type ErrorResponse struct {
	Error     string `json:"error"`
	Message   string `json:"message"`
	RequestID string `json:"requestId,omitempty"`
}

// Standard error codes
const (
	ErrCodeMissingField  = "MISSING_FIELD"
	ErrCodeInvalidPrice  = "INVALID_PRICE"
	ErrCodeNotFound      = "NOT_FOUND"
	ErrCodeCorruptData   = "CORRUPT_DATA"
	ErrCodeStorage       = "STORAGE_ERROR"
	ErrCodeRateLimited   = "RATE_LIMITED"
	ErrCodeInternalError = "INTERNAL_ERROR"
)

// Domain errors for business logic
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Validation errors. Both are client faults.
var (
	ErrMissingFields = NewDomainError(ErrCodeMissingField, "All fields are required")
	ErrInvalidPrice  = NewDomainError(ErrCodeInvalidPrice, "Price must be a valid number")
)

// IsValidation reports whether err is a client-side validation failure.
func IsValidation(err error) bool {
	var de *DomainError
	if !errors.As(err, &de) {
		return false
	}
	return de.Code == ErrCodeMissingField || de.Code == ErrCodeInvalidPrice
}

// ParseError is returned when the persisted product document is not valid JSON.
type ParseError struct {
	Source string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("corrupt product document %s: %v", e.Source, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// IOError is returned when the product document cannot be read or written.
type IOError struct {
	Op     string
	Source string
	Err    error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("failed to %s product document %s: %v", e.Op, e.Source, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}
