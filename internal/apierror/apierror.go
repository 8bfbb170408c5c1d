// Package apierror provides standardized error response structures for the API
// plus the typed business errors services return. All errors surfaced to
// clients go through this package to ensure consistency and to prevent leaking
// internal details (stack traces, DB errors, etc.).
package apierror

import (
	"errors"
	"fmt"
)

// APIError is the canonical error envelope for all 4xx/5xx HTTP responses.
type APIError struct {
	Detail string `json:"detail"`
}

func New(msg string) *APIError {
	return &APIError{Detail: msg}
}

// ValidationError wraps multiple field errors keyed by field path
// (e.g. "items.0.qty"). It is both the 422 response body and the error type
// services return for business-rule violations.
type ValidationError struct {
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields"`
}

func (e *ValidationError) Error() string { return e.Detail }

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Detail: "validation failed", Fields: fields}
}

// FieldError builds a single-field ValidationError.
func FieldError(field, format string, args ...interface{}) *ValidationError {
	return NewValidation(map[string]string{field: fmt.Sprintf(format, args...)})
}

// ErrDuplicateInvoiceID reports that a caller-supplied invoice id is already
// in use. Client fault, not retryable.
var ErrDuplicateInvoiceID = errors.New("invoice id already in use")

// ErrConcurrencyTimeout reports that a row lock could not be acquired within
// the bounded wait. Transient; the whole operation is safe to retry.
var ErrConcurrencyTimeout = errors.New("timed out waiting for a row lock")

// StorageError wraps an unexpected failure of the persistent store.
// Not retryable without backoff.
type StorageError struct {
	Err error
}

func (e *StorageError) Error() string { return "storage: " + e.Err.Error() }
func (e *StorageError) Unwrap() error { return e.Err }

func NewStorage(err error) *StorageError { return &StorageError{Err: err} }
