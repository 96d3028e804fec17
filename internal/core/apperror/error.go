// Package apperror provides structured error handling following RFC 7807 Problem Details.
// All business errors must use AppError for consistent API responses.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes grouped by error class
const (
	// Infrastructure errors (5xx)
	CodeInternal  = "INTERNAL_ERROR"
	CodeDatabase  = "DATABASE_ERROR"
	CodeTimeout   = "TIMEOUT_ERROR"
	CodeIntegrity = "INTEGRITY_ERROR"

	// Validation errors (400)
	CodeValidation       = "VALIDATION_ERROR"
	CodeEmptyOrder       = "EMPTY_ORDER"
	CodeInvalidQuantity  = "INVALID_QUANTITY_OR_FACTOR"
	CodeTotalMismatch    = "TOTAL_MISMATCH"
	CodeCustomerNotFound = "CUSTOMER_NOT_FOUND"
	CodeProductNotFound  = "PRODUCT_NOT_FOUND"

	// Authorization errors (401, 403)
	CodeUnauthorized = "UNAUTHORIZED"
	CodeForbidden    = "FORBIDDEN"

	// Not found (404)
	CodeNotFound = "NOT_FOUND"

	// Conflict (409) - transient, safe to retry the whole settlement
	CodeConflict      = "CONFLICT"
	CodeSerialization = "SERIALIZATION_FAILURE"
	CodeDuplicate     = "DUPLICATE_ENTRY"
	CodeIdempotency   = "IDEMPOTENCY_CONFLICT"
	CodeConcurrentModification = "CONCURRENT_MODIFICATION"
)

// AppError is the standard error type for the service.
// It implements error interface and provides structured details for API responses.
type AppError struct {
	// Code is a machine-readable error identifier
	Code string `json:"code"`

	// Message is a human-readable error description
	Message string `json:"message"`

	// Details contains additional context (field errors, expected totals, etc.)
	Details map[string]any `json:"details,omitempty"`

	// HTTPStatus is the suggested HTTP status code
	HTTPStatus int `json:"-"`

	// Retryable marks transient failures where the caller should retry the operation
	Retryable bool `json:"retryable,omitempty"`

	// Err is the underlying error (not exposed in JSON)
	Err error `json:"-"`
}

// Error implements error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Is/As support
func (e *AppError) Unwrap() error {
	return e.Err
}

// WithDetail adds a key-value pair to error details
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// WithCause sets the underlying error
func (e *AppError) WithCause(err error) *AppError {
	e.Err = err
	return e
}

// --- Factory functions for common errors ---

// NewValidation creates a validation error (400)
func NewValidation(message string) *AppError {
	return &AppError{
		Code:       CodeValidation,
		Message:    message,
		HTTPStatus: http.StatusBadRequest,
	}
}

// NewEmptyOrder is returned when a settlement request carries no line items.
func NewEmptyOrder() *AppError {
	return &AppError{
		Code:       CodeEmptyOrder,
		Message:    "order must contain at least one line item",
		HTTPStatus: http.StatusBadRequest,
	}
}

// NewInvalidQuantity is returned when a line quantity or factor is not positive.
func NewInvalidQuantity(lineNo int, field, value string) *AppError {
	return &AppError{
		Code:       CodeInvalidQuantity,
		Message:    fmt.Sprintf("%s must be positive", field),
		HTTPStatus: http.StatusBadRequest,
		Details:    map[string]any{"lineNo": lineNo, "field": field, "value": value},
	}
}

// NewTotalMismatch is returned when the client-computed total disagrees with the
// server-computed total beyond the currency rounding tolerance.
func NewTotalMismatch(expected, got string) *AppError {
	return &AppError{
		Code:       CodeTotalMismatch,
		Message:    "submitted total does not match computed order total",
		HTTPStatus: http.StatusBadRequest,
		Details:    map[string]any{"expected": expected, "got": got},
	}
}

// NewUnknownCustomer is a settlement-time validation failure (400, not 404:
// the order body, not the URL, referenced a missing customer).
func NewUnknownCustomer(id any) *AppError {
	return &AppError{
		Code:       CodeCustomerNotFound,
		Message:    "customer not found",
		HTTPStatus: http.StatusBadRequest,
		Details:    map[string]any{"customerId": id},
	}
}

// NewUnknownProduct is a settlement-time validation failure for a missing product.
// A missing product is a hard failure, never a zero price.
func NewUnknownProduct(id any) *AppError {
	return &AppError{
		Code:       CodeProductNotFound,
		Message:    "product not found",
		HTTPStatus: http.StatusBadRequest,
		Details:    map[string]any{"productId": id},
	}
}

// NewNotFound creates a not found error (404)
func NewNotFound(entity string, id any) *AppError {
	return &AppError{
		Code:       CodeNotFound,
		Message:    fmt.Sprintf("%s not found", entity),
		HTTPStatus: http.StatusNotFound,
		Details:    map[string]any{"entity": entity, "id": id},
	}
}

// NewSerialization creates a retryable conflict for serialization failures
// (two settlements raced on the same rows).
func NewSerialization(err error) *AppError {
	return &AppError{
		Code:       CodeSerialization,
		Message:    "concurrent settlement conflict, retry the request",
		HTTPStatus: http.StatusConflict,
		Retryable:  true,
		Err:        err,
	}
}

// NewConcurrentModification creates an optimistic locking error
func NewConcurrentModification(entity string, id any) *AppError {
	return &AppError{
		Code:       CodeConcurrentModification,
		Message:    "Record was modified by another request. Please refresh and try again.",
		HTTPStatus: http.StatusConflict,
		Details:    map[string]any{"entity": entity, "id": id},
	}
}

// NewIntegrity creates a bug-class integrity error (FK/unique violation after
// retry exhaustion). Details stay out of the client response.
func NewIntegrity(err error) *AppError {
	return &AppError{
		Code:       CodeIntegrity,
		Message:    "Internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// NewInternal creates an internal server error (hides details from client)
func NewInternal(err error) *AppError {
	return &AppError{
		Code:       CodeInternal,
		Message:    "Internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// NewUnauthorized creates an authentication error (401)
func NewUnauthorized(message string) *AppError {
	return &AppError{
		Code:       CodeUnauthorized,
		Message:    message,
		HTTPStatus: http.StatusUnauthorized,
	}
}

// NewForbidden creates an authorization error (403)
func NewForbidden(message string) *AppError {
	return &AppError{
		Code:       CodeForbidden,
		Message:    message,
		HTTPStatus: http.StatusForbidden,
	}
}

// NewConflict creates a conflict error (409)
func NewConflict(message string) *AppError {
	return &AppError{
		Code:       CodeConflict,
		Message:    message,
		HTTPStatus: http.StatusConflict,
	}
}

// NewDuplicate creates a duplicate entry error (409)
func NewDuplicate(entity, field, value string) *AppError {
	return &AppError{
		Code:       CodeDuplicate,
		Message:    fmt.Sprintf("%s with this %s already exists", entity, field),
		HTTPStatus: http.StatusConflict,
		Retryable:  true,
		Details:    map[string]any{"entity": entity, "field": field, "value": value},
	}
}

// NewIdempotencyConflict creates error when operation is already in progress
func NewIdempotencyConflict(key string) *AppError {
	return &AppError{
		Code:       CodeIdempotency,
		Message:    "Operation already in progress or completed",
		HTTPStatus: http.StatusConflict,
		Details:    map[string]any{"idempotency_key": key},
	}
}

// NewIdempotencyMismatch is returned when the same idempotency key is reused for
// a different request (different user/operation/body hash).
func NewIdempotencyMismatch(key string) *AppError {
	return &AppError{
		Code:       CodeIdempotency,
		Message:    "Idempotency key mismatch",
		HTTPStatus: http.StatusConflict,
		Details:    map[string]any{"idempotency_key": key},
	}
}

// --- Helper functions ---

// IsAppError checks if error is AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// AsAppError extracts AppError from error chain
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// GetHTTPStatus returns appropriate HTTP status for any error
func GetHTTPStatus(err error) int {
	if appErr, ok := AsAppError(err); ok {
		return appErr.HTTPStatus
	}
	return http.StatusInternalServerError
}

// IsNotFound checks if error is CodeNotFound
func IsNotFound(err error) bool {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code == CodeNotFound
	}
	return false
}

// IsRetryable reports whether the caller may safely retry the whole operation.
func IsRetryable(err error) bool {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Retryable
	}
	return false
}
