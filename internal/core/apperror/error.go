// Package apperror provides structured error handling for the label pipeline.
// Every domain failure is an *AppError so transports can map it consistently.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes
const (
	// Infrastructure errors (5xx)
	CodeInternal       = "INTERNAL_ERROR"
	CodePersistence    = "PERSISTENCE_ERROR"
	CodeCaptureFailure = "CAPTURE_FAILURE"

	// Validation errors (400)
	CodeValidation        = "VALIDATION_ERROR"
	CodeInvalidIdentifier = "INVALID_IDENTIFIER"
	CodeInvalidPrefix     = "INVALID_PREFIX"
	CodeInvalidGeometry   = "INVALID_GEOMETRY"
	CodeInvalidFilter     = "INVALID_FILTER"

	// Business rule violations (422)
	CodeGeometryTooSmall = "GEOMETRY_TOO_SMALL"
	CodeEmptyRecordSet   = "EMPTY_RECORD_SET"

	// Not found (404)
	CodeNotFound        = "NOT_FOUND"
	CodeIndexOutOfRange = "INDEX_OUT_OF_RANGE"

	// Conflict (409)
	CodeDuplicateIdentifier = "DUPLICATE_IDENTIFIER"
)

// AppError is the standard error type.
type AppError struct {
	// Code is a machine-readable error identifier
	Code string `json:"code"`

	// Message is a human-readable error description
	Message string `json:"message"`

	// Details contains additional context (offending value, bounds, ...)
	Details map[string]any `json:"details,omitempty"`

	// HTTPStatus is the suggested HTTP status code
	HTTPStatus int `json:"-"`

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

// --- Factory functions ---

// NewValidation creates a generic validation error (400)
func NewValidation(message string) *AppError {
	return &AppError{
		Code:       CodeValidation,
		Message:    message,
		HTTPStatus: http.StatusBadRequest,
	}
}

// NewInvalidIdentifier is returned when a normalized identifier is not 15 digits.
func NewInvalidIdentifier(normalized string) *AppError {
	return &AppError{
		Code:       CodeInvalidIdentifier,
		Message:    "identifier must be exactly 15 digits",
		HTTPStatus: http.StatusBadRequest,
		Details:    map[string]any{"identifier": normalized, "length": len(normalized)},
	}
}

// NewInvalidPrefix is returned when a prefix code is not 2 or 3 digits.
func NewInvalidPrefix(prefix string) *AppError {
	return &AppError{
		Code:       CodeInvalidPrefix,
		Message:    "prefix code must be 2 or 3 digits",
		HTTPStatus: http.StatusBadRequest,
		Details:    map[string]any{"prefix_code": prefix},
	}
}

// NewDuplicateIdentifier is returned when the store already holds the identifier.
func NewDuplicateIdentifier(identifier string, index int) *AppError {
	return &AppError{
		Code:       CodeDuplicateIdentifier,
		Message:    "identifier already exists",
		HTTPStatus: http.StatusConflict,
		Details:    map[string]any{"identifier": identifier, "index": index},
	}
}

// NewIndexOutOfRange is returned by positional removal on a bad index.
func NewIndexOutOfRange(index, length int) *AppError {
	return &AppError{
		Code:       CodeIndexOutOfRange,
		Message:    fmt.Sprintf("index %d out of range", index),
		HTTPStatus: http.StatusNotFound,
		Details:    map[string]any{"index": index, "length": length},
	}
}

// NewInvalidGeometry is returned for non-positive sizes or negative gaps.
func NewInvalidGeometry(field string, value any) *AppError {
	return &AppError{
		Code:       CodeInvalidGeometry,
		Message:    fmt.Sprintf("invalid geometry: %s", field),
		HTTPStatus: http.StatusBadRequest,
		Details:    map[string]any{"field": field, "value": value},
	}
}

// NewGeometryTooSmall is returned when not even one cell fits on a page.
func NewGeometryTooSmall(columns, rows int64) *AppError {
	return &AppError{
		Code:       CodeGeometryTooSmall,
		Message:    "page cannot fit a single label cell",
		HTTPStatus: http.StatusUnprocessableEntity,
		Details:    map[string]any{"columns": columns, "rows": rows},
	}
}

// NewEmptyRecordSet is returned when exporting nothing.
func NewEmptyRecordSet() *AppError {
	return &AppError{
		Code:       CodeEmptyRecordSet,
		Message:    "no records to render",
		HTTPStatus: http.StatusUnprocessableEntity,
	}
}

// NewInvalidFilter is returned when a selection expression does not compile to a boolean.
func NewInvalidFilter(expr string, err error) *AppError {
	return &AppError{
		Code:       CodeInvalidFilter,
		Message:    "invalid selection filter",
		HTTPStatus: http.StatusBadRequest,
		Details:    map[string]any{"filter": expr},
		Err:        err,
	}
}

// NewCaptureFailure is returned when no scanner backend can be opened.
func NewCaptureFailure(backend string, err error) *AppError {
	return &AppError{
		Code:       CodeCaptureFailure,
		Message:    "barcode capture unavailable",
		HTTPStatus: http.StatusServiceUnavailable,
		Details:    map[string]any{"backend": backend},
		Err:        err,
	}
}

// NewPersistence wraps a failed load or save of the record list.
func NewPersistence(op string, err error) *AppError {
	return &AppError{
		Code:       CodePersistence,
		Message:    "record storage failed",
		HTTPStatus: http.StatusInternalServerError,
		Details:    map[string]any{"operation": op},
		Err:        err,
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

// NewInternal creates an internal error (hides details from client)
func NewInternal(err error) *AppError {
	return &AppError{
		Code:       CodeInternal,
		Message:    "Internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// --- Helper functions ---

// AsAppError extracts AppError from error chain
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// Is reports whether err carries an AppError with the given code.
func Is(err error, code string) bool {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code == code
	}
	return false
}

// GetHTTPStatus returns appropriate HTTP status for any error
func GetHTTPStatus(err error) int {
	if appErr, ok := AsAppError(err); ok {
		return appErr.HTTPStatus
	}
	return http.StatusInternalServerError
}
