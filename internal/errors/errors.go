// Package errors provides coded domain errors for the accession workflow.
//
// Every failure a librarian can hit (a bad upload, a missing column, an unknown
// accession number, a rating out of range, a failed save) carries a Code so the
// CLI and the HTTP API can report it the same way:
//
//	var domainErr *errors.Error
//	if errors.As(err, &domainErr) {
//	    http.Error(w, domainErr.Message, domainErr.HTTPStatus())
//	}
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Re-export standard library functions for convenience.
var (
	Is = errors.Is
	As = errors.As
)

// Code represents a machine-readable error code.
type Code string

const (
	CodeUnsupportedFormat  Code = "UNSUPPORTED_FORMAT"
	CodeParseFailure       Code = "PARSE_FAILURE"
	CodeColumnMissing      Code = "COLUMN_MISSING"
	CodeNotFound           Code = "NOT_FOUND"
	CodeUploadTooLarge     Code = "UPLOAD_TOO_LARGE"
	CodeValidation         Code = "VALIDATION"
	CodePersistenceFailure Code = "PERSISTENCE_FAILURE"
	CodeInternal           Code = "INTERNAL"
)

// HTTPStatus returns the HTTP status code for an error code.
func (c Code) HTTPStatus() int {
	switch c {
	case CodeUnsupportedFormat:
		return http.StatusUnsupportedMediaType
	case CodeParseFailure, CodeValidation:
		return http.StatusBadRequest
	case CodeColumnMissing:
		return http.StatusUnprocessableEntity
	case CodeNotFound:
		return http.StatusNotFound
	case CodeUploadTooLarge:
		return http.StatusRequestEntityTooLarge
	default:
		return http.StatusInternalServerError
	}
}

// Error is a domain error with a code, message, and optional details.
type Error struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
	cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.cause
}

// Is reports whether target is an *Error with the same Code.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

// HTTPStatus returns the HTTP status code for this error.
func (e *Error) HTTPStatus() int {
	return e.Code.HTTPStatus()
}

// Sentinel errors for use with errors.Is().
var (
	ErrUnsupportedFormat  = &Error{Code: CodeUnsupportedFormat, Message: "unsupported file format"}
	ErrParseFailure       = &Error{Code: CodeParseFailure, Message: "failed to parse dataset"}
	ErrColumnMissing      = &Error{Code: CodeColumnMissing, Message: "required column missing"}
	ErrNotFound           = &Error{Code: CodeNotFound, Message: "not found"}
	ErrValidation         = &Error{Code: CodeValidation, Message: "validation error"}
	ErrPersistenceFailure = &Error{Code: CodePersistenceFailure, Message: "failed to persist record"}
	ErrInternal           = &Error{Code: CodeInternal, Message: "internal error"}
)

// UnsupportedFormatf creates an unsupported format error.
func UnsupportedFormatf(format string, args ...any) *Error {
	return &Error{Code: CodeUnsupportedFormat, Message: fmt.Sprintf(format, args...)}
}

// ColumnMissing creates a column missing error listing the absent columns.
func ColumnMissing(columns []string) *Error {
	return &Error{
		Code:    CodeColumnMissing,
		Message: fmt.Sprintf("required column(s) missing: %v", columns),
		Details: columns,
	}
}

// NotFoundf creates a not found error with formatted message.
func NotFoundf(format string, args ...any) *Error {
	return &Error{Code: CodeNotFound, Message: fmt.Sprintf(format, args...)}
}

// UploadTooLargef creates an upload too large error with formatted message.
func UploadTooLargef(format string, args ...any) *Error {
	return &Error{Code: CodeUploadTooLarge, Message: fmt.Sprintf(format, args...)}
}

// Validationf creates a validation error with formatted message.
func Validationf(format string, args ...any) *Error {
	return &Error{Code: CodeValidation, Message: fmt.Sprintf(format, args...)}
}

// ValidationWithDetails creates a validation error with details.
func ValidationWithDetails(msg string, details any) *Error {
	return &Error{Code: CodeValidation, Message: msg, Details: details}
}

// Wrap wraps an error with a code and message.
func Wrap(err error, code Code, msg string) *Error {
	return &Error{Code: code, Message: msg, cause: err}
}

// Wrapf wraps an error with a code and formatted message.
func Wrapf(err error, code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), cause: err}
}

// CodeOf returns the Code carried by err, or CodeInternal if err is not a
// domain error.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeInternal
}
