// Package domain defines core types, interfaces, and errors for the molecule import platform.
package domain

import (
	"fmt"
	"strings"
)

// NotFoundError indicates a resource was not found.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string { return e.Message }

// AccessDeniedError indicates insufficient permissions.
type AccessDeniedError struct {
	Message string
}

func (e *AccessDeniedError) Error() string { return e.Message }

// ValidationError indicates invalid input.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// ConflictError indicates a conflict (e.g., duplicate resource or stale write).
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

// UnknownColumnError is returned when a mapping operation names a source
// column that is not part of the upload's mapping set. It signals a caller
// bug (for example a stale header list), not a data-quality problem.
type UnknownColumnError struct {
	Column string
}

func (e *UnknownColumnError) Error() string {
	return fmt.Sprintf("unknown column %q", e.Column)
}

// UnknownPropertyError is returned when a mapping operation targets a key
// that is not present in the property registry.
type UnknownPropertyError struct {
	Key string
}

func (e *UnknownPropertyError) Error() string {
	return fmt.Sprintf("unknown property %q", e.Key)
}

// MappingInvalidError is returned by the commit boundary when the mapping
// set of an import does not validate. Result carries every finding.
type MappingInvalidError struct {
	Result ValidationResult
}

func (e *MappingInvalidError) Error() string {
	if len(e.Result.Errors) == 0 {
		return "column mapping is invalid"
	}
	return "column mapping is invalid: " + strings.Join(e.Result.Errors, " ")
}

// ErrNotFound creates a NotFoundError with a formatted message.
func ErrNotFound(format string, args ...interface{}) *NotFoundError {
	return &NotFoundError{Message: fmt.Sprintf(format, args...)}
}

// ErrAccessDenied creates an AccessDeniedError with a formatted message.
func ErrAccessDenied(format string, args ...interface{}) *AccessDeniedError {
	return &AccessDeniedError{Message: fmt.Sprintf(format, args...)}
}

// ErrValidation creates a ValidationError with a formatted message.
func ErrValidation(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// ErrConflict creates a ConflictError with a formatted message.
func ErrConflict(format string, args ...interface{}) *ConflictError {
	return &ConflictError{Message: fmt.Sprintf(format, args...)}
}
