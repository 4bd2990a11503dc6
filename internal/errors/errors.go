// Package errors defines the typed error taxonomy shared by the
// preparation pipeline: fatal load failures, contained per-cell parse
// failures, surfaced strategy misuse, and recoverable state errors.
package errors

import (
	"errors"
	"fmt"
)

// ErrorType represents the type of error
type ErrorType string

const (
	// ErrTypeLoad marks an unreadable source or malformed header.
	// Always fatal; a load never partially populates a dataset.
	ErrTypeLoad ErrorType = "LOAD"

	// ErrTypeParsing marks a value that failed numeric coercion. At
	// cell granularity these are contained (the cell becomes missing);
	// the type surfaces only for whole-input parse failures.
	ErrTypeParsing ErrorType = "PARSING"

	// ErrTypeStrategy marks imputation misuse: an unrecognized strategy
	// name, or mean/median requested on a non-numeric column.
	ErrTypeStrategy ErrorType = "STRATEGY"

	// ErrTypeState marks an operation sequenced before its
	// prerequisites. Callers recover these by computing the missing
	// state; they are not surfaced from Dataset methods.
	ErrTypeState ErrorType = "STATE"

	ErrTypeValidation ErrorType = "VALIDATION"
	ErrTypeNotFound   ErrorType = "NOT_FOUND"
	ErrTypeStorage    ErrorType = "STORAGE"
	ErrTypeConfig     ErrorType = "CONFIG"
)

// AppError represents an application-specific error
type AppError struct {
	Type    ErrorType
	Message string
	Cause   error
	Context map[string]interface{}
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap allows errors.Is and errors.As to work with AppError
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithContext adds context to the error
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// NewAppError creates a new application error
func NewAppError(errType ErrorType, message string, cause error) *AppError {
	return &AppError{
		Type:    errType,
		Message: message,
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

// Helper functions for common error types

// NewLoadError creates a load error
func NewLoadError(message string, cause error) *AppError {
	return NewAppError(ErrTypeLoad, message, cause)
}

// NewParsingError creates a parsing error
func NewParsingError(message string, cause error) *AppError {
	return NewAppError(ErrTypeParsing, message, cause)
}

// NewStrategyError creates a strategy error
func NewStrategyError(message string, cause error) *AppError {
	return NewAppError(ErrTypeStrategy, message, cause)
}

// NewStateError creates a state error
func NewStateError(message string, cause error) *AppError {
	return NewAppError(ErrTypeState, message, cause)
}

// NewValidationError creates a validation error
func NewValidationError(message string, cause error) *AppError {
	return NewAppError(ErrTypeValidation, message, cause)
}

// NewNotFoundError creates a not found error
func NewNotFoundError(resource string) *AppError {
	return NewAppError(ErrTypeNotFound, fmt.Sprintf("%s not found", resource), nil)
}

// NewStorageError creates a storage error
func NewStorageError(message string, cause error) *AppError {
	return NewAppError(ErrTypeStorage, message, cause)
}

// NewConfigError creates a configuration error
func NewConfigError(message string, cause error) *AppError {
	return NewAppError(ErrTypeConfig, message, cause)
}

// IsType reports whether err is (or wraps) an AppError of the given type.
func IsType(err error, errType ErrorType) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type == errType
	}
	return false
}
