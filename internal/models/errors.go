package models

import "fmt"

// AppError represents a custom application error
type AppError struct {
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Predefined error constructors
func NewNotFoundError(resource string, id interface{}) *AppError {
	return &AppError{
		Code:    "NOT_FOUND",
		Message: fmt.Sprintf("%s with ID %v not found", resource, id),
	}
}

func NewValidationError(message string) *AppError {
	return &AppError{
		Code:    "VALIDATION_ERROR",
		Message: message,
	}
}

// NewIntegrityError reports a cascade or counter update that could not
// complete consistently, for example a failed durable write mid-cascade.
func NewIntegrityError(message string, err error) *AppError {
	return &AppError{
		Code:    "INTEGRITY_VIOLATION",
		Message: message,
		Err:     err,
	}
}

// NewSerializationError reports a snapshot that could not be decoded.
func NewSerializationError(err error) *AppError {
	return &AppError{
		Code:    "SERIALIZATION_FAILURE",
		Message: "snapshot could not be decoded",
		Err:     err,
	}
}

func NewInternalError(err error) *AppError {
	return &AppError{
		Code:    "INTERNAL_ERROR",
		Message: "Internal server error",
		Err:     err,
	}
}
