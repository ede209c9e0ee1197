package checker

import (
	"fmt"
)

// ErrorType represents different categories of checker errors
type ErrorType int

const (
	ErrorInvalidInput ErrorType = iota
	ErrorLimitExceeded
	ErrorGeneration
	ErrorGateFailure
	ErrorUnknown
)

// String returns the string representation of the error type
func (et ErrorType) String() string {
	switch et {
	case ErrorInvalidInput:
		return "invalid_input"
	case ErrorLimitExceeded:
		return "limit_exceeded"
	case ErrorGeneration:
		return "generation"
	case ErrorGateFailure:
		return "gate_failure"
	case ErrorUnknown:
		return "unknown"
	default:
		return "unknown"
	}
}

// CheckError represents a structured error raised by the checker domain
type CheckError struct {
	Type    ErrorType `json:"type"`
	Message string    `json:"message"`
	Cause   error     `json:"cause,omitempty"`
}

// Error implements the error interface
func (ce *CheckError) Error() string {
	if ce.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", ce.Type.String(), ce.Message, ce.Cause)
	}
	return fmt.Sprintf("%s: %s", ce.Type.String(), ce.Message)
}

// Unwrap returns the underlying cause error
func (ce *CheckError) Unwrap() error {
	return ce.Cause
}

// NewCheckError creates a new CheckError with the specified type and message
func NewCheckError(errorType ErrorType, message string) *CheckError {
	return &CheckError{Type: errorType, Message: message}
}

// NewCheckErrorWithCause creates a new CheckError with a cause
func NewCheckErrorWithCause(errorType ErrorType, message string, cause error) *CheckError {
	return &CheckError{Type: errorType, Message: message, Cause: cause}
}

// IsCheckError checks if an error is a CheckError and optionally of a specific type
func IsCheckError(err error, errorType ...ErrorType) bool {
	ce, ok := err.(*CheckError)
	if !ok {
		return false
	}
	if len(errorType) == 0 {
		return true
	}
	for _, et := range errorType {
		if ce.Type == et {
			return true
		}
	}
	return false
}
