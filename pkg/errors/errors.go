package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

// Error codes for different error categories
const (
	// General errors
	ErrUnknown      ErrorCode = "UNKNOWN"
	ErrInternal     ErrorCode = "INTERNAL"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"
	ErrNotFound     ErrorCode = "NOT_FOUND"

	// Configuration errors
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigValid ErrorCode = "CONFIG_INVALID"

	// Registry errors
	ErrInvalidPath    ErrorCode = "INVALID_PATH"
	ErrInvalidAlias   ErrorCode = "INVALID_ALIAS"
	ErrDuplicateIndex ErrorCode = "DUPLICATE_INDEX"
	ErrDuplicateAlias ErrorCode = "DUPLICATE_ALIAS"
	ErrAmbiguousAlias ErrorCode = "AMBIGUOUS_ALIAS"

	// Stack errors
	ErrInvalidSession ErrorCode = "INVALID_SESSION"
	ErrEmptyStack     ErrorCode = "EMPTY_STACK"

	// Storage errors
	ErrStorageBusy    ErrorCode = "STORAGE_BUSY"
	ErrStorageCorrupt ErrorCode = "STORAGE_CORRUPT"
)

// Detail keys used by callers that render errors
const (
	DetailCandidates = "candidates"
	DetailReference  = "reference"
	DetailPath       = "path"
)

// QcdError represents a structured error with code and details
type QcdError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *QcdError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *QcdError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *QcdError) Is(target error) bool {
	var targetErr *QcdError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new QcdError with the given code and message
func New(code ErrorCode, message string) *QcdError {
	return &QcdError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new QcdError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *QcdError {
	return &QcdError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a QcdError
func Wrap(err error, code ErrorCode, message string) *QcdError {
	if err == nil {
		return nil
	}
	return &QcdError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *QcdError {
	if err == nil {
		return nil
	}
	return &QcdError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *QcdError) WithDetail(key string, value interface{}) *QcdError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var qcdErr *QcdError
	if errors.As(err, &qcdErr) {
		return qcdErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a QcdError
func GetErrorCode(err error) ErrorCode {
	var qcdErr *QcdError
	if errors.As(err, &qcdErr) {
		return qcdErr.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details from an error, or nil if not a QcdError
func GetErrorDetails(err error) map[string]interface{} {
	var qcdErr *QcdError
	if errors.As(err, &qcdErr) {
		return qcdErr.Details
	}
	return nil
}

// Candidates returns the alias candidates attached to an ambiguous
// resolution error.
func Candidates(err error) []string {
	details := GetErrorDetails(err)
	if details == nil {
		return nil
	}
	c, _ := details[DetailCandidates].([]string)
	return c
}

// Message returns the text shown to users: the message of the outermost
// coded error, followed by the cause when the cause is not itself coded.
func Message(err error) string {
	var qcdErr *QcdError
	if !errors.As(err, &qcdErr) {
		return err.Error()
	}
	if qcdErr.Wrapped == nil {
		return qcdErr.Message
	}
	var inner *QcdError
	if errors.As(qcdErr.Wrapped, &inner) {
		return qcdErr.Message + ": " + Message(inner)
	}
	return qcdErr.Message + ": " + qcdErr.Wrapped.Error()
}
