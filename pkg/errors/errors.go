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

	// Manifest errors
	ErrManifestParse   ErrorCode = "MANIFEST_PARSE"
	ErrManifestInvalid ErrorCode = "MANIFEST_INVALID"

	// Trust errors
	ErrTrustDenied ErrorCode = "TRUST_DENIED"

	// Execution errors
	ErrStepFailed ErrorCode = "STEP_FAILED"

	// State errors
	ErrStateCorrupt ErrorCode = "STATE_CORRUPT"
	ErrStateWrite   ErrorCode = "STATE_WRITE"

	// Configuration errors
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigParse ErrorCode = "CONFIG_PARSE"

	// FileSystem errors
	ErrFileNotFound ErrorCode = "FILE_NOT_FOUND"
	ErrFileAccess   ErrorCode = "FILE_ACCESS"
	ErrFileWrite    ErrorCode = "FILE_WRITE"
	ErrDirCreate    ErrorCode = "DIR_CREATE"

	// Version control errors
	ErrVCSClone  ErrorCode = "VCS_CLONE"
	ErrVCSCommit ErrorCode = "VCS_COMMIT"
	ErrVCSPush   ErrorCode = "VCS_PUSH"
)

// JtdError represents a structured error with code and details
type JtdError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *JtdError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *JtdError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *JtdError) Is(target error) bool {
	var targetErr *JtdError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new JtdError with the given code and message
func New(code ErrorCode, message string) *JtdError {
	return &JtdError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new JtdError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *JtdError {
	return &JtdError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a JtdError
func Wrap(err error, code ErrorCode, message string) *JtdError {
	if err == nil {
		return nil
	}
	return &JtdError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *JtdError {
	if err == nil {
		return nil
	}
	return &JtdError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *JtdError) WithDetail(key string, value interface{}) *JtdError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// GetCode extracts the ErrorCode from an error, returning ErrUnknown for
// errors that are not JtdErrors.
func GetCode(err error) ErrorCode {
	var jtdErr *JtdError
	if errors.As(err, &jtdErr) {
		return jtdErr.Code
	}
	return ErrUnknown
}

// IsCode checks whether err carries the given code.
func IsCode(err error, code ErrorCode) bool {
	return GetCode(err) == code
}
