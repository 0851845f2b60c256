package types

import "fmt"

// ErrorCode represents a unified error code across the handoff core.
type ErrorCode string

// Registry and dispatch error codes.
const (
	ErrUnknownAgent   ErrorCode = "UNKNOWN_AGENT"
	ErrDuplicateAgent ErrorCode = "DUPLICATE_AGENT"
	ErrInvalidContext ErrorCode = "INVALID_CONTEXT"
)

// Execution error codes. These appear inside failed results rather than as
// returned errors.
const (
	ErrTimeout        ErrorCode = "TIMEOUT"
	ErrAgentExecution ErrorCode = "AGENT_EXECUTION"
	ErrSynthesis      ErrorCode = "SYNTHESIS"
	ErrCanceled       ErrorCode = "CANCELED"
)

// Storage error codes.
const (
	ErrStore       ErrorCode = "STORE"
	ErrStoreClosed ErrorCode = "STORE_CLOSED"
	ErrNotFound    ErrorCode = "NOT_FOUND"
)

// Error is a structured error with a code, message, and optional cause.
type Error struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	AgentID string    `json:"agent_id,omitempty"`
	Cause   error     `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// NewError creates a new Error with the given code and message.
func NewError(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Errorf creates a new Error with a formatted message.
func Errorf(code ErrorCode, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// WithCause adds a cause to the error.
func (e *Error) WithCause(cause error) *Error {
	e.Cause = cause
	return e
}

// WithAgent attaches the agent id the error refers to.
func (e *Error) WithAgent(id string) *Error {
	e.AgentID = id
	return e
}

// GetErrorCode extracts the error code from an error, or "" if it is not a
// structured Error.
func GetErrorCode(err error) ErrorCode {
	if e, ok := err.(*Error); ok {
		return e.Code
	}
	return ""
}

// IsCode reports whether err is a structured Error carrying the given code.
func IsCode(err error, code ErrorCode) bool {
	return GetErrorCode(err) == code
}
