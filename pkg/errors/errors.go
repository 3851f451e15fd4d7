// Package errors provides structured error handling for chunkstore
package errors

import (
	"errors"
	"fmt"
	"runtime"
)

// ErrorType represents the category of error
type ErrorType string

const (
	// ErrorTypeInternal represents internal system errors
	ErrorTypeInternal ErrorType = "internal"
	// ErrorTypeOutOfRange represents an offset, id or index past its bound
	ErrorTypeOutOfRange ErrorType = "out_of_range"
	// ErrorTypeSizeMismatch represents a row whose arity differs from the column count
	ErrorTypeSizeMismatch ErrorType = "size_mismatch"
	// ErrorTypeImmutable represents a mutation attempted on an immutable segment
	ErrorTypeImmutable ErrorType = "immutable"
	// ErrorTypeTypeMismatch represents a value that cannot be cast to a segment's type
	ErrorTypeTypeMismatch ErrorType = "type_mismatch"
	// ErrorTypeDuplicateColumn represents a column name that already exists
	ErrorTypeDuplicateColumn ErrorType = "duplicate_column"
	// ErrorTypeInvalidState represents an operation not allowed in the current state
	ErrorTypeInvalidState ErrorType = "invalid_state"
	// ErrorTypeNotFound represents unknown table or column names
	ErrorTypeNotFound ErrorType = "not_found"
	// ErrorTypeConfig represents configuration errors
	ErrorTypeConfig ErrorType = "config"
	// ErrorTypeFile represents file operation errors
	ErrorTypeFile ErrorType = "file"
)

// Error represents a structured error with context
type Error struct {
	Type    ErrorType
	Message string
	Cause   error
	Details map[string]interface{}
	Stack   []StackFrame
}

// StackFrame represents a single frame in the call stack
type StackFrame struct {
	Function string
	File     string
	Line     int
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an *Error of the same type with no message,
// which lets callers write errors.Is(err, ErrNotFound).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Message == "" && t.Type == e.Type
}

// WithDetail adds a key-value detail to the error
func (e *Error) WithDetail(key string, value interface{}) *Error {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// Sentinels for errors.Is comparisons.
var (
	ErrOutOfRange      = &Error{Type: ErrorTypeOutOfRange}
	ErrSizeMismatch    = &Error{Type: ErrorTypeSizeMismatch}
	ErrImmutable       = &Error{Type: ErrorTypeImmutable}
	ErrTypeMismatch    = &Error{Type: ErrorTypeTypeMismatch}
	ErrDuplicateColumn = &Error{Type: ErrorTypeDuplicateColumn}
	ErrInvalidState    = &Error{Type: ErrorTypeInvalidState}
	ErrNotFound        = &Error{Type: ErrorTypeNotFound}
	ErrConfig          = &Error{Type: ErrorTypeConfig}
)

// New creates a new error with the given type and message
func New(errType ErrorType, message string) *Error {
	return &Error{
		Type:    errType,
		Message: message,
		Stack:   captureStack(2),
	}
}

// Newf creates a new error with a formatted message
func Newf(errType ErrorType, format string, args ...interface{}) *Error {
	return &Error{
		Type:    errType,
		Message: fmt.Sprintf(format, args...),
		Stack:   captureStack(2),
	}
}

// OutOfRange builds the error returned by every bounds check.
func OutOfRange(what string, index, bound int) *Error {
	return &Error{
		Type:    ErrorTypeOutOfRange,
		Message: fmt.Sprintf("%s %d out of range [0, %d)", what, index, bound),
		Stack:   captureStack(2),
	}
}

// Wrap wraps an existing error with additional context
func Wrap(err error, errType ErrorType, message string) *Error {
	if err == nil {
		return nil
	}

	// If already our error type, preserve the stack
	var existingErr *Error
	if errors.As(err, &existingErr) {
		return &Error{
			Type:    errType,
			Message: message,
			Cause:   err,
			Stack:   existingErr.Stack,
		}
	}

	return &Error{
		Type:    errType,
		Message: message,
		Cause:   err,
		Stack:   captureStack(2),
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, errType ErrorType, format string, args ...interface{}) *Error {
	if err == nil {
		return nil
	}
	return Wrap(err, errType, fmt.Sprintf(format, args...))
}

// IsType checks if the error is of the given type
func IsType(err error, errType ErrorType) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Type == errType
}

// ErrorTypeOf returns the type of the outermost *Error in err's chain, or
// ErrorTypeInternal when there is none.
func ErrorTypeOf(err error) ErrorType {
	var e *Error
	if !errors.As(err, &e) {
		return ErrorTypeInternal
	}
	return e.Type
}

// captureStack captures the current call stack
func captureStack(skip int) []StackFrame {
	const maxFrames = 32
	frames := make([]StackFrame, 0, maxFrames)

	for i := skip; i < maxFrames+skip; i++ {
		pc, file, line, ok := runtime.Caller(i)
		if !ok {
			break
		}

		fn := runtime.FuncForPC(pc)
		if fn == nil {
			continue
		}

		frames = append(frames, StackFrame{
			Function: fn.Name(),
			File:     file,
			Line:     line,
		})
	}

	return frames
}
