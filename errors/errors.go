package errors

import (
	stderrors "errors"
	"fmt"
)

// AppError is the unified starpipe error type.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// ExitCode is the process exit code the CLI reports for this error.
	ExitCode int `json:"-"`
	// Details contains additional context such as positions and stage indexes.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetails merges the provided details into the error and returns the receiver.
func (e *AppError) WithDetails(details map[string]any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new AppError with the exit code derived from code.
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:     code,
		Message:  message,
		ExitCode: ExitCodeFor(code),
	}
}

// --- Constructors ---

// NoMatchingStageShape creates an error for a stage that fits no stage shape.
// stage is the 1-based stage index, or 0 for the initial expression.
func NoMatchingStageShape(stage int, reason string) *AppError {
	return New(ErrCodeNoMatchingStageShape, reason).WithDetail("stage", stage)
}

// UnbalancedCallSite creates an error for a call site that is never closed.
func UnbalancedCallSite(marker string, line, col int) *AppError {
	return New(ErrCodeUnbalancedCallSite, fmt.Sprintf("%s( opened at %d:%d is never closed", marker, line, col)).
		WithDetails(map[string]any{"line": line, "col": col})
}

// MalformedSource creates an error for a file the tokenizer rejects.
func MalformedSource(file string, line, col int, cause error) *AppError {
	return New(ErrCodeMalformedSource, fmt.Sprintf("%s:%d:%d: cannot tokenize source", file, line, col)).
		WithDetails(map[string]any{"file": file, "line": line, "col": col}).WithCause(cause)
}

// DownstreamSyntax creates an error for rewritten source the host parser rejects.
func DownstreamSyntax(file string, cause error) *AppError {
	return New(ErrCodeDownstreamSyntax, fmt.Sprintf("rewritten %s does not parse", file)).
		WithDetail("file", file).WithCause(cause)
}

// InvalidConfig creates an error for configuration that failed validation.
func InvalidConfig(message string) *AppError {
	return New(ErrCodeInvalidConfig, message)
}

// InvalidInput creates an error for an invalid argument.
func InvalidInput(field, reason string) *AppError {
	e := New(ErrCodeInvalidInput, fmt.Sprintf("Invalid input: %s", reason))
	if field != "" {
		e.WithDetail("field", field)
	}
	return e
}

// IO creates an error for a failed file operation.
func IO(op, path string, cause error) *AppError {
	return New(ErrCodeIO, fmt.Sprintf("%s %s failed", op, path)).
		WithDetails(map[string]any{"operation": op, "path": path}).WithCause(cause)
}

// Internal creates an error for an unexpected failure.
func Internal(cause error) *AppError {
	return New(ErrCodeInternal, "An unexpected error occurred.").WithCause(cause)
}

// --- Inspection ---

// AsAppError converts an error to an AppError if possible.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// Is reports whether err is an AppError carrying code.
func Is(err error, code ErrorCode) bool {
	appErr, ok := AsAppError(err)
	return ok && appErr.Code == code
}

// ExitCodeOf returns the exit code for err: ExitOK for nil, the AppError's
// exit code when there is one, ExitInternal otherwise.
func ExitCodeOf(err error) int {
	if err == nil {
		return ExitOK
	}
	if appErr, ok := AsAppError(err); ok {
		return appErr.ExitCode
	}
	return ExitInternal
}

// CodeOf returns the AppError code carried by err, or INTERNAL_ERROR when err
// is not an AppError. It returns "" for nil.
func CodeOf(err error) ErrorCode {
	if err == nil {
		return ""
	}
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code
	}
	return ErrCodeInternal
}
