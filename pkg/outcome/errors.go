package outcome

import "fmt"

// ErrorKind classifies a failure so downstream adapters can translate it
// to their own representation (HTTP status, UI state, exit code).
// The set is closed and the string values are stable identifiers; this
// package never maps them to transport codes.
type ErrorKind string

const (
	KindNotFound         ErrorKind = "not_found"
	KindForbidden        ErrorKind = "forbidden"
	KindValidationFailed ErrorKind = "validation_failed"
	KindConflict         ErrorKind = "conflict"
	KindCancelled        ErrorKind = "cancelled"
	KindUnexpected       ErrorKind = "unexpected"
)

// ErrorInfo describes a failure: a machine-readable kind, a human-readable
// message, and optional string metadata for adapters (validation failure
// lists, panic details, etc). Treated as immutable once attached to an
// Outcome.
type ErrorInfo struct {
	Kind     ErrorKind
	Message  string
	Metadata map[string]string
}

// NewError creates an ErrorInfo with no metadata.
func NewError(kind ErrorKind, message string) *ErrorInfo {
	return &ErrorInfo{Kind: kind, Message: message}
}

// WithMetadata returns a copy of the error with the given key set.
// The receiver is not modified.
func (e *ErrorInfo) WithMetadata(key, value string) *ErrorInfo {
	clone := &ErrorInfo{
		Kind:     e.Kind,
		Message:  e.Message,
		Metadata: make(map[string]string, len(e.Metadata)+1),
	}
	for k, v := range e.Metadata {
		clone.Metadata[k] = v
	}
	clone.Metadata[key] = value
	return clone
}

// Error implements the error interface so an ErrorInfo can cross
// boundaries that expect a plain error.
func (e *ErrorInfo) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// NotFoundError creates a not_found failure description.
func NotFoundError(format string, args ...interface{}) *ErrorInfo {
	return NewError(KindNotFound, fmt.Sprintf(format, args...))
}

// ForbiddenError creates a forbidden failure description.
func ForbiddenError(format string, args ...interface{}) *ErrorInfo {
	return NewError(KindForbidden, fmt.Sprintf(format, args...))
}

// ValidationError creates a validation_failed failure description.
func ValidationError(format string, args ...interface{}) *ErrorInfo {
	return NewError(KindValidationFailed, fmt.Sprintf(format, args...))
}

// ConflictError creates a conflict failure description.
func ConflictError(format string, args ...interface{}) *ErrorInfo {
	return NewError(KindConflict, fmt.Sprintf(format, args...))
}

// CancelledError creates a cancelled failure description.
func CancelledError(format string, args ...interface{}) *ErrorInfo {
	return NewError(KindCancelled, fmt.Sprintf(format, args...))
}

// UnexpectedError wraps a defect. The message shown to callers is generic;
// the originating detail goes into metadata so adapters never leak
// internals to end users by default.
func UnexpectedError(cause string) *ErrorInfo {
	return NewError(KindUnexpected, "an unexpected error occurred").
		WithMetadata("cause", cause)
}

// recovered converts a recovered panic value into an unexpected failure.
func recovered(r interface{}) *ErrorInfo {
	return UnexpectedError(fmt.Sprintf("panic: %v", r))
}
