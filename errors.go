package wpfs

import (
	"errors"
	"fmt"
)

// Common errors
var (
	ErrNotExist        = errors.New("file does not exist")
	ErrPermission      = errors.New("permission denied")
	ErrFailed          = errors.New("operation failed")
	ErrNotSupported    = errors.New("operation not supported")
	ErrUnsupportedKind = errors.New("unsupported filesystem kind")
	ErrMethodNotFound  = errors.New("method not found")
	ErrConnection      = errors.New("could not access filesystem")
	ErrInvalidPath     = errors.New("invalid path")
)

// PathError records an error and the operation and file path that caused it
type PathError struct {
	Op   string
	Path string
	Err  error
}

// Error implements the error interface
func (e *PathError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

// Unwrap returns the underlying error
func (e *PathError) Unwrap() error {
	return e.Err
}

// FSError is raised by the guarded decorators and the initializer. Err is
// one of ErrNotExist, ErrPermission, ErrFailed or ErrConnection; Msg is the
// user facing message.
type FSError struct {
	Op    string
	Path  string
	Msg   string
	Err   error
	Cause error
}

func (e *FSError) Error() string {
	return e.Msg
}

// Unwrap returns the category error and, when known, the underlying cause.
func (e *FSError) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Err}
	}
	return []error{e.Err, e.Cause}
}

func newNotFound(op, path string) *FSError {
	return &FSError{Op: op, Path: path, Err: ErrNotExist,
		Msg: fmt.Sprintf("Path or file %s not found", path)}
}

func newPermission(op, path string) *FSError {
	return &FSError{Op: op, Path: path, Err: ErrPermission,
		Msg: fmt.Sprintf("Permission denied for %s", path)}
}

func newFailure(op, msg string) *FSError {
	if msg == "" {
		msg = "Operation failed without a specific error message."
	}
	return &FSError{Op: op, Err: ErrFailed, Msg: msg}
}

// HostError is the structured error value some host functions return in place
// of a plain failure, carrying a machine code and a message.
type HostError struct {
	Code    string
	Message string
}

func (e *HostError) Error() string {
	if e.Code == "" {
		return e.Message
	}
	return e.Code + ": " + e.Message
}

// IsNotExist reports whether an error indicates that a file or directory
// does not exist
func IsNotExist(err error) bool {
	return errors.Is(err, ErrNotExist)
}

// IsPermission reports whether an error indicates that permission is denied
func IsPermission(err error) bool {
	return errors.Is(err, ErrPermission)
}

// IsFailure reports whether err is a generic operation failure.
func IsFailure(err error) bool {
	return errors.Is(err, ErrFailed)
}

// AsHostError unwraps err to a *HostError.
func AsHostError(err error) (*HostError, bool) {
	var he *HostError
	if errors.As(err, &he) {
		return he, true
	}
	return nil, false
}
