// Package redfish is the public entry point for the bsend blocking
// batch-RPC coordinator. See doc.go for an overview.
package redfish

import (
	"errors"
	"fmt"
	"syscall"
)

// Error is a structured bsend error carrying the failed operation, a
// high-level category, and (where applicable) the POSIX errno it was
// mapped from. Synchronous entry points surface these in place of bare
// negative error codes.
type Error struct {
	Op    string        // Operation that failed (e.g., "ADD_TR", "RESET")
	Code  ErrorCode     // High-level error category
	Errno syscall.Errno // Kernel errno (0 if not applicable)
	Msg   string        // Human-readable message
	Inner error         // Wrapped error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Msg
	if msg == "" {
		msg = string(e.Code)
	}

	if e.Op != "" && e.Errno != 0 {
		return fmt.Sprintf("bsend: %s: %s (errno=%d)", e.Op, msg, e.Errno)
	}
	if e.Op != "" {
		return fmt.Sprintf("bsend: %s: %s", e.Op, msg)
	}
	return fmt.Sprintf("bsend: %s", msg)
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Inner
}

// Is provides errors.Is support keyed on Code.
func (e *Error) Is(target error) bool {
	if target == nil {
		return false
	}
	te, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == te.Code
}

// ErrorCode classifies a bsend error into one of a small set of
// categories: exhaustion, precondition violation, invalid parameters,
// or per-transaction transport error.
type ErrorCode string

const (
	// ErrCodeExhausted covers slot-table capacity (EMFILE) and
	// transaction/message allocation failure (ENOMEM).
	ErrCodeExhausted ErrorCode = "exhausted"
	// ErrCodePrecondition covers programming errors: reset while
	// outstanding, a callback reaching a transaction in an unexpected
	// state, join/reset/free misuse. These are treated as fatal
	// assertions rather than logged-and-continued conditions.
	ErrCodePrecondition ErrorCode = "precondition violation"
	// ErrCodeTransport covers per-transaction errors delivered via
	// Transaction.Err and decoded by the caller after Join.
	ErrCodeTransport ErrorCode = "transport error"
	// ErrCodeInvalidParameters covers malformed constructor arguments,
	// e.g. a non-positive slot-table capacity.
	ErrCodeInvalidParameters ErrorCode = "invalid parameters"
)

// NewError creates a new structured error with no wrapped errno.
func NewError(op string, code ErrorCode, msg string) *Error {
	return &Error{Op: op, Code: code, Msg: msg}
}

// NewErrnoError creates a new structured error from a POSIX errno,
// classifying it via mapErrnoToCode.
func NewErrnoError(op string, errno syscall.Errno) *Error {
	return &Error{
		Op:    op,
		Code:  mapErrnoToCode(errno),
		Errno: errno,
		Msg:   errno.Error(),
	}
}

// WrapError wraps an existing error with bsend operation context,
// mapping any underlying syscall.Errno to an ErrorCode.
func WrapError(op string, inner error) *Error {
	if inner == nil {
		return nil
	}

	if be, ok := inner.(*Error); ok {
		return &Error{Op: op, Code: be.Code, Errno: be.Errno, Msg: be.Msg, Inner: be.Inner}
	}

	var errno syscall.Errno
	if errors.As(inner, &errno) {
		return &Error{Op: op, Code: mapErrnoToCode(errno), Errno: errno, Msg: errno.Error(), Inner: inner}
	}

	return &Error{Op: op, Code: ErrCodeTransport, Msg: inner.Error(), Inner: inner}
}

// mapErrnoToCode maps a POSIX errno to a bsend ErrorCode.
func mapErrnoToCode(errno syscall.Errno) ErrorCode {
	switch errno {
	case syscall.EMFILE, syscall.ENFILE:
		return ErrCodeExhausted
	case syscall.ENOMEM, syscall.ENOSPC:
		return ErrCodeExhausted
	case syscall.EINVAL, syscall.E2BIG:
		return ErrCodeInvalidParameters
	default:
		return ErrCodeTransport
	}
}

// IsCode reports whether err is (or wraps) a *Error with the given Code.
func IsCode(err error, code ErrorCode) bool {
	var be *Error
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}

// IsErrno reports whether err is (or wraps) a *Error carrying the given
// errno.
func IsErrno(err error, errno syscall.Errno) bool {
	var be *Error
	if errors.As(err, &be) {
		return be.Errno == errno
	}
	return false
}
