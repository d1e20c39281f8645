package sqlite

import (
	"errors"
	"fmt"

	sqlite3 "github.com/mattn/go-sqlite3"
)

// Sentinel errors for lifecycle misuse.
// Use errors.Is() to check for these errors in calling code.
var (
	// ErrClosed is returned when an operation is attempted on a closed
	// Database or Statement. A closed Database cannot be reused; open a
	// new one.
	ErrClosed = errors.New("sqlite: handle is closed")
)

// Kind classifies an Error by the operation family that produced it.
type Kind int

const (
	// KindConnection covers open, close, and reconfigure failures.
	KindConnection Kind = iota + 1

	// KindQuery covers prepare, execute, and step failures, including
	// constraint violations and busy-timeout expiry.
	KindQuery

	// KindBind covers parameter binding failures: index out of range or a
	// value the engine cannot represent.
	KindBind
)

// String returns a short label for the kind, used in error text.
func (k Kind) String() string {
	switch k {
	case KindConnection:
		return "connection"
	case KindQuery:
		return "query"
	case KindBind:
		return "bind"
	default:
		return "unknown"
	}
}

// Error is the single error type surfaced by this package for engine
// failures. It carries the engine's native result code and its diagnostic
// message verbatim.
type Error struct {
	// Kind is the operation family (connection/query/bind).
	Kind Kind

	// Code is the engine's primary result code, or 0 when the failure did
	// not originate in the engine (e.g. a range check in this layer).
	Code int

	// ExtendedCode is the engine's extended result code, when available.
	ExtendedCode int

	// Message is the engine diagnostic text, preserved verbatim.
	Message string

	err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("sqlite: %s error (code %d): %s", e.Kind, e.Code, e.Message)
	}
	return fmt.Sprintf("sqlite: %s error: %s", e.Kind, e.Message)
}

// Unwrap returns the underlying cause, allowing errors.Is/errors.As
// matching against driver errors and package sentinels.
func (e *Error) Unwrap() error {
	return e.err
}

// IsConnectionError reports whether err is an Error of KindConnection.
func IsConnectionError(err error) bool {
	return isKind(err, KindConnection)
}

// IsQueryError reports whether err is an Error of KindQuery.
func IsQueryError(err error) bool {
	return isKind(err, KindQuery)
}

// IsBindError reports whether err is an Error of KindBind.
func IsBindError(err error) bool {
	return isKind(err, KindBind)
}

func isKind(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}

// engineError translates a failure from the underlying driver into an
// *Error of the given kind, extracting the engine result codes when the
// cause is a sqlite3.Error. The engine message is kept verbatim.
func engineError(kind Kind, err error) *Error {
	e := &Error{
		Kind:    kind,
		Message: err.Error(),
		err:     err,
	}

	var se sqlite3.Error
	if errors.As(err, &se) {
		e.Code = int(se.Code)
		e.ExtendedCode = int(se.ExtendedCode)
	}

	return e
}

// closedError builds the Error surfaced by operations on a closed handle.
func closedError(kind Kind) *Error {
	return &Error{
		Kind:    kind,
		Message: ErrClosed.Error(),
		err:     ErrClosed,
	}
}

// bindError builds a KindBind Error produced by this layer's own checks
// (no engine code available).
func bindError(format string, args ...any) *Error {
	return &Error{
		Kind:    KindBind,
		Message: fmt.Sprintf(format, args...),
	}
}
