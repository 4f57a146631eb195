// Package errors defines the error taxonomy shared by adapters, providers and
// the facade container.
//
// Every layer returns *Error values tagged with a Kind. Wrapping keeps the
// numeric code of the cause and chains it, so errors.Is / errors.As work
// across the whole stack:
//
//	if errors.Is(err, cerrors.ErrNotFound) { ... }
//	code := cerrors.CodeOf(err)
package errors

import (
	"errors"
	"fmt"
)

// ── Kinds ─────────────────────────────────────────────────────────────────────

// Kind classifies an Error.
type Kind uint8

const (
	KindUnknown Kind = iota

	// KindNotFound: the requested name has no entry.
	KindNotFound

	// KindAdapter: the backing store failed for a reason other than absence.
	KindAdapter

	// KindNotSupported: the adapter lacks the capability the operation needs.
	KindNotSupported

	// KindServiceProvider: a registration pass failed.
	KindServiceProvider

	// KindContainer: facade-level failure.
	KindContainer

	// KindFactory: the facade could not be constructed.
	KindFactory
)

var kindNames = map[Kind]string{
	KindUnknown:         "unknown error",
	KindNotFound:        "not found",
	KindAdapter:         "adapter error",
	KindNotSupported:    "not supported",
	KindServiceProvider: "service provider error",
	KindContainer:       "container error",
	KindFactory:         "factory error",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// isA reports whether k is k or a specialisation of parent.
func (k Kind) isA(parent Kind) bool {
	if k == parent {
		return true
	}
	// NotSupported is raised by the service provider and is one of its failures.
	return k == KindNotSupported && parent == KindServiceProvider
}

// ── Error ─────────────────────────────────────────────────────────────────────

// Error is the structured error returned by every layer of the container.
type Error struct {
	Kind    Kind
	Code    int
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Message == "" {
		return e.Kind.String()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Cause }

// ErrorCode returns the numeric code carried by the error.
func (e *Error) ErrorCode() int { return e.Code }

// Is matches sentinel errors (no message, no cause) by kind.
//
//	errors.Is(err, ErrServiceProvider) // true for NotSupported too
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || t.Message != "" || t.Cause != nil {
		return false
	}
	return e.Kind.isA(t.Kind)
}

// Sentinels for errors.Is.
var (
	ErrNotFound        = &Error{Kind: KindNotFound}
	ErrAdapter         = &Error{Kind: KindAdapter}
	ErrNotSupported    = &Error{Kind: KindNotSupported}
	ErrServiceProvider = &Error{Kind: KindServiceProvider}
	ErrContainer       = &Error{Kind: KindContainer}
	ErrFactory         = &Error{Kind: KindFactory}
)

// ── Constructors ──────────────────────────────────────────────────────────────

// New creates an Error of the given kind.
func New(kind Kind, code int, message string, cause error) *Error {
	return &Error{Kind: kind, Code: code, Message: message, Cause: cause}
}

// Wrap creates an Error of the given kind around cause, keeping its code.
func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Code: CodeOf(cause), Message: message, Cause: cause}
}

// Wrapf is Wrap with a formatted message.
func Wrapf(kind Kind, cause error, format string, args ...any) *Error {
	return Wrap(kind, fmt.Sprintf(format, args...), cause)
}

// NotFound creates a KindNotFound error.
func NotFound(message string, code int, cause error) *Error {
	return New(KindNotFound, code, message, cause)
}

// Adapter creates a KindAdapter error.
func Adapter(message string, code int, cause error) *Error {
	return New(KindAdapter, code, message, cause)
}

// NotSupported creates a KindNotSupported error.
func NotSupported(format string, args ...any) *Error {
	return New(KindNotSupported, 0, fmt.Sprintf(format, args...), nil)
}

// ServiceProvider creates a KindServiceProvider error with no cause.
func ServiceProvider(format string, args ...any) *Error {
	return New(KindServiceProvider, 0, fmt.Sprintf(format, args...), nil)
}

// Factory creates a KindFactory error with no cause.
func Factory(format string, args ...any) *Error {
	return New(KindFactory, 0, fmt.Sprintf(format, args...), nil)
}

// ── Inspection ────────────────────────────────────────────────────────────────

// KindOf returns the kind of the outermost *Error in err's chain,
// or KindUnknown.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// CodeOf returns the first non-zero code found in err's chain.
// Any error exposing ErrorCode() int participates.
func CodeOf(err error) int {
	for err != nil {
		if c, ok := err.(interface{ ErrorCode() int }); ok && c.ErrorCode() != 0 {
			return c.ErrorCode()
		}
		err = errors.Unwrap(err)
	}
	return 0
}
