package message

import (
	"errors"
	"log/slog"
	"strings"
)

// ErrorKind classifies an [Error].
type ErrorKind string

// Resolution error kinds. These are recorded through the error sink while
// formatting and never abort a call.
const (
	KindUnresolvedVariable ErrorKind = "unresolved-var"
	KindUnknownFunction    ErrorKind = "unknown-function"
	KindBadOperand         ErrorKind = "bad-operand"
	KindBadOption          ErrorKind = "bad-option"
	KindBadSelector        ErrorKind = "bad-selector"
	KindNoMatch            ErrorKind = "no-match"
	KindResolution         ErrorKind = "resolution-error"
)

// Construction error kinds. These are reported by [New] and [Validate] when a
// message is accepted.
const (
	KindMalformed            ErrorKind = "malformed"
	KindNoSelectors          ErrorKind = "no-selectors"
	KindKeyMismatch          ErrorKind = "key-mismatch"
	KindMissingFallback      ErrorKind = "missing-fallback"
	KindDuplicateVariant     ErrorKind = "duplicate-variant"
	KindDuplicateDeclaration ErrorKind = "duplicate-declaration"
	KindDuplicateOption      ErrorKind = "duplicate-option"
)

// Fatal reports whether errors of kind k are construction-time failures.
func (k ErrorKind) Fatal() bool {
	switch k {
	case KindMalformed, KindNoSelectors, KindKeyMismatch, KindMissingFallback,
		KindDuplicateVariant, KindDuplicateDeclaration, KindDuplicateOption:
		return true
	default:
		return false
	}
}

// Predefined errors (sentinel values). Match with [errors.Is]; any [Error] of
// the same kind matches its sentinel.
var (
	ErrUnresolvedVariable = NewError(KindUnresolvedVariable, "unresolved variable")
	ErrUnknownFunction    = NewError(KindUnknownFunction, "unknown function")
	ErrBadOperand         = NewError(KindBadOperand, "bad operand")
	ErrBadOption          = NewError(KindBadOption, "bad option")
	ErrBadSelector        = NewError(KindBadSelector, "bad selector")
	ErrNoMatch            = NewError(KindNoMatch, "no variant matched")
	ErrResolution         = NewError(KindResolution, "resolution failed")
	ErrMaxDepthExceeded   = NewError(KindResolution, "maximum evaluation depth exceeded")

	ErrMalformed            = NewError(KindMalformed, "malformed message")
	ErrNoSelectors          = NewError(KindNoSelectors, "select message has no selectors")
	ErrKeyMismatch          = NewError(KindKeyMismatch, "variant key count does not match selectors")
	ErrMissingFallback      = NewError(KindMissingFallback, "no catch-all variant")
	ErrDuplicateVariant     = NewError(KindDuplicateVariant, "duplicate variant keys")
	ErrDuplicateDeclaration = NewError(KindDuplicateDeclaration, "duplicate declaration")
	ErrDuplicateOption      = NewError(KindDuplicateOption, "duplicate option name")
)

// Error is a classified message error carrying the source text of the
// offending expression. It implements both error and slog.LogValuer.
type Error struct {
	kind   ErrorKind
	msg    string
	source string
	err    error       // Wrapped error (for errors.Unwrap)
	attrs  []slog.Attr // Attributes for structured logging
}

// NewError creates a new Error of the given kind with a message.
func NewError(kind ErrorKind, msg string) *Error {
	return &Error{kind: kind, msg: msg}
}

// WrapError converts err into an *Error. Errors that already are (or wrap)
// an *Error are returned as-is; anything else is classified as kind.
func WrapError(kind ErrorKind, err error) *Error {
	ee := &Error{}
	if errors.As(err, &ee) {
		return ee
	}

	return &Error{kind: kind, err: err}
}

// Kind returns the error classification.
func (e *Error) Kind() ErrorKind { return e.kind }

// Source returns the expression source text the error refers to, if any.
func (e *Error) Source() string { return e.source }

// Fatal reports whether e is a construction-time failure.
func (e *Error) Fatal() bool { return e.kind.Fatal() }

// Error implements the error interface.
func (e *Error) Error() string {
	// "<source>: <msg>: <err>", omitting whichever parts are empty.
	part := make([]string, 0, 3)

	if e.source != "" {
		part = append(part, e.source)
	}

	if e.msg != "" {
		part = append(part, e.msg)
	}

	if e.err != nil {
		part = append(part, e.err.Error())
	}

	if len(part) == 0 {
		return string(e.kind)
	}

	return strings.Join(part, ": ")
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error { return e.err }

// Is reports whether target is an *Error of the same kind with the same
// message, or is the general sentinel of that kind. Every unresolved
// variable error matches [ErrUnresolvedVariable], for example.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || t.kind != e.kind {
		return false
	}

	return t.msg == e.msg || t == sentinel(t.kind)
}

// sentinel returns the general sentinel of kind.
func sentinel(kind ErrorKind) *Error {
	switch kind {
	case KindUnresolvedVariable:
		return ErrUnresolvedVariable
	case KindUnknownFunction:
		return ErrUnknownFunction
	case KindBadOperand:
		return ErrBadOperand
	case KindBadOption:
		return ErrBadOption
	case KindBadSelector:
		return ErrBadSelector
	case KindNoMatch:
		return ErrNoMatch
	case KindResolution:
		return ErrResolution
	case KindMalformed:
		return ErrMalformed
	case KindNoSelectors:
		return ErrNoSelectors
	case KindKeyMismatch:
		return ErrKeyMismatch
	case KindMissingFallback:
		return ErrMissingFallback
	case KindDuplicateVariant:
		return ErrDuplicateVariant
	case KindDuplicateDeclaration:
		return ErrDuplicateDeclaration
	case KindDuplicateOption:
		return ErrDuplicateOption
	default:
		return nil
	}
}

// LogValue implements slog.LogValuer for rich structured logging.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+4)
	attrs = append(attrs, slog.String("kind", string(e.kind)))

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if e.source != "" {
		attrs = append(attrs, slog.String("source", e.source))
	}

	if e.err != nil {
		attrs = append(attrs, slog.String("cause", e.err.Error()))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// Wrap creates a new Error wrapping another error.
func (e *Error) Wrap(err error) *Error {
	c := *e
	c.err = err

	return &c
}

// At creates a new Error referring to the given expression source.
func (e *Error) At(source string) *Error {
	c := *e
	c.source = source

	return &c
}

// With adds attributes to the error for structured logging.
// This creates a new Error instance to maintain immutability.
func (e *Error) With(attrs ...slog.Attr) *Error {
	newAttrs := make([]slog.Attr, len(e.attrs)+len(attrs))
	copy(newAttrs, e.attrs)
	copy(newAttrs[len(e.attrs):], attrs)

	c := *e
	c.attrs = newAttrs

	return &c
}

// Sink receives non-fatal errors recorded while formatting. A sink is called
// synchronously, any number of times per call, and must not panic.
type Sink func(error)

// discard is the default sink.
func discard(error) {}

// Collector accumulates errors recorded by a formatting call.
// The zero value is ready to use. A Collector is not safe for concurrent
// use; give each concurrent call its own.
type Collector struct {
	Errors []error
}

// Add appends err. It is suitable as a [Sink].
func (c *Collector) Add(err error) {
	c.Errors = append(c.Errors, err)
}

// Sink returns c.Add as a [Sink].
func (c *Collector) Sink() Sink { return c.Add }

// Err joins all collected errors, or returns nil if none were collected.
func (c *Collector) Err() error { return errors.Join(c.Errors...) }

// Reset discards all collected errors.
func (c *Collector) Reset() { c.Errors = c.Errors[:0] }
