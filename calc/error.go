package calc

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/expr-lang/expr/file"
)

// Predefined errors (sentinel values).
var (
	ErrCompile      = NewError("expression compilation failed")
	ErrEvaluate     = NewError("expression evaluation failed")
	ErrUndefined    = NewError("expression result is undefined")
	ErrDomain       = NewError("argument outside function domain")
	ErrStatement    = NewError("malformed statement")
	ErrInvalidName  = NewError("invalid variable name")
	ErrBinding      = NewError("binding evaluation failed")
	ErrArgument     = NewError("invalid function argument")
	ErrEmptySource  = NewError("empty expression")
	ErrUnbalanced   = NewError("unbalanced brackets or quotes")
)

// Error represents an error with optional structured logging attributes.
// It implements both error and slog.LogValuer interfaces.
type Error struct {
	msg   string
	err   error
	attrs []slog.Attr
}

// NewError creates a new Error with a message.
func NewError(msg string) *Error {
	return &Error{msg: msg}
}

// WrapError wraps a standard error into an Error. An existing *Error in the
// chain is returned as is.
func WrapError(err error) *Error {
	ee := &Error{}
	if errors.As(err, &ee) {
		return ee
	}

	return &Error{err: err}
}

// Error implements the error interface.
func (e *Error) Error() string {
	// Build error message using the first available format,
	// depending on which fields are set:
	//
	//   1. "<msg>: <err>" // base and wrapped error both set
	//   2. "<msg>"        // wrapped error is nil
	//   3. "<err>"        // base error message is empty
	//   4. ""             // no fields are set
	part := make([]string, 0, 2)

	if e.msg != "" {
		part = append(part, e.msg)
	}

	if e.err != nil {
		part = append(part, e.err.Error())
	}

	return strings.Join(part, ": ")
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error { return e.err }

// Is reports whether target is the sentinel this error was derived from.
// Errors created with [Error.Wrap] or [Error.With] share their sentinel's
// message, so errors.Is(err, ErrCompile) holds for all of them.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || t.err != nil || len(t.attrs) > 0 {
		return false
	}

	return t.msg != "" && t.msg == e.msg
}

// Message returns the innermost human-readable message. For expression
// errors this is the expr-lang diagnostic without its source snippet.
func (e *Error) Message() string {
	var fe *file.Error
	if errors.As(e, &fe) {
		return fe.Message
	}

	if e.err != nil {
		return e.err.Error()
	}

	return e.msg
}

// Attrs returns a copy of the structured attributes attached to the error.
func (e *Error) Attrs() []slog.Attr {
	return append([]slog.Attr(nil), e.attrs...)
}

// LogValue implements slog.LogValuer for rich structured logging.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+2)

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if e.err != nil {
		attrs = append(attrs, slog.String("cause", e.Message()))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// Wrap creates a new Error wrapping another error.
func (e *Error) Wrap(err error) *Error {
	return &Error{
		msg:   e.msg,
		err:   err,
		attrs: e.attrs, // Share attrs
	}
}

// With adds attributes to the error for structured logging.
// This creates a new Error instance to maintain immutability.
func (e *Error) With(attrs ...slog.Attr) *Error {
	newAttrs := make([]slog.Attr, len(e.attrs)+len(attrs))
	copy(newAttrs, e.attrs)
	copy(newAttrs[len(e.attrs):], attrs)

	return &Error{
		msg:   e.msg,
		err:   e.err,
		attrs: newAttrs,
	}
}
