// Package specerr defines the error kinds shared by every decoder and
// constructor in fluxfield.
//
// All validation failures are deterministic: they are reported once, at the
// point of construction or decoding, and carry the location (Field) of the
// offending value so a caller can tell the user exactly which level or key is
// wrong. Kinds are matched with errors.Is against the exported sentinels, no
// matter how many times the error has been wrapped with fmt.Errorf("%w").
package specerr

import (
	"errors"
	"fmt"
)

// Kind classifies a validation failure.
type Kind int

const (
	// InvalidCount reports a negative minimum or maximum, a non-positive
	// resolved maximum, or an unrecognized progression operator.
	InvalidCount Kind = iota + 1
	// InvalidTask reports an empty or malformed task command.
	InvalidTask
	// MalformedSpec reports a resource description that is missing required
	// fields or has the wrong shape.
	MalformedSpec
	// Decode reports a generic tree that does not match any wire shape.
	Decode
)

// String returns the kind's canonical name.
func (k Kind) String() string {
	switch k {
	case InvalidCount:
		return "InvalidCount"
	case InvalidTask:
		return "InvalidTask"
	case MalformedSpec:
		return "MalformedSpec"
	case Decode:
		return "DecodeError"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Sentinels for errors.Is. They never appear as the direct result of a
// decoder; an *Error of the same kind matches them.
var (
	ErrInvalidCount  = &Error{Kind: InvalidCount}
	ErrInvalidTask   = &Error{Kind: InvalidTask}
	ErrMalformedSpec = &Error{Kind: MalformedSpec}
	ErrDecode        = &Error{Kind: Decode}
)

// Error is a classified validation failure.
type Error struct {
	Kind Kind
	// Field locates the offending value, e.g. "with[1].count.min" or
	// "Node[0].Socket[1]". Empty means the value itself.
	Field string
	Msg   string
	// Err is the optional underlying cause.
	Err error
}

// New builds an *Error with a formatted message.
func New(kind Kind, field, format string, args ...any) *Error {
	return &Error{Kind: kind, Field: field, Msg: fmt.Sprintf(format, args...)}
}

// Wrap classifies an existing error. If err already is an *Error its kind is
// kept and only the field is extended.
func Wrap(kind Kind, field string, err error) error {
	if err == nil {
		return nil
	}
	var se *Error
	if errors.As(err, &se) {
		return se.WithField(field)
	}
	return &Error{Kind: kind, Field: field, Err: err}
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Msg
	if e.Err != nil {
		if msg == "" {
			msg = e.Err.Error()
		} else {
			msg = msg + ": " + e.Err.Error()
		}
	}
	if msg == "" {
		msg = "validation failed"
	}
	if e.Field == "" {
		return fmt.Sprintf("%s: %s", e.Kind, msg)
	}
	return fmt.Sprintf("%s at %s: %s", e.Kind, e.Field, msg)
}

// Unwrap exposes the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same kind, which makes the package sentinels
// usable with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// WithField returns a copy of e located under prefix. Joining follows the
// dotted path convention: "with[0]" + "count" -> "with[0].count".
func (e *Error) WithField(prefix string) *Error {
	if prefix == "" {
		return e
	}
	cp := *e
	cp.Field = JoinField(prefix, e.Field)
	return &cp
}

// JoinField joins two dotted field paths, skipping empty parts. Index
// suffixes ("[2]") are appended without a separator.
func JoinField(prefix, field string) string {
	switch {
	case prefix == "":
		return field
	case field == "":
		return prefix
	case field[0] == '[':
		return prefix + field
	default:
		return prefix + "." + field
	}
}

// KindOf reports the kind of the first *Error in err's chain.
func KindOf(err error) (Kind, bool) {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind, true
	}
	return 0, false
}
