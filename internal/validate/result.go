// Package validate checks raw user input for domain fields and returns the
// parsed value. A rejected value is an expected outcome carried in Result,
// not an error return.
package validate

import (
	"strings"
)

// ErrorKind classifies why a value was rejected.
type ErrorKind string

const (
	KindRequired   ErrorKind = "required"
	KindLength     ErrorKind = "length"
	KindChecksum   ErrorKind = "checksum"
	KindFormat     ErrorKind = "format"
	KindNotNumber  ErrorKind = "not_number"
	KindOutOfRange ErrorKind = "out_of_range"
)

// Error describes a rejected value. Message is shown to the user as is.
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string { return e.Message }

// Result is the outcome of checking one field. Err is nil when the value
// was accepted, in which case Value holds the parsed form.
type Result[T any] struct {
	Value T
	Err   *Error
}

// OK reports whether the value was accepted.
func (r Result[T]) OK() bool { return r.Err == nil }

// Message returns the user-facing rejection message, or "".
func (r Result[T]) Message() string {
	if r.Err == nil {
		return ""
	}
	return r.Err.Message
}

func accept[T any](v T) Result[T] {
	return Result[T]{Value: v}
}

func reject[T any](kind ErrorKind, msg string) Result[T] {
	return Result[T]{Err: &Error{Kind: kind, Message: msg}}
}

// FieldError is a rejected value tied to the form field it came from.
type FieldError struct {
	Field   string
	Kind    ErrorKind
	Message string
}

// FieldErrors collects rejected fields of one form or record.
type FieldErrors []FieldError

func (fe FieldErrors) Error() string {
	msgs := make([]string, len(fe))
	for i, e := range fe {
		msgs[i] = e.Field + ": " + e.Message
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// Err returns fe as an error, or nil when nothing was rejected.
func (fe FieldErrors) Err() error {
	if len(fe) == 0 {
		return nil
	}
	return fe
}

// Messages returns the user messages keyed by field.
func (fe FieldErrors) Messages() map[string]string {
	out := make(map[string]string, len(fe))
	for _, e := range fe {
		out[e.Field] = e.Message
	}
	return out
}

// Check records r under field when rejected and returns the parsed value.
func Check[T any](errs *FieldErrors, field string, r Result[T]) T {
	if r.Err != nil {
		*errs = append(*errs, FieldError{Field: field, Kind: r.Err.Kind, Message: r.Err.Message})
	}
	return r.Value
}

// Required rejects a blank value.
func Required(s, msg string) Result[string] {
	s = strings.TrimSpace(s)
	if s == "" {
		return reject[string](KindRequired, msg)
	}
	return accept(s)
}
