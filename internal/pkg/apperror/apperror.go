package apperror

import (
	"errors"
	"fmt"
)

type Kind string

const (
	KindNotFound     Kind = "NOT_FOUND"
	KindInvalidState Kind = "INVALID_STATE"
	KindConflict     Kind = "CONFLICT"
	KindProvider     Kind = "PROVIDER"
	KindParse        Kind = "PARSE"
	KindValidation   Kind = "VALIDATION"
)

// Error is the typed failure returned across the service boundary.
// Raw carries the offending model output for Parse errors and is never
// rendered into Error().
type Error struct {
	Kind    Kind
	Message string
	Raw     string
	Err     error
}

var (
	ErrNotFound     = &Error{Kind: KindNotFound}
	ErrInvalidState = &Error{Kind: KindInvalidState}
	ErrConflict     = &Error{Kind: KindConflict}
	ErrProvider     = &Error{Kind: KindProvider}
	ErrParse        = &Error{Kind: KindParse}
	ErrValidation   = &Error{Kind: KindValidation}
)

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = string(e.Kind)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches on Kind so errors.Is(err, ErrConflict) works for any conflict.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Kind == t.Kind
}

func NotFound(format string, args ...interface{}) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func InvalidState(format string, args ...interface{}) *Error {
	return &Error{Kind: KindInvalidState, Message: fmt.Sprintf(format, args...)}
}

func Conflict(format string, args ...interface{}) *Error {
	return &Error{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

func Validation(format string, args ...interface{}) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

// Provider wraps an upstream reasoning or transport failure.
func Provider(provider string, err error) *Error {
	return &Error{Kind: KindProvider, Message: fmt.Sprintf("reasoning provider %q failed", provider), Err: err}
}

// Parse wraps a structured-output decoding failure, keeping the raw text for logs.
func Parse(message, raw string, err error) *Error {
	return &Error{Kind: KindParse, Message: message, Raw: raw, Err: err}
}

// KindOf returns the Kind of the first *Error in err's chain, or "".
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
