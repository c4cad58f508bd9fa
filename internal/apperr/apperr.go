package apperr

import (
	"errors"
	"fmt"
)

// Kinds of failure callers branch on with errors.Is.
var (
	ErrNotFound         = errors.New("not found")
	ErrInvalidState     = errors.New("invalid state")
	ErrStoreUnavailable = errors.New("store unavailable")
	ErrConflict         = errors.New("concurrent modification")
)

// Error carries a failure kind, the operation that produced it and an optional cause.
type Error struct {
	Kind error
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}

	msg := "error"
	if e.Kind != nil {
		msg = e.Kind.Error()
	}
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.Kind != nil {
		errs = append(errs, e.Kind)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

func New(kind error, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

func NotFound(op string) error {
	return New(ErrNotFound, op, nil)
}

func InvalidState(op, format string, args ...any) error {
	return New(ErrInvalidState, op, fmt.Errorf(format, args...))
}

// StoreUnavailable wraps a driver failure. Errors that already carry a kind are
// returned unchanged so a NotFound from a nested call is not masked.
func StoreUnavailable(op string, err error) error {
	if err == nil {
		return nil
	}
	var ae *Error
	if errors.As(err, &ae) {
		return err
	}
	return New(ErrStoreUnavailable, op, err)
}

func Conflict(op string) error {
	return New(ErrConflict, op, nil)
}

// KindOf returns the kind of err or nil when err has none.
func KindOf(err error) error {
	for _, kind := range []error{ErrNotFound, ErrInvalidState, ErrConflict, ErrStoreUnavailable} {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return nil
}
