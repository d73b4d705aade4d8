package errs

import (
	"errors"
	"fmt"

	pkgerrors "github.com/pkg/errors"
)

// ErrMissingValue is returned if a value is not given
type ErrMissingValue struct {
	// What is missing
	Kind string

	// Additional info
	Info []string
}

// ErrMissing creates a "missing" error
func ErrMissing(kind string, info ...string) *ErrMissingValue {
	return &ErrMissingValue{
		Kind: kind,
		Info: info,
	}
}

func (e *ErrMissingValue) Error() string {
	return fmt.Sprintf(`%v is missing`, e.Kind)
}

// Kind classifies a failure so that callers can tell
// model errors from I/O errors without inspecting error types.
type Kind int

// Failure kinds.
const (
	// KindNone is the kind of a nil error.
	KindNone Kind = iota

	// KindModel means the model is invalid or inconsistent.
	KindModel

	// KindIO means reading, writing, locking, encoding or decoding failed.
	KindIO

	// KindRuntime means the failure was unexpected (e.g. a panic in a task).
	KindRuntime

	// KindUndeclared is used for failures that fit no other kind.
	KindUndeclared
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindModel:
		return "model"
	case KindIO:
		return "io"
	case KindRuntime:
		return "runtime"
	default:
		return "undeclared"
	}
}

// Error is an error tagged with a Kind.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%v error: %v", e.Kind, e.Err)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// Cause implements the causer interface of github.com/pkg/errors.
func (e *Error) Cause() error {
	return e.Err
}

// Wrap tags err with the given kind. If err is already tagged,
// it is returned unchanged, so the original classification wins.
func Wrap(kind Kind, err error) error {
	if err == nil {
		return nil
	}

	var tagged *Error
	if errors.As(err, &tagged) {
		return err
	}

	return &Error{Kind: kind, Err: pkgerrors.WithStack(err)}
}

// IO tags err as an I/O failure.
func IO(err error) error {
	return Wrap(KindIO, err)
}

// Model creates a model error.
func Model(format string, args ...interface{}) error {
	return &Error{Kind: KindModel, Err: pkgerrors.Errorf(format, args...)}
}

// Runtime tags err as an unexpected runtime failure.
func Runtime(err error) error {
	return Wrap(KindRuntime, err)
}

// KindOf returns the kind of err. Errors that were never tagged
// are KindUndeclared.
func KindOf(err error) Kind {
	if err == nil {
		return KindNone
	}

	var tagged *Error
	if errors.As(err, &tagged) {
		return tagged.Kind
	}

	return KindUndeclared
}
