package types

import (
	"errors"
	"fmt"
)

// Downstream failure kinds. Collaborators return a *Failure (or anything
// wrapping one of these) so callers can classify without string matching.
var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation failed")
	ErrConflict   = errors.New("conflict")
	ErrInternal   = errors.New("internal error")
)

type Failure struct {
	Kind error
	Msg  string
}

func (f *Failure) Error() string {
	if f.Msg == "" {
		return f.Kind.Error()
	}
	return f.Kind.Error() + ": " + f.Msg
}

func (f *Failure) Unwrap() error { return f.Kind }

func NotFound(format string, args ...any) error {
	return &Failure{Kind: ErrNotFound, Msg: fmt.Sprintf(format, args...)}
}

func Validation(format string, args ...any) error {
	return &Failure{Kind: ErrValidation, Msg: fmt.Sprintf(format, args...)}
}

func Conflict(format string, args ...any) error {
	return &Failure{Kind: ErrConflict, Msg: fmt.Sprintf(format, args...)}
}

func Internal(format string, args ...any) error {
	return &Failure{Kind: ErrInternal, Msg: fmt.Sprintf(format, args...)}
}
