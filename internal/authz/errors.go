package authz

import (
	"errors"
	"fmt"
)

var (
	ErrMissingCredential        = errors.New("missing credential")
	ErrForbidden                = errors.New("access denied")
	ErrAuthorizationUnavailable = errors.New("authorization unavailable")
)

// DeniedError is returned when the oracle answered allowed=false.
// It matches ErrForbidden with errors.Is.
type DeniedError struct {
	Permission Permission
	Reason     string
}

func (e *DeniedError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("access denied: %s", e.Permission)
	}
	return fmt.Sprintf("access denied: %s (%s)", e.Permission, e.Reason)
}

func (e *DeniedError) Is(target error) bool {
	return target == ErrForbidden
}
