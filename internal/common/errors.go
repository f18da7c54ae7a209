// Package common defines shared sentinel errors and small helpers used across
// credkeeper layers. Callers should use errors.Is / errors.As to match them.
package common

import (
	"errors"
	"fmt"
)

var (
	ErrorInternal = errors.New("internal error")

	// Repository-level errors.
	ErrorNotFound    = errors.New("not found")
	ErrDuplicateUser = errors.New("duplicate user")

	// Registration outcomes.
	ErrUsernameTaken  = errors.New("username already taken")
	ErrApprovalDenied = errors.New("registration approval denied")

	// Verification outcomes. ErrUserNotFound and ErrWrongPassword stay
	// internal; callers outside the services layer see ErrInvalidCredentials.
	ErrUserNotFound       = errors.New("user not found")
	ErrWrongPassword      = errors.New("wrong password")
	ErrInvalidCredentials = errors.New("invalid username or password")

	// Validation errors.
	ErrInvalidUsername = errors.New("invalid username")
	ErrInvalidPassword = errors.New("invalid password")
)

// StoreError reports a failure of the backing store: I/O, corruption or a
// timeout. It is always fatal to the operation that received it.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store error (%s): %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewStoreError wraps err as a StoreError for operation op.
// A nil err yields nil.
func NewStoreError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StoreError{Op: op, Err: err}
}

// IsStoreError reports whether err (or anything it wraps) is a StoreError.
func IsStoreError(err error) bool {
	var se *StoreError
	return errors.As(err, &se)
}
