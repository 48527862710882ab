// Package repository is the in-memory data layer of the development API
// server.  Every method is safe for concurrent use; one mutex guards the
// whole data set so multi-entity operations such as booking (seats, wallet,
// ledger) are atomic.
package repository

import (
	"errors"
	"fmt"
)

// Error kinds.  Handlers map them onto HTTP statuses with errors.Is.
var (
	ErrNotFound            = errors.New("not found")
	ErrConflict            = errors.New("conflict")
	ErrInvalid             = errors.New("invalid")
	ErrEmailExists         = errors.New("Email already registered")
	ErrInsufficientBalance = errors.New("Insufficient wallet balance")
	ErrInvalidRefresh      = errors.New("Invalid refresh token")
)

// Error carries a user-facing message plus its kind.
type Error struct {
	Kind error
	Msg  string
}

func (e *Error) Error() string { return e.Msg }
func (e *Error) Unwrap() error { return e.Kind }

func notFound(format string, args ...any) error {
	return &Error{Kind: ErrNotFound, Msg: fmt.Sprintf(format, args...)}
}

func conflict(format string, args ...any) error {
	return &Error{Kind: ErrConflict, Msg: fmt.Sprintf(format, args...)}
}

func invalid(format string, args ...any) error {
	return &Error{Kind: ErrInvalid, Msg: fmt.Sprintf(format, args...)}
}
