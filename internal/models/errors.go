package models

import (
	"errors"
	"fmt"
)

// Error kinds. Callers test for them with errors.Is; record-level failures
// arrive wrapped in a *RecordError.
var (
	ErrNotFound                = errors.New("not found")
	ErrNotAuthorized           = errors.New("not a member of this group")
	ErrInvalidExpense          = errors.New("invalid expense")
	ErrInvalidPayment          = errors.New("invalid payment")
	ErrArithmeticInconsistency = errors.New("arithmetic inconsistency")
	ErrAlreadyExists           = errors.New("already exists")
	ErrConflict                = errors.New("conflicts with existing state")
)

// ErrUserCodeTaken reports that a new user's generated code is already in
// use. It is distinct from ErrAlreadyExists, which means the email is taken;
// callers retry with a fresh code.
var ErrUserCodeTaken = errors.New("user code already in use")

// RecordError attaches the offending record to an error kind.
type RecordError struct {
	Kind     error
	RecordID string
	Reason   string
}

func (e *RecordError) Error() string {
	if e.RecordID == "" {
		return fmt.Sprintf("%v: %s", e.Kind, e.Reason)
	}
	return fmt.Sprintf("%v %s: %s", e.Kind, e.RecordID, e.Reason)
}

func (e *RecordError) Unwrap() error { return e.Kind }

// InvalidExpense builds a RecordError of kind ErrInvalidExpense.
func InvalidExpense(id, format string, args ...any) error {
	return &RecordError{Kind: ErrInvalidExpense, RecordID: id, Reason: fmt.Sprintf(format, args...)}
}

// InvalidPayment builds a RecordError of kind ErrInvalidPayment.
func InvalidPayment(id, format string, args ...any) error {
	return &RecordError{Kind: ErrInvalidPayment, RecordID: id, Reason: fmt.Sprintf(format, args...)}
}
