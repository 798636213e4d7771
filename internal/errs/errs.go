// Package errs defines the error taxonomy shared by the scheduling
// services. Handlers branch on these types with errors.As to pick a
// transport status; the services themselves never swallow them.
package errs

import "fmt"

// ValidationError reports malformed or semantically inconsistent
// caller input: wrong day count, a date outside the expected window,
// an unparsable date. It is surfaced immediately and never retried.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// Validationf builds a ValidationError with a formatted message.
func Validationf(format string, args ...any) *ValidationError {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// StoreError wraps a backing-store failure (connectivity, constraint
// violation, transaction abort). Multi-row writes guarantee that a
// StoreError leaves no partial effect.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string { return fmt.Sprintf("store: %s: %v", e.Op, e.Err) }

func (e *StoreError) Unwrap() error { return e.Err }

// Storef wraps err as a StoreError for the named operation.
func Storef(op string, err error) *StoreError {
	return &StoreError{Op: op, Err: err}
}
