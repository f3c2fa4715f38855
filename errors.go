package backoffice

import (
	"errors"
	"fmt"
)

// Custom errors
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("resource not found")
)

// CascadeError reports a failure in a secondary cascade pass after the
// primary write already committed. Callers surface it as a warning rather
// than a failure of the whole operation.
type CascadeError struct {
	Op  string
	Err error
}

func (e *CascadeError) Error() string {
	return fmt.Sprintf("cascade %s failed: %v", e.Op, e.Err)
}

func (e *CascadeError) Unwrap() error { return e.Err }
