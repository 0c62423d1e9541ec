package reporter

import (
	"errors"
	"fmt"
)

var (
	// ErrNilTable indicates a reporter built without a callback table.
	ErrNilTable = errors.New("nil callback table")

	// errUnhandled marks events that have no host translation.
	errUnhandled = errors.New("no host translation for event")
)

// DispatchError reports that an event reached its translation but the host
// call failed.
type DispatchError struct {
	Kind string
	Err  error
}

func (e *DispatchError) Error() string {
	return fmt.Sprintf("dispatch %s: %v", e.Kind, e.Err)
}

func (e *DispatchError) Unwrap() error {
	return e.Err
}
