package callback

import "errors"

var (
	// ErrIncompleteTable indicates a table with missing entries.
	ErrIncompleteTable = errors.New("incomplete callback table")

	// ErrReleased indicates use of a Ref after Release.
	ErrReleased = errors.New("callback table reference released")

	// ErrCallbackPanic indicates a host function panicked.
	ErrCallbackPanic = errors.New("host callback panicked")
)
