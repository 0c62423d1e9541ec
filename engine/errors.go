package engine

import "errors"

// Sentinel errors shared by engine implementations.
var (
	// ErrUnknownCall indicates the call id is not known to the engine.
	ErrUnknownCall = errors.New("unknown call")

	// ErrCallExists indicates a call with the same id is already tracked.
	ErrCallExists = errors.New("call already exists")

	// ErrUnknownClient indicates the group call client id is not known.
	ErrUnknownClient = errors.New("unknown group call client")

	// ErrNoActiveConnection indicates no call currently has a connection.
	ErrNoActiveConnection = errors.New("no active connection")

	// ErrUnknownRequest indicates an HTTP response for a request never sent.
	ErrUnknownRequest = errors.New("unknown http request id")

	// ErrClosed indicates the engine has been shut down.
	ErrClosed = errors.New("engine closed")

	// ErrInvalidState indicates an operation not allowed in the current state.
	ErrInvalidState = errors.New("operation not valid in current state")
)
