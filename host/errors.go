package host

import "errors"

var (
	// ErrNotInitialized indicates the context was never initialized or is closed.
	ErrNotInitialized = errors.New("host context not initialized")

	// ErrAttachFailed indicates the runtime refused to attach the calling thread.
	ErrAttachFailed = errors.New("failed to attach to host runtime")

	// ErrNilRuntime indicates Init was called without a runtime.
	ErrNilRuntime = errors.New("nil host runtime")
)
