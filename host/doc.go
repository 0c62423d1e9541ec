// Package host holds the process-wide connection to the managed host
// runtime.
//
// Engine goroutines that need to call into the host first attach to the
// runtime and obtain an Env. The Env exposes the host calls whose arguments
// are lists or records and therefore cannot be expressed as a plain
// callback table entry: remote device lists, peek results and HTTP
// requests.
//
// # Lifecycle
//
// A Context is created once with Init, before any call endpoint exists, and
// closed with Close after the last endpoint is destroyed. After Close every
// Attach fails with ErrNotInitialized, so late engine events are dropped
// instead of calling into a runtime that is shutting down.
package host
