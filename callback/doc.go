// Package callback holds the table of host functions a call endpoint
// notifies, and manages its shared lifetime.
//
// # Safety Contract
//
// Every function in a Table must remain valid and be safe to call from any
// goroutine, concurrently, until Destroy has run. The bridge calls table
// entries from engine goroutines without serialization. New is the only way
// to obtain a usable table; it rejects incomplete tables, and every call is
// routed through Ref.Invoke so that a panicking host function is contained
// and reported as ErrCallbackPanic instead of unwinding an engine goroutine.
//
// # Lifetime
//
// A Ref is one owner of a shared table. Clone adds an owner and Release
// drops one; Destroy runs exactly once, when the last owner releases:
//
//	ref, err := callback.New(table)
//	reporterRef, err := ref.Clone()
//	ref.Release()         // table still alive
//	reporterRef.Release() // Destroy runs here
package callback
