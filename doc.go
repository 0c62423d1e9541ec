// Package tring bridges a native RTC call engine and a managed host runtime.
//
// The host drives calls through entry points on a [Bridge]; every entry
// point names a call endpoint by the opaque [handle.Handle] returned from
// CreateCallEndpoint. Engine events travel the other way through the
// callback table the host supplied when the endpoint was created.
//
// # Getting Started
//
// Create a bridge bound to the host runtime, then one endpoint per calling
// session:
//
//	opts, err := tring.OptionsFromEnv()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	bridge, err := tring.New(opts, runtime)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer bridge.Close()
//
//	recorder := callback.NewRecorder()
//	endpoint, err := bridge.CreateCallEndpoint(recorder.Table())
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Place a video call; state changes arrive through the table.
//	err = bridge.CreateOutgoingCall(endpoint, "peer", true, 1, 42)
//
// # Core Types
//
//   - [Bridge]: process context owning the host attachment and all endpoints
//   - [CallEndpoint]: one calling session with its engine, tracks and sink
//   - [Options]: configuration, see [NewOptions] and [OptionsFromEnv]
//
// # Errors
//
// Entry points return errors classified by [Classify] and mapped to host
// status codes by [StatusCode]. A stale or unknown handle always yields
// [ErrInvalidHandle], never a crash.
//
// # Engines
//
// The call engine is pluggable through [RegisterEngine]. Without one the
// in-process loopback engine is used, which needs no network.
package tring
