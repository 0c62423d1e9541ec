// Package engine defines the contracts between the bridge and the native
// RTC call engine.
//
// The bridge never implements call signaling, SFU protocol handling or media
// codecs itself. It forwards host requests to a CallManager and receives
// notifications from the engine through the handler interfaces declared
// here (SignalingSender, CallStateHandler, HTTPDelegate, GroupUpdateHandler).
//
// # Value Types
//
// Identifiers (CallID, ClientID, DemuxID, ...) and the engine's state enums
// carry the numeric values the host expects on the wire. Ordinals such as
// ConnectionState and JoinState are forwarded to the host unchanged.
//
// # Implementations
//
// The loopback sub-package provides a complete in-process CallManager that
// drives the handlers with realistic state sequences:
//
//	platform := engine.Platform{Signaling: r, State: r, Group: r, HTTP: r, Reporter: r}
//	manager, err := loopback.New(platform)
//
// The peerconn package provides the MediaFactory backed by pion/webrtc.
package engine
