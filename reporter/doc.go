// Package reporter translates engine events into host notifications.
//
// A Reporter implements every engine handler contract. Each handler wraps
// its arguments in an event.Event and passes it to Send, which attaches to
// the host runtime and looks up the translation for the event kind in a
// dispatch table. Translations invoke exactly one callback table entry or
// one host Env call per event (ICE batches invoke the candidate entry once
// per candidate).
//
// # Delivery
//
// Delivery is at most once. When the host runtime cannot be attached the
// event is logged and dropped, since the engine has no way to retry it.
// Failures of the host callback itself are returned as a *DispatchError.
//
// # Status Codes
//
// Call states, hangups and remote media toggles share the table's Status
// entry as (callID, peerID, code, extra):
//
//	incoming(media)     (callID, 1, 0, media)
//	outgoing(media)     (callID, 1, 1, media)
//	other state         (callID, 1, 10*index, 0)
//	hangup              (callID, deviceID, 11, hangupType)
//	remote toggle       (1, 1, 22, 31..42)
//
// Remote toggles carry no call id; a host running several calls cannot tell
// which one changed.
package reporter
