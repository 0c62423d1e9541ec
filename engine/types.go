package engine

import (
	"fmt"
	"time"
)

// CallID identifies a 1:1 call. It is chosen by the engine for outgoing
// calls and by the remote peer for incoming ones.
type CallID uint64

// DeviceID identifies one of a user's devices.
type DeviceID = uint32

// ClientID identifies a group call client created by the engine.
type ClientID = uint32

// DemuxID identifies a remote device inside a group call.
type DemuxID = uint32

// RequestID correlates an outgoing HTTP request with its response.
type RequestID = uint32

// PeerID identifies the remote party of a 1:1 call as known to the host.
type PeerID = string

// AudioLevel is a raw audio level as reported by the engine (0..32767).
type AudioLevel = uint16

// CallMediaType selects audio-only or audio+video calling.
type CallMediaType int32

const (
	// MediaTypeAudio is an audio-only call.
	MediaTypeAudio CallMediaType = 0
	// MediaTypeVideo is an audio and video call.
	MediaTypeVideo CallMediaType = 1
)

// String returns the media type name.
func (m CallMediaType) String() string {
	switch m {
	case MediaTypeAudio:
		return "audio"
	case MediaTypeVideo:
		return "video"
	default:
		return fmt.Sprintf("media(%d)", int32(m))
	}
}

// CallStateKind enumerates the 1:1 call states.
type CallStateKind int

// The explicit values are the state indexes the host decodes.
const (
	CallStateRinging    CallStateKind = 1
	CallStateConnected  CallStateKind = 2
	CallStateConnecting CallStateKind = 3
	CallStateConcluded  CallStateKind = 4
	CallStateIncoming   CallStateKind = 5
	CallStateOutgoing   CallStateKind = 6
	CallStateEnded      CallStateKind = 7
)

var callStateNames = map[CallStateKind]string{
	CallStateRinging:    "ringing",
	CallStateConnected:  "connected",
	CallStateConnecting: "connecting",
	CallStateConcluded:  "concluded",
	CallStateIncoming:   "incoming",
	CallStateOutgoing:   "outgoing",
	CallStateEnded:      "ended",
}

// String returns the state name.
func (k CallStateKind) String() string {
	if name, ok := callStateNames[k]; ok {
		return name
	}
	return fmt.Sprintf("state(%d)", int(k))
}

// Index returns the host-facing state index.
func (k CallStateKind) Index() int32 {
	return int32(k)
}

// CallEndReason explains why a 1:1 call ended.
type CallEndReason int32

const (
	EndReasonLocalHangup CallEndReason = iota
	EndReasonRemoteHangup
	EndReasonRemoteHangupNeedPermission
	EndReasonRemoteBusy
	EndReasonTimeout
	EndReasonConnectionFailure
	EndReasonInternalFailure
)

// CallState is a 1:1 call state. MediaType is meaningful for Incoming and
// Outgoing, EndReason for Ended.
type CallState struct {
	Kind      CallStateKind
	MediaType CallMediaType
	EndReason CallEndReason
}

// Incoming returns the incoming state for the given media type.
func Incoming(media CallMediaType) CallState {
	return CallState{Kind: CallStateIncoming, MediaType: media}
}

// Outgoing returns the outgoing state for the given media type.
func Outgoing(media CallMediaType) CallState {
	return CallState{Kind: CallStateOutgoing, MediaType: media}
}

// Ended returns the ended state with a reason.
func Ended(reason CallEndReason) CallState {
	return CallState{Kind: CallStateEnded, EndReason: reason}
}

// State returns a state without payload.
func State(kind CallStateKind) CallState {
	return CallState{Kind: kind}
}

// String returns a readable form for logs.
func (s CallState) String() string {
	switch s.Kind {
	case CallStateIncoming, CallStateOutgoing:
		return fmt.Sprintf("%s(%s)", s.Kind, s.MediaType)
	case CallStateEnded:
		return fmt.Sprintf("%s(%d)", s.Kind, s.EndReason)
	default:
		return s.Kind.String()
	}
}

// NetworkAdapterType classifies the local network adapter of a route.
type NetworkAdapterType int32

const (
	AdapterUnknown NetworkAdapterType = iota
	AdapterEthernet
	AdapterWifi
	AdapterCellular
	AdapterVpn
	AdapterLoopback
)

// NetworkRoute describes the route currently used by a connection.
type NetworkRoute struct {
	LocalAdapterType NetworkAdapterType
}

// DataMode constrains bandwidth use of a group call.
type DataMode int32

const (
	DataModeLow DataMode = iota
	DataModeNormal
)

// VideoRequest asks the SFU for a resolution of one remote device.
// Framerate zero means no preference.
type VideoRequest struct {
	DemuxID   DemuxID
	Width     uint16
	Height    uint16
	Framerate uint16
}

// SenderStatus is pushed to the remote side of an active connection.
type SenderStatus struct {
	VideoEnabled  *bool
	SharingScreen *bool
}

// AudioDevice describes an audio input or output device.
type AudioDevice struct {
	Name     string
	UniqueID string
	I18nKey  string
}

// Urgency tells the host how promptly a call message must be delivered.
type Urgency int32

const (
	UrgencyDroppable         Urgency = 0
	UrgencyHandleImmediately Urgency = 1
)

// CallConfig carries per-call engine settings from proceed.
type CallConfig struct {
	DataMode DataMode
	// AudioLevelsInterval is zero when audio level reporting is disabled.
	AudioLevelsInterval time.Duration
}
