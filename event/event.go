// Package event defines the closed set of notifications the engine emits
// toward the host.
package event

import (
	"fmt"

	"github.com/opd-ai/tring/engine"
)

// Kind identifies an event variant.
type Kind int

const (
	KindSendSignaling Kind = iota
	KindSendCallMessage
	KindSendCallMessageToGroup
	KindCallState
	KindRemoteAudioState
	KindRemoteVideoState
	KindRemoteSharingScreen
	KindNetworkRoute
	KindAudioLevels
	KindLowBandwidthForVideo
	KindSendHTTPRequest
	KindGroupUpdate
)

var kindNames = map[Kind]string{
	KindSendSignaling:          "send_signaling",
	KindSendCallMessage:        "send_call_message",
	KindSendCallMessageToGroup: "send_call_message_to_group",
	KindCallState:              "call_state",
	KindRemoteAudioState:       "remote_audio_state",
	KindRemoteVideoState:       "remote_video_state",
	KindRemoteSharingScreen:    "remote_sharing_screen",
	KindNetworkRoute:           "network_route",
	KindAudioLevels:            "audio_levels",
	KindLowBandwidthForVideo:   "low_bandwidth_for_video",
	KindSendHTTPRequest:        "send_http_request",
	KindGroupUpdate:            "group_update",
}

// String returns the kind name used in logs and metric labels.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Event is one engine notification.
type Event interface {
	Kind() Kind
}

// SendSignaling asks the host to deliver a 1:1 signaling message.
type SendSignaling struct {
	PeerID           engine.PeerID
	ReceiverDeviceID *engine.DeviceID
	CallID           engine.CallID
	Message          engine.SignalingMessage
}

// SendCallMessage asks the host to deliver an opaque message to one user.
type SendCallMessage struct {
	Recipient []byte
	Message   []byte
	Urgency   engine.Urgency
}

// SendCallMessageToGroup asks the host to deliver an opaque message to a group.
type SendCallMessageToGroup struct {
	GroupID            []byte
	Message            []byte
	Urgency            engine.Urgency
	RecipientsOverride [][]byte
}

// CallStateChanged reports a 1:1 call state change.
type CallStateChanged struct {
	PeerID engine.PeerID
	CallID engine.CallID
	State  engine.CallState
}

// RemoteAudioStateChanged reports the remote side toggling audio.
type RemoteAudioStateChanged struct {
	PeerID  engine.PeerID
	Enabled bool
}

// RemoteVideoStateChanged reports the remote side toggling video.
type RemoteVideoStateChanged struct {
	PeerID  engine.PeerID
	Enabled bool
}

// RemoteSharingScreenChanged reports the remote side toggling screen share.
type RemoteSharingScreenChanged struct {
	PeerID  engine.PeerID
	Enabled bool
}

// NetworkRouteChanged reports a new network route of a 1:1 call.
type NetworkRouteChanged struct {
	PeerID engine.PeerID
	Route  engine.NetworkRoute
}

// AudioLevels reports captured and received audio levels.
type AudioLevels struct {
	PeerID   engine.PeerID
	Captured engine.AudioLevel
	Received engine.AudioLevel
}

// LowBandwidthForVideo reports that video was disabled for lack of
// bandwidth, or that it recovered.
type LowBandwidthForVideo struct {
	PeerID    engine.PeerID
	Recovered bool
}

// SendHTTPRequest asks the host to perform an HTTP request.
type SendHTTPRequest struct {
	RequestID engine.RequestID
	Request   engine.HTTPRequest
}

// GroupUpdate wraps a group call or peek notification.
type GroupUpdate struct {
	Update engine.GroupUpdate
}

func (SendSignaling) Kind() Kind              { return KindSendSignaling }
func (SendCallMessage) Kind() Kind            { return KindSendCallMessage }
func (SendCallMessageToGroup) Kind() Kind     { return KindSendCallMessageToGroup }
func (CallStateChanged) Kind() Kind           { return KindCallState }
func (RemoteAudioStateChanged) Kind() Kind    { return KindRemoteAudioState }
func (RemoteVideoStateChanged) Kind() Kind    { return KindRemoteVideoState }
func (RemoteSharingScreenChanged) Kind() Kind { return KindRemoteSharingScreen }
func (NetworkRouteChanged) Kind() Kind        { return KindNetworkRoute }
func (AudioLevels) Kind() Kind                { return KindAudioLevels }
func (LowBandwidthForVideo) Kind() Kind       { return KindLowBandwidthForVideo }
func (SendHTTPRequest) Kind() Kind            { return KindSendHTTPRequest }
func (GroupUpdate) Kind() Kind                { return KindGroupUpdate }

// Label returns the finest-grained name for metrics: the group update kind
// for group updates, the event kind otherwise.
func Label(e Event) string {
	if g, ok := e.(GroupUpdate); ok && g.Update != nil {
		return "group_" + g.Update.GroupUpdateKind().String()
	}
	return e.Kind().String()
}
