package engine

import (
	"github.com/pion/webrtc/v3"

	"github.com/opd-ai/tring/media"
)

// SignalingSender delivers outgoing signaling and call messages to the host.
type SignalingSender interface {
	SendSignaling(recipient PeerID, callID CallID, receiverDeviceID *DeviceID, msg SignalingMessage) error
	SendCallMessage(recipient []byte, message []byte, urgency Urgency) error
	SendCallMessageToGroup(groupID []byte, message []byte, urgency Urgency, recipientsOverride [][]byte) error
}

// CallStateHandler receives 1:1 call state notifications.
type CallStateHandler interface {
	HandleCallState(remote PeerID, callID CallID, state CallState) error
	HandleNetworkRoute(remote PeerID, route NetworkRoute) error
	HandleRemoteAudioState(remote PeerID, enabled bool) error
	HandleRemoteVideoState(remote PeerID, enabled bool) error
	HandleRemoteSharingScreen(remote PeerID, enabled bool) error
	HandleAudioLevels(remote PeerID, captured, received AudioLevel) error
	HandleLowBandwidthForVideo(remote PeerID, recovered bool) error
}

// HTTPDelegate performs HTTP requests on behalf of the engine. The response
// comes back through CallManager.ReceivedHTTPResponse.
type HTTPDelegate interface {
	SendHTTPRequest(requestID RequestID, request HTTPRequest) error
}

// GroupUpdateHandler receives group call and peek notifications.
type GroupUpdateHandler interface {
	HandleGroupUpdate(update GroupUpdate) error
}

// Reporter receives the engine's one-shot milestone signal.
type Reporter interface {
	Report()
}

// Platform bundles the handlers an engine reports through.
type Platform struct {
	Signaling SignalingSender
	State     CallStateHandler
	HTTP      HTTPDelegate
	Group     GroupUpdateHandler
	Reporter  Reporter

	// AssumeMessagesSent makes the engine treat every signaling message as
	// delivered instead of waiting for CallManager.MessageSent.
	AssumeMessagesSent bool
}

// Factory creates a call manager bound to a platform.
type Factory func(platform Platform) (CallManager, error)

// AudioTrack is an outgoing audio track.
type AudioTrack interface {
	SetEnabled(enabled bool)
	Enabled() bool
}

// VideoTrack is an outgoing video track.
type VideoTrack interface {
	SetEnabled(enabled bool)
	Enabled() bool
	// SetContentHint marks the track as carrying a screen share.
	SetContentHint(screenShare bool)
	ContentHint() bool
}

// VideoSource accepts locally captured frames.
type VideoSource interface {
	PushFrame(frame *media.VideoFrame) error
}

// VideoSink receives decoded remote frames keyed by demux id.
type VideoSink interface {
	OnVideoFrame(demuxID DemuxID, frame *media.VideoFrame)
}

// MediaFactory creates tracks and manages audio devices.
type MediaFactory interface {
	AudioRecordingDevices() ([]AudioDevice, error)
	AudioPlayoutDevices() ([]AudioDevice, error)
	SetAudioRecordingDevice(index uint16) error
	SetAudioPlayoutDevice(index uint16) error
	CreateOutgoingAudioTrack() (AudioTrack, error)
	CreateOutgoingVideoSource() (VideoSource, error)
	CreateOutgoingVideoTrack(source VideoSource) (VideoTrack, error)
	Close() error
}

// CallContext is what proceed hands to the engine for a 1:1 call.
type CallContext struct {
	ICEServers []webrtc.ICEServer
	HideIP     bool
	// PeerConnection is built from ICEServers. The engine owns it once
	// Proceed succeeds and closes it when the call concludes.
	PeerConnection *webrtc.PeerConnection
	AudioTrack     AudioTrack
	VideoTrack     VideoTrack
	IncomingVideo  VideoSink
}

// GroupCallClientParams configures a new group call client.
type GroupCallClientParams struct {
	GroupID       []byte
	SFUURL        string
	HKDFExtraInfo []byte
	AudioTrack    AudioTrack
	VideoTrack    VideoTrack
	IncomingVideo VideoSink
}

// Connection is the engine side of an established 1:1 call.
type Connection interface {
	UpdateSenderStatus(status SenderStatus) error
}

// CallManager is the native call engine.
type CallManager interface {
	SetSelfUUID(uuid []byte) error
	ReceivedOffer(remote PeerID, callID CallID, offer ReceivedOffer) error
	ReceivedAnswer(callID CallID, answer ReceivedAnswer) error
	ReceivedIce(callID CallID, ice ReceivedIce) error
	ReceivedCallMessage(message ReceivedCallMessage) error
	CreateOutgoingCall(remote PeerID, callID CallID, mediaType CallMediaType, localDeviceID DeviceID) error
	Proceed(callID CallID, ctx CallContext, config CallConfig) error
	AcceptCall(callID CallID) error
	DropCall(callID CallID) error
	Hangup() error
	MessageSent(callID CallID) error
	ActiveConnection() (Connection, error)

	ReceivedHTTPResponse(requestID RequestID, response *HTTPResponse) error
	PeekGroupCall(requestID RequestID, sfuURL string, membershipProof []byte, members []GroupMember) error

	CreateGroupCallClient(params GroupCallClientParams) (ClientID, error)
	DeleteGroupCallClient(clientID ClientID) error
	Connect(clientID ClientID) error
	Join(clientID ClientID) error
	Disconnect(clientID ClientID) error
	GroupRing(clientID ClientID, recipient []byte) error
	SetOutgoingAudioMuted(clientID ClientID, muted bool) error
	SetOutgoingVideoMuted(clientID ClientID, muted bool) error
	SetMembershipProof(clientID ClientID, proof []byte) error
	SetGroupMembers(clientID ClientID, members []GroupMember) error
	SetDataMode(clientID ClientID, mode DataMode) error
	RequestVideo(clientID ClientID, requests []VideoRequest, activeSpeakerHeight uint16) error

	Close() error
}
