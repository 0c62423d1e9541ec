package reporter

import (
	"github.com/opd-ai/tring/engine"
	"github.com/opd-ai/tring/event"
)

var (
	_ engine.SignalingSender    = (*Reporter)(nil)
	_ engine.CallStateHandler   = (*Reporter)(nil)
	_ engine.HTTPDelegate       = (*Reporter)(nil)
	_ engine.GroupUpdateHandler = (*Reporter)(nil)
	_ engine.Reporter           = (*Reporter)(nil)
)

// Platform returns the engine platform backed by r.
func (r *Reporter) Platform(assumeMessagesSent bool) engine.Platform {
	return engine.Platform{
		Signaling:          r,
		State:              r,
		HTTP:               r,
		Group:              r,
		Reporter:           r,
		AssumeMessagesSent: assumeMessagesSent,
	}
}

// SendSignaling implements engine.SignalingSender.
func (r *Reporter) SendSignaling(recipient engine.PeerID, callID engine.CallID, receiverDeviceID *engine.DeviceID, msg engine.SignalingMessage) error {
	return r.Send(event.SendSignaling{
		PeerID:           recipient,
		ReceiverDeviceID: receiverDeviceID,
		CallID:           callID,
		Message:          msg,
	})
}

// SendCallMessage implements engine.SignalingSender.
func (r *Reporter) SendCallMessage(recipient []byte, message []byte, urgency engine.Urgency) error {
	return r.Send(event.SendCallMessage{Recipient: recipient, Message: message, Urgency: urgency})
}

// SendCallMessageToGroup implements engine.SignalingSender.
func (r *Reporter) SendCallMessageToGroup(groupID []byte, message []byte, urgency engine.Urgency, recipientsOverride [][]byte) error {
	return r.Send(event.SendCallMessageToGroup{
		GroupID:            groupID,
		Message:            message,
		Urgency:            urgency,
		RecipientsOverride: recipientsOverride,
	})
}

// HandleCallState implements engine.CallStateHandler.
func (r *Reporter) HandleCallState(remote engine.PeerID, callID engine.CallID, state engine.CallState) error {
	return r.Send(event.CallStateChanged{PeerID: remote, CallID: callID, State: state})
}

// HandleNetworkRoute implements engine.CallStateHandler.
func (r *Reporter) HandleNetworkRoute(remote engine.PeerID, route engine.NetworkRoute) error {
	return r.Send(event.NetworkRouteChanged{PeerID: remote, Route: route})
}

// HandleRemoteAudioState implements engine.CallStateHandler.
func (r *Reporter) HandleRemoteAudioState(remote engine.PeerID, enabled bool) error {
	return r.Send(event.RemoteAudioStateChanged{PeerID: remote, Enabled: enabled})
}

// HandleRemoteVideoState implements engine.CallStateHandler.
func (r *Reporter) HandleRemoteVideoState(remote engine.PeerID, enabled bool) error {
	return r.Send(event.RemoteVideoStateChanged{PeerID: remote, Enabled: enabled})
}

// HandleRemoteSharingScreen implements engine.CallStateHandler.
func (r *Reporter) HandleRemoteSharingScreen(remote engine.PeerID, enabled bool) error {
	return r.Send(event.RemoteSharingScreenChanged{PeerID: remote, Enabled: enabled})
}

// HandleAudioLevels implements engine.CallStateHandler.
func (r *Reporter) HandleAudioLevels(remote engine.PeerID, captured, received engine.AudioLevel) error {
	return r.Send(event.AudioLevels{PeerID: remote, Captured: captured, Received: received})
}

// HandleLowBandwidthForVideo implements engine.CallStateHandler.
func (r *Reporter) HandleLowBandwidthForVideo(remote engine.PeerID, recovered bool) error {
	return r.Send(event.LowBandwidthForVideo{PeerID: remote, Recovered: recovered})
}

// SendHTTPRequest implements engine.HTTPDelegate.
func (r *Reporter) SendHTTPRequest(requestID engine.RequestID, request engine.HTTPRequest) error {
	return r.Send(event.SendHTTPRequest{RequestID: requestID, Request: request})
}

// HandleGroupUpdate implements engine.GroupUpdateHandler.
func (r *Reporter) HandleGroupUpdate(update engine.GroupUpdate) error {
	return r.Send(event.GroupUpdate{Update: update})
}
