package reporter

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/opd-ai/tring/callback"
	"github.com/opd-ai/tring/codec"
	"github.com/opd-ai/tring/engine"
	"github.com/opd-ai/tring/event"
	"github.com/opd-ai/tring/host"
)

// Status codes delivered through the table's Status entry.
const (
	StatusIncoming    int32 = 0
	StatusOutgoing    int32 = 1
	StatusStateStep   int32 = 10
	StatusHangup      int32 = 11
	StatusRemoteMedia int32 = 22

	RemoteVideoEnabled          int32 = 31
	RemoteVideoDisabled         int32 = 32
	RemoteSharingScreenEnabled  int32 = 33
	RemoteSharingScreenDisabled int32 = 34
	RemoteAudioEnabled          int32 = 41
	RemoteAudioDisabled         int32 = 42
)

// peerIDPlaceholder fills the peer id slot of Status; the host identifies
// peers by call id.
const peerIDPlaceholder = 1

type handlerFunc func(r *Reporter, env host.Env, ev event.Event) error

var dispatchTable = map[event.Kind]handlerFunc{
	event.KindSendSignaling:          dispatchSignaling,
	event.KindSendCallMessage:        dispatchCallMessage,
	event.KindSendCallMessageToGroup: dispatchGroupCallMessage,
	event.KindCallState:              dispatchCallState,
	event.KindRemoteAudioState:       dispatchRemoteAudio,
	event.KindRemoteVideoState:       dispatchRemoteVideo,
	event.KindRemoteSharingScreen:    dispatchRemoteSharingScreen,
	event.KindNetworkRoute:           dispatchLogOnly,
	event.KindAudioLevels:            dispatchLogOnly,
	event.KindLowBandwidthForVideo:   dispatchLogOnly,
	event.KindSendHTTPRequest:        dispatchHTTPRequest,
	event.KindGroupUpdate:            dispatchGroupUpdate,
}

func dispatchSignaling(r *Reporter, _ host.Env, ev event.Event) error {
	e := ev.(event.SendSignaling)
	logrus.WithFields(logrus.Fields{
		"function": "dispatchSignaling",
		"call_id":  e.CallID,
		"message":  kindOf(e.Message),
	}).Debug("Sending signaling message")

	switch msg := e.Message.(type) {
	case engine.Offer:
		return r.invoke("SignalingOffer", func(t *callback.Table) {
			t.SignalingOffer(codec.EncodeBuffer(owned(msg.Opaque)))
		})
	case engine.Answer:
		return r.invoke("SignalingAnswer", func(t *callback.Table) {
			t.SignalingAnswer(codec.EncodeBuffer(owned(msg.Opaque)))
		})
	case engine.Ice:
		var errs []error
		for _, candidate := range msg.Candidates {
			err := r.invoke("SignalingIce", func(t *callback.Table) {
				t.SignalingIce(codec.EncodeBuffer(owned(candidate.Opaque)))
			})
			if err != nil {
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	case engine.Hangup:
		hangupType, deviceID := msg.TypeAndDeviceID()
		return r.invoke("Status", func(t *callback.Table) {
			t.Status(uint64(e.CallID), uint64(deviceID), StatusHangup, int32(hangupType))
		})
	default:
		return fmt.Errorf("%w: signaling %s", errUnhandled, kindOf(e.Message))
	}
}

func kindOf(msg engine.SignalingMessage) string {
	if msg == nil {
		return "nil"
	}
	return msg.SignalingKind().String()
}

func dispatchCallMessage(r *Reporter, _ host.Env, ev event.Event) error {
	e := ev.(event.SendCallMessage)
	return r.invoke("SendCallMessage", func(t *callback.Table) {
		t.SendCallMessage(codec.EncodeBuffer(owned(e.Recipient)), codec.EncodeBuffer(owned(e.Message)), int32(e.Urgency))
	})
}

func dispatchGroupCallMessage(r *Reporter, _ host.Env, ev event.Event) error {
	e := ev.(event.SendCallMessageToGroup)
	if len(e.RecipientsOverride) > 0 {
		logrus.WithFields(logrus.Fields{
			"function":   "dispatchGroupCallMessage",
			"recipients": len(e.RecipientsOverride),
		}).Debug("Recipient override not forwarded, sending to whole group")
	}
	return r.invoke("SendCallMessageToGroup", func(t *callback.Table) {
		t.SendCallMessageToGroup(codec.EncodeBuffer(owned(e.GroupID)), codec.EncodeBuffer(owned(e.Message)), int32(e.Urgency))
	})
}

// statusForState maps a call state to its (code, extra) pair.
func statusForState(state engine.CallState) (code, extra int32) {
	switch state.Kind {
	case engine.CallStateIncoming:
		return StatusIncoming, int32(state.MediaType)
	case engine.CallStateOutgoing:
		return StatusOutgoing, int32(state.MediaType)
	default:
		return StatusStateStep * state.Kind.Index(), 0
	}
}

func dispatchCallState(r *Reporter, _ host.Env, ev event.Event) error {
	e := ev.(event.CallStateChanged)
	code, extra := statusForState(e.State)
	logrus.WithFields(logrus.Fields{
		"function": "dispatchCallState",
		"call_id":  e.CallID,
		"state":    e.State.String(),
	}).Info("Call state changed")
	return r.invoke("Status", func(t *callback.Table) {
		t.Status(uint64(e.CallID), peerIDPlaceholder, code, extra)
	})
}

func remoteStatus(r *Reporter, enabled bool, on, off int32) error {
	code := off
	if enabled {
		code = on
	}
	return r.invoke("Status", func(t *callback.Table) {
		t.Status(1, peerIDPlaceholder, StatusRemoteMedia, code)
	})
}

func dispatchRemoteAudio(r *Reporter, _ host.Env, ev event.Event) error {
	return remoteStatus(r, ev.(event.RemoteAudioStateChanged).Enabled, RemoteAudioEnabled, RemoteAudioDisabled)
}

func dispatchRemoteVideo(r *Reporter, _ host.Env, ev event.Event) error {
	return remoteStatus(r, ev.(event.RemoteVideoStateChanged).Enabled, RemoteVideoEnabled, RemoteVideoDisabled)
}

func dispatchRemoteSharingScreen(r *Reporter, _ host.Env, ev event.Event) error {
	return remoteStatus(r, ev.(event.RemoteSharingScreenChanged).Enabled, RemoteSharingScreenEnabled, RemoteSharingScreenDisabled)
}

// dispatchLogOnly handles events the host has no notification for.
func dispatchLogOnly(_ *Reporter, _ host.Env, ev event.Event) error {
	logrus.WithFields(logrus.Fields{
		"function": "dispatchLogOnly",
		"event":    fmt.Sprintf("%+v", ev),
	}).Debug("Engine notification")
	return nil
}

func dispatchHTTPRequest(_ *Reporter, env host.Env, ev event.Event) error {
	e := ev.(event.SendHTTPRequest)
	logrus.WithFields(logrus.Fields{
		"function":   "dispatchHTTPRequest",
		"request_id": e.RequestID,
		"method":     e.Request.Method.String(),
		"url":        e.Request.URL,
	}).Debug("Handing HTTP request to host")
	return env.MakeHTTPRequest(host.HTTPRequestArgs{
		URL:       e.Request.URL,
		Method:    int8(e.Request.Method),
		RequestID: int32(e.RequestID),
		Headers:   codec.EncodeHeaders(e.Request.Headers),
		Body:      codec.EncodeBody(e.Request.Body),
	})
}
