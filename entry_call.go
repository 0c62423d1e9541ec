package tring

import (
	"time"

	"github.com/google/uuid"
	"github.com/pion/webrtc/v3"
	"github.com/sirupsen/logrus"

	"github.com/opd-ai/tring/codec"
	"github.com/opd-ai/tring/engine"
	"github.com/opd-ai/tring/handle"
	"github.com/opd-ai/tring/peerconn"
)

// mediaType decodes the host's offer type; only 1 selects video.
func mediaType(video bool) engine.CallMediaType {
	if video {
		return engine.MediaTypeVideo
	}
	return engine.MediaTypeAudio
}

// SetSelfUUID sets the local user id. id must be a 16-byte UUID.
func (b *Bridge) SetSelfUUID(h handle.Handle, id []byte) error {
	return b.with("SetSelfUUID", h, func(ep *CallEndpoint) error {
		parsed, err := uuid.FromBytes(id)
		if err != nil {
			return decodeError("self uuid", err)
		}
		logrus.WithFields(logrus.Fields{
			"function": "SetSelfUUID",
			"uuid":     parsed.String(),
		}).Debug("Setting self uuid")
		return engineError(ep.manager.SetSelfUUID(id))
	})
}

// ReceivedOffer forwards an offer from peerID. offerType 1 is a video call;
// every other value is audio.
func (b *Bridge) ReceivedOffer(h handle.Handle, peerID string, callID uint64, offerType int32,
	senderDeviceID, receiverDeviceID uint32, senderKey, receiverKey, opaque []byte, ageSec uint64,
) error {
	return b.with("ReceivedOffer", h, func(ep *CallEndpoint) error {
		offer := engine.ReceivedOffer{
			Offer: engine.Offer{
				CallMediaType: mediaType(offerType == 1),
				Opaque:        append([]byte(nil), opaque...),
			},
			AgeSeconds:          ageSec,
			SenderDeviceID:      senderDeviceID,
			ReceiverDeviceID:    receiverDeviceID,
			SenderIdentityKey:   append([]byte(nil), senderKey...),
			ReceiverIdentityKey: append([]byte(nil), receiverKey...),
		}
		return engineError(ep.manager.ReceivedOffer(peerID, engine.CallID(callID), offer))
	})
}

// ReceivedAnswer forwards an answer for callID.
func (b *Bridge) ReceivedAnswer(h handle.Handle, peerID string, callID uint64, senderDeviceID uint32,
	senderKey, receiverKey, opaque []byte,
) error {
	return b.with("ReceivedAnswer", h, func(ep *CallEndpoint) error {
		logrus.WithFields(logrus.Fields{
			"function": "ReceivedAnswer",
			"peer":     peerID,
			"call_id":  callID,
		}).Debug("Forwarding answer")
		return engineError(ep.manager.ReceivedAnswer(engine.CallID(callID), engine.ReceivedAnswer{
			Answer:              engine.Answer{Opaque: append([]byte(nil), opaque...)},
			SenderDeviceID:      senderDeviceID,
			SenderIdentityKey:   append([]byte(nil), senderKey...),
			ReceiverIdentityKey: append([]byte(nil), receiverKey...),
		}))
	})
}

// ReceivedIce forwards a batch of candidates for callID.
func (b *Bridge) ReceivedIce(h handle.Handle, callID uint64, senderDeviceID uint32, candidates codec.Batch) error {
	return b.with("ReceivedIce", h, func(ep *CallEndpoint) error {
		decoded, err := codec.DecodeIceCandidates(candidates)
		if err != nil {
			return err
		}
		return engineError(ep.manager.ReceivedIce(engine.CallID(callID), engine.ReceivedIce{
			Ice:            engine.Ice{Candidates: decoded},
			SenderDeviceID: senderDeviceID,
		}))
	})
}

// ReceivedOpaqueMessage forwards a call message, such as a group ring.
func (b *Bridge) ReceivedOpaqueMessage(h handle.Handle, senderUUID []byte, senderDeviceID, localDeviceID uint32,
	message []byte, ageSec uint64,
) error {
	return b.with("ReceivedOpaqueMessage", h, func(ep *CallEndpoint) error {
		return engineError(ep.manager.ReceivedCallMessage(engine.ReceivedCallMessage{
			SenderUUID:     append([]byte(nil), senderUUID...),
			SenderDeviceID: senderDeviceID,
			LocalDeviceID:  localDeviceID,
			Message:        append([]byte(nil), message...),
			AgeSeconds:     ageSec,
		}))
	})
}

// CreateOutgoingCall starts a call to peerID with a host-chosen call id.
func (b *Bridge) CreateOutgoingCall(h handle.Handle, peerID string, videoEnabled bool, localDeviceID uint32, callID uint64) error {
	return b.with("CreateOutgoingCall", h, func(ep *CallEndpoint) error {
		return engineError(ep.manager.CreateOutgoingCall(peerID, engine.CallID(callID), mediaType(videoEnabled), localDeviceID))
	})
}

// ProceedCall lets callID continue with one ICE server built from the
// credentials and URL batch. The server is validated by opening the call's
// peer connection; a rejected configuration is a decode error. A non-positive audioLevelsIntervalMillis
// disables audio level reports.
func (b *Bridge) ProceedCall(h handle.Handle, callID uint64, dataMode, audioLevelsIntervalMillis int32,
	iceUser, icePassword, iceHostname string, iceURLs codec.Batch,
) error {
	return b.with("ProceedCall", h, func(ep *CallEndpoint) error {
		urls, err := codec.DecodeStrings(iceURLs)
		if err != nil {
			return err
		}
		servers := []webrtc.ICEServer{peerconn.ICEServer(iceUser, icePassword, urls)}
		pc, err := peerconn.NewConnection(servers, false, ep.audio, ep.video)
		if err != nil {
			return err
		}
		ctx := engine.CallContext{
			ICEServers:     servers,
			PeerConnection: pc,
			AudioTrack:     ep.audio,
			VideoTrack:     ep.video,
			IncomingVideo:  ep.sink,
		}
		config := engine.CallConfig{DataMode: decodeDataMode(dataMode)}
		if audioLevelsIntervalMillis > 0 {
			config.AudioLevelsInterval = time.Duration(audioLevelsIntervalMillis) * time.Millisecond
		}

		logrus.WithFields(logrus.Fields{
			"function":     "ProceedCall",
			"call_id":      callID,
			"ice_hostname": iceHostname,
			"ice_urls":     len(urls),
		}).Info("Proceeding with call")
		if err := ep.manager.Proceed(engine.CallID(callID), ctx, config); err != nil {
			_ = pc.Close()
			return engineError(err)
		}
		return nil
	})
}

// AcceptCall answers an incoming call.
func (b *Bridge) AcceptCall(h handle.Handle, callID uint64) error {
	return b.with("AcceptCall", h, func(ep *CallEndpoint) error {
		return engineError(ep.manager.AcceptCall(engine.CallID(callID)))
	})
}

// IgnoreCall drops a call without hanging up on the remote side.
func (b *Bridge) IgnoreCall(h handle.Handle, callID uint64) error {
	return b.with("IgnoreCall", h, func(ep *CallEndpoint) error {
		return engineError(ep.manager.DropCall(engine.CallID(callID)))
	})
}

// HangupCall hangs up the current call.
func (b *Bridge) HangupCall(h handle.Handle) error {
	return b.with("HangupCall", h, func(ep *CallEndpoint) error {
		return engineError(ep.manager.Hangup())
	})
}

// SignalMessageSent acknowledges that the host delivered the last
// signaling message of callID.
func (b *Bridge) SignalMessageSent(h handle.Handle, callID uint64) error {
	return b.with("SignalMessageSent", h, func(ep *CallEndpoint) error {
		return engineError(ep.manager.MessageSent(engine.CallID(callID)))
	})
}

// decodeDataMode maps the host value to a data mode; unknown values mean
// normal.
func decodeDataMode(mode int32) engine.DataMode {
	if engine.DataMode(mode) == engine.DataModeLow {
		return engine.DataModeLow
	}
	return engine.DataModeNormal
}
