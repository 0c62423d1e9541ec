package tring

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/opd-ai/tring/codec"
	"github.com/opd-ai/tring/engine"
	"github.com/opd-ai/tring/handle"
)

// clientCall forwards to the engine for a client this endpoint created.
func (ep *CallEndpoint) clientCall(clientID engine.ClientID, fn func() error) error {
	ep.mu.Lock()
	_, ok := ep.clients[clientID]
	ep.mu.Unlock()
	if !ok {
		return engineError(fmt.Errorf("%w: %d", engine.ErrUnknownClient, clientID))
	}
	return engineError(fn())
}

// PeekGroupCall asks the SFU who is in a group call. The result arrives as
// a peek result for Options.PeekRequestID. members is a packed member list.
func (b *Bridge) PeekGroupCall(h handle.Handle, membershipProof, members []byte) error {
	return b.with("PeekGroupCall", h, func(ep *CallEndpoint) error {
		decoded, err := codec.DecodeGroupMembers(members)
		if err != nil {
			return err
		}
		return engineError(ep.manager.PeekGroupCall(
			ep.opts.PeekRequestID, ep.opts.SFUURL, append([]byte(nil), membershipProof...), decoded))
	})
}

// ReceivedHTTPResponse completes an HTTP request the engine issued.
func (b *Bridge) ReceivedHTTPResponse(h handle.Handle, requestID uint32, statusCode uint32, body []byte) error {
	return b.with("ReceivedHTTPResponse", h, func(ep *CallEndpoint) error {
		logrus.WithFields(logrus.Fields{
			"function":    "ReceivedHTTPResponse",
			"request_id":  requestID,
			"status_code": statusCode,
		}).Debug("Forwarding HTTP response")
		return engineError(ep.manager.ReceivedHTTPResponse(requestID, &engine.HTTPResponse{
			StatusCode: uint16(statusCode),
			Body:       append([]byte(nil), body...),
		}))
	})
}

// CreateGroupCallClient creates a client for groupID that shares the
// endpoint's tracks and frame sink.
func (b *Bridge) CreateGroupCallClient(h handle.Handle, groupID []byte, sfuURL string, hkdfExtraInfo []byte) (engine.ClientID, error) {
	var clientID engine.ClientID
	err := b.with("CreateGroupCallClient", h, func(ep *CallEndpoint) error {
		id, err := ep.manager.CreateGroupCallClient(engine.GroupCallClientParams{
			GroupID:       append([]byte(nil), groupID...),
			SFUURL:        sfuURL,
			HKDFExtraInfo: append([]byte(nil), hkdfExtraInfo...),
			AudioTrack:    ep.audio,
			VideoTrack:    ep.video,
			IncomingVideo: ep.sink,
		})
		if err != nil {
			return engineError(err)
		}
		ep.mu.Lock()
		ep.clients[id] = struct{}{}
		ep.mu.Unlock()
		ep.metrics.RecordGroupClients(1)
		clientID = id

		logrus.WithFields(logrus.Fields{
			"function":  "CreateGroupCallClient",
			"client_id": id,
			"sfu_url":   sfuURL,
		}).Info("Group call client created")
		return nil
	})
	return clientID, err
}

// DeleteGroupCallClient deletes a client.
func (b *Bridge) DeleteGroupCallClient(h handle.Handle, clientID engine.ClientID) error {
	return b.with("DeleteGroupCallClient", h, func(ep *CallEndpoint) error {
		err := ep.clientCall(clientID, func() error {
			return ep.manager.DeleteGroupCallClient(clientID)
		})
		if err != nil {
			return err
		}
		ep.mu.Lock()
		delete(ep.clients, clientID)
		ep.mu.Unlock()
		ep.metrics.RecordGroupClients(-1)
		return nil
	})
}

// SetOutgoingAudioMuted mutes the shared audio track and tells the client.
func (b *Bridge) SetOutgoingAudioMuted(h handle.Handle, clientID engine.ClientID, muted bool) error {
	return b.with("SetOutgoingAudioMuted", h, func(ep *CallEndpoint) error {
		ep.audio.SetEnabled(!muted)
		return ep.clientCall(clientID, func() error {
			return ep.manager.SetOutgoingAudioMuted(clientID, muted)
		})
	})
}

// SetOutgoingVideoMuted mutes the shared video track and tells the client.
func (b *Bridge) SetOutgoingVideoMuted(h handle.Handle, clientID engine.ClientID, muted bool) error {
	return b.with("SetOutgoingVideoMuted", h, func(ep *CallEndpoint) error {
		ep.video.SetEnabled(!muted)
		return ep.clientCall(clientID, func() error {
			return ep.manager.SetOutgoingVideoMuted(clientID, muted)
		})
	})
}

// GroupRing rings every member of the client's group.
func (b *Bridge) GroupRing(h handle.Handle, clientID engine.ClientID) error {
	return b.with("GroupRing", h, func(ep *CallEndpoint) error {
		return ep.clientCall(clientID, func() error {
			return ep.manager.GroupRing(clientID, nil)
		})
	})
}

// GroupConnect connects a client to its SFU.
func (b *Bridge) GroupConnect(h handle.Handle, clientID engine.ClientID) error {
	return b.with("GroupConnect", h, func(ep *CallEndpoint) error {
		return ep.clientCall(clientID, func() error {
			return ep.manager.Connect(clientID)
		})
	})
}

// SetMembershipProof hands the client a membership proof.
func (b *Bridge) SetMembershipProof(h handle.Handle, clientID engine.ClientID, proof []byte) error {
	return b.with("SetMembershipProof", h, func(ep *CallEndpoint) error {
		return ep.clientCall(clientID, func() error {
			return ep.manager.SetMembershipProof(clientID, append([]byte(nil), proof...))
		})
	})
}

// SetGroupMembers hands the client a packed member list.
func (b *Bridge) SetGroupMembers(h handle.Handle, clientID engine.ClientID, members []byte) error {
	return b.with("SetGroupMembers", h, func(ep *CallEndpoint) error {
		decoded, err := codec.DecodeGroupMembers(members)
		if err != nil {
			return err
		}
		return ep.clientCall(clientID, func() error {
			return ep.manager.SetGroupMembers(clientID, decoded)
		})
	})
}

// SetDataMode sets the client's bandwidth mode.
func (b *Bridge) SetDataMode(h handle.Handle, clientID engine.ClientID, mode int32) error {
	return b.with("SetDataMode", h, func(ep *CallEndpoint) error {
		return ep.clientCall(clientID, func() error {
			return ep.manager.SetDataMode(clientID, decodeDataMode(mode))
		})
	})
}

// Join joins the group call of a connected client.
func (b *Bridge) Join(h handle.Handle, clientID engine.ClientID) error {
	return b.with("Join", h, func(ep *CallEndpoint) error {
		return ep.clientCall(clientID, func() error {
			return ep.manager.Join(clientID)
		})
	})
}

// Disconnect stops sending media, drops buffered remote frames and
// disconnects the client.
func (b *Bridge) Disconnect(h handle.Handle, clientID engine.ClientID) error {
	return b.with("Disconnect", h, func(ep *CallEndpoint) error {
		ep.audio.SetEnabled(false)
		ep.video.SetEnabled(false)
		ep.video.SetContentHint(false)
		ep.sink.Clear()
		return ep.clientCall(clientID, func() error {
			return ep.manager.Disconnect(clientID)
		})
	})
}

// RequestVideo asks for demuxID at the configured resolution.
func (b *Bridge) RequestVideo(h handle.Handle, clientID engine.ClientID, demuxID engine.DemuxID) error {
	return b.with("RequestVideo", h, func(ep *CallEndpoint) error {
		request := engine.VideoRequest{
			DemuxID: demuxID,
			Width:   ep.opts.RequestVideoWidth,
			Height:  ep.opts.RequestVideoHeight,
		}
		return ep.clientCall(clientID, func() error {
			return ep.manager.RequestVideo(clientID, []engine.VideoRequest{request}, ep.opts.ActiveSpeakerHeight)
		})
	})
}
