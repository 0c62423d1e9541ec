package main

/*
#include "tring.h"
*/
import "C"

import (
	"github.com/opd-ai/tring"
	"github.com/opd-ai/tring/engine"
	"github.com/opd-ai/tring/handle"
)

//export peekGroupCall
func peekGroupCall(endpoint C.int64_t, mp C.JByteArray, gm C.JByteArray) C.int64_t {
	return C.int64_t(withBridge(func(b *tring.Bridge) error {
		return b.PeekGroupCall(handle.Handle(endpoint), goBytes(mp), goBytes(gm))
	}))
}

// createGroupCallClient returns the new client id, or a negative status.
//
//export createGroupCallClient
func createGroupCallClient(endpoint C.int64_t, groupID C.JByteArray, sfuURL C.JPString, hkdfExtraInfo C.JByteArray) C.int64_t {
	return C.int64_t(createGroupClient(handle.Handle(endpoint), goBytes(groupID), goString(sfuURL), goBytes(hkdfExtraInfo)))
}

//export deleteGroupCallClient
func deleteGroupCallClient(endpoint C.int64_t, clientID C.uint32_t) C.int64_t {
	return C.int64_t(withBridge(func(b *tring.Bridge) error {
		return b.DeleteGroupCallClient(handle.Handle(endpoint), engine.ClientID(clientID))
	}))
}

//export setOutgoingAudioMuted
func setOutgoingAudioMuted(endpoint C.int64_t, clientID C.uint32_t, muted C.bool) C.int64_t {
	return C.int64_t(withBridge(func(b *tring.Bridge) error {
		return b.SetOutgoingAudioMuted(handle.Handle(endpoint), engine.ClientID(clientID), bool(muted))
	}))
}

//export setOutgoingVideoMuted
func setOutgoingVideoMuted(endpoint C.int64_t, clientID C.uint32_t, muted C.bool) C.int64_t {
	return C.int64_t(withBridge(func(b *tring.Bridge) error {
		return b.SetOutgoingVideoMuted(handle.Handle(endpoint), engine.ClientID(clientID), bool(muted))
	}))
}

//export group_ring
func group_ring(endpoint C.int64_t, clientID C.uint32_t) C.int64_t {
	return C.int64_t(withBridge(func(b *tring.Bridge) error {
		return b.GroupRing(handle.Handle(endpoint), engine.ClientID(clientID))
	}))
}

//export group_connect
func group_connect(endpoint C.int64_t, clientID C.uint32_t) C.int64_t {
	return C.int64_t(withBridge(func(b *tring.Bridge) error {
		return b.GroupConnect(handle.Handle(endpoint), engine.ClientID(clientID))
	}))
}

//export setMembershipProof
func setMembershipProof(endpoint C.int64_t, clientID C.uint32_t, token C.JByteArray) C.int64_t {
	return C.int64_t(withBridge(func(b *tring.Bridge) error {
		return b.SetMembershipProof(handle.Handle(endpoint), engine.ClientID(clientID), goBytes(token))
	}))
}

//export setGroupMembers
func setGroupMembers(endpoint C.int64_t, clientID C.uint32_t, groupInfo C.JByteArray) C.int64_t {
	return C.int64_t(withBridge(func(b *tring.Bridge) error {
		return b.SetGroupMembers(handle.Handle(endpoint), engine.ClientID(clientID), goBytes(groupInfo))
	}))
}

//export setDataMode
func setDataMode(endpoint C.int64_t, clientID C.uint32_t, dataMode C.int32_t) C.int64_t {
	return C.int64_t(withBridge(func(b *tring.Bridge) error {
		return b.SetDataMode(handle.Handle(endpoint), engine.ClientID(clientID), int32(dataMode))
	}))
}

//export join
func join(endpoint C.int64_t, clientID C.uint32_t) C.int64_t {
	return C.int64_t(withBridge(func(b *tring.Bridge) error {
		return b.Join(handle.Handle(endpoint), engine.ClientID(clientID))
	}))
}

//export disconnect
func disconnect(endpoint C.int64_t, clientID C.uint32_t) C.int64_t {
	return C.int64_t(withBridge(func(b *tring.Bridge) error {
		return b.Disconnect(handle.Handle(endpoint), engine.ClientID(clientID))
	}))
}

//export requestVideo
func requestVideo(endpoint C.int64_t, clientID C.uint32_t, demuxID C.uint32_t) C.int64_t {
	return C.int64_t(withBridge(func(b *tring.Bridge) error {
		return b.RequestVideo(handle.Handle(endpoint), engine.ClientID(clientID), engine.DemuxID(demuxID))
	}))
}
