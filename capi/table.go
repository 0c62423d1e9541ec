package main

/*
#include "tring.h"
*/
import "C"

import (
	"unsafe"

	"github.com/opd-ai/tring/callback"
	"github.com/opd-ai/tring/codec"
)

// appTable copies the host's function table into C memory and wraps each
// entry. A NULL entry leaves the matching Table field nil so that
// callback.New rejects the table.
type appTable struct {
	app    *C.AppInterface
	status C.tring_status_cb
}

func newAppTable(app *C.AppInterface, status C.tring_status_cb) *appTable {
	p := (*C.AppInterface)(C.malloc(C.sizeof_AppInterface))
	*p = *app
	return &appTable{app: p, status: status}
}

func (a *appTable) free() {
	C.free(unsafe.Pointer(a.app))
}

func (a *appTable) table() callback.Table {
	app := a.app
	var t callback.Table

	if a.status != nil {
		t.Status = func(callID, peerID uint64, code, extra int32) {
			C.call_status(a.status, C.uint64_t(callID), C.uint64_t(peerID), C.int32_t(code), C.int32_t(extra))
		}
	}
	if app.signalingMessageOffer != nil {
		t.SignalingOffer = func(opaque codec.Buffer) {
			C.call_signaling(app.signalingMessageOffer, newJArrayByte(opaque.Bytes()))
		}
	}
	if app.signalingMessageAnswer != nil {
		t.SignalingAnswer = func(opaque codec.Buffer) {
			C.call_signaling(app.signalingMessageAnswer, newJArrayByte(opaque.Bytes()))
		}
	}
	if app.signalingMessageIce != nil {
		t.SignalingIce = func(candidate codec.Buffer) {
			C.call_signaling(app.signalingMessageIce, newJArrayByte(candidate.Bytes()))
		}
	}
	if app.sendCallMessage != nil {
		t.SendCallMessage = func(recipient, message codec.Buffer, urgency int32) {
			C.call_message(app.sendCallMessage, newJArrayByte(recipient.Bytes()),
				newJArrayByte(message.Bytes()), C.int32_t(urgency))
		}
	}
	if app.sendCallMessageToGroup != nil {
		t.SendCallMessageToGroup = func(groupID, message codec.Buffer, urgency int32) {
			C.call_message(app.sendCallMessageToGroup, newJArrayByte(groupID.Bytes()),
				newJArrayByte(message.Bytes()), C.int32_t(urgency))
		}
	}
	if app.groupRequestMembershipProof != nil {
		t.GroupRequestMembershipProof = func(clientID uint32) {
			C.call_group_request(app.groupRequestMembershipProof, C.uint32_t(clientID))
		}
	}
	if app.groupRequestGroupMembers != nil {
		t.GroupRequestGroupMembers = func(clientID uint32) {
			C.call_group_request(app.groupRequestGroupMembers, C.uint32_t(clientID))
		}
	}
	if app.groupConnectionStateChanged != nil {
		t.GroupConnectionStateChanged = func(clientID uint32, state int32) {
			C.call_group_state(app.groupConnectionStateChanged, C.uint32_t(clientID), C.int32_t(state))
		}
	}
	if app.groupJoinStateChanged != nil {
		t.GroupJoinStateChanged = func(clientID uint32, state int32) {
			C.call_group_state(app.groupJoinStateChanged, C.uint32_t(clientID), C.int32_t(state))
		}
	}
	if app.groupEnded != nil {
		t.GroupEnded = func(clientID uint32, reason int32) {
			C.call_group_state(app.groupEnded, C.uint32_t(clientID), C.int32_t(reason))
		}
	}
	if app.groupRing != nil {
		t.GroupRing = func(groupID codec.Buffer, ringID int64, senderID codec.Buffer, update int32) {
			C.call_group_ring(app, newJArrayByte(groupID.Bytes()), C.int64_t(ringID),
				newJArrayByte(senderID.Bytes()), C.int32_t(update))
		}
	}
	if app.destroy != nil {
		t.Destroy = func() {
			C.call_destroy(app)
			a.free()
		}
	}
	return t
}
