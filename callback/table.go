package callback

import (
	"fmt"
	"strings"

	"github.com/opd-ai/tring/codec"
)

// Table is the set of host notifications a call endpoint can emit.
// Buffers passed to entries are owned by the host once delivered.
type Table struct {
	// Status reports a call state, hangup or remote media toggle as
	// (callID, peerID, code, extra).
	Status func(callID, peerID uint64, code, extra int32)

	SignalingOffer  func(opaque codec.Buffer)
	SignalingAnswer func(opaque codec.Buffer)
	SignalingIce    func(candidate codec.Buffer)

	SendCallMessage        func(recipient, message codec.Buffer, urgency int32)
	SendCallMessageToGroup func(groupID, message codec.Buffer, urgency int32)

	GroupRequestMembershipProof func(clientID uint32)
	GroupRequestGroupMembers    func(clientID uint32)
	GroupConnectionStateChanged func(clientID uint32, state int32)
	GroupJoinStateChanged       func(clientID uint32, state int32)
	GroupEnded                  func(clientID uint32, reason int32)
	GroupRing                   func(groupID codec.Buffer, ringID int64, senderID codec.Buffer, update int32)

	// Destroy runs once, after the last owner of the table released it.
	Destroy func()
}

// Validate returns ErrIncompleteTable naming the nil entries, if any.
func (t *Table) Validate() error {
	if missing := t.missing(); len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrIncompleteTable, strings.Join(missing, ", "))
	}
	return nil
}

// missing returns the names of nil entries.
func (t *Table) missing() []string {
	var names []string
	check := func(name string, isNil bool) {
		if isNil {
			names = append(names, name)
		}
	}
	check("Status", t.Status == nil)
	check("SignalingOffer", t.SignalingOffer == nil)
	check("SignalingAnswer", t.SignalingAnswer == nil)
	check("SignalingIce", t.SignalingIce == nil)
	check("SendCallMessage", t.SendCallMessage == nil)
	check("SendCallMessageToGroup", t.SendCallMessageToGroup == nil)
	check("GroupRequestMembershipProof", t.GroupRequestMembershipProof == nil)
	check("GroupRequestGroupMembers", t.GroupRequestGroupMembers == nil)
	check("GroupConnectionStateChanged", t.GroupConnectionStateChanged == nil)
	check("GroupJoinStateChanged", t.GroupJoinStateChanged == nil)
	check("GroupEnded", t.GroupEnded == nil)
	check("GroupRing", t.GroupRing == nil)
	check("Destroy", t.Destroy == nil)
	return names
}
