package callback

import (
	"sync"

	"github.com/opd-ai/tring/codec"
)

// Call is one recorded table invocation. Buffers are recorded as copies of
// their bytes.
type Call struct {
	Entry string
	Args  []any
}

// Recorder builds a complete Table that records every invocation. It serves
// Go hosts that poll notifications instead of receiving them.
type Recorder struct {
	mu        sync.Mutex
	calls     []Call
	destroyed int
}

// NewRecorder returns an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) record(entry string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, Call{Entry: entry, Args: args})
}

func raw(b codec.Buffer) []byte {
	return append([]byte(nil), b.Bytes()...)
}

// Table returns a table whose entries record into r.
func (r *Recorder) Table() Table {
	return Table{
		Status: func(callID, peerID uint64, code, extra int32) {
			r.record("Status", callID, peerID, code, extra)
		},
		SignalingOffer:  func(b codec.Buffer) { r.record("SignalingOffer", raw(b)) },
		SignalingAnswer: func(b codec.Buffer) { r.record("SignalingAnswer", raw(b)) },
		SignalingIce:    func(b codec.Buffer) { r.record("SignalingIce", raw(b)) },
		SendCallMessage: func(recipient, message codec.Buffer, urgency int32) {
			r.record("SendCallMessage", raw(recipient), raw(message), urgency)
		},
		SendCallMessageToGroup: func(groupID, message codec.Buffer, urgency int32) {
			r.record("SendCallMessageToGroup", raw(groupID), raw(message), urgency)
		},
		GroupRequestMembershipProof: func(clientID uint32) {
			r.record("GroupRequestMembershipProof", clientID)
		},
		GroupRequestGroupMembers: func(clientID uint32) {
			r.record("GroupRequestGroupMembers", clientID)
		},
		GroupConnectionStateChanged: func(clientID uint32, state int32) {
			r.record("GroupConnectionStateChanged", clientID, state)
		},
		GroupJoinStateChanged: func(clientID uint32, state int32) {
			r.record("GroupJoinStateChanged", clientID, state)
		},
		GroupEnded: func(clientID uint32, reason int32) {
			r.record("GroupEnded", clientID, reason)
		},
		GroupRing: func(groupID codec.Buffer, ringID int64, senderID codec.Buffer, update int32) {
			r.record("GroupRing", raw(groupID), ringID, raw(senderID), update)
		},
		Destroy: func() {
			r.mu.Lock()
			defer r.mu.Unlock()
			r.destroyed++
		},
	}
}

// Calls returns a snapshot of recorded invocations.
func (r *Recorder) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Call(nil), r.calls...)
}

// CallsTo returns the recorded invocations of one entry.
func (r *Recorder) CallsTo(entry string) []Call {
	var out []Call
	for _, c := range r.Calls() {
		if c.Entry == entry {
			out = append(out, c)
		}
	}
	return out
}

// Destroyed returns how many times Destroy ran.
func (r *Recorder) Destroyed() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.destroyed
}

// Reset forgets recorded invocations.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = nil
}
