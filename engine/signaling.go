package engine

import "fmt"

// SignalingKind identifies a signaling message variant.
type SignalingKind int

const (
	SignalingOffer SignalingKind = iota
	SignalingAnswer
	SignalingIce
	SignalingHangup
	SignalingBusy
)

// String returns the message kind name.
func (k SignalingKind) String() string {
	switch k {
	case SignalingOffer:
		return "offer"
	case SignalingAnswer:
		return "answer"
	case SignalingIce:
		return "ice"
	case SignalingHangup:
		return "hangup"
	case SignalingBusy:
		return "busy"
	default:
		return fmt.Sprintf("signaling(%d)", int(k))
	}
}

// SignalingMessage is an outgoing 1:1 signaling message. The concrete types
// are Offer, Answer, Ice, Hangup and Busy.
type SignalingMessage interface {
	SignalingKind() SignalingKind
}

// Offer carries an opaque offer blob.
type Offer struct {
	CallMediaType CallMediaType
	Opaque        []byte
}

// Answer carries an opaque answer blob.
type Answer struct {
	Opaque []byte
}

// IceCandidate is one opaque ICE candidate blob.
type IceCandidate struct {
	Opaque []byte
}

// Ice carries a batch of candidates.
type Ice struct {
	Candidates []IceCandidate
}

// Busy tells the remote side the local user is on another call.
type Busy struct{}

// HangupType classifies a hangup.
type HangupType int32

const (
	HangupNormal                  HangupType = 0
	HangupAcceptedOnAnotherDevice HangupType = 1
	HangupDeclinedOnAnotherDevice HangupType = 2
	HangupBusyOnAnotherDevice     HangupType = 3
	HangupNeedPermission          HangupType = 4
)

// Hangup ends a call. DeviceID names the device that accepted, declined or
// was busy; it is nil for normal hangups.
type Hangup struct {
	Type     HangupType
	DeviceID *DeviceID
}

// TypeAndDeviceID returns the wire pair, with device id 0 when absent.
func (h Hangup) TypeAndDeviceID() (HangupType, DeviceID) {
	if h.DeviceID == nil {
		return h.Type, 0
	}
	return h.Type, *h.DeviceID
}

func (Offer) SignalingKind() SignalingKind  { return SignalingOffer }
func (Answer) SignalingKind() SignalingKind { return SignalingAnswer }
func (Ice) SignalingKind() SignalingKind    { return SignalingIce }
func (Hangup) SignalingKind() SignalingKind { return SignalingHangup }
func (Busy) SignalingKind() SignalingKind   { return SignalingBusy }

// ReceivedOffer is an offer delivered by the host.
type ReceivedOffer struct {
	Offer               Offer
	AgeSeconds          uint64
	SenderDeviceID      DeviceID
	ReceiverDeviceID    DeviceID
	SenderIdentityKey   []byte
	ReceiverIdentityKey []byte
}

// ReceivedAnswer is an answer delivered by the host.
type ReceivedAnswer struct {
	Answer              Answer
	SenderDeviceID      DeviceID
	SenderIdentityKey   []byte
	ReceiverIdentityKey []byte
}

// ReceivedIce is a candidate batch delivered by the host.
type ReceivedIce struct {
	Ice            Ice
	SenderDeviceID DeviceID
}

// ReceivedCallMessage is an opaque call message delivered by the host.
type ReceivedCallMessage struct {
	SenderUUID     []byte
	SenderDeviceID DeviceID
	LocalDeviceID  DeviceID
	Message        []byte
	AgeSeconds     uint64
}
