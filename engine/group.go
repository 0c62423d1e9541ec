package engine

import (
	"bytes"
	"fmt"
)

// UserIDSize and MemberIDSize are the fixed field widths of a group member.
const (
	UserIDSize   = 16
	MemberIDSize = 65
)

// GroupMember is one member of a group: its user id and its opaque
// member id (the encrypted user id used by the SFU).
type GroupMember struct {
	UserID   []byte
	MemberID []byte
}

// ConnectionState is the group call connection ordinal the host receives.
type ConnectionState int32

const (
	NotConnected ConnectionState = iota
	Connecting
	Connected
	Reconnecting
)

// JoinStateKind is the group call join ordinal the host receives.
type JoinStateKind int32

const (
	NotJoined JoinStateKind = iota
	Joining
	Pending
	Joined
)

// JoinState is a join ordinal plus the local demux id once assigned.
type JoinState struct {
	Kind    JoinStateKind
	DemuxID DemuxID
}

// Ordinal returns the value forwarded to the host.
func (j JoinState) Ordinal() int32 {
	return int32(j.Kind)
}

// GroupEndReason explains why a group call client ended.
type GroupEndReason int32

const (
	GroupEndDeviceExplicitlyDisconnected GroupEndReason = iota
	GroupEndServerExplicitlyDisconnected
	GroupEndCallManagerIsBusy
	GroupEndSfuClientFailedToJoin
	GroupEndFailedToCreatePeerConnectionFactory
	GroupEndFailedToNegotiateSrtpKeys
	GroupEndFailedToCreatePeerConnection
	GroupEndFailedToStartPeerConnection
	GroupEndFailedToUpdatePeerConnection
	GroupEndFailedToSetMaxSendBitrate
	GroupEndIceFailedWhileConnecting
	GroupEndIceFailedAfterConnected
	GroupEndServerChangedDemuxID
	GroupEndHasMaxDevices
)

// RingUpdate is the ordinal of a group ring notification.
type RingUpdate int32

const (
	RingRequested RingUpdate = iota
	RingExpiredRequest
	RingAcceptedOnAnotherDevice
	RingDeclinedOnAnotherDevice
	RingBusyLocally
	RingBusyOnAnotherDevice
	RingCancelledByRinger
)

// RemoteDeviceState is the engine's view of one remote group call device.
type RemoteDeviceState struct {
	DemuxID    DemuxID
	UserID     []byte
	AudioMuted *bool
	VideoMuted *bool
	Presenting *bool
}

// PeekDeviceInfo is one device reported by a peek.
type PeekDeviceInfo struct {
	DemuxID DemuxID
	UserID  []byte
}

// PeekInfo describes a group call as seen by the SFU.
type PeekInfo struct {
	Devices        []PeekDeviceInfo
	PendingDevices []PeekDeviceInfo
	Creator        []byte
	EraID          string
	MaxDevices     *uint32
}

// UniqueUsers returns the distinct known user ids of joined devices, in
// first-seen order.
func (p PeekInfo) UniqueUsers() [][]byte {
	users := make([][]byte, 0, len(p.Devices))
	for _, device := range p.Devices {
		if device.UserID == nil {
			continue
		}
		seen := false
		for _, u := range users {
			if bytes.Equal(u, device.UserID) {
				seen = true
				break
			}
		}
		if !seen {
			users = append(users, device.UserID)
		}
	}
	return users
}

// DeviceCountIncludingPending counts joined and pending devices.
func (p PeekInfo) DeviceCountIncludingPending() int {
	return len(p.Devices) + len(p.PendingDevices)
}

// GroupUpdateKind identifies a group update variant.
type GroupUpdateKind int

const (
	GroupRequestMembershipProof GroupUpdateKind = iota
	GroupRequestGroupMembers
	GroupConnectionStateChanged
	GroupNetworkRouteChanged
	GroupJoinStateChanged
	GroupRemoteDeviceStatesChanged
	GroupPeekChanged
	GroupPeekResult
	GroupEnded
	GroupRing
	GroupAudioLevels
	GroupLowBandwidthForVideo
)

var groupUpdateNames = map[GroupUpdateKind]string{
	GroupRequestMembershipProof:    "request_membership_proof",
	GroupRequestGroupMembers:       "request_group_members",
	GroupConnectionStateChanged:    "connection_state_changed",
	GroupNetworkRouteChanged:       "network_route_changed",
	GroupJoinStateChanged:          "join_state_changed",
	GroupRemoteDeviceStatesChanged: "remote_device_states_changed",
	GroupPeekChanged:               "peek_changed",
	GroupPeekResult:                "peek_result",
	GroupEnded:                     "ended",
	GroupRing:                      "ring",
	GroupAudioLevels:               "audio_levels",
	GroupLowBandwidthForVideo:      "low_bandwidth_for_video",
}

// String returns the update name used in logs and metric labels.
func (k GroupUpdateKind) String() string {
	if name, ok := groupUpdateNames[k]; ok {
		return name
	}
	return fmt.Sprintf("group_update(%d)", int(k))
}

// GroupUpdate is a notification emitted by a group call client or by the
// peek machinery.
type GroupUpdate interface {
	GroupUpdateKind() GroupUpdateKind
}

// RequestMembershipProof asks the host for a fresh membership proof.
type RequestMembershipProof struct {
	ClientID ClientID
}

// RequestGroupMembers asks the host for the current member list.
type RequestGroupMembers struct {
	ClientID ClientID
}

// ConnectionStateChanged reports a new connection state.
type ConnectionStateChanged struct {
	ClientID ClientID
	State    ConnectionState
}

// NetworkRouteChangedUpdate reports a route change of a group call.
type NetworkRouteChangedUpdate struct {
	ClientID ClientID
	Route    NetworkRoute
}

// JoinStateChanged reports a new join state.
type JoinStateChanged struct {
	ClientID ClientID
	State    JoinState
}

// RemoteDeviceStatesChanged reports the full list of remote devices.
type RemoteDeviceStatesChanged struct {
	ClientID ClientID
	States   []RemoteDeviceState
}

// PeekChanged reports a new peek of the call a client is connected to.
type PeekChanged struct {
	ClientID ClientID
	Info     PeekInfo
}

// PeekResult answers a standalone peek request. Info is nil when the peek
// failed; FailureStatus then holds the HTTP status.
type PeekResult struct {
	RequestID     RequestID
	Info          *PeekInfo
	FailureStatus uint16
}

// GroupCallEnded reports that a client ended.
type GroupCallEnded struct {
	ClientID ClientID
	Reason   GroupEndReason
}

// Ring reports a group ring from another user.
type Ring struct {
	GroupID  []byte
	RingID   int64
	SenderID []byte
	Update   RingUpdate
}

// GroupAudioLevelsUpdate reports captured and per-device received levels.
type GroupAudioLevelsUpdate struct {
	ClientID ClientID
	Captured AudioLevel
	Received map[DemuxID]AudioLevel
}

// GroupLowBandwidthForVideoUpdate reports a bandwidth change of a group call.
type GroupLowBandwidthForVideoUpdate struct {
	ClientID  ClientID
	Recovered bool
}

func (RequestMembershipProof) GroupUpdateKind() GroupUpdateKind          { return GroupRequestMembershipProof }
func (RequestGroupMembers) GroupUpdateKind() GroupUpdateKind             { return GroupRequestGroupMembers }
func (ConnectionStateChanged) GroupUpdateKind() GroupUpdateKind          { return GroupConnectionStateChanged }
func (NetworkRouteChangedUpdate) GroupUpdateKind() GroupUpdateKind       { return GroupNetworkRouteChanged }
func (JoinStateChanged) GroupUpdateKind() GroupUpdateKind                { return GroupJoinStateChanged }
func (RemoteDeviceStatesChanged) GroupUpdateKind() GroupUpdateKind       { return GroupRemoteDeviceStatesChanged }
func (PeekChanged) GroupUpdateKind() GroupUpdateKind                     { return GroupPeekChanged }
func (PeekResult) GroupUpdateKind() GroupUpdateKind                      { return GroupPeekResult }
func (GroupCallEnded) GroupUpdateKind() GroupUpdateKind                  { return GroupEnded }
func (Ring) GroupUpdateKind() GroupUpdateKind                            { return GroupRing }
func (GroupAudioLevelsUpdate) GroupUpdateKind() GroupUpdateKind          { return GroupAudioLevels }
func (GroupLowBandwidthForVideoUpdate) GroupUpdateKind() GroupUpdateKind { return GroupLowBandwidthForVideo }
