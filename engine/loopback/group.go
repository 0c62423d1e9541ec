package loopback

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/opd-ai/tring/engine"
)

type client struct {
	id         engine.ClientID
	params     engine.GroupCallClientParams
	connection engine.ConnectionState
	join       engine.JoinState
	eraID      string

	proof   []byte
	members []engine.GroupMember
	remotes map[string]engine.DemuxID

	dataMode            engine.DataMode
	videoRequests       []engine.VideoRequest
	activeSpeakerHeight uint16
	audioMuted          bool
	videoMuted          bool
}

// ringMessage is the call message a ring travels in between devices.
type ringMessage struct {
	GroupID []byte `json:"groupId"`
	RingID  int64  `json:"ringId"`
}

func (m *Manager) client(clientID engine.ClientID) (*client, error) {
	if m.closed {
		return nil, engine.ErrClosed
	}
	c, ok := m.clients[clientID]
	if !ok {
		return nil, fmt.Errorf("%w: %d", engine.ErrUnknownClient, clientID)
	}
	return c, nil
}

func (m *Manager) group(n *notifications, update engine.GroupUpdate) {
	if m.platform.Group == nil {
		return
	}
	n.add(func() error { return m.platform.Group.HandleGroupUpdate(update) })
}

// remoteStates lists every member other than the local user, giving each a
// stable demux id.
func (m *Manager) remoteStates(c *client) []engine.RemoteDeviceState {
	states := make([]engine.RemoteDeviceState, 0, len(c.members))
	for _, member := range c.members {
		if bytes.Equal(member.UserID, m.selfUUID) {
			continue
		}
		key := string(member.UserID)
		demux, ok := c.remotes[key]
		if !ok {
			demux = m.allocateDemux()
			c.remotes[key] = demux
		}
		states = append(states, engine.RemoteDeviceState{
			DemuxID: demux,
			UserID:  append([]byte(nil), member.UserID...),
		})
	}
	return states
}

func (m *Manager) allocateDemux() engine.DemuxID {
	demux := m.nextDemux
	m.nextDemux += 16
	return demux
}

func (m *Manager) peekInfo(c *client) engine.PeekInfo {
	info := engine.PeekInfo{
		Devices: []engine.PeekDeviceInfo{{
			DemuxID: c.join.DemuxID,
			UserID:  append([]byte(nil), m.selfUUID...),
		}},
		Creator: append([]byte(nil), m.selfUUID...),
		EraID:   c.eraID,
	}
	for _, remote := range m.remoteStates(c) {
		info.Devices = append(info.Devices, engine.PeekDeviceInfo{DemuxID: remote.DemuxID, UserID: remote.UserID})
	}
	return info
}

// CreateGroupCallClient implements engine.CallManager.
func (m *Manager) CreateGroupCallClient(params engine.GroupCallClientParams) (engine.ClientID, error) {
	var n notifications
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return 0, engine.ErrClosed
	}
	id := m.nextClient
	m.nextClient++
	m.clients[id] = &client{
		id:      id,
		params:  params,
		remotes: make(map[string]engine.DemuxID),
	}
	m.report(&n)
	m.mu.Unlock()

	logrus.WithFields(logrus.Fields{
		"function":  "CreateGroupCallClient",
		"client_id": id,
		"sfu_url":   params.SFUURL,
	}).Info("Group call client created")
	m.flush("CreateGroupCallClient", n)
	return id, nil
}

// DeleteGroupCallClient implements engine.CallManager.
func (m *Manager) DeleteGroupCallClient(clientID engine.ClientID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, err := m.client(clientID); err != nil {
		return err
	}
	delete(m.clients, clientID)
	logrus.WithFields(logrus.Fields{
		"function":  "DeleteGroupCallClient",
		"client_id": clientID,
	}).Info("Group call client deleted")
	return nil
}

// Connect implements engine.CallManager.
func (m *Manager) Connect(clientID engine.ClientID) error {
	var n notifications
	m.mu.Lock()
	c, err := m.client(clientID)
	if err != nil {
		m.mu.Unlock()
		return err
	}
	if c.connection != engine.NotConnected {
		m.mu.Unlock()
		return nil
	}
	c.connection = engine.Connecting
	m.group(&n, engine.ConnectionStateChanged{ClientID: clientID, State: engine.Connecting})
	if c.proof == nil {
		m.group(&n, engine.RequestMembershipProof{ClientID: clientID})
	}
	c.connection = engine.Connected
	m.group(&n, engine.ConnectionStateChanged{ClientID: clientID, State: engine.Connected})
	m.mu.Unlock()

	logrus.WithFields(logrus.Fields{
		"function":  "Connect",
		"client_id": clientID,
	}).Info("Group call client connected")
	m.flush("Connect", n)
	return nil
}

// Join implements engine.CallManager. The client must be connected.
func (m *Manager) Join(clientID engine.ClientID) error {
	var n notifications
	m.mu.Lock()
	c, err := m.client(clientID)
	if err != nil {
		m.mu.Unlock()
		return err
	}
	if c.connection != engine.Connected {
		m.mu.Unlock()
		return fmt.Errorf("%w: join client %d before connect", engine.ErrInvalidState, clientID)
	}
	if c.join.Kind != engine.NotJoined {
		m.mu.Unlock()
		return nil
	}
	c.join = engine.JoinState{Kind: engine.Joining}
	m.group(&n, engine.JoinStateChanged{ClientID: clientID, State: c.join})
	c.join = engine.JoinState{Kind: engine.Joined, DemuxID: m.allocateDemux()}
	c.eraID = uuid.NewString()
	m.group(&n, engine.JoinStateChanged{ClientID: clientID, State: c.join})
	if c.members == nil {
		m.group(&n, engine.RequestGroupMembers{ClientID: clientID})
	}
	m.group(&n, engine.PeekChanged{ClientID: clientID, Info: m.peekInfo(c)})
	demux := c.join.DemuxID
	m.mu.Unlock()

	logrus.WithFields(logrus.Fields{
		"function":  "Join",
		"client_id": clientID,
		"demux_id":  demux,
	}).Info("Group call joined")
	m.flush("Join", n)
	return nil
}

// Disconnect implements engine.CallManager. The client reports its end and
// stays registered until deleted.
func (m *Manager) Disconnect(clientID engine.ClientID) error {
	var n notifications
	m.mu.Lock()
	c, err := m.client(clientID)
	if err != nil {
		m.mu.Unlock()
		return err
	}
	if c.connection == engine.NotConnected {
		m.mu.Unlock()
		return nil
	}
	if c.join.Kind != engine.NotJoined {
		c.join = engine.JoinState{Kind: engine.NotJoined}
		m.group(&n, engine.JoinStateChanged{ClientID: clientID, State: c.join})
	}
	c.connection = engine.NotConnected
	m.group(&n, engine.ConnectionStateChanged{ClientID: clientID, State: engine.NotConnected})
	m.group(&n, engine.GroupCallEnded{ClientID: clientID, Reason: engine.GroupEndDeviceExplicitlyDisconnected})
	m.mu.Unlock()

	logrus.WithFields(logrus.Fields{
		"function":  "Disconnect",
		"client_id": clientID,
	}).Info("Group call client disconnected")
	m.flush("Disconnect", n)
	return nil
}

// GroupRing implements engine.CallManager. A nil recipient rings the whole
// group.
func (m *Manager) GroupRing(clientID engine.ClientID, recipient []byte) error {
	var n notifications
	m.mu.Lock()
	c, err := m.client(clientID)
	if err != nil {
		m.mu.Unlock()
		return err
	}
	id := uuid.New()
	msg := ringMessage{
		GroupID: append([]byte(nil), c.params.GroupID...),
		RingID:  int64(binary.BigEndian.Uint64(id[:8])),
	}
	m.mu.Unlock()

	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encode ring: %w", err)
	}
	var override [][]byte
	if recipient != nil {
		override = [][]byte{append([]byte(nil), recipient...)}
	}
	if m.platform.Signaling != nil {
		n.add(func() error {
			return m.platform.Signaling.SendCallMessageToGroup(msg.GroupID, payload, engine.UrgencyHandleImmediately, override)
		})
	}

	logrus.WithFields(logrus.Fields{
		"function":  "GroupRing",
		"client_id": clientID,
		"ring_id":   msg.RingID,
	}).Info("Ringing group")
	m.flush("GroupRing", n)
	return nil
}

// ReceivedCallMessage implements engine.CallManager. Ring messages become
// Ring group updates; other messages are logged and discarded.
func (m *Manager) ReceivedCallMessage(message engine.ReceivedCallMessage) error {
	sender, err := uuid.FromBytes(message.SenderUUID)
	if err != nil {
		return fmt.Errorf("sender uuid: %w", err)
	}

	var msg ringMessage
	if err := json.Unmarshal(message.Message, &msg); err != nil || msg.GroupID == nil {
		logrus.WithFields(logrus.Fields{
			"function": "ReceivedCallMessage",
			"sender":   sender.String(),
			"size":     len(message.Message),
		}).Debug("Ignoring non-ring call message")
		return nil
	}

	update := engine.RingRequested
	if message.AgeSeconds > uint64(OfferExpiry.Seconds()) {
		update = engine.RingExpiredRequest
	}
	var n notifications
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return engine.ErrClosed
	}
	m.group(&n, engine.Ring{
		GroupID:  msg.GroupID,
		RingID:   msg.RingID,
		SenderID: append([]byte(nil), message.SenderUUID...),
		Update:   update,
	})
	m.mu.Unlock()

	logrus.WithFields(logrus.Fields{
		"function": "ReceivedCallMessage",
		"sender":   sender.String(),
		"ring_id":  msg.RingID,
	}).Info("Ring received")
	m.flush("ReceivedCallMessage", n)
	return nil
}

// SetOutgoingAudioMuted implements engine.CallManager.
func (m *Manager) SetOutgoingAudioMuted(clientID engine.ClientID, muted bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, err := m.client(clientID)
	if err != nil {
		return err
	}
	c.audioMuted = muted
	return nil
}

// SetOutgoingVideoMuted implements engine.CallManager.
func (m *Manager) SetOutgoingVideoMuted(clientID engine.ClientID, muted bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, err := m.client(clientID)
	if err != nil {
		return err
	}
	c.videoMuted = muted
	return nil
}

// SetMembershipProof implements engine.CallManager.
func (m *Manager) SetMembershipProof(clientID engine.ClientID, proof []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, err := m.client(clientID)
	if err != nil {
		return err
	}
	c.proof = append([]byte{}, proof...)
	return nil
}

// SetGroupMembers implements engine.CallManager. A joined client reports the
// resulting remote device list.
func (m *Manager) SetGroupMembers(clientID engine.ClientID, members []engine.GroupMember) error {
	var n notifications
	m.mu.Lock()
	c, err := m.client(clientID)
	if err != nil {
		m.mu.Unlock()
		return err
	}
	c.members = append([]engine.GroupMember{}, members...)
	if c.join.Kind == engine.Joined {
		m.group(&n, engine.RemoteDeviceStatesChanged{ClientID: clientID, States: m.remoteStates(c)})
	}
	m.mu.Unlock()

	logrus.WithFields(logrus.Fields{
		"function":  "SetGroupMembers",
		"client_id": clientID,
		"members":   len(members),
	}).Debug("Group members updated")
	m.flush("SetGroupMembers", n)
	return nil
}

// SetDataMode implements engine.CallManager.
func (m *Manager) SetDataMode(clientID engine.ClientID, mode engine.DataMode) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, err := m.client(clientID)
	if err != nil {
		return err
	}
	c.dataMode = mode
	return nil
}

// RequestVideo implements engine.CallManager.
func (m *Manager) RequestVideo(clientID engine.ClientID, requests []engine.VideoRequest, activeSpeakerHeight uint16) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, err := m.client(clientID)
	if err != nil {
		return err
	}
	c.videoRequests = append([]engine.VideoRequest(nil), requests...)
	c.activeSpeakerHeight = activeSpeakerHeight
	return nil
}

// ClientSnapshot is a read-only view of a group call client.
type ClientSnapshot struct {
	Connection          engine.ConnectionState
	Join                engine.JoinState
	HasProof            bool
	Members             int
	DataMode            engine.DataMode
	VideoRequests       []engine.VideoRequest
	ActiveSpeakerHeight uint16
	AudioMuted          bool
	VideoMuted          bool
}

// Client returns a snapshot of a group call client.
func (m *Manager) Client(clientID engine.ClientID) (ClientSnapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, err := m.client(clientID)
	if err != nil {
		return ClientSnapshot{}, err
	}
	return ClientSnapshot{
		Connection:          c.connection,
		Join:                c.join,
		HasProof:            c.proof != nil,
		Members:             len(c.members),
		DataMode:            c.dataMode,
		VideoRequests:       append([]engine.VideoRequest(nil), c.videoRequests...),
		ActiveSpeakerHeight: c.activeSpeakerHeight,
		AudioMuted:          c.audioMuted,
		VideoMuted:          c.videoMuted,
	}, nil
}
