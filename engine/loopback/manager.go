// Package loopback provides an in-process engine.CallManager.
//
// The loopback engine performs no networking. It walks calls and group call
// clients through the state sequences a native engine would report, so that
// the bridge, its reporter and the host callbacks can be exercised end to
// end. Signaling blobs it produces are placeholders.
package loopback

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/opd-ai/tring/engine"
)

// OfferExpiry is the age after which a received offer is treated as stale
// and the call ends immediately with a timeout.
const OfferExpiry = 120 * time.Second

type direction int

const (
	outgoing direction = iota
	incoming
)

type call struct {
	id        engine.CallID
	remote    engine.PeerID
	direction direction
	mediaType engine.CallMediaType
	state     engine.CallStateKind
	proceeded bool
	ctx       engine.CallContext
	config    engine.CallConfig
	sender    engine.SenderStatus

	// Signaling waiting for MessageSent when messages are not assumed sent.
	queue        []engine.SignalingMessage
	awaitingSent bool

	iceReceived int
}

// Manager implements engine.CallManager.
//
// Handlers are never invoked while the manager lock is held, so a host may
// call back into the manager from inside a notification.
type Manager struct {
	mu       sync.Mutex
	platform engine.Platform
	selfUUID []byte
	calls    map[engine.CallID]*call
	active   engine.CallID

	clients    map[engine.ClientID]*client
	nextClient engine.ClientID
	nextDemux  engine.DemuxID
	peeks      map[engine.RequestID]peekRequest

	reported bool
	closed   bool
}

var _ engine.CallManager = (*Manager)(nil)

// New creates a loopback manager reporting through platform.
//
// Parameters:
//   - platform: the handlers every notification is delivered to
//
// Returns:
//   - engine.CallManager: the manager
//   - error: always nil; the signature matches engine.Factory
func New(platform engine.Platform) (engine.CallManager, error) {
	logrus.WithFields(logrus.Fields{
		"function":             "loopback.New",
		"assume_messages_sent": platform.AssumeMessagesSent,
	}).Info("Creating loopback call manager")

	return &Manager{
		platform:   platform,
		calls:      make(map[engine.CallID]*call),
		clients:    make(map[engine.ClientID]*client),
		nextClient: 1,
		nextDemux:  16,
		peeks:      make(map[engine.RequestID]peekRequest),
	}, nil
}

// notifications collects handler invocations made after the lock is released.
type notifications []func() error

func (n *notifications) add(fn func() error) {
	*n = append(*n, fn)
}

func (m *Manager) flush(function string, n notifications) {
	for _, fn := range n {
		if err := fn(); err != nil {
			logrus.WithFields(logrus.Fields{
				"function": function,
				"error":    err.Error(),
			}).Warn("Platform rejected notification")
		}
	}
}

func (m *Manager) state(n *notifications, c *call, s engine.CallState) {
	c.state = s.Kind
	remote, id := c.remote, c.id
	if m.platform.State == nil {
		return
	}
	n.add(func() error { return m.platform.State.HandleCallState(remote, id, s) })
}

// signal sends msg now or queues it until the previous message is confirmed.
func (m *Manager) signal(n *notifications, c *call, msg engine.SignalingMessage) {
	if !m.platform.AssumeMessagesSent && c.awaitingSent {
		c.queue = append(c.queue, msg)
		return
	}
	c.awaitingSent = !m.platform.AssumeMessagesSent
	m.deliver(n, c, msg)
}

func (m *Manager) deliver(n *notifications, c *call, msg engine.SignalingMessage) {
	if m.platform.Signaling == nil {
		return
	}
	remote, id := c.remote, c.id
	n.add(func() error { return m.platform.Signaling.SendSignaling(remote, id, nil, msg) })
}

// report fires the platform reporter the first time anything is created.
func (m *Manager) report(n *notifications) {
	if m.reported || m.platform.Reporter == nil {
		return
	}
	m.reported = true
	n.add(func() error {
		m.platform.Reporter.Report()
		return nil
	})
}

func (m *Manager) lookup(callID engine.CallID) (*call, error) {
	if m.closed {
		return nil, engine.ErrClosed
	}
	c, ok := m.calls[callID]
	if !ok {
		return nil, fmt.Errorf("%w: %d", engine.ErrUnknownCall, callID)
	}
	return c, nil
}

func (m *Manager) conclude(n *notifications, c *call, reason *engine.CallEndReason) {
	if reason != nil {
		m.state(n, c, engine.Ended(*reason))
	}
	m.state(n, c, engine.State(engine.CallStateConcluded))
	closeConnection(c)
	delete(m.calls, c.id)
	if m.active == c.id {
		m.active = 0
	}
}

// SetSelfUUID implements engine.CallManager.
func (m *Manager) SetSelfUUID(id []byte) error {
	parsed, err := uuid.FromBytes(id)
	if err != nil {
		return fmt.Errorf("self uuid: %w", err)
	}
	m.mu.Lock()
	m.selfUUID = append([]byte(nil), id...)
	m.mu.Unlock()

	logrus.WithFields(logrus.Fields{
		"function": "SetSelfUUID",
		"uuid":     parsed.String(),
	}).Info("Self UUID set")
	return nil
}

// CreateOutgoingCall implements engine.CallManager.
func (m *Manager) CreateOutgoingCall(remote engine.PeerID, callID engine.CallID, mediaType engine.CallMediaType, localDeviceID engine.DeviceID) error {
	var n notifications
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return engine.ErrClosed
	}
	if _, ok := m.calls[callID]; ok {
		m.mu.Unlock()
		return fmt.Errorf("%w: %d", engine.ErrCallExists, callID)
	}
	c := &call{id: callID, remote: remote, direction: outgoing, mediaType: mediaType}
	m.calls[callID] = c
	m.report(&n)
	m.state(&n, c, engine.Outgoing(mediaType))
	m.mu.Unlock()

	logrus.WithFields(logrus.Fields{
		"function":     "CreateOutgoingCall",
		"call_id":      callID,
		"media_type":   mediaType.String(),
		"local_device": localDeviceID,
	}).Info("Outgoing call created")
	m.flush("CreateOutgoingCall", n)
	return nil
}

// ReceivedOffer implements engine.CallManager.
func (m *Manager) ReceivedOffer(remote engine.PeerID, callID engine.CallID, offer engine.ReceivedOffer) error {
	var n notifications
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return engine.ErrClosed
	}
	if _, ok := m.calls[callID]; ok {
		m.mu.Unlock()
		return fmt.Errorf("%w: %d", engine.ErrCallExists, callID)
	}
	c := &call{id: callID, remote: remote, direction: incoming, mediaType: offer.Offer.CallMediaType}
	m.calls[callID] = c
	m.report(&n)
	m.state(&n, c, engine.Incoming(c.mediaType))
	expired := time.Duration(offer.AgeSeconds)*time.Second > OfferExpiry
	if expired {
		reason := engine.EndReasonTimeout
		m.conclude(&n, c, &reason)
	}
	m.mu.Unlock()

	logrus.WithFields(logrus.Fields{
		"function":      "ReceivedOffer",
		"call_id":       callID,
		"media_type":    c.mediaType.String(),
		"sender_device": offer.SenderDeviceID,
		"age_seconds":   offer.AgeSeconds,
		"expired":       expired,
	}).Info("Offer received")
	m.flush("ReceivedOffer", n)
	return nil
}

// Proceed implements engine.CallManager.
func (m *Manager) Proceed(callID engine.CallID, ctx engine.CallContext, config engine.CallConfig) error {
	var n notifications
	m.mu.Lock()
	c, err := m.lookup(callID)
	if err != nil {
		m.mu.Unlock()
		return err
	}
	if c.proceeded {
		m.mu.Unlock()
		return fmt.Errorf("%w: call %d already proceeded", engine.ErrInvalidState, callID)
	}
	c.proceeded = true
	c.ctx = ctx
	c.config = config

	candidate := engine.Ice{Candidates: []engine.IceCandidate{
		{Opaque: []byte(fmt.Sprintf("candidate:%d:host", callID))},
	}}
	switch c.direction {
	case outgoing:
		m.signal(&n, c, engine.Offer{
			CallMediaType: c.mediaType,
			Opaque:        []byte(fmt.Sprintf("offer:%d", callID)),
		})
		m.signal(&n, c, candidate)
	case incoming:
		m.signal(&n, c, engine.Answer{Opaque: []byte(fmt.Sprintf("answer:%d", callID))})
		m.signal(&n, c, candidate)
		m.state(&n, c, engine.State(engine.CallStateRinging))
	}
	m.mu.Unlock()

	logrus.WithFields(logrus.Fields{
		"function":    "Proceed",
		"call_id":     callID,
		"ice_servers": len(ctx.ICEServers),
		"senders":     senders(ctx),
		"hide_ip":     ctx.HideIP,
		"data_mode":   config.DataMode,
	}).Info("Call proceeding")
	m.flush("Proceed", n)
	return nil
}

func senders(ctx engine.CallContext) int {
	if ctx.PeerConnection == nil {
		return 0
	}
	return len(ctx.PeerConnection.GetSenders())
}

// ReceivedAnswer implements engine.CallManager.
func (m *Manager) ReceivedAnswer(callID engine.CallID, answer engine.ReceivedAnswer) error {
	var n notifications
	m.mu.Lock()
	c, err := m.lookup(callID)
	if err != nil {
		m.mu.Unlock()
		return err
	}
	if c.direction != outgoing || !c.proceeded {
		m.mu.Unlock()
		return fmt.Errorf("%w: answer for call %d", engine.ErrInvalidState, callID)
	}
	m.state(&n, c, engine.State(engine.CallStateConnecting))
	m.state(&n, c, engine.State(engine.CallStateRinging))
	m.mu.Unlock()

	logrus.WithFields(logrus.Fields{
		"function":      "ReceivedAnswer",
		"call_id":       callID,
		"sender_device": answer.SenderDeviceID,
	}).Debug("Answer received")
	m.flush("ReceivedAnswer", n)
	return nil
}

// ReceivedIce implements engine.CallManager.
func (m *Manager) ReceivedIce(callID engine.CallID, ice engine.ReceivedIce) error {
	m.mu.Lock()
	c, err := m.lookup(callID)
	if err != nil {
		m.mu.Unlock()
		return err
	}
	c.iceReceived += len(ice.Ice.Candidates)
	total := c.iceReceived
	m.mu.Unlock()

	logrus.WithFields(logrus.Fields{
		"function":   "ReceivedIce",
		"call_id":    callID,
		"candidates": len(ice.Ice.Candidates),
		"total":      total,
	}).Debug("ICE candidates received")
	return nil
}

// AcceptCall implements engine.CallManager.
func (m *Manager) AcceptCall(callID engine.CallID) error {
	var n notifications
	m.mu.Lock()
	c, err := m.lookup(callID)
	if err != nil {
		m.mu.Unlock()
		return err
	}
	if c.direction != incoming || c.state != engine.CallStateRinging {
		m.mu.Unlock()
		return fmt.Errorf("%w: accept call %d in state %s", engine.ErrInvalidState, callID, c.state)
	}
	m.active = callID
	m.state(&n, c, engine.State(engine.CallStateConnected))
	if c.mediaType == engine.MediaTypeVideo && m.platform.State != nil {
		remote := c.remote
		n.add(func() error { return m.platform.State.HandleRemoteVideoState(remote, true) })
	}
	m.mu.Unlock()

	logrus.WithFields(logrus.Fields{
		"function": "AcceptCall",
		"call_id":  callID,
	}).Info("Call accepted")
	m.flush("AcceptCall", n)
	return nil
}

// DropCall implements engine.CallManager.
func (m *Manager) DropCall(callID engine.CallID) error {
	var n notifications
	m.mu.Lock()
	c, err := m.lookup(callID)
	if err != nil {
		m.mu.Unlock()
		return err
	}
	m.conclude(&n, c, nil)
	m.mu.Unlock()

	logrus.WithFields(logrus.Fields{
		"function": "DropCall",
		"call_id":  callID,
	}).Info("Call dropped")
	m.flush("DropCall", n)
	return nil
}

// Hangup implements engine.CallManager. It ends the active call, or the
// newest call still in progress when none is connected. Hanging up with no
// call is a no-op.
func (m *Manager) Hangup() error {
	var n notifications
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return engine.ErrClosed
	}
	c := m.calls[m.active]
	if c == nil {
		for _, candidate := range m.calls {
			if c == nil || candidate.id > c.id {
				c = candidate
			}
		}
	}
	if c == nil {
		m.mu.Unlock()
		logrus.WithFields(logrus.Fields{
			"function": "Hangup",
		}).Debug("No call to hang up")
		return nil
	}
	id := c.id
	m.deliver(&n, c, engine.Hangup{Type: engine.HangupNormal})
	reason := engine.EndReasonLocalHangup
	m.conclude(&n, c, &reason)
	m.mu.Unlock()

	logrus.WithFields(logrus.Fields{
		"function": "Hangup",
		"call_id":  id,
	}).Info("Call hung up")
	m.flush("Hangup", n)
	return nil
}

// MessageSent implements engine.CallManager. It releases the next queued
// signaling message of the call.
func (m *Manager) MessageSent(callID engine.CallID) error {
	var n notifications
	m.mu.Lock()
	c, err := m.lookup(callID)
	if err != nil {
		m.mu.Unlock()
		return err
	}
	if len(c.queue) == 0 {
		c.awaitingSent = false
	} else {
		msg := c.queue[0]
		c.queue = c.queue[1:]
		m.deliver(&n, c, msg)
	}
	pending := len(c.queue)
	m.mu.Unlock()

	logrus.WithFields(logrus.Fields{
		"function": "MessageSent",
		"call_id":  callID,
		"pending":  pending,
	}).Debug("Signaling message confirmed")
	m.flush("MessageSent", n)
	return nil
}

type connection struct {
	m  *Manager
	id engine.CallID
}

// UpdateSenderStatus records the status; the loopback has no remote side to
// deliver it to.
func (c connection) UpdateSenderStatus(status engine.SenderStatus) error {
	c.m.mu.Lock()
	defer c.m.mu.Unlock()
	active, ok := c.m.calls[c.id]
	if !ok {
		return fmt.Errorf("%w: %d", engine.ErrUnknownCall, c.id)
	}
	if status.VideoEnabled != nil {
		v := *status.VideoEnabled
		active.sender.VideoEnabled = &v
	}
	if status.SharingScreen != nil {
		v := *status.SharingScreen
		active.sender.SharingScreen = &v
	}
	return nil
}

// ActiveConnection implements engine.CallManager.
func (m *Manager) ActiveConnection() (engine.Connection, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil, engine.ErrClosed
	}
	c, ok := m.calls[m.active]
	if !ok || c.state != engine.CallStateConnected {
		return nil, engine.ErrNoActiveConnection
	}
	return connection{m: m, id: c.id}, nil
}

// SenderStatus returns the last status pushed through the connection of a
// call.
func (m *Manager) SenderStatus(callID engine.CallID) (engine.SenderStatus, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, err := m.lookup(callID)
	if err != nil {
		return engine.SenderStatus{}, err
	}
	return c.sender, nil
}

// Close implements engine.CallManager. Calls and clients are discarded
// without notifications.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil
	}
	m.closed = true
	logrus.WithFields(logrus.Fields{
		"function": "Close",
		"calls":    len(m.calls),
		"clients":  len(m.clients),
	}).Info("Loopback call manager closed")
	for _, c := range m.calls {
		closeConnection(c)
	}
	m.calls = make(map[engine.CallID]*call)
	m.clients = make(map[engine.ClientID]*client)
	m.peeks = make(map[engine.RequestID]peekRequest)
	return nil
}

func closeConnection(c *call) {
	pc := c.ctx.PeerConnection
	if pc == nil {
		return
	}
	c.ctx.PeerConnection = nil
	if err := pc.Close(); err != nil {
		logrus.WithFields(logrus.Fields{
			"function": "closeConnection",
			"call_id":  c.id,
			"error":    err.Error(),
		}).Warn("Failed to close peer connection")
	}
}
