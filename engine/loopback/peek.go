package loopback

import (
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/opd-ai/tring/engine"
)

// ParticipantsPath is appended to the SFU URL of a peek request.
const ParticipantsPath = "/v2/conference/participants"

type peekRequest struct {
	members []engine.GroupMember
}

// participantsResponse is the SFU body of a participants query. Opaque user
// ids are hex encoded member ids.
type participantsResponse struct {
	Creator      string  `json:"conferenceCreator"`
	EraID        string  `json:"eraId"`
	MaxDevices   *uint32 `json:"maxDevices"`
	Participants []struct {
		OpaqueUserID string `json:"opaqueUserId"`
		DemuxID      uint32 `json:"demuxId"`
	} `json:"participants"`
	PendingClients []struct {
		OpaqueUserID string `json:"opaqueUserId"`
		DemuxID      uint32 `json:"demuxId"`
	} `json:"pendingClients"`
}

// PeekGroupCall implements engine.CallManager.
func (m *Manager) PeekGroupCall(requestID engine.RequestID, sfuURL string, membershipProof []byte, members []engine.GroupMember) error {
	var n notifications
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return engine.ErrClosed
	}
	m.peeks[requestID] = peekRequest{members: append([]engine.GroupMember(nil), members...)}
	m.mu.Unlock()

	request := engine.HTTPRequest{
		Method: engine.MethodGet,
		URL:    strings.TrimSuffix(sfuURL, "/") + ParticipantsPath,
		Headers: []engine.Header{
			{Name: "Authorization", Value: "Basic " + base64.StdEncoding.EncodeToString(membershipProof)},
		},
	}
	if m.platform.HTTP != nil {
		n.add(func() error { return m.platform.HTTP.SendHTTPRequest(requestID, request) })
	}

	logrus.WithFields(logrus.Fields{
		"function":   "PeekGroupCall",
		"request_id": requestID,
		"url":        request.URL,
		"members":    len(members),
	}).Info("Peeking group call")
	m.flush("PeekGroupCall", n)
	return nil
}

// ReceivedHTTPResponse implements engine.CallManager. A nil response means
// the request failed before any status was received. A 404 means no call is
// in progress and yields an empty peek.
func (m *Manager) ReceivedHTTPResponse(requestID engine.RequestID, response *engine.HTTPResponse) error {
	var n notifications
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return engine.ErrClosed
	}
	request, ok := m.peeks[requestID]
	if !ok {
		m.mu.Unlock()
		return fmt.Errorf("%w: %d", engine.ErrUnknownRequest, requestID)
	}
	delete(m.peeks, requestID)
	m.mu.Unlock()

	result := peekResult(requestID, request, response)
	m.mu.Lock()
	m.group(&n, result)
	m.mu.Unlock()

	logrus.WithFields(logrus.Fields{
		"function":   "ReceivedHTTPResponse",
		"request_id": requestID,
		"failed":     result.Info == nil,
		"status":     result.FailureStatus,
	}).Debug("Peek response handled")
	m.flush("ReceivedHTTPResponse", n)
	return nil
}

func peekResult(requestID engine.RequestID, request peekRequest, response *engine.HTTPResponse) engine.PeekResult {
	result := engine.PeekResult{RequestID: requestID}
	switch {
	case response == nil:
		return result
	case response.StatusCode == 404:
		result.Info = &engine.PeekInfo{}
		return result
	case response.StatusCode < 200 || response.StatusCode > 299:
		result.FailureStatus = response.StatusCode
		return result
	}

	info, err := ParseParticipants(response.Body, request.members)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"function":   "peekResult",
			"request_id": requestID,
			"error":      err.Error(),
		}).Warn("Malformed participants response")
		result.FailureStatus = response.StatusCode
		return result
	}
	result.Info = info
	return result
}

// ParseParticipants decodes a participants body, resolving opaque user ids
// to user ids through members. Unknown participants keep a nil user id.
func ParseParticipants(body []byte, members []engine.GroupMember) (*engine.PeekInfo, error) {
	var resp participantsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decode participants: %w", err)
	}

	resolve := func(opaque string) []byte {
		raw, err := hex.DecodeString(opaque)
		if err != nil || len(raw) == 0 {
			return nil
		}
		for _, member := range members {
			if string(member.MemberID) == string(raw) {
				return append([]byte(nil), member.UserID...)
			}
		}
		return nil
	}

	info := &engine.PeekInfo{
		Creator:    resolve(resp.Creator),
		EraID:      resp.EraID,
		MaxDevices: resp.MaxDevices,
	}
	for _, p := range resp.Participants {
		info.Devices = append(info.Devices, engine.PeekDeviceInfo{DemuxID: p.DemuxID, UserID: resolve(p.OpaqueUserID)})
	}
	for _, p := range resp.PendingClients {
		info.PendingDevices = append(info.PendingDevices, engine.PeekDeviceInfo{DemuxID: p.DemuxID, UserID: resolve(p.OpaqueUserID)})
	}
	return info, nil
}
