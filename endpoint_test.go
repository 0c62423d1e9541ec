package tring

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opd-ai/tring/callback"
	"github.com/opd-ai/tring/codec"
	"github.com/opd-ai/tring/engine"
	"github.com/opd-ai/tring/engine/loopback"
	"github.com/opd-ai/tring/host"
	"github.com/opd-ai/tring/media"
	"github.com/opd-ai/tring/peerconn"
)

var selfUUID = []byte{0x10, 0x11, 0x12, 0x13, 0x14, 0x15, 0x16, 0x17, 0x18, 0x19, 0x1a, 0x1b, 0x1c, 0x1d, 0x1e, 0x1f}

func iceURLs(t *testing.T, urls ...string) codec.Batch {
	t.Helper()
	rows := make([][]byte, len(urls))
	for i, u := range urls {
		rows[i] = []byte(u)
	}
	b, err := codec.EncodeBatch(rows)
	require.NoError(t, err)
	return b
}

func TestOutgoingCall(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.bridge.CreateOutgoingCall(f.h, "bob", true, 1, 42))
	require.NoError(t, f.bridge.ProceedCall(f.h, 42, 1, 0, "user", "pass", "turn.example", iceURLs(t, "turn:turn.example:3478")))
	require.NoError(t, f.bridge.ReceivedAnswer(f.h, "bob", 42, 2, nil, nil, []byte("answer")))

	assert.Equal(t, [][]any{
		status(42, 1, 1, 1),
		status(42, 1, 30, 0),
		status(42, 1, 10, 0),
	}, f.statuses())
	assert.Len(t, f.table.CallsTo("SignalingOffer"), 1)
	assert.Len(t, f.table.CallsTo("SignalingIce"), 1)
	assert.True(t, f.endpoint(t).Reported())

	f.table.Reset()
	require.NoError(t, f.bridge.HangupCall(f.h))
	assert.Equal(t, [][]any{
		status(42, 0, 11, 0),
		status(42, 1, 70, 0),
		status(42, 1, 40, 0),
	}, f.statuses())
}

func TestProceedCallRejectsICEServers(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.bridge.CreateOutgoingCall(f.h, "bob", false, 1, 43))

	err := f.bridge.ProceedCall(f.h, 43, 0, 0, "", "", "turn.example", iceURLs(t, "turn:turn.example:3478"))
	require.ErrorIs(t, err, peerconn.ErrInvalidICEConfig)
	assert.Equal(t, StatusDecode, StatusCode(err))
	assert.Empty(t, f.table.CallsTo("SignalingOffer"))

	require.NoError(t, f.bridge.ProceedCall(f.h, 43, 0, 0, "user", "pass", "turn.example", iceURLs(t, "turn:turn.example:3478")))
	assert.Len(t, f.table.CallsTo("SignalingOffer"), 1)
}

func TestIncomingCall(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.bridge.ReceivedOffer(f.h, "alice", 7, 1, 2, 1, []byte("sk"), []byte("rk"), []byte("offer"), 0))
	require.NoError(t, f.bridge.ProceedCall(f.h, 7, 0, 200, "", "", "", iceURLs(t)))
	require.NoError(t, f.bridge.AcceptCall(f.h, 7))

	assert.Equal(t, [][]any{
		status(7, 1, 0, 1),
		status(7, 1, 10, 0),
		status(7, 1, 20, 0),
		status(1, 1, 22, 31),
	}, f.statuses())
	assert.Len(t, f.table.CallsTo("SignalingAnswer"), 1)

	require.NoError(t, f.bridge.SetOutgoingVideoEnabled(f.h, true))
	_, video := f.endpoint(t).OutgoingTracks()
	assert.True(t, video.Enabled())

	sender, err := f.endpoint(t).manager.(*loopback.Manager).SenderStatus(7)
	require.NoError(t, err)
	require.NotNil(t, sender.VideoEnabled)
	assert.True(t, *sender.VideoEnabled)
}

func TestSetOutgoingVideoEnabledWithoutConnection(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.bridge.SetOutgoingVideoEnabled(f.h, true))
	require.NoError(t, f.bridge.SetOutgoingAudioEnabled(f.h, true))
	audio, video := f.endpoint(t).OutgoingTracks()
	assert.True(t, audio.Enabled())
	assert.True(t, video.Enabled())
}

func TestIgnoreCall(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.bridge.ReceivedOffer(f.h, "alice", 8, 0, 2, 1, nil, nil, nil, 0))
	require.NoError(t, f.bridge.IgnoreCall(f.h, 8))
	assert.Equal(t, [][]any{status(8, 1, 0, 0), status(8, 1, 40, 0)}, f.statuses())

	err := f.bridge.AcceptCall(f.h, 8)
	assert.ErrorIs(t, err, ErrEngine)
	assert.ErrorIs(t, err, engine.ErrUnknownCall)
	assert.Equal(t, StatusEngine, StatusCode(err))
}

func TestSignalMessageSentGating(t *testing.T) {
	opts := testOptions()
	opts.AssumeMessagesSent = false
	b, err := New(opts, host.NewRecorder())
	require.NoError(t, err)
	defer b.Close()
	table := callback.NewRecorder()
	h, err := b.CreateCallEndpoint(table.Table())
	require.NoError(t, err)

	require.NoError(t, b.CreateOutgoingCall(h, "bob", false, 1, 5))
	require.NoError(t, b.ProceedCall(h, 5, 1, 0, "", "", "", iceURLs(t)))
	assert.Len(t, table.CallsTo("SignalingOffer"), 1)
	assert.Len(t, table.CallsTo("SignalingIce"), 0)

	require.NoError(t, b.SignalMessageSent(h, 5))
	assert.Len(t, table.CallsTo("SignalingIce"), 1)
}

func TestReceivedIce(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.bridge.CreateOutgoingCall(f.h, "bob", false, 1, 3))

	candidates, err := codec.EncodeIceCandidates([]engine.IceCandidate{{Opaque: []byte("c1")}, {Opaque: []byte("c2")}})
	require.NoError(t, err)
	require.NoError(t, f.bridge.ReceivedIce(f.h, 3, 2, candidates))

	candidates.Len = codec.BatchCapacity + 1
	err = f.bridge.ReceivedIce(f.h, 3, 2, candidates)
	assert.ErrorIs(t, err, codec.ErrCapacityExceeded)
	assert.Equal(t, StatusCapacity, StatusCode(err))
}

func TestSetSelfUUID(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.bridge.SetSelfUUID(f.h, selfUUID))

	err := f.bridge.SetSelfUUID(f.h, []byte("short"))
	assert.ErrorIs(t, err, ErrDecode)
	assert.Equal(t, StatusDecode, StatusCode(err))
}

func TestAudioDevices(t *testing.T) {
	f := newFixture(t)

	d, err := f.bridge.AudioInput(f.h, 0)
	require.NoError(t, err)
	assert.True(t, d.Found())
	assert.Equal(t, engine.AudioDevice{Name: "Mic", UniqueID: "mic", I18nKey: "mic.key"}, d.Device())

	d, err = f.bridge.AudioOutput(f.h, 4)
	require.NoError(t, err)
	assert.False(t, d.Found())
	assert.Equal(t, uint32(codec.EmptyDeviceIndex), d.Index)

	require.NoError(t, f.bridge.SetAudioInput(f.h, 0))
	assert.ErrorIs(t, f.bridge.SetAudioOutput(f.h, 3), peerconn.ErrDeviceIndex)
}

func TestSendVideoFrame(t *testing.T) {
	f := newFixture(t)

	raw := make([]byte, media.InputSize(2, 2, media.PixelFormatRGBA))
	raw[0] = 0xFF
	require.NoError(t, f.bridge.SendVideoFrame(f.h, 2, 2, int32(media.PixelFormatRGBA), raw))

	source := f.endpoint(t).source.(*peerconn.VideoSource)
	frame, ok := source.LastFrame()
	require.True(t, ok)
	assert.Equal(t, uint32(2), frame.Width)
	assert.Equal(t, byte(0xFF), frame.Data[0])
	assert.Equal(t, 1.0, testutil.ToFloat64(f.bridge.Metrics().FramesSent))

	err := f.bridge.SendVideoFrame(f.h, 2, 2, int32(media.PixelFormatRGBA), raw[:4])
	assert.ErrorIs(t, err, media.ErrShortFrame)

	err = f.bridge.SendVideoFrame(f.h, 2, 2, 9, make([]byte, 64))
	assert.ErrorIs(t, err, media.ErrUnsupportedFormat)
	assert.Equal(t, StatusDecode, StatusCode(err))

	err = f.bridge.SendVideoFrame(f.h, media.MaxDimension+1, 2, int32(media.PixelFormatI420), nil)
	assert.ErrorIs(t, err, media.ErrInvalidDimensions)
	assert.Equal(t, StatusDecode, StatusCode(err))
}

func TestFillRemoteVideoFrame(t *testing.T) {
	f := newFixture(t)
	out := make([]byte, 64)

	packed, err := f.bridge.FillRemoteVideoFrame(f.h, 16, out)
	require.NoError(t, err)
	assert.Equal(t, int64(0), packed)

	f.endpoint(t).IncomingVideo().OnVideoFrame(16, &media.VideoFrame{
		Width:    2,
		Height:   1,
		Format:   media.PixelFormatRGBA,
		Rotation: media.Rotation90,
		Data:     []byte{1, 2, 3, 4, 5, 6, 7, 8},
	})
	packed, err = f.bridge.FillRemoteVideoFrame(f.h, 16, out)
	require.NoError(t, err)
	assert.Equal(t, media.PackDimensions(1, 2), packed)
	assert.Equal(t, []byte{1, 2, 3, 4, 5, 6, 7, 8}, out[:8])

	packed, err = f.bridge.FillRemoteVideoFrame(f.h, 16, out)
	require.NoError(t, err)
	assert.Zero(t, packed, "frames are consumed")

	f.endpoint(t).IncomingVideo().OnVideoFrame(16, &media.VideoFrame{
		Width: 2, Height: 2, Format: media.PixelFormatRGBA, Data: make([]byte, 16),
	})
	_, err = f.bridge.FillRemoteVideoFrame(f.h, 16, make([]byte, 4))
	assert.ErrorIs(t, err, media.ErrBufferTooSmall)
}

func packedMembers(t *testing.T, users ...[]byte) []byte {
	t.Helper()
	members := make([]engine.GroupMember, len(users))
	for i, u := range users {
		memberID := make([]byte, engine.MemberIDSize)
		memberID[0] = byte(i + 1)
		members[i] = engine.GroupMember{UserID: u, MemberID: memberID}
	}
	buf, err := codec.EncodeGroupMembers(members)
	require.NoError(t, err)
	return buf
}

func TestGroupCall(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.bridge.SetSelfUUID(f.h, selfUUID))

	id, err := f.bridge.CreateGroupCallClient(f.h, []byte("group"), "https://sfu.example", []byte("hkdf"))
	require.NoError(t, err)
	assert.Equal(t, 1, f.endpoint(t).GroupClients())
	assert.Equal(t, 1.0, testutil.ToFloat64(f.bridge.Metrics().ActiveGroupClients))

	require.NoError(t, f.bridge.GroupConnect(f.h, id))
	require.NoError(t, f.bridge.SetMembershipProof(f.h, id, []byte("proof")))
	require.NoError(t, f.bridge.Join(f.h, id))

	assert.Equal(t, []any{id}, f.table.CallsTo("GroupRequestMembershipProof")[0].Args)
	assert.Equal(t, []any{id}, f.table.CallsTo("GroupRequestGroupMembers")[0].Args)
	joins := f.table.CallsTo("GroupJoinStateChanged")
	require.Len(t, joins, 2)
	assert.Equal(t, []any{id, int32(engine.Joined)}, joins[1].Args)
	require.Len(t, f.host.PeekChanges(id), 1)

	other := make([]byte, engine.UserIDSize)
	other[15] = 9
	require.NoError(t, f.bridge.SetGroupMembers(f.h, id, packedMembers(t, selfUUID, other)))
	remotes := f.host.RemoteDevices(id)
	require.Len(t, remotes, 1)
	assert.Len(t, remotes[0], 1)

	require.NoError(t, f.bridge.SetOutgoingAudioMuted(f.h, id, false))
	require.NoError(t, f.bridge.SetOutgoingVideoMuted(f.h, id, true))
	require.NoError(t, f.bridge.SetDataMode(f.h, id, 0))
	require.NoError(t, f.bridge.RequestVideo(f.h, id, 32))

	audio, video := f.endpoint(t).OutgoingTracks()
	assert.True(t, audio.Enabled())
	assert.False(t, video.Enabled())

	snap, err := f.endpoint(t).manager.(*loopback.Manager).Client(id)
	require.NoError(t, err)
	assert.True(t, snap.VideoMuted)
	assert.Equal(t, engine.DataModeLow, snap.DataMode)
	assert.Equal(t, []engine.VideoRequest{{DemuxID: 32, Width: 320, Height: 200}}, snap.VideoRequests)
	assert.Equal(t, uint16(150), snap.ActiveSpeakerHeight)

	video.SetContentHint(true)
	f.endpoint(t).IncomingVideo().OnVideoFrame(32, &media.VideoFrame{
		Width: 1, Height: 1, Format: media.PixelFormatRGBA, Data: make([]byte, 4),
	})
	require.NoError(t, f.bridge.Disconnect(f.h, id))
	assert.False(t, audio.Enabled())
	assert.False(t, video.ContentHint())
	assert.Equal(t, 0, f.endpoint(t).sink.Len())
	assert.Equal(t, []any{id, int32(engine.GroupEndDeviceExplicitlyDisconnected)}, f.table.CallsTo("GroupEnded")[0].Args)

	require.NoError(t, f.bridge.DeleteGroupCallClient(f.h, id))
	assert.Equal(t, 0, f.endpoint(t).GroupClients())

	err = f.bridge.GroupConnect(f.h, id)
	assert.ErrorIs(t, err, engine.ErrUnknownClient)
	assert.Equal(t, StatusEngine, StatusCode(err))
}

func TestSetGroupMembersRejectsPartialRecord(t *testing.T) {
	f := newFixture(t)
	id, err := f.bridge.CreateGroupCallClient(f.h, []byte("group"), "https://sfu.example", nil)
	require.NoError(t, err)

	err = f.bridge.SetGroupMembers(f.h, id, make([]byte, codec.GroupMemberRecordSize-1))
	assert.ErrorIs(t, err, codec.ErrInvalidGroupMemberBuffer)
	assert.Equal(t, StatusDecode, StatusCode(err))
}

func TestPeekGroupCall(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.bridge.PeekGroupCall(f.h, []byte("proof"), packedMembers(t, selfUUID)))

	requests := f.host.Requests()
	require.Len(t, requests, 1)
	assert.Equal(t, DefaultSFUURL+loopback.ParticipantsPath, requests[0].URL)
	assert.Equal(t, int32(DefaultPeekRequestID), requests[0].RequestID)

	require.NoError(t, f.bridge.ReceivedHTTPResponse(f.h, DefaultPeekRequestID, 404, nil))
	args, ok := f.host.PeekResultFor(DefaultPeekRequestID)
	require.True(t, ok)
	assert.Empty(t, args.Members)
	assert.Equal(t, int64(DefaultMaxPeekDevices), args.MaxDevices)

	err := f.bridge.ReceivedHTTPResponse(f.h, 77, 200, nil)
	assert.ErrorIs(t, err, engine.ErrUnknownRequest)
}

func TestGroupRingRoundTrip(t *testing.T) {
	f := newFixture(t)
	id, err := f.bridge.CreateGroupCallClient(f.h, []byte("group"), "https://sfu.example", nil)
	require.NoError(t, err)

	require.NoError(t, f.bridge.GroupRing(f.h, id))
	sent := f.table.CallsTo("SendCallMessageToGroup")
	require.Len(t, sent, 1)
	assert.Equal(t, []byte("group"), sent[0].Args[0])
	message := sent[0].Args[1].([]byte)

	require.NoError(t, f.bridge.ReceivedOpaqueMessage(f.h, selfUUID, 2, 1, message, 0))
	rings := f.table.CallsTo("GroupRing")
	require.Len(t, rings, 1)
	assert.Equal(t, []byte("group"), rings[0].Args[0])
	assert.Equal(t, selfUUID, rings[0].Args[2])
	assert.Equal(t, int32(engine.RingRequested), rings[0].Args[3])
}
