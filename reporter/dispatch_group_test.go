package reporter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opd-ai/tring/engine"
)

func TestGroupTableUpdates(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.reporter.HandleGroupUpdate(engine.RequestMembershipProof{ClientID: 5}))
	require.NoError(t, f.reporter.HandleGroupUpdate(engine.RequestGroupMembers{ClientID: 5}))
	require.NoError(t, f.reporter.HandleGroupUpdate(engine.ConnectionStateChanged{ClientID: 5, State: engine.Connected}))
	require.NoError(t, f.reporter.HandleGroupUpdate(engine.JoinStateChanged{
		ClientID: 5, State: engine.JoinState{Kind: engine.Joined, DemuxID: 32},
	}))
	require.NoError(t, f.reporter.HandleGroupUpdate(engine.GroupCallEnded{ClientID: 5, Reason: engine.GroupEndHasMaxDevices}))

	assert.Equal(t, []any{uint32(5)}, f.table.CallsTo("GroupRequestMembershipProof")[0].Args)
	assert.Equal(t, []any{uint32(5)}, f.table.CallsTo("GroupRequestGroupMembers")[0].Args)
	assert.Equal(t, []any{uint32(5), int32(2)}, f.table.CallsTo("GroupConnectionStateChanged")[0].Args)
	assert.Equal(t, []any{uint32(5), int32(3)}, f.table.CallsTo("GroupJoinStateChanged")[0].Args)
	assert.Equal(t, []any{uint32(5), int32(13)}, f.table.CallsTo("GroupEnded")[0].Args)
}

func TestRing(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.reporter.HandleGroupUpdate(engine.Ring{
		GroupID:  []byte("group"),
		RingID:   -77,
		SenderID: []byte("sender"),
		Update:   engine.RingCancelledByRinger,
	}))

	calls := f.table.CallsTo("GroupRing")
	require.Len(t, calls, 1)
	assert.Equal(t, []any{[]byte("group"), int64(-77), []byte("sender"), int32(6)}, calls[0].Args)
}

func TestRemoteDevicesChanged(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.reporter.HandleGroupUpdate(engine.RemoteDeviceStatesChanged{
		ClientID: 2,
		States:   []engine.RemoteDeviceState{{DemuxID: 16}, {DemuxID: 32}, {DemuxID: 48}},
	}))

	assert.Equal(t, [][]int64{{16, 32, 48}}, f.host.RemoteDevices(2))
	assert.Empty(t, f.table.Calls())
}

func TestPeekChanged(t *testing.T) {
	f := newFixture(t)
	alice, bob := []byte("alice"), []byte("bob")
	require.NoError(t, f.reporter.HandleGroupUpdate(engine.PeekChanged{
		ClientID: 4,
		Info: engine.PeekInfo{
			Devices: []engine.PeekDeviceInfo{
				{DemuxID: 1, UserID: alice},
				{DemuxID: 2, UserID: bob},
				{DemuxID: 3, UserID: alice},
				{DemuxID: 4},
			},
			PendingDevices: []engine.PeekDeviceInfo{{DemuxID: 5}},
			Creator:        bob,
			EraID:          "era-1",
		},
	}))

	changes := f.host.PeekChanges(4)
	require.Len(t, changes, 1)
	args := changes[0]
	assert.Equal(t, [][]byte{alice, bob}, args.Members)
	assert.Equal(t, bob, args.Creator)
	require.NotNil(t, args.EraID)
	assert.Equal(t, "era-1", *args.EraID)
	assert.Equal(t, int64(50), args.MaxDevices)
	assert.Equal(t, int64(5), args.DeviceCount)
}

func TestPeekResultFailureReportsEmptyCall(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.reporter.HandleGroupUpdate(engine.PeekResult{RequestID: 8, FailureStatus: 404}))

	args, ok := f.host.PeekResultFor(8)
	require.True(t, ok)
	assert.Empty(t, args.Members)
	assert.Nil(t, args.Creator)
	assert.Nil(t, args.EraID)
	assert.Equal(t, int64(50), args.MaxDevices)
	assert.Equal(t, int64(0), args.DeviceCount)
}

func TestPeekResultSuccess(t *testing.T) {
	f := newFixture(t)
	info := &engine.PeekInfo{Devices: []engine.PeekDeviceInfo{{DemuxID: 1, UserID: []byte("u")}}}
	require.NoError(t, f.reporter.HandleGroupUpdate(engine.PeekResult{RequestID: 1, Info: info}))

	args, ok := f.host.PeekResultFor(1)
	require.True(t, ok)
	assert.Equal(t, [][]byte{[]byte("u")}, args.Members)
	assert.Equal(t, int64(1), args.DeviceCount)
}

func TestGroupLogOnlyUpdates(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.reporter.HandleGroupUpdate(engine.NetworkRouteChangedUpdate{ClientID: 1}))
	require.NoError(t, f.reporter.HandleGroupUpdate(engine.GroupAudioLevelsUpdate{ClientID: 1}))
	require.NoError(t, f.reporter.HandleGroupUpdate(engine.GroupLowBandwidthForVideoUpdate{ClientID: 1}))
	require.NoError(t, f.reporter.HandleGroupUpdate(nil))
	assert.Empty(t, f.table.Calls())
}
