package peerconn

import (
	"testing"

	"github.com/pion/webrtc/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConnectionAttachesTracks(t *testing.T) {
	f := NewFactory(testDevices())
	audio, err := f.CreateOutgoingAudioTrack()
	require.NoError(t, err)
	source, err := f.CreateOutgoingVideoSource()
	require.NoError(t, err)
	video, err := f.CreateOutgoingVideoTrack(source)
	require.NoError(t, err)

	servers := []webrtc.ICEServer{ICEServer("user", "pass", []string{"turn:turn.example:3478", "stun:stun.example:3478"})}
	pc, err := NewConnection(servers, false, audio, video)
	require.NoError(t, err)
	defer pc.Close()

	assert.Len(t, pc.GetSenders(), 2)
	ids := []string{}
	for _, sender := range pc.GetSenders() {
		ids = append(ids, sender.Track().ID())
	}
	assert.ElementsMatch(t, []string{audio.(*AudioTrack).ID(), video.(*VideoTrack).ID()}, ids)
	assert.Equal(t, webrtc.ICETransportPolicyAll, pc.GetConfiguration().ICETransportPolicy)
}

func TestNewConnectionHideIP(t *testing.T) {
	pc, err := NewConnection(nil, true, nil, nil)
	require.NoError(t, err)
	defer pc.Close()

	assert.Equal(t, webrtc.ICETransportPolicyRelay, pc.GetConfiguration().ICETransportPolicy)
	assert.Empty(t, pc.GetSenders())
}

func TestNewConnectionRejectsBadServers(t *testing.T) {
	tests := []struct {
		name   string
		server webrtc.ICEServer
	}{
		{"turn without credentials", ICEServer("", "", []string{"turn:turn.example:3478"})},
		{"unknown scheme", ICEServer("", "", []string{"http://turn.example"})},
		{"missing host", ICEServer("user", "pass", []string{"stun:"})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewConnection([]webrtc.ICEServer{tt.server}, false, nil, nil)
			assert.ErrorIs(t, err, ErrInvalidICEConfig)
		})
	}
}
