package peerconn

import (
	"testing"

	"github.com/pion/webrtc/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opd-ai/tring/engine"
	"github.com/opd-ai/tring/media"
)

func testDevices() StaticDevices {
	return StaticDevices{
		Recording: []engine.AudioDevice{{Name: "Mic", UniqueID: "mic"}, {Name: "Headset", UniqueID: "hs"}},
		Playout:   []engine.AudioDevice{{Name: "Speaker", UniqueID: "spk"}},
	}
}

func TestDeviceSelection(t *testing.T) {
	f := NewFactory(testDevices())

	devices, err := f.AudioRecordingDevices()
	require.NoError(t, err)
	assert.Len(t, devices, 2)

	require.NoError(t, f.SetAudioRecordingDevice(1))
	require.NoError(t, f.SetAudioPlayoutDevice(0))
	recording, playout := f.SelectedDevices()
	assert.Equal(t, uint16(1), recording)
	assert.Equal(t, uint16(0), playout)

	assert.ErrorIs(t, f.SetAudioRecordingDevice(2), ErrDeviceIndex)
	assert.ErrorIs(t, f.SetAudioPlayoutDevice(1), ErrDeviceIndex)
}

func TestRegisteredDeviceProvider(t *testing.T) {
	defer RegisterDeviceProvider(nil)

	assert.Equal(t, DefaultDevices, RegisteredDeviceProvider())

	RegisterDeviceProvider(testDevices())
	f := NewFactory(nil)
	devices, err := f.AudioPlayoutDevices()
	require.NoError(t, err)
	assert.Equal(t, "spk", devices[0].UniqueID)
}

func TestTracks(t *testing.T) {
	f := NewFactory(testDevices())

	audio, err := f.CreateOutgoingAudioTrack()
	require.NoError(t, err)
	assert.False(t, audio.Enabled())
	audio.SetEnabled(true)
	assert.True(t, audio.Enabled())
	assert.Equal(t, webrtc.MimeTypeOpus, audio.(*AudioTrack).Codec().MimeType)

	source, err := f.CreateOutgoingVideoSource()
	require.NoError(t, err)
	video, err := f.CreateOutgoingVideoTrack(source)
	require.NoError(t, err)
	assert.Equal(t, webrtc.MimeTypeVP8, video.(*VideoTrack).Codec().MimeType)
	assert.Same(t, source, video.(*VideoTrack).Source())

	video.SetContentHint(true)
	assert.True(t, video.ContentHint())
}

type otherSource struct{}

func (otherSource) PushFrame(*media.VideoFrame) error { return nil }

func TestForeignVideoSource(t *testing.T) {
	f := NewFactory(testDevices())
	_, err := f.CreateOutgoingVideoTrack(otherSource{})
	assert.ErrorIs(t, err, ErrForeignSource)
}

func TestVideoSourceFanOut(t *testing.T) {
	src := &VideoSource{}
	var got []*media.VideoFrame
	src.Subscribe(func(f *media.VideoFrame) { got = append(got, f) })

	frame := &media.VideoFrame{Width: 2, Height: 2, Format: media.PixelFormatRGBA, Data: make([]byte, 16)}
	require.NoError(t, src.PushFrame(frame))

	last, ok := src.LastFrame()
	require.True(t, ok)
	assert.Same(t, frame, last)
	assert.Len(t, got, 1)
	assert.Equal(t, uint64(1), src.FramesPushed())

	err := src.PushFrame(&media.VideoFrame{Width: 2, Height: 2, Format: media.PixelFormatRGBA, Data: make([]byte, 3)})
	assert.ErrorIs(t, err, media.ErrShortFrame)
	assert.Equal(t, uint64(1), src.FramesPushed())
}

func TestClosedFactory(t *testing.T) {
	f := NewFactory(testDevices())
	require.NoError(t, f.Close())
	require.NoError(t, f.Close())

	_, err := f.CreateOutgoingAudioTrack()
	assert.ErrorIs(t, err, ErrFactoryClosed)
	_, err = f.AudioRecordingDevices()
	assert.ErrorIs(t, err, ErrFactoryClosed)
}

func TestICEServer(t *testing.T) {
	s := ICEServer("user", "pass", []string{"turn:turn.example:3478"})
	assert.Equal(t, []string{"turn:turn.example:3478"}, s.URLs)
	assert.Equal(t, "user", s.Username)
	assert.Equal(t, "pass", s.Credential)
	assert.Equal(t, webrtc.ICECredentialTypePassword, s.CredentialType)

	anon := ICEServer("", "", []string{"stun:stun.example"})
	assert.Empty(t, anon.Username)
	assert.Nil(t, anon.Credential)
}
