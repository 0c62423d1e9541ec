package peerconn

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/pion/webrtc/v3"
	"github.com/sirupsen/logrus"

	"github.com/opd-ai/tring/engine"
)

const streamID = "tring"

// Factory implements engine.MediaFactory.
type Factory struct {
	mu        sync.Mutex
	devices   DeviceProvider
	recording uint16
	playout   uint16
	closed    bool
}

var _ engine.MediaFactory = (*Factory)(nil)

// NewFactory returns a factory enumerating devices through provider. A nil
// provider uses RegisteredDeviceProvider.
func NewFactory(provider DeviceProvider) *Factory {
	if provider == nil {
		provider = RegisteredDeviceProvider()
	}
	return &Factory{devices: provider}
}

func (f *Factory) check() error {
	if f.closed {
		return ErrFactoryClosed
	}
	return nil
}

// AudioRecordingDevices implements engine.MediaFactory.
func (f *Factory) AudioRecordingDevices() ([]engine.AudioDevice, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.check(); err != nil {
		return nil, err
	}
	return f.devices.AudioRecordingDevices()
}

// AudioPlayoutDevices implements engine.MediaFactory.
func (f *Factory) AudioPlayoutDevices() ([]engine.AudioDevice, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.check(); err != nil {
		return nil, err
	}
	return f.devices.AudioPlayoutDevices()
}

// SetAudioRecordingDevice implements engine.MediaFactory.
func (f *Factory) SetAudioRecordingDevice(index uint16) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.check(); err != nil {
		return err
	}
	devices, err := f.devices.AudioRecordingDevices()
	if err != nil {
		return err
	}
	if int(index) >= len(devices) {
		return fmt.Errorf("%w: recording %d of %d", ErrDeviceIndex, index, len(devices))
	}
	f.recording = index
	logrus.WithFields(logrus.Fields{
		"function": "SetAudioRecordingDevice",
		"index":    index,
		"device":   devices[index].UniqueID,
	}).Info("Audio input selected")
	return nil
}

// SetAudioPlayoutDevice implements engine.MediaFactory.
func (f *Factory) SetAudioPlayoutDevice(index uint16) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.check(); err != nil {
		return err
	}
	devices, err := f.devices.AudioPlayoutDevices()
	if err != nil {
		return err
	}
	if int(index) >= len(devices) {
		return fmt.Errorf("%w: playout %d of %d", ErrDeviceIndex, index, len(devices))
	}
	f.playout = index
	logrus.WithFields(logrus.Fields{
		"function": "SetAudioPlayoutDevice",
		"index":    index,
		"device":   devices[index].UniqueID,
	}).Info("Audio output selected")
	return nil
}

// SelectedDevices returns the selected recording and playout indexes.
func (f *Factory) SelectedDevices() (recording, playout uint16) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.recording, f.playout
}

// CreateOutgoingAudioTrack implements engine.MediaFactory.
func (f *Factory) CreateOutgoingAudioTrack() (engine.AudioTrack, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.check(); err != nil {
		return nil, err
	}
	local, err := webrtc.NewTrackLocalStaticSample(webrtc.RTPCodecCapability{
		MimeType:  webrtc.MimeTypeOpus,
		ClockRate: 48000,
		Channels:  2,
	}, "audio-"+uuid.NewString(), streamID)
	if err != nil {
		return nil, fmt.Errorf("create audio track: %w", err)
	}
	return &AudioTrack{TrackLocalStaticSample: local}, nil
}

// CreateOutgoingVideoSource implements engine.MediaFactory.
func (f *Factory) CreateOutgoingVideoSource() (engine.VideoSource, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.check(); err != nil {
		return nil, err
	}
	return &VideoSource{}, nil
}

// CreateOutgoingVideoTrack implements engine.MediaFactory.
func (f *Factory) CreateOutgoingVideoTrack(source engine.VideoSource) (engine.VideoTrack, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.check(); err != nil {
		return nil, err
	}
	src, ok := source.(*VideoSource)
	if !ok {
		return nil, ErrForeignSource
	}
	local, err := webrtc.NewTrackLocalStaticSample(webrtc.RTPCodecCapability{
		MimeType:  webrtc.MimeTypeVP8,
		ClockRate: 90000,
	}, "video-"+uuid.NewString(), streamID)
	if err != nil {
		return nil, fmt.Errorf("create video track: %w", err)
	}
	return &VideoTrack{TrackLocalStaticSample: local, source: src}, nil
}

// Close implements engine.MediaFactory. It is idempotent.
func (f *Factory) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

// ICEServer builds a pion ICE server entry from the credentials a host
// passes to proceed.
func ICEServer(username, password string, urls []string) webrtc.ICEServer {
	server := webrtc.ICEServer{URLs: append([]string(nil), urls...)}
	if username != "" || password != "" {
		server.Username = username
		server.Credential = password
		server.CredentialType = webrtc.ICECredentialTypePassword
	}
	return server
}
