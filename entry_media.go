package tring

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/opd-ai/tring/codec"
	"github.com/opd-ai/tring/engine"
	"github.com/opd-ai/tring/handle"
	"github.com/opd-ai/tring/media"
)

// AudioInputs lists the recording devices.
func (b *Bridge) AudioInputs(h handle.Handle) ([]engine.AudioDevice, error) {
	var devices []engine.AudioDevice
	err := b.with("AudioInputs", h, func(ep *CallEndpoint) error {
		var err error
		devices, err = ep.media.AudioRecordingDevices()
		return err
	})
	return devices, err
}

// AudioOutputs lists the playout devices.
func (b *Bridge) AudioOutputs(h handle.Handle) ([]engine.AudioDevice, error) {
	var devices []engine.AudioDevice
	err := b.with("AudioOutputs", h, func(ep *CallEndpoint) error {
		var err error
		devices, err = ep.media.AudioPlayoutDevices()
		return err
	})
	return devices, err
}

// AudioInput returns the descriptor of recording device index, or the
// sentinel descriptor when there is none.
func (b *Bridge) AudioInput(h handle.Handle, index uint32) (codec.Descriptor, error) {
	devices, err := b.AudioInputs(h)
	if err != nil {
		return codec.EmptyDescriptor(), err
	}
	return codec.LookupDevice(devices, index), nil
}

// AudioOutput returns the descriptor of playout device index, or the
// sentinel descriptor when there is none.
func (b *Bridge) AudioOutput(h handle.Handle, index uint32) (codec.Descriptor, error) {
	devices, err := b.AudioOutputs(h)
	if err != nil {
		return codec.EmptyDescriptor(), err
	}
	return codec.LookupDevice(devices, index), nil
}

// SetAudioInput selects the recording device.
func (b *Bridge) SetAudioInput(h handle.Handle, index uint16) error {
	return b.with("SetAudioInput", h, func(ep *CallEndpoint) error {
		return ep.media.SetAudioRecordingDevice(index)
	})
}

// SetAudioOutput selects the playout device.
func (b *Bridge) SetAudioOutput(h handle.Handle, index uint16) error {
	return b.with("SetAudioOutput", h, func(ep *CallEndpoint) error {
		return ep.media.SetAudioPlayoutDevice(index)
	})
}

// SetOutgoingAudioEnabled toggles the outgoing audio track.
func (b *Bridge) SetOutgoingAudioEnabled(h handle.Handle, enabled bool) error {
	return b.with("SetOutgoingAudioEnabled", h, func(ep *CallEndpoint) error {
		ep.audio.SetEnabled(enabled)
		return nil
	})
}

// SetOutgoingVideoEnabled toggles the outgoing video track and tells the
// remote side of the active connection, if there is one.
func (b *Bridge) SetOutgoingVideoEnabled(h handle.Handle, enabled bool) error {
	return b.with("SetOutgoingVideoEnabled", h, func(ep *CallEndpoint) error {
		ep.video.SetEnabled(enabled)

		conn, err := ep.manager.ActiveConnection()
		if errors.Is(err, engine.ErrNoActiveConnection) {
			logrus.WithFields(logrus.Fields{
				"function": "SetOutgoingVideoEnabled",
				"enabled":  enabled,
			}).Debug("No active connection")
			return nil
		}
		if err != nil {
			return engineError(err)
		}
		return engineError(conn.UpdateSenderStatus(engine.SenderStatus{VideoEnabled: &enabled}))
	})
}

// SendVideoFrame pushes one captured frame into the outgoing video source.
// raw must hold at least media.InputSize(width, height, format) bytes.
func (b *Bridge) SendVideoFrame(h handle.Handle, width, height uint32, format int32, raw []byte) error {
	return b.with("SendVideoFrame", h, func(ep *CallEndpoint) error {
		if err := media.Check(width, height, media.PixelFormat(format)); err != nil {
			return err
		}
		size := media.InputSize(width, height, media.PixelFormat(format))
		if len(raw) < size {
			return fmt.Errorf("%w: have %d bytes, need %d", media.ErrShortFrame, len(raw), size)
		}
		frame, err := media.CopyFromSlice(width, height, media.PixelFormat(format), raw[:size])
		if err != nil {
			return err
		}
		if err := ep.source.PushFrame(frame); err != nil {
			return err
		}
		ep.metrics.RecordFrameSent()
		return nil
	})
}

// FillRemoteVideoFrame takes the latest frame of demuxID, rotates it
// upright and writes it as RGBA into out.
//
// Returns:
//   - int64: media.PackDimensions of the written frame, or 0 when no frame
//     was waiting
//   - error: media.ErrBufferTooSmall when out cannot hold the frame
func (b *Bridge) FillRemoteVideoFrame(h handle.Handle, demuxID uint32, out []byte) (int64, error) {
	var packed int64
	err := b.with("FillRemoteVideoFrame", h, func(ep *CallEndpoint) error {
		frame, ok := ep.sink.Pop(demuxID)
		if !ok {
			return nil
		}
		upright, err := frame.ApplyRotation()
		if err != nil {
			return err
		}
		if err := upright.ToRGBA(out); err != nil {
			return err
		}
		packed = media.PackDimensions(upright.Width, upright.Height)
		return nil
	})
	return packed, err
}

// IncomingVideo returns the sink remote frames are delivered into. Engines
// living outside the bridge push frames here.
func (ep *CallEndpoint) IncomingVideo() engine.VideoSink {
	return ep.sink
}

// OutgoingTracks returns the endpoint's audio and video tracks.
func (ep *CallEndpoint) OutgoingTracks() (engine.AudioTrack, engine.VideoTrack) {
	return ep.audio, ep.video
}
