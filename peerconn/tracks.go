package peerconn

import (
	"sync"
	"sync/atomic"

	"github.com/pion/webrtc/v3"

	"github.com/opd-ai/tring/media"
)

// AudioTrack is an outgoing Opus track.
type AudioTrack struct {
	*webrtc.TrackLocalStaticSample
	enabled atomic.Bool
}

// SetEnabled implements engine.AudioTrack.
func (t *AudioTrack) SetEnabled(enabled bool) {
	t.enabled.Store(enabled)
}

// Enabled implements engine.AudioTrack.
func (t *AudioTrack) Enabled() bool {
	return t.enabled.Load()
}

// VideoTrack is an outgoing VP8 track fed by a VideoSource.
type VideoTrack struct {
	*webrtc.TrackLocalStaticSample
	source      *VideoSource
	enabled     atomic.Bool
	screenShare atomic.Bool
}

// SetEnabled implements engine.VideoTrack.
func (t *VideoTrack) SetEnabled(enabled bool) {
	t.enabled.Store(enabled)
}

// Enabled implements engine.VideoTrack.
func (t *VideoTrack) Enabled() bool {
	return t.enabled.Load()
}

// SetContentHint implements engine.VideoTrack.
func (t *VideoTrack) SetContentHint(screenShare bool) {
	t.screenShare.Store(screenShare)
}

// ContentHint implements engine.VideoTrack.
func (t *VideoTrack) ContentHint() bool {
	return t.screenShare.Load()
}

// Source returns the source feeding the track.
func (t *VideoTrack) Source() *VideoSource {
	return t.source
}

// VideoSource receives locally captured frames and fans them out to
// subscribers, typically the encoder of a connected call.
type VideoSource struct {
	mu          sync.RWMutex
	last        *media.VideoFrame
	subscribers []func(*media.VideoFrame)
	pushed      atomic.Uint64
}

// PushFrame implements engine.VideoSource.
func (s *VideoSource) PushFrame(frame *media.VideoFrame) error {
	if err := frame.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	s.last = frame
	subscribers := append([]func(*media.VideoFrame){}, s.subscribers...)
	s.mu.Unlock()

	s.pushed.Add(1)
	for _, fn := range subscribers {
		fn(frame)
	}
	return nil
}

// Subscribe registers fn for every subsequently pushed frame.
func (s *VideoSource) Subscribe(fn func(*media.VideoFrame)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscribers = append(s.subscribers, fn)
}

// LastFrame returns the most recently pushed frame.
func (s *VideoSource) LastFrame() (*media.VideoFrame, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.last, s.last != nil
}

// FramesPushed returns the number of frames accepted.
func (s *VideoSource) FramesPushed() uint64 {
	return s.pushed.Load()
}
