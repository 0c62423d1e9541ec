// Package framesink stores the most recent decoded remote video frame for
// each group call device until the host polls for it.
//
// Each demux id has a single slot. The engine overwrites the slot on every
// frame; the host takes the frame out with Pop. Frames the host never reads
// are dropped, which keeps memory bounded by the number of remote devices.
package framesink

import (
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/opd-ai/tring/engine"
	"github.com/opd-ai/tring/media"
	"github.com/opd-ai/tring/metrics"
)

// Sink is a mutex-guarded map of single-slot mailboxes keyed by demux id.
// It implements engine.VideoSink.
type Sink struct {
	mu      sync.Mutex
	frames  map[engine.DemuxID]*media.VideoFrame
	metrics *metrics.Metrics
}

// New returns an empty sink. m may be nil.
func New(m *metrics.Metrics) *Sink {
	return &Sink{
		frames:  make(map[engine.DemuxID]*media.VideoFrame),
		metrics: m,
	}
}

// Push stores frame as the latest for demuxID. It reports whether an unread
// frame was replaced.
func (s *Sink) Push(demuxID engine.DemuxID, frame *media.VideoFrame) bool {
	s.mu.Lock()
	_, overwritten := s.frames[demuxID]
	s.frames[demuxID] = frame
	s.mu.Unlock()

	s.metrics.RecordFramePushed(overwritten)
	return overwritten
}

// OnVideoFrame is the engine callback for decoded remote frames.
func (s *Sink) OnVideoFrame(demuxID engine.DemuxID, frame *media.VideoFrame) {
	if frame == nil {
		logrus.WithFields(logrus.Fields{
			"function": "OnVideoFrame",
			"demux_id": demuxID,
		}).Debug("Ignoring nil frame")
		return
	}
	s.Push(demuxID, frame)
}

// Pop removes and returns the latest frame for demuxID.
func (s *Sink) Pop(demuxID engine.DemuxID) (*media.VideoFrame, bool) {
	s.mu.Lock()
	frame, ok := s.frames[demuxID]
	if ok {
		delete(s.frames, demuxID)
	}
	s.mu.Unlock()

	if ok {
		s.metrics.RecordFramePopped()
	}
	return frame, ok
}

// Clear drops all stored frames.
func (s *Sink) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.frames = make(map[engine.DemuxID]*media.VideoFrame)
}

// Len returns the number of demux ids holding an unread frame.
func (s *Sink) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.frames)
}
