package tring

import (
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/opd-ai/tring/callback"
	"github.com/opd-ai/tring/engine"
	"github.com/opd-ai/tring/framesink"
	"github.com/opd-ai/tring/handle"
	"github.com/opd-ai/tring/metrics"
	"github.com/opd-ai/tring/reporter"
)

// CallEndpoint is one calling session: a call manager, the media it sends,
// the sink for the video it receives and the reporter delivering its
// events to the host.
type CallEndpoint struct {
	opts    *Options
	metrics *metrics.Metrics

	manager engine.CallManager
	media   engine.MediaFactory
	audio   engine.AudioTrack
	source  engine.VideoSource
	video   engine.VideoTrack
	sink    *framesink.Sink

	// reporter is the endpoint's share of the callback table; the engine
	// holds a clone in its platform.
	reporter       *reporter.Reporter
	engineReporter *reporter.Reporter

	mu      sync.Mutex
	clients map[engine.ClientID]struct{}
}

func newCallEndpoint(b *Bridge, table callback.Table) (*CallEndpoint, error) {
	ref, err := callback.New(table)
	if err != nil {
		return nil, err
	}
	rep, err := reporter.New(ref, reporter.Options{
		Host:           b.host,
		Metrics:        b.metrics,
		MaxPeekDevices: b.opts.MaxPeekDevices,
	})
	if err != nil {
		ref.Release()
		return nil, err
	}

	ep := &CallEndpoint{
		opts:     b.opts,
		metrics:  b.metrics,
		sink:     framesink.New(b.metrics),
		reporter: rep,
		clients:  make(map[engine.ClientID]struct{}),
	}
	if err := ep.build(b); err != nil {
		ep.close()
		return nil, err
	}
	return ep, nil
}

// build creates the media objects and the call manager. On error the
// partially built endpoint is released by the caller.
func (ep *CallEndpoint) build(b *Bridge) error {
	newMedia := b.opts.MediaFactory
	if newMedia == nil {
		newMedia = RegisteredMediaFactory()
	}
	newEngine := b.opts.EngineFactory
	if newEngine == nil {
		newEngine = RegisteredEngine()
	}
	if newEngine == nil {
		return ErrNoEngine
	}

	var err error
	if ep.media, err = newMedia(); err != nil {
		return fmt.Errorf("media factory: %w", err)
	}
	if ep.audio, err = ep.media.CreateOutgoingAudioTrack(); err != nil {
		return fmt.Errorf("outgoing audio track: %w", err)
	}
	if ep.source, err = ep.media.CreateOutgoingVideoSource(); err != nil {
		return fmt.Errorf("outgoing video source: %w", err)
	}
	if ep.video, err = ep.media.CreateOutgoingVideoTrack(ep.source); err != nil {
		return fmt.Errorf("outgoing video track: %w", err)
	}
	ep.audio.SetEnabled(false)
	ep.video.SetEnabled(false)

	if ep.engineReporter, err = ep.reporter.Clone(); err != nil {
		return err
	}
	if ep.manager, err = newEngine(ep.engineReporter.Platform(b.opts.AssumeMessagesSent)); err != nil {
		return engineError(err)
	}
	return nil
}

// close tears the endpoint down. The callback table's Destroy runs once the
// last reporter share is released.
func (ep *CallEndpoint) close() {
	if ep.manager != nil {
		if err := ep.manager.Close(); err != nil {
			logrus.WithFields(logrus.Fields{
				"function": "close",
				"error":    err.Error(),
			}).Warn("Call manager close failed")
		}
	}
	if ep.media != nil {
		if err := ep.media.Close(); err != nil {
			logrus.WithFields(logrus.Fields{
				"function": "close",
				"error":    err.Error(),
			}).Warn("Media factory close failed")
		}
	}
	ep.sink.Clear()

	ep.mu.Lock()
	clients := len(ep.clients)
	ep.clients = make(map[engine.ClientID]struct{})
	ep.mu.Unlock()
	ep.metrics.RecordGroupClients(-clients)

	if ep.engineReporter != nil {
		ep.engineReporter.Release()
	}
	ep.reporter.Release()
}

// Reported reports whether the engine has signalled its milestone.
func (ep *CallEndpoint) Reported() bool {
	return ep.reporter.Reported()
}

// GroupClients returns the number of live group call clients.
func (ep *CallEndpoint) GroupClients() int {
	ep.mu.Lock()
	defer ep.mu.Unlock()
	return len(ep.clients)
}

// Endpoint resolves h for hosts that embed the bridge in Go.
func (b *Bridge) Endpoint(h handle.Handle) (*CallEndpoint, error) {
	return b.endpoints.Resolve(h)
}
