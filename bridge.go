package tring

import (
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/opd-ai/tring/callback"
	"github.com/opd-ai/tring/handle"
	"github.com/opd-ai/tring/host"
	"github.com/opd-ai/tring/metrics"
)

// Bridge is the process-scoped state shared by every entry point: the host
// attachment, the endpoint handle table and the metrics.
//
// Teardown order is endpoints first, then the host context, so that
// endpoint destruction can still deliver events.
type Bridge struct {
	opts      *Options
	host      *host.Context
	endpoints *handle.Table[*CallEndpoint]
	metrics   *metrics.Metrics

	mu     sync.RWMutex
	closed bool
}

// New creates a bridge bound to the host runtime.
//
// Parameters:
//   - opts: configuration; nil uses NewOptions()
//   - rt: the host runtime events are delivered through
//
// Returns:
//   - *Bridge: the bridge
//   - error: host.ErrNilRuntime or a logging configuration error
func New(opts *Options, rt host.Runtime) (*Bridge, error) {
	if opts == nil {
		opts = NewOptions()
	}
	if err := opts.ConfigureLogging(); err != nil {
		return nil, err
	}
	ctx, err := host.Init(rt)
	if err != nil {
		return nil, err
	}

	reg := opts.Registerer
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	logrus.WithFields(logrus.Fields{
		"function": "New",
		"sfu_url":  opts.SFUURL,
	}).Info("Bridge created")

	return &Bridge{
		opts:      opts,
		host:      ctx,
		endpoints: handle.NewTable[*CallEndpoint](),
		metrics:   metrics.New(reg),
	}, nil
}

// Metrics returns the bridge metrics.
func (b *Bridge) Metrics() *metrics.Metrics {
	return b.metrics
}

// Endpoints returns the number of live endpoints.
func (b *Bridge) Endpoints() int {
	return b.endpoints.Len()
}

// CreateCallEndpoint builds an endpoint around the host's callback table
// and returns its handle. A table that passes Validate on an open bridge is
// accepted: its Destroy then runs exactly once, either when construction
// fails or after the endpoint is destroyed.
func (b *Bridge) CreateCallEndpoint(table callback.Table) (handle.Handle, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return 0, b.fail("CreateCallEndpoint", 0, ErrBridgeClosed)
	}

	ep, err := newCallEndpoint(b, table)
	if err != nil {
		return 0, b.fail("CreateCallEndpoint", 0, err)
	}
	h := b.endpoints.Insert(ep)
	b.metrics.RecordEndpointCreated()

	logrus.WithFields(logrus.Fields{
		"function": "CreateCallEndpoint",
		"handle":   int64(h),
	}).Info("Call endpoint created")
	return h, nil
}

// DestroyCallEndpoint closes the endpoint and invalidates its handle.
func (b *Bridge) DestroyCallEndpoint(h handle.Handle) error {
	ep, err := b.endpoints.Remove(h)
	if err != nil {
		return b.fail("DestroyCallEndpoint", h, err)
	}
	ep.close()
	b.metrics.RecordEndpointDestroyed()

	logrus.WithFields(logrus.Fields{
		"function": "DestroyCallEndpoint",
		"handle":   int64(h),
	}).Info("Call endpoint destroyed")
	return nil
}

// Close destroys every endpoint, then detaches from the host. It is
// idempotent.
func (b *Bridge) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	b.closed = true

	endpoints := b.endpoints.Drain()
	for _, ep := range endpoints {
		ep.close()
		b.metrics.RecordEndpointDestroyed()
	}
	b.host.Close()

	logrus.WithFields(logrus.Fields{
		"function":  "Close",
		"endpoints": len(endpoints),
	}).Info("Bridge closed")
	return nil
}

// with resolves h and runs fn against its endpoint. Every entry point goes
// through here.
func (b *Bridge) with(entry string, h handle.Handle, fn func(ep *CallEndpoint) error) error {
	ep, err := b.endpoints.Resolve(h)
	if err != nil {
		return b.fail(entry, h, err)
	}
	if err := fn(ep); err != nil {
		return b.fail(entry, h, err)
	}
	return nil
}

func (b *Bridge) fail(entry string, h handle.Handle, err error) error {
	class := Classify(err)
	b.metrics.RecordEntryPointError(entry, class)
	logrus.WithFields(logrus.Fields{
		"function": entry,
		"handle":   int64(h),
		"class":    class,
		"error":    err.Error(),
	}).Error("Entry point failed")
	return err
}

// engineError marks err as coming from the call engine.
func engineError(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrEngine, err)
}

// decodeError marks err as a decoding failure of host input.
func decodeError(what string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrDecode, what, err)
}
