package reporter

import (
	"errors"
	"runtime"
	"sync/atomic"

	"github.com/sirupsen/logrus"

	"github.com/opd-ai/tring/callback"
	"github.com/opd-ai/tring/event"
	"github.com/opd-ai/tring/host"
	"github.com/opd-ai/tring/metrics"
)

// DefaultMaxPeekDevices is the device limit reported with every peek.
const DefaultMaxPeekDevices = 50

// Options configures a Reporter.
type Options struct {
	// Host is used to attach before every event. A nil Host drops every event.
	Host    *host.Context
	Metrics *metrics.Metrics
	// MaxPeekDevices is reported with peeks. Zero means DefaultMaxPeekDevices.
	MaxPeekDevices int64
	// OnReport runs once, on the first Report call of any clone.
	OnReport func()
}

// Reporter dispatches engine events to the host. Clones share the callback
// table and the one-shot report flag.
type Reporter struct {
	table          *callback.Ref
	host           *host.Context
	metrics        *metrics.Metrics
	maxPeekDevices int64
	reported       *atomic.Bool
	onReport       func()
}

// New returns a reporter that owns table.
func New(table *callback.Ref, opts Options) (*Reporter, error) {
	if table == nil {
		return nil, ErrNilTable
	}
	maxDevices := opts.MaxPeekDevices
	if maxDevices == 0 {
		maxDevices = DefaultMaxPeekDevices
	}
	return &Reporter{
		table:          table,
		host:           opts.Host,
		metrics:        opts.Metrics,
		maxPeekDevices: maxDevices,
		reported:       new(atomic.Bool),
		onReport:       opts.OnReport,
	}, nil
}

// Clone returns a reporter sharing the same table. The clone must be
// released independently.
func (r *Reporter) Clone() (*Reporter, error) {
	ref, err := r.table.Clone()
	if err != nil {
		return nil, err
	}
	clone := *r
	clone.table = ref
	return &clone, nil
}

// Release drops this reporter's share of the table. The table's Destroy
// runs when the last share is released.
func (r *Reporter) Release() {
	if r.table.Release() {
		logrus.WithField("function", "Release").Debug("Callback table finalized")
	}
}

// Report forwards the engine's milestone signal. Only the first call across
// all clones has an effect.
func (r *Reporter) Report() {
	if r.reported.Swap(true) {
		return
	}
	logrus.WithField("function", "Report").Info("Engine reported")
	r.metrics.RecordReport()
	if r.onReport != nil {
		r.onReport()
	}
}

// Reported reports whether Report has run.
func (r *Reporter) Reported() bool {
	return r.reported.Load()
}

// Send delivers one event to the host. It is safe for concurrent use. The
// attach and every host call for the event run on one OS thread.
//
// Returns:
//   - nil when the event was delivered, dropped because the host could not
//     be attached, or has no host translation
//   - *DispatchError when the host call failed
func (r *Reporter) Send(ev event.Event) error {
	label := event.Label(ev)

	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	env, err := r.host.Attach()
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"function": "Send",
			"event":    label,
			"error":    err.Error(),
		}).Warn("Dropping event, host not attached")
		r.metrics.RecordDropped(label, "attach")
		return nil
	}

	handler, ok := dispatchTable[ev.Kind()]
	if ok {
		err = handler(r, env, ev)
	} else {
		err = errUnhandled
	}

	switch {
	case err == nil:
		r.metrics.RecordDispatched(label)
		return nil
	case errors.Is(err, errUnhandled):
		logrus.WithFields(logrus.Fields{
			"function": "Send",
			"event":    label,
		}).Info("Unhandled event")
		r.metrics.RecordDropped(label, "unhandled")
		return nil
	default:
		logrus.WithFields(logrus.Fields{
			"function": "Send",
			"event":    label,
			"error":    err.Error(),
		}).Error("Event dispatch failed")
		r.metrics.RecordDropped(label, "failed")
		return &DispatchError{Kind: label, Err: err}
	}
}

// invoke calls one table entry and records failures.
func (r *Reporter) invoke(entry string, fn func(t *callback.Table)) error {
	if err := r.table.Invoke(entry, fn); err != nil {
		r.metrics.RecordCallbackFailure(entry)
		return err
	}
	return nil
}

// owned copies engine bytes handed to the host.
func owned(b []byte) []byte {
	if b == nil {
		return nil
	}
	return append(make([]byte, 0, len(b)), b...)
}
