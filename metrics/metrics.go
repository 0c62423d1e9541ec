// Package metrics exposes Prometheus instrumentation for the bridge: event
// dispatch outcomes, host callback failures, frame sink traffic and entry
// point errors.
//
// All Record methods are safe on a nil *Metrics, so components can be built
// without instrumentation.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "tring"

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Event metrics
	EventsDispatched *prometheus.CounterVec
	EventsDropped    *prometheus.CounterVec
	CallbackFailures *prometheus.CounterVec
	Reports          prometheus.Counter

	// Frame metrics
	FramesPushed      prometheus.Counter
	FramesPopped      prometheus.Counter
	FramesOverwritten prometheus.Counter
	FramesSent        prometheus.Counter

	// Endpoint metrics
	ActiveEndpoints    prometheus.Gauge
	ActiveGroupClients prometheus.Gauge
	EntryPointErrors   *prometheus.CounterVec
}

// New creates all metrics and registers them with reg. A nil reg leaves
// the metrics unregistered.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		EventsDispatched: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_dispatched_total",
			Help:      "Engine events delivered to the host",
		}, []string{"kind"}),
		EventsDropped: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_dropped_total",
			Help:      "Engine events not delivered to the host",
		}, []string{"kind", "reason"}),
		CallbackFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "callback_failures_total",
			Help:      "Host callback invocations that failed",
		}, []string{"entry"}),
		Reports: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reports_total",
			Help:      "Engine milestone reports forwarded",
		}),

		FramesPushed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frames_pushed_total",
			Help:      "Remote frames stored in the frame sink",
		}),
		FramesPopped: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frames_popped_total",
			Help:      "Remote frames taken by the host",
		}),
		FramesOverwritten: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frames_overwritten_total",
			Help:      "Remote frames replaced before the host read them",
		}),
		FramesSent: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frames_sent_total",
			Help:      "Local frames pushed to the outgoing video source",
		}),

		ActiveEndpoints: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_endpoints",
			Help:      "Live call endpoints",
		}),
		ActiveGroupClients: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_group_clients",
			Help:      "Live group call clients across endpoints",
		}),
		EntryPointErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "entry_point_errors_total",
			Help:      "Host entry point calls that returned an error",
		}, []string{"entry", "class"}),
	}
}

// RecordDispatched counts a delivered event.
func (m *Metrics) RecordDispatched(kind string) {
	if m == nil {
		return
	}
	m.EventsDispatched.WithLabelValues(kind).Inc()
}

// RecordDropped counts an undelivered event.
func (m *Metrics) RecordDropped(kind, reason string) {
	if m == nil {
		return
	}
	m.EventsDropped.WithLabelValues(kind, reason).Inc()
}

// RecordCallbackFailure counts a failed host callback.
func (m *Metrics) RecordCallbackFailure(entry string) {
	if m == nil {
		return
	}
	m.CallbackFailures.WithLabelValues(entry).Inc()
}

// RecordReport counts a forwarded milestone report.
func (m *Metrics) RecordReport() {
	if m == nil {
		return
	}
	m.Reports.Inc()
}

// RecordFramePushed counts a stored remote frame.
func (m *Metrics) RecordFramePushed(overwritten bool) {
	if m == nil {
		return
	}
	m.FramesPushed.Inc()
	if overwritten {
		m.FramesOverwritten.Inc()
	}
}

// RecordFramePopped counts a remote frame handed to the host.
func (m *Metrics) RecordFramePopped() {
	if m == nil {
		return
	}
	m.FramesPopped.Inc()
}

// RecordFrameSent counts a local frame pushed to the video source.
func (m *Metrics) RecordFrameSent() {
	if m == nil {
		return
	}
	m.FramesSent.Inc()
}

// RecordEndpointCreated increments the live endpoint gauge.
func (m *Metrics) RecordEndpointCreated() {
	if m == nil {
		return
	}
	m.ActiveEndpoints.Inc()
}

// RecordEndpointDestroyed decrements the live endpoint gauge.
func (m *Metrics) RecordEndpointDestroyed() {
	if m == nil {
		return
	}
	m.ActiveEndpoints.Dec()
}

// RecordGroupClients adjusts the live group client gauge by delta.
func (m *Metrics) RecordGroupClients(delta int) {
	if m == nil {
		return
	}
	m.ActiveGroupClients.Add(float64(delta))
}

// RecordEntryPointError counts a failed entry point call.
func (m *Metrics) RecordEntryPointError(entry, class string) {
	if m == nil {
		return
	}
	m.EntryPointErrors.WithLabelValues(entry, class).Inc()
}
