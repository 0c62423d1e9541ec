package reporter

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opd-ai/tring/callback"
	"github.com/opd-ai/tring/engine"
	"github.com/opd-ai/tring/event"
	"github.com/opd-ai/tring/host"
	"github.com/opd-ai/tring/metrics"
)

type fixture struct {
	reporter *Reporter
	table    *callback.Recorder
	host     *host.Recorder
	metrics  *metrics.Metrics
	reports  *atomic.Int32
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		table:   callback.NewRecorder(),
		host:    host.NewRecorder(),
		metrics: metrics.New(prometheus.NewRegistry()),
		reports: new(atomic.Int32),
	}
	ref, err := callback.New(f.table.Table())
	require.NoError(t, err)
	ctx, err := host.Init(f.host)
	require.NoError(t, err)

	f.reporter, err = New(ref, Options{
		Host:     ctx,
		Metrics:  f.metrics,
		OnReport: func() { f.reports.Add(1) },
	})
	require.NoError(t, err)
	return f
}

func TestNewRequiresTable(t *testing.T) {
	_, err := New(nil, Options{})
	assert.ErrorIs(t, err, ErrNilTable)
}

func TestAttachFailureDropsEvent(t *testing.T) {
	f := newFixture(t)
	f.host.RefuseAttach(true)

	err := f.reporter.HandleCallState("peer", 42, engine.State(engine.CallStateRinging))
	require.NoError(t, err)

	assert.Empty(t, f.table.Calls())
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.EventsDropped.WithLabelValues("call_state", "attach")))
}

func TestNilHostDropsEvent(t *testing.T) {
	ref, err := callback.New(callback.NewRecorder().Table())
	require.NoError(t, err)
	r, err := New(ref, Options{})
	require.NoError(t, err)

	assert.NoError(t, r.HandleRemoteAudioState("peer", true))
}

func TestReportIsOneShotAcrossClones(t *testing.T) {
	f := newFixture(t)
	clone, err := f.reporter.Clone()
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(2)
		go func() { defer wg.Done(); f.reporter.Report() }()
		go func() { defer wg.Done(); clone.Report() }()
	}
	wg.Wait()

	assert.Equal(t, int32(1), f.reports.Load())
	assert.True(t, clone.Reported())
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.Reports))
}

func TestCloneSharesTableLifetime(t *testing.T) {
	f := newFixture(t)
	clone, err := f.reporter.Clone()
	require.NoError(t, err)

	f.reporter.Release()
	assert.Equal(t, 0, f.table.Destroyed())

	require.NoError(t, clone.HandleCallState("peer", 1, engine.State(engine.CallStateConnected)))
	assert.Len(t, f.table.CallsTo("Status"), 1)

	clone.Release()
	assert.Equal(t, 1, f.table.Destroyed())
}

func TestSendAfterReleaseFails(t *testing.T) {
	f := newFixture(t)
	f.reporter.Release()

	err := f.reporter.HandleCallState("peer", 1, engine.State(engine.CallStateConnected))
	var dispatchErr *DispatchError
	require.ErrorAs(t, err, &dispatchErr)
	assert.Equal(t, "call_state", dispatchErr.Kind)
	assert.ErrorIs(t, err, callback.ErrReleased)
}

func TestHostPanicBecomesDispatchError(t *testing.T) {
	rec := callback.NewRecorder()
	table := rec.Table()
	table.GroupEnded = func(uint32, int32) { panic("boom") }
	ref, err := callback.New(table)
	require.NoError(t, err)
	ctx, err := host.Init(host.NewRecorder())
	require.NoError(t, err)
	m := metrics.New(prometheus.NewRegistry())
	r, err := New(ref, Options{Host: ctx, Metrics: m})
	require.NoError(t, err)

	err = r.HandleGroupUpdate(engine.GroupCallEnded{ClientID: 3})
	assert.ErrorIs(t, err, callback.ErrCallbackPanic)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CallbackFailures.WithLabelValues("GroupEnded")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.EventsDropped.WithLabelValues("group_ended", "failed")))
}

type unknownEvent struct{}

func (unknownEvent) Kind() event.Kind { return event.Kind(1000) }

func TestUnknownEventIsDropped(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.reporter.Send(unknownEvent{}))
	assert.Empty(t, f.table.Calls())
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.EventsDropped.WithLabelValues("kind(1000)", "unhandled")))
}

func TestConcurrentSend(t *testing.T) {
	f := newFixture(t)
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			assert.NoError(t, f.reporter.HandleCallState("peer", engine.CallID(id), engine.State(engine.CallStateRinging)))
		}(i)
	}
	wg.Wait()
	assert.Len(t, f.table.CallsTo("Status"), 32)
	assert.Equal(t, 32.0, testutil.ToFloat64(f.metrics.EventsDispatched.WithLabelValues("call_state")))
}
