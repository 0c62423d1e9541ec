package reporter

import (
	"runtime"
	"sync"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opd-ai/tring/callback"
	"github.com/opd-ai/tring/engine"
	"github.com/opd-ai/tring/host"
)

// threadRuntime marks the attaching OS thread as pending until a table
// callback consumes it on the same thread.
type threadRuntime struct {
	*host.Recorder
	mu      sync.Mutex
	pending map[int]bool
	foreign int
}

func (r *threadRuntime) AttachCurrentThread() (host.Env, error) {
	tid := syscall.Gettid()
	r.mu.Lock()
	r.pending[tid] = true
	r.mu.Unlock()
	runtime.Gosched()
	return r.Recorder.AttachCurrentThread()
}

func (r *threadRuntime) consume() {
	tid := syscall.Gettid()
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.pending[tid] {
		r.foreign++
	}
	delete(r.pending, tid)
}

func TestSendCallsHostOnAttachedThread(t *testing.T) {
	rt := &threadRuntime{Recorder: host.NewRecorder(), pending: make(map[int]bool)}
	table := callback.NewRecorder().Table()
	table.Status = func(uint64, uint64, int32, int32) {
		runtime.Gosched()
		rt.consume()
	}
	ref, err := callback.New(table)
	require.NoError(t, err)
	ctx, err := host.Init(rt)
	require.NoError(t, err)
	r, err := New(ref, Options{Host: ctx})
	require.NoError(t, err)

	const workers, sends = 32, 100
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for j := 0; j < sends; j++ {
				_ = r.HandleCallState("peer", engine.CallID(id*sends+j), engine.State(engine.CallStateRinging))
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, workers*sends, rt.Attaches())
	assert.Zero(t, rt.foreign)
}
