package host

import (
	"errors"
	"sync"
)

// ErrAttachRefused is returned by a Recorder configured to refuse attachment.
var ErrAttachRefused = errors.New("attach refused")

// Recorder is an in-memory Runtime and Env. Go hosts use it to receive the
// list-valued notifications without a foreign runtime.
type Recorder struct {
	mu           sync.Mutex
	refuseAttach bool
	attaches     int
	remote       map[uint32][][]int64
	peekResults  map[uint32]PeekArgs
	peekChanges  map[uint32][]PeekArgs
	requests     []HTTPRequestArgs
}

// NewRecorder returns an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{
		remote:      make(map[uint32][][]int64),
		peekResults: make(map[uint32]PeekArgs),
		peekChanges: make(map[uint32][]PeekArgs),
	}
}

// RefuseAttach makes subsequent attachments fail.
func (r *Recorder) RefuseAttach(refuse bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.refuseAttach = refuse
}

// AttachCurrentThread implements Runtime.
func (r *Recorder) AttachCurrentThread() (Env, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.refuseAttach {
		return nil, ErrAttachRefused
	}
	r.attaches++
	return r, nil
}

// RemoteDevicesChanged implements Env.
func (r *Recorder) RemoteDevicesChanged(clientID uint32, demuxIDs []int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.remote[clientID] = append(r.remote[clientID], append([]int64(nil), demuxIDs...))
	return nil
}

// PeekResult implements Env.
func (r *Recorder) PeekResult(requestID uint32, args PeekArgs) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.peekResults[requestID] = args
	return nil
}

// PeekChanged implements Env.
func (r *Recorder) PeekChanged(clientID uint32, args PeekArgs) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.peekChanges[clientID] = append(r.peekChanges[clientID], args)
	return nil
}

// MakeHTTPRequest implements Env.
func (r *Recorder) MakeHTTPRequest(args HTTPRequestArgs) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.requests = append(r.requests, args)
	return nil
}

// Attaches returns the number of successful attachments.
func (r *Recorder) Attaches() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.attaches
}

// RemoteDevices returns every device list reported for a client.
func (r *Recorder) RemoteDevices(clientID uint32) [][]int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([][]int64(nil), r.remote[clientID]...)
}

// PeekResultFor returns the peek result delivered for a request.
func (r *Recorder) PeekResultFor(requestID uint32) (PeekArgs, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	args, ok := r.peekResults[requestID]
	return args, ok
}

// PeekChanges returns every peek change reported for a client.
func (r *Recorder) PeekChanges(clientID uint32) []PeekArgs {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]PeekArgs(nil), r.peekChanges[clientID]...)
}

// Requests returns the HTTP requests handed to the host.
func (r *Recorder) Requests() []HTTPRequestArgs {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]HTTPRequestArgs(nil), r.requests...)
}
