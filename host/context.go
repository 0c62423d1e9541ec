package host

import (
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
)

// PeekArgs is the record passed with peek results and peek changes.
type PeekArgs struct {
	// Members holds the distinct user ids of joined devices.
	Members [][]byte
	// Creator is nil when the call creator is unknown.
	Creator []byte
	// EraID is nil when no call is in progress.
	EraID       *string
	MaxDevices  int64
	DeviceCount int64
}

// HTTPRequestArgs is a request handed to the host for execution.
type HTTPRequestArgs struct {
	URL       string
	Method    int8
	RequestID int32
	// Headers and Body are packed as produced by codec.EncodeHeaders and
	// codec.EncodeBody.
	Headers []byte
	Body    []byte
}

// Env is an attached view of the host runtime, valid on the goroutine that
// obtained it for the duration of one event.
type Env interface {
	RemoteDevicesChanged(clientID uint32, demuxIDs []int64) error
	PeekResult(requestID uint32, args PeekArgs) error
	PeekChanged(clientID uint32, args PeekArgs) error
	MakeHTTPRequest(args HTTPRequestArgs) error
}

// Runtime attaches the calling thread to the host.
type Runtime interface {
	AttachCurrentThread() (Env, error)
}

// Context is the process-scoped host state shared by all endpoints.
type Context struct {
	mu      sync.RWMutex
	runtime Runtime
}

// Init binds a context to the runtime.
func Init(rt Runtime) (*Context, error) {
	if rt == nil {
		return nil, ErrNilRuntime
	}
	logrus.WithField("function", "Init").Info("Host context initialized")
	return &Context{runtime: rt}, nil
}

// Attach attaches the calling goroutine and returns its Env.
func (c *Context) Attach() (Env, error) {
	if c == nil {
		return nil, ErrNotInitialized
	}
	c.mu.RLock()
	rt := c.runtime
	c.mu.RUnlock()
	if rt == nil {
		return nil, ErrNotInitialized
	}

	env, err := rt.AttachCurrentThread()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAttachFailed, err)
	}
	if env == nil {
		return nil, fmt.Errorf("%w: runtime returned no environment", ErrAttachFailed)
	}
	return env, nil
}

// Initialized reports whether the context can attach.
func (c *Context) Initialized() bool {
	if c == nil {
		return false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.runtime != nil
}

// Close detaches the context from the runtime. It is idempotent.
func (c *Context) Close() {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.runtime != nil {
		c.runtime = nil
		logrus.WithField("function", "Close").Info("Host context closed")
	}
}
