package main

import (
	"errors"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/opd-ai/tring"
	"github.com/opd-ai/tring/callback"
	"github.com/opd-ai/tring/engine"
	"github.com/opd-ai/tring/handle"
	"github.com/opd-ai/tring/host"
)

// libraryVersion is returned by getVersion.
const libraryVersion = 1

// The library keeps one bridge per process, created by initRingRTC and
// closed by shutdownRingRTC.
var (
	stateMu sync.RWMutex
	bridge  *tring.Bridge
	bound   host.Runtime
)

// freer is a runtime holding C memory that must outlive its bridge.
type freer interface {
	free()
}

// errNotInitialized is returned before initRingRTC and after
// shutdownRingRTC. No handle is valid in that window.
var errNotInitialized = fmt.Errorf("%w: library not initialized", tring.ErrInvalidHandle)

// initBridge replaces the process bridge with one bound to rt. Options are
// read from the environment. On error rt is not bound and stays with the
// caller.
func initBridge(rt host.Runtime) error {
	opts, err := tring.OptionsFromEnv()
	if err != nil {
		return err
	}
	b, err := tring.New(opts, rt)
	if err != nil {
		return err
	}

	stateMu.Lock()
	previous, previousRT := bridge, bound
	bridge, bound = b, rt
	stateMu.Unlock()

	if previous != nil {
		logrus.WithField("function", "initBridge").Warn("Replacing initialized bridge")
		if err := closeBridge(previous, previousRT); err != nil {
			logrus.WithFields(logrus.Fields{
				"function": "initBridge",
				"error":    err.Error(),
			}).Error("Failed to close replaced bridge")
		}
	}
	return nil
}

// shutdownBridge closes the process bridge, destroying every endpoint.
func shutdownBridge() error {
	stateMu.Lock()
	b, rt := bridge, bound
	bridge, bound = nil, nil
	stateMu.Unlock()

	if b == nil {
		return nil
	}
	return closeBridge(b, rt)
}

// closeBridge closes b, then frees the runtime it was bound to.
func closeBridge(b *tring.Bridge, rt host.Runtime) error {
	err := b.Close()
	if f, ok := rt.(freer); ok {
		f.free()
	}
	return err
}

func current() (*tring.Bridge, error) {
	stateMu.RLock()
	defer stateMu.RUnlock()
	if bridge == nil {
		return nil, errNotInitialized
	}
	return bridge, nil
}

// withBridge runs fn against the process bridge and returns its status code.
func withBridge(fn func(b *tring.Bridge) error) int64 {
	b, err := current()
	if err != nil {
		return tring.StatusCode(err)
	}
	return tring.StatusCode(fn(b))
}

// createEndpoint creates an endpoint on the process bridge.
func createEndpoint(table callback.Table) (handle.Handle, error) {
	b, err := current()
	if err != nil {
		return 0, err
	}
	return b.CreateCallEndpoint(table)
}

// accepted reports whether a failed createEndpoint still took ownership of
// the table, so that its Destroy has run.
func accepted(err error) bool {
	return !errors.Is(err, callback.ErrIncompleteTable) &&
		!errors.Is(err, tring.ErrBridgeClosed) &&
		!errors.Is(err, errNotInitialized)
}

// createGroupClient returns the new client id, or a negative status.
func createGroupClient(h handle.Handle, groupID []byte, sfuURL string, hkdfExtraInfo []byte) int64 {
	b, err := current()
	if err != nil {
		return tring.StatusCode(err)
	}
	id, err := b.CreateGroupCallClient(h, groupID, sfuURL, hkdfExtraInfo)
	if err != nil {
		return tring.StatusCode(err)
	}
	return int64(id)
}

// fillFrame returns the packed dimensions of the written frame, 0 when no
// frame was waiting, or a negative status.
func fillFrame(h handle.Handle, demuxID engine.DemuxID, out []byte) int64 {
	b, err := current()
	if err != nil {
		return tring.StatusCode(err)
	}
	packed, err := b.FillRemoteVideoFrame(h, uint32(demuxID), out)
	if err != nil {
		return tring.StatusCode(err)
	}
	return packed
}
