package callback

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/sirupsen/logrus"
)

type shared struct {
	table  Table
	owners atomic.Int64

	// mu guards the fields below. Destroy runs only once finalized is set
	// and no Invoke is in flight.
	mu        sync.Mutex
	inflight  int
	finalized bool
	destroyed bool
}

// Ref is one owner of a shared callback table.
type Ref struct {
	s        *shared
	released atomic.Bool
}

// New validates t and returns its first owner.
//
// Returns:
//   - *Ref: the owning reference
//   - error: ErrIncompleteTable naming the nil entries
func New(t Table) (*Ref, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	s := &shared{table: t}
	s.owners.Store(1)
	return &Ref{s: s}, nil
}

// Clone adds an owner of the same table.
func (r *Ref) Clone() (*Ref, error) {
	if r.released.Load() {
		return nil, ErrReleased
	}
	r.s.owners.Add(1)
	return &Ref{s: r.s}, nil
}

// Release drops this owner. Releasing twice is a no-op. It reports whether
// this call finalized the table. Destroy runs immediately, or when the last
// in-flight Invoke returns.
func (r *Ref) Release() bool {
	if r.released.Swap(true) {
		return false
	}
	if r.s.owners.Add(-1) > 0 {
		return false
	}
	return r.s.finalize()
}

// Owners returns the number of live owners of the shared table.
func (r *Ref) Owners() int64 {
	return r.s.owners.Load()
}

// Invoke calls fn with the table. entry names the table entry for logs.
// Destroy never runs while fn is executing.
func (r *Ref) Invoke(entry string, fn func(t *Table)) (err error) {
	if r.released.Load() || !r.s.enter() {
		return fmt.Errorf("%w: %s", ErrReleased, entry)
	}
	defer r.s.leave()
	defer func() {
		if p := recover(); p != nil {
			logrus.WithFields(logrus.Fields{
				"function": "Invoke",
				"entry":    entry,
				"panic":    p,
			}).Error("Host callback panicked")
			err = fmt.Errorf("%w: %s: %v", ErrCallbackPanic, entry, p)
		}
	}()
	fn(&r.s.table)
	return nil
}

func (s *shared) enter() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.finalized {
		return false
	}
	s.inflight++
	return true
}

func (s *shared) leave() {
	s.mu.Lock()
	s.inflight--
	run := s.readyLocked()
	s.mu.Unlock()
	if run {
		s.destroy()
	}
}

// readyLocked claims the Destroy call when nothing blocks it.
func (s *shared) readyLocked() bool {
	if !s.finalized || s.destroyed || s.inflight > 0 {
		return false
	}
	s.destroyed = true
	return true
}

func (s *shared) finalize() bool {
	s.mu.Lock()
	if s.finalized {
		s.mu.Unlock()
		return false
	}
	s.finalized = true
	run := s.readyLocked()
	inflight := s.inflight
	s.mu.Unlock()

	if run {
		s.destroy()
	} else {
		logrus.WithFields(logrus.Fields{
			"function": "finalize",
			"inflight": inflight,
		}).Debug("Deferring destroy until callbacks return")
	}
	return true
}

func (s *shared) destroy() {
	defer func() {
		if p := recover(); p != nil {
			logrus.WithFields(logrus.Fields{
				"function": "destroy",
				"panic":    p,
			}).Error("Host destroy callback panicked")
		}
	}()
	logrus.WithField("function", "destroy").Debug("Destroying callback table")
	s.table.Destroy()
}
