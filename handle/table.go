// Package handle maps opaque 64-bit handles given to the host back to Go
// objects.
//
// A handle encodes a slot index and the slot's generation. Removing an
// object bumps the generation, so a handle kept by the host after destroy
// resolves to ErrInvalidHandle instead of reaching a reused slot. Zero is
// never a valid handle.
package handle

import (
	"errors"
	"fmt"
	"sync"
)

// ErrInvalidHandle indicates a null, unknown, stale or removed handle.
var ErrInvalidHandle = errors.New("invalid handle")

// Handle is the opaque value passed across the boundary.
type Handle int64

const (
	indexBits      = 32
	indexMask      = 1<<indexBits - 1
	generationMask = 1<<31 - 1
)

func makeHandle(index uint32, generation uint32) Handle {
	return Handle(int64(generation&generationMask)<<indexBits | int64(index+1))
}

func (h Handle) split() (index uint32, generation uint32, ok bool) {
	if h <= 0 {
		return 0, 0, false
	}
	low := uint32(int64(h) & indexMask)
	if low == 0 {
		return 0, 0, false
	}
	return low - 1, uint32(int64(h) >> indexBits), true
}

type slot[T any] struct {
	value      T
	generation uint32
	live       bool
}

// Table is a concurrency-safe generation-checked slot map.
type Table[T any] struct {
	mu    sync.RWMutex
	slots []slot[T]
	free  []uint32
	live  int
}

// NewTable returns an empty table.
func NewTable[T any]() *Table[T] {
	return &Table[T]{}
}

// Insert stores v and returns its handle.
func (t *Table[T]) Insert(v T) Handle {
	t.mu.Lock()
	defer t.mu.Unlock()

	var index uint32
	if n := len(t.free); n > 0 {
		index = t.free[n-1]
		t.free = t.free[:n-1]
	} else {
		index = uint32(len(t.slots))
		t.slots = append(t.slots, slot[T]{generation: 1})
	}
	s := &t.slots[index]
	s.value = v
	s.live = true
	t.live++
	return makeHandle(index, s.generation)
}

func (t *Table[T]) lookup(h Handle) (*slot[T], uint32, error) {
	index, generation, ok := h.split()
	if !ok {
		return nil, 0, fmt.Errorf("%w: null handle", ErrInvalidHandle)
	}
	if int(index) >= len(t.slots) {
		return nil, 0, fmt.Errorf("%w: unknown handle %d", ErrInvalidHandle, h)
	}
	s := &t.slots[index]
	if !s.live || s.generation&generationMask != generation {
		return nil, 0, fmt.Errorf("%w: stale handle %d", ErrInvalidHandle, h)
	}
	return s, index, nil
}

// Resolve returns the object for h.
func (t *Table[T]) Resolve(h Handle) (T, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	s, _, err := t.lookup(h)
	if err != nil {
		var zero T
		return zero, err
	}
	return s.value, nil
}

// Remove deletes the object for h and returns it. The handle and every
// copy of it become invalid.
func (t *Table[T]) Remove(h Handle) (T, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	var zero T
	s, index, err := t.lookup(h)
	if err != nil {
		return zero, err
	}
	v := s.value
	s.value = zero
	s.live = false
	s.generation++
	if s.generation&generationMask == 0 {
		s.generation = 1
	}
	t.free = append(t.free, index)
	t.live--
	return v, nil
}

// Len returns the number of live objects.
func (t *Table[T]) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.live
}

// Drain removes and returns every live object.
func (t *Table[T]) Drain() []T {
	t.mu.Lock()
	defer t.mu.Unlock()

	var zero T
	out := make([]T, 0, t.live)
	for i := range t.slots {
		s := &t.slots[i]
		if !s.live {
			continue
		}
		out = append(out, s.value)
		s.value = zero
		s.live = false
		s.generation++
		if s.generation&generationMask == 0 {
			s.generation = 1
		}
		t.free = append(t.free, uint32(i))
	}
	t.live = 0
	return out
}
