package native

import "go.uber.org/atomic"

// Handle is the ownership slot of one opaque native handle. The zero value
// is an empty slot. Take empties it atomically, so of several concurrent
// closers exactly one observes the handle.
type Handle struct {
	v atomic.Uintptr
}

// NewHandle returns a slot owning h.
func NewHandle(h uintptr) *Handle {
	s := &Handle{}
	s.v.Store(h)
	return s
}

// Load returns the owned handle, or 0 once taken.
func (s *Handle) Load() uintptr { return s.v.Load() }

// Take returns the owned handle and leaves the slot empty.
func (s *Handle) Take() uintptr { return s.v.Swap(0) }
