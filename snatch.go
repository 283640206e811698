package rescore

import "sync"

// Snatchable wraps a value that can be "snatched" (taken) for
// destruction exactly once, even while other goroutines may still be
// reading it through a SnatchGuard. rescore uses this for an
// ArgumentBufferArray's element bindings, which can be updated
// in-place (Replace) and individually read right up until the array
// itself is disposed (Snatch), even while a concurrent render graph
// still holds a guard open for in-flight reads.
//
// Reused near-verbatim from the teacher, which itself grounds the
// pattern on Rust wgpu-core's snatch cell.
type Snatchable[T any] struct {
	mu       sync.RWMutex
	value    *T
	snatched bool
}

// NewSnatchable wraps value for snatched access.
func NewSnatchable[T any](value T) *Snatchable[T] {
	return &Snatchable[T]{value: &value}
}

// guardToken is held by both SnatchGuard and ExclusiveSnatchGuard, so
// Get accepts either: an exclusive holder may always read, it just
// additionally excludes other readers.
type guardToken interface {
	heldOn() *SnatchLock
}

// Get returns the wrapped value, or nil once it has been snatched.
// The caller must hold a SnatchGuard or ExclusiveSnatchGuard for the
// duration of the access.
func (s *Snatchable[T]) Get(_ guardToken) *T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.snatched {
		return nil
	}
	return s.value
}

// Snatch takes the wrapped value for destruction. Succeeds at most
// once; later calls return nil. The caller must hold an
// ExclusiveSnatchGuard.
func (s *Snatchable[T]) Snatch(_ *ExclusiveSnatchGuard) *T {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.snatched {
		return nil
	}
	s.snatched = true
	v := s.value
	s.value = nil
	return v
}

// Replace atomically swaps in newValue, returning the previous value
// (or nil if already snatched, in which case the swap does not
// happen). The caller must hold an ExclusiveSnatchGuard. This
// supports in-place updates to a Snatchable that is mutated
// repeatedly before an eventual one-time Snatch — an
// ArgumentBufferArray's per-element bindings, for instance.
func (s *Snatchable[T]) Replace(_ *ExclusiveSnatchGuard, newValue T) *T {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.snatched {
		return nil
	}
	old := s.value
	s.value = &newValue
	return old
}

// IsSnatched reports whether the value has already been taken.
func (s *Snatchable[T]) IsSnatched() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snatched
}

// SnatchLock coordinates many concurrent readers of Snatchable values
// against the single goroutine allowed to snatch one.
type SnatchLock struct {
	mu sync.RWMutex
}

// NewSnatchLock creates an unlocked SnatchLock.
func NewSnatchLock() *SnatchLock {
	return &SnatchLock{}
}

// Read acquires a shared guard. Release it exactly once when done.
func (l *SnatchLock) Read() *SnatchGuard {
	l.mu.RLock()
	return &SnatchGuard{lock: l}
}

// Write acquires the exclusive guard required to call Snatch.
func (l *SnatchLock) Write() *ExclusiveSnatchGuard {
	l.mu.Lock()
	return &ExclusiveSnatchGuard{lock: l}
}

// SnatchGuard is a held shared lock. Release exactly once.
type SnatchGuard struct {
	lock     *SnatchLock
	released bool
}

func (g *SnatchGuard) heldOn() *SnatchLock { return g.lock }

// Release releases the shared lock. Idempotent.
func (g *SnatchGuard) Release() {
	if g.released {
		return
	}
	g.released = true
	g.lock.mu.RUnlock()
}

// ExclusiveSnatchGuard is a held exclusive lock. Release exactly once.
type ExclusiveSnatchGuard struct {
	lock     *SnatchLock
	released bool
}

func (g *ExclusiveSnatchGuard) heldOn() *SnatchLock { return g.lock }

// Release releases the exclusive lock. Idempotent.
func (g *ExclusiveSnatchGuard) Release() {
	if g.released {
		return
	}
	g.released = true
	g.lock.mu.Unlock()
}
