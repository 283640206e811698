// Package track records GPU resource usage and the transitions that
// usage implies, generalizing the teacher's core/track package (which
// tracked buffer usage only) to any resource kind. rescore's
// HazardTrackingGroup is built directly on Scope.
package track

import (
	"fmt"
	"sync"
)

// Usage is a bitset of the ways a resource can be touched by a render
// graph pass. It plays the role the teacher's track.BufferUses played
// for buffers, widened to also cover textures and argument-buffer
// bindings sharing one hazard-tracking group.
type Usage uint32

const (
	// UsageRead marks a non-exclusive read (shader read, vertex/index
	// fetch, blit source).
	UsageRead Usage = 1 << iota
	// UsageWrite marks an exclusive write (shader write, blit
	// destination, render target write).
	UsageWrite
	// UsageRenderTarget marks use as a color or depth/stencil attachment.
	UsageRenderTarget
	// UsageIndirectArgument marks use as an indirect-dispatch/draw buffer.
	UsageIndirectArgument
)

// Exclusive reports whether u may not be combined with any other
// pending usage in the same scope without a transition (writes and
// render-target attachment are exclusive; plain reads are not).
func (u Usage) Exclusive() bool {
	return u&(UsageWrite|UsageRenderTarget) != 0
}

// String renders u for debug logging.
func (u Usage) String() string {
	if u == 0 {
		return "none"
	}
	s := ""
	add := func(bit Usage, name string) {
		if u&bit != 0 {
			if s != "" {
				s += "|"
			}
			s += name
		}
	}
	add(UsageRead, "read")
	add(UsageWrite, "write")
	add(UsageRenderTarget, "render-target")
	add(UsageIndirectArgument, "indirect-argument")
	return s
}

// PendingTransition describes a usage change a backend must emit a
// barrier for before the new usage may proceed, mirroring the
// teacher's track.PendingTransition.
type PendingTransition struct {
	ID  int
	Old Usage
	New Usage
}

// ConflictError reports two usages within one render graph pass that
// cannot be reconciled without an intervening synchronization point
// the scope does not know how to insert (e.g. a resource both read
// and used as a render target in the same pass with no ordering
// given), mirroring the teacher's track.UsageConflictError.
type ConflictError struct {
	ID       int
	Existing Usage
	New      Usage
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("track: resource %d: conflicting usage %s vs %s", e.ID, e.Existing, e.New)
}

// Scope accumulates usage for a set of resources (identified by an
// opaque integer id — rescore passes a Handle's Index) within one
// render graph pass, and reports the transitions needed to move from
// prior usage to the merged usage. It generalizes the teacher's
// track.BufferUsageScope to be kind-agnostic.
type Scope struct {
	mu    sync.Mutex
	state map[int]Usage
}

// NewScope creates an empty usage scope.
func NewScope() *Scope {
	return &Scope{state: make(map[int]Usage)}
}

// Merge folds usage for resource id into the scope. If id already has
// exclusive usage recorded and the new usage differs, or the new
// usage is exclusive and conflicts with an existing non-identical
// usage, it returns a ConflictError. Otherwise it returns the
// PendingTransition needed (nil Old usage the first time id is seen).
func (s *Scope) Merge(id int, usage Usage) (*PendingTransition, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prior, seen := s.state[id]
	if !seen {
		s.state[id] = usage
		return &PendingTransition{ID: id, Old: 0, New: usage}, nil
	}
	if prior == usage {
		return nil, nil
	}
	if prior.Exclusive() || usage.Exclusive() {
		return nil, &ConflictError{ID: id, Existing: prior, New: usage}
	}
	merged := prior | usage
	s.state[id] = merged
	return &PendingTransition{ID: id, Old: prior, New: merged}, nil
}

// UsageOf returns the usage recorded for id and whether it has been
// touched at all within this scope.
func (s *Scope) UsageOf(id int) (Usage, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.state[id]
	return u, ok
}

// Reset clears all recorded usage, for reuse across render graph
// executions (mirrors the teacher's BufferUsageScope.clear()).
func (s *Scope) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.state)
}
