package queue

import (
	"context"
	"sync/atomic"
)

// Access selects which of a resource's wait-index arrays an operation
// concerns (§4.D). The read array holds what the CPU must wait for
// before reading the resource, the write array what it must wait for
// before writing it; the two are tracked separately.
type Access uint8

const (
	// AccessRead means the operation only reads the resource.
	AccessRead Access = 1 << iota
	// AccessWrite means the operation writes (or read-writes) the resource.
	AccessWrite
	// AccessReadWrite waits on and updates both arrays.
	AccessReadWrite = AccessRead | AccessWrite
)

// WaitIndices tracks, per queue, the highest command index that must
// complete before the CPU may read, or write, some resource (§4.D).
// It holds no reference to the resource
// itself; PersistentProperties embeds one per resource.
//
// All updates are lock-free compare-and-swap loops computing a
// monotonic maximum, mirroring the teacher's hazard-tracking
// indices (track/tracking_data.go uses the same atomic-release
// pattern for a simpler single-shot case). Go's atomic package has no
// separate "weak" CAS; CompareAndSwap here plays that role and is
// retried on spurious failure exactly as a weak CAS would be.
type WaitIndices struct {
	read  [MaxQueues]atomic.Uint64
	write [MaxQueues]atomic.Uint64
}

// SetWait raises the wait index recorded for queue q and the given
// access to at least value, never lowering it (§4.D: "set_wait always
// computes a monotonic maximum, never a plain store — submissions can
// race"). When access is AccessReadWrite both arrays are raised.
func (w *WaitIndices) SetWait(q int, access Access, value uint64) {
	if q < 0 || q >= MaxQueues {
		return
	}
	if access&AccessRead != 0 {
		casMax(&w.read[q], value)
	}
	if access&AccessWrite != 0 {
		casMax(&w.write[q], value)
	}
}

// casMax atomically raises *a to at least value.
func casMax(a *atomic.Uint64, value uint64) {
	for {
		cur := a.Load()
		if cur >= value {
			return
		}
		if a.CompareAndSwap(cur, value) {
			return
		}
	}
}

// GetWait returns the relevant wait index for queue q and access: the
// write index alone for AccessWrite, the read index alone for
// AccessRead, or the maximum of both for AccessReadWrite (a combined
// wait must outlast whichever of the two is still pending).
func (w *WaitIndices) GetWait(q int, access Access) uint64 {
	if q < 0 || q >= MaxQueues {
		return 0
	}
	var v uint64
	if access&AccessRead != 0 {
		if r := w.read[q].Load(); r > v {
			v = r
		}
	}
	if access&AccessWrite != 0 {
		if wr := w.write[q].Load(); wr > v {
			v = wr
		}
	}
	return v
}

// IsAvailableForCPU reports whether, for every queue in reg, the
// queue's last completed command has already reached the relevant
// wait index for access. It never blocks (§4.D).
func (w *WaitIndices) IsAvailableForCPU(reg *Registry, access Access) bool {
	for _, q := range reg.All() {
		if q.LastCompletedCommand() < w.GetWait(q.Index(), access) {
			return false
		}
	}
	return true
}

// WaitForCPUAccess blocks until IsAvailableForCPU(reg, access) would
// return true, or ctx is cancelled.
func (w *WaitIndices) WaitForCPUAccess(ctx context.Context, reg *Registry, access Access) error {
	for _, q := range reg.All() {
		target := w.GetWait(q.Index(), access)
		if q.LastCompletedCommand() >= target {
			continue
		}
		if err := q.WaitForCommandCompletion(ctx, target); err != nil {
			return err
		}
	}
	return nil
}

// IsKnownInUse reports whether any queue in reg still has outstanding
// work against the resource for either access direction: a read or
// write wait index beyond that queue's LastCompletedCommand. It never
// blocks, and its answer may be stale by the time it returns.
func (w *WaitIndices) IsKnownInUse(reg *Registry) bool {
	for _, q := range reg.All() {
		i := q.Index()
		if w.read[i].Load() > q.LastCompletedCommand() {
			return true
		}
		if w.write[i].Load() > q.LastCompletedCommand() {
			return true
		}
	}
	return false
}
