package rescore

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
)

// debugMode gates invariant assertions and leak tracking. Zero overhead
// when disabled (~1ns atomic load per call), mirroring the teacher's
// core/debug.go debugMode switch.
var debugMode atomic.Bool

// SetDebugMode enables or disables invariant checking and leak
// tracking. Invariant violations checked through invariant (bad handle
// index or arena, out-of-range render-graph slot, CPU access while the
// GPU still owes work) panic only while debug mode is enabled; in
// release builds they are elided. Capacity exhaustion and wrong-kind
// hazard-group members go through fatal/fatalErr and panic regardless
// of this switch. Leak tracking has the same gate as invariant.
func SetDebugMode(enabled bool) {
	debugMode.Store(enabled)
}

// DebugMode reports whether debug mode is currently enabled.
func DebugMode() bool {
	return debugMode.Load()
}

// invariant panics with a formatted message if cond is false and debug
// mode is enabled. It is used for programmer-error invariant violations
// per §7 (bad handle index or arena, out-of-range render-graph slot,
// CPU access while the GPU still owes work) — never for recoverable
// runtime conditions, which return errors instead.
func invariant(cond bool, format string, args ...any) {
	if cond || !debugMode.Load() {
		return
	}
	panic(fmt.Sprintf(format, args...))
}

// fatal panics unconditionally with a formatted message, for invariant
// violations that spec §7 marks fatal regardless of debug mode (e.g.
// capacity exhaustion while allocating a new chunk, or exceeding the
// fixed count of 8 concurrent transient arenas). CPU access attempted
// while the GPU still owes work is a separate, debug-gated case (see
// invariant and Resource.CheckCPUAccess).
func fatal(format string, args ...any) {
	panic(fmt.Sprintf(format, args...))
}

// fatalErr panics with err itself as the panic value, for the same
// unconditionally-fatal invariant violations as fatal, where the
// violation carries a typed error (e.g. LimitError) a test or a
// recover() site can match against with errors.As instead of parsing a
// formatted string.
func fatalErr(err error) {
	panic(err)
}

// leakTracker records live handle allocations for leak detection, gated
// by debugMode exactly like the teacher's core/debug.go resourceTracker.
var leakTracker = struct {
	mu        sync.Mutex
	resources map[Handle]leakInfo
}{resources: make(map[Handle]leakInfo)}

type leakInfo struct {
	Kind  Kind
	Label string
}

// trackAllocation records a resource allocation for leak detection
// (debug mode only). If label is empty, a short synthetic label is
// generated from a UUID so reports remain legible even for unlabeled
// resources — the same fallback Gekko3D-gekko's asset loader uses
// (uuid.New()) when no human-supplied name is available.
func trackAllocation(h Handle, label string) {
	if !debugMode.Load() {
		return
	}
	if label == "" {
		label = "unlabeled-" + uuid.New().String()[:8]
	}
	leakTracker.mu.Lock()
	leakTracker.resources[h] = leakInfo{Kind: h.Type(), Label: label}
	leakTracker.mu.Unlock()
}

// untrackAllocation removes a resource from the leak tracker (debug
// mode only). Safe to call even when debug mode is off or the handle
// was never tracked.
func untrackAllocation(h Handle) {
	if !debugMode.Load() {
		return
	}
	leakTracker.mu.Lock()
	delete(leakTracker.resources, h)
	leakTracker.mu.Unlock()
}

// ResetLeakTracker clears all tracked allocations. Intended for tests.
func ResetLeakTracker() {
	leakTracker.mu.Lock()
	leakTracker.resources = make(map[Handle]leakInfo)
	leakTracker.mu.Unlock()
}

// LeakReport summarizes resources that were allocated but never
// disposed/cleared at the time ReportLeaks was called.
type LeakReport struct {
	Count     int
	ByKind    map[Kind]int
	Resources []Handle
}

// ReportLeaks returns a snapshot of all currently tracked (live)
// allocations, or nil if leak tracking is disabled or nothing is
// outstanding. Logs a summary via log/slog — the only logging library
// the teacher ever imports (hal/logger.go) — at Warn level when leaks
// are found.
func ReportLeaks() *LeakReport {
	if !debugMode.Load() {
		return nil
	}

	leakTracker.mu.Lock()
	defer leakTracker.mu.Unlock()

	if len(leakTracker.resources) == 0 {
		return nil
	}

	report := &LeakReport{
		Count:     len(leakTracker.resources),
		ByKind:    make(map[Kind]int),
		Resources: make([]Handle, 0, len(leakTracker.resources)),
	}
	for h, info := range leakTracker.resources {
		report.ByKind[info.Kind]++
		report.Resources = append(report.Resources, h)
	}
	sort.Slice(report.Resources, func(i, j int) bool { return report.Resources[i] < report.Resources[j] })

	slog.Warn("rescore: resource leak report", "count", report.Count)
	return report
}
