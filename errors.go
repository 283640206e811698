package rescore

import (
	"errors"
	"fmt"
)

// Sentinel errors for common registry failures (§7).
var (
	// ErrInvalidHandle is returned by Core.CreateTextureView when its
	// base Handle is the zero value or names no known resource kind.
	ErrInvalidHandle = errors.New("rescore: invalid handle")

	// ErrGenerationMismatch describes a handle whose generation does
	// not match the current generation of its slot or arena — the
	// handle refers to a resource that has since been disposed (for a
	// persistent registry) or the arena has since been cleared (for a
	// transient registry). No function in this package returns it;
	// staleness is reported through the registries' IsValid methods.
	ErrGenerationMismatch = errors.New("rescore: generation mismatch: handle is stale")

	// ErrResourceNotFound is the panic payload (via fatalErr) when
	// Core.AssignHazardGroup is given a group or member handle that
	// does not identify a live resource — an invariant violation per
	// §7, not a recoverable condition, so it panics rather than returning.
	ErrResourceNotFound = errors.New("rescore: resource not found")

	// ErrWrongKind is the panic payload (via fatalErr) when
	// HazardGroup.Assign is given a member whose Kind does not match
	// the group's memberKind (§4.E: "a group never mixes kinds").
	ErrWrongKind = errors.New("rescore: handle kind does not match")

	// ErrTooManyTransientArenas is the panic payload (via fatalErr) from
	// TransientRegistryManager.Allocate when all 8 concurrent
	// transient-arena slots are in use (§4.B, §7: capacity exhaustion is
	// fatal, not recoverable).
	ErrTooManyTransientArenas = errors.New("rescore: no free transient registry slot (maximum 8 concurrent)")

	// ErrHazardGroupMemberRemoval is returned by any attempt to remove a
	// resource from a hazard-tracking group; §4.E forbids this.
	ErrHazardGroupMemberRemoval = errors.New("rescore: cannot remove a resource from a hazard-tracking group once added")
)

// LimitError reports a capacity overflow with the offending numbers
// attached, mirroring the teacher's core/error.go LimitError. Used as
// the panic payload (via fatalErr) from ChunkedArena.ensureChunk when
// a registry exceeds its configured maxChunks (§4.C, §7).
type LimitError struct {
	// Limit names the capacity that was exceeded (e.g. "chunk", "index").
	Limit string
	// Actual is the value that was requested.
	Actual uint64
	// Maximum is the largest value the limit allows.
	Maximum uint64
}

// Error implements the error interface.
func (e *LimitError) Error() string {
	return fmt.Sprintf("rescore: %s limit exceeded (got %d, max %d)", e.Limit, e.Actual, e.Maximum)
}

// ValidationError reports a malformed descriptor or invalid argument,
// mirroring the teacher's core/error.go ValidationError.
type ValidationError struct {
	// Resource names the resource kind or component being validated.
	Resource string
	// Field is the offending field, or "" if the error concerns the
	// descriptor as a whole.
	Field string
	// Message describes the problem.
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("rescore: %s.%s: %s", e.Resource, e.Field, e.Message)
	}
	return fmt.Sprintf("rescore: %s: %s", e.Resource, e.Message)
}
