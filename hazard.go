package rescore

import (
	"fmt"
	"sync"

	"github.com/gogpu/rescore/track"
)

// HazardGroup holds the state a hazard-tracking group carries beyond
// the common persistent properties every resource has: an ordered
// membership list and the single usage-recording scope every member
// forwards to (§4.E). It is itself addressed by a persistent Handle
// of kind KindHazardTrackingGroup; Core keeps one HazardGroup value
// per such handle alongside that handle's ordinary property slots.
type HazardGroup struct {
	mu         sync.Mutex
	memberKind Kind
	resources  []Handle
	usages     *track.Scope
}

// NewHazardGroup creates an empty group restricted to members of
// memberKind (§4.E: "a group never mixes kinds").
func NewHazardGroup(memberKind Kind) *HazardGroup {
	return &HazardGroup{memberKind: memberKind, usages: track.NewScope()}
}

// Assign adds member to g's membership and redirects memberShared's
// usage tracking to the group's own scope (§4.E). groupHandle is g's
// own handle, recorded on memberShared.HazardGroup so later lookups
// (and re-Assign calls) can tell which group a resource belongs to.
// Assigning a resource that is already a member is a no-op (§8
// idempotence property). Assigning a resource of the wrong kind is a
// programmer error and is fatal.
func (g *HazardGroup) Assign(memberShared *SharedProperties, groupHandle, member Handle) {
	if member.Type() != g.memberKind {
		fatalErr(fmt.Errorf("%w: hazard-tracking group wants %s, got %s", ErrWrongKind, g.memberKind, member.Type()))
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	for _, existing := range g.resources {
		if existing == member {
			return
		}
	}
	g.resources = append(g.resources, member)
	memberShared.HazardGroup = groupHandle
	memberShared.Usages = g.usages
}

// Remove always fails: §4.E forbids removing a resource from a
// hazard-tracking group once it has been added.
func (g *HazardGroup) Remove(Handle) error {
	return ErrHazardGroupMemberRemoval
}

// Members returns a snapshot of the group's current membership, taken
// under the group's own lock (§4.E: "iteration must take that lock").
func (g *HazardGroup) Members() []Handle {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]Handle, len(g.resources))
	copy(out, g.resources)
	return out
}

// Usages returns the group's shared usage-recording scope. Every
// member's SharedProperties.Usages points at this same scope once
// assigned (§8 property 6: identity equality, not value equality).
func (g *HazardGroup) Usages() *track.Scope {
	return g.usages
}
