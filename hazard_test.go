package rescore

import "testing"

func TestHazardGroupAssignSharesUsageScope(t *testing.T) {
	g := NewHazardGroup(KindTexture)
	groupHandle := Pack(KindHazardTrackingGroup, FlagPersistent, 0, 0, 1)

	a := Pack(KindTexture, FlagPersistent, 0, 0, 1)
	b := Pack(KindTexture, FlagPersistent, 0, 0, 2)

	sharedA := &SharedProperties{Label: "a"}
	sharedB := &SharedProperties{Label: "b"}

	g.Assign(sharedA, groupHandle, a)
	g.Assign(sharedB, groupHandle, b)

	if sharedA.HazardGroup != groupHandle || sharedB.HazardGroup != groupHandle {
		t.Fatal("Assign did not record the group's own handle on the member")
	}
	if sharedA.Usages != sharedB.Usages {
		t.Error("group members do not share the same usage scope by identity")
	}
	if sharedA.Usages != g.Usages() {
		t.Error("member usage scope is not the group's own scope")
	}
}

func TestHazardGroupAssignIsIdempotent(t *testing.T) {
	g := NewHazardGroup(KindBuffer)
	groupHandle := Pack(KindHazardTrackingGroup, FlagPersistent, 0, 0, 1)
	member := Pack(KindBuffer, FlagPersistent, 0, 0, 1)
	shared := &SharedProperties{}

	g.Assign(shared, groupHandle, member)
	g.Assign(shared, groupHandle, member)

	if members := g.Members(); len(members) != 1 {
		t.Errorf("re-assigning the same member duplicated it: %v", members)
	}
}

func TestHazardGroupAssignWrongKindFatal(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("assigning a member of the wrong kind did not panic")
		}
	}()
	g := NewHazardGroup(KindTexture)
	groupHandle := Pack(KindHazardTrackingGroup, FlagPersistent, 0, 0, 1)
	wrongKind := Pack(KindBuffer, FlagPersistent, 0, 0, 1)
	g.Assign(&SharedProperties{}, groupHandle, wrongKind)
}

func TestHazardGroupRemoveAlwaysFails(t *testing.T) {
	g := NewHazardGroup(KindBuffer)
	member := Pack(KindBuffer, FlagPersistent, 0, 0, 1)
	if err := g.Remove(member); err != ErrHazardGroupMemberRemoval {
		t.Errorf("Remove() = %v, want ErrHazardGroupMemberRemoval", err)
	}
}

func TestHazardGroupMembersIsASnapshot(t *testing.T) {
	g := NewHazardGroup(KindBuffer)
	groupHandle := Pack(KindHazardTrackingGroup, FlagPersistent, 0, 0, 1)
	member := Pack(KindBuffer, FlagPersistent, 0, 0, 1)
	g.Assign(&SharedProperties{}, groupHandle, member)

	snapshot := g.Members()
	snapshot[0] = InvalidHandle
	if got := g.Members(); got[0] != member {
		t.Error("mutating a Members() snapshot affected the group's internal state")
	}
}
