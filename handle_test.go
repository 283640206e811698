package rescore

import "testing"

func TestPackUnpackRoundTrip(t *testing.T) {
	cases := []struct {
		kind Kind
		flag Flags
		gen  uint8
		ar   uint8
		idx  uint32
	}{
		{KindBuffer, 0, 0, 0, 0},
		{KindTexture, FlagPersistent, 255, 0, 123456},
		{KindArgumentBuffer, FlagResourceView | FlagWindowHandle, 7, 5, 1},
		{KindHazardTrackingGroup, FlagPersistent | FlagHistoryBuffer, 1, 0, maxIndex - 1},
	}
	for _, c := range cases {
		h := Pack(c.kind, c.flag, c.gen, c.ar, c.idx)
		if h.Type() != c.kind {
			t.Errorf("Type() = %v, want %v", h.Type(), c.kind)
		}
		if h.HandleFlags() != c.flag {
			t.Errorf("HandleFlags() = %#x, want %#x", h.HandleFlags(), c.flag)
		}
		if h.Generation() != c.gen {
			t.Errorf("Generation() = %d, want %d", h.Generation(), c.gen)
		}
		if h.Arena() != c.ar {
			t.Errorf("Arena() = %d, want %d", h.Arena(), c.ar)
		}
		if h.Index() != c.idx {
			t.Errorf("Index() = %d, want %d", h.Index(), c.idx)
		}
		if rt := Pack(h.Type(), h.HandleFlags(), h.Generation(), h.Arena(), h.Index()); rt != h {
			t.Errorf("pack(unpack(h)) = %#x, want %#x", rt, h)
		}
	}
}

func TestHandleIsZero(t *testing.T) {
	if !InvalidHandle.IsZero() {
		t.Error("InvalidHandle.IsZero() = false, want true")
	}
	h := Pack(KindBuffer, 0, 0, 0, 1)
	if h.IsZero() {
		t.Error("allocated handle reported IsZero() = true")
	}
}

func TestFlagsHas(t *testing.T) {
	f := FlagPersistent | FlagResourceView
	if !f.Has(FlagPersistent) {
		t.Error("Has(FlagPersistent) = false, want true")
	}
	if f.Has(FlagWindowHandle) {
		t.Error("Has(FlagWindowHandle) = true, want false")
	}
	if !f.Has(FlagPersistent | FlagResourceView) {
		t.Error("Has(combined) = false, want true")
	}
}

func TestPackInvariantViolation(t *testing.T) {
	SetDebugMode(true)
	defer SetDebugMode(false)

	defer func() {
		if recover() == nil {
			t.Error("Pack with out-of-range index did not panic in debug mode")
		}
	}()
	Pack(KindBuffer, 0, 0, 0, maxIndex)
}
