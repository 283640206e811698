package track

import "testing"

func TestScopeMergeFirstUse(t *testing.T) {
	s := NewScope()
	pt, err := s.Merge(1, UsageRead)
	if err != nil {
		t.Fatalf("Merge returned error: %v", err)
	}
	if pt.Old != 0 || pt.New != UsageRead {
		t.Errorf("PendingTransition = %+v, want Old=0 New=UsageRead", pt)
	}
}

func TestScopeMergeCompatibleReads(t *testing.T) {
	s := NewScope()
	s.Merge(1, UsageRead)
	pt, err := s.Merge(1, UsageRead)
	if err != nil {
		t.Fatalf("Merge returned error: %v", err)
	}
	if pt != nil {
		t.Errorf("re-merging the same read usage should produce no transition, got %+v", pt)
	}
}

func TestScopeMergeConflict(t *testing.T) {
	s := NewScope()
	s.Merge(1, UsageWrite)
	_, err := s.Merge(1, UsageRenderTarget)
	if err == nil {
		t.Fatal("expected a ConflictError merging write then render-target usage")
	}
	var ce *ConflictError
	if ok := asConflictError(err, &ce); !ok {
		t.Fatalf("error is not a *ConflictError: %v", err)
	}
}

func asConflictError(err error, out **ConflictError) bool {
	ce, ok := err.(*ConflictError)
	if ok {
		*out = ce
	}
	return ok
}

func TestScopeResetClearsState(t *testing.T) {
	s := NewScope()
	s.Merge(1, UsageRead)
	s.Reset()
	if _, ok := s.UsageOf(1); ok {
		t.Error("UsageOf found usage after Reset")
	}
}

func TestUsageExclusive(t *testing.T) {
	if UsageRead.Exclusive() {
		t.Error("UsageRead.Exclusive() = true, want false")
	}
	if !UsageWrite.Exclusive() {
		t.Error("UsageWrite.Exclusive() = false, want true")
	}
	if !UsageRenderTarget.Exclusive() {
		t.Error("UsageRenderTarget.Exclusive() = false, want true")
	}
}
