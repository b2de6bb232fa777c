package analyses

import "testing"

func TestSlotCommitLatestGeneration(t *testing.T) {
	slot := NewReportSlot()
	gen := slot.Begin()

	if !slot.Commit(gen, Analysis{ID: "a1"}) {
		t.Fatal("expected current generation to commit")
	}
	latest, ok := slot.Latest()
	if !ok || latest.ID != "a1" {
		t.Fatalf("expected latest a1, got %+v ok=%v", latest, ok)
	}
}

func TestSlotDiscardsStaleResult(t *testing.T) {
	slot := NewReportSlot()
	stale := slot.Begin()
	current := slot.Begin()

	if !slot.Commit(current, Analysis{ID: "new"}) {
		t.Fatal("expected current generation to commit")
	}
	// The older call finishes afterwards; its result must be discarded.
	if slot.Commit(stale, Analysis{ID: "old"}) {
		t.Fatal("expected stale generation to be rejected")
	}

	latest, ok := slot.Latest()
	if !ok || latest.ID != "new" {
		t.Fatalf("expected latest to remain new, got %+v", latest)
	}
}

func TestSlotOutOfOrderCompletion(t *testing.T) {
	slot := NewReportSlot()
	first := slot.Begin()
	second := slot.Begin()

	// Newer request completes first, older one later.
	if !slot.Commit(second, Analysis{ID: "second"}) {
		t.Fatal("expected newest generation to commit")
	}
	if slot.Commit(first, Analysis{ID: "first"}) {
		t.Fatal("stale completion must not overwrite a newer result")
	}
	latest, _ := slot.Latest()
	if latest.ID != "second" {
		t.Fatalf("expected second, got %s", latest.ID)
	}
}

func TestSlotEmpty(t *testing.T) {
	slot := NewReportSlot()
	if _, ok := slot.Latest(); ok {
		t.Fatal("expected empty slot")
	}
}
