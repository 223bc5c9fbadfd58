package app

import (
	"errors"
	"testing"

	"todo-app/model"
)

func mustCreate(t *testing.T, svc *Service, title string) model.Item {
	t.Helper()
	it, ok := svc.Create(title)
	if !ok {
		t.Fatalf("create %q failed", title)
	}
	return it
}

func TestServiceOnChangeOnlyForEffectiveMutations(t *testing.T) {
	svc := NewService(model.NewState())
	var saved []model.State
	svc.OnChange = func(s model.State) { saved = append(saved, s) }

	if _, ok := svc.Create("  "); ok {
		t.Fatalf("expected empty title to be ignored")
	}
	if svc.Delete(42) {
		t.Fatalf("expected unknown id delete to be a no-op")
	}
	if len(saved) != 0 {
		t.Fatalf("expected no persistence for no-ops, got %d", len(saved))
	}

	a := mustCreate(t, svc, "a")
	if !svc.Toggle(a.ID) {
		t.Fatalf("toggle failed")
	}
	if len(saved) != 2 {
		t.Fatalf("expected 2 change notifications, got %d", len(saved))
	}
	if !saved[1].Items[0].Complete {
		t.Fatalf("expected last notification to carry toggled item")
	}

	saved[1].Items[0].Title = "mutated"
	if got, _ := svc.Get(a.ID); got.Title != "a" {
		t.Fatalf("notification shares memory with service state")
	}
}

func TestServiceFilterIsEphemeralAndValidated(t *testing.T) {
	svc := NewService(model.NewState())
	a := mustCreate(t, svc, "a")
	_ = mustCreate(t, svc, "b")
	svc.Toggle(a.ID)

	if svc.Filter() != model.FilterAll {
		t.Fatalf("expected default filter ALL, got %q", svc.Filter())
	}
	if err := svc.SetFilter(model.FilterActive); err != nil {
		t.Fatalf("set filter failed: %v", err)
	}
	visible := svc.Visible()
	if len(visible) != 1 || visible[0].Title != "b" {
		t.Fatalf("unexpected visible items: %+v", visible)
	}
	if err := svc.SetFilter("DONE"); !errors.Is(err, ErrInvalidFilter) {
		t.Fatalf("expected ErrInvalidFilter, got %v", err)
	}

	svc.Replace(svc.State())
	if svc.Filter() != model.FilterActive {
		t.Fatalf("replace should not reset the view filter")
	}
}

func TestServiceUndo(t *testing.T) {
	svc := NewService(model.NewState())
	a := mustCreate(t, svc, "a")
	_ = mustCreate(t, svc, "b")
	svc.Delete(a.ID)

	if err := svc.Undo(); err != nil {
		t.Fatalf("undo delete failed: %v", err)
	}
	if _, ok := svc.Get(a.ID); !ok {
		t.Fatalf("expected deleted item restored")
	}
	if err := svc.Undo(); err != nil {
		t.Fatalf("undo create failed: %v", err)
	}
	if err := svc.Undo(); err != nil {
		t.Fatalf("undo first create failed: %v", err)
	}
	if len(svc.Items()) != 0 {
		t.Fatalf("expected empty list after undoing everything")
	}
	if err := svc.Undo(); !errors.Is(err, ErrNothingToUndo) {
		t.Fatalf("expected ErrNothingToUndo, got %v", err)
	}
}

func TestServiceUndoStackLimit20(t *testing.T) {
	svc := NewService(model.NewState())
	for i := 0; i < 25; i++ {
		mustCreate(t, svc, "task")
	}
	for i := 0; i < 20; i++ {
		if err := svc.Undo(); err != nil {
			t.Fatalf("undo %d failed: %v", i, err)
		}
	}
	if got := len(svc.Items()); got != 5 {
		t.Fatalf("expected 5 items after capped undo, got %d", got)
	}
	if err := svc.Undo(); !errors.Is(err, ErrNothingToUndo) {
		t.Fatalf("expected ErrNothingToUndo after consuming capped stack, got %v", err)
	}
}

func TestServiceCountsAndToggleAll(t *testing.T) {
	svc := NewService(model.NewState())
	if svc.AllComplete() {
		t.Fatalf("empty list must not render as all complete")
	}
	mustCreate(t, svc, "a")
	mustCreate(t, svc, "b")
	if svc.ActiveCount() != 2 {
		t.Fatalf("expected 2 active, got %d", svc.ActiveCount())
	}
	svc.ToggleAll()
	if !svc.AllComplete() || svc.ActiveCount() != 0 {
		t.Fatalf("expected all complete after toggle all")
	}
	svc.ClearCompleted()
	if len(svc.Items()) != 0 {
		t.Fatalf("expected clear completed to empty the list")
	}
	if svc.ClearCompleted() {
		t.Fatalf("expected second clear to be a no-op")
	}
}
