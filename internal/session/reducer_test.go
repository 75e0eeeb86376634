package session

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/meltforce/terrapump/internal/models"
)

func activeState(t *testing.T) State {
	t.Helper()
	s, err := Dispatch(Idle(), Start{Name: "Push Day", At: time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)})
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func benchPress(sets int) models.LoggedExercise {
	reps := make([]models.RepValue, sets)
	weights := make([]models.WeightValue, sets)
	for i := range reps {
		reps[i] = models.BilateralReps(5)
		weights[i] = models.BilateralWeight(135)
	}
	return models.LoggedExercise{
		Exercise: "Bench Press",
		Type:     models.EquipmentBarbell,
		Sets:     sets,
		Reps:     reps,
		Weights:  weights,
		LoggedAt: time.Date(2025, 6, 1, 9, 15, 0, 0, time.UTC),
	}
}

func TestStartRejectsActive(t *testing.T) {
	s := activeState(t)
	if _, err := Dispatch(s, Start{Name: "Again"}); !errors.Is(err, ErrSessionActive) {
		t.Errorf("err = %v, want ErrSessionActive", err)
	}
}

func TestActionsRequireActiveSession(t *testing.T) {
	actions := []Action{
		SelectType{Type: models.EquipmentBarbell},
		SelectExercise{Exercise: "Bench Press"},
		SetSetCount{Count: 3},
		AddSet{},
		RemoveSet{},
		CommitExercise{Entry: benchPress(1)},
		RemoveLogged{Index: 0},
		MarkSaved{},
		End{},
	}
	for _, a := range actions {
		if _, err := Dispatch(Idle(), a); !errors.Is(err, ErrNoSession) {
			t.Errorf("%T: err = %v, want ErrNoSession", a, err)
		}
	}
}

func TestSelectTypeResetsSelection(t *testing.T) {
	s := activeState(t)
	s, err := Dispatch(s, SelectType{Type: models.EquipmentCable})
	if err != nil {
		t.Fatal(err)
	}
	s, err = Dispatch(s, SelectExercise{Exercise: "Tricep Pushdown", Attachment: "V Bar"})
	if err != nil {
		t.Fatal(err)
	}
	s, err = Dispatch(s, SetSetCount{Count: 4})
	if err != nil {
		t.Fatal(err)
	}

	// Switching type drops the stale attachment but keeps the set count.
	s, err = Dispatch(s, SelectType{Type: models.EquipmentBarbell})
	if err != nil {
		t.Fatal(err)
	}
	want := Pending{Type: models.EquipmentBarbell, SetCount: 4}
	if diff := cmp.Diff(want, s.Pending); diff != "" {
		t.Errorf("pending mismatch (-want +got):\n%s", diff)
	}
}

func TestSetCountBounds(t *testing.T) {
	s := activeState(t)
	if _, err := Dispatch(s, SetSetCount{Count: 0}); err == nil {
		t.Error("expected error for zero set count")
	}

	s, err := Dispatch(s, AddSet{})
	if err != nil {
		t.Fatal(err)
	}
	if s.Pending.SetCount != 2 {
		t.Errorf("set count = %d, want 2", s.Pending.SetCount)
	}

	s, _ = Dispatch(s, RemoveSet{})
	s, _ = Dispatch(s, RemoveSet{})
	s, _ = Dispatch(s, RemoveSet{})
	if s.Pending.SetCount != 1 {
		t.Errorf("set count = %d, want floor of 1", s.Pending.SetCount)
	}
}

func TestCommitAppendsAndResets(t *testing.T) {
	s := activeState(t)
	s, err := Dispatch(s, SetSetCount{Count: 3})
	if err != nil {
		t.Fatal(err)
	}
	s, err = Dispatch(s, CommitExercise{Entry: benchPress(3)})
	if err != nil {
		t.Fatal(err)
	}
	if len(s.Entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(s.Entries))
	}
	if !s.Dirty {
		t.Error("commit should mark the session dirty")
	}
	if s.Pending.SetCount != 1 {
		t.Errorf("set count = %d, want reset to 1", s.Pending.SetCount)
	}
}

func TestCommitRejectsSetMismatch(t *testing.T) {
	s := activeState(t)
	s, err := Dispatch(s, SetSetCount{Count: 2})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := Dispatch(s, CommitExercise{Entry: benchPress(3)}); err == nil {
		t.Error("expected error when submitted sets disagree with configured count")
	}
}

func TestCommitRejectsInvalidEntry(t *testing.T) {
	s := activeState(t)
	entry := benchPress(1)
	entry.Weights = nil
	if _, err := Dispatch(s, CommitExercise{Entry: entry}); err == nil {
		t.Error("expected validation error for missing weights")
	}
}

func TestRemoveLogged(t *testing.T) {
	s := activeState(t)
	for i := 0; i < 2; i++ {
		var err error
		s, err = Dispatch(s, CommitExercise{Entry: benchPress(1)})
		if err != nil {
			t.Fatal(err)
		}
	}

	if _, err := Dispatch(s, RemoveLogged{Index: 2}); err == nil {
		t.Error("expected error for out-of-range index")
	}
	if _, err := Dispatch(s, RemoveLogged{Index: -1}); err == nil {
		t.Error("expected error for negative index")
	}

	s, err := Dispatch(s, RemoveLogged{Index: 0})
	if err != nil {
		t.Fatal(err)
	}
	if len(s.Entries) != 1 {
		t.Errorf("got %d entries, want 1", len(s.Entries))
	}
}

func TestMarkSavedRequiresDirty(t *testing.T) {
	s := activeState(t)
	if _, err := Dispatch(s, MarkSaved{}); !errors.Is(err, ErrNotDirty) {
		t.Errorf("err = %v, want ErrNotDirty", err)
	}

	s, err := Dispatch(s, CommitExercise{Entry: benchPress(1)})
	if err != nil {
		t.Fatal(err)
	}
	s, err = Dispatch(s, MarkSaved{})
	if err != nil {
		t.Fatal(err)
	}
	if s.Dirty {
		t.Error("dirty flag should clear after MarkSaved")
	}
}

func TestResumeRestoresDraft(t *testing.T) {
	draft := models.WorkoutDraft{
		Name:      "Leg Day",
		StartTime: time.Date(2025, 5, 30, 18, 0, 0, 0, time.UTC),
		Entries:   []models.LoggedExercise{benchPress(2)},
	}
	s, err := Dispatch(Idle(), Resume{Draft: draft})
	if err != nil {
		t.Fatal(err)
	}
	if s.Status != StatusActive {
		t.Errorf("status = %s, want active", s.Status)
	}
	if s.Name != "Leg Day" || len(s.Entries) != 1 {
		t.Errorf("draft not restored: %+v", s)
	}
	if s.Dirty {
		t.Error("resumed state should start clean")
	}

	if _, err := Dispatch(s, Resume{Draft: draft}); !errors.Is(err, ErrSessionActive) {
		t.Errorf("err = %v, want ErrSessionActive", err)
	}
}

func TestEndAndDiscardReturnToIdle(t *testing.T) {
	s := activeState(t)
	ended, err := Dispatch(s, End{})
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(Idle(), ended); diff != "" {
		t.Errorf("end state mismatch (-want +got):\n%s", diff)
	}

	// Discard works from any state, including idle.
	discarded, err := Dispatch(Idle(), Discard{})
	if err != nil {
		t.Fatal(err)
	}
	if discarded.Status != StatusIdle {
		t.Errorf("status = %s, want idle", discarded.Status)
	}
}

func TestDispatchDoesNotMutateInput(t *testing.T) {
	s := activeState(t)
	s, err := Dispatch(s, CommitExercise{Entry: benchPress(1)})
	if err != nil {
		t.Fatal(err)
	}

	next, err := Dispatch(s, RemoveLogged{Index: 0})
	if err != nil {
		t.Fatal(err)
	}
	if len(s.Entries) != 1 {
		t.Errorf("input state mutated: %d entries", len(s.Entries))
	}
	if len(next.Entries) != 0 {
		t.Errorf("next state has %d entries, want 0", len(next.Entries))
	}
}
