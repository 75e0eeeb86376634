package history

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/meltforce/terrapump/internal/models"
)

func record(name string, start time.Time, entries ...models.LoggedExercise) models.WorkoutRecord {
	return models.WorkoutRecord{
		ID:      uuid.New(),
		Name:    name,
		Start:   start,
		Entries: entries,
	}
}

func TestSortDescending(t *testing.T) {
	records := []models.WorkoutRecord{
		record("oldest", time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)),
		record("unparsed", time.Time{}),
		record("newest", time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)),
		record("middle", time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)),
	}
	SortDescending(records)

	want := []string{"newest", "middle", "oldest", "unparsed"}
	for i, name := range want {
		if records[i].Name != name {
			t.Errorf("records[%d] = %q, want %q", i, records[i].Name, name)
		}
	}
}

func TestSortDescendingStable(t *testing.T) {
	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	records := []models.WorkoutRecord{
		record("first", start),
		record("second", start),
	}
	SortDescending(records)
	if records[0].Name != "first" || records[1].Name != "second" {
		t.Error("equal starts should keep stored order")
	}
}

func TestSummarizeBilateral(t *testing.T) {
	rec := record("Push Day", time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC),
		models.LoggedExercise{
			Exercise: "Bench Press",
			Sets:     2,
			Reps:     []models.RepValue{models.BilateralReps(5), models.BilateralReps(5)},
			Weights:  []models.WeightValue{models.BilateralWeight(135), models.BilateralWeight(145)},
		},
		models.LoggedExercise{
			Exercise: "Overhead Press",
			Sets:     1,
			Reps:     []models.RepValue{models.BilateralReps(8)},
			Weights:  []models.WeightValue{models.BilateralWeight(95)},
		},
	)

	s := Summarize(rec)
	if s.Exercises != 2 {
		t.Errorf("exercises = %d, want 2", s.Exercises)
	}
	if s.TotalSets != 3 {
		t.Errorf("total sets = %d, want 3", s.TotalSets)
	}
	want := 5*135.0 + 5*145.0 + 8*95.0
	if s.Volume != want {
		t.Errorf("volume = %v, want %v", s.Volume, want)
	}
}

func TestSummarizeUnilateralCountsBothSides(t *testing.T) {
	rec := record("Arms", time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC),
		models.LoggedExercise{
			Exercise:   "Dumbbell Curl",
			Unilateral: true,
			Sets:       1,
			Reps:       []models.RepValue{models.UnilateralReps(10, 8)},
			Weights:    []models.WeightValue{models.UnilateralWeight(30, 30)},
		},
	)

	s := Summarize(rec)
	want := 10*30.0 + 8*30.0
	if s.Volume != want {
		t.Errorf("volume = %v, want %v", s.Volume, want)
	}
}

func TestSummarizeTruncatedWeights(t *testing.T) {
	// A malformed record with fewer weights than reps must not panic.
	rec := record("Odd", time.Now(),
		models.LoggedExercise{
			Exercise: "Row",
			Sets:     2,
			Reps:     []models.RepValue{models.BilateralReps(10), models.BilateralReps(10)},
			Weights:  []models.WeightValue{models.BilateralWeight(50)},
		},
	)
	s := Summarize(rec)
	if s.Volume != 500 {
		t.Errorf("volume = %v, want 500 from the one complete pair", s.Volume)
	}
}

type stubStore struct {
	records []models.WorkoutRecord
	deleted []uuid.UUID
}

func (s *stubStore) ListWorkouts(context.Context, int) ([]models.WorkoutRecord, error) {
	return append([]models.WorkoutRecord(nil), s.records...), nil
}

func (s *stubStore) GetWorkout(_ context.Context, _ int, id uuid.UUID) (*models.WorkoutRecord, error) {
	for i := range s.records {
		if s.records[i].ID == id {
			return &s.records[i], nil
		}
	}
	return nil, nil
}

func (s *stubStore) DeleteWorkout(_ context.Context, _ int, id uuid.UUID) error {
	s.deleted = append(s.deleted, id)
	return nil
}

func TestListSortsNewestFirst(t *testing.T) {
	store := &stubStore{records: []models.WorkoutRecord{
		record("old", time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)),
		record("new", time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)),
	}}
	svc := NewService(store)

	records, err := svc.List(context.Background(), 1)
	if err != nil {
		t.Fatal(err)
	}
	if records[0].Name != "new" {
		t.Errorf("first record = %q, want newest", records[0].Name)
	}
}

func TestGetMissingReturnsNil(t *testing.T) {
	svc := NewService(&stubStore{})
	rec, err := svc.Get(context.Background(), 1, uuid.New())
	if err != nil {
		t.Fatal(err)
	}
	if rec != nil {
		t.Errorf("rec = %+v, want nil", rec)
	}
}

func TestSummaries(t *testing.T) {
	store := &stubStore{records: []models.WorkoutRecord{
		record("Push Day", time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
			models.LoggedExercise{
				Exercise: "Bench Press",
				Sets:     1,
				Reps:     []models.RepValue{models.BilateralReps(5)},
				Weights:  []models.WeightValue{models.BilateralWeight(135)},
			}),
	}}
	svc := NewService(store)

	summaries, err := svc.Summaries(context.Background(), 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(summaries) != 1 {
		t.Fatalf("got %d summaries, want 1", len(summaries))
	}
	if summaries[0].Volume != 675 {
		t.Errorf("volume = %v, want 675", summaries[0].Volume)
	}
}
