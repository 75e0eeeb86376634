// Package history serves the append-only workout history: descending
// listing, dashboard summaries, and irrevocable deletion.
package history

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/meltforce/terrapump/internal/models"
)

// Store is the history slice of the document store.
type Store interface {
	ListWorkouts(ctx context.Context, userID int) ([]models.WorkoutRecord, error)
	GetWorkout(ctx context.Context, userID int, id uuid.UUID) (*models.WorkoutRecord, error)
	DeleteWorkout(ctx context.Context, userID int, id uuid.UUID) error
}

// Service reads and deletes finalized workout records.
type Service struct {
	store Store
}

// NewService creates a history service.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// List returns the user's workouts ordered by start descending. Records
// whose stored start did not parse carry the zero time and sort last.
func (s *Service) List(ctx context.Context, userID int) ([]models.WorkoutRecord, error) {
	records, err := s.store.ListWorkouts(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list workouts: %w", err)
	}
	SortDescending(records)
	return records, nil
}

// SortDescending orders records newest first, zero start times last. The
// sort is stable so records with equal starts keep their stored order.
func SortDescending(records []models.WorkoutRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Start.After(records[j].Start)
	})
}

// Get returns one workout record, or nil when it does not exist.
func (s *Service) Get(ctx context.Context, userID int, id uuid.UUID) (*models.WorkoutRecord, error) {
	rec, err := s.store.GetWorkout(ctx, userID, id)
	if err != nil {
		return nil, fmt.Errorf("get workout %s: %w", id, err)
	}
	return rec, nil
}

// Delete removes one record. There is no undo and no soft-delete.
func (s *Service) Delete(ctx context.Context, userID int, id uuid.UUID) error {
	if err := s.store.DeleteWorkout(ctx, userID, id); err != nil {
		return fmt.Errorf("delete workout %s: %w", id, err)
	}
	return nil
}

// Summary is the dashboard list view of one workout.
type Summary struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Start     time.Time `json:"start"`
	Exercises int       `json:"exercises"`
	TotalSets int       `json:"total_sets"`
	Volume    float64   `json:"volume"`
}

// Summarize condenses a record for the list view. Volume is the sum of
// reps times weight over all sets; unilateral sets count each side.
func Summarize(rec models.WorkoutRecord) Summary {
	s := Summary{
		ID:        rec.ID,
		Name:      rec.Name,
		Start:     rec.Start,
		Exercises: len(rec.Entries),
	}
	for _, e := range rec.Entries {
		s.TotalSets += e.Sets
		for i := range e.Reps {
			if i >= len(e.Weights) {
				break
			}
			s.Volume += setVolume(e.Reps[i], e.Weights[i])
		}
	}
	return s
}

func setVolume(r models.RepValue, w models.WeightValue) float64 {
	if r.Unilateral || w.Unilateral {
		left := float64(sideReps(r, true)) * sideWeight(w, true)
		right := float64(sideReps(r, false)) * sideWeight(w, false)
		return left + right
	}
	return float64(r.Count) * w.Weight
}

func sideReps(r models.RepValue, left bool) int {
	if !r.Unilateral {
		return r.Count
	}
	if left {
		return r.Left
	}
	return r.Right
}

func sideWeight(w models.WeightValue, left bool) float64 {
	if !w.Unilateral {
		return w.Weight
	}
	if left {
		return w.Left
	}
	return w.Right
}

// Summaries lists the user's workouts as summaries, newest first.
func (s *Service) Summaries(ctx context.Context, userID int) ([]Summary, error) {
	records, err := s.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	summaries := make([]Summary, len(records))
	for i, rec := range records {
		summaries[i] = Summarize(rec)
	}
	return summaries, nil
}
