package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// LoggedExercise is one completed exercise inside a workout: the chosen
// configuration plus per-set reps and weights. Reps and weights are
// parallel lists of length Sets, all elements sharing the shape indicated
// by Unilateral.
type LoggedExercise struct {
	Exercise   string        `json:"exercise"`
	Type       EquipmentType `json:"type"`
	Brand      string        `json:"brand,omitempty"`
	Attachment string        `json:"attachment,omitempty"`
	Unilateral bool          `json:"unilateral,omitempty"`
	Sets       int           `json:"sets"`
	Reps       []RepValue    `json:"reps"`
	Weights    []WeightValue `json:"weights"`
	LoggedAt   time.Time     `json:"logged_at"`
}

// Validate checks the set-shape invariant: reps and weights match the set
// count and every element has the shape the unilateral flag announces.
func (e LoggedExercise) Validate() error {
	if e.Exercise == "" {
		return fmt.Errorf("exercise name is empty")
	}
	if e.Sets < 1 {
		return fmt.Errorf("set count %d below 1", e.Sets)
	}
	if len(e.Reps) != e.Sets || len(e.Weights) != e.Sets {
		return fmt.Errorf("%d sets but %d reps and %d weights", e.Sets, len(e.Reps), len(e.Weights))
	}
	for i, r := range e.Reps {
		if r.Unilateral != e.Unilateral {
			return fmt.Errorf("reps[%d] shape does not match unilateral=%v", i, e.Unilateral)
		}
	}
	for i, w := range e.Weights {
		if w.Unilateral != e.Unilateral {
			return fmt.Errorf("weights[%d] shape does not match unilateral=%v", i, e.Unilateral)
		}
	}
	return nil
}

// WorkoutDraft is the in-progress, resumable session state. One slot per
// user; overwritten on each save and cleared when the session ends.
type WorkoutDraft struct {
	Name      string           `json:"name"`
	StartTime time.Time        `json:"start_time"`
	Entries   []LoggedExercise `json:"entries"`
	Dirty     bool             `json:"-"`
}

// WorkoutRecord is a finalized workout. Immutable once written; the only
// mutation is user-initiated deletion.
type WorkoutRecord struct {
	ID        uuid.UUID        `json:"id"`
	Name      string           `json:"name"`
	Start     time.Time        `json:"start"`
	Entries   []LoggedExercise `json:"entries"`
	Timestamp time.Time        `json:"timestamp"`
}

// PreviousStats is the cached last performance for one exercise
// configuration, keyed by the composite stats key. PrevReps and PrevWeight
// hold the full ordered per-set lists from the most recent commit.
type PreviousStats struct {
	PrevSets   int           `json:"prev_sets"`
	PrevReps   []RepValue    `json:"prev_reps"`
	PrevWeight []WeightValue `json:"prev_weight"`
	Brand      string        `json:"brand,omitempty"`
	Attachment string        `json:"attachment,omitempty"`
	UpdatedAt  time.Time     `json:"updated_at"`
}

// previousStatsDoc mirrors PreviousStats for decoding, with the scalar
// last_* fields the oldest cache era wrote before the per-set lists.
type previousStatsDoc struct {
	PrevSets   int             `json:"prev_sets"`
	PrevReps   json.RawMessage `json:"prev_reps"`
	PrevWeight json.RawMessage `json:"prev_weight"`
	Brand      string          `json:"brand"`
	Attachment string          `json:"attachment"`
	UpdatedAt  time.Time       `json:"updated_at"`
	LastSets   int             `json:"last_sets"`
	LastReps   *RepValue       `json:"last_reps"`
	LastWeight *WeightValue    `json:"last_weight"`
}

// UnmarshalJSON tolerates all historical cache shapes: per-set lists,
// a bare scalar instead of a list, and the original last_sets/last_reps/
// last_weight scalar fields.
func (p *PreviousStats) UnmarshalJSON(b []byte) error {
	var doc previousStatsDoc
	if err := json.Unmarshal(b, &doc); err != nil {
		return fmt.Errorf("previous stats: %w", err)
	}
	*p = PreviousStats{
		PrevSets:   doc.PrevSets,
		Brand:      doc.Brand,
		Attachment: doc.Attachment,
		UpdatedAt:  doc.UpdatedAt,
	}
	if len(doc.PrevReps) > 0 {
		if err := decodeScalarOrList(doc.PrevReps, &p.PrevReps); err != nil {
			return fmt.Errorf("prev_reps: %w", err)
		}
	} else if doc.LastReps != nil {
		p.PrevReps = []RepValue{*doc.LastReps}
	}
	if len(doc.PrevWeight) > 0 {
		if err := decodeScalarOrList(doc.PrevWeight, &p.PrevWeight); err != nil {
			return fmt.Errorf("prev_weight: %w", err)
		}
	} else if doc.LastWeight != nil {
		p.PrevWeight = []WeightValue{*doc.LastWeight}
	}
	if p.PrevSets == 0 {
		p.PrevSets = doc.LastSets
	}
	if p.PrevSets == 0 {
		p.PrevSets = len(p.PrevReps)
	}
	return nil
}

// decodeScalarOrList decodes raw JSON that is either a list of T or a
// single T into a one-or-more element slice.
func decodeScalarOrList[T any](raw json.RawMessage, out *[]T) error {
	if err := json.Unmarshal(raw, out); err == nil {
		return nil
	}
	var single T
	if err := json.Unmarshal(raw, &single); err != nil {
		return err
	}
	*out = []T{single}
	return nil
}

// ParseTime parses a stored timestamp string, trying the formats written
// across revisions. Returns the zero time when nothing matches so that the
// caller can sort unparsable records last instead of erroring.
func ParseTime(s string) time.Time {
	for _, layout := range []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
	} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
