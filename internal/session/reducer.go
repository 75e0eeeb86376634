// Package session implements the workout-logging state machine: an
// explicit reducer over an immutable state value, plus a service that
// wraps it with persistence (previous-stats cache, resumable draft slot,
// and the append-only workout history).
package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/meltforce/terrapump/internal/models"
)

// Status is the reducer's lifecycle phase.
type Status string

const (
	StatusIdle   Status = "idle"
	StatusActive Status = "active"
)

var (
	// ErrSessionActive is returned when Start or Resume hits an already
	// active session; the caller must end or discard first.
	ErrSessionActive = errors.New("workout session already active")
	// ErrNoSession is returned for actions that require an active session.
	ErrNoSession = errors.New("no active workout session")
	// ErrNotDirty is returned when SaveProgress finds nothing unsaved.
	ErrNotDirty = errors.New("no unsaved progress")
	// ErrNoDraft is returned when Resume finds no saved draft slot.
	ErrNoDraft = errors.New("no resumable draft")
	// ErrNoPending is returned when Seed is asked for input defaults
	// before an exercise has been selected.
	ErrNoPending = errors.New("no exercise selected")
)

// Pending is the draft entry being configured before it is committed to
// the session log. It never touches Entries.
type Pending struct {
	Type       models.EquipmentType `json:"type,omitempty"`
	BrandID    string               `json:"brand_id,omitempty"`
	BrandName  string               `json:"brand_name,omitempty"`
	Machine    string               `json:"machine,omitempty"`
	Attachment string               `json:"attachment,omitempty"`
	Exercise   string               `json:"exercise,omitempty"`
	Unilateral bool                 `json:"unilateral,omitempty"`
	SetCount   int                  `json:"set_count"`
}

// State is the full reducer state. Dispatch treats it as a value: the
// returned state shares no mutable backing with the input.
type State struct {
	Status    Status                  `json:"status"`
	Name      string                  `json:"name,omitempty"`
	StartTime time.Time               `json:"start_time,omitzero"`
	Entries   []models.LoggedExercise `json:"entries"`
	Dirty     bool                    `json:"dirty"`
	Pending   Pending                 `json:"pending"`
}

// Idle returns the initial state.
func Idle() State {
	return State{Status: StatusIdle, Pending: Pending{SetCount: 1}}
}

// Draft converts the state to its persistable draft form.
func (s State) Draft() models.WorkoutDraft {
	return models.WorkoutDraft{
		Name:      s.Name,
		StartTime: s.StartTime,
		Entries:   cloneEntries(s.Entries),
	}
}

// Action is a reducer transition. Dispatch is the only interpreter.
type Action interface{ isAction() }

type action struct{}

func (action) isAction() {}

// Start opens a new session. Rejected while one is active.
type Start struct {
	action
	Name string
	At   time.Time
}

// Resume restores a previously saved draft verbatim.
type Resume struct {
	action
	Draft models.WorkoutDraft
}

// SelectType picks the equipment type for the pending entry and resets
// the type-dependent selection state so a stale brand or attachment from
// the previous type cannot leak into the new one.
type SelectType struct {
	action
	Type models.EquipmentType
}

// SelectExercise configures the pending entry's concrete selection.
type SelectExercise struct {
	action
	Exercise   string
	BrandID    string
	BrandName  string
	Machine    string
	Attachment string
	Unilateral bool
}

// SetSetCount sets the pending set count. Counts below one are rejected.
type SetSetCount struct {
	action
	Count int
}

// AddSet increments the pending set count.
type AddSet struct{ action }

// RemoveSet decrements the pending set count, never below one.
type RemoveSet struct{ action }

// CommitExercise appends a validated entry to the session log, marks the
// session dirty, and resets the pending set count for the next exercise.
type CommitExercise struct {
	action
	Entry models.LoggedExercise
}

// RemoveLogged removes one committed entry by index.
type RemoveLogged struct {
	action
	Index int
}

// MarkSaved clears the dirty flag after the draft slot has been written.
type MarkSaved struct{ action }

// End closes the session. The service persists the record before
// dispatching this.
type End struct{ action }

// Discard drops the session without persisting anything.
type Discard struct{ action }

// Dispatch applies one action and returns the next state. It is pure: no
// I/O, no clock, no mutation of the input.
func Dispatch(s State, a Action) (State, error) {
	switch act := a.(type) {
	case Start:
		if s.Status == StatusActive {
			return s, ErrSessionActive
		}
		next := Idle()
		next.Status = StatusActive
		next.Name = act.Name
		next.StartTime = act.At
		next.Entries = []models.LoggedExercise{}
		return next, nil

	case Resume:
		if s.Status == StatusActive {
			return s, ErrSessionActive
		}
		next := Idle()
		next.Status = StatusActive
		next.Name = act.Draft.Name
		next.StartTime = act.Draft.StartTime
		next.Entries = cloneEntries(act.Draft.Entries)
		return next, nil

	case SelectType:
		if s.Status != StatusActive {
			return s, ErrNoSession
		}
		next := clone(s)
		next.Pending = Pending{Type: act.Type, SetCount: max(1, s.Pending.SetCount)}
		return next, nil

	case SelectExercise:
		if s.Status != StatusActive {
			return s, ErrNoSession
		}
		next := clone(s)
		next.Pending.Exercise = act.Exercise
		next.Pending.BrandID = act.BrandID
		next.Pending.BrandName = act.BrandName
		next.Pending.Machine = act.Machine
		next.Pending.Attachment = act.Attachment
		next.Pending.Unilateral = act.Unilateral
		return next, nil

	case SetSetCount:
		if s.Status != StatusActive {
			return s, ErrNoSession
		}
		if act.Count < 1 {
			return s, fmt.Errorf("set count %d below 1", act.Count)
		}
		next := clone(s)
		next.Pending.SetCount = act.Count
		return next, nil

	case AddSet:
		if s.Status != StatusActive {
			return s, ErrNoSession
		}
		next := clone(s)
		next.Pending.SetCount++
		return next, nil

	case RemoveSet:
		if s.Status != StatusActive {
			return s, ErrNoSession
		}
		if s.Pending.SetCount <= 1 {
			return s, nil
		}
		next := clone(s)
		next.Pending.SetCount--
		return next, nil

	case CommitExercise:
		if s.Status != StatusActive {
			return s, ErrNoSession
		}
		if err := act.Entry.Validate(); err != nil {
			return s, fmt.Errorf("commit exercise: %w", err)
		}
		if act.Entry.Sets != s.Pending.SetCount {
			return s, fmt.Errorf("commit exercise: %d sets submitted but %d configured",
				act.Entry.Sets, s.Pending.SetCount)
		}
		next := clone(s)
		next.Entries = append(next.Entries, act.Entry)
		next.Dirty = true
		next.Pending.SetCount = 1
		return next, nil

	case RemoveLogged:
		if s.Status != StatusActive {
			return s, ErrNoSession
		}
		if act.Index < 0 || act.Index >= len(s.Entries) {
			return s, fmt.Errorf("remove logged exercise: index %d out of range [0,%d)", act.Index, len(s.Entries))
		}
		next := clone(s)
		next.Entries = append(next.Entries[:act.Index], next.Entries[act.Index+1:]...)
		next.Dirty = true
		return next, nil

	case MarkSaved:
		if s.Status != StatusActive {
			return s, ErrNoSession
		}
		if !s.Dirty {
			return s, ErrNotDirty
		}
		next := clone(s)
		next.Dirty = false
		return next, nil

	case End:
		if s.Status != StatusActive {
			return s, ErrNoSession
		}
		return Idle(), nil

	case Discard:
		return Idle(), nil

	default:
		return s, fmt.Errorf("unknown action %T", a)
	}
}

func clone(s State) State {
	s.Entries = cloneEntries(s.Entries)
	return s
}

func cloneEntries(entries []models.LoggedExercise) []models.LoggedExercise {
	if entries == nil {
		return nil
	}
	out := make([]models.LoggedExercise, len(entries))
	copy(out, entries)
	return out
}
